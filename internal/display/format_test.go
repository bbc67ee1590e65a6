package display

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShortName(t *testing.T) {
	assert.Equal(t, "handlers.login", ShortName("services.auth.handlers.login"))
	assert.Equal(t, "auth.login", ShortName("auth.login"))
	assert.Equal(t, "login", ShortName("login"))
}

func TestIcon(t *testing.T) {
	assert.Equal(t, "🔴", Icon("high"))
	assert.Equal(t, "🟡", Icon("medium"))
	assert.Equal(t, "🟢", Icon("low"))
	assert.Equal(t, "🟢", Icon(""))
}

func TestLocation(t *testing.T) {
	assert.Equal(t, "auth.py:12", Location("auth.py", 12))
	assert.Equal(t, "-", Location("", 0))
}
