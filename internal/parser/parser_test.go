package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModulePath(t *testing.T) {
	cases := []struct {
		path string
		want string
	}{
		{"pkg/mod.py", "pkg.mod"},
		{"pkg/__init__.py", "pkg"},
		{"./pkg/mod.py", "pkg.mod"},
		{"top.py", "top"},
		{"a/b/c.py", "a.b.c"},
		{`win\style\mod.py`, "win.style.mod"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ModulePath(tc.path), tc.path)
	}
}

func TestRegistryRoutesByExtension(t *testing.T) {
	r := DefaultRegistry()

	p, ok := r.ForFile("pkg/app.py")
	require.True(t, ok)
	assert.Equal(t, "python", p.Language())

	p, ok = r.ForFile("cmd/main.go")
	require.True(t, ok)
	assert.Equal(t, "go", p.Language())

	p, ok = r.ForFile("LIB.PYI")
	require.True(t, ok, "extension match is case-insensitive")
	assert.Equal(t, "python", p.Language())

	_, ok = r.ForFile("notes.txt")
	assert.False(t, ok)
}

func TestRegistryExtensionsSorted(t *testing.T) {
	assert.Equal(t, []string{".go", ".py", ".pyi"}, DefaultRegistry().Extensions())
}
