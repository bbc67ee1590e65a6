// Package display holds terminal formatting helpers shared by the report
// renderers and the CLI.
package display

import (
	"strconv"
	"strings"
)

// ShortName trims a dotted qualified name down to its last two segments.
// e.g. "services.auth.handlers.login" -> "handlers.login"
func ShortName(qualifiedName string) string {
	parts := strings.Split(qualifiedName, ".")
	if len(parts) <= 2 {
		return qualifiedName
	}
	return strings.Join(parts[len(parts)-2:], ".")
}

// Icon returns the marker used for a criticality level in terminal output.
func Icon(criticality string) string {
	switch criticality {
	case "high":
		return "🔴"
	case "medium":
		return "🟡"
	default:
		return "🟢"
	}
}

// Location renders "file:line", or a dash for synthetic nodes without one.
func Location(file string, line int) string {
	if file == "" {
		return "-"
	}
	return file + ":" + strconv.Itoa(line)
}
