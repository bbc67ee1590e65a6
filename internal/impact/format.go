package impact

import (
	"fmt"
	"strings"

	"github.com/zheng/aurora/internal/display"
)

// FormatMarkdown renders the report as a markdown document.
func (r *Report) FormatMarkdown() string {
	var sb strings.Builder

	sb.WriteString("## Impact analysis\n\n")
	sb.WriteString("**Roots:**\n")
	if len(r.Roots) == 0 {
		sb.WriteString("_none_\n\n")
	} else {
		for _, n := range r.Roots {
			sb.WriteString(fmt.Sprintf("- `%s` (%s:%d)\n", n.QualifiedName, n.File, n.LineStart))
		}
		sb.WriteString("\n")
	}

	if len(r.Entries) == 0 {
		sb.WriteString("_No entities depend on the root set._\n")
		return sb.String()
	}

	sb.WriteString("| Entity | Depth | Criticality | Justification |\n")
	sb.WriteString("|--------|-------|-------------|---------------|\n")
	for _, e := range r.Entries {
		sb.WriteString(fmt.Sprintf("| `%s` | %d | %s | %s |\n",
			e.Node.QualifiedName, e.Depth, e.Criticality, e.Justification))
	}
	sb.WriteString("\n")
	return sb.String()
}

// FormatTree renders the report as an aligned terminal listing, grouped by
// criticality from highest to lowest.
func (r *Report) FormatTree() string {
	var sb strings.Builder

	sb.WriteString("📍 Roots\n")
	if len(r.Roots) == 0 {
		sb.WriteString("└── (none)\n")
		return sb.String()
	}
	for i, n := range r.Roots {
		prefix := "├──"
		if i == len(r.Roots)-1 {
			prefix = "└──"
		}
		sb.WriteString(fmt.Sprintf("%s %s  %s\n", prefix,
			display.ShortName(n.QualifiedName), display.Location(n.File, n.LineStart)))
	}
	sb.WriteString("\n")

	if len(r.Entries) == 0 {
		sb.WriteString("⬆️ Dependents\n└── (none)\n")
		return sb.String()
	}

	maxWidth := 0
	for _, e := range r.Entries {
		if w := len(display.ShortName(e.Node.QualifiedName)); w > maxWidth {
			maxWidth = w
		}
	}

	var ordered []Entry
	for _, level := range []Criticality{CriticalityHigh, CriticalityMedium, CriticalityLow} {
		for _, e := range r.Entries {
			if e.Criticality == level {
				ordered = append(ordered, e)
			}
		}
	}

	sb.WriteString(fmt.Sprintf("⬆️ Dependents (%d)\n", len(ordered)))
	for i, e := range ordered {
		prefix := "├──"
		if i == len(ordered)-1 {
			prefix = "└──"
		}
		sb.WriteString(fmt.Sprintf("%s %s %-*s  depth %d  %s\n",
			prefix, display.Icon(string(e.Criticality)), maxWidth,
			display.ShortName(e.Node.QualifiedName), e.Depth,
			display.Location(e.Node.File, e.Node.LineStart)))
	}
	return sb.String()
}

// Summary returns a one-line overview of the report.
func (r *Report) Summary() string {
	var high, medium, low int
	for _, e := range r.Entries {
		switch e.Criticality {
		case CriticalityHigh:
			high++
		case CriticalityMedium:
			medium++
		default:
			low++
		}
	}
	return fmt.Sprintf("roots: %d, affected: %d (high: %d, medium: %d, low: %d)",
		len(r.Roots), len(r.Entries), high, medium, low)
}
