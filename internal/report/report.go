// Package report exports a stored conversation as a markdown impact
// analysis report.
package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/zheng/aurora/internal/storage"
)

// Render produces the markdown document for one conversation.
func Render(conversationID string, items []storage.Interaction, now time.Time) string {
	var sb strings.Builder

	sb.WriteString("# Impact Analysis Report\n\n")
	fmt.Fprintf(&sb, "**Conversation ID:** `%s`\n", conversationID)
	fmt.Fprintf(&sb, "**Generated on:** %s\n\n", now.Format("2006-01-02 15:04:05"))
	sb.WriteString("---\n\n")

	for i, it := range items {
		fmt.Fprintf(&sb, "### Interaction %d\n\n", i+1)
		fmt.Fprintf(&sb, "**User Query:**\n```\n%s\n```\n\n", it.Query)
		fmt.Fprintf(&sb, "**Response:**\n%s\n\n", it.Response)
		sb.WriteString("---\n\n")
	}

	sources := collectSources(items)
	if len(sources) > 0 {
		sb.WriteString("## Referenced sources\n\n")
		for _, s := range sources {
			fmt.Fprintf(&sb, "- `%s`\n", s)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// collectSources pulls the source citations out of stored responses, sorted
// and deduplicated.
func collectSources(items []storage.Interaction) []string {
	seen := make(map[string]bool)
	var sources []string
	for _, it := range items {
		idx := strings.Index(it.Response, "**Sources:**")
		if idx < 0 {
			continue
		}
		for _, line := range strings.Split(it.Response[idx:], "\n") {
			start := strings.Index(line, "`")
			if start < 0 {
				continue
			}
			rest := line[start+1:]
			end := strings.Index(rest, "`")
			if end < 0 {
				continue
			}
			src := rest[:end]
			if src != "" && !seen[src] {
				seen[src] = true
				sources = append(sources, src)
			}
		}
	}
	sort.Strings(sources)
	return sources
}
