package cli

import (
	"strings"

	"github.com/shivros/lnq/internal/linear"
)

const descriptionPreviewLen = 80

// formatIssueLine renders one issue as a single output line:
// "ENG-42 [In Progress] Fix login flow (due 2026-03-10) - first line of description".
func formatIssueLine(issue *linear.Issue, hideDescription bool) string {
	var builder strings.Builder

	builder.WriteString(issue.Identifier)
	builder.WriteString(" [")
	builder.WriteString(issue.State.Name)
	builder.WriteString("] ")
	builder.WriteString(issue.Title)

	if issue.DueDate != nil && *issue.DueDate != "" {
		builder.WriteString(" (due ")
		builder.WriteString(*issue.DueDate)
		builder.WriteString(")")
	}

	if issue.Assignee != nil && issue.Assignee.Email != "" {
		builder.WriteString(" @")
		builder.WriteString(issue.Assignee.Email)
	}

	if !hideDescription && issue.Description != "" {
		builder.WriteString(" - ")
		builder.WriteString(descriptionPreview(issue.Description))
	}

	return builder.String()
}

// descriptionPreview reduces a description to its first line, truncated.
func descriptionPreview(desc string) string {
	line, _, _ := strings.Cut(desc, "\n")
	line = strings.TrimSpace(line)

	if len(line) > descriptionPreviewLen {
		return line[:descriptionPreviewLen] + "..."
	}

	return line
}
