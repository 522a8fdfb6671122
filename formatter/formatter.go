// Package formatter renders lint issues as human-readable, colored
// diagnostics with a source snippet and a caret under the offending spot.
package formatter

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/veridian-labs/vlin/internal"
	"github.com/veridian-labs/vlin/internal/types"
)

const tabWidth = 8

var (
	errorStyle   = color.New(color.FgRed, color.Bold)
	warningStyle = color.New(color.FgHiYellow, color.Bold)
	infoStyle    = color.New(color.FgHiBlue, color.Bold)
	ruleStyle    = color.New(color.FgYellow, color.Bold)
	fileStyle    = color.New(color.FgCyan, color.Bold)
	lineStyle    = color.New(color.FgHiBlue, color.Bold)
	messageStyle = color.New(color.FgRed, color.Bold)
)

// GenerateFormattedIssue formats a slice of issues belonging to one file
// into a human-readable string.
func GenerateFormattedIssue(issues []types.Issue, source *internal.SourceCode) string {
	var builder strings.Builder
	for _, issue := range issues {
		builder.WriteString(formatIssueHeader(issue))
		builder.WriteString(formatSnippet(issue, source))
	}
	return builder.String()
}

func severityStyle(s types.Severity) *color.Color {
	switch s {
	case types.SeverityWarning:
		return warningStyle
	case types.SeverityInfo:
		return infoStyle
	default:
		return errorStyle
	}
}

func formatIssueHeader(issue types.Issue) string {
	style := severityStyle(issue.Severity)
	return style.Sprintf("%s: ", issue.Severity) + ruleStyle.Sprint(issue.Rule) + "\n" +
		lineStyle.Sprint(" --> ") +
		fileStyle.Sprintf("%s:%d:%d", issue.Filename, issue.Start.Line, issue.Start.Column) + "\n"
}

func formatSnippet(issue types.Issue, source *internal.SourceCode) string {
	var result strings.Builder

	if source == nil || issue.Start.Line < 1 || issue.Start.Line > len(source.Lines) {
		result.WriteString(messageStyle.Sprintf("  %s\n\n", issue.Message))
		return result.String()
	}

	lineNumberStr := fmt.Sprintf("%d", issue.Start.Line)
	padding := strings.Repeat(" ", len(lineNumberStr)-1)
	result.WriteString(lineStyle.Sprintf("  %s|\n", padding))

	raw := source.Lines[issue.Start.Line-1]
	line := expandTabs(raw)
	result.WriteString(lineStyle.Sprintf("%d | ", issue.Start.Line))
	result.WriteString(line + "\n")

	visualColumn := calculateVisualColumn(raw, issue.Start.Column)
	result.WriteString(lineStyle.Sprintf("  %s| ", padding))
	result.WriteString(strings.Repeat(" ", visualColumn))
	result.WriteString(messageStyle.Sprintf("^ %s\n\n", issue.Message))

	return result.String()
}

func expandTabs(line string) string {
	var expanded strings.Builder
	for i, ch := range line {
		if ch == '\t' {
			spaceCount := tabWidth - (i % tabWidth)
			expanded.WriteString(strings.Repeat(" ", spaceCount))
		} else {
			expanded.WriteRune(ch)
		}
	}
	return expanded.String()
}

func calculateVisualColumn(line string, column int) int {
	visualColumn := 0
	for i, ch := range line {
		if i+1 == column {
			break
		}
		if ch == '\t' {
			visualColumn += tabWidth - (visualColumn % tabWidth)
		} else {
			visualColumn++
		}
	}
	return visualColumn
}
