// Package render produces Markdown output from a training report.
package render

import (
	"fmt"
	"strings"

	"github.com/dshills/codereward/internal/report"
)

// Markdown renders a report as a Markdown document.
func Markdown(r *report.Report) string {
	var b strings.Builder

	// Summary
	b.WriteString("# Code Reward Report\n\n")
	fmt.Fprintf(&b, "**Status:** %s\n", r.Status)
	fmt.Fprintf(&b, "**Model:** %s (%s)\n", r.Model, r.TrainingMethod)
	fmt.Fprintf(&b, "**Samples:** %d\n", r.SamplesProcessed)
	fmt.Fprintf(&b, "**Reward:** %s average, %s total\n\n", formatScore(r.AvgReward), formatScore(r.TotalReward))

	if len(r.Results) == 0 {
		b.WriteString("No snippets scored.\n\n")
		return b.String()
	}

	b.WriteString("## Snippets\n\n")
	for _, res := range r.Results {
		renderResult(&b, res)
	}

	return b.String()
}

// MarkdownError renders an error result.
func MarkdownError(e report.ErrorResult) string {
	return fmt.Sprintf("# Code Reward Report\n\n**Status:** %s\n\n%s\n", e.Status, e.Message)
}

func renderResult(b *strings.Builder, res report.Result) {
	fmt.Fprintf(b, "### %s\n\n", res.SnippetID)
	fence := "```"
	if strings.Contains(res.SnippetPreview, "```") {
		fence = "~~~"
	}
	fmt.Fprintf(b, "%s\n%s\n%s\n\n", fence, res.SnippetPreview, fence)
	fmt.Fprintf(b, "| quality | reward | adjusted |\n|---|---|---|\n| %s | %s | %s |\n\n",
		formatScore(res.QualityScore), formatScore(res.RewardSignal), formatScore(res.AdjustedScore))
	fmt.Fprintf(b, "**Feedback:** %s\n\n", res.Feedback)
	if len(res.IssuesFound) > 0 {
		b.WriteString("**Issues:**\n")
		for _, iss := range res.IssuesFound {
			fmt.Fprintf(b, "- %s\n", iss)
		}
		b.WriteString("\n")
	} else {
		b.WriteString("No issues found.\n\n")
	}
	fmt.Fprintf(b, "**Suggestion:** %s\n\n", res.Suggestion)
}

func formatScore(v float64) string {
	return fmt.Sprintf("%.3f", v)
}
