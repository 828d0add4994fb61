package render

import (
	"strings"
	"testing"

	"github.com/dshills/codereward/internal/report"
)

func sampleReport() *report.Report {
	return &report.Report{
		Status:           report.StatusSuccess,
		Model:            report.Model,
		TrainingMethod:   report.TrainingMethod,
		SamplesProcessed: 2,
		AvgReward:        -0.05,
		TotalReward:      -0.1,
		Results: []report.Result{
			{
				SnippetID:      "8883a580",
				SnippetPreview: "function add(a: number, b: number) => a + b;",
				QualityScore:   1.0,
				RewardSignal:   0.9,
				AdjustedScore:  1.45,
				IssuesFound:    []string{},
				Suggestion:     "Code quality is excellent - maintain current standards",
				Feedback:       "great",
			},
			{
				SnippetID:      "32819378",
				SnippetPreview: "console.log('x'); // TODO fix",
				QualityScore:   0.3,
				RewardSignal:   -1.0,
				AdjustedScore:  -0.2,
				IssuesFound:    []string{"Missing type annotations", "Contains debug statements"},
				Suggestion:     "Add TypeScript types to improve code safety",
				Feedback:       "bad bad bad bad",
			},
		},
		PolicyUpdated: true,
	}
}

func TestMarkdown(t *testing.T) {
	md := Markdown(sampleReport())

	checks := []string{
		"# Code Reward Report",
		"**Status:** success",
		"**Model:** lightweight-rl-v1 (reward-based-policy-improvement)",
		"**Samples:** 2",
		"**Reward:** -0.050 average, -0.100 total",
		"## Snippets",
		"### 8883a580",
		"| 1.000 | 0.900 | 1.450 |",
		"No issues found.",
		"### 32819378",
		"| 0.300 | -1.000 | -0.200 |",
		"- Missing type annotations",
		"- Contains debug statements",
		"**Suggestion:** Add TypeScript types to improve code safety",
		"**Feedback:** bad bad bad bad",
	}
	for _, want := range checks {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q", want)
		}
	}
}

func TestMarkdownOrder(t *testing.T) {
	md := Markdown(sampleReport())
	first := strings.Index(md, "### 8883a580")
	second := strings.Index(md, "### 32819378")
	if first < 0 || second < 0 || first > second {
		t.Errorf("results out of order: %d, %d", first, second)
	}
}

func TestMarkdownNoResults(t *testing.T) {
	r := sampleReport()
	r.Results = nil
	md := Markdown(r)
	if !strings.Contains(md, "No snippets scored.") {
		t.Error("expected empty-results notice")
	}
	if strings.Contains(md, "## Snippets") {
		t.Error("did not expect snippets section")
	}
}

func TestMarkdownFenceEscaping(t *testing.T) {
	r := sampleReport()
	r.Results[0].SnippetPreview = "```go\nfmt.Println()\n```"
	md := Markdown(r)
	if !strings.Contains(md, "~~~\n```go") {
		t.Error("expected tilde fence around preview containing backticks")
	}
}

func TestMarkdownError(t *testing.T) {
	md := MarkdownError(report.NoSnippets())
	if !strings.Contains(md, "**Status:** error") || !strings.Contains(md, "No code snippets to train on") {
		t.Errorf("unexpected error markdown: %s", md)
	}
}
