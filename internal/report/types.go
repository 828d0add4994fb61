// Package report defines the output types produced by a training run.
package report

import "math"

const (
	StatusSuccess = "success"
	StatusError   = "error"

	// Model and TrainingMethod identify the scoring pipeline to consumers.
	Model          = "lightweight-rl-v1"
	TrainingMethod = "reward-based-policy-improvement"

	MessageNoSnippets = "No code snippets to train on"
)

// Report is the top-level output object of a successful run.
// PolicyUpdated is always true; consumers expect the field.
type Report struct {
	Status           string   `json:"status"`
	Model            string   `json:"model"`
	TrainingMethod   string   `json:"training_method"`
	SamplesProcessed int      `json:"samples_processed"`
	AvgReward        float64  `json:"avg_reward"`
	TotalReward      float64  `json:"total_reward"`
	Results          []Result `json:"results"`
	PolicyUpdated    bool     `json:"policy_updated"`
}

// Result is the per-snippet record.
type Result struct {
	SnippetID      string   `json:"snippet_id"`
	SnippetPreview string   `json:"snippet_preview"`
	QualityScore   float64  `json:"quality_score"`
	RewardSignal   float64  `json:"reward_signal"`
	AdjustedScore  float64  `json:"adjusted_score"`
	IssuesFound    []string `json:"issues_found"`
	Suggestion     string   `json:"suggestion"`
	Feedback       string   `json:"feedback"`
}

// ErrorResult is emitted instead of a Report when there is nothing to process.
type ErrorResult struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// NoSnippets returns the error result for an empty snippet list.
func NoSnippets() ErrorResult {
	return ErrorResult{Status: StatusError, Message: MessageNoSnippets}
}

// Round rounds v to three decimal places.
func Round(v float64) float64 {
	return math.Round(v*1000) / 1000
}
