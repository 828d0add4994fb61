// Package trainer pairs snippets with feedback, combines quality and reward
// scores, and builds the run report.
package trainer

import (
	"go.uber.org/zap"

	"github.com/dshills/codereward/internal/quality"
	"github.com/dshills/codereward/internal/redact"
	"github.com/dshills/codereward/internal/report"
	"github.com/dshills/codereward/internal/reward"
	"github.com/dshills/codereward/internal/rubric"
	"github.com/dshills/codereward/internal/snippet"
)

// RewardWeight scales the reward before it is added to the quality score.
const RewardWeight = 0.5

// HistoryEntry records the scores of one processed snippet.
type HistoryEntry struct {
	Quality  float64 `json:"quality"`
	Reward   float64 `json:"reward"`
	Adjusted float64 `json:"adjusted"`
}

// Options configures a Trainer.
type Options struct {
	// PreviewLength is the number of characters kept in snippet previews.
	// Zero selects snippet.DefaultPreviewLength.
	PreviewLength int
	// Redact masks credentials in previews. Snippet ids still hash the
	// original code.
	Redact bool
	Logger *zap.Logger
}

// Trainer scores batches of snippets. History lives only as long as the
// Trainer. A Trainer is not safe for concurrent use.
type Trainer struct {
	rubric     *rubric.Rubric
	scorer     *quality.Scorer
	calculator *reward.Calculator
	previewLen int
	redact     bool
	logger     *zap.Logger
	history    map[string][]HistoryEntry
}

// New returns a Trainer that scores with r.
func New(r *rubric.Rubric, opts Options) *Trainer {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	previewLen := opts.PreviewLength
	if previewLen <= 0 {
		previewLen = snippet.DefaultPreviewLength
	}
	return &Trainer{
		rubric:     r,
		scorer:     quality.New(r),
		calculator: reward.New(r),
		previewLen: previewLen,
		redact:     opts.Redact,
		logger:     logger,
		history:    make(map[string][]HistoryEntry),
	}
}

// Train scores every snippet in order, pairing snippet i with feedback i or
// snippet.DefaultFeedback when there is none. The adjusted score is not
// clamped and may fall outside [0, 1].
func (t *Trainer) Train(b *snippet.Batch) *report.Report {
	rep := &report.Report{
		Status:           report.StatusSuccess,
		Model:            report.Model,
		TrainingMethod:   report.TrainingMethod,
		SamplesProcessed: len(b.CodeSnippets),
		Results:          make([]report.Result, 0, len(b.CodeSnippets)),
		PolicyUpdated:    true,
	}

	var total float64
	for i, s := range b.CodeSnippets {
		id := snippet.Hash(s.Code)
		feedback := b.FeedbackAt(i)

		score := t.scorer.Score(s.Code)
		r := t.calculator.Compute(feedback)
		adjusted := score.Quality + r*RewardWeight
		total += r

		t.history[id] = append(t.history[id], HistoryEntry{
			Quality:  score.Quality,
			Reward:   r,
			Adjusted: adjusted,
		})

		t.logger.Debug("scored snippet",
			zap.Int("index", i),
			zap.String("snippet_id", id),
			zap.Float64("quality", score.Quality),
			zap.Float64("reward", r),
			zap.Strings("issues", score.Issues))

		rep.Results = append(rep.Results, report.Result{
			SnippetID:      id,
			SnippetPreview: t.preview(id, s.Code),
			QualityScore:   report.Round(score.Quality),
			RewardSignal:   report.Round(r),
			AdjustedScore:  report.Round(adjusted),
			IssuesFound:    score.Issues,
			Suggestion:     t.rubric.Suggest(score.Quality, score.Issues),
			Feedback:       feedback,
		})
	}

	if n := len(b.CodeSnippets); n > 0 {
		rep.AvgReward = report.Round(total / float64(n))
	}
	rep.TotalReward = report.Round(total)
	return rep
}

func (t *Trainer) preview(id, code string) string {
	if t.redact {
		var hits []string
		code, hits = redact.Code(code)
		if len(hits) > 0 {
			t.logger.Warn("redacted credentials in snippet preview",
				zap.String("snippet_id", id),
				zap.Strings("rules", hits))
		}
	}
	return snippet.Preview(code, t.previewLen)
}

// History returns a copy of the per-snippet history keyed by content hash.
func (t *Trainer) History() map[string][]HistoryEntry {
	out := make(map[string][]HistoryEntry, len(t.history))
	for k, v := range t.history {
		out[k] = append([]HistoryEntry(nil), v...)
	}
	return out
}
