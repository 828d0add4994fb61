// Package reward converts free-text feedback into a bounded sentiment signal.
package reward

import (
	"strings"

	"github.com/dshills/codereward/internal/rubric"
)

// Min and Max bound every reward returned by Compute.
const (
	Min = -1.0
	Max = 1.0
)

// Calculator scores feedback by keyword occurrence.
type Calculator struct {
	step     float64
	positive []string
	negative []string
}

// New returns a Calculator using the reward keywords of r.
func New(r *rubric.Rubric) *Calculator {
	return &Calculator{
		step:     r.Reward.Step,
		positive: r.Reward.Positive,
		negative: r.Reward.Negative,
	}
}

// Compute lower-cases feedback and moves the reward by one step for every
// substring occurrence of each keyword, then clamps the sum to [Min, Max].
// Keywords match inside longer words, so "nicety" counts as "nice".
func (c *Calculator) Compute(feedback string) float64 {
	text := strings.ToLower(feedback)
	var r float64
	for _, kw := range c.positive {
		for i, n := 0, strings.Count(text, kw); i < n; i++ {
			r += c.step
		}
	}
	for _, kw := range c.negative {
		for i, n := 0, strings.Count(text, kw); i < n; i++ {
			r -= c.step
		}
	}
	return clamp(r)
}

func clamp(v float64) float64 {
	return max(Min, min(Max, v))
}
