// Package schema validates rubrics before they are used for scoring.
package schema

import (
	"fmt"
	"math"
	"strings"

	"github.com/dshills/codereward/internal/rubric"
)

// weightTolerance bounds the drift allowed when summing check weights.
const weightTolerance = 1e-9

// ValidationError describes a single schema violation.
type ValidationError struct {
	Path    string
	Message string
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Path, v.Message)
}

// Validate checks a Rubric for structural validity. Check weights must be
// non-negative and sum to 1.0 so that quality scores stay within [0, 1].
func Validate(r *rubric.Rubric) []ValidationError {
	var errs []ValidationError

	if r.Name == "" {
		errs = append(errs, ValidationError{"name", "required"})
	}
	if len(r.Checks) == 0 {
		errs = append(errs, ValidationError{"checks", "at least one check required"})
	}

	checkIDs := make(map[string]bool)
	issues := make(map[string]bool)
	for i, c := range r.Checks {
		prefix := fmt.Sprintf("checks[%d]", i)
		if c.ID == "" {
			errs = append(errs, ValidationError{prefix + ".id", "required"})
		} else if checkIDs[c.ID] {
			errs = append(errs, ValidationError{prefix + ".id", fmt.Sprintf("duplicate ID: %q", c.ID)})
		} else {
			checkIDs[c.ID] = true
		}
		if c.Weight < 0 {
			errs = append(errs, ValidationError{prefix + ".weight", fmt.Sprintf("must be >= 0, got %v", c.Weight)})
		}
		if c.Issue == "" {
			errs = append(errs, ValidationError{prefix + ".issue", "required"})
		} else if issues[c.Issue] {
			errs = append(errs, ValidationError{prefix + ".issue", fmt.Sprintf("duplicate issue: %q", c.Issue)})
		} else {
			issues[c.Issue] = true
		}
		if c.Suggestion == "" {
			errs = append(errs, ValidationError{prefix + ".suggestion", "required"})
		}
		errs = append(errs, validateRule(prefix, c)...)
	}

	if len(r.Checks) > 0 {
		if total := r.TotalWeight(); math.Abs(total-1.0) > weightTolerance {
			errs = append(errs, ValidationError{"checks", fmt.Sprintf("weights sum to %v, want 1.0", total)})
		}
	}

	// Reward keywords
	if r.Reward.Step <= 0 {
		errs = append(errs, ValidationError{"reward.step", fmt.Sprintf("must be > 0, got %v", r.Reward.Step)})
	}
	errs = append(errs, validateKeywords("reward.positive", r.Reward.Positive)...)
	errs = append(errs, validateKeywords("reward.negative", r.Reward.Negative)...)

	// Suggestions
	if t := r.Suggestions.ExcellentThreshold; t < 0 || t > 1 {
		errs = append(errs, ValidationError{"suggestions.excellent_threshold", fmt.Sprintf("must be within [0, 1], got %v", t)})
	}
	if r.Suggestions.Excellent == "" {
		errs = append(errs, ValidationError{"suggestions.excellent", "required"})
	}
	if r.Suggestions.Fallback == "" {
		errs = append(errs, ValidationError{"suggestions.fallback", "required"})
	}

	return errs
}

func validateRule(prefix string, c rubric.Check) []ValidationError {
	if !c.Rule.Valid() {
		return []ValidationError{{prefix + ".rule", fmt.Sprintf("invalid: %q", c.Rule)}}
	}
	var errs []ValidationError
	switch c.Rule {
	case rubric.RuleContainsAll, rubric.RuleContainsNone, rubric.RuleContainsAny:
		if len(c.Tokens) == 0 {
			errs = append(errs, ValidationError{prefix + ".tokens", "at least one token required"})
		}
		for j, tok := range c.Tokens {
			if tok == "" {
				errs = append(errs, ValidationError{fmt.Sprintf("%s.tokens[%d]", prefix, j), "must not be empty"})
			}
		}
	case rubric.RuleShortNames:
		if c.Max < 1 {
			errs = append(errs, ValidationError{prefix + ".max", "must be >= 1"})
		}
	}
	return errs
}

// validateKeywords rejects keywords that could never match lower-cased feedback.
func validateKeywords(path string, keywords []string) []ValidationError {
	var errs []ValidationError
	if len(keywords) == 0 {
		errs = append(errs, ValidationError{path, "at least one keyword required"})
	}
	for i, kw := range keywords {
		p := fmt.Sprintf("%s[%d]", path, i)
		switch {
		case kw == "":
			errs = append(errs, ValidationError{p, "must not be empty"})
		case kw != strings.ToLower(kw):
			errs = append(errs, ValidationError{p, fmt.Sprintf("must be lower-case, got %q", kw)})
		}
	}
	return errs
}
