package schema

import (
	"testing"

	"github.com/dshills/codereward/internal/rubric"
)

func validRubric() *rubric.Rubric {
	return &rubric.Rubric{
		Name:    "test",
		Version: 1,
		Checks: []rubric.Check{
			{ID: "a", Weight: 0.6, Rule: rubric.RuleContainsAll, Tokens: []string{":"}, Issue: "No colon", Suggestion: "Add a colon"},
			{ID: "b", Weight: 0.4, Rule: rubric.RuleShortNames, Max: 3, Issue: "Short names", Suggestion: "Rename"},
		},
		Reward: rubric.Reward{Step: 0.3, Positive: []string{"good"}, Negative: []string{"bad"}},
		Suggestions: rubric.Suggestions{
			ExcellentThreshold: 0.8,
			Excellent:          "great",
			Fallback:           "review",
		},
	}
}

func hasPath(errs []ValidationError, path string) bool {
	for _, e := range errs {
		if e.Path == path {
			return true
		}
	}
	return false
}

func TestValidateValid(t *testing.T) {
	errs := Validate(validRubric())
	for _, e := range errs {
		t.Errorf("unexpected error: %s", e)
	}
}

func TestValidateBuiltins(t *testing.T) {
	names, err := rubric.List()
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			r, err := rubric.LoadBuiltin(name)
			if err != nil {
				t.Fatal(err)
			}
			for _, e := range Validate(r) {
				t.Errorf("builtin %s: %s", name, e)
			}
		})
	}
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *rubric.Rubric)
		path   string
	}{
		{"missing name", func(r *rubric.Rubric) { r.Name = "" }, "name"},
		{"no checks", func(r *rubric.Rubric) { r.Checks = nil }, "checks"},
		{"weights do not sum to one", func(r *rubric.Rubric) { r.Checks[0].Weight = 0.5 }, "checks"},
		{"negative weight", func(r *rubric.Rubric) { r.Checks[0].Weight = -0.1; r.Checks[1].Weight = 1.1 }, "checks[0].weight"},
		{"missing id", func(r *rubric.Rubric) { r.Checks[0].ID = "" }, "checks[0].id"},
		{"duplicate id", func(r *rubric.Rubric) { r.Checks[1].ID = "a" }, "checks[1].id"},
		{"duplicate issue", func(r *rubric.Rubric) { r.Checks[1].Issue = "No colon" }, "checks[1].issue"},
		{"missing suggestion", func(r *rubric.Rubric) { r.Checks[0].Suggestion = "" }, "checks[0].suggestion"},
		{"unknown rule", func(r *rubric.Rubric) { r.Checks[0].Rule = "regex" }, "checks[0].rule"},
		{"no tokens", func(r *rubric.Rubric) { r.Checks[0].Tokens = nil }, "checks[0].tokens"},
		{"empty token", func(r *rubric.Rubric) { r.Checks[0].Tokens = []string{""} }, "checks[0].tokens[0]"},
		{"short names max", func(r *rubric.Rubric) { r.Checks[1].Max = 0 }, "checks[1].max"},
		{"zero step", func(r *rubric.Rubric) { r.Reward.Step = 0 }, "reward.step"},
		{"upper-case keyword", func(r *rubric.Rubric) { r.Reward.Positive = []string{"Good"} }, "reward.positive[0]"},
		{"no negative keywords", func(r *rubric.Rubric) { r.Reward.Negative = nil }, "reward.negative"},
		{"threshold out of range", func(r *rubric.Rubric) { r.Suggestions.ExcellentThreshold = 1.5 }, "suggestions.excellent_threshold"},
		{"missing fallback", func(r *rubric.Rubric) { r.Suggestions.Fallback = "" }, "suggestions.fallback"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := validRubric()
			tt.mutate(r)
			errs := Validate(r)
			if !hasPath(errs, tt.path) {
				t.Errorf("expected error at %q, got %v", tt.path, errs)
			}
		})
	}
}

func TestValidationErrorString(t *testing.T) {
	e := ValidationError{Path: "reward.step", Message: "must be > 0"}
	if got := e.Error(); got != "reward.step: must be > 0" {
		t.Errorf("Error() = %q", got)
	}
}

func TestValidateUnknownRuleSkipsRuleFields(t *testing.T) {
	r := validRubric()
	r.Checks[0].Rule = "regex"
	r.Checks[0].Tokens = nil

	errs := Validate(r)
	if len(errs) != 1 || errs[0].Path != "checks[0].rule" {
		t.Errorf("expected a single checks[0].rule error, got %v", errs)
	}
}
