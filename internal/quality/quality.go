// Package quality scores code snippets against the weighted checks of a rubric.
package quality

import (
	"strings"
	"unicode/utf8"

	"github.com/dshills/codereward/internal/rubric"
)

// Result is the score of one snippet. Issues are listed in check order.
type Result struct {
	Quality float64  `json:"quality"`
	Issues  []string `json:"issues"`
}

// Scorer evaluates snippets against a fixed set of checks.
type Scorer struct {
	checks []rubric.Check
}

// New returns a Scorer for the checks of r.
func New(r *rubric.Rubric) *Scorer {
	return &Scorer{checks: r.Checks}
}

// Score sums the weights of the checks that code satisfies and records the
// issue of every check it fails. Issues is never nil.
func (s *Scorer) Score(code string) Result {
	res := Result{Issues: []string{}}
	for _, c := range s.checks {
		if Passes(c, code) {
			res.Quality += c.Weight
		} else {
			res.Issues = append(res.Issues, c.Issue)
		}
	}
	return res
}

// Passes reports whether code satisfies a single check.
func Passes(c rubric.Check, code string) bool {
	switch c.Rule {
	case rubric.RuleContainsAll:
		for _, tok := range c.Tokens {
			if !strings.Contains(code, tok) {
				return false
			}
		}
		return true
	case rubric.RuleContainsNone:
		for _, tok := range c.Tokens {
			if strings.Contains(code, tok) {
				return false
			}
		}
		return true
	case rubric.RuleContainsAny:
		for _, tok := range c.Tokens {
			if strings.Contains(code, tok) {
				return true
			}
		}
		return false
	case rubric.RuleShortNames:
		return countShortNames(code, c.Allow) < c.Max
	}
	return false
}

// countShortNames counts whitespace-separated words that are exactly one
// character long and not in allow.
func countShortNames(code string, allow []string) int {
	allowed := make(map[string]bool, len(allow))
	for _, a := range allow {
		allowed[a] = true
	}
	n := 0
	for _, w := range strings.Fields(code) {
		if utf8.RuneCountInString(w) == 1 && !allowed[w] {
			n++
		}
	}
	return n
}
