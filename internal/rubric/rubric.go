// Package rubric handles loading the weighted checks, remediation messages
// and sentiment keywords used to score snippets and feedback.
package rubric

import (
	"embed"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed builtin/*.yaml
var builtinFS embed.FS

// DefaultName is the rubric used when none is configured.
const DefaultName = "default"

// Rule selects how a check's predicate is evaluated over the raw text.
type Rule string

const (
	// RuleContainsAll passes when every token is a substring of the text.
	RuleContainsAll Rule = "contains_all"
	// RuleContainsNone passes when no token is a substring of the text.
	RuleContainsNone Rule = "contains_none"
	// RuleContainsAny passes when at least one token is a substring of the text.
	RuleContainsAny Rule = "contains_any"
	// RuleShortNames passes when fewer than Max whitespace-separated words are
	// a single character long, ignoring words listed in Allow.
	RuleShortNames Rule = "short_names"
)

// Valid reports whether r is a known rule kind.
func (r Rule) Valid() bool {
	switch r {
	case RuleContainsAll, RuleContainsNone, RuleContainsAny, RuleShortNames:
		return true
	}
	return false
}

// Rubric defines the quality checks and reward keywords.
type Rubric struct {
	Name        string      `yaml:"name"`
	Version     int         `yaml:"version"`
	Description string      `yaml:"description"`
	Checks      []Check     `yaml:"checks"`
	Reward      Reward      `yaml:"reward"`
	Suggestions Suggestions `yaml:"suggestions"`
}

// Check is one weighted predicate. Issue is reported when it fails and
// Suggestion is the remediation offered when Issue is the first one found.
type Check struct {
	ID         string   `yaml:"id"`
	Weight     float64  `yaml:"weight"`
	Rule       Rule     `yaml:"rule"`
	Tokens     []string `yaml:"tokens"`
	Max        int      `yaml:"max"`
	Allow      []string `yaml:"allow"`
	Issue      string   `yaml:"issue"`
	Suggestion string   `yaml:"suggestion"`
}

// Reward holds the sentiment keyword sets. Each occurrence moves the reward by Step.
type Reward struct {
	Step     float64  `yaml:"step"`
	Positive []string `yaml:"positive"`
	Negative []string `yaml:"negative"`
}

// Suggestions holds the messages that are not tied to a single issue.
type Suggestions struct {
	ExcellentThreshold float64 `yaml:"excellent_threshold"`
	Excellent          string  `yaml:"excellent"`
	Fallback           string  `yaml:"fallback"`
}

// LoadBuiltin loads a built-in rubric by name.
func LoadBuiltin(name string) (*Rubric, error) {
	data, err := builtinFS.ReadFile("builtin/" + name + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("rubric.LoadBuiltin: unknown rubric %q: %w", name, err)
	}
	r, err := parse(data)
	if err != nil {
		return nil, fmt.Errorf("rubric.LoadBuiltin: parse %q: %w", name, err)
	}
	return r, nil
}

// LoadFile loads a rubric from a YAML file on disk.
func LoadFile(path string) (*Rubric, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("rubric.LoadFile: %w", err)
	}
	r, err := parse(data)
	if err != nil {
		return nil, fmt.Errorf("rubric.LoadFile: parse %s: %w", path, err)
	}
	return r, nil
}

// Resolve loads ref as a file path when it names a YAML file, otherwise as a
// built-in rubric name. An empty ref selects DefaultName.
func Resolve(ref string) (*Rubric, error) {
	if ref == "" {
		ref = DefaultName
	}
	if strings.HasSuffix(ref, ".yaml") || strings.HasSuffix(ref, ".yml") {
		return LoadFile(ref)
	}
	return LoadBuiltin(ref)
}

func parse(data []byte) (*Rubric, error) {
	var r Rubric
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// List returns the names of all available built-in rubrics.
func List() ([]string, error) {
	entries, err := builtinFS.ReadDir("builtin")
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		n := e.Name()
		if strings.HasSuffix(n, ".yaml") {
			names = append(names, strings.TrimSuffix(n, ".yaml"))
		}
	}
	sort.Strings(names)
	return names, nil
}

// SuggestionFor returns the remediation for issue, or the fallback when no
// check reports that issue.
func (r *Rubric) SuggestionFor(issue string) string {
	for _, c := range r.Checks {
		if c.Issue == issue && c.Suggestion != "" {
			return c.Suggestion
		}
	}
	return r.Suggestions.Fallback
}

// Suggest picks the message for a scored snippet: the excellent message above
// the threshold, otherwise the remediation for the first issue.
func (r *Rubric) Suggest(quality float64, issues []string) string {
	if quality > r.Suggestions.ExcellentThreshold {
		return r.Suggestions.Excellent
	}
	if len(issues) == 0 {
		return r.Suggestions.Fallback
	}
	return r.SuggestionFor(issues[0])
}

// TotalWeight sums the weights of all checks.
func (r *Rubric) TotalWeight() float64 {
	var total float64
	for _, c := range r.Checks {
		total += c.Weight
	}
	return total
}

// Format renders the rubric as a human-readable listing.
func Format(r *Rubric) string {
	var b strings.Builder

	fmt.Fprintf(&b, "## Rubric: %s (v%d)\n\n", r.Name, r.Version)
	if r.Description != "" {
		fmt.Fprintf(&b, "%s\n\n", strings.TrimSpace(r.Description))
	}

	if len(r.Checks) > 0 {
		b.WriteString("### Checks\n\n")
		for _, c := range r.Checks {
			fmt.Fprintf(&b, "- %s (%.2f, %s)", c.ID, c.Weight, c.Rule)
			if len(c.Tokens) > 0 {
				quoted := make([]string, len(c.Tokens))
				for i, tok := range c.Tokens {
					quoted[i] = fmt.Sprintf("%q", tok)
				}
				fmt.Fprintf(&b, " [%s]", strings.Join(quoted, ", "))
			}
			if c.Rule == RuleShortNames {
				fmt.Fprintf(&b, " max=%d allow=%s", c.Max, strings.Join(c.Allow, ","))
			}
			fmt.Fprintf(&b, ": %s\n", c.Issue)
		}
		b.WriteString("\n")
	}

	b.WriteString("### Reward keywords\n\n")
	fmt.Fprintf(&b, "- positive (+%.2f): %s\n", r.Reward.Step, strings.Join(r.Reward.Positive, ", "))
	fmt.Fprintf(&b, "- negative (-%.2f): %s\n", r.Reward.Step, strings.Join(r.Reward.Negative, ", "))

	return b.String()
}
