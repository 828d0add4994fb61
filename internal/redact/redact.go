// Package redact masks credentials that appear in snippet text before it is
// echoed back in a report.
package redact

import "regexp"

// Placeholder replaces every masked credential.
const Placeholder = "[REDACTED]"

type rule struct {
	name    string
	pattern *regexp.Regexp
}

var rules = []rule{
	{"aws-access-key", regexp.MustCompile(`AKIA[0-9A-Z]{16}`)},
	{"aws-secret", regexp.MustCompile(`(?i)(aws_secret_access_key|aws_secret)\s*[:=]\s*[A-Za-z0-9/+=]{40}`)},
	{"private-key", regexp.MustCompile(`-----BEGIN [A-Z ]+PRIVATE KEY-----[\s\S]*?-----END [A-Z ]+PRIVATE KEY-----`)},
	{"bearer", regexp.MustCompile(`Bearer\s+[A-Za-z0-9\-._~+/]+=*`)},
	{"github-token", regexp.MustCompile(`gh[pousr]_[A-Za-z0-9]{36,}`)},
	{"assignment", regexp.MustCompile(`(?i)(api[_-]?key|api[_-]?secret|secret[_-]?key|token|password|passwd|credentials)\s*[:=]\s*\S+`)},
}

// Code returns code with credentials replaced by Placeholder, and the names
// of the rules that matched.
func Code(code string) (string, []string) {
	var hits []string
	for _, r := range rules {
		if !r.pattern.MatchString(code) {
			continue
		}
		hits = append(hits, r.name)
		code = r.pattern.ReplaceAllString(code, Placeholder)
	}
	return code, hits
}
