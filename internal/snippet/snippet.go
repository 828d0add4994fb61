// Package snippet handles decoding training payloads and hashing code snippets.
package snippet

import (
	"bytes"
	"crypto/md5"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"unicode/utf8"
)

// DefaultFeedback is used for snippets that have no feedback entry.
const DefaultFeedback = "neutral"

// DefaultPreviewLength is the number of characters kept in a preview.
const DefaultPreviewLength = 100

// ErrNoInput is returned by Parse when the payload is missing or an empty object.
var ErrNoInput = errors.New("no training data provided")

// Snippet is a unit of code text submitted for scoring.
type Snippet struct {
	Code string `json:"code"`
}

// Batch is the decoded training payload.
type Batch struct {
	CodeSnippets []Snippet  `json:"codeSnippets"`
	Feedback     []Feedback `json:"feedback"`
}

// FeedbackAt returns the feedback for index i, or DefaultFeedback when absent.
func (b *Batch) FeedbackAt(i int) string {
	if i >= 0 && i < len(b.Feedback) {
		return string(b.Feedback[i])
	}
	return DefaultFeedback
}

// Parse decodes a training payload. A missing payload, JSON null, or an
// empty object yields ErrNoInput. Keys match exactly: "codeSnippets",
// "feedback" and "code". A null, false, empty or zero "codeSnippets" decodes
// as an empty batch. A missing "code" decodes as "", but a null one is an
// error.
func Parse(data []byte) (*Batch, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrNoInput
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("snippet.Parse: %w", err)
	}
	if len(fields) == 0 {
		return nil, ErrNoInput
	}

	var b Batch
	if raw, ok := fields["codeSnippets"]; ok && !falsy(raw) {
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, fmt.Errorf("snippet.Parse: codeSnippets: %w", err)
		}
		b.CodeSnippets = make([]Snippet, 0, len(items))
		for i, item := range items {
			s, err := decodeSnippet(item)
			if err != nil {
				return nil, fmt.Errorf("snippet.Parse: codeSnippets[%d]: %w", i, err)
			}
			b.CodeSnippets = append(b.CodeSnippets, s)
		}
	}
	if raw, ok := fields["feedback"]; ok {
		if err := json.Unmarshal(raw, &b.Feedback); err != nil {
			return nil, fmt.Errorf("snippet.Parse: feedback: %w", err)
		}
	}
	return &b, nil
}

func decodeSnippet(raw json.RawMessage) (Snippet, error) {
	if isNull(raw) {
		return Snippet{}, errors.New("snippet is null")
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return Snippet{}, err
	}
	code, ok := fields["code"]
	if !ok {
		return Snippet{}, nil
	}
	if isNull(code) {
		return Snippet{}, errors.New("code is null")
	}
	var s Snippet
	if err := json.Unmarshal(code, &s.Code); err != nil {
		return Snippet{}, fmt.Errorf("code: %w", err)
	}
	return s, nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// falsy reports whether raw is a JSON value with no snippets to offer:
// null, false, "", 0, {} or [].
func falsy(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	switch string(raw) {
	case "null", "false", `""`, "[]", "{}":
		return true
	}
	if len(raw) > 0 && (raw[0] == '-' || (raw[0] >= '0' && raw[0] <= '9')) {
		f, err := strconv.ParseFloat(string(raw), 64)
		return err == nil && f == 0
	}
	if len(raw) > 0 && (raw[0] == '{' || raw[0] == '[') {
		var v any
		if json.Unmarshal(raw, &v) == nil {
			switch v := v.(type) {
			case map[string]any:
				return len(v) == 0
			case []any:
				return len(v) == 0
			}
		}
	}
	return false
}

// Load reads a single snippet from a file.
func Load(path string) (Snippet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Snippet{}, fmt.Errorf("snippet.Load: %w", err)
	}
	return Snippet{Code: string(data)}, nil
}

// Hash returns the first 8 hex characters of the MD5 digest of code.
// Collisions are possible; the value is only a display id and grouping key.
func Hash(code string) string {
	h := md5.Sum([]byte(code))
	return fmt.Sprintf("%x", h)[:8]
}

// Preview returns the first n characters of code, with "..." appended when
// the code was truncated.
func Preview(code string, n int) string {
	if n <= 0 {
		n = DefaultPreviewLength
	}
	if utf8.RuneCountInString(code) <= n {
		return code
	}
	runes := []rune(code)
	return string(runes[:n]) + "..."
}
