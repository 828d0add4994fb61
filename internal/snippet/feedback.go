package snippet

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Feedback is free-text reaction paired with a snippet by position.
// Non-string JSON values are stringified on decode the way Python's str()
// prints the decoded value: 1e2 becomes "100.0", true becomes "True", null
// becomes "None" and {"k":"v"} becomes "{'k': 'v'}".
type Feedback string

// UnmarshalJSON accepts any JSON value and keeps its text form.
func (f *Feedback) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return errors.New("snippet.Feedback: empty value")
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("snippet.Feedback: %w", err)
		}
		*f = Feedback(s)
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var b strings.Builder
	if err := writeRepr(&b, dec); err != nil {
		return fmt.Errorf("snippet.Feedback: %w", err)
	}
	*f = Feedback(b.String())
	return nil
}

// writeRepr writes the next value from dec in Python repr form. Object keys
// keep their input order; a repeated key keeps its first position and its
// last value.
func writeRepr(b *strings.Builder, dec *json.Decoder) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	switch v := tok.(type) {
	case json.Delim:
		switch v {
		case '[':
			var items []string
			for dec.More() {
				var item strings.Builder
				if err := writeRepr(&item, dec); err != nil {
					return err
				}
				items = append(items, item.String())
			}
			if _, err := dec.Token(); err != nil {
				return err
			}
			b.WriteString("[" + strings.Join(items, ", ") + "]")
		case '{':
			var keys []string
			values := make(map[string]string)
			for dec.More() {
				kt, err := dec.Token()
				if err != nil {
					return err
				}
				key, _ := kt.(string)
				var val strings.Builder
				if err := writeRepr(&val, dec); err != nil {
					return err
				}
				if _, seen := values[key]; !seen {
					keys = append(keys, key)
				}
				values[key] = val.String()
			}
			if _, err := dec.Token(); err != nil {
				return err
			}
			pairs := make([]string, len(keys))
			for i, k := range keys {
				pairs[i] = pyQuote(k) + ": " + values[k]
			}
			b.WriteString("{" + strings.Join(pairs, ", ") + "}")
		default:
			return fmt.Errorf("unexpected delimiter %q", v)
		}
	case string:
		b.WriteString(pyQuote(v))
	case json.Number:
		b.WriteString(pyNumber(string(v)))
	case bool:
		if v {
			b.WriteString("True")
		} else {
			b.WriteString("False")
		}
	case nil:
		b.WriteString("None")
	}
	return nil
}

// pyNumber formats a JSON number as Python prints the int or float that
// json.loads produces for it.
func pyNumber(s string) string {
	if !strings.ContainsAny(s, ".eE") {
		if strings.TrimLeft(s, "-0") == "" {
			return "0"
		}
		return s
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil && !math.IsInf(v, 0) {
		return s
	}
	return pyFloat(v)
}

// pyFloat matches Python's float repr: the shortest round-trip digits, in
// positional form for decimal exponents in [-4, 16) and scientific otherwise.
func pyFloat(v float64) string {
	switch {
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}
	sci := strconv.FormatFloat(v, 'e', -1, 64)
	exp, _ := strconv.Atoi(sci[strings.IndexByte(sci, 'e')+1:])
	if exp < -4 || exp >= 16 {
		return sci
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// pyQuote quotes s the way Python's str repr does.
func pyQuote(s string) string {
	quote := byte('\'')
	if strings.ContainsRune(s, '\'') && !strings.ContainsRune(s, '"') {
		quote = '"'
	}
	var b strings.Builder
	b.WriteByte(quote)
	for _, r := range s {
		switch {
		case r == rune(quote) || r == '\\':
			b.WriteByte('\\')
			b.WriteRune(r)
		case r == '\t':
			b.WriteString(`\t`)
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\r':
			b.WriteString(`\r`)
		case r < ' ' || r == 0x7f:
			fmt.Fprintf(&b, `\x%02x`, r)
		case r < utf8.RuneSelf || unicode.IsPrint(r):
			b.WriteRune(r)
		case r <= 0xff:
			fmt.Fprintf(&b, `\x%02x`, r)
		case r <= 0xffff:
			fmt.Fprintf(&b, `\u%04x`, r)
		default:
			fmt.Fprintf(&b, `\U%08x`, r)
		}
	}
	b.WriteByte(quote)
	return b.String()
}
