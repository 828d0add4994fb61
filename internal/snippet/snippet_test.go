package snippet

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	data := []byte(`{"codeSnippets":[{"code":"a := 1"},{"code":"b"}],"feedback":["great"]}`)
	b, err := Parse(data)
	require.NoError(t, err)
	require.Len(t, b.CodeSnippets, 2)
	assert.Equal(t, "a := 1", b.CodeSnippets[0].Code)
	assert.Equal(t, "great", b.FeedbackAt(0))
	assert.Equal(t, DefaultFeedback, b.FeedbackAt(1))
}

func TestParseNoInput(t *testing.T) {
	for _, in := range []string{"", "   ", "{}", "null"} {
		t.Run(in, func(t *testing.T) {
			_, err := Parse([]byte(in))
			assert.True(t, errors.Is(err, ErrNoInput), "Parse(%q) err = %v", in, err)
		})
	}
}

func TestParseMalformed(t *testing.T) {
	tests := []string{
		`{"codeSnippets":`,
		`[1,2,3]`,
		`{"codeSnippets":[{"code":42}]}`,
		`{"codeSnippets":[{"code":null}]}`,
		`{"codeSnippets":[null]}`,
		`{"codeSnippets":[{"code":"a"},"b"]}`,
		`{"codeSnippets":"abc"}`,
		`{"codeSnippets":[{"code":"a"}],"feedback":{"k":"v"}}`,
	}
	for _, in := range tests {
		_, err := Parse([]byte(in))
		require.Error(t, err, "Parse(%q)", in)
		assert.False(t, errors.Is(err, ErrNoInput))
	}
}

func TestParseEmptySnippets(t *testing.T) {
	tests := []string{
		`{"codeSnippets":[]}`,
		`{"codeSnippets":null}`,
		`{"codeSnippets":false}`,
		`{"codeSnippets":0}`,
		`{"codeSnippets":""}`,
		`{"codeSnippets":{ }}`,
		`{"feedback":["great"]}`,
		// Keys are case-sensitive.
		`{"CodeSnippets":[{"Code":"console.log(1)"}]}`,
		`{"codesnippets":[{"code":"x"}]}`,
	}
	for _, in := range tests {
		t.Run(in, func(t *testing.T) {
			b, err := Parse([]byte(in))
			require.NoError(t, err)
			assert.Empty(t, b.CodeSnippets)
		})
	}
}

func TestParseExactKeys(t *testing.T) {
	b, err := Parse([]byte(`{"codeSnippets":[{"Code":"x"},{"code":"y","CODE":"z"}],"Feedback":["great"]}`))
	require.NoError(t, err)
	require.Len(t, b.CodeSnippets, 2)
	assert.Equal(t, "", b.CodeSnippets[0].Code)
	assert.Equal(t, "y", b.CodeSnippets[1].Code)
	assert.Empty(t, b.Feedback)
	assert.Equal(t, DefaultFeedback, b.FeedbackAt(0))
}

func TestParseMissingCode(t *testing.T) {
	b, err := Parse([]byte(`{"codeSnippets":[{}]}`))
	require.NoError(t, err)
	require.Len(t, b.CodeSnippets, 1)
	assert.Equal(t, "", b.CodeSnippets[0].Code)
}

func TestFeedbackStringified(t *testing.T) {
	b, err := Parse([]byte(`{"codeSnippets":[{"code":""}],"feedback":["ok",5,2.5,true,false,["a",1],{"k": "v"}]}`))
	require.NoError(t, err)
	want := []string{"ok", "5", "2.5", "True", "False", `['a', 1]`, `{'k': 'v'}`}
	for i, w := range want {
		assert.Equal(t, w, b.FeedbackAt(i), "feedback[%d]", i)
	}
}

func TestFeedbackPythonForms(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`null`, "None"},
		{`-0`, "0"},
		{`12345678901234567890`, "12345678901234567890"},
		{`1e2`, "100.0"},
		{`1.0`, "1.0"},
		{`-0.0`, "-0.0"},
		{`0.0001`, "0.0001"},
		{`1.5e-5`, "1.5e-05"},
		{`1e16`, "1e+16"},
		{`123456789012345.6`, "123456789012345.6"},
		{`1e400`, "inf"},
		{`[]`, "[]"},
		{`{}`, "{}"},
		{`[1, [true, null], {"a": 1.50}]`, "[1, [True, None], {'a': 1.5}]"},
		{`{"b": 1, "a": 2}`, "{'b': 1, 'a': 2}"},
		{`{"a": 1, "b": 2, "a": 3}`, "{'a': 3, 'b': 2}"},
		{`["it's"]`, `["it's"]`},
		{`["say \"hi\""]`, `['say "hi"']`},
		{`["both ' and \""]`, `['both \' and "']`},
		{`["tab\tnew\nline\\"]`, `['tab\tnew\nline\\']`},
		{`["\u0001 é 日本"]`, `['\x01 é 日本']`},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var f Feedback
			require.NoError(t, f.UnmarshalJSON([]byte(tt.in)))
			assert.Equal(t, tt.want, string(f))
		})
	}
}

func TestFeedbackAtOutOfRange(t *testing.T) {
	b := &Batch{Feedback: []Feedback{"x"}}
	assert.Equal(t, DefaultFeedback, b.FeedbackAt(-1))
	assert.Equal(t, DefaultFeedback, b.FeedbackAt(1))
}

func TestHash(t *testing.T) {
	// md5("") = d41d8cd98f00b204e9800998ecf8427e
	assert.Equal(t, "d41d8cd9", Hash(""))
	// md5("hello") = 5d41402abc4b2a76b9719d911017c592
	assert.Equal(t, "5d41402a", Hash("hello"))
	assert.Len(t, Hash("anything at all"), 8)
	assert.Equal(t, Hash("same"), Hash("same"))
}

func TestPreview(t *testing.T) {
	short := strings.Repeat("a", 100)
	assert.Equal(t, short, Preview(short, 100))

	long := strings.Repeat("b", 101)
	got := Preview(long, 100)
	assert.Equal(t, strings.Repeat("b", 100)+"...", got)

	// Multi-byte characters are counted as one character each.
	wide := strings.Repeat("é", 101)
	assert.Equal(t, strings.Repeat("é", 100)+"...", Preview(wide, 100))

	assert.Equal(t, short, Preview(short, 0), "zero length falls back to default")
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snippet.ts")
	require.NoError(t, os.WriteFile(path, []byte("const x: number = 1;"), 0o644))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "const x: number = 1;", s.Code)

	_, err = Load(filepath.Join(t.TempDir(), "missing.ts"))
	assert.Error(t, err)
}
