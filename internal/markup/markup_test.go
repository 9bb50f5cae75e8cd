// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package markup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func text(s string) Segment { return Segment{Kind: KindText, Content: s} }

func code(lang, s string) Segment { return Segment{Kind: KindCode, Language: lang, Content: s} }

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Segments
	}{
		{
			name:  "empty",
			input: "",
			want:  nil,
		},
		{
			name:  "plain text",
			input: "Just some words.\nAnd another line.",
			want:  Segments{text("Just some words.\nAnd another line.")},
		},
		{
			name:  "whitespace only",
			input: "  \n ",
			want:  Segments{text("  \n ")},
		},
		{
			name:  "single block",
			input: "```go\nfmt.Println(\"hi\")\n```",
			want:  Segments{code("go", `fmt.Println("hi")`)},
		},
		{
			name:  "block with surrounding text",
			input: "Here:\n```python\n  print(1)  \n```\nDone.",
			want:  Segments{text("Here:\n"), code("python", "print(1)"), text("\nDone.")},
		},
		{
			name:  "no language",
			input: "```\nls -la\n```",
			want:  Segments{code(DefaultLanguage, "ls -la")},
		},
		{
			name:  "unterminated fence",
			input: "```go\nfunc main() {",
			want:  Segments{text("```go\nfunc main() {")},
		},
		{
			name:  "two blocks non greedy",
			input: "```a\n1\n``` mid ```b\n2\n```",
			want:  Segments{code("a", "1"), text(" mid "), code("b", "2")},
		},
		{
			name:  "adjacent blocks",
			input: "```a\n1\n``````b\n2\n```",
			want:  Segments{code("a", "1"), code("b", "2")},
		},
		{
			name:  "second fence unterminated",
			input: "```a\n1\n```\ntail ```b\nnever closed",
			want:  Segments{code("a", "1"), text("\ntail ```b\nnever closed")},
		},
		{
			name:  "inline backticks are not an opener",
			input: "use ```x y``` inline",
			want:  Segments{text("use ```x y``` inline")},
		},
		{
			name:  "bad opener then good opener",
			input: "``` not a tag\n```sh\necho\n```",
			want:  Segments{text("``` not a tag\n"), code("sh", "echo")},
		},
		{
			name:  "four backticks",
			input: "````\nbody\n```",
			want:  Segments{text("`"), code(DefaultLanguage, "body")},
		},
		{
			name:  "crlf opener stays prose",
			input: "```js\r\nlet x = 1;\r\n```",
			want:  Segments{text("```js\r\nlet x = 1;\r\n```")},
		},
		{
			name:  "empty body",
			input: "```go\n```",
			want:  Segments{code("go", "")},
		},
		{
			name:  "tag with digits and underscore",
			input: "```c_99\nint x;\n```",
			want:  Segments{code("c_99", "int x;")},
		},
		{
			name:  "hyphen ends the tag",
			input: "```objective-c\nx\n```",
			want:  Segments{text("```objective-c\nx\n```")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Parse(tt.input))
		})
	}
}

func TestParse_NoFenceIsIdentity(t *testing.T) {
	inputs := []string{"a", "hello world", "`one` ``two``", "unicode ✓ 日本語", "line\n\nbreaks\n"}
	for _, in := range inputs {
		got := Parse(in)
		require.Len(t, got, 1, in)
		assert.Equal(t, KindText, got[0].Kind)
		assert.Equal(t, in, got[0].Content)
	}
}

func TestSegments_Helpers(t *testing.T) {
	segs := Parse("intro\n```go\nx := 1\n```\noutro")

	assert.True(t, segs.HasCode())
	assert.Equal(t, Segments{code("go", "x := 1")}, segs.Code())
	assert.Equal(t, "intro\n```go\nx := 1\n```\noutro", segs.Text())

	assert.False(t, Parse("plain").HasCode())
	assert.Empty(t, Parse("plain").Code())
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "text", KindText.String())
	assert.Equal(t, "code", KindCode.String())
}
