// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package markup splits message content into prose and fenced code segments.
//
// The scanner makes a single left-to-right pass. An opening fence is three
// backticks, an optional language tag made of word characters, and "\n".
// A carriage return before that newline disqualifies the opener. The body
// runs to the next three backticks; fences do not nest. A fence that is
// never closed leaves the rest of the input as prose.
package markup

import "strings"

// Fence is the code fence marker.
const Fence = "```"

// DefaultLanguage is used for code segments whose fence has no tag.
const DefaultLanguage = "plaintext"

// Kind identifies the type of a segment.
type Kind int

const (
	KindText Kind = iota
	KindCode
)

// String returns "text" or "code".
func (k Kind) String() string {
	if k == KindCode {
		return "code"
	}
	return "text"
}

// Segment is one contiguous piece of parsed content.
type Segment struct {
	Kind     Kind
	Language string // code only
	Content  string
}

// IsCode reports whether the segment is a fenced code block.
func (s Segment) IsCode() bool {
	return s.Kind == KindCode
}

// Segments is an ordered parse result.
type Segments []Segment

// HasCode reports whether any segment is code.
func (ss Segments) HasCode() bool {
	for _, s := range ss {
		if s.IsCode() {
			return true
		}
	}
	return false
}

// Code returns only the code segments, in order.
func (ss Segments) Code() Segments {
	var out Segments
	for _, s := range ss {
		if s.IsCode() {
			out = append(out, s)
		}
	}
	return out
}

// Text joins the segments back into fenced markdown. Code bodies come back
// trimmed and tagged.
func (ss Segments) Text() string {
	var sb strings.Builder
	for _, s := range ss {
		if !s.IsCode() {
			sb.WriteString(s.Content)
			continue
		}
		sb.WriteString(Fence)
		sb.WriteString(s.Language)
		sb.WriteByte('\n')
		sb.WriteString(s.Content)
		sb.WriteByte('\n')
		sb.WriteString(Fence)
	}
	return sb.String()
}

// Parse splits content into text and code segments. Empty input yields nil.
func Parse(content string) Segments {
	if content == "" {
		return nil
	}

	var segs Segments
	last := 0 // end of the previous code segment
	scan := 0

	for {
		rel := strings.Index(content[scan:], Fence)
		if rel < 0 {
			break
		}
		open := scan + rel

		lang, bodyStart, ok := scanOpener(content, open+len(Fence))
		if !ok {
			scan = open + 1
			continue
		}

		rel = strings.Index(content[bodyStart:], Fence)
		if rel < 0 {
			break
		}
		closing := bodyStart + rel

		if open > last {
			segs = append(segs, Segment{Kind: KindText, Content: content[last:open]})
		}
		if lang == "" {
			lang = DefaultLanguage
		}
		segs = append(segs, Segment{
			Kind:     KindCode,
			Language: lang,
			Content:  strings.TrimSpace(content[bodyStart:closing]),
		})

		last = closing + len(Fence)
		scan = last
	}

	if last < len(content) {
		segs = append(segs, Segment{Kind: KindText, Content: content[last:]})
	}
	return segs
}

// scanOpener reads the language tag and line break that follow a fence
// starting at i. It returns the tag and the index of the first body byte.
func scanOpener(s string, i int) (lang string, bodyStart int, ok bool) {
	start := i
	for i < len(s) && isWordByte(s[i]) {
		i++
	}
	lang = s[start:i]

	if i < len(s) && s[i] == '\n' {
		return lang, i + 1, true
	}
	return "", 0, false
}

func isWordByte(c byte) bool {
	return c == '_' ||
		('a' <= c && c <= 'z') ||
		('A' <= c && c <= 'Z') ||
		('0' <= c && c <= '9')
}
