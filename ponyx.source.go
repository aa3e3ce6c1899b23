package ponyx

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"unicode/utf8"
)

// SourceID identifies a source buffer, usually a file path or storage key.
type SourceID string

// Position is a resolved location in a source buffer.
type Position struct {
	Offset int // Byte offset from start
	Line   int // 1-indexed line number
	Column int // 1-indexed column, counted in runes
}

// String returns a human-readable position string
func (p Position) String() string {
	return fmt.Sprintf(strPositionFmt, p.Line, p.Column)
}

// Source is an immutable text buffer with a lazily built line table.
type Source struct {
	ID   SourceID
	Text string

	once  sync.Once
	lines []int
}

// NewSource creates a source buffer
func NewSource(id SourceID, text string) *Source {
	return &Source{ID: id, Text: text}
}

func (s *Source) lineStarts() []int {
	s.once.Do(func() {
		s.lines = []int{0}
		for i := 0; i < len(s.Text); i++ {
			if s.Text[i] == '\n' {
				s.lines = append(s.lines, i+1)
			}
		}
	})
	return s.lines
}

// Position resolves a byte offset. Offsets past the end clamp to the end.
func (s *Source) Position(offset int) Position {
	if offset < 0 {
		offset = 0
	}
	if offset > len(s.Text) {
		offset = len(s.Text)
	}
	lines := s.lineStarts()
	line := sort.Search(len(lines), func(i int) bool { return lines[i] > offset }) - 1
	column := utf8.RuneCountInString(s.Text[lines[line]:offset]) + 1
	return Position{Offset: offset, Line: line + 1, Column: column}
}

// LineCount returns the number of lines
func (s *Source) LineCount() int {
	return len(s.lineStarts())
}

// Line returns the text of a 1-indexed line without its terminator.
func (s *Source) Line(n int) string {
	lines := s.lineStarts()
	if n < 1 || n > len(lines) {
		return ""
	}
	start := lines[n-1]
	end := len(s.Text)
	if n < len(lines) {
		end = lines[n] - 1
	}
	return strings.TrimSuffix(s.Text[start:end], "\r")
}

// Slice returns the text covered by span. Spans of another source return "".
func (s *Source) Slice(span Span) string {
	if span.Source != s.ID || span.End > len(s.Text) {
		return ""
	}
	return s.Text[span.Start:span.End]
}

// Span returns a span of this source
func (s *Source) Span(start, end int) Span {
	return NewSpan(s.ID, start, end)
}
