package ponyx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSource_Position(t *testing.T) {
	src := NewSource(testSourceID, "ab\ncdé\n\nz")

	tests := []struct {
		offset int
		line   int
		column int
	}{
		{0, 1, 1},
		{2, 1, 3},
		{3, 2, 1},
		{5, 2, 3},
		{7, 2, 4}, // after the two-byte é
		{8, 3, 1},
		{9, 4, 1},
		{10, 4, 2},
		{-5, 1, 1},
		{99, 4, 2},
	}
	for _, tt := range tests {
		pos := src.Position(tt.offset)
		assert.Equal(t, tt.line, pos.Line, "offset %d", tt.offset)
		assert.Equal(t, tt.column, pos.Column, "offset %d", tt.offset)
	}

	assert.Equal(t, "line 2, column 1", src.Position(3).String())
}

func TestSource_Lines(t *testing.T) {
	src := NewSource(testSourceID, "first\r\nsecond\n")
	assert.Equal(t, 3, src.LineCount())
	assert.Equal(t, "first", src.Line(1))
	assert.Equal(t, "second", src.Line(2))
	assert.Equal(t, "", src.Line(3))
	assert.Equal(t, "", src.Line(0))
	assert.Equal(t, "", src.Line(4))
}

func TestSource_Slice(t *testing.T) {
	src := NewSource(testSourceID, "hello world")
	assert.Equal(t, "world", src.Slice(src.Span(6, 11)))
	assert.Equal(t, "", src.Slice(NewSpan("other", 0, 5)))
	assert.Equal(t, "", src.Slice(src.Span(6, 40)))
}

func TestSpan(t *testing.T) {
	s := NewSpan(testSourceID, 2, 5)
	assert.Equal(t, 3, s.Len())
	assert.False(t, s.IsEmpty())
	assert.True(t, s.Contains(2))
	assert.True(t, s.Contains(4))
	assert.False(t, s.Contains(5), "spans are half-open")
	assert.Equal(t, "test.pony[2..5]", s.String())

	at := s.At(7)
	assert.True(t, at.IsEmpty())
	assert.Equal(t, testSourceID, at.Source)

	joined, ok := s.Join(NewSpan(testSourceID, 8, 9))
	assert.True(t, ok)
	assert.Equal(t, NewSpan(testSourceID, 2, 9), joined)

	_, ok = s.Join(NewSpan("other", 0, 1))
	assert.False(t, ok)

	assert.Equal(t, NewSpan(testSourceID, 0, 9),
		joinSpans(NewSpan(testSourceID, 4, 5), NewSpan(testSourceID, 0, 1), NewSpan(testSourceID, 8, 9)))

	assert.Panics(t, func() { NewSpan(testSourceID, 3, 2) })
}

func TestPlaceholder(t *testing.T) {
	ph := NewPlaceholder(NewSpan(testSourceID, 4, 4), MarkerExpression)
	assert.Equal(t, "<EXPRESSION>", ph.String())
	assert.Equal(t, "EXPRESSION", ph.Expected())
	assert.Equal(t, uint8(16), ph.ID())
	assert.Equal(t, MarkerExpression, ph.Marker())
	assert.Equal(t, 4, ph.Span().Start)
}

func TestMarker_Code(t *testing.T) {
	assert.Equal(t, Code("S132"), MarkerIdentifier.Code())
	assert.Equal(t, Code("S148"), MarkerExpression.Code())
	assert.Equal(t, Code("S149"), MarkerSoloExpression.Code())
	assert.Equal(t, Code("S164"), MarkerModule.Code())
	assert.Equal(t, Code("S212"), MarkerScriptExpression.Code())
}

func TestMaybe(t *testing.T) {
	span := NewSpan(testSourceID, 0, 3)
	present := Present(42, span)
	v, ok := present.Get()
	assert.True(t, ok)
	assert.Equal(t, 42, v)
	assert.True(t, present.IsPresent())
	assert.Equal(t, span, present.Span())
	assert.Equal(t, "42", present.String())
	_, isHole := present.Placeholder()
	assert.False(t, isHole)

	hole := Hole[int](NewPlaceholder(span.At(3), MarkerIdentifier))
	assert.False(t, hole.IsPresent())
	assert.Equal(t, 0, hole.Value())
	assert.Equal(t, "<IDENTIFIER>", hole.String())
	assert.Equal(t, 3, hole.Span().Start)
	ph, isHole := hole.Placeholder()
	assert.True(t, isHole)
	assert.Equal(t, MarkerIdentifier, ph.Marker())

	ident := Present(NewIdentifier("x", span), span)
	assert.Equal(t, "x", ident.String())
}
