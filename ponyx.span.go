package ponyx

import "fmt"

// Span is a half-open byte range [Start, End) of one source.
type Span struct {
	Source SourceID
	Start  int
	End    int
}

// Spanned is implemented by everything that owns a span.
type Spanned interface {
	Span() Span
}

// NewSpan creates a span. It panics if start > end.
func NewSpan(source SourceID, start, end int) Span {
	if start > end {
		panic(fmt.Sprintf("ponyx: invalid span %d..%d", start, end))
	}
	return Span{Source: source, Start: start, End: end}
}

// Len returns the number of bytes covered
func (s Span) Len() int {
	return s.End - s.Start
}

// IsEmpty reports whether the span is zero-width
func (s Span) IsEmpty() bool {
	return s.Start == s.End
}

// Contains reports whether offset falls inside the span
func (s Span) Contains(offset int) bool {
	return s.Start <= offset && offset < s.End
}

// Join returns the bounding union of two spans. Spans of different sources
// cannot be joined.
func (s Span) Join(other Span) (Span, bool) {
	if s.Source != other.Source {
		return Span{}, false
	}
	return Span{Source: s.Source, Start: min(s.Start, other.Start), End: max(s.End, other.End)}, true
}

// At returns a zero-width span at offset in the same source
func (s Span) At(offset int) Span {
	return Span{Source: s.Source, Start: offset, End: offset}
}

// String returns id[start..end]
func (s Span) String() string {
	return fmt.Sprintf(strSpanFmt, s.Source, s.Start, s.End)
}

// joinSpans joins a non-empty list of same-source spans
func joinSpans(spans ...Span) Span {
	out := spans[0]
	for _, s := range spans[1:] {
		if joined, ok := out.Join(s); ok {
			out = joined
		}
	}
	return out
}
