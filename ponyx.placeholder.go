package ponyx

import "fmt"

// Marker is the stable (id, name) pair naming the shape a placeholder
// stands in for.
type Marker struct {
	ID   uint8
	Name string
}

// Placeholder markers
var (
	MarkerIdentifier       = Marker{ID: 0, Name: "IDENTIFIER"}
	MarkerExpression       = Marker{ID: 16, Name: "EXPRESSION"}
	MarkerSoloExpression   = Marker{ID: 17, Name: "SOLO_EXPRESSION"}
	MarkerModule           = Marker{ID: 32, Name: "MODULE"}
	MarkerLetDeclaration   = Marker{ID: 33, Name: "LET_DECLARATION"}
	MarkerConstDeclaration = Marker{ID: 34, Name: "CONST_DECLARATION"}
	MarkerScriptExpression = Marker{ID: 80, Name: "SCRIPT_EXPRESSION"}
	MarkerNopExpression    = Marker{ID: 81, Name: "NOP_EXPRESSION"}
)

// Code returns the diagnostic code used when this marker is expected
func (m Marker) Code() Code {
	return Code(fmt.Sprintf(expectedCodeFmt, expectedCodeBase+int(m.ID)))
}

// String returns the marker name
func (m Marker) String() string {
	return m.Name
}

// Placeholder is a typed, zero-width hole where required content failed
// to parse.
type Placeholder struct {
	span   Span
	marker Marker
}

// NewPlaceholder creates a placeholder
func NewPlaceholder(span Span, marker Marker) Placeholder {
	return Placeholder{span: span, marker: marker}
}

// Span returns the position of the hole
func (p Placeholder) Span() Span { return p.span }

// Marker returns the marker of the hole
func (p Placeholder) Marker() Marker { return p.marker }

// ID returns the marker id
func (p Placeholder) ID() uint8 { return p.marker.ID }

// Expected returns the marker name
func (p Placeholder) Expected() string { return p.marker.Name }

// String returns <NAME>
func (p Placeholder) String() string {
	return fmt.Sprintf(strPlaceholderFmt, p.marker.Name)
}

// Maybe is either a present value or a placeholder.
type Maybe[T any] struct {
	value   T
	span    Span
	hole    Placeholder
	present bool
}

// Present wraps a parsed value
func Present[T any](value T, span Span) Maybe[T] {
	return Maybe[T]{value: value, span: span, present: true}
}

// Hole wraps a placeholder
func Hole[T any](ph Placeholder) Maybe[T] {
	return Maybe[T]{hole: ph, span: ph.span}
}

// IsPresent reports whether a value was parsed
func (m Maybe[T]) IsPresent() bool {
	return m.present
}

// Get returns the value and whether it is present
func (m Maybe[T]) Get() (T, bool) {
	return m.value, m.present
}

// Value returns the value, or the zero value for a hole
func (m Maybe[T]) Value() T {
	return m.value
}

// Placeholder returns the hole and whether m is one
func (m Maybe[T]) Placeholder() (Placeholder, bool) {
	return m.hole, !m.present
}

// Span returns the span of the value or of the hole
func (m Maybe[T]) Span() Span {
	return m.span
}

// String renders the value or <MARKER>
func (m Maybe[T]) String() string {
	if !m.present {
		return m.hole.String()
	}
	if s, ok := any(m.value).(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprint(m.value)
}
