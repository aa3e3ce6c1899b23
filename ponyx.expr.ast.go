package ponyx

import (
	"fmt"
	"strconv"
	"strings"
)

// ExprKind identifies the variant of an Expr
type ExprKind int

// Expression kinds
const (
	ExprKindLiteral ExprKind = iota
	ExprKindIdentifier
	ExprKindUnaryOp
	ExprKindArray
	ExprKindMap
	ExprKindTuple
	ExprKindParenthesised
	ExprKindExternal
	ExprKindMemberAccess
	ExprKindIndexing
	ExprKindBinaryOp
	ExprKindApplication
)

// Expression kind names
const (
	ExprKindNameLiteral       = "Literal"
	ExprKindNameIdentifier    = "Identifier"
	ExprKindNameUnaryOp       = "UnaryOp"
	ExprKindNameArray         = "Array"
	ExprKindNameMap           = "Map"
	ExprKindNameTuple         = "Tuple"
	ExprKindNameParenthesised = "Parenthesised"
	ExprKindNameExternal      = "External"
	ExprKindNameMemberAccess  = "MemberAccess"
	ExprKindNameIndexing      = "Indexing"
	ExprKindNameBinaryOp      = "BinaryOp"
	ExprKindNameApplication   = "Application"
	ExprKindNameUnknown       = "Unknown"
)

// String returns the kind name
func (k ExprKind) String() string {
	switch k {
	case ExprKindLiteral:
		return ExprKindNameLiteral
	case ExprKindIdentifier:
		return ExprKindNameIdentifier
	case ExprKindUnaryOp:
		return ExprKindNameUnaryOp
	case ExprKindArray:
		return ExprKindNameArray
	case ExprKindMap:
		return ExprKindNameMap
	case ExprKindTuple:
		return ExprKindNameTuple
	case ExprKindParenthesised:
		return ExprKindNameParenthesised
	case ExprKindExternal:
		return ExprKindNameExternal
	case ExprKindMemberAccess:
		return ExprKindNameMemberAccess
	case ExprKindIndexing:
		return ExprKindNameIndexing
	case ExprKindBinaryOp:
		return ExprKindNameBinaryOp
	case ExprKindApplication:
		return ExprKindNameApplication
	default:
		return ExprKindNameUnknown
	}
}

// IsSolo reports whether expressions of this kind are solo expressions
func (k ExprKind) IsSolo() bool {
	switch k {
	case ExprKindMemberAccess, ExprKindIndexing, ExprKindBinaryOp, ExprKindApplication:
		return false
	}
	return true
}

// Expr is an expression of the template language.
type Expr interface {
	Spanned
	// Kind returns the variant
	Kind() ExprKind
	// String returns a compact, fully bracketed rendering
	String() string
	expr()
}

// SoloExpr is the subset of Expr without postfix, infix or application
// structure.
type SoloExpr interface {
	Expr
	soloExpr()
}

// IntegerLit is a 32-bit integer literal
type IntegerLit struct {
	Value int32
	Raw   string
	span  Span
}

func (e *IntegerLit) Span() Span     { return e.span }
func (e *IntegerLit) Kind() ExprKind { return ExprKindLiteral }
func (e *IntegerLit) String() string { return e.Raw }
func (e *IntegerLit) expr()          {}
func (e *IntegerLit) soloExpr()      {}

// FloatLit is a floating point literal
type FloatLit struct {
	Value float64
	Raw   string
	span  Span
}

func (e *FloatLit) Span() Span     { return e.span }
func (e *FloatLit) Kind() ExprKind { return ExprKindLiteral }
func (e *FloatLit) String() string { return e.Raw }
func (e *FloatLit) expr()          {}
func (e *FloatLit) soloExpr()      {}

// StringLit is a decoded string literal
type StringLit struct {
	Value string
	span  Span
}

func (e *StringLit) Span() Span     { return e.span }
func (e *StringLit) Kind() ExprKind { return ExprKindLiteral }
func (e *StringLit) String() string { return strconv.Quote(e.Value) }
func (e *StringLit) expr()          {}
func (e *StringLit) soloExpr()      {}

// BooleanLit is true or false
type BooleanLit struct {
	Value bool
	span  Span
}

func (e *BooleanLit) Span() Span     { return e.span }
func (e *BooleanLit) Kind() ExprKind { return ExprKindLiteral }
func (e *BooleanLit) String() string { return strconv.FormatBool(e.Value) }
func (e *BooleanLit) expr()          {}
func (e *BooleanLit) soloExpr()      {}

// Identifier is a validated, non-keyword name
type Identifier struct {
	Value string
	span  Span
}

// NewIdentifier creates an identifier without validating it
func NewIdentifier(value string, span Span) *Identifier {
	return &Identifier{Value: value, span: span}
}

func (e *Identifier) Span() Span     { return e.span }
func (e *Identifier) Kind() ExprKind { return ExprKindIdentifier }
func (e *Identifier) String() string { return e.Value }
func (e *Identifier) expr()          {}
func (e *Identifier) soloExpr()      {}

// Equal compares names, ignoring spans
func (e *Identifier) Equal(other *Identifier) bool {
	if e == nil || other == nil {
		return e == other
	}
	return e.Value == other.Value
}

// UnaryOp is an operator run written directly in front of its operand
type UnaryOp struct {
	Op      string
	OpSpan  Span
	Operand Expr
	span    Span
}

func (e *UnaryOp) Span() Span     { return e.span }
func (e *UnaryOp) Kind() ExprKind { return ExprKindUnaryOp }
func (e *UnaryOp) String() string { return "(" + e.Op + e.Operand.String() + ")" }
func (e *UnaryOp) expr()          {}
func (e *UnaryOp) soloExpr()      {}

// Array is [a, b, ...]
type Array struct {
	Items []Expr
	span  Span
}

func (e *Array) Span() Span     { return e.span }
func (e *Array) Kind() ExprKind { return ExprKindArray }
func (e *Array) String() string { return "[" + joinExprs(e.Items) + "]" }
func (e *Array) expr()          {}
func (e *Array) soloExpr()      {}

// MapField is .key or .key=value
type MapField struct {
	Key *Identifier
	// Value is nil for a presence field
	Value *Maybe[Expr]
	span  Span
}

// Span returns the field span
func (f *MapField) Span() Span { return f.span }

// IsPresence reports whether the field has no value
func (f *MapField) IsPresence() bool { return f.Value == nil }

// String returns .key or .key=value
func (f *MapField) String() string {
	if f.Value == nil {
		return "." + f.Key.Value
	}
	return "." + f.Key.Value + "=" + f.Value.String()
}

// Map is (.a, .b=1, ...), possibly empty
type Map struct {
	Fields []*MapField
	span   Span
}

func (e *Map) Span() Span     { return e.span }
func (e *Map) Kind() ExprKind { return ExprKindMap }
func (e *Map) expr()          {}
func (e *Map) soloExpr()      {}

func (e *Map) String() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// Tuple is (a, b, ...) with at least one comma
type Tuple struct {
	Items []Expr
	span  Span
}

func (e *Tuple) Span() Span     { return e.span }
func (e *Tuple) Kind() ExprKind { return ExprKindTuple }
func (e *Tuple) expr()          {}
func (e *Tuple) soloExpr()      {}

func (e *Tuple) String() string {
	if len(e.Items) == 1 {
		return "(" + e.Items[0].String() + ",)"
	}
	return "(" + joinExprs(e.Items) + ")"
}

// Parenthesised is a single expression in parentheses
type Parenthesised struct {
	Inner Expr
	span  Span
}

func (e *Parenthesised) Span() Span     { return e.span }
func (e *Parenthesised) Kind() ExprKind { return ExprKindParenthesised }
func (e *Parenthesised) String() string { return "(" + e.Inner.String() + ")" }
func (e *Parenthesised) expr()          {}
func (e *Parenthesised) soloExpr()      {}

// ExternalExpr is a braced expression of the embedded language
type ExternalExpr struct {
	Value Maybe[any]
	span  Span
}

func (e *ExternalExpr) Span() Span     { return e.span }
func (e *ExternalExpr) Kind() ExprKind { return ExprKindExternal }
func (e *ExternalExpr) String() string { return "{" + e.Value.String() + "}" }
func (e *ExternalExpr) expr()          {}
func (e *ExternalExpr) soloExpr()      {}

// MemberAccess is receiver.member
type MemberAccess struct {
	Receiver Expr
	Member   Maybe[*Identifier]
	span     Span
}

func (e *MemberAccess) Span() Span     { return e.span }
func (e *MemberAccess) Kind() ExprKind { return ExprKindMemberAccess }
func (e *MemberAccess) String() string { return e.Receiver.String() + "." + e.Member.String() }
func (e *MemberAccess) expr()          {}

// Indexing is receiver[index]
type Indexing struct {
	Receiver Expr
	Index    Maybe[Expr]
	span     Span
}

func (e *Indexing) Span() Span     { return e.span }
func (e *Indexing) Kind() ExprKind { return ExprKindIndexing }
func (e *Indexing) String() string { return e.Receiver.String() + "[" + e.Index.String() + "]" }
func (e *Indexing) expr()          {}

// Operator is a symbolic run such as "+" or a backtick-quoted name
type Operator struct {
	Symbol string
	// Named is set for `name` operators; Symbol then holds the name
	Named *Identifier
	span  Span
}

// Span returns the operator span
func (o Operator) Span() Span { return o.span }

// IsNamed reports whether the operator is a backtick identifier
func (o Operator) IsNamed() bool { return o.Named != nil }

// String returns the operator as written
func (o Operator) String() string {
	if o.Named != nil {
		return "`" + o.Symbol + "`"
	}
	return o.Symbol
}

// BinaryOp is left <op> right
type BinaryOp struct {
	Left  Expr
	Op    Operator
	Right Maybe[Expr]
	span  Span
}

func (e *BinaryOp) Span() Span     { return e.span }
func (e *BinaryOp) Kind() ExprKind { return ExprKindBinaryOp }
func (e *BinaryOp) expr()          {}

func (e *BinaryOp) String() string {
	return fmt.Sprintf("(%s %s %s)", e.Left, e.Op, e.Right.String())
}

// Application is juxtaposition: Func Arg
type Application struct {
	Func Expr
	Arg  Expr
	span Span
}

func (e *Application) Span() Span     { return e.span }
func (e *Application) Kind() ExprKind { return ExprKindApplication }
func (e *Application) String() string { return "(" + e.Func.String() + " " + e.Arg.String() + ")" }
func (e *Application) expr()          {}

func joinExprs(items []Expr) string {
	parts := make([]string, len(items))
	for i, it := range items {
		parts[i] = it.String()
	}
	return strings.Join(parts, ", ")
}

// AsSolo narrows e to a SoloExpr
func AsSolo(e Expr) (SoloExpr, bool) {
	s, ok := e.(SoloExpr)
	return s, ok
}
