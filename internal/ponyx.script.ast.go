package internal

import (
	"fmt"
	"strconv"
	"strings"
)

// ScriptNodeType identifies the type of a PonyScript AST node
type ScriptNodeType int

// PonyScript node type constants
const (
	ScriptNodeLiteral ScriptNodeType = iota
	ScriptNodeIdentifier
	ScriptNodeArray
	ScriptNodeObject
	ScriptNodeMember
	ScriptNodeIndex
	ScriptNodeCall
	ScriptNodeUnary
	ScriptNodeBinary
	ScriptNodeConditional
	ScriptNodeArrow
	ScriptNodeParen
)

// PonyScript node type names for debugging
const (
	ScriptNodeNameLiteral     = "LITERAL"
	ScriptNodeNameIdentifier  = "IDENTIFIER"
	ScriptNodeNameArray       = "ARRAY"
	ScriptNodeNameObject      = "OBJECT"
	ScriptNodeNameMember      = "MEMBER"
	ScriptNodeNameIndex       = "INDEX"
	ScriptNodeNameCall        = "CALL"
	ScriptNodeNameUnary       = "UNARY"
	ScriptNodeNameBinary      = "BINARY"
	ScriptNodeNameConditional = "CONDITIONAL"
	ScriptNodeNameArrow       = "ARROW"
	ScriptNodeNameParen       = "PAREN"
)

// String returns the string representation of the node type
func (t ScriptNodeType) String() string {
	switch t {
	case ScriptNodeLiteral:
		return ScriptNodeNameLiteral
	case ScriptNodeIdentifier:
		return ScriptNodeNameIdentifier
	case ScriptNodeArray:
		return ScriptNodeNameArray
	case ScriptNodeObject:
		return ScriptNodeNameObject
	case ScriptNodeMember:
		return ScriptNodeNameMember
	case ScriptNodeIndex:
		return ScriptNodeNameIndex
	case ScriptNodeCall:
		return ScriptNodeNameCall
	case ScriptNodeUnary:
		return ScriptNodeNameUnary
	case ScriptNodeBinary:
		return ScriptNodeNameBinary
	case ScriptNodeConditional:
		return ScriptNodeNameConditional
	case ScriptNodeArrow:
		return ScriptNodeNameArrow
	case ScriptNodeParen:
		return ScriptNodeNameParen
	default:
		return ScriptNodeNameLiteral
	}
}

// ScriptNode is the interface for all PonyScript expression nodes
type ScriptNode interface {
	// Type returns the node type
	Type() ScriptNodeType
	// Pos returns the start offset relative to the parser input
	Pos() int
	// End returns the end offset relative to the parser input
	End() int
	// String returns a string representation for debugging
	String() string
	scriptNode()
}

type scriptRange struct {
	pos int
	end int
}

func (r scriptRange) Pos() int    { return r.pos }
func (r scriptRange) End() int    { return r.end }
func (r scriptRange) scriptNode() {}

// ScriptLiteralKind identifies the kind of a literal value
type ScriptLiteralKind int

// Literal kind constants
const (
	ScriptLiteralNumber ScriptLiteralKind = iota
	ScriptLiteralString
	ScriptLiteralBool
	ScriptLiteralNull
	ScriptLiteralUndefined
)

// ScriptLiteral is a number, string, boolean, null or undefined literal
type ScriptLiteral struct {
	scriptRange
	Kind  ScriptLiteralKind
	Value any
	Raw   string
}

func (n *ScriptLiteral) Type() ScriptNodeType { return ScriptNodeLiteral }

func (n *ScriptLiteral) String() string {
	switch n.Kind {
	case ScriptLiteralString:
		return strconv.Quote(n.Value.(string))
	case ScriptLiteralNull:
		return ScriptKeywordNull
	case ScriptLiteralUndefined:
		return ScriptKeywordUndefined
	default:
		return n.Raw
	}
}

// ScriptIdentifier is a variable reference
type ScriptIdentifier struct {
	scriptRange
	Name string
}

func (n *ScriptIdentifier) Type() ScriptNodeType { return ScriptNodeIdentifier }
func (n *ScriptIdentifier) String() string       { return n.Name }

// ScriptArray is an array literal
type ScriptArray struct {
	scriptRange
	Elements []ScriptNode
}

func (n *ScriptArray) Type() ScriptNodeType { return ScriptNodeArray }

func (n *ScriptArray) String() string {
	return "[" + joinScriptNodes(n.Elements) + "]"
}

// ScriptProperty is one entry of an object literal
type ScriptProperty struct {
	Key       string
	Value     ScriptNode
	Shorthand bool
}

// ScriptObject is an object literal
type ScriptObject struct {
	scriptRange
	Properties []ScriptProperty
}

func (n *ScriptObject) Type() ScriptNodeType { return ScriptNodeObject }

func (n *ScriptObject) String() string {
	parts := make([]string, len(n.Properties))
	for i, p := range n.Properties {
		if p.Shorthand {
			parts[i] = p.Key
			continue
		}
		parts[i] = p.Key + ": " + p.Value.String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// ScriptMember is a property access, a.b or a?.b
type ScriptMember struct {
	scriptRange
	Object   ScriptNode
	Property string
	Optional bool
}

func (n *ScriptMember) Type() ScriptNodeType { return ScriptNodeMember }

func (n *ScriptMember) String() string {
	if n.Optional {
		return n.Object.String() + ScriptOpOptional + n.Property
	}
	return n.Object.String() + ScriptOpDot + n.Property
}

// ScriptIndex is a computed property access, a[i]
type ScriptIndex struct {
	scriptRange
	Object ScriptNode
	Index  ScriptNode
}

func (n *ScriptIndex) Type() ScriptNodeType { return ScriptNodeIndex }

func (n *ScriptIndex) String() string {
	return fmt.Sprintf("%s[%s]", n.Object.String(), n.Index.String())
}

// ScriptCall is a function call
type ScriptCall struct {
	scriptRange
	Callee ScriptNode
	Args   []ScriptNode
}

func (n *ScriptCall) Type() ScriptNodeType { return ScriptNodeCall }

func (n *ScriptCall) String() string {
	return fmt.Sprintf("%s(%s)", n.Callee.String(), joinScriptNodes(n.Args))
}

// ScriptUnary is a prefix operation
type ScriptUnary struct {
	scriptRange
	Op      string
	Operand ScriptNode
}

func (n *ScriptUnary) Type() ScriptNodeType { return ScriptNodeUnary }

func (n *ScriptUnary) String() string {
	if n.Op == ScriptKeywordTypeof {
		return fmt.Sprintf("(%s %s)", n.Op, n.Operand.String())
	}
	return fmt.Sprintf("(%s%s)", n.Op, n.Operand.String())
}

// ScriptBinary is an infix operation
type ScriptBinary struct {
	scriptRange
	Left  ScriptNode
	Op    string
	Right ScriptNode
}

func (n *ScriptBinary) Type() ScriptNodeType { return ScriptNodeBinary }

func (n *ScriptBinary) String() string {
	return fmt.Sprintf("(%s %s %s)", n.Left.String(), n.Op, n.Right.String())
}

// ScriptConditional is the ternary c ? a : b
type ScriptConditional struct {
	scriptRange
	Test ScriptNode
	Then ScriptNode
	Else ScriptNode
}

func (n *ScriptConditional) Type() ScriptNodeType { return ScriptNodeConditional }

func (n *ScriptConditional) String() string {
	return fmt.Sprintf("(%s ? %s : %s)", n.Test.String(), n.Then.String(), n.Else.String())
}

// ScriptArrow is an arrow function with an expression body
type ScriptArrow struct {
	scriptRange
	Params []string
	Body   ScriptNode
}

func (n *ScriptArrow) Type() ScriptNodeType { return ScriptNodeArrow }

func (n *ScriptArrow) String() string {
	return fmt.Sprintf("(%s) => %s", strings.Join(n.Params, ", "), n.Body.String())
}

// ScriptParen keeps the extent of a parenthesised expression
type ScriptParen struct {
	scriptRange
	Inner ScriptNode
}

func (n *ScriptParen) Type() ScriptNodeType { return ScriptNodeParen }
func (n *ScriptParen) String() string       { return n.Inner.String() }

func joinScriptNodes(nodes []ScriptNode) string {
	parts := make([]string, len(nodes))
	for i, n := range nodes {
		parts[i] = n.String()
	}
	return strings.Join(parts, ", ")
}

// ScriptPatternKind identifies a binding pattern shape
type ScriptPatternKind int

// Binding pattern kinds
const (
	ScriptPatternIdentifier ScriptPatternKind = iota
	ScriptPatternObject
	ScriptPatternArray
)

// ScriptPattern is the left-hand side of a declaration
type ScriptPattern struct {
	Kind  ScriptPatternKind
	Names []string
}

// String returns the pattern as written
func (p ScriptPattern) String() string {
	switch p.Kind {
	case ScriptPatternObject:
		return "{ " + strings.Join(p.Names, ", ") + " }"
	case ScriptPatternArray:
		return "[" + strings.Join(p.Names, ", ") + "]"
	default:
		if len(p.Names) == 0 {
			return ""
		}
		return p.Names[0]
	}
}

// ScriptDeclaration is a let or const declaration
type ScriptDeclaration struct {
	scriptRange
	Kind     string
	Pattern  ScriptPattern
	TypeText string
	Init     ScriptNode
	Exported bool
}

// String returns the declaration in source form
func (d *ScriptDeclaration) String() string {
	var sb strings.Builder
	if d.Exported {
		sb.WriteString(ScriptKeywordExport + " ")
	}
	sb.WriteString(d.Kind)
	sb.WriteByte(' ')
	sb.WriteString(d.Pattern.String())
	if d.TypeText != "" {
		sb.WriteString(": ")
		sb.WriteString(d.TypeText)
	}
	if d.Init != nil {
		sb.WriteString(" = ")
		sb.WriteString(d.Init.String())
	}
	return sb.String()
}

// ScriptImportName is one named import, optionally aliased
type ScriptImportName struct {
	Name  string
	Alias string
}

// ScriptImport is an import statement
type ScriptImport struct {
	scriptRange
	Source  string
	Default string
	Names   []ScriptImportName
}

// String returns the import in source form
func (i *ScriptImport) String() string {
	var clauses []string
	if i.Default != "" {
		clauses = append(clauses, i.Default)
	}
	if len(i.Names) > 0 {
		names := make([]string, len(i.Names))
		for j, n := range i.Names {
			names[j] = n.Name
			if n.Alias != "" {
				names[j] += " as " + n.Alias
			}
		}
		clauses = append(clauses, "{ "+strings.Join(names, ", ")+" }")
	}
	if len(clauses) == 0 {
		return fmt.Sprintf("import %q", i.Source)
	}
	return fmt.Sprintf("import %s from %q", strings.Join(clauses, ", "), i.Source)
}

// ScriptStatement is a top-level module item: *ScriptImport or *ScriptDeclaration
type ScriptStatement interface {
	Pos() int
	End() int
	String() string
}

// ScriptModule is the parsed module section of a file
type ScriptModule struct {
	Statements []ScriptStatement
	End        int
}

// Imports returns the import statements of the module
func (m *ScriptModule) Imports() []*ScriptImport {
	var out []*ScriptImport
	for _, s := range m.Statements {
		if imp, ok := s.(*ScriptImport); ok {
			out = append(out, imp)
		}
	}
	return out
}

// Declarations returns the declarations of the module
func (m *ScriptModule) Declarations() []*ScriptDeclaration {
	var out []*ScriptDeclaration
	for _, s := range m.Statements {
		if d, ok := s.(*ScriptDeclaration); ok {
			out = append(out, d)
		}
	}
	return out
}
