package ponyx

import (
	"fmt"
	"strings"
)

// NodeType identifies the variant of a Node
type NodeType int

// Node types
const (
	NodeTypeText NodeType = iota
	NodeTypeEntity
	NodeTypeMustache
	NodeTypeStatement
	NodeTypeBlock
	NodeTypeTag
	NodeTypeComment
)

// Node type names
const (
	NodeTypeNameText      = "Text"
	NodeTypeNameEntity    = "Entity"
	NodeTypeNameMustache  = "Mustache"
	NodeTypeNameStatement = "Statement"
	NodeTypeNameBlock     = "Block"
	NodeTypeNameTag       = "Tag"
	NodeTypeNameComment   = "Comment"
	NodeTypeNameUnknown   = "Unknown"
)

// String returns the node type name
func (t NodeType) String() string {
	switch t {
	case NodeTypeText:
		return NodeTypeNameText
	case NodeTypeEntity:
		return NodeTypeNameEntity
	case NodeTypeMustache:
		return NodeTypeNameMustache
	case NodeTypeStatement:
		return NodeTypeNameStatement
	case NodeTypeBlock:
		return NodeTypeNameBlock
	case NodeTypeTag:
		return NodeTypeNameTag
	case NodeTypeComment:
		return NodeTypeNameComment
	default:
		return NodeTypeNameUnknown
	}
}

// Statement and block kinds
const (
	StatementLet   = "let"
	StatementConst = "const"
	StatementDebug = "debug"

	BlockIf    = "if"
	BlockFor   = "for"
	BlockAwait = "await"
	BlockKey   = "key"
)

// Display limits for String methods
const (
	maxDisplayLength   = 40
	truncatedLength    = 37
	truncationSuffix   = "..."
	nodeStringFmt      = "%s{%s @ %s}"
	nodeStringQuoteFmt = "%s{%q @ %s}"
)

// Node is an element of the markup tree.
type Node interface {
	Spanned
	// NodeType returns the variant
	NodeType() NodeType
	// String returns a one-line description
	String() string
	node()
}

// AtStatement is a {@...} statement
type AtStatement interface {
	Node
	StatementKind() string
	atStatement()
}

// LogicBlock is a {#...}...{/...} block
type LogicBlock interface {
	Node
	BlockKind() string
	logicBlock()
}

// RootNode holds the top-level nodes of a file
type RootNode struct {
	Children []Node
	span     Span
}

// Span returns the span of the node sequence
func (n *RootNode) Span() Span { return n.span }

// String lists the children, one per line
func (n *RootNode) String() string {
	var sb strings.Builder
	sb.WriteString("RootNode{\n")
	for i, child := range n.Children {
		sb.WriteString(fmt.Sprintf("  [%d] %s\n", i, child.String()))
	}
	sb.WriteString("}")
	return sb.String()
}

// Text is a run of literal markup text
type Text struct {
	Content string
	span    Span
}

func (n *Text) Span() Span         { return n.span }
func (n *Text) NodeType() NodeType { return NodeTypeText }
func (n *Text) node()              {}

func (n *Text) String() string {
	return fmt.Sprintf(nodeStringQuoteFmt, NodeTypeNameText, truncate(n.Content), n.span)
}

// Entity is a character reference. Value is the replacement text.
type Entity struct {
	// Name is the text between '&' and ';', e.g. "amp" or "#x41"
	Name  string
	Value string
	span  Span
}

func (n *Entity) Span() Span         { return n.span }
func (n *Entity) NodeType() NodeType { return NodeTypeEntity }
func (n *Entity) node()              {}

func (n *Entity) String() string {
	return fmt.Sprintf(nodeStringFmt, NodeTypeNameEntity, "&"+n.Name+";", n.span)
}

// IsNumeric reports whether the reference is &#...;
func (n *Entity) IsNumeric() bool {
	return strings.HasPrefix(n.Name, "#")
}

// Mustache is a { expression } interpolation
type Mustache struct {
	Expr *ExternalExpr
}

func (n *Mustache) Span() Span         { return n.Expr.Span() }
func (n *Mustache) NodeType() NodeType { return NodeTypeMustache }
func (n *Mustache) node()              {}

func (n *Mustache) String() string {
	return fmt.Sprintf(nodeStringFmt, NodeTypeNameMustache, n.Expr.Value.String(), n.Span())
}

// Comment is <!-- content -->
type Comment struct {
	Content string
	span    Span
}

func (n *Comment) Span() Span         { return n.span }
func (n *Comment) NodeType() NodeType { return NodeTypeComment }
func (n *Comment) node()              {}

func (n *Comment) String() string {
	return fmt.Sprintf(nodeStringQuoteFmt, NodeTypeNameComment, truncate(n.Content), n.span)
}

// LetStatement is {@let declaration}. Decl covers the keyword.
type LetStatement struct {
	Decl Maybe[any]
	span Span
}

func (n *LetStatement) Span() Span            { return n.span }
func (n *LetStatement) NodeType() NodeType    { return NodeTypeStatement }
func (n *LetStatement) StatementKind() string { return StatementLet }
func (n *LetStatement) node()                 {}
func (n *LetStatement) atStatement()          {}

func (n *LetStatement) String() string {
	return fmt.Sprintf(nodeStringFmt, NodeTypeNameStatement, n.Decl.String(), n.span)
}

// ConstStatement is {@const declaration}
type ConstStatement struct {
	Decl Maybe[any]
	span Span
}

func (n *ConstStatement) Span() Span            { return n.span }
func (n *ConstStatement) NodeType() NodeType    { return NodeTypeStatement }
func (n *ConstStatement) StatementKind() string { return StatementConst }
func (n *ConstStatement) node()                 {}
func (n *ConstStatement) atStatement()          {}

func (n *ConstStatement) String() string {
	return fmt.Sprintf(nodeStringFmt, NodeTypeNameStatement, n.Decl.String(), n.span)
}

// DebugStatement is {@debug expression}
type DebugStatement struct {
	Expr Maybe[any]
	span Span
}

func (n *DebugStatement) Span() Span            { return n.span }
func (n *DebugStatement) NodeType() NodeType    { return NodeTypeStatement }
func (n *DebugStatement) StatementKind() string { return StatementDebug }
func (n *DebugStatement) node()                 {}
func (n *DebugStatement) atStatement()          {}

func (n *DebugStatement) String() string {
	return fmt.Sprintf(nodeStringFmt, NodeTypeNameStatement, StatementDebug+" "+n.Expr.String(), n.span)
}

// IfBranchKind distinguishes the branches of an if block
type IfBranchKind int

// If branch kinds
const (
	BranchIf IfBranchKind = iota
	BranchElseIf
	BranchElse
)

// String returns the branch keyword(s)
func (k IfBranchKind) String() string {
	switch k {
	case BranchElseIf:
		return "else if"
	case BranchElse:
		return "else"
	default:
		return "if"
	}
}

// IfBranch is one arm of an if block. Cond is unset for else.
type IfBranch struct {
	Kind     IfBranchKind
	Cond     Maybe[any]
	Children []Node
	span     Span
}

// Span returns the branch span, header included
func (b *IfBranch) Span() Span { return b.span }

// IfBlock is {#if c}...{:else if c}...{:else}...{/if}
type IfBlock struct {
	Branches []*IfBranch
	span     Span
}

func (n *IfBlock) Span() Span         { return n.span }
func (n *IfBlock) NodeType() NodeType { return NodeTypeBlock }
func (n *IfBlock) BlockKind() string  { return BlockIf }
func (n *IfBlock) node()              {}
func (n *IfBlock) logicBlock()        {}

func (n *IfBlock) String() string {
	kinds := make([]string, len(n.Branches))
	for i, b := range n.Branches {
		kinds[i] = b.Kind.String()
	}
	return fmt.Sprintf(nodeStringFmt, NodeTypeNameBlock, BlockIf+" ["+strings.Join(kinds, ", ")+"]", n.span)
}

// ForBlock is {#for x in xs by k}...{:else}...{/for}
type ForBlock struct {
	Binding Maybe[*Identifier]
	Iter    Maybe[any]
	// Key is nil when no "by" clause is written
	Key      *Maybe[any]
	Children []Node
	// Empty holds the {:else} children rendered for an empty iteration
	Empty    []Node
	HasEmpty bool
	span     Span
}

func (n *ForBlock) Span() Span         { return n.span }
func (n *ForBlock) NodeType() NodeType { return NodeTypeBlock }
func (n *ForBlock) BlockKind() string  { return BlockFor }
func (n *ForBlock) node()              {}
func (n *ForBlock) logicBlock()        {}

func (n *ForBlock) String() string {
	desc := BlockFor + " " + n.Binding.String() + " in " + n.Iter.String()
	if n.Key != nil {
		desc += " by " + n.Key.String()
	}
	return fmt.Sprintf(nodeStringFmt, NodeTypeNameBlock, desc, n.span)
}

// AwaitBranchKind distinguishes the branches of an await block
type AwaitBranchKind int

// Await branch kinds
const (
	AwaitPending AwaitBranchKind = iota
	AwaitThen
	AwaitCatch
)

// String returns the branch name
func (k AwaitBranchKind) String() string {
	switch k {
	case AwaitThen:
		return "then"
	case AwaitCatch:
		return "catch"
	default:
		return "pending"
	}
}

// AwaitBranch is one section of an await block
type AwaitBranch struct {
	Kind AwaitBranchKind
	// Binding is nil when no name is written
	Binding  *Maybe[*Identifier]
	Children []Node
	span     Span
}

// Span returns the branch span
func (b *AwaitBranch) Span() Span { return b.span }

// AwaitBlock is {#await p}...{:then v}...{:catch e}...{/await}, or the
// inline form {#await p then v}...{/await}
type AwaitBlock struct {
	Expr     Maybe[any]
	Branches []*AwaitBranch
	Inline   bool
	span     Span
}

func (n *AwaitBlock) Span() Span         { return n.span }
func (n *AwaitBlock) NodeType() NodeType { return NodeTypeBlock }
func (n *AwaitBlock) BlockKind() string  { return BlockAwait }
func (n *AwaitBlock) node()              {}
func (n *AwaitBlock) logicBlock()        {}

func (n *AwaitBlock) String() string {
	kinds := make([]string, len(n.Branches))
	for i, b := range n.Branches {
		kinds[i] = b.Kind.String()
	}
	return fmt.Sprintf(nodeStringFmt, NodeTypeNameBlock, BlockAwait+" "+n.Expr.String()+" ["+strings.Join(kinds, ", ")+"]", n.span)
}

// KeyBlock is {#key e}...{/key}
type KeyBlock struct {
	Expr     Maybe[any]
	Children []Node
	span     Span
}

func (n *KeyBlock) Span() Span         { return n.span }
func (n *KeyBlock) NodeType() NodeType { return NodeTypeBlock }
func (n *KeyBlock) BlockKind() string  { return BlockKey }
func (n *KeyBlock) node()              {}
func (n *KeyBlock) logicBlock()        {}

func (n *KeyBlock) String() string {
	return fmt.Sprintf(nodeStringFmt, NodeTypeNameBlock, BlockKey+" "+n.Expr.String(), n.span)
}

// TagName is a dotted path such as Foo.Bar
type TagName struct {
	Path []*Identifier
}

// Equal compares two names segment by segment. Paths of different length
// are never equal.
func (n TagName) Equal(other TagName) bool {
	if len(n.Path) != len(other.Path) {
		return false
	}
	for i := range n.Path {
		if !n.Path[i].Equal(other.Path[i]) {
			return false
		}
	}
	return true
}

// Span covers the whole path
func (n TagName) Span() Span {
	spans := make([]Span, len(n.Path))
	for i, seg := range n.Path {
		spans[i] = seg.Span()
	}
	return joinSpans(spans...)
}

// String joins the segments with dots
func (n TagName) String() string {
	parts := make([]string, len(n.Path))
	for i, seg := range n.Path {
		parts[i] = seg.Value
	}
	return strings.Join(parts, ".")
}

// AttributeKey is name or name:director
type AttributeKey struct {
	Name *Identifier
	// Director is nil for a plain named key
	Director *Maybe[*Identifier]
}

// IsDirective reports whether the key has a ':' part
func (k AttributeKey) IsDirective() bool {
	return k.Director != nil
}

// String returns the key as written
func (k AttributeKey) String() string {
	if k.Director == nil {
		return k.Name.Value
	}
	return k.Name.Value + ":" + k.Director.String()
}

// Attribute is key or key=value
type Attribute struct {
	Key AttributeKey
	// Value is nil when no '=' is written
	Value *Maybe[SoloExpr]
	span  Span
}

// Span returns the attribute span
func (a *Attribute) Span() Span { return a.span }

// String returns key or key=value
func (a *Attribute) String() string {
	if a.Value == nil {
		return a.Key.String()
	}
	return a.Key.String() + "=" + a.Value.String()
}

// Tag is <Name attrs/> or <Name attrs>children</Name>
type Tag struct {
	Name        TagName
	Attributes  []*Attribute
	Children    []Node
	SelfClosing bool
	span        Span
}

func (n *Tag) Span() Span         { return n.span }
func (n *Tag) NodeType() NodeType { return NodeTypeTag }
func (n *Tag) node()              {}

func (n *Tag) String() string {
	attrs := make([]string, len(n.Attributes))
	for i, a := range n.Attributes {
		attrs[i] = a.String()
	}
	desc := n.Name.String()
	if len(attrs) > 0 {
		desc += " " + strings.Join(attrs, " ")
	}
	if n.SelfClosing {
		desc += " /"
	} else {
		desc += fmt.Sprintf(", children=%d", len(n.Children))
	}
	return fmt.Sprintf(nodeStringFmt, NodeTypeNameTag, desc, n.span)
}

// Attribute returns the first attribute with the given name
func (n *Tag) Attribute(name string) (*Attribute, bool) {
	for _, a := range n.Attributes {
		if a.Key.Name.Value == name {
			return a, true
		}
	}
	return nil, false
}

func truncate(s string) string {
	if len(s) > maxDisplayLength {
		return s[:truncatedLength] + truncationSuffix
	}
	return s
}
