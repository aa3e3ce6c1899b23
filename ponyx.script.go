package ponyx

import (
	"errors"

	"github.com/avpony/ponyx/internal"
)

// PonyScript syntax tree, re-exported from the internal parser
type (
	ScriptNode        = internal.ScriptNode
	ScriptNodeType    = internal.ScriptNodeType
	ScriptLiteral     = internal.ScriptLiteral
	ScriptIdentifier  = internal.ScriptIdentifier
	ScriptArray       = internal.ScriptArray
	ScriptObject      = internal.ScriptObject
	ScriptProperty    = internal.ScriptProperty
	ScriptMember      = internal.ScriptMember
	ScriptIndex       = internal.ScriptIndex
	ScriptCall        = internal.ScriptCall
	ScriptUnary       = internal.ScriptUnary
	ScriptBinary      = internal.ScriptBinary
	ScriptConditional = internal.ScriptConditional
	ScriptArrow       = internal.ScriptArrow
	ScriptParen       = internal.ScriptParen
	ScriptPattern     = internal.ScriptPattern
	ScriptDeclaration = internal.ScriptDeclaration
	ScriptImport      = internal.ScriptImport
	ScriptImportName  = internal.ScriptImportName
	ScriptStatement   = internal.ScriptStatement
	ScriptModule      = internal.ScriptModule
)

// ScriptExt embeds PonyScript, a small JavaScript-like expression language.
type ScriptExt struct{}

// NewScriptExt creates the PonyScript embedding
func NewScriptExt() *ScriptExt {
	return &ScriptExt{}
}

// ID returns "script"
func (*ScriptExt) ID() string { return ExtIDScript }

// ExpressionMarker returns MarkerScriptExpression
func (*ScriptExt) ExpressionMarker() Marker { return MarkerScriptExpression }

// Module parses imports and declarations up to the fence line
func (*ScriptExt) Module(input string) ExternalResult {
	mod, consumed, err := internal.ParseScriptModule(input)
	if err != nil {
		return scriptFailure(err)
	}
	return Succeeded(mod, consumed)
}

// Expression parses one expression
func (*ScriptExt) Expression(input string) ExternalResult {
	node, consumed, err := internal.ParseScriptExpression(input)
	if err != nil {
		return scriptFailure(err)
	}
	return Succeeded(node, consumed)
}

// LetDeclaration parses "let pattern (: Type)? (= expr)?"
func (*ScriptExt) LetDeclaration(input string) ExternalResult {
	decl, consumed, err := internal.ParseScriptDeclaration(input, internal.WordLet)
	if err != nil {
		return scriptFailure(err)
	}
	return Succeeded(decl, consumed)
}

// ConstDeclaration parses "const pattern (: Type)? = expr"
func (*ScriptExt) ConstDeclaration(input string) ExternalResult {
	decl, consumed, err := internal.ParseScriptDeclaration(input, internal.WordConst)
	if err != nil {
		return scriptFailure(err)
	}
	return Succeeded(decl, consumed)
}

func scriptFailure(err error) ExternalResult {
	var serr *internal.ScriptSyntaxError
	if errors.As(err, &serr) {
		return Failed(serr.Message, serr.Start, serr.End)
	}
	return Failed(err.Error(), 0, 0)
}
