package internal

import "strings"

// MaxScriptDepth bounds the recursion of the PonyScript expression parser
const MaxScriptDepth = 512

// ErrMsgScriptTooDeep is reported when MaxScriptDepth is exceeded
const ErrMsgScriptTooDeep = "expression nested too deeply"

// Binary operator precedence, higher binds tighter
var scriptBinaryPrecedence = map[string]int{
	ScriptOpNullish:   1,
	ScriptOpOr:        2,
	ScriptOpAnd:       3,
	ScriptOpEq:        4,
	ScriptOpNeq:       4,
	ScriptOpStrictEq:  4,
	ScriptOpStrictNeq: 4,
	ScriptOpLt:        5,
	ScriptOpLte:       5,
	ScriptOpGt:        5,
	ScriptOpGte:       5,
	ScriptOpPlus:      6,
	ScriptOpMinus:     6,
	ScriptOpStar:      7,
	ScriptOpSlash:     7,
	ScriptOpPercent:   7,
}

// ScriptParser parses PonyScript over a prefix of its input. It stops at the
// first token that cannot continue the current production and reports how
// many bytes it consumed.
type ScriptParser struct {
	tok     *ScriptTokenizer
	cur     ScriptToken
	lookErr *ScriptSyntaxError
	lastEnd int
	depth   int
}

type scriptState struct {
	pos     int
	cur     ScriptToken
	lookErr *ScriptSyntaxError
	lastEnd int
}

// NewScriptParser creates a parser over input
func NewScriptParser(input string) *ScriptParser {
	p := &ScriptParser{tok: NewScriptTokenizer(input)}
	p.fetch()
	return p
}

// Consumed returns the end offset of the last consumed token
func (p *ScriptParser) Consumed() int {
	return p.lastEnd
}

// ParseScriptExpression parses one expression from the start of input
func ParseScriptExpression(input string) (ScriptNode, int, error) {
	p := NewScriptParser(input)
	node, err := p.ParseExpression()
	if err != nil {
		return nil, 0, err
	}
	return node, p.Consumed(), nil
}

// ParseScriptDeclaration parses a let or const declaration, keyword included
func ParseScriptDeclaration(input, kind string) (*ScriptDeclaration, int, error) {
	p := NewScriptParser(input)
	decl, err := p.ParseDeclaration(kind)
	if err != nil {
		return nil, 0, err
	}
	return decl, p.Consumed(), nil
}

// ParseScriptModule parses module statements up to a "---" fence line or the
// end of input. The consumed length stops at the fence.
func ParseScriptModule(input string) (*ScriptModule, int, error) {
	p := NewScriptParser(input)
	mod, err := p.ParseModule()
	if err != nil {
		return nil, 0, err
	}
	return mod, mod.End, nil
}

// fetch reads the next lookahead token. A tokenizer error becomes an
// INVALID lookahead so that a complete expression before it still parses.
func (p *ScriptParser) fetch() {
	tok, err := p.tok.Next()
	if err != nil {
		serr, ok := err.(*ScriptSyntaxError)
		if !ok {
			serr = NewScriptSyntaxError(err.Error(), p.tok.Pos(), p.tok.Pos())
		}
		p.lookErr = serr
		p.cur = ScriptToken{Type: ScriptTokenInvalid, Pos: serr.Start, End: serr.End}
		p.tok.Reset(len(p.tok.Input()))
		return
	}
	p.lookErr = nil
	p.cur = tok
}

// advance consumes the lookahead
func (p *ScriptParser) advance() ScriptToken {
	tok := p.cur
	if tok.Type != ScriptTokenEOF {
		p.lastEnd = tok.End
		p.fetch()
	}
	return tok
}

func (p *ScriptParser) save() scriptState {
	return scriptState{pos: p.tok.Pos(), cur: p.cur, lookErr: p.lookErr, lastEnd: p.lastEnd}
}

func (p *ScriptParser) restore(s scriptState) {
	p.tok.Reset(s.pos)
	p.cur = s.cur
	p.lookErr = s.lookErr
	p.lastEnd = s.lastEnd
}

func (p *ScriptParser) match(punct string) bool {
	if p.cur.Is(punct) {
		p.advance()
		return true
	}
	return false
}

func (p *ScriptParser) expect(punct, msg string) error {
	if p.match(punct) {
		return nil
	}
	return p.errorAtCurrent(msg)
}

// errorAtCurrent builds an error covering the lookahead token
func (p *ScriptParser) errorAtCurrent(msg string) error {
	if p.lookErr != nil {
		return p.lookErr
	}
	if p.cur.Type == ScriptTokenEOF {
		return NewScriptSyntaxError(ErrMsgScriptUnexpectedEOF, p.cur.Pos, p.cur.Pos)
	}
	return NewScriptSyntaxError(msg, p.cur.Pos, p.cur.End)
}

func (p *ScriptParser) enter() error {
	p.depth++
	if p.depth > MaxScriptDepth {
		return NewScriptSyntaxError(ErrMsgScriptTooDeep, p.cur.Pos, p.cur.End)
	}
	return nil
}

func (p *ScriptParser) leave() {
	p.depth--
}

// ParseExpression parses an arrow function or a conditional expression
func (p *ScriptParser) ParseExpression() (ScriptNode, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	if arrow, ok, err := p.tryArrow(); ok || err != nil {
		return arrow, err
	}
	return p.parseConditional()
}

// tryArrow recognises "x => e" and "(a, b) => e"
func (p *ScriptParser) tryArrow() (ScriptNode, bool, error) {
	start := p.cur.Pos
	state := p.save()

	var params []string
	switch {
	case p.cur.Type == ScriptTokenIdentifier && !isScriptReserved(p.cur.Value):
		params = []string{p.advance().Value}
	case p.cur.Is(ScriptOpLParen):
		p.advance()
		for !p.cur.Is(ScriptOpRParen) {
			if p.cur.Type != ScriptTokenIdentifier {
				p.restore(state)
				return nil, false, nil
			}
			params = append(params, p.advance().Value)
			if !p.match(ScriptOpComma) {
				break
			}
		}
		if !p.match(ScriptOpRParen) {
			p.restore(state)
			return nil, false, nil
		}
	default:
		return nil, false, nil
	}

	if !p.match(ScriptOpArrow) {
		p.restore(state)
		return nil, false, nil
	}

	body, err := p.ParseExpression()
	if err != nil {
		return nil, true, err
	}
	return &ScriptArrow{scriptRange: scriptRange{start, body.End()}, Params: params, Body: body}, true, nil
}

func (p *ScriptParser) parseConditional() (ScriptNode, error) {
	test, err := p.parseBinary(1)
	if err != nil {
		return nil, err
	}
	if !p.match(ScriptOpQuestion) {
		return test, nil
	}

	then, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}
	if err := p.expect(ScriptOpColon, ErrMsgScriptExpectedColon); err != nil {
		return nil, err
	}
	els, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}
	return &ScriptConditional{scriptRange: scriptRange{test.Pos(), els.End()}, Test: test, Then: then, Else: els}, nil
}

// parseBinary implements precedence climbing over scriptBinaryPrecedence
func (p *ScriptParser) parseBinary(minPrec int) (ScriptNode, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	for {
		if p.cur.Type != ScriptTokenPunct || p.atFence() {
			return left, nil
		}
		prec, ok := scriptBinaryPrecedence[p.cur.Value]
		if !ok || prec < minPrec {
			return left, nil
		}
		op := p.advance().Value

		right, err := p.parseBinary(prec + 1)
		if err != nil {
			return nil, err
		}
		left = &ScriptBinary{scriptRange: scriptRange{left.Pos(), right.End()}, Left: left, Op: op, Right: right}
	}
}

func (p *ScriptParser) parseUnary() (ScriptNode, error) {
	start := p.cur.Pos
	var op string
	switch {
	case p.cur.Is(ScriptOpNot), p.cur.Is(ScriptOpMinus), p.cur.Is(ScriptOpPlus):
		op = p.cur.Value
	case p.cur.IsWord(ScriptKeywordTypeof):
		op = ScriptKeywordTypeof
	default:
		return p.parsePostfix()
	}
	p.advance()

	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	operand, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	return &ScriptUnary{scriptRange: scriptRange{start, operand.End()}, Op: op, Operand: operand}, nil
}

func (p *ScriptParser) parsePostfix() (ScriptNode, error) {
	node, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	for {
		switch {
		case p.cur.Is(ScriptOpDot), p.cur.Is(ScriptOpOptional):
			optional := p.advance().Value == ScriptOpOptional
			if p.cur.Type != ScriptTokenIdentifier {
				return nil, p.errorAtCurrent(ErrMsgScriptExpectedIdentifier)
			}
			name := p.advance()
			node = &ScriptMember{scriptRange: scriptRange{node.Pos(), name.End}, Object: node, Property: name.Value, Optional: optional}
		case p.cur.Is(ScriptOpLBracket):
			p.advance()
			index, err := p.ParseExpression()
			if err != nil {
				return nil, err
			}
			if err := p.expect(ScriptOpRBracket, ErrMsgScriptExpectedRBracket); err != nil {
				return nil, err
			}
			node = &ScriptIndex{scriptRange: scriptRange{node.Pos(), p.lastEnd}, Object: node, Index: index}
		case p.cur.Is(ScriptOpLParen):
			p.advance()
			args, err := p.parseList(ScriptOpRParen, ErrMsgScriptExpectedRParen)
			if err != nil {
				return nil, err
			}
			node = &ScriptCall{scriptRange: scriptRange{node.Pos(), p.lastEnd}, Callee: node, Args: args}
		default:
			return node, nil
		}
	}
}

// parseList parses comma separated expressions up to and including closer.
// A trailing comma is allowed.
func (p *ScriptParser) parseList(closer, msg string) ([]ScriptNode, error) {
	var items []ScriptNode
	for !p.cur.Is(closer) {
		item, err := p.ParseExpression()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
		if !p.match(ScriptOpComma) {
			break
		}
	}
	if err := p.expect(closer, msg); err != nil {
		return nil, err
	}
	return items, nil
}

func (p *ScriptParser) parsePrimary() (ScriptNode, error) {
	tok := p.cur
	switch tok.Type {
	case ScriptTokenNumber:
		p.advance()
		return &ScriptLiteral{scriptRange: scriptRange{tok.Pos, tok.End}, Kind: ScriptLiteralNumber, Value: tok.Literal, Raw: tok.Value}, nil
	case ScriptTokenString:
		p.advance()
		return &ScriptLiteral{scriptRange: scriptRange{tok.Pos, tok.End}, Kind: ScriptLiteralString, Value: tok.Literal, Raw: tok.Value}, nil
	case ScriptTokenIdentifier:
		p.advance()
		r := scriptRange{tok.Pos, tok.End}
		switch tok.Value {
		case ScriptKeywordTrue:
			return &ScriptLiteral{scriptRange: r, Kind: ScriptLiteralBool, Value: true, Raw: tok.Value}, nil
		case ScriptKeywordFalse:
			return &ScriptLiteral{scriptRange: r, Kind: ScriptLiteralBool, Value: false, Raw: tok.Value}, nil
		case ScriptKeywordNull:
			return &ScriptLiteral{scriptRange: r, Kind: ScriptLiteralNull, Raw: tok.Value}, nil
		case ScriptKeywordUndefined:
			return &ScriptLiteral{scriptRange: r, Kind: ScriptLiteralUndefined, Raw: tok.Value}, nil
		}
		return &ScriptIdentifier{scriptRange: r, Name: tok.Value}, nil
	case ScriptTokenPunct:
		switch tok.Value {
		case ScriptOpLBracket:
			p.advance()
			elems, err := p.parseList(ScriptOpRBracket, ErrMsgScriptExpectedRBracket)
			if err != nil {
				return nil, err
			}
			return &ScriptArray{scriptRange: scriptRange{tok.Pos, p.lastEnd}, Elements: elems}, nil
		case ScriptOpLBrace:
			return p.parseObject()
		case ScriptOpLParen:
			p.advance()
			inner, err := p.ParseExpression()
			if err != nil {
				return nil, err
			}
			if err := p.expect(ScriptOpRParen, ErrMsgScriptExpectedRParen); err != nil {
				return nil, err
			}
			return &ScriptParen{scriptRange: scriptRange{tok.Pos, p.lastEnd}, Inner: inner}, nil
		}
	}
	return nil, p.errorAtCurrent(ErrMsgScriptExpectedExpression)
}

func (p *ScriptParser) parseObject() (ScriptNode, error) {
	start := p.advance().Pos

	var props []ScriptProperty
	for !p.cur.Is(ScriptOpRBrace) {
		key := p.cur
		switch key.Type {
		case ScriptTokenIdentifier, ScriptTokenString, ScriptTokenNumber:
			p.advance()
		default:
			return nil, p.errorAtCurrent(ErrMsgScriptExpectedIdentifier)
		}

		name := key.Value
		if p.match(ScriptOpColon) {
			value, err := p.ParseExpression()
			if err != nil {
				return nil, err
			}
			props = append(props, ScriptProperty{Key: name, Value: value})
		} else {
			if key.Type != ScriptTokenIdentifier {
				return nil, p.errorAtCurrent(ErrMsgScriptExpectedColon)
			}
			ident := &ScriptIdentifier{scriptRange: scriptRange{key.Pos, key.End}, Name: name}
			props = append(props, ScriptProperty{Key: name, Value: ident, Shorthand: true})
		}

		if !p.match(ScriptOpComma) {
			break
		}
	}
	if err := p.expect(ScriptOpRBrace, ErrMsgScriptExpectedRBrace); err != nil {
		return nil, err
	}
	return &ScriptObject{scriptRange: scriptRange{start, p.lastEnd}, Properties: props}, nil
}

// ParseDeclaration parses "let|const pattern (: Type)? (= expr)?"
func (p *ScriptParser) ParseDeclaration(kind string) (*ScriptDeclaration, error) {
	start := p.cur.Pos
	if !p.cur.IsWord(kind) {
		return nil, p.errorAtCurrent(ErrMsgScriptExpectedDeclaration)
	}
	p.advance()

	pattern, err := p.parsePattern()
	if err != nil {
		return nil, err
	}

	decl := &ScriptDeclaration{Kind: kind, Pattern: pattern}
	if p.match(ScriptOpColon) {
		decl.TypeText = p.skipType()
	}

	if p.match(ScriptOpAssign) {
		init, err := p.ParseExpression()
		if err != nil {
			return nil, err
		}
		decl.Init = init
	} else if kind == ScriptKeywordConst {
		return nil, p.errorAtCurrent(ErrMsgScriptExpectedInit)
	}

	decl.scriptRange = scriptRange{start, p.lastEnd}
	return decl, nil
}

func (p *ScriptParser) parsePattern() (ScriptPattern, error) {
	var closer string
	pattern := ScriptPattern{Kind: ScriptPatternIdentifier}
	switch {
	case p.cur.Type == ScriptTokenIdentifier && !isScriptReserved(p.cur.Value):
		pattern.Names = []string{p.advance().Value}
		return pattern, nil
	case p.cur.Is(ScriptOpLBrace):
		pattern.Kind, closer = ScriptPatternObject, ScriptOpRBrace
	case p.cur.Is(ScriptOpLBracket):
		pattern.Kind, closer = ScriptPatternArray, ScriptOpRBracket
	default:
		return pattern, p.errorAtCurrent(ErrMsgScriptExpectedPattern)
	}
	p.advance()

	for !p.cur.Is(closer) {
		if p.cur.Type != ScriptTokenIdentifier {
			return pattern, p.errorAtCurrent(ErrMsgScriptExpectedIdentifier)
		}
		pattern.Names = append(pattern.Names, p.advance().Value)
		if !p.match(ScriptOpComma) {
			break
		}
	}
	if !p.match(closer) {
		return pattern, p.errorAtCurrent(ErrMsgScriptUnexpectedToken)
	}
	return pattern, nil
}

// skipType consumes a type annotation and returns its source text. The
// annotation ends before a top-level "=", ";" or ",", or an unbalanced closer.
func (p *ScriptParser) skipType() string {
	start := p.cur.Pos
	end := start
	depth := 0
	for p.cur.Type != ScriptTokenEOF && p.cur.Type != ScriptTokenInvalid {
		if p.cur.Type == ScriptTokenPunct {
			switch p.cur.Value {
			case ScriptOpLParen, ScriptOpLBracket, ScriptOpLBrace, ScriptOpLt:
				depth++
			case ScriptOpRParen, ScriptOpRBracket, ScriptOpRBrace, ScriptOpGt:
				if depth == 0 {
					return p.tok.Input()[start:end]
				}
				depth--
			case ScriptOpAssign, ScriptOpSemicolon, ScriptOpComma:
				if depth == 0 {
					return p.tok.Input()[start:end]
				}
			}
		}
		end = p.advance().End
	}
	return p.tok.Input()[start:end]
}

// ParseModule parses imports and declarations until a fence or end of input
func (p *ScriptParser) ParseModule() (*ScriptModule, error) {
	mod := &ScriptModule{}
	for {
		if p.cur.Type == ScriptTokenEOF || p.atFence() {
			mod.End = p.cur.Pos
			return mod, nil
		}
		if p.match(ScriptOpSemicolon) {
			continue
		}

		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		mod.Statements = append(mod.Statements, stmt)
		p.match(ScriptOpSemicolon)
	}
}

// atFence reports whether the lookahead starts a line holding "---"
func (p *ScriptParser) atFence() bool {
	input := p.tok.Input()
	if !strings.HasPrefix(input[p.cur.Pos:], StrFence) {
		return false
	}
	lineStart := strings.LastIndexByte(input[:p.cur.Pos], CharNewline) + 1
	return strings.TrimSpace(input[lineStart:p.cur.Pos]) == ""
}

func (p *ScriptParser) parseStatement() (ScriptStatement, error) {
	start := p.cur.Pos
	switch {
	case p.cur.IsWord(ScriptKeywordImport):
		return p.parseImport()
	case p.cur.IsWord(ScriptKeywordExport):
		p.advance()
		kind := p.cur.Value
		if !p.cur.IsWord(ScriptKeywordLet) && !p.cur.IsWord(ScriptKeywordConst) {
			return nil, p.errorAtCurrent(ErrMsgScriptExpectedDeclaration)
		}
		decl, err := p.ParseDeclaration(kind)
		if err != nil {
			return nil, err
		}
		decl.Exported = true
		decl.scriptRange.pos = start
		return decl, nil
	case p.cur.IsWord(ScriptKeywordLet), p.cur.IsWord(ScriptKeywordConst):
		return p.ParseDeclaration(p.cur.Value)
	}
	return nil, p.errorAtCurrent(ErrMsgScriptUnexpectedToken)
}

// parseImport parses the import forms:
//
//	import "m"
//	import X from "m"
//	import { A, B as C } from "m"
//	import X, { A } from "m"
func (p *ScriptParser) parseImport() (ScriptStatement, error) {
	start := p.advance().Pos
	imp := &ScriptImport{}

	if p.cur.Type == ScriptTokenString {
		imp.Source = p.advance().Value
		imp.scriptRange = scriptRange{start, p.lastEnd}
		return imp, nil
	}

	if p.cur.Type == ScriptTokenIdentifier {
		imp.Default = p.advance().Value
		p.match(ScriptOpComma)
	}

	if p.match(ScriptOpLBrace) {
		for !p.cur.Is(ScriptOpRBrace) {
			if p.cur.Type != ScriptTokenIdentifier {
				return nil, p.errorAtCurrent(ErrMsgScriptExpectedIdentifier)
			}
			name := ScriptImportName{Name: p.advance().Value}
			if p.cur.IsWord(ScriptKeywordAs) {
				p.advance()
				if p.cur.Type != ScriptTokenIdentifier {
					return nil, p.errorAtCurrent(ErrMsgScriptExpectedIdentifier)
				}
				name.Alias = p.advance().Value
			}
			imp.Names = append(imp.Names, name)
			if !p.match(ScriptOpComma) {
				break
			}
		}
		if err := p.expect(ScriptOpRBrace, ErrMsgScriptExpectedRBrace); err != nil {
			return nil, err
		}
	}

	if !p.cur.IsWord(ScriptKeywordFrom) {
		return nil, p.errorAtCurrent(ErrMsgScriptExpectedFrom)
	}
	p.advance()
	if p.cur.Type != ScriptTokenString {
		return nil, p.errorAtCurrent(ErrMsgScriptExpectedString)
	}
	imp.Source = p.advance().Value
	imp.scriptRange = scriptRange{start, p.lastEnd}
	return imp, nil
}

func isScriptReserved(word string) bool {
	switch word {
	case ScriptKeywordTrue, ScriptKeywordFalse, ScriptKeywordNull, ScriptKeywordUndefined,
		ScriptKeywordImport, ScriptKeywordExport, ScriptKeywordLet, ScriptKeywordConst,
		ScriptKeywordTypeof:
		return true
	}
	return false
}
