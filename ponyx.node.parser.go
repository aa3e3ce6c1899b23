package ponyx

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/avpony/ponyx/internal"
)

const textStopChars = "{}<>&"

// nodeSeq parses nodes until end of input. Inside a tag or block it also
// stops in front of a closer ("</", "{:" or "{/") so the caller can match
// it. Anything else that does not parse is reported and skipped. Nodes
// beyond the depth limit are skipped whole, with one NestingTooDeep per
// sequence.
func (p *parser) nodeSeq(root bool) []Node {
	nodes := []Node{}
	tooDeep := false
	for !p.cur.AtEnd() {
		start := p.pos()
		n, ok := attempt(p, p.node)
		if ok {
			if n != nil {
				nodes = append(nodes, n)
			}
			p.clearFailure()
			continue
		}
		if !root && p.atCloser() {
			break
		}
		d := p.takeFailure(start)
		p.cur.Reset(start)
		if _, deep := d.(*NestingTooDeep); deep {
			if !tooDeep {
				p.emit(d)
				tooDeep = true
			}
			p.skipNode()
			continue
		}
		p.emit(d)
		p.recover()
	}
	return nodes
}

// node tries the node alternatives in order
func (p *parser) node() (Node, bool) {
	if !p.enter() {
		return nil, false
	}
	defer p.leave()

	alternatives := []func() (Node, bool){
		nodeAlt(p.entity),
		nodeAlt(p.text),
		p.tag,
		p.statement,
		p.block,
		nodeAlt(p.comment),
		nodeAlt(p.mustache),
	}
	for _, alt := range alternatives {
		if n, ok := attempt(p, alt); ok {
			return n, true
		}
	}
	p.failAt(p.pos(), ExpectedNode)
	return nil, false
}

func nodeAlt[T Node](fn func() (T, bool)) func() (Node, bool) {
	return func() (Node, bool) {
		v, ok := fn()
		if !ok {
			return nil, false
		}
		return v, true
	}
}

// atCloser reports whether the input continues with a closing tag, a block
// leaf or a block close
func (p *parser) atCloser() bool {
	rest := p.cur.Rest()
	return hasAnyPrefix(rest, internal.StrCloseTagOpen, internal.StrBlockLeaf, internal.StrBlockClose)
}

// recover skips input after a position where no node parses: a brace
// construct up to its matching '}', a closing tag past its '>', otherwise
// one character.
func (p *parser) recover() {
	switch {
	case p.cur.ConsumeRune(internal.CharOpenBrace):
		p.skipBalanced()
	case p.cur.Consume(internal.StrCloseTagOpen):
		p.skipPast(internal.CharCloseAngle)
	default:
		p.cur.Advance()
	}
}

// skipNode advances past the node at the cursor without building it: a
// tag through its matching close, a block through its {/...}, another brace
// construct through its '}', a comment, or a run of text.
func (p *parser) skipNode() {
	switch {
	case p.cur.HasPrefix(internal.StrCommentOpen):
		p.skipComment()
	case p.cur.HasPrefix(internal.StrBlockOpen):
		p.skipBlock()
	case p.cur.ConsumeRune(internal.CharOpenBrace):
		p.skipBalanced()
	case p.cur.PeekRune() == internal.CharOpenAngle:
		p.skipTag()
	default:
		p.cur.Advance()
		p.cur.ConsumeWhile(isTextChar)
	}
}

func (p *parser) skipComment() {
	p.cur.Consume(internal.StrCommentOpen)
	for !p.cur.AtEnd() && !p.cur.Consume(internal.StrCommentClose) {
		p.cur.Advance()
	}
}

// skipBlock skips from {# to the {/ closing it, counting nested blocks
func (p *parser) skipBlock() {
	level := 0
	for !p.cur.AtEnd() {
		switch {
		case p.cur.HasPrefix(internal.StrBlockOpen):
			level++
		case p.cur.HasPrefix(internal.StrBlockClose):
			level--
		}
		if !p.cur.ConsumeRune(internal.CharOpenBrace) {
			p.cur.Advance()
			continue
		}
		p.skipBalanced()
		if level <= 0 {
			return
		}
	}
}

// skipTag skips from '<' to the end of the matching closing tag
func (p *parser) skipTag() {
	level := 0
	for !p.cur.AtEnd() {
		switch {
		case p.cur.HasPrefix(internal.StrCommentOpen):
			p.skipComment()
		case p.cur.Consume(internal.StrCloseTagOpen):
			p.skipPast(internal.CharCloseAngle)
			level--
		case p.cur.ConsumeRune(internal.CharOpenAngle):
			if p.skipTagHead() {
				level++
			}
		case p.cur.ConsumeRune(internal.CharOpenBrace):
			p.skipBalanced()
		default:
			p.cur.Advance()
		}
		if level <= 0 {
			return
		}
	}
}

// skipTagHead advances past the end of a tag head and reports whether the
// tag has children
func (p *parser) skipTagHead() bool {
	for !p.cur.AtEnd() {
		switch {
		case p.cur.Consume(internal.StrSelfClose):
			return false
		case p.cur.ConsumeRune(internal.CharCloseAngle):
			return true
		case p.cur.ConsumeRune(internal.CharOpenBrace):
			p.skipBalanced()
		case p.cur.ConsumeRune(internal.CharDoubleQuote):
			p.skipPast(internal.CharDoubleQuote)
		default:
			p.cur.Advance()
		}
	}
	return false
}

func isTextChar(r rune) bool {
	return !strings.ContainsRune(textStopChars, r)
}

// text parses a maximal run excluding { } < > &
func (p *parser) text() (*Text, bool) {
	start := p.pos()
	content := p.cur.ConsumeWhile(isTextChar)
	if content == "" {
		p.failAt(start, ExpectedNode)
		return nil, false
	}
	return &Text{Content: content, span: p.spanFrom(start)}, true
}

// entity parses &name; &#NNN; or &#xHH;
func (p *parser) entity() (*Entity, bool) {
	start := p.pos()
	if !p.cur.ConsumeRune(internal.CharAmpersand) {
		p.failAt(start, ExpectedNode)
		return nil, false
	}
	if p.cur.ConsumeRune(internal.CharHash) {
		return p.numericEntity(start)
	}
	name := p.cur.ConsumeWhile(isEntityNameChar)
	if name == "" || !p.cur.ConsumeRune(internal.CharSemicolon) {
		p.failAt(p.pos(), ExpectedSemicolon)
		return nil, false
	}
	span := p.spanFrom(start)
	if value, ok := p.lookupEntity(name); ok {
		return &Entity{Name: name, Value: value, span: span}, true
	}

	d := &InvalidEntityName{diagBase: diagBase{span: span}, Name: name}
	d.addNote(internal.FormatSuggestions(internal.SimilarEntityNames(name, p.extraEntityNames())))
	p.emit(d)
	return &Entity{Name: name, Value: p.cur.Slice(start, p.pos()), span: span}, true
}

func (p *parser) numericEntity(start int) (*Entity, bool) {
	var value uint32
	if p.cur.ConsumeRune(internal.CharLowerX) || p.cur.ConsumeRune(internal.CharUpperX) {
		digits := p.cur.ConsumeWhile(internal.IsHexDigit)
		if digits == "" {
			p.failAt(p.pos(), ExpectedSemicolon)
			return nil, false
		}
		value = internal.HexDigitsToUint32(digits)
	} else {
		digits := p.cur.ConsumeWhile(internal.IsDigit)
		if digits == "" {
			p.failAt(p.pos(), ExpectedSemicolon)
			return nil, false
		}
		value = decimalToUint32(digits)
	}
	if !p.cur.ConsumeRune(internal.CharSemicolon) {
		p.failAt(p.pos(), ExpectedSemicolon)
		return nil, false
	}

	span := p.spanFrom(start)
	name := p.cur.Slice(start+1, p.pos()-1)
	if !internal.IsScalarValue(value) {
		p.emit(&InvalidUnicodeCodePoint{
			diagBase: diagBase{span: span, notes: []string{internal.HintEntityNumeric}},
			Value:    value,
		})
		return &Entity{Name: name, Value: string(utf8.RuneError), span: span}, true
	}
	return &Entity{Name: name, Value: string(rune(value)), span: span}, true
}

func (p *parser) lookupEntity(name string) (string, bool) {
	if v, ok := p.entities[name]; ok {
		return v, true
	}
	return internal.LookupEntity(name)
}

func (p *parser) extraEntityNames() []string {
	if len(p.entities) == 0 {
		return nil
	}
	names := make([]string, 0, len(p.entities))
	for name := range p.entities {
		names = append(names, name)
	}
	return names
}

func isEntityNameChar(r rune) bool {
	return ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z') || internal.IsDigit(r)
}

// decimalToUint32 parses decimal digits, saturating at MaxUint32
func decimalToUint32(digits string) uint32 {
	v, err := strconv.ParseUint(digits, 10, 32)
	if err != nil {
		return ^uint32(0)
	}
	return uint32(v)
}

// comment parses <!-- content -->. An unterminated comment is reported and
// runs to the end of input.
func (p *parser) comment() (*Comment, bool) {
	start := p.pos()
	if !p.cur.Consume(internal.StrCommentOpen) {
		p.failAt(start, ExpectedNode)
		return nil, false
	}
	rest := p.cur.Rest()
	end := strings.Index(rest, internal.StrCommentClose)
	if end < 0 {
		p.cur.Reset(len(p.src.Text))
		p.emit(p.unexpectedAt(p.pos(), ExpectedCommentEnd))
		return &Comment{Content: rest, span: p.spanFrom(start)}, true
	}
	p.cur.AdvanceN(end + len(internal.StrCommentClose))
	return &Comment{Content: rest[:end], span: p.spanFrom(start)}, true
}

// mustache parses { expression }. Block markers are refused so that block
// syntax is never handed to the foreign parser.
func (p *parser) mustache() (*Mustache, bool) {
	e, ok := p.externalExpr()
	if !ok {
		return nil, false
	}
	return &Mustache{Expr: e}, true
}

// atWord reports whether word stands alone at the cursor, without consuming it
func (p *parser) atWord(word string) bool {
	cp := p.mark()
	ok := p.cur.ConsumeWord(word)
	p.rewind(cp)
	return ok
}
