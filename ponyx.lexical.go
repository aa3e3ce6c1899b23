package ponyx

import (
	"github.com/avpony/ponyx/internal"
)

// rawIdentifier recognises XID_Start XID_Continue* | '_' XID_Continue+
// without checking the keyword table.
func (p *parser) rawIdentifier() (string, Span, bool) {
	start := p.pos()
	r := p.cur.PeekRune()
	switch {
	case r == internal.CharUnderscore:
		if !internal.IsXIDContinue(p.cur.PeekRuneAt(1)) {
			p.failAt(start, ExpectedIdentifier)
			return "", Span{}, false
		}
		p.cur.Advance()
	case r >= 0 && internal.IsXIDStart(r):
		p.cur.Advance()
	default:
		p.failAt(start, ExpectedIdentifier)
		return "", Span{}, false
	}
	p.cur.ConsumeWhile(internal.IsXIDContinue)
	return p.cur.Slice(start, p.pos()), p.spanFrom(start), true
}

// identifier parses a name that is not a keyword. A keyword is reported as
// a ReservedIdentifier failure and the cursor is left in front of it.
func (p *parser) identifier() (*Identifier, bool) {
	start := p.pos()
	text, span, ok := p.rawIdentifier()
	if !ok {
		return nil, false
	}
	if internal.IsKeyword(text) {
		p.failWith(&ReservedIdentifier{
			diagBase: diagBase{span: span, notes: []string{internal.HintReservedIdentifier}},
			Text:     text,
		}, span.End)
		p.cur.Reset(start)
		return nil, false
	}
	return &Identifier{Value: text, span: span}, true
}

// lenientIdentifier accepts keywords too, reporting ReservedIdentifier and
// keeping the name. Used for tag names and attribute keys.
func (p *parser) lenientIdentifier() (*Identifier, bool) {
	text, span, ok := p.rawIdentifier()
	if !ok {
		return nil, false
	}
	if internal.IsKeyword(text) {
		p.emit(&ReservedIdentifier{
			diagBase: diagBase{span: span, notes: []string{internal.HintReservedIdentifier}},
			Text:     text,
		})
	}
	return &Identifier{Value: text, span: span}, true
}

// maybeIdentifier is a required identifier
func (p *parser) maybeIdentifier() Maybe[*Identifier] {
	return required(p, MarkerIdentifier, p.identifier)
}

// keyword consumes word when it stands alone
func (p *parser) keyword(word string) bool {
	if p.cur.ConsumeWord(word) {
		return true
	}
	p.failAt(p.pos(), quoteWord(word))
	return false
}

func (p *parser) boolean() (*BooleanLit, bool) {
	start := p.pos()
	switch {
	case p.cur.ConsumeWord(internal.KeywordTrue):
		return &BooleanLit{Value: true, span: p.spanFrom(start)}, true
	case p.cur.ConsumeWord(internal.KeywordFalse):
		return &BooleanLit{Value: false, span: p.spanFrom(start)}, true
	}
	return nil, false
}

// operatorRun consumes a maximal run of operator punctuation
func (p *parser) operatorRun() (string, Span, bool) {
	start := p.pos()
	op := p.cur.ConsumeWhile(internal.IsOperatorPunctuation)
	if op == "" {
		p.failAt(start, ExpectedOperator)
		return "", Span{}, false
	}
	return op, p.spanFrom(start), true
}

// whitespace skips whitespace and reports whether any was present
func (p *parser) whitespace() bool {
	return p.cur.SkipWhitespace() > 0
}

func quoteWord(word string) string {
	return "'" + word + "'"
}
