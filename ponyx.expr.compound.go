package ponyx

import (
	"github.com/avpony/ponyx/internal"
)

// array parses [e, ...] with an optional trailing comma
func (p *parser) array() (*Array, bool) {
	start := p.pos()
	if !p.cur.ConsumeRune(internal.CharOpenBracket) {
		p.failAt(start, ExpectedExpression)
		return nil, false
	}
	items, ok := p.exprList(internal.CharCloseBracket, ExpectedCloseSquare)
	if !ok {
		return nil, false
	}
	return &Array{Items: items, span: p.spanFrom(start)}, true
}

// exprList parses comma separated expressions up to and including closer
func (p *parser) exprList(closer rune, expectedCloser string) ([]Expr, bool) {
	items := []Expr{}
	for {
		p.whitespace()
		if p.cur.ConsumeRune(closer) {
			return items, true
		}
		e, ok := p.expr()
		if !ok {
			return nil, false
		}
		items = append(items, e)
		p.whitespace()
		if p.cur.ConsumeRune(closer) {
			return items, true
		}
		if !p.cur.ConsumeRune(internal.CharComma) {
			p.failAt(p.pos(), ExpectedComma, expectedCloser)
			return nil, false
		}
	}
}

// parenGroup parses the parenthesised family in one pass: "()" and
// "(.k ...)" are maps, "(e)" is parenthesised, "(e,)" and "(e, e2)" are
// tuples.
func (p *parser) parenGroup() (SoloExpr, bool) {
	start := p.pos()
	if !p.cur.ConsumeRune(internal.CharOpenParen) {
		p.failAt(start, ExpectedExpression)
		return nil, false
	}
	p.whitespace()
	if p.cur.ConsumeRune(internal.CharCloseParen) {
		return &Map{Fields: []*MapField{}, span: p.spanFrom(start)}, true
	}
	if p.cur.PeekRune() == internal.CharDot {
		return p.mapBody(start)
	}

	first, ok := p.expr()
	if !ok {
		return nil, false
	}
	p.whitespace()
	if p.cur.ConsumeRune(internal.CharCloseParen) {
		return &Parenthesised{Inner: first, span: p.spanFrom(start)}, true
	}
	if !p.cur.ConsumeRune(internal.CharComma) {
		p.failAt(p.pos(), ExpectedComma, ExpectedCloseParen)
		return nil, false
	}
	rest, ok := p.exprList(internal.CharCloseParen, ExpectedCloseParen)
	if !ok {
		return nil, false
	}
	return &Tuple{Items: append([]Expr{first}, rest...), span: p.spanFrom(start)}, true
}

// mapBody parses the fields of a map after its opening parenthesis
func (p *parser) mapBody(start int) (*Map, bool) {
	fields := []*MapField{}
	for {
		p.whitespace()
		if p.cur.ConsumeRune(internal.CharCloseParen) {
			return &Map{Fields: fields, span: p.spanFrom(start)}, true
		}
		field, ok := p.mapField()
		if !ok {
			return nil, false
		}
		fields = append(fields, field)
		p.whitespace()
		if p.cur.ConsumeRune(internal.CharCloseParen) {
			return &Map{Fields: fields, span: p.spanFrom(start)}, true
		}
		if !p.cur.ConsumeRune(internal.CharComma) {
			p.failAt(p.pos(), ExpectedComma, ExpectedCloseParen)
			return nil, false
		}
	}
}

// mapField parses .key or .key=Maybe<expr>
func (p *parser) mapField() (*MapField, bool) {
	start := p.pos()
	if !p.cur.ConsumeRune(internal.CharDot) {
		p.failAt(start, ExpectedField)
		return nil, false
	}
	key, ok := p.identifier()
	if !ok {
		return nil, false
	}
	field := &MapField{Key: key}
	afterKey := p.mark()
	p.whitespace()
	if p.cur.ConsumeRune(internal.CharEquals) {
		p.whitespace()
		value := required(p, MarkerExpression, p.expr)
		field.Value = &value
	} else {
		p.rewind(afterKey)
	}
	field.span = p.spanFrom(start)
	return field, true
}
