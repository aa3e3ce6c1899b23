package ponyx

import (
	"fmt"

	"github.com/avpony/ponyx/internal"
)

// tag parses <Name attrs/> or <Name attrs>children</Name>. Once "<Name" is
// read the tag is committed: later problems are reported and recovered
// here. A mismatched closing tag drops the tag and returns a nil node.
func (p *parser) tag() (Node, bool) {
	start := p.pos()
	if !p.cur.ConsumeRune(internal.CharOpenAngle) {
		p.failAt(start, ExpectedNode)
		return nil, false
	}
	name, ok := p.tagName()
	if !ok {
		return nil, false
	}

	t := &Tag{Name: name, Attributes: p.attributes()}
	p.whitespace()
	switch {
	case p.cur.Consume(internal.StrSelfClose):
		t.SelfClosing = true
		t.span = p.spanFrom(start)
		return t, true
	case p.cur.ConsumeRune(internal.CharCloseAngle):
	default:
		p.emit(p.unexpectedAt(p.pos(), ExpectedTagEnd, ExpectedAttribute))
		p.skipPast(internal.CharCloseAngle)
		if p.pos() >= 2 && p.src.Text[p.pos()-2] == internal.CharSlash {
			t.SelfClosing = true
			t.span = p.spanFrom(start)
			return t, true
		}
	}

	t.Children = p.nodeSeq(false)

	if !p.cur.HasPrefix(internal.StrCloseTagOpen) {
		p.emit(p.unexpectedAt(p.pos(), fmt.Sprintf(ExpectedCloseTagFmt, name)))
		t.span = p.spanFrom(start)
		return t, true
	}

	closeStart := p.pos()
	p.cur.Consume(internal.StrCloseTagOpen)
	p.whitespace()
	closing, ok := p.tagName()
	p.whitespace()
	if !ok || !p.cur.ConsumeRune(internal.CharCloseAngle) {
		p.emit(p.unexpectedAt(p.pos(), fmt.Sprintf(ExpectedCloseTagFmt, name)))
		p.cur.Reset(closeStart)
		p.cur.Consume(internal.StrCloseTagOpen)
		p.skipPast(internal.CharCloseAngle)
		t.span = p.spanFrom(start)
		return t, true
	}

	if !name.Equal(closing) {
		d := &UnclosedTag{
			diagBase: diagBase{span: p.spanFrom(start), notes: []string{internal.HintUnclosedTag}},
			Opening:  name.String(),
			Closing:  closing.String(),
		}
		p.emit(d)
		return nil, true
	}
	t.span = p.spanFrom(start)
	return t, true
}

// tagName parses a dotted path of names
func (p *parser) tagName() (TagName, bool) {
	first, ok := p.lenientIdentifier()
	if !ok {
		return TagName{}, false
	}
	name := TagName{Path: []*Identifier{first}}
	for p.cur.PeekRune() == internal.CharDot {
		seg, ok := attempt(p, func() (*Identifier, bool) {
			p.cur.Advance()
			return p.lenientIdentifier()
		})
		if !ok {
			break
		}
		name.Path = append(name.Path, seg)
	}
	return name, true
}

// attributes parses (ws+ attribute)*
func (p *parser) attributes() []*Attribute {
	attrs := []*Attribute{}
	for {
		a, ok := attempt(p, func() (*Attribute, bool) {
			if !p.whitespace() {
				return nil, false
			}
			return p.attribute()
		})
		if !ok {
			return attrs
		}
		attrs = append(attrs, a)
	}
}

// attribute parses key (':' director?)? ('=' value?)?
func (p *parser) attribute() (*Attribute, bool) {
	start := p.pos()
	name, ok := p.lenientIdentifier()
	if !ok {
		p.failAt(start, ExpectedAttribute)
		return nil, false
	}
	a := &Attribute{Key: AttributeKey{Name: name}}
	if p.cur.ConsumeRune(internal.CharColon) {
		director := p.maybeIdentifier()
		a.Key.Director = &director
	}
	if p.cur.ConsumeRune(internal.CharEquals) {
		value := p.maybeSoloExpr()
		a.Value = &value
	}
	a.span = p.spanFrom(start)
	return a, true
}
