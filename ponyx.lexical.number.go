package ponyx

import (
	"strings"

	"github.com/avpony/ponyx/internal"
)

func isDigitOrDivider(r rune) bool {
	return internal.IsDigit(r) || r == internal.CharUnderscore
}

// number parses -?[0-9_]+(\.[0-9_]*)? holding at least one digit. Separator
// violations and 32-bit overflow are reported, and a best-effort value is
// still produced. An unsigned literal starting with '_' is not a number, so
// _1 is left to the identifier alternative.
func (p *parser) number() (SoloExpr, bool) {
	start := p.pos()
	signed := p.cur.ConsumeRune(internal.CharMinus)
	if !signed && p.cur.PeekRune() == internal.CharUnderscore {
		p.failAt(start, ExpectedExpression)
		return nil, false
	}
	whole := p.cur.ConsumeWhile(isDigitOrDivider)
	if strings.Trim(whole, string(internal.CharUnderscore)) == "" {
		p.cur.Reset(start)
		p.failAt(start, ExpectedExpression)
		return nil, false
	}
	isFloat := false
	if p.cur.ConsumeRune(internal.CharDot) {
		isFloat = true
		p.cur.ConsumeWhile(isDigitOrDivider)
	}

	raw := p.cur.Slice(start, p.pos())
	span := p.spanFrom(start)
	switch problem, s, e := internal.CheckNumericDividers(raw); problem {
	case internal.DividerTrain:
		p.emit(&MultipleNumericDividers{diagBase{span: p.span(start+s, start+e), notes: []string{internal.HintNumericDividers}}})
	case internal.DividerBadlyPlaced:
		p.emit(&DividersBadlyPlaced{diagBase{span: p.span(start+s, start+e), notes: []string{internal.HintNumericDividers}}})
	}

	digits := internal.StripNumericDividers(raw)
	if isFloat {
		return &FloatLit{Value: internal.ParseFloat64(digits), Raw: raw, span: span}, true
	}
	value, overflow := internal.ParseInt32(digits)
	if overflow != internal.IntInRange {
		p.emit(&InvalidInt{diagBase: diagBase{span: span}, Negative: overflow == internal.IntNegativeOverflow})
	}
	return &IntegerLit{Value: value, Raw: raw, span: span}, true
}
