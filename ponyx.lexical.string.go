package ponyx

import (
	"strings"

	"github.com/avpony/ponyx/internal"
)

// stringLit parses a double-quoted literal. Malformed escapes are reported
// and decoded best-effort; only a missing closing quote fails.
func (p *parser) stringLit() (*StringLit, bool) {
	start := p.pos()
	if !p.cur.ConsumeRune(internal.CharDoubleQuote) {
		p.failAt(start, ExpectedQuote)
		return nil, false
	}
	var sb strings.Builder
	for {
		switch r := p.cur.PeekRune(); r {
		case -1, internal.CharReturn:
			p.failAt(p.pos(), ExpectedQuote)
			return nil, false
		case internal.CharDoubleQuote:
			p.cur.Advance()
			return &StringLit{Value: sb.String(), span: p.spanFrom(start)}, true
		case internal.CharBackslash:
			if !p.escape(&sb) {
				p.failAt(p.pos(), ExpectedQuote)
				return nil, false
			}
		default:
			sb.WriteRune(p.cur.Advance())
		}
	}
}

// escape decodes one backslash sequence into sb. It returns false only when
// the input ends right after the backslash.
func (p *parser) escape(sb *strings.Builder) bool {
	start := p.pos()
	p.cur.Advance()
	r := p.cur.PeekRune()
	switch r {
	case -1:
		return false
	case internal.CharSingleQuote, internal.CharDoubleQuote, internal.CharBackslash:
		p.cur.Advance()
		sb.WriteRune(r)
	case 'n':
		p.cur.Advance()
		sb.WriteByte('\n')
	case 'r':
		p.cur.Advance()
		sb.WriteByte('\r')
	case 't':
		p.cur.Advance()
		sb.WriteByte('\t')
	case '0':
		p.cur.Advance()
		sb.WriteByte(0)
	case internal.CharNewline:
		p.cur.Advance()
	case internal.CharReturn:
		p.cur.Advance()
		p.cur.ConsumeRune(internal.CharNewline)
	case internal.CharLowerX:
		p.cur.Advance()
		p.asciiEscape(start, sb)
	case internal.CharLowerU:
		p.cur.Advance()
		p.unicodeEscape(start, sb)
	default:
		p.cur.Advance()
		p.invalidEscape(start)
		sb.WriteRune(r)
	}
	return true
}

// asciiEscape decodes the digits of \xH or \xHH
func (p *parser) asciiEscape(start int, sb *strings.Builder) {
	digits := p.hexDigits(internal.MaxAsciiEscapeDigits)
	if digits == "" {
		p.invalidEscape(start)
		return
	}
	value := internal.HexDigitsToUint32(digits)
	if value > internal.MaxASCII {
		p.emit(&InvalidAsciiCode{
			diagBase: diagBase{span: p.spanFrom(start), notes: []string{internal.HintInvalidAsciiCode}},
			Value:    value,
		})
	}
	sb.WriteRune(rune(value))
}

// unicodeEscape decodes the rest of \u{H..HHHHHH}. A non-scalar value is
// replaced by NUL.
func (p *parser) unicodeEscape(start int, sb *strings.Builder) {
	if !p.cur.ConsumeRune(internal.CharOpenBrace) {
		p.invalidEscape(start)
		return
	}
	digits := p.hexDigits(internal.MaxUnicodeEscapeDigits)
	if digits == "" || !p.cur.ConsumeRune(internal.CharCloseBrace) {
		p.invalidEscape(start)
		return
	}
	value := internal.HexDigitsToUint32(digits)
	if !internal.IsScalarValue(value) {
		p.emit(&InvalidUnicodeCodePoint{diagBase: diagBase{span: p.spanFrom(start)}, Value: value})
		sb.WriteByte(0)
		return
	}
	sb.WriteRune(rune(value))
}

func (p *parser) hexDigits(limit int) string {
	start := p.pos()
	for i := 0; i < limit && internal.IsHexDigit(p.cur.PeekRune()); i++ {
		p.cur.Advance()
	}
	return p.cur.Slice(start, p.pos())
}

func (p *parser) invalidEscape(start int) {
	p.emit(&InvalidEscapeSequence{diagBase{span: p.spanFrom(start)}})
}
