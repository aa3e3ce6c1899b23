package ponyx

import (
	"github.com/avpony/ponyx/internal"
	"go.uber.org/zap"
)

// Ext is the embedding contract: it parses the foreign module, expression
// and declaration forms that appear inside a template. Each method receives
// the remaining input from the current position and reports how many bytes
// it consumed. The host repositions its cursor from that count.
type Ext interface {
	// ID names the embedded language in diagnostics
	ID() string
	// ExpressionMarker is the placeholder marker of a failed expression
	ExpressionMarker() Marker
	Module(input string) ExternalResult
	Expression(input string) ExternalResult
	// LetDeclaration receives input starting at the "let" keyword
	LetDeclaration(input string) ExternalResult
	// ConstDeclaration receives input starting at the "const" keyword
	ConstDeclaration(input string) ExternalResult
}

// ExternalResult is the outcome of a foreign parse: either a value and the
// number of bytes consumed, or an error.
type ExternalResult struct {
	Value    any
	Consumed int
	Err      *ForeignError
}

// ForeignError is a failure of the foreign parser. Offsets are relative to
// the input the host handed over.
type ForeignError struct {
	Message string
	Start   int
	End     int
}

// Error returns the message
func (e *ForeignError) Error() string {
	return e.Message
}

// Succeeded creates a successful result
func Succeeded(value any, consumed int) ExternalResult {
	return ExternalResult{Value: value, Consumed: consumed}
}

// Failed creates a failed result
func Failed(message string, start, end int) ExternalResult {
	return ExternalResult{Err: &ForeignError{Message: message, Start: start, End: end}}
}

// external hands the rest of the input to fn. On success the cursor moves
// past the consumed bytes. On failure the foreign range is translated into
// host offsets, an ExternalError is emitted, the cursor is moved to the
// error position and a placeholder is returned. ok reports success.
func (p *parser) external(marker Marker, fn func(string) ExternalResult) (Maybe[any], bool) {
	base := p.pos()
	rest := p.cur.Rest()
	res := fn(rest)
	if res.Err != nil {
		start := base + clampInt(res.Err.Start, 0, len(rest))
		end := base + clampInt(res.Err.End, 0, len(rest))
		if end < start {
			end = start
		}
		p.emit(&ExternalError{
			diagBase: diagBase{span: p.span(start, end)},
			Ext:      p.ext.ID(),
			Reason:   res.Err.Message,
		})
		p.logger.Debug(LogMsgExternalFailed,
			zap.String(LogFieldExt, p.ext.ID()),
			zap.Int(LogFieldOffset, start))
		p.cur.Reset(start)
		return Hole[any](NewPlaceholder(p.at(start), marker)), false
	}
	consumed := clampInt(res.Consumed, 0, len(rest))
	p.cur.Reset(base + consumed)
	return Present(res.Value, p.span(base, base+consumed)), true
}

// externalExpr parses { foreign-expression }
func (p *parser) externalExpr() (*ExternalExpr, bool) {
	start := p.pos()
	if !p.cur.ConsumeRune(internal.CharOpenBrace) || p.atBlockMarker(start) {
		p.cur.Reset(start)
		p.failAt(start, ExpectedExpression)
		return nil, false
	}
	value, ok := p.external(p.ext.ExpressionMarker(), p.ext.Expression)
	p.closeBrace(!ok)
	return &ExternalExpr{Value: value, span: p.spanFrom(start)}, true
}

// atBlockMarker reports whether the '{' at offset opens a block, leaf or
// block close marker, which must never be handed to the foreign parser.
func (p *parser) atBlockMarker(offset int) bool {
	text := p.src.Text[offset:]
	return hasAnyPrefix(text, internal.StrBlockOpen, internal.StrBlockLeaf, internal.StrBlockClose)
}

func hasAnyPrefix(s string, prefixes ...string) bool {
	for _, prefix := range prefixes {
		if len(s) >= len(prefix) && s[:len(prefix)] == prefix {
			return true
		}
	}
	return false
}

func clampInt(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

// NopExt is the no-op embedding. Every form parses as a nil value that
// consumes nothing.
type NopExt struct{}

// ID returns "nop"
func (NopExt) ID() string { return ExtIDNop }

// ExpressionMarker returns MarkerNopExpression
func (NopExt) ExpressionMarker() Marker { return MarkerNopExpression }

// Module consumes nothing
func (NopExt) Module(string) ExternalResult { return Succeeded(nil, 0) }

// Expression consumes nothing
func (NopExt) Expression(string) ExternalResult { return Succeeded(nil, 0) }

// LetDeclaration consumes nothing
func (NopExt) LetDeclaration(string) ExternalResult { return Succeeded(nil, 0) }

// ConstDeclaration consumes nothing
func (NopExt) ConstDeclaration(string) ExternalResult { return Succeeded(nil, 0) }
