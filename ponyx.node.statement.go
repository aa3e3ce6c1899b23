package ponyx

import (
	"github.com/avpony/ponyx/internal"
)

// statement parses {@let ...}, {@const ...} or {@debug expr}. The let and
// const bodies are handed to the embedding starting at the keyword.
func (p *parser) statement() (Node, bool) {
	start := p.pos()
	if !p.cur.Consume(internal.StrStatementOpen) {
		p.failAt(start, ExpectedNode)
		return nil, false
	}
	p.whitespace()

	switch {
	case p.atWord(internal.WordLet):
		decl, ok := p.external(MarkerLetDeclaration, p.ext.LetDeclaration)
		p.closeBrace(!ok)
		return &LetStatement{Decl: decl, span: p.spanFrom(start)}, true
	case p.atWord(internal.WordConst):
		decl, ok := p.external(MarkerConstDeclaration, p.ext.ConstDeclaration)
		p.closeBrace(!ok)
		return &ConstStatement{Decl: decl, span: p.spanFrom(start)}, true
	case p.cur.ConsumeWord(internal.KeywordDebug):
		p.whitespace()
		expr, ok := p.external(p.ext.ExpressionMarker(), p.ext.Expression)
		p.closeBrace(!ok)
		return &DebugStatement{Expr: expr, span: p.spanFrom(start)}, true
	}

	p.emit(p.unexpectedAt(p.pos(), ExpectedStatement))
	p.skipBalanced()
	return nil, true
}
