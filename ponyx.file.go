package ponyx

import (
	"strings"

	"github.com/avpony/ponyx/internal"
	"go.uber.org/zap"
)

// File is a parsed template: the embedded module, the fence, then markup.
type File struct {
	Module Maybe[any]
	Root   *RootNode
	span   Span
}

// Span covers the whole source
func (f *File) Span() Span { return f.span }

// parseFile parses Module ws* '---' ws* nodes. A missing fence is reported
// and the remaining input is still parsed as markup. When the source holds
// no fence line at all, a failed module is only that missing fence, so the
// module's own diagnostics are dropped.
func (p *parser) parseFile() *File {
	p.logStart()
	mark := len(p.diags)
	module, ok := p.external(MarkerModule, p.ext.Module)
	p.whitespace()
	if !p.cur.Consume(internal.StrFence) {
		if !ok && !hasFenceLine(p.src.Text) {
			p.diags = p.diags[:mark]
		}
		d := p.unexpectedAt(p.pos(), ExpectedFence)
		d.addNote(internal.HintMissingFence)
		p.emit(d)
	}
	p.whitespace()

	root := p.parseRoot()
	f := &File{Module: module, Root: root, span: p.span(0, len(p.src.Text))}
	p.logEnd(len(root.Children))
	return f
}

// hasFenceLine reports whether some line of text is a fence
func hasFenceLine(text string) bool {
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == internal.StrFence {
			return true
		}
	}
	return false
}

// parseNodes parses a bare node sequence
func (p *parser) parseNodes() *RootNode {
	p.logStart()
	root := p.parseRoot()
	p.logEnd(len(root.Children))
	return root
}

func (p *parser) parseRoot() *RootNode {
	start := p.pos()
	children := p.nodeSeq(true)
	return &RootNode{Children: children, span: p.spanFrom(start)}
}

// parseExprSource parses a whole source as one expression. Trailing input is
// reported.
func (p *parser) parseExprSource() Maybe[Expr] {
	p.logStart()
	p.whitespace()
	e := required(p, MarkerExpression, p.expr)
	p.whitespace()
	if !p.cur.AtEnd() {
		p.emit(p.takeFailure(p.pos()))
	}
	p.logEnd(0)
	return e
}

func (p *parser) logStart() {
	p.logger.Debug(LogMsgParseStart,
		zap.String(LogFieldSource, string(p.src.ID)),
		zap.Int(LogFieldLength, len(p.src.Text)),
		zap.String(LogFieldExt, p.ext.ID()))
}

func (p *parser) logEnd(nodes int) {
	p.logger.Debug(LogMsgParseEnd,
		zap.String(LogFieldSource, string(p.src.ID)),
		zap.Int(LogFieldNodes, nodes),
		zap.Int(LogFieldDiagnostics, len(p.diags)))
}
