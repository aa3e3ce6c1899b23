package ponyx

import (
	"github.com/avpony/ponyx/internal"
	"go.uber.org/zap"
)

// parser holds the state of one parse run. It is not safe for concurrent
// use; the Engine creates one per call.
type parser struct {
	src      *Source
	cur      *internal.Cursor
	ext      Ext
	entities map[string]string
	diags    []Diagnostic
	depth    int
	maxDepth int
	fail     failure
	logger   *zap.Logger
}

// failure is the furthest point at which an alternative gave up. Recovery
// sites turn it into a diagnostic.
type failure struct {
	set      bool
	pos      int
	expected []string
	custom   Diagnostic
	resume   int
}

// checkpoint is a cursor position plus the diagnostic count at that time.
type checkpoint struct {
	pos   int
	diags int
}

type parserConfig struct {
	ext      Ext
	entities map[string]string
	maxDepth int
	logger   *zap.Logger
}

func newParser(src *Source, cfg parserConfig) *parser {
	logger := cfg.logger
	if logger == nil {
		logger = zap.NewNop()
	}
	ext := cfg.ext
	if ext == nil {
		ext = NewScriptExt()
	}
	return &parser{
		src:      src,
		cur:      internal.NewCursor(src.Text),
		ext:      ext,
		entities: cfg.entities,
		maxDepth: cfg.maxDepth,
		logger:   logger,
	}
}

func (p *parser) pos() int { return p.cur.Pos() }

func (p *parser) span(start, end int) Span {
	return NewSpan(p.src.ID, start, end)
}

func (p *parser) spanFrom(start int) Span {
	return p.span(start, p.pos())
}

func (p *parser) at(offset int) Span {
	return p.span(offset, offset)
}

func (p *parser) emit(d Diagnostic) {
	p.diags = append(p.diags, d)
}

func (p *parser) mark() checkpoint {
	return checkpoint{pos: p.pos(), diags: len(p.diags)}
}

// rewind restores the cursor and drops diagnostics emitted since c.
func (p *parser) rewind(c checkpoint) {
	p.cur.Reset(c.pos)
	if len(p.diags) > c.diags {
		p.diags = p.diags[:c.diags]
	}
}

// attempt runs fn as one grammar alternative. On failure the cursor and the
// diagnostics are restored, so only the selected alternative leaves a trace.
func attempt[T any](p *parser, fn func() (T, bool)) (T, bool) {
	cp := p.mark()
	v, ok := fn()
	if !ok {
		p.rewind(cp)
	}
	return v, ok
}

// required runs fn at a position that must hold a value. A failure yields a
// placeholder plus an Expected diagnostic instead of failing the caller.
func required[T any](p *parser, marker Marker, fn func() (T, bool)) Maybe[T] {
	start := p.pos()
	prior := p.fail.custom
	v, ok := attempt(p, fn)
	if ok {
		return Present(v, p.spanFrom(start))
	}
	return Hole[T](p.hole(start, marker, prior))
}

// hole creates the placeholder for a failed required position at start and
// emits Expected. A failure that carried its own diagnostic since prior,
// such as ReservedIdentifier, is emitted as well.
func (p *parser) hole(start int, marker Marker, prior Diagnostic) Placeholder {
	ph := NewPlaceholder(p.at(start), marker)
	p.emit(&Expected{diagBase: diagBase{span: ph.Span(), notes: []string{internal.HintPlaceholderRequired}}, Placeholder: ph})
	if custom := p.fail.custom; custom != nil && custom != prior && custom.Span().Start >= start {
		p.emit(custom)
		if p.fail.resume > p.pos() {
			p.cur.Reset(p.fail.resume)
		}
		p.clearFailure()
	}
	return ph
}

// failAt records that the alternatives tried at pos expected one of names.
func (p *parser) failAt(pos int, names ...string) {
	switch {
	case !p.fail.set || pos > p.fail.pos:
		p.fail = failure{set: true, pos: pos, expected: append([]string(nil), names...)}
	case pos == p.fail.pos:
		for _, n := range names {
			if !containsString(p.fail.expected, n) {
				p.fail.expected = append(p.fail.expected, n)
			}
		}
	}
}

// failWith records a failure that carries its own diagnostic. resume is the
// offset recovery may continue from, or -1.
func (p *parser) failWith(d Diagnostic, resume int) {
	pos := d.Span().Start
	if p.fail.set && pos < p.fail.pos {
		return
	}
	p.fail = failure{set: true, pos: pos, custom: d, resume: resume}
}

func (p *parser) clearFailure() {
	p.fail = failure{}
}

// takeFailure converts the furthest failure at or after from into a
// diagnostic and clears it.
func (p *parser) takeFailure(from int) Diagnostic {
	f := p.fail
	p.clearFailure()
	if f.set && f.custom != nil && f.pos >= from {
		return f.custom
	}
	at := from
	var expected []string
	if f.set && f.pos >= from {
		at = f.pos
		expected = f.expected
	}
	return p.unexpectedAt(at, expected...)
}

// unexpectedAt builds an UnexpectedToken for the rune at offset.
func (p *parser) unexpectedAt(offset int, expected ...string) *UnexpectedToken {
	found, end := p.foundAt(offset)
	return &UnexpectedToken{
		diagBase: diagBase{span: p.span(offset, end)},
		Expected: expected,
		Found:    found,
	}
}

func (p *parser) foundAt(offset int) (string, int) {
	if offset >= len(p.src.Text) {
		return "", len(p.src.Text)
	}
	c := internal.NewCursor(p.src.Text)
	c.Reset(offset)
	c.Advance()
	return p.src.Text[offset:c.Pos()], c.Pos()
}

// enter increments the nesting depth. It fails with NestingTooDeep once the
// configured limit is exceeded; every successful enter needs a leave.
func (p *parser) enter() bool {
	if p.maxDepth > 0 && p.depth >= p.maxDepth {
		p.logger.Debug(LogMsgDepthLimit,
			zap.String(LogFieldSource, string(p.src.ID)),
			zap.Int(LogFieldDepth, p.depth),
			zap.Int(LogFieldOffset, p.pos()))
		p.failWith(&NestingTooDeep{
			diagBase: diagBase{span: p.at(p.pos()), notes: []string{internal.HintNestingTooDeep}},
			Limit:    p.maxDepth,
		}, -1)
		return false
	}
	p.depth++
	return true
}

func (p *parser) leave() {
	p.depth--
}

// skipBalanced advances past the '}' matching an already consumed '{'. It
// stops at end of input and reports whether the brace was found.
func (p *parser) skipBalanced() bool {
	level := 1
	for !p.cur.AtEnd() {
		switch p.cur.Advance() {
		case internal.CharOpenBrace:
			level++
		case internal.CharCloseBrace:
			level--
			if level == 0 {
				return true
			}
		}
	}
	return false
}

// skipPast advances past the next occurrence of r, or to end of input.
func (p *parser) skipPast(r rune) {
	for !p.cur.AtEnd() {
		if p.cur.Advance() == r {
			return
		}
	}
}

// closeBrace expects '}' after the content of a brace construct. When it is
// missing, an UnexpectedToken is emitted unless quiet, and the input is
// skipped to the matching brace.
func (p *parser) closeBrace(quiet bool) {
	p.cur.SkipWhitespace()
	if p.cur.ConsumeRune(internal.CharCloseBrace) {
		return
	}
	if !quiet {
		p.emit(p.unexpectedAt(p.pos(), ExpectedCloseBrace))
	}
	p.skipBalanced()
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
