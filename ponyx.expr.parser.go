package ponyx

import (
	"strings"

	"github.com/avpony/ponyx/internal"
)

const operandEndChars = ")]},"

// expr parses a full expression. The grammar is layered, each layer
// containing the previous one: solo, accessor chain, application, binary.
func (p *parser) expr() (Expr, bool) {
	if !p.enter() {
		return nil, false
	}
	defer p.leave()
	return p.binary()
}

// binary parses application (ws+ operator ws+ Maybe<expr>)?. The space
// after the operator may only be missing where no operand can follow, as in
// a dangling "a +" at the end of a slot. Operators are right-nested:
// a + b * c is a + (b * c).
func (p *parser) binary() (Expr, bool) {
	left, ok := p.application()
	if !ok {
		return nil, false
	}
	op, ok := attempt(p, func() (Operator, bool) {
		if !p.whitespace() {
			return Operator{}, false
		}
		op, ok := p.operator()
		if !ok {
			return Operator{}, false
		}
		if !p.whitespace() && !p.atOperandEnd() {
			p.failAt(p.pos(), ExpectedWhitespace)
			return Operator{}, false
		}
		return op, true
	})
	if !ok {
		return left, true
	}
	right := required(p, MarkerExpression, p.expr)
	end := op.span.End
	if right.IsPresent() {
		end = right.Span().End
	}
	return &BinaryOp{Left: left, Op: op, Right: right, span: p.span(left.Span().Start, end)}, true
}

// atOperandEnd reports whether the input ends or closes the enclosing
// construct at the cursor
func (p *parser) atOperandEnd() bool {
	r := p.cur.PeekRune()
	return r < 0 || strings.ContainsRune(operandEndChars, r)
}

// operator parses a run of operator punctuation or a `name` in backticks
func (p *parser) operator() (Operator, bool) {
	start := p.pos()
	if p.cur.ConsumeRune(internal.CharBacktick) {
		name, ok := p.identifier()
		if !ok || !p.cur.ConsumeRune(internal.CharBacktick) {
			p.cur.Reset(start)
			p.failAt(start, ExpectedOperator)
			return Operator{}, false
		}
		return Operator{Symbol: name.Value, Named: name, span: p.spanFrom(start)}, true
	}
	sym, span, ok := p.operatorRun()
	if !ok {
		return Operator{}, false
	}
	return Operator{Symbol: sym, span: span}, true
}

// application parses chain (ws* application)?. The argument may not start
// with '[' unless whitespace separates it from the function, since an
// adjacent '[' continues the accessor chain.
func (p *parser) application() (Expr, bool) {
	fn, ok := p.chain()
	if !ok {
		return nil, false
	}
	arg, ok := attempt(p, func() (Expr, bool) {
		spaced := p.whitespace()
		if !spaced && p.cur.PeekRune() == internal.CharOpenBracket {
			return nil, false
		}
		if !p.enter() {
			return nil, false
		}
		defer p.leave()
		return p.application()
	})
	if !ok {
		return fn, true
	}
	return &Application{Func: fn, Arg: arg, span: p.span(fn.Span().Start, arg.Span().End)}, true
}

type accessor struct {
	member *Maybe[*Identifier]
	index  *Maybe[Expr]
	end    int
}

// chain parses a solo expression followed by member and index accessors.
// The accessors are queued and then folded left onto the receiver, so
// a.b[c].d is ((a.b)[c]).d.
func (p *parser) chain() (Expr, bool) {
	recv, ok := p.solo()
	if !ok {
		return nil, false
	}
	var queue []accessor
	for {
		if p.cur.ConsumeRune(internal.CharDot) {
			member := p.maybeIdentifier()
			queue = append(queue, accessor{member: &member, end: p.pos()})
			continue
		}
		if p.cur.PeekRune() != internal.CharOpenBracket {
			break
		}
		cp := p.mark()
		p.cur.Advance()
		p.whitespace()
		index := required(p, MarkerExpression, p.expr)
		p.whitespace()
		if !p.cur.ConsumeRune(internal.CharCloseBracket) {
			p.failAt(p.pos(), ExpectedCloseSquare)
			p.rewind(cp)
			break
		}
		queue = append(queue, accessor{index: &index, end: p.pos()})
	}

	var out Expr = recv
	start := recv.Span().Start
	for _, a := range queue {
		if a.member != nil {
			out = &MemberAccess{Receiver: out, Member: *a.member, span: p.span(start, a.end)}
		} else {
			out = &Indexing{Receiver: out, Index: *a.index, span: p.span(start, a.end)}
		}
	}
	return out, true
}

// solo tries the solo alternatives in order: literals, unary form,
// identifier, external, array, then the parenthesised family.
func (p *parser) solo() (SoloExpr, bool) {
	if !p.enter() {
		return nil, false
	}
	defer p.leave()

	alternatives := []func() (SoloExpr, bool){
		p.number,
		soloAlt(p.stringLit),
		soloAlt(p.boolean),
		soloAlt(p.unary),
		soloAlt(p.identifier),
		soloAlt(p.externalExpr),
		soloAlt(p.array),
		p.parenGroup,
	}
	for _, alt := range alternatives {
		if e, ok := attempt(p, alt); ok {
			return e, true
		}
	}
	p.failAt(p.pos(), ExpectedExpression)
	return nil, false
}

func soloAlt[T SoloExpr](fn func() (T, bool)) func() (SoloExpr, bool) {
	return func() (SoloExpr, bool) {
		v, ok := fn()
		if !ok {
			return nil, false
		}
		return v, true
	}
}

// unary parses an operator run written directly in front of an accessor
// chain. The operand binds tighter than application and binary operators.
func (p *parser) unary() (*UnaryOp, bool) {
	start := p.pos()
	op, opSpan, ok := p.operatorRun()
	if !ok {
		return nil, false
	}
	if r := p.cur.PeekRune(); r < 0 || internal.IsWhitespace(r) {
		p.failAt(p.pos(), ExpectedExpression)
		return nil, false
	}
	operand, ok := p.chain()
	if !ok {
		return nil, false
	}
	return &UnaryOp{Op: op, OpSpan: opSpan, Operand: operand, span: p.spanFrom(start)}, true
}

// maybeSoloExpr parses a required solo expression. An accessor chain is
// accepted by the grammar but reported as SoloExprOnly and replaced by a
// placeholder. Application and binary forms are never consumed here, so
// the following attributes stay intact.
func (p *parser) maybeSoloExpr() Maybe[SoloExpr] {
	start := p.pos()
	prior := p.fail.custom
	e, ok := attempt(p, p.chain)
	if !ok {
		return Hole[SoloExpr](p.hole(start, MarkerSoloExpression, prior))
	}
	if s, solo := AsSolo(e); solo {
		return Present(s, e.Span())
	}
	p.emit(&SoloExprOnly{diagBase{span: e.Span(), notes: []string{internal.HintSoloExprOnly}}})
	return Hole[SoloExpr](NewPlaceholder(p.at(start), MarkerSoloExpression))
}
