package ponyx

import (
	"fmt"

	"github.com/avpony/ponyx/internal"
)

// block parses a {#...} logic block. Once "{#" is read the block is
// committed; an unknown block keyword is reported and skipped.
func (p *parser) block() (Node, bool) {
	start := p.pos()
	if !p.cur.Consume(internal.StrBlockOpen) {
		p.failAt(start, ExpectedNode)
		return nil, false
	}
	p.whitespace()

	switch {
	case p.cur.ConsumeWord(internal.KeywordIf):
		return p.ifBlock(start), true
	case p.cur.ConsumeWord(internal.KeywordFor):
		return p.forBlock(start), true
	case p.cur.ConsumeWord(internal.KeywordAwait):
		return p.awaitBlock(start), true
	case p.cur.ConsumeWord(internal.KeywordKey):
		return p.keyBlock(start), true
	}

	p.emit(p.unexpectedAt(p.pos(), ExpectedBlock))
	p.skipBalanced()
	return nil, true
}

// headerExpr parses the foreign expression of a block header up to and
// including the closing brace
func (p *parser) headerExpr() Maybe[any] {
	p.whitespace()
	expr, ok := p.external(p.ext.ExpressionMarker(), p.ext.Expression)
	p.closeBrace(!ok)
	return expr
}

// peekLeaf returns the word after "{:" without consuming anything
func (p *parser) peekLeaf() string {
	if !p.cur.HasPrefix(internal.StrBlockLeaf) {
		return ""
	}
	cp := p.mark()
	p.cur.AdvanceN(len(internal.StrBlockLeaf))
	p.whitespace()
	word, _, _ := p.rawIdentifier()
	p.rewind(cp)
	return word
}

// consumeLeaf reads "{:" ws* word
func (p *parser) consumeLeaf(word string) {
	p.cur.Consume(internal.StrBlockLeaf)
	p.whitespace()
	p.cur.ConsumeWord(word)
}

// strayLeaf reports a leaf the current block does not accept and skips it
func (p *parser) strayLeaf(expected string) {
	p.emit(p.unexpectedAt(p.pos(), expected))
	p.cur.Consume(internal.StrBlockLeaf)
	p.skipBalanced()
}

// blockClose consumes {/kind}. A missing or different close is reported
// and left in the input.
func (p *parser) blockClose(kind string) {
	expected := expectedCloseBlock(kind)
	cp := p.mark()
	if p.cur.Consume(internal.StrBlockClose) {
		p.whitespace()
		if p.cur.ConsumeWord(kind) {
			p.closeBrace(false)
			return
		}
		p.rewind(cp)
	}
	p.emit(p.unexpectedAt(p.pos(), expected))
}

// ifBlock parses the rest of {#if c}...{/if}. Branches after an {:else} are
// reported as unreachable and dropped from the tree.
func (p *parser) ifBlock(start int) *IfBlock {
	first := &IfBranch{Kind: BranchIf}
	first.Cond = p.headerExpr()
	first.Children = p.nodeSeq(false)
	first.span = p.spanFrom(start)
	b := &IfBlock{Branches: []*IfBranch{first}}

	for {
		if p.peekLeaf() != internal.KeywordElse {
			if p.cur.HasPrefix(internal.StrBlockLeaf) {
				p.strayLeaf(ExpectedLeaf)
				current := b.Branches[len(b.Branches)-1]
				current.Children = append(current.Children, p.nodeSeq(false)...)
				current.span = p.spanFrom(current.span.Start)
				continue
			}
			break
		}
		branchStart := p.pos()
		p.consumeLeaf(internal.KeywordElse)
		p.whitespace()
		branch := &IfBranch{Kind: BranchElse}
		if p.cur.ConsumeWord(internal.KeywordIf) {
			branch.Kind = BranchElseIf
			branch.Cond = p.headerExpr()
		} else {
			p.closeBrace(false)
		}
		branch.Children = p.nodeSeq(false)
		branch.span = p.spanFrom(branchStart)
		b.Branches = append(b.Branches, branch)
	}

	p.blockClose(BlockIf)
	b.span = p.spanFrom(start)
	p.checkReachable(b)
	return b
}

// checkReachable truncates the branch list after the first else
func (p *parser) checkReachable(b *IfBlock) {
	for i, branch := range b.Branches {
		if branch.Kind != BranchElse || i == len(b.Branches)-1 {
			continue
		}
		dead := b.Branches[i+1:]
		p.emit(&UnreachableBranch{
			diagBase: diagBase{
				span:  joinSpans(dead[0].span, dead[len(dead)-1].span),
				notes: []string{internal.HintUnreachableBranch},
			},
			Block: b.span,
		})
		b.Branches = b.Branches[:i+1]
		return
	}
}

// forBlock parses the rest of {#for x in xs (by k)?}...{:else}...{/for}
func (p *parser) forBlock(start int) *ForBlock {
	b := &ForBlock{}
	p.whitespace()
	if p.atWord(internal.KeywordIn) {
		b.Binding = Hole[*Identifier](p.hole(p.pos(), MarkerIdentifier, p.fail.custom))
	} else {
		b.Binding = p.maybeIdentifier()
	}
	p.whitespace()

	if !p.cur.ConsumeWord(internal.KeywordIn) {
		p.emit(p.unexpectedAt(p.pos(), ExpectedIn))
		b.Iter = Hole[any](NewPlaceholder(p.at(p.pos()), p.ext.ExpressionMarker()))
		p.skipBalanced()
	} else {
		p.whitespace()
		iter, ok := p.external(p.ext.ExpressionMarker(), p.ext.Expression)
		b.Iter = iter
		p.whitespace()
		if ok && p.cur.ConsumeWord(internal.WordBy) {
			p.whitespace()
			key, keyOK := p.external(p.ext.ExpressionMarker(), p.ext.Expression)
			b.Key = &key
			ok = keyOK
		}
		p.closeBrace(!ok)
	}

	b.Children = p.nodeSeq(false)
	for p.cur.HasPrefix(internal.StrBlockLeaf) {
		if b.HasEmpty || p.peekLeaf() != internal.KeywordElse {
			p.strayLeaf(ExpectedLeaf)
			b.Empty = append(b.Empty, p.nodeSeq(false)...)
			continue
		}
		p.consumeLeaf(internal.KeywordElse)
		p.closeBrace(false)
		b.HasEmpty = true
		b.Empty = p.nodeSeq(false)
	}

	p.blockClose(BlockFor)
	b.span = p.spanFrom(start)
	return b
}

// awaitBlock parses either form of await. The full form has a pending
// section followed by any number of {:then v} and {:catch e} leaves. The
// inline form {#await p then v} has exactly one branch.
func (p *parser) awaitBlock(start int) *AwaitBlock {
	b := &AwaitBlock{}
	p.whitespace()
	expr, ok := p.external(p.ext.ExpressionMarker(), p.ext.Expression)
	b.Expr = expr
	p.whitespace()

	if kind, inline := p.awaitKeyword(); ok && inline {
		b.Inline = true
		branch := &AwaitBranch{Kind: kind, Binding: p.awaitBinding()}
		p.closeBrace(false)
		branch.Children = p.nodeSeq(false)
		for p.cur.HasPrefix(internal.StrBlockLeaf) {
			p.strayLeaf(expectedCloseBlock(BlockAwait))
			branch.Children = append(branch.Children, p.nodeSeq(false)...)
		}
		branch.span = p.spanFrom(start)
		b.Branches = []*AwaitBranch{branch}
		p.blockClose(BlockAwait)
		b.span = p.spanFrom(start)
		return b
	}

	p.closeBrace(!ok)
	pending := &AwaitBranch{Kind: AwaitPending}
	pending.Children = p.nodeSeq(false)
	pending.span = p.spanFrom(start)
	b.Branches = []*AwaitBranch{pending}

	for p.cur.HasPrefix(internal.StrBlockLeaf) {
		branchStart := p.pos()
		var kind AwaitBranchKind
		switch p.peekLeaf() {
		case internal.KeywordThen:
			kind = AwaitThen
			p.consumeLeaf(internal.KeywordThen)
		case internal.WordCatch:
			kind = AwaitCatch
			p.consumeLeaf(internal.WordCatch)
		default:
			p.strayLeaf(ExpectedThenCatch)
			last := b.Branches[len(b.Branches)-1]
			last.Children = append(last.Children, p.nodeSeq(false)...)
			continue
		}
		branch := &AwaitBranch{Kind: kind, Binding: p.awaitBinding()}
		p.closeBrace(false)
		branch.Children = p.nodeSeq(false)
		branch.span = p.spanFrom(branchStart)
		b.Branches = append(b.Branches, branch)
	}

	p.blockClose(BlockAwait)
	b.span = p.spanFrom(start)
	return b
}

// awaitKeyword consumes "then" or "catch" after the awaited expression
func (p *parser) awaitKeyword() (AwaitBranchKind, bool) {
	switch {
	case p.cur.ConsumeWord(internal.KeywordThen):
		return AwaitThen, true
	case p.cur.ConsumeWord(internal.WordCatch):
		return AwaitCatch, true
	}
	return AwaitPending, false
}

// awaitBinding parses the optional name after then/catch. A name requires
// whitespace after the keyword; without it the binding is absent.
func (p *parser) awaitBinding() *Maybe[*Identifier] {
	cp := p.mark()
	if !p.whitespace() || p.cur.PeekRune() == internal.CharCloseBrace {
		p.rewind(cp)
		return nil
	}
	binding := p.maybeIdentifier()
	return &binding
}

// keyBlock parses the rest of {#key e}...{/key}
func (p *parser) keyBlock(start int) *KeyBlock {
	b := &KeyBlock{Expr: p.headerExpr()}
	b.Children = p.nodeSeq(false)
	for p.cur.HasPrefix(internal.StrBlockLeaf) {
		p.strayLeaf(expectedCloseBlock(BlockKey))
		b.Children = append(b.Children, p.nodeSeq(false)...)
	}
	p.blockClose(BlockKey)
	b.span = p.spanFrom(start)
	return b
}

// ExpectedCloseBlockFor returns the expected-set entry for {/kind}
func expectedCloseBlock(kind string) string {
	return fmt.Sprintf(ExpectedCloseBlkFmt, kind)
}
