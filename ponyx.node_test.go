package ponyx

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNodes_Text(t *testing.T) {
	root, diags := parseNodesText(t, "hello world")
	require.Empty(t, diags)
	text := singleNode[*Text](t, root)
	assert.Equal(t, "hello world", text.Content)
	assert.Equal(t, 0, text.Span().Start)
	assert.Equal(t, 11, text.Span().End)
}

func TestParseNodes_Entities(t *testing.T) {
	tests := []struct {
		name  string
		input string
		value string
		codes []string
	}{
		{"named", "&amp;", "&", nil},
		{"named ellipsis", "&hellip;", "…", nil},
		{"decimal", "&#65;", "A", nil},
		{"hex", "&#x41;", "A", nil},
		{"upper hex", "&#X41;", "A", nil},
		{"surrogate", "&#xD800;", "�", []string{"S200"}},
		{"out of range", "&#1114112;", "�", []string{"S200"}},
		{"unknown name", "&bogus;", "&bogus;", []string{"X000"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root, diags := parseNodesText(t, tt.input)
			entity := singleNode[*Entity](t, root)
			assert.Equal(t, tt.value, entity.Value)
			if tt.codes == nil {
				assert.Empty(t, diags)
			} else {
				assert.Equal(t, tt.codes, codeStrings(diags))
			}
		})
	}

	t.Run("unknown name is a warning with suggestion", func(t *testing.T) {
		_, diags := parseNodesText(t, "&ampx;")
		require.Len(t, diags, 1)
		assert.Equal(t, SeverityWarning, diags[0].Severity())
		require.NotEmpty(t, diags[0].Notes())
		assert.Contains(t, diags[0].Notes()[0], `"amp"`)
	})

	t.Run("numeric flag", func(t *testing.T) {
		root, _ := parseNodesText(t, "&#65;&lt;")
		require.Len(t, root.Children, 2)
		assert.True(t, root.Children[0].(*Entity).IsNumeric())
		assert.False(t, root.Children[1].(*Entity).IsNumeric())
	})

	t.Run("missing semicolon recovers", func(t *testing.T) {
		root, diags := parseNodesText(t, "&amp x")
		assert.Equal(t, []string{"S000"}, codeStrings(diags))
		text := singleNode[*Text](t, root)
		assert.Equal(t, "amp x", text.Content)
	})

	t.Run("custom entity table", func(t *testing.T) {
		p := newParser(NewSource(testSourceID, "&pony;"), parserConfig{
			ext:      textExt{},
			entities: map[string]string{"pony": "🐴"},
		})
		root := p.parseNodes()
		assert.Empty(t, p.diags)
		assert.Equal(t, "🐴", singleNode[*Entity](t, root).Value)
	})
}

func TestParseNodes_Comment(t *testing.T) {
	t.Run("closed", func(t *testing.T) {
		root, diags := parseNodesText(t, "<!-- hi -->after")
		require.Empty(t, diags)
		require.Len(t, root.Children, 2)
		assert.Equal(t, " hi ", root.Children[0].(*Comment).Content)
		assert.Equal(t, "after", root.Children[1].(*Text).Content)
	})

	t.Run("unterminated runs to end", func(t *testing.T) {
		root, diags := parseNodesText(t, "<!-- x")
		assert.Equal(t, []string{"S000"}, codeStrings(diags))
		assert.Equal(t, " x", singleNode[*Comment](t, root).Content)
	})
}

func TestParseNodes_Mustache(t *testing.T) {
	t.Run("expression", func(t *testing.T) {
		root, diags := parseNodesText(t, "Hi { name }!")
		require.Empty(t, diags)
		require.Len(t, root.Children, 3)
		m, ok := root.Children[1].(*Mustache)
		require.True(t, ok)
		assert.Equal(t, "name", m.Expr.Value.Value())
		assert.Equal(t, 3, m.Span().Start)
		assert.Equal(t, 11, m.Span().End)
	})

	t.Run("foreign error becomes placeholder", func(t *testing.T) {
		root, diags := parseNodesText(t, "{a!}")
		assert.Equal(t, []string{"E000"}, codeStrings(diags))
		m := singleNode[*Mustache](t, root)
		ph, hole := m.Expr.Value.Placeholder()
		require.True(t, hole)
		assert.Equal(t, markerTextExpression, ph.Marker())
		assert.Equal(t, 2, ph.Span().Start)

		var ext *ExternalError
		require.ErrorAs(t, diags[0], &ext)
		assert.Equal(t, "text", ext.Ext)
		assert.Equal(t, "bang", ext.Reason)
		assert.Equal(t, 2, ext.Span().Start)
		assert.Equal(t, 3, ext.Span().End)
	})

	t.Run("nested braces", func(t *testing.T) {
		root, diags := parseNodesText(t, "{ {a: 1} }")
		require.Empty(t, diags)
		assert.Equal(t, "{a: 1}", singleNode[*Mustache](t, root).Expr.Value.Value())
	})
}

func TestParseNodes_Tags(t *testing.T) {
	t.Run("element with text", func(t *testing.T) {
		root, diags := parseNodesText(t, "<p>hi</p>")
		require.Empty(t, diags)
		tag := singleNode[*Tag](t, root)
		assert.Equal(t, "p", tag.Name.String())
		assert.False(t, tag.SelfClosing)
		require.Len(t, tag.Children, 1)
		assert.Equal(t, "hi", tag.Children[0].(*Text).Content)
		assert.Equal(t, 9, tag.Span().End)
	})

	t.Run("self closing", func(t *testing.T) {
		for _, input := range []string{"<br/>", "<br />"} {
			root, diags := parseNodesText(t, input)
			require.Empty(t, diags)
			assert.True(t, singleNode[*Tag](t, root).SelfClosing)
		}
	})

	t.Run("dotted name and attributes", func(t *testing.T) {
		root, diags := parseNodesText(t, `<Foo.Bar x=1 y label="hi" on:click={go} bind:value/>`)
		require.Empty(t, diags)
		tag := singleNode[*Tag](t, root)
		assert.Equal(t, "Foo.Bar", tag.Name.String())
		require.Len(t, tag.Attributes, 5)

		assert.Equal(t, "x=1", tag.Attributes[0].String())
		assert.Nil(t, tag.Attributes[1].Value)
		assert.Equal(t, `label="hi"`, tag.Attributes[2].String())

		click := tag.Attributes[3]
		assert.True(t, click.Key.IsDirective())
		assert.Equal(t, "on:click", click.Key.String())
		ext, ok := click.Value.Value().(*ExternalExpr)
		require.True(t, ok)
		assert.Equal(t, "go", ext.Value.Value())

		bind, ok := tag.Attribute("bind")
		require.True(t, ok)
		assert.Equal(t, "value", bind.Key.Director.Value().Value)
	})

	t.Run("nested tags", func(t *testing.T) {
		root, diags := parseNodesText(t, "<ul><li>a</li><li>b</li></ul>")
		require.Empty(t, diags)
		ul := singleNode[*Tag](t, root)
		assert.Len(t, ul.Children, 2)
		assert.Equal(t, 5, CountNodes(root))
	})

	t.Run("mismatched closing tag drops the tag", func(t *testing.T) {
		root, diags := parseNodesText(t, "<Box>text</Bix>")
		assert.Empty(t, root.Children)
		require.Len(t, diags, 1)

		var unclosed *UnclosedTag
		require.ErrorAs(t, diags[0], &unclosed)
		assert.Equal(t, "Box", unclosed.Opening)
		assert.Equal(t, "Bix", unclosed.Closing)
		assert.Equal(t, 0, unclosed.Span().Start)
		assert.Equal(t, 15, unclosed.Span().End)
	})

	t.Run("closing tag path length must match", func(t *testing.T) {
		_, diags := parseNodesText(t, "<a.b>x</a>")
		assert.Equal(t, []string{"X101"}, codeStrings(diags))
	})

	t.Run("missing closing tag", func(t *testing.T) {
		root, diags := parseNodesText(t, "<div>x")
		require.Len(t, diags, 1)
		var unexpected *UnexpectedToken
		require.ErrorAs(t, diags[0], &unexpected)
		assert.Equal(t, []string{"'</div>'"}, unexpected.Expected)
		assert.Len(t, singleNode[*Tag](t, root).Children, 1)
	})

	t.Run("attribute value must be solo", func(t *testing.T) {
		root, diags := parseNodesText(t, "<a href=x.y/>")
		assert.Equal(t, []string{"X100"}, codeStrings(diags))
		tag := singleNode[*Tag](t, root)
		require.Len(t, tag.Attributes, 1)
		assert.False(t, tag.Attributes[0].Value.IsPresent())
		assert.True(t, tag.SelfClosing)
	})

	t.Run("application is not consumed by attribute", func(t *testing.T) {
		root, diags := parseNodesText(t, "<a href=f x/>")
		require.Empty(t, diags)
		tag := singleNode[*Tag](t, root)
		require.Len(t, tag.Attributes, 2)
		assert.Equal(t, "href=f", tag.Attributes[0].String())
		assert.Equal(t, "x", tag.Attributes[1].String())
	})

	t.Run("parenthesised attribute value", func(t *testing.T) {
		root, diags := parseNodesText(t, "<a n=(x + 1)/>")
		require.Empty(t, diags)
		assert.Equal(t, "n=((x + 1))", singleNode[*Tag](t, root).Attributes[0].String())
	})

	t.Run("missing attribute value", func(t *testing.T) {
		root, diags := parseNodesText(t, "<a href= x/>")
		assert.Equal(t, []string{"S149"}, codeStrings(diags))
		tag := singleNode[*Tag](t, root)
		require.Len(t, tag.Attributes, 2)
		assert.Equal(t, "href=<SOLO_EXPRESSION>", tag.Attributes[0].String())
	})

	t.Run("keyword tag name is kept", func(t *testing.T) {
		root, diags := parseNodesText(t, "<if/>")
		assert.Equal(t, []string{"S300"}, codeStrings(diags))
		assert.Equal(t, "if", singleNode[*Tag](t, root).Name.String())
	})

	t.Run("garbage in tag head", func(t *testing.T) {
		root, diags := parseNodesText(t, `<div "x">y</div>`)
		assert.Equal(t, []string{"S000"}, codeStrings(diags))
		tag := singleNode[*Tag](t, root)
		require.Len(t, tag.Children, 1)
		assert.Equal(t, "y", tag.Children[0].(*Text).Content)
	})
}

func TestParseNodes_Statements(t *testing.T) {
	t.Run("let", func(t *testing.T) {
		root, diags := parseNodesText(t, "{@let x = 1}")
		require.Empty(t, diags)
		let := singleNode[*LetStatement](t, root)
		assert.Equal(t, "let x = 1", let.Decl.Value())
		assert.Equal(t, StatementLet, let.StatementKind())
	})

	t.Run("const", func(t *testing.T) {
		root, diags := parseNodesText(t, "{@ const c = 2 }")
		require.Empty(t, diags)
		assert.Equal(t, "const c = 2", singleNode[*ConstStatement](t, root).Decl.Value())
	})

	t.Run("debug", func(t *testing.T) {
		root, diags := parseNodesText(t, "{@debug user}")
		require.Empty(t, diags)
		assert.Equal(t, "user", singleNode[*DebugStatement](t, root).Expr.Value())
	})

	t.Run("unknown statement", func(t *testing.T) {
		root, diags := parseNodesText(t, "{@foo}after")
		assert.Equal(t, []string{"S000"}, codeStrings(diags))
		assert.Equal(t, "after", singleNode[*Text](t, root).Content)
	})
}

func TestParseNodes_IfBlock(t *testing.T) {
	t.Run("if else", func(t *testing.T) {
		root, diags := parseNodesText(t, "{#if a}yes{:else}no{/if}")
		require.Empty(t, diags)
		b := singleNode[*IfBlock](t, root)
		require.Len(t, b.Branches, 2)
		assert.Equal(t, BranchIf, b.Branches[0].Kind)
		assert.Equal(t, "a", b.Branches[0].Cond.Value())
		assert.Equal(t, BranchElse, b.Branches[1].Kind)
		assert.Equal(t, "no", b.Branches[1].Children[0].(*Text).Content)
		assert.Equal(t, 24, b.Span().End)
	})

	t.Run("else if chain", func(t *testing.T) {
		root, diags := parseNodesText(t, "{#if a}x{:else if b}y{:else}z{/if}")
		require.Empty(t, diags)
		b := singleNode[*IfBlock](t, root)
		require.Len(t, b.Branches, 3)
		assert.Equal(t, BranchElseIf, b.Branches[1].Kind)
		assert.Equal(t, "b", b.Branches[1].Cond.Value())
	})

	t.Run("branch after else is unreachable", func(t *testing.T) {
		root, diags := parseNodesText(t, "{#if a}x{:else}y{:else if b}z{/if}")
		assert.Equal(t, []string{"X102"}, codeStrings(diags))
		assert.Equal(t, SeverityWarning, diags[0].Severity())
		b := singleNode[*IfBlock](t, root)
		assert.Len(t, b.Branches, 2)

		var unreachable *UnreachableBranch
		require.ErrorAs(t, diags[0], &unreachable)
		assert.Equal(t, b.Span(), unreachable.Block)
		assert.Equal(t, 16, unreachable.Span().Start)
	})

	t.Run("missing close", func(t *testing.T) {
		root, diags := parseNodesText(t, "{#if a}x")
		require.Len(t, diags, 1)
		var unexpected *UnexpectedToken
		require.ErrorAs(t, diags[0], &unexpected)
		assert.Equal(t, []string{"'{/if}'"}, unexpected.Expected)
		assert.Len(t, singleNode[*IfBlock](t, root).Branches, 1)
	})

	t.Run("stray leaf content is kept", func(t *testing.T) {
		root, diags := parseNodesText(t, "{#if a}x{:then}y{/if}")
		assert.Equal(t, []string{"S000"}, codeStrings(diags))
		b := singleNode[*IfBlock](t, root)
		require.Len(t, b.Branches, 1)
		assert.Len(t, b.Branches[0].Children, 2)
	})
}

func TestParseNodes_ForBlock(t *testing.T) {
	t.Run("with empty branch", func(t *testing.T) {
		root, diags := parseNodesText(t, "{#for x in xs}<li/>{:else}none{/for}")
		require.Empty(t, diags)
		b := singleNode[*ForBlock](t, root)
		assert.Equal(t, "x", b.Binding.Value().Value)
		assert.Equal(t, "xs", b.Iter.Value())
		assert.Nil(t, b.Key)
		assert.Len(t, b.Children, 1)
		assert.True(t, b.HasEmpty)
		require.Len(t, b.Empty, 1)
	})

	t.Run("missing in", func(t *testing.T) {
		root, diags := parseNodesText(t, "{#for x xs}a{/for}")
		assert.Equal(t, []string{"S000"}, codeStrings(diags))
		b := singleNode[*ForBlock](t, root)
		assert.False(t, b.Iter.IsPresent())
		assert.Len(t, b.Children, 1)
	})

	t.Run("missing binding", func(t *testing.T) {
		root, diags := parseNodesText(t, "{#for in xs}a{/for}")
		assert.Equal(t, []string{"S132"}, codeStrings(diags))
		b := singleNode[*ForBlock](t, root)
		assert.False(t, b.Binding.IsPresent())
		assert.Equal(t, "xs", b.Iter.Value())
	})
}

func TestParseNodes_AwaitBlock(t *testing.T) {
	root, diags := parseNodesText(t, "{#await p}loading{:then v}ok{:catch e}err{/await}")
	require.Empty(t, diags)
	b := singleNode[*AwaitBlock](t, root)
	assert.False(t, b.Inline)
	assert.Equal(t, "p", b.Expr.Value())
	require.Len(t, b.Branches, 3)
	assert.Equal(t, AwaitPending, b.Branches[0].Kind)
	assert.Nil(t, b.Branches[0].Binding)
	assert.Equal(t, AwaitThen, b.Branches[1].Kind)
	assert.Equal(t, "v", b.Branches[1].Binding.Value().Value)
	assert.Equal(t, AwaitCatch, b.Branches[2].Kind)
	assert.Equal(t, "e", b.Branches[2].Binding.Value().Value)

	t.Run("then without binding", func(t *testing.T) {
		root, diags := parseNodesText(t, "{#await p}{:then}ok{/await}")
		require.Empty(t, diags)
		b := singleNode[*AwaitBlock](t, root)
		require.Len(t, b.Branches, 2)
		assert.Nil(t, b.Branches[1].Binding)
	})

	t.Run("unknown leaf", func(t *testing.T) {
		_, diags := parseNodesText(t, "{#await p}{:else}x{/await}")
		require.Len(t, diags, 1)
		var unexpected *UnexpectedToken
		require.ErrorAs(t, diags[0], &unexpected)
		assert.Equal(t, []string{ExpectedThenCatch}, unexpected.Expected)
	})
}

func TestParseNodes_KeyBlock(t *testing.T) {
	root, diags := parseNodesText(t, "{#key id}<Item/>{/key}")
	require.Empty(t, diags)
	b := singleNode[*KeyBlock](t, root)
	assert.Equal(t, "id", b.Expr.Value())
	assert.Len(t, b.Children, 1)

	t.Run("leaf is not accepted", func(t *testing.T) {
		root, diags := parseNodesText(t, "{#key k}a{:else}b{/key}")
		assert.Equal(t, []string{"S000"}, codeStrings(diags))
		assert.Len(t, singleNode[*KeyBlock](t, root).Children, 2)
	})
}

func TestParseNodes_Recovery(t *testing.T) {
	t.Run("unknown block keyword", func(t *testing.T) {
		root, diags := parseNodesText(t, "{#each xs}x{/each}")
		assert.Contains(t, codeStrings(diags), "S000")
		assert.Equal(t, "x", singleNode[*Text](t, root).Content)
	})

	t.Run("stray close at top level", func(t *testing.T) {
		root, diags := parseNodesText(t, "a{/if}b")
		assert.Equal(t, []string{"S000"}, codeStrings(diags))
		require.Len(t, root.Children, 2)
		assert.Equal(t, "b", root.Children[1].(*Text).Content)
	})

	t.Run("stray closing tag at top level", func(t *testing.T) {
		root, diags := parseNodesText(t, "a</p>b")
		assert.Equal(t, []string{"S000"}, codeStrings(diags))
		assert.Len(t, root.Children, 2)
	})

	t.Run("lone close brace", func(t *testing.T) {
		root, diags := parseNodesText(t, "a}b")
		assert.Equal(t, []string{"S000"}, codeStrings(diags))
		assert.Len(t, root.Children, 2)
	})
}

func parseNodesDepth(text string, maxDepth int) (*RootNode, Diagnostics) {
	p := newParser(NewSource(testSourceID, text), parserConfig{ext: textExt{}, maxDepth: maxDepth})
	root := p.parseNodes()
	return root, Diagnostics(p.diags)
}

func TestParseNodes_DepthLimit(t *testing.T) {
	root, diags := parseNodesDepth("<a><b><c><d></d></c></b></a>", 3)

	assert.Equal(t, []string{"S900"}, codeStrings(diags))
	a := singleNode[*Tag](t, root)
	require.Len(t, a.Children, 1)
	b := a.Children[0].(*Tag)
	require.Len(t, b.Children, 1)
	c := b.Children[0].(*Tag)
	assert.Empty(t, c.Children)

	var deep *NestingTooDeep
	require.ErrorAs(t, diags[0], &deep)
	assert.Equal(t, 3, deep.Limit)
	assert.Equal(t, 9, deep.Span().Start)
}

func TestParseNodes_DepthLimitRecovery(t *testing.T) {
	tests := []struct {
		name  string
		input string
		codes []string
		types []string
	}{
		{
			name:  "siblings after a deep tag",
			input: "<a><b><c><d></d></c></b></a>tail<e/>",
			codes: []string{"S900"},
			types: []string{"*ponyx.Tag", "*ponyx.Text", "*ponyx.Tag"},
		},
		{
			name:  "later mistakes are still reported",
			input: "{#if x}{#if y}{#if z}{#if w}a{/if}{/if}{/if}{/if} after {oops!}",
			codes: []string{"S900", "E000"},
			types: []string{"*ponyx.IfBlock", "*ponyx.Text", "*ponyx.Mustache"},
		},
		{
			name:  "one report per sequence",
			input: "<a><b><c>x<d>{y}</d><!-- z -->&amp;w</c></b></a>!",
			codes: []string{"S900"},
			types: []string{"*ponyx.Tag", "*ponyx.Text"},
		},
		{
			name:  "deep self-closing tag and braces in attributes",
			input: `<a><b><c><d v={x > 1} s="/>"/>q</c></b></a><e/>`,
			codes: []string{"S900"},
			types: []string{"*ponyx.Tag", "*ponyx.Tag"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root, diags := parseNodesDepth(tt.input, 3)
			assert.Equal(t, tt.codes, codeStrings(diags))
			types := make([]string, len(root.Children))
			for i, n := range root.Children {
				types[i] = fmt.Sprintf("%T", n)
			}
			assert.Equal(t, tt.types, types)
		})
	}
}
