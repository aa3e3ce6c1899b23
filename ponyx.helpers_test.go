package ponyx

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const testSourceID SourceID = "test.pony"

var markerTextExpression = Marker{ID: 90, Name: "TEXT_EXPRESSION"}

// textExt is a test embedding: an expression runs up to the next unbalanced
// '}' and its value is the trimmed text. A '!' anywhere inside is a syntax
// error at that position. The module runs up to the first "---".
type textExt struct{}

func (textExt) ID() string               { return "text" }
func (textExt) ExpressionMarker() Marker { return markerTextExpression }

func (textExt) Module(input string) ExternalResult {
	end := strings.Index(input, "---")
	if end < 0 {
		end = len(input)
	}
	if i := strings.IndexByte(input[:end], '!'); i >= 0 {
		return Failed("bang in module", i, i+1)
	}
	return Succeeded(strings.TrimSpace(input[:end]), end)
}

func (textExt) Expression(input string) ExternalResult {
	depth := 0
	for i, r := range input {
		switch r {
		case '!':
			return Failed("bang", i, i+1)
		case '{':
			depth++
		case '}':
			if depth == 0 {
				content := strings.TrimSpace(input[:i])
				if content == "" {
					return Failed("empty expression", i, i)
				}
				return Succeeded(content, len(strings.TrimRight(input[:i], " \t\n")))
			}
			depth--
		}
	}
	return Failed("unterminated expression", len(input), len(input))
}

func (e textExt) LetDeclaration(input string) ExternalResult   { return e.Expression(input) }
func (e textExt) ConstDeclaration(input string) ExternalResult { return e.Expression(input) }

func newTestParser(text string, ext Ext) *parser {
	return newParser(NewSource(testSourceID, text), parserConfig{ext: ext, maxDepth: DefaultMaxDepth})
}

// parseExprText parses text as one PonyX expression with the no-op embedding
func parseExprText(t *testing.T, text string) (Maybe[Expr], Diagnostics) {
	t.Helper()
	p := newTestParser(text, NopExt{})
	e := p.parseExprSource()
	return e, Diagnostics(p.diags)
}

// parseNodesText parses a bare node sequence with the text embedding
func parseNodesText(t *testing.T, text string) (*RootNode, Diagnostics) {
	t.Helper()
	p := newTestParser(text, textExt{})
	root := p.parseNodes()
	require.NotNil(t, root)
	return root, Diagnostics(p.diags)
}

func singleNode[T Node](t *testing.T, root *RootNode) T {
	t.Helper()
	require.Len(t, root.Children, 1)
	n, ok := root.Children[0].(T)
	require.True(t, ok, "unexpected node %T", root.Children[0])
	return n
}

func codeStrings(ds Diagnostics) []string {
	out := make([]string, len(ds))
	for i, d := range ds {
		out[i] = string(d.Code())
	}
	return out
}
