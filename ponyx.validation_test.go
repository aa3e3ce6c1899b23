package ponyx

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngine_Validate(t *testing.T) {
	ctx := context.Background()

	t.Run("clean source", func(t *testing.T) {
		result, err := MustNew().Validate(ctx, testSourceID, "---\n<p>hi</p>")
		require.NoError(t, err)
		assert.True(t, result.IsValid())
		assert.False(t, result.HasWarnings())
		assert.Empty(t, result.Issues())
	})

	t.Run("issue position and enclosing tag", func(t *testing.T) {
		result, err := MustNew().Validate(ctx, testSourceID, "---\n<Card>&bogus;</Card>")
		require.NoError(t, err)
		assert.True(t, result.IsValid())
		assert.True(t, result.HasWarnings())
		require.Len(t, result.Warnings(), 1)

		issue := result.Warnings()[0]
		assert.Equal(t, CodeInvalidEntityName, issue.Code)
		assert.Equal(t, SeverityWarning, issue.Severity)
		assert.Equal(t, 2, issue.Position.Line)
		assert.Equal(t, 7, issue.Position.Column)
		assert.Equal(t, 10, issue.Span.Start)
		assert.Equal(t, "Card", issue.Tag)
	})

	t.Run("innermost tag wins", func(t *testing.T) {
		result, err := MustNew().Validate(ctx, testSourceID, "---\n<ul><li>&bogus;</li></ul>")
		require.NoError(t, err)
		require.Len(t, result.Issues(), 1)
		assert.Equal(t, "li", result.Issues()[0].Tag)
	})

	t.Run("top level issue has no tag", func(t *testing.T) {
		result, err := MustNew().Validate(ctx, testSourceID, "---\n&bogus;")
		require.NoError(t, err)
		require.Len(t, result.Issues(), 1)
		assert.Empty(t, result.Issues()[0].Tag)
	})

	t.Run("strict promotes warnings", func(t *testing.T) {
		result, err := MustNew(WithStrict(true)).Validate(ctx, testSourceID, "---\n&bogus;")
		require.NoError(t, err)
		assert.False(t, result.IsValid())
		assert.True(t, result.HasErrors())
		assert.False(t, result.HasWarnings())
	})

	t.Run("errors", func(t *testing.T) {
		result, err := MustNew().Validate(ctx, testSourceID, "---\n<div><p>{)}</p></div>")
		require.NoError(t, err)
		assert.False(t, result.IsValid())
		require.NotEmpty(t, result.Errors())
		assert.Equal(t, CodeExternalError, result.Errors()[0].Code)
		assert.Equal(t, "p", result.Errors()[0].Tag)
	})
}

func TestNewValidationResult_WithoutSource(t *testing.T) {
	p := newTestParser("&bogus;", textExt{})
	root := p.parseNodes()

	result := NewValidationResult(nil, root, p.diags)
	require.Len(t, result.Issues(), 1)
	assert.Equal(t, Position{}, result.Issues()[0].Position)
	assert.NotEmpty(t, result.Issues()[0].Message)

	empty := NewValidationResult(nil, nil, nil)
	assert.True(t, empty.IsValid())
	assert.Empty(t, empty.Issues())
}

func TestReclassified(t *testing.T) {
	p := newTestParser("&bogus;", textExt{})
	p.parseNodes()
	require.Len(t, p.diags, 1)

	original := p.diags[0]
	wrapped := &Reclassified{Diagnostic: &Reclassified{Diagnostic: original, Level: SeverityError}, Level: SeverityInfo}

	assert.Equal(t, SeverityInfo, wrapped.Severity())
	assert.Equal(t, original.Code(), wrapped.Code())
	assert.Equal(t, original.Message(), wrapped.Message())
	assert.Same(t, original, Underlying(wrapped))
	assert.Same(t, original, Underlying(original))
}
