package internal

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursor_Basics(t *testing.T) {
	c := NewCursor("aé b")

	assert.Equal(t, "aé b", c.Source())
	assert.Equal(t, 0, c.Pos())
	assert.False(t, c.AtEnd())

	assert.Equal(t, 'a', c.Advance())
	r, w := c.Peek()
	assert.Equal(t, 'é', r)
	assert.Equal(t, 2, w)
	assert.Equal(t, 'é', c.PeekRune())
	assert.Equal(t, ' ', c.PeekRuneAt(2))
	assert.Equal(t, rune(-1), c.PeekRuneAt(10))

	assert.Equal(t, 'é', c.Advance())
	assert.Equal(t, 3, c.Pos())
	assert.Equal(t, " b", c.Rest())
	assert.Equal(t, "é", c.Slice(1, 3))
}

func TestCursor_AtEnd(t *testing.T) {
	c := NewCursor("x")
	c.Advance()

	assert.True(t, c.AtEnd())
	assert.Equal(t, "", c.Rest())
	assert.Equal(t, rune(-1), c.PeekRune())
	assert.Equal(t, rune(-1), c.Advance())

	r, w := c.Peek()
	assert.Equal(t, utf8.RuneError, r)
	assert.Equal(t, 0, w)
	assert.Equal(t, 1, c.Pos())
}

func TestCursor_Reset(t *testing.T) {
	tests := []struct {
		name     string
		pos      int
		expected int
	}{
		{"inside", 2, 2},
		{"negative clamps to start", -5, 0},
		{"past end clamps to length", 99, 4},
		{"exact end", 4, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCursor("abcd")
			c.Reset(tt.pos)
			assert.Equal(t, tt.expected, c.Pos())
		})
	}

	t.Run("advance n clamps", func(t *testing.T) {
		c := NewCursor("abcd")
		c.AdvanceN(3)
		assert.Equal(t, 3, c.Pos())
		c.AdvanceN(3)
		assert.Equal(t, 4, c.Pos())
	})
}

func TestCursor_Consume(t *testing.T) {
	c := NewCursor("<!-- x -->")

	assert.True(t, c.HasPrefix("<!"))
	assert.False(t, c.Consume("<!x"))
	assert.Equal(t, 0, c.Pos())
	assert.True(t, c.Consume(StrCommentOpen))
	assert.Equal(t, 4, c.Pos())

	assert.False(t, c.ConsumeRune('x'))
	assert.Equal(t, 1, c.SkipWhitespace())
	assert.True(t, c.ConsumeRune('x'))
	assert.Equal(t, 1, c.SkipWhitespace())
	assert.Equal(t, StrCommentClose, c.Rest())
}

func TestCursor_ConsumeWhile(t *testing.T) {
	c := NewCursor("größe = 1")

	word := c.ConsumeWhile(IsXIDContinue)
	assert.Equal(t, "größe", word)
	assert.Equal(t, len("größe"), c.Pos())

	assert.Equal(t, "", c.ConsumeWhile(IsDigit))
	assert.Equal(t, 1, c.SkipWhitespace())
}

func TestCursor_ConsumeWord(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		word     string
		expected bool
		pos      int
	}{
		{"followed by space", "if x", "if", true, 2},
		{"at end", "if", "if", true, 2},
		{"followed by brace", "else}", "else", true, 4},
		{"followed by letter", "iffy", "if", false, 0},
		{"followed by digit", "for2", "for", false, 0},
		{"followed by underscore", "key_", "key", false, 0},
		{"followed by unicode letter", "ifé", "if", false, 0},
		{"no prefix", "then", "if", false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCursor(tt.input)
			require.Equal(t, tt.expected, c.ConsumeWord(tt.word))
			assert.Equal(t, tt.pos, c.Pos())
		})
	}
}
