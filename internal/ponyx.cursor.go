package internal

import (
	"strings"
	"unicode/utf8"
)

// Cursor walks a source buffer one rune at a time. Offsets are byte offsets.
type Cursor struct {
	source string
	pos    int
}

// NewCursor creates a cursor at the start of source
func NewCursor(source string) *Cursor {
	return &Cursor{source: source}
}

// Source returns the full underlying buffer
func (c *Cursor) Source() string {
	return c.source
}

// Pos returns the current byte offset
func (c *Cursor) Pos() int {
	return c.pos
}

// Reset moves the cursor to an absolute byte offset, clamped to the buffer.
func (c *Cursor) Reset(pos int) {
	switch {
	case pos < 0:
		c.pos = 0
	case pos > len(c.source):
		c.pos = len(c.source)
	default:
		c.pos = pos
	}
}

// AtEnd returns true when no input is left
func (c *Cursor) AtEnd() bool {
	return c.pos >= len(c.source)
}

// Rest returns the unconsumed input
func (c *Cursor) Rest() string {
	return c.source[c.pos:]
}

// Slice returns source[start:end]
func (c *Cursor) Slice(start, end int) string {
	return c.source[start:end]
}

// Peek returns the current rune without advancing. Returns utf8.RuneError
// with width 0 at end of input.
func (c *Cursor) Peek() (rune, int) {
	if c.AtEnd() {
		return utf8.RuneError, 0
	}
	b := c.source[c.pos]
	if b < utf8.RuneSelf {
		return rune(b), 1
	}
	return utf8.DecodeRuneInString(c.source[c.pos:])
}

// PeekRune returns the current rune, or -1 at end of input
func (c *Cursor) PeekRune() rune {
	r, w := c.Peek()
	if w == 0 {
		return -1
	}
	return r
}

// PeekRuneAt returns the rune starting n bytes ahead, or -1 past the end
func (c *Cursor) PeekRuneAt(n int) rune {
	at := c.pos + n
	if at >= len(c.source) {
		return -1
	}
	r, _ := utf8.DecodeRuneInString(c.source[at:])
	return r
}

// Advance consumes and returns the current rune
func (c *Cursor) Advance() rune {
	r, w := c.Peek()
	if w == 0 {
		return -1
	}
	c.pos += w
	return r
}

// AdvanceN consumes n bytes
func (c *Cursor) AdvanceN(n int) {
	c.Reset(c.pos + n)
}

// HasPrefix checks whether the remaining input starts with s
func (c *Cursor) HasPrefix(s string) bool {
	return strings.HasPrefix(c.source[c.pos:], s)
}

// Consume advances past s if the remaining input starts with it
func (c *Cursor) Consume(s string) bool {
	if !c.HasPrefix(s) {
		return false
	}
	c.pos += len(s)
	return true
}

// ConsumeRune advances past r if it is the current rune
func (c *Cursor) ConsumeRune(r rune) bool {
	cur, w := c.Peek()
	if w == 0 || cur != r {
		return false
	}
	c.pos += w
	return true
}

// ConsumeWhile advances while pred holds and returns the consumed text
func (c *Cursor) ConsumeWhile(pred func(rune) bool) string {
	start := c.pos
	for {
		r, w := c.Peek()
		if w == 0 || !pred(r) {
			break
		}
		c.pos += w
	}
	return c.source[start:c.pos]
}

// SkipWhitespace skips whitespace and returns how many bytes were skipped
func (c *Cursor) SkipWhitespace() int {
	return len(c.ConsumeWhile(IsWhitespace))
}

// ConsumeWord advances past word when it is followed by a non-identifier rune.
func (c *Cursor) ConsumeWord(word string) bool {
	if !c.HasPrefix(word) {
		return false
	}
	next := c.PeekRuneAt(len(word))
	if next >= 0 && IsXIDContinue(next) {
		return false
	}
	c.pos += len(word)
	return true
}
