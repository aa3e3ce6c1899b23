package internal

import (
	"math"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckNumericDividers(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		problem DividerProblem
		start   int
		end     int
	}{
		{"none", "1000", DividerOK, 0, 0},
		{"well placed", "1_000_000", DividerOK, 0, 0},
		{"fraction", "1_0.5_5", DividerOK, 0, 0},
		{"train", "1__000", DividerTrain, 2, 3},
		{"long train", "1___0", DividerTrain, 2, 4},
		{"leading", "_1", DividerBadlyPlaced, 0, 1},
		{"trailing", "1_", DividerBadlyPlaced, 1, 2},
		{"before dot", "1_.5", DividerBadlyPlaced, 1, 3},
		{"after dot", "1._5", DividerBadlyPlaced, 1, 3},
		{"after minus", "-_1", DividerBadlyPlaced, 0, 2},
		{"train wins over placement", "_1__0", DividerTrain, 3, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			problem, start, end := CheckNumericDividers(tt.raw)
			assert.Equal(t, tt.problem, problem)
			assert.Equal(t, tt.start, start)
			assert.Equal(t, tt.end, end)
		})
	}
}

func TestStripNumericDividers(t *testing.T) {
	assert.Equal(t, "1000000", StripNumericDividers("1_000_000"))
	assert.Equal(t, "-1.5", StripNumericDividers("-1_.5"))
	assert.Equal(t, "", StripNumericDividers("__"))
}

func TestParseInt32(t *testing.T) {
	tests := []struct {
		digits   string
		value    int32
		overflow IntOverflow
	}{
		{"0", 0, IntInRange},
		{"-0", 0, IntInRange},
		{"42", 42, IntInRange},
		{"2147483647", math.MaxInt32, IntInRange},
		{"-2147483648", math.MinInt32, IntInRange},
		{"2147483648", math.MaxInt32, IntPositiveOverflow},
		{"99999999999999999999", math.MaxInt32, IntPositiveOverflow},
		{"-2147483649", math.MinInt32, IntNegativeOverflow},
	}

	for _, tt := range tests {
		t.Run(tt.digits, func(t *testing.T) {
			value, overflow := ParseInt32(tt.digits)
			assert.Equal(t, tt.value, value)
			assert.Equal(t, tt.overflow, overflow)
		})
	}
}

func TestParseFloat64(t *testing.T) {
	assert.Equal(t, 1.5, ParseFloat64("1.5"))
	assert.Equal(t, -0.25, ParseFloat64("-0.25"))
	assert.Equal(t, 1e10, ParseFloat64("1e10"))
	assert.True(t, math.IsInf(ParseFloat64("1e400"), 1))
	assert.True(t, math.IsInf(ParseFloat64("-1e400"), -1))
}

func TestIdentifierRunes(t *testing.T) {
	tests := []struct {
		r     rune
		start bool
		cont  bool
	}{
		{'a', true, true},
		{'Z', true, true},
		{'_', false, true},
		{'7', false, true},
		{'é', true, true},
		{'ß', true, true},
		{'λ', true, true},
		{'漢', true, true},
		{'\u0301', false, true}, // combining acute accent
		{'\u0663', false, true}, // arabic-indic digit three
		{'-', false, false},
		{'.', false, false},
		{' ', false, false},
		{'\u00a0', false, false},
		{'«', false, false},
		{'😀', false, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.r), func(t *testing.T) {
			assert.Equal(t, tt.start, IsXIDStart(tt.r), "start")
			assert.Equal(t, tt.cont, IsXIDContinue(tt.r), "continue")
		})
	}
}

func TestKeywords(t *testing.T) {
	assert.True(t, sort.StringsAreSorted(Keywords))

	for _, kw := range Keywords {
		assert.True(t, IsKeyword(kw), kw)
	}
	for _, word := range []string{"", "iff", "catch", "by", "let", "const", "If", "zzz"} {
		assert.False(t, IsKeyword(word), word)
	}

	for _, kw := range BlockKeywords {
		assert.True(t, IsBlockKeyword(kw), kw)
		assert.True(t, IsKeyword(kw), kw)
	}
	assert.False(t, IsBlockKeyword(KeywordElse))
	assert.False(t, IsBlockKeyword(KeywordThen))
}

func TestPunctuationAlphabets(t *testing.T) {
	for _, r := range SyntaxPunctuation {
		assert.True(t, IsSyntaxPunctuation(r), string(r))
		assert.False(t, IsOperatorPunctuation(r), string(r))
	}
	for _, r := range OperatorPunctuation {
		assert.True(t, IsOperatorPunctuation(r), string(r))
		assert.False(t, IsSyntaxPunctuation(r), string(r))
	}
	assert.False(t, IsSyntaxPunctuation('a'))
	assert.False(t, IsOperatorPunctuation('('))
	assert.False(t, IsOperatorPunctuation('`'))
}

func TestWhitespaceAndDigits(t *testing.T) {
	for _, r := range " \t\r\n\u00a0\u2003" {
		assert.True(t, IsWhitespace(r), "%U", r)
	}
	assert.False(t, IsWhitespace('x'))

	assert.True(t, IsDigit('0'))
	assert.True(t, IsDigit('9'))
	assert.False(t, IsDigit('a'))
	assert.False(t, IsDigit('\u0663'))
}

func TestHexDigits(t *testing.T) {
	tests := []struct {
		r     rune
		hex   bool
		value uint32
	}{
		{'0', true, 0},
		{'9', true, 9},
		{'a', true, 10},
		{'F', true, 15},
		{'g', false, 0},
		{'G', false, 0},
	}

	for _, tt := range tests {
		t.Run(string(tt.r), func(t *testing.T) {
			assert.Equal(t, tt.hex, IsHexDigit(tt.r))
			assert.Equal(t, tt.value, HexValue(tt.r))
		})
	}

	assert.Equal(t, uint32(0x1F600), HexDigitsToUint32("1F600"))
	assert.Equal(t, uint32(0x41), HexDigitsToUint32("41"))
	assert.Equal(t, uint32(0), HexDigitsToUint32(""))
	assert.Equal(t, uint32(0xFFFFFFFF), HexDigitsToUint32("FFFFFFFF"))
	assert.Equal(t, uint32(0xFFFFFFFF), HexDigitsToUint32("123456789"))
}

func TestIsScalarValue(t *testing.T) {
	assert.True(t, IsScalarValue(0))
	assert.True(t, IsScalarValue(0x41))
	assert.True(t, IsScalarValue(0xD7FF))
	assert.False(t, IsScalarValue(SurrogateMin))
	assert.False(t, IsScalarValue(SurrogateMax))
	assert.True(t, IsScalarValue(0xE000))
	assert.True(t, IsScalarValue(MaxRuneValue))
	assert.False(t, IsScalarValue(MaxRuneValue+1))
	assert.False(t, IsScalarValue(0xFFFFFFFF))
}
