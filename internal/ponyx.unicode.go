package internal

import (
	"sort"
	"strings"
	"unicode"
)

// IsXIDStart reports whether r may start an identifier (Unicode XID_Start).
func IsXIDStart(r rune) bool {
	if r < 0x80 {
		return ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z')
	}
	if unicode.In(r, unicode.Pattern_Syntax, unicode.Pattern_White_Space) {
		return false
	}
	return unicode.In(r, unicode.Letter, unicode.Nl, unicode.Other_ID_Start)
}

// IsXIDContinue reports whether r may continue an identifier (Unicode XID_Continue).
func IsXIDContinue(r rune) bool {
	if r < 0x80 {
		return ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z') || ('0' <= r && r <= '9') || r == CharUnderscore
	}
	if IsXIDStart(r) {
		return true
	}
	if unicode.In(r, unicode.Pattern_Syntax, unicode.Pattern_White_Space) {
		return false
	}
	return unicode.In(r, unicode.Mn, unicode.Mc, unicode.Nd, unicode.Pc, unicode.Other_ID_Continue)
}

// IsKeyword reports whether word is reserved.
func IsKeyword(word string) bool {
	i := sort.SearchStrings(Keywords, word)
	return i < len(Keywords) && Keywords[i] == word
}

// IsBlockKeyword reports whether word may open or close a logic block.
func IsBlockKeyword(word string) bool {
	for _, kw := range BlockKeywords {
		if kw == word {
			return true
		}
	}
	return false
}

// IsSyntaxPunctuation reports whether r belongs to the syntax alphabet.
func IsSyntaxPunctuation(r rune) bool {
	return strings.ContainsRune(SyntaxPunctuation, r)
}

// IsOperatorPunctuation reports whether r belongs to the operator alphabet.
func IsOperatorPunctuation(r rune) bool {
	return strings.ContainsRune(OperatorPunctuation, r)
}

// IsWhitespace reports whether r is inline or line whitespace.
func IsWhitespace(r rune) bool {
	return unicode.IsSpace(r)
}

// IsDigit reports whether r is an ASCII decimal digit.
func IsDigit(r rune) bool {
	return '0' <= r && r <= '9'
}

// IsHexDigit reports whether r is an ASCII hexadecimal digit.
func IsHexDigit(r rune) bool {
	return IsDigit(r) || ('a' <= r && r <= 'f') || ('A' <= r && r <= 'F')
}

// HexValue returns the numeric value of an ASCII hex digit.
func HexValue(r rune) uint32 {
	switch {
	case IsDigit(r):
		return uint32(r - '0')
	case 'a' <= r && r <= 'f':
		return uint32(r-'a') + 10
	case 'A' <= r && r <= 'F':
		return uint32(r-'A') + 10
	}
	return 0
}

// HexDigitsToUint32 folds hex digits into a value. Digits past the eighth
// saturate so that oversized inputs stay out of the scalar range.
func HexDigitsToUint32(digits string) uint32 {
	var v uint64
	for _, r := range digits {
		v = v<<4 | uint64(HexValue(r))
		if v > 0xFFFFFFFF {
			return 0xFFFFFFFF
		}
	}
	return uint32(v)
}

// IsScalarValue reports whether v is a valid Unicode scalar value.
func IsScalarValue(v uint32) bool {
	return v <= MaxRuneValue && (v < SurrogateMin || v > SurrogateMax)
}
