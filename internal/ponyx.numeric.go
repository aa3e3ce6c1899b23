package internal

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	dividerTrain         = regexp.MustCompile(`_(_+)`)
	dividersBadlyPlaced  = regexp.MustCompile(`(^_)|(-_)|(_\.)|(\._)|(_$)`)
	numericDividerString = string(CharUnderscore)
)

// DividerProblem classifies a numeric separator violation
type DividerProblem int

// Divider problems, in the order they are checked
const (
	DividerOK DividerProblem = iota
	DividerTrain
	DividerBadlyPlaced
)

// CheckNumericDividers validates "_" placement in a raw numeric literal. On a
// violation it returns the byte range, relative to raw, that is at fault.
// A run of separators is reported before a misplaced one, and the range of
// a run covers only the excess separators.
func CheckNumericDividers(raw string) (DividerProblem, int, int) {
	if m := dividerTrain.FindStringSubmatchIndex(raw); m != nil {
		return DividerTrain, m[2], m[3]
	}
	if m := dividersBadlyPlaced.FindStringIndex(raw); m != nil {
		return DividerBadlyPlaced, m[0], m[1]
	}
	return DividerOK, 0, 0
}

// StripNumericDividers removes every "_" from raw
func StripNumericDividers(raw string) string {
	return strings.ReplaceAll(raw, numericDividerString, "")
}

// IntOverflow reports the direction of an out-of-range integer literal
type IntOverflow int

// Overflow directions
const (
	IntInRange IntOverflow = iota
	IntPositiveOverflow
	IntNegativeOverflow
)

// ParseInt32 parses a decimal integer into the 32-bit signed range. On
// overflow the value saturates and the direction is reported.
func ParseInt32(digits string) (int32, IntOverflow) {
	v, err := strconv.ParseInt(digits, 10, 32)
	if err == nil {
		return int32(v), IntInRange
	}
	if strings.HasPrefix(digits, string(CharMinus)) {
		return math.MinInt32, IntNegativeOverflow
	}
	return math.MaxInt32, IntPositiveOverflow
}

// ParseFloat64 parses a decimal float. Inputs are produced by the number
// grammar, so only range errors are possible; those saturate to +/-Inf.
func ParseFloat64(digits string) float64 {
	v, _ := strconv.ParseFloat(digits, 64)
	return v
}
