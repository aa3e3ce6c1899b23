package ponyx

import (
	"fmt"
	"strings"
)

// Code is the stable identifier of a diagnostic variant, e.g. "S000".
type Code string

// String returns the code text
func (c Code) String() string { return string(c) }

// Severity ranks diagnostics
type Severity int

// Severity constants
const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityInfo
)

// String returns the severity name
func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return SeverityNameWarning
	case SeverityInfo:
		return SeverityNameInfo
	default:
		return SeverityNameError
	}
}

// ParseSeverity converts a severity name
func ParseSeverity(name string) (Severity, bool) {
	switch strings.ToLower(name) {
	case SeverityNameError:
		return SeverityError, true
	case SeverityNameWarning:
		return SeverityWarning, true
	case SeverityNameInfo:
		return SeverityInfo, true
	}
	return SeverityError, false
}

// Diagnostic is the closed set of conditions the parser reports. Every
// variant carries the span it applies to.
type Diagnostic interface {
	error
	Code() Code
	Severity() Severity
	Span() Span
	Message() string
	// Notes returns follow-up hints such as spelling suggestions
	Notes() []string
	diagnostic()
}

type diagBase struct {
	span  Span
	notes []string
}

func (d *diagBase) Span() Span      { return d.span }
func (d *diagBase) Notes() []string { return d.notes }
func (d *diagBase) diagnostic()     {}

func (d *diagBase) addNote(note string) {
	if note != "" {
		d.notes = append(d.notes, note)
	}
}

func formatDiagnostic(d Diagnostic) string {
	return fmt.Sprintf("%s %s: %s", d.Code(), d.Span(), d.Message())
}

// UnexpectedToken is a generic grammar mismatch.
type UnexpectedToken struct {
	diagBase
	Expected []string
	Found    string // empty at end of input
}

func (d *UnexpectedToken) Code() Code         { return CodeUnexpectedToken }
func (d *UnexpectedToken) Severity() Severity { return SeverityError }
func (d *UnexpectedToken) Error() string      { return formatDiagnostic(d) }

func (d *UnexpectedToken) Message() string {
	found := MsgEndOfInput
	if d.Found != "" {
		found = fmt.Sprintf(FoundFmt, d.Found)
	}
	if len(d.Expected) == 0 {
		return fmt.Sprintf(MsgUnexpectedToken, found)
	}
	return fmt.Sprintf(MsgUnexpectedTokenExpected, found, strings.Join(d.Expected, ", "))
}

// InvalidInt is an integer literal outside the 32-bit signed range.
type InvalidInt struct {
	diagBase
	Negative bool
}

func (d *InvalidInt) Code() Code {
	if d.Negative {
		return CodeInvalidIntNegative
	}
	return CodeInvalidIntPositive
}

func (d *InvalidInt) Severity() Severity { return SeverityError }
func (d *InvalidInt) Error() string      { return formatDiagnostic(d) }

func (d *InvalidInt) Message() string {
	if d.Negative {
		return MsgInvalidIntNegative
	}
	return MsgInvalidIntPositive
}

// InvalidEscapeSequence is an unrecognised backslash escape.
type InvalidEscapeSequence struct{ diagBase }

func (d *InvalidEscapeSequence) Code() Code         { return CodeInvalidEscapeSequence }
func (d *InvalidEscapeSequence) Severity() Severity { return SeverityError }
func (d *InvalidEscapeSequence) Message() string    { return MsgInvalidEscapeSequence }
func (d *InvalidEscapeSequence) Error() string      { return formatDiagnostic(d) }

// MultipleNumericDividers points at the excess separators of a "__" run.
type MultipleNumericDividers struct{ diagBase }

func (d *MultipleNumericDividers) Code() Code         { return CodeMultipleNumericDividers }
func (d *MultipleNumericDividers) Severity() Severity { return SeverityError }
func (d *MultipleNumericDividers) Message() string    { return MsgMultipleNumericDividers }
func (d *MultipleNumericDividers) Error() string      { return formatDiagnostic(d) }

// DividersBadlyPlaced is a separator at a literal boundary, next to the sign
// or next to the decimal point.
type DividersBadlyPlaced struct{ diagBase }

func (d *DividersBadlyPlaced) Code() Code         { return CodeDividersBadlyPlaced }
func (d *DividersBadlyPlaced) Severity() Severity { return SeverityError }
func (d *DividersBadlyPlaced) Message() string    { return MsgDividersBadlyPlaced }
func (d *DividersBadlyPlaced) Error() string      { return formatDiagnostic(d) }

// InvalidUnicodeCodePoint is an escape or numeric entity naming a
// non-scalar value.
type InvalidUnicodeCodePoint struct {
	diagBase
	Value uint32
}

func (d *InvalidUnicodeCodePoint) Code() Code         { return CodeInvalidUnicodeCodePoint }
func (d *InvalidUnicodeCodePoint) Severity() Severity { return SeverityError }
func (d *InvalidUnicodeCodePoint) Error() string      { return formatDiagnostic(d) }

func (d *InvalidUnicodeCodePoint) Message() string {
	return fmt.Sprintf(MsgInvalidUnicodeCodePoint, d.Value)
}

// InvalidAsciiCode is a \x escape at or above 0x80.
type InvalidAsciiCode struct {
	diagBase
	Value uint32
}

func (d *InvalidAsciiCode) Code() Code         { return CodeInvalidAsciiCode }
func (d *InvalidAsciiCode) Severity() Severity { return SeverityError }
func (d *InvalidAsciiCode) Error() string      { return formatDiagnostic(d) }

func (d *InvalidAsciiCode) Message() string {
	return fmt.Sprintf(MsgInvalidAsciiCode, d.Value)
}

// ReservedIdentifier is a keyword used where a name is required.
type ReservedIdentifier struct {
	diagBase
	Text string
}

func (d *ReservedIdentifier) Code() Code         { return CodeReservedIdentifier }
func (d *ReservedIdentifier) Severity() Severity { return SeverityError }
func (d *ReservedIdentifier) Error() string      { return formatDiagnostic(d) }

func (d *ReservedIdentifier) Message() string {
	return fmt.Sprintf(MsgReservedIdentifier, d.Text)
}

// Expected is emitted whenever a required position became a placeholder.
type Expected struct {
	diagBase
	Placeholder Placeholder
}

func (d *Expected) Code() Code         { return d.Placeholder.Marker().Code() }
func (d *Expected) Severity() Severity { return SeverityError }
func (d *Expected) Error() string      { return formatDiagnostic(d) }

func (d *Expected) Message() string {
	return fmt.Sprintf(MsgExpected, strings.ToLower(strings.ReplaceAll(d.Placeholder.Expected(), "_", " ")))
}

// InvalidEntityName is an unknown named character reference.
type InvalidEntityName struct {
	diagBase
	Name string
}

func (d *InvalidEntityName) Code() Code         { return CodeInvalidEntityName }
func (d *InvalidEntityName) Severity() Severity { return SeverityWarning }
func (d *InvalidEntityName) Error() string      { return formatDiagnostic(d) }

func (d *InvalidEntityName) Message() string {
	return fmt.Sprintf(MsgInvalidEntityName, d.Name)
}

// SoloExprOnly is a compound expression where only a solo shape is legal.
type SoloExprOnly struct{ diagBase }

func (d *SoloExprOnly) Code() Code         { return CodeSoloExprOnly }
func (d *SoloExprOnly) Severity() Severity { return SeverityError }
func (d *SoloExprOnly) Message() string    { return MsgSoloExprOnly }
func (d *SoloExprOnly) Error() string      { return formatDiagnostic(d) }

// UnclosedTag is a tag closed with a different name than it was opened with.
type UnclosedTag struct {
	diagBase
	Opening string
	Closing string
}

func (d *UnclosedTag) Code() Code         { return CodeUnclosedTag }
func (d *UnclosedTag) Severity() Severity { return SeverityError }
func (d *UnclosedTag) Error() string      { return formatDiagnostic(d) }

func (d *UnclosedTag) Message() string {
	return fmt.Sprintf(MsgUnclosedTag, d.Opening, d.Closing)
}

// UnreachableBranch covers the if-branches that follow an {:else}.
type UnreachableBranch struct {
	diagBase
	Block Span
}

func (d *UnreachableBranch) Code() Code         { return CodeUnreachableBranch }
func (d *UnreachableBranch) Severity() Severity { return SeverityWarning }
func (d *UnreachableBranch) Message() string    { return MsgUnreachableBranch }
func (d *UnreachableBranch) Error() string      { return formatDiagnostic(d) }

// ExternalError is a failure reported by the embedded language parser.
type ExternalError struct {
	diagBase
	Ext    string
	Reason string
}

func (d *ExternalError) Code() Code         { return CodeExternalError }
func (d *ExternalError) Severity() Severity { return SeverityError }
func (d *ExternalError) Error() string      { return formatDiagnostic(d) }

func (d *ExternalError) Message() string {
	return fmt.Sprintf(MsgExternalError, d.Ext, d.Reason)
}

// NestingTooDeep is reported when the configured depth limit is exceeded.
type NestingTooDeep struct {
	diagBase
	Limit int
}

func (d *NestingTooDeep) Code() Code         { return CodeNestingTooDeep }
func (d *NestingTooDeep) Severity() Severity { return SeverityError }
func (d *NestingTooDeep) Error() string      { return formatDiagnostic(d) }

func (d *NestingTooDeep) Message() string {
	return fmt.Sprintf(MsgNestingTooDeep, d.Limit)
}

// Diagnostics is an ordered list of diagnostics
type Diagnostics []Diagnostic

// HasErrors reports whether any diagnostic has error severity
func (ds Diagnostics) HasErrors() bool {
	for _, d := range ds {
		if d.Severity() == SeverityError {
			return true
		}
	}
	return false
}

// Errors returns the error-severity diagnostics
func (ds Diagnostics) Errors() Diagnostics {
	return ds.filter(func(d Diagnostic) bool { return d.Severity() == SeverityError })
}

// Warnings returns the warning-severity diagnostics
func (ds Diagnostics) Warnings() Diagnostics {
	return ds.filter(func(d Diagnostic) bool { return d.Severity() == SeverityWarning })
}

// WithCode returns the diagnostics carrying code
func (ds Diagnostics) WithCode(code Code) Diagnostics {
	return ds.filter(func(d Diagnostic) bool { return d.Code() == code })
}

// Codes returns the codes in order
func (ds Diagnostics) Codes() []Code {
	codes := make([]Code, len(ds))
	for i, d := range ds {
		codes[i] = d.Code()
	}
	return codes
}

func (ds Diagnostics) filter(keep func(Diagnostic) bool) Diagnostics {
	var out Diagnostics
	for _, d := range ds {
		if keep(d) {
			out = append(out, d)
		}
	}
	return out
}
