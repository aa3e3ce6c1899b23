package ponyx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeverity(t *testing.T) {
	tests := []struct {
		name string
		sev  Severity
	}{
		{"error", SeverityError},
		{"warning", SeverityWarning},
		{"info", SeverityInfo},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.name, tt.sev.String())
			got, ok := ParseSeverity(tt.name)
			assert.True(t, ok)
			assert.Equal(t, tt.sev, got)
		})
	}

	got, ok := ParseSeverity("WARNING")
	assert.True(t, ok)
	assert.Equal(t, SeverityWarning, got)

	_, ok = ParseSeverity("fatal")
	assert.False(t, ok)
}

func TestDiagnostic_Messages(t *testing.T) {
	span := NewSpan(testSourceID, 1, 2)
	tests := []struct {
		name string
		diag Diagnostic
		code Code
		want string
	}{
		{
			"unexpected with expectations",
			&UnexpectedToken{diagBase: diagBase{span: span}, Expected: []string{"'>'", "'/>'"}, Found: "x"},
			CodeUnexpectedToken,
			`unexpected "x", expected '>', '/>'`,
		},
		{
			"unexpected at end",
			&UnexpectedToken{diagBase: diagBase{span: span}},
			CodeUnexpectedToken,
			"unexpected end of input",
		},
		{"positive int", &InvalidInt{diagBase: diagBase{span: span}}, CodeInvalidIntPositive, MsgInvalidIntPositive},
		{"negative int", &InvalidInt{diagBase: diagBase{span: span}, Negative: true}, CodeInvalidIntNegative, MsgInvalidIntNegative},
		{"reserved", &ReservedIdentifier{diagBase: diagBase{span: span}, Text: "for"}, CodeReservedIdentifier, `"for" is a reserved keyword and cannot be used as an identifier`},
		{"expected", &Expected{diagBase: diagBase{span: span}, Placeholder: NewPlaceholder(span, MarkerIdentifier)}, "S132", "expected identifier"},
		{"entity", &InvalidEntityName{diagBase: diagBase{span: span}, Name: "nope"}, CodeInvalidEntityName, "unknown character reference &nope;"},
		{"unclosed", &UnclosedTag{diagBase: diagBase{span: span}, Opening: "a", Closing: "b"}, CodeUnclosedTag, "tag <a> is closed by </b>"},
		{"external", &ExternalError{diagBase: diagBase{span: span}, Ext: "script", Reason: "boom"}, CodeExternalError, "script: boom"},
		{"depth", &NestingTooDeep{diagBase: diagBase{span: span}, Limit: 3}, CodeNestingTooDeep, "nesting exceeds the maximum depth of 3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.diag.Code())
			assert.Equal(t, tt.want, tt.diag.Message())
			assert.Equal(t, string(tt.code)+" test.pony[1..2]: "+tt.want, tt.diag.Error())
			assert.Equal(t, span, tt.diag.Span())
		})
	}
}

func TestDiagnostic_Severities(t *testing.T) {
	assert.Equal(t, SeverityWarning, (&InvalidEntityName{}).Severity())
	assert.Equal(t, SeverityWarning, (&UnreachableBranch{}).Severity())
	assert.Equal(t, SeverityError, (&UnclosedTag{}).Severity())
	assert.Equal(t, SeverityError, (&SoloExprOnly{}).Severity())
}

func TestDiagnostic_Notes(t *testing.T) {
	d := &UnexpectedToken{}
	d.addNote("")
	assert.Empty(t, d.Notes())
	d.addNote("hint: x")
	assert.Equal(t, []string{"hint: x"}, d.Notes())
}

func TestDiagnostics_Filters(t *testing.T) {
	_, ds := parseNodesText(t, "&bogus;<a.b>x</a>")
	require.Equal(t, []string{"X000", "X101"}, codeStrings(ds))

	assert.True(t, ds.HasErrors())
	assert.Len(t, ds.Errors(), 1)
	assert.Len(t, ds.Warnings(), 1)
	assert.Len(t, ds.WithCode(CodeUnclosedTag), 1)
	assert.Empty(t, ds.WithCode(CodeExternalError))
	assert.Equal(t, []Code{CodeInvalidEntityName, CodeUnclosedTag}, ds.Codes())

	assert.False(t, ds.Warnings().HasErrors())
}
