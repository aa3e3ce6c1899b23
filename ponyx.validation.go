package ponyx

import (
	"context"

	"go.uber.org/zap"
)

// Reclassified is a diagnostic whose severity was changed by configuration.
// Unwrap returns the original variant.
type Reclassified struct {
	Diagnostic
	Level Severity
}

// Severity returns the configured severity
func (r *Reclassified) Severity() Severity { return r.Level }

// Unwrap returns the original diagnostic
func (r *Reclassified) Unwrap() error { return r.Diagnostic }

// Underlying strips any reclassification
func Underlying(d Diagnostic) Diagnostic {
	for {
		r, ok := d.(*Reclassified)
		if !ok {
			return d
		}
		d = r.Diagnostic
	}
}

// diagnosticPolicy is the reporting policy applied after parsing
type diagnosticPolicy struct {
	severities map[Code]Severity
	ignored    map[Code]bool
	strict     bool
}

// apply drops ignored codes and applies severity overrides
func (p diagnosticPolicy) apply(ds []Diagnostic) Diagnostics {
	out := make(Diagnostics, 0, len(ds))
	for _, d := range ds {
		if p.ignored[d.Code()] {
			continue
		}
		if sev, ok := p.severities[d.Code()]; ok && sev != d.Severity() {
			d = &Reclassified{Diagnostic: d, Level: sev}
		}
		out = append(out, d)
	}
	return out
}

// failing reports whether ds should fail a strict parse
func (p diagnosticPolicy) failing(ds Diagnostics) bool {
	if ds.HasErrors() {
		return true
	}
	return p.strict && len(ds.Warnings()) > 0
}

// promote turns warnings into errors in strict mode
func (p diagnosticPolicy) promote(ds Diagnostics) Diagnostics {
	if !p.strict {
		return ds
	}
	out := make(Diagnostics, len(ds))
	for i, d := range ds {
		if d.Severity() == SeverityWarning {
			d = &Reclassified{Diagnostic: d, Level: SeverityError}
		}
		out[i] = d
	}
	return out
}

// ValidationResult contains the results of source validation.
type ValidationResult struct {
	issues []ValidationIssue
}

// ValidationIssue represents a single validation finding.
type ValidationIssue struct {
	Severity Severity
	Code     Code
	Message  string
	Position Position
	Span     Span
	Notes    []string
	// Tag is the innermost enclosing tag name, empty at top level
	Tag string
}

// Issues returns all validation issues found.
func (r *ValidationResult) Issues() []ValidationIssue {
	return r.issues
}

// Errors returns only issues with error severity.
func (r *ValidationResult) Errors() []ValidationIssue {
	return r.bySeverity(SeverityError)
}

// Warnings returns only issues with warning severity.
func (r *ValidationResult) Warnings() []ValidationIssue {
	return r.bySeverity(SeverityWarning)
}

// HasErrors returns true if there are any error-severity issues.
func (r *ValidationResult) HasErrors() bool {
	return len(r.Errors()) > 0
}

// HasWarnings returns true if there are any warning-severity issues.
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings()) > 0
}

// IsValid returns true if there are no error-severity issues.
func (r *ValidationResult) IsValid() bool {
	return !r.HasErrors()
}

func (r *ValidationResult) bySeverity(sev Severity) []ValidationIssue {
	var out []ValidationIssue
	for _, issue := range r.issues {
		if issue.Severity == sev {
			out = append(out, issue)
		}
	}
	return out
}

// Validate parses a file and projects its diagnostics into issues, after
// the ignore and severity policy and strict promotion.
func (e *Engine) Validate(ctx context.Context, id SourceID, text string) (*ValidationResult, error) {
	parsed, err := e.Parse(ctx, id, text)
	if err != nil {
		return nil, err
	}
	result := NewValidationResult(parsed.Source, parsed.Root, e.policy.promote(parsed.Diagnostics))
	e.logger.Debug(LogMsgValidationComplete,
		zap.String(LogFieldSource, string(id)),
		zap.Int(LogFieldDiagnostics, len(result.issues)),
		zap.Int(LogFieldErrors, len(result.Errors())))
	return result, nil
}

// NewValidationResult builds issues from diagnostics. root may be nil.
func NewValidationResult(src *Source, root *RootNode, ds Diagnostics) *ValidationResult {
	result := &ValidationResult{issues: make([]ValidationIssue, 0, len(ds))}
	for _, d := range ds {
		issue := ValidationIssue{
			Severity: d.Severity(),
			Code:     d.Code(),
			Message:  d.Message(),
			Span:     d.Span(),
			Notes:    d.Notes(),
			Tag:      enclosingTag(root, d.Span().Start),
		}
		if src != nil {
			issue.Position = src.Position(d.Span().Start)
		}
		result.issues = append(result.issues, issue)
	}
	return result
}

// enclosingTag returns the name of the innermost tag whose span contains
// offset
func enclosingTag(root *RootNode, offset int) string {
	name := ""
	Inspect(root, func(n Node) bool {
		if !n.Span().Contains(offset) {
			return false
		}
		if t, ok := n.(*Tag); ok {
			name = t.Name.String()
		}
		return true
	})
	return name
}
