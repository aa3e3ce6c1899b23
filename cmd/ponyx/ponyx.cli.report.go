package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/avpony/ponyx"
	"github.com/muesli/termenv"
	"gopkg.in/yaml.v3"
)

// reportIssue is one diagnostic or lint finding as printed by the CLI
type reportIssue struct {
	Code     string   `json:"code" yaml:"code"`
	Severity string   `json:"severity" yaml:"severity"`
	Message  string   `json:"message" yaml:"message"`
	Line     int      `json:"line" yaml:"line"`
	Column   int      `json:"column" yaml:"column"`
	Offset   int      `json:"offset" yaml:"offset"`
	End      int      `json:"end" yaml:"end"`
	Tag      string   `json:"tag,omitempty" yaml:"tag,omitempty"`
	Notes    []string `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// reportOutput represents JSON output for check and lint
type reportOutput struct {
	Source   string        `json:"source"`
	Valid    bool          `json:"valid"`
	Errors   int           `json:"errors"`
	Warnings int           `json:"warnings"`
	Issues   []reportIssue `json:"issues"`
}

func issuesFromValidation(result *ponyx.ValidationResult) []reportIssue {
	issues := make([]reportIssue, 0, len(result.Issues()))
	for _, vi := range result.Issues() {
		issues = append(issues, reportIssue{
			Code:     vi.Code.String(),
			Severity: vi.Severity.String(),
			Message:  vi.Message,
			Line:     vi.Position.Line,
			Column:   vi.Position.Column,
			Offset:   vi.Span.Start,
			End:      vi.Span.End,
			Tag:      vi.Tag,
			Notes:    vi.Notes,
		})
	}
	return issues
}

func countIssues(issues []reportIssue) (errs, warnings int) {
	for _, issue := range issues {
		switch issue.Severity {
		case ponyx.SeverityError.String():
			errs++
		case ponyx.SeverityWarning.String():
			warnings++
		}
	}
	return errs, warnings
}

func newReportOutput(id ponyx.SourceID, issues []reportIssue) reportOutput {
	errs, warnings := countIssues(issues)
	return reportOutput{
		Source:   string(id),
		Valid:    errs == 0,
		Errors:   errs,
		Warnings: warnings,
		Issues:   issues,
	}
}

// textReport prints issues with a source excerpt and caret line
type textReport struct {
	w   io.Writer
	out *termenv.Output
}

func newTextReport(w io.Writer, noColor bool) *textReport {
	if noColor {
		return &textReport{w: w, out: termenv.NewOutput(w, termenv.WithProfile(termenv.Ascii))}
	}
	return &textReport{w: w, out: termenv.NewOutput(w)}
}

func (r *textReport) styled(text, color string) termenv.Style {
	return r.out.String(text).Foreground(r.out.Color(color))
}

func (r *textReport) severity(name string) string {
	color := ColorError
	switch name {
	case ponyx.SeverityWarning.String():
		color = ColorWarning
	case ponyx.SeverityInfo.String():
		color = ColorInfo
	}
	return r.styled(name, color).Bold().String()
}

func (r *textReport) write(src *ponyx.Source, issues []reportIssue) {
	if len(issues) == 0 {
		fmt.Fprintf(r.w, CheckTextSuccess+FmtNewline, src.ID)
		return
	}

	for _, issue := range issues {
		fmt.Fprintf(r.w, CheckTextIssueFormat+FmtNewline,
			src.ID, issue.Line, issue.Column, r.severity(issue.Severity), issue.Code, issue.Message)

		pad, carets := caretLine(src, issue)
		fmt.Fprintf(r.w, CheckTextSourceFormat+FmtNewline, src.Line(issue.Line))
		fmt.Fprintf(r.w, CheckTextCaretFormat+FmtNewline, pad, r.styled(carets, ColorCaret).String())

		for _, note := range issue.Notes {
			fmt.Fprintf(r.w, CheckTextNoteFormat+FmtNewline, r.styled(note, ColorFaint).String())
		}
	}

	errs, warnings := countIssues(issues)
	fmt.Fprintf(r.w, CheckTextSummary+FmtNewline, errs, warnings)
}

// caretLine returns the indentation and the carets marking issue on its
// line. Tabs in the indentation are kept so the carets line up. The carets
// stop at the end of the line and are at least one wide.
func caretLine(src *ponyx.Source, issue reportIssue) (string, string) {
	runes := []rune(src.Line(issue.Line))
	col := issue.Column - 1
	if col < 0 {
		col = 0
	}
	if col > len(runes) {
		col = len(runes)
	}

	var pad strings.Builder
	for _, r := range runes[:col] {
		if r == '\t' {
			pad.WriteRune('\t')
		} else {
			pad.WriteByte(' ')
		}
	}

	lineStart := issue.Offset - len(string(runes[:col]))
	lineEnd := lineStart + len(string(runes))
	end := issue.End
	if end > lineEnd {
		end = lineEnd
	}

	width := 1
	if end > issue.Offset && issue.Offset >= 0 && end <= len(src.Text) {
		width = max(utf8.RuneCountInString(src.Text[issue.Offset:end]), 1)
	}
	return pad.String(), strings.Repeat(CaretRune, width)
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", JSONIndent)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(YAMLIndent)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
