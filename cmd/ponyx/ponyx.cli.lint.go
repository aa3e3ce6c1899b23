package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/avpony/ponyx"
)

// ruleCodePattern matches diagnostic and lint codes such as S000 or L002
var ruleCodePattern = regexp.MustCompile(`^[A-Z][0-9]{3}$`)

// lintConfig holds parsed lint command configuration
type lintConfig struct {
	filePath   string
	format     string
	configPath string
	rules      string
	ignore     string
	strict     bool
	noColor    bool
}

// lintRuleSet tracks which codes are reported. An empty only set reports
// everything not ignored.
type lintRuleSet struct {
	only    map[string]bool
	ignored map[string]bool
}

func newLintRuleSet(rules, ignore string) (*lintRuleSet, error) {
	only, err := splitCodes(rules)
	if err != nil {
		return nil, err
	}
	ignored, err := splitCodes(ignore)
	if err != nil {
		return nil, err
	}
	return &lintRuleSet{only: only, ignored: ignored}, nil
}

func splitCodes(list string) (map[string]bool, error) {
	codes := make(map[string]bool)
	if strings.TrimSpace(list) == "" {
		return codes, nil
	}
	for _, code := range strings.Split(list, RuleSeparator) {
		code = strings.TrimSpace(strings.ToUpper(code))
		if !ruleCodePattern.MatchString(code) {
			return nil, fmt.Errorf(FmtQuotedDetail, ErrMsgInvalidRuleFilter, code)
		}
		codes[code] = true
	}
	return codes, nil
}

func (rs *lintRuleSet) isEnabled(code string) bool {
	if rs.ignored[code] {
		return false
	}
	return len(rs.only) == 0 || rs.only[code]
}

func (rs *lintRuleSet) filter(issues []reportIssue) []reportIssue {
	out := make([]reportIssue, 0, len(issues))
	for _, issue := range issues {
		if rs.isEnabled(issue.Code) {
			out = append(out, issue)
		}
	}
	return out
}

func runLint(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg, err := parseLintFlags(args)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgInvalidArguments, err)
		return ExitCodeUsageError
	}

	ruleSet, err := newLintRuleSet(cfg.rules, cfg.ignore)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgInvalidArguments, err)
		return ExitCodeUsageError
	}

	source, err := readInput(cfg.filePath, stdin)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgReadFileFailed, err)
		return ExitCodeInputError
	}

	engine, err := newEngine(cfg.configPath, cfg.strict, newLogger(false, stderr))
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgEngineFailed, err)
		return ExitCodeError
	}
	defer closeEngine(engine)

	id := inputID(cfg.filePath)
	src, issues, err := lintSource(context.Background(), engine, id, string(source), cfg.strict)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgParseFailed, err)
		return ExitCodeError
	}
	issues = ruleSet.filter(issues)

	if cfg.format == OutputFormatJSON {
		if err := writeJSON(stdout, newReportOutput(id, issues)); err != nil {
			fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgEncodeFailed, err)
			return ExitCodeError
		}
	} else {
		newTextReport(stdout, cfg.noColor).write(src, issues)
	}

	return exitCodeFor(issues)
}

func parseLintFlags(args []string) (*lintConfig, error) {
	fs := flag.NewFlagSet(CmdNameLint, flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	cfg := &lintConfig{}

	fs.StringVar(&cfg.filePath, FlagFile, "", "")
	fs.StringVar(&cfg.filePath, FlagFileShort, "", "")
	fs.StringVar(&cfg.format, FlagFormat, FlagDefaultFormat, "")
	fs.StringVar(&cfg.format, FlagFormatShort, FlagDefaultFormat, "")
	fs.StringVar(&cfg.configPath, FlagConfig, "", "")
	fs.StringVar(&cfg.configPath, FlagConfigShort, "", "")
	fs.StringVar(&cfg.rules, FlagRules, "", "")
	fs.StringVar(&cfg.rules, FlagRulesShort, "", "")
	fs.StringVar(&cfg.ignore, FlagIgnore, "", "")
	fs.StringVar(&cfg.ignore, FlagIgnoreShort, "", "")
	fs.BoolVar(&cfg.strict, FlagStrictMode, false, "")
	fs.BoolVar(&cfg.noColor, FlagNoColor, false, "")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if cfg.filePath == "" {
		return nil, errors.New(ErrMsgMissingFile)
	}

	if cfg.format != OutputFormatText && cfg.format != OutputFormatJSON {
		return nil, errors.New(ErrMsgInvalidFormat)
	}

	return cfg, nil
}

// lintSource returns the diagnostics of text followed by the style findings
// on its tree. Strict turns style warnings into errors.
func lintSource(ctx context.Context, engine *ponyx.Engine, id ponyx.SourceID, text string, strict bool) (*ponyx.Source, []reportIssue, error) {
	src, issues, err := checkSource(ctx, engine, id, text)
	if err != nil {
		return nil, nil, err
	}

	parsed, err := engine.Parse(ctx, id, text)
	if err != nil {
		return nil, nil, err
	}

	severity := ponyx.SeverityWarning.String()
	if strict {
		severity = ponyx.SeverityError.String()
	}
	for _, issue := range lintTree(src, parsed.Root) {
		issue.Severity = severity
		issues = append(issues, issue)
	}
	return src, issues, nil
}

// lintTree applies the style rules to every node under root
func lintTree(src *ponyx.Source, root *ponyx.RootNode) []reportIssue {
	var issues []reportIssue
	add := func(code, msg string, span ponyx.Span, tag string) {
		pos := src.Position(span.Start)
		issues = append(issues, reportIssue{
			Code:    code,
			Message: msg,
			Line:    pos.Line,
			Column:  pos.Column,
			Offset:  span.Start,
			End:     span.End,
			Tag:     tag,
		})
	}

	ponyx.Inspect(root, func(n ponyx.Node) bool {
		switch n := n.(type) {
		case *ponyx.DebugStatement:
			add(LintRuleDebugStatement, LintMsgDebugStatement, n.Span(), "")
		case *ponyx.ForBlock:
			if n.Key == nil {
				add(LintRuleForWithoutKey, LintMsgForWithoutKey, n.Span(), "")
			}
		case *ponyx.Tag:
			seen := make(map[string]bool, len(n.Attributes))
			for _, a := range n.Attributes {
				key := a.Key.String()
				if seen[key] {
					add(LintRuleDuplicateAttr, fmt.Sprintf(LintMsgDuplicateAttrFmt, key), a.Span(), n.Name.String())
				}
				seen[key] = true
			}
		}
		return true
	})
	return issues
}
