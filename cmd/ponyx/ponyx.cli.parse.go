package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/avpony/ponyx"
)

// parseConfig holds parsed parse command configuration
type parseConfig struct {
	filePath   string
	format     string
	configPath string
	nodesOnly  bool
}

// outlineNode is one entry of the printed syntax tree
type outlineNode struct {
	Type     string         `json:"type" yaml:"type"`
	Label    string         `json:"label,omitempty" yaml:"label,omitempty"`
	Line     int            `json:"line" yaml:"line"`
	Column   int            `json:"column" yaml:"column"`
	Start    int            `json:"start" yaml:"start"`
	End      int            `json:"end" yaml:"end"`
	Children []*outlineNode `json:"children,omitempty" yaml:"children,omitempty"`
}

// parseOutput represents JSON and YAML output for parse
type parseOutput struct {
	Source      string         `json:"source" yaml:"source"`
	Module      []string       `json:"module,omitempty" yaml:"module,omitempty"`
	NodeCount   int            `json:"node_count" yaml:"node_count"`
	Nodes       []*outlineNode `json:"nodes" yaml:"nodes"`
	Diagnostics []reportIssue  `json:"diagnostics,omitempty" yaml:"diagnostics,omitempty"`
}

func runParse(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg, err := parseParseFlags(args)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgInvalidArguments, err)
		return ExitCodeUsageError
	}

	source, err := readInput(cfg.filePath, stdin)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgReadFileFailed, err)
		return ExitCodeInputError
	}

	engine, err := newEngine(cfg.configPath, false, newLogger(false, stderr))
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgEngineFailed, err)
		return ExitCodeError
	}
	defer closeEngine(engine)

	parse := engine.Parse
	if cfg.nodesOnly {
		parse = engine.ParseNodes
	}
	result, err := parse(context.Background(), inputID(cfg.filePath), string(source))
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgParseFailed, err)
		return ExitCodeError
	}

	output := buildParseOutput(result)
	switch cfg.format {
	case OutputFormatJSON:
		err = writeJSON(stdout, output)
	case OutputFormatYAML:
		err = writeYAML(stdout, output)
	default:
		writeParseText(stdout, output)
	}
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgEncodeFailed, err)
		return ExitCodeError
	}

	if result.HasErrors() {
		return ExitCodeValidationError
	}
	return ExitCodeSuccess
}

func parseParseFlags(args []string) (*parseConfig, error) {
	fs := flag.NewFlagSet(CmdNameParse, flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	cfg := &parseConfig{}

	fs.StringVar(&cfg.filePath, FlagFile, "", "")
	fs.StringVar(&cfg.filePath, FlagFileShort, "", "")
	fs.StringVar(&cfg.format, FlagFormat, FlagDefaultFormat, "")
	fs.StringVar(&cfg.format, FlagFormatShort, FlagDefaultFormat, "")
	fs.StringVar(&cfg.configPath, FlagConfig, "", "")
	fs.StringVar(&cfg.configPath, FlagConfigShort, "", "")
	fs.BoolVar(&cfg.nodesOnly, FlagNodes, false, "")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if cfg.filePath == "" {
		return nil, errors.New(ErrMsgMissingFile)
	}

	switch cfg.format {
	case OutputFormatText, OutputFormatJSON, OutputFormatYAML:
	default:
		return nil, errors.New(ErrMsgInvalidFormat)
	}

	return cfg, nil
}

func buildParseOutput(result *ponyx.ParseResult) *parseOutput {
	src := result.Source
	output := &parseOutput{
		Source:    string(src.ID),
		NodeCount: ponyx.CountNodes(result.Root),
		Nodes:     outlineNodes(src, result.Root.Children),
	}

	if result.File != nil {
		if mod, ok := result.File.Module.Get(); ok {
			output.Module = moduleStatements(mod)
		}
	}

	if len(result.Diagnostics) > 0 {
		output.Diagnostics = issuesFromValidation(ponyx.NewValidationResult(src, result.Root, result.Diagnostics))
	}
	return output
}

// moduleStatements lists the module's statements. Modules of other
// embeddings are printed whole.
func moduleStatements(mod any) []string {
	if sm, ok := mod.(*ponyx.ScriptModule); ok {
		stmts := make([]string, len(sm.Statements))
		for i, s := range sm.Statements {
			stmts[i] = s.String()
		}
		return stmts
	}
	if text := fmt.Sprint(mod); text != "" {
		return []string{text}
	}
	return nil
}

func outlineNodes(src *ponyx.Source, nodes []ponyx.Node) []*outlineNode {
	out := make([]*outlineNode, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, outlineOf(src, n))
	}
	return out
}

func newOutlineNode(src *ponyx.Source, typ, label string, span ponyx.Span) *outlineNode {
	pos := src.Position(span.Start)
	return &outlineNode{
		Type:   typ,
		Label:  label,
		Line:   pos.Line,
		Column: pos.Column,
		Start:  span.Start,
		End:    span.End,
	}
}

// outlineOf describes n. Block branches become Branch entries so that the
// arms of an if or await block stay apart.
func outlineOf(src *ponyx.Source, n ponyx.Node) *outlineNode {
	o := newOutlineNode(src, n.NodeType().String(), nodeLabel(n), n.Span())

	switch n := n.(type) {
	case *ponyx.IfBlock:
		for _, b := range n.Branches {
			label := b.Kind.String()
			if b.Kind != ponyx.BranchElse {
				label += " " + b.Cond.String()
			}
			branch := newOutlineNode(src, OutlineTypeBranch, label, b.Span())
			branch.Children = outlineNodes(src, b.Children)
			o.Children = append(o.Children, branch)
		}
	case *ponyx.AwaitBlock:
		for _, b := range n.Branches {
			label := b.Kind.String()
			if b.Binding != nil {
				label += " " + b.Binding.String()
			}
			branch := newOutlineNode(src, OutlineTypeBranch, label, b.Span())
			branch.Children = outlineNodes(src, b.Children)
			o.Children = append(o.Children, branch)
		}
	case *ponyx.ForBlock:
		o.Children = outlineNodes(src, n.Children)
		if n.HasEmpty {
			span := n.Span()
			if len(n.Empty) > 0 {
				span = n.Empty[0].Span()
			}
			empty := newOutlineNode(src, OutlineTypeBranch, OutlineLabelEmpty, span)
			empty.Children = outlineNodes(src, n.Empty)
			o.Children = append(o.Children, empty)
		}
	default:
		o.Children = outlineNodes(src, ponyx.Children(n))
	}
	return o
}

func nodeLabel(n ponyx.Node) string {
	switch n := n.(type) {
	case *ponyx.Text:
		return strconv.Quote(n.Content)
	case *ponyx.Comment:
		return strconv.Quote(n.Content)
	case *ponyx.Entity:
		return "&" + n.Name + "; " + strconv.Quote(n.Value)
	case *ponyx.Mustache:
		return n.Expr.Value.String()
	case *ponyx.LetStatement:
		return n.Decl.String()
	case *ponyx.ConstStatement:
		return n.Decl.String()
	case *ponyx.DebugStatement:
		return ponyx.StatementDebug + " " + n.Expr.String()
	case *ponyx.IfBlock:
		return ponyx.BlockIf
	case *ponyx.ForBlock:
		label := ponyx.BlockFor + " " + n.Binding.String() + " in " + n.Iter.String()
		if n.Key != nil {
			label += " by " + n.Key.String()
		}
		return label
	case *ponyx.AwaitBlock:
		return ponyx.BlockAwait + " " + n.Expr.String()
	case *ponyx.KeyBlock:
		return ponyx.BlockKey + " " + n.Expr.String()
	case *ponyx.Tag:
		parts := []string{n.Name.String()}
		for _, a := range n.Attributes {
			parts = append(parts, a.String())
		}
		if n.SelfClosing {
			parts = append(parts, "/")
		}
		return strings.Join(parts, " ")
	}
	return ""
}

func writeParseText(w io.Writer, output *parseOutput) {
	if len(output.Module) > 0 {
		fmt.Fprintln(w, ParseTextModuleHeader)
		for _, stmt := range output.Module {
			fmt.Fprintf(w, ParseTextModuleFormat+FmtNewline, stmt)
		}
	}

	fmt.Fprintf(w, ParseTextNodesHeader+FmtNewline, output.NodeCount)
	writeOutline(w, output.Nodes, 1)

	for _, d := range output.Diagnostics {
		fmt.Fprintf(w, CheckTextIssueFormat+FmtNewline, output.Source, d.Line, d.Column, d.Severity, d.Code, d.Message)
	}
}

func writeOutline(w io.Writer, nodes []*outlineNode, depth int) {
	indent := strings.Repeat(ParseTextIndent, depth)
	for _, n := range nodes {
		fmt.Fprintf(w, ParseTextNodeFormat+FmtNewline, indent, n.Type, n.Label, n.Line, n.Column)
		writeOutline(w, n.Children, depth+1)
	}
}
