package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/avpony/ponyx"
)

// checkConfig holds parsed check command configuration
type checkConfig struct {
	filePath   string
	format     string
	configPath string
	strict     bool
	noColor    bool
	verbose    bool
}

func runCheck(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg, err := parseCheckFlags(args)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgInvalidArguments, err)
		return ExitCodeUsageError
	}

	source, err := readInput(cfg.filePath, stdin)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgReadFileFailed, err)
		return ExitCodeInputError
	}

	engine, err := newEngine(cfg.configPath, cfg.strict, newLogger(cfg.verbose, stderr))
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgEngineFailed, err)
		return ExitCodeError
	}
	defer closeEngine(engine)

	id := inputID(cfg.filePath)
	src, issues, err := checkSource(context.Background(), engine, id, string(source))
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgParseFailed, err)
		return ExitCodeError
	}

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

func parseCheckFlags(args []string) (*checkConfig, error) {
	fs := flag.NewFlagSet(CmdNameCheck, flag.ContinueOnError)
	fs.SetOutput(io.Discard) // Suppress default error messages

	cfg := &checkConfig{}

	fs.StringVar(&cfg.filePath, FlagFile, "", "")
	fs.StringVar(&cfg.filePath, FlagFileShort, "", "")
	fs.StringVar(&cfg.format, FlagFormat, FlagDefaultFormat, "")
	fs.StringVar(&cfg.format, FlagFormatShort, FlagDefaultFormat, "")
	fs.StringVar(&cfg.configPath, FlagConfig, "", "")
	fs.StringVar(&cfg.configPath, FlagConfigShort, "", "")
	fs.BoolVar(&cfg.strict, FlagStrictMode, false, "")
	fs.BoolVar(&cfg.noColor, FlagNoColor, false, "")
	fs.BoolVar(&cfg.verbose, FlagVerbose, false, "")
	fs.BoolVar(&cfg.verbose, FlagVerboseShort, false, "")

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

// checkSource validates text and returns its issues. The engine's
// ignore, severity and strict policy is already applied.
func checkSource(ctx context.Context, engine *ponyx.Engine, id ponyx.SourceID, text string) (*ponyx.Source, []reportIssue, error) {
	result, err := engine.Validate(ctx, id, text)
	if err != nil {
		return nil, nil, err
	}
	return ponyx.NewSource(id, text), issuesFromValidation(result), nil
}

func exitCodeFor(issues []reportIssue) int {
	if errs, _ := countIssues(issues); errs > 0 {
		return ExitCodeValidationError
	}
	return ExitCodeSuccess
}
