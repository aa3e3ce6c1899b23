package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/avpony/ponyx"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// watchConfig holds parsed watch command configuration
type watchConfig struct {
	files      []string
	configPath string
	strict     bool
	noColor    bool
	verbose    bool
}

func runWatch(args []string, stdout, stderr io.Writer) int {
	cfg, err := parseWatchFlags(args)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgInvalidArguments, err)
		return ExitCodeUsageError
	}

	logger := newLogger(cfg.verbose, stderr)
	defer func() { _ = logger.Sync() }()

	engine, err := newEngine(cfg.configPath, cfg.strict, logger)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgEngineFailed, err)
		return ExitCodeError
	}
	defer closeEngine(engine)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := watchFiles(ctx, engine, cfg, stdout, logger); err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgWatchFailed, err)
		return ExitCodeError
	}
	return ExitCodeSuccess
}

func parseWatchFlags(args []string) (*watchConfig, error) {
	fs := flag.NewFlagSet(CmdNameWatch, flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	cfg := &watchConfig{}

	fs.StringVar(&cfg.configPath, FlagConfig, "", "")
	fs.StringVar(&cfg.configPath, FlagConfigShort, "", "")
	fs.BoolVar(&cfg.strict, FlagStrictMode, false, "")
	fs.BoolVar(&cfg.noColor, FlagNoColor, false, "")
	fs.BoolVar(&cfg.verbose, FlagVerbose, false, "")
	fs.BoolVar(&cfg.verbose, FlagVerboseShort, false, "")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg.files = fs.Args()
	if len(cfg.files) == 0 {
		return nil, errors.New(ErrMsgNoWatchFiles)
	}

	return cfg, nil
}

// watchFiles checks every file once, then again on each write until ctx
// is done. The parent directories are watched so that editors replacing
// a file by rename are still seen.
func watchFiles(ctx context.Context, engine *ponyx.Engine, cfg *watchConfig, stdout io.Writer, logger *zap.Logger) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	watched := make(map[string]bool, len(cfg.files))
	dirs := make(map[string]bool)
	for _, file := range cfg.files {
		abs, err := filepath.Abs(file)
		if err != nil {
			return err
		}
		if _, err := os.Stat(abs); err != nil {
			return err
		}
		watched[abs] = true
		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}
		if err := watcher.Add(dir); err != nil {
			return err
		}
		dirs[dir] = true
	}

	report := newTextReport(stdout, cfg.noColor)
	for _, file := range cfg.files {
		recheck(ctx, engine, report, file, logger)
	}

	logger.Info(LogMsgWatchStart, zap.Int(LogFieldCount, len(watched)))
	fmt.Fprintf(stdout, WatchTextStart+FmtNewline, len(watched))

	for {
		select {
		case <-ctx.Done():
			logger.Info(LogMsgWatchStop)
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !watched[filepath.Clean(event.Name)] {
				continue
			}
			logger.Debug(LogMsgWatchEvent,
				zap.String(LogFieldFile, event.Name),
				zap.String(LogFieldOperation, event.Op.String()))
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			fmt.Fprintf(stdout, WatchTextChanged+FmtNewline, time.Now().Format(WatchTimeFormat), event.Name)
			recheck(ctx, engine, report, event.Name, logger)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn(LogMsgWatchError, zap.Error(err))
		}
	}
}

// recheck reports the issues of one file. Read and parse failures are
// logged and the watch goes on.
func recheck(ctx context.Context, engine *ponyx.Engine, report *textReport, file string, logger *zap.Logger) {
	data, err := os.ReadFile(file)
	if err != nil {
		logger.Warn(ErrMsgReadFileFailed, zap.String(LogFieldFile, file), zap.Error(err))
		return
	}
	src, issues, err := checkSource(ctx, engine, ponyx.SourceID(file), string(data))
	if err != nil {
		logger.Warn(ErrMsgParseFailed, zap.String(LogFieldFile, file), zap.Error(err))
		return
	}
	report.write(src, issues)
}
