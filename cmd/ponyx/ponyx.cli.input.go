package main

import (
	"io"
	"os"

	"github.com/avpony/ponyx"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// readInput reads content from a file or stdin
func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == InputSourceStdin {
		return io.ReadAll(stdin)
	}

	return os.ReadFile(path)
}

// inputID names the input in diagnostics
func inputID(path string) ponyx.SourceID {
	if path == InputSourceStdin {
		return StdinSourceID
	}
	return ponyx.SourceID(path)
}

// newLogger returns a console logger on stderr when verbose is set
func newLogger(verbose bool, stderr io.Writer) *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	encoder := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	return zap.New(zapcore.NewCore(encoder, zapcore.AddSync(stderr), zapcore.DebugLevel))
}

// newEngine builds an engine from the configuration file at path. An empty
// path falls back to ponyx.yaml or ponyx.toml in the working directory, and
// to the defaults when neither exists.
func newEngine(path string, strict bool, logger *zap.Logger) (*ponyx.Engine, error) {
	if path == "" {
		path = ponyx.FindConfig(".")
	}

	opts := []ponyx.Option{ponyx.WithLogger(logger)}
	if path != "" {
		cfg, err := ponyx.LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfgOpts, err := cfg.Options(logger)
		if err != nil {
			return nil, err
		}
		opts = cfgOpts
	}
	if strict {
		opts = append(opts, ponyx.WithStrict(true))
	}

	return ponyx.New(opts...)
}

// closeEngine releases the storage opened from configuration
func closeEngine(engine *ponyx.Engine) {
	if storage := engine.Storage(); storage != nil {
		_ = storage.Close()
	}
}
