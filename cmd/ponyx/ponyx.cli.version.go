package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// versionConfig holds parsed version command configuration
type versionConfig struct {
	format string
}

// versionOutput represents JSON output for version
type versionOutput struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Branch    string `json:"branch"`
	BuildTime string `json:"build_time"`
	GoVersion string `json:"go_version"`
}

// versionsYAML represents the versions.yaml file structure
type versionsYAML struct {
	Project struct {
		Name    string `yaml:"name"`
		Version string `yaml:"version"`
	} `yaml:"project"`
	Git struct {
		Commit string `yaml:"commit"`
		Branch string `yaml:"branch"`
	} `yaml:"git"`
	Build struct {
		Time      string `yaml:"time"`
		GoVersion string `yaml:"go_version"`
	} `yaml:"build"`
}

// versionSearchDirs are tried in order for versions.yaml
var versionSearchDirs = []string{".", "..", filepath.Join("..", "..")}

func runVersion(args []string, stdout, stderr io.Writer) int {
	cfg, err := parseVersionFlags(args)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgInvalidArguments, err)
		return ExitCodeUsageError
	}

	info := loadVersionInfo(versionSearchDirs)

	if cfg.format == OutputFormatJSON {
		if err := writeJSON(stdout, info); err != nil {
			fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgEncodeFailed, err)
			return ExitCodeError
		}
		return ExitCodeSuccess
	}

	fmt.Fprintf(stdout, VersionTextTemplate+FmtNewline,
		info.Version, info.Commit, info.Branch, info.BuildTime, info.GoVersion)
	return ExitCodeSuccess
}

func parseVersionFlags(args []string) (*versionConfig, error) {
	fs := flag.NewFlagSet(CmdNameVersion, flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	cfg := &versionConfig{}
	fs.StringVar(&cfg.format, FlagFormat, FlagDefaultFormat, "")
	fs.StringVar(&cfg.format, FlagFormatShort, FlagDefaultFormat, "")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if cfg.format != OutputFormatText && cfg.format != OutputFormatJSON {
		return nil, errors.New(ErrMsgInvalidFormat)
	}

	return cfg, nil
}

// loadVersionInfo reads the first readable versions.yaml in dirs. Fields
// it does not set stay unknown.
func loadVersionInfo(dirs []string) versionOutput {
	info := versionOutput{
		Version:   VersionUnknown,
		Commit:    VersionUnknown,
		Branch:    VersionUnknown,
		BuildTime: VersionUnknown,
		GoVersion: runtime.Version(),
	}

	for _, dir := range dirs {
		data, err := os.ReadFile(filepath.Join(dir, VersionsFileName))
		if err != nil {
			continue
		}

		var vy versionsYAML
		if err := yaml.Unmarshal(data, &vy); err != nil {
			continue
		}

		setIfPresent(&info.Version, vy.Project.Version)
		setIfPresent(&info.Commit, vy.Git.Commit)
		setIfPresent(&info.Branch, vy.Git.Branch)
		setIfPresent(&info.BuildTime, vy.Build.Time)
		setIfPresent(&info.GoVersion, vy.Build.GoVersion)
		break
	}

	return info
}

func setIfPresent(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}
