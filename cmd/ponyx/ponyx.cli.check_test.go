package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/avpony/ponyx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheck_Valid(t *testing.T) {
	path := writeTestFile(t, "inbox.pony", testValidSource)

	code, stdout, stderr := runCLI([]string{CmdNameCheck, "-f", path, "--no-color"}, "")

	assert.Equal(t, ExitCodeSuccess, code, stderr)
	assert.Equal(t, path+": no issues\n", stdout)
}

func TestCheck_Warning(t *testing.T) {
	path := writeTestFile(t, "card.pony", testWarningSource)

	code, stdout, _ := runCLI([]string{CmdNameCheck, "--file", path, "--no-color"}, "")

	assert.Equal(t, ExitCodeSuccess, code)
	lines := strings.Split(strings.TrimRight(stdout, "\n"), "\n")
	require.GreaterOrEqual(t, len(lines), 4)
	assert.Equal(t, path+":2:7: warning[X000]: unknown character reference &bogus;", lines[0])
	assert.Equal(t, "    <Card>&bogus;</Card>", lines[1])
	assert.Equal(t, "          ^^^^^^^", lines[2])
	assert.Equal(t, "0 error(s), 1 warning(s)", lines[len(lines)-1])
}

func TestCheck_Strict(t *testing.T) {
	path := writeTestFile(t, "card.pony", testWarningSource)

	code, stdout, _ := runCLI([]string{CmdNameCheck, "-f", path, "--strict", "--no-color"}, "")

	assert.Equal(t, ExitCodeValidationError, code)
	assert.Contains(t, stdout, "error[X000]")
	assert.Contains(t, stdout, "1 error(s), 0 warning(s)")
}

func TestCheck_Errors(t *testing.T) {
	path := writeTestFile(t, "broken.pony", testErrorSource)

	code, stdout, _ := runCLI([]string{CmdNameCheck, "-f", path, "--no-color"}, "")

	assert.Equal(t, ExitCodeValidationError, code)
	assert.Contains(t, stdout, "error[E000]")
	assert.Contains(t, stdout, "error[S000]")
}

func TestCheck_JSON(t *testing.T) {
	path := writeTestFile(t, "card.pony", testWarningSource)

	code, stdout, _ := runCLI([]string{CmdNameCheck, "-f", path, "-F", OutputFormatJSON}, "")
	require.Equal(t, ExitCodeSuccess, code)

	var out reportOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &out))
	assert.Equal(t, path, out.Source)
	assert.True(t, out.Valid)
	assert.Equal(t, 0, out.Errors)
	assert.Equal(t, 1, out.Warnings)
	require.Len(t, out.Issues, 1)

	issue := out.Issues[0]
	assert.Equal(t, "X000", issue.Code)
	assert.Equal(t, ponyx.SeverityWarning.String(), issue.Severity)
	assert.Equal(t, 2, issue.Line)
	assert.Equal(t, 7, issue.Column)
	assert.Equal(t, 10, issue.Offset)
	assert.Equal(t, "Card", issue.Tag)
}

func TestCheck_Stdin(t *testing.T) {
	code, stdout, _ := runCLI([]string{CmdNameCheck, "-f", InputSourceStdin, "--no-color"}, testWarningSource)

	assert.Equal(t, ExitCodeSuccess, code)
	assert.True(t, strings.HasPrefix(stdout, StdinSourceID+":2:7:"))
}

func TestCheck_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "card.pony")
	config := filepath.Join(dir, "ponyx.yaml")
	require.NoError(t, os.WriteFile(source, []byte(testWarningSource), testFilePerm))

	t.Run("ignored code", func(t *testing.T) {
		require.NoError(t, os.WriteFile(config, []byte("diagnostics:\n  ignore: [X000]\n"), testFilePerm))

		code, stdout, _ := runCLI([]string{CmdNameCheck, "-f", source, "-c", config, "--no-color"}, "")
		assert.Equal(t, ExitCodeSuccess, code)
		assert.Equal(t, source+": no issues\n", stdout)
	})

	t.Run("severity override", func(t *testing.T) {
		require.NoError(t, os.WriteFile(config, []byte("diagnostics:\n  severity:\n    X000: error\n"), testFilePerm))

		code, stdout, _ := runCLI([]string{CmdNameCheck, "-f", source, "-c", config, "--no-color"}, "")
		assert.Equal(t, ExitCodeValidationError, code)
		assert.Contains(t, stdout, "error[X000]")
	})

	t.Run("invalid config", func(t *testing.T) {
		require.NoError(t, os.WriteFile(config, []byte("ext: klingon\n"), testFilePerm))

		code, _, stderr := runCLI([]string{CmdNameCheck, "-f", source, "-c", config}, "")
		assert.Equal(t, ExitCodeError, code)
		assert.Contains(t, stderr, ErrMsgEngineFailed)
	})
}

func TestCheck_Verbose(t *testing.T) {
	path := writeTestFile(t, "inbox.pony", testValidSource)

	code, _, stderr := runCLI([]string{CmdNameCheck, "-f", path, "-v"}, "")

	assert.Equal(t, ExitCodeSuccess, code)
	assert.Contains(t, stderr, ponyx.LogMsgParseStart)
}

func TestCheck_UsageErrors(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		code     int
		expected string
	}{
		{"missing file flag", []string{CmdNameCheck}, ExitCodeUsageError, ErrMsgMissingFile},
		{"yaml not supported", []string{CmdNameCheck, "-f", "x.pony", "-F", OutputFormatYAML}, ExitCodeUsageError, ErrMsgInvalidFormat},
		{"unknown flag", []string{CmdNameCheck, "--bogus"}, ExitCodeUsageError, ErrMsgInvalidArguments},
		{"file not found", []string{CmdNameCheck, "-f", filepath.Join(t.TempDir(), "nope.pony")}, ExitCodeInputError, ErrMsgReadFileFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, stderr := runCLI(tt.args, "")
			assert.Equal(t, tt.code, code)
			assert.Contains(t, stderr, tt.expected)
		})
	}
}
