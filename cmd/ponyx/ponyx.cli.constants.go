package main

// Command names
const (
	CmdNameCheck   = "check"
	CmdNameParse   = "parse"
	CmdNameLint    = "lint"
	CmdNameWatch   = "watch"
	CmdNameVersion = "version"
	CmdNameHelp    = "help"
)

// Flag names - long form
const (
	FlagFile       = "file"
	FlagFormat     = "format"
	FlagStrictMode = "strict"
	FlagNoColor    = "no-color"
	FlagConfig     = "config"
	FlagNodes      = "nodes"
	FlagRules      = "rules"
	FlagIgnore     = "ignore"
	FlagVerbose    = "verbose"
)

// Flag names - short form
const (
	FlagFileShort    = "f"
	FlagFormatShort  = "F"
	FlagConfigShort  = "c"
	FlagRulesShort   = "r"
	FlagIgnoreShort  = "i"
	FlagVerboseShort = "v"
)

// Flag default values
const (
	FlagDefaultFormat = "text"
)

// Output formats
const (
	OutputFormatText = "text"
	OutputFormatJSON = "json"
	OutputFormatYAML = "yaml"
)

// Exit codes
const (
	ExitCodeSuccess         = 0
	ExitCodeError           = 1
	ExitCodeUsageError      = 2
	ExitCodeValidationError = 3
	ExitCodeInputError      = 4
)

// Input source indicators
const (
	InputSourceStdin = "-"
	StdinSourceID    = "<stdin>"
)

// Error messages - ALL must be constants
const (
	ErrMsgUnknownCommand    = "unknown command"
	ErrMsgMissingFile       = "input file required"
	ErrMsgInvalidArguments  = "invalid arguments"
	ErrMsgInvalidFormat     = "invalid output format"
	ErrMsgReadFileFailed    = "failed to read file"
	ErrMsgEngineFailed      = "failed to create engine"
	ErrMsgParseFailed       = "parse failed"
	ErrMsgEncodeFailed      = "failed to encode output"
	ErrMsgNoWatchFiles      = "at least one file to watch is required"
	ErrMsgWatchFailed       = "failed to watch files"
	ErrMsgInvalidRuleFilter = "invalid rule filter"
)

// Help text templates
const (
	HelpMainUsage = `ponyx - PonyX template frontend CLI

Usage:
    ponyx <command> [options]

Commands:
    check       Report diagnostics for a template
    parse       Print the syntax tree outline of a template
    lint        Check a template with style rules and code filters
    watch       Re-check templates whenever they change
    version     Show version information
    help        Show help for a command

Use "ponyx help <command>" for more information about a command.`

	HelpCheckUsage = `Report diagnostics for a template

Usage:
    ponyx check [options]

Options:
    -f, --file <file>       Template file (use "-" for stdin)
    -F, --format <format>   Output format: text, json (default: text)
    -c, --config <file>     ponyx.yaml or ponyx.toml (default: ./ponyx.yaml, ./ponyx.toml)
    --strict                Treat warnings as errors
    --no-color              Disable coloured output
    -v, --verbose           Log parser activity to stderr

Examples:
    ponyx check -f inbox.pony
    ponyx check -f inbox.pony --strict -F json
    cat inbox.pony | ponyx check -f -`

	HelpParseUsage = `Print the syntax tree outline of a template

Usage:
    ponyx parse [options]

Options:
    -f, --file <file>       Template file (use "-" for stdin)
    -F, --format <format>   Output format: text, json, yaml (default: text)
    -c, --config <file>     ponyx.yaml or ponyx.toml
    --nodes                 Parse markup only, without a module and fence

Examples:
    ponyx parse -f inbox.pony
    ponyx parse -f card.pony -F yaml
    echo '<p>{name}</p>' | ponyx parse --nodes -f -`

	HelpLintUsage = `Check a template with style rules and code filters

Usage:
    ponyx lint [options]

Options:
    -f, --file <file>       Template file (use "-" for stdin)
    -F, --format <format>   Output format: text, json (default: text)
    -r, --rules <codes>     Only report these codes, comma separated
    -i, --ignore <codes>    Never report these codes, comma separated
    -c, --config <file>     ponyx.yaml or ponyx.toml
    --strict                Treat warnings as errors
    --no-color              Disable coloured output

Rules (besides every diagnostic code):
    L001    {@debug} statement left in the template
    L002    {#for} block without a "by" key
    L003    Attribute given more than once on a tag

Examples:
    ponyx lint -f inbox.pony
    ponyx lint -f inbox.pony --rules S000,X100
    ponyx lint -f inbox.pony --ignore X000,L002`

	HelpWatchUsage = `Re-check templates whenever they change

Usage:
    ponyx watch [options] <file>...

Options:
    -c, --config <file>     ponyx.yaml or ponyx.toml
    --strict                Treat warnings as errors
    --no-color              Disable coloured output
    -v, --verbose           Log watcher activity to stderr

Examples:
    ponyx watch inbox.pony card.pony`

	HelpVersionUsage = `Show version information

Usage:
    ponyx version [options]

Options:
    -F, --format <format>   Output format: text, json (default: text)`

	HelpHelpUsage = `Show help for a command

Usage:
    ponyx help [command]

Commands:
    check       Show help for check command
    parse       Show help for parse command
    lint        Show help for lint command
    watch       Show help for watch command
    version     Show help for version command`
)

// Version output format templates
const (
	VersionTextTemplate = "ponyx version %s\nCommit: %s\nBranch: %s\nBuilt: %s\nGo: %s"
	VersionUnknown      = "unknown"
	VersionsFileName    = "versions.yaml"
)

// Check output format templates
const (
	CheckTextSuccess      = "%s: no issues"
	CheckTextIssueFormat  = "%s:%d:%d: %s[%s]: %s"
	CheckTextSourceFormat = "    %s"
	CheckTextCaretFormat  = "    %s%s"
	CheckTextNoteFormat   = "    = %s"
	CheckTextSummary      = "%d error(s), %d warning(s)"
	CaretRune             = "^"
)

// Parse output format templates
const (
	ParseTextModuleHeader = "module:"
	ParseTextModuleFormat = "  %s"
	ParseTextNodesHeader  = "nodes: %d"
	ParseTextNodeFormat   = "%s%s %s @ %d:%d"
	ParseTextIndent       = "  "
	OutlineTypeBranch     = "Branch"
	OutlineLabelEmpty     = "else"
)

// Lint rule IDs
const (
	LintRuleDebugStatement  = "L001"
	LintRuleForWithoutKey   = "L002"
	LintRuleDuplicateAttr   = "L003"
	LintMsgDebugStatement   = "{@debug} statement left in the template"
	LintMsgForWithoutKey    = "{#for} block has no \"by\" key; items are tracked by position"
	LintMsgDuplicateAttrFmt = "attribute %q is given more than once"
)

// Watch output
const (
	WatchTextStart   = "watching %d file(s), press Ctrl+C to stop"
	WatchTextChanged = "[%s] %s changed"
	WatchTimeFormat  = "15:04:05"
)

// Log messages for the watcher
const (
	LogMsgWatchStart  = "watch started"
	LogMsgWatchEvent  = "file event"
	LogMsgWatchError  = "watcher error"
	LogMsgWatchStop   = "watch stopped"
	LogFieldFile      = "file"
	LogFieldOperation = "op"
	LogFieldCount     = "count"
)

// Terminal colours, ANSI palette indices
const (
	ColorError   = "1"
	ColorWarning = "3"
	ColorInfo    = "6"
	ColorCaret   = "5"
	ColorFaint   = "8"
)

// Format string constants
const (
	FmtErrorWithDetail = "%s: %s\n"
	FmtErrorWithCause  = "%s: %v\n"
	FmtQuotedDetail    = "%s: %q"
	FmtNewline         = "\n"
	JSONIndent         = "  "
	YAMLIndent         = 2
	RuleSeparator      = ","
)
