package ponyx

import "time"

// Defaults
const (
	DefaultMaxDepth = 256
	DefaultExtID    = ExtIDScript
)

// Embedding identifiers
const (
	ExtIDScript = "script"
	ExtIDNop    = "nop"
)

// Diagnostic codes. Expected diagnostics derive their code from the marker id.
const (
	CodeUnexpectedToken         Code = "S000"
	CodeInvalidIntPositive      Code = "S100"
	CodeInvalidIntNegative      Code = "S101"
	CodeInvalidEscapeSequence   Code = "S102"
	CodeMultipleNumericDividers Code = "S110"
	CodeDividersBadlyPlaced     Code = "S111"
	CodeInvalidUnicodeCodePoint Code = "S200"
	CodeInvalidAsciiCode        Code = "S201"
	CodeReservedIdentifier      Code = "S300"
	CodeNestingTooDeep          Code = "S900"
	CodeInvalidEntityName       Code = "X000"
	CodeSoloExprOnly            Code = "X100"
	CodeUnclosedTag             Code = "X101"
	CodeUnreachableBranch       Code = "X102"
	CodeExternalError           Code = "E000"

	expectedCodeBase = 132
	expectedCodeFmt  = "S%03d"
)

// Diagnostic messages
const (
	MsgUnexpectedToken         = "unexpected %s"
	MsgUnexpectedTokenExpected = "unexpected %s, expected %s"
	MsgEndOfInput              = "end of input"
	MsgInvalidIntPositive      = "integer literal is too large for a 32-bit signed integer"
	MsgInvalidIntNegative      = "integer literal is too small for a 32-bit signed integer"
	MsgInvalidEscapeSequence   = "invalid escape sequence"
	MsgMultipleNumericDividers = "multiple consecutive numeric separators"
	MsgDividersBadlyPlaced     = "numeric separator next to a sign, a decimal point or the literal boundary"
	MsgInvalidUnicodeCodePoint = "%#x is not a valid Unicode code point"
	MsgInvalidAsciiCode        = "%#x is outside the 7-bit ASCII range"
	MsgReservedIdentifier      = "%q is a reserved keyword and cannot be used as an identifier"
	MsgExpected                = "expected %s"
	MsgInvalidEntityName       = "unknown character reference &%s;"
	MsgSoloExprOnly            = "only a literal, name, array, map, tuple or parenthesised expression is allowed here"
	MsgUnclosedTag             = "tag <%s> is closed by </%s>"
	MsgUnreachableBranch       = "branch after {:else} can never be reached"
	MsgExternalError           = "%s: %s"
	MsgNestingTooDeep          = "nesting exceeds the maximum depth of %d"
)

// Names used in expected-token sets
const (
	ExpectedIdentifier  = "identifier"
	ExpectedExpression  = "expression"
	ExpectedNode        = "markup"
	ExpectedAttribute   = "attribute"
	ExpectedTagEnd      = "'>' or '/>'"
	ExpectedCloseBrace  = "'}'"
	ExpectedCloseParen  = "')'"
	ExpectedCloseSquare = "']'"
	ExpectedComma       = "','"
	ExpectedQuote       = "'\"'"
	ExpectedSemicolon   = "';'"
	ExpectedFence       = "'---'"
	ExpectedCommentEnd  = "'-->'"
	ExpectedStatement   = "'let', 'const' or 'debug'"
	ExpectedBlock       = "'if', 'for', 'await' or 'key'"
	ExpectedIn          = "'in'"
	ExpectedThenCatch   = "'then' or 'catch'"
	ExpectedLeaf        = "'{:else}'"
	ExpectedOperator    = "operator"
	ExpectedWhitespace  = "whitespace"
	ExpectedField       = "'.field'"
	ExpectedCloseTagFmt = "'</%s>'"
	ExpectedCloseBlkFmt = "'{/%s}'"
	FoundFmt            = "%q"
)

// Severity names
const (
	SeverityNameError   = "error"
	SeverityNameWarning = "warning"
	SeverityNameInfo    = "info"
)

// Log messages
const (
	LogMsgEngineCreated      = "engine created"
	LogMsgParseStart         = "starting parse"
	LogMsgParseEnd           = "parse complete"
	LogMsgDepthLimit         = "nesting depth limit reached"
	LogMsgExternalFailed     = "embedded parser reported an error"
	LogMsgCacheHit           = "parse cache hit"
	LogMsgCacheMiss          = "parse cache miss"
	LogMsgCacheEvict         = "parse cache eviction"
	LogMsgStorageGet         = "source fetched from storage"
	LogMsgStorageSave        = "source saved to storage"
	LogMsgStorageDelete      = "source deleted from storage"
	LogMsgStorageMigrate     = "storage migration applied"
	LogMsgStorageClose       = "storage closed"
	LogMsgConfigLoaded       = "configuration loaded"
	LogMsgValidationComplete = "validation complete"
)

// Log field keys
const (
	LogFieldSource      = "source"
	LogFieldLength      = "length"
	LogFieldNodes       = "node_count"
	LogFieldDiagnostics = "diagnostic_count"
	LogFieldErrors      = "error_count"
	LogFieldDepth       = "depth"
	LogFieldOffset      = "offset"
	LogFieldExt         = "ext"
	LogFieldName        = "name"
	LogFieldVersion     = "version"
	LogFieldDriver      = "driver"
	LogFieldPath        = "path"
	LogFieldKey         = "key"
	LogFieldDuration    = "duration"
)

// Metadata keys attached to operational errors
const (
	MetaKeyCode        = "code"
	MetaKeyLine        = "line"
	MetaKeyColumn      = "column"
	MetaKeyOffset      = "offset"
	MetaKeySource      = "source"
	MetaKeyDiagnostics = "diagnostic_count"
	MetaKeyPath        = "path"
	MetaKeyDriver      = "driver"
	MetaKeyName        = "name"
	MetaKeyVersion     = "version"
	MetaKeyValue       = "value"
	MetaKeyExt         = "ext"
)

// Cache defaults
const (
	DefaultCacheTTL        = 10 * time.Minute
	DefaultCacheMaxEntries = 512
)

// String rendering fragments
const (
	strPlaceholderFmt = "<%s>"
	strSpanFmt        = "%s[%d..%d]"
	strPositionFmt    = "line %d, column %d"
	strNone           = "none"
)

// Storage layout
const (
	storedSourceIDPrefix = "src_"
	strStoredSourceFmt   = "%s@v%d"
	fsSourceExt          = ".pony"
	fsVersionPrefix      = "v"
	fsMetaFile           = "meta.json"
	fsDirPerm            = 0o755
	fsFilePerm           = 0o644
)
