package internal

// Character constants
const (
	CharOpenBrace    = '{'
	CharCloseBrace   = '}'
	CharOpenAngle    = '<'
	CharCloseAngle   = '>'
	CharAmpersand    = '&'
	CharHash         = '#'
	CharColon        = ':'
	CharSlash        = '/'
	CharAt           = '@'
	CharDot          = '.'
	CharComma        = ','
	CharSemicolon    = ';'
	CharEquals       = '='
	CharMinus        = '-'
	CharUnderscore   = '_'
	CharBacktick     = '`'
	CharDoubleQuote  = '"'
	CharSingleQuote  = '\''
	CharBackslash    = '\\'
	CharOpenParen    = '('
	CharCloseParen   = ')'
	CharOpenBracket  = '['
	CharCloseBracket = ']'
	CharNewline      = '\n'
	CharReturn       = '\r'
	CharTab          = '\t'
	CharNull         = 0
	CharLowerX       = 'x'
	CharUpperX       = 'X'
	CharLowerU       = 'u'
)

// Syntax and operator punctuation alphabets. The two sets are disjoint.
const (
	SyntaxPunctuation   = ",:;.="
	OperatorPunctuation = "!$%^&*?/#~|@<>-+"
)

// Delimiter strings used by the node grammar
const (
	StrCommentOpen   = "<!--"
	StrCommentClose  = "-->"
	StrCloseTagOpen  = "</"
	StrSelfClose     = "/>"
	StrBlockOpen     = "{#"
	StrBlockLeaf     = "{:"
	StrBlockClose    = "{/"
	StrStatementOpen = "{@"
	StrEntityNumeric = "&#"
	StrFence         = "---"
)

// Keywords of the template language
const (
	KeywordIf    = "if"
	KeywordElse  = "else"
	KeywordAwait = "await"
	KeywordThen  = "then"
	KeywordMatch = "match"
	KeywordCase  = "case"
	KeywordFor   = "for"
	KeywordIn    = "in"
	KeywordKey   = "key"
	KeywordDebug = "debug"
	KeywordTrue  = "true"
	KeywordFalse = "false"
)

// Words that are recognised inside block headers but are not reserved
const (
	WordCatch = "catch"
	WordBy    = "by"
	WordLet   = "let"
	WordConst = "const"
)

// Keywords lists every reserved word. Sorted for binary search.
var Keywords = []string{
	KeywordAwait,
	KeywordCase,
	KeywordDebug,
	KeywordElse,
	KeywordFalse,
	KeywordFor,
	KeywordIf,
	KeywordIn,
	KeywordKey,
	KeywordMatch,
	KeywordThen,
	KeywordTrue,
}

// BlockKeywords are the words that may follow "{#" or "{/".
var BlockKeywords = []string{
	KeywordIf,
	KeywordFor,
	KeywordAwait,
	KeywordKey,
	KeywordMatch,
}

// Numeric literal limits
const (
	MaxUnicodeEscapeDigits = 6
	MaxAsciiEscapeDigits   = 2
	MaxASCII               = 0x7F
	MaxRuneValue           = 0x10FFFF
	SurrogateMin           = 0xD800
	SurrogateMax           = 0xDFFF
)

// Suggestion tuning
const (
	DefaultMaxSuggestions    = 3
	SuggestionMinSimilarity  = 0.5
	SuggestionMaxCandidates  = 4096
	SuggestionPrefixFallback = 2
)
