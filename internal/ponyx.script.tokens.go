package internal

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// ScriptTokenType represents the type of a PonyScript token
type ScriptTokenType string

// PonyScript token type constants
const (
	ScriptTokenIdentifier ScriptTokenType = "IDENT"
	ScriptTokenString     ScriptTokenType = "STRING"
	ScriptTokenNumber     ScriptTokenType = "NUMBER"
	ScriptTokenPunct      ScriptTokenType = "PUNCT"
	ScriptTokenInvalid    ScriptTokenType = "INVALID"
	ScriptTokenEOF        ScriptTokenType = "EOF"
)

// PonyScript punctuators. Longer spellings come first so that the
// tokenizer always takes the longest match.
const (
	ScriptOpStrictEq    = "==="
	ScriptOpStrictNeq   = "!=="
	ScriptOpEllipsis    = "..."
	ScriptOpArrow       = "=>"
	ScriptOpEq          = "=="
	ScriptOpNeq         = "!="
	ScriptOpLte         = "<="
	ScriptOpGte         = ">="
	ScriptOpAnd         = "&&"
	ScriptOpOr          = "||"
	ScriptOpNullish     = "??"
	ScriptOpOptional    = "?."
	ScriptOpLt          = "<"
	ScriptOpGt          = ">"
	ScriptOpNot         = "!"
	ScriptOpPlus        = "+"
	ScriptOpMinus       = "-"
	ScriptOpStar        = "*"
	ScriptOpSlash       = "/"
	ScriptOpPercent     = "%"
	ScriptOpQuestion    = "?"
	ScriptOpColon       = ":"
	ScriptOpAssign      = "="
	ScriptOpDot         = "."
	ScriptOpComma       = ","
	ScriptOpSemicolon   = ";"
	ScriptOpLParen      = "("
	ScriptOpRParen      = ")"
	ScriptOpLBracket    = "["
	ScriptOpRBracket    = "]"
	ScriptOpLBrace      = "{"
	ScriptOpRBrace      = "}"
	ScriptOpPipe        = "|"
	ScriptOpAmpersand   = "&"
	ScriptCommentLine   = "//"
	ScriptCommentOpen   = "/*"
	ScriptCommentClose  = "*/"
	ScriptExponentLower = 'e'
	ScriptExponentUpper = 'E'
)

var scriptPunctuators = []string{
	ScriptOpStrictEq, ScriptOpStrictNeq, ScriptOpEllipsis,
	ScriptOpArrow, ScriptOpEq, ScriptOpNeq, ScriptOpLte, ScriptOpGte,
	ScriptOpAnd, ScriptOpOr, ScriptOpNullish, ScriptOpOptional,
	ScriptOpLt, ScriptOpGt, ScriptOpNot, ScriptOpPlus, ScriptOpMinus,
	ScriptOpStar, ScriptOpSlash, ScriptOpPercent, ScriptOpQuestion,
	ScriptOpColon, ScriptOpAssign, ScriptOpDot, ScriptOpComma,
	ScriptOpSemicolon, ScriptOpLParen, ScriptOpRParen, ScriptOpLBracket,
	ScriptOpRBracket, ScriptOpLBrace, ScriptOpRBrace, ScriptOpPipe,
	ScriptOpAmpersand,
}

// PonyScript keywords
const (
	ScriptKeywordTrue      = "true"
	ScriptKeywordFalse     = "false"
	ScriptKeywordNull      = "null"
	ScriptKeywordUndefined = "undefined"
	ScriptKeywordImport    = "import"
	ScriptKeywordExport    = "export"
	ScriptKeywordFrom      = "from"
	ScriptKeywordAs        = "as"
	ScriptKeywordLet       = WordLet
	ScriptKeywordConst     = WordConst
	ScriptKeywordTypeof    = "typeof"
)

// ScriptToken is one lexeme of PonyScript. Pos and End are byte offsets
// relative to the tokenizer input.
type ScriptToken struct {
	Type    ScriptTokenType
	Value   string
	Pos     int
	End     int
	Literal any // float64 for numbers, string for strings
}

// String returns the string representation of the token
func (t ScriptToken) String() string {
	if t.Value != "" {
		return fmt.Sprintf("%s(%s)", t.Type, t.Value)
	}
	return string(t.Type)
}

// Is reports whether t is the punctuator p
func (t ScriptToken) Is(p string) bool {
	return t.Type == ScriptTokenPunct && t.Value == p
}

// IsWord reports whether t is the identifier-like word w
func (t ScriptToken) IsWord(w string) bool {
	return t.Type == ScriptTokenIdentifier && t.Value == w
}

// ScriptTokenizer produces tokens on demand. It never reads past the token
// the parser asks for, so an embedding host can stop at any point.
type ScriptTokenizer struct {
	input string
	pos   int
}

// NewScriptTokenizer creates a tokenizer over input
func NewScriptTokenizer(input string) *ScriptTokenizer {
	return &ScriptTokenizer{input: input}
}

// Pos returns the current byte offset
func (t *ScriptTokenizer) Pos() int {
	return t.pos
}

// Reset moves the tokenizer to an absolute offset
func (t *ScriptTokenizer) Reset(pos int) {
	t.pos = pos
}

// Input returns the tokenizer input
func (t *ScriptTokenizer) Input() string {
	return t.input
}

// Next reads the next token. Unterminated strings and comments are reported
// as errors; unknown characters become INVALID tokens.
func (t *ScriptTokenizer) Next() (ScriptToken, error) {
	if err := t.skipTrivia(); err != nil {
		return ScriptToken{}, err
	}

	if t.pos >= len(t.input) {
		return ScriptToken{Type: ScriptTokenEOF, Pos: t.pos, End: t.pos}, nil
	}

	start := t.pos
	r, w := utf8.DecodeRuneInString(t.input[t.pos:])

	switch {
	case r == CharDoubleQuote || r == CharSingleQuote:
		return t.readString(r)
	case IsDigit(r) || (r == CharDot && IsDigit(t.runeAt(t.pos+1))):
		return t.readNumber()
	case IsXIDStart(r) || r == CharUnderscore || r == '$':
		return t.readIdentifier()
	}

	rest := t.input[t.pos:]
	for _, p := range scriptPunctuators {
		if strings.HasPrefix(rest, p) {
			// "?." followed by a digit is a conditional, not optional chaining
			if p == ScriptOpOptional && IsDigit(t.runeAt(t.pos+len(p))) {
				continue
			}
			t.pos += len(p)
			return ScriptToken{Type: ScriptTokenPunct, Value: p, Pos: start, End: t.pos}, nil
		}
	}

	t.pos += w
	return ScriptToken{Type: ScriptTokenInvalid, Value: string(r), Pos: start, End: t.pos}, nil
}

// Peek reads the next token without consuming it
func (t *ScriptTokenizer) Peek() (ScriptToken, error) {
	saved := t.pos
	tok, err := t.Next()
	t.pos = saved
	return tok, err
}

func (t *ScriptTokenizer) runeAt(pos int) rune {
	if pos >= len(t.input) {
		return -1
	}
	r, _ := utf8.DecodeRuneInString(t.input[pos:])
	return r
}

// skipTrivia skips whitespace and comments
func (t *ScriptTokenizer) skipTrivia() error {
	for t.pos < len(t.input) {
		r, w := utf8.DecodeRuneInString(t.input[t.pos:])
		if IsWhitespace(r) {
			t.pos += w
			continue
		}
		rest := t.input[t.pos:]
		if strings.HasPrefix(rest, ScriptCommentLine) {
			end := strings.IndexByte(rest, CharNewline)
			if end < 0 {
				t.pos = len(t.input)
			} else {
				t.pos += end + 1
			}
			continue
		}
		if strings.HasPrefix(rest, ScriptCommentOpen) {
			end := strings.Index(rest[len(ScriptCommentOpen):], ScriptCommentClose)
			if end < 0 {
				return NewScriptSyntaxError(ErrMsgScriptUnterminatedComment, t.pos, len(t.input))
			}
			t.pos += len(ScriptCommentOpen) + end + len(ScriptCommentClose)
			continue
		}
		break
	}
	return nil
}

// readString reads a single or double quoted string literal
func (t *ScriptTokenizer) readString(quote rune) (ScriptToken, error) {
	start := t.pos
	t.pos++ // opening quote

	var sb strings.Builder
	for t.pos < len(t.input) {
		ch := t.input[t.pos]
		if rune(ch) == quote {
			t.pos++
			value := sb.String()
			return ScriptToken{Type: ScriptTokenString, Value: value, Pos: start, End: t.pos, Literal: value}, nil
		}
		if ch == CharNewline {
			break
		}
		if ch == CharBackslash && t.pos+1 < len(t.input) {
			t.pos++
			escaped := t.input[t.pos]
			switch escaped {
			case 'n':
				sb.WriteByte(CharNewline)
			case 't':
				sb.WriteByte(CharTab)
			case 'r':
				sb.WriteByte(CharReturn)
			case '0':
				sb.WriteByte(CharNull)
			default:
				sb.WriteByte(escaped)
			}
			t.pos++
			continue
		}
		sb.WriteByte(ch)
		t.pos++
	}

	return ScriptToken{}, NewScriptSyntaxError(ErrMsgScriptUnterminatedString, start, t.pos)
}

// readNumber reads a decimal literal with optional fraction and exponent
func (t *ScriptTokenizer) readNumber() (ScriptToken, error) {
	start := t.pos
	digits := func() {
		for t.pos < len(t.input) && (IsDigit(rune(t.input[t.pos])) || t.input[t.pos] == CharUnderscore) {
			t.pos++
		}
	}

	digits()
	if t.pos < len(t.input) && t.input[t.pos] == CharDot && IsDigit(t.runeAt(t.pos+1)) {
		t.pos++
		digits()
	}
	if t.pos < len(t.input) && (t.input[t.pos] == ScriptExponentLower || t.input[t.pos] == ScriptExponentUpper) {
		save := t.pos
		t.pos++
		if t.pos < len(t.input) && (t.input[t.pos] == '+' || t.input[t.pos] == '-') {
			t.pos++
		}
		if IsDigit(t.runeAt(t.pos)) {
			digits()
		} else {
			t.pos = save
		}
	}

	raw := t.input[start:t.pos]
	value, err := strconv.ParseFloat(strings.ReplaceAll(raw, "_", ""), 64)
	if err != nil {
		return ScriptToken{}, NewScriptSyntaxError(ErrMsgScriptInvalidNumber, start, t.pos)
	}

	return ScriptToken{Type: ScriptTokenNumber, Value: raw, Pos: start, End: t.pos, Literal: value}, nil
}

// readIdentifier reads an identifier or keyword
func (t *ScriptTokenizer) readIdentifier() (ScriptToken, error) {
	start := t.pos
	for t.pos < len(t.input) {
		r, w := utf8.DecodeRuneInString(t.input[t.pos:])
		if !IsXIDContinue(r) && r != '$' {
			break
		}
		t.pos += w
	}
	return ScriptToken{Type: ScriptTokenIdentifier, Value: t.input[start:t.pos], Pos: start, End: t.pos}, nil
}

// ScriptSyntaxError is an error of the PonyScript grammar. Start and End are
// byte offsets relative to the text handed to the script parser.
type ScriptSyntaxError struct {
	Message string
	Start   int
	End     int
}

// NewScriptSyntaxError creates a new script syntax error
func NewScriptSyntaxError(message string, start, end int) *ScriptSyntaxError {
	if end < start {
		end = start
	}
	return &ScriptSyntaxError{Message: message, Start: start, End: end}
}

// Error implements the error interface
func (e *ScriptSyntaxError) Error() string {
	return fmt.Sprintf("%s at position %d", e.Message, e.Start)
}

// PonyScript error messages
const (
	ErrMsgScriptUnterminatedString  = "unterminated string literal"
	ErrMsgScriptUnterminatedComment = "unterminated block comment"
	ErrMsgScriptInvalidNumber       = "invalid number literal"
	ErrMsgScriptUnexpectedToken     = "unexpected token"
	ErrMsgScriptUnexpectedEOF       = "unexpected end of input"
	ErrMsgScriptExpectedExpression  = "expression expected"
	ErrMsgScriptExpectedIdentifier  = "identifier expected"
	ErrMsgScriptExpectedRParen      = "')' expected"
	ErrMsgScriptExpectedRBracket    = "']' expected"
	ErrMsgScriptExpectedRBrace      = "'}' expected"
	ErrMsgScriptExpectedColon       = "':' expected"
	ErrMsgScriptExpectedString      = "module specifier expected"
	ErrMsgScriptExpectedFrom        = "'from' expected"
	ErrMsgScriptExpectedInit        = "const declarations must be initialized"
	ErrMsgScriptExpectedDeclaration = "declaration expected"
	ErrMsgScriptExpectedPattern     = "binding pattern expected"
)
