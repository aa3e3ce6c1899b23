package internal

// Note and hint texts attached to diagnostics
const (
	NoteDidYouMean          = "did you mean "
	HintReservedIdentifier  = "hint: keywords cannot be used as names; rename it or add a suffix such as '_'"
	HintUnclosedTag         = "hint: close the tag with the same dotted name it was opened with"
	HintUnreachableBranch   = "hint: move {:else} to the end of the block"
	HintSoloExprOnly        = "hint: wrap the expression in parentheses"
	HintNumericDividers     = "hint: '_' separators may only appear between digits"
	HintInvalidAsciiCode    = "hint: use \\u{...} for characters above \\x7F"
	HintEntityNumeric       = "hint: numeric references must name a Unicode scalar value"
	HintNestingTooDeep      = "hint: reduce the nesting of tags, blocks or parentheses"
	HintMissingFence        = "hint: separate the module from the markup with a line holding ---"
	HintPlaceholderRequired = "hint: this position requires a value; the parser inserted a placeholder"
)

// AppendNote adds note to notes when it is not empty
func AppendNote(notes []string, note string) []string {
	if note == "" {
		return notes
	}
	return append(notes, note)
}
