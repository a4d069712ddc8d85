package lexer

// Line is an immutable lexed source line: its leading-whitespace column,
// its trimmed text, and its original 1-based line number for diagnostics.
type Line struct {
	Text   string
	Indent int
	LineNo int
}
