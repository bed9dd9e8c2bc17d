package lexer

import "nanocc/diag"

// TokenizeError is raised when the tokenizer encounters a character it
// cannot classify into any token, or an unterminated construct such as a
// string literal that runs to end of line.
type TokenizeError struct {
	File    string
	Line    int
	Column  int
	Src     []byte
	Message string
}

func (e *TokenizeError) Error() string {
	return diag.Format(e.File, e.Line, e.Column, diag.Line(e.Src, e.Line), e.Message)
}
