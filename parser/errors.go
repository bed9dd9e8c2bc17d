package parser

import (
	"fmt"

	"nanocc/diag"
	"nanocc/token"
)

// ParseError is raised for a malformed construct: a missing expected
// token, an invalid type specifier combination, a reference to an
// undeclared name, or a member access on something that isn't a struct
// or union.
type ParseError struct {
	Token   *token.Token
	Message string
}

func (e *ParseError) Error() string {
	return diag.Format(e.Token.File, e.Token.Line, e.Token.Column, diag.Line(e.Token.Src, e.Token.Line), e.Message)
}

func errorf(tok *token.Token, format string, args ...any) *ParseError {
	return &ParseError{Token: tok, Message: fmt.Sprintf(format, args...)}
}
