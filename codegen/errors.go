package codegen

import (
	"nanocc/diag"
	"nanocc/token"
)

// CodegenError is raised when an expression is asked to produce an
// address but has none: a computed value used on the left of "=" or
// fed to "&" that isn't a variable, dereference, or member access.
type CodegenError struct {
	Token   *token.Token
	Message string
}

func (e *CodegenError) Error() string {
	return diag.Format(e.Token.File, e.Token.Line, e.Token.Column, diag.Line(e.Token.Src, e.Token.Line), e.Message)
}
