package typecheck

import (
	"nanocc/diag"
	"nanocc/token"
)

// TypeError is raised when an operand combination or dereference target
// is semantically invalid even though it parsed cleanly — an operator
// applied to incompatible operand shapes, or a dereference of something
// that isn't a pointer.
type TypeError struct {
	Token   *token.Token
	Message string
}

func (e *TypeError) Error() string {
	return diag.Format(e.Token.File, e.Token.Line, e.Token.Column, diag.Line(e.Token.Src, e.Token.Line), e.Message)
}
