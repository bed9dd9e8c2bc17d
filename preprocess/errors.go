package preprocess

import (
	"nanocc/diag"
	"nanocc/token"
)

// DirectiveError is raised for a malformed #define or #include: a
// missing macro name, or a missing string literal after #include.
type DirectiveError struct {
	Token   *token.Token
	Message string
}

func (e *DirectiveError) Error() string {
	return diag.Format(e.Token.File, e.Token.Line, e.Token.Column, diag.Line(e.Token.Src, e.Token.Line), e.Message)
}

// IncludeError is raised when an #include path cannot be opened.
type IncludeError struct {
	Token *token.Token
	Path  string
	Cause error
}

func (e *IncludeError) Error() string {
	return diag.Format(e.Token.File, e.Token.Line, e.Token.Column, diag.Line(e.Token.Src, e.Token.Line), "cannot open included file \""+e.Path+"\": "+e.Cause.Error())
}

func (e *IncludeError) Unwrap() error { return e.Cause }
