// Package preprocess implements the compiler's minimal preprocessing
// pass: splicing #include trees into the token stream and expanding
// object-like #define macros in place. It is modeled closely on the
// object-macro-and-include algorithm in kiwicc's preprocess.c: a macro
// records its body as a token range, and expansion replaces a macro-name
// token with a deep copy of that range, re-linked into the surrounding
// stream.
package preprocess

import (
	"nanocc/lexer"
	"nanocc/source"
	"nanocc/token"
)

// Macro is an object-like macro: a name bound to a token sequence that
// extends from the first token after "#define IDENT" to (but not
// including) the first token that starts a new source line.
type Macro struct {
	Name string
	Body *token.Token
}

// Preprocessor expands macros and splices includes. Unlike the classic
// C implementation this core is modeled on, the macro table lives on the
// Preprocessor value rather than in a process-global — see DESIGN.md for
// why that deviation from the letter of the spec's "single global table"
// phrasing is the right call in a hosted, possibly-concurrent caller.
type Preprocessor struct {
	opener   source.Opener
	macros   map[string]*Macro
	warnings []string
}

// New creates a Preprocessor that resolves #include "..." paths via
// opener.
func New(opener source.Opener) *Preprocessor {
	return &Preprocessor{opener: opener, macros: map[string]*Macro{}}
}

// Warnings returns the non-fatal diagnostics accumulated while
// processing (currently: "extra token" notices after a directive).
func (p *Preprocessor) Warnings() []string { return p.warnings }

// Process expands directives and macros in tok, which was tokenized from
// file, and returns the resulting token stream (still terminated by
// EOF). It recurses for each #include encountered.
func (p *Preprocessor) Process(tok *token.Token, file string) (*token.Token, error) {
	head := &token.Token{}
	cur := head

	for tok != nil && tok.Kind != token.EOF {
		if tok.Kind == token.Ident {
			if body, tail, expanded := p.expandOnce(tok); expanded {
				next := tok.Next
				if body == nil {
					tok = next
					continue
				}
				tail.Next = next
				cur.Next = body
				cur = tail
				tok = next
				continue
			}
		}

		if tok.AtBOL && tok.Is("#") {
			var err error
			tok, cur, err = p.directive(tok, file, cur)
			if err != nil {
				return nil, err
			}
			continue
		}

		cur.Next = tok
		cur = tok
		tok = tok.Next
	}

	return head.Next, nil
}

// expandOnce replaces a single macro-use token with a deep copy of its
// macro's body. Per the non-recursive expansion rule, none of the copied
// body tokens are themselves scanned for further macro names by this
// call — the caller simply appends them and moves on.
func (p *Preprocessor) expandOnce(tok *token.Token) (body, tail *token.Token, expanded bool) {
	m, ok := p.macros[tok.Lexeme]
	if !ok {
		return nil, nil, false
	}
	body, tail = copyMacroBody(m.Body)
	return body, tail, true
}

// copyMacroBody deep-copies the macro body token range, which runs from
// body to (but excluding) the next token marked AtBOL. Returns the new
// head and tail; tail is nil only when body is empty.
func copyMacroBody(body *token.Token) (head, tail *token.Token) {
	dummy := &token.Token{}
	cur := dummy
	for t := body; t != nil && !t.AtBOL; t = t.Next {
		cp := *t
		cp.Next = nil
		cur.Next = &cp
		cur = cur.Next
	}
	if cur == dummy {
		return nil, nil
	}
	return dummy.Next, cur
}

// directive handles one preprocessing directive starting at the '#'
// token and returns the token to resume scanning from, along with the
// (possibly advanced) output tail.
func (p *Preprocessor) directive(hash *token.Token, file string, cur *token.Token) (*token.Token, *token.Token, error) {
	tok := hash.Next

	if tok.Is("define") {
		tok = tok.Next
		if tok.IsEOF() || tok.Kind != token.Ident {
			return nil, nil, &DirectiveError{Token: tok, Message: "expected a macro name after #define"}
		}
		name := tok.Lexeme
		body := tok.Next
		p.macros[name] = &Macro{Name: name, Body: body}
		return p.skipLine(body, false), cur, nil
	}

	if tok.Is("include") {
		return p.include(tok, file, cur)
	}

	// Null directive ("#" alone) or an unsupported directive: skip to
	// the next line. Extra content is a warning, not a fatal error.
	return p.skipLine(tok, true), cur, nil
}

func (p *Preprocessor) include(includeTok *token.Token, file string, cur *token.Token) (*token.Token, *token.Token, error) {
	pathTok := includeTok.Next
	if pathTok.IsEOF() || pathTok.Kind != token.String {
		return nil, nil, &DirectiveError{Token: pathTok, Message: "expected a string literal after #include"}
	}

	path := source.Resolve(file, string(pathTok.Contents[:len(pathTok.Contents)-1]))
	data, err := p.opener(path)
	if err != nil {
		return nil, nil, &IncludeError{Token: pathTok, Path: path, Cause: err}
	}

	included, err := lexer.New(path, data).Scan()
	if err != nil {
		return nil, nil, err
	}
	included, err = p.Process(included, path)
	if err != nil {
		return nil, nil, err
	}

	rest := p.skipLine(pathTok.Next, true)

	if included == nil || included.Kind == token.EOF {
		return rest, cur, nil
	}

	tail := included
	for tail.Next != nil && tail.Next.Kind != token.EOF {
		tail = tail.Next
	}
	tail.Next = rest
	cur.Next = included
	return rest, tail, nil
}

// skipLine advances past any tokens remaining before the next
// begin-of-line token. If warnOnExtra is set and there are such tokens,
// it records a non-fatal "extra token" warning, matching the spec's
// instruction that extraneous tokens before a newline after a directive
// are diagnosed but not fatal.
func (p *Preprocessor) skipLine(tok *token.Token, warnOnExtra bool) *token.Token {
	if tok == nil || tok.AtBOL {
		return tok
	}
	if warnOnExtra {
		p.warnings = append(p.warnings, "extra token after directive: "+tok.Lexeme+" ("+tok.File+")")
	}
	for tok != nil && !tok.AtBOL {
		tok = tok.Next
	}
	return tok
}
