// Package parser implements the recursive-descent parser: it consumes
// the preprocessed token stream, resolves scopes, typedefs, and tags,
// and produces a typed Program. Every production is realized as a
// method taking the token to start from and returning the token to
// resume from (the "(rest, tok)" convention) rather than advancing a
// shared cursor field, so a caller never has to reason about hidden
// parser state beyond the scope stacks and the symbol tables.
package parser

import (
	"nanocc/ast"
	"nanocc/scope"
	"nanocc/token"
	"nanocc/types"
)

// Parser holds the symbol tables a compilation accumulates: the scope
// stacks, the functions and globals seen so far, and the locals of the
// function currently being parsed.
type Parser struct {
	scope     *scope.Scope
	funcs     []*ast.Function
	globals   []*ast.Var
	locals    []*ast.Var
	stringSeq int
}

// New returns a Parser ready to parse a single compilation unit.
func New() *Parser {
	return &Parser{scope: scope.New()}
}

// Parse consumes tok (the head of a preprocessed token stream) and
// returns the resulting Program.
//
// program = (typedef | global-decl | funcdef)*
func (p *Parser) Parse(tok *token.Token) (*ast.Program, error) {
	for !tok.IsEOF() {
		var err error
		switch {
		case p.isFunction(tok):
			var fn *ast.Function
			fn, tok, err = p.funcdef(tok)
			if err != nil {
				return nil, err
			}
			p.funcs = append(p.funcs, fn)
		default:
			tok, err = p.globalDecl(tok)
			if err != nil {
				return nil, err
			}
		}
	}
	return &ast.Program{Globals: p.globals, Funcs: p.funcs}, nil
}

// expect requires tok to have lexeme s and returns the following token.
func expect(tok *token.Token, s string) (*token.Token, error) {
	if !tok.Is(s) {
		return nil, errorf(tok, "expected %q", s)
	}
	return tok.Next, nil
}

// funcdef = typespec declarator "{" compound-stmt
func (p *Parser) funcdef(tok *token.Token) (*ast.Function, *token.Token, error) {
	baseTy, _, tok, err := p.typespec(tok)
	if err != nil {
		return nil, nil, err
	}
	ty, nameTok, tok, err := p.declarator(tok, baseTy)
	if err != nil {
		return nil, nil, err
	}
	fnTy, ok := ty.(*types.Function)
	if !ok {
		return nil, nil, errorf(nameTok, "expected a function declarator")
	}

	p.locals = nil
	p.scope.Enter()

	var params []*ast.Var
	for _, param := range fnTy.Params {
		v := p.newLocal(identName(param.Name), param.Type)
		params = append(params, v)
	}

	tok, err = expect(tok, "{")
	if err != nil {
		return nil, nil, err
	}
	body, tok, err := p.compoundStmt(tok)
	if err != nil {
		return nil, nil, err
	}
	p.scope.Leave()

	fn := &ast.Function{
		Name:   nameTok.Lexeme,
		Params: params,
		Locals: p.locals,
		Body:   body,
	}
	return fn, tok, nil
}

// globalDecl handles a top-level declaration that is not a function
// definition: typespec declarator ("," declarator)* ";", every
// declarator becoming a global variable. Declarations introduced via
// "typedef" at global scope are also handled here (typespec consumes
// the "typedef" keyword itself).
func (p *Parser) globalDecl(tok *token.Token) (*token.Token, error) {
	baseTy, isTypedef, tok, err := p.typespec(tok)
	if err != nil {
		return nil, err
	}

	count := 0
	for !tok.Is(";") {
		if count > 0 {
			tok, err = expect(tok, ",")
			if err != nil {
				return nil, err
			}
		}
		count++

		ty, nameTok, rest, err := p.declarator(tok, baseTy)
		if err != nil {
			return nil, err
		}
		tok = rest

		if isTypedef {
			p.scope.DeclareTypedef(nameTok.Lexeme, ty)
			continue
		}
		p.newGlobal(nameTok.Lexeme, ty, nil)
	}
	return tok.Next, nil
}

func identName(tok *token.Token) string {
	if tok == nil {
		return ""
	}
	return tok.Lexeme
}

func (p *Parser) newLocal(name string, ty types.Type) *ast.Var {
	v := &ast.Var{Name: name, Type: ty, IsLocal: true}
	p.locals = append(p.locals, v)
	p.scope.DeclareVar(name, v)
	return v
}

func (p *Parser) newGlobal(name string, ty types.Type, initData []byte) *ast.Var {
	v := &ast.Var{Name: name, Type: ty, InitData: initData}
	p.globals = append(p.globals, v)
	p.scope.DeclareVar(name, v)
	return v
}

func (p *Parser) newStringLiteral(contents []byte) *ast.Var {
	name := p.newStringLabel()
	ty := &types.Array{Base: types.CharType, Len: len(contents)}
	return p.newGlobal(name, ty, contents)
}

func (p *Parser) newStringLabel() string {
	label := ".L.data." + itoa(p.stringSeq)
	p.stringSeq++
	return label
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}
