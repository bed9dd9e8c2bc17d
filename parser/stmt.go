package parser

import (
	"nanocc/ast"
	"nanocc/token"
)

// isTypeName reports whether tok can begin a typespec: an arithmetic
// base keyword, "struct"/"union"/"typedef", or a name already bound as
// a typedef in the current scope. compoundStmt uses this to decide
// between a declaration and a statement at the start of a block item.
func (p *Parser) isTypeName(tok *token.Token) bool {
	if tok.Is("struct") || tok.Is("union") || tok.Is("typedef") {
		return true
	}
	if _, ok := baseTypeBit(tok.Lexeme); ok {
		return true
	}
	if tok.Kind == token.Ident {
		_, ok := p.scope.FindTypedef(tok.Lexeme)
		return ok
	}
	return false
}

// compoundStmt = (declaration | stmt)* "}"
//
// The caller has already consumed the opening "{".
func (p *Parser) compoundStmt(tok *token.Token) ([]ast.Node, *token.Token, error) {
	var body []ast.Node
	p.scope.Enter()
	for !tok.Is("}") {
		var stmt ast.Node
		var err error
		if p.isTypeName(tok) {
			stmt, tok, err = p.declaration(tok)
		} else {
			stmt, tok, err = p.stmt(tok)
		}
		if err != nil {
			p.scope.Leave()
			return nil, nil, err
		}
		body = append(body, stmt)
	}
	p.scope.Leave()
	return body, tok.Next, nil
}

// stmt = "return" expr ";"
//      | "if" "(" expr ")" stmt ("else" stmt)?
//      | "for" "(" (declaration | expr-stmt) expr? ";" expr? ")" stmt
//      | "while" "(" expr ")" stmt
//      | "{" compound-stmt
//      | expr-stmt
func (p *Parser) stmt(tok *token.Token) (ast.Node, *token.Token, error) {
	switch {
	case tok.Is("return"):
		value, rest, err := p.expr(tok.Next)
		if err != nil {
			return nil, nil, err
		}
		rest, err = expect(rest, ";")
		if err != nil {
			return nil, nil, err
		}
		return ast.NewReturn(tok, value), rest, nil

	case tok.Is("if"):
		rest, err := expect(tok.Next, "(")
		if err != nil {
			return nil, nil, err
		}
		cond, rest, err := p.expr(rest)
		if err != nil {
			return nil, nil, err
		}
		rest, err = expect(rest, ")")
		if err != nil {
			return nil, nil, err
		}
		then, rest, err := p.stmt(rest)
		if err != nil {
			return nil, nil, err
		}
		var els ast.Node
		if rest.Is("else") {
			els, rest, err = p.stmt(rest.Next)
			if err != nil {
				return nil, nil, err
			}
		}
		return ast.NewIf(tok, cond, then, els), rest, nil

	case tok.Is("for"):
		return p.forStmt(tok)

	case tok.Is("while"):
		rest, err := expect(tok.Next, "(")
		if err != nil {
			return nil, nil, err
		}
		cond, rest, err := p.expr(rest)
		if err != nil {
			return nil, nil, err
		}
		rest, err = expect(rest, ")")
		if err != nil {
			return nil, nil, err
		}
		body, rest, err := p.stmt(rest)
		if err != nil {
			return nil, nil, err
		}
		return ast.NewWhile(tok, cond, body), rest, nil

	case tok.Is("{"):
		body, rest, err := p.compoundStmt(tok.Next)
		if err != nil {
			return nil, nil, err
		}
		return ast.NewBlock(ast.BLOCK, tok, body), rest, nil

	default:
		return p.exprStmt(tok)
	}
}

// forStmt = "for" "(" (declaration | expr-stmt) expr? ";" expr? ")" stmt
//
// A missing condition defaults to a literal 1, matching 9cc's
// equivalent "for (;;)" meaning "loop forever".
func (p *Parser) forStmt(tok *token.Token) (ast.Node, *token.Token, error) {
	rest, err := expect(tok.Next, "(")
	if err != nil {
		return nil, nil, err
	}

	p.scope.Enter()
	defer p.scope.Leave()

	var init ast.Node
	if p.isTypeName(rest) {
		init, rest, err = p.declaration(rest)
	} else {
		init, rest, err = p.exprStmt(rest)
	}
	if err != nil {
		return nil, nil, err
	}

	var cond ast.Node
	if !rest.Is(";") {
		cond, rest, err = p.expr(rest)
		if err != nil {
			return nil, nil, err
		}
	} else {
		cond = ast.NewNum(rest, 1)
	}
	rest, err = expect(rest, ";")
	if err != nil {
		return nil, nil, err
	}

	var inc ast.Node
	if !rest.Is(")") {
		inc, rest, err = p.expr(rest)
		if err != nil {
			return nil, nil, err
		}
	}
	rest, err = expect(rest, ")")
	if err != nil {
		return nil, nil, err
	}

	body, rest, err := p.stmt(rest)
	if err != nil {
		return nil, nil, err
	}
	return ast.NewFor(tok, init, cond, inc, body), rest, nil
}

// exprStmt = ";" | expr ";"
func (p *Parser) exprStmt(tok *token.Token) (ast.Node, *token.Token, error) {
	if tok.Is(";") {
		return ast.NewNull(ast.NULL, tok), tok.Next, nil
	}
	e, rest, err := p.expr(tok)
	if err != nil {
		return nil, nil, err
	}
	rest, err = expect(rest, ";")
	if err != nil {
		return nil, nil, err
	}
	return ast.NewExprStmt(tok, e), rest, nil
}

// declaration = typespec declarator ("=" assign)? ("," declarator ("=" assign)?)* ";"
//
// Each initialized declarator lowers to an EXPR_STMT wrapping an
// ASSIGN, exactly as 9cc's declaration() does, so codegen never has to
// special-case a local's initializer.
func (p *Parser) declaration(tok *token.Token) (ast.Node, *token.Token, error) {
	baseTy, isTypedef, rest, err := p.typespec(tok)
	if err != nil {
		return nil, nil, err
	}
	tok = rest

	var body []ast.Node
	i := 0
	for !tok.Is(";") {
		if i > 0 {
			tok, err = expect(tok, ",")
			if err != nil {
				return nil, nil, err
			}
		}
		i++

		ty, nameTok, declRest, err := p.declarator(tok, baseTy)
		if err != nil {
			return nil, nil, err
		}
		tok = declRest

		if isTypedef {
			p.scope.DeclareTypedef(nameTok.Lexeme, ty)
			continue
		}

		local := p.newLocal(nameTok.Lexeme, ty)

		if !tok.Is("=") {
			continue
		}
		eqTok := tok
		lhs := ast.NewVar(nameTok, local)
		rhs, assignRest, err := p.assign(tok.Next)
		if err != nil {
			return nil, nil, err
		}
		tok = assignRest
		assignNode := ast.NewBinary(ast.ASSIGN, eqTok, lhs, rhs)
		body = append(body, ast.NewExprStmt(eqTok, assignNode))
	}
	return ast.NewBlock(ast.BLOCK, tok, body), tok.Next, nil
}
