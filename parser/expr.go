package parser

import (
	"nanocc/ast"
	"nanocc/token"
	"nanocc/typecheck"
	"nanocc/types"
)

// expr = assign ("," expr)?
func (p *Parser) expr(tok *token.Token) (ast.Node, *token.Token, error) {
	node, tok, err := p.assign(tok)
	if err != nil {
		return nil, nil, err
	}
	if tok.Is(",") {
		rhs, rest, err := p.expr(tok.Next)
		if err != nil {
			return nil, nil, err
		}
		return ast.NewBinary(ast.COMMA, tok, node, rhs), rest, nil
	}
	return node, tok, nil
}

// assign = equality ("=" assign)?
func (p *Parser) assign(tok *token.Token) (ast.Node, *token.Token, error) {
	node, tok, err := p.equality(tok)
	if err != nil {
		return nil, nil, err
	}
	if tok.Is("=") {
		rhs, rest, err := p.assign(tok.Next)
		if err != nil {
			return nil, nil, err
		}
		return ast.NewBinary(ast.ASSIGN, tok, node, rhs), rest, nil
	}
	return node, tok, nil
}

// equality = relational (("==" | "!=") relational)*
func (p *Parser) equality(tok *token.Token) (ast.Node, *token.Token, error) {
	node, tok, err := p.relational(tok)
	if err != nil {
		return nil, nil, err
	}
	for {
		switch {
		case tok.Is("=="):
			rhs, rest, err := p.relational(tok.Next)
			if err != nil {
				return nil, nil, err
			}
			node, tok = ast.NewBinary(ast.EQ, tok, node, rhs), rest
		case tok.Is("!="):
			rhs, rest, err := p.relational(tok.Next)
			if err != nil {
				return nil, nil, err
			}
			node, tok = ast.NewBinary(ast.NE, tok, node, rhs), rest
		default:
			return node, tok, nil
		}
	}
}

// relational = add (("<" | "<=" | ">" | ">=") add)*
//
// ">" and ">=" are desugared by swapping operands into "<" and "<=",
// so codegen only ever has to implement the latter two.
func (p *Parser) relational(tok *token.Token) (ast.Node, *token.Token, error) {
	node, tok, err := p.add(tok)
	if err != nil {
		return nil, nil, err
	}
	for {
		switch {
		case tok.Is("<"):
			rhs, rest, err := p.add(tok.Next)
			if err != nil {
				return nil, nil, err
			}
			node, tok = ast.NewBinary(ast.LT, tok, node, rhs), rest
		case tok.Is("<="):
			rhs, rest, err := p.add(tok.Next)
			if err != nil {
				return nil, nil, err
			}
			node, tok = ast.NewBinary(ast.LE, tok, node, rhs), rest
		case tok.Is(">"):
			rhs, rest, err := p.add(tok.Next)
			if err != nil {
				return nil, nil, err
			}
			node, tok = ast.NewBinary(ast.LT, tok, rhs, node), rest
		case tok.Is(">="):
			rhs, rest, err := p.add(tok.Next)
			if err != nil {
				return nil, nil, err
			}
			node, tok = ast.NewBinary(ast.LE, tok, rhs, node), rest
		default:
			return node, tok, nil
		}
	}
}

// add = mul (("+" | "-") mul)*
func (p *Parser) add(tok *token.Token) (ast.Node, *token.Token, error) {
	node, tok, err := p.mul(tok)
	if err != nil {
		return nil, nil, err
	}
	for {
		switch {
		case tok.Is("+"):
			opTok := tok
			rhs, rest, err := p.mul(tok.Next)
			if err != nil {
				return nil, nil, err
			}
			node, err = p.newAdd(node, rhs, opTok)
			if err != nil {
				return nil, nil, err
			}
			tok = rest
		case tok.Is("-"):
			opTok := tok
			rhs, rest, err := p.mul(tok.Next)
			if err != nil {
				return nil, nil, err
			}
			node, err = p.newSub(node, rhs, opTok)
			if err != nil {
				return nil, nil, err
			}
			tok = rest
		default:
			return node, tok, nil
		}
	}
}

// newAdd dispatches "+" between plain integer addition and pointer
// arithmetic, keeping the pointer operand on the left (canonicalizing
// "num + ptr" to the same shape as "ptr + num"). Grounded on 9cc's
// new_add, which performs this same case analysis via add_type calls
// made eagerly during parsing rather than deferred to a later pass.
func (p *Parser) newAdd(lhs, rhs ast.Node, tok *token.Token) (ast.Node, error) {
	lty, err := typecheck.Infer(lhs)
	if err != nil {
		return nil, err
	}
	rty, err := typecheck.Infer(rhs)
	if err != nil {
		return nil, err
	}
	switch {
	case types.IsInteger(lty) && types.IsInteger(rty):
		return ast.NewBinary(ast.ADD, tok, lhs, rhs), nil
	case types.IsPointerLike(lty) && types.IsInteger(rty):
		return ast.NewBinary(ast.PTR_ADD, tok, lhs, rhs), nil
	case types.IsInteger(lty) && types.IsPointerLike(rty):
		return ast.NewBinary(ast.PTR_ADD, tok, rhs, lhs), nil
	default:
		return nil, &typecheck.TypeError{Token: tok, Message: "invalid operands"}
	}
}

// newSub mirrors newAdd for "-", additionally handling ptr-ptr
// subtraction (PTR_DIFF), which always yields int regardless of the
// pointee's size.
func (p *Parser) newSub(lhs, rhs ast.Node, tok *token.Token) (ast.Node, error) {
	lty, err := typecheck.Infer(lhs)
	if err != nil {
		return nil, err
	}
	rty, err := typecheck.Infer(rhs)
	if err != nil {
		return nil, err
	}
	switch {
	case types.IsInteger(lty) && types.IsInteger(rty):
		return ast.NewBinary(ast.SUB, tok, lhs, rhs), nil
	case types.IsPointerLike(lty) && types.IsInteger(rty):
		return ast.NewBinary(ast.PTR_SUB, tok, lhs, rhs), nil
	case types.IsPointerLike(lty) && types.IsPointerLike(rty):
		return ast.NewBinary(ast.PTR_DIFF, tok, lhs, rhs), nil
	default:
		return nil, &typecheck.TypeError{Token: tok, Message: "invalid operands"}
	}
}

// mul = cast (("*" | "/") cast)*
func (p *Parser) mul(tok *token.Token) (ast.Node, *token.Token, error) {
	node, tok, err := p.cast(tok)
	if err != nil {
		return nil, nil, err
	}
	for {
		switch {
		case tok.Is("*"):
			rhs, rest, err := p.cast(tok.Next)
			if err != nil {
				return nil, nil, err
			}
			node, tok = ast.NewBinary(ast.MUL, tok, node, rhs), rest
		case tok.Is("/"):
			rhs, rest, err := p.cast(tok.Next)
			if err != nil {
				return nil, nil, err
			}
			node, tok = ast.NewBinary(ast.DIV, tok, node, rhs), rest
		default:
			return node, tok, nil
		}
	}
}

// cast = "(" type-name ")" cast | unary
func (p *Parser) cast(tok *token.Token) (ast.Node, *token.Token, error) {
	if tok.Is("(") && p.isTypeName(tok.Next) {
		start := tok
		ty, rest, err := p.typeName(tok.Next)
		if err != nil {
			return nil, nil, err
		}
		rest, err = expect(rest, ")")
		if err != nil {
			return nil, nil, err
		}
		operand, rest, err := p.cast(rest)
		if err != nil {
			return nil, nil, err
		}
		return ast.NewCast(start, operand, ty), rest, nil
	}
	return p.unary(tok)
}

// typeName = typespec abstract-declarator
func (p *Parser) typeName(tok *token.Token) (types.Type, *token.Token, error) {
	baseTy, _, rest, err := p.typespec(tok)
	if err != nil {
		return nil, nil, err
	}
	return p.abstractDeclarator(rest, baseTy)
}

// abstractDeclarator is declarator without the requirement of a name,
// used for the type-name production inside a cast or a sizeof. Uses
// the same placeholder trick as declarator for the parenthesized case.
func (p *Parser) abstractDeclarator(tok *token.Token, baseTy types.Type) (types.Type, *token.Token, error) {
	for tok.Is("*") {
		baseTy = types.PointerTo(baseTy)
		tok = tok.Next
	}
	if tok.Is("(") {
		start := tok
		ph := &placeholder{}
		newTy, after, err := p.abstractDeclarator(start.Next, ph)
		if err != nil {
			return nil, nil, err
		}
		after, err = expect(after, ")")
		if err != nil {
			return nil, nil, err
		}
		suffixTy, after, err := p.typeSuffix(after, baseTy)
		if err != nil {
			return nil, nil, err
		}
		ph.resolved = suffixTy
		return newTy, after, nil
	}
	return p.typeSuffix(tok, baseTy)
}

// unary = ("+" | "-" | "&" | "*") cast | postfix
//
// Unary "+" is dropped entirely and unary "-" lowers to "0 - x", so the
// AST never carries a dedicated negate node.
func (p *Parser) unary(tok *token.Token) (ast.Node, *token.Token, error) {
	switch {
	case tok.Is("+"):
		return p.cast(tok.Next)
	case tok.Is("-"):
		operand, rest, err := p.cast(tok.Next)
		if err != nil {
			return nil, nil, err
		}
		node, err := p.newSub(ast.NewNum(tok, 0), operand, tok)
		if err != nil {
			return nil, nil, err
		}
		return node, rest, nil
	case tok.Is("&"):
		operand, rest, err := p.cast(tok.Next)
		if err != nil {
			return nil, nil, err
		}
		return ast.NewUnary(ast.ADDR, tok, operand), rest, nil
	case tok.Is("*"):
		operand, rest, err := p.cast(tok.Next)
		if err != nil {
			return nil, nil, err
		}
		return ast.NewUnary(ast.DEREF, tok, operand), rest, nil
	default:
		return p.postfix(tok)
	}
}

// postfix = primary ("[" expr "]" | "." ident | "->" ident)*
func (p *Parser) postfix(tok *token.Token) (ast.Node, *token.Token, error) {
	node, tok, err := p.primary(tok)
	if err != nil {
		return nil, nil, err
	}
	for {
		switch {
		case tok.Is("["):
			// x[y] is short for *(x + y).
			start := tok
			idx, rest, err := p.expr(tok.Next)
			if err != nil {
				return nil, nil, err
			}
			rest, err = expect(rest, "]")
			if err != nil {
				return nil, nil, err
			}
			sum, err := p.newAdd(node, idx, start)
			if err != nil {
				return nil, nil, err
			}
			node, tok = ast.NewUnary(ast.DEREF, start, sum), rest
		case tok.Is("."):
			member, err := p.structRef(node, tok.Next)
			if err != nil {
				return nil, nil, err
			}
			node, tok = member, tok.Next.Next
		case tok.Is("->"):
			// x->y is short for (*x).y.
			deref := ast.NewUnary(ast.DEREF, tok, node)
			member, err := p.structRef(deref, tok.Next)
			if err != nil {
				return nil, nil, err
			}
			node, tok = member, tok.Next.Next
		default:
			return node, tok, nil
		}
	}
}

// structRef resolves a "." access against base's decorated type,
// raising a ParseError if base is not a struct or union, or if no
// member matches.
func (p *Parser) structRef(base ast.Node, nameTok *token.Token) (ast.Node, error) {
	ty, err := typecheck.Infer(base)
	if err != nil {
		return nil, err
	}
	st, ok := ty.(*types.Struct)
	if !ok {
		return nil, errorf(base.Token(), "not a struct")
	}
	for _, m := range st.Members {
		if m.Name.Lexeme == nameTok.Lexeme {
			return ast.NewMember(nameTok, base, m), nil
		}
	}
	return nil, errorf(nameTok, "no such member")
}

// primary = "(" "{" stmt+ "}" ")"
//         | "(" expr ")"
//         | "sizeof" "(" type-name ")"
//         | "sizeof" unary
//         | ident funcall-args?
//         | str
//         | num
func (p *Parser) primary(tok *token.Token) (ast.Node, *token.Token, error) {
	switch {
	case tok.Is("(") && tok.Next.Is("{"):
		body, rest, err := p.compoundStmt(tok.Next.Next)
		if err != nil {
			return nil, nil, err
		}
		if len(body) == 0 || body[len(body)-1].Kind() != ast.EXPR_STMT {
			return nil, nil, errorf(tok, "statement expression returning void is not supported")
		}
		rest, err = expect(rest, ")")
		if err != nil {
			return nil, nil, err
		}
		return ast.NewBlock(ast.STMT_EXPR, tok, body), rest, nil

	case tok.Is("("):
		e, rest, err := p.expr(tok.Next)
		if err != nil {
			return nil, nil, err
		}
		rest, err = expect(rest, ")")
		if err != nil {
			return nil, nil, err
		}
		return e, rest, nil

	case tok.Is("sizeof") && tok.Next.Is("(") && p.isTypeName(tok.Next.Next):
		ty, rest, err := p.typeName(tok.Next.Next)
		if err != nil {
			return nil, nil, err
		}
		rest, err = expect(rest, ")")
		if err != nil {
			return nil, nil, err
		}
		seed := ast.NewNull(ast.NULL_EXPR, tok)
		seed.SetType(ty)
		return ast.NewSizeof(tok, seed), rest, nil

	case tok.Is("sizeof"):
		operand, rest, err := p.unary(tok.Next)
		if err != nil {
			return nil, nil, err
		}
		return ast.NewSizeof(tok, operand), rest, nil

	case tok.Kind == token.Ident:
		if tok.Next.Is("(") {
			return p.funcall(tok)
		}
		v, ok := p.scope.FindVar(tok.Lexeme)
		if !ok {
			return nil, nil, errorf(tok, "undefined variable")
		}
		return ast.NewVar(tok, v), tok.Next, nil

	case tok.Kind == token.String:
		v := p.newStringLiteral(tok.Contents)
		return ast.NewVar(tok, v), tok.Next, nil

	case tok.Kind == token.Number:
		return ast.NewNum(tok, tok.Val), tok.Next, nil
	}
	return nil, nil, errorf(tok, "expected an expression")
}

// funcall = ident "(" (assign ("," assign)*)? ")"
//
// Every argument is evaluated into a fresh temporary local before the
// call: the parser builds a COMMA chain seeded by a NULL_EXPR, with one
// ASSIGN(temp, arg) appended per argument, so the call itself only ever
// references already-materialized temporaries in left-to-right order.
// An array argument's temporary is typed as a pointer to the array's
// element (the same decay a parameter declared as an array undergoes).
// Grounded on 9cc's funcall(), which builds this same COMMA/NULL_EXPR
// scaffold around a temporary local per argument.
func (p *Parser) funcall(tok *token.Token) (ast.Node, *token.Token, error) {
	start := tok
	name := tok.Lexeme
	tok = tok.Next.Next // skip ident and "("

	chain := ast.Node(ast.NewNull(ast.NULL_EXPR, start))
	var argVars []ast.Node

	count := 0
	for !tok.Is(")") {
		if count > 0 {
			var err error
			tok, err = expect(tok, ",")
			if err != nil {
				return nil, nil, err
			}
		}
		count++

		arg, rest, err := p.assign(tok)
		if err != nil {
			return nil, nil, err
		}
		tok = rest

		argTy, err := typecheck.Infer(arg)
		if err != nil {
			return nil, nil, err
		}
		tempTy := argTy
		if _, isArray := argTy.(*types.Array); isArray {
			base, _ := types.Base(argTy)
			tempTy = types.PointerTo(base)
		}
		temp := p.newLocal("", tempTy)
		tempNode := ast.NewVar(arg.Token(), temp)
		assignNode := ast.NewBinary(ast.ASSIGN, arg.Token(), tempNode, arg)
		chain = ast.NewBinary(ast.COMMA, arg.Token(), chain, assignNode)
		argVars = append(argVars, ast.NewVar(arg.Token(), temp))
	}
	rest, err := expect(tok, ")")
	if err != nil {
		return nil, nil, err
	}

	call := ast.NewFuncall(start, name, argVars)
	return ast.NewBinary(ast.COMMA, start, chain, call), rest, nil
}
