package parser

import (
	"nanocc/token"
	"nanocc/types"
)

// placeholder stands in for a type that is not yet known: the base type
// of a parenthesized declarator's inner part, filled in once the outer
// part's suffix (array dimensions or function parameters) has been
// parsed. Every Type method delegates to resolved, so anything that
// wrapped a placeholder (a Pointer, typically) transparently sees the
// final type once resolved is set. Grounded on 9cc's declarator(), which
// allocates an empty Type up front and overwrites it in place once the
// real type is known.
type placeholder struct {
	resolved types.Type
}

func (p *placeholder) Size() int      { return p.resolved.Size() }
func (p *placeholder) Align() int     { return p.resolved.Align() }
func (p *placeholder) String() string { return p.resolved.String() }

// Bit weights for the typespec counter, mirroring 9cc's VOID/CHAR/
// SHORT/INT/LONG scheme: each base keyword contributes a distinct bit
// range so every valid combination ("long long", "long int", ...) sums
// to a value the switch in typespec can recognize, while an invalid
// combination ("long short") sums to something no case matches.
const (
	voidBit  = 1 << 0
	charBit  = 1 << 2
	shortBit = 1 << 4
	intBit   = 1 << 6
	longBit  = 1 << 8
)

func baseTypeBit(lexeme string) (int, bool) {
	switch lexeme {
	case "void":
		return voidBit, true
	case "char":
		return charBit, true
	case "short":
		return shortBit, true
	case "int":
		return intBit, true
	case "long":
		return longBit, true
	}
	return 0, false
}

// typespec parses the declaration-specifier prefix shared by a global
// declaration, a local declaration, a struct member, and a parameter:
// an optional "typedef", then exactly one of a struct/union
// specifier, a typedef name, or a run of arithmetic-type keywords.
//
// typespec = "typedef"? (struct-decl | union-decl | typedef-name | ("void" | "char" | "short" | "int" | "long")+)
func (p *Parser) typespec(tok *token.Token) (ty types.Type, isTypedef bool, rest *token.Token, err error) {
	if tok.Is("typedef") {
		isTypedef = true
		tok = tok.Next
	}

	switch {
	case tok.Is("struct"):
		ty, rest, err = p.structDecl(tok.Next)
		return ty, isTypedef, rest, err
	case tok.Is("union"):
		ty, rest, err = p.unionDecl(tok.Next)
		return ty, isTypedef, rest, err
	}

	if tok.Kind == token.Ident {
		if def, ok := p.scope.FindTypedef(tok.Lexeme); ok {
			return def, isTypedef, tok.Next, nil
		}
	}

	counter := 0
	start := tok
	for {
		bit, ok := baseTypeBit(tok.Lexeme)
		if !ok {
			break
		}
		counter += bit
		tok = tok.Next
	}

	switch counter {
	case voidBit:
		ty = types.VoidType
	case charBit:
		ty = types.CharType
	case shortBit, shortBit + intBit:
		ty = types.ShortType
	case intBit:
		ty = types.IntType
	case longBit, longBit + intBit, longBit + longBit, longBit + longBit + intBit:
		ty = types.LongType
	default:
		return nil, false, nil, errorf(start, "invalid type")
	}
	return ty, isTypedef, tok, nil
}

// declarator = "*"* ("(" declarator ")" | ident) type-suffix
func (p *Parser) declarator(tok *token.Token, baseTy types.Type) (ty types.Type, nameTok *token.Token, rest *token.Token, err error) {
	for tok.Is("*") {
		baseTy = types.PointerTo(baseTy)
		tok = tok.Next
	}

	if tok.Is("(") {
		start := tok
		ph := &placeholder{}
		newTy, inner, after, err := p.declarator(start.Next, ph)
		if err != nil {
			return nil, nil, nil, err
		}
		after, err = expect(after, ")")
		if err != nil {
			return nil, nil, nil, err
		}
		suffixTy, after, err := p.typeSuffix(after, baseTy)
		if err != nil {
			return nil, nil, nil, err
		}
		ph.resolved = suffixTy
		return newTy, inner, after, nil
	}

	if tok.Kind != token.Ident {
		return nil, nil, nil, errorf(tok, "expected a variable name")
	}
	nameTok = tok
	ty, rest, err = p.typeSuffix(tok.Next, baseTy)
	if err != nil {
		return nil, nil, nil, err
	}
	return ty, nameTok, rest, nil
}

// typeSuffix = "(" func-params | "[" num "]" type-suffix | ε
func (p *Parser) typeSuffix(tok *token.Token, baseTy types.Type) (types.Type, *token.Token, error) {
	if tok.Is("(") {
		return p.funcParams(tok.Next, baseTy)
	}

	if tok.Is("[") {
		lenTok := tok.Next
		if lenTok.Kind != token.Number {
			return nil, nil, errorf(lenTok, "expected an array length")
		}
		rest, err := expect(lenTok.Next, "]")
		if err != nil {
			return nil, nil, err
		}
		elem, rest, err := p.typeSuffix(rest, baseTy)
		if err != nil {
			return nil, nil, err
		}
		return &types.Array{Base: elem, Len: int(lenTok.Val)}, rest, nil
	}

	return baseTy, tok, nil
}

// funcParams = (typespec declarator ("," typespec declarator)*)? ")"
func (p *Parser) funcParams(tok *token.Token, returnTy types.Type) (types.Type, *token.Token, error) {
	var params []*types.Param
	for !tok.Is(")") {
		if len(params) > 0 {
			var err error
			tok, err = expect(tok, ",")
			if err != nil {
				return nil, nil, err
			}
		}
		baseTy, _, rest, err := p.typespec(tok)
		if err != nil {
			return nil, nil, err
		}
		paramTy, nameTok, rest, err := p.declarator(rest, baseTy)
		if err != nil {
			return nil, nil, err
		}
		if arr, isArray := paramTy.(*types.Array); isArray {
			paramTy = types.PointerTo(arr.Base)
		}
		params = append(params, &types.Param{Name: nameTok, Type: paramTy})
		tok = rest
	}
	rest, err := expect(tok, ")")
	if err != nil {
		return nil, nil, err
	}
	return &types.Function{Return: returnTy, Params: params}, rest, nil
}

// structUnionDecl parses the common "struct"/"union" body shared by
// structDecl and unionDecl: an optional tag, then either a member list
// in braces (a new declaration, pushed into the tag scope under tag)
// or a bare tag reference to an already-declared type.
func (p *Parser) structUnionDecl(tok *token.Token) (tag string, members []*types.Member, hasBody bool, rest *token.Token, err error) {
	var tagTok *token.Token
	if tok.Kind == token.Ident {
		tagTok = tok
		tok = tok.Next
	}
	if tagTok != nil {
		tag = tagTok.Lexeme
	}

	if tagTok != nil && !tok.Is("{") {
		return tag, nil, false, tok, nil
	}

	tok, err = expect(tok, "{")
	if err != nil {
		return "", nil, false, nil, err
	}
	members, rest, err = p.structMembers(tok)
	if err != nil {
		return "", nil, false, nil, err
	}
	return tag, members, true, rest, nil
}

func (p *Parser) structDecl(tok *token.Token) (types.Type, *token.Token, error) {
	tag, members, hasBody, rest, err := p.structUnionDecl(tok)
	if err != nil {
		return nil, nil, err
	}
	if !hasBody {
		ty, ok := p.scope.FindTag(tag)
		if !ok {
			return nil, nil, errorf(tok, "unknown struct type")
		}
		return ty, rest, nil
	}
	ty := types.NewStruct(tag, members)
	if tag != "" {
		p.scope.DeclareTag(tag, ty)
	}
	return ty, rest, nil
}

func (p *Parser) unionDecl(tok *token.Token) (types.Type, *token.Token, error) {
	tag, members, hasBody, rest, err := p.structUnionDecl(tok)
	if err != nil {
		return nil, nil, err
	}
	if !hasBody {
		ty, ok := p.scope.FindTag(tag)
		if !ok {
			return nil, nil, errorf(tok, "unknown union type")
		}
		return ty, rest, nil
	}
	ty := types.NewUnion(tag, members)
	if tag != "" {
		p.scope.DeclareTag(tag, ty)
	}
	return ty, rest, nil
}

// structMembers = (typespec declarator ("," declarator)* ";")* "}"
func (p *Parser) structMembers(tok *token.Token) ([]*types.Member, *token.Token, error) {
	var members []*types.Member
	for !tok.Is("}") {
		baseTy, _, rest, err := p.typespec(tok)
		if err != nil {
			return nil, nil, err
		}
		tok = rest

		i := 0
		for !tok.Is(";") {
			if i > 0 {
				tok, err = expect(tok, ",")
				if err != nil {
					return nil, nil, err
				}
			}
			i++
			memberTy, nameTok, rest, err := p.declarator(tok, baseTy)
			if err != nil {
				return nil, nil, err
			}
			members = append(members, &types.Member{Name: nameTok, Type: memberTy})
			tok = rest
		}
		tok = tok.Next // consume ";"
	}
	return members, tok.Next, nil // consume "}"
}

// isFunction reports whether the declaration starting at tok is a
// function definition (as opposed to a global variable declaration),
// by speculatively parsing its type specifier and declarator and
// checking whether the result is a function type immediately followed
// by "{". The trial parse shares the real typedef/tag scope so a
// typedef'd return type resolves the same way
// it would during the real parse; any struct/union tag the trial parse
// declares is declared again, harmlessly, when the real parse runs.
// Grounded on 9cc's is_function, which performs the same lookahead
// over a duplicated token list sharing the (there, process-global)
// scope.
func (p *Parser) isFunction(tok *token.Token) bool {
	if tok.IsEOF() {
		return false
	}
	trial := &Parser{scope: p.scope}
	baseTy, _, rest, err := trial.typespec(tok)
	if err != nil {
		return false
	}
	ty, _, rest, err := trial.declarator(rest, baseTy)
	if err != nil {
		return false
	}
	_, isFn := ty.(*types.Function)
	return isFn && rest.Is("{")
}
