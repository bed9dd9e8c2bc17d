package ast

import (
	"nanocc/token"
	"nanocc/types"
)

// NumNode is an integer literal. Kind is always NUM.
type NumNode struct {
	base
	Val int64
}

func NewNum(tok *token.Token, val int64) *NumNode {
	return &NumNode{base: base{tok: tok, ty: types.IntType}, Val: val}
}

func (n *NumNode) Kind() Kind                     { return NUM }
func (n *NumNode) Accept(v Visitor) (any, error)  { return v.VisitNum(n) }

// VarNode references a declared variable (local, parameter, or global).
type VarNode struct {
	base
	Var *Var
}

func NewVar(tok *token.Token, v *Var) *VarNode {
	return &VarNode{base: base{tok: tok, ty: v.Type}, Var: v}
}

func (n *VarNode) Kind() Kind                    { return VAR }
func (n *VarNode) Accept(v Visitor) (any, error) { return v.VisitVar(n) }

// BinaryNode covers every two-operand operator the parser produces:
// ADD, SUB, PTR_ADD, PTR_SUB, PTR_DIFF, MUL, DIV, EQ, NE, LT, LE,
// ASSIGN, and COMMA. Op selects which.
type BinaryNode struct {
	base
	Op       Kind
	LHS, RHS Node
}

func NewBinary(op Kind, tok *token.Token, lhs, rhs Node) *BinaryNode {
	return &BinaryNode{base: base{tok: tok}, Op: op, LHS: lhs, RHS: rhs}
}

func (n *BinaryNode) Kind() Kind                    { return n.Op }
func (n *BinaryNode) Accept(v Visitor) (any, error) { return v.VisitBinary(n) }

// UnaryNode covers ADDR ("&x") and DEREF ("*x"). Parser-level unary
// plus/minus are desugared before this point (+x -> x, -x -> 0 - x),
// per the spec's operator construction rules.
type UnaryNode struct {
	base
	Op      Kind
	Operand Node
}

func NewUnary(op Kind, tok *token.Token, operand Node) *UnaryNode {
	return &UnaryNode{base: base{tok: tok}, Op: op, Operand: operand}
}

func (n *UnaryNode) Kind() Kind                    { return n.Op }
func (n *UnaryNode) Accept(v Visitor) (any, error) { return v.VisitUnary(n) }

// MemberNode is a struct/union field access ("base.member"); "base->m"
// is desugared by the parser into MemberNode{Base: DEREF(base)}.
type MemberNode struct {
	base
	Base   Node
	Member *types.Member
}

func NewMember(tok *token.Token, baseExpr Node, member *types.Member) *MemberNode {
	return &MemberNode{base: base{tok: tok, ty: member.Type}, Base: baseExpr, Member: member}
}

func (n *MemberNode) Kind() Kind                    { return MEMBER }
func (n *MemberNode) Accept(v Visitor) (any, error) { return v.VisitMember(n) }

// CastNode carries its target type verbatim (set by NewCast at
// construction, not computed by the type annotator).
type CastNode struct {
	base
	Operand Node
}

func NewCast(tok *token.Token, operand Node, target types.Type) *CastNode {
	return &CastNode{base: base{tok: tok, ty: target}, Operand: operand}
}

func (n *CastNode) Kind() Kind                    { return CAST }
func (n *CastNode) Accept(v Visitor) (any, error) { return v.VisitCast(n) }

// BlockNode is a sequence of statements, either a "{ ... }" compound
// statement (Op == BLOCK) or a "({ ... })" statement expression
// (Op == STMT_EXPR), whose value is its last EXPR_STMT's expression.
type BlockNode struct {
	base
	Op   Kind
	Body []Node
}

func NewBlock(op Kind, tok *token.Token, body []Node) *BlockNode {
	return &BlockNode{base: base{tok: tok}, Op: op, Body: body}
}

func (n *BlockNode) Kind() Kind                    { return n.Op }
func (n *BlockNode) Accept(v Visitor) (any, error) { return v.VisitBlock(n) }

// IfNode is "if (Cond) Then [else Else]"; Else is nil when absent.
type IfNode struct {
	base
	Cond, Then, Else Node
}

func NewIf(tok *token.Token, cond, then, els Node) *IfNode {
	return &IfNode{base: base{tok: tok}, Cond: cond, Then: then, Else: els}
}

func (n *IfNode) Kind() Kind                    { return IF }
func (n *IfNode) Accept(v Visitor) (any, error) { return v.VisitIf(n) }

// WhileNode is "while (Cond) Body".
type WhileNode struct {
	base
	Cond, Body Node
}

func NewWhile(tok *token.Token, cond, body Node) *WhileNode {
	return &WhileNode{base: base{tok: tok}, Cond: cond, Body: body}
}

func (n *WhileNode) Kind() Kind                    { return WHILE }
func (n *WhileNode) Accept(v Visitor) (any, error) { return v.VisitWhile(n) }

// ForNode is "for (Init; Cond; Inc) Body"; Init, Cond, and Inc may each
// be nil when the corresponding clause was omitted.
type ForNode struct {
	base
	Init, Cond, Inc, Body Node
}

func NewFor(tok *token.Token, init, cond, inc, body Node) *ForNode {
	return &ForNode{base: base{tok: tok}, Init: init, Cond: cond, Inc: inc, Body: body}
}

func (n *ForNode) Kind() Kind                    { return FOR }
func (n *ForNode) Accept(v Visitor) (any, error) { return v.VisitFor(n) }

// ReturnNode is "return Value;".
type ReturnNode struct {
	base
	Value Node
}

func NewReturn(tok *token.Token, value Node) *ReturnNode {
	return &ReturnNode{base: base{tok: tok}, Value: value}
}

func (n *ReturnNode) Kind() Kind                    { return RETURN }
func (n *ReturnNode) Accept(v Visitor) (any, error) { return v.VisitReturn(n) }

// FuncallNode is a call to Name. The parser linearizes the arguments:
// each Arg is a VarNode naming a temporary local, and the COMMA chain
// that wraps this node assigns those temporaries in left-to-right order
// before the call.
type FuncallNode struct {
	base
	Name string
	Args []Node
}

func NewFuncall(tok *token.Token, name string, args []Node) *FuncallNode {
	return &FuncallNode{base: base{tok: tok, ty: types.IntType}, Name: name, Args: args}
}

func (n *FuncallNode) Kind() Kind                    { return FUNCALL }
func (n *FuncallNode) Accept(v Visitor) (any, error) { return v.VisitFuncall(n) }

// ExprStmtNode wraps an expression used as a statement, discarding its
// value once the codegen pass has it on the stack.
type ExprStmtNode struct {
	base
	Expr Node
}

func NewExprStmt(tok *token.Token, expr Node) *ExprStmtNode {
	return &ExprStmtNode{base: base{tok: tok}, Expr: expr}
}

func (n *ExprStmtNode) Kind() Kind                    { return EXPR_STMT }
func (n *ExprStmtNode) Accept(v Visitor) (any, error) { return v.VisitExprStmt(n) }

// NullNode is a no-op: either a NULL statement (an empty for-loop
// clause) or a NULL_EXPR value (the seed of a funcall's COMMA chain,
// which evaluates to nothing itself but gives the chain a base case).
type NullNode struct {
	base
	Op Kind
}

func NewNull(op Kind, tok *token.Token) *NullNode {
	return &NullNode{base: base{tok: tok}, Op: op}
}

func (n *NullNode) Kind() Kind                    { return n.Op }
func (n *NullNode) Accept(v Visitor) (any, error) { return v.VisitNull(n) }

// SizeofNode yields the byte size of Operand's decorated type as a
// compile-time constant. It is kept as its own node rather than folded
// into NUM at parse time so the parser never has to type the operand
// just to compute the constant; codegen lowers it exactly like NUM once
// Val is known.
type SizeofNode struct {
	base
	Operand Node
	// Val is filled in by the type annotator once Operand's type is
	// known; codegen reads it exactly like NumNode.Val.
	Val int64
}

func NewSizeof(tok *token.Token, operand Node) *SizeofNode {
	return &SizeofNode{base: base{tok: tok}, Operand: operand}
}

func (n *SizeofNode) Kind() Kind                    { return SIZEOF }
func (n *SizeofNode) Accept(v Visitor) (any, error) { return v.VisitSizeof(n) }
