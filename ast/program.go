package ast

import "nanocc/types"

// Var is a declared variable: a parameter, a local, or a global. Locals
// get their Offset assigned during code generation, once every local in
// the enclosing function is known; globals instead carry optional
// initializer bytes.
type Var struct {
	Name    string
	Type    types.Type
	IsLocal bool

	// Offset is the local's byte offset from the frame base (rbp),
	// assigned by codegen. Always negative and unique within a function
	// once assigned; zero and unused for globals.
	Offset int

	// InitData holds a global's initializer bytes, which only a string
	// literal supplies: its NUL-terminated contents. Nil means the global
	// is uninitialized (zero-filled, as for a bare "int g;").
	InitData []byte
}

// Function is one function definition: its signature, every local
// variable declared in its body (including parameters, which are
// locals spilled from registers), and its statement list.
type Function struct {
	Name      string
	Params    []*Var
	Locals    []*Var
	Body      []Node
	StackSize int
}

// Program is the parser's final output: every global variable and every
// function definition, in source order.
type Program struct {
	Globals []*Var
	Funcs   []*Function
}
