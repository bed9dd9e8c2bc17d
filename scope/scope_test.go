package scope

import (
	"testing"

	"nanocc/ast"
	"nanocc/types"
)

func TestVarLookupFindsInnermostFirst(t *testing.T) {
	s := New()
	outer := &ast.Var{Name: "x", Type: types.IntType}
	s.DeclareVar("x", outer)

	s.Enter()
	inner := &ast.Var{Name: "x", Type: types.CharType}
	s.DeclareVar("x", inner)

	got, ok := s.FindVar("x")
	if !ok || got != inner {
		t.Fatalf("FindVar in inner scope = %v, %v, want inner", got, ok)
	}

	s.Leave()
	got, ok = s.FindVar("x")
	if !ok || got != outer {
		t.Fatalf("FindVar after leaving inner scope = %v, %v, want outer", got, ok)
	}
}

func TestLeaveRemovesOnlyCurrentDepthBindings(t *testing.T) {
	s := New()
	s.DeclareVar("g", &ast.Var{Name: "g"})

	s.Enter()
	s.DeclareVar("a", &ast.Var{Name: "a"})
	s.Enter()
	s.DeclareVar("b", &ast.Var{Name: "b"})

	s.Leave() // depth back to 1: "b" gone, "a" and "g" remain
	if _, ok := s.FindVar("b"); ok {
		t.Errorf("FindVar(b) should fail after leaving its scope")
	}
	if _, ok := s.FindVar("a"); !ok {
		t.Errorf("FindVar(a) should still succeed")
	}

	s.Leave() // depth back to 0: "a" gone, "g" remains
	if _, ok := s.FindVar("a"); ok {
		t.Errorf("FindVar(a) should fail after leaving its scope")
	}
	if _, ok := s.FindVar("g"); !ok {
		t.Errorf("global FindVar(g) should still succeed")
	}
}

func TestTypedefAndVariableNamespacesCoexist(t *testing.T) {
	s := New()
	s.DeclareTypedef("T", types.IntType)

	if _, ok := s.FindVar("T"); ok {
		t.Errorf("a typedef name should not resolve through FindVar")
	}
	ty, ok := s.FindTypedef("T")
	if !ok || ty != types.IntType {
		t.Errorf("FindTypedef(T) = %v, %v, want int, true", ty, ok)
	}
}

func TestTagScopeIsSeparateFromVarScope(t *testing.T) {
	s := New()
	point := types.NewStruct("Point", nil)
	s.DeclareTag("Point", point)
	s.DeclareVar("Point", &ast.Var{Name: "Point"})

	tagTy, ok := s.FindTag("Point")
	if !ok || tagTy != point {
		t.Errorf("FindTag(Point) = %v, %v, want the struct type", tagTy, ok)
	}
	if _, ok := s.FindVar("Point"); !ok {
		t.Errorf("the variable named Point should still resolve independently")
	}
}

func TestDepthTracksEnterAndLeave(t *testing.T) {
	s := New()
	if s.Depth() != 0 {
		t.Fatalf("initial depth = %d, want 0", s.Depth())
	}
	s.Enter()
	s.Enter()
	if s.Depth() != 2 {
		t.Fatalf("depth after two Enter calls = %d, want 2", s.Depth())
	}
	s.Leave()
	if s.Depth() != 1 {
		t.Fatalf("depth after one Leave call = %d, want 1", s.Depth())
	}
}
