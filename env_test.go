package lisp

import "testing"

func Test_Env_GetWalksChain(t *testing.T) {
	root := NewEnv(nil)
	root.Define("x", Int(1))
	child := root.Extend()
	v, ok := child.Get("x")
	if !ok {
		t.Fatal("child should see parent binding")
	}
	wantInt(t, v, 1)
	if _, ok := child.Get("y"); ok {
		t.Fatal("unbound name should not resolve")
	}
}

func Test_Env_InnerShadowsOuter(t *testing.T) {
	root := NewEnv(nil)
	root.Define("x", Int(1))
	child := root.Extend()
	child.Define("x", Int(2))
	v, _ := child.Get("x")
	wantInt(t, v, 2)
	v, _ = root.Get("x")
	wantInt(t, v, 1)
}

func Test_Env_DefineOverwritesCurrentScopeOnly(t *testing.T) {
	root := NewEnv(nil)
	root.Define("x", Int(1))
	root.Define("x", Int(2))
	v, _ := root.Get("x")
	wantInt(t, v, 2)
}

func Test_Env_SetMutatesNearestHolder(t *testing.T) {
	root := NewEnv(nil)
	root.Define("x", Int(1))
	mid := root.Extend()
	leaf := mid.Extend()
	if !leaf.Set("x", Int(9)) {
		t.Fatal("set should find the root binding")
	}
	v, _ := root.Get("x")
	wantInt(t, v, 9)
	// Set never creates a binding.
	if leaf.Set("y", Int(1)) {
		t.Fatal("set of an unbound name must fail")
	}
	if _, ok := leaf.Get("y"); ok {
		t.Fatal("failed set must not create a binding")
	}
}

func Test_Env_SharedParentAcrossChildren(t *testing.T) {
	root := NewEnv(nil)
	root.Define("x", Int(0))
	a := root.Extend()
	b := root.Extend()
	a.Set("x", Int(5))
	v, _ := b.Get("x")
	wantInt(t, v, 5)
}

func Test_Env_MacroNamespaceIsSeparate(t *testing.T) {
	root := NewEnv(nil)
	m := &Proc{Name: "m"}
	root.DefineMacro("m", m)

	if _, ok := root.Get("m"); ok {
		t.Fatal("macro definition must not create a value binding")
	}
	got, ok := root.GetMacro("m")
	if !ok || got != m {
		t.Fatal("macro lookup failed")
	}

	// And the other way around: a value binding is not a macro.
	root.Define("v", Int(1))
	if root.HasMacro("v") {
		t.Fatal("value binding must not appear in the macro table")
	}

	// Macro lookup walks the chain like value lookup.
	child := root.Extend()
	if !child.HasMacro("m") {
		t.Fatal("child should see parent macro")
	}
}

func Test_Arity_Contracts(t *testing.T) {
	cases := []struct {
		a    Arity
		n    int
		ok   bool
		desc string
	}{
		{Exactly(2), 2, true, "exactly 2"},
		{Exactly(2), 3, false, "exactly 2"},
		{AtLeast(1), 0, false, "at least 1"},
		{AtLeast(1), 5, true, "at least 1"},
		{AnyArity(), 0, true, "any number of"},
		{AnyArity(), 17, true, "any number of"},
		{Between(1, 3), 0, false, "between 1 and 3"},
		{Between(1, 3), 2, true, "between 1 and 3"},
		{Between(1, 3), 4, false, "between 1 and 3"},
	}
	for _, c := range cases {
		if got := c.a.Check(c.n); got != c.ok {
			t.Errorf("%s.Check(%d) = %v, want %v", c.a, c.n, got, c.ok)
		}
		if c.a.String() != c.desc {
			t.Errorf("Arity.String() = %q, want %q", c.a.String(), c.desc)
		}
	}
}
