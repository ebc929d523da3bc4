package lisp

// ---- list built-ins ----------------------------------------------------
//
// List cells are immutable; primitives rebuild structure and rely on the
// flattening constructors in list.go for normalization. Only strings carry
// mutable state (see builtin_strings.go).

func registerListBuiltins(ip *Interp) {
	ip.RegisterPrimitive("cons", Exactly(2), func(_ *Interp, args []Value, _ *Env) (Value, *TailCall) {
		return ListVal(Cons(args[0], args[1])), nil
	})

	ip.RegisterPrimitive("car", Exactly(1), func(_ *Interp, args []Value, _ *Env) (Value, *TailCall) {
		l := wantListArg("car", args[0])
		v, ok := l.Car()
		if !ok {
			fail("car: empty list")
		}
		return v, nil
	})

	ip.RegisterPrimitive("cdr", Exactly(1), func(_ *Interp, args []Value, _ *Env) (Value, *TailCall) {
		l := wantListArg("cdr", args[0])
		v, ok := l.Cdr()
		if !ok {
			fail("cdr: empty list")
		}
		return v, nil
	})

	ip.RegisterPrimitive("list", AnyArity(), func(_ *Interp, args []Value, _ *Env) (Value, *TailCall) {
		return ListVal(NewList(args...)), nil
	})

	ip.RegisterPrimitive("length", Exactly(1), func(_ *Interp, args []Value, _ *Env) (Value, *TailCall) {
		l := wantProperArg("length", args[0])
		return Int(int64(l.Len())), nil
	})

	// append concatenates proper lists; the final argument may be any value
	// and becomes the tail, so (append '(1) 2) is the dotted (1 . 2).
	ip.RegisterPrimitive("append", AnyArity(), func(_ *Interp, args []Value, _ *Env) (Value, *TailCall) {
		if len(args) == 0 {
			return ListVal(NewEmptyList()), nil
		}
		var elems []Value
		for _, a := range args[:len(args)-1] {
			l := wantProperArg("append", a)
			elems = append(elems, l.Elems()...)
		}
		if len(elems) == 0 {
			// No leading elements: the result is the tail itself.
			return args[len(args)-1], nil
		}
		return ListVal(NewDotted(elems, args[len(args)-1])), nil
	})

	ip.RegisterPrimitive("reverse", Exactly(1), func(_ *Interp, args []Value, _ *Env) (Value, *TailCall) {
		l := wantProperArg("reverse", args[0])
		src := l.Elems()
		out := make([]Value, len(src))
		for i, v := range src {
			out[len(src)-1-i] = v
		}
		return ListVal(NewList(out...)), nil
	})

	ip.RegisterPrimitive("list-ref", Exactly(2), func(_ *Interp, args []Value, _ *Env) (Value, *TailCall) {
		l := wantProperArg("list-ref", args[0])
		i := wantIntArg("list-ref", args[1])
		if i < 0 || i >= int64(len(l.Elems())) {
			failf("list-ref: index %d out of range for list of length %d", i, l.Len())
		}
		return l.Elems()[i], nil
	})

	ip.RegisterPrimitive("map", AtLeast(2), func(ip *Interp, args []Value, env *Env) (Value, *TailCall) {
		p, lists, n := wantMapArgs("map", args)
		out := make([]Value, n)
		row := make([]Value, len(lists))
		for i := 0; i < n; i++ {
			for j, l := range lists {
				row[j] = l.Elems()[i]
			}
			out[i] = ip.Apply(p, row, env)
		}
		return ListVal(NewList(out...)), nil
	})

	ip.RegisterPrimitive("for-each", AtLeast(2), func(ip *Interp, args []Value, env *Env) (Value, *TailCall) {
		p, lists, n := wantMapArgs("for-each", args)
		row := make([]Value, len(lists))
		for i := 0; i < n; i++ {
			for j, l := range lists {
				row[j] = l.Elems()[i]
			}
			ip.Apply(p, row, env)
		}
		return Void, nil
	})

	ip.RegisterPrimitive("filter", Exactly(2), func(ip *Interp, args []Value, env *Env) (Value, *TailCall) {
		p, ok := args[0].AsProc()
		if !ok {
			failf("filter: expected a procedure, got %s", args[0].Tag)
		}
		l := wantProperArg("filter", args[1])
		var out []Value
		for _, v := range l.Elems() {
			if isTruthy(ip.Apply(p, []Value{v}, env)) {
				out = append(out, v)
			}
		}
		return ListVal(NewList(out...)), nil
	})

	ip.RegisterPrimitive("member", Exactly(2), func(_ *Interp, args []Value, _ *Env) (Value, *TailCall) {
		l := wantProperArg("member", args[1])
		for i, v := range l.Elems() {
			if Equal(v, args[0]) {
				return ListVal(NewList(l.Elems()[i:]...)), nil
			}
		}
		return False, nil
	})

	ip.RegisterPrimitive("assoc", Exactly(2), func(_ *Interp, args []Value, _ *Env) (Value, *TailCall) {
		l := wantProperArg("assoc", args[1])
		for _, v := range l.Elems() {
			pair, ok := v.AsList()
			if !ok || pair.Empty() {
				fail("assoc: expected a list of pairs")
			}
			key, _ := pair.Car()
			if Equal(key, args[0]) {
				return v, nil
			}
		}
		return False, nil
	})
}

func wantListArg(name string, v Value) *List {
	l, ok := v.AsList()
	if !ok {
		failf("%s: expected a list, got %s", name, v.Tag)
	}
	return l
}

func wantProperArg(name string, v Value) *List {
	l := wantListArg(name, v)
	if l.Kind() == DottedList {
		failf("%s: expected a proper list, got a dotted list", name)
	}
	return l
}

// wantMapArgs validates a procedure plus one or more proper lists of equal
// length, for map/for-each.
func wantMapArgs(name string, args []Value) (*Proc, []*List, int) {
	p, ok := args[0].AsProc()
	if !ok {
		failf("%s: expected a procedure, got %s", name, args[0].Tag)
	}
	lists := make([]*List, len(args)-1)
	n := -1
	for i, a := range args[1:] {
		l := wantProperArg(name, a)
		if n >= 0 && l.Len() != n {
			failf("%s: lists must have equal length", name)
		}
		n = l.Len()
		lists[i] = l
	}
	return p, lists, n
}
