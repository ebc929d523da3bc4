package lisp

import "os"

// ---- core built-ins ----------------------------------------------------
//
// Arithmetic, comparison, type predicates, equality, and the evaluator
// re-entry points (eval, apply). Numbers are native fixed-width: int64 and
// float64 with int→float promotion when the two meet.

func registerCoreBuiltins(ip *Interp) {
	ip.RegisterPrimitive("+", AnyArity(), func(_ *Interp, args []Value, _ *Env) (Value, *TailCall) {
		return numFold("+", Int(0), args, addNums), nil
	})

	ip.RegisterPrimitive("*", AnyArity(), func(_ *Interp, args []Value, _ *Env) (Value, *TailCall) {
		return numFold("*", Int(1), args, mulNums), nil
	})

	ip.RegisterPrimitive("-", AtLeast(1), func(_ *Interp, args []Value, _ *Env) (Value, *TailCall) {
		if len(args) == 1 {
			return subNums("-", Int(0), args[0]), nil
		}
		return numFold("-", args[0], args[1:], subNums), nil
	})

	ip.RegisterPrimitive("/", AtLeast(1), func(_ *Interp, args []Value, _ *Env) (Value, *TailCall) {
		if len(args) == 1 {
			return divNums("/", Int(1), args[0]), nil
		}
		return numFold("/", args[0], args[1:], divNums), nil
	})

	ip.RegisterPrimitive("modulo", Exactly(2), func(_ *Interp, args []Value, _ *Env) (Value, *TailCall) {
		a := wantIntArg("modulo", args[0])
		b := wantIntArg("modulo", args[1])
		if b == 0 {
			fail("modulo: division by zero")
		}
		m := a % b
		if m != 0 && (m < 0) != (b < 0) {
			m += b
		}
		return Int(m), nil
	})

	ip.RegisterPrimitive("remainder", Exactly(2), func(_ *Interp, args []Value, _ *Env) (Value, *TailCall) {
		a := wantIntArg("remainder", args[0])
		b := wantIntArg("remainder", args[1])
		if b == 0 {
			fail("remainder: division by zero")
		}
		return Int(a % b), nil
	})

	registerComparison(ip, "=",
		func(a, b int64) bool { return a == b },
		func(a, b float64) bool { return a == b })
	registerComparison(ip, "<",
		func(a, b int64) bool { return a < b },
		func(a, b float64) bool { return a < b })
	registerComparison(ip, ">",
		func(a, b int64) bool { return a > b },
		func(a, b float64) bool { return a > b })
	registerComparison(ip, "<=",
		func(a, b int64) bool { return a <= b },
		func(a, b float64) bool { return a <= b })
	registerComparison(ip, ">=",
		func(a, b int64) bool { return a >= b },
		func(a, b float64) bool { return a >= b })

	registerPredicate(ip, "number?", func(v Value) bool { return v.Tag == TagInt || v.Tag == TagFloat })
	registerPredicate(ip, "integer?", func(v Value) bool { return v.Tag == TagInt })
	registerPredicate(ip, "float?", func(v Value) bool { return v.Tag == TagFloat })
	registerPredicate(ip, "symbol?", func(v Value) bool { return v.Tag == TagSym })
	registerPredicate(ip, "string?", func(v Value) bool { return v.Tag == TagStr })
	registerPredicate(ip, "char?", func(v Value) bool { return v.Tag == TagChar })
	registerPredicate(ip, "boolean?", func(v Value) bool { return v.Tag == TagBool })
	registerPredicate(ip, "procedure?", func(v Value) bool { return v.Tag == TagProc })
	registerPredicate(ip, "port?", func(v Value) bool { return v.Tag == TagPort })
	registerPredicate(ip, "list?", func(v Value) bool {
		l, ok := v.AsList()
		return ok && l.Kind() == ProperList
	})
	registerPredicate(ip, "pair?", func(v Value) bool {
		l, ok := v.AsList()
		return ok && !l.Empty()
	})
	registerPredicate(ip, "null?", func(v Value) bool {
		l, ok := v.AsList()
		return ok && l.Empty()
	})

	ip.RegisterPrimitive("not", Exactly(1), func(_ *Interp, args []Value, _ *Env) (Value, *TailCall) {
		return Bool(!isTruthy(args[0])), nil
	})

	ip.RegisterPrimitive("eq?", Exactly(2), func(_ *Interp, args []Value, _ *Env) (Value, *TailCall) {
		return Bool(Eq(args[0], args[1])), nil
	})
	ip.RegisterPrimitive("eqv?", Exactly(2), func(_ *Interp, args []Value, _ *Env) (Value, *TailCall) {
		return Bool(Eqv(args[0], args[1])), nil
	})
	ip.RegisterPrimitive("equal?", Exactly(2), func(_ *Interp, args []Value, _ *Env) (Value, *TailCall) {
		return Bool(Equal(args[0], args[1])), nil
	})

	// eval hands its (already evaluated) argument back to the trampoline, so
	// (eval expr) runs in tail position in the current environment.
	ip.RegisterPrimitive("eval", Exactly(1), func(_ *Interp, args []Value, env *Env) (Value, *TailCall) {
		return Value{}, &TailCall{Expr: args[0], Env: env}
	})

	// apply spreads its final list argument: (apply f a b '(c d)) = (f a b c d).
	ip.RegisterPrimitive("apply", AtLeast(2), func(ip *Interp, args []Value, env *Env) (Value, *TailCall) {
		p, ok := args[0].AsProc()
		if !ok {
			failf("apply: expected a procedure, got %s", args[0].Tag)
		}
		tail, ok := args[len(args)-1].AsList()
		if !ok || tail.Kind() == DottedList {
			failf("apply: last argument must be a proper list, got %s", args[len(args)-1].Tag)
		}
		spread := make([]Value, 0, len(args)-2+tail.Len())
		spread = append(spread, args[1:len(args)-1]...)
		spread = append(spread, tail.Elems()...)
		return ip.apply(p, spread, env)
	})

	ip.RegisterPrimitive("error", AtLeast(1), func(_ *Interp, args []Value, _ *Env) (Value, *TailCall) {
		msg := DisplayString(args[0])
		for _, a := range args[1:] {
			msg += " " + WriteString(a)
		}
		fail(msg)
		return Void, nil
	})

	ip.RegisterPrimitive("void", Exactly(0), func(_ *Interp, _ []Value, _ *Env) (Value, *TailCall) {
		return Void, nil
	})

	ip.RegisterPrimitive("exit", Between(0, 1), func(_ *Interp, args []Value, _ *Env) (Value, *TailCall) {
		code := int64(0)
		if len(args) == 1 {
			code = wantIntArg("exit", args[0])
		}
		os.Exit(int(code))
		return Void, nil
	})
}

// ---- numeric helpers ---------------------------------------------------

func registerComparison(ip *Interp, name string, intCmp func(a, b int64) bool, fltCmp func(a, b float64) bool) {
	ip.RegisterPrimitive(name, AtLeast(2), func(_ *Interp, args []Value, _ *Env) (Value, *TailCall) {
		prev := args[0]
		for _, a := range args[1:] {
			if !compareNums(name, prev, a, intCmp, fltCmp) {
				return False, nil
			}
			prev = a
		}
		return True, nil
	})
}

// compareNums compares in int64 when both sides are integers, so integers
// beyond float64's 2^53 mantissa stay distinct; mixed or float operands
// compare as float64.
func compareNums(name string, a, b Value, intCmp func(a, b int64) bool, fltCmp func(a, b float64) bool) bool {
	if x, ok := a.AsInt(); ok {
		if y, ok := b.AsInt(); ok {
			return intCmp(x, y)
		}
	}
	return fltCmp(wantNumArg(name, a), wantNumArg(name, b))
}

func registerPredicate(ip *Interp, name string, pred func(Value) bool) {
	ip.RegisterPrimitive(name, Exactly(1), func(_ *Interp, args []Value, _ *Env) (Value, *TailCall) {
		return Bool(pred(args[0])), nil
	})
}

// wantNumArg accepts an int or float argument as float64 for comparisons.
func wantNumArg(name string, v Value) float64 {
	if n, ok := v.AsInt(); ok {
		return float64(n)
	}
	if f, ok := v.AsFloat(); ok {
		return f
	}
	failf("%s: expected a number, got %s", name, v.Tag)
	return 0
}

func wantIntArg(name string, v Value) int64 {
	n, ok := v.AsInt()
	if !ok {
		failf("%s: expected an integer, got %s", name, v.Tag)
	}
	return n
}

func numFold(name string, acc Value, args []Value, op func(string, Value, Value) Value) Value {
	for _, a := range args {
		acc = op(name, acc, a)
	}
	return acc
}

// binary numeric ops preserve int64 when both sides are integers and promote
// to float64 otherwise.
func addNums(name string, a, b Value) Value {
	if x, ok := a.AsInt(); ok {
		if y, ok := b.AsInt(); ok {
			return Int(x + y)
		}
	}
	return Float(wantNumArg(name, a) + wantNumArg(name, b))
}

func subNums(name string, a, b Value) Value {
	if x, ok := a.AsInt(); ok {
		if y, ok := b.AsInt(); ok {
			return Int(x - y)
		}
	}
	return Float(wantNumArg(name, a) - wantNumArg(name, b))
}

func mulNums(name string, a, b Value) Value {
	if x, ok := a.AsInt(); ok {
		if y, ok := b.AsInt(); ok {
			return Int(x * y)
		}
	}
	return Float(wantNumArg(name, a) * wantNumArg(name, b))
}

func divNums(name string, a, b Value) Value {
	if x, ok := a.AsInt(); ok {
		if y, ok := b.AsInt(); ok {
			if y == 0 {
				fail("/: division by zero")
			}
			if x%y == 0 {
				return Int(x / y)
			}
			return Float(float64(x) / float64(y))
		}
	}
	d := wantNumArg(name, b)
	if d == 0 {
		fail("/: division by zero")
	}
	return Float(wantNumArg(name, a) / d)
}
