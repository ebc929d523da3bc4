// special_forms.go — the syntactic special forms.
//
// Each form is registered as an atomic procedure with the Special flag set, so
// its operands arrive unevaluated. Forms that end in a tail position (if,
// cond, and, or, let bodies, begin) return a *TailCall instead of evaluating
// their final expression recursively; the trampoline in eval.go drives it.
package lisp

// registerSpecialForms installs every special form into the root environment.
func registerSpecialForms(ip *Interp) {
	ip.registerSpecial("quote", Exactly(1), sfQuote)
	ip.registerSpecial("quasiquote", Exactly(1), sfQuasiquote)
	ip.registerSpecial("define", AtLeast(2), sfDefine)
	ip.registerSpecial("define-macro", AtLeast(2), sfDefineMacro)
	ip.registerSpecial("set!", Exactly(2), sfSet)
	ip.registerSpecial("lambda", AtLeast(2), sfLambda)
	ip.registerSpecial("let", AtLeast(2), sfLet)
	ip.registerSpecial("letrec", AtLeast(2), sfLetrec)
	ip.registerSpecial("if", Between(2, 3), sfIf)
	ip.registerSpecial("cond", AtLeast(1), sfCond)
	ip.registerSpecial("and", AnyArity(), sfAnd)
	ip.registerSpecial("or", AnyArity(), sfOr)
	ip.registerSpecial("begin", AnyArity(), sfBegin)
}

func sfQuote(_ *Interp, args []Value, _ *Env) (Value, *TailCall) {
	return args[0], nil
}

// parseParams turns a parameter specification into a Params pattern:
// a bare symbol collects everything (variadic); a proper list of symbols is
// fixed; a dotted list of symbols is fixed-prefix-plus-rest.
func parseParams(spec Value, form string) Params {
	if name, ok := spec.AsSym(); ok {
		return Params{Kind: ParamsVariadic, Rest: name}
	}
	lst, ok := spec.AsList()
	if !ok {
		failf("%s: parameter specification must be a symbol or a list, got %s", form, spec.Tag)
	}
	names := make([]string, len(lst.Elems()))
	for i, e := range lst.Elems() {
		n, ok := e.AsSym()
		if !ok {
			failf("%s: parameter name must be a symbol, got %s", form, e.Tag)
		}
		names[i] = n
	}
	if rest, dotted := lst.Last(); dotted {
		n, ok := rest.AsSym()
		if !ok {
			failf("%s: rest parameter name must be a symbol, got %s", form, rest.Tag)
		}
		if len(names) == 0 {
			return Params{Kind: ParamsVariadic, Rest: n}
		}
		return Params{Kind: ParamsMixed, Names: names, Rest: n}
	}
	return Params{Kind: ParamsFixed, Names: names}
}

func sfLambda(_ *Interp, args []Value, env *Env) (Value, *TailCall) {
	p := &Proc{
		Params: parseParams(args[0], "lambda"),
		Body:   args[1:],
		Env:    env,
	}
	return ProcVal(p), nil
}

// sfDefine handles both shapes: (define name expr) binds one evaluated value;
// (define (name . params) body...) builds a named closure over the current
// environment. Re-defining an existing name silently replaces it.
func sfDefine(ip *Interp, args []Value, env *Env) (Value, *TailCall) {
	if name, ok := args[0].AsSym(); ok {
		if len(args) != 2 {
			failf("define expects exactly 2 argument(s), got %d", len(args))
		}
		v := ip.eval(args[1], env)
		// Adopt the name for anonymous closures so arity errors read well.
		if p, isProc := v.AsProc(); isProc && p.Name == "" {
			p.Name = name
		}
		env.Define(name, v)
		return Void, nil
	}

	name, p := defineProc(args, env, "define")
	env.Define(name, ProcVal(p))
	return Void, nil
}

// sfDefineMacro mirrors define's procedure shape but stores the result in the
// macro namespace instead of the value namespace.
func sfDefineMacro(_ *Interp, args []Value, env *Env) (Value, *TailCall) {
	name, p := defineProc(args, env, "define-macro")
	env.DefineMacro(name, p)
	return Void, nil
}

// defineProc builds the compound procedure for the list-headed define shape
// ((name . params) body...).
func defineProc(args []Value, env *Env, form string) (string, *Proc) {
	header, ok := args[0].AsList()
	if !ok || header.Empty() {
		failf("%s: first argument must be a symbol or a (name . params) list", form)
	}
	name, ok := header.Elems()[0].AsSym()
	if !ok {
		failf("%s: procedure name must be a symbol, got %s", form, header.Elems()[0].Tag)
	}
	paramSpec, _ := header.Cdr()
	return name, &Proc{
		Name:   name,
		Params: parseParams(paramSpec, form),
		Body:   args[1:],
		Env:    env,
	}
}

func sfSet(ip *Interp, args []Value, env *Env) (Value, *TailCall) {
	name, ok := args[0].AsSym()
	if !ok {
		failf("set!: expected a symbol, got %s", args[0].Tag)
	}
	v := ip.eval(args[1], env)
	if !env.Set(name, v) {
		failf("set!: unbound symbol: %s", name)
	}
	return Void, nil
}

// bindingPairs decomposes a let/letrec binding list into names and init
// expressions.
func bindingPairs(spec Value, form string) ([]string, []Value) {
	lst, ok := spec.AsList()
	if !ok || lst.Kind() == DottedList {
		failf("%s: bindings must be a proper list", form)
	}
	names := make([]string, len(lst.Elems()))
	inits := make([]Value, len(lst.Elems()))
	for i, b := range lst.Elems() {
		pair, ok := b.AsList()
		if !ok || pair.Kind() == DottedList || pair.Len() != 2 {
			failf("%s: each binding must be a (name init) pair", form)
		}
		n, ok := pair.Elems()[0].AsSym()
		if !ok {
			failf("%s: binding name must be a symbol, got %s", form, pair.Elems()[0].Tag)
		}
		names[i] = n
		inits[i] = pair.Elems()[1]
	}
	return names, inits
}

// sfLet implements both let shapes. The anonymous form evaluates every init
// in the outer environment (no mutual visibility) before binding. The named
// form (let name ((v init)...) body...) builds a self-referential closure in
// a fresh scope and applies it to the evaluated inits; iteration is expressed
// this way, so the application must flow through the trampoline.
func sfLet(ip *Interp, args []Value, env *Env) (Value, *TailCall) {
	if name, ok := args[0].AsSym(); ok {
		if len(args) < 3 {
			failf("let %s: missing body", name)
		}
		names, inits := bindingPairs(args[1], "let")
		vals := make([]Value, len(inits))
		for i, init := range inits {
			vals[i] = ip.eval(init, env)
		}
		loopEnv := NewEnv(env)
		p := &Proc{
			Name:   name,
			Params: Params{Kind: ParamsFixed, Names: names},
			Body:   args[2:],
			Env:    loopEnv,
		}
		loopEnv.Define(name, ProcVal(p))
		return ip.applyCompound(p, vals)
	}

	names, inits := bindingPairs(args[0], "let")
	child := NewEnv(env)
	for i, init := range inits {
		child.Define(names[i], ip.eval(init, env))
	}
	return evalBodyTail(ip, args[1:], child)
}

// sfLetrec evaluates each init inside the new scope, which already contains
// every name (bound to void until initialized), so mutually recursive
// definitions are legal.
func sfLetrec(ip *Interp, args []Value, env *Env) (Value, *TailCall) {
	names, inits := bindingPairs(args[0], "letrec")
	child := NewEnv(env)
	for _, n := range names {
		child.Define(n, Void)
	}
	for i, init := range inits {
		child.Define(names[i], ip.eval(init, child))
	}
	return evalBodyTail(ip, args[1:], child)
}

// evalBodyTail runs all but the last body expression for effect and returns
// the last as a tail call. An empty body yields void.
func evalBodyTail(ip *Interp, body []Value, env *Env) (Value, *TailCall) {
	if len(body) == 0 {
		return Void, nil
	}
	for i := 0; i < len(body)-1; i++ {
		ip.eval(body[i], env)
	}
	return Value{}, &TailCall{Expr: body[len(body)-1], Env: env}
}

func sfIf(ip *Interp, args []Value, env *Env) (Value, *TailCall) {
	if isTruthy(ip.eval(args[0], env)) {
		return Value{}, &TailCall{Expr: args[1], Env: env}
	}
	if len(args) == 3 {
		return Value{}, &TailCall{Expr: args[2], Env: env}
	}
	return Void, nil
}

// sfCond tests clauses in order. An else clause must be syntactically last; a
// (test => receiver) clause applies receiver to the test's value. The final
// expression of the taken clause is a tail call. No clause taken yields void.
func sfCond(ip *Interp, args []Value, env *Env) (Value, *TailCall) {
	for i, c := range args {
		clause, ok := c.AsList()
		if !ok || clause.Empty() || clause.Kind() == DottedList {
			fail("cond: each clause must be a non-empty proper list")
		}
		elems := clause.Elems()

		if elems[0].IsSym("else") {
			if i != len(args)-1 {
				fail("cond: else clause must be last")
			}
			if len(elems) == 1 {
				fail("cond: else clause needs at least one expression")
			}
			return evalBodyTail(ip, elems[1:], env)
		}

		test := ip.eval(elems[0], env)
		if !isTruthy(test) {
			continue
		}
		if len(elems) == 1 {
			return test, nil
		}
		if elems[1].IsSym("=>") {
			if len(elems) != 3 {
				fail("cond: => clause must be (test => receiver)")
			}
			recv, ok := ip.eval(elems[2], env).AsProc()
			if !ok {
				fail("cond: => receiver must be a procedure")
			}
			if !receiverTakesOne(recv) {
				failf("cond: => receiver %s must accept exactly one argument", recv.DisplayName())
			}
			return ip.apply(recv, []Value{test}, env)
		}
		return evalBodyTail(ip, elems[1:], env)
	}
	return Void, nil
}

// receiverTakesOne checks that a cond => receiver can be applied to a single
// value.
func receiverTakesOne(p *Proc) bool {
	if p.Atomic() {
		return p.Arity.Check(1)
	}
	switch p.Params.Kind {
	case ParamsFixed:
		return len(p.Params.Names) == 1
	case ParamsMixed:
		return len(p.Params.Names) <= 1
	default:
		return true
	}
}

// sfAnd short-circuits on the first false operand; the final operand is a
// tail call. (and) is #t.
func sfAnd(ip *Interp, args []Value, env *Env) (Value, *TailCall) {
	if len(args) == 0 {
		return True, nil
	}
	for _, a := range args[:len(args)-1] {
		if v := ip.eval(a, env); !isTruthy(v) {
			return v, nil
		}
	}
	return Value{}, &TailCall{Expr: args[len(args)-1], Env: env}
}

// sfOr short-circuits on the first truthy operand; the final operand is a
// tail call. (or) is #f.
func sfOr(ip *Interp, args []Value, env *Env) (Value, *TailCall) {
	if len(args) == 0 {
		return False, nil
	}
	for _, a := range args[:len(args)-1] {
		if v := ip.eval(a, env); isTruthy(v) {
			return v, nil
		}
	}
	return Value{}, &TailCall{Expr: args[len(args)-1], Env: env}
}

func sfBegin(ip *Interp, args []Value, env *Env) (Value, *TailCall) {
	return evalBodyTail(ip, args, env)
}

// sfQuasiquote walks a template. A sub-list headed by unquote evaluates and
// substitutes its single result; one headed by unquote-splicing must evaluate
// to a list whose members splice in place. Plain sub-lists are walked
// recursively with the same single-level recognition at every depth.
func sfQuasiquote(ip *Interp, args []Value, env *Env) (Value, *TailCall) {
	return ip.qqExpand(args[0], env), nil
}

func (ip *Interp) qqExpand(tmpl Value, env *Env) Value {
	lst, ok := tmpl.AsList()
	if !ok || lst.Empty() {
		return tmpl
	}

	elems := lst.Elems()
	if elems[0].IsSym("unquote") {
		if lst.Len() != 2 || lst.Kind() == DottedList {
			fail("unquote expects exactly one expression")
		}
		return ip.eval(elems[1], env)
	}
	if elems[0].IsSym("unquote-splicing") {
		fail("unquote-splicing is only valid inside a list template")
	}

	out := make([]Value, 0, len(elems))
	for _, e := range elems {
		if sub, isList := e.AsList(); isList && !sub.Empty() && sub.Elems()[0].IsSym("unquote-splicing") {
			if sub.Len() != 2 || sub.Kind() == DottedList {
				fail("unquote-splicing expects exactly one expression")
			}
			spliced := ip.eval(sub.Elems()[1], env)
			sl, ok := spliced.AsList()
			if !ok {
				failf("unquote-splicing: expected a list, got %s", spliced.Tag)
			}
			out = append(out, sl.Elems()...)
			if rest, dotted := sl.Last(); dotted {
				out = append(out, rest)
			}
			continue
		}
		out = append(out, ip.qqExpand(e, env))
	}
	if rest, dotted := lst.Last(); dotted {
		return ListVal(NewDotted(out, ip.qqExpand(rest, env)))
	}
	return ListVal(NewList(out...))
}
