// eval.go — the evaluation engine.
//
// OVERVIEW
// ========
// Interp is the public entry point. It owns the root environment, which a
// single construction call (New) pre-populates with every special form and
// primitive; that environment is the only supported way to obtain a usable
// evaluation context.
//
// EVALUATION PROTOCOL
// -------------------
// eval is a loop, not unbounded recursion. One step consumes an
// (expression, environment) pair and produces either a final value or a
// *TailCall carrying the next pair; the loop feeds tail calls straight back
// in. Procedure bodies, if/cond branches and the final operand of and/or all
// surface as tail calls, so tail-recursive programs run in O(1) Go stack.
// Operator and argument expressions are evaluated with ordinary recursion:
// those are not tail positions.
//
// ERROR DISCIPLINE
// ----------------
// Inside the engine, failures are raised by panicking with *EvalError via
// fail/failf (undefined symbols, arity violations, type mismatches, malformed
// special forms). The public Eval* methods recover exactly once and surface
// the failure as a Go error. There is no local recovery below the surface:
// any error aborts the whole evaluation.
package lisp

import "fmt"

// EvalError is the single runtime error kind: a human-readable message.
type EvalError struct {
	Msg string
}

func (e *EvalError) Error() string { return e.Msg }

// fail aborts the current evaluation with a runtime error.
func fail(msg string) {
	panic(&EvalError{Msg: msg})
}

func failf(format string, args ...interface{}) {
	panic(&EvalError{Msg: fmt.Sprintf(format, args...)})
}

// Interp evaluates expression trees produced by the parser.
type Interp struct {
	Root *Env
}

// New constructs an interpreter whose root environment is populated with all
// special forms and primitives.
func New() *Interp {
	ip := &Interp{Root: NewEnv(nil)}
	registerSpecialForms(ip)
	registerCoreBuiltins(ip)
	registerListBuiltins(ip)
	registerStringBuiltins(ip)
	registerIOBuiltins(ip)
	return ip
}

// RegisterPrimitive installs a named atomic procedure into the root
// environment. The arity contract is enforced centrally before fn runs.
func (ip *Interp) RegisterPrimitive(name string, arity Arity, fn NativeFn) {
	ip.Root.Define(name, ProcVal(&Proc{Name: name, Arity: arity, Native: fn}))
}

// registerSpecial installs a special form: fn receives its operands
// unevaluated.
func (ip *Interp) registerSpecial(name string, arity Arity, fn NativeFn) {
	ip.Root.Define(name, ProcVal(&Proc{Name: name, Special: true, Arity: arity, Native: fn}))
}

// Eval evaluates one expression in env, converting engine failures to error.
func (ip *Interp) Eval(expr Value, env *Env) (out Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			switch sig := r.(type) {
			case *EvalError:
				out, err = Value{}, sig
			case error:
				out, err = Value{}, &EvalError{Msg: sig.Error()}
			default:
				out, err = Value{}, &EvalError{Msg: fmt.Sprintf("runtime panic: %v", r)}
			}
		}
	}()
	return ip.eval(expr, env), nil
}

// EvalProgram folds a parsed top-level sequence left to right in env,
// discarding intermediate results. An empty sequence yields void.
func (ip *Interp) EvalProgram(exprs []Value, env *Env) (Value, error) {
	out := Void
	for _, e := range exprs {
		v, err := ip.Eval(e, env)
		if err != nil {
			return Value{}, err
		}
		out = v
	}
	return out, nil
}

// EvalSource parses and evaluates src in the root environment.
func (ip *Interp) EvalSource(src string) (Value, error) {
	exprs, err := ParseSource(src)
	if err != nil {
		return Value{}, WrapErrorWithSource(err, src)
	}
	return ip.EvalProgram(exprs, ip.Root)
}

// eval is the trampoline. It loops until a step yields a final value.
func (ip *Interp) eval(expr Value, env *Env) Value {
	for {
		switch expr.Tag {
		case TagInt, TagFloat, TagStr, TagChar, TagBool:
			return expr

		case TagSym:
			name := expr.Data.(string)
			v, ok := env.Get(name)
			if !ok {
				failf("undefined symbol: %s", name)
			}
			return v

		case TagList:
			form := expr.Data.(*List)
			if form.Empty() {
				fail("cannot call the empty list")
			}
			if form.Kind() == DottedList {
				failf("cannot call dotted list %s", WriteString(expr))
			}

			head := form.Elems()[0]
			// Macro dispatch happens before ordinary value dispatch: a symbol
			// head with a visible macro definition rewrites the whole form and
			// re-enters the loop with the expansion.
			if name, ok := head.AsSym(); ok {
				if m, found := env.GetMacro(name); found {
					expr = ip.expandMacro(m, form, env)
					continue
				}
			}

			op := ip.eval(head, env)
			p, ok := op.AsProc()
			if !ok {
				failf("%s is not a procedure", WriteString(op))
			}

			operands := form.Elems()[1:]
			var result Value
			var tc *TailCall
			if p.Special {
				result, tc = ip.applyAtomic(p, operands, env)
			} else {
				args := make([]Value, len(operands))
				for i, a := range operands {
					args[i] = ip.eval(a, env)
				}
				result, tc = ip.apply(p, args, env)
			}
			if tc != nil {
				expr, env = tc.Expr, tc.Env
				continue
			}
			return result

		default:
			failf("%s value cannot be evaluated", expr.Tag)
		}
	}
}

// apply invokes p on already-evaluated args, yielding a value or a tail call.
func (ip *Interp) apply(p *Proc, args []Value, env *Env) (Value, *TailCall) {
	if p.Atomic() {
		return ip.applyAtomic(p, args, env)
	}
	return ip.applyCompound(p, args)
}

// Apply invokes p on args and drives any resulting tail call to completion.
// This is the entry point for primitives that re-enter the evaluator (apply,
// map, macro expansion) and for host embedding.
func (ip *Interp) Apply(p *Proc, args []Value, env *Env) Value {
	v, tc := ip.apply(p, args, env)
	if tc != nil {
		return ip.eval(tc.Expr, tc.Env)
	}
	return v
}

func (ip *Interp) applyAtomic(p *Proc, args []Value, env *Env) (Value, *TailCall) {
	if !p.Arity.Check(len(args)) {
		failf("%s expects %s argument(s), got %d", p.DisplayName(), p.Arity, len(args))
	}
	return p.Native(ip, args, env)
}

// applyCompound binds parameters in a fresh child of the *captured*
// environment (lexical scoping), evaluates all but the last body expression
// for effect, and hands the last one back as a tail call.
func (ip *Interp) applyCompound(p *Proc, args []Value) (Value, *TailCall) {
	callEnv := NewEnv(p.Env)
	switch p.Params.Kind {
	case ParamsFixed:
		if len(args) != len(p.Params.Names) {
			failf("%s expects exactly %d argument(s), got %d",
				p.DisplayName(), len(p.Params.Names), len(args))
		}
		for i, n := range p.Params.Names {
			callEnv.Define(n, args[i])
		}
	case ParamsVariadic:
		// Callers may reuse their args slice across calls (map feeds one row
		// buffer), so the rest list takes a copy, never the backing array.
		callEnv.Define(p.Params.Rest, ListVal(NewList(append([]Value(nil), args...)...)))
	case ParamsMixed:
		if len(args) < len(p.Params.Names) {
			failf("%s expects at least %d argument(s), got %d",
				p.DisplayName(), len(p.Params.Names), len(args))
		}
		for i, n := range p.Params.Names {
			callEnv.Define(n, args[i])
		}
		rest := append([]Value(nil), args[len(p.Params.Names):]...)
		callEnv.Define(p.Params.Rest, ListVal(NewList(rest...)))
	}

	for i := 0; i < len(p.Body)-1; i++ {
		ip.eval(p.Body[i], callEnv)
	}
	return Value{}, &TailCall{Expr: p.Body[len(p.Body)-1], Env: callEnv}
}

// expandMacro applies a macro definition to the unevaluated operands of form
// and returns the rewritten expression.
func (ip *Interp) expandMacro(m *Proc, form *List, env *Env) Value {
	return ip.Apply(m, form.Elems()[1:], env)
}

// isTruthy: everything except #f counts as true.
func isTruthy(v Value) bool {
	b, ok := v.AsBool()
	return !ok || b
}
