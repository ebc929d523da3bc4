package lisp

import (
	"strings"
	"testing"
)

// --- helpers ---------------------------------------------------------------

func evalSrc(t *testing.T, src string) Value {
	t.Helper()
	ip := New()
	v, err := ip.EvalSource(src)
	if err != nil {
		t.Fatalf("EvalSource error: %v\nsource:\n%s", err, src)
	}
	return v
}

func evalErr(t *testing.T, src string) error {
	t.Helper()
	ip := New()
	_, err := ip.EvalSource(src)
	if err == nil {
		t.Fatalf("expected an error for %q, got none", src)
	}
	return err
}

func wantErrContains(t *testing.T, src, substr string) {
	t.Helper()
	err := evalErr(t, src)
	if !strings.Contains(strings.ToLower(err.Error()), strings.ToLower(substr)) {
		t.Fatalf("error for %q should mention %q, got: %v", src, substr, err)
	}
}

func wantInt(t *testing.T, v Value, n int64) {
	t.Helper()
	if v.Tag != TagInt || v.Data.(int64) != n {
		t.Fatalf("want int %d, got %#v", n, v)
	}
}

func wantFloat(t *testing.T, v Value, f float64) {
	t.Helper()
	if v.Tag != TagFloat || v.Data.(float64) != f {
		t.Fatalf("want float %g, got %#v", f, v)
	}
}

func wantBool(t *testing.T, v Value, b bool) {
	t.Helper()
	if v.Tag != TagBool || v.Data.(bool) != b {
		t.Fatalf("want bool %v, got %#v", b, v)
	}
}

func wantSym(t *testing.T, v Value, name string) {
	t.Helper()
	if v.Tag != TagSym || v.Data.(string) != name {
		t.Fatalf("want symbol %s, got %#v", name, v)
	}
}

func wantStr(t *testing.T, v Value, s string) {
	t.Helper()
	b, ok := v.AsStr()
	if !ok || b.String() != s {
		t.Fatalf("want string %q, got %#v", s, v)
	}
}

func wantVoid(t *testing.T, v Value) {
	t.Helper()
	if v.Tag != TagVoid {
		t.Fatalf("want void, got %#v", v)
	}
}

// wantWritten compares the write-form rendering, the easiest way to assert on
// list results.
func wantWritten(t *testing.T, v Value, s string) {
	t.Helper()
	if got := WriteString(v); got != s {
		t.Fatalf("want %s, got %s", s, got)
	}
}

// --- tests -----------------------------------------------------------------

func Test_Eval_SelfEvaluating(t *testing.T) {
	wantInt(t, evalSrc(t, "42"), 42)
	wantFloat(t, evalSrc(t, "2.5"), 2.5)
	wantStr(t, evalSrc(t, `"hi"`), "hi")
	wantBool(t, evalSrc(t, "#t"), true)
	wantBool(t, evalSrc(t, "#f"), false)
	if v := evalSrc(t, `#\a`); v.Tag != TagChar || v.Data.(rune) != 'a' {
		t.Fatalf("want char a, got %#v", v)
	}
}

func Test_Eval_EmptyProgramIsVoid(t *testing.T) {
	wantVoid(t, evalSrc(t, ""))
	wantVoid(t, evalSrc(t, "; just a comment"))
}

func Test_Eval_ProgramFoldsLeftToRight(t *testing.T) {
	wantInt(t, evalSrc(t, "(define x 1) (set! x (+ x 1)) x"), 2)
}

func Test_Eval_UndefinedSymbol(t *testing.T) {
	wantErrContains(t, "nope", "undefined symbol: nope")
}

func Test_Eval_CallPositionErrors(t *testing.T) {
	wantErrContains(t, "()", "empty list")
	wantErrContains(t, "(1 2 . 3)", "dotted")
	wantErrContains(t, "(1 2 3)", "not a procedure")
}

func Test_Eval_DefineAndLookup(t *testing.T) {
	wantInt(t, evalSrc(t, "(define x 10) x"), 10)
	wantVoid(t, evalSrc(t, "(define x 10)"))
}

func Test_Eval_DefineTwiceLastWins(t *testing.T) {
	wantInt(t, evalSrc(t, "(define x 1) (define x 2) x"), 2)
}

func Test_Eval_SetMutatesNearestScope(t *testing.T) {
	wantInt(t, evalSrc(t, `
		(define x 1)
		(define (bump) (set! x (+ x 1)))
		(bump)
		(bump)
		x`), 3)
}

func Test_Eval_SetUnboundFails(t *testing.T) {
	wantErrContains(t, "(set! nope 1)", "unbound symbol: nope")
}

func Test_Eval_LambdaFixedParams(t *testing.T) {
	wantInt(t, evalSrc(t, "((lambda (a b) (+ a b)) 3 4)"), 7)
	wantErrContains(t, "((lambda (a b) a) 1)", "expects exactly 2")
	wantErrContains(t, "((lambda (a b) a) 1 2 3)", "expects exactly 2")
}

func Test_Eval_LambdaVariadic(t *testing.T) {
	wantWritten(t, evalSrc(t, "((lambda args args) 1 2 3)"), "(1 2 3)")
	wantWritten(t, evalSrc(t, "((lambda args args))"), "()")
}

func Test_Eval_LambdaMixedParams(t *testing.T) {
	wantWritten(t, evalSrc(t, "(define (f x . y) (list x y)) (f 1 2 3)"), "(1 (2 3))")
	wantWritten(t, evalSrc(t, "(define (f x . y) (list x y)) (f 1)"), "(1 ())")
	wantErrContains(t, "(define (f x . y) y) (f)", "at least 1")
}

func Test_Eval_ClosureCapturesDefinitionEnv(t *testing.T) {
	wantInt(t, evalSrc(t, `
		(define (make-adder n) (lambda (x) (+ x n)))
		(define add5 (make-adder 5))
		(add5 10)`), 15)
}

func Test_Eval_LexicalNotDynamicScoping(t *testing.T) {
	// f sees the n captured at definition, not the caller's n.
	wantInt(t, evalSrc(t, `
		(define n 1)
		(define (f) n)
		(define (g n) (f))
		(g 99)`), 1)
}

func Test_Eval_CounterSharesCapturedScope(t *testing.T) {
	wantInt(t, evalSrc(t, `
		(define (make-counter)
		  (define count 0)
		  (lambda () (set! count (+ count 1)) count))
		(define c (make-counter))
		(c) (c) (c)`), 3)
}

func Test_Eval_If(t *testing.T) {
	wantInt(t, evalSrc(t, "(if #t 1 2)"), 1)
	wantInt(t, evalSrc(t, "(if #f 1 2)"), 2)
	wantVoid(t, evalSrc(t, "(if #f 1)"))
	// Everything except #f is truthy.
	wantInt(t, evalSrc(t, "(if 0 1 2)"), 1)
	wantInt(t, evalSrc(t, `(if "" 1 2)`), 1)
	wantInt(t, evalSrc(t, "(if '() 1 2)"), 1)
}

func Test_Eval_Let(t *testing.T) {
	wantInt(t, evalSrc(t, "(let ((a 1) (b 2)) (+ a b))"), 3)
	// Inits see the outer scope, not each other.
	wantInt(t, evalSrc(t, "(define a 10) (let ((a 1) (b a)) b)"), 10)
}

func Test_Eval_NamedLetIteration(t *testing.T) {
	wantInt(t, evalSrc(t, `
		(let loop ((i 0) (acc 0))
		  (if (= i 5) acc (loop (+ i 1) (+ acc i))))`), 10)
}

func Test_Eval_Letrec(t *testing.T) {
	wantInt(t, evalSrc(t, `
		(letrec ((f (lambda (n) (if (= n 0) 1 (* n (f (- n 1)))))))
		  (f 5))`), 120)
}

func Test_Eval_LetrecMutualRecursion(t *testing.T) {
	wantBool(t, evalSrc(t, `
		(letrec ((even? (lambda (n) (if (= n 0) #t (odd? (- n 1)))))
		         (odd?  (lambda (n) (if (= n 0) #f (even? (- n 1))))))
		  (even? 10))`), true)
}

func Test_Eval_Cond(t *testing.T) {
	wantSym(t, evalSrc(t, "(cond ((= 1 2) 'a) (else 'b))"), "b")
	wantSym(t, evalSrc(t, "(cond ((= 1 1) 'a) (else 'b))"), "a")
	wantVoid(t, evalSrc(t, "(cond ((= 1 2) 'a))"))
	// A test-only clause yields the test value.
	wantInt(t, evalSrc(t, "(cond (42))"), 42)
}

func Test_Eval_CondElseMustBeLast(t *testing.T) {
	wantErrContains(t, "(cond (else 'a) ((= 1 1) 'b))", "else clause must be last")
}

func Test_Eval_CondArrowReceiver(t *testing.T) {
	wantInt(t, evalSrc(t, "(cond ((+ 1 2) => (lambda (x) (* x 10))) (else 0))"), 30)
	wantErrContains(t, "(cond (1 => (lambda (a b) a)))", "exactly one argument")
}

func Test_Eval_AndOr(t *testing.T) {
	wantBool(t, evalSrc(t, "(and)"), true)
	wantBool(t, evalSrc(t, "(or)"), false)
	wantInt(t, evalSrc(t, "(and 1 2 3)"), 3)
	wantBool(t, evalSrc(t, "(and 1 #f 3)"), false)
	wantInt(t, evalSrc(t, "(or #f 2 3)"), 2)
	wantBool(t, evalSrc(t, "(or #f #f)"), false)
}

func Test_Eval_ShortCircuitSkipsLaterOperands(t *testing.T) {
	// The undefined symbol is never reached.
	wantBool(t, evalSrc(t, "(and #f nope)"), false)
	wantInt(t, evalSrc(t, "(or 1 nope)"), 1)
}

func Test_Eval_Quote(t *testing.T) {
	wantSym(t, evalSrc(t, "'x"), "x")
	wantWritten(t, evalSrc(t, "'(1 2 3)"), "(1 2 3)")
	wantWritten(t, evalSrc(t, "'(1 2 . 3)"), "(1 2 . 3)")
	wantWritten(t, evalSrc(t, "''x"), "'x")
}

func Test_Eval_Quasiquote(t *testing.T) {
	wantWritten(t, evalSrc(t, "`(+ 1 ,(+ 2 3))"), "(+ 1 5)")
	wantWritten(t, evalSrc(t, "`(+ 1 ,@(list 2 3))"), "(+ 1 2 3)")
	wantWritten(t, evalSrc(t, "`(a (b ,(+ 1 1)))"), "(a (b 2))")
	wantInt(t, evalSrc(t, "`,(+ 1 2)"), 3)
	wantWritten(t, evalSrc(t, "`(1 ,@'() 2)"), "(1 2)")
}

func Test_Eval_QuasiquoteErrors(t *testing.T) {
	wantErrContains(t, "`(1 ,@2)", "expected a list")
	wantErrContains(t, "`,@(list 1)", "only valid inside a list")
}

func Test_Eval_Begin(t *testing.T) {
	wantInt(t, evalSrc(t, "(begin 1 2 3)"), 3)
	wantVoid(t, evalSrc(t, "(begin)"))
	wantInt(t, evalSrc(t, "(define x 0) (begin (set! x 1) (set! x (+ x 1)) x)"), 2)
}

func Test_Eval_DefineMacro(t *testing.T) {
	wantInt(t, evalSrc(t, `
		(define-macro (unless test then else) (list 'if test else then))
		(unless #f 1 2)`), 1)
	wantInt(t, evalSrc(t, `
		(define-macro (swap-args f a b) (list f b a))
		(swap-args - 1 5)`), 4)
}

func Test_Eval_MacroNamespaceIsSeparate(t *testing.T) {
	// The same name can be a macro without being a value binding.
	wantErrContains(t, `
		(define-macro (m x) x)
		m`, "undefined symbol: m")
	// And a macro rewrite still applies when the name has no value binding.
	wantInt(t, evalSrc(t, `
		(define-macro (m x) x)
		(m 7)`), 7)
}

func Test_Eval_MacroUsesUnevaluatedOperands(t *testing.T) {
	// The operand (nope) would fail if evaluated before expansion.
	wantSym(t, evalSrc(t, `
		(define-macro (name-of form) (list 'quote (car form)))
		(name-of (nope 1 2))`), "nope")
}

func Test_Eval_TailCallBoundedStack(t *testing.T) {
	// 10^6 iterations through a named let must not overflow the Go stack.
	wantInt(t, evalSrc(t, `
		(let loop ((i 0))
		  (if (= i 1000000) i (loop (+ i 1))))`), 1000000)
}

func Test_Eval_TailCallThroughCondAndOr(t *testing.T) {
	wantInt(t, evalSrc(t, `
		(define (down n)
		  (cond ((= n 0) 0)
		        (else (down (- n 1)))))
		(down 200000)`), 0)
	wantBool(t, evalSrc(t, `
		(define (even? n) (or (= n 0) (odd? (- n 1))))
		(define (odd? n) (and (not (= n 0)) (even? (- n 1))))
		(even? 200000)`), true)
}

func Test_Eval_EvalPrimitive(t *testing.T) {
	wantInt(t, evalSrc(t, "(eval '(+ 1 2))"), 3)
	wantInt(t, evalSrc(t, "(define e '(+ 1 2)) (eval e)"), 3)
}

func Test_Eval_ApplyPrimitive(t *testing.T) {
	wantInt(t, evalSrc(t, "(apply + '(1 2 3))"), 6)
	wantInt(t, evalSrc(t, "(apply + 1 2 '(3 4))"), 10)
	wantErrContains(t, "(apply + 1)", "proper list")
}

func Test_Eval_ArityErrorsNameProcedure(t *testing.T) {
	wantErrContains(t, "(car)", "car expects exactly 1 argument(s), got 0")
	wantErrContains(t, "(cons 1)", "cons expects exactly 2 argument(s), got 1")
	wantErrContains(t, "(define (f a) a) (f 1 2)", "f expects exactly 1")
}

func Test_Eval_VoidNotEvaluable(t *testing.T) {
	ip := New()
	if _, err := ip.Eval(Void, ip.Root); err == nil {
		t.Fatal("expected an error evaluating a raw void value")
	}
	p := &Proc{Name: "p", Native: func(*Interp, []Value, *Env) (Value, *TailCall) { return Void, nil }}
	if _, err := ip.Eval(ProcVal(p), ip.Root); err == nil {
		t.Fatal("expected an error evaluating a raw procedure value")
	}
}

func Test_Eval_VariadicRestCopiesCallerArgs(t *testing.T) {
	ip := New()
	v, err := ip.EvalSource("(lambda args args)")
	if err != nil {
		t.Fatalf("EvalSource error: %v", err)
	}
	p, _ := v.AsProc()

	// A host caller may reuse its slice between calls; the returned rest list
	// must not observe the mutation.
	args := []Value{Int(1), Int(2)}
	first := ip.Apply(p, args, ip.Root)
	args[0] = Int(9)
	wantWritten(t, first, "(1 2)")
}

func Test_Eval_HostAPI(t *testing.T) {
	ip := New()
	ip.RegisterPrimitive("double", Exactly(1), func(_ *Interp, args []Value, _ *Env) (Value, *TailCall) {
		n, _ := args[0].AsInt()
		return Int(n * 2), nil
	})
	v, err := ip.EvalSource("(double 21)")
	if err != nil {
		t.Fatalf("EvalSource error: %v", err)
	}
	wantInt(t, v, 42)

	// Apply drives tail calls to completion for host callers.
	addv, _ := ip.Root.Get("+")
	add, _ := addv.AsProc()
	wantInt(t, ip.Apply(add, []Value{Int(1), Int(2)}, ip.Root), 3)
}
