// proc.go — atomic (native) and compound (user-defined) procedures, parameter
// patterns, and arity contracts.
package lisp

import "fmt"

// ArityKind selects one of the four contract shapes.
type ArityKind int

const (
	ArityExact ArityKind = iota
	ArityAtLeast
	ArityAny
	ArityRange
)

// Arity is a procedure's argument-count contract.
type Arity struct {
	Kind ArityKind
	Min  int
	Max  int
}

func Exactly(n int) Arity        { return Arity{Kind: ArityExact, Min: n, Max: n} }
func AtLeast(n int) Arity        { return Arity{Kind: ArityAtLeast, Min: n} }
func AnyArity() Arity            { return Arity{Kind: ArityAny} }
func Between(min, max int) Arity { return Arity{Kind: ArityRange, Min: min, Max: max} }

// Check reports whether n arguments satisfy the contract.
func (a Arity) Check(n int) bool {
	switch a.Kind {
	case ArityExact:
		return n == a.Min
	case ArityAtLeast:
		return n >= a.Min
	case ArityRange:
		return n >= a.Min && n <= a.Max
	default:
		return true
	}
}

func (a Arity) String() string {
	switch a.Kind {
	case ArityExact:
		return fmt.Sprintf("exactly %d", a.Min)
	case ArityAtLeast:
		return fmt.Sprintf("at least %d", a.Min)
	case ArityRange:
		return fmt.Sprintf("between %d and %d", a.Min, a.Max)
	default:
		return "any number of"
	}
}

// TailCall asks the driving loop to continue with Expr in Env instead of
// growing the Go stack (see eval.go).
type TailCall struct {
	Expr Value
	Env  *Env
}

// NativeFn is the host implementation of an atomic procedure. It receives the
// (already evaluated, unless the procedure is a special form) arguments and
// the environment of the call site, and produces either a final value or a
// tail call. Failures are raised through fail/failf.
type NativeFn func(ip *Interp, args []Value, env *Env) (Value, *TailCall)

// ParamsKind selects the parameter-binding pattern of a compound procedure.
type ParamsKind int

const (
	ParamsFixed    ParamsKind = iota // (lambda (a b) ...)
	ParamsVariadic                   // (lambda args ...)
	ParamsMixed                      // (lambda (a b . rest) ...)
)

// Params is a compound procedure's parameter pattern.
type Params struct {
	Kind  ParamsKind
	Names []string // positional names (empty for ParamsVariadic)
	Rest  string   // rest name for ParamsVariadic/ParamsMixed
}

// Proc is the procedure variant. Atomic procedures carry Native and an Arity
// contract; compound procedures carry Params, Body and the environment
// captured at definition time (which is what makes them closures).
type Proc struct {
	Name    string
	Special bool // operands reach Native unevaluated

	// Atomic:
	Arity  Arity
	Native NativeFn

	// Compound:
	Params Params
	Body   []Value
	Env    *Env
}

// Atomic reports whether p is host-implemented.
func (p *Proc) Atomic() bool { return p.Native != nil }

// DisplayName names p in diagnostics; anonymous lambdas get a placeholder.
func (p *Proc) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	return "#<lambda>"
}
