package lisp

import (
	"strconv"
	"strings"
	"unicode"
)

// ---- string & char built-ins -------------------------------------------
//
// Strings are shared mutable buffers: binding or passing a string copies the
// reference, so string-set! through one alias is visible through every other.
// Primitives that produce a new string always allocate a fresh buffer.

func registerStringBuiltins(ip *Interp) {
	ip.RegisterPrimitive("string-length", Exactly(1), func(_ *Interp, args []Value, _ *Env) (Value, *TailCall) {
		return Int(int64(wantStrArg("string-length", args[0]).Len())), nil
	})

	ip.RegisterPrimitive("string-ref", Exactly(2), func(_ *Interp, args []Value, _ *Env) (Value, *TailCall) {
		b := wantStrArg("string-ref", args[0])
		i := wantIntArg("string-ref", args[1])
		r, ok := b.At(int(i))
		if !ok {
			failf("string-ref: index %d out of range for string of length %d", i, b.Len())
		}
		return Char(r), nil
	})

	// string-set! mutates the shared buffer in place.
	ip.RegisterPrimitive("string-set!", Exactly(3), func(_ *Interp, args []Value, _ *Env) (Value, *TailCall) {
		b := wantStrArg("string-set!", args[0])
		i := wantIntArg("string-set!", args[1])
		r := wantCharArg("string-set!", args[2])
		if !b.Set(int(i), r) {
			failf("string-set!: index %d out of range for string of length %d", i, b.Len())
		}
		return Void, nil
	})

	ip.RegisterPrimitive("substring", Exactly(3), func(_ *Interp, args []Value, _ *Env) (Value, *TailCall) {
		b := wantStrArg("substring", args[0])
		i := wantIntArg("substring", args[1])
		j := wantIntArg("substring", args[2])
		if i < 0 || j < int64(0) || i > j || j > int64(b.Len()) {
			failf("substring: invalid range [%d, %d) for string of length %d", i, j, b.Len())
		}
		return Str(string(b.Runes()[i:j])), nil
	})

	ip.RegisterPrimitive("string-append", AnyArity(), func(_ *Interp, args []Value, _ *Env) (Value, *TailCall) {
		var sb strings.Builder
		for _, a := range args {
			sb.WriteString(wantStrArg("string-append", a).String())
		}
		return Str(sb.String()), nil
	})

	ip.RegisterPrimitive("string-copy", Exactly(1), func(_ *Interp, args []Value, _ *Env) (Value, *TailCall) {
		return Str(wantStrArg("string-copy", args[0]).String()), nil
	})

	ip.RegisterPrimitive("string=?", Exactly(2), func(_ *Interp, args []Value, _ *Env) (Value, *TailCall) {
		a := wantStrArg("string=?", args[0])
		b := wantStrArg("string=?", args[1])
		return Bool(a.String() == b.String()), nil
	})

	ip.RegisterPrimitive("string->symbol", Exactly(1), func(_ *Interp, args []Value, _ *Env) (Value, *TailCall) {
		return Sym(wantStrArg("string->symbol", args[0]).String()), nil
	})

	ip.RegisterPrimitive("symbol->string", Exactly(1), func(_ *Interp, args []Value, _ *Env) (Value, *TailCall) {
		s, ok := args[0].AsSym()
		if !ok {
			failf("symbol->string: expected a symbol, got %s", args[0].Tag)
		}
		return Str(s), nil
	})

	// string->number returns #f on unparseable input rather than failing.
	ip.RegisterPrimitive("string->number", Exactly(1), func(_ *Interp, args []Value, _ *Env) (Value, *TailCall) {
		s := wantStrArg("string->number", args[0]).String()
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return Int(n), nil
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return Float(f), nil
		}
		return False, nil
	})

	ip.RegisterPrimitive("number->string", Exactly(1), func(_ *Interp, args []Value, _ *Env) (Value, *TailCall) {
		switch args[0].Tag {
		case TagInt:
			return Str(strconv.FormatInt(args[0].Data.(int64), 10)), nil
		case TagFloat:
			return Str(strconv.FormatFloat(args[0].Data.(float64), 'g', -1, 64)), nil
		default:
			failf("number->string: expected a number, got %s", args[0].Tag)
			return Void, nil
		}
	})

	ip.RegisterPrimitive("string->list", Exactly(1), func(_ *Interp, args []Value, _ *Env) (Value, *TailCall) {
		b := wantStrArg("string->list", args[0])
		out := make([]Value, b.Len())
		for i, r := range b.Runes() {
			out[i] = Char(r)
		}
		return ListVal(NewList(out...)), nil
	})

	ip.RegisterPrimitive("list->string", Exactly(1), func(_ *Interp, args []Value, _ *Env) (Value, *TailCall) {
		l := wantProperArg("list->string", args[0])
		runes := make([]rune, len(l.Elems()))
		for i, v := range l.Elems() {
			runes[i] = wantCharArg("list->string", v)
		}
		return Str(string(runes)), nil
	})

	ip.RegisterPrimitive("char->integer", Exactly(1), func(_ *Interp, args []Value, _ *Env) (Value, *TailCall) {
		return Int(int64(wantCharArg("char->integer", args[0]))), nil
	})

	ip.RegisterPrimitive("integer->char", Exactly(1), func(_ *Interp, args []Value, _ *Env) (Value, *TailCall) {
		return Char(rune(wantIntArg("integer->char", args[0]))), nil
	})

	ip.RegisterPrimitive("char-upcase", Exactly(1), func(_ *Interp, args []Value, _ *Env) (Value, *TailCall) {
		return Char(unicode.ToUpper(wantCharArg("char-upcase", args[0]))), nil
	})

	ip.RegisterPrimitive("char-downcase", Exactly(1), func(_ *Interp, args []Value, _ *Env) (Value, *TailCall) {
		return Char(unicode.ToLower(wantCharArg("char-downcase", args[0]))), nil
	})
}

func wantStrArg(name string, v Value) *StrBuf {
	b, ok := v.AsStr()
	if !ok {
		failf("%s: expected a string, got %s", name, v.Tag)
	}
	return b
}

func wantCharArg(name string, v Value) rune {
	r, ok := v.AsChar()
	if !ok {
		failf("%s: expected a char, got %s", name, v.Tag)
	}
	return r
}
