// value.go — the runtime value model.
//
// Value is a closed tagged union; Tag determines which Go type lives in Data:
//
//	TagInt    int64
//	TagFloat  float64
//	TagSym    string (interned by content; symbols compare by name)
//	TagStr    *StrBuf (shared mutable buffer; aliases see mutation)
//	TagChar   rune
//	TagBool   bool
//	TagList   *List (see list.go)
//	TagVoid   nil (evaluation-only; not constructible from source)
//	TagProc   *Proc (see proc.go)
//	TagPort   *Port (see builtin_io.go)
//
// Three equality relations are exposed, matching the eq?/eqv?/equal? split:
// Eq and Eqv compare strings, lists, procedures and ports by identity;
// Equal descends into strings and lists structurally.
package lisp

import (
	"fmt"
	"strconv"
)

// Tag enumerates all runtime kinds a Value may hold.
type Tag int

const (
	TagInt Tag = iota
	TagFloat
	TagSym
	TagStr
	TagChar
	TagBool
	TagList
	TagVoid
	TagProc
	TagPort
)

// String returns the kind name used in diagnostics ("integer", "list", ...).
func (t Tag) String() string {
	switch t {
	case TagInt:
		return "integer"
	case TagFloat:
		return "float"
	case TagSym:
		return "symbol"
	case TagStr:
		return "string"
	case TagChar:
		return "char"
	case TagBool:
		return "boolean"
	case TagList:
		return "list"
	case TagVoid:
		return "void"
	case TagProc:
		return "procedure"
	case TagPort:
		return "port"
	default:
		return "unknown"
	}
}

// Value is the universal runtime carrier used by the evaluator.
type Value struct {
	Tag  Tag
	Data interface{}
}

// Void is the singleton unspecified value (result of define, one-armed if, ...).
var Void = Value{Tag: TagVoid}

// True and False are the canonical boolean values.
var (
	True  = Value{Tag: TagBool, Data: true}
	False = Value{Tag: TagBool, Data: false}
)

// Primitive constructors.
func Int(n int64) Value      { return Value{Tag: TagInt, Data: n} }
func Float(f float64) Value  { return Value{Tag: TagFloat, Data: f} }
func Sym(name string) Value  { return Value{Tag: TagSym, Data: name} }
func Char(r rune) Value      { return Value{Tag: TagChar, Data: r} }
func Bool(b bool) Value      { return Value{Tag: TagBool, Data: b} }
func ListVal(l *List) Value  { return Value{Tag: TagList, Data: l} }
func ProcVal(p *Proc) Value  { return Value{Tag: TagProc, Data: p} }
func PortVal(p *Port) Value  { return Value{Tag: TagPort, Data: p} }
func StrVal(b *StrBuf) Value { return Value{Tag: TagStr, Data: b} }

// Str allocates a fresh mutable buffer holding s.
func Str(s string) Value { return StrVal(NewStrBuf(s)) }

// Typed extractors. Each returns the unwrapped payload and true, or the zero
// payload and false, leaving the original Value untouched for error messages.
func (v Value) AsInt() (int64, bool) {
	if v.Tag == TagInt {
		return v.Data.(int64), true
	}
	return 0, false
}

func (v Value) AsFloat() (float64, bool) {
	if v.Tag == TagFloat {
		return v.Data.(float64), true
	}
	return 0, false
}

func (v Value) AsSym() (string, bool) {
	if v.Tag == TagSym {
		return v.Data.(string), true
	}
	return "", false
}

func (v Value) AsStr() (*StrBuf, bool) {
	if v.Tag == TagStr {
		return v.Data.(*StrBuf), true
	}
	return nil, false
}

func (v Value) AsChar() (rune, bool) {
	if v.Tag == TagChar {
		return v.Data.(rune), true
	}
	return 0, false
}

func (v Value) AsBool() (bool, bool) {
	if v.Tag == TagBool {
		return v.Data.(bool), true
	}
	return false, false
}

func (v Value) AsList() (*List, bool) {
	if v.Tag == TagList {
		return v.Data.(*List), true
	}
	return nil, false
}

func (v Value) AsProc() (*Proc, bool) {
	if v.Tag == TagProc {
		return v.Data.(*Proc), true
	}
	return nil, false
}

func (v Value) AsPort() (*Port, bool) {
	if v.Tag == TagPort {
		return v.Data.(*Port), true
	}
	return nil, false
}

// IsSym reports whether v is the symbol named name.
func (v Value) IsSym(name string) bool {
	s, ok := v.AsSym()
	return ok && s == name
}

// String renders a debug representation; the printer owns user-facing output.
func (v Value) String() string {
	switch v.Tag {
	case TagInt:
		return strconv.FormatInt(v.Data.(int64), 10)
	case TagFloat:
		return strconv.FormatFloat(v.Data.(float64), 'g', -1, 64)
	case TagSym:
		return v.Data.(string)
	case TagStr:
		return fmt.Sprintf("%q", v.Data.(*StrBuf).String())
	case TagChar:
		return fmt.Sprintf("#\\%c", v.Data.(rune))
	case TagBool:
		if v.Data.(bool) {
			return "#t"
		}
		return "#f"
	case TagList:
		return fmt.Sprintf("<list len=%d>", v.Data.(*List).Len())
	case TagVoid:
		return "#<void>"
	case TagProc:
		return "#<procedure>"
	case TagPort:
		return "#<port>"
	default:
		return "#<unknown>"
	}
}

// StrBuf is the shared, content-mutable string buffer behind TagStr values.
// Binding or passing a string value copies the reference, never the runes, so
// string-set! through one alias is visible through all.
type StrBuf struct {
	runes []rune
}

func NewStrBuf(s string) *StrBuf { return &StrBuf{runes: []rune(s)} }

func (b *StrBuf) String() string { return string(b.runes) }
func (b *StrBuf) Len() int       { return len(b.runes) }

func (b *StrBuf) At(i int) (rune, bool) {
	if i < 0 || i >= len(b.runes) {
		return 0, false
	}
	return b.runes[i], true
}

func (b *StrBuf) Set(i int, r rune) bool {
	if i < 0 || i >= len(b.runes) {
		return false
	}
	b.runes[i] = r
	return true
}

func (b *StrBuf) Runes() []rune { return b.runes }

// Eq is identity comparison: value comparison for immediates (numbers, chars,
// booleans, symbols, void), pointer comparison for strings, lists, procedures
// and ports.
func Eq(a, b Value) bool {
	if a.Tag != b.Tag {
		return false
	}
	switch a.Tag {
	case TagInt:
		return a.Data.(int64) == b.Data.(int64)
	case TagFloat:
		return a.Data.(float64) == b.Data.(float64)
	case TagSym:
		return a.Data.(string) == b.Data.(string)
	case TagChar:
		return a.Data.(rune) == b.Data.(rune)
	case TagBool:
		return a.Data.(bool) == b.Data.(bool)
	case TagVoid:
		return true
	case TagStr:
		return a.Data.(*StrBuf) == b.Data.(*StrBuf)
	case TagList:
		la, lb := a.Data.(*List), b.Data.(*List)
		// All empty lists are interchangeable.
		if la.Empty() && lb.Empty() {
			return true
		}
		return la == lb
	case TagProc:
		return a.Data.(*Proc) == b.Data.(*Proc)
	case TagPort:
		return a.Data.(*Port) == b.Data.(*Port)
	default:
		return false
	}
}

// Eqv coincides with Eq for this value model (no boxed numbers to unbox).
func Eqv(a, b Value) bool { return Eq(a, b) }

// Equal is structural equality: strings by content, lists element-wise and
// recursively, everything else as Eqv.
func Equal(a, b Value) bool {
	if a.Tag != b.Tag {
		return false
	}
	switch a.Tag {
	case TagStr:
		return a.Data.(*StrBuf).String() == b.Data.(*StrBuf).String()
	case TagList:
		la, lb := a.Data.(*List), b.Data.(*List)
		if len(la.elems) != len(lb.elems) || (la.last == nil) != (lb.last == nil) {
			return false
		}
		for i := range la.elems {
			if !Equal(la.elems[i], lb.elems[i]) {
				return false
			}
		}
		if la.last != nil && !Equal(*la.last, *lb.last) {
			return false
		}
		return true
	default:
		return Eqv(a, b)
	}
}
