// printer.go — rendering values back to surface syntax.
//
// WriteString produces the machine-readable form (strings quoted, chars as
// #\x); DisplayString produces the human form (string contents raw, chars
// bare). Lists re-render quote sugar, so (quote x) prints as 'x.
package lisp

import (
	"fmt"
	"strconv"
	"strings"
)

// WriteString renders v in write (machine) form.
func WriteString(v Value) string {
	var sb strings.Builder
	printValue(&sb, v, true)
	return sb.String()
}

// DisplayString renders v in display (human) form.
func DisplayString(v Value) string {
	var sb strings.Builder
	printValue(&sb, v, false)
	return sb.String()
}

var sugarNames = map[string]string{
	"quote":            "'",
	"quasiquote":       "`",
	"unquote":          ",",
	"unquote-splicing": ",@",
}

func printValue(sb *strings.Builder, v Value, machine bool) {
	switch v.Tag {
	case TagInt:
		sb.WriteString(strconv.FormatInt(v.Data.(int64), 10))
	case TagFloat:
		sb.WriteString(formatFloat(v.Data.(float64)))
	case TagSym:
		sb.WriteString(v.Data.(string))
	case TagStr:
		if machine {
			sb.WriteString(strconv.Quote(v.Data.(*StrBuf).String()))
		} else {
			sb.WriteString(v.Data.(*StrBuf).String())
		}
	case TagChar:
		if machine {
			sb.WriteString(formatChar(v.Data.(rune)))
		} else {
			sb.WriteRune(v.Data.(rune))
		}
	case TagBool:
		if v.Data.(bool) {
			sb.WriteString("#t")
		} else {
			sb.WriteString("#f")
		}
	case TagList:
		printList(sb, v.Data.(*List), machine)
	case TagVoid:
		sb.WriteString("#<void>")
	case TagProc:
		p := v.Data.(*Proc)
		if p.Atomic() {
			fmt.Fprintf(sb, "#<primitive %s>", p.Name)
		} else {
			fmt.Fprintf(sb, "#<procedure %s>", p.DisplayName())
		}
	case TagPort:
		fmt.Fprintf(sb, "#<port %s>", v.Data.(*Port).Name)
	default:
		sb.WriteString("#<unknown>")
	}
}

func printList(sb *strings.Builder, l *List, machine bool) {
	// Quote sugar round-trips: (quote x) renders as 'x.
	if l.Kind() == ProperList && l.Len() == 2 {
		if name, ok := l.Elems()[0].AsSym(); ok {
			if sugar, found := sugarNames[name]; found {
				sb.WriteString(sugar)
				printValue(sb, l.Elems()[1], machine)
				return
			}
		}
	}

	sb.WriteByte('(')
	for i, e := range l.Elems() {
		if i > 0 {
			sb.WriteByte(' ')
		}
		printValue(sb, e, machine)
	}
	if last, dotted := l.Last(); dotted {
		sb.WriteString(" . ")
		printValue(sb, last, machine)
	}
	sb.WriteByte(')')
}

// formatFloat keeps a trailing ".0" on integral floats so the reader sees a
// float again.
func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

func formatChar(r rune) string {
	switch r {
	case ' ':
		return "#\\space"
	case '\n':
		return "#\\newline"
	case '\t':
		return "#\\tab"
	default:
		return "#\\" + string(r)
	}
}
