package lisp

import (
	"strings"
	"testing"
)

func parseOne(t *testing.T, src string) Value {
	t.Helper()
	exprs, err := ParseSource(src)
	if err != nil {
		t.Fatalf("ParseSource error: %v\nsource: %s", err, src)
	}
	if len(exprs) != 1 {
		t.Fatalf("want 1 form, got %d", len(exprs))
	}
	return exprs[0]
}

func wantParsed(t *testing.T, src, rendered string) {
	t.Helper()
	if got := WriteString(parseOne(t, src)); got != rendered {
		t.Fatalf("parse of %q: want %s, got %s", src, rendered, got)
	}
}

func Test_Parser_Atoms(t *testing.T) {
	wantInt(t, parseOne(t, "42"), 42)
	wantFloat(t, parseOne(t, "2.5"), 2.5)
	wantSym(t, parseOne(t, "foo"), "foo")
	wantStr(t, parseOne(t, `"hi"`), "hi")
	wantBool(t, parseOne(t, "#t"), true)
}

func Test_Parser_Lists(t *testing.T) {
	wantParsed(t, "(1 2 3)", "(1 2 3)")
	wantParsed(t, "()", "()")
	wantParsed(t, "(1 (2 3) 4)", "(1 (2 3) 4)")
	wantParsed(t, "(1 2 . 3)", "(1 2 . 3)")
	// The parser feeds NewDotted, so literal dotted tails normalize.
	wantParsed(t, "(1 . (2 3))", "(1 2 3)")
	wantParsed(t, "(1 . (2 . 3))", "(1 2 . 3)")
	wantParsed(t, "(1 . ())", "(1)")
}

func Test_Parser_QuoteSugar(t *testing.T) {
	v := parseOne(t, "'x")
	l, ok := v.AsList()
	if !ok || l.Len() != 2 {
		t.Fatalf("want (quote x), got %#v", v)
	}
	wantSym(t, l.Elems()[0], "quote")
	wantSym(t, l.Elems()[1], "x")

	wantParsed(t, "`(a ,b ,@c)", "`(a ,b ,@c)")
	wantParsed(t, "''x", "''x")
}

func Test_Parser_MultipleTopLevelForms(t *testing.T) {
	exprs, err := ParseSource("(define x 1)\nx")
	if err != nil {
		t.Fatalf("ParseSource error: %v", err)
	}
	if len(exprs) != 2 {
		t.Fatalf("want 2 forms, got %d", len(exprs))
	}
}

func Test_Parser_Errors(t *testing.T) {
	cases := []struct {
		src string
		msg string
	}{
		{")", "unexpected )"},
		{".", "unexpected ."},
		{"(. 2)", "at least one element"},
		{"(1 . 2 3)", "expected ) after dotted tail"},
	}
	for _, c := range cases {
		_, err := ParseSource(c.src)
		if err == nil {
			t.Fatalf("want parse error for %q", c.src)
		}
		pe, ok := err.(*ParseError)
		if !ok {
			t.Fatalf("want *ParseError for %q, got %T", c.src, err)
		}
		if pe.Incomplete {
			t.Fatalf("%q should not be incomplete", c.src)
		}
		if !strings.Contains(pe.Msg, c.msg) {
			t.Fatalf("%q: want message containing %q, got %q", c.src, c.msg, pe.Msg)
		}
	}
}

func Test_Parser_IncompleteInput(t *testing.T) {
	for _, src := range []string{"(", "(define (f x)", "'", "(1 . "} {
		_, err := ParseSource(src)
		if err == nil {
			t.Fatalf("want error for %q", src)
		}
		if !IsIncomplete(err) {
			t.Fatalf("%q should report incomplete input, got: %v", src, err)
		}
	}
	if IsIncomplete(nil) {
		t.Fatal("nil is not incomplete")
	}
	_, err := ParseSource(")")
	if IsIncomplete(err) {
		t.Fatal("unexpected ) is not incomplete")
	}
}
