package lisp

import (
	"os"
	"path/filepath"
	"testing"
)

func Test_Builtin_FilePortRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	evalSrc(t, `
		(define p (open-output-file "`+path+`"))
		(write-string "hi" p)
		(newline p)
		(close-port p)`)
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading back: %v", err)
	}
	if string(data) != "hi\n" {
		t.Fatalf("want %q, got %q", "hi\n", string(data))
	}

	wantStr(t, evalSrc(t, `
		(define p (open-input-file "`+path+`"))
		(define a (read-char p))
		(define b (read-char p))
		(close-port p)
		(list->string (list a b))`), "hi")
}

func Test_Builtin_ReadCharEOF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.txt")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	wantBool(t, evalSrc(t, `
		(define p (open-input-file "`+path+`"))
		(define c (read-char p))
		(close-port p)
		(eof-object? c)`), true)
	wantBool(t, evalSrc(t, "(eof-object? 'x)"), false)
}

func Test_Builtin_DisplayWriteToPort(t *testing.T) {
	path := filepath.Join(t.TempDir(), "w.txt")
	evalSrc(t, `
		(define p (open-output-file "`+path+`"))
		(display "a" p)
		(write "a" p)
		(close-port p)`)
	data, _ := os.ReadFile(path)
	if string(data) != `a"a"` {
		t.Fatalf("want %q, got %q", `a"a"`, string(data))
	}
}

func Test_Builtin_PortErrors(t *testing.T) {
	wantErrContains(t, `(open-input-file "/nonexistent/nope")`, "open-input-file")
	wantErrContains(t, "(read-char (current-output-port))", "not an open input port")
	wantErrContains(t, "(display 1 2)", "expected a port, got integer")
}

func Test_Builtin_Load(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lib.scm")
	if err := os.WriteFile(path, []byte("(define (twice x) (* 2 x)) (twice 21)"), 0o644); err != nil {
		t.Fatal(err)
	}
	wantInt(t, evalSrc(t, `(load "`+path+`")`), 42)
	wantErrContains(t, `(load "/nonexistent/nope.scm")`, "load")
}

func Test_Builtin_CurrentOutputPortIsStable(t *testing.T) {
	wantBool(t, evalSrc(t, "(eq? (current-output-port) (current-output-port))"), true)
	wantBool(t, evalSrc(t, "(port? (current-output-port))"), true)
}
