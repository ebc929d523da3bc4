// errors.go: user-facing error wrapping and caret-snippet rendering
//
// Turns lexer/parser diagnostics into readable snippets with a caret pointing
// at the offending column:
//
//	PARSE ERROR at 2:14: unclosed (
//
//	   1 | (define (f x)
//	   2 |   (+ x (g x)
//	       |              ^
//
// The snippet shows up to one line of context before and after, numbers the
// lines, and places the caret under the 1-based column. Runtime errors carry
// no positions (the evaluator consumes already-parsed trees) and pass through
// unchanged.
package lisp

import (
	"fmt"
	"strings"
)

// WrapErrorWithSource returns an error augmented with a caret-annotated
// snippet of src when err is a *LexError or *ParseError; any other error is
// returned unchanged.
func WrapErrorWithSource(err error, src string) error {
	switch e := err.(type) {
	case *LexError:
		// Lex/parse Col are 0-based; render as 1-based.
		return fmt.Errorf("%s", prettyErrorString(src, "LEXICAL ERROR", e.Line, e.Col+1, e.Msg))
	case *ParseError:
		return fmt.Errorf("%s", prettyErrorString(src, "PARSE ERROR", e.Line, e.Col+1, e.Msg))
	default:
		return err
	}
}

// prettyErrorString builds a snippet with a header and a caret. Coordinates
// are treated as 1-based and clamped to the source bounds.
func prettyErrorString(src, header string, line, col int, msg string) string {
	lines := strings.Split(src, "\n")
	if line < 1 {
		line = 1
	}
	if col < 1 {
		col = 1
	}
	if len(lines) == 0 {
		lines = []string{""}
	}
	if line > len(lines) {
		line = len(lines)
	}
	lineTxt := lines[line-1]

	var b strings.Builder
	fmt.Fprintf(&b, "%s at %d:%d: %s\n\n", header, line, col, msg)
	if line > 1 {
		fmt.Fprintf(&b, "%4d | %s\n", line-1, lines[line-2])
	}
	fmt.Fprintf(&b, "%4d | %s\n", line, lineTxt)
	fmt.Fprintf(&b, "     | %s^\n", strings.Repeat(" ", col-1))
	if line < len(lines) {
		fmt.Fprintf(&b, "%4d | %s\n", line+1, lines[line])
	}
	return b.String()
}
