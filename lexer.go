// lexer.go — tokenizer for the surface syntax.
package lisp

import (
	"fmt"
	"strconv"
	"strings"
)

// TokenType represents the kind of token.
type TokenType int

const (
	// Special
	EOF TokenType = iota
	ILLEGAL

	// Punctuation
	LPAREN          // "("
	RPAREN          // ")"
	DOT             // "." between elements of a dotted list
	QUOTE           // "'"
	QUASIQUOTE      // "`"
	UNQUOTE         // ","
	UNQUOTESPLICING // ",@"

	// Literals & identifiers
	SYMBOL
	INTEGER
	FLOAT
	STRING
	CHAR
	BOOLEAN
)

// Token is a lexical token with optional literal value.
type Token struct {
	Type    TokenType
	Lexeme  string      // raw text slice
	Literal interface{} // parsed value for literals
	Line    int         // 1-based
	Col     int         // 0-based
}

// LexError is a tokenization failure with a source position.
type LexError struct {
	Line int
	Col  int
	Msg  string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("lexical error at %d:%d: %s", e.Line, e.Col+1, e.Msg)
}

// Lexer scans a source string into tokens.
type Lexer struct {
	src    string
	start  int // start index of current token
	cur    int // current index
	line   int // 1-based
	col    int // 0-based column within line
	tokens []Token

	tokStartLine int
	tokStartCol  int
}

// NewLexer creates a new lexer for the given source.
func NewLexer(src string) *Lexer {
	return &Lexer{src: src, line: 1}
}

// Tokenize scans the whole source, appending a final EOF token.
func (l *Lexer) Tokenize() ([]Token, error) {
	for {
		l.skipBlanks()
		if l.isAtEnd() {
			break
		}
		l.start = l.cur
		l.tokStartLine, l.tokStartCol = l.line, l.col
		if err := l.scanToken(); err != nil {
			return nil, err
		}
	}
	l.tokStartLine, l.tokStartCol = l.line, l.col
	l.addToken(EOF, nil)
	return l.tokens, nil
}

func (l *Lexer) isAtEnd() bool { return l.cur >= len(l.src) }

func (l *Lexer) peek() (byte, bool) {
	if l.isAtEnd() {
		return 0, false
	}
	return l.src[l.cur], true
}

func (l *Lexer) advance() (byte, bool) {
	if l.isAtEnd() {
		return 0, false
	}
	ch := l.src[l.cur]
	l.cur++
	if ch == '\n' {
		l.line++
		l.col = 0
	} else {
		l.col++
	}
	return ch, true
}

func (l *Lexer) addToken(tt TokenType, lit interface{}) {
	l.tokens = append(l.tokens, Token{
		Type:    tt,
		Lexeme:  l.src[l.start:l.cur],
		Literal: lit,
		Line:    l.tokStartLine,
		Col:     l.tokStartCol,
	})
}

func (l *Lexer) errf(format string, args ...interface{}) error {
	return &LexError{Line: l.tokStartLine, Col: l.tokStartCol, Msg: fmt.Sprintf(format, args...)}
}

// skipBlanks consumes whitespace and ; line comments.
func (l *Lexer) skipBlanks() {
	for {
		ch, ok := l.peek()
		if !ok {
			return
		}
		switch ch {
		case ' ', '\t', '\r', '\n':
			l.advance()
		case ';':
			for {
				c, ok := l.peek()
				if !ok || c == '\n' {
					break
				}
				l.advance()
			}
		default:
			return
		}
	}
}

func (l *Lexer) scanToken() error {
	ch, _ := l.advance()
	switch ch {
	case '(':
		l.addToken(LPAREN, nil)
	case ')':
		l.addToken(RPAREN, nil)
	case '\'':
		l.addToken(QUOTE, nil)
	case '`':
		l.addToken(QUASIQUOTE, nil)
	case ',':
		if c, ok := l.peek(); ok && c == '@' {
			l.advance()
			l.addToken(UNQUOTESPLICING, nil)
		} else {
			l.addToken(UNQUOTE, nil)
		}
	case '"':
		return l.scanString()
	case '#':
		return l.scanHash()
	default:
		return l.scanAtom(ch)
	}
	return nil
}

func (l *Lexer) scanString() error {
	var sb strings.Builder
	for {
		ch, ok := l.advance()
		if !ok {
			return l.errf("unterminated string literal")
		}
		switch ch {
		case '"':
			l.addToken(STRING, sb.String())
			return nil
		case '\\':
			esc, ok := l.advance()
			if !ok {
				return l.errf("unterminated string literal")
			}
			switch esc {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case 'r':
				sb.WriteByte('\r')
			case '\\':
				sb.WriteByte('\\')
			case '"':
				sb.WriteByte('"')
			default:
				return l.errf("unknown escape \\%c in string literal", esc)
			}
		default:
			sb.WriteByte(ch)
		}
	}
}

// scanHash handles #t, #f and #\char (with the named chars space, newline,
// tab).
func (l *Lexer) scanHash() error {
	ch, ok := l.advance()
	if !ok {
		return l.errf("unexpected end of input after #")
	}
	switch ch {
	case 't':
		l.addToken(BOOLEAN, true)
	case 'f':
		l.addToken(BOOLEAN, false)
	case '\\':
		return l.scanChar()
	default:
		return l.errf("unexpected character %q after #", ch)
	}
	return nil
}

func (l *Lexer) scanChar() error {
	first, ok := l.advance()
	if !ok {
		return l.errf("unexpected end of input in char literal")
	}
	name := string(first)
	for {
		c, ok := l.peek()
		if !ok || !isSymbolByte(c) {
			break
		}
		l.advance()
		name += string(c)
	}
	if len(name) == 1 {
		l.addToken(CHAR, rune(name[0]))
		return nil
	}
	switch name {
	case "space":
		l.addToken(CHAR, ' ')
	case "newline":
		l.addToken(CHAR, '\n')
	case "tab":
		l.addToken(CHAR, '\t')
	default:
		r := []rune(name)
		if len(r) == 1 {
			l.addToken(CHAR, r[0])
			return nil
		}
		return l.errf("unknown char literal #\\%s", name)
	}
	return nil
}

// scanAtom scans a number or symbol. A lone "." becomes the DOT token.
func (l *Lexer) scanAtom(first byte) error {
	if !isSymbolByte(first) {
		return l.errf("unexpected character %q", first)
	}
	for {
		c, ok := l.peek()
		if !ok || !isSymbolByte(c) {
			break
		}
		l.advance()
	}
	text := l.src[l.start:l.cur]

	if text == "." {
		l.addToken(DOT, nil)
		return nil
	}
	if n, err := strconv.ParseInt(text, 10, 64); err == nil {
		l.addToken(INTEGER, n)
		return nil
	}
	if looksNumeric(text) {
		if f, err := strconv.ParseFloat(text, 64); err == nil {
			l.addToken(FLOAT, f)
			return nil
		}
	}
	l.addToken(SYMBOL, text)
	return nil
}

// looksNumeric guards ParseFloat so symbols like "1+" or "-" stay symbols
// while "1e3" and "-2.5" parse as floats.
func looksNumeric(s string) bool {
	i := 0
	if s[0] == '+' || s[0] == '-' {
		i = 1
	}
	if i >= len(s) {
		return false
	}
	return s[i] >= '0' && s[i] <= '9' || s[i] == '.'
}

func isSymbolByte(c byte) bool {
	switch c {
	case ' ', '\t', '\r', '\n', '(', ')', '\'', '`', ',', '"', ';':
		return false
	}
	return c > ' '
}
