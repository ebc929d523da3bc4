// parser.go — recursive-descent parser producing Value expression trees.
//
// The parser consumes the lexer's token stream and yields one Value per
// top-level form. Quote sugar expands here: 'x → (quote x), `x →
// (quasiquote x), ,x → (unquote x), ,@x → (unquote-splicing x). Dotted-list
// syntax (a b . c) feeds NewDotted, so the flattening normalization in
// list.go applies to parsed literals as well.
package lisp

import "fmt"

// ParseError is a parse failure with a source position. Incomplete marks
// errors caused purely by premature end of input, which lets a REPL keep
// reading lines instead of reporting.
type ParseError struct {
	Line       int
	Col        int
	Msg        string
	Incomplete bool
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at %d:%d: %s", e.Line, e.Col+1, e.Msg)
}

// IsIncomplete reports whether err is a parse error that more input could
// resolve (the REPL's continuation-prompt probe).
func IsIncomplete(err error) bool {
	pe, ok := err.(*ParseError)
	return ok && pe.Incomplete
}

// Parser turns a token stream into expression trees.
type Parser struct {
	tokens []Token
	pos    int
}

func NewParser(tokens []Token) *Parser { return &Parser{tokens: tokens} }

// ParseSource tokenizes and parses src into a sequence of top-level forms.
func ParseSource(src string) ([]Value, error) {
	tokens, err := NewLexer(src).Tokenize()
	if err != nil {
		return nil, err
	}
	return NewParser(tokens).Parse()
}

// Parse reads forms until EOF.
func (p *Parser) Parse() ([]Value, error) {
	var out []Value
	for p.peek().Type != EOF {
		v, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (p *Parser) peek() Token { return p.tokens[p.pos] }

func (p *Parser) next() Token {
	t := p.tokens[p.pos]
	if t.Type != EOF {
		p.pos++
	}
	return t
}

func (p *Parser) errAt(t Token, msg string) error {
	return &ParseError{Line: t.Line, Col: t.Col, Msg: msg, Incomplete: t.Type == EOF}
}

func (p *Parser) parseExpr() (Value, error) {
	t := p.next()
	switch t.Type {
	case INTEGER:
		return Int(t.Literal.(int64)), nil
	case FLOAT:
		return Float(t.Literal.(float64)), nil
	case STRING:
		return Str(t.Literal.(string)), nil
	case CHAR:
		return Char(t.Literal.(rune)), nil
	case BOOLEAN:
		return Bool(t.Literal.(bool)), nil
	case SYMBOL:
		return Sym(t.Literal.(string)), nil
	case LPAREN:
		return p.parseList(t)
	case QUOTE:
		return p.parseSugar("quote", t)
	case QUASIQUOTE:
		return p.parseSugar("quasiquote", t)
	case UNQUOTE:
		return p.parseSugar("unquote", t)
	case UNQUOTESPLICING:
		return p.parseSugar("unquote-splicing", t)
	case RPAREN:
		return Value{}, p.errAt(t, "unexpected )")
	case DOT:
		return Value{}, p.errAt(t, "unexpected .")
	case EOF:
		return Value{}, p.errAt(t, "unexpected end of input")
	default:
		return Value{}, p.errAt(t, fmt.Sprintf("unexpected token %q", t.Lexeme))
	}
}

// parseList reads elements until ) with at most one . separating the final
// tail value.
func (p *Parser) parseList(open Token) (Value, error) {
	var elems []Value
	for {
		switch p.peek().Type {
		case RPAREN:
			p.next()
			return ListVal(NewList(elems...)), nil
		case EOF:
			return Value{}, p.errAt(p.peek(), "unclosed (")
		case DOT:
			dot := p.next()
			if len(elems) == 0 {
				return Value{}, p.errAt(dot, "dotted list needs at least one element before .")
			}
			last, err := p.parseExpr()
			if err != nil {
				return Value{}, err
			}
			closeTok := p.next()
			if closeTok.Type != RPAREN {
				return Value{}, p.errAt(closeTok, "expected ) after dotted tail")
			}
			return ListVal(NewDotted(elems, last)), nil
		default:
			v, err := p.parseExpr()
			if err != nil {
				return Value{}, err
			}
			elems = append(elems, v)
		}
	}
}

func (p *Parser) parseSugar(form string, t Token) (Value, error) {
	if p.peek().Type == EOF {
		return Value{}, p.errAt(p.peek(), fmt.Sprintf("expected an expression after %s", t.Lexeme))
	}
	inner, err := p.parseExpr()
	if err != nil {
		return Value{}, err
	}
	return ListVal(NewList(Sym(form), inner)), nil
}
