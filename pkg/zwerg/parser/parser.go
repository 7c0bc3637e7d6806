// Package parser builds a tree.Node parse tree from a token stream,
// using recursive descent over the concatenative grammar: terms are
// juxtaposed into CAT by default, `,` alternates inside parens, `||`
// alternates at any level, and postfix `* + ?` apply to the
// immediately preceding term.
package parser

import (
	"fmt"

	"github.com/dwgrep/zwerg/pkg/zwerg/lexer"
	"github.com/dwgrep/zwerg/pkg/zwerg/tree"
)

// Error is a ParseError: malformed token structure that aborts
// compilation, per spec.md section 7.
type Error struct {
	Pos     int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("parse error at byte %d: %s", e.Pos, e.Message)
}

type parser struct {
	toks []lexer.Token
	pos  int
}

// Parse lexes and parses src into a single parse tree rooted at the
// query's top-level alternation.
func Parse(src string) (*tree.Node, error) {
	toks, err := lexer.Tokenize(src)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	n, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if p.peek().Type != lexer.TokenEOF {
		return nil, p.errorf("unexpected trailing %q", p.peek().Text)
	}
	return n, nil
}

func (p *parser) peek() lexer.Token { return p.toks[p.pos] }

func (p *parser) advance() lexer.Token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *parser) errorf(format string, args ...any) error {
	return &Error{Pos: p.peek().Pos, Message: fmt.Sprintf(format, args...)}
}

func (p *parser) expect(tt lexer.TokenType, what string) (lexer.Token, error) {
	if p.peek().Type != tt {
		return lexer.Token{}, p.errorf("expected %s, got %q", what, p.peek().Text)
	}
	return p.advance(), nil
}

func isTerminator(tt lexer.TokenType) bool {
	switch tt {
	case lexer.TokenEOF, lexer.TokenRParen, lexer.TokenRBracket, lexer.TokenRBrace,
		lexer.TokenComma, lexer.TokenSemicolon, lexer.TokenThen, lexer.TokenElse, lexer.TokenEnd:
		return true
	}
	return false
}

// parseOr parses a `||`-joined chain of CAT sequences.
func (p *parser) parseOr() (*tree.Node, error) {
	left, err := p.parseCat()
	if err != nil {
		return nil, err
	}
	if p.peek().Type != lexer.TokenPipe {
		return left, nil
	}
	children := []*tree.Node{left}
	for p.peek().Type == lexer.TokenPipe {
		p.advance()
		right, err := p.parseCat()
		if err != nil {
			return nil, err
		}
		children = append(children, right)
	}
	return &tree.Node{Kind: tree.KindOr, Pos: left.Pos, Children: children}, nil
}

// parseCat parses a juxtaposed sequence of terms. A `let` encountered
// mid-sequence swallows the remainder of the sequence as its scope
// body and ends the loop.
func (p *parser) parseCat() (*tree.Node, error) {
	pos := p.peek().Pos
	var parts []*tree.Node
	for !isTerminator(p.peek().Type) {
		if p.peek().Type == lexer.TokenLet {
			scope, err := p.parseLet()
			if err != nil {
				return nil, err
			}
			parts = append(parts, scope)
			break
		}
		t, err := p.parseTermWithPostfix()
		if err != nil {
			return nil, err
		}
		parts = append(parts, t)
	}
	if len(parts) == 0 {
		return &tree.Node{Kind: tree.KindNop, Pos: pos}, nil
	}
	return tree.NewCat(pos, parts...), nil
}

func (p *parser) parseLet() (*tree.Node, error) {
	pos := p.advance().Pos // `let`
	nameTok, err := p.expect(lexer.TokenIdent, "a binding name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokenAssign, "':='"); err != nil {
		return nil, err
	}
	valueExpr, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokenSemicolon, "';'"); err != nil {
		return nil, err
	}
	body, err := p.parseCat()
	if err != nil {
		return nil, err
	}
	bind := &tree.Node{Kind: tree.KindBind, Pos: pos, Name: nameTok.Str, Children: []*tree.Node{valueExpr}}
	return &tree.Node{Kind: tree.KindScope, Pos: pos, Children: []*tree.Node{bind, body}}, nil
}

func (p *parser) parseTermWithPostfix() (*tree.Node, error) {
	t, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		switch p.peek().Type {
		case lexer.TokenStar:
			p.advance()
			t = &tree.Node{Kind: tree.KindCloseStar, Pos: t.Pos, Children: []*tree.Node{t}}
		case lexer.TokenPlus:
			p.advance()
			t = &tree.Node{Kind: tree.KindClosePlus, Pos: t.Pos, Children: []*tree.Node{t}}
		case lexer.TokenQuestion:
			if p.peek().Str != "" {
				return t, nil // `?NAME` starts a new term, not a postfix on t
			}
			p.advance()
			t = &tree.Node{Kind: tree.KindAlt, Pos: t.Pos, Children: []*tree.Node{t, {Kind: tree.KindNop, Pos: t.Pos}}}
		default:
			return t, nil
		}
	}
}

func (p *parser) parsePrimary() (*tree.Node, error) {
	tok := p.peek()
	switch tok.Type {
	case lexer.TokenConst:
		p.advance()
		return &tree.Node{Kind: tree.KindConst, Pos: tok.Pos, ConstDomain: tok.Domain, ConstValue: tok.Num}, nil

	case lexer.TokenStr:
		p.advance()
		return &tree.Node{Kind: tree.KindStr, Pos: tok.Pos, StrValue: tok.Str}, nil

	case lexer.TokenIdent, lexer.TokenWord:
		p.advance()
		return &tree.Node{Kind: tree.KindFBuiltin, Pos: tok.Pos, Name: tok.Str}, nil

	case lexer.TokenDollar:
		p.advance()
		return &tree.Node{Kind: tree.KindFBuiltin, Pos: tok.Pos, Name: "apply"}, nil

	case lexer.TokenQuestion:
		p.advance()
		if tok.Str == "" {
			return nil, &Error{Pos: tok.Pos, Message: "'?' with no following predicate name"}
		}
		return &tree.Node{Kind: tree.KindAssert, Pos: tok.Pos, Name: tok.Str, Negate: false}, nil

	case lexer.TokenBang:
		p.advance()
		if tok.Str == "" {
			return nil, &Error{Pos: tok.Pos, Message: "'!' with no following predicate name"}
		}
		return &tree.Node{Kind: tree.KindAssert, Pos: tok.Pos, Name: tok.Str, Negate: true}, nil

	case lexer.TokenQParen, lexer.TokenBParen:
		p.advance()
		inner, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.TokenRParen, "')'"); err != nil {
			return nil, err
		}
		return &tree.Node{Kind: tree.KindAssert, Pos: tok.Pos, Children: []*tree.Node{inner}, Negate: tok.Type == lexer.TokenBParen}, nil

	case lexer.TokenQBrace, lexer.TokenBBrace:
		p.advance()
		inner, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.TokenRBrace, "'}'"); err != nil {
			return nil, err
		}
		block := &tree.Node{Kind: tree.KindBlock, Pos: tok.Pos, Body: inner}
		applied := tree.NewCat(tok.Pos, block, &tree.Node{Kind: tree.KindFBuiltin, Pos: tok.Pos, Name: "apply"})
		return &tree.Node{Kind: tree.KindAssert, Pos: tok.Pos, Children: []*tree.Node{applied}, Negate: tok.Type == lexer.TokenBBrace}, nil

	case lexer.TokenLParen:
		p.advance()
		first, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if p.peek().Type != lexer.TokenComma {
			if _, err := p.expect(lexer.TokenRParen, "')'"); err != nil {
				return nil, err
			}
			return first, nil
		}
		branches := []*tree.Node{first}
		for p.peek().Type == lexer.TokenComma {
			p.advance()
			next, err := p.parseOr()
			if err != nil {
				return nil, err
			}
			branches = append(branches, next)
		}
		if _, err := p.expect(lexer.TokenRParen, "')'"); err != nil {
			return nil, err
		}
		return &tree.Node{Kind: tree.KindAlt, Pos: tok.Pos, Children: branches}, nil

	case lexer.TokenLBracket:
		p.advance()
		if p.peek().Type == lexer.TokenRBracket {
			p.advance()
			return &tree.Node{Kind: tree.KindEmptyList, Pos: tok.Pos}, nil
		}
		inner, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.TokenRBracket, "']'"); err != nil {
			return nil, err
		}
		return &tree.Node{Kind: tree.KindCapture, Pos: tok.Pos, Children: []*tree.Node{inner}}, nil

	case lexer.TokenLBrace:
		p.advance()
		if p.peek().Type == lexer.TokenRBrace {
			p.advance()
			return &tree.Node{Kind: tree.KindBlock, Pos: tok.Pos, Body: &tree.Node{Kind: tree.KindNop, Pos: tok.Pos}}, nil
		}
		inner, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.TokenRBrace, "'}'"); err != nil {
			return nil, err
		}
		return &tree.Node{Kind: tree.KindBlock, Pos: tok.Pos, Body: inner}, nil

	case lexer.TokenIf:
		p.advance()
		cond, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.TokenThen, "'then'"); err != nil {
			return nil, err
		}
		thenBranch, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		var elseBranch *tree.Node
		if p.peek().Type == lexer.TokenElse {
			p.advance()
			elseBranch, err = p.parseOr()
			if err != nil {
				return nil, err
			}
		}
		if _, err := p.expect(lexer.TokenEnd, "'end'"); err != nil {
			return nil, err
		}
		return &tree.Node{Kind: tree.KindIfElse, Pos: tok.Pos, Cond: cond, Then: thenBranch, Else: elseBranch}, nil

	case lexer.TokenEOF:
		return nil, p.errorf("unexpected end of query")

	default:
		return nil, p.errorf("unexpected token %q", tok.Text)
	}
}
