// Package parser turns a token stream into the ast tree the IR
// generator consumes. Recursive descent, one token of lookahead,
// grounded in the teacher's parser.go shape but built against this
// language's grammar (SPEC_FULL.md §2.1) instead of a C subset.
package parser

import (
	"fmt"

	"github.com/ISEP-Projects-JH/PseudoCompiler/internal/ast"
	"github.com/ISEP-Projects-JH/PseudoCompiler/internal/lexer"
	"github.com/ISEP-Projects-JH/PseudoCompiler/internal/token"
)

type Parser struct {
	lx  *lexer.Lexer
	tok token.Token

	// stringIdents tracks identifiers declared `string`, so parsePrint
	// can tell `print(s)` apart from `print(n)` without a separate
	// type-checking pass.
	stringIdents map[string]bool
}

// Parse scans src and returns the root of the statement sequence, or
// the first syntax error encountered. The returned root is always a
// *ast.Seq (possibly with nil children for an empty program), matching
// spec.md §6's "AST root (variant Seq at the top in typical use)".
func Parse(src string) (ast.Node, error) {
	p := &Parser{lx: lexer.New(src), stringIdents: map[string]bool{}}
	p.next()

	var root ast.Node
	for p.tok.Kind != token.EOF {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		root = &ast.Seq{Left: root, Right: stmt}
	}
	if root == nil {
		root = &ast.Seq{}
	}
	return root, nil
}

func (p *Parser) next() { p.tok = p.lx.Next() }

func (p *Parser) expect(k token.Kind) (token.Token, error) {
	if p.tok.Kind != k {
		return token.Token{}, fmt.Errorf("line %d: expected %s, got %s", p.tok.Line, k, p.tok.Kind)
	}
	t := p.tok
	p.next()
	return t, nil
}

func (p *Parser) parseStatement() (ast.Node, error) {
	switch p.tok.Kind {
	case token.KwInt, token.KwString:
		return p.parseDecl()
	case token.KwIf:
		return p.parseIf()
	case token.KwWhile:
		return p.parseWhile()
	case token.KwPrint:
		return p.parsePrint()
	case token.LBrace:
		return p.parseBlock()
	case token.IDENT:
		return p.parseAssign()
	default:
		return nil, fmt.Errorf("line %d: unexpected token %s starting a statement", p.tok.Line, p.tok.Kind)
	}
}

func (p *Parser) parseBlock() (ast.Node, error) {
	if _, err := p.expect(token.LBrace); err != nil {
		return nil, err
	}
	var body ast.Node
	for p.tok.Kind != token.RBrace {
		if p.tok.Kind == token.EOF {
			return nil, fmt.Errorf("line %d: unterminated block", p.tok.Line)
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		body = &ast.Seq{Left: body, Right: stmt}
	}
	if _, err := p.expect(token.RBrace); err != nil {
		return nil, err
	}
	return body, nil
}

func (p *Parser) parseDecl() (ast.Node, error) {
	declType := p.tok
	p.next()

	var idents []token.Token
	id, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	idents = append(idents, id)
	for p.tok.Kind == token.Comma {
		p.next()
		id, err := p.expect(token.IDENT)
		if err != nil {
			return nil, err
		}
		idents = append(idents, id)
	}
	if declType.Kind == token.KwString {
		for _, id := range idents {
			p.stringIdents[id.Value] = true
		}
	}

	var init ast.Node
	if p.tok.Kind == token.Assign {
		p.next()
		init, err = p.parseExpr()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(token.Semi); err != nil {
		return nil, err
	}
	return &ast.Decl{DeclType: declType, Idents: idents, Init: init}, nil
}

func (p *Parser) parseAssign() (ast.Node, error) {
	id, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Assign); err != nil {
		return nil, err
	}
	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Semi); err != nil {
		return nil, err
	}
	return &ast.Assign{Ident: id, Expr: expr}, nil
}

func (p *Parser) parseIf() (ast.Node, error) {
	p.next()
	if _, err := p.expect(token.LParen); err != nil {
		return nil, err
	}
	cond, err := p.parseCondition()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RParen); err != nil {
		return nil, err
	}
	thenBody, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	var elseBody ast.Node
	if p.tok.Kind == token.KwElse {
		p.next()
		elseBody, err = p.parseBlock()
		if err != nil {
			return nil, err
		}
	}
	return &ast.If{Cond: cond, ThenBody: thenBody, ElseBody: elseBody}, nil
}

func (p *Parser) parseWhile() (ast.Node, error) {
	p.next()
	if _, err := p.expect(token.LParen); err != nil {
		return nil, err
	}
	cond, err := p.parseCondition()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RParen); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.While{Cond: cond, Body: body}, nil
}

func (p *Parser) parsePrint() (ast.Node, error) {
	p.next()
	if _, err := p.expect(token.LParen); err != nil {
		return nil, err
	}
	var out *ast.Print
	if p.tok.Kind == token.STRING {
		lit := p.tok
		p.next()
		out = &ast.Print{Kind: ast.PrintString, Literal: lit.Value}
	} else {
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if id, ok := expr.(*ast.Identifier); ok && p.stringIdents[id.Value()] {
			out = &ast.Print{Kind: ast.PrintString, Expr: expr}
		} else {
			out = &ast.Print{Kind: ast.PrintInt, Expr: expr}
		}
	}
	if _, err := p.expect(token.RParen); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Semi); err != nil {
		return nil, err
	}
	return out, nil
}

func (p *Parser) parseCondition() (*ast.Condition, error) {
	left, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if !p.tok.IsComparison() {
		return nil, fmt.Errorf("line %d: expected comparison operator, got %s", p.tok.Line, p.tok.Kind)
	}
	op := p.tok
	p.next()
	right, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &ast.Condition{Left: left, Comparison: op, Right: right}, nil
}

// expr = term {(+|-) term}
func (p *Parser) parseExpr() (ast.Node, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for p.tok.Kind == token.Plus || p.tok.Kind == token.Minus {
		op := p.tok
		p.next()
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		left = &ast.BinOp{Left: left, Op: op, Right: right}
	}
	return left, nil
}

// term = factor {(*|/) factor}
func (p *Parser) parseTerm() (ast.Node, error) {
	left, err := p.parseFactor()
	if err != nil {
		return nil, err
	}
	for p.tok.Kind == token.Star || p.tok.Kind == token.Slash {
		op := p.tok
		p.next()
		right, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		left = &ast.BinOp{Left: left, Op: op, Right: right}
	}
	return left, nil
}

func (p *Parser) parseFactor() (ast.Node, error) {
	switch p.tok.Kind {
	case token.IDENT:
		id := p.tok
		p.next()
		return &ast.Identifier{Tok: id}, nil
	case token.NUMBER:
		n := p.tok
		p.next()
		return &ast.Number{Tok: n}, nil
	case token.STRING:
		s := p.tok
		p.next()
		return &ast.StringLiteral{Tok: s}, nil
	case token.LParen:
		p.next()
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RParen); err != nil {
			return nil, err
		}
		return expr, nil
	default:
		return nil, fmt.Errorf("line %d: unexpected token %s in expression", p.tok.Line, p.tok.Kind)
	}
}
