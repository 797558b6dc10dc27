package kaleido

import (
	"strconv"
)

// Parser is a precedence climbing recursive descent parser. It keeps exactly
// one token of lookahead, the current token.
type Parser struct {
	tokenizer Tokenizer
	ops       *OperatorTable
	tok       Token
}

// NewParser primes the parser with the first token from tokenizer. A nil
// ops uses DefaultOperatorTable.
func NewParser(tokenizer Tokenizer, ops *OperatorTable) *Parser {
	if ops == nil {
		ops = DefaultOperatorTable()
	}

	p := &Parser{
		tokenizer: tokenizer,
		ops:       ops,
	}
	p.next()

	return p
}

// Current returns the current token without consuming it.
func (p *Parser) Current() Token {
	return p.tok
}

// Advance consumes the current token and returns the new current one.
func (p *Parser) Advance() Token {
	return p.next()
}

func (p *Parser) next() Token {
	if p.tok.Typ == TokenEOF {
		// Once the end is reached there are no more tokens to read
		return p.tok
	}

	tok := p.tokenizer.Get()
	for tok.isComment() {
		tok = p.tokenizer.Get()
	}

	p.tok = tok
	return tok
}

func (p *Parser) errorf(kind error, format string, args ...interface{}) *CompileError {
	return newError(kind, p.tok.Loc, format, args...)
}

// expectChar consumes the character token r or fails with ErrExpectedToken.
func (p *Parser) expectChar(r rune) error {
	if !p.tok.IsChar(r) {
		return p.errorf(ErrExpectedToken, "expected '%c', got %s", r, p.tok)
	}

	p.next()
	return nil
}

// ParseTopLevel parses one top-level declaration: a definition, an extern or
// a bare expression.
func (p *Parser) ParseTopLevel() (Decl, error) {
	switch p.tok.Typ {
	case TokenDef:
		return p.ParseDefinition()
	case TokenExtern:
		return p.ParseExtern()
	default:
		return p.ParseTopLevelExpr()
	}
}

// ParseDefinition parses 'def' prototype expression.
func (p *Parser) ParseDefinition() (*Function, error) {
	p.next() // def keyword

	proto, err := p.ParsePrototype()
	if err != nil {
		return nil, err
	}

	body, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}

	return &Function{Proto: proto, Body: body}, nil
}

// ParseExtern parses 'extern' prototype.
func (p *Parser) ParseExtern() (*Prototype, error) {
	p.next() // extern keyword

	return p.ParsePrototype()
}

// ParseTopLevelExpr wraps a bare expression in an anonymous, parameterless
// function so it can be generated like any other definition.
func (p *Parser) ParseTopLevelExpr() (*Function, error) {
	body, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}

	return &Function{
		Proto: &Prototype{Name: "", Params: []string{}},
		Body:  body,
	}, nil
}

// ParsePrototype parses identifier '(' identifier* ')'. Parameter names are
// separated by whitespace only.
func (p *Parser) ParsePrototype() (*Prototype, error) {
	if p.tok.Typ != TokenIdentifier {
		return nil, p.errorf(ErrExpectedIdentifier, "expected function name in prototype, got %s", p.tok)
	}

	name := p.tok.Value
	p.next()

	if err := p.expectChar('('); err != nil {
		return nil, err
	}

	params := []string{}
	for p.tok.Typ == TokenIdentifier {
		params = append(params, p.tok.Value)
		p.next()
	}

	if err := p.expectChar(')'); err != nil {
		return nil, err
	}

	return &Prototype{Name: name, Params: params}, nil
}

// ParseExpression parses primary (binop primary)*.
func (p *Parser) ParseExpression() (Expr, error) {
	lhs, err := p.primary()
	if err != nil {
		return nil, err
	}

	return p.binOpRHS(0, lhs)
}

// binOpRHS folds operators binding at least as tightly as minPrec into lhs.
// Equal precedence associates to the left; a tighter operator following the
// right operand is absorbed into it first.
func (p *Parser) binOpRHS(minPrec int, lhs Expr) (Expr, error) {
	for {
		prec := p.ops.tokenPrecedence(p.tok)
		if prec < minPrec {
			return lhs, nil
		}

		op := p.tok.Char()
		p.next()

		rhs, err := p.primary()
		if err != nil {
			return nil, err
		}

		if prec < p.ops.tokenPrecedence(p.tok) {
			rhs, err = p.binOpRHS(prec+1, rhs)
			if err != nil {
				return nil, err
			}
		}

		lhs = &BinaryExpr{
			Op:  op,
			LHS: lhs,
			RHS: rhs,
		}
	}
}

func (p *Parser) primary() (Expr, error) {
	switch tok := p.tok; {
	case tok.Typ == TokenNumber:
		return p.number()
	case tok.Typ == TokenIdentifier:
		return p.identifier()
	case tok.IsChar('('):
		return p.parenthesisedExpression()
	case tok.Typ == TokenError:
		return nil, p.errorf(ErrUnexpectedToken, "%s", tok.Value)
	default:
		return nil, p.errorf(ErrUnexpectedToken, "unknown token %s when expecting an expression", tok)
	}
}

func (p *Parser) number() (Expr, error) {
	v, err := strconv.ParseFloat(p.tok.Value, 64)
	if err != nil {
		return nil, p.errorf(ErrUnexpectedToken, "invalid number literal '%s'", p.tok.Value)
	}

	p.next()
	return &NumberLiteral{Value: v}, nil
}

func (p *Parser) parenthesisedExpression() (Expr, error) {
	p.next() // Skip (

	exp, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}

	if err := p.expectChar(')'); err != nil {
		return nil, err
	}

	return exp, nil
}

// identifier parses a variable reference or, when followed by '(', a call
// with comma separated arguments.
func (p *Parser) identifier() (Expr, error) {
	name := p.tok.Value
	p.next()

	if !p.tok.IsChar('(') {
		return &VariableRef{Name: name}, nil
	}

	p.next() // Skip (

	args := []Expr{}
	if !p.tok.IsChar(')') {
		for {
			arg, err := p.ParseExpression()
			if err != nil {
				return nil, err
			}

			args = append(args, arg)

			if p.tok.IsChar(')') {
				break
			}

			if !p.tok.IsChar(',') {
				return nil, p.errorf(ErrExpectedToken, "expected ')' or ',' in argument list, got %s", p.tok)
			}

			p.next() // Skip the comma
		}
	}

	p.next() // Skip )

	return &CallExpr{
		Callee: name,
		Args:   args,
	}, nil
}
