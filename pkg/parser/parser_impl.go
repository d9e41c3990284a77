package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sandrolain/goxq/pkg/types"
)

// Parser implements a recursive descent parser for the query grammar:
//
//	Expr     := Single ("," Single)*
//	Single   := "-"? Path
//	Path     := Primary (("/" | "//") StepTest)*
//	Primary  := String | Number | "(" Expr? ")" | "." | Name "(" Args? ")" | StepTest
//	StepTest := Name | "*" | KindTest "(" ")"
type Parser struct {
	lexer   *Lexer
	current Token
	opts    CompileOptions
	depth   int
}

// NewParser creates a new parser for the given input string.
func NewParser(input string, opts ...CompileOption) *Parser {
	options := CompileOptions{
		MaxDepth: 100,
	}
	for _, opt := range opts {
		opt(&options)
	}

	p := &Parser{
		lexer: NewLexer(input),
		opts:  options,
	}

	// Read the first token
	p.advance()

	return p
}

// Parse parses the entire expression and returns the root AST node.
func (p *Parser) Parse() (*types.Expression, error) {
	if p.current.Type == TokenError {
		return nil, p.lexer.Error()
	}

	if p.current.Type == TokenEOF {
		return nil, p.error("Empty expression")
	}

	node, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	if p.current.Type != TokenEOF {
		return nil, p.error(fmt.Sprintf("Unexpected token: %s", p.current.Value))
	}

	return types.NewExpression(node, p.lexer.input), nil
}

// advance moves to the next token.
func (p *Parser) advance() {
	p.current = p.lexer.Next()
}

// expect checks if the current token matches the expected type and advances.
func (p *Parser) expect(tt TokenType) error {
	if p.current.Type != tt {
		return p.error(fmt.Sprintf("Expected %s but got %s", tt.String(), p.current.Type.String()))
	}
	p.advance()
	return nil
}

func (p *Parser) error(message string) error {
	if p.current.Type == TokenError {
		if err := p.lexer.Error(); err != nil {
			return err
		}
	}
	return &types.Error{
		Code:     types.ErrSyntax,
		Message:  message,
		Position: p.current.Position,
		Token:    p.current.Value,
	}
}

// parseExpr parses a comma separated list. A single member is returned as is.
func (p *Parser) parseExpr() (*types.ASTNode, error) {
	pos := p.current.Position
	first, err := p.parseSingle()
	if err != nil {
		return nil, err
	}
	if p.current.Type != TokenComma {
		return first, nil
	}

	seq := types.NewASTNode(types.NodeSequence, pos)
	seq.Expressions = []*types.ASTNode{first}
	for p.current.Type == TokenComma {
		p.advance()
		next, err := p.parseSingle()
		if err != nil {
			return nil, err
		}
		seq.Expressions = append(seq.Expressions, next)
	}
	return seq, nil
}

func (p *Parser) parseSingle() (*types.ASTNode, error) {
	if p.current.Type != TokenMinus {
		return p.parsePath()
	}
	// Unary minus applies to numeric literals only
	p.advance()
	if p.current.Type != TokenNumber {
		return nil, p.error("Expected number after '-'")
	}
	node, err := p.parsePath()
	if err != nil {
		return nil, err
	}
	if node.Type != types.NodeNumber {
		return nil, p.error("Expected number after '-'")
	}
	node.NumValue = -node.NumValue
	return node, nil
}

func (p *Parser) parsePath() (*types.ASTNode, error) {
	left, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for p.current.Type == TokenSlash || p.current.Type == TokenDoubleSlash {
		axis := types.AxisChild
		if p.current.Type == TokenDoubleSlash {
			axis = types.AxisDescendant
		}
		p.advance()
		step, err := p.parseStepTest()
		if err != nil {
			return nil, err
		}
		step.LHS = left
		step.Axis = axis
		left = step
	}
	return left, nil
}

func (p *Parser) parsePrimary() (*types.ASTNode, error) {
	p.depth++
	defer func() { p.depth-- }()
	if p.opts.MaxDepth > 0 && p.depth > p.opts.MaxDepth {
		return nil, p.error("Expression nesting too deep")
	}

	tok := p.current
	switch tok.Type {
	case TokenString:
		p.advance()
		node := types.NewASTNode(types.NodeString, tok.Position)
		node.StrValue = tok.Value
		return node, nil

	case TokenNumber:
		p.advance()
		return p.parseNumber(tok)

	case TokenDot:
		p.advance()
		return types.NewASTNode(types.NodeContext, tok.Position), nil

	case TokenParenOpen:
		p.advance()
		if p.current.Type == TokenParenClose {
			p.advance()
			return types.NewASTNode(types.NodeSequence, tok.Position), nil
		}
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if err := p.expect(TokenParenClose); err != nil {
			return nil, err
		}
		return inner, nil

	case TokenName:
		if next := p.peekParen(); next && !kindTests[tok.Value] {
			return p.parseFunctionCall()
		}
		step, err := p.parseStepTest()
		if err != nil {
			return nil, err
		}
		step.LHS = types.NewASTNode(types.NodeContext, tok.Position)
		step.Axis = types.AxisChild
		return step, nil

	case TokenStar:
		step, err := p.parseStepTest()
		if err != nil {
			return nil, err
		}
		step.LHS = types.NewASTNode(types.NodeContext, tok.Position)
		step.Axis = types.AxisChild
		return step, nil

	case TokenEOF:
		return nil, p.error("Unexpected end of expression")

	default:
		return nil, p.error(fmt.Sprintf("Unexpected token: %s", tok.Value))
	}
}

// peekParen reports whether the character after the current token is an opening parenthesis.
func (p *Parser) peekParen() bool {
	rest := p.lexer.input[p.current.Position+len(p.current.Value):]
	return strings.HasPrefix(strings.TrimLeft(rest, " \t\r\n"), "(")
}

func (p *Parser) parseNumber(tok Token) (*types.ASTNode, error) {
	node := types.NewASTNode(types.NodeNumber, tok.Position)
	if !strings.ContainsAny(tok.Value, ".eE") {
		n, err := strconv.ParseInt(tok.Value, 10, 64)
		if err == nil {
			node.NumValue = float64(n)
			node.IsInt = true
			return node, nil
		}
	}
	f, err := strconv.ParseFloat(tok.Value, 64)
	if err != nil {
		return nil, &types.Error{
			Code:     types.ErrSyntax,
			Message:  fmt.Sprintf("Invalid number: %s", tok.Value),
			Position: tok.Position,
			Token:    tok.Value,
		}
	}
	node.NumValue = f
	return node, nil
}

func (p *Parser) parseFunctionCall() (*types.ASTNode, error) {
	node := types.NewASTNode(types.NodeFunction, p.current.Position)
	node.StrValue = p.current.Value
	p.advance()
	if err := p.expect(TokenParenOpen); err != nil {
		return nil, err
	}
	if p.current.Type == TokenParenClose {
		p.advance()
		return node, nil
	}
	for {
		arg, err := p.parseSingle()
		if err != nil {
			return nil, err
		}
		node.Arguments = append(node.Arguments, arg)
		if p.current.Type != TokenComma {
			break
		}
		p.advance()
	}
	if err := p.expect(TokenParenClose); err != nil {
		return nil, err
	}
	return node, nil
}

// parseStepTest parses a name test, "*" or a kind test. The caller sets the input and axis.
func (p *Parser) parseStepTest() (*types.ASTNode, error) {
	tok := p.current
	node := types.NewASTNode(types.NodeStep, tok.Position)
	switch tok.Type {
	case TokenStar:
		p.advance()
		node.StrValue = types.TestAny
	case TokenName:
		p.advance()
		if kindTests[tok.Value] && p.current.Type == TokenParenOpen {
			p.advance()
			if err := p.expect(TokenParenClose); err != nil {
				return nil, err
			}
			node.StrValue = tok.Value + "()"
			return node, nil
		}
		node.StrValue = tok.Value
	default:
		return nil, p.error(fmt.Sprintf("Expected step but got %s", tok.Type.String()))
	}
	return node, nil
}
