package parser

import (
	"regexp"

	"github.com/funvibe/funxy/internal/ast"
	"github.com/funvibe/funxy/internal/diagnostics"
	"github.com/funvibe/funxy/internal/token"
)

// parseExpression is the entry point of the precedence chain of
// SPEC_FULL.md §4.D. `if/then/else` is handled inside parsePrimary (it is "a
// single primary"), so the chain proper starts at logical-or.
func (p *Parser) parseExpression() ast.Expression {
	leave, ok := p.enterDepth()
	defer leave()
	if !ok {
		return p.tooDeep(p.tok.Start)
	}
	return p.parseOr()
}

func (p *Parser) parseOr() ast.Expression {
	left := p.parseAnd()
	for p.tok.Kind == token.OR {
		start := left.Pos()
		p.next()
		right := p.parseAnd()
		left = ast.NewLogicalExpr(p.rng2(start), "or", left, right)
	}
	return left
}

func (p *Parser) parseAnd() ast.Expression {
	left := p.parseNot()
	for p.tok.Kind == token.AND {
		start := left.Pos()
		p.next()
		right := p.parseNot()
		left = ast.NewLogicalExpr(p.rng2(start), "and", left, right)
	}
	return left
}

func (p *Parser) parseNot() ast.Expression {
	if p.tok.Kind == token.NOT || p.tok.Kind == token.EXISTS {
		op := p.tok.Kind.String()
		start := p.tok.Start
		p.next()
		operand := p.parseNot()
		return ast.NewUnaryExpr(p.rng(start), op, operand)
	}
	return p.parseComparison()
}

func (p *Parser) parseComparison() ast.Expression {
	left := p.parseAdditive()
	for isComparisonOp(p.tok.Kind) {
		op := p.tok.Kind.String()
		start := left.Pos()
		p.next()
		right := p.parseAdditive()
		left = ast.NewBinaryExpr(p.rng2(start), op, left, right)
	}
	return left
}

func isComparisonOp(k token.Kind) bool {
	switch k {
	case token.EQ, token.NEQ, token.LT, token.LE, token.GT, token.GE, token.MATCH, token.NOTMATCH:
		return true
	}
	return false
}

func (p *Parser) parseAdditive() ast.Expression {
	left := p.parseMultiplicative()
	for p.tok.Kind == token.PLUS || p.tok.Kind == token.MINUS {
		op := p.tok.Kind.String()
		start := left.Pos()
		p.next()
		right := p.parseMultiplicative()
		left = ast.NewBinaryExpr(p.rng2(start), op, left, right)
	}
	return left
}

func (p *Parser) parseMultiplicative() ast.Expression {
	left := p.parseExponent()
	for p.tok.Kind == token.STAR || p.tok.Kind == token.SLASH || p.tok.Kind == token.PERCENT {
		op := p.tok.Kind.String()
		start := left.Pos()
		p.next()
		right := p.parseExponent()
		left = ast.NewBinaryExpr(p.rng2(start), op, left, right)
	}
	return left
}

// parseExponent is left-associative, per SPEC_FULL.md §4.D ("right-
// associative is not required; left-associative like other arithmetic").
func (p *Parser) parseExponent() ast.Expression {
	left := p.parsePipe()
	for p.tok.Kind == token.POWER {
		start := left.Pos()
		p.next()
		right := p.parsePipe()
		left = ast.NewBinaryExpr(p.rng2(start), "**", left, right)
	}
	return left
}

// parsePipe implements `lhs |> rhs`. rhs must be a call once parsed as a
// unary; if it is not, the parser synthesizes a zero-argument call around it
// and reports "pipe destination must be a function call".
func (p *Parser) parsePipe() ast.Expression {
	left := p.parseUnary()
	for p.tok.Kind == token.PIPE {
		start := left.Pos()
		p.next()
		rhs := p.parseUnary()
		call, ok := rhs.(*ast.CallExpr)
		if !ok {
			p.errorf(rhs.Pos(), diagnostics.KindPipeNotCall, "pipe destination must be a function call")
			call = ast.NewCallExpr(rhs.Range(), rhs, nil)
		}
		left = ast.NewPipeExpr(p.rng2(start), left, call)
	}
	return left
}

func (p *Parser) parseUnary() ast.Expression {
	if p.tok.Kind == token.PLUS || p.tok.Kind == token.MINUS {
		op := p.tok.Kind.String()
		start := p.tok.Start
		p.next()
		operand := p.parseUnary()
		return ast.NewUnaryExpr(p.rng(start), op, operand)
	}
	return p.parsePostfix()
}

// parsePostfix chains `.name`, `["literal"]` (member), `[expr]` (index), and
// `(args)` (call) onto a primary.
func (p *Parser) parsePostfix() ast.Expression {
	expr := p.parsePrimary()
	for {
		switch p.tok.Kind {
		case token.DOT:
			start := expr.Pos()
			p.next()
			nameTok := p.expect(token.IDENT)
			ident := ast.NewIdentifier(p.tokRange(nameTok), nameTok.Literal)
			expr = ast.NewMemberExpr(p.rng2(start), expr, ident)
		case token.LBRACKET:
			start := expr.Pos()
			p.next()
			p.openBlock(token.RBRACKET)
			inner := p.parseExpression()
			p.closeBlock(token.RBRACKET)
			if sl, ok := inner.(*ast.StringLit); ok {
				expr = ast.NewMemberExpr(p.rng2(start), expr, sl)
			} else {
				expr = ast.NewIndexExpr(p.rng2(start), expr, inner)
			}
		case token.LPAREN:
			start := expr.Pos()
			args := p.parseCallArgs()
			expr = ast.NewCallExpr(p.rng2(start), expr, args)
		default:
			return expr
		}
	}
}

func (p *Parser) parseCallArgs() []*ast.Argument {
	p.next() // consume '('
	p.openBlock(token.RPAREN)
	var args []*ast.Argument
	for p.tok.Kind != token.RPAREN && p.tok.Kind != token.EOF {
		if !p.atListProgress() {
			break
		}
		argStart := p.tok.Start
		val := p.parseExpression()
		var name *ast.Identifier
		// Disambiguating `name: value` from a bare expression needs only the
		// token immediately after the parsed operand (already buffered):
		// a standalone identifier followed by ':' is a named argument.
		if ident, isIdent := val.(*ast.Identifier); isIdent {
			if _, ok := p.accept(token.COLON); ok {
				name = ident
				val = p.parseExpression()
			}
		}
		args = append(args, ast.NewArgument(p.rng(argStart), name, val))
		if _, ok := p.accept(token.COMMA); !ok {
			break
		}
	}
	p.closeBlock(token.RPAREN)
	return args
}

func (p *Parser) rng2(start token.Position) token.Range {
	return token.Range{Start: start, End: p.tok.Start, Filename: p.filename}
}

func (p *Parser) parsePrimary() ast.Expression {
	leave, ok := p.enterDepth()
	defer leave()
	if !ok {
		return p.tooDeep(p.tok.Start)
	}

	t := p.tok
	switch t.Kind {
	case token.IF:
		return p.parseConditional()
	case token.IDENT:
		p.next()
		return ast.NewIdentifier(p.tokRange(t), t.Literal)
	case token.TRUE:
		p.next()
		return ast.NewBooleanLit(p.tokRange(t), true)
	case token.FALSE:
		p.next()
		return ast.NewBooleanLit(p.tokRange(t), false)
	case token.INT:
		p.next()
		return ast.NewIntegerLit(p.tokRange(t), t.Literal)
	case token.UINT:
		p.next()
		return ast.NewUIntegerLit(p.tokRange(t), t.Literal[:len(t.Literal)-1])
	case token.FLOAT:
		p.next()
		return ast.NewFloatLit(p.tokRange(t), t.Literal)
	case token.STRING:
		p.next()
		return ast.NewStringLit(p.tokRange(t), t.Literal)
	case token.DURATION:
		p.next()
		return ast.NewDurationLit(p.tokRange(t), t.Literal)
	case token.TIME:
		p.next()
		return ast.NewTimeLit(p.tokRange(t), t.Literal)
	case token.LARROW:
		p.next()
		return ast.NewPipeLit(p.tokRange(t))
	case token.SLASH:
		regexTok := p.scan.RescanRegexFrom(t.Offset, t.Start.Line, t.Start.Column)
		p.tok = regexTok
		rng := p.tokRange(regexTok)
		p.next()
		return ast.NewRegexLit(rng, regexTok.Literal, func(s string) error {
			_, err := regexp.Compile(s)
			return err
		})
	case token.LPAREN:
		if p.looksLikeFunctionExpr() {
			return p.parseFunctionExpr()
		}
		p.next()
		inner := p.parseExpression()
		p.expect(token.RPAREN)
		return inner
	case token.LBRACKET:
		return p.parseArrayOrDict()
	case token.LBRACE:
		return p.parseObjectExpr()
	default:
		p.errorf(t.Start, diagnostics.KindUnexpectedToken, "unexpected token %s", t.Kind)
		p.next()
		return ast.NewBadExpr(p.tokRange(t), t.Literal)
	}
}

func (p *Parser) parseConditional() ast.Expression {
	start := p.tok.Start
	p.next() // consume 'if'
	cond := p.parseExpression()
	p.expectKeyword(token.THEN)
	then := p.parseExpression()
	p.expectKeyword(token.ELSE)
	els := p.parseExpression()
	return ast.NewConditionalExpr(p.rng(start), cond, then, els)
}

func (p *Parser) expectKeyword(k token.Kind) {
	if p.tok.Kind != k {
		p.errorf(p.tok.Start, diagnostics.KindMissingToken, "expected %s, got %s", k, p.tok.Kind)
		return
	}
	p.next()
}
