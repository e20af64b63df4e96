package parser

import (
	"github.com/funvibe/funxy/internal/ast"
	"github.com/funvibe/funxy/internal/diagnostics"
	"github.com/funvibe/funxy/internal/lexer"
	"github.com/funvibe/funxy/internal/token"
)

// looksLikeFunctionExpr decides between a parenthesized parameter list and a
// parenthesized expression by speculatively scanning past the matching ')'
// and checking for '=>'. This needs unbounded lookahead (nested parens may
// appear on either side), so it snapshots the lexer and the parser's own
// lookahead token and restores both afterwards rather than trying to fold
// the decision into the one-token-lookahead scheme used everywhere else.
func (p *Parser) looksLikeFunctionExpr() bool {
	lexState, ok := p.scan.(interface {
		Snapshot() lexer.State
		Restore(lexer.State)
	})
	if !ok {
		return false
	}
	snap := lexState.Snapshot()
	savedTok := p.tok

	depth := 0
	result := false
	t := p.tok // LPAREN, not yet consumed
	for {
		switch t.Kind {
		case token.LPAREN:
			depth++
		case token.RPAREN:
			depth--
			if depth == 0 {
				next := p.scan.Next()
				result = next.Kind == token.ARROW
				goto done
			}
		case token.EOF:
			goto done
		}
		t = p.scan.Next()
	}
done:
	lexState.Restore(snap)
	p.tok = savedTok
	return result
}

// parseFunctionExpr parses `(params) => body`. Each parameter is
// `name[=default]` or the pipe form `<-` / `name=<-`.
func (p *Parser) parseFunctionExpr() ast.Expression {
	start := p.tok.Start
	p.next() // consume '('
	p.openBlock(token.RPAREN)
	var params []*ast.Param
	for p.tok.Kind != token.RPAREN && p.tok.Kind != token.EOF {
		if !p.atListProgress() {
			break
		}
		params = append(params, p.parseParam())
		if _, ok := p.accept(token.COMMA); !ok {
			break
		}
	}
	p.closeBlock(token.RPAREN)
	p.expect(token.ARROW)

	var body ast.FunctionBody
	if p.tok.Kind == token.LBRACE {
		body = p.parseBlock()
	} else {
		body = p.parseExpression()
	}
	return ast.NewFunctionExpr(p.rng(start), params, body)
}

func (p *Parser) parseParam() *ast.Param {
	start := p.tok.Start
	if p.tok.Kind == token.LARROW {
		p.next()
		return ast.NewParam(p.rng(start), nil, nil, true)
	}
	nameTok := p.expect(token.IDENT)
	name := ast.NewIdentifier(p.tokRange(nameTok), nameTok.Literal)
	if _, ok := p.accept(token.ASSIGN); ok {
		if p.tok.Kind == token.LARROW {
			pipeTok := p.tok
			p.next()
			return ast.NewParam(p.rng(start), name, ast.NewPipeLit(p.tokRange(pipeTok)), true)
		}
		def := p.parseExpression()
		return ast.NewParam(p.rng(start), name, def, false)
	}
	return ast.NewParam(p.rng(start), name, nil, false)
}

// parseBlock parses `{ Statement* }` as used by function bodies and test
// cases. Statement parsing itself lives in statements.go.
func (p *Parser) parseBlock() *ast.BlockStmt {
	start := p.tok.Start
	p.next() // consume '{'
	p.openBlock(token.RBRACE)
	var stmts []ast.Statement
	for p.tok.Kind != token.RBRACE && p.tok.Kind != token.EOF {
		if !p.atListProgress() {
			break
		}
		stmts = append(stmts, p.parseStatement())
	}
	p.closeBlock(token.RBRACE)
	return ast.NewBlockStmt(p.rng(start), stmts)
}

// parseArrayOrDict parses '[' ... ']'. Per SPEC_FULL.md §4.D the form is
// generic until the first element is seen: '[]' is an empty array, '[:]' is
// an empty dict, and thereafter a ':' after the first element commits to the
// dict form for the remainder of the list.
func (p *Parser) parseArrayOrDict() ast.Expression {
	start := p.tok.Start
	p.next() // consume '['
	p.openBlock(token.RBRACKET)

	if p.tok.Kind == token.RBRACKET {
		p.closeBlock(token.RBRACKET)
		return ast.NewArrayExpr(p.rng(start), nil)
	}
	if p.tok.Kind == token.COLON {
		p.next()
		p.closeBlock(token.RBRACKET)
		return ast.NewDictExpr(p.rng(start), nil)
	}

	firstStart := p.tok.Start
	first := p.parseExpression()
	if _, ok := p.accept(token.COLON); ok {
		val := p.parseExpression()
		items := []*ast.DictItem{ast.NewDictItem(p.rng(firstStart), first, val)}
		for {
			if _, ok := p.accept(token.COMMA); !ok {
				break
			}
			if p.tok.Kind == token.RBRACKET {
				break
			}
			if !p.atListProgress() {
				break
			}
			kStart := p.tok.Start
			k := p.parseExpression()
			p.expect(token.COLON)
			v := p.parseExpression()
			items = append(items, ast.NewDictItem(p.rng(kStart), k, v))
		}
		p.closeBlock(token.RBRACKET)
		return ast.NewDictExpr(p.rng(start), items)
	}

	items := []*ast.ArrayItem{ast.NewArrayItem(p.rng(firstStart), first)}
	for {
		if _, ok := p.accept(token.COMMA); !ok {
			break
		}
		if p.tok.Kind == token.RBRACKET {
			break
		}
		if !p.atListProgress() {
			break
		}
		elStart := p.tok.Start
		el := p.parseExpression()
		items = append(items, ast.NewArrayItem(p.rng(elStart), el))
	}
	p.closeBlock(token.RBRACKET)
	return ast.NewArrayExpr(p.rng(start), items)
}

// parseObjectExpr parses '{' ... '}'. If the leading identifier is followed
// by the bareword 'with', it is a with-source and the remaining properties
// extend it; a bare identifier not followed by ':' expands to the shorthand
// `ident: ident`.
func (p *Parser) parseObjectExpr() ast.Expression {
	start := p.tok.Start
	p.next() // consume '{'
	p.openBlock(token.RBRACE)

	var with ast.Expression
	if p.tok.Kind == token.IDENT {
		identTok := p.tok
		save := p.tok
		lexState, canRewind := p.scan.(interface {
			Snapshot() lexer.State
			Restore(lexer.State)
		})
		var snap lexer.State
		if canRewind {
			snap = lexState.Snapshot()
		}
		p.next()
		if isContextKeyword(p.tok, token.KeywordWith) {
			p.next() // consume 'with'
			with = ast.NewIdentifier(p.tokRange(identTok), identTok.Literal)
		} else if canRewind {
			// Not a with-source: rewind the scanner and the lookahead token
			// to treat identTok as the first property's key (parseProperty
			// reparses it via p.tok).
			lexState.Restore(snap)
			p.tok = save
		}
	}

	var props []*ast.Property
	for p.tok.Kind != token.RBRACE && p.tok.Kind != token.EOF {
		if !p.atListProgress() {
			break
		}
		props = append(props, p.parseProperty())
		if _, ok := p.accept(token.COMMA); !ok {
			break
		}
	}
	p.closeBlock(token.RBRACE)
	return ast.NewObjectExpr(p.rng(start), with, props)
}

func (p *Parser) parseProperty() *ast.Property {
	start := p.tok.Start
	var key ast.PropertyKey
	if p.tok.Kind == token.STRING {
		t := p.tok
		p.next()
		key = ast.NewStringLit(p.tokRange(t), t.Literal)
	} else {
		t := p.expect(token.IDENT)
		key = ast.NewIdentifier(p.tokRange(t), t.Literal)
	}
	if _, ok := p.accept(token.COLON); ok {
		val := p.parseExpression()
		return ast.NewProperty(p.rng(start), key, val)
	}
	// Shorthand `{a}` expands to `{a: a}`; only valid for identifier keys.
	ident, ok := key.(*ast.Identifier)
	if !ok {
		p.errorf(start, diagnostics.KindUnexpectedToken, "string key requires an explicit value")
		return ast.NewProperty(p.rng(start), key, ast.NewBadExpr(p.rng(start), ""))
	}
	return ast.NewProperty(p.rng(start), key, ast.NewIdentifier(ident.Range(), ident.Name))
}
