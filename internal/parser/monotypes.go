package parser

import (
	"unicode"

	"github.com/funvibe/funxy/internal/ast"
	"github.com/funvibe/funxy/internal/diagnostics"
	"github.com/funvibe/funxy/internal/token"
)

// parseMonoType parses a syntactic type annotation. SPEC_FULL.md leaves the
// concrete annotation grammar unspecified beyond the monotype shapes
// themselves (named, var, array, vector, dict, function, record); the
// surface syntax below is a parser-level design decision, not drawn from any
// grounding source, chosen to stay unambiguous against the expression
// grammar's own use of '[', '{', '(' and '<-':
//
//	Named   := UpperIdent ('[' MonoType (',' MonoType)* ']')? | PrimitiveName
//	PrimitiveName := 'bool' | 'int' | 'uint' | 'float' | 'string' | 'duration'
//	               | 'time' | 'regexp' | 'bytes' | 'dynamic'
//	Var     := lowerIdent                         (not a PrimitiveName, not 'vector')
//	Array   := '[' MonoType ']'
//	Dict    := '[' MonoType ':' MonoType ']'
//	Vector  := 'vector' '[' MonoType ']'
//	Func    := '(' ParamType (',' ParamType)* ')' '=>' MonoType
//	ParamType := '<-'? Ident? '?'? ':' MonoType
//	Record  := '{' (FieldType (',' FieldType)*)? (',' '...')? '}'
//	FieldType := Ident ':' MonoType
func (p *Parser) parseMonoType() ast.MonoType {
	leave, ok := p.enterDepth()
	defer leave()
	if !ok {
		bad := p.tooDeep(p.tok.Start)
		return ast.NewBadMonoType(bad.Range(), bad.Text)
	}

	switch p.tok.Kind {
	case token.IDENT:
		return p.parseIdentMonoType()
	case token.LBRACKET:
		return p.parseArrayOrDictMonoType()
	case token.LBRACE:
		return p.parseRecordMonoType()
	case token.LPAREN:
		return p.parseFunctionMonoType()
	default:
		t := p.tok
		p.errorf(t.Start, diagnostics.KindUnexpectedToken, "unexpected token %s in type", t.Kind)
		p.next()
		return ast.NewBadMonoType(p.tokRange(t), t.Literal)
	}
}

func (p *Parser) parseIdentMonoType() ast.MonoType {
	t := p.tok
	start := t.Start
	p.next()

	if t.Literal == token.KeywordVector {
		p.expect(token.LBRACKET)
		elem := p.parseMonoType()
		p.expect(token.RBRACKET)
		return ast.NewVectorMonoType(p.rng(start), elem)
	}

	switch t.Literal {
	case "bool", "int", "uint", "float", "string", "duration", "time", "regexp", "bytes", token.KeywordDynamic:
		return ast.NewNamedMonoType(p.tokRange(t), t.Literal, nil)
	}

	if isLowerIdent(t.Literal) {
		return ast.NewVarMonoType(p.tokRange(t), t.Literal)
	}

	var args []ast.MonoType
	if p.tok.Kind == token.LBRACKET {
		p.next()
		p.openBlock(token.RBRACKET)
		for p.tok.Kind != token.RBRACKET && p.tok.Kind != token.EOF {
			if !p.atListProgress() {
				break
			}
			args = append(args, p.parseMonoType())
			if _, ok := p.accept(token.COMMA); !ok {
				break
			}
		}
		p.closeBlock(token.RBRACKET)
	}
	return ast.NewNamedMonoType(p.rng(start), t.Literal, args)
}

func isLowerIdent(s string) bool {
	if s == "" {
		return false
	}
	r := []rune(s)[0]
	return unicode.IsLower(r)
}

func (p *Parser) parseArrayOrDictMonoType() ast.MonoType {
	start := p.tok.Start
	p.next() // consume '['
	p.openBlock(token.RBRACKET)
	elem := p.parseMonoType()
	if _, ok := p.accept(token.COLON); ok {
		val := p.parseMonoType()
		p.closeBlock(token.RBRACKET)
		return ast.NewDictMonoType(p.rng(start), elem, val)
	}
	p.closeBlock(token.RBRACKET)
	return ast.NewArrayMonoType(p.rng(start), elem)
}

func (p *Parser) parseRecordMonoType() ast.MonoType {
	start := p.tok.Start
	p.next() // consume '{'
	p.openBlock(token.RBRACE)
	var fields []*ast.FieldType
	open := false
	for p.tok.Kind != token.RBRACE && p.tok.Kind != token.EOF {
		if !p.atListProgress() {
			break
		}
		if p.tok.Kind == token.DOT {
			// '...' open-row marker, scanned as three DOT tokens (the
			// scanner has no dedicated ellipsis token).
			p.next()
			p.expect(token.DOT)
			p.expect(token.DOT)
			open = true
			break
		}
		fields = append(fields, p.parseFieldType())
		if _, ok := p.accept(token.COMMA); !ok {
			break
		}
	}
	p.closeBlock(token.RBRACE)
	return ast.NewRecordMonoType(p.rng(start), fields, open)
}

func (p *Parser) parseFieldType() *ast.FieldType {
	start := p.tok.Start
	labelTok := p.expect(token.IDENT)
	p.expect(token.COLON)
	typ := p.parseMonoType()
	return ast.NewFieldType(p.rng(start), labelTok.Literal, typ)
}

func (p *Parser) parseFunctionMonoType() ast.MonoType {
	start := p.tok.Start
	p.next() // consume '('
	p.openBlock(token.RPAREN)
	var params []*ast.ParamType
	for p.tok.Kind != token.RPAREN && p.tok.Kind != token.EOF {
		if !p.atListProgress() {
			break
		}
		params = append(params, p.parseParamType())
		if _, ok := p.accept(token.COMMA); !ok {
			break
		}
	}
	p.closeBlock(token.RPAREN)
	p.expect(token.ARROW)
	ret := p.parseMonoType()
	return ast.NewFunctionMonoType(p.rng(start), params, ret)
}

func (p *Parser) parseParamType() *ast.ParamType {
	start := p.tok.Start
	isPipe := false
	if p.tok.Kind == token.LARROW {
		isPipe = true
		p.next()
	}
	var name string
	if p.tok.Kind == token.IDENT {
		name = p.tok.Literal
		p.next()
	}
	optional := false
	if _, ok := p.accept(token.QUESTION); ok {
		optional = true
	}
	p.expect(token.COLON)
	typ := p.parseMonoType()
	return ast.NewParamType(p.rng(start), name, typ, optional, isPipe)
}
