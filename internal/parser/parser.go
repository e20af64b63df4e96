// Package parser implements the hand-written recursive-descent parser of
// SPEC_FULL.md component D: one-token lookahead, a block-counter per
// expected closing token, a hard recursion-depth limit, and lenient error
// recovery so a File always parses to completion.
//
// Grounded structurally on cue-lang/cue's cue/parser/parser.go (the
// p.tok/p.lit one-token-lookahead field layout, p.next()/p.expect() idiom,
// the errors-attach-and-continue recovery philosophy) adapted to this
// language's own grammar (precedence chain, pipe/regex disambiguation,
// object/array/dict shorthand) rather than CUE's.
package parser

import (
	"github.com/funvibe/funxy/internal/ast"
	"github.com/funvibe/funxy/internal/diagnostics"
	"github.com/funvibe/funxy/internal/lexer"
	"github.com/funvibe/funxy/internal/token"
)

// maxDepth is the hard recursion-depth ceiling named in SPEC_FULL.md §4.D.
const maxDepth = 80

type scanner interface {
	Next() token.Token
	RescanRegexFrom(offset, line, col int) token.Token
}

// Parser holds the mutable state threaded through every production.
type Parser struct {
	filename string
	scan     scanner

	tok token.Token // one-slot lookahead, already scanned

	depth int

	// blockCounters is keyed by the expected closing Kind of the innermost
	// list-like production currently open, per SPEC_FULL.md §4.D "a counter
	// per end-token".
	blockCounters map[token.Kind]int

	diags *diagnostics.List

	// syncOffset/syncCount implement the "no progress -> abort this list"
	// loop guard for list-like productions.
	syncOffset int
	syncCount  int
}

// New creates a parser reading src through a fresh lexer.
func New(filename, src string) *Parser {
	p := &Parser{
		filename:      filename,
		scan:          lexer.New(filename, src),
		blockCounters: make(map[token.Kind]int),
		diags:         &diagnostics.List{},
	}
	p.next()
	return p
}

// ParseFile parses one complete source file (SPEC_FULL.md §4.D top-level
// grammar). No parser failure is fatal: the returned File always represents
// the full input, with BadStmt/BadExpr standing in for malformed pieces.
func ParseFile(filename, src string) (*ast.File, *diagnostics.List) {
	p := New(filename, src)
	f := p.parseFile()
	return f, p.diags
}

func (p *Parser) next() {
	p.tok = p.scan.Next()
}

func (p *Parser) rng(start token.Position) token.Range {
	return token.Range{Start: start, End: p.tok.Start, Filename: p.filename}
}

func (p *Parser) tokRange(t token.Token) token.Range {
	return token.Range{Start: t.Start, End: t.End, Filename: p.filename}
}

func (p *Parser) errorf(pos token.Position, kind diagnostics.Kind, format string, args ...any) {
	p.diags.Add(diagnostics.New(pos, p.filename, kind, format, args...))
}

// expect consumes the current token if it matches k, else records a
// "missing token" diagnostic. Per SPEC_FULL.md §4.D error-recovery policy,
// it does not consume the offending token when that token could itself
// start the next production — here approximated by never force-consuming
// on mismatch, leaving the caller's own recovery (sync loop, list abort) to
// make progress instead.
func (p *Parser) expect(k token.Kind) token.Token {
	t := p.tok
	if t.Kind != k {
		p.errorf(t.Start, diagnostics.KindMissingToken, "expected %s, got %s", k, t.Kind)
		return t
	}
	p.next()
	return t
}

// accept consumes and returns (tok, true) if the current token is k.
func (p *Parser) accept(k token.Kind) (token.Token, bool) {
	if p.tok.Kind == k {
		t := p.tok
		p.next()
		return t, true
	}
	return token.Token{}, false
}

// enterDepth increments the recursion guard; the returned func must be
// deferred to decrement it. ok is false once the hard ceiling is exceeded,
// in which case the caller should report "Program is nested too deep" and
// produce a Bad node for its production.
func (p *Parser) enterDepth() (leave func(), ok bool) {
	p.depth++
	if p.depth > maxDepth {
		return func() { p.depth-- }, false
	}
	return func() { p.depth-- }, true
}

func (p *Parser) tooDeep(start token.Position) *ast.BadExpr {
	p.errorf(start, diagnostics.KindNestedTooDeep, "Program is nested too deep")
	return ast.NewBadExpr(token.Range{Start: start, End: p.tok.Start, Filename: p.filename}, "<nested too deep>")
}

// openBlock/closeBlock implement the block-counter state machine: open
// increments the counter for end, close decrements it and, if the current
// token matches end, consumes it; otherwise it reports the mismatch without
// consuming.
func (p *Parser) openBlock(end token.Kind) {
	p.blockCounters[end]++
}

func (p *Parser) closeBlock(end token.Kind) bool {
	p.blockCounters[end]--
	if p.tok.Kind == end {
		p.next()
		return true
	}
	p.errorf(p.tok.Start, diagnostics.KindMissingToken, "expected %s, got %s", end, p.tok.Kind)
	return false
}

// atListProgress reports whether the parser has advanced since the last
// call for the current list production; list-parsing loops call this once
// per iteration and break out if it returns false, to avoid spinning on a
// token neither consumed nor recognized (SPEC_FULL.md §4.D).
func (p *Parser) atListProgress() bool {
	if p.tok.Offset == p.syncOffset {
		p.syncCount++
		return p.syncCount < 2
	}
	p.syncOffset = p.tok.Offset
	p.syncCount = 0
	return true
}
