// Package ast defines the concrete/abstract syntax tree produced by the
// parser (SPEC_FULL.md component C). Every node embeds a base carrying its
// range, its attached comments, and its locally-collected parse errors, in
// the base-node-first style of cue-lang/cue's cue/ast package — adapted here
// to this language's own node shapes rather than cue's.
package ast

import (
	"github.com/funvibe/funxy/internal/diagnostics"
	"github.com/funvibe/funxy/internal/token"
)

// Node is the interface every AST node satisfies.
type Node interface {
	Pos() token.Position
	End() token.Position
	Range() token.Range
	Comments() []*token.CommentGroup
	AddComment(*token.CommentGroup)
	Errors() []*diagnostics.Error
	AddError(*diagnostics.Error)
	IsEmpty() bool
}

// base is embedded first in every concrete node type.
type base struct {
	rng  token.Range
	cgs  []*token.CommentGroup
	errs []*diagnostics.Error
}

func (b *base) Range() token.Range                    { return b.rng }
func (b *base) Pos() token.Position                   { return b.rng.Start }
func (b *base) End() token.Position                   { return b.rng.End }
func (b *base) Comments() []*token.CommentGroup        { return b.cgs }
func (b *base) AddComment(cg *token.CommentGroup)      { b.cgs = append(b.cgs, cg) }
func (b *base) Errors() []*diagnostics.Error           { return b.errs }
func (b *base) AddError(e *diagnostics.Error)          { b.errs = append(b.errs, e) }

// IsEmpty reports whether this node carries no range and no errors, per
// SPEC_FULL.md §4.A ("skipped in serialized output").
func (b *base) IsEmpty() bool {
	return !b.rng.IsValid() && len(b.errs) == 0
}

func mkBase(rng token.Range) base {
	return base{rng: rng}
}

// Sum-type marker interfaces. Each embeds Node and adds a private marker
// method so only this package's types can implement it.

type Expression interface {
	Node
	exprNode()
	funcBodyNode()
}

type Statement interface {
	Node
	stmtNode()
}

// Assignment is the `name = value` binding form, usable as a Statement
// (top-level or block-local binding).
type Assignment interface {
	Node
	assignNode()
}

// PropertyKey is either an Identifier or a StringLit; string-literal keys
// lower to the same symbol as an identifier key of the same spelling
// (SPEC_FULL.md §4.F).
type PropertyKey interface {
	Node
	propertyKeyNode()
}

// MonoType is the syntactic (unresolved) type-annotation tree; the converter
// lowers it into the semantic types.Monotype (component G).
type MonoType interface {
	Node
	monoTypeNode()
}

// FunctionBody is either a Block or a single Expression (arrow-body variant).
type FunctionBody interface {
	Node
	funcBodyNode()
}
