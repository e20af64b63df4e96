// Package infer implements SPEC_FULL.md component J: the Hindley-Milner-style
// driver that walks a *semantic.Package a second time, assigning every node
// its Type() via internal/unify and internal/types. Grounded structurally on
// funvibe-funxy's internal/evaluator visitor (a single post-order walk over
// an already-resolved graph, threading a mutable environment) reduced to
// type inference rather than value evaluation, with generalization/
// instantiation layered on top of internal/types/polytype.go per SPEC_FULL.md
// §4.G-H.
package infer

import (
	"github.com/funvibe/funxy/internal/diagnostics"
	"github.com/funvibe/funxy/internal/semantic"
	"github.com/funvibe/funxy/internal/symbols"
	"github.com/funvibe/funxy/internal/types"
	"github.com/funvibe/funxy/internal/unify"
)

// Inferencer holds the two environments a let-polymorphic inference pass
// needs: global for generalized (let-bound) symbols, mono for the
// monomorphic bindings currently in scope (function and pipe parameters).
// Both are keyed by symbol identity, so top-level and block-local bindings
// share one map without risk of name collision (SPEC_FULL.md §4.F's scope
// resolution already gave every binding site its own *symbols.Symbol).
type Inferencer struct {
	subst *types.Subst
	unify *unify.State
	diags *diagnostics.List

	global map[*symbols.Symbol]types.Polytype
	mono   map[*symbols.Symbol]types.Monotype
}

func New(subst *types.Subst) *Inferencer {
	return &Inferencer{
		subst:  subst,
		unify:  unify.NewState(subst),
		diags:  &diagnostics.List{},
		global: make(map[*symbols.Symbol]types.Polytype),
		mono:   make(map[*symbols.Symbol]types.Monotype),
	}
}

// Diagnostics returns every diagnostic raised by this pass, merging the
// driver's own (missing/extra argument, pipe protocol) with the unifier's.
func (inf *Inferencer) Diagnostics() *diagnostics.List {
	out := &diagnostics.List{}
	out.Append(inf.diags)
	out.Append(inf.unify.Diags)
	return out
}

// InferPackage runs the driver over every file of pkg, in file order. Files
// of one package share inf's environments, so a top-level binding in one
// file is visible (generalized) when a later file is processed, mirroring
// SPEC_FULL.md §4.F's cross-file package scope.
func (inf *Inferencer) InferPackage(pkg *semantic.Package) {
	for _, f := range pkg.Files {
		inf.InferFile(f)
	}
}

// InferFile binds each import to an opaque dynamic placeholder (this
// front-end has no module loader to resolve an import's actual exported
// type; SPEC_FULL.md's Non-goals exclude module resolution) and then infers
// every top-level statement in source order, propagating through errors per
// the "continue through errors" policy (SPEC_FULL.md §4.J).
func (inf *Inferencer) InferFile(f *semantic.File) {
	for _, imp := range f.Imports {
		if imp.Symbol == nil {
			continue
		}
		inf.global[imp.Symbol] = types.Mono(types.TPrimitive{Name: types.Dynamic})
	}
	for _, s := range f.Body {
		inf.inferStatement(s)
	}
}

// envFreeVars computes the set of variable ids that must NOT be generalized
// away by a let-binding processed right now: every var free in a currently
// monomorphic (in-scope function parameter) binding, plus every var free in
// an already-generalized global binding's type that escaped its own
// quantification (SPEC_FULL.md §4.G-H, the standard let-polymorphism
// restriction).
func (inf *Inferencer) envFreeVars() []int {
	seen := make(map[int]bool)
	for _, t := range inf.mono {
		for _, v := range types.FreeVars(inf.subst, t) {
			seen[v] = true
		}
	}
	for _, poly := range inf.global {
		quantified := make(map[int]bool, len(poly.Vars))
		for _, v := range poly.Vars {
			quantified[v] = true
		}
		for _, v := range types.FreeVars(inf.subst, poly.Type) {
			if !quantified[v] {
				seen[v] = true
			}
		}
	}
	out := make([]int, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	return out
}

func (inf *Inferencer) inferStatement(s semantic.Statement) types.Monotype {
	switch st := s.(type) {
	case *semantic.ErrorStmt:
		st.SetType(types.TError{})
		return types.TError{}
	case *semantic.ExpressionStatement:
		t := inf.inferExpr(st.Expr)
		st.SetType(t)
		return t
	case *semantic.AssignStatement:
		return inf.inferAssign(st)
	case *semantic.OptionStatement:
		targetType := inf.inferExpr(st.Target)
		valType := inf.inferExpr(st.Value)
		inf.unify.Unify(st.Range(), "for option assignment", targetType, valType)
		st.SetType(valType)
		return valType
	case *semantic.BuiltinStatement:
		poly := types.Generalize(inf.subst, inf.envFreeVars(), st.Annotation)
		if st.Symbol != nil {
			inf.global[st.Symbol] = poly
		}
		st.SetType(st.Annotation)
		return st.Annotation
	case *semantic.ReturnStatement:
		t := inf.inferExpr(st.Value)
		st.SetType(t)
		return t
	case *semantic.Block:
		t := inf.inferBlock(st)
		st.SetType(t)
		return t
	default:
		return types.TError{}
	}
}

// inferAssign handles `let`-style bindings at both top level and inside a
// function body: the binding is generalized immediately (excluding the
// variables envFreeVars reports), so later uses of the symbol within the
// same or a later statement get their own fresh instantiation.
func (inf *Inferencer) inferAssign(st *semantic.AssignStatement) types.Monotype {
	valType := inf.inferExpr(st.Value)
	if st.Annotation != nil {
		inf.unify.Unify(st.Range(), "for type annotation", st.Annotation, valType)
	}
	applied := types.Apply(inf.subst, valType)
	poly := types.Generalize(inf.subst, inf.envFreeVars(), applied)
	if st.Symbol != nil {
		inf.global[st.Symbol] = poly
	}
	st.SetType(applied)
	return applied
}

func (inf *Inferencer) inferBlock(b *semantic.Block) types.Monotype {
	var last types.Monotype = types.TError{}
	for _, s := range b.Statements {
		last = inf.inferStatement(s)
	}
	return last
}

func (inf *Inferencer) inferExpr(e semantic.Expression) types.Monotype {
	if e == nil {
		return types.TError{}
	}
	t := inf.inferExprKind(e)
	e.SetType(t)
	return t
}

func (inf *Inferencer) inferExprKind(e semantic.Expression) types.Monotype {
	switch ex := e.(type) {
	case *semantic.ErrorExpr:
		return types.TError{}
	case *semantic.IdentifierExpr:
		return inf.inferIdentifier(ex)
	case *semantic.IntegerLit:
		return types.TPrimitive{Name: types.Int}
	case *semantic.UIntegerLit:
		return types.TPrimitive{Name: types.Uint}
	case *semantic.FloatLit:
		return types.TPrimitive{Name: types.Float}
	case *semantic.BooleanLit:
		return types.TPrimitive{Name: types.Bool}
	case *semantic.StringLit:
		return types.TPrimitive{Name: types.String}
	case *semantic.DurationLit:
		return types.TPrimitive{Name: types.Duration}
	case *semantic.TimeLit:
		return types.TPrimitive{Name: types.Time}
	case *semantic.RegexLit:
		return types.TPrimitive{Name: types.Regexp}
	case *semantic.PipeLit:
		// Only legal as a Param's Default, handled directly by
		// inferFunctionExpr; reached here means a converter gap let one
		// through elsewhere, so report nothing further and hand back a
		// fresh var rather than cascade a spurious unify failure.
		return inf.subst.Fresh()
	case *semantic.CallExpr:
		return inf.inferCall(ex)
	case *semantic.PipeExpr:
		return inf.inferPipe(ex)
	case *semantic.MemberExpr:
		return inf.inferMember(ex)
	case *semantic.IndexExpr:
		return inf.inferIndex(ex)
	case *semantic.BinaryExpr:
		return inf.inferBinary(ex)
	case *semantic.LogicalExpr:
		return inf.inferLogical(ex)
	case *semantic.UnaryExpr:
		return inf.inferUnary(ex)
	case *semantic.ConditionalExpr:
		return inf.inferConditional(ex)
	case *semantic.ArrayExpr:
		return inf.inferArray(ex)
	case *semantic.DictExpr:
		return inf.inferDict(ex)
	case *semantic.ObjectExpr:
		return inf.inferObject(ex)
	case *semantic.FunctionExpr:
		return inf.inferFunctionExpr(ex)
	default:
		return types.TError{}
	}
}

// inferIdentifier distinguishes a monomorphic reference (a parameter of some
// enclosing, not-yet-returned-from function) from a polymorphic one (any
// let-bound or builtin symbol), instantiating the latter fresh per
// occurrence (SPEC_FULL.md §4.G-H "each use of a polymorphic symbol gets its
// own fresh variables"). A symbol in neither map is an unresolved reference
// the converter already flagged via diagnostics.KindUndefinedIdentifier;
// TError avoids cascading a second error here.
func (inf *Inferencer) inferIdentifier(ex *semantic.IdentifierExpr) types.Monotype {
	if ex.Symbol == nil {
		return types.TError{}
	}
	if t, ok := inf.mono[ex.Symbol]; ok {
		return types.Apply(inf.subst, t)
	}
	if poly, ok := inf.global[ex.Symbol]; ok {
		return types.Instantiate(inf.subst, poly)
	}
	return types.TError{}
}

func (inf *Inferencer) inferMember(ex *semantic.MemberExpr) types.Monotype {
	objType := inf.inferExpr(ex.Object)
	value := inf.subst.Fresh()
	tail := inf.subst.Fresh()
	want := types.TRecordExt{Label: types.Label(ex.Property), Value: value, Tail: tail}
	inf.unify.Unify(ex.Range(), "for member "+ex.Property, want, objType)
	return types.Apply(inf.subst, value)
}

// inferIndex covers both array and dict indexing, which share one AST/
// semantic node (SPEC_FULL.md leaves the two undistinguished syntactically).
// If the object's type is already resolved to a concrete dict, index against
// its key/value; otherwise default to array semantics (integer index),
// documented in DESIGN.md as an ungrounded judgment call.
func (inf *Inferencer) inferIndex(ex *semantic.IndexExpr) types.Monotype {
	objType := types.Apply(inf.subst, inf.inferExpr(ex.Object))
	idxType := inf.inferExpr(ex.Index)
	if d, ok := objType.(types.TDict); ok {
		inf.unify.Unify(ex.Range(), "for dict index", idxType, d.Key)
		return types.Apply(inf.subst, d.Value)
	}
	elem := inf.subst.Fresh()
	inf.unify.Unify(ex.Range(), "for indexed value", objType, types.TArray{Elem: elem})
	inf.unify.Unify(ex.Range(), "for array index", idxType, types.TPrimitive{Name: types.Int})
	return types.Apply(inf.subst, elem)
}

func (inf *Inferencer) inferArray(ex *semantic.ArrayExpr) types.Monotype {
	elem := inf.subst.Fresh()
	var elemT types.Monotype = elem
	for _, e := range ex.Elements {
		t := inf.inferExpr(e)
		inf.unify.Unify(e.Range(), "for array element", elemT, t)
	}
	return types.TArray{Elem: types.Apply(inf.subst, elemT)}
}

func (inf *Inferencer) inferDict(ex *semantic.DictExpr) types.Monotype {
	key := inf.subst.Fresh()
	val := inf.subst.Fresh()
	var keyT, valT types.Monotype = key, val
	for _, item := range ex.Items {
		kt := inf.inferExpr(item.Key)
		vt := inf.inferExpr(item.Value)
		inf.unify.Unify(item.Key.Range(), "for dict key", keyT, kt)
		inf.unify.Unify(item.Value.Range(), "for dict value", valT, vt)
	}
	return types.TDict{Key: types.Apply(inf.subst, keyT), Value: types.Apply(inf.subst, valT)}
}

// inferObject builds the record's row right-to-left: the with-source (or the
// empty record, if there is none) is the innermost tail, and each property
// wraps it as a TRecordExt layer, matching the multiset-of-labels semantics
// internal/unify's row unifier expects (SPEC_FULL.md §3, §4.I rule 7).
func (inf *Inferencer) inferObject(ex *semantic.ObjectExpr) types.Monotype {
	var tail types.Monotype = types.TRecordEmpty{}
	if ex.With != nil {
		tail = inf.inferExpr(ex.With)
	}
	for _, p := range ex.Properties {
		vt := inf.inferExpr(p.Value)
		tail = types.TRecordExt{Label: types.Label(p.Key), Value: vt, Tail: tail}
	}
	return tail
}
