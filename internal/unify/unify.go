// Package unify implements SPEC_FULL.md component I, the 7-rule unifier
// driving row-polymorphic type equality. Grounded structurally on
// funvibe-funxy/internal/typesystem/unify.go (a state-threading recursive
// unifier with a Bind/occurs-check split and contextual error-wrapping), but
// the record-unification algorithm (rule 7) is implemented fresh per
// SPEC_FULL.md §4.I — funxy unifies flat TRecord{Fields, Row} structurally
// equal maps and has no fresh-tail-variable introduction case, since it has
// no row-polymorphism.
package unify

import (
	"fmt"

	"github.com/funvibe/funxy/internal/diagnostics"
	"github.com/funvibe/funxy/internal/token"
	"github.com/funvibe/funxy/internal/types"
)

// State threads the mutable substitution through a unification pass and
// accumulates diagnostics, so a single inference pass can continue through
// errors rather than aborting (SPEC_FULL.md §4.J "a single inference pass
// continues through errors").
type State struct {
	Subst *types.Subst
	Diags *diagnostics.List
}

func NewState(s *types.Subst) *State {
	return &State{Subst: s, Diags: &diagnostics.List{}}
}

// Unify attempts to make t1 and t2 equal under s.Subst, reporting any
// failure at pos wrapped with ctx (e.g. "for label X", "(argument Y)").
// It always returns (possibly TError-producing) without aborting the caller,
// per the "continues through errors" propagation policy.
func (s *State) Unify(pos token.Range, ctx string, t1, t2 types.Monotype) {
	if err := s.unify(pos, t1, t2); err != nil {
		s.report(pos, ctx, err)
	}
}

func (s *State) report(pos token.Range, ctx string, err error) {
	msg := err.Error()
	if ctx != "" {
		msg = ctx + ": " + msg
	}
	s.Diags.Add(diagnostics.New(pos.Start, pos.Filename, diagnostics.KindCannotUnify, "%s", msg))
}

type unifyError struct{ msg string }

func (e *unifyError) Error() string { return e.msg }

func errf(format string, args ...any) error {
	return &unifyError{msg: fmt.Sprintf(format, args...)}
}

// unify is the recursive core, returning a plain error rather than emitting a
// diagnostic directly, so callers (rule 7's recursive field/tail unification
// in particular) can wrap the message with positional context before it
// surfaces.
func (s *State) unify(pos token.Range, t1, t2 types.Monotype) error {
	// Rule 1: Error unifies with anything as a no-op.
	if _, ok := t1.(types.TError); ok {
		return nil
	}
	if _, ok := t2.(types.TError); ok {
		return nil
	}

	// Rule 3/4: resolve variables through the substitution first.
	v1, isVar1 := t1.(types.TVar)
	v2, isVar2 := t2.(types.TVar)
	if isVar1 {
		rep, bound, isBound := s.Subst.Resolve(v1.ID)
		if isBound {
			return s.unify(pos, bound, t2)
		}
		t1 = types.TVar{ID: rep}
		v1 = t1.(types.TVar)
		isVar1 = true
	}
	if isVar2 {
		rep, bound, isBound := s.Subst.Resolve(v2.ID)
		if isBound {
			return s.unify(pos, t1, bound)
		}
		t2 = types.TVar{ID: rep}
		v2 = t2.(types.TVar)
		isVar2 = true
	}

	switch {
	case isVar1 && isVar2:
		if v1.ID == v2.ID {
			return nil
		}
		s.Subst.Union(v1.ID, v2.ID)
		return nil
	case isVar1:
		return s.bindVar(pos, v1, t2)
	case isVar2:
		return s.bindVar(pos, v2, t1)
	}

	// Rule 2: primitives unify iff identical.
	p1, isP1 := t1.(types.TPrimitive)
	p2, isP2 := t2.(types.TPrimitive)
	if isP1 || isP2 {
		if isP1 && isP2 && p1.Name == p2.Name {
			return nil
		}
		return errf("expected %s but found %s", t1, t2)
	}

	// Rule 5: array/vector/dict unify pointwise.
	if a1, ok := t1.(types.TArray); ok {
		a2, ok := t2.(types.TArray)
		if !ok {
			return errf("expected %s but found %s", t1, t2)
		}
		return s.unify(pos, a1.Elem, a2.Elem)
	}
	if vv1, ok := t1.(types.TVector); ok {
		vv2, ok := t2.(types.TVector)
		if !ok {
			return errf("expected %s but found %s", t1, t2)
		}
		return s.unify(pos, vv1.Elem, vv2.Elem)
	}
	if d1, ok := t1.(types.TDict); ok {
		d2, ok := t2.(types.TDict)
		if !ok {
			return errf("expected %s but found %s", t1, t2)
		}
		if err := s.unify(pos, d1.Key, d2.Key); err != nil {
			return fmt.Errorf("for dict key: %w", err)
		}
		return s.unify(pos, d1.Value, d2.Value)
	}

	// Rule 6: functions follow the pipe/required/optional call protocol,
	// implemented in internal/infer (the generic unifier only handles the
	// structural shape of two declared function types, used e.g. when
	// unifying an inferred closure's type against an annotation).
	if f1, ok := t1.(types.TFunc); ok {
		f2, ok := t2.(types.TFunc)
		if !ok {
			return errf("expected %s but found %s", t1, t2)
		}
		return s.unifyFuncShape(pos, f1, f2)
	}

	// Rule 7: records.
	_, isRec1 := t1.(types.TRecordEmpty)
	_, isExt1 := t1.(types.TRecordExt)
	_, isRec2 := t2.(types.TRecordEmpty)
	_, isExt2 := t2.(types.TRecordExt)
	if isRec1 || isExt1 || isRec2 || isExt2 {
		return s.unifyRecord(pos, t1, t2)
	}

	return errf("expected %s but found %s", t1, t2)
}

func (s *State) bindVar(pos token.Range, v types.TVar, t types.Monotype) error {
	if types.OccursCheck(s.Subst, v.ID, t) {
		return errf("recursive type: %s occurs in %s", v, t)
	}
	for k := range s.Subst.KindsOf(v.ID) {
		if !types.Admits(k, t) {
			return errf("%s is not %s", t, k)
		}
	}
	s.Subst.Bind(v.ID, t)
	return nil
}

func (s *State) unifyFuncShape(pos token.Range, f1, f2 types.TFunc) error {
	for name, t1 := range f1.Required {
		t2, ok := f2.Required[name]
		if !ok {
			return errf("missing required argument %q", name)
		}
		if err := s.unify(pos, t1, t2); err != nil {
			return fmt.Errorf("(argument %s): %w", name, err)
		}
	}
	for name := range f2.Required {
		if _, ok := f1.Required[name]; !ok {
			return errf("extra required argument %q", name)
		}
	}
	for name, t1 := range f1.Optional {
		t2, ok := f2.Optional[name]
		if !ok {
			continue
		}
		if err := s.unify(pos, t1, t2); err != nil {
			return fmt.Errorf("(argument %s): %w", name, err)
		}
	}
	switch {
	case f1.Pipe == nil && f2.Pipe == nil:
	case f1.Pipe != nil && f2.Pipe != nil:
		if f1.Pipe.Name != "" && f2.Pipe.Name != "" && f1.Pipe.Name != f2.Pipe.Name {
			return errf("multiple pipe arguments: %q and %q", f1.Pipe.Name, f2.Pipe.Name)
		}
		if err := s.unify(pos, f1.Pipe.Type, f2.Pipe.Type); err != nil {
			return fmt.Errorf("for pipe argument: %w", err)
		}
	default:
		return errf("pipe argument mismatch")
	}
	if err := s.unify(pos, f1.Ret, f2.Ret); err != nil {
		return fmt.Errorf("for return type: %w", err)
	}
	return nil
}

// unifyRecord implements rule 7 exactly per SPEC_FULL.md §4.I. Rule 7 is only
// ever reached when at least one operand is a record; the other may still be
// some unrelated structural type (e.g. `{a:1}[0]` unifies a record against
// TArray), so both operands are guarded here before either is asserted to
// types.TRecordExt.
func (s *State) unifyRecord(pos token.Range, t1, t2 types.Monotype) error {
	if !isRecordType(t1) || !isRecordType(t2) {
		return errf("expected %s but found %s", t1, t2)
	}

	e1, isExt1 := asEmpty(t1)
	e2, isExt2 := asEmpty(t2)
	if e1 && e2 {
		return nil
	}
	if e1 != e2 {
		ext, _ := nonEmpty(t1, t2)
		label := ext.(types.TRecordExt).Label
		if e1 {
			return errf("extra label %s", label)
		}
		return errf("missing label %s", label)
	}
	_ = isExt1
	_ = isExt2

	r1 := t1.(types.TRecordExt)
	r2 := t2.(types.TRecordExt)

	tail1Var, tail1IsVar := asVar(s, r1.Tail)
	tail2Var, tail2IsVar := asVar(s, r2.Tail)
	sameTail := tail1IsVar && tail2IsVar && tail1Var.ID == tail2Var.ID

	switch {
	case sameTail && types.LabelEqual(r1.Label, r2.Label):
		if err := s.unify(pos, r1.Value, r2.Value); err != nil {
			return fmt.Errorf("for label %s: %w", r1.Label, err)
		}
		return nil
	case sameTail:
		return errf("cannot unify: label %s and %s share a tail variable", r1.Label, r2.Label)
	case types.LabelEqual(r1.Label, r2.Label):
		if err := s.unify(pos, r1.Value, r2.Value); err != nil {
			return fmt.Errorf("for label %s: %w", r1.Label, err)
		}
		return s.unify(pos, r1.Tail, r2.Tail)
	default:
		// t1's tail must absorb r2's label and vice versa. Both recursive calls
		// keep the t1-side argument tracing back to the original t1 operand
		// (want1 is r2-shaped but stands in for "what t1 must also accept";
		// r2.Tail goes second, mirroring that), so a missing-vs-extra label
		// report further down the recursion still resolves against the
		// original expected/actual operand order.
		rho := s.Subst.Fresh()
		want1 := types.TRecordExt{Label: r2.Label, Value: r2.Value, Tail: rho}
		want2 := types.TRecordExt{Label: r1.Label, Value: r1.Value, Tail: rho}
		if err := s.unify(pos, r1.Tail, want1); err != nil {
			return fmt.Errorf("for label %s: %w", r2.Label, err)
		}
		return s.unify(pos, want2, r2.Tail)
	}
}

func isRecordType(t types.Monotype) bool {
	switch t.(type) {
	case types.TRecordEmpty, types.TRecordExt:
		return true
	default:
		return false
	}
}

func asEmpty(t types.Monotype) (isEmpty bool, isExt bool) {
	switch t.(type) {
	case types.TRecordEmpty:
		return true, false
	case types.TRecordExt:
		return false, true
	default:
		return false, false
	}
}

func nonEmpty(t1, t2 types.Monotype) (types.Monotype, bool) {
	if _, ok := t1.(types.TRecordExt); ok {
		return t1, true
	}
	return t2, true
}

func asVar(s *State, t types.Monotype) (types.TVar, bool) {
	v, ok := t.(types.TVar)
	if !ok {
		return types.TVar{}, false
	}
	rep, _, isBound := s.Subst.Resolve(v.ID)
	if isBound {
		return types.TVar{}, false
	}
	return types.TVar{ID: rep}, true
}
