package infer

import (
	"github.com/funvibe/funxy/internal/diagnostics"
	"github.com/funvibe/funxy/internal/semantic"
	"github.com/funvibe/funxy/internal/types"
)

// operandKind maps a binary operator to the kind both operands (and the
// result, which is always the same type as the operands for arithmetic) must
// satisfy, per SPEC_FULL.md §4.G-H's kind table.
var operandKind = map[string]types.Kind{
	"+":  types.Addable,
	"-":  types.Subtractable,
	"*":  types.Numeric,
	"/":  types.Divisible,
	"%":  types.Numeric,
	"**": types.Numeric,
	"<":  types.Comparable,
	"<=": types.Comparable,
	">":  types.Comparable,
	">=": types.Comparable,
}

func (inf *Inferencer) inferBinary(ex *semantic.BinaryExpr) types.Monotype {
	lt := inf.inferExpr(ex.Left)
	rt := inf.inferExpr(ex.Right)

	switch ex.Op {
	case "==", "!=":
		inf.unify.Unify(ex.Range(), "for "+ex.Op, lt, rt)
		if v, ok := types.Apply(inf.subst, lt).(types.TVar); ok {
			inf.subst.AddKind(v.ID, types.Equatable)
		} else if !types.Admits(types.Equatable, types.Apply(inf.subst, lt)) {
			inf.diags.Addf(ex.Range().Start, ex.Range().Filename, diagnostics.KindCannotConstrain,
				"%s is not %s", types.Apply(inf.subst, lt), types.Equatable)
		}
		return types.TPrimitive{Name: types.Bool}
	case "=~", "!~":
		inf.unify.Unify(ex.Range(), "for "+ex.Op+" left operand", lt, types.TPrimitive{Name: types.String})
		inf.unify.Unify(ex.Range(), "for "+ex.Op+" right operand", rt, types.TPrimitive{Name: types.Regexp})
		return types.TPrimitive{Name: types.Bool}
	}

	k, ok := operandKind[ex.Op]
	if !ok {
		return types.TError{}
	}
	inf.unify.Unify(ex.Range(), "for "+ex.Op, lt, rt)
	if v, ok := types.Apply(inf.subst, lt).(types.TVar); ok {
		inf.subst.AddKind(v.ID, k)
	} else if !types.Admits(k, types.Apply(inf.subst, lt)) {
		inf.diags.Addf(ex.Range().Start, ex.Range().Filename, diagnostics.KindCannotConstrain,
			"%s is not %s", types.Apply(inf.subst, lt), k)
	}

	switch ex.Op {
	case "<", "<=", ">", ">=":
		return types.TPrimitive{Name: types.Bool}
	default:
		return types.Apply(inf.subst, lt)
	}
}

func (inf *Inferencer) inferLogical(ex *semantic.LogicalExpr) types.Monotype {
	lt := inf.inferExpr(ex.Left)
	rt := inf.inferExpr(ex.Right)
	inf.unify.Unify(ex.Left.Range(), "for "+ex.Op, lt, types.TPrimitive{Name: types.Bool})
	inf.unify.Unify(ex.Right.Range(), "for "+ex.Op, rt, types.TPrimitive{Name: types.Bool})
	return types.TPrimitive{Name: types.Bool}
}

func (inf *Inferencer) inferUnary(ex *semantic.UnaryExpr) types.Monotype {
	t := inf.inferExpr(ex.Operand)
	switch ex.Op {
	case "not":
		inf.unify.Unify(ex.Range(), "for not", t, types.TPrimitive{Name: types.Bool})
		return types.TPrimitive{Name: types.Bool}
	case "exists":
		if v, ok := types.Apply(inf.subst, t).(types.TVar); ok {
			inf.subst.AddKind(v.ID, types.Nullable)
		} else if !types.Admits(types.Nullable, types.Apply(inf.subst, t)) {
			inf.diags.Addf(ex.Range().Start, ex.Range().Filename, diagnostics.KindCannotConstrain,
				"%s is not %s", types.Apply(inf.subst, t), types.Nullable)
		}
		return types.TPrimitive{Name: types.Bool}
	case "-":
		if v, ok := types.Apply(inf.subst, t).(types.TVar); ok {
			inf.subst.AddKind(v.ID, types.Negatable)
		} else if !types.Admits(types.Negatable, types.Apply(inf.subst, t)) {
			inf.diags.Addf(ex.Range().Start, ex.Range().Filename, diagnostics.KindCannotConstrain,
				"%s is not %s", types.Apply(inf.subst, t), types.Negatable)
		}
		return types.Apply(inf.subst, t)
	case "+":
		if v, ok := types.Apply(inf.subst, t).(types.TVar); ok {
			inf.subst.AddKind(v.ID, types.Numeric)
		} else if !types.Admits(types.Numeric, types.Apply(inf.subst, t)) {
			inf.diags.Addf(ex.Range().Start, ex.Range().Filename, diagnostics.KindCannotConstrain,
				"%s is not %s", types.Apply(inf.subst, t), types.Numeric)
		}
		return types.Apply(inf.subst, t)
	default:
		return types.TError{}
	}
}

func (inf *Inferencer) inferConditional(ex *semantic.ConditionalExpr) types.Monotype {
	ct := inf.inferExpr(ex.Cond)
	inf.unify.Unify(ex.Cond.Range(), "for if condition", ct, types.TPrimitive{Name: types.Bool})
	tt := inf.inferExpr(ex.Then)
	et := inf.inferExpr(ex.Else)
	inf.unify.Unify(ex.Range(), "for if/then/else branches", tt, et)
	return types.Apply(inf.subst, tt)
}
