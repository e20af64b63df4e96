package infer

import (
	"github.com/funvibe/funxy/internal/semantic"
	"github.com/funvibe/funxy/internal/symbols"
	"github.com/funvibe/funxy/internal/types"
)

// inferFunctionExpr builds this function literal's TFunc shape directly from
// its parameter list: a parameter with a Default becomes Optional (its
// presence at a call site is never required, per SPEC_FULL.md §4.F "default
// function arguments"), a parameter without one becomes Required, and the
// (at most one, enforced by the converter) pipe-marked parameter becomes
// Pipe. Every parameter symbol is bound monomorphically for the duration of
// the body walk and removed again afterwards, so a later sibling statement's
// generalization does not see it as still in scope (SPEC_FULL.md §4.G-H
// "generalization excludes only variables free in the *current*
// environment").
func (inf *Inferencer) inferFunctionExpr(fn *semantic.FunctionExpr) types.Monotype {
	required := map[string]types.Monotype{}
	optional := map[string]types.Monotype{}
	var pipe *types.PipeParam

	syms := make([]*symbols.Symbol, 0, len(fn.Params))
	vars := make([]types.Monotype, 0, len(fn.Params))

	for _, p := range fn.Params {
		tv := inf.subst.Fresh()
		syms = append(syms, p.Symbol)
		vars = append(vars, tv)

		switch {
		case p.IsPipe:
			name := ""
			if p.Symbol != nil {
				name = p.Symbol.Name
			}
			pipe = &types.PipeParam{Name: name, Type: tv}
		case p.Default != nil:
			defType := inf.inferExpr(p.Default)
			if _, isPipeLit := p.Default.(*semantic.PipeLit); !isPipeLit {
				inf.unify.Unify(p.Default.Range(), "for parameter default", tv, defType)
			}
			if p.Symbol != nil {
				optional[p.Symbol.Name] = tv
			}
		default:
			if p.Symbol != nil {
				required[p.Symbol.Name] = tv
			}
		}
	}

	restore := inf.bindParamsMono(syms, vars)
	var ret types.Monotype
	switch body := fn.Body.(type) {
	case *semantic.Block:
		ret = inf.inferBlock(body)
	case semantic.Expression:
		ret = inf.inferExpr(body)
	default:
		ret = types.TError{}
	}
	restore()

	return types.TFunc{
		Required: inf.applyMap(required),
		Optional: inf.applyMap(optional),
		Pipe:     inf.applyPipe(pipe),
		Ret:      types.Apply(inf.subst, ret),
	}
}

func (inf *Inferencer) applyMap(m map[string]types.Monotype) map[string]types.Monotype {
	out := make(map[string]types.Monotype, len(m))
	for k, v := range m {
		out[k] = types.Apply(inf.subst, v)
	}
	return out
}

func (inf *Inferencer) applyPipe(p *types.PipeParam) *types.PipeParam {
	if p == nil {
		return nil
	}
	return &types.PipeParam{Name: p.Name, Type: types.Apply(inf.subst, p.Type)}
}

// bindParamsMono binds each (non-nil) symbol to its corresponding fresh
// variable in inf.mono, returning a closure that restores whatever binding
// (or absence of one) was there before, so that parameters of a function
// literal never leak into the generalization scope of statements around it.
func (inf *Inferencer) bindParamsMono(syms []*symbols.Symbol, vars []types.Monotype) func() {
	saved := make(map[*symbols.Symbol]types.Monotype, len(syms))
	hadPrev := make(map[*symbols.Symbol]bool, len(syms))
	for i, sym := range syms {
		if sym == nil {
			continue
		}
		if prev, ok := inf.mono[sym]; ok {
			saved[sym] = prev
			hadPrev[sym] = true
		}
		inf.mono[sym] = vars[i]
	}
	return func() {
		for _, sym := range syms {
			if sym == nil {
				continue
			}
			if hadPrev[sym] {
				inf.mono[sym] = saved[sym]
			} else {
				delete(inf.mono, sym)
			}
		}
	}
}
