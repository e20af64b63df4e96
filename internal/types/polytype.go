package types

// Polytype is a let-bound type scheme: a monotype with a set of
// universally-quantified variables, each carrying the kind constraints that
// must hold for any instantiation (SPEC_FULL.md §4.G-H "let-polymorphism").
// Quantified variables are represented as TBoundVar inside Type; Generalize
// and Instantiate move variables between the TVar (free) and TBoundVar
// (quantified) worlds.
type Polytype struct {
	Vars  []int // TBoundVar ids quantified by this scheme
	Kinds map[int]map[Kind]bool
	Type  Monotype
}

// Mono wraps a monotype with no quantified variables — the common case for
// anything that isn't the right-hand side of a `let`-like binding.
func Mono(t Monotype) Polytype { return Polytype{Type: t} }

// Generalize closes over every variable free in t (after applying s) that is
// not already free in env — the standard let-polymorphism restriction, so
// that a variable constrained by an enclosing scope is never generalized out
// from under it (SPEC_FULL.md §4.G-H).
func Generalize(s *Subst, env []int, t Monotype) Polytype {
	envSet := make(map[int]bool, len(env))
	for _, v := range env {
		envSet[v] = true
	}
	applied := Apply(s, t)
	var quant []int
	for _, v := range FreeVars(s, applied) {
		if !envSet[v] {
			quant = append(quant, v)
		}
	}
	kinds := make(map[int]map[Kind]bool, len(quant))
	rewrite := make(map[int]Monotype, len(quant))
	for _, v := range quant {
		kinds[v] = s.KindsOf(v)
		rewrite[v] = TBoundVar{ID: v}
	}
	return Polytype{Vars: quant, Kinds: kinds, Type: substituteVars(applied, rewrite)}
}

// Instantiate replaces every TBoundVar in p.Type with a freshly-allocated
// TVar, carrying over the scheme's per-variable kind constraints onto the
// fresh variable in s (SPEC_FULL.md §4.G-H "each use of a polymorphic symbol
// gets its own fresh variables").
func Instantiate(s *Subst, p Polytype) Monotype {
	if len(p.Vars) == 0 {
		return p.Type
	}
	fresh := make(map[int]Monotype, len(p.Vars))
	for _, v := range p.Vars {
		nv := s.Fresh()
		fresh[v] = nv
		for k := range p.Kinds[v] {
			s.AddKind(nv.ID, k)
		}
	}
	return substituteBoundVars(p.Type, fresh)
}

// substituteVars rewrites every TVar whose id is a key of rewrite to the
// paired Monotype (used by Generalize to turn free TVars into TBoundVars).
func substituteVars(t Monotype, rewrite map[int]Monotype) Monotype {
	switch tt := t.(type) {
	case TVar:
		if r, ok := rewrite[tt.ID]; ok {
			return r
		}
		return tt
	case TArray:
		return TArray{Elem: substituteVars(tt.Elem, rewrite)}
	case TVector:
		return TVector{Elem: substituteVars(tt.Elem, rewrite)}
	case TDict:
		return TDict{Key: substituteVars(tt.Key, rewrite), Value: substituteVars(tt.Value, rewrite)}
	case TFunc:
		req := make(map[string]Monotype, len(tt.Required))
		for k, v := range tt.Required {
			req[k] = substituteVars(v, rewrite)
		}
		opt := make(map[string]Monotype, len(tt.Optional))
		for k, v := range tt.Optional {
			opt[k] = substituteVars(v, rewrite)
		}
		var pipe *PipeParam
		if tt.Pipe != nil {
			pipe = &PipeParam{Name: tt.Pipe.Name, Type: substituteVars(tt.Pipe.Type, rewrite)}
		}
		return TFunc{Required: req, Optional: opt, Pipe: pipe, Ret: substituteVars(tt.Ret, rewrite)}
	case TRecordExt:
		return TRecordExt{Label: tt.Label, Value: substituteVars(tt.Value, rewrite), Tail: substituteVars(tt.Tail, rewrite)}
	default:
		return t
	}
}

// substituteBoundVars rewrites every TBoundVar whose id is a key of fresh to
// the paired Monotype (used by Instantiate).
func substituteBoundVars(t Monotype, fresh map[int]Monotype) Monotype {
	switch tt := t.(type) {
	case TBoundVar:
		if r, ok := fresh[tt.ID]; ok {
			return r
		}
		return tt
	case TArray:
		return TArray{Elem: substituteBoundVars(tt.Elem, fresh)}
	case TVector:
		return TVector{Elem: substituteBoundVars(tt.Elem, fresh)}
	case TDict:
		return TDict{Key: substituteBoundVars(tt.Key, fresh), Value: substituteBoundVars(tt.Value, fresh)}
	case TFunc:
		req := make(map[string]Monotype, len(tt.Required))
		for k, v := range tt.Required {
			req[k] = substituteBoundVars(v, fresh)
		}
		opt := make(map[string]Monotype, len(tt.Optional))
		for k, v := range tt.Optional {
			opt[k] = substituteBoundVars(v, fresh)
		}
		var pipe *PipeParam
		if tt.Pipe != nil {
			pipe = &PipeParam{Name: tt.Pipe.Name, Type: substituteBoundVars(tt.Pipe.Type, fresh)}
		}
		return TFunc{Required: req, Optional: opt, Pipe: pipe, Ret: substituteBoundVars(tt.Ret, fresh)}
	case TRecordExt:
		return TRecordExt{Label: tt.Label, Value: substituteBoundVars(tt.Value, fresh), Tail: substituteBoundVars(tt.Tail, fresh)}
	default:
		return t
	}
}
