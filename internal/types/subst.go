package types

// Subst is the union-find substitution of SPEC_FULL.md §4.G-H. Variables are
// integer ids; each is unbound, bound to a monotype, or unified with another
// variable (a union-find parent link). The substitution owns a companion
// kind-map keyed by representative id. Grounded structurally on funxy's
// Subst map[string]Type + Compose + cycle-safe-apply idiom, adapted to this
// spec's explicit three-state variable model.
type Subst struct {
	parent map[int]int
	bound  map[int]Monotype
	kinds  map[int]map[Kind]bool
	fresh  int
}

func NewSubst() *Subst {
	return &Subst{
		parent: make(map[int]int),
		bound:  make(map[int]Monotype),
		kinds:  make(map[int]map[Kind]bool),
	}
}

// Fresh allocates a new, unbound variable id.
func (s *Subst) Fresh() TVar {
	s.fresh++
	return TVar{ID: s.fresh}
}

// find returns the representative id of v, path-compressing as it walks.
func (s *Subst) find(v int) int {
	root := v
	for {
		p, ok := s.parent[root]
		if !ok {
			break
		}
		root = p
	}
	for v != root {
		next := s.parent[v]
		s.parent[v] = root
		v = next
	}
	return root
}

// Resolve returns the representative TVar for v and whether it is still
// unbound (true) or has been bound to a concrete monotype (false, in which
// case the bound monotype is also returned).
func (s *Subst) Resolve(v int) (rep int, bound Monotype, isBound bool) {
	rep = s.find(v)
	bound, isBound = s.bound[rep]
	return
}

// Bind records that variable v's representative is bound to t. Callers are
// responsible for the occurs-check before calling Bind.
func (s *Subst) Bind(v int, t Monotype) {
	rep := s.find(v)
	s.bound[rep] = t
}

// Union merges two still-unbound variables, keeping b's representative and
// merging a's kind set into it (SPEC_FULL.md §4.G-H "When two variables are
// unified, their kind sets are merged and propagated to the representative").
func (s *Subst) Union(a, b int) {
	ra, rb := s.find(a), s.find(b)
	if ra == rb {
		return
	}
	s.parent[ra] = rb
	if ks, ok := s.kinds[ra]; ok {
		for k := range ks {
			s.AddKind(rb, k)
		}
		delete(s.kinds, ra)
	}
}

// AddKind records that representative id's variable must satisfy kind k.
func (s *Subst) AddKind(v int, k Kind) {
	rep := s.find(v)
	ks, ok := s.kinds[rep]
	if !ok {
		ks = make(map[Kind]bool)
		s.kinds[rep] = ks
	}
	ks[k] = true
}

// KindsOf returns the kind set required of v's representative (possibly empty).
func (s *Subst) KindsOf(v int) map[Kind]bool {
	rep := s.find(v)
	ks := s.kinds[rep]
	out := make(map[Kind]bool, len(ks))
	for k := range ks {
		out[k] = true
	}
	return out
}

// Apply walks t's structure, replacing any TVar whose representative is
// bound with its (recursively applied) bound monotype, and rewriting TVar
// ids to their union-find representative otherwise. Apply is idempotent on
// fixed points: applying twice yields the same result as applying once
// (SPEC_FULL.md §8 property 5), because a bound representative's value is
// itself fully applied before being substituted in.
func Apply(s *Subst, t Monotype) Monotype {
	switch tt := t.(type) {
	case TVar:
		rep, bound, isBound := s.Resolve(tt.ID)
		if isBound {
			return Apply(s, bound)
		}
		return TVar{ID: rep}
	case TArray:
		return TArray{Elem: Apply(s, tt.Elem)}
	case TVector:
		return TVector{Elem: Apply(s, tt.Elem)}
	case TDict:
		return TDict{Key: Apply(s, tt.Key), Value: Apply(s, tt.Value)}
	case TFunc:
		req := make(map[string]Monotype, len(tt.Required))
		for k, v := range tt.Required {
			req[k] = Apply(s, v)
		}
		opt := make(map[string]Monotype, len(tt.Optional))
		for k, v := range tt.Optional {
			opt[k] = Apply(s, v)
		}
		var pipe *PipeParam
		if tt.Pipe != nil {
			pipe = &PipeParam{Name: tt.Pipe.Name, Type: Apply(s, tt.Pipe.Type)}
		}
		return TFunc{Required: req, Optional: opt, Pipe: pipe, Ret: Apply(s, tt.Ret)}
	case TRecordExt:
		return TRecordExt{Label: tt.Label, Value: Apply(s, tt.Value), Tail: Apply(s, tt.Tail)}
	default:
		// TError, TPrimitive, TBoundVar, TRecordEmpty carry no substructure
		// to resolve.
		return t
	}
}

// FreeVars returns the ids of variables that remain unbound in t after
// applying s (TBoundVar ids are excluded — they are quantified by an
// enclosing polytype, not free).
func FreeVars(s *Subst, t Monotype) []int {
	seen := make(map[int]bool)
	var walk func(Monotype)
	walk = func(t Monotype) {
		switch tt := t.(type) {
		case TVar:
			rep, bound, isBound := s.Resolve(tt.ID)
			if isBound {
				walk(bound)
				return
			}
			seen[rep] = true
		case TArray:
			walk(tt.Elem)
		case TVector:
			walk(tt.Elem)
		case TDict:
			walk(tt.Key)
			walk(tt.Value)
		case TFunc:
			for _, v := range tt.Required {
				walk(v)
			}
			for _, v := range tt.Optional {
				walk(v)
			}
			if tt.Pipe != nil {
				walk(tt.Pipe.Type)
			}
			walk(tt.Ret)
		case TRecordExt:
			walk(tt.Value)
			walk(tt.Tail)
		}
	}
	walk(t)
	out := make([]int, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	return out
}

// OccursCheck reports whether variable v's representative occurs free
// (after applying s) within t. Unifying v with such a t is rejected with
// "recursive types not supported" (SPEC_FULL.md §4.G-H).
func OccursCheck(s *Subst, v int, t Monotype) bool {
	rep := s.find(v)
	for _, id := range FreeVars(s, t) {
		if id == rep {
			return true
		}
	}
	return false
}
