package unify

import (
	"testing"

	"github.com/funvibe/funxy/internal/token"
	"github.com/funvibe/funxy/internal/types"
)

func TestUnifyPrimitives(t *testing.T) {
	tests := []struct {
		name    string
		a, b    types.Monotype
		wantErr bool
	}{
		{"same primitive", types.TPrimitive{Name: types.Int}, types.TPrimitive{Name: types.Int}, false},
		{"different primitive", types.TPrimitive{Name: types.Int}, types.TPrimitive{Name: types.String}, true},
		{"error absorbs anything", types.TError{}, types.TPrimitive{Name: types.String}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewState(types.NewSubst())
			s.Unify(token.Range{}, "", tt.a, tt.b)
			if got := s.Diags.Len() > 0; got != tt.wantErr {
				t.Fatalf("unify(%s, %s): error = %v, want %v", tt.a, tt.b, got, tt.wantErr)
			}
		})
	}
}

func TestUnifyVarBindsAndPropagates(t *testing.T) {
	s := NewState(types.NewSubst())
	v := s.Subst.Fresh()
	s.Unify(token.Range{}, "", v, types.TPrimitive{Name: types.Int})
	if s.Diags.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %s", s.Diags)
	}
	applied := types.Apply(s.Subst, v)
	if applied.String() != "int" {
		t.Fatalf("expected v to resolve to int, got %s", applied)
	}
}

func TestUnifyArraysPointwise(t *testing.T) {
	s := NewState(types.NewSubst())
	a := types.TArray{Elem: types.TPrimitive{Name: types.Int}}
	b := types.TArray{Elem: types.TPrimitive{Name: types.Int}}
	s.Unify(token.Range{}, "", a, b)
	if s.Diags.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %s", s.Diags)
	}

	c := types.TArray{Elem: types.TPrimitive{Name: types.String}}
	s2 := NewState(types.NewSubst())
	s2.Unify(token.Range{}, "", a, c)
	if s2.Diags.Len() == 0 {
		t.Fatalf("expected a cannot-unify diagnostic for mismatched element types")
	}
}

func TestUnifyOccursCheck(t *testing.T) {
	s := NewState(types.NewSubst())
	v := s.Subst.Fresh()
	recursive := types.TArray{Elem: v}
	s.Unify(token.Range{}, "", v, recursive)
	if s.Diags.Len() == 0 {
		t.Fatalf("expected an occurs-check failure, got none")
	}
}

// TestUnifyRecordOpenRow exercises rule 7's fresh-tail-variable case: two
// records with different leading labels and distinct (unbound) tails unify
// by each absorbing the other's label behind a shared fresh row variable.
func TestUnifyRecordOpenRow(t *testing.T) {
	s := NewState(types.NewSubst())
	rho1 := s.Subst.Fresh()
	rho2 := s.Subst.Fresh()
	r1 := types.TRecordExt{Label: "a", Value: types.TPrimitive{Name: types.Int}, Tail: rho1}
	r2 := types.TRecordExt{Label: "b", Value: types.TPrimitive{Name: types.String}, Tail: rho2}
	s.Unify(token.Range{}, "", r1, r2)
	if s.Diags.Len() != 0 {
		t.Fatalf("unexpected diagnostics unifying open records: %s", s.Diags)
	}

	applied := types.Apply(s.Subst, r1)
	fields, _ := types.Fields(applied)
	labels := map[types.Label]bool{}
	for _, f := range fields {
		labels[f.Label] = true
	}
	if !labels["a"] || !labels["b"] {
		t.Fatalf("expected both labels present after open-row unification, got %v", applied)
	}
}

func TestUnifyRecordClosedMismatch(t *testing.T) {
	s := NewState(types.NewSubst())
	r1 := types.TRecordExt{Label: "a", Value: types.TPrimitive{Name: types.Int}, Tail: types.TRecordEmpty{}}
	r2 := types.TRecordEmpty{}
	s.Unify(token.Range{}, "", r1, r2)
	if s.Diags.Len() == 0 {
		t.Fatalf("expected a missing/extra label diagnostic")
	}
}
