package diagnostics

import (
	"strings"
	"testing"

	"github.com/funvibe/funxy/internal/token"
)

func TestShortFormRendering(t *testing.T) {
	e := New(token.Position{Line: 3, Column: 5}, "foo.fx", KindCannotUnify, "cannot unify %s and %s", "int", "string")
	want := "foo.fx:3:5: error: cannot unify int and string"
	if got := e.Short(); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestShortFormMissingFileFallsBackToInput(t *testing.T) {
	e := New(token.Position{Line: 1, Column: 1}, "", KindUndefinedIdentifier, "undefined identifier %q", "x")
	if !strings.HasPrefix(e.Short(), "<input>:1:1:") {
		t.Fatalf("got %q, want <input> prefix", e.Short())
	}
}

func TestWrapPreservesPositionAddsContext(t *testing.T) {
	inner := New(token.Position{Line: 2, Column: 1}, "f.fx", KindCannotUnify, "cannot unify int and string")
	outer := Wrap(inner, "for parameter %s", "x")
	if outer.Pos != inner.Pos {
		t.Fatalf("expected Wrap to preserve the inner position")
	}
	if !strings.Contains(outer.Msg, "for parameter x") || !strings.Contains(outer.Msg, inner.Msg) {
		t.Fatalf("expected wrapped message to contain both context and inner message, got %q", outer.Msg)
	}
	if outer.Cause != inner {
		t.Fatalf("expected Cause to link back to the inner error")
	}
}

func TestListAppendPreservesOrder(t *testing.T) {
	a := &List{}
	a.Addf(token.Position{Line: 1, Column: 1}, "f", KindCannotUnify, "first")
	b := &List{}
	b.Addf(token.Position{Line: 2, Column: 1}, "f", KindCannotUnify, "second")
	a.Append(b)
	if a.Len() != 2 {
		t.Fatalf("expected 2 errors after append, got %d", a.Len())
	}
	if a.Errors()[0].Msg != "first" || a.Errors()[1].Msg != "second" {
		t.Fatalf("expected append to preserve order, got %v", a.Errors())
	}
}

func TestListAddNilIsNoop(t *testing.T) {
	l := &List{}
	l.Add(nil)
	if l.Len() != 0 {
		t.Fatalf("expected Add(nil) to be a no-op, got len %d", l.Len())
	}
}

func TestListSortOrdersByPosition(t *testing.T) {
	l := &List{}
	l.Addf(token.Position{Line: 5, Column: 1}, "f", KindCannotUnify, "later")
	l.Addf(token.Position{Line: 1, Column: 1}, "f", KindCannotUnify, "earlier")
	l.Sort()
	if l.Errors()[0].Msg != "earlier" {
		t.Fatalf("expected sort to order by position, got %v", l.Errors())
	}
}

func TestListSortOrdersByFileThenPosition(t *testing.T) {
	l := &List{}
	l.Addf(token.Position{Line: 1, Column: 1}, "z.fx", KindCannotUnify, "z-file")
	l.Addf(token.Position{Line: 1, Column: 1}, "a.fx", KindCannotUnify, "a-file")
	l.Sort()
	if l.Errors()[0].Msg != "a-file" {
		t.Fatalf("expected sort to break ties by filename, got %v", l.Errors())
	}
}
