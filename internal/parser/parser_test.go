package parser

import (
	"testing"

	"github.com/funvibe/funxy/internal/ast"
)

func TestParseFilePackageAndImports(t *testing.T) {
	src := `package foo
import "strings"
import bar "other/pkg"
x = 1`
	f, diags := ParseFile("t.fx", src)
	if diags.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %s", diags)
	}
	if f.Package == nil || f.Package.Name != "foo" {
		t.Fatalf("expected package clause foo, got %v", f.Package)
	}
	if len(f.Imports) != 2 {
		t.Fatalf("expected 2 imports, got %d", len(f.Imports))
	}
	if f.Imports[1].Alias == nil || f.Imports[1].Alias.Name != "bar" {
		t.Fatalf("expected second import aliased bar, got %v", f.Imports[1].Alias)
	}
	if len(f.Body) != 1 {
		t.Fatalf("expected 1 body statement, got %d", len(f.Body))
	}
}

func TestParseFileNoPackageClauseIsOptional(t *testing.T) {
	f, diags := ParseFile("t.fx", "x = 1")
	if diags.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %s", diags)
	}
	if f.Package != nil {
		t.Fatalf("expected no package clause, got %v", f.Package)
	}
}

func TestParseAssignStatement(t *testing.T) {
	f, diags := ParseFile("t.fx", "x = 1 + 2")
	if diags.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %s", diags)
	}
	if len(f.Body) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(f.Body))
	}
	assign, ok := f.Body[0].(*ast.AssignStatement)
	if !ok {
		t.Fatalf("expected *ast.AssignStatement, got %T", f.Body[0])
	}
	bin, ok := assign.Value.(*ast.BinaryExpr)
	if !ok {
		t.Fatalf("expected value to be *ast.BinaryExpr, got %T", assign.Value)
	}
	if bin.Op != "+" {
		t.Fatalf("expected op +, got %q", bin.Op)
	}
}

func TestParseOperatorPrecedence(t *testing.T) {
	// 1 + 2 * 3 should parse as 1 + (2 * 3): the BinaryExpr's right side
	// is itself a BinaryExpr, not the reverse.
	f, _ := ParseFile("t.fx", "x = 1 + 2 * 3")
	assign := f.Body[0].(*ast.AssignStatement)
	outer, ok := assign.Value.(*ast.BinaryExpr)
	if !ok || outer.Op != "+" {
		t.Fatalf("expected outer op +, got %#v", assign.Value)
	}
	inner, ok := outer.Right.(*ast.BinaryExpr)
	if !ok || inner.Op != "*" {
		t.Fatalf("expected inner right op *, got %#v", outer.Right)
	}
}

func TestParsePipeExpr(t *testing.T) {
	f, diags := ParseFile("t.fx", "x = data |> filter(fn: f) |> sum()")
	if diags.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %s", diags)
	}
	assign := f.Body[0].(*ast.AssignStatement)
	outer, ok := assign.Value.(*ast.PipeExpr)
	if !ok {
		t.Fatalf("expected outer *ast.PipeExpr, got %T", assign.Value)
	}
	if _, ok := outer.Left.(*ast.PipeExpr); !ok {
		t.Fatalf("expected pipe to be left-associative, got left=%T", outer.Left)
	}
}

func TestParseFunctionExprWithPipeAndDefault(t *testing.T) {
	f, diags := ParseFile("t.fx", "f = (x, y=1, z=<-) => x + y")
	if diags.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %s", diags)
	}
	assign := f.Body[0].(*ast.AssignStatement)
	fn, ok := assign.Value.(*ast.FunctionExpr)
	if !ok {
		t.Fatalf("expected *ast.FunctionExpr, got %T", assign.Value)
	}
	if len(fn.Params) != 3 {
		t.Fatalf("expected 3 params, got %d", len(fn.Params))
	}
	if fn.Params[1].Default == nil {
		t.Fatalf("expected second param to carry a default")
	}
	if !fn.Params[2].IsPipe {
		t.Fatalf("expected third param to be the pipe param")
	}
	if fn.Params[2].Name == nil || fn.Params[2].Name.Name != "z" {
		t.Fatalf("expected third param named z, got %v", fn.Params[2].Name)
	}
}

func TestParseConditionalExpr(t *testing.T) {
	f, diags := ParseFile("t.fx", "x = if a then 1 else 2")
	if diags.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %s", diags)
	}
	assign := f.Body[0].(*ast.AssignStatement)
	if _, ok := assign.Value.(*ast.ConditionalExpr); !ok {
		t.Fatalf("expected *ast.ConditionalExpr, got %T", assign.Value)
	}
}

func TestParseObjectExprWithShorthand(t *testing.T) {
	f, diags := ParseFile("t.fx", "x = {a: 1, b}")
	if diags.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %s", diags)
	}
	assign := f.Body[0].(*ast.AssignStatement)
	obj, ok := assign.Value.(*ast.ObjectExpr)
	if !ok {
		t.Fatalf("expected *ast.ObjectExpr, got %T", assign.Value)
	}
	if len(obj.Properties) != 2 {
		t.Fatalf("expected 2 properties, got %d", len(obj.Properties))
	}
}

func TestParseErrorRecoveryProducesBadStmtNotAbort(t *testing.T) {
	// A malformed first statement must not prevent the well-formed second
	// statement from parsing (SPEC_FULL.md's error-recovery guarantee).
	f, diags := ParseFile("t.fx", "= = =\ny = 2")
	if diags.Len() == 0 {
		t.Fatalf("expected at least one diagnostic for the malformed statement")
	}
	found := false
	for _, s := range f.Body {
		if assign, ok := s.(*ast.AssignStatement); ok && assign.Name != nil && assign.Name.Name == "y" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected the well-formed `y = 2` statement to still parse, got %#v", f.Body)
	}
}

func TestParseOptionAndBuiltinStatements(t *testing.T) {
	f, diags := ParseFile("t.fx", "option foo = 1\nbuiltin bar: int")
	if diags.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %s", diags)
	}
	if len(f.Body) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(f.Body))
	}
	if _, ok := f.Body[0].(*ast.OptionStatement); !ok {
		t.Fatalf("expected first statement *ast.OptionStatement, got %T", f.Body[0])
	}
	if _, ok := f.Body[1].(*ast.BuiltinStatement); !ok {
		t.Fatalf("expected second statement *ast.BuiltinStatement, got %T", f.Body[1])
	}
}
