package convert

import (
	"testing"

	"github.com/funvibe/funxy/internal/diagnostics"
	"github.com/funvibe/funxy/internal/parser"
	"github.com/funvibe/funxy/internal/semantic"
	"github.com/funvibe/funxy/internal/symbols"
	"github.com/funvibe/funxy/internal/types"
)

func convertSrc(t *testing.T, src string) (*semantic.File, *diagnostics.List) {
	t.Helper()
	astFile, parseDiags := parser.ParseFile("t.fx", src)
	if parseDiags.Len() != 0 {
		t.Fatalf("unexpected parse diagnostics: %s", parseDiags)
	}
	c := New("main", types.NewSubst(), symbols.NewRootScope(nil))
	f := c.ConvertFile(astFile)
	return f, c.Diagnostics()
}

func TestConvertAssignBindsAndResolvesSymbol(t *testing.T) {
	f, diags := convertSrc(t, "x = 1\ny = x")
	if diags.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %s", diags)
	}
	xAssign := f.Body[0].(*semantic.AssignStatement)
	yAssign := f.Body[1].(*semantic.AssignStatement)
	yIdent := yAssign.Value.(*semantic.IdentifierExpr)
	if !symbols.Same(xAssign.Symbol, yIdent.Symbol) {
		t.Fatalf("expected y's reference to x to resolve to the same symbol x was bound to")
	}
}

func TestConvertUndefinedIdentifierReportsDiagnostic(t *testing.T) {
	_, diags := convertSrc(t, "x = undefined_name")
	if diags.Len() == 0 {
		t.Fatalf("expected a diagnostic for an undefined identifier")
	}
	found := false
	for _, e := range diags.Errors() {
		if e.Kind == diagnostics.KindUndefinedIdentifier {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected KindUndefinedIdentifier among diagnostics, got %s", diags)
	}
}

func TestConvertFunctionBlockMissingReturnSynthesizesOne(t *testing.T) {
	f, diags := convertSrc(t, "f = () => { x = 1 }")
	if diags.Len() == 0 {
		t.Fatalf("expected a missing-return diagnostic")
	}
	assign := f.Body[0].(*semantic.AssignStatement)
	fn := assign.Value.(*semantic.FunctionExpr)
	block := fn.Body.(*semantic.Block)
	last := block.Statements[len(block.Statements)-1]
	ret, ok := last.(*semantic.ReturnStatement)
	if !ok {
		t.Fatalf("expected a synthesized ReturnStatement, got %T", last)
	}
	if _, ok := ret.Value.(*semantic.ErrorExpr); !ok {
		t.Fatalf("expected synthesized return value to be an ErrorExpr, got %T", ret.Value)
	}
}

func TestConvertFunctionParamsScopedToBody(t *testing.T) {
	f, diags := convertSrc(t, "f = (a) => a")
	if diags.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %s", diags)
	}
	assign := f.Body[0].(*semantic.AssignStatement)
	fn := assign.Value.(*semantic.FunctionExpr)
	bodyIdent := fn.Body.(*semantic.IdentifierExpr)
	if !symbols.Same(fn.Params[0].Symbol, bodyIdent.Symbol) {
		t.Fatalf("expected body's reference to a to resolve to the parameter's own symbol")
	}
}

func TestConvertAtMostOnePipeParam(t *testing.T) {
	_, diags := convertSrc(t, "f = (a=<-, b=<-) => 1")
	found := false
	for _, e := range diags.Errors() {
		if e.Kind == diagnostics.KindAtMostOnePipe {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected KindAtMostOnePipe diagnostic for two pipe params, got %s", diags)
	}
}

func TestConvertCallSplicesUnnamedObjectArgument(t *testing.T) {
	f, diags := convertSrc(t, "f = (a, b) => a + b\ny = f({a: 1, b: 2})")
	if diags.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %s", diags)
	}
	assign := f.Body[1].(*semantic.AssignStatement)
	call := assign.Value.(*semantic.CallExpr)
	if len(call.Args) != 2 {
		t.Fatalf("expected the object literal's 2 properties spliced as named args, got %d", len(call.Args))
	}
	names := map[string]bool{}
	for _, a := range call.Args {
		names[a.Name] = true
	}
	if !names["a"] || !names["b"] {
		t.Fatalf("expected args named a and b, got %v", call.Args)
	}
}

func TestConvertCallRejectsTwoRecordArguments(t *testing.T) {
	_, diags := convertSrc(t, `y = f({a: 1}, {b: 2})`)
	found := false
	for _, e := range diags.Errors() {
		if e.Kind == diagnostics.KindInvalidConstraint {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a diagnostic rejecting the second record argument, got %s", diags)
	}
}

func TestConvertPipeLiteralOnlyLegalAsParamDefault(t *testing.T) {
	_, diags := convertSrc(t, "x = <-")
	found := false
	for _, e := range diags.Errors() {
		if e.Kind == diagnostics.KindInvalidPipeLiteral {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected KindInvalidPipeLiteral for a pipe literal outside a parameter default, got %s", diags)
	}
}

func TestConvertImportBindsLastPathSegmentWhenNoAlias(t *testing.T) {
	f, diags := convertSrc(t, `import "some/pkg/strings"
x = 1`)
	if diags.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %s", diags)
	}
	if len(f.Imports) != 1 {
		t.Fatalf("expected 1 import, got %d", len(f.Imports))
	}
	if f.Imports[0].Symbol.Name != "strings" {
		t.Fatalf("expected bare import to bind its last path segment, got %q", f.Imports[0].Symbol.Name)
	}
}
