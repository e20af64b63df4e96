package infer

import (
	"strings"
	"testing"

	"github.com/funvibe/funxy/internal/convert"
	"github.com/funvibe/funxy/internal/diagnostics"
	"github.com/funvibe/funxy/internal/parser"
	"github.com/funvibe/funxy/internal/semantic"
	"github.com/funvibe/funxy/internal/symbols"
	"github.com/funvibe/funxy/internal/types"
)

// run parses, converts, and infers src as a single file, returning the
// semantic file (every node's Type() populated) and the merged diagnostics.
func run(t *testing.T, src string) (*semantic.File, *diagnostics.List) {
	t.Helper()
	astFile, parseDiags := parser.ParseFile("t.fx", src)
	if parseDiags.Len() != 0 {
		t.Fatalf("unexpected parse diagnostics: %s", parseDiags)
	}
	subst := types.NewSubst()
	conv := convert.New("main", subst, symbols.NewRootScope(nil))
	f := conv.ConvertFile(astFile)
	if conv.Diagnostics().Len() != 0 {
		t.Fatalf("unexpected convert diagnostics: %s", conv.Diagnostics())
	}
	inf := New(subst)
	inf.InferFile(f)
	return f, inf.Diagnostics()
}

func lastAssign(f *semantic.File) *semantic.AssignStatement {
	return f.Body[len(f.Body)-1].(*semantic.AssignStatement)
}

func TestInferLiteralTypes(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"x = 1", "int"},
		{"x = 1u", "uint"},
		{"x = 1.5", "float"},
		{"x = true", "bool"},
		{`x = "s"`, "string"},
		{"x = 10s", "duration"},
	}
	for _, tt := range tests {
		f, diags := run(t, tt.src)
		if diags.Len() != 0 {
			t.Fatalf("%q: unexpected diagnostics: %s", tt.src, diags)
		}
		got := lastAssign(f).Value.Type().String()
		if got != tt.want {
			t.Errorf("%q: got type %s, want %s", tt.src, got, tt.want)
		}
	}
}

func TestInferArithmeticRequiresNumericKind(t *testing.T) {
	f, diags := run(t, "x = 1 + 2")
	if diags.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %s", diags)
	}
	if got := lastAssign(f).Value.Type().String(); got != "int" {
		t.Fatalf("got %s, want int", got)
	}
}

func TestInferArithmeticOnBoolFailsKindCheck(t *testing.T) {
	_, diags := run(t, "x = true + false")
	if diags.Len() == 0 {
		t.Fatalf("expected a kind-constraint diagnostic for bool + bool")
	}
	found := false
	for _, e := range diags.Errors() {
		if e.Kind == diagnostics.KindCannotConstrain {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected KindCannotConstrain, got %s", diags)
	}
}

func TestInferComparisonReturnsBool(t *testing.T) {
	f, diags := run(t, "x = 1 < 2")
	if diags.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %s", diags)
	}
	if got := lastAssign(f).Value.Type().String(); got != "bool" {
		t.Fatalf("got %s, want bool", got)
	}
}

func TestInferLogicalRequiresBoolOperands(t *testing.T) {
	f, diags := run(t, "x = true and false")
	if diags.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %s", diags)
	}
	if got := lastAssign(f).Value.Type().String(); got != "bool" {
		t.Fatalf("got %s, want bool", got)
	}
}

func TestInferConditionalUnifiesBranches(t *testing.T) {
	f, diags := run(t, "x = if true then 1 else 2")
	if diags.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %s", diags)
	}
	if got := lastAssign(f).Value.Type().String(); got != "int" {
		t.Fatalf("got %s, want int", got)
	}
}

func TestInferConditionalBranchMismatchReportsError(t *testing.T) {
	_, diags := run(t, `x = if true then 1 else "s"`)
	if diags.Len() == 0 {
		t.Fatalf("expected a cannot-unify diagnostic for mismatched branch types")
	}
}

func TestInferLetPolymorphismGeneralizesAcrossUses(t *testing.T) {
	// identity is generalized at its own let-binding, so it can be
	// instantiated once at int and once at string without conflict.
	f, diags := run(t, `identity = (x) => x
a = identity(x: 1)
b = identity(x: "s")`)
	if diags.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %s", diags)
	}
	aType := f.Body[1].(*semantic.AssignStatement).Value.Type().String()
	bType := f.Body[2].(*semantic.AssignStatement).Value.Type().String()
	if aType != "int" {
		t.Errorf("got a: %s, want int", aType)
	}
	if bType != "string" {
		t.Errorf("got b: %s, want string", bType)
	}
}

func TestInferFunctionParamsNotGeneralizedWithinBody(t *testing.T) {
	// Inside the body, x is monomorphic: `x + 1` fixes it to int for the
	// whole function, so calling f with a string for x must fail to unify.
	_, diags := run(t, `f = (x) => { y = x + 1
return x }
z = f(x: "s")`)
	if diags.Len() == 0 {
		t.Fatalf("expected a cannot-unify diagnostic binding a string argument to a numeric parameter")
	}
}

func TestInferCallMissingRequiredArgument(t *testing.T) {
	_, diags := run(t, `f = (a, b) => a + b
x = f(a: 1)`)
	found := false
	for _, e := range diags.Errors() {
		if e.Kind == diagnostics.KindMissingArgument {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected KindMissingArgument, got %s", diags)
	}
}

func TestInferCallExtraArgument(t *testing.T) {
	_, diags := run(t, `f = (a) => a
x = f(a: 1, b: 2)`)
	found := false
	for _, e := range diags.Errors() {
		if e.Kind == diagnostics.KindExtraArgument {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected KindExtraArgument, got %s", diags)
	}
}

func TestInferCallOptionalArgumentMayBeOmitted(t *testing.T) {
	f, diags := run(t, `f = (a, b=1) => a + b
x = f(a: 1)`)
	if diags.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %s", diags)
	}
	if got := lastAssign(f).Value.Type().String(); got != "int" {
		t.Fatalf("got %s, want int", got)
	}
}

func TestInferPipeArgumentNamed(t *testing.T) {
	f, diags := run(t, `f = (a, x=<-) => x + a
y = 1 |> f(a: 2)`)
	if diags.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %s", diags)
	}
	if got := lastAssign(f).Value.Type().String(); got != "int" {
		t.Fatalf("got %s, want int", got)
	}
}

func TestInferAnonymousPipeMissingReportsMissingPipe(t *testing.T) {
	// An anonymous callee pipe (`<-`, no name) with no caller-provided pipe
	// value has no named slot to fall back to a plain missing-argument
	// check, so it reports KindMissingPipeArgument directly.
	_, diags := run(t, `f = (a, <-) => a
y = f(a: 2)`)
	found := false
	for _, e := range diags.Errors() {
		if e.Kind == diagnostics.KindMissingPipeArgument {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected KindMissingPipeArgument, got %s", diags)
	}
}

func TestInferNamedPipeMissingReportsOrdinaryMissingArgument(t *testing.T) {
	// A named callee pipe (`x=<-`) with no caller-provided pipe value folds
	// into the ordinary required-argument slot named "x", so an absent
	// pipe surfaces as a plain KindMissingArgument instead.
	_, diags := run(t, `f = (a, x=<-) => x + a
y = f(a: 2)`)
	found := false
	for _, e := range diags.Errors() {
		if e.Kind == diagnostics.KindMissingArgument {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected KindMissingArgument, got %s", diags)
	}
}

func TestInferAnonymousPipeFoldsIntoSentinel(t *testing.T) {
	// f's pipe parameter is anonymous (<-), so the caller's piped value
	// folds into the synthetic sentinel slot rather than any named arg.
	f, diags := run(t, `f = (a, <-) => a
y = 1 |> f(a: 2)`)
	if diags.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %s", diags)
	}
	if got := lastAssign(f).Value.Type().String(); got != "int" {
		t.Fatalf("got %s, want int", got)
	}
}

func TestInferMemberAccessOnRecord(t *testing.T) {
	f, diags := run(t, `r = {a: 1, b: "s"}
x = r.a`)
	if diags.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %s", diags)
	}
	if got := lastAssign(f).Value.Type().String(); got != "int" {
		t.Fatalf("got %s, want int", got)
	}
}

func TestInferMemberAccessMissingFieldReportsMissingLabel(t *testing.T) {
	_, diags := run(t, `r = {a: 1, b: 2.0}
x = r.c`)
	if diags.Len() != 1 {
		t.Fatalf("expected exactly one diagnostic, got %s", diags)
	}
	e := diags.Errors()[0]
	if e.Kind != diagnostics.KindCannotUnify {
		t.Fatalf("got kind %s, want %s", e.Kind, diagnostics.KindCannotUnify)
	}
	if !strings.Contains(e.Msg, "missing label c") {
		t.Fatalf("got message %q, want it to contain %q", e.Msg, "missing label c")
	}
	if strings.Contains(e.Msg, "extra label") {
		t.Fatalf("got message %q, field c is absent from r so this must read missing, not extra", e.Msg)
	}
}

func TestInferIndexOnRecordReportsCannotUnifyWithoutPanicking(t *testing.T) {
	// {a:1}[0] routes a record against an array through the same unifyRecord
	// path as member access; this must report a diagnostic, not panic on an
	// unconditional type assertion.
	_, diags := run(t, `r = {a: 1}
x = r[0]`)
	if diags.Len() != 1 {
		t.Fatalf("expected exactly one diagnostic, got %s", diags)
	}
	e := diags.Errors()[0]
	if e.Kind != diagnostics.KindCannotUnify {
		t.Fatalf("got kind %s, want %s", e.Kind, diagnostics.KindCannotUnify)
	}
	if !strings.HasPrefix(e.Msg, "for indexed value: expected {a: int} but found [") {
		t.Fatalf("got message %q, want it to start with %q", e.Msg, "for indexed value: expected {a: int} but found [")
	}
}

func TestInferArrayElementsUnified(t *testing.T) {
	f, diags := run(t, "x = [1, 2, 3]")
	if diags.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %s", diags)
	}
	if got := lastAssign(f).Value.Type().String(); got != "[int]" {
		t.Fatalf("got %s, want [int]", got)
	}
}

func TestInferArrayElementMismatchReportsError(t *testing.T) {
	_, diags := run(t, `x = [1, "s"]`)
	if diags.Len() == 0 {
		t.Fatalf("expected a cannot-unify diagnostic for mismatched array elements")
	}
}

func TestInferDictTypes(t *testing.T) {
	f, diags := run(t, `x = ["a": 1, "b": 2]`)
	if diags.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %s", diags)
	}
	if got := lastAssign(f).Value.Type().String(); got != "[string:int]" {
		t.Fatalf("got %s, want [string:int]", got)
	}
}

func TestInferUnaryNotRequiresBool(t *testing.T) {
	f, diags := run(t, "x = not true")
	if diags.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %s", diags)
	}
	if got := lastAssign(f).Value.Type().String(); got != "bool" {
		t.Fatalf("got %s, want bool", got)
	}
}

func TestInferUndefinedIdentifierBecomesErrorWithoutCascade(t *testing.T) {
	// The converter already reports the undefined identifier itself;
	// inference over the resulting (unresolved-symbol) identifier must not
	// pile on a second diagnostic of its own.
	astFile, parseDiags := parser.ParseFile("t.fx", "x = nonexistent")
	if parseDiags.Len() != 0 {
		t.Fatalf("unexpected parse diagnostics: %s", parseDiags)
	}
	subst := types.NewSubst()
	conv := convert.New("main", subst, symbols.NewRootScope(nil))
	f := conv.ConvertFile(astFile)
	if conv.Diagnostics().Len() != 1 {
		t.Fatalf("expected exactly 1 convert diagnostic, got %s", conv.Diagnostics())
	}

	inf := New(subst)
	inf.InferFile(f)
	if inf.Diagnostics().Len() != 0 {
		t.Fatalf("expected inference to add no further diagnostics, got %s", inf.Diagnostics())
	}
	if got := lastAssign(f).Value.Type().String(); got != "<error>" {
		t.Fatalf("got %s, want <error>", got)
	}
}
