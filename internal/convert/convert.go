// Package convert implements SPEC_FULL.md component F: a single walk of an
// *ast.File producing a *semantic.File/Package, assigning a symbols.Symbol
// to every lexical occurrence and lowering syntactic monotypes into
// types.Monotype. Grounded structurally on funvibe-funxy/internal/analyzer's
// Analyzer (a struct holding the symbol table plus per-pass accumulated
// state, walking the AST to enforce declaration-shape rules) and on
// cue-lang/cue's compile.go one-pass compiler, simplified to this spec's
// single forward pass (no Naming/Headers/Bodies staging: this language has
// no forward-reference problem to solve).
package convert

import (
	"strings"

	"github.com/funvibe/funxy/internal/ast"
	"github.com/funvibe/funxy/internal/diagnostics"
	"github.com/funvibe/funxy/internal/semantic"
	"github.com/funvibe/funxy/internal/symbols"
	"github.com/funvibe/funxy/internal/types"
)

// Converter threads the mutable scope chain, a fresh-variable source shared
// with the rest of the inference session, and an accumulating diagnostic
// list through one AST walk.
type Converter struct {
	pkgName string
	subst   *types.Subst
	diags   *diagnostics.List
	scope   *symbols.Scope
}

// New creates a converter for one package's files, sharing subst with the
// unifier/inference driver so type variables allocated while lowering
// annotations live in the same substitution space as inferred ones.
func New(pkgName string, subst *types.Subst, root *symbols.Scope) *Converter {
	return &Converter{pkgName: pkgName, subst: subst, diags: &diagnostics.List{}, scope: root}
}

func (c *Converter) Diagnostics() *diagnostics.List { return c.diags }

func (c *Converter) errorf(rng ast.Node, kind diagnostics.Kind, format string, args ...any) {
	c.diags.Add(diagnostics.New(rng.Pos(), rng.Range().Filename, kind, format, args...))
}

// ConvertFile walks one file's import list and body. Top-level bindings in
// the returned *semantic.File share c's scope (and thus each other, and
// every other file converted against the same Converter), per SPEC_FULL.md
// §4.E's single-package-scope model.
func (c *Converter) ConvertFile(f *ast.File) *semantic.File {
	out := &semantic.File{}
	if f.Package != nil {
		out.PackageName = f.Package.Name
	}
	for _, imp := range f.Imports {
		out.Imports = append(out.Imports, c.convertImport(imp))
	}
	for _, stmt := range f.Body {
		out.Body = append(out.Body, c.convertTopLevelStatement(stmt))
	}
	return out
}

func (c *Converter) convertImport(imp *ast.ImportSpec) semantic.Import {
	name := imp.Path
	if imp.Alias != nil {
		name = imp.Alias.Name
	} else if i := strings.LastIndexByte(name, '/'); i >= 0 {
		name = name[i+1:]
	}
	// Import bindings are package-qualified by the imported path, per
	// SPEC_FULL.md §4.F ("bind the alias (qualified) when present; bare
	// imports bind the last path segment (qualified)").
	sym := c.scope.Insert(imp.Path, name)
	return semantic.Import{Path: imp.Path, Symbol: sym}
}

func (c *Converter) convertTopLevelStatement(s ast.Statement) semantic.Statement {
	switch st := s.(type) {
	case *ast.AssignStatement:
		sym := c.scope.Insert(c.pkgName, st.Name.Name)
		var ann types.Monotype
		if st.TypeAnnotation != nil {
			ann = c.convertMonoType(st.TypeAnnotation, map[string]types.Monotype{})
		}
		value := c.convertExpr(st.Value, false)
		return semantic.NewAssignStatement(st.Range(), sym, ann, value)
	case *ast.BuiltinStatement:
		sym := c.scope.Insert(c.pkgName, st.Name.Name)
		ann := c.convertMonoType(st.TypeAnnotation, map[string]types.Monotype{})
		return semantic.NewBuiltinStatement(st.Range(), sym, ann)
	default:
		return c.convertStatement(s)
	}
}

// convertStatement handles the statement kinds legal inside a function
// block as well as any top-level statement that is not itself a top-level
// binding form (ExpressionStatement, OptionStatement, TestCaseStatement,
// ReturnStatement, BlockStmt, BadStmt).
func (c *Converter) convertStatement(s ast.Statement) semantic.Statement {
	switch st := s.(type) {
	case *ast.ExpressionStatement:
		return semantic.NewExpressionStatement(st.Range(), c.convertExpr(st.Expr, false))
	case *ast.AssignStatement:
		// A block-local assignment: unqualified symbol.
		sym := c.scope.Insert("", st.Name.Name)
		var ann types.Monotype
		if st.TypeAnnotation != nil {
			ann = c.convertMonoType(st.TypeAnnotation, map[string]types.Monotype{})
		}
		value := c.convertExpr(st.Value, false)
		return semantic.NewAssignStatement(st.Range(), sym, ann, value)
	case *ast.OptionStatement:
		target := c.convertExpr(st.Target, false)
		value := c.convertExpr(st.Value, false)
		return semantic.NewOptionStatement(st.Range(), target, value)
	case *ast.TestCaseStatement:
		c.errorf(st, diagnostics.KindTestCaseUnsupported, "test case statements are not supported")
		return semantic.NewErrorStmt(st.Range())
	case *ast.ReturnStatement:
		return semantic.NewReturnStatement(st.Range(), c.convertExpr(st.Value, false))
	case *ast.BlockStmt:
		return c.convertBlock(st)
	case *ast.BadStmt:
		return semantic.NewErrorStmt(st.Range())
	default:
		c.errorf(s, diagnostics.KindInvalidFuncStatement, "statement not valid here")
		return semantic.NewErrorStmt(s.Range())
	}
}

// convertBlock converts a function body block, enforcing that it ends in a
// return statement (SPEC_FULL.md §4.F "missing return produces a synthetic
// Return(Error)").
func (c *Converter) convertBlock(b *ast.BlockStmt) *semantic.Block {
	parent := c.scope
	c.scope = parent.EnterScope()
	defer func() { c.scope = parent }()

	stmts := make([]semantic.Statement, 0, len(b.Statements))
	for _, s := range b.Statements {
		stmts = append(stmts, c.convertStatement(s))
	}
	if len(stmts) == 0 {
		c.errorf(b, diagnostics.KindMissingReturn, "function block must end in a return statement")
		stmts = append(stmts, semantic.NewReturnStatement(b.Range(), semantic.NewErrorExpr(b.Range())))
	} else if _, ok := stmts[len(stmts)-1].(*semantic.ReturnStatement); !ok {
		c.errorf(b, diagnostics.KindMissingReturn, "function block must end in a return statement")
		stmts = append(stmts, semantic.NewReturnStatement(b.Range(), semantic.NewErrorExpr(b.Range())))
	}
	return semantic.NewBlock(b.Range(), stmts)
}

// convertExpr converts one expression. allowPipe permits a bare PipeLit:
// legal only while converting a Param's Default.
func (c *Converter) convertExpr(e ast.Expression, allowPipe bool) semantic.Expression {
	switch ex := e.(type) {
	case *ast.BadExpr:
		return semantic.NewErrorExpr(ex.Range())
	case *ast.Identifier:
		sym, ok := c.scope.Lookup(ex.Name)
		if !ok {
			c.errorf(ex, diagnostics.KindUndefinedIdentifier, "undefined identifier %q", ex.Name)
		}
		return semantic.NewIdentifierExpr(ex.Range(), sym)
	case *ast.IntegerLit:
		return semantic.NewIntegerLit(ex.Range(), ex.Value)
	case *ast.UIntegerLit:
		return semantic.NewUIntegerLit(ex.Range(), ex.Value)
	case *ast.FloatLit:
		return semantic.NewFloatLit(ex.Range(), ex.Value)
	case *ast.BooleanLit:
		return semantic.NewBooleanLit(ex.Range(), ex.Value)
	case *ast.StringLit:
		return semantic.NewStringLit(ex.Range(), ex.Value)
	case *ast.DurationLit:
		vals := make([]semantic.DurationValue, len(ex.Values))
		for i, v := range ex.Values {
			vals[i] = semantic.DurationValue{Magnitude: v.Magnitude, Unit: v.Unit}
		}
		return semantic.NewDurationLit(ex.Range(), vals)
	case *ast.TimeLit:
		return semantic.NewTimeLit(ex.Range(), ex.Value.Format("2006-01-02T15:04:05.999999999Z07:00"))
	case *ast.RegexLit:
		return semantic.NewRegexLit(ex.Range(), ex.Value)
	case *ast.PipeLit:
		if !allowPipe {
			c.errorf(ex, diagnostics.KindInvalidPipeLiteral, "pipe literal is only legal as a parameter default")
			return semantic.NewErrorExpr(ex.Range())
		}
		return semantic.NewPipeLit(ex.Range())
	case *ast.CallExpr:
		return c.convertCall(ex)
	case *ast.MemberExpr:
		return semantic.NewMemberExpr(ex.Range(), c.convertExpr(ex.Object, false), propertyLabel(ex.Property))
	case *ast.IndexExpr:
		return semantic.NewIndexExpr(ex.Range(), c.convertExpr(ex.Object, false), c.convertExpr(ex.Index, false))
	case *ast.BinaryExpr:
		return semantic.NewBinaryExpr(ex.Range(), ex.Op, c.convertExpr(ex.Left, false), c.convertExpr(ex.Right, false))
	case *ast.LogicalExpr:
		return semantic.NewLogicalExpr(ex.Range(), ex.Op, c.convertExpr(ex.Left, false), c.convertExpr(ex.Right, false))
	case *ast.UnaryExpr:
		return semantic.NewUnaryExpr(ex.Range(), ex.Op, c.convertExpr(ex.Operand, false))
	case *ast.ConditionalExpr:
		return semantic.NewConditionalExpr(ex.Range(), c.convertExpr(ex.Cond, false), c.convertExpr(ex.Then, false), c.convertExpr(ex.Else, false))
	case *ast.PipeExpr:
		call := c.convertCall(ex.Call)
		return semantic.NewPipeExpr(ex.Range(), c.convertExpr(ex.Left, false), call)
	case *ast.ArrayExpr:
		els := make([]semantic.Expression, len(ex.Elements))
		for i, item := range ex.Elements {
			els[i] = c.convertExpr(item.Value, false)
		}
		return semantic.NewArrayExpr(ex.Range(), els)
	case *ast.DictExpr:
		items := make([]semantic.DictEntry, len(ex.Items))
		for i, item := range ex.Items {
			items[i] = semantic.DictEntry{Key: c.convertExpr(item.Key, false), Value: c.convertExpr(item.Value, false)}
		}
		return semantic.NewDictExpr(ex.Range(), items)
	case *ast.ObjectExpr:
		var with semantic.Expression
		if ex.With != nil {
			with = c.convertExpr(ex.With, false)
		}
		props := make([]semantic.Property, len(ex.Properties))
		for i, p := range ex.Properties {
			props[i] = semantic.Property{Key: propertyLabel(p.Key), Value: c.convertExpr(p.Value, false)}
		}
		return semantic.NewObjectExpr(ex.Range(), with, props)
	case *ast.FunctionExpr:
		return c.convertFunctionExpr(ex)
	default:
		return semantic.NewErrorExpr(e.Range())
	}
}

// propertyLabel lowers a PropertyKey to a bare label name: string-literal
// keys and identifier keys of the same spelling denote the same label
// (SPEC_FULL.md §4.F).
func propertyLabel(k ast.PropertyKey) string {
	switch kk := k.(type) {
	case *ast.Identifier:
		return kk.Name
	case *ast.StringLit:
		return kk.Value
	default:
		return ""
	}
}

// convertCall enforces "at most one argument record": an unnamed argument
// whose value is an object literal is treated as a whole record of named
// arguments to splice in; a second such unnamed record argument in the same
// call is rejected rather than silently merged, since SPEC_FULL.md names the
// rule without specifying how multiple would combine.
func (c *Converter) convertCall(call *ast.CallExpr) *semantic.CallExpr {
	callee := c.convertExpr(call.Callee, false)
	var args []semantic.Argument
	sawRecord := false
	for _, a := range call.Args {
		if a.Name == nil {
			if obj, ok := a.Value.(*ast.ObjectExpr); ok {
				if sawRecord {
					c.errorf(a, diagnostics.KindInvalidConstraint, "a call may have at most one argument record")
					continue
				}
				sawRecord = true
				for _, p := range obj.Properties {
					args = append(args, semantic.Argument{Name: propertyLabel(p.Key), Value: c.convertExpr(p.Value, false)})
				}
				continue
			}
			args = append(args, semantic.Argument{Value: c.convertExpr(a.Value, false)})
			continue
		}
		args = append(args, semantic.Argument{Name: a.Name.Name, Value: c.convertExpr(a.Value, false)})
	}
	return semantic.NewCallExpr(call.Range(), callee, args)
}

func (c *Converter) convertFunctionExpr(fn *ast.FunctionExpr) *semantic.FunctionExpr {
	parent := c.scope
	c.scope = parent.EnterScope()
	defer func() { c.scope = parent }()

	params := make([]semantic.Param, 0, len(fn.Params))
	sawPipe := false
	for _, p := range fn.Params {
		if p.IsPipe {
			if sawPipe {
				c.errorf(p, diagnostics.KindAtMostOnePipe, "a function may have at most one pipe parameter")
			}
			sawPipe = true
		}
		var sym *symbols.Symbol
		if p.Name != nil {
			sym = c.scope.Insert("", p.Name.Name)
		} else if !p.IsPipe {
			// Parser never produces a nil-named non-pipe param, but guard
			// the structural rule defensively in case of future grammar
			// extensions.
			c.errorf(p, diagnostics.KindNonIdentParam, "function parameters must be identifiers")
		}
		var def semantic.Expression
		if p.Default != nil {
			def = c.convertExpr(p.Default, true)
		}
		params = append(params, semantic.Param{Symbol: sym, Default: def, IsPipe: p.IsPipe})
	}

	var body semantic.FunctionBody
	switch b := fn.Body.(type) {
	case *ast.BlockStmt:
		body = c.convertBlock(b)
	default:
		body = c.convertExpr(b.(ast.Expression), false)
	}
	return semantic.NewFunctionExpr(fn.Range(), params, body)
}

// convertMonoType lowers a syntactic type annotation, threading vars so that
// repeated type-variable spellings within one annotation refer to the same
// types.TVar (SPEC_FULL.md §4.F).
func (c *Converter) convertMonoType(m ast.MonoType, vars map[string]types.Monotype) types.Monotype {
	switch t := m.(type) {
	case *ast.BadMonoType:
		return types.TError{}
	case *ast.NamedMonoType:
		return types.TPrimitive{Name: t.Name}
	case *ast.VarMonoType:
		if v, ok := vars[t.Name]; ok {
			return v
		}
		v := c.subst.Fresh()
		vars[t.Name] = v
		return v
	case *ast.ArrayMonoType:
		return types.TArray{Elem: c.convertMonoType(t.Elem, vars)}
	case *ast.VectorMonoType:
		return types.TVector{Elem: c.convertMonoType(t.Elem, vars)}
	case *ast.DictMonoType:
		return types.TDict{Key: c.convertMonoType(t.Key, vars), Value: c.convertMonoType(t.Value, vars)}
	case *ast.FunctionMonoType:
		f := types.TFunc{Required: map[string]types.Monotype{}, Optional: map[string]types.Monotype{}}
		for _, p := range t.Params {
			typ := c.convertMonoType(p.Type, vars)
			switch {
			case p.IsPipe:
				f.Pipe = &types.PipeParam{Name: p.Name, Type: typ}
			case p.Optional:
				f.Optional[p.Name] = typ
			default:
				f.Required[p.Name] = typ
			}
		}
		f.Ret = c.convertMonoType(t.Ret, vars)
		return f
	case *ast.RecordMonoType:
		var tail types.Monotype = types.TRecordEmpty{}
		if t.Open {
			tail = c.subst.Fresh()
		}
		for i := len(t.Fields) - 1; i >= 0; i-- {
			field := t.Fields[i]
			tail = types.TRecordExt{Label: types.Label(field.Label), Value: c.convertMonoType(field.Type, vars), Tail: tail}
		}
		return tail
	default:
		return types.TError{}
	}
}
