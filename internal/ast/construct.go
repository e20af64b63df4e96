package ast

import "github.com/funvibe/funxy/internal/token"

// Construction functions for every node type whose base carries no semantic
// validation (see literal.go for the literal constructors, which do). These
// exist because base's fields are unexported: any package building AST nodes
// — chiefly internal/parser — must go through them rather than a struct
// literal.

func NewBadExpr(rng token.Range, text string) *BadExpr { return &BadExpr{base: base{rng: rng}, Text: text} }

func NewIdentifier(rng token.Range, name string) *Identifier {
	return &Identifier{base: base{rng: rng}, Name: name}
}

func NewBooleanLit(rng token.Range, v bool) *BooleanLit { return &BooleanLit{base: base{rng: rng}, Value: v} }

func NewPipeLit(rng token.Range) *PipeLit { return &PipeLit{base: base{rng: rng}} }

func NewArgument(rng token.Range, name *Identifier, value Expression) *Argument {
	return &Argument{base: base{rng: rng}, Name: name, Value: value}
}

func NewCallExpr(rng token.Range, callee Expression, args []*Argument) *CallExpr {
	return &CallExpr{base: base{rng: rng}, Callee: callee, Args: args}
}

func NewMemberExpr(rng token.Range, obj Expression, prop PropertyKey) *MemberExpr {
	return &MemberExpr{base: base{rng: rng}, Object: obj, Property: prop}
}

func NewIndexExpr(rng token.Range, obj, idx Expression) *IndexExpr {
	return &IndexExpr{base: base{rng: rng}, Object: obj, Index: idx}
}

func NewBinaryExpr(rng token.Range, op string, left, right Expression) *BinaryExpr {
	return &BinaryExpr{base: base{rng: rng}, Op: op, Left: left, Right: right}
}

func NewLogicalExpr(rng token.Range, op string, left, right Expression) *LogicalExpr {
	return &LogicalExpr{base: base{rng: rng}, Op: op, Left: left, Right: right}
}

func NewUnaryExpr(rng token.Range, op string, operand Expression) *UnaryExpr {
	return &UnaryExpr{base: base{rng: rng}, Op: op, Operand: operand}
}

func NewConditionalExpr(rng token.Range, cond, then, els Expression) *ConditionalExpr {
	return &ConditionalExpr{base: base{rng: rng}, Cond: cond, Then: then, Else: els}
}

func NewPipeExpr(rng token.Range, left Expression, call *CallExpr) *PipeExpr {
	return &PipeExpr{base: base{rng: rng}, Left: left, Call: call}
}

func NewArrayItem(rng token.Range, v Expression) *ArrayItem { return &ArrayItem{base: base{rng: rng}, Value: v} }

func NewArrayExpr(rng token.Range, items []*ArrayItem) *ArrayExpr {
	return &ArrayExpr{base: base{rng: rng}, Elements: items}
}

func NewDictItem(rng token.Range, k, v Expression) *DictItem {
	return &DictItem{base: base{rng: rng}, Key: k, Value: v}
}

func NewDictExpr(rng token.Range, items []*DictItem) *DictExpr {
	return &DictExpr{base: base{rng: rng}, Items: items}
}

func NewProperty(rng token.Range, key PropertyKey, value Expression) *Property {
	return &Property{base: base{rng: rng}, Key: key, Value: value}
}

func NewObjectExpr(rng token.Range, with Expression, props []*Property) *ObjectExpr {
	return &ObjectExpr{base: base{rng: rng}, With: with, Properties: props}
}

func NewParam(rng token.Range, name *Identifier, def Expression, isPipe bool) *Param {
	return &Param{base: base{rng: rng}, Name: name, Default: def, IsPipe: isPipe}
}

func NewFunctionExpr(rng token.Range, params []*Param, body FunctionBody) *FunctionExpr {
	return &FunctionExpr{base: base{rng: rng}, Params: params, Body: body}
}

func NewAttribute(rng token.Range, name string, params []Expression) *Attribute {
	return &Attribute{base: base{rng: rng}, Name: name, Params: params}
}

func NewBadStmt(rng token.Range, text string) *BadStmt { return &BadStmt{base: base{rng: rng}, Text: text} }

func NewExpressionStatement(rng token.Range, e Expression) *ExpressionStatement {
	return &ExpressionStatement{base: base{rng: rng}, Expr: e}
}

func NewAssignStatement(rng token.Range, name *Identifier, ann MonoType, value Expression) *AssignStatement {
	return &AssignStatement{base: base{rng: rng}, Name: name, TypeAnnotation: ann, Value: value}
}

func NewOptionStatement(rng token.Range, target, value Expression) *OptionStatement {
	return &OptionStatement{base: base{rng: rng}, Target: target, Value: value}
}

func NewBuiltinStatement(rng token.Range, name *Identifier, ann MonoType) *BuiltinStatement {
	return &BuiltinStatement{base: base{rng: rng}, Name: name, TypeAnnotation: ann}
}

func NewTestCaseStatement(rng token.Range, name string, body FunctionBody) *TestCaseStatement {
	return &TestCaseStatement{base: base{rng: rng}, Name: name, Body: body}
}

func NewReturnStatement(rng token.Range, v Expression) *ReturnStatement {
	return &ReturnStatement{base: base{rng: rng}, Value: v}
}

func NewBlockStmt(rng token.Range, stmts []Statement) *BlockStmt {
	return &BlockStmt{base: base{rng: rng}, Statements: stmts}
}

func NewBadMonoType(rng token.Range, text string) *BadMonoType {
	return &BadMonoType{base: base{rng: rng}, Text: text}
}

func NewNamedMonoType(rng token.Range, name string, args []MonoType) *NamedMonoType {
	return &NamedMonoType{base: base{rng: rng}, Name: name, Args: args}
}

func NewVarMonoType(rng token.Range, name string) *VarMonoType {
	return &VarMonoType{base: base{rng: rng}, Name: name}
}

func NewArrayMonoType(rng token.Range, elem MonoType) *ArrayMonoType {
	return &ArrayMonoType{base: base{rng: rng}, Elem: elem}
}

func NewVectorMonoType(rng token.Range, elem MonoType) *VectorMonoType {
	return &VectorMonoType{base: base{rng: rng}, Elem: elem}
}

func NewDictMonoType(rng token.Range, key, value MonoType) *DictMonoType {
	return &DictMonoType{base: base{rng: rng}, Key: key, Value: value}
}

func NewParamType(rng token.Range, name string, typ MonoType, optional, isPipe bool) *ParamType {
	return &ParamType{base: base{rng: rng}, Name: name, Type: typ, Optional: optional, IsPipe: isPipe}
}

func NewFunctionMonoType(rng token.Range, params []*ParamType, ret MonoType) *FunctionMonoType {
	return &FunctionMonoType{base: base{rng: rng}, Params: params, Ret: ret}
}

func NewFieldType(rng token.Range, label string, typ MonoType) *FieldType {
	return &FieldType{base: base{rng: rng}, Label: label, Type: typ}
}

func NewRecordMonoType(rng token.Range, fields []*FieldType, open bool) *RecordMonoType {
	return &RecordMonoType{base: base{rng: rng}, Fields: fields, Open: open}
}

func NewPackageClause(rng token.Range, name string) *PackageClause {
	return &PackageClause{base: base{rng: rng}, Name: name}
}

func NewImportSpec(rng token.Range, path string, alias *Identifier) *ImportSpec {
	return &ImportSpec{base: base{rng: rng}, Path: path, Alias: alias}
}

func NewFile(rng token.Range, filename string, pkg *PackageClause, imports []*ImportSpec, body []Statement, attrs []*Attribute) *File {
	return &File{base: base{rng: rng}, Filename: filename, Package: pkg, Imports: imports, Body: body, Attributes: attrs}
}
