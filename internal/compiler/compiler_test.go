package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hringjurfn/compis/internal/ast"
	"github.com/hringjurfn/compis/internal/source"
)

func parseOK(t *testing.T, src string) (*ast.Unit, *Compiler) {
	t.Helper()
	c := New()
	unit, sink := c.ParseFile("test.co", []byte(src))
	require.False(t, sink.HasErrors(), "unexpected diagnostics: %v", sink.All())
	return unit, c
}

func TestParseSimpleFunction(t *testing.T) {
	unit, _ := parseOK(t, "fun add(a int, b int) int {\n\treturn a + b\n}\n")
	require.Len(t, unit.Decls, 1)
	fn, ok := unit.Decls[0].(*ast.FuncDecl)
	require.True(t, ok)
	assert.Equal(t, "add", fn.Name)
	assert.Len(t, fn.Params, 2)
	require.NotNil(t, fn.Body)
	require.Len(t, fn.Body.Stmts, 1)
	assert.True(t, fn.Body.Stmts[0].Flags().Has(ast.FlagExits))
}

func TestOperatorPrecedenceClimbsCorrectly(t *testing.T) {
	// 1 + 2 * 3 must parse as 1 + (2 * 3), not (1 + 2) * 3.
	unit, _ := parseOK(t, "fun f() int {\n\treturn 1 + 2 * 3\n}\n")
	fn := unit.Decls[0].(*ast.FuncDecl)
	ret := fn.Body.Stmts[0].(*ast.ReturnStmt)
	top := ret.Value.(*ast.BinaryExpr)
	require.Equal(t, ast.OpAdd, top.Op)
	right, ok := top.Right.(*ast.BinaryExpr)
	require.True(t, ok, "right operand of + must be the * subexpression")
	assert.Equal(t, ast.OpMul, right.Op)
}

func TestAssignmentIsRightAssociativeAndLoosest(t *testing.T) {
	unit, _ := parseOK(t, "fun f() {\n\tvar a int = 1\n\tvar b int = 2\n\ta = b = 1 + 1\n}\n")
	fn := unit.Decls[0].(*ast.FuncDecl)
	exprStmt := fn.Body.Stmts[2].(*ast.ExprStmt)
	assign, ok := exprStmt.X.(*ast.AssignExpr)
	require.True(t, ok)
	inner, ok := assign.RHS.(*ast.AssignExpr)
	require.True(t, ok, "assignment must be right-associative")
	_, ok = inner.RHS.(*ast.BinaryExpr)
	assert.True(t, ok)
}

func TestPostfixBindsTighterThanBinary(t *testing.T) {
	// -a.b must parse as -(a.b), not (-a).b.
	unit, _ := parseOK(t, "type P struct {\n\tb int\n}\nfun f(a P) int {\n\treturn -a.b\n}\n")
	fn := unit.Decls[1].(*ast.FuncDecl)
	ret := fn.Body.Stmts[0].(*ast.ReturnStmt)
	neg, ok := ret.Value.(*ast.UnaryExpr)
	require.True(t, ok)
	assert.Equal(t, ast.UnaryNeg, neg.Op)
	_, ok = neg.Operand.(*ast.FieldExpr)
	assert.True(t, ok, "field access must bind tighter than unary minus")
}

func TestDuplicateTopLevelDefinitionIsAnError(t *testing.T) {
	c := New()
	_, sink := c.ParseFile("dup.co", []byte("fun f() {}\nfun f() {}\n"))
	assert.True(t, sink.HasErrors())
}

func TestMethodCollidingWithFieldIsAnError(t *testing.T) {
	c := New()
	src := "type P struct {\n\tx int\n\tfun x() int {\n\t\treturn 0\n\t}\n}\n"
	_, sink := c.ParseFile("collide.co", []byte(src))
	assert.True(t, sink.HasErrors())
}

func TestStructSelfReferenceResolves(t *testing.T) {
	unit, _ := parseOK(t, "type Node struct {\n\tnext *Node\n}\n")
	st := unit.Decls[0].(*ast.StructDecl)
	require.Len(t, st.Fields, 1)
	assert.NotNil(t, st.Fields[0].Type)
}

func TestMethodReceiverResolvesAcrossNestedBlock(t *testing.T) {
	// `this` is defined in the method's parameter scope, one level above
	// the body's own pushed block scope; resolving it inside a nested
	// `if` must still succeed.
	src := "type Counter struct {\n" +
		"\tn int\n" +
		"\tfun bump() int {\n" +
		"\t\tif true {\n" +
		"\t\t\treturn this.n\n" +
		"\t\t}\n" +
		"\t\treturn 0\n" +
		"\t}\n" +
		"}\n"
	unit, _ := parseOK(t, src)
	st := unit.Decls[0].(*ast.StructDecl)
	require.Len(t, st.Methods, 1)
}

func TestIfLetNarrowsOptionalBinding(t *testing.T) {
	src := "fun f(o ?int) int {\n" +
		"\tif let v = o {\n" +
		"\t\treturn v\n" +
		"\t}\n" +
		"\treturn 0\n" +
		"}\n"
	unit, _ := parseOK(t, src)
	fn := unit.Decls[0].(*ast.FuncDecl)
	ifStmt := fn.Body.Stmts[0].(*ast.IfStmt)
	assert.True(t, ifStmt.HasNarrow)
	assert.NotNil(t, ifStmt.NarrowedType)
}

func TestIfElseBothExitingMarksWholeStatementExiting(t *testing.T) {
	src := "fun f(c bool) int {\n" +
		"\tif c {\n" +
		"\t\treturn 1\n" +
		"\t} else {\n" +
		"\t\treturn 2\n" +
		"\t}\n" +
		"}\n"
	unit, _ := parseOK(t, src)
	fn := unit.Decls[0].(*ast.FuncDecl)
	ifStmt := fn.Body.Stmts[0].(*ast.IfStmt)
	assert.True(t, ifStmt.Flags().Has(ast.FlagExits))
}

func TestUnreachableStatementFlaggedAfterReturn(t *testing.T) {
	src := "fun f() int {\n\treturn 1\n\treturn 2\n}\n"
	unit, _ := parseOK(t, src)
	fn := unit.Decls[0].(*ast.FuncDecl)
	require.Len(t, fn.Body.Stmts, 2)
	assert.True(t, fn.Body.Stmts[1].Flags().Has(ast.FlagUnreachable))
}

func TestMutableReferenceAndSliceTypesParse(t *testing.T) {
	unit, _ := parseOK(t, "fun f(a mut &int, b mut [int]) {}\n")
	fn := unit.Decls[0].(*ast.FuncDecl)
	require.Len(t, fn.Params, 2)
	assert.NotNil(t, fn.Params[0].Type)
	assert.NotNil(t, fn.Params[1].Type)
}

func TestIntegerLiteralFitsDeclaredContextType(t *testing.T) {
	unit, _ := parseOK(t, "fun f() u8 {\n\treturn 255\n}\n")
	fn := unit.Decls[0].(*ast.FuncDecl)
	ret := fn.Body.Stmts[0].(*ast.ReturnStmt)
	lit := ret.Value.(*ast.IntLit)
	require.NotNil(t, lit.Type())
	assert.EqualValues(t, 255, lit.Value)
}

func TestIntegerLiteralOverflowingContextTypeIsAnError(t *testing.T) {
	c := New()
	_, sink := c.ParseFile("overflow.co", []byte("fun f() u8 {\n\treturn 256\n}\n"))
	assert.True(t, sink.HasErrors())
}

func TestTypeCanonicalizationSharesIdentityAcrossUnits(t *testing.T) {
	c := New()
	unitA, sinkA := c.ParseFile("a.co", []byte("fun fa() *int {\n\treturn fa()\n}\n"))
	require.False(t, sinkA.HasErrors())
	unitB, sinkB := c.ParseFile("b.co", []byte("fun fb() *int {\n\treturn fb()\n}\n"))
	require.False(t, sinkB.HasErrors())

	fnA := unitA.Decls[0].(*ast.FuncDecl)
	fnB := unitB.Decls[0].(*ast.FuncDecl)
	assert.Same(t, fnA.Decl.Result, fnB.Decl.Result, "structurally identical *int result types share one canonical node across files")
}

func TestParseAllSharesPackageDefsAcrossFiles(t *testing.T) {
	// Each source.Input gets its own Parser and scope stack, but all files
	// parsed by one Compiler share one package-defs map (SPEC_FULL.md §C),
	// so redefining a top-level name in a second file of the same package
	// is still caught.
	c := New()
	units, collectors := c.ParseAll([]source.Input{
		{Name: "a.co", Data: []byte("fun a() {}\n")},
		{Name: "b.co", Data: []byte("fun a() {}\n")},
	})
	require.Len(t, units, 2)
	require.Len(t, collectors, 2)
	assert.False(t, collectors[0].HasErrors())
	assert.True(t, collectors[1].HasErrors(), "redefining `a` in a second file of the same package must be caught")
}

func TestParseFileCalledTwiceAlsoSharesPackageDefs(t *testing.T) {
	c := New()
	_, sink1 := c.ParseFile("a.co", []byte("fun a() {}\n"))
	_, sink2 := c.ParseFile("b.co", []byte("fun a() {}\n"))
	assert.False(t, sink1.HasErrors())
	assert.True(t, sink2.HasErrors())
}

func TestCompilerIDStampedOnParsedUnits(t *testing.T) {
	c := New()
	unit, sink := c.ParseFile("id.co", []byte("fun f() {}\n"))
	require.False(t, sink.HasErrors())
	assert.Equal(t, c.ID, unit.SessionID)
}
