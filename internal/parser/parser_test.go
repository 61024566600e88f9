package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hringjurfn/compis/internal/ast"
	"github.com/hringjurfn/compis/internal/diag"
	"github.com/hringjurfn/compis/internal/lexer"
	"github.com/hringjurfn/compis/internal/source"
	"github.com/hringjurfn/compis/internal/sym"
	"github.com/hringjurfn/compis/internal/types"
)

// newTestParser builds a Parser directly, without going through
// internal/compiler, so these tests exercise the Pratt tables and scope
// bookkeeping at the same granularity the teacher's lang/yparse tests hit
// its own recursive-descent functions.
func newTestParser(t *testing.T, src string) (*Parser, *diag.Collector) {
	t.Helper()
	interner := sym.NewTable()
	interner.ReserveKeywords(lexer.Keywords())
	store := types.NewStore(interner, types.DefaultTarget)
	sources := source.NewSet()
	handle := sources.Add(source.Input{Name: "test.co", Data: []byte(src)})
	collector := diag.NewCollector()
	p := New(handle, []byte(src), interner, store, collector, nil)
	return p, collector
}

func TestNewGivesEachParserItsOwnPackageDefsWhenNilIsPassed(t *testing.T) {
	p1, _ := newTestParser(t, "fun f() {}\n")
	p1.ParseUnit()
	p2, sink2 := newTestParser(t, "fun f() {}\n")
	p2.ParseUnit()
	assert.False(t, sink2.HasErrors(), "a nil packageDefs must not be shared across separate New calls")
}

func TestFitsInTypeSignedBoundaryRequiresUnaryMinusForWidening(t *testing.T) {
	i8 := &types.Type{Kind: types.Int8}

	assert.True(t, fitsInType(127, i8, false), "127 fits i8 unwidened")
	assert.False(t, fitsInType(128, i8, false), "128 without a minus must not fit i8")
	assert.True(t, fitsInType(128, i8, true), "128 with a unary minus is i8's most-negative magnitude")
	assert.False(t, fitsInType(129, i8, true), "129 overflows i8 even widened")
}

func TestFitsInTypeUnsignedIgnoresNeg(t *testing.T) {
	u8 := &types.Type{Kind: types.Uint8}
	assert.True(t, fitsInType(255, u8, false))
	assert.False(t, fitsInType(256, u8, false))
	assert.False(t, fitsInType(256, u8, true), "unsigned types never widen for a unary minus")
}

func TestUnaryMinusWidenedLiteralParsesWithoutOverflow(t *testing.T) {
	p, sink := newTestParser(t, "fun f() i8 {\n\treturn -128\n}\n")
	p.ParseUnit()
	assert.False(t, sink.HasErrors(), "i8's most-negative literal must fit when preceded by a unary minus: %v", sink.All())
}

func TestSameLiteralWithoutMinusOverflowsContextType(t *testing.T) {
	p, sink := newTestParser(t, "fun f() i8 {\n\treturn 128\n}\n")
	p.ParseUnit()
	assert.True(t, sink.HasErrors(), "128 without a unary minus must overflow i8")
}

func TestNegContextDoesNotLeakToSiblingOperand(t *testing.T) {
	// -3 * 128 : the 128 is not itself negated and must still overflow i8.
	p, sink := newTestParser(t, "fun f() i8 {\n\treturn -3 * 128\n}\n")
	p.ParseUnit()
	assert.True(t, sink.HasErrors(), "a later sibling literal must not inherit an earlier unary minus's widened bound")
}

func TestStructSelfReferentialFieldResolvesInsteadOfShadowing(t *testing.T) {
	p, sink := newTestParser(t, "type Node struct {\n\tnext *Node\n}\n")
	unit := p.ParseUnit()
	require.False(t, sink.HasErrors(), "unexpected diagnostics: %v", sink.All())
	st := unit.Decls[0].(*ast.StructDecl)
	require.Len(t, st.Fields, 1)
	require.NotNil(t, st.Fields[0].Type)
	assert.Equal(t, types.Pointer, st.Fields[0].Type.Kind)
	assert.Equal(t, types.Struct, st.Fields[0].Type.Elem.Kind, "the pointee must resolve to the struct itself, not void")
}

func TestStructUsedAsLaterFunctionParamTypeResolves(t *testing.T) {
	p, sink := newTestParser(t, "type P struct {\n\tx int\n}\nfun f(p P) int {\n\treturn p.x\n}\n")
	unit := p.ParseUnit()
	require.False(t, sink.HasErrors(), "unexpected diagnostics: %v", sink.All())
	fn := unit.Decls[1].(*ast.FuncDecl)
	require.NotNil(t, fn.Params[0].Type)
	assert.Equal(t, types.Struct, fn.Params[0].Type.Kind)
}

func TestFreeFunctionNameResolvesAfterItsOwnScopePops(t *testing.T) {
	// `a` calls itself; `b`, declared afterward, calls `a` — both must
	// resolve, the second after a's own parameter scope has been popped.
	// Names resolve in one pass, so only earlier declarations are visible.
	src := "fun a() int {\n\treturn a()\n}\nfun b() int {\n\treturn a()\n}\n"
	p, sink := newTestParser(t, src)
	p.ParseUnit()
	assert.False(t, sink.HasErrors(), "sibling top-level functions must resolve each other: %v", sink.All())
}

func TestDereferenceOfPointerTypeIsAnErrorNotAnUnwrap(t *testing.T) {
	// *p where p's declared type is a Pointer (`*int`), not a Reference —
	// §4.5 requires a reference operand; a raw pointer must be rejected.
	p, sink := newTestParser(t, "fun f(p *int) int {\n\treturn *p\n}\n")
	p.ParseUnit()
	assert.True(t, sink.HasErrors(), "dereferencing a non-reference type must be reported")
}

func TestDereferenceOfReferenceResolvesToElement(t *testing.T) {
	p, sink := newTestParser(t, "fun f(x int) int {\n\tvar r &int = &x\n\treturn *r\n}\n")
	p.ParseUnit()
	assert.False(t, sink.HasErrors(), "dereferencing an actual reference must not error: %v", sink.All())
}

func TestAddrOfEphemeralValueIsAnError(t *testing.T) {
	p, sink := newTestParser(t, "fun f() &int {\n\treturn &1\n}\n")
	p.ParseUnit()
	assert.True(t, sink.HasErrors(), "taking the address of a literal must be rejected")
}

func TestAddrOfReferenceIsAnError(t *testing.T) {
	p, sink := newTestParser(t, "fun f(x int) int {\n\tvar r &int = &x\n\tvar rr & &int = &r\n\treturn 0\n}\n")
	p.ParseUnit()
	assert.True(t, sink.HasErrors(), "taking a reference of a reference must be rejected")
}

func TestMutAddrOfImmutableLetIsAnError(t *testing.T) {
	// §8 scenario 6: `mut &x` where x is `let x int = 3` must report a
	// diagnostic naming the immutable let binding.
	src := "fun f() mut &int {\n\tlet x int = 3\n\treturn mut &x\n}\n"
	p, sink := newTestParser(t, src)
	p.ParseUnit()
	require.True(t, sink.HasErrors())
	found := false
	for _, d := range sink.All() {
		if d.Message == `mutable reference to immutable let x` {
			found = true
		}
	}
	assert.True(t, found, "expected the exact §8 scenario 6 diagnostic text, got: %v", sink.All())
}

func TestMutAddrOfVarIsNotAnError(t *testing.T) {
	src := "fun f() mut &int {\n\tvar x int = 3\n\treturn mut &x\n}\n"
	p, sink := newTestParser(t, src)
	p.ParseUnit()
	assert.False(t, sink.HasErrors(), "mut &x on a var binding must be allowed: %v", sink.All())
}

func TestMutAddrOfParamIsNotAnError(t *testing.T) {
	src := "fun f(x int) mut &int {\n\treturn mut &x\n}\n"
	p, sink := newTestParser(t, src)
	p.ParseUnit()
	assert.False(t, sink.HasErrors(), "parameters are mutable storage per §4.5: %v", sink.All())
}
