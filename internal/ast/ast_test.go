package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hringjurfn/compis/internal/source"
	"github.com/hringjurfn/compis/internal/types"
)

func TestFlagsHas(t *testing.T) {
	f := FlagExits | FlagMutable
	assert.True(t, f.Has(FlagExits))
	assert.True(t, f.Has(FlagMutable))
	assert.False(t, f.Has(FlagUnreachable))
}

func TestSetRangePromotedAcrossUnexportedEmbed(t *testing.T) {
	e := &IntLit{Value: 42}
	r := source.Range{Start: source.Loc{Line: 1, Column: 1}}
	e.SetRange(r)
	assert.Equal(t, r, e.Pos())
}

func TestExprTypeRoundTrip(t *testing.T) {
	e := &IdentExpr{Name: "x"}
	assert.Nil(t, e.Type())
	bt := &types.Type{Kind: types.Bool}
	e.SetType(bt)
	assert.Same(t, bt, e.Type())
}

func TestStmtFlagsPromotedFromBaseStmt(t *testing.T) {
	s := &ReturnStmt{}
	s.SetFlag(FlagExits)
	assert.True(t, s.Flags().Has(FlagExits))
}

func TestBinaryOpStringer(t *testing.T) {
	assert.Equal(t, "+", OpAdd.String())
	assert.Equal(t, "?", BinaryOp(999).String())
}

func TestUnaryOpStringer(t *testing.T) {
	assert.Equal(t, "mut &", UnaryAddrMut.String())
	assert.Equal(t, "*", UnaryDeref.String())
}

func TestBlockFlagExitsAfterReturn(t *testing.T) {
	ret := &ReturnStmt{}
	ret.SetFlag(FlagExits)
	block := &Block{Stmts: []Stmt{ret}}
	assert.True(t, ret.Flags().Has(FlagExits))
	assert.Len(t, block.Stmts, 1)
}
