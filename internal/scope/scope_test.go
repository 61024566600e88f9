package scope

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hringjurfn/compis/internal/sym"
)

func TestPushPopBalance(t *testing.T) {
	s := New()
	assert.Equal(t, 0, s.Depth())
	s.Push()
	s.Push()
	assert.Equal(t, 2, s.Depth())
	s.Pop()
	assert.Equal(t, 1, s.Depth())
	s.Pop()
	assert.Equal(t, 0, s.Depth())
}

func TestPopWithoutPushPanics(t *testing.T) {
	s := New()
	assert.Panics(t, func() { s.Pop() })
}

func TestDefineAndLookupLocal(t *testing.T) {
	s := New()
	s.Push()
	key := sym.Symbol(1)
	s.Define(key, "value")

	v, ok := s.LookupLocal(key)
	require.True(t, ok)
	assert.Equal(t, "value", v)
}

func TestLookupLocalDoesNotSeeEnclosingScope(t *testing.T) {
	s := New()
	s.Push()
	outer := sym.Symbol(1)
	s.Define(outer, "outer-value")

	s.Push()
	_, ok := s.LookupLocal(outer)
	assert.False(t, ok, "LookupLocal must not find bindings from an enclosing frame")
}

func TestUnboundedLookupSeesEnclosingScopes(t *testing.T) {
	s := New()
	s.Push()
	outer := sym.Symbol(1)
	s.Define(outer, "outer-value")

	s.Push()
	v, ok := s.Lookup(outer, Unbounded)
	require.True(t, ok)
	assert.Equal(t, "outer-value", v)
}

func TestLookupMaxDepthLimitsSearch(t *testing.T) {
	s := New()
	s.Push() // depth 2 from innermost
	outer := sym.Symbol(1)
	s.Define(outer, "outer-value")
	s.Push() // depth 1
	s.Push() // innermost, depth 0

	_, ok := s.Lookup(outer, 0)
	assert.False(t, ok, "maxDepth 0 must not reach two scopes up")

	_, ok = s.Lookup(outer, 1)
	assert.False(t, ok, "maxDepth 1 must not reach two scopes up")

	_, ok = s.Lookup(outer, 2)
	assert.True(t, ok, "maxDepth 2 must reach exactly two scopes up")
}

func TestPopDiscardsBindingsDefinedSincePush(t *testing.T) {
	s := New()
	s.Push()
	key := sym.Symbol(5)
	s.Define(key, "gone-after-pop")
	s.Pop()

	s.Push()
	_, ok := s.LookupLocal(key)
	assert.False(t, ok)
}

func TestMarkPackageScopeAndIsToplevel(t *testing.T) {
	s := New()
	s.Push()
	s.MarkPackageScope()
	assert.True(t, s.IsToplevel())

	s.Push()
	assert.False(t, s.IsToplevel(), "a nested scope is not the package scope")
	s.Pop()
	assert.True(t, s.IsToplevel())
}
