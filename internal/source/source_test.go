package source

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddAssignsDistinctHandles(t *testing.T) {
	s := NewSet()
	a := s.Add(Input{Name: "a.co", Data: []byte("x")})
	b := s.Add(Input{Name: "b.co", Data: []byte("y")})
	assert.NotEqual(t, a, b)
	assert.NotEqual(t, Handle(0), a)
	assert.NotEqual(t, Handle(0), b)
}

func TestInputRoundTrips(t *testing.T) {
	s := NewSet()
	h := s.Add(Input{Name: "main.co", Data: []byte("fun main() {}")})
	got := s.Input(h)
	require.Equal(t, "main.co", got.Name)
	assert.Equal(t, []byte("fun main() {}"), got.Data)
}

func TestNameForZeroHandle(t *testing.T) {
	s := NewSet()
	assert.Equal(t, "<unknown>", s.Name(0))
}

func TestNameForRegisteredHandle(t *testing.T) {
	s := NewSet()
	h := s.Add(Input{Name: "lib.co"})
	assert.Equal(t, "lib.co", s.Name(h))
}

func TestPointCollapsesToSingleLoc(t *testing.T) {
	loc := Loc{File: 3, Line: 10, Column: 5}
	r := Point(loc)
	assert.Equal(t, loc, r.Start)
	assert.Equal(t, loc, r.Focus)
	assert.Equal(t, loc, r.End)
}
