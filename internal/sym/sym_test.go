package sym

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTableReservesBlank(t *testing.T) {
	tbl := NewTable()
	id, ok := tbl.Lookup("_")
	require.True(t, ok)
	assert.Equal(t, Blank, id)
}

func TestInternIsIdempotent(t *testing.T) {
	tbl := NewTable()
	a := tbl.Intern("foo")
	b := tbl.Intern("foo")
	assert.Equal(t, a, b)
	assert.Equal(t, "foo", tbl.String(a))
}

func TestInternDistinctStrings(t *testing.T) {
	tbl := NewTable()
	a := tbl.Intern("foo")
	b := tbl.Intern("bar")
	assert.NotEqual(t, a, b)
}

func TestInternBytesMatchesIntern(t *testing.T) {
	tbl := NewTable()
	a := tbl.Intern("xyz")
	b := tbl.InternBytes([]byte("xyz"))
	assert.Equal(t, a, b)
}

func TestLookupMissingReportsNotOK(t *testing.T) {
	tbl := NewTable()
	_, ok := tbl.Lookup("never-interned")
	assert.False(t, ok)
}

func TestReserveKeywordsStable(t *testing.T) {
	tbl := NewTable()
	ids := tbl.ReserveKeywords([]string{"fun", "let", "var"})
	require.Len(t, ids, 3)

	// Re-interning any reserved keyword must return the same handle.
	for i, kw := range []string{"fun", "let", "var"} {
		assert.Equal(t, ids[i], tbl.Intern(kw))
	}
}

func TestConcurrentInternSameString(t *testing.T) {
	tbl := NewTable()
	const n = 64
	results := make(chan Symbol, n)
	for i := 0; i < n; i++ {
		go func() { results <- tbl.Intern("shared") }()
	}
	first := <-results
	for i := 1; i < n; i++ {
		assert.Equal(t, first, <-results)
	}
}
