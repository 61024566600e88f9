// Package sym implements the compiler's symbol interner: a bidirectional
// map between byte strings and stable, comparable handles. Interning is
// idempotent and handle equality implies byte equality.
//
// Modeled on the global-name-table role that gmofishsauce/wut4's
// lang/yparse SymbolTable plays for identifiers, generalized here into a
// standalone, reusable component per §4.1 of the front-end spec. One
// Table is shared by every file a compiler.Compiler parses rather than
// one table per parse; each Compiler creates its own Table, so separate
// Compilers do not share symbols.
package sym

import "sync"

// Symbol is an opaque handle to an interned byte string. Two symbols
// compare equal (==) iff the underlying bytes are equal.
type Symbol int32

// Blank is the reserved handle for the "_" identifier.
const Blank Symbol = 0

// invalid is a handle no Table ever assigns. Lookup reports a miss
// through its ok result instead; since the zero value of Symbol is Blank,
// unset Symbol fields must be distinguished by callers that care (types
// use a separate "has tid" bool).
const invalid Symbol = -1

// Table is a bidirectional, concurrency-safe string<->Symbol interner.
// Reads are lock-free-ish (RLock); writes take the full lock. Safe for
// concurrent use by multiple compilations that share one interner, per
// §5's "concurrent interning requires an internal lock (reader-writer)".
type Table struct {
	mu      sync.RWMutex
	strings []string
	index   map[string]Symbol
}

// NewTable creates an interner with the blank symbol "_" pre-reserved at
// handle 0, matching §4.1's "distinguished sentinel handles must be
// reserved at initialization... for the blank symbol _".
func NewTable() *Table {
	t := &Table{
		strings: make([]string, 0, 256),
		index:   make(map[string]Symbol, 256),
	}
	t.intern("_")
	return t
}

// Intern returns the stable handle for s, creating one if this is the
// first time these bytes have been seen.
func (t *Table) Intern(s string) Symbol {
	t.mu.RLock()
	if id, ok := t.index[s]; ok {
		t.mu.RUnlock()
		return id
	}
	t.mu.RUnlock()

	t.mu.Lock()
	defer t.mu.Unlock()
	return t.intern(s)
}

// InternBytes is a byte-slice convenience wrapper around Intern.
func (t *Table) InternBytes(b []byte) Symbol {
	return t.Intern(string(b))
}

// intern assumes t.mu is held for writing.
func (t *Table) intern(s string) Symbol {
	if id, ok := t.index[s]; ok {
		return id
	}
	id := Symbol(len(t.strings))
	t.strings = append(t.strings, s)
	t.index[s] = id
	return id
}

// String returns the bytes behind a symbol. Panics on an out-of-range
// handle, which can only happen if a Symbol from a different Table leaks
// in — programmer error, not a runtime condition to recover from.
func (t *Table) String(s Symbol) string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.strings[s]
}

// Lookup returns the handle for s without interning it; ok is false if s
// has never been interned.
func (t *Table) Lookup(s string) (Symbol, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	id, ok := t.index[s]
	return id, ok
}

// ReserveKeywords interns every keyword up front so that keyword handles
// are stable sentinels from process start, per §4.1. Returns the handles
// in the same order as kws.
func (t *Table) ReserveKeywords(kws []string) []Symbol {
	ids := make([]Symbol, len(kws))
	for i, kw := range kws {
		ids[i] = t.Intern(kw)
	}
	return ids
}
