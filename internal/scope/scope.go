// Package scope implements the compiler's lexical scope stack: a single
// contiguous stack of slots encoding nested scopes as interleaved
// (binding, binding, ..., saved-base-marker) runs, giving O(1) push/pop of
// an entire scope and zero per-binding heap allocation beyond slice growth.
//
// Grounded on gmofishsauce/wut4's lang/yparse SymbolTable/FuncScope (one
// flat map per function, global map for the rest) and generalized to the
// arbitrarily-nested design in §4.2 of the front-end spec, taking the
// explicit parent-chain walk from go-dws's semantic.Scope/PassContext
// (other_examples/..._pass_context.go.go) and flattening it into one
// array instead of a linked chain of maps.
package scope

import "github.com/hringjurfn/compis/internal/sym"

type slot struct {
	isMarker  bool
	savedBase int
	key       sym.Symbol
	value     any
}

// Stack is the scope stack. The zero value is not ready to use; call New.
type Stack struct {
	words       []slot
	base        int
	packageBase int
	hasPackage  bool
}

// New returns an empty scope stack with no scopes pushed. The parser
// pushes one scope for the package and marks it with MarkPackageScope;
// no separate universe scope is pushed.
func New() *Stack {
	return &Stack{base: -1}
}

// Push saves the current base into the next slot, sets base to the
// position of that slot, and opens a new, empty frame above it.
func (s *Stack) Push() {
	s.words = append(s.words, slot{isMarker: true, savedBase: s.base})
	s.base = len(s.words) - 1
}

// Pop restores base from the slot the current base points at and
// truncates the stack to that position, discarding every binding defined
// since the matching Push. Popping with no open scope is a programmer
// error and panics (§5: "violations are internal invariants and are
// asserted, not recovered").
func (s *Stack) Pop() {
	if s.base < 0 {
		panic("scope: Pop with no open scope")
	}
	saved := s.words[s.base].savedBase
	s.words = s.words[:s.base]
	s.base = saved
}

// Define appends a (value, key) binding to the current (innermost) frame.
func (s *Stack) Define(key sym.Symbol, value any) {
	s.words = append(s.words, slot{key: key, value: value})
}

// Unbounded may be passed as maxDepth to Lookup to search every enclosing
// scope with no limit.
const Unbounded = -1

// Lookup scans from the top of the stack toward the root, stepping across
// saved-base markers, for up to maxDepth enclosing scopes beyond the
// current one (0 restricts the search to the innermost frame; Unbounded
// removes the limit). It returns the first matching binding's value.
func (s *Stack) Lookup(key sym.Symbol, maxDepth int) (any, bool) {
	depth := 0
	for i := len(s.words) - 1; i >= 0; i-- {
		w := s.words[i]
		if w.isMarker {
			depth++
			if maxDepth != Unbounded && depth > maxDepth {
				return nil, false
			}
			continue
		}
		if w.key == key {
			return w.value, true
		}
	}
	return nil, false
}

// LookupLocal is Lookup restricted to the innermost frame. The parser
// does not call it: local bindings are defined without a same-scope
// duplicate check.
func (s *Stack) LookupLocal(key sym.Symbol) (any, bool) {
	return s.Lookup(key, 0)
}

// MarkPackageScope records the currently-open frame as the package
// (outermost user) scope, for IsToplevel.
func (s *Stack) MarkPackageScope() {
	s.packageBase = s.base
	s.hasPackage = true
}

// IsToplevel is true when the current base corresponds to the scope
// marked by MarkPackageScope.
func (s *Stack) IsToplevel() bool {
	return s.hasPackage && s.base == s.packageBase
}

// Depth reports the number of currently-open scopes, for invariant
// assertions such as "the scope stack is empty at the start and end of
// parse()".
func (s *Stack) Depth() int {
	depth := 0
	for b := s.base; b >= 0; {
		depth++
		b = s.words[b].savedBase
	}
	return depth
}
