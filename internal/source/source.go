// Package source models the compiler's input surface: named byte buffers
// the scanner streams from and the parser's locations point back into.
//
// §6 of the front-end spec describes "a source input has a display name,
// a byte buffer, and an opaque handle used in source locations". The
// teacher threads the display name through its token stream as a `#file`
// directive (lang/ylex/lexer.go's emitLineDirective/handleDirective and
// lang/yparse/token.go's CurrentFile); this package turns that into an
// explicit, addressable handle table so multiple inputs of one
// compilation (SPEC_FULL.md §C, "multi-input parse() batching") share one
// namespace instead of each baking its name into the token text.
package source

// Handle identifies one source input within a Set. The zero Handle is
// never assigned by Set.Add, so it can serve as a "no source" sentinel.
type Handle int

// Input is one named byte buffer to be scanned.
type Input struct {
	Name string // display name, e.g. a file path
	Data []byte
}

// Set is a registry of Inputs, indexed by Handle.
type Set struct {
	inputs []Input
}

// NewSet returns an empty input set.
func NewSet() *Set {
	return &Set{inputs: make([]Input, 1)} // index 0 reserved, unused
}

// Add registers src and returns its handle.
func (s *Set) Add(src Input) Handle {
	s.inputs = append(s.inputs, src)
	return Handle(len(s.inputs) - 1)
}

// Input returns the Input registered under h.
func (s *Set) Input(h Handle) Input {
	return s.inputs[h]
}

// Name returns the display name registered under h, or "<unknown>" for
// the zero handle.
func (s *Set) Name(h Handle) string {
	if h == 0 {
		return "<unknown>"
	}
	return s.inputs[h].Name
}

// Loc is a single point in a source input: (input handle, 1-based line,
// 1-based column).
type Loc struct {
	File   Handle
	Line   int
	Column int
}

// Range is a source span: (start, focus, end), per §3's "Source range".
// Focus is the position a diagnostic should underline when start and end
// cover more than one token (e.g. a whole expression); it defaults to
// Start when the two coincide.
type Range struct {
	Start Loc
	Focus Loc
	End   Loc
}

// Point returns a Range whose Start, Focus and End are all loc, for the
// common case of a single-token diagnostic.
func Point(loc Loc) Range {
	return Range{Start: loc, Focus: loc, End: loc}
}
