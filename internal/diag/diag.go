// Package diag implements the compiler's diagnostics channel: a stream of
// source-range-annotated error/warning/info records that the scanner and
// parser append to but never unwind from, per §4.6 and §7 of the
// front-end spec.
//
// No third-party logging library is used here. Nothing in the retrieval
// pack reaches for one at this tool's scale: gmofishsauce/wut4's lexer,
// parser, assembler and linker all report line/column-tagged errors over
// plain fmt.Fprintf + os.Exit, and termfx-morfx's own mcp/logging.go
// hand-rolls leveled records over fmt/os rather than importing zerolog,
// zap, or logrus. A Diagnostic here is that same idea turned into a
// typed, queryable record instead of a formatted line — grounded on
// go-dws's PassContext.Errors/StructuredErrors/HasCriticalErrors/
// ErrorCount (other_examples/..._pass_context.go.go).
package diag

import (
	"fmt"
	"sort"
	"sync"

	"github.com/hringjurfn/compis/internal/source"
)

// Severity classifies a Diagnostic.
type Severity int

const (
	Info Severity = iota
	Warning
	Error
)

func (s Severity) String() string {
	switch s {
	case Error:
		return "error"
	case Warning:
		return "warning"
	default:
		return "info"
	}
}

// Diagnostic is one report: a source range, a severity, and a message.
type Diagnostic struct {
	Range    source.Range
	Severity Severity
	Message  string
}

// Sink receives Diagnostics as they are produced. Handler decides whether
// to print, accumulate, or escalate; per §4.6, calling a Sink must never
// unwind the caller.
type Sink interface {
	Report(d Diagnostic)
}

// SinkFunc adapts a plain function to the Sink interface.
type SinkFunc func(Diagnostic)

func (f SinkFunc) Report(d Diagnostic) { f(d) }

// Collector is a Sink that accumulates every Diagnostic in emission
// order, matching §5's "diagnostics preserve emission order and thereby
// preserve source-position order (modulo fast-forward skips)".
type Collector struct {
	diags []Diagnostic
}

// NewCollector returns an empty Collector.
func NewCollector() *Collector {
	return &Collector{}
}

func (c *Collector) Report(d Diagnostic) {
	c.diags = append(c.diags, d)
}

// All returns every collected Diagnostic, in emission order unless
// SortBySource has reordered them (compiler.Compiler.ParseFile does).
func (c *Collector) All() []Diagnostic {
	return c.diags
}

// HasErrors reports whether any collected Diagnostic has Severity Error.
func (c *Collector) HasErrors() bool {
	for _, d := range c.diags {
		if d.Severity == Error {
			return true
		}
	}
	return false
}

// Count returns the number of collected Diagnostics at or above min.
func (c *Collector) Count(min Severity) int {
	n := 0
	for _, d := range c.diags {
		if d.Severity >= min {
			n++
		}
	}
	return n
}

// SortBySource stably reorders the collected diagnostics by (file, line,
// column), for presentation after a multi-input ParseAll batch.
func (c *Collector) SortBySource() {
	sort.SliceStable(c.diags, func(i, j int) bool {
		a, b := c.diags[i].Range.Focus, c.diags[j].Range.Focus
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Column < b.Column
	})
}

// Concurrent wraps a Collector with a reader-writer lock so a background
// consumer can read accumulated diagnostics while the parser continues to
// append, per §5's "Diagnostics buffer is serialized by an internal
// reader-writer lock".
type Concurrent struct {
	mu        sync.RWMutex
	collector Collector
}

// NewConcurrent returns an empty Concurrent sink.
func NewConcurrent() *Concurrent {
	return &Concurrent{}
}

func (c *Concurrent) Report(d Diagnostic) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.collector.Report(d)
}

// Snapshot returns a copy of every Diagnostic reported so far.
func (c *Concurrent) Snapshot() []Diagnostic {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Diagnostic, len(c.collector.diags))
	copy(out, c.collector.diags)
	return out
}

func (c *Concurrent) HasErrors() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.collector.HasErrors()
}

// Format renders a Diagnostic the way the teacher's tools format their
// own stderr lines ("file:line: message"), extended with the column and
// severity tag.
func Format(names func(source.Handle) string, d Diagnostic) string {
	loc := d.Range.Focus
	return fmt.Sprintf("%s:%d:%d: %s: %s", names(loc.File), loc.Line, loc.Column, d.Severity, d.Message)
}
