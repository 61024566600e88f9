// Package compiler wires the lexer, parser, symbol table and type store
// into the single entry point a driver (cmd/compis, or a future embedder)
// calls to parse one or more source.Inputs (SPEC_FULL.md §C: multi-file
// parsing).
package compiler

import (
	"github.com/google/uuid"

	"github.com/hringjurfn/compis/internal/ast"
	"github.com/hringjurfn/compis/internal/diag"
	"github.com/hringjurfn/compis/internal/lexer"
	"github.com/hringjurfn/compis/internal/parser"
	"github.com/hringjurfn/compis/internal/source"
	"github.com/hringjurfn/compis/internal/sym"
	"github.com/hringjurfn/compis/internal/types"
)

// Compiler owns the state shared across every file parsed in one
// session: the interner and type store are compilation-wide so typeids
// and struct identity stay consistent across files, per §4.4's
// cross-unit canonicalization guarantee. ID correlates every Unit this
// Compiler parses back to the session that produced it, for a log
// aggregator watching several concurrent sessions share one process
// (SPEC_FULL.md §A).
type Compiler struct {
	ID          uuid.UUID
	sources     *source.Set
	interner    *sym.Table
	store       *types.Store
	packageDefs map[sym.Symbol]ast.Node // top-level names, shared across every file this session parses
}

// New creates a Compiler with a fresh interner and type store sized for
// types.DefaultTarget.
func New() *Compiler {
	interner := sym.NewTable()
	interner.ReserveKeywords(lexer.Keywords())
	return &Compiler{
		ID:          uuid.New(),
		sources:     source.NewSet(),
		interner:    interner,
		store:       types.NewStore(interner, types.DefaultTarget),
		packageDefs: make(map[sym.Symbol]ast.Node),
	}
}

// Sources returns the session's source registry.
func (c *Compiler) Sources() *source.Set { return c.sources }

// Store returns the session's type store.
func (c *Compiler) Store() *types.Store { return c.store }

// ParseFile registers name/data as a new source.Input and parses it,
// returning the resulting AST unit (nil if parsing could not even begin)
// and a diag.Collector holding every diagnostic raised while scanning
// and parsing it. Top-level names declared here are checked against
// every other file this Compiler has already parsed (SPEC_FULL.md §C),
// so calling ParseFile directly several times has the same
// duplicate-definition behavior as ParseAll.
func (c *Compiler) ParseFile(name string, data []byte) (*ast.Unit, *diag.Collector) {
	handle := c.sources.Add(source.Input{Name: name, Data: data})
	collector := diag.NewCollector()
	p := parser.New(handle, data, c.interner, c.store, collector, c.packageDefs)
	unit := p.ParseUnit()
	unit.SessionID = c.ID
	collector.SortBySource()
	return unit, collector
}

// ParseAll registers and parses every input in order, returning one AST
// unit and diagnostic collector per input, in the same order
// (SPEC_FULL.md §C).
func (c *Compiler) ParseAll(inputs []source.Input) ([]*ast.Unit, []*diag.Collector) {
	units := make([]*ast.Unit, len(inputs))
	collectors := make([]*diag.Collector, len(inputs))
	for i, in := range inputs {
		units[i], collectors[i] = c.ParseFile(in.Name, in.Data)
	}
	return units, collectors
}
