package types

import (
	"fmt"

	"github.com/hringjurfn/compis/internal/sym"
)

// primitive byte prefixes, assigned at Store initialization (§3: "primitives
// carry a one-byte tid assigned at initialization").
var primitivePrefix = map[Kind]byte{
	Void:  'v',
	Bool:  'b',
	Int8:  '1',
	Int16: '2',
	Int32: '3',
	Int64: '4',
	Uint8: '5', Uint16: '6', Uint32: '7', Uint64: '8',
	Int: 'i', Uint: 'u',
	F32: 'g', F64: 'h',
}

const (
	prefixPointer   = 'P'
	prefixRefImmut  = 'R'
	prefixRefMut    = 'r'
	prefixSliceImmu = 'S'
	prefixSliceMut  = 's'
	prefixOptional  = 'O'
	prefixArray     = 'A'
	prefixFunction  = 'F'
	prefixStruct    = 'T'
	prefixAlias     = 'L'
)

// Target describes the target-dependent sizing inputs of §6: the pointer
// width and the concrete width of the native int/uint types.
type Target struct {
	PointerWidth int // bytes; e.g. 8 on a 64-bit target
	IntWidth     int // bytes; 1, 2, 4, or 8 — default 8 on a 64-bit target
}

// DefaultTarget is the 64-bit default used when a Store is built without
// an explicit Target.
var DefaultTarget = Target{PointerWidth: 8, IntWidth: 8}

// Store is the compiler-wide type store and typeid service: it owns the
// symbol interner used for fingerprints, the canonical primitive
// singletons, and the typeid->type map that every structural type is
// deduplicated through.
type Store struct {
	interner *sym.Table
	target   Target
	byTid    map[sym.Symbol]*Type

	Void                                   *Type
	Bool                                   *Type
	I8, I16, I32, I64                      *Type
	U8, U16, U32, U64                      *Type
	IntT, UintT                            *Type
	F32T, F64T                             *Type
}

// NewStore creates a Store with its primitive singletons pre-registered,
// using interner for fingerprints and target for size/alignment
// calculations.
func NewStore(interner *sym.Table, target Target) *Store {
	s := &Store{
		interner: interner,
		target:   target,
		byTid:    make(map[sym.Symbol]*Type),
	}
	s.Void = s.registerPrimitive(Void)
	s.Bool = s.registerPrimitive(Bool)
	s.I8 = s.registerPrimitive(Int8)
	s.I16 = s.registerPrimitive(Int16)
	s.I32 = s.registerPrimitive(Int32)
	s.I64 = s.registerPrimitive(Int64)
	s.U8 = s.registerPrimitive(Uint8)
	s.U16 = s.registerPrimitive(Uint16)
	s.U32 = s.registerPrimitive(Uint32)
	s.U64 = s.registerPrimitive(Uint64)
	s.IntT = s.registerPrimitive(Int)
	s.UintT = s.registerPrimitive(Uint)
	s.F32T = s.registerPrimitive(F32)
	s.F64T = s.registerPrimitive(F64)
	return s
}

func (s *Store) registerPrimitive(k Kind) *Type {
	t := &Type{Kind: k}
	tid := s.interner.Intern(string(primitivePrefix[k]))
	t.Tid = tid
	t.HasTid = true
	s.byTid[tid] = t
	return t
}

// Lookup by Kind for the universe-scope seed map (§6: "Builtin universe").
func (s *Store) Primitive(k Kind) *Type {
	switch k {
	case Void:
		return s.Void
	case Bool:
		return s.Bool
	case Int8:
		return s.I8
	case Int16:
		return s.I16
	case Int32:
		return s.I32
	case Int64:
		return s.I64
	case Uint8:
		return s.U8
	case Uint16:
		return s.U16
	case Uint32:
		return s.U32
	case Uint64:
		return s.U64
	case Int:
		return s.IntT
	case Uint:
		return s.UintT
	case F32:
		return s.F32T
	case F64:
		return s.F64T
	default:
		return nil
	}
}

// NewPointer, NewReference, ... build fresh (not-yet-canonical) nodes;
// callers must pass them through Canonicalize before relying on tid or
// pointer identity.

func NewPointer(elem *Type) *Type { return &Type{Kind: Pointer, Elem: elem} }

func NewReference(elem *Type, mutable bool) *Type {
	return &Type{Kind: Reference, Elem: elem, Mutable: mutable}
}

func NewSlice(elem *Type, mutable bool) *Type {
	return &Type{Kind: Slice, Elem: elem, Mutable: mutable}
}

func NewOptional(elem *Type) *Type { return &Type{Kind: Optional, Elem: elem} }

func NewArray(elem *Type, length int) *Type {
	return &Type{Kind: Array, Elem: elem, Len: length}
}

func NewFunction(params []*Type, result *Type) *Type {
	return &Type{Kind: Function, Params: params, Result: result}
}

func NewStruct(name string, fields []Field) *Type {
	return &Type{Kind: Struct, Name: name, Fields: fields}
}

func NewAlias(name string, target *Type) *Type {
	return &Type{Kind: Alias, Name: name, AliasOf: target}
}

// Canonicalize implements the §4.4 algorithm:
//  1. if t already has a tid, return it unchanged.
//  2. else recursively canonicalize every child first, so the child's own
//     (already-canonical) tid can be spliced directly into t's encoding
//     instead of re-deriving the child's structure.
//  3. intern the encoded fingerprint and store it as t's tid.
//  4. insert into the typeid->type map, or if a prior entry exists for
//     this tid, return that prior node instead and let the caller
//     discard the fresh one.
func (s *Store) Canonicalize(t *Type) *Type {
	if t == nil {
		return nil
	}
	if t.HasTid {
		return t
	}

	switch t.Kind {
	case Pointer, Reference, Slice, Optional, Array:
		t.Elem = s.Canonicalize(t.Elem)
	case Function:
		for i, p := range t.Params {
			t.Params[i] = s.Canonicalize(p)
		}
		t.Result = s.Canonicalize(t.Result)
	case Struct:
		for i := range t.Fields {
			t.Fields[i].Type = s.Canonicalize(t.Fields[i].Type)
		}
		s.layoutStruct(t)
	case Alias:
		t.AliasOf = s.Canonicalize(t.AliasOf)
	}

	fingerprint := s.encode(t)
	tid := s.interner.Intern(fingerprint)
	t.Tid = tid
	t.HasTid = true

	if existing, ok := s.byTid[tid]; ok {
		return existing
	}
	s.byTid[tid] = t
	return t
}

// FindFunction is the funtype constructor's explicit typeid->type lookup
// (§4.4): it canonicalizes params/result as Canonicalize would, but
// returns whether an existing canonical function type was found so
// callers can discard a freshly-built node in favor of it, guaranteeing
// function-type identity can be tested by pointer equality.
func (s *Store) FindFunction(params []*Type, result *Type) (*Type, bool) {
	fresh := NewFunction(append([]*Type(nil), params...), result)
	canon := s.Canonicalize(fresh)
	return canon, canon != fresh
}

// tidString returns the interned fingerprint bytes for an already-
// canonical child, the short-circuit step of the §4.4 algorithm.
func (s *Store) tidString(t *Type) string {
	return s.interner.String(t.Tid)
}

func (s *Store) encode(t *Type) string {
	switch t.Kind {
	case Pointer:
		return string(prefixPointer) + s.tidString(t.Elem)
	case Reference:
		if t.Mutable {
			return string(prefixRefMut) + s.tidString(t.Elem)
		}
		return string(prefixRefImmut) + s.tidString(t.Elem)
	case Slice:
		if t.Mutable {
			return string(prefixSliceMut) + s.tidString(t.Elem)
		}
		return string(prefixSliceImmu) + s.tidString(t.Elem)
	case Optional:
		return string(prefixOptional) + s.tidString(t.Elem)
	case Array:
		return fmt.Sprintf("%c%x;%s", prefixArray, t.Len, s.tidString(t.Elem))
	case Function:
		enc := fmt.Sprintf("%c%x;", prefixFunction, len(t.Params))
		for _, p := range t.Params {
			enc += s.tidString(p)
		}
		enc += s.tidString(t.Result)
		return enc
	case Struct:
		enc := fmt.Sprintf("%c%x;", prefixStruct, len(t.Fields))
		for _, f := range t.Fields {
			enc += s.tidString(f.Type)
		}
		return enc
	case Alias:
		return fmt.Sprintf("%c%x;%s", prefixAlias, len(t.Name), t.Name)
	default:
		panic(fmt.Sprintf("types: encode called on non-structural kind %v", t.Kind))
	}
}

// Describe renders a canonical type for diagnostic messages — distinct
// from the raw typeid fingerprint, which is an interchange format, not a
// human-facing one (SPEC_FULL.md §C).
func (s *Store) Describe(t *Type) string {
	return t.String()
}

// alignUp mirrors yparse/symtab.go's helper of the same name, used here
// for struct layout and for the size of a tagged Optional.
func alignUp(n, align int) int {
	if align <= 1 {
		return n
	}
	return (n + align - 1) &^ (align - 1)
}
