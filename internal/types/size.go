package types

// Size returns the size in bytes of t under the Store's Target. Returns
// -1 if the size cannot be determined (an un-canonicalized struct
// reference, or an invalid type).
func (s *Store) Size(t *Type) int {
	if t == nil {
		return -1
	}
	switch t.Kind {
	case Void:
		return 0
	case Bool, Int8, Uint8:
		return 1
	case Int16, Uint16:
		return 2
	case Int32, Uint32, F32:
		return 4
	case Int64, Uint64, F64:
		return 8
	case Int, Uint:
		return s.target.IntWidth
	case Pointer, Reference, Function:
		return s.target.PointerWidth
	case Slice:
		// a slice is a (pointer, length) fat pointer.
		return 2 * s.target.PointerWidth
	case Optional:
		return s.optionalSize(t)
	case Array:
		elemSize := s.Size(t.Elem)
		if elemSize < 0 {
			return -1
		}
		return elemSize * t.Len
	case Struct:
		if t.size == 0 && t.align == 0 && len(t.Fields) > 0 {
			// not yet laid out: caller canonicalized through a path
			// that skipped layoutStruct (programmer error upstream).
			return -1
		}
		return t.size
	case Alias:
		return s.Size(t.Underlying())
	default:
		return -1
	}
}

// Alignment returns the alignment requirement in bytes of t.
func (s *Store) Alignment(t *Type) int {
	if t == nil {
		return 1
	}
	switch t.Kind {
	case Void, Bool, Int8, Uint8:
		return 1
	case Int16, Uint16:
		return 2
	case Int32, Uint32, F32:
		return 4
	case Int64, Uint64, F64:
		return 8
	case Int, Uint:
		return s.target.IntWidth
	case Pointer, Reference, Function, Slice:
		return s.target.PointerWidth
	case Optional:
		return s.Alignment(t.Elem)
	case Array:
		return s.Alignment(t.Elem)
	case Struct:
		if t.align == 0 {
			return s.target.PointerWidth
		}
		return t.align
	case Alias:
		return s.Alignment(t.Underlying())
	default:
		return 1
	}
}

// hasNullNiche reports whether t's bit pattern has a representable "all
// zero bits never occurs validly" niche a wrapping Optional can reuse
// instead of allocating a separate discriminant tag — pointers,
// references, slices (whose pointer component is never null for a live
// binding) and function values all qualify.
func hasNullNiche(t *Type) bool {
	switch t.Kind {
	case Pointer, Reference, Slice, Function:
		return true
	}
	return false
}

// optionalSize lays out `?T`: niche-packed (same size as T) when T has a
// null representation to steal, else T's size plus one discriminant byte,
// rounded up to T's alignment.
func (s *Store) optionalSize(t *Type) int {
	elemSize := s.Size(t.Elem)
	if elemSize < 0 {
		return -1
	}
	if hasNullNiche(t.Elem) {
		return elemSize
	}
	align := s.Alignment(t.Elem)
	return alignUp(elemSize+1, align)
}

// layoutStruct computes field offsets, struct size and alignment by
// accumulating fields left to right, mirroring yparse/symtab.go's
// SymbolTable.DefineStruct: each field is aligned within the struct, the
// struct's alignment is the max field alignment (1 byte for an empty
// struct), and the final size is
// rounded up to that alignment. Must run after every field's Type has
// already been canonicalized (Canonicalize enforces this ordering).
func (s *Store) layoutStruct(t *Type) {
	align := 1
	offset := 0
	for i, f := range t.Fields {
		fieldAlign := s.Alignment(f.Type)
		if fieldAlign > align {
			align = fieldAlign
		}
		offset = alignUp(offset, fieldAlign)
		t.Fields[i].Type = f.Type // no-op, keeps field slice explicit
		offset += s.Size(f.Type)
	}
	t.align = align
	t.size = alignUp(offset, align)
}

// FieldOffset returns the byte offset of field index i within struct t,
// valid only after Canonicalize has laid the struct out.
func (s *Store) FieldOffset(t *Type, i int) int {
	offset := 0
	align := 1
	for idx := 0; idx <= i; idx++ {
		f := t.Fields[idx]
		fieldAlign := s.Alignment(f.Type)
		if fieldAlign > align {
			align = fieldAlign
		}
		offset = alignUp(offset, fieldAlign)
		if idx == i {
			return offset
		}
		offset += s.Size(f.Type)
	}
	return offset
}
