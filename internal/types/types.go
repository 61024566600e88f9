// Package types implements the compiler's structural type representation
// and the type store / typeid canonicalization service of §3 and §4.4 of
// the front-end spec: every structurally equivalent type collapses to one
// representative node, keyed by a printable "type-id" fingerprint.
//
// The Kind enum, Size/Alignment accumulation and struct-layout rules are
// grounded on gmofishsauce/wut4's lang/yparse/types.go and symtab.go
// (DefineStruct's left-to-right field offset accumulation, AddLocal's
// stack-frame packing) generalized from wut4's fixed five-kind, 16-bit-CPU
// type system to the spec's nine-kind, target-parameterized one.
package types

import (
	"fmt"
	"strings"

	"github.com/hringjurfn/compis/internal/sym"
)

// Kind identifies a type's structural shape.
type Kind int

const (
	Invalid Kind = iota
	Void
	Bool
	Int8
	Int16
	Int32
	Int64
	Uint8
	Uint16
	Uint32
	Uint64
	Int  // native int, width is target-dependent
	Uint // native uint, width is target-dependent
	F32
	F64
	Pointer
	Reference
	Slice
	Optional
	Array
	Function
	Struct
	Alias
)

func (k Kind) String() string {
	switch k {
	case Void:
		return "void"
	case Bool:
		return "bool"
	case Int8:
		return "i8"
	case Int16:
		return "i16"
	case Int32:
		return "i32"
	case Int64:
		return "i64"
	case Uint8:
		return "u8"
	case Uint16:
		return "u16"
	case Uint32:
		return "u32"
	case Uint64:
		return "u64"
	case Int:
		return "int"
	case Uint:
		return "uint"
	case F32:
		return "f32"
	case F64:
		return "f64"
	case Pointer:
		return "pointer"
	case Reference:
		return "reference"
	case Slice:
		return "slice"
	case Optional:
		return "optional"
	case Array:
		return "array"
	case Function:
		return "function"
	case Struct:
		return "struct"
	case Alias:
		return "alias"
	default:
		return "invalid"
	}
}

func (k Kind) isPrimitive() bool {
	return k >= Void && k <= F64
}

// Field is one ordered, named field of a struct type.
type Field struct {
	Name string
	Type *Type
}

// Method is one entry in a receiver type's method table: a name bound to
// a function type and an opaque backreference to the declaring AST node
// (kept as `any` to avoid a types<->ast import cycle; the parser is the
// only consumer that type-asserts it back).
type Method struct {
	Name string
	Func *Type // Kind == Function
	Decl any
}

// Type is a node in the structural type graph. Every non-primitive Type
// has a Tid that is either unset (HasTid == false, "fresh") or interned;
// primitives carry a one-byte Tid assigned at Store initialization, per
// §3's data model.
type Type struct {
	Kind   Kind
	Tid    sym.Symbol
	HasTid bool

	// Pointer / Reference / Slice / Optional / Array
	Elem    *Type
	Mutable bool // Reference, Slice: mutable vs. immutable

	// Array
	Len int

	// Function
	Params []*Type
	Result *Type

	// Struct
	Name    string // empty for an anonymous struct
	Fields  []Field
	methods map[string]*Method
	// computed layout, filled in by Store.layoutStruct
	size  int
	align int

	// Alias
	AliasOf *Type
}

// String renders a human-readable form of t, distinct from the canonical
// typeid fingerprint — grounded on yparse/types.go's Type.String().
func (t *Type) String() string {
	if t == nil {
		return "<nil>"
	}
	switch t.Kind {
	case Pointer:
		return "*" + t.Elem.String()
	case Reference:
		if t.Mutable {
			return "mut &" + t.Elem.String()
		}
		return "&" + t.Elem.String()
	case Slice:
		if t.Mutable {
			return "mut [" + t.Elem.String() + "]"
		}
		return "[" + t.Elem.String() + "]"
	case Optional:
		return "?" + t.Elem.String()
	case Array:
		return fmt.Sprintf("[%d]%s", t.Len, t.Elem.String())
	case Function:
		parts := make([]string, len(t.Params))
		for i, p := range t.Params {
			parts[i] = p.String()
		}
		return fmt.Sprintf("fun(%s) %s", strings.Join(parts, ", "), t.Result.String())
	case Struct:
		if t.Name != "" {
			return t.Name
		}
		parts := make([]string, len(t.Fields))
		for i, f := range t.Fields {
			parts[i] = f.Name + " " + f.Type.String()
		}
		return "struct { " + strings.Join(parts, "; ") + " }"
	case Alias:
		return t.Name
	default:
		return t.Kind.String()
	}
}

// Methods returns the receiver method table for a struct type, lazily
// initialized.
func (t *Type) Methods() map[string]*Method {
	if t.methods == nil {
		t.methods = make(map[string]*Method)
	}
	return t.methods
}

// AddMethod registers m on a struct type. If a method of that name is
// already registered it returns that prior method; if a field already has
// that name it returns fieldCollision=true. In either case m is not
// registered — callers distinguish the two so they can report "method
// name collides with field" per §3's invariant.
func (t *Type) AddMethod(m *Method) (prior *Method, fieldCollision bool) {
	for _, f := range t.Fields {
		if f.Name == m.Name {
			return nil, true
		}
	}
	methods := t.Methods()
	if existing, ok := methods[m.Name]; ok {
		return existing, false
	}
	methods[m.Name] = m
	return nil, false
}

// LookupMethod finds a registered method by name.
func (t *Type) LookupMethod(name string) (*Method, bool) {
	if t.methods == nil {
		return nil, false
	}
	m, ok := t.methods[name]
	return m, ok
}

// LookupField finds a struct field by name, returning its index or -1.
func (t *Type) LookupField(name string) int {
	for i, f := range t.Fields {
		if f.Name == name {
			return i
		}
	}
	return -1
}

// IsIntegral reports whether t is one of the signed/unsigned integer
// kinds (including the native int/uint).
func (t *Type) IsIntegral() bool {
	if t == nil {
		return false
	}
	switch t.Kind {
	case Int8, Int16, Int32, Int64, Uint8, Uint16, Uint32, Uint64, Int, Uint:
		return true
	}
	return false
}

// IsSigned reports whether t is a signed integer kind.
func (t *Type) IsSigned() bool {
	if t == nil {
		return false
	}
	switch t.Kind {
	case Int8, Int16, Int32, Int64, Int:
		return true
	}
	return false
}

// IsFloat reports whether t is f32 or f64.
func (t *Type) IsFloat() bool {
	return t != nil && (t.Kind == F32 || t.Kind == F64)
}

// Underlying resolves through alias chains to the first non-alias type.
func (t *Type) Underlying() *Type {
	for t != nil && t.Kind == Alias {
		t = t.AliasOf
	}
	return t
}
