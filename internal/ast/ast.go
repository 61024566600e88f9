// Package ast defines the polymorphic syntax-tree node set the parser
// builds while it simultaneously resolves names and types (§4.4, §4.5 of
// the front-end spec: "the parser builds the AST and resolves names and
// types in a single pass — there is no separate binding phase").
//
// Every node carries a source.Range; statement nodes add a small flag
// set and expression nodes a resolved *types.Type pointer. FuncDecl and
// the user-defined type declarations (StructDecl, TypeAliasDecl) carry a
// RefCount the parser increments each time a name resolves back to them;
// expression nodes, VarDecl and Param carry no use counter.
//
// Grounded on gmofishsauce/wut4's lang/yparse/ast.go (the Decl/Stmt/Expr
// interface split, baseExpr embedding, BinaryOp/UnaryOp enumerations) and
// lang/sem/ast.go (the resolved-type-on-node pattern), generalized from
// wut4's fixed C-like statement/expression set to the spec's structural
// types, optional narrowing, and reference/pointer expression forms.
package ast

import (
	"github.com/google/uuid"

	"github.com/hringjurfn/compis/internal/source"
	"github.com/hringjurfn/compis/internal/sym"
	"github.com/hringjurfn/compis/internal/types"
)

// Flags record secondary properties set during parsing/resolution that
// don't warrant their own node kind.
type Flags uint8

const (
	// FlagExits marks a statement (typically the last in a block) that
	// unconditionally transfers control out of the enclosing function —
	// a return (with or without a value), or a block/if whose every path
	// itself exits.
	FlagExits Flags = 1 << iota
	// FlagUnreachable marks a statement the parser determined can never
	// execute, because a preceding sibling statement already exits.
	FlagUnreachable
	// FlagMutable marks a reference/slice/receiver as the mutable `mut`
	// variant rather than the default immutable one.
	FlagMutable
)

func (f Flags) Has(bit Flags) bool { return f&bit != 0 }

// Node is implemented by every AST node.
type Node interface {
	Pos() source.Range
	node()
}

// Decl is a top-level or struct-level declaration.
type Decl interface {
	Node
	declNode()
}

// Stmt is a statement inside a function body.
type Stmt interface {
	Node
	stmtNode()
	Flags() Flags
}

// Expr is an expression; every Expr carries its resolved type once name
// resolution has run. Expressions carry no use counter: uses are counted
// on the resolved declaration (see IdentExpr).
type Expr interface {
	Node
	exprNode()
	Type() *types.Type
	SetType(*types.Type)
}

// base is embedded by every concrete node to satisfy Node.
type base struct {
	Range source.Range
}

func (b base) Pos() source.Range    { return b.Range }
func (b *base) SetRange(r source.Range) { b.Range = r }
func (base) node()                  {}

// baseStmt is embedded by statement nodes.
type baseStmt struct {
	base
	flags Flags
}

func (s *baseStmt) stmtNode()    {}
func (s *baseStmt) Flags() Flags { return s.flags }
func (s *baseStmt) SetFlag(f Flags) {
	s.flags |= f
}

// baseExpr is embedded by expression nodes, mirroring wut4's baseExpr.
type baseExpr struct {
	base
	resolvedType *types.Type
}

func (e *baseExpr) exprNode()               {}
func (e *baseExpr) Type() *types.Type       { return e.resolvedType }
func (e *baseExpr) SetType(t *types.Type)   { e.resolvedType = t }

// ============================================================
// Unit / top-level declarations
// ============================================================

// Unit is the root node of one parsed source file.
type Unit struct {
	base
	File      source.Handle
	Decls     []Decl
	SessionID uuid.UUID // the owning compiler.Compiler's correlation id (SPEC_FULL.md §A)
}

// FuncDecl is a function or method declaration (§4.5: "function
// prototypes" and "method registration"). Receiver is nil for a free
// function.
type FuncDecl struct {
	base
	Name     string
	NameSym  sym.Symbol
	Receiver *Param // nil for a free function
	Params   []*Param
	Result   *types.Type // types.Void if omitted
	Body     *Block      // nil for a prototype with no body
	Decl     *types.Type // Kind == Function, set once resolved
	RefCount int         // calls resolved back to this declaration
}

func (d *FuncDecl) declNode() {}

// Param is one function parameter or a method receiver (`this` /
// `mut this`).
type Param struct {
	base
	Name    string
	NameSym sym.Symbol
	Type    *types.Type
	IsThis  bool
}

// StructDecl declares a struct type and its associated methods (§4.5:
// "struct field-group plus inner `fun` parsing with layout").
type StructDecl struct {
	base
	Name     string
	NameSym  sym.Symbol
	Fields   []*FieldDecl
	Methods  []*FuncDecl
	Decl     *types.Type // Kind == Struct, set once canonicalized
	RefCount int         // uses of this type name resolved back here
}

func (d *StructDecl) declNode() {}

// FieldDecl is one struct field.
type FieldDecl struct {
	base
	Name    string
	NameSym sym.Symbol
	Type    *types.Type
}

// TypeAliasDecl declares a named alias for an existing type.
type TypeAliasDecl struct {
	base
	Name     string
	NameSym  sym.Symbol
	Target   *types.Type
	Decl     *types.Type // Kind == Alias
	RefCount int
}

func (d *TypeAliasDecl) declNode() {}

// VarDecl is a top-level or local `let`/`var` binding.
type VarDecl struct {
	baseStmt
	Name    string
	NameSym sym.Symbol
	Mut     bool
	Type    *types.Type // nil if inferred from Init
	Init    Expr        // nil if no initializer (Type must be non-nil then)
}

func (d *VarDecl) declNode() {}

// ============================================================
// Statements
// ============================================================

// Block is a brace-delimited sequence of statements. Its last statement,
// if an ExprStmt, is the block's value in expression position (§4.5:
// "final-expression r-value propagation").
type Block struct {
	baseStmt
	Stmts []Stmt
}

// ExprStmt wraps an expression used as a statement (or as a block's
// trailing value).
type ExprStmt struct {
	baseStmt
	X Expr
}

// IfStmt is a conditional. When Cond narrows an optional binding (§4.5:
// "conditional narrowing state machine for `if` on optional types"),
// Narrowed names the binding and NarrowedType its non-optional payload
// type, both valid only inside Then.
type IfStmt struct {
	baseStmt
	Cond         Expr
	Then         *Block
	Else         Stmt // *Block or *IfStmt, nil if no else
	Narrowed     sym.Symbol
	NarrowedType *types.Type
	HasNarrow    bool
}

// ReturnStmt returns from the enclosing function. Value is nil for a
// bare `return` in a void function. Every ReturnStmt sets FlagExits on
// itself.
type ReturnStmt struct {
	baseStmt
	Value Expr
}

// ============================================================
// Expressions
// ============================================================

// BinaryOp enumerates binary operators. The declaration order is not
// their precedence: the parser's expression table (installExprTable)
// assigns each operator its binding level.
type BinaryOp int

const (
	OpInvalid BinaryOp = iota
	OpOrOr
	OpAndAnd
	OpEq
	OpNe
	OpLt
	OpGt
	OpLe
	OpGe
	OpAdd
	OpSub
	OpOr
	OpXor
	OpMul
	OpDiv
	OpMod
	OpAnd
	OpShl
	OpShr
)

var binaryOpNames = map[BinaryOp]string{
	OpOrOr: "||", OpAndAnd: "&&", OpEq: "==", OpNe: "!=",
	OpLt: "<", OpGt: ">", OpLe: "<=", OpGe: ">=",
	OpAdd: "+", OpSub: "-", OpOr: "|", OpXor: "^",
	OpMul: "*", OpDiv: "/", OpMod: "%", OpAnd: "&",
	OpShl: "<<", OpShr: ">>",
}

func (op BinaryOp) String() string {
	if n, ok := binaryOpNames[op]; ok {
		return n
	}
	return "?"
}

// UnaryOp enumerates prefix unary operators, including this language's
// reference/pointer-forming operators (§4.5: "reference/pointer
// expression rules").
type UnaryOp int

const (
	UnaryInvalid UnaryOp = iota
	UnaryNeg                // -x
	UnaryNot                // ~x
	UnaryLNot               // !x
	UnaryAddr               // &x (immutable reference)
	UnaryAddrMut            // mut &x (mutable reference)
	UnaryDeref              // *p
)

func (op UnaryOp) String() string {
	switch op {
	case UnaryNeg:
		return "-"
	case UnaryNot:
		return "~"
	case UnaryLNot:
		return "!"
	case UnaryAddr:
		return "&"
	case UnaryAddrMut:
		return "mut &"
	case UnaryDeref:
		return "*"
	default:
		return "?"
	}
}

// BinaryExpr is a binary operator expression.
type BinaryExpr struct {
	baseExpr
	Op          BinaryOp
	Left, Right Expr
}

// UnaryExpr is a prefix unary operator expression.
type UnaryExpr struct {
	baseExpr
	Op      UnaryOp
	Operand Expr
}

// AssignExpr is `lhs = rhs` or a compound assignment, desugared to Op !=
// OpInvalid meaning "lhs Op= rhs".
type AssignExpr struct {
	baseExpr
	Op       BinaryOp // OpInvalid for plain `=`
	LHS, RHS Expr
}

// CallExpr is a function or method call.
type CallExpr struct {
	baseExpr
	Callee Expr
	Args   []Expr
}

// FieldExpr is `.field` access, resolved at parse time to either a
// struct field index or a method.
type FieldExpr struct {
	baseExpr
	Object    Expr
	FieldName string
	Index     int // field index if resolved to a field, else -1
	Method    *types.Method
}

// IndexExpr is `a[i]` slice/array indexing.
type IndexExpr struct {
	baseExpr
	Target Expr
	Index  Expr
}

// IdentExpr references a binding resolved through the scope stack.
// RefCount is incremented on the referenced declaration, not on this
// node; this node instead carries the resolved Decl so later passes
// don't need to re-resolve the name.
type IdentExpr struct {
	baseExpr
	Name string
	Sym  sym.Symbol
	Decl Node // *VarDecl, *Param, or *FuncDecl
}

// ThisExpr references the implicit receiver inside a method body.
type ThisExpr struct {
	baseExpr
}

// IntLit is an integer literal; the parser has already fit its value
// against the surrounding type context (§4.5: "literal type selection").
type IntLit struct {
	baseExpr
	Value uint64
}

// FloatLit is a floating-point literal selected as f32 or f64 by the
// surrounding type context.
type FloatLit struct {
	baseExpr
	Text string
}

// BoolLit is `true` or `false`.
type BoolLit struct {
	baseExpr
	Value bool
}
