package parser

import (
	"github.com/hringjurfn/compis/internal/lexer"
	"github.com/hringjurfn/compis/internal/scope"
	"github.com/hringjurfn/compis/internal/types"
)

// primitiveNames maps a type-position identifier spelling to its
// universe-scope primitive kind (§4.5: type parselet table, prefix
// position keyed by token tag — primitives are identifiers resolved
// against a fixed name set rather than their own keywords, matching the
// spec's "no separate primitive-type token tags" data model).
var primitiveNames = map[string]types.Kind{
	"void": types.Void, "bool": types.Bool,
	"i8": types.Int8, "i16": types.Int16, "i32": types.Int32, "i64": types.Int64,
	"u8": types.Uint8, "u16": types.Uint16, "u32": types.Uint32, "u64": types.Uint64,
	"int": types.Int, "uint": types.Uint,
	"f32": types.F32, "f64": types.F64,
}

// installTypeTable builds the type parselet table, keyed by the token
// tag that can start a type expression.
func (p *Parser) installTypeTable() {
	t := make(map[lexer.Tag]typeParselet)
	t[lexer.Ident] = parseNamedType
	t[lexer.Star] = parsePointerType
	t[lexer.Amp] = parseRefType
	t[lexer.Mut] = parseMutType
	t[lexer.LBracket] = parseSliceOrArrayType
	t[lexer.Question] = parseOptionalType
	t[lexer.Fun] = parseFuncType
	p.typeTable = t
}

// parseType dispatches to the type parselet table entry for the current
// token, per §4.4's single-token-of-lookahead design (types need no
// precedence climbing: every type-forming operator is prefix-only).
func (p *Parser) parseType() *types.Type {
	fn, ok := p.typeTable[p.tok.Tag]
	if !ok {
		p.errorf(p.tok.Loc, "expected a type, found %s", p.tok.Tag)
		p.advance()
		return p.store.Void
	}
	return fn(p)
}

func parseNamedType(p *Parser) *types.Type {
	name := p.tok.Lexeme
	loc := p.tok.Loc
	nameSym := p.tok.Name
	p.advance()

	if kind, ok := primitiveNames[name]; ok {
		return p.store.Primitive(kind)
	}
	decl, ok := p.scopes.Lookup(nameSym, scope.Unbounded)
	if !ok {
		p.errorf(loc, "undefined type %q", name)
		return p.store.Void
	}
	switch d := decl.(type) {
	case *structDeclRef:
		if n, ok := p.packageDefs[nameSym]; ok {
			bumpRefCount(n)
		}
		return d.Type
	case *aliasDeclRef:
		if n, ok := p.packageDefs[nameSym]; ok {
			bumpRefCount(n)
		}
		return d.Type
	default:
		p.errorf(loc, "%q is not a type", name)
		return p.store.Void
	}
}

// structDeclRef/aliasDeclRef are the lightweight bindings the parser
// installs into the scope stack for type names, distinct from the full
// ast.StructDecl/TypeAliasDecl nodes kept in the package-defs map, so
// that type-position lookups don't need an ast->types type-switch.
type structDeclRef struct{ Type *types.Type }
type aliasDeclRef struct{ Type *types.Type }

func parsePointerType(p *Parser) *types.Type {
	p.advance() // *
	elem := p.parseType()
	return p.store.Canonicalize(types.NewPointer(elem))
}

func parseRefType(p *Parser) *types.Type {
	mut := consumeMut(p)
	p.expect(lexer.Amp)
	elem := p.parseType()
	return p.store.Canonicalize(types.NewReference(elem, mut))
}

// parseMutType handles the `mut` prefix, which leads either a mutable
// reference (`mut &T`) or a mutable slice (`mut [T]`); the keyword is
// shared between both forms rather than having its own fixed type shape.
func parseMutType(p *Parser) *types.Type {
	p.advance() // mut
	if p.at(lexer.Amp) {
		p.advance()
		elem := p.parseType()
		return p.store.Canonicalize(types.NewReference(elem, true))
	}
	p.expect(lexer.LBracket)
	elem := p.parseType()
	p.expect(lexer.RBracket)
	return p.store.Canonicalize(types.NewSlice(elem, true))
}

func consumeMut(p *Parser) bool {
	if p.at(lexer.Mut) {
		p.advance()
		return true
	}
	return false
}

// parseSliceOrArrayType parses `[T]` (immutable slice) or `[N]T` (fixed-
// size array), disambiguated by whether an integer literal follows the
// opening bracket. The mutable-slice form `mut [T]` is handled by
// parseMutType instead.
func parseSliceOrArrayType(p *Parser) *types.Type {
	p.advance() // [
	if p.at(lexer.Int) {
		n := int(p.tok.IntVal)
		p.advance()
		p.expect(lexer.RBracket)
		elem := p.parseType()
		return p.store.Canonicalize(types.NewArray(elem, n))
	}
	elem := p.parseType()
	p.expect(lexer.RBracket)
	return p.store.Canonicalize(types.NewSlice(elem, false))
}

func parseOptionalType(p *Parser) *types.Type {
	p.advance() // ?
	elem := p.parseType()
	return p.store.Canonicalize(types.NewOptional(elem))
}

func parseFuncType(p *Parser) *types.Type {
	p.advance() // fun
	p.expect(lexer.LParen)
	var params []*types.Type
	for !p.at(lexer.RParen) && !p.at(lexer.EOF) {
		params = append(params, p.parseType())
		if !p.at(lexer.Comma) {
			break
		}
		p.advance()
	}
	p.expect(lexer.RParen)
	result := p.store.Void
	if !p.at(lexer.Semi) && !p.at(lexer.ImplicitSemi) && !p.at(lexer.LBrace) &&
		!p.at(lexer.RParen) && !p.at(lexer.Comma) && !p.at(lexer.RBracket) {
		result = p.parseType()
	}
	canon, _ := p.store.FindFunction(params, result)
	return canon
}
