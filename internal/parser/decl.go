package parser

import (
	"github.com/hringjurfn/compis/internal/ast"
	"github.com/hringjurfn/compis/internal/lexer"
	"github.com/hringjurfn/compis/internal/types"
)

// parseFuncDecl parses a function or, when recv is non-nil, a method
// body being parsed inline as part of a struct declaration (§4.5:
// "function prototypes / method registration"). recv is the receiver
// parameter already built by parseStructDecl's inner `fun` handling.
func (p *Parser) parseFuncDecl(recv *ast.Param) *ast.FuncDecl {
	start := p.tok.Loc
	p.advance() // fun
	nameTok := p.expect(lexer.Ident)

	d := &ast.FuncDecl{Name: nameTok.Lexeme, NameSym: nameTok.Name, Receiver: recv}

	// A free function's name is defined in the enclosing scope, not its
	// own parameter scope below, so sibling top-level declarations (and
	// the function's own recursive calls) can still resolve it after this
	// function's scope is popped. defineTopLevel below only records it for
	// duplicate-definition bookkeeping; it no longer touches scopes.
	if recv == nil {
		p.scopes.Define(d.NameSym, d)
	}

	p.scopes.Push()
	defer p.scopes.Pop()

	if recv != nil {
		p.scopes.Define(p.interner.Intern("this"), recv)
	}

	p.expect(lexer.LParen)
	var paramTypes []*types.Type
	for !p.at(lexer.RParen) && !p.at(lexer.EOF) {
		param := p.parseParam()
		d.Params = append(d.Params, param)
		paramTypes = append(paramTypes, param.Type)
		p.scopes.Define(param.NameSym, param)
		if !p.at(lexer.Comma) {
			break
		}
		p.advance()
	}
	p.expect(lexer.RParen)

	result := p.store.Void
	if !p.at(lexer.LBrace) && !p.at(lexer.Semi) && !p.at(lexer.ImplicitSemi) {
		result = p.parseType()
	}
	d.Result = result

	funcType, _ := p.store.FindFunction(paramTypes, result)
	d.Decl = funcType

	if recv == nil {
		p.defineTopLevel(d.Name, d.NameSym, start, d)
	}

	if p.at(lexer.LBrace) {
		d.Body = p.parseBlock(result)
	} else {
		p.consumeSemi()
	}
	d.SetRange(p.rangeFrom(start))
	return d
}

// parseParam parses one `name Type` or bare receiver (`this` / `mut
// this`) parameter. Every named parameter carries its own type:
// name groups sharing one type (`x, y T`) and type-only parameter lists
// are not accepted.
func (p *Parser) parseParam() *ast.Param {
	start := p.tok.Loc
	if p.at(lexer.This) || (p.at(lexer.Mut) && p.peekAt(lexer.This)) {
		mut := consumeMut(p)
		p.advance() // this
		prm := &ast.Param{Name: "this", NameSym: p.interner.Intern("this"), IsThis: true}
		if t := p.currentTypeCtx(); t != nil {
			prm.Type = types.NewReference(t, mut)
		}
		prm.SetRange(p.rangeFrom(start))
		return prm
	}
	nameTok := p.expect(lexer.Ident)
	typ := p.parseType()
	prm := &ast.Param{Name: nameTok.Lexeme, NameSym: nameTok.Name, Type: typ}
	prm.SetRange(p.rangeFrom(start))
	return prm
}

// parseStructDecl parses `type Name struct { fields...; fun methods... }`
// (§4.5: "struct field-group plus inner `fun` parsing with layout").
func (p *Parser) parseStructDecl(start lexer.Token, nameTok lexer.Token) *ast.StructDecl {
	d := &ast.StructDecl{Name: nameTok.Lexeme, NameSym: nameTok.Name}
	p.advance() // "struct"
	p.expect(lexer.LBrace)

	// Register the struct's own name before parsing its body so methods
	// and fields that reference it recursively (e.g. a `*Name` field)
	// resolve.
	placeholder := types.NewStruct(d.Name, nil)
	p.scopes.Define(d.NameSym, &structDeclRef{Type: placeholder})
	p.defineTopLevel(d.Name, d.NameSym, start.Loc, d)

	var fields []types.Field
	for !p.at(lexer.RBrace) && !p.at(lexer.EOF) {
		// A method body's closing `}` at end of line is followed by an
		// inserted semicolon.
		if p.at(lexer.Semi) || p.at(lexer.ImplicitSemi) {
			p.advance()
			continue
		}
		if p.at(lexer.Fun) {
			recvType := placeholder
			recv := &ast.Param{Name: "this", NameSym: p.interner.Intern("this"), IsThis: true}
			p.pushTypeCtx(recvType)
			m := p.parseFuncDecl(recv)
			p.popTypeCtx()
			d.Methods = append(d.Methods, m)
			continue
		}
		fieldTok := p.expect(lexer.Ident)
		fieldType := p.parseType()
		d.Fields = append(d.Fields, &ast.FieldDecl{Name: fieldTok.Lexeme, NameSym: fieldTok.Name, Type: fieldType})
		fields = append(fields, types.Field{Name: fieldTok.Lexeme, Type: fieldType})
		p.consumeSemi()
	}
	p.expect(lexer.RBrace)

	placeholder.Fields = fields
	canon := p.store.Canonicalize(placeholder)
	d.Decl = canon
	for _, m := range d.Methods {
		method := &types.Method{Name: m.Name, Func: m.Decl, Decl: m}
		if prior, collides := canon.AddMethod(method); prior != nil {
			p.errorf(m.Pos().Start, "method %q redeclared", m.Name)
		} else if collides {
			p.errorf(m.Pos().Start, "method %q collides with a field of the same name", m.Name)
		}
	}
	d.SetRange(p.rangeFrom(start.Loc))
	return d
}

// parseTypeLevelDecl parses either a struct declaration or a plain type
// alias, both introduced by the `type` keyword.
func (p *Parser) parseTypeLevelDecl() ast.Decl {
	start := p.tok
	p.advance() // type
	nameTok := p.expect(lexer.Ident)

	if p.at(lexer.Struct) {
		return p.parseStructDecl(start, nameTok)
	}

	target := p.parseType()
	alias := types.NewAlias(nameTok.Lexeme, target)
	canon := p.store.Canonicalize(alias)
	d := &ast.TypeAliasDecl{Name: nameTok.Lexeme, NameSym: nameTok.Name, Target: target, Decl: canon}
	p.scopes.Define(nameTok.Name, &aliasDeclRef{Type: canon})
	p.defineTopLevel(d.Name, d.NameSym, start.Loc, d)
	p.consumeSemi()
	d.SetRange(p.rangeFrom(start.Loc))
	return d
}

// parseTopLevelVar parses a top-level `let`/`var` binding.
func (p *Parser) parseTopLevelVar() ast.Decl {
	v := p.parseVarDecl()
	p.defineTopLevel(v.Name, v.NameSym, v.Pos().Start, v)
	return v
}
