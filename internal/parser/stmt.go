package parser

import (
	"github.com/hringjurfn/compis/internal/ast"
	"github.com/hringjurfn/compis/internal/lexer"
	"github.com/hringjurfn/compis/internal/types"
)

// installStmtTable builds the statement parselet table, keyed by the
// token tag that introduces a statement form (§4.4).
func (p *Parser) installStmtTable() {
	t := make(map[lexer.Tag]stmtParselet)
	t[lexer.LBrace] = func(p *Parser) ast.Stmt { return p.parseBlock(nil) }
	t[lexer.If] = parseIfStmt
	t[lexer.Return] = parseReturnStmt
	t[lexer.Let] = func(p *Parser) ast.Stmt { return p.parseVarDecl() }
	t[lexer.Var] = func(p *Parser) ast.Stmt { return p.parseVarDecl() }
	p.stmtTable = t
}

// parseStmt parses one statement, dispatching through the statement
// table when the current token introduces a known statement form, and
// falling back to an expression statement otherwise — the parselet
// table's "default" slot (§4.4).
func (p *Parser) parseStmt() ast.Stmt {
	if fn, ok := p.stmtTable[p.tok.Tag]; ok {
		return fn(p)
	}
	return p.parseExprStmt()
}

func (p *Parser) parseExprStmt() ast.Stmt {
	start := p.tok.Loc
	x := p.parseExprFull()
	p.consumeSemi()
	s := &ast.ExprStmt{X: x}
	s.SetRange(p.rangeFrom(start))
	return s
}

// parseBlock parses a brace-delimited statement sequence, tracking
// exits/unreachable flags (§4.5: "final-expression r-value propagation,
// 'exits'/'unreachable' flagging"). resultType is the enclosing
// function's declared result, used so a trailing ExprStmt's type context
// matches it; nil when parsing a block that isn't a function body.
func (p *Parser) parseBlock(resultType *types.Type) *ast.Block {
	start := p.tok.Loc
	p.expect(lexer.LBrace)

	b := &ast.Block{}
	p.scopes.Push()
	defer p.scopes.Pop()

	exited := false
	for !p.at(lexer.RBrace) && !p.at(lexer.EOF) {
		// A statement ending in `}` (an if) is followed by the semicolon
		// the scanner inserts at end of line.
		if p.at(lexer.Semi) || p.at(lexer.ImplicitSemi) {
			p.advance()
			continue
		}
		pushed := resultType != nil && isLastStmtCandidate(p)
		if pushed {
			p.pushTypeCtx(resultType)
		}
		s := p.parseStmt()
		if pushed {
			p.popTypeCtx()
		}
		if exited {
			if bs, ok := s.(interface{ SetFlag(ast.Flags) }); ok {
				bs.SetFlag(ast.FlagUnreachable)
			}
		}
		b.Stmts = append(b.Stmts, s)
		if s.Flags().Has(ast.FlagExits) {
			exited = true
		}
	}
	p.expect(lexer.RBrace)
	if exited {
		b.SetFlag(ast.FlagExits)
	}
	b.SetRange(p.rangeFrom(start))
	return b
}

// isLastStmtCandidate is a conservative check used only to decide
// whether to push a result-type context before parsing a statement that
// might be the block's trailing value expression; it is not required
// for correctness, only for slightly better literal-fitting diagnostics
// on a block's final expression.
func isLastStmtCandidate(p *Parser) bool {
	return !p.peekAt(lexer.RBrace)
}

// parseIfStmt parses `if cond { ... } [else ...]`, including the `if let
// name = optionalExpr { ... }` narrowing form (§4.5: "conditional
// narrowing state machine for `if` on optional types").
func parseIfStmt(p *Parser) ast.Stmt {
	start := p.tok.Loc
	p.advance() // if

	s := &ast.IfStmt{}

	if p.at(lexer.Let) {
		p.advance()
		nameTok := p.expect(lexer.Ident)
		p.expect(lexer.Assign)
		cond := p.parseExprFull()
		s.Cond = cond
		s.Narrowed = nameTok.Name
		s.HasNarrow = true
		if t := cond.Type(); t != nil && t.Kind == types.Optional {
			s.NarrowedType = t.Elem
		}

		p.scopes.Push()
		if s.NarrowedType != nil {
			p.scopes.Define(nameTok.Name, &ast.VarDecl{Name: nameTok.Lexeme, NameSym: nameTok.Name, Type: s.NarrowedType})
		}
		s.Then = p.parseBlock(nil)
		p.scopes.Pop()
	} else {
		s.Cond = p.parseExprFull()
		s.Then = p.parseBlock(nil)
	}

	if p.at(lexer.Else) {
		p.advance()
		if p.at(lexer.If) {
			s.Else = parseIfStmt(p)
		} else {
			s.Else = p.parseBlock(nil)
		}
	}

	if s.Then.Flags().Has(ast.FlagExits) && s.Else != nil && s.Else.Flags().Has(ast.FlagExits) {
		s.SetFlag(ast.FlagExits)
	}
	s.SetRange(p.rangeFrom(start))
	return s
}

// parseReturnStmt parses `return [expr]`. A ReturnStmt always exits.
func parseReturnStmt(p *Parser) ast.Stmt {
	start := p.tok.Loc
	p.advance() // return

	s := &ast.ReturnStmt{}
	if !p.at(lexer.Semi) && !p.at(lexer.ImplicitSemi) && !p.at(lexer.RBrace) {
		s.Value = p.parseExprFull()
	}
	p.consumeSemi()
	s.SetFlag(ast.FlagExits)
	s.SetRange(p.rangeFrom(start))
	return s
}

// parseVarDecl parses a `let`/`var` binding, usable both as a top-level
// declaration and as a local statement.
func (p *Parser) parseVarDecl() *ast.VarDecl {
	start := p.tok.Loc
	mut := p.at(lexer.Var)
	p.advance() // let | var

	nameTok := p.expect(lexer.Ident)
	d := &ast.VarDecl{Name: nameTok.Lexeme, NameSym: nameTok.Name, Mut: mut}

	if !p.at(lexer.Assign) {
		d.Type = p.parseType()
	}
	if p.at(lexer.Assign) {
		p.advance()
		if d.Type != nil {
			p.pushTypeCtx(d.Type)
		}
		d.Init = p.parseExprFull()
		if d.Type != nil {
			p.popTypeCtx()
		} else if d.Init.Type() != nil {
			d.Type = d.Init.Type()
		}
	}
	p.consumeSemi()

	p.scopes.Define(nameTok.Name, d)
	d.SetRange(p.rangeFrom(start))
	return d
}
