package parser

import (
	"github.com/hringjurfn/compis/internal/ast"
	"github.com/hringjurfn/compis/internal/lexer"
	"github.com/hringjurfn/compis/internal/scope"
	"github.com/hringjurfn/compis/internal/types"
)

// installExprTable builds the expression parselet table: one row per
// token tag carrying its optional prefix parselet, optional infix
// parselet, and infix binding precedence (§4.2, §4.4).
func (p *Parser) installExprTable() {
	t := make(map[lexer.Tag]exprRule)

	prefix := func(tag lexer.Tag, fn prefixParselet) {
		r := t[tag]
		r.prefix = fn
		t[tag] = r
	}
	infixOp := func(tag lexer.Tag, op ast.BinaryOp, prec precedence) {
		r := t[tag]
		r.prec = prec
		r.infix = func(p *Parser, left ast.Expr) ast.Expr {
			return p.parseBinaryInfix(left, op, prec)
		}
		t[tag] = r
	}

	prefix(lexer.Ident, parseIdentExpr)
	prefix(lexer.Int, parseIntLit)
	prefix(lexer.Float, parseFloatLit)
	prefix(lexer.True, parseBoolLit)
	prefix(lexer.False, parseBoolLit)
	prefix(lexer.This, parseThisExpr)
	prefix(lexer.LParen, parseGroupExpr)
	prefix(lexer.Minus, parseUnaryPrefix(ast.UnaryNeg))
	prefix(lexer.Bang, parseUnaryPrefix(ast.UnaryLNot))
	prefix(lexer.Tilde, parseUnaryPrefix(ast.UnaryNot))
	prefix(lexer.Star, parseUnaryPrefix(ast.UnaryDeref))
	prefix(lexer.Amp, parseAddrExpr)
	prefix(lexer.Mut, parseAddrExpr) // `mut &x`

	infixOp(lexer.OrOr, ast.OpOrOr, precLogicalOr)
	infixOp(lexer.AndAnd, ast.OpAndAnd, precLogicalAnd)
	infixOp(lexer.EqEq, ast.OpEq, precEquality)
	infixOp(lexer.NotEq, ast.OpNe, precEquality)
	infixOp(lexer.Lt, ast.OpLt, precRelational)
	infixOp(lexer.Gt, ast.OpGt, precRelational)
	infixOp(lexer.LtEq, ast.OpLe, precRelational)
	infixOp(lexer.GtEq, ast.OpGe, precRelational)
	infixOp(lexer.Pipe, ast.OpOr, precBitwiseOr)
	infixOp(lexer.Caret, ast.OpXor, precBitwiseXor)
	infixOp(lexer.Amp, ast.OpAnd, precBitwiseAnd)
	infixOp(lexer.Shl, ast.OpShl, precShift)
	infixOp(lexer.Shr, ast.OpShr, precShift)
	infixOp(lexer.Plus, ast.OpAdd, precAdditive)
	infixOp(lexer.Minus, ast.OpSub, precAdditive)
	infixOp(lexer.Star, ast.OpMul, precMultiplicative)
	infixOp(lexer.Slash, ast.OpDiv, precMultiplicative)
	infixOp(lexer.Percent, ast.OpMod, precMultiplicative)

	assignRule := func(tag lexer.Tag, op ast.BinaryOp) {
		r := t[tag]
		r.prec = precAssign
		r.infix = func(p *Parser, left ast.Expr) ast.Expr {
			return p.parseAssign(left, op)
		}
		t[tag] = r
	}
	assignRule(lexer.Assign, ast.OpInvalid)
	assignRule(lexer.PlusEq, ast.OpAdd)
	assignRule(lexer.MinusEq, ast.OpSub)
	assignRule(lexer.StarEq, ast.OpMul)
	assignRule(lexer.SlashEq, ast.OpDiv)
	assignRule(lexer.PercentEq, ast.OpMod)
	assignRule(lexer.AmpEq, ast.OpAnd)
	assignRule(lexer.PipeEq, ast.OpOr)
	assignRule(lexer.CaretEq, ast.OpXor)
	assignRule(lexer.ShlEq, ast.OpShl)
	assignRule(lexer.ShrEq, ast.OpShr)

	// Postfix call / index / field access are handled as infix parselets
	// with no table precedence: parseExpr special-cases them so they
	// always bind tighter than any binary operator, per §4.2's grammar
	// ("postfix forms bind tightest, left-to-right").
	postfix := func(tag lexer.Tag, fn infixParselet) {
		r := t[tag]
		r.infix = fn
		t[tag] = r
	}
	postfix(lexer.LParen, parseCallExpr)
	postfix(lexer.LBracket, parseIndexExpr)
	postfix(lexer.Dot, parseFieldExpr)

	p.exprTable = t
}

func isPostfixTag(tag lexer.Tag) bool {
	switch tag {
	case lexer.LParen, lexer.LBracket, lexer.Dot:
		return true
	}
	return false
}

// parseExpr is the core precedence-climbing loop (§4.4): it parses a
// prefix operand, then repeatedly consumes infix/postfix operators bound
// at least as tightly as minPrec.
func (p *Parser) parseExpr(minPrec precedence) ast.Expr {
	rule, ok := p.exprTable[p.tok.Tag]
	if !ok || rule.prefix == nil {
		p.errorf(p.tok.Loc, "unexpected token %s in expression", p.tok.Tag)
		p.advance()
		return &ast.IntLit{}
	}
	left := rule.prefix(p)
	// A unary minus widens only the literal that is its direct operand,
	// not a literal later in the same operand chain (-a * 128).
	p.negated = false

	for {
		if isPostfixTag(p.tok.Tag) {
			r := p.exprTable[p.tok.Tag]
			if r.infix == nil {
				break
			}
			left = r.infix(p, left)
			continue
		}
		r, ok := p.exprTable[p.tok.Tag]
		if !ok || r.infix == nil || r.prec < minPrec {
			break
		}
		left = r.infix(p, left)
	}
	return left
}

func (p *Parser) parseExprFull() ast.Expr { return p.parseExpr(precAssign) }

func (p *Parser) parseBinaryInfix(left ast.Expr, op ast.BinaryOp, prec precedence) ast.Expr {
	start := left.Pos().Start
	p.advance()                    // operator token
	right := p.parseExpr(prec + 1) // left-associative: bind right operand tighter
	e := &ast.BinaryExpr{Op: op, Left: left, Right: right}
	e.SetRange(p.rangeFrom(start))
	if left.Type() != nil {
		e.SetType(left.Type())
	}
	return e
}

// parseAssign parses `lhs = rhs` / `lhs Op= rhs`, right-associative, at
// the loosest (precAssign) level.
func (p *Parser) parseAssign(left ast.Expr, op ast.BinaryOp) ast.Expr {
	start := left.Pos().Start
	p.advance()
	right := p.parseExpr(precAssign)
	e := &ast.AssignExpr{Op: op, LHS: left, RHS: right}
	e.SetRange(p.rangeFrom(start))
	if left.Type() != nil {
		e.SetType(left.Type())
	}
	return e
}

func parseIdentExpr(p *Parser) ast.Expr {
	start := p.tok.Loc
	name := p.tok.Lexeme
	nameSym := p.tok.Name
	p.advance()

	e := &ast.IdentExpr{Name: name, Sym: nameSym}
	e.SetRange(p.rangeFrom(start))

	if decl, ok := p.scopes.Lookup(nameSym, scope.Unbounded); ok {
		if node, ok := decl.(ast.Node); ok {
			e.Decl = node
			bumpRefCount(node)
			if t := declaredType(node); t != nil {
				e.SetType(t)
			}
		}
	} else {
		p.errorf(start, "undefined name %q", name)
	}
	return e
}

func parseIntLit(p *Parser) ast.Expr {
	start := p.tok.Loc
	v := p.tok.IntVal
	neg := p.negated
	p.negated = false
	p.advance()
	e := &ast.IntLit{Value: v}
	e.SetRange(p.rangeFrom(start))
	e.SetType(p.fitIntLiteral(v, start, neg))
	return e
}

func parseFloatLit(p *Parser) ast.Expr {
	start := p.tok.Loc
	text := p.tok.FltText
	p.advance()
	e := &ast.FloatLit{Text: text}
	e.SetRange(p.rangeFrom(start))
	if ctx := p.currentTypeCtx(); ctx != nil && ctx.Kind == types.F32 {
		e.SetType(p.store.F32T)
	} else {
		e.SetType(p.store.F64T)
	}
	return e
}

func parseBoolLit(p *Parser) ast.Expr {
	start := p.tok.Loc
	v := p.tok.Tag == lexer.True
	p.advance()
	e := &ast.BoolLit{Value: v}
	e.SetRange(p.rangeFrom(start))
	e.SetType(p.store.Bool)
	return e
}

func parseThisExpr(p *Parser) ast.Expr {
	start := p.tok.Loc
	p.advance()
	e := &ast.ThisExpr{}
	e.SetRange(p.rangeFrom(start))
	if decl, ok := p.scopes.Lookup(p.interner.Intern("this"), scope.Unbounded); ok {
		if param, ok := decl.(*ast.Param); ok {
			e.SetType(param.Type)
		}
	} else {
		p.errorf(start, "'this' used outside a method")
	}
	return e
}

func parseGroupExpr(p *Parser) ast.Expr {
	p.advance() // (
	inner := p.parseExprFull()
	p.expect(lexer.RParen)
	return inner
}

func parseUnaryPrefix(op ast.UnaryOp) prefixParselet {
	return func(p *Parser) ast.Expr {
		start := p.tok.Loc
		p.advance()
		if op == ast.UnaryNeg {
			p.negated = true
		}
		operand := p.parseExpr(precMultiplicative)
		p.negated = false
		e := &ast.UnaryExpr{Op: op, Operand: operand}
		e.SetRange(p.rangeFrom(start))
		switch {
		case op == ast.UnaryDeref:
			// §4.5: "*p ... requires p.type to be a reference; otherwise
			// error." *T in type position builds a Pointer, but *p here
			// dereferences a Reference — the only expression operator that
			// produces one is &x.
			if t := operand.Type(); t != nil {
				if t.Kind == types.Reference {
					e.SetType(t.Elem)
				} else {
					p.errorf(start, "dereference of non-reference type %s", p.store.Describe(t))
				}
			}
		case operand.Type() != nil:
			e.SetType(operand.Type())
		}
		return e
	}
}

// isStorageForm reports whether e is one of the expression forms §4.5
// allows as the operand of `&x`: an identifier bound to storage (a var,
// parameter, local, or function), a member access, or a dereference.
// Anything else — a literal, a call result, a binary expression — is an
// ephemeral value with no address to take.
func isStorageForm(e ast.Expr) bool {
	switch v := e.(type) {
	case *ast.IdentExpr:
		switch v.Decl.(type) {
		case *ast.VarDecl, *ast.Param, *ast.FuncDecl:
			return true
		}
		return false
	case *ast.FieldExpr:
		return true
	case *ast.UnaryExpr:
		return v.Op == ast.UnaryDeref
	default:
		return false
	}
}

// isMutableStorage reports whether e, already known to be a storage form,
// resolves to a mutable binding per §4.5's "mut &x ... requires x to be
// mutable (var, parameter, or chain of mutable members)".
func isMutableStorage(e ast.Expr) bool {
	switch v := e.(type) {
	case *ast.IdentExpr:
		switch d := v.Decl.(type) {
		case *ast.VarDecl:
			return d.Mut
		case *ast.Param:
			return true
		}
		return false
	case *ast.FieldExpr:
		return isMutableStorage(v.Object)
	case *ast.UnaryExpr:
		if v.Op == ast.UnaryDeref {
			if t := v.Operand.Type(); t != nil && t.Kind == types.Reference {
				return t.Mutable
			}
		}
		return false
	default:
		return false
	}
}

// storageDescription names e the way §8's scenario 6 diagnostic does
// ("mutable reference to immutable let x"), falling back to the plain
// expression kind when e isn't a simple binding.
func storageDescription(e ast.Expr) string {
	switch v := e.(type) {
	case *ast.IdentExpr:
		if vd, ok := v.Decl.(*ast.VarDecl); ok {
			kw := "let"
			if vd.Mut {
				kw = "var"
			}
			return kw + " " + v.Name
		}
		if _, ok := v.Decl.(*ast.Param); ok {
			return "parameter " + v.Name
		}
		return v.Name
	case *ast.FieldExpr:
		return storageDescription(v.Object) + "." + v.FieldName
	default:
		return "expression"
	}
}

// parseAddrExpr parses `&x` (immutable reference) or `mut &x` (mutable
// reference), per §4.5's reference-expression rules: x must be in storage
// form, referencing an already-reference value is an error, and `mut &x`
// additionally requires x itself to be mutable (§7, §8 scenario 6).
func parseAddrExpr(p *Parser) ast.Expr {
	start := p.tok.Loc
	mut := false
	if p.at(lexer.Mut) {
		mut = true
		p.advance()
		p.expect(lexer.Amp)
	} else {
		p.advance() // &
	}
	operand := p.parseExpr(precMultiplicative)

	switch {
	case operand.Type() != nil && operand.Type().Kind == types.Reference:
		p.errorf(start, "cannot take a reference of a reference")
	case !isStorageForm(operand):
		p.errorf(start, "reference to ephemeral value")
	case mut && !isMutableStorage(operand):
		p.errorf(start, "mutable reference to immutable %s", storageDescription(operand))
	}

	op := ast.UnaryAddr
	if mut {
		op = ast.UnaryAddrMut
	}
	e := &ast.UnaryExpr{Op: op, Operand: operand}
	e.SetRange(p.rangeFrom(start))
	if operand.Type() != nil {
		e.SetType(types.NewReference(operand.Type(), mut))
	}
	return e
}

func parseCallExpr(p *Parser, callee ast.Expr) ast.Expr {
	start := callee.Pos().Start
	p.advance() // (
	var args []ast.Expr
	for !p.at(lexer.RParen) && !p.at(lexer.EOF) {
		args = append(args, p.parseExprFull())
		if !p.at(lexer.Comma) {
			break
		}
		p.advance()
	}
	p.expect(lexer.RParen)
	e := &ast.CallExpr{Callee: callee, Args: args}
	e.SetRange(p.rangeFrom(start))
	if ft := callee.Type(); ft != nil && ft.Kind == types.Function {
		e.SetType(ft.Result)
	}
	return e
}

func parseIndexExpr(p *Parser, target ast.Expr) ast.Expr {
	start := target.Pos().Start
	p.advance() // [
	idx := p.parseExprFull()
	p.expect(lexer.RBracket)
	e := &ast.IndexExpr{Target: target, Index: idx}
	e.SetRange(p.rangeFrom(start))
	if t := target.Type(); t != nil && (t.Kind == types.Slice || t.Kind == types.Array) {
		e.SetType(t.Elem)
	}
	return e
}

func parseFieldExpr(p *Parser, obj ast.Expr) ast.Expr {
	start := obj.Pos().Start
	p.advance() // .
	nameTok := p.expect(lexer.Ident)
	e := &ast.FieldExpr{Object: obj, FieldName: nameTok.Lexeme, Index: -1}
	e.SetRange(p.rangeFrom(start))

	structType := obj.Type()
	if structType != nil && (structType.Kind == types.Reference || structType.Kind == types.Pointer) {
		structType = structType.Elem
	}
	if structType != nil && structType.Kind == types.Struct {
		if idx := structType.LookupField(nameTok.Lexeme); idx >= 0 {
			e.Index = idx
			e.SetType(structType.Fields[idx].Type)
		} else if m, ok := structType.LookupMethod(nameTok.Lexeme); ok {
			e.Method = m
			e.SetType(m.Func)
		} else {
			p.errorf(nameTok.Loc, "type %s has no field or method %q", p.store.Describe(structType), nameTok.Lexeme)
		}
	}
	return e
}

// bumpRefCount increments the use counter on declarations that track one
// (§3: "user-defined type nodes with reference counter").
func bumpRefCount(n ast.Node) {
	switch d := n.(type) {
	case *ast.FuncDecl:
		d.RefCount++
	case *ast.StructDecl:
		d.RefCount++
	case *ast.TypeAliasDecl:
		d.RefCount++
	}
}

// declaredType extracts the value type of a resolved binding, so an
// IdentExpr can carry its type immediately without a second lookup pass.
func declaredType(n ast.Node) *types.Type {
	switch d := n.(type) {
	case *ast.VarDecl:
		return d.Type
	case *ast.Param:
		return d.Type
	case *ast.FuncDecl:
		return d.Decl
	}
	return nil
}
