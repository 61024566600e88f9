// Package parser implements the compiler's single-pass parser: a
// precedence-climbing (Pratt) expression parser backed by three
// token-tag-indexed parselet tables — statement, expression and type —
// that simultaneously build the AST and resolve names/types against a
// lexical scope stack (§4.4, §4.5 of the front-end spec).
//
// Grounded on gmofishsauce/wut4's lang/yparse/parser.go (the recursive
// per-construct parse functions, sync-token error recovery, duplicate
// top-level definition checking) and lang/yparse/symtab.go (scope/offset
// bookkeeping patterns, generalized here onto internal/scope's stack),
// with the expression-precedence ladder itself grounded on
// evanw/esbuild's ast.go iota precedence enum, since wut4's own parser
// is recursive-descent-by-precedence-level rather than a genuine
// token-indexed parselet table.
package parser

import (
	"fmt"

	"github.com/hringjurfn/compis/internal/ast"
	"github.com/hringjurfn/compis/internal/diag"
	"github.com/hringjurfn/compis/internal/lexer"
	"github.com/hringjurfn/compis/internal/scope"
	"github.com/hringjurfn/compis/internal/source"
	"github.com/hringjurfn/compis/internal/sym"
	"github.com/hringjurfn/compis/internal/types"
)

// Precedence levels for the expression parselet table, lowest first.
// Assignment binds loosest and is right-associative; postfix call/index/
// field access bind tightest and are folded directly into prefix parsing
// rather than occupying a table level.
type precedence int

const (
	precNone precedence = iota
	precAssign
	precLogicalOr
	precLogicalAnd
	precEquality
	precRelational
	precBitwiseOr
	precBitwiseXor
	precBitwiseAnd
	precShift
	precAdditive
	precMultiplicative
)

// prefixParselet parses a token appearing in prefix (operand-starting)
// position.
type prefixParselet func(p *Parser) ast.Expr

// infixParselet parses a token appearing after an already-parsed left
// operand.
type infixParselet func(p *Parser, left ast.Expr) ast.Expr

type exprRule struct {
	prefix prefixParselet
	infix  infixParselet
	prec   precedence
}

// typeParselet parses a token starting a type expression.
type typeParselet func(p *Parser) *types.Type

// stmtParselet parses a token starting a statement.
type stmtParselet func(p *Parser) ast.Stmt

// Parser holds all state for parsing one source.Input into an ast.Unit.
type Parser struct {
	sc       *lexer.Scanner
	file     source.Handle
	interner *sym.Table
	store    *types.Store
	sink     diag.Sink
	scopes   *scope.Stack

	tok  lexer.Token // current token
	next lexer.Token // one-token lookahead

	exprTable map[lexer.Tag]exprRule
	typeTable map[lexer.Tag]typeParselet
	stmtTable map[lexer.Tag]stmtParselet

	packageDefs map[sym.Symbol]ast.Node // top-level name -> declaring node, for duplicate checks

	typeCtx []*types.Type // stack of surrounding expected types, for literal fitting
	fatal   bool          // checked by ParseUnit's loop; no code path sets it, so parsing ends at EOF (which a force-terminated scanner returns)

	negated bool // set by a unary `-` just before parsing its operand, consumed by parseIntLit
}

// New creates a Parser over src, reporting diagnostics to sink and
// resolving/declaring names into store's type universe. packageDefs
// records top-level names already declared; pass the same map across
// every file of one package (as Compiler.ParseAll does) so a
// redefinition spanning files is still caught per §3, or nil to give
// this file its own.
func New(file source.Handle, src []byte, interner *sym.Table, store *types.Store, sink diag.Sink, packageDefs map[sym.Symbol]ast.Node) *Parser {
	if packageDefs == nil {
		packageDefs = make(map[sym.Symbol]ast.Node)
	}
	p := &Parser{
		sc:          lexer.New(file, src, interner, sink),
		file:        file,
		interner:    interner,
		store:       store,
		sink:        sink,
		scopes:      scope.New(),
		packageDefs: packageDefs,
	}
	p.installExprTable()
	p.installTypeTable()
	p.installStmtTable()
	p.advance()
	p.advance()
	return p
}

func (p *Parser) errorf(loc source.Loc, format string, args ...any) {
	if p.sink == nil {
		return
	}
	p.sink.Report(diag.Diagnostic{
		Range:    source.Point(loc),
		Severity: diag.Error,
		Message:  fmt.Sprintf(format, args...),
	})
}

// advance shifts the lookahead token into current position and pulls a
// fresh lookahead from the scanner.
func (p *Parser) advance() {
	p.tok = p.next
	p.next = p.sc.Next()
}

func (p *Parser) at(tag lexer.Tag) bool     { return p.tok.Tag == tag }
func (p *Parser) peekAt(tag lexer.Tag) bool { return p.next.Tag == tag }

// expect consumes the current token if it matches tag, else reports a
// diagnostic and enters sync-token recovery (§7: "fast-forward to sync
// token" policy).
func (p *Parser) expect(tag lexer.Tag) lexer.Token {
	if p.tok.Tag != tag {
		p.errorf(p.tok.Loc, "expected %s, found %s", tag, p.tok.Tag)
		p.syncTo(tag)
		if p.tok.Tag != tag {
			return p.tok
		}
	}
	t := p.tok
	p.advance()
	return t
}

// syncTo fast-forwards past tokens until tag, ImplicitSemi/Semi, or EOF
// is reached, so one malformed construct doesn't cascade into spurious
// follow-on errors.
func (p *Parser) syncTo(tag lexer.Tag) {
	for p.tok.Tag != tag && p.tok.Tag != lexer.EOF &&
		p.tok.Tag != lexer.Semi && p.tok.Tag != lexer.ImplicitSemi {
		p.advance()
	}
}

// consumeSemi accepts either an explicit `;` or an automatically
// inserted one, per §4.3/§8.
func (p *Parser) consumeSemi() {
	if p.at(lexer.Semi) || p.at(lexer.ImplicitSemi) {
		p.advance()
		return
	}
	p.errorf(p.tok.Loc, "expected ';', found %s", p.tok.Tag)
	p.syncTo(lexer.Semi)
	if p.at(lexer.Semi) || p.at(lexer.ImplicitSemi) {
		p.advance()
	}
}

func (p *Parser) loc() source.Loc { return p.tok.Loc }

func (p *Parser) rangeFrom(start source.Loc) source.Range {
	return source.Range{Start: start, Focus: start, End: p.tok.Loc}
}

func (p *Parser) pushTypeCtx(t *types.Type) { p.typeCtx = append(p.typeCtx, t) }
func (p *Parser) popTypeCtx()               { p.typeCtx = p.typeCtx[:len(p.typeCtx)-1] }
func (p *Parser) currentTypeCtx() *types.Type {
	if len(p.typeCtx) == 0 {
		return nil
	}
	return p.typeCtx[len(p.typeCtx)-1]
}

// ParseUnit parses one complete source file into an ast.Unit. Parsing
// continues past recoverable errors so a single file yields as complete
// a tree as possible for downstream diagnostics; callers check the
// diag.Sink for HasErrors rather than a returned error.
func (p *Parser) ParseUnit() *ast.Unit {
	start := p.loc()
	u := &ast.Unit{File: p.file}
	p.scopes.Push()
	p.scopes.MarkPackageScope()
	defer p.scopes.Pop()

	for !p.at(lexer.EOF) {
		// The scanner inserts a semicolon after a declaration's closing
		// `}` at end of line; it separates declarations.
		if p.at(lexer.Semi) || p.at(lexer.ImplicitSemi) {
			p.advance()
			continue
		}
		d := p.parseTopLevelDecl()
		if d != nil {
			u.Decls = append(u.Decls, d)
		}
		if p.fatal {
			break
		}
	}
	u.Range = p.rangeFrom(start)
	return u
}

func (p *Parser) parseTopLevelDecl() ast.Decl {
	switch p.tok.Tag {
	case lexer.Fun:
		return p.parseFuncDecl(nil)
	case lexer.Type:
		return p.parseTypeLevelDecl()
	case lexer.Let, lexer.Var:
		return p.parseTopLevelVar()
	default:
		p.errorf(p.tok.Loc, "expected a top-level declaration, found %s", p.tok.Tag)
		p.advance()
		return nil
	}
}

// defineTopLevel records name -> decl in the duplicate-definition map,
// reporting a redefinition diagnostic instead of overwriting an existing
// entry (§4.5: "top-level definition duplicate checking"). It does not
// touch the scope stack: callers that need the name resolvable in type or
// expression position define it there themselves, with whatever wrapper
// value that position expects (e.g. parseStructDecl's structDeclRef)
// before calling defineTopLevel, so a second raw-node Define here can't
// shadow it.
func (p *Parser) defineTopLevel(name string, nameSym sym.Symbol, loc source.Loc, node ast.Node) {
	if prior, ok := p.packageDefs[nameSym]; ok {
		p.errorf(loc, "redefinition of %q (previously declared at %v)", name, prior.Pos().Start)
		return
	}
	p.packageDefs[nameSym] = node
}
