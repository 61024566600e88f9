// Package lexer implements the compiler's scanner: it streams one token
// at a time from a source buffer, with automatic semicolon insertion at
// end-of-line and numeric/UTF-8 literal handling, per §4.3 of the
// front-end spec.
//
// Grounded on gmofishsauce/wut4's lang/ylex/lexer.go (byte-at-a-time
// peek/advance cursor, comment skipping, base-prefixed numeric literals
// with `_` digit separators, escape handling) generalized from wut4's
// single-pass "emit a pipe-delimited token stream" design into an
// in-process Next()-per-call scanner the parser drives directly, per
// §5's "single-threaded cooperative" model (no separate lexer process).
package lexer

import (
	"sort"

	"github.com/hringjurfn/compis/internal/source"
	"github.com/hringjurfn/compis/internal/sym"
)

// Tag is the closed token-tag enumeration of §3's data model.
type Tag int

const (
	EOF Tag = iota
	Ident
	Int
	Float
	ImplicitSemi

	// Keywords
	kwBegin
	Fun
	Type
	Struct
	Let
	Var
	If
	Else
	Return
	Mut
	This
	True
	False
	kwEnd

	// Punctuation / operators
	LParen
	RParen
	LBrace
	RBrace
	LBracket
	RBracket
	Comma
	Dot
	Colon
	Semi
	Question

	Assign
	Plus
	Minus
	Star
	Slash
	Percent
	Amp
	Pipe
	Caret
	Tilde
	Bang
	Lt
	Gt
	Shl
	Shr

	PlusEq
	MinusEq
	StarEq
	SlashEq
	PercentEq
	AmpEq
	PipeEq
	CaretEq
	ShlEq
	ShrEq

	EqEq
	NotEq
	LtEq
	GtEq
	AndAnd
	OrOr
	Arrow
)

var tagNames = map[Tag]string{
	EOF: "EOF", Ident: "identifier", Int: "int-literal", Float: "float-literal",
	ImplicitSemi: ";", Fun: "fun", Type: "type", Struct: "struct", Let: "let", Var: "var",
	If: "if", Else: "else", Return: "return", Mut: "mut", This: "this",
	True: "true", False: "false",
	LParen: "(", RParen: ")", LBrace: "{", RBrace: "}",
	LBracket: "[", RBracket: "]", Comma: ",", Dot: ".", Colon: ":", Semi: ";",
	Question: "?", Assign: "=", Plus: "+", Minus: "-", Star: "*", Slash: "/",
	Percent: "%", Amp: "&", Pipe: "|", Caret: "^", Tilde: "~", Bang: "!",
	Lt: "<", Gt: ">", Shl: "<<", Shr: ">>",
	PlusEq: "+=", MinusEq: "-=", StarEq: "*=", SlashEq: "/=", PercentEq: "%=",
	AmpEq: "&=", PipeEq: "|=", CaretEq: "^=", ShlEq: "<<=", ShrEq: ">>=",
	EqEq: "==", NotEq: "!=", LtEq: "<=", GtEq: ">=", AndAnd: "&&", OrOr: "||",
	Arrow: "->",
}

func (t Tag) String() string {
	if n, ok := tagNames[t]; ok {
		return n
	}
	return "?"
}

func (t Tag) IsKeyword() bool { return t > kwBegin && t < kwEnd }

// keywords is kept sorted by spelling so the scanner can resolve a
// candidate identifier via binary search, per §4.3: "keywords (resolved
// by binary search over a sorted table after scanning an identifier)".
var keywords = []struct {
	spelling string
	tag      Tag
}{
	{"else", Else},
	{"false", False},
	{"fun", Fun},
	{"if", If},
	{"let", Let},
	{"mut", Mut},
	{"return", Return},
	{"struct", Struct},
	{"this", This},
	{"true", True},
	{"type", Type},
	{"var", Var},
}

// Keywords returns every reserved spelling, for callers (the compiler's
// setup path) that need to pre-reserve their symbol handles via
// sym.Table.ReserveKeywords before any source is scanned.
func Keywords() []string {
	out := make([]string, len(keywords))
	for i, kw := range keywords {
		out[i] = kw.spelling
	}
	return out
}

func lookupKeyword(s string) (Tag, bool) {
	i := sort.Search(len(keywords), func(i int) bool { return keywords[i].spelling >= s })
	if i < len(keywords) && keywords[i].spelling == s {
		return keywords[i].tag, true
	}
	return 0, false
}

// armsSemi is the set of tokens that arm automatic semicolon insertion:
// closing brackets, identifiers, literals, and this language's
// statement-terminating keywords (per §4.3).
func armsSemi(t Tag) bool {
	switch t {
	case RParen, RBrace, RBracket, Ident, Int, Float, Return, True, False, This:
		return true
	}
	return false
}

// Token is one lexical token: a tag and a source location, plus the
// scanner-exposed payload for the current token (§3's "the scanner also
// exposes, for the current token, the raw lexeme slice, an integer value
// ..., a floating-point lexeme buffer ..., and a resolved symbol").
type Token struct {
	Tag     Tag
	Loc     source.Loc
	Lexeme  string
	IntVal  uint64
	FltText string
	Name    sym.Symbol
}
