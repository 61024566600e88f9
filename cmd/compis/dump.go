package main

import (
	"bufio"
	"fmt"
	"io"

	"github.com/hringjurfn/compis/internal/ast"
)

// astDumper renders a parsed ast.Unit as an S-expression-ish tree, one
// write call per node visited, grounded on the teacher's
// lang/yparse/output.go OutputWriter: a buffered writer plus an indent
// counter, with one recursive write method per node kind instead of a
// generic reflection-based dump.
type astDumper struct {
	w      *bufio.Writer
	indent int
}

func newAstDumper(w io.Writer) *astDumper {
	return &astDumper{w: bufio.NewWriter(w)}
}

func (d *astDumper) flush() { d.w.Flush() }

func (d *astDumper) line(format string, args ...any) {
	for i := 0; i < d.indent; i++ {
		d.w.WriteString("  ")
	}
	fmt.Fprintf(d.w, format, args...)
	d.w.WriteByte('\n')
}

func (d *astDumper) dumpUnit(u *ast.Unit, path string) {
	d.line("(unit %q", path)
	d.indent++
	for _, decl := range u.Decls {
		d.dumpDecl(decl)
	}
	d.indent--
	d.line(")")
}

func (d *astDumper) dumpDecl(decl ast.Decl) {
	switch v := decl.(type) {
	case *ast.FuncDecl:
		d.dumpFunc(v)
	case *ast.StructDecl:
		d.dumpStruct(v)
	case *ast.TypeAliasDecl:
		d.line("(type-alias %s)", v.Name)
	case *ast.VarDecl:
		d.dumpVar(v)
	default:
		d.line("(decl)")
	}
}

func (d *astDumper) dumpFunc(fd *ast.FuncDecl) {
	recv := ""
	if fd.Receiver != nil {
		recv = " (recv " + fd.Receiver.Name + ")"
	}
	d.line("(fun %s%s", fd.Name, recv)
	d.indent++
	for _, p := range fd.Params {
		d.line("(param %s)", p.Name)
	}
	if fd.Body != nil {
		d.dumpStmt(fd.Body)
	}
	d.indent--
	d.line(")")
}

func (d *astDumper) dumpStruct(sd *ast.StructDecl) {
	d.line("(struct %s", sd.Name)
	d.indent++
	for _, f := range sd.Fields {
		d.line("(field %s)", f.Name)
	}
	for _, m := range sd.Methods {
		d.dumpFunc(m)
	}
	d.indent--
	d.line(")")
}

func (d *astDumper) dumpVar(vd *ast.VarDecl) {
	kw := "let"
	if vd.Mut {
		kw = "var"
	}
	if vd.Init == nil {
		d.line("(%s %s)", kw, vd.Name)
		return
	}
	d.line("(%s %s", kw, vd.Name)
	d.indent++
	d.dumpExpr(vd.Init)
	d.indent--
	d.line(")")
}

func (d *astDumper) dumpStmt(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.Block:
		d.line("(block")
		d.indent++
		for _, inner := range s.Stmts {
			d.dumpStmt(inner)
		}
		d.indent--
		d.line(")")
	case *ast.ExprStmt:
		d.line("(expr-stmt")
		d.indent++
		d.dumpExpr(s.X)
		d.indent--
		d.line(")")
	case *ast.IfStmt:
		d.line("(if")
		d.indent++
		d.dumpExpr(s.Cond)
		d.dumpStmt(s.Then)
		if s.Else != nil {
			d.dumpStmt(s.Else)
		}
		d.indent--
		d.line(")")
	case *ast.ReturnStmt:
		if s.Value == nil {
			d.line("(return)")
			return
		}
		d.line("(return")
		d.indent++
		d.dumpExpr(s.Value)
		d.indent--
		d.line(")")
	case *ast.VarDecl:
		d.dumpVar(s)
	default:
		d.line("(stmt)")
	}
}

func (d *astDumper) dumpExpr(expr ast.Expr) {
	if expr == nil {
		d.line("(nil)")
		return
	}
	switch e := expr.(type) {
	case *ast.BinaryExpr:
		d.line("(binary %s", e.Op)
		d.indent++
		d.dumpExpr(e.Left)
		d.dumpExpr(e.Right)
		d.indent--
		d.line(")")
	case *ast.UnaryExpr:
		d.line("(unary %s", e.Op)
		d.indent++
		d.dumpExpr(e.Operand)
		d.indent--
		d.line(")")
	case *ast.AssignExpr:
		d.line("(assign")
		d.indent++
		d.dumpExpr(e.LHS)
		d.dumpExpr(e.RHS)
		d.indent--
		d.line(")")
	case *ast.CallExpr:
		d.line("(call")
		d.indent++
		d.dumpExpr(e.Callee)
		for _, a := range e.Args {
			d.dumpExpr(a)
		}
		d.indent--
		d.line(")")
	case *ast.FieldExpr:
		d.line("(field %s", e.FieldName)
		d.indent++
		d.dumpExpr(e.Object)
		d.indent--
		d.line(")")
	case *ast.IndexExpr:
		d.line("(index")
		d.indent++
		d.dumpExpr(e.Target)
		d.dumpExpr(e.Index)
		d.indent--
		d.line(")")
	case *ast.IdentExpr:
		d.line("(ident %s)", e.Name)
	case *ast.ThisExpr:
		d.line("(this)")
	case *ast.IntLit:
		d.line("(int %d)", e.Value)
	case *ast.FloatLit:
		d.line("(float %s)", e.Text)
	case *ast.BoolLit:
		d.line("(bool %t)", e.Value)
	default:
		d.line("(expr)")
	}
}
