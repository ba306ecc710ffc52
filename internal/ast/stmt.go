package ast

import (
	"fmt"
	"strings"

	"github.com/cbarrett/golox/internal/token"
)

// Stmt is implemented by every statement node.
type Stmt interface {
	stmtNode()
	String() string
}

// Expression evaluates an expression for its side effects, discarding the
// value.
type Expression struct {
	Expr Expr
}

func (*Expression) stmtNode() {}
func (e *Expression) String() string { return e.Expr.String() + ";" }

// Print evaluates an expression and writes its string form followed by a
// newline.
type Print struct {
	Expr Expr
}

func (*Print) stmtNode() {}
func (p *Print) String() string { return "print " + p.Expr.String() + ";" }

// VarDecl declares a name in the current scope, optionally with an
// initializer; an absent initializer evaluates to nil.
type VarDecl struct {
	Name Token
	Init Expr // nil if absent
}

func (*VarDecl) stmtNode() {}
func (v *VarDecl) String() string {
	if v.Init == nil {
		return fmt.Sprintf("var %s;", v.Name.Lexeme)
	}
	return fmt.Sprintf("var %s = %s;", v.Name.Lexeme, v.Init)
}

// Token is a thin alias so ast package callers don't need to import the token
// package directly for the handful of fields that keep the original token
// (used for error-position reporting).
type Token = token.Token

// Block is a brace-delimited sequence of statements opening its own scope.
type Block struct {
	Stmts []Stmt
}

func (*Block) stmtNode() {}
func (b *Block) String() string {
	var sb strings.Builder
	sb.WriteString("{\n")
	for _, s := range b.Stmts {
		sb.WriteString("  " + s.String() + "\n")
	}
	sb.WriteString("}")
	return sb.String()
}

// If is `if (cond) then [else else]`.
type If struct {
	Cond Expr
	Then Stmt
	Else Stmt // nil if absent
}

func (*If) stmtNode() {}
func (i *If) String() string {
	s := fmt.Sprintf("if (%s) %s", i.Cond, i.Then)
	if i.Else != nil {
		s += " else " + i.Else.String()
	}
	return s
}

// While is `while (cond) body`.
type While struct {
	Cond Expr
	Body Stmt
}

func (*While) stmtNode() {}
func (w *While) String() string { return fmt.Sprintf("while (%s) %s", w.Cond, w.Body) }

// For is `for (init; cond; incr) body`, kept as its own node (rather than
// desugared to While at parse time) so the AST mirrors spec §3.3 exactly.
type For struct {
	Init Stmt // nil if absent
	Cond Expr // nil if absent (means "always true")
	Incr Expr // nil if absent
	Body Stmt
}

func (*For) stmtNode() {}
func (f *For) String() string {
	init, cond, incr := "", "", ""
	if f.Init != nil {
		init = f.Init.String()
	}
	if f.Cond != nil {
		cond = f.Cond.String()
	}
	if f.Incr != nil {
		incr = f.Incr.String()
	}
	return fmt.Sprintf("for (%s %s; %s) %s", init, cond, incr, f.Body)
}

// Fun declares a named function (IsMethod=false) or a class method
// (IsMethod=true). A class method named "init" is the initializer (spec
// §3.6/§4.3.1).
type Fun struct {
	Name     Token
	Params   []Token
	Body     []Stmt
	IsMethod bool
}

func (*Fun) stmtNode() {}
func (f *Fun) String() string {
	names := make([]string, len(f.Params))
	for i, p := range f.Params {
		names[i] = p.Lexeme
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("fun %s(%s) {\n", f.Name.Lexeme, strings.Join(names, ", ")))
	for _, s := range f.Body {
		sb.WriteString("  " + s.String() + "\n")
	}
	sb.WriteString("}")
	return sb.String()
}

// Return optionally carries a value; an absent expression means a bare
// `return;`, which evaluates to nil (spec §4.3.1).
type Return struct {
	Keyword Token
	Value   Expr // nil if absent
}

func (*Return) stmtNode() {}
func (r *Return) String() string {
	if r.Value == nil {
		return "return;"
	}
	return fmt.Sprintf("return %s;", r.Value)
}

// Class declares a class, its optional single superclass, and its methods
// (each a *Fun with IsMethod=true).
type Class struct {
	Name       Token
	Superclass *Variable // nil if absent
	Methods    []*Fun
}

func (*Class) stmtNode() {}
func (c *Class) String() string {
	var sb strings.Builder
	sb.WriteString("class " + c.Name.Lexeme)
	if c.Superclass != nil {
		sb.WriteString(" < " + c.Superclass.Name.Lexeme)
	}
	sb.WriteString(" {\n")
	for _, m := range c.Methods {
		sb.WriteString("  " + m.String() + "\n")
	}
	sb.WriteString("}")
	return sb.String()
}
