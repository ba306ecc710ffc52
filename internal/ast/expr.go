// Package ast defines the two sum-typed trees produced by the parser: Expr
// and Stmt (spec §3.2/§3.3). Nodes are pure data — no evaluation logic lives
// here, so the interpreter (internal/interp) can own the visitor without
// this package depending back on runtime values.
package ast

import (
	"fmt"
	"strings"

	"github.com/cbarrett/golox/internal/token"
)

// Expr is implemented by every expression node. It carries no behavior; the
// interpreter type-switches over concrete node types (see internal/interp).
type Expr interface {
	exprNode()
	String() string
}

// Literal is a NUMBER, STRING, TRUE, FALSE, or NIL token folded into a leaf.
type Literal struct {
	Token token.Token
}

func (*Literal) exprNode() {}
func (l *Literal) String() string {
	if l.Token.Kind == token.NIL {
		return "nil"
	}
	return l.Token.Lexeme
}

// Variable references an identifier by name.
type Variable struct {
	Name token.Token
}

func (*Variable) exprNode() {}
func (v *Variable) String() string { return v.Name.Lexeme }

// Grouping is a parenthesized sub-expression.
type Grouping struct {
	Expr Expr
}

func (*Grouping) exprNode() {}
func (g *Grouping) String() string { return fmt.Sprintf("(group %s)", g.Expr) }

// Unary is `-x` or `!x`.
type Unary struct {
	Op    token.Token
	Right Expr
}

func (*Unary) exprNode() {}
func (u *Unary) String() string { return fmt.Sprintf("(%s%s)", u.Op.Lexeme, u.Right) }

// Binary is any left-op-right expression, including comparisons and equality.
type Binary struct {
	Left  Expr
	Op    token.Token
	Right Expr
}

func (*Binary) exprNode() {}
func (b *Binary) String() string { return fmt.Sprintf("(%s%s%s)", b.Left, b.Op.Lexeme, b.Right) }

// Assign is `name = value`.
type Assign struct {
	Name  token.Token
	Value Expr
}

func (*Assign) exprNode() {}
func (a *Assign) String() string { return fmt.Sprintf("(%s=%s)", a.Name.Lexeme, a.Value) }

// Call is `callee(args...)`.
type Call struct {
	Callee Expr
	Paren  token.Token // closing ')', kept for error-location reporting
	Args   []Expr
}

func (*Call) exprNode() {}
func (c *Call) String() string {
	parts := make([]string, len(c.Args))
	for i, a := range c.Args {
		parts[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", c.Callee, strings.Join(parts, ", "))
}

// Get is `object.name`.
type Get struct {
	Object Expr
	Name   token.Token
}

func (*Get) exprNode() {}
func (g *Get) String() string { return fmt.Sprintf("%s.%s", g.Object, g.Name.Lexeme) }

// Set is `object.name = value`.
type Set struct {
	Object Expr
	Name   token.Token
	Value  Expr
}

func (*Set) exprNode() {}
func (s *Set) String() string { return fmt.Sprintf("%s.%s=%s", s.Object, s.Name.Lexeme, s.Value) }
