// Package interp evaluates a parsed program (spec §4.3). It type-switches
// over the concrete ast.Expr/ast.Stmt nodes rather than using a classic
// Visitor/Accept double dispatch, keeping the ast package free of behavior.
package interp

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/cbarrett/golox/internal/ast"
	"github.com/cbarrett/golox/internal/env"
	"github.com/cbarrett/golox/internal/errs"
	"github.com/cbarrett/golox/internal/token"
	"github.com/cbarrett/golox/internal/value"
)

// Interpreter walks a program's statements against a chain of
// value.Environment scopes, writing `print` output to Out.
type Interpreter struct {
	Globals      value.Environment
	Out          io.Writer
	MaxCallDepth int
	depth        int
	start        time.Time
}

// New builds an Interpreter with the global scope pre-populated with the
// spec §6.3 built-ins.
func New(out io.Writer, maxCallDepth int) *Interpreter {
	globals := env.NewGlobal()
	it := &Interpreter{Globals: globals, Out: out, MaxCallDepth: maxCallDepth, start: time.Now()}
	it.defineNative("clock", 0, func(args []value.Value) (value.Value, error) {
		return value.Number(float64(time.Since(it.start).Milliseconds())), nil
	})
	it.defineNative("version", 0, func(args []value.Value) (value.Value, error) {
		return value.String("golox 0.1.0"), nil
	})
	return it
}

func (it *Interpreter) defineNative(name string, arity int, fn value.NativeFunc) {
	params := make([]token.Token, arity)
	closure := &value.Closure{Name: name, Fn: &value.Function{Name: name, Params: params, Native: fn}, Env: it.Globals}
	_ = it.Globals.Define(name, closure)
}

// RuntimeError is an error produced while executing a statement or
// evaluating an expression, carrying the source position of the token that
// triggered it so it can be folded into an errs.List with Stage=Interpret.
type RuntimeError struct {
	Tok token.Token
	Msg string
}

func (e *RuntimeError) Error() string { return e.Msg }

func newRuntimeErr(tok token.Token, format string, args ...any) error {
	return &RuntimeError{Tok: tok, Msg: fmt.Sprintf(format, args...)}
}

// Run executes stmts against it.Globals, halting at the first runtime error
// (spec §4.1: the interpreter stops after one error, unlike the scanner and
// parser which collect all of theirs).
func (it *Interpreter) Run(stmts []ast.Stmt) *errs.List {
	var list errs.List
	// Statements run one at a time so the scope tail a top-level `fun`/`class`
	// leaves behind becomes it.Globals, and later Run calls (REPL inputs)
	// define into and see that tail.
	cur := it.Globals
	var err error
	for _, s := range stmts {
		var f flow
		cur, f, err = it.exec(cur, s)
		if err != nil || f.isReturn {
			break
		}
	}
	it.Globals = cur
	if err != nil {
		if rerr, ok := err.(*RuntimeError); ok {
			list.Add(errs.Interpret, rerr.Tok.Line, rerr.Tok.Column, "%s", rerr.Msg)
		} else {
			list.Add(errs.Interpret, 0, 0, "%s", err.Error())
		}
	}
	return &list
}

// flow threads non-local control out of statement execution: a `return`
// sets isReturn and the value to propagate, unwinding through enclosing
// blocks, loops, and if-statements without using a panic.
type flow struct {
	isReturn bool
	value    value.Value
}

var noFlow = flow{}

// execBlockStmts runs stmts in sequence against e, threading forward
// whatever environment each statement leaves behind — a `fun`/`class`
// declaration returns a new scope-tail (spec §3.5/§4.3.1), so siblings
// declared after it execute against that tail while the declaration's own
// closure keeps pointing at the node from before the extend.
func (it *Interpreter) execBlockStmts(e value.Environment, stmts []ast.Stmt) (flow, error) {
	cur := e
	for _, s := range stmts {
		next, f, err := it.exec(cur, s)
		if err != nil {
			return noFlow, err
		}
		if f.isReturn {
			return f, nil
		}
		cur = next
	}
	return noFlow, nil
}

// exec runs one statement against e and returns the environment subsequent
// sibling statements in the same scope should use (almost always e itself;
// see the ast.Fun/ast.Class cases for the exception).
func (it *Interpreter) exec(e value.Environment, s ast.Stmt) (value.Environment, flow, error) {
	switch st := s.(type) {
	case *ast.Expression:
		_, err := it.eval(e, st.Expr)
		return e, noFlow, err

	case *ast.Print:
		v, err := it.eval(e, st.Expr)
		if err != nil {
			return e, noFlow, err
		}
		fmt.Fprintln(it.Out, v.String())
		return e, noFlow, nil

	case *ast.VarDecl:
		var v value.Value = value.NilValue
		if st.Init != nil {
			var err error
			v, err = it.eval(e, st.Init)
			if err != nil {
				return e, noFlow, err
			}
		}
		if err := e.Define(st.Name.Lexeme, v); err != nil {
			return e, noFlow, newRuntimeErr(st.Name, "%s", err.Error())
		}
		return e, noFlow, nil

	case *ast.Block:
		inner := e.Create(e)
		f, err := it.execBlockStmts(inner, st.Stmts)
		return e, f, err

	case *ast.If:
		cond, err := it.eval(e, st.Cond)
		if err != nil {
			return e, noFlow, err
		}
		if value.Truthy(cond) {
			_, f, err := it.exec(e, st.Then)
			return e, f, err
		}
		if st.Else != nil {
			_, f, err := it.exec(e, st.Else)
			return e, f, err
		}
		return e, noFlow, nil

	case *ast.While:
		for {
			cond, err := it.eval(e, st.Cond)
			if err != nil {
				return e, noFlow, err
			}
			if !value.Truthy(cond) {
				return e, noFlow, nil
			}
			_, f, err := it.exec(e, st.Body)
			if err != nil {
				return e, noFlow, err
			}
			if f.isReturn {
				return e, f, nil
			}
		}

	case *ast.For:
		loopEnv := e.Create(e)
		if st.Init != nil {
			var err error
			loopEnv, _, err = it.exec(loopEnv, st.Init)
			if err != nil {
				return e, noFlow, err
			}
		}
		for {
			if st.Cond != nil {
				cond, err := it.eval(loopEnv, st.Cond)
				if err != nil {
					return e, noFlow, err
				}
				if !value.Truthy(cond) {
					return e, noFlow, nil
				}
			}
			_, f, err := it.exec(loopEnv, st.Body)
			if err != nil {
				return e, noFlow, err
			}
			if f.isReturn {
				return e, f, nil
			}
			if st.Incr != nil {
				if _, err := it.eval(loopEnv, st.Incr); err != nil {
					return e, noFlow, err
				}
			}
		}

	case *ast.Fun:
		fn := &value.Function{Name: st.Name.Lexeme, Params: st.Params, Body: st.Body}
		closure := &value.Closure{Name: st.Name.Lexeme, Fn: fn, Env: e}
		if err := e.Define(st.Name.Lexeme, closure); err != nil {
			return e, noFlow, newRuntimeErr(st.Name, "%s", err.Error())
		}
		// Scope-partitioning (spec §3.5): a sibling declared after this
		// function must not become visible inside it, so later definitions
		// in this scope target a fresh tail rather than this node.
		return e.Extend(), noFlow, nil

	case *ast.Return:
		var v value.Value = value.NilValue
		if st.Value != nil {
			var err error
			v, err = it.eval(e, st.Value)
			if err != nil {
				return e, noFlow, err
			}
		}
		return e, flow{isReturn: true, value: v}, nil

	case *ast.Class:
		if err := it.execClass(e, st); err != nil {
			return e, noFlow, err
		}
		// Same scope-partitioning rule as ast.Fun: methods captured classEnv
		// as of this point, so later sibling definitions must not leak in.
		return e.Extend(), noFlow, nil

	default:
		return e, noFlow, fmt.Errorf("interp: unhandled statement %T", s)
	}
}

func (it *Interpreter) execClass(e value.Environment, c *ast.Class) error {
	var super *value.Class
	classParent := e
	if c.Superclass != nil {
		sv, err := e.Get(c.Superclass.Name.Lexeme)
		if err != nil {
			return newRuntimeErr(c.Superclass.Name, "%s", err.Error())
		}
		sc, ok := value.AsClass(sv)
		if !ok {
			return newRuntimeErr(c.Superclass.Name, "superclass %q is not a class", c.Superclass.Name.Lexeme)
		}
		super = sc
		classParent = sc.Env
	}

	classEnv := e.Create(classParent)
	class := &value.Class{Name: c.Name.Lexeme, Env: classEnv, Superclass: super}
	// A class's own name is pre-declared in its own scope so recursive
	// references inside method bodies (rare, but legal) resolve.
	if err := e.Define(c.Name.Lexeme, class); err != nil {
		return newRuntimeErr(c.Name, "%s", err.Error())
	}

	for _, m := range c.Methods {
		fn := &value.Function{Name: m.Name.Lexeme, Params: m.Params, Body: m.Body}
		closure := &value.Closure{
			Name:          m.Name.Lexeme,
			Fn:            fn,
			Env:           classEnv,
			IsInitializer: m.Name.Lexeme == "init",
			Superclass:    super,
		}
		if err := classEnv.Define(m.Name.Lexeme, closure); err != nil {
			return newRuntimeErr(m.Name, "%s", err.Error())
		}
	}
	return nil
}

func (it *Interpreter) eval(e value.Environment, expr ast.Expr) (value.Value, error) {
	switch ex := expr.(type) {
	case *ast.Literal:
		v, err := literalValue(ex.Token)
		if err != nil {
			return nil, newRuntimeErr(ex.Token, "%s", err.Error())
		}
		return v, nil

	case *ast.Variable:
		v, err := e.Get(ex.Name.Lexeme)
		if err != nil {
			return nil, newRuntimeErr(ex.Name, "%s", err.Error())
		}
		return v, nil

	case *ast.Grouping:
		return it.eval(e, ex.Expr)

	case *ast.Unary:
		return it.evalUnary(e, ex)

	case *ast.Binary:
		return it.evalBinary(e, ex)

	case *ast.Assign:
		v, err := it.eval(e, ex.Value)
		if err != nil {
			return nil, err
		}
		if err := e.Assign(ex.Name.Lexeme, v); err != nil {
			return nil, newRuntimeErr(ex.Name, "%s", err.Error())
		}
		return v, nil

	case *ast.Call:
		return it.evalCall(e, ex)

	case *ast.Get:
		return it.evalGet(e, ex)

	case *ast.Set:
		return it.evalSet(e, ex)

	default:
		return nil, fmt.Errorf("interp: unhandled expression %T", expr)
	}
}

func literalValue(tok token.Token) (value.Value, error) {
	switch tok.Kind {
	case token.NUMBER:
		f, err := strconv.ParseFloat(tok.Lexeme, 64)
		if err != nil {
			if ne, ok := err.(*strconv.NumError); ok {
				switch ne.Err {
				case strconv.ErrRange:
					return nil, fmt.Errorf("number too large")
				case strconv.ErrSyntax:
					return nil, fmt.Errorf("unable to read number")
				}
			}
			return nil, fmt.Errorf("unable to read number")
		}
		return value.Number(f), nil
	case token.STRING:
		return value.String(tok.Lexeme), nil
	case token.TRUE:
		return value.Bool(true), nil
	case token.FALSE:
		return value.Bool(false), nil
	default:
		return value.NilValue, nil
	}
}

func (it *Interpreter) evalUnary(e value.Environment, u *ast.Unary) (value.Value, error) {
	right, err := it.eval(e, u.Right)
	if err != nil {
		return nil, err
	}
	switch u.Op.Kind {
	case token.MINUS:
		n, ok := value.AsNumber(right)
		if !ok {
			return nil, newRuntimeErr(u.Op, "operand must be a number")
		}
		return value.Number(-n), nil
	case token.BANG:
		return value.Bool(!value.Truthy(right)), nil
	default:
		return nil, newRuntimeErr(u.Op, "unknown unary operator %q", u.Op.Lexeme)
	}
}

func (it *Interpreter) evalBinary(e value.Environment, b *ast.Binary) (value.Value, error) {
	left, err := it.eval(e, b.Left)
	if err != nil {
		return nil, err
	}
	right, err := it.eval(e, b.Right)
	if err != nil {
		return nil, err
	}

	switch b.Op.Kind {
	case token.EQUAL_EQUAL:
		return value.Bool(value.Equal(left, right)), nil
	case token.BANG_EQUAL:
		return value.Bool(!value.Equal(left, right)), nil
	case token.PLUS:
		if ln, lok := value.AsNumber(left); lok {
			if rn, rok := value.AsNumber(right); rok {
				return value.Number(ln + rn), nil
			}
		}
		if ls, lok := value.AsString(left); lok {
			if rs, rok := value.AsString(right); rok {
				return value.String(ls + rs), nil
			}
		}
		return nil, newRuntimeErr(b.Op, "operands must be two numbers or two strings")
	}

	ln, lok := value.AsNumber(left)
	rn, rok := value.AsNumber(right)
	if !lok || !rok {
		return nil, newRuntimeErr(b.Op, "operands must be numbers")
	}
	switch b.Op.Kind {
	case token.MINUS:
		return value.Number(ln - rn), nil
	case token.STAR:
		return value.Number(ln * rn), nil
	case token.SLASH:
		return value.Number(ln / rn), nil
	case token.GREATER:
		return value.Bool(ln > rn), nil
	case token.GREATER_EQUAL:
		return value.Bool(ln >= rn), nil
	case token.LESS:
		return value.Bool(ln < rn), nil
	case token.LESS_EQUAL:
		return value.Bool(ln <= rn), nil
	default:
		return nil, newRuntimeErr(b.Op, "unknown binary operator %q", b.Op.Lexeme)
	}
}

func (it *Interpreter) evalCall(e value.Environment, c *ast.Call) (value.Value, error) {
	callee, err := it.eval(e, c.Callee)
	if err != nil {
		return nil, err
	}
	args := make([]value.Value, len(c.Args))
	for i, a := range c.Args {
		v, err := it.eval(e, a)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}

	switch fn := callee.(type) {
	case *value.Closure:
		if fn.Fn.Arity() != len(args) {
			return nil, newRuntimeErr(c.Paren, "%s: expected %d arguments but got %d", fn.Name, fn.Fn.Arity(), len(args))
		}
		return it.callClosure(fn, args, c.Paren)
	case *value.Class:
		return it.instantiate(fn, args, c.Paren)
	default:
		return nil, newRuntimeErr(c.Paren, "can only call functions and classes")
	}
}

func (it *Interpreter) callClosure(closure *value.Closure, args []value.Value, at token.Token) (value.Value, error) {
	it.depth++
	defer func() { it.depth-- }()
	if it.MaxCallDepth > 0 && it.depth > it.MaxCallDepth {
		return nil, newRuntimeErr(at, "stack overflow")
	}

	if closure.Fn.Native != nil {
		return closure.Fn.Native(args)
	}

	bodyEnv := closure.Env.Create(closure.Env)
	for i, p := range closure.Fn.Params {
		if err := bodyEnv.Define(p.Lexeme, args[i]); err != nil {
			return nil, newRuntimeErr(p, "%s", err.Error())
		}
	}

	f, err := it.execBlockStmts(bodyEnv, closure.Fn.Body)
	if err != nil {
		return nil, err
	}

	if closure.IsInitializer {
		this, _ := closure.Env.Get("this")
		return this, nil
	}
	if f.isReturn {
		return f.value, nil
	}
	return value.NilValue, nil
}

func (it *Interpreter) instantiate(class *value.Class, args []value.Value, at token.Token) (value.Value, error) {
	instEnv := class.Env.Create(class.Env)
	inst := value.NewInstance(class.Name, instEnv)
	if err := instEnv.Define("this", inst); err != nil {
		return nil, newRuntimeErr(at, "%s", err.Error())
	}

	initVal, err := class.Env.Get("init")
	if err != nil {
		if len(args) != 0 {
			return nil, newRuntimeErr(at, "%s: expected 0 arguments but got %d", class.Name, len(args))
		}
		return inst, nil
	}
	initClosure, ok := value.AsClosure(initVal)
	if !ok {
		return inst, nil
	}
	bound := initClosure.Bind(inst)
	if bound.Fn.Arity() != len(args) {
		return nil, newRuntimeErr(at, "%s: expected %d arguments but got %d", bound.Name, bound.Fn.Arity(), len(args))
	}
	if _, err := it.callClosure(bound, args, at); err != nil {
		return nil, err
	}
	return inst, nil
}

func (it *Interpreter) evalGet(e value.Environment, g *ast.Get) (value.Value, error) {
	obj, err := it.eval(e, g.Object)
	if err != nil {
		return nil, err
	}
	switch o := obj.(type) {
	case *value.Instance:
		v, err := o.Env.Get(g.Name.Lexeme)
		if err != nil {
			return nil, newRuntimeErr(g.Name, "undefined property %q", g.Name.Lexeme)
		}
		if closure, ok := value.AsClosure(v); ok {
			return closure.Bind(o), nil
		}
		return v, nil

	case *value.Class:
		// Reached through `super.method` (super names the superclass) and by
		// any other property access on a class value: the method is
		// resolved unbound and rebound to the *calling* instance's `this`,
		// not the superclass.
		v, err := o.Env.Get(g.Name.Lexeme)
		if err != nil {
			return nil, newRuntimeErr(g.Name, "undefined property %q", g.Name.Lexeme)
		}
		closure, ok := value.AsClosure(v)
		if !ok {
			return nil, newRuntimeErr(g.Name, "%q is not a method", g.Name.Lexeme)
		}
		thisVal, err := e.Get("this")
		if err != nil {
			return nil, newRuntimeErr(g.Name, "'super' used outside a method")
		}
		this, _ := value.AsInstance(thisVal)
		return closure.Bind(this), nil

	default:
		return nil, newRuntimeErr(g.Name, "only instances have properties")
	}
}

func (it *Interpreter) evalSet(e value.Environment, s *ast.Set) (value.Value, error) {
	obj, err := it.eval(e, s.Object)
	if err != nil {
		return nil, err
	}
	inst, ok := value.AsInstance(obj)
	if !ok {
		return nil, newRuntimeErr(s.Name, "only instances have fields")
	}
	v, err := it.eval(e, s.Value)
	if err != nil {
		return nil, err
	}
	if closure, ok := value.AsClosure(v); ok {
		v = closure.Clone(s.Name.Lexeme, s.Name.Lexeme == "init")
	}
	inst.Env.UpsertInScope(s.Name.Lexeme, v)
	return v, nil
}
