// Package value defines golox's runtime value union (spec §3.4): Nil, Bool,
// Number, String, and shared references to functions, classes, and
// instances.
package value

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/cbarrett/golox/internal/ast"
)

// Value is any runtime value. It is implemented by the concrete types below;
// there is no closed interface method set, matching the teacher's approach
// of tagging values by Go concrete type rather than an explicit Kind()
// method, with the AsXxx/IsNil helpers below doing the narrowing.
type Value interface {
	String() string
}

// Nil is the language's null value. There is exactly one meaningful instance,
// NilValue, but the type exists so type-switches can distinguish it cleanly.
type Nil struct{}

func (Nil) String() string { return "nil" }

// NilValue is the canonical nil Value.
var NilValue Value = Nil{}

// Bool wraps a boolean.
type Bool bool

func (b Bool) String() string { return fmt.Sprintf("%t", bool(b)) }

// Number wraps an IEEE-754 double.
type Number float64

func (n Number) String() string { return fmt.Sprintf("%.10g", float64(n)) }

// String wraps a string value. Named String to match spec §3.4's variant
// name; Go's fmt.Stringer method is still String() string below, so callers
// write value.String("x").String() when they need the Go string back out
// (or use value.AsString for the common case).
type String string

func (s String) String() string { return string(s) }

// Environment is the narrow slice of *env.Env a runtime value needs: lookup
// and scope-tail definition. Declared here (not imported from internal/env)
// to avoid value<->env import cycles, since env.Env doesn't need to know
// about values beyond this interface, and Function/Class/Instance need an
// environment handle without the value package importing env.
type Environment interface {
	Define(name string, v Value) error
	Assign(name string, v Value) error
	Get(name string) (Value, error)
	Extend() Environment
	Create(parent Environment) Environment
	UpsertInScope(name string, v Value)
}

// Function is the immutable function/method blueprint shared by every
// closure created from the same `fun` or method declaration (spec §3.6).
type Function struct {
	Name   string
	Params []ast.Token
	Body   []ast.Stmt
	Native NativeFunc // non-nil for built-ins; Body is unused in that case
}

func (f *Function) Arity() int { return len(f.Params) }

// NativeFunc is a built-in implemented in Go (spec §6.3).
type NativeFunc func(args []Value) (Value, error)

// Closure pairs a Function with the environment it closed over, per spec
// §3.6. IsInitializer marks a class's `init` method. Superclass, set only
// for methods, is the superclass of the class that declared this method —
// it is what `super.method()` resolves against, independent of which
// instance the method is bound to.
type Closure struct {
	Name          string
	Fn            *Function
	Env           Environment
	IsInitializer bool
	Superclass    *Class
}

func (c *Closure) String() string { return fmt.Sprintf("<fn %s>", c.Name) }

// Bind returns a copy of c whose environment extends c.Env with `this` (and
// `super`, if c was declared on a class with a superclass) bound, so a call
// through the result sees the right receiver (spec §4.3.5).
func (c *Closure) Bind(this *Instance) *Closure {
	boundEnv := c.Env.Create(c.Env)
	boundEnv.Define("this", this)
	if c.Superclass != nil {
		boundEnv.Define("super", c.Superclass)
	}
	return &Closure{Name: c.Name, Fn: c.Fn, Env: boundEnv, IsInitializer: c.IsInitializer, Superclass: c.Superclass}
}

// Clone returns a shallow copy with a new name, used by Set when assigning a
// closure onto an instance field makes it behave like a method (spec
// §4.3.2).
func (c *Closure) Clone(newName string, isInit bool) *Closure {
	return &Closure{Name: newName, Fn: c.Fn, Env: c.Env, IsInitializer: isInit, Superclass: c.Superclass}
}

// Class is a class definition: its defining environment (holding its methods
// as *Closure values) and optional superclass (spec §3.6).
type Class struct {
	Name       string
	Env        Environment
	Superclass *Class
}

func (c *Class) String() string { return c.Name }

// Instance is a materialized object: its own environment (holding `this` and
// the object's fields, with the class's environment as parent so methods are
// found by lookup and bound on access) plus the class name kept for printing
// (spec §3.6).
type Instance struct {
	ClassName string
	Env       Environment
	ID        uuid.UUID
}

func NewInstance(className string, env Environment) *Instance {
	return &Instance{ClassName: className, Env: env, ID: uuid.New()}
}

func (i *Instance) String() string { return i.ClassName + " instance" }

// --------------------------- narrowing helpers ---------------------------

func AsNumber(v Value) (float64, bool) {
	n, ok := v.(Number)
	return float64(n), ok
}

func AsString(v Value) (string, bool) {
	s, ok := v.(String)
	return string(s), ok
}

func AsBool(v Value) (bool, bool) {
	b, ok := v.(Bool)
	return bool(b), ok
}

func IsNil(v Value) bool {
	_, ok := v.(Nil)
	return ok
}

func AsClosure(v Value) (*Closure, bool) {
	c, ok := v.(*Closure)
	return c, ok
}

func AsClass(v Value) (*Class, bool) {
	c, ok := v.(*Class)
	return c, ok
}

func AsInstance(v Value) (*Instance, bool) {
	i, ok := v.(*Instance)
	return i, ok
}

// Truthy implements spec §4.3.3: only nil and false are falsy.
func Truthy(v Value) bool {
	switch t := v.(type) {
	case Nil:
		return false
	case Bool:
		return bool(t)
	default:
		return true
	}
}

// Equal implements spec §4.3.3 structural/identity equality: different
// variants are always unequal; nil==nil is true; reference values compare
// by identity.
func Equal(a, b Value) bool {
	if IsNil(a) || IsNil(b) {
		return IsNil(a) && IsNil(b)
	}
	switch av := a.(type) {
	case Number:
		bv, ok := b.(Number)
		return ok && av == bv
	case String:
		bv, ok := b.(String)
		return ok && av == bv
	case Bool:
		bv, ok := b.(Bool)
		return ok && av == bv
	case *Closure:
		bv, ok := b.(*Closure)
		return ok && av == bv
	case *Class:
		bv, ok := b.(*Class)
		return ok && av == bv
	case *Instance:
		bv, ok := b.(*Instance)
		return ok && av == bv
	default:
		return false
	}
}
