// Package env implements the scope-partitioned environment chain described
// in spec §3.5/§4.2. Unlike a classic Lox/Crafting-Interpreters environment
// (one node per block, child points at parent), this design lets a single
// lexical scope span several chained nodes — Extend appends a node to the
// *same* scope rather than opening a new one — while Create opens a new
// scope boundary. Define only ever targets the tail node of the current
// scope, and fails if the name already exists anywhere in that scope's
// node-chain, even though the chain spans multiple *Env values.
package env

import (
	"fmt"

	"github.com/dolthub/swiss"

	"github.com/cbarrett/golox/internal/value"
)

// Env is one node in the chain. A lexical scope is the maximal run of nodes
// from an isScopeStart node through the isScopeEnd node reached by following
// parent pointers without crossing another isScopeStart.
type Env struct {
	parent       *Env
	isScopeStart bool
	isScopeEnd   bool
	values       *swiss.Map[string, value.Value]
}

var _ value.Environment = (*Env)(nil)

// NewGlobal returns the root environment: a scope of exactly one node.
func NewGlobal() *Env {
	return &Env{isScopeStart: true, isScopeEnd: true, values: swiss.NewMap[string, value.Value](8)}
}

// Create opens a brand new scope as a child of parent (spec §3.5: entering a
// block, function body, or class body).
func (e *Env) Create(parent value.Environment) value.Environment {
	p, _ := parent.(*Env)
	return &Env{parent: p, isScopeStart: true, isScopeEnd: true, values: swiss.NewMap[string, value.Value](8)}
}

// Extend appends a new tail node to the same scope e belongs to (spec §3.5:
// used after a `fun` or `class` declaration so that later sibling
// definitions land in the new tail, out of sight of the declaration's
// captured environment).
func (e *Env) Extend() value.Environment {
	e.isScopeEnd = false
	return &Env{parent: e, isScopeStart: false, isScopeEnd: true, values: swiss.NewMap[string, value.Value](8)}
}

// scopeNodes returns every node in e's scope, from e back to (and including)
// the isScopeStart node, without crossing into an enclosing scope.
func (e *Env) scopeNodes() []*Env {
	var nodes []*Env
	for n := e; n != nil; n = n.parent {
		nodes = append(nodes, n)
		if n.isScopeStart {
			break
		}
	}
	return nodes
}

// Define binds name in e's node, which must be the tail of its scope. It
// fails if name is already bound anywhere in the current scope's chain
// (spec §4.2: redeclaring a name in the same scope is an error; shadowing a
// name from an enclosing scope is not).
func (e *Env) Define(name string, v value.Value) error {
	if !e.isScopeEnd {
		return fmt.Errorf("internal error: Define called on non-tail environment node")
	}
	for _, n := range e.scopeNodes() {
		if _, ok := n.values.Get(name); ok {
			return fmt.Errorf("variable %q already declared in this scope", name)
		}
	}
	e.values.Put(name, v)
	return nil
}

// UpsertInScope binds name to v in e's tail node, overwriting any existing
// binding for name within the current scope's chain instead of failing
// (spec §3.5: used for instance field/method assignment via Set, where
// repeated assignment to the same field is expected).
func (e *Env) UpsertInScope(name string, v value.Value) {
	for _, n := range e.scopeNodes() {
		if _, ok := n.values.Get(name); ok {
			n.values.Put(name, v)
			return
		}
	}
	e.values.Put(name, v)
}

// Get resolves name by walking outward from e across scope boundaries,
// stopping at the first binding found.
func (e *Env) Get(name string) (value.Value, error) {
	for n := e; n != nil; n = n.parent {
		if v, ok := n.values.Get(name); ok {
			return v, nil
		}
	}
	return nil, fmt.Errorf("undefined variable %q", name)
}

// Assign rebinds an existing name, walking outward the same way Get does. It
// fails if name was never defined anywhere in the chain.
func (e *Env) Assign(name string, v value.Value) error {
	for n := e; n != nil; n = n.parent {
		if _, ok := n.values.Get(name); ok {
			n.values.Put(name, v)
			return nil
		}
	}
	return fmt.Errorf("undefined variable %q", name)
}
