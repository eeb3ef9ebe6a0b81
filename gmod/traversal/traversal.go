// Package traversal implements the depth-first GMOD walk: a visitor
// protocol with occurrence budgeting, parameterized over caller state
// (spec.md §4.D "GMOD traversal").
//
// Grounded on _examples/original_source/cpp/include/dnv/vista/sdk/GmodTraversal.h.
package traversal

import (
	"github.com/ronan-fesselier/vista-sdk-sub002/gmod"
	"github.com/ronan-fesselier/vista-sdk-sub002/internal/invariant"
)

// Signal is a visitor's verdict for the node it was just handed.
type Signal int

const (
	// Continue visits the node's children normally.
	Continue Signal = iota
	// SkipSubtree visits no descendant of this node, but continues the
	// walk with the node's siblings.
	SkipSubtree
	// Stop ends the entire traversal immediately.
	Stop
)

// Options configures a traversal. The zero value is not valid; use
// DefaultOptions.
type Options struct {
	// MaxTraversalOccurrence bounds how many times a node's code may
	// appear on the parent stack before its subtree is skipped.
	MaxTraversalOccurrence int
}

// DefaultOptions matches spec.md §4.D's default of one occurrence.
func DefaultOptions() Options {
	return Options{MaxTraversalOccurrence: 1}
}

// Parents is the stack of ancestors above the node currently being
// visited, root-first. It is owned by a single traversal invocation and
// must not be retained past the visitor call that received it.
type Parents struct {
	stack []*gmod.Node
}

// Top returns the nearest ancestor, or nil at the root.
func (p *Parents) Top() *gmod.Node {
	if len(p.stack) == 0 {
		return nil
	}
	return p.stack[len(p.stack)-1]
}

// All returns the ancestor chain, root-first. Callers must not mutate it.
func (p *Parents) All() []*gmod.Node {
	return p.stack
}

// Occurrences counts how many ancestors (inclusive of none below) carry
// the given code.
func (p *Parents) Occurrences(code string) int {
	n := 0
	for _, a := range p.stack {
		if a.Code() == code {
			n++
		}
	}
	return n
}

// Visitor is invoked once per visited node with the caller's state, the
// ancestor stack, and the node itself.
type Visitor[S any] func(state S, parents *Parents, node *gmod.Node) Signal

// FromRoot walks g from its root node.
func FromRoot[S any](g *gmod.Gmod, state S, opts Options, visit Visitor[S]) Signal {
	return From(g.RootNode(), state, opts, visit)
}

// From walks starting at the given node, treating it as the traversal
// root (its ancestors, if any, are not visited or pushed).
func From[S any](start *gmod.Node, state S, opts Options, visit Visitor[S]) Signal {
	p := &Parents{}
	return walk(start, state, opts, visit, p)
}

func walk[S any](n *gmod.Node, state S, opts Options, visit Visitor[S], parents *Parents) Signal {
	if inst, ok := installSubstructure(n); ok && !inst {
		return Continue
	}

	signal := visit(state, parents, n)
	if signal == Stop || signal == SkipSubtree {
		return signal
	}

	skipOccurrence := gmod.IsProductSelectionAssignment(parents.Top(), n)
	if !skipOccurrence {
		occ := parents.Occurrences(n.Code())
		invariant.Invariant(occ <= opts.MaxTraversalOccurrence,
			"node %q occurred %d times, more than the %d allowed", n.Code(), occ, opts.MaxTraversalOccurrence)
		if occ == opts.MaxTraversalOccurrence {
			return SkipSubtree
		}
	}

	parents.stack = append(parents.stack, n)
	for _, child := range n.Children() {
		childSignal := walk(child, state, opts, visit, parents)
		if childSignal == Stop {
			parents.stack = parents.stack[:len(parents.stack)-1]
			return Stop
		}
	}
	parents.stack = parents.stack[:len(parents.stack)-1]

	return Continue
}

func installSubstructure(n *gmod.Node) (bool, bool) {
	flag := n.Metadata().InstallSubstructure
	if flag == nil {
		return false, false
	}
	return *flag, true
}

// StatelessVisitor is a Visitor that carries no caller state.
type StatelessVisitor func(parents *Parents, node *gmod.Node) Signal

// FromRootStateless wraps FromRoot for visitors with no state.
func FromRootStateless(g *gmod.Gmod, opts Options, visit StatelessVisitor) Signal {
	return FromRoot(g, struct{}{}, opts, func(_ struct{}, parents *Parents, node *gmod.Node) Signal {
		return visit(parents, node)
	})
}

// FromStateless wraps From for visitors with no state.
func FromStateless(start *gmod.Node, opts Options, visit StatelessVisitor) Signal {
	return From(start, struct{}{}, opts, func(_ struct{}, parents *Parents, node *gmod.Node) Signal {
		return visit(parents, node)
	})
}
