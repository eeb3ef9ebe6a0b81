package gmodpath

import (
	"github.com/ronan-fesselier/vista-sdk-sub002/errs"
	"github.com/ronan-fesselier/vista-sdk-sub002/gmod"
	"github.com/ronan-fesselier/vista-sdk-sub002/gmod/traversal"
)

// PathExistsBetween walks from the last asset-function ancestor of from (or
// the graph root if none), looking for to, and reports whether the visited
// absolute path - reconstructed by walking up unique-parent chains - has
// from as a prefix, returning the suffix from from to to exclusive of from
// (spec.md §4.D). It fails if an ancestor in the reconstructed chain has
// more than one parent, since the chain is then not uniquely determined
// (spec.md §9 open question).
func PathExistsBetween(g *gmod.Gmod, from *Path, to *gmod.Node) ([]*gmod.Node, bool, error) {
	start := g.RootNode()
	for i := len(from.nodes) - 1; i >= 0; i-- {
		if from.nodes[i].IsAssetFunctionNode() {
			start = from.nodes[i]
			break
		}
	}

	var found []*gmod.Node
	traversal.FromStateless(start, traversal.DefaultOptions(), func(parents *traversal.Parents, n *gmod.Node) traversal.Signal {
		if n.Equal(to) {
			found = append([]*gmod.Node{}, parents.All()...)
			found = append(found, n)
			return traversal.Stop
		}
		return traversal.Continue
	})

	if found == nil {
		return nil, false, nil
	}

	chain, err := reconstructChain(found[len(found)-1])
	if err != nil {
		return nil, false, err
	}

	prefixLen := len(from.nodes)
	if len(chain) < prefixLen {
		return nil, false, nil
	}
	for i := 0; i < prefixLen; i++ {
		if !chain[i].Equal(from.nodes[i]) {
			return nil, false, nil
		}
	}
	return chain[prefixLen:], true, nil
}

// reconstructChain walks up from end to the graph root by following each
// node's unique parent, then reverses the result so it reads root-first.
// It requires every node on the way to have exactly one parent, since with
// more than one the chain is ambiguous.
func reconstructChain(end *gmod.Node) ([]*gmod.Node, error) {
	var reversed []*gmod.Node
	n := end
	for {
		reversed = append(reversed, n)
		if n.IsRoot() {
			break
		}
		parents := n.Parents()
		if len(parents) != 1 {
			return nil, errs.New(errs.InvalidState, "node %q has %d parents, chain is ambiguous", n.Code(), len(parents))
		}
		n = parents[0]
	}
	chain := make([]*gmod.Node, len(reversed))
	for i, n := range reversed {
		chain[len(chain)-1-i] = n
	}
	return chain, nil
}
