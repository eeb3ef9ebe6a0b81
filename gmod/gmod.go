package gmod

import (
	"log"
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/ronan-fesselier/vista-sdk-sub002/dto"
	"github.com/ronan-fesselier/vista-sdk-sub002/errs"
	"github.com/ronan-fesselier/vista-sdk-sub002/internal/chd"
	"github.com/ronan-fesselier/vista-sdk-sub002/internal/invariant"
	"github.com/ronan-fesselier/vista-sdk-sub002/visversion"
)

// Gmod is the Generic Product Model graph for one VIS version: every node
// reachable from the "VE" root, wired by the DTO's parent/child relation
// list (spec.md §4.C).
type Gmod struct {
	visVersion visversion.VisVersion
	nodes      *chd.Map[*Node]
	root       *Node
	codes      []string
}

// NewGmod builds a Gmod from a decoded GmodDto. A relation referencing a
// code absent from the DTO's item list is logged and skipped rather than
// aborting construction (spec.md §4.C step 2); construction fails only
// when the DTO lacks a "VE" root node.
func NewGmod(version visversion.VisVersion, d *dto.GmodDto) (*Gmod, error) {
	entries := make([]chd.Entry[*Node], 0, len(d.Items))
	for _, item := range d.Items {
		meta := NewNodeMetadata(
			item.Category, item.Type, item.Name,
			item.CommonName, item.Definition, item.CommonDefinition,
			item.InstallSubstructure, item.NormalAssignmentNames,
		)
		entries = append(entries, chd.Entry[*Node]{Key: item.Code, Value: NewNode(version, item.Code, meta)})
	}

	nodes := chd.Build(entries)

	for _, rel := range d.Relations {
		parent, ok := nodes.TryGetValue(rel[0])
		if !ok {
			log.Printf("gmod: skipping relation %q -> %q: unknown parent code %q", rel[0], rel[1], rel[0])
			continue
		}
		child, ok := nodes.TryGetValue(rel[1])
		if !ok {
			log.Printf("gmod: skipping relation %q -> %q: unknown child code %q", rel[0], rel[1], rel[1])
			continue
		}
		parent.addChild(child)
		child.addParent(parent)
	}

	root, ok := nodes.TryGetValue("VE")
	if !ok {
		return nil, errs.New(errs.InvalidArgument, "gmod resource has no root node %q", "VE")
	}

	codes := make([]string, 0, nodes.Size())
	for k := range nodes.All() {
		codes = append(codes, k)
	}
	sort.Strings(codes)

	return &Gmod{visVersion: version, nodes: nodes, root: root, codes: codes}, nil
}

func (g *Gmod) VisVersion() visversion.VisVersion { return g.visVersion }

// RootNode returns the "VE" root.
func (g *Gmod) RootNode() *Node { return g.root }

// TryGetNode looks up a node by code in O(1) via the perfect-hash table.
func (g *Gmod) TryGetNode(code string) (*Node, bool) {
	return g.nodes.TryGetValue(code)
}

// Lookup is the invariant-checked counterpart of TryGetNode, for callers
// that have already established the code must exist.
func (g *Gmod) Lookup(code string) *Node {
	n, ok := g.TryGetNode(code)
	invariant.Precondition(ok, "gmod: code %q not found", code)
	return n
}

// Size returns the number of nodes in the graph.
func (g *Gmod) Size() int { return g.nodes.Size() }

// All iterates every node in the graph, in code order.
func (g *Gmod) All() func(yield func(*Node) bool) {
	return func(yield func(*Node) bool) {
		for _, code := range g.codes {
			n, _ := g.TryGetNode(code)
			if !yield(n) {
				return
			}
		}
	}
}

// SuggestCode returns the graph's known codes ranked by fuzzy-match
// closeness to the given (possibly malformed) code, most likely first,
// capped at limit suggestions. Used by path parsers and the CLI to turn a
// typo'd code into an actionable error message.
func (g *Gmod) SuggestCode(code string, limit int) []string {
	ranks := fuzzy.RankFindFold(code, g.codes)
	sort.Sort(ranks)
	if limit > 0 && len(ranks) > limit {
		ranks = ranks[:limit]
	}
	out := make([]string, len(ranks))
	for i, r := range ranks {
		out[i] = r.Target
	}
	return out
}

// PathExistsBetween reports whether to is reachable from from by following
// child edges, and if so returns the intermediate path (exclusive of from,
// inclusive of to).
func (g *Gmod) PathExistsBetween(from, to *Node) ([]*Node, bool) {
	if from == nil || to == nil {
		return nil, false
	}
	var path []*Node
	var visit func(n *Node) bool
	seen := map[string]bool{}
	visit = func(n *Node) bool {
		if n.code == to.code {
			return true
		}
		if seen[n.code] {
			return false
		}
		seen[n.code] = true
		for _, c := range n.children {
			path = append(path, c)
			if visit(c) {
				return true
			}
			path = path[:len(path)-1]
		}
		return false
	}
	if visit(from) {
		return path, true
	}
	return nil, false
}
