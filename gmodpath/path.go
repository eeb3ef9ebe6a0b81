// Package gmodpath implements GmodPath: an immutable sequence of nodes from
// the GMOD root to a target node, individualization-set analysis, and the
// string forms the path parser (package pathparser) inverts (spec.md §4.E
// "GMOD path").
//
// Grounded on _examples/original_source/cpp/include/dnv/vista/sdk/GmodPath.h.
package gmodpath

import (
	"strings"

	"github.com/ronan-fesselier/vista-sdk-sub002/errs"
	"github.com/ronan-fesselier/vista-sdk-sub002/gmod"
	"github.com/ronan-fesselier/vista-sdk-sub002/location"
	"github.com/ronan-fesselier/vista-sdk-sub002/visversion"
)

// Path is an owned, immutable root-to-target node chain. It copies the
// nodes it is built from (spec.md §3: "the path owns no nodes; it carries
// owned copies, to permit per-path location overrides").
type Path struct {
	visVersion visversion.VisVersion
	nodes      []*gmod.Node
}

// New validates and builds a Path. nodes[0] must be the GMOD root and every
// consecutive pair must be parent->child in the graph.
func New(version visversion.VisVersion, nodes []*gmod.Node) (*Path, error) {
	if len(nodes) == 0 {
		return nil, errs.New(errs.InvalidArgument, "gmod path must contain at least one node")
	}
	if !nodes[0].IsRoot() {
		return nil, errs.New(errs.InvalidArgument, "gmod path must start at the root, got %q", nodes[0].Code())
	}
	for i := 0; i+1 < len(nodes); i++ {
		if !nodes[i].IsChildNode(nodes[i+1]) {
			return nil, errs.New(errs.InvalidArgument, "gmod path broken at index %d: %q is not a child of %q", i+1, nodes[i+1].Code(), nodes[i].Code())
		}
	}
	owned := make([]*gmod.Node, len(nodes))
	copy(owned, nodes)
	return &Path{visVersion: version, nodes: owned}, nil
}

func (p *Path) VisVersion() visversion.VisVersion { return p.visVersion }

// Length is parents + 1.
func (p *Path) Length() int { return len(p.nodes) }

// At reaches the i-th node; index 0 is the root.
func (p *Path) At(i int) *gmod.Node { return p.nodes[i] }

// Target returns the path's final node.
func (p *Path) Target() *gmod.Node { return p.nodes[len(p.nodes)-1] }

// Parents returns every node but the target, root-first.
func (p *Path) Parents() []*gmod.Node { return p.nodes[:len(p.nodes)-1] }

// All returns every node in the path, root-first, including the target.
func (p *Path) All() []*gmod.Node { return p.nodes }

// Equal compares paths pairwise by node equality.
func (p *Path) Equal(other *Path) bool {
	if other == nil || len(p.nodes) != len(other.nodes) {
		return false
	}
	for i := range p.nodes {
		if !p.nodes[i].Equal(other.nodes[i]) {
			return false
		}
	}
	return true
}

func segmentString(n *gmod.Node) string {
	if loc, ok := n.Location(); ok {
		return n.Code() + "-" + loc.String()
	}
	return n.Code()
}

// ToFullPathString emits the absolute chain from root, one segment per
// node, "/"-joined.
func (p *Path) ToFullPathString() string {
	parts := make([]string, len(p.nodes))
	for i, n := range p.nodes {
		parts[i] = segmentString(n)
	}
	return strings.Join(parts, "/")
}

// String emits the short form: one segment per leaf node or the target -
// since every node between two such anchors is uniquely determined by
// traversing the graph from the previous anchor, the short string names
// only the run's closing node.
func (p *Path) String() string {
	var parts []string
	last := len(p.nodes) - 1
	for i, n := range p.nodes {
		if i == last || n.IsLeafNode() {
			parts = append(parts, segmentString(n))
		}
	}
	return strings.Join(parts, "/")
}

// WithoutLocations returns a copy with every node's location cleared.
func (p *Path) WithoutLocations() *Path {
	nodes := make([]*gmod.Node, len(p.nodes))
	for i, n := range p.nodes {
		nodes[i] = n.WithoutLocation()
	}
	return &Path{visVersion: p.visVersion, nodes: nodes}
}

// IsMappable reports whether the path's target can participate in a
// LocalId mapping.
func (p *Path) IsMappable() bool {
	return p.Target().IsMappable()
}

// NormalAssignmentName returns the target node's normalAssignmentNames
// entry keyed by the deepest child code (relative to depth, walking from
// the target backward) that appears in that map.
func (p *Path) NormalAssignmentName(depth int) (string, bool) {
	if depth < 0 || depth >= len(p.nodes) {
		return "", false
	}
	names := p.Target().Metadata().NormalAssignmentNames
	if len(names) == 0 {
		return "", false
	}
	for i := len(p.nodes) - 1; i >= depth; i-- {
		if name, ok := names[p.nodes[i].Code()]; ok {
			return name, true
		}
	}
	return "", false
}

// CommonName is one entry returned by CommonNames.
type CommonName struct {
	Depth int
	Name  string
}

// CommonNames yields (depth, name) for every function leaf or the target
// that is itself a function node, preferring commonName, then
// metadata.name, then - if a deeper node is named in
// normalAssignmentNames - the assigned name.
func (p *Path) CommonNames() []CommonName {
	var out []CommonName
	last := len(p.nodes) - 1
	for i, n := range p.nodes {
		if !n.IsFunctionNode() {
			continue
		}
		if i != last && !n.IsLeafNode() {
			continue
		}
		name := n.Metadata().Name
		if n.Metadata().CommonName != nil {
			name = *n.Metadata().CommonName
		}
		if assigned, ok := p.NormalAssignmentName(i); ok {
			name = assigned
		}
		out = append(out, CommonName{Depth: i, Name: name})
	}
	return out
}

// WithLocation applies loc to every node in [start, end] (inclusive) and
// returns the resulting path. Used by IndividualizableSet.Build.
func (p *Path) withLocation(start, end int, loc location.Location) *Path {
	nodes := make([]*gmod.Node, len(p.nodes))
	copy(nodes, p.nodes)
	for i := start; i <= end; i++ {
		nodes[i] = nodes[i].WithLocation(loc)
	}
	return &Path{visVersion: p.visVersion, nodes: nodes}
}

func (p *Path) withoutLocationRange(start, end int) *Path {
	nodes := make([]*gmod.Node, len(p.nodes))
	copy(nodes, p.nodes)
	for i := start; i <= end; i++ {
		nodes[i] = nodes[i].WithoutLocation()
	}
	return &Path{visVersion: p.visVersion, nodes: nodes}
}
