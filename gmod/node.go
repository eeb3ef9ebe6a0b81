package gmod

import (
	"fmt"

	"github.com/ronan-fesselier/vista-sdk-sub002/location"
	"github.com/ronan-fesselier/vista-sdk-sub002/visversion"
)

// Node is a single GMOD vertex: a code, an optional location suffix, and
// the metadata describing it (spec.md §3 "GMOD node"). Two nodes are equal
// when their code and location agree, regardless of identity or parent/child
// wiring - this mirrors the source's GmodNode::operator==.
type Node struct {
	code       string
	loc        *location.Location
	visVersion visversion.VisVersion
	metadata   NodeMetadata
	children   []*Node
	parents    []*Node
	childSet   map[string]struct{}
}

// NewNode constructs a childless, parentless, unlocated node. The graph
// builder wires children/parents after every node exists.
func NewNode(version visversion.VisVersion, code string, metadata NodeMetadata) *Node {
	return &Node{
		code:       code,
		visVersion: version,
		metadata:   metadata,
		childSet:   map[string]struct{}{},
	}
}

func (n *Node) Code() string                    { return n.code }
func (n *Node) VisVersion() visversion.VisVersion { return n.visVersion }
func (n *Node) Metadata() NodeMetadata           { return n.metadata }
func (n *Node) Children() []*Node                { return n.children }
func (n *Node) Parents() []*Node                 { return n.parents }

// Location returns the node's location suffix and whether one is set.
func (n *Node) Location() (location.Location, bool) {
	if n.loc == nil {
		return location.Location{}, false
	}
	return *n.loc, true
}

func (n *Node) addChild(c *Node) {
	if _, ok := n.childSet[c.code]; ok {
		return
	}
	n.childSet[c.code] = struct{}{}
	n.children = append(n.children, c)
}

func (n *Node) addParent(p *Node) {
	n.parents = append(n.parents, p)
}

// WithoutLocation returns a copy of the node with any location suffix
// cleared, sharing the same children/parents slices (the graph wiring is
// immutable once built).
func (n *Node) WithoutLocation() *Node {
	if n.loc == nil {
		return n
	}
	clone := *n
	clone.loc = nil
	return &clone
}

// WithLocation returns a copy of the node carrying the given location.
// The node must be individualizable; callers that cannot guarantee this
// should use TryWithLocation instead.
func (n *Node) WithLocation(loc location.Location) *Node {
	clone := *n
	l := loc
	clone.loc = &l
	return &clone
}

// WithMetadata returns a copy of the node carrying the given metadata,
// used by the versioning engine to rewrite a node's normalAssignmentNames
// on AssignmentChange/AssignmentDelete (spec.md §4.G) without disturbing
// its code, location, or graph wiring.
func (n *Node) WithMetadata(metadata NodeMetadata) *Node {
	clone := *n
	clone.metadata = metadata
	return &clone
}

// WithLocationString parses s against locs and applies it via WithLocation.
func (n *Node) WithLocationString(s string, locs *location.Locations) (*Node, error) {
	loc, err := locs.Parse(s)
	if err != nil {
		return nil, err
	}
	return n.WithLocation(loc), nil
}

// TryWithLocationString is the non-throwing counterpart of
// WithLocationString: it reports ok=false instead of returning an error.
func (n *Node) TryWithLocationString(s string, locs *location.Locations) (*Node, bool) {
	loc, ok, _ := locs.TryParse(s)
	if !ok {
		return nil, false
	}
	return n.WithLocation(loc), true
}

// ProductType returns the single product-type child assigned under this
// node, if any (spec.md supplemented feature: product-type/product-selection
// accessors).
func (n *Node) ProductType() (*Node, bool) {
	if !IsFunctionNode(n.metadata) || len(n.children) != 1 {
		return nil, false
	}
	child := n.children[0]
	if IsProductTypeAssignment(n, child) {
		return child, true
	}
	return nil, false
}

// ProductSelection returns the single product-selection child assigned
// under this node, if any.
func (n *Node) ProductSelection() (*Node, bool) {
	if !IsFunctionNode(n.metadata) || len(n.children) != 1 {
		return nil, false
	}
	child := n.children[0]
	if IsProductSelectionAssignment(n, child) {
		return child, true
	}
	return nil, false
}

func (n *Node) IsLeafNode() bool            { return IsLeafNode(n.metadata) }
func (n *Node) IsFunctionNode() bool        { return IsFunctionNode(n.metadata) }
func (n *Node) IsFunctionComposition() bool { return IsFunctionComposition(n.metadata) }
func (n *Node) IsAssetFunctionNode() bool   { return IsAssetFunctionNode(n.metadata) }
func (n *Node) IsAsset() bool               { return IsAsset(n.metadata) }
func (n *Node) IsProductType() bool         { return IsProductType(n.metadata) }
func (n *Node) IsProductSelection() bool    { return IsProductSelection(n.metadata) }

// IsRoot reports whether the node is the VIS root, "VE".
func (n *Node) IsRoot() bool {
	return n.code == "VE"
}

// IsChild reports whether code names a direct child of n.
func (n *Node) IsChild(code string) bool {
	_, ok := n.childSet[code]
	return ok
}

// IsChildNode reports whether other is a direct child of n, by code.
func (n *Node) IsChildNode(other *Node) bool {
	if other == nil {
		return false
	}
	return n.IsChild(other.code)
}

// IsMappable reports whether the node can participate in a LocalId mapping.
// Product-type, product-selection, and intermediate function-composition
// nodes are purely structural and excluded; everything else - in particular
// leaf and selection nodes - is mappable.
func (n *Node) IsMappable() bool {
	if n.IsProductType() || n.IsProductSelection() {
		return false
	}
	if n.IsFunctionComposition() {
		return false
	}
	return true
}

// IsIndividualizable reports whether the node may carry a location suffix
// in the given context: isTargetNode is true when this node is the path's
// final node (spec.md §4.E).
func (n *Node) IsIndividualizable(isTargetNode bool) bool {
	switch {
	case n.metadata.Type == "GROUP":
		return false
	case n.IsProductType():
		return true
	case n.IsProductSelection():
		return true
	case n.IsLeafNode():
		return true
	default:
		return isTargetNode
	}
}

func (n *Node) Equal(other *Node) bool {
	if other == nil {
		return false
	}
	if n.code != other.code {
		return false
	}
	aLoc, aOK := n.Location()
	bLoc, bOK := other.Location()
	if aOK != bOK {
		return false
	}
	return !aOK || aLoc.Equal(bLoc)
}

func (n *Node) HashCode() uint64 {
	h := fnv1aStart
	for i := 0; i < len(n.code); i++ {
		h = (h ^ uint64(n.code[i])) * fnv1aPrime
	}
	if loc, ok := n.Location(); ok {
		s := loc.String()
		for i := 0; i < len(s); i++ {
			h = (h ^ uint64(s[i])) * fnv1aPrime
		}
	}
	return h
}

const (
	fnv1aStart = uint64(14695981039346656037)
	fnv1aPrime = uint64(1099511628211)
)

func (n *Node) String() string {
	if loc, ok := n.Location(); ok {
		return fmt.Sprintf("%s-%s", n.code, loc.String())
	}
	return n.code
}
