// Package pathparser implements the two GMOD path parsing algorithms
// (spec.md §4.F "Path parser (short & full)"): the full-path parser, which
// verifies an absolute root-seeded chain, and the short-path parser, which
// discovers the full chain by traversal from a terse seed-plus-children
// input.
//
// Grounded on
// _examples/original_source/cpp/src/dnv/vista/sdk/GmodPath.cpp (the
// Parse/ParseFullPath static methods and the individualization coherence
// pass both share with gmodpath.IndividualizableSets).
package pathparser

import (
	"strings"

	"github.com/ronan-fesselier/vista-sdk-sub002/errs"
	"github.com/ronan-fesselier/vista-sdk-sub002/gmod"
	"github.com/ronan-fesselier/vista-sdk-sub002/gmodpath"
	"github.com/ronan-fesselier/vista-sdk-sub002/location"
	"github.com/ronan-fesselier/vista-sdk-sub002/parsingerrors"
)

// Parse-error stage tags used by this package's errs.ParseError values.
const (
	StageNodeLookup              = "NodeLookup"
	StageLocationParse           = "LocationParse"
	StageInvalidIndividualization = "InvalidIndividualization"
	StageFormatting               = "Formatting"
)

// pathNode is one parsed "code[-location]" segment, shared by both parsers.
type pathNode struct {
	code string
	loc  *location.Location
}

func splitSegment(s string) (code, loc string) {
	if i := strings.IndexByte(s, '-'); i >= 0 {
		return s[:i], s[i+1:]
	}
	return s, ""
}

func tokenize(locs *location.Locations, item string, trimLeadingSlash bool) ([]pathNode, error) {
	item = strings.TrimSpace(item)
	if trimLeadingSlash {
		item = strings.TrimPrefix(item, "/")
	}
	if item == "" {
		return nil, errs.NewParseError(StageFormatting, "path string is empty")
	}
	raw := strings.Split(item, "/")
	out := make([]pathNode, len(raw))
	for i, s := range raw {
		code, locStr := splitSegment(s)
		if code == "" {
			return nil, errs.NewParseError(StageFormatting, "empty node code in segment %q", s)
		}
		var loc *location.Location
		if locStr != "" {
			l, err := locs.Parse(locStr)
			if err != nil {
				return nil, errs.NewParseError(StageLocationParse, "invalid location %q on segment %q: %v", locStr, code, err)
			}
			loc = &l
		}
		out[i] = pathNode{code: code, loc: loc}
	}
	return out, nil
}

// ParseFullPath parses the absolute chain form "VE/.../target[-loc]"
// (spec.md §4.F "Full-path parser").
func ParseFullPath(g *gmod.Gmod, locs *location.Locations, item string) (*gmodpath.Path, error) {
	tokens, err := tokenize(locs, item, false)
	if err != nil {
		return nil, err
	}
	if tokens[0].code != g.RootNode().Code() {
		return nil, errs.NewParseError(StageFormatting, "full path must start with root code %q, got %q", g.RootNode().Code(), tokens[0].code)
	}

	nodes := make([]*gmod.Node, len(tokens))
	for i, t := range tokens {
		n, ok := g.TryGetNode(t.code)
		if !ok {
			return nil, errs.NewParseError(StageNodeLookup, "unknown node code %q", t.code)
		}
		if t.loc != nil {
			n = n.WithLocation(*t.loc)
		}
		nodes[i] = n
	}

	path, err := gmodpath.New(g.VisVersion(), nodes)
	if err != nil {
		return nil, errs.NewParseError(StageFormatting, "%v", err)
	}
	return applyIndividualization(path)
}

// TryParseFullPath is the tolerant counterpart of ParseFullPath.
func TryParseFullPath(g *gmod.Gmod, locs *location.Locations, item string) (*gmodpath.Path, bool, *parsingerrors.Errors) {
	p, err := ParseFullPath(g, locs, item)
	if err != nil {
		return nil, false, toParsingErrors(err)
	}
	return p, true, parsingerrors.Empty()
}

// ParsePath parses the terse, seeded-and-discovered short form (spec.md
// §4.F "Short-path parser").
func ParsePath(g *gmod.Gmod, locs *location.Locations, item string) (*gmodpath.Path, error) {
	if g.VisVersion() != locs.VisVersion() {
		return nil, errs.New(errs.InvalidArgument, "gmod vis version %s does not match locations vis version %s", g.VisVersion(), locs.VisVersion())
	}

	tokens, err := tokenize(locs, item, true)
	if err != nil {
		return nil, err
	}

	seed, ok := g.TryGetNode(tokens[0].code)
	if !ok {
		return nil, errs.NewParseError(StageNodeLookup, "unknown seed node code %q", tokens[0].code)
	}

	res, found := discoverTarget(seed, tokens)
	if !found {
		return nil, errs.New(errs.NotFound, "short path %q: no target reachable from seed %q", item, tokens[0].code)
	}

	ancestors, err := ancestorChain(seed)
	if err != nil {
		return nil, err
	}

	nodes := make([]*gmod.Node, 0, len(ancestors)+len(res.chain))
	nodes = append(nodes, ancestors...)
	nodes = append(nodes, res.chain...)

	offset := len(ancestors)
	for i, tok := range tokens {
		if tok.loc == nil {
			continue
		}
		pos := offset + res.matchIndex[i]
		nodes[pos] = nodes[pos].WithLocation(*tok.loc)
	}

	path, err := gmodpath.New(g.VisVersion(), nodes)
	if err != nil {
		return nil, errs.NewParseError(StageFormatting, "%v", err)
	}
	return applyIndividualization(path)
}

// TryParsePath is the tolerant counterpart of ParsePath.
func TryParsePath(g *gmod.Gmod, locs *location.Locations, item string) (*gmodpath.Path, bool, *parsingerrors.Errors) {
	p, err := ParsePath(g, locs, item)
	if err != nil {
		return nil, false, toParsingErrors(err)
	}
	return p, true, parsingerrors.Empty()
}

// shortPathResult is the outcome of discoverTarget: the node chain from
// seed to target inclusive, and for each input token the index within
// that chain where it matched.
type shortPathResult struct {
	chain      []*gmod.Node
	matchIndex []int
}

// discoverTarget walks from seed, advancing through tokens whenever the
// current node's code matches the next expected token, until every token
// has matched - at which point the current node is the target. A node
// that fails to match and is a leaf is a dead end (spec.md §4.F step 5,
// "on a leaf mismatch SkipSubtree"); any other non-matching node is
// descended into without advancing, since the short form names only the
// anchor codes and leaves intermediate nodes implicit.
func discoverTarget(seed *gmod.Node, tokens []pathNode) (*shortPathResult, bool) {
	var found *shortPathResult

	var visit func(n *gmod.Node, idx int, chain []*gmod.Node, matchIndex []int) bool
	visit = func(n *gmod.Node, idx int, chain []*gmod.Node, matchIndex []int) bool {
		newChain := make([]*gmod.Node, len(chain)+1)
		copy(newChain, chain)
		newChain[len(chain)] = n

		matched := idx < len(tokens) && n.Code() == tokens[idx].code
		nextIdx := idx
		newMatchIndex := matchIndex
		if matched {
			nextIdx = idx + 1
			newMatchIndex = make([]int, len(matchIndex)+1)
			copy(newMatchIndex, matchIndex)
			newMatchIndex[len(matchIndex)] = len(newChain) - 1
		}

		if nextIdx == len(tokens) {
			found = &shortPathResult{chain: newChain, matchIndex: newMatchIndex}
			return true
		}
		if !matched && n.IsLeafNode() {
			return false
		}
		for _, c := range n.Children() {
			if visit(c, nextIdx, newChain, newMatchIndex) {
				return true
			}
		}
		return false
	}

	if visit(seed, 0, nil, nil) {
		return found, true
	}
	return nil, false
}

// ancestorChain walks up from n to the graph root via unique parents,
// returning the root-first prefix excluding n itself. It fails if any
// ancestor on the way has more than one parent, since the chain is then
// not uniquely determined (spec.md §9 open question).
func ancestorChain(n *gmod.Node) ([]*gmod.Node, error) {
	var reversed []*gmod.Node
	cur := n
	for !cur.IsRoot() {
		parents := cur.Parents()
		if len(parents) != 1 {
			return nil, errs.New(errs.InvalidState, "node %q has %d parents, short path seed chain is ambiguous", cur.Code(), len(parents))
		}
		cur = parents[0]
		reversed = append(reversed, cur)
	}
	out := make([]*gmod.Node, len(reversed))
	for i, nd := range reversed {
		out[len(out)-1-i] = nd
	}
	return out, nil
}

// applyIndividualization runs the individualization visitor over path and
// propagates each set's resolved location across its members (spec.md
// §4.F step 4/7). A node carrying a location outside every emitted set
// fails with InvalidState (step 5, "coherence check").
func applyIndividualization(path *gmodpath.Path) (*gmodpath.Path, error) {
	sets := path.IndividualizableSets()

	all := path.All()
	nodes := make([]*gmod.Node, len(all))
	copy(nodes, all)
	covered := make([]bool, len(nodes))

	for _, s := range sets {
		for i := s.Start; i <= s.End; i++ {
			covered[i] = true
			if s.Location != nil {
				nodes[i] = nodes[i].WithLocation(*s.Location)
			} else {
				nodes[i] = nodes[i].WithoutLocation()
			}
		}
	}

	for i, n := range nodes {
		if covered[i] {
			continue
		}
		if _, has := n.Location(); has {
			return nil, errs.New(errs.InvalidState,
				"node %q at index %d carries a location outside any individualizable set", n.Code(), i)
		}
	}

	return gmodpath.New(path.VisVersion(), nodes)
}

func toParsingErrors(err error) *parsingerrors.Errors {
	if err == nil {
		return parsingerrors.Empty()
	}
	tag := "Invalid"
	if e, ok := err.(*errs.Error); ok {
		if e.Stage != "" {
			tag = e.Stage
		} else {
			tag = string(e.Kind)
		}
	}
	return parsingerrors.FromEntry(tag, err.Error())
}
