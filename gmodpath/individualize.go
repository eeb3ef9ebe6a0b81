package gmodpath

import (
	"github.com/ronan-fesselier/vista-sdk-sub002/gmod"
	"github.com/ronan-fesselier/vista-sdk-sub002/internal/invariant"
	"github.com/ronan-fesselier/vista-sdk-sub002/location"
)

// IndividualizableSet names a contiguous run of path indices that together
// carry at most one location and may be individualized as a unit
// (spec.md §3 "Individualizable set").
type IndividualizableSet struct {
	Start, End int
	Location   *location.Location
	path       *Path
}

// Nodes returns the run's member nodes.
func (s IndividualizableSet) Nodes() []*gmod.Node {
	return s.path.nodes[s.Start : s.End+1]
}

// SetLocation installs loc on every node in the run and returns the
// resulting path.
func (s IndividualizableSet) SetLocation(loc location.Location) *Path {
	return s.path.withLocation(s.Start, s.End, loc)
}

// Clear removes any location from every node in the run.
func (s IndividualizableSet) Clear() *Path {
	return s.path.withoutLocationRange(s.Start, s.End)
}

// IndividualizableSets scans the path and returns every individualizable
// run, per the stateful visitor in spec.md §4.E.
func (p *Path) IndividualizableSets() []IndividualizableSet {
	var sets []IndividualizableSet
	lastIndex := len(p.nodes) - 1
	tracking := false
	currentParentStart := -1

	closeAt := func(i int) {
		start := currentParentStart + 1
		if set, ok := p.closeRun(start, i); ok {
			sets = append(sets, set)
		}
	}

	for i, n := range p.nodes {
		isTarget := i == lastIndex
		isParent := gmod.IsPotentialParent(n.Metadata().Type)

		if !tracking {
			if isParent {
				tracking = true
				currentParentStart = i
			}
			if n.IsIndividualizable(isTarget) {
				if set, ok := p.closeRun(i, i); ok {
					sets = append(sets, set)
				}
			}
			continue
		}

		if isParent || isTarget {
			closeAt(i)
			if isParent {
				currentParentStart = i
				tracking = true
			} else {
				tracking = false
			}
		}
	}

	return sets
}

// closeRun evaluates the run [start, end] and, if it qualifies as an
// individualizable set, returns it. A run qualifies when every located
// member shares one location, no individualizable member within the run is
// skipped relative to the others, and the run contains a leaf or the path
// target. A run that collapses to a single function-composition node is
// dropped.
func (p *Path) closeRun(start, end int) (IndividualizableSet, bool) {
	if start > end {
		return IndividualizableSet{}, false
	}

	lastIndex := len(p.nodes) - 1
	var loc *location.Location
	hasLeafOrTarget := false
	individualizableCount := 0
	individualizableWithLocation := 0

	for i := start; i <= end; i++ {
		n := p.nodes[i]
		isTarget := i == lastIndex

		if l, ok := n.Location(); ok {
			invariant.Invariant(loc == nil || loc.Equal(l),
				"individualizable set [%d,%d] carries conflicting locations", start, end)
			if loc == nil {
				cp := l
				loc = &cp
			}
			individualizableWithLocation++
		}
		if n.IsIndividualizable(isTarget) {
			individualizableCount++
		}
		if n.IsLeafNode() || isTarget {
			hasLeafOrTarget = true
		}
	}

	invariant.Invariant(individualizableWithLocation == 0 || individualizableWithLocation == individualizableCount || loc == nil,
		"individualizable set [%d,%d] skips an individualizable member's location", start, end)

	if !hasLeafOrTarget {
		return IndividualizableSet{}, false
	}
	if start == end && p.nodes[start].IsFunctionComposition() {
		return IndividualizableSet{}, false
	}

	return IndividualizableSet{Start: start, End: end, Location: loc, path: p}, true
}
