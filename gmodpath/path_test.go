package gmodpath_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ronan-fesselier/vista-sdk-sub002/dto"
	"github.com/ronan-fesselier/vista-sdk-sub002/gmod"
	"github.com/ronan-fesselier/vista-sdk-sub002/gmodpath"
	"github.com/ronan-fesselier/vista-sdk-sub002/location"
	"github.com/ronan-fesselier/vista-sdk-sub002/visversion"
)

func buildTestGraph(t *testing.T) *gmod.Gmod {
	t.Helper()
	d := &dto.GmodDto{
		VisRelease: "3-4a",
		Items: []dto.GmodNodeItem{
			{Category: "ASSET", Code: "VE", Name: "Vessel"},
			{Category: "ASSET FUNCTION", Type: "COMPOSITION", Code: "400a", Name: "Propulsion"},
			{Category: "ASSET FUNCTION", Type: "LEAF", Code: "411", Name: "Engine"},
			{Category: "PRODUCT", Type: "TYPE", Code: "411.1", Name: "Diesel engine"},
		},
		Relations: []dto.GmodRelation{
			{"VE", "400a"},
			{"400a", "411"},
			{"411", "411.1"},
		},
	}
	g, err := gmod.NewGmod(visversion.V3_4a, d)
	require.NoError(t, err)
	return g
}

func buildTestLocations(t *testing.T) *location.Locations {
	t.Helper()
	l, err := location.NewLocations(visversion.V3_4a, &dto.LocationsDto{
		VisRelease: "3-4a",
		Items:      []dto.LocationItem{{Code: "F", Name: "Forward"}},
	})
	require.NoError(t, err)
	return l
}

func buildTestPath(t *testing.T) *gmodpath.Path {
	t.Helper()
	g := buildTestGraph(t)
	nodes := []*gmod.Node{g.RootNode(), g.Lookup("400a"), g.Lookup("411"), g.Lookup("411.1")}
	p, err := gmodpath.New(visversion.V3_4a, nodes)
	require.NoError(t, err)
	return p
}

func TestNewRejectsNonRootStart(t *testing.T) {
	g := buildTestGraph(t)
	_, err := gmodpath.New(visversion.V3_4a, []*gmod.Node{g.Lookup("400a")})
	require.Error(t, err)
}

func TestNewRejectsBrokenChain(t *testing.T) {
	g := buildTestGraph(t)
	_, err := gmodpath.New(visversion.V3_4a, []*gmod.Node{g.RootNode(), g.Lookup("411")})
	require.Error(t, err)
}

func TestToFullPathString(t *testing.T) {
	p := buildTestPath(t)
	assert.Equal(t, "VE/400a/411/411.1", p.ToFullPathString())
}

func TestWithoutLocations(t *testing.T) {
	g := buildTestGraph(t)
	locs := buildTestLocations(t)
	loc, err := locs.Parse("F")
	require.NoError(t, err)

	leaf, err := g.Lookup("411").WithLocationString("F", locs)
	require.NoError(t, err)
	nodes := []*gmod.Node{g.RootNode(), g.Lookup("400a"), leaf, g.Lookup("411.1")}
	p, err := gmodpath.New(visversion.V3_4a, nodes)
	require.NoError(t, err)

	stripped := p.WithoutLocations()
	for _, n := range stripped.All() {
		_, ok := n.Location()
		assert.False(t, ok)
	}
	withLoc, ok := p.At(2).Location()
	require.True(t, ok)
	assert.True(t, withLoc.Equal(loc))
}

func TestIndividualizableSetsFindsLeafRun(t *testing.T) {
	p := buildTestPath(t)
	sets := p.IndividualizableSets()
	require.NotEmpty(t, sets)
	last := sets[len(sets)-1]
	assert.Equal(t, p.Length()-1, last.End)
}

func TestStringSkipsSelectionAndGroupNodes(t *testing.T) {
	d := &dto.GmodDto{
		VisRelease: "3-4a",
		Items: []dto.GmodNodeItem{
			{Category: "ASSET", Code: "VE", Name: "Vessel"},
			{Category: "ASSET FUNCTION", Type: "COMPOSITION", Code: "400a", Name: "Propulsion"},
			{Category: "ASSET FUNCTION", Type: "LEAF", Code: "411", Name: "Engine"},
			{Category: "PRODUCT", Type: "SELECTION", Code: "CS1", Name: "Cooling system selection"},
			{Category: "PRODUCT", Type: "TYPE", Code: "C101", Name: "Cooler"},
			{Category: "ASSET FUNCTION", Type: "LEAF", Code: "I101", Name: "Instrument"},
		},
		Relations: []dto.GmodRelation{
			{"VE", "400a"},
			{"400a", "411"},
			{"411", "CS1"},
			{"CS1", "C101"},
			{"C101", "I101"},
		},
	}
	g, err := gmod.NewGmod(visversion.V3_4a, d)
	require.NoError(t, err)

	nodes := []*gmod.Node{g.RootNode(), g.Lookup("400a"), g.Lookup("411"), g.Lookup("CS1"), g.Lookup("C101"), g.Lookup("I101")}
	p, err := gmodpath.New(visversion.V3_4a, nodes)
	require.NoError(t, err)

	// CS1 (PRODUCT SELECTION) and C101 (PRODUCT TYPE) are neither leaves
	// nor the target, so String() must not emit them - only the leaf 411
	// and the target I101.
	assert.Equal(t, "411/I101", p.String())
}

func TestCommonNamesExcludesNonFunctionTarget(t *testing.T) {
	d := &dto.GmodDto{
		VisRelease: "3-4a",
		Items: []dto.GmodNodeItem{
			{Category: "ASSET", Code: "VE", Name: "Vessel"},
			{Category: "ASSET FUNCTION", Type: "COMPOSITION", Code: "400a", Name: "Propulsion"},
			{Category: "ASSET FUNCTION", Type: "LEAF", Code: "411", Name: "Engine"},
			{Category: "PRODUCT", Type: "TYPE", Code: "411.1", Name: "Diesel engine"},
		},
		Relations: []dto.GmodRelation{
			{"VE", "400a"},
			{"400a", "411"},
			{"411", "411.1"},
		},
	}
	g, err := gmod.NewGmod(visversion.V3_4a, d)
	require.NoError(t, err)

	nodes := []*gmod.Node{g.RootNode(), g.Lookup("400a"), g.Lookup("411"), g.Lookup("411.1")}
	p, err := gmodpath.New(visversion.V3_4a, nodes)
	require.NoError(t, err)

	// 411.1 (PRODUCT TYPE) is the target but not a function node, so it
	// contributes no entry; 411 (ASSET FUNCTION LEAF) does.
	names := p.CommonNames()
	require.Len(t, names, 1)
	assert.Equal(t, 2, names[0].Depth)
	assert.Equal(t, "Engine", names[0].Name)
}

func TestPathExistsBetween(t *testing.T) {
	g := buildTestGraph(t)
	prefix, err := gmodpath.New(visversion.V3_4a, []*gmod.Node{g.RootNode(), g.Lookup("400a")})
	require.NoError(t, err)

	suffix, ok, err := gmodpath.PathExistsBetween(g, prefix, g.Lookup("411.1"))
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, suffix, 2)
	assert.Equal(t, "411.1", suffix[1].Code())
}
