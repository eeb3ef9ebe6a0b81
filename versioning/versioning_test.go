package versioning_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ronan-fesselier/vista-sdk-sub002/dto"
	"github.com/ronan-fesselier/vista-sdk-sub002/gmod"
	"github.com/ronan-fesselier/vista-sdk-sub002/gmodpath"
	"github.com/ronan-fesselier/vista-sdk-sub002/versioning"
	"github.com/ronan-fesselier/vista-sdk-sub002/visversion"
)

// sourceDto is the V3_4a fixture graph: a plain rename target (411.1), an
// expansion target (511.331), and a node (E15) that vanishes outright in
// the next release.
func sourceDto() *dto.GmodDto {
	return &dto.GmodDto{
		VisRelease: "3-4a",
		Items: []dto.GmodNodeItem{
			{Category: "ASSET", Code: "VE", Name: "Vessel"},
			{Category: "ASSET FUNCTION", Type: "COMPOSITION", Code: "400a", Name: "Propulsion"},
			{Category: "ASSET FUNCTION", Type: "LEAF", Code: "411", Name: "Engine"},
			{Category: "PRODUCT", Type: "TYPE", Code: "411.1", Name: "Diesel engine"},
			{Category: "ASSET FUNCTION", Type: "COMPOSITION", Code: "500a", Name: "Electrical"},
			{Category: "ASSET FUNCTION", Type: "LEAF", Code: "511", Name: "Generator"},
			{Category: "PRODUCT", Type: "TYPE", Code: "511.331", Name: "Generator set"},
			{Category: "ASSET FUNCTION", Type: "COMPOSITION", Code: "600a", Name: "Auxiliary"},
			{Category: "ASSET FUNCTION", Type: "LEAF", Code: "514", Name: "Pump"},
			{Category: "PRODUCT", Type: "TYPE", Code: "E15", Name: "Pump motor"},
		},
		Relations: []dto.GmodRelation{
			{"VE", "400a"}, {"400a", "411"}, {"411", "411.1"},
			{"VE", "500a"}, {"500a", "511"}, {"511", "511.331"},
			{"VE", "600a"}, {"600a", "514"}, {"514", "E15"},
		},
	}
}

// targetDto is the V3_5a fixture graph: 411.1 renamed to 411.2, 511.331
// expanded into the chain 511.31/C121.31, and E15 removed entirely.
func targetDto() *dto.GmodDto {
	return &dto.GmodDto{
		VisRelease: "3-5a",
		Items: []dto.GmodNodeItem{
			{Category: "ASSET", Code: "VE", Name: "Vessel"},
			{Category: "ASSET FUNCTION", Type: "COMPOSITION", Code: "400a", Name: "Propulsion"},
			{Category: "ASSET FUNCTION", Type: "LEAF", Code: "411", Name: "Engine"},
			{Category: "PRODUCT", Type: "TYPE", Code: "411.2", Name: "Diesel engine"},
			{Category: "ASSET FUNCTION", Type: "COMPOSITION", Code: "500a", Name: "Electrical"},
			{Category: "ASSET FUNCTION", Type: "LEAF", Code: "511", Name: "Generator"},
			{Category: "ASSET FUNCTION", Type: "LEAF", Code: "511.31", Name: "Generator set"},
			{Category: "PRODUCT", Type: "TYPE", Code: "C121.31", Name: "Generator set type"},
			{Category: "ASSET FUNCTION", Type: "COMPOSITION", Code: "600a", Name: "Auxiliary"},
			{Category: "ASSET FUNCTION", Type: "LEAF", Code: "514", Name: "Pump"},
		},
		Relations: []dto.GmodRelation{
			{"VE", "400a"}, {"400a", "411"}, {"411", "411.2"},
			{"VE", "500a"}, {"500a", "511"}, {"511", "511.31"}, {"511.31", "C121.31"},
			{"VE", "600a"}, {"600a", "514"},
		},
	}
}

func versioningDto() *dto.GmodVersioningDto {
	target := "411.2"
	expansionTarget := "511.31/C121.31"
	return &dto.GmodVersioningDto{
		VisRelease: "3-5a",
		Items: map[string]dto.GmodVersioningItem{
			"411.1": {
				Operations: []string{"ChangeCode"},
				Source:     "411.1",
				Target:     &target,
			},
			"511.331": {
				Operations: []string{"ChangeCode"},
				Source:     "511.331",
				Target:     &expansionTarget,
			},
		},
	}
}

func buildFixture(t *testing.T) (map[visversion.VisVersion]*gmod.Gmod, *versioning.GmodVersioning) {
	t.Helper()
	srcGmod, err := gmod.NewGmod(visversion.V3_4a, sourceDto())
	require.NoError(t, err)
	tgtGmod, err := gmod.NewGmod(visversion.V3_5a, targetDto())
	require.NoError(t, err)

	v, err := versioning.NewGmodVersioning(map[visversion.VisVersion]*dto.GmodVersioningDto{
		visversion.V3_5a: versioningDto(),
	})
	require.NoError(t, err)

	gmods := map[visversion.VisVersion]*gmod.Gmod{
		visversion.V3_4a: srcGmod,
		visversion.V3_5a: tgtGmod,
	}
	return gmods, v
}

func TestNewGmodVersioningRejectsUnknownOperation(t *testing.T) {
	target := "X"
	_, err := versioning.NewGmodVersioning(map[visversion.VisVersion]*dto.GmodVersioningDto{
		visversion.V3_5a: {
			Items: map[string]dto.GmodVersioningItem{
				"Y": {Operations: []string{"Teleport"}, Source: "Y", Target: &target},
			},
		},
	})
	require.Error(t, err)
}

func TestConvertNodeRejectsSameVersion(t *testing.T) {
	gmods, v := buildFixture(t)
	node := gmods[visversion.V3_4a].Lookup("411.1")
	_, err := v.ConvertNode(gmods, visversion.V3_4a, node, visversion.V3_4a)
	require.Error(t, err)
}

func TestConvertNodeRejectsBackwardRange(t *testing.T) {
	gmods, v := buildFixture(t)
	node := gmods[visversion.V3_5a].Lookup("411.2")
	_, err := v.ConvertNode(gmods, visversion.V3_5a, node, visversion.V3_4a)
	require.Error(t, err)
}

func TestConvertNodeRejectsUnrecognizedVersion(t *testing.T) {
	gmods, v := buildFixture(t)
	node := gmods[visversion.V3_4a].Lookup("411.1")
	_, err := v.ConvertNode(gmods, visversion.V3_4a, node, visversion.VisVersion(9999))
	require.Error(t, err)
}

func TestConvertNodeRename(t *testing.T) {
	gmods, v := buildFixture(t)
	node := gmods[visversion.V3_4a].Lookup("411.1")
	converted, err := v.ConvertNode(gmods, visversion.V3_4a, node, visversion.V3_5a)
	require.NoError(t, err)
	require.NotNil(t, converted)
	assert.Equal(t, "411.2", converted.Code())
}

func TestConvertNodePassthrough(t *testing.T) {
	gmods, v := buildFixture(t)
	node := gmods[visversion.V3_4a].Lookup("514")
	converted, err := v.ConvertNode(gmods, visversion.V3_4a, node, visversion.V3_5a)
	require.NoError(t, err)
	require.NotNil(t, converted)
	assert.Equal(t, "514", converted.Code())
}

func TestConvertNodeDropsRemovedNode(t *testing.T) {
	gmods, v := buildFixture(t)
	node := gmods[visversion.V3_4a].Lookup("E15")
	converted, err := v.ConvertNode(gmods, visversion.V3_4a, node, visversion.V3_5a)
	require.NoError(t, err)
	assert.Nil(t, converted)
}

func TestConvertPathRename(t *testing.T) {
	gmods, v := buildFixture(t)
	srcGmod := gmods[visversion.V3_4a]
	path, err := gmodpath.New(visversion.V3_4a, []*gmod.Node{
		srcGmod.RootNode(), srcGmod.Lookup("400a"), srcGmod.Lookup("411"), srcGmod.Lookup("411.1"),
	})
	require.NoError(t, err)

	converted, err := v.ConvertPath(gmods, visversion.V3_4a, path, visversion.V3_5a)
	require.NoError(t, err)
	require.NotNil(t, converted)
	assert.Equal(t, "VE/400a/411/411.2", converted.ToFullPathString())
}

func TestConvertPathExpandsChain(t *testing.T) {
	gmods, v := buildFixture(t)
	srcGmod := gmods[visversion.V3_4a]
	path, err := gmodpath.New(visversion.V3_4a, []*gmod.Node{
		srcGmod.RootNode(), srcGmod.Lookup("500a"), srcGmod.Lookup("511"), srcGmod.Lookup("511.331"),
	})
	require.NoError(t, err)

	converted, err := v.ConvertPath(gmods, visversion.V3_4a, path, visversion.V3_5a)
	require.NoError(t, err)
	require.NotNil(t, converted)
	assert.Equal(t, "VE/500a/511/511.31/C121.31", converted.ToFullPathString())
}

func TestConvertPathContractsOnRemovedTail(t *testing.T) {
	gmods, v := buildFixture(t)
	srcGmod := gmods[visversion.V3_4a]
	path, err := gmodpath.New(visversion.V3_4a, []*gmod.Node{
		srcGmod.RootNode(), srcGmod.Lookup("600a"), srcGmod.Lookup("514"), srcGmod.Lookup("E15"),
	})
	require.NoError(t, err)

	converted, err := v.ConvertPath(gmods, visversion.V3_4a, path, visversion.V3_5a)
	require.NoError(t, err)
	require.NotNil(t, converted)
	assert.Equal(t, "VE/600a/514", converted.ToFullPathString())
}

func TestConvertPathCachesResult(t *testing.T) {
	gmods, v := buildFixture(t)
	srcGmod := gmods[visversion.V3_4a]
	path, err := gmodpath.New(visversion.V3_4a, []*gmod.Node{
		srcGmod.RootNode(), srcGmod.Lookup("400a"), srcGmod.Lookup("411"), srcGmod.Lookup("411.1"),
	})
	require.NoError(t, err)

	_, err = v.ConvertPath(gmods, visversion.V3_4a, path, visversion.V3_5a)
	require.NoError(t, err)
	stats := v.CacheStats()
	assert.EqualValues(t, 0, stats.Hits)
	assert.EqualValues(t, 1, stats.Misses)

	_, err = v.ConvertPath(gmods, visversion.V3_4a, path, visversion.V3_5a)
	require.NoError(t, err)
	stats = v.CacheStats()
	assert.EqualValues(t, 1, stats.Hits)
	assert.EqualValues(t, 1, stats.Misses)
}
