package vis_test

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ronan-fesselier/vista-sdk-sub002/dto"
	"github.com/ronan-fesselier/vista-sdk-sub002/gmod"
	"github.com/ronan-fesselier/vista-sdk-sub002/gmodpath"
	"github.com/ronan-fesselier/vista-sdk-sub002/vis"
	"github.com/ronan-fesselier/vista-sdk-sub002/visversion"
)

func gmodDto(version string, renamedLeaf string) dto.GmodDto {
	return dto.GmodDto{
		VisRelease: version,
		Items: []dto.GmodNodeItem{
			{Category: "ASSET", Code: "VE", Name: "Vessel"},
			{Category: "ASSET FUNCTION", Type: "COMPOSITION", Code: "400a", Name: "Propulsion"},
			{Category: "ASSET FUNCTION", Type: "LEAF", Code: "411", Name: "Engine"},
			{Category: "PRODUCT", Type: "TYPE", Code: renamedLeaf, Name: "Diesel engine"},
		},
		Relations: []dto.GmodRelation{
			{"VE", "400a"}, {"400a", "411"}, {"411", renamedLeaf},
		},
	}
}

func locationsDto(version string) dto.LocationsDto {
	return dto.LocationsDto{
		VisRelease: version,
		Items: []dto.LocationItem{
			{Code: "P", Name: "Port"},
		},
	}
}

func versioningDto(entries map[string]dto.GmodVersioningItem) dto.GmodVersioningDto {
	return dto.GmodVersioningDto{Items: entries}
}

// fixtureProvider serves the fixed set of resources a test needs, erroring
// on anything unexpected so a missing-fixture bug fails loudly instead of
// silently returning zero bytes.
func fixtureProvider(t *testing.T, resources map[string]any) dto.ResourceProvider {
	t.Helper()
	return func(name string) ([]byte, error) {
		v, ok := resources[name]
		if !ok {
			return nil, fmt.Errorf("no fixture resource named %q", name)
		}
		return json.Marshal(v)
	}
}

func buildFacade(t *testing.T) *vis.VIS {
	t.Helper()
	renameTarget := "411.2"
	resources := map[string]any{
		"gmod-vis-3-4a.json":      gmodDto("3-4a", "411.1"),
		"gmod-vis-3-5a.json":      gmodDto("3-5a", "411.2"),
		"locations-vis-3-4a.json": locationsDto("3-4a"),
		"locations-vis-3-5a.json": locationsDto("3-5a"),

		"gmod-vis-versioning-3-5a.json": versioningDto(map[string]dto.GmodVersioningItem{
			"411.1": {Operations: []string{"ChangeCode"}, Source: "411.1", Target: &renameTarget},
		}),
		"gmod-vis-versioning-3-6a.json": versioningDto(nil),
		"gmod-vis-versioning-3-7a.json": versioningDto(nil),
		"gmod-vis-versioning-3-8a.json": versioningDto(nil),
	}
	return vis.New(fixtureProvider(t, resources), dto.NewDecoder(nil))
}

func TestGmodIsMemoized(t *testing.T) {
	v := buildFacade(t)
	g1, err := v.Gmod(visversion.V3_4a)
	require.NoError(t, err)
	g2, err := v.Gmod(visversion.V3_4a)
	require.NoError(t, err)
	assert.Same(t, g1, g2)
}

func TestGmodRejectsUnrecognizedVersion(t *testing.T) {
	v := buildFacade(t)
	_, err := v.Gmod(visversion.VisVersion(1))
	require.Error(t, err)
}

func TestLocationsLoads(t *testing.T) {
	v := buildFacade(t)
	locs, err := v.Locations(visversion.V3_4a)
	require.NoError(t, err)
	require.Len(t, locs.RelativeLocations(), 1)
}

func TestConvertNodeThroughFacade(t *testing.T) {
	v := buildFacade(t)
	srcGmod, err := v.Gmod(visversion.V3_4a)
	require.NoError(t, err)

	node := srcGmod.Lookup("411.1")
	converted, err := v.ConvertNode(visversion.V3_4a, node, visversion.V3_5a)
	require.NoError(t, err)
	require.NotNil(t, converted)
	assert.Equal(t, "411.2", converted.Code())
}

func TestConvertPathThroughFacade(t *testing.T) {
	v := buildFacade(t)
	srcGmod, err := v.Gmod(visversion.V3_4a)
	require.NoError(t, err)

	path, err := gmodpath.New(visversion.V3_4a, []*gmod.Node{
		srcGmod.RootNode(), srcGmod.Lookup("400a"), srcGmod.Lookup("411"), srcGmod.Lookup("411.1"),
	})
	require.NoError(t, err)

	converted, err := v.ConvertPath(visversion.V3_4a, path, visversion.V3_5a)
	require.NoError(t, err)
	require.NotNil(t, converted)
	assert.Equal(t, "VE/400a/411/411.2", converted.ToFullPathString())
}

func TestConvertLocalIdConvertsBothItems(t *testing.T) {
	v := buildFacade(t)
	srcGmod, err := v.Gmod(visversion.V3_4a)
	require.NoError(t, err)

	primary, err := gmodpath.New(visversion.V3_4a, []*gmod.Node{
		srcGmod.RootNode(), srcGmod.Lookup("400a"), srcGmod.Lookup("411"), srcGmod.Lookup("411.1"),
	})
	require.NoError(t, err)

	converted, err := v.ConvertLocalId(visversion.V3_4a, vis.LocalIdComponents{PrimaryItem: primary}, visversion.V3_5a)
	require.NoError(t, err)
	require.NotNil(t, converted.PrimaryItem)
	assert.Equal(t, "VE/400a/411/411.2", converted.PrimaryItem.ToFullPathString())
	assert.Nil(t, converted.SecondaryItem)
}

func TestInstanceRequiresInit(t *testing.T) {
	assert.Panics(t, func() {
		_ = vis.Instance()
	})
}

func TestInitInstallsSingleton(t *testing.T) {
	resources := map[string]any{
		"gmod-vis-3-4a.json": gmodDto("3-4a", "411.1"),
	}
	installed := vis.Init(fixtureProvider(t, resources), dto.NewDecoder(nil))
	assert.Same(t, installed, vis.Instance())
}
