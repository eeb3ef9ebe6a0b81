// Package vis implements the process-wide VIS facade (spec.md §4.J): the
// single place that owns per-version GMOD and Locations tables and the one
// GmodVersioning engine, lazily built from resources supplied by a
// dto.ResourceProvider.
//
// Grounded on _examples/original_source/cpp/include/dnv/vista/sdk/VIS.h
// (the lazy per-version maps and the convertNode/convertPath/
// convertLocalId entry points named in spec.md §4.J).
package vis

import (
	"fmt"
	"sync"

	"github.com/ronan-fesselier/vista-sdk-sub002/dto"
	"github.com/ronan-fesselier/vista-sdk-sub002/errs"
	"github.com/ronan-fesselier/vista-sdk-sub002/gmod"
	"github.com/ronan-fesselier/vista-sdk-sub002/gmodpath"
	"github.com/ronan-fesselier/vista-sdk-sub002/internal/invariant"
	"github.com/ronan-fesselier/vista-sdk-sub002/location"
	"github.com/ronan-fesselier/vista-sdk-sub002/versioning"
	"github.com/ronan-fesselier/vista-sdk-sub002/visversion"
)

// VIS is the facade described in spec.md §4.J: once constructed it is
// immutable except for its lazily populated per-version caches, which are
// themselves guarded by one mutex - the same "cache layer holds its own
// lock" discipline spec.md §5 requires of the path-conversion and
// in-memory caches.
type VIS struct {
	provider dto.ResourceProvider
	decoder  *dto.Decoder

	mu         sync.Mutex
	gmods      map[visversion.VisVersion]*gmod.Gmod
	locations  map[visversion.VisVersion]*location.Locations
	versioning *versioning.GmodVersioning
}

var (
	instanceMu sync.Mutex
	instance   *VIS
)

// New builds a facade instance around the given resource provider and
// (optional) schema-validating decoder. Most callers install one process-
// wide facade via Init/Instance instead of calling New directly; New exists
// so tests can build independent, non-singleton instances.
func New(provider dto.ResourceProvider, decoder *dto.Decoder) *VIS {
	invariant.Precondition(provider != nil, "vis: resource provider must not be nil")
	return &VIS{
		provider:  provider,
		decoder:   decoder,
		gmods:     make(map[visversion.VisVersion]*gmod.Gmod),
		locations: make(map[visversion.VisVersion]*location.Locations),
	}
}

// Init installs provider/decoder as the process-wide facade and returns it.
// Lifecycle is initOnFirstUse -> liveUntilProcessExit (spec.md §4.J):
// calling Init again replaces the singleton outright, for tests that need a
// fresh facade between cases.
func Init(provider dto.ResourceProvider, decoder *dto.Decoder) *VIS {
	instanceMu.Lock()
	defer instanceMu.Unlock()
	instance = New(provider, decoder)
	return instance
}

// Instance returns the process-wide facade. It panics if Init has not been
// called - there is no implicit default resource provider, consistent with
// §1's "does not expose any network or file API beyond reading supplied
// resources at initialization."
func Instance() *VIS {
	instanceMu.Lock()
	defer instanceMu.Unlock()
	invariant.Precondition(instance != nil, "vis: Init has not been called")
	return instance
}

func gmodResourceName(v visversion.VisVersion) string {
	return fmt.Sprintf("gmod-vis-%s.json", v)
}

func locationsResourceName(v visversion.VisVersion) string {
	return fmt.Sprintf("locations-vis-%s.json", v)
}

// versioningResourceName is keyed by a step's TARGET version, matching
// versioning.NewGmodVersioning's map key (spec.md §4.G).
func versioningResourceName(v visversion.VisVersion) string {
	return fmt.Sprintf("gmod-vis-versioning-%s.json", v)
}

// GmodDto decodes and returns the raw GMOD resource for version, without
// building the graph - exposed for tests that assert on resource shape
// directly rather than through the constructed Gmod.
func (v *VIS) GmodDto(version visversion.VisVersion) (*dto.GmodDto, error) {
	raw, err := v.provider(gmodResourceName(version))
	if err != nil {
		return nil, errs.Wrap(errs.NotFound, err, "load gmod resource for version %s", version)
	}
	return v.decoder.DecodeGmod(raw)
}

// LocationsDto decodes and returns the raw Locations resource for version.
func (v *VIS) LocationsDto(version visversion.VisVersion) (*dto.LocationsDto, error) {
	raw, err := v.provider(locationsResourceName(version))
	if err != nil {
		return nil, errs.Wrap(errs.NotFound, err, "load locations resource for version %s", version)
	}
	return v.decoder.DecodeLocations(raw)
}

// Gmod returns the graph for version, building and memoizing it on first
// use.
func (v *VIS) Gmod(version visversion.VisVersion) (*gmod.Gmod, error) {
	if !visversion.IsValid(version) {
		return nil, errs.New(errs.InvalidArgument, "unrecognized VIS version %s", version)
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	if g, ok := v.gmods[version]; ok {
		return g, nil
	}
	d, err := v.GmodDto(version)
	if err != nil {
		return nil, err
	}
	g, err := gmod.NewGmod(version, d)
	if err != nil {
		return nil, err
	}
	v.gmods[version] = g
	return g, nil
}

// Locations returns the Locations table for version, building and
// memoizing it on first use.
func (v *VIS) Locations(version visversion.VisVersion) (*location.Locations, error) {
	if !visversion.IsValid(version) {
		return nil, errs.New(errs.InvalidArgument, "unrecognized VIS version %s", version)
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	if l, ok := v.locations[version]; ok {
		return l, nil
	}
	d, err := v.LocationsDto(version)
	if err != nil {
		return nil, err
	}
	l, err := location.NewLocations(version, d)
	if err != nil {
		return nil, err
	}
	v.locations[version] = l
	return l, nil
}

// versioningEngine builds and memoizes the single GmodVersioning, loading
// one per-step resource for every known release beyond the first.
func (v *VIS) versioningEngine() (*versioning.GmodVersioning, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.versioning != nil {
		return v.versioning, nil
	}

	steps := visversion.AllVersions()
	dtos := make(map[visversion.VisVersion]*dto.GmodVersioningDto, len(steps)-1)
	for _, step := range steps[1:] {
		raw, err := v.provider(versioningResourceName(step))
		if err != nil {
			return nil, errs.Wrap(errs.NotFound, err, "load versioning resource for version %s", step)
		}
		d, err := v.decoder.DecodeVersioning(raw)
		if err != nil {
			return nil, err
		}
		dtos[step] = d
	}

	engine, err := versioning.NewGmodVersioning(dtos)
	if err != nil {
		return nil, err
	}
	v.versioning = engine
	return engine, nil
}

// gmodRange loads every Gmod from srcVersion through tgtVersion (inclusive)
// needed by a conversion walk. An invalid range short-circuits without
// loading anything; the versioning engine raises the precise
// InvalidArgument error for it.
func (v *VIS) gmodRange(srcVersion, tgtVersion visversion.VisVersion) (map[visversion.VisVersion]*gmod.Gmod, error) {
	out := make(map[visversion.VisVersion]*gmod.Gmod)
	if !visversion.IsValid(srcVersion) || !visversion.IsValid(tgtVersion) || !srcVersion.Less(tgtVersion) {
		return out, nil
	}
	for _, ver := range visversion.AllVersions() {
		if ver.Less(srcVersion) {
			continue
		}
		g, err := v.Gmod(ver)
		if err != nil {
			return nil, err
		}
		out[ver] = g
		if ver == tgtVersion {
			break
		}
	}
	return out, nil
}

// ConvertNode converts a single node across VIS releases (spec.md §4.J
// convertNode, delegating to the versioning engine).
func (v *VIS) ConvertNode(srcVersion visversion.VisVersion, node *gmod.Node, tgtVersion visversion.VisVersion) (*gmod.Node, error) {
	engine, err := v.versioningEngine()
	if err != nil {
		return nil, err
	}
	gmods, err := v.gmodRange(srcVersion, tgtVersion)
	if err != nil {
		return nil, err
	}
	return engine.ConvertNode(gmods, srcVersion, node, tgtVersion)
}

// ConvertPath converts an entire path across VIS releases (spec.md §4.J
// convertPath).
func (v *VIS) ConvertPath(srcVersion visversion.VisVersion, path *gmodpath.Path, tgtVersion visversion.VisVersion) (*gmodpath.Path, error) {
	engine, err := v.versioningEngine()
	if err != nil {
		return nil, err
	}
	gmods, err := v.gmodRange(srcVersion, tgtVersion)
	if err != nil {
		return nil, err
	}
	return engine.ConvertPath(gmods, srcVersion, path, tgtVersion)
}

// LocalIdComponents stands in for the full LocalId composite identifier
// (out of core scope per spec.md §1): just the two GmodPath-valued parts
// that actually require version conversion. A future LocalId layer supplies
// the remaining metadata (quantity, content, state, and so on) untouched by
// this package.
type LocalIdComponents struct {
	PrimaryItem   *gmodpath.Path
	SecondaryItem *gmodpath.Path // nil when the LocalId carries no secondary item
}

// ConvertLocalId converts the path-valued components of a LocalId across
// VIS releases (spec.md §4.J convertLocalId, "delegates node/path
// conversion; out of core scope in detail"). Everything else a full LocalId
// carries is unaffected by a version change and is the caller's concern.
func (v *VIS) ConvertLocalId(srcVersion visversion.VisVersion, id LocalIdComponents, tgtVersion visversion.VisVersion) (LocalIdComponents, error) {
	primary, err := v.ConvertPath(srcVersion, id.PrimaryItem, tgtVersion)
	if err != nil {
		return LocalIdComponents{}, err
	}
	out := LocalIdComponents{PrimaryItem: primary}
	if id.SecondaryItem != nil {
		secondary, err := v.ConvertPath(srcVersion, id.SecondaryItem, tgtVersion)
		if err != nil {
			return LocalIdComponents{}, err
		}
		out.SecondaryItem = secondary
	}
	return out, nil
}
