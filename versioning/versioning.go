// Package versioning implements the GmodVersioning engine: per-release
// rewrite tables that convert nodes and paths across VIS releases,
// consulting the path-conversion cache before and after work (spec.md
// §4.G "Versioning engine").
//
// Grounded on
// _examples/original_source/cpp/include/dnv/vista/sdk/GmodVersioning.h and
// GmodVersioning.cpp (per-step ChangeCode/Merge/Move/AssignmentChange/
// AssignmentDelete dispatch, and the §8 "Cache stat law"/conversion
// scenarios' exact behavior).
package versioning

import (
	"strings"

	"github.com/ronan-fesselier/vista-sdk-sub002/cache"
	"github.com/ronan-fesselier/vista-sdk-sub002/dto"
	"github.com/ronan-fesselier/vista-sdk-sub002/errs"
	"github.com/ronan-fesselier/vista-sdk-sub002/gmod"
	"github.com/ronan-fesselier/vista-sdk-sub002/gmodpath"
	"github.com/ronan-fesselier/vista-sdk-sub002/visversion"
)

// Operation is one rewrite action a NodeConversion entry may declare
// (spec.md §3 "Node conversion").
type Operation string

const (
	OpChangeCode       Operation = "ChangeCode"
	OpMerge            Operation = "Merge"
	OpMove             Operation = "Move"
	OpAssignmentChange Operation = "AssignmentChange"
	OpAssignmentDelete Operation = "AssignmentDelete"
)

// NodeConversion is one per-source-code rewrite rule: the operations it
// applies, the source code it matches, and its optional target/assignment
// fields.
//
// When Target names more than one code, joined by "/", the conversion
// expands its source node into that whole chain (spec.md §4.G
// convertPath step 2, "conversions expand a node into a longer chain,
// e.g. 511.331/C221 -> 511.31/C121.31/C221"); a single-code Target is the
// common ChangeCode/Merge/Move case.
type NodeConversion struct {
	Operations       map[Operation]struct{}
	Source           string
	Target           *string
	OldAssignment    *string
	NewAssignment    *string
	DeleteAssignment *string
}

func (c NodeConversion) has(op Operation) bool {
	_, ok := c.Operations[op]
	return ok
}

type stepTable map[string]NodeConversion

// GmodVersioning applies per-release rewrite tables to nodes and paths
// across VIS releases (spec.md §4.G). It owns the path-conversion cache
// (§4.H); convertPath consults it before and after doing any work.
type GmodVersioning struct {
	// steps is keyed by a step's TARGET version: steps[v] is the table
	// applied when converting a node from the VIS release immediately
	// before v into v.
	steps map[visversion.VisVersion]stepTable
	cache *cache.PathConversionCache
}

// NewGmodVersioning builds the engine from one decoded Versioning resource
// per step, keyed by the step's target VIS release.
func NewGmodVersioning(dtos map[visversion.VisVersion]*dto.GmodVersioningDto) (*GmodVersioning, error) {
	steps := make(map[visversion.VisVersion]stepTable, len(dtos))
	for v, d := range dtos {
		table := make(stepTable, len(d.Items))
		for code, item := range d.Items {
			nc, err := newNodeConversion(code, item)
			if err != nil {
				return nil, err
			}
			table[code] = nc
		}
		steps[v] = table
	}
	return &GmodVersioning{steps: steps, cache: cache.NewPathConversionCache()}, nil
}

func newNodeConversion(code string, item dto.GmodVersioningItem) (NodeConversion, error) {
	ops := make(map[Operation]struct{}, len(item.Operations))
	for _, raw := range item.Operations {
		op := Operation(raw)
		switch op {
		case OpChangeCode, OpMerge, OpMove, OpAssignmentChange, OpAssignmentDelete:
			ops[op] = struct{}{}
		default:
			return NodeConversion{}, errs.New(errs.InvalidArgument, "unknown versioning operation %q for code %q", raw, code)
		}
	}
	oldAssignment := item.OldAssignment
	if oldAssignment == nil {
		oldAssignment = item.CurrentAssignment
	}
	return NodeConversion{
		Operations:       ops,
		Source:           item.Source,
		Target:           item.Target,
		OldAssignment:    oldAssignment,
		NewAssignment:    item.NewAssignment,
		DeleteAssignment: item.DeleteAssignment,
	}, nil
}

// CacheStats reports the path-conversion cache's cumulative statistics.
func (v *GmodVersioning) CacheStats() cache.Stats {
	return v.cache.Stats()
}

// ClearCache wipes the path-conversion cache and its counters.
func (v *GmodVersioning) ClearCache() {
	v.cache.Clear()
}

func validateRange(src, tgt visversion.VisVersion) error {
	if !visversion.IsValid(src) || !visversion.IsValid(tgt) {
		return errs.New(errs.InvalidArgument, "unrecognized VIS version in conversion range %s -> %s", src, tgt)
	}
	if src == tgt {
		return errs.New(errs.InvalidArgument, "cannot convert to the same VIS version %s", src)
	}
	if tgt.Less(src) {
		return errs.New(errs.InvalidArgument, "target version %s is older than source version %s", tgt, src)
	}
	return nil
}

// stepsBetween returns every VIS release strictly after src up to and
// including tgt, in ascending order - the sequence of per-step target
// versions convertNode/convertPath walk through.
func stepsBetween(src, tgt visversion.VisVersion) []visversion.VisVersion {
	var out []visversion.VisVersion
	for _, v := range visversion.AllVersions() {
		if !src.Less(v) {
			continue
		}
		out = append(out, v)
		if v == tgt {
			break
		}
	}
	return out
}

// ConvertNode converts a single node from srcVersion to tgtVersion,
// stepping through every intermediate release's table (spec.md §4.G
// convertNode). It requires srcVersion < tgtVersion and both recognized
// releases. A nil, nil result means the node has no counterpart in
// tgtVersion (it was dropped along the way).
func (v *GmodVersioning) ConvertNode(gmods map[visversion.VisVersion]*gmod.Gmod, srcVersion visversion.VisVersion, node *gmod.Node, tgtVersion visversion.VisVersion) (*gmod.Node, error) {
	if err := validateRange(srcVersion, tgtVersion); err != nil {
		return nil, err
	}

	current := node
	for _, step := range stepsBetween(srcVersion, tgtVersion) {
		g, ok := gmods[step]
		if !ok {
			return nil, errs.New(errs.ConversionFailed, "no gmod available for version %s", step)
		}
		chain, err := v.applyStepChain(step, current, g)
		if err != nil {
			return nil, err
		}
		if len(chain) == 0 {
			return nil, nil
		}
		// A single-node conversion follows the terminal code of any
		// chain expansion: growing a path into several nodes is a
		// convertPath-level concern (spec.md §4.G step 2); the
		// single-node API keeps Option<Node> singular.
		current = chain[len(chain)-1]
	}
	return current, nil
}

// ConvertPath converts an entire path from srcVersion to tgtVersion,
// consulting the cache before and after doing the work (spec.md §4.G
// convertPath).
func (v *GmodVersioning) ConvertPath(gmods map[visversion.VisVersion]*gmod.Gmod, srcVersion visversion.VisVersion, path *gmodpath.Path, tgtVersion visversion.VisVersion) (*gmodpath.Path, error) {
	if err := validateRange(srcVersion, tgtVersion); err != nil {
		return nil, err
	}

	pathStr := path.ToFullPathString()
	if cached, hit := v.cache.TryGet(srcVersion, tgtVersion, pathStr); hit {
		return cached.Path, nil
	}

	result, err := v.convertPathUncached(gmods, srcVersion, path, tgtVersion)
	if err != nil {
		return nil, err
	}

	v.cache.Put(srcVersion, tgtVersion, pathStr, cache.Result{Path: result})
	return result, nil
}

func (v *GmodVersioning) convertPathUncached(gmods map[visversion.VisVersion]*gmod.Gmod, srcVersion visversion.VisVersion, path *gmodpath.Path, tgtVersion visversion.VisVersion) (*gmodpath.Path, error) {
	nodes := path.All()
	currentVersion := srcVersion

	for _, step := range stepsBetween(srcVersion, tgtVersion) {
		g, ok := gmods[step]
		if !ok {
			return nil, errs.New(errs.ConversionFailed, "no gmod available for version %s", step)
		}

		var next []*gmod.Node
		for _, n := range nodes {
			chain, err := v.applyStepChain(step, n, g)
			if err != nil {
				return nil, err
			}
			if len(chain) == 0 {
				// This node (and anything deeper, which only exists
				// beneath it) has no counterpart in step: the tail
				// contracts away (spec.md §4.G step 2, "514/E15 -> 514").
				break
			}
			next = append(next, chain...)
		}
		if len(next) == 0 {
			return nil, nil
		}
		nodes = next
		currentVersion = step
	}

	built, err := gmodpath.New(currentVersion, nodes)
	if err != nil {
		return nil, errs.Wrap(errs.ConversionFailed, err, "converted path is not a valid gmod path in version %s", currentVersion)
	}
	return built, nil
}

// applyStepChain converts a single node one step, returning the zero,
// one, or several target-version nodes it maps to.
func (v *GmodVersioning) applyStepChain(targetVersion visversion.VisVersion, node *gmod.Node, targetGmod *gmod.Gmod) ([]*gmod.Node, error) {
	table := v.steps[targetVersion]
	conv, ok := table[node.Code()]
	if !ok {
		// No rewrite rule for this code. If it still exists unchanged in
		// the target version, carry it across as-is; if it was removed
		// outright with no recorded conversion, it has no counterpart -
		// the node (and anything deeper beneath it) drops silently,
		// mirroring the contraction example "514/E15 -> 514".
		next, ok := targetGmod.TryGetNode(node.Code())
		if !ok {
			return nil, nil
		}
		return []*gmod.Node{carryLocation(node, next)}, nil
	}

	if !conv.has(OpChangeCode) && !conv.has(OpMerge) && !conv.has(OpMove) {
		// Assignment-only conversion: the node's own code is unchanged,
		// only its normalAssignmentNames metadata shifts.
		next, ok := targetGmod.TryGetNode(node.Code())
		if !ok {
			return nil, nil
		}
		next = carryLocation(node, next)
		if conv.has(OpAssignmentChange) || conv.has(OpAssignmentDelete) {
			next = applyAssignmentOps(next, conv)
		}
		return []*gmod.Node{next}, nil
	}

	if conv.Target == nil {
		return nil, errs.New(errs.ConversionFailed, "conversion for %q declares a code-changing operation without a target code", node.Code())
	}

	codes := strings.Split(*conv.Target, "/")
	out := make([]*gmod.Node, 0, len(codes))
	for i, code := range codes {
		n, ok := targetGmod.TryGetNode(code)
		if !ok {
			if i == len(codes)-1 && i == 0 {
				return nil, nil
			}
			return nil, errs.New(errs.ConversionFailed, "conversion target code %q for %q not found in version %s", code, node.Code(), targetVersion)
		}
		if i == len(codes)-1 {
			n = carryLocation(node, n)
			if conv.has(OpAssignmentChange) || conv.has(OpAssignmentDelete) {
				n = applyAssignmentOps(n, conv)
			}
		}
		out = append(out, n)
	}
	return out, nil
}

// carryLocation preserves src's location on tgt when tgt's type supports
// carrying one at all (spec.md §4.G "Preserve the node's location if the
// target node supports it").
func carryLocation(src, tgt *gmod.Node) *gmod.Node {
	loc, ok := src.Location()
	if !ok || !tgt.IsIndividualizable(true) {
		return tgt
	}
	return tgt.WithLocation(loc)
}

// applyAssignmentOps rewrites n's own normalAssignmentNames map per conv's
// AssignmentChange/AssignmentDelete fields.
func applyAssignmentOps(n *gmod.Node, conv NodeConversion) *gmod.Node {
	meta := n.Metadata()
	names := make(map[string]string, len(meta.NormalAssignmentNames))
	for k, val := range meta.NormalAssignmentNames {
		names[k] = val
	}
	if conv.has(OpAssignmentChange) && conv.OldAssignment != nil && conv.NewAssignment != nil {
		if name, ok := names[*conv.OldAssignment]; ok {
			delete(names, *conv.OldAssignment)
			names[*conv.NewAssignment] = name
		}
	}
	if conv.has(OpAssignmentDelete) && conv.DeleteAssignment != nil {
		delete(names, *conv.DeleteAssignment)
	}
	newMeta := gmod.NewNodeMetadata(
		meta.Category, meta.Type, meta.Name,
		meta.CommonName, meta.Definition, meta.CommonDefinition,
		meta.InstallSubstructure, names,
	)
	return n.WithMetadata(newMeta)
}
