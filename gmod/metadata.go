// Package gmod implements the Generic Product Model graph: node metadata,
// the Node value type, and the Gmod container that owns every node and
// wires parent/child relations (spec.md §4.C, data model §3).
//
// Grounded on
// _examples/original_source/cpp/include/dnv/vista/sdk/GmodNode.h and Gmod.h.
package gmod

// NodeMetadata is the immutable descriptive payload of a GMOD node
// (spec.md §3 "GMOD node metadata").
type NodeMetadata struct {
	Category              string
	Type                  string
	FullType              string
	Name                  string
	CommonName            *string
	Definition            *string
	CommonDefinition      *string
	InstallSubstructure   *bool
	NormalAssignmentNames map[string]string
}

// NewNodeMetadata constructs a NodeMetadata, deriving FullType = category +
// " " + type as spec.md §3 requires.
func NewNodeMetadata(
	category, typ, name string,
	commonName, definition, commonDefinition *string,
	installSubstructure *bool,
	normalAssignmentNames map[string]string,
) NodeMetadata {
	if normalAssignmentNames == nil {
		normalAssignmentNames = map[string]string{}
	}
	return NodeMetadata{
		Category:              category,
		Type:                  typ,
		FullType:              category + " " + typ,
		Name:                  name,
		CommonName:            commonName,
		Definition:            definition,
		CommonDefinition:      commonDefinition,
		InstallSubstructure:   installSubstructure,
		NormalAssignmentNames: normalAssignmentNames,
	}
}

// Equal compares every field, including map contents.
func (m NodeMetadata) Equal(other NodeMetadata) bool {
	if m.Category != other.Category || m.Type != other.Type || m.Name != other.Name {
		return false
	}
	if !equalStringPtr(m.CommonName, other.CommonName) ||
		!equalStringPtr(m.Definition, other.Definition) ||
		!equalStringPtr(m.CommonDefinition, other.CommonDefinition) {
		return false
	}
	if (m.InstallSubstructure == nil) != (other.InstallSubstructure == nil) {
		return false
	}
	if m.InstallSubstructure != nil && *m.InstallSubstructure != *other.InstallSubstructure {
		return false
	}
	if len(m.NormalAssignmentNames) != len(other.NormalAssignmentNames) {
		return false
	}
	for k, v := range m.NormalAssignmentNames {
		if other.NormalAssignmentNames[k] != v {
			return false
		}
	}
	return true
}

func equalStringPtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
