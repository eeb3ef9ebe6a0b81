// Package dto decodes the JSON resource files the VIS facade consumes:
// GMOD, Locations, and per-version Versioning tables. This package is an
// external collaborator per spec.md §1 ("the DTO layer that decodes JSON
// resource files into plain data... embedded resource loading") - it owns
// no graph semantics, only the wire shape named in spec.md §6.
//
// Field names are grounded on
// _examples/original_source/cpp/include/dnv/vista/sdk/Config/DtoKeysConstants.h
// and must not be renamed without treating it as a breaking compatibility
// change (spec.md §6).
package dto

import (
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/ronan-fesselier/vista-sdk-sub002/errs"
)

// GmodNodeItem is one entry in a GMOD resource's "items" array.
type GmodNodeItem struct {
	Category             string            `json:"category"`
	Type                 string            `json:"type"`
	Code                 string            `json:"code"`
	Name                 string            `json:"name"`
	CommonName           *string           `json:"commonName,omitempty"`
	Definition           *string           `json:"definition,omitempty"`
	CommonDefinition     *string           `json:"commonDefinition,omitempty"`
	InstallSubstructure  *bool             `json:"installSubstructure,omitempty"`
	NormalAssignmentNames map[string]string `json:"normalAssignmentNames,omitempty"`
}

// GmodRelation is a [parentCode, childCode] pair.
type GmodRelation [2]string

// GmodDto is the root shape of a GMOD resource file.
type GmodDto struct {
	VisRelease string         `json:"visRelease"`
	Items      []GmodNodeItem `json:"items"`
	Relations  []GmodRelation `json:"relations"`
}

// LocationItem is one entry in a Locations resource's "items" array.
type LocationItem struct {
	Code       string  `json:"code"`
	Name       string  `json:"name"`
	Definition *string `json:"definition,omitempty"`
}

// LocationsDto is the root shape of a Locations resource file.
type LocationsDto struct {
	VisRelease string         `json:"visRelease"`
	Items      []LocationItem `json:"items"`
}

// GmodVersioningItem is one rewrite rule keyed by source node code in a
// Versioning resource.
type GmodVersioningItem struct {
	Operations        []string `json:"operations"`
	Source            string   `json:"source"`
	Target            *string  `json:"target,omitempty"`
	OldAssignment     *string  `json:"oldAssignment,omitempty"`
	CurrentAssignment *string  `json:"currentAssignment,omitempty"`
	NewAssignment     *string  `json:"newAssignment,omitempty"`
	DeleteAssignment  *string  `json:"deleteAssignment,omitempty"`
}

// GmodVersioningDto is the root shape of a per-source-version Versioning
// resource file: a map keyed by the source node code.
type GmodVersioningDto struct {
	VisRelease string                        `json:"visRelease"`
	Items      map[string]GmodVersioningItem `json:"items"`
}

// ResourceProvider supplies the raw JSON bytes for a named resource. The
// VIS facade (package vis) is constructed with one; this keeps "does not
// expose any network or file API" (spec.md §1) true of the core while
// still letting a caller wire embed.FS, an HTTP fetch, or a test fixture.
type ResourceProvider func(name string) ([]byte, error)

// Decoder validates resource bytes against an embedded JSON Schema before
// unmarshalling, so a malformed resource fails with errs.ParseError at the
// boundary instead of panicking deep inside Gmod/Locations construction.
type Decoder struct {
	schemas map[string]*jsonschema.Schema
}

// NewDecoder compiles the schemas keyed by resource kind ("gmod",
// "locations", "versioning"). A nil or missing schema for a kind disables
// validation for that kind (schema is optional hardening, not a contract).
func NewDecoder(schemas map[string]*jsonschema.Schema) *Decoder {
	return &Decoder{schemas: schemas}
}

func (d *Decoder) validate(kind string, raw []byte) error {
	if d == nil || d.schemas == nil {
		return nil
	}
	sch, ok := d.schemas[kind]
	if !ok || sch == nil {
		return nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return errs.NewParseError("Formatting", "invalid JSON for %s resource: %v", kind, err)
	}
	if err := sch.Validate(v); err != nil {
		return errs.Wrap(errs.ParseError, errors.WithStack(err), "%s resource failed schema validation", kind)
	}
	return nil
}

// DecodeGmod validates and decodes a GMOD resource.
func (d *Decoder) DecodeGmod(raw []byte) (*GmodDto, error) {
	if err := d.validate("gmod", raw); err != nil {
		return nil, err
	}
	var out GmodDto
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, errs.NewParseError("Formatting", "decode gmod resource: %v", err)
	}
	return &out, nil
}

// DecodeLocations validates and decodes a Locations resource.
func (d *Decoder) DecodeLocations(raw []byte) (*LocationsDto, error) {
	if err := d.validate("locations", raw); err != nil {
		return nil, err
	}
	var out LocationsDto
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, errs.NewParseError("Formatting", "decode locations resource: %v", err)
	}
	return &out, nil
}

// DecodeVersioning validates and decodes a per-source-version Versioning
// resource.
func (d *Decoder) DecodeVersioning(raw []byte) (*GmodVersioningDto, error) {
	if err := d.validate("versioning", raw); err != nil {
		return nil, err
	}
	var out GmodVersioningDto
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, errs.NewParseError("Formatting", "decode versioning resource: %v", err)
	}
	return &out, nil
}

// CompileSchema compiles a single JSON Schema document, for callers wiring
// NewDecoder from embedded schema files.
func CompileSchema(url string, schemaJSON []byte) (*jsonschema.Schema, error) {
	c := jsonschema.NewCompiler()
	if err := c.AddResource(url, mustDecodeAny(schemaJSON)); err != nil {
		return nil, fmt.Errorf("add schema resource %s: %w", url, err)
	}
	return c.Compile(url)
}

func mustDecodeAny(raw []byte) any {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		panic(fmt.Sprintf("dto: embedded schema is not valid JSON: %v", err))
	}
	return v
}
