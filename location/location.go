// Package location implements the multi-axis alphanumeric location grammar
// (spec.md §4.B), the Location and RelativeLocation value objects, the
// immutable LocationBuilder, and the per-version Locations lookup table.
//
// Grounded on
// _examples/original_source/cpp/include/dnv/vista/sdk/Locations.h,
// Locations.cpp (grammar and exact diagnostic strings), and
// LocationBuilder.h (the fully-immutable fluent API).
package location

// Location is an immutable value object wrapping a validated location
// string. Two locations are equal when their strings are equal.
type Location struct {
	value string
}

// String returns the wrapped, already-validated string form.
func (l Location) String() string {
	return l.value
}

// IsZero reports whether l is the zero value (no location set).
func (l Location) IsZero() bool {
	return l.value == ""
}

// Equal reports value equality.
func (l Location) Equal(other Location) bool {
	return l.value == other.value
}

// RelativeLocation is a single-character entry from the Locations resource
// table: code, name, optional definition, and the equivalent Location
// value. Equality uses Code only (spec.md §3).
type RelativeLocation struct {
	Code       byte
	Name       string
	Definition *string
	Location   Location
}

// Equal compares two RelativeLocations by Code only.
func (r RelativeLocation) Equal(other RelativeLocation) bool {
	return r.Code == other.Code
}
