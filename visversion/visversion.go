// Package visversion models the closed ordinal set of VIS releases and the
// surface-form grammar used to parse and emit version strings.
//
// Grounded on _examples/original_source/cpp/include/dnv/vista/sdk/VISVersion.h
// (VisVersion enum, VisVersionExtensions).
package visversion

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/ronan-fesselier/vista-sdk-sub002/errs"
)

// VisVersion is a closed ordinal enumeration of VIS releases. Ordering is
// total: the underlying integer values are monotonically increasing with
// release recency, matching the C++ enum's numeric encoding (3400..3800).
type VisVersion int

const (
	Unknown VisVersion = 0

	V3_4a VisVersion = 3400
	V3_5a VisVersion = 3500
	V3_6a VisVersion = 3600
	V3_7a VisVersion = 3700
	V3_8a VisVersion = 3800

	Latest = V3_8a
)

var ordered = []VisVersion{V3_4a, V3_5a, V3_6a, V3_7a, V3_8a}

var versionStrings = map[VisVersion]string{
	V3_4a: "3-4a",
	V3_5a: "3-5a",
	V3_6a: "3-6a",
	V3_7a: "3-7a",
	V3_8a: "3-8a",
}

// surfaceForm accepts "3.<N>a", "3-<N>a", "vis-3-<N>a", "vis-3.<N>a" for
// N in {4,5,6,7,8}, per spec.md §6.
var surfaceForm = regexp.MustCompile(`^(?:vis-)?3[.-]([4-8])a$`)

// IsValid reports whether v is one of the known, non-Unknown releases.
func IsValid(v VisVersion) bool {
	for _, c := range ordered {
		if c == v {
			return true
		}
	}
	return false
}

// AllVersions returns every valid VisVersion in ascending order.
func AllVersions() []VisVersion {
	out := make([]VisVersion, len(ordered))
	copy(out, ordered)
	return out
}

// LatestVersion returns the newest known release.
func LatestVersion() VisVersion {
	return Latest
}

// String renders the canonical emitted form "3-<N>a".
func (v VisVersion) String() string {
	if s, ok := versionStrings[v]; ok {
		return s
	}
	return "unknown"
}

// Less reports whether v is strictly older than other.
func (v VisVersion) Less(other VisVersion) bool {
	return v < other
}

// Parse parses one of the accepted surface forms, failing with
// errs.InvalidArgument on an unrecognized string.
func Parse(s string) (VisVersion, error) {
	v, ok := TryParse(s)
	if !ok {
		return Unknown, errs.New(errs.InvalidArgument, "invalid VIS version string %q", s)
	}
	return v, nil
}

// TryParse parses one of the accepted surface forms without allocating an
// error; ok is false for any unrecognized string.
func TryParse(s string) (v VisVersion, ok bool) {
	m := surfaceForm.FindStringSubmatch(s)
	if m == nil {
		return Unknown, false
	}
	digit := int(m[1][0] - '0')
	candidate := VisVersion(3000 + digit*100)
	if !IsValid(candidate) {
		return Unknown, false
	}
	return candidate, true
}

// MustParse panics on an invalid version string; intended for tests and
// constant-like call sites, never for untrusted input.
func MustParse(s string) VisVersion {
	v, err := Parse(s)
	if err != nil {
		panic(fmt.Sprintf("visversion: %v", err))
	}
	return v
}

// SortedStrings returns every valid version's canonical string, ascending -
// convenience for diagnostics and CLI listings.
func SortedStrings() []string {
	out := make([]string, 0, len(ordered))
	for _, v := range ordered {
		out = append(out, v.String())
	}
	sort.Strings(out)
	return out
}
