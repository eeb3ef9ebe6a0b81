package location

import (
	"fmt"

	"github.com/ronan-fesselier/vista-sdk-sub002/dto"
	"github.com/ronan-fesselier/vista-sdk-sub002/errs"
	"github.com/ronan-fesselier/vista-sdk-sub002/parsingerrors"
	"github.com/ronan-fesselier/vista-sdk-sub002/visversion"
)

// Locations is the per-version lookup table of RelativeLocations, and the
// entry point for parsing/validating location strings against that
// version's grammar (spec.md §4.B, §4.J).
type Locations struct {
	visVersion        visversion.VisVersion
	relativeLocations map[byte]RelativeLocation
}

// NewLocations builds the table from a decoded Locations resource. Any
// code that is neither a digit, H, V, nor a grouped letter fails
// construction with errs.InvalidArgument (spec.md §9 supplemented feature 7,
// grounded on Locations.cpp's "Unsupported code: <c>" diagnostic).
func NewLocations(version visversion.VisVersion, d *dto.LocationsDto) (*Locations, error) {
	table := make(map[byte]RelativeLocation, len(d.Items))
	for _, item := range d.Items {
		if len(item.Code) != 1 {
			return nil, errs.New(errs.InvalidArgument, "relative location code %q must be a single character", item.Code)
		}
		code := item.Code[0]
		if !isSupportedCode(code) {
			return nil, errs.New(errs.InvalidArgument, "Unsupported code: %c", code)
		}
		table[code] = RelativeLocation{
			Code:       code,
			Name:       item.Name,
			Definition: item.Definition,
			Location:   Location{value: item.Code},
		}
	}
	return &Locations{visVersion: version, relativeLocations: table}, nil
}

func isSupportedCode(c byte) bool {
	if c >= '0' && c <= '9' {
		return true
	}
	if c == 'H' || c == 'V' {
		return true
	}
	_, ok := groupOf(c)
	return ok
}

// VisVersion returns the VIS version this table was built for.
func (l *Locations) VisVersion() visversion.VisVersion {
	return l.visVersion
}

// RelativeLocations returns every known relative location, in table order.
func (l *Locations) RelativeLocations() []RelativeLocation {
	out := make([]RelativeLocation, 0, len(l.relativeLocations))
	for _, v := range l.relativeLocations {
		out = append(out, v)
	}
	return out
}

// Parse validates s against the grammar, raising errs.ParseError on
// violation. Use TryParse for a tolerant variant.
func (l *Locations) Parse(s string) (Location, error) {
	loc, errors := validate(s)
	if errors.HasErrors() {
		first := errors.Entries()[0]
		return Location{}, errs.NewParseError(first.Tag, first.Message)
	}
	return loc, nil
}

// TryParse validates s against the grammar without allocating an error;
// errors (if any) are reported via the accumulator.
func (l *Locations) TryParse(s string) (Location, bool, *parsingerrors.Errors) {
	loc, errors := validate(s)
	if errors.HasErrors() {
		return Location{}, false, errors
	}
	return loc, true, parsingerrors.Empty()
}

// TryParseInt exposes the digit-prefix scanner used by the grammar and by
// LocationBuilder.WithValue(int).
func TryParseInt(s string) (value int, consumed int, ok bool) {
	return tryParseInt(s)
}

// GroupName is a small formatting helper for diagnostics; exported so
// callers building their own messages (e.g. the CLI) match the wording used
// by the grammar.
func GroupName(g Group) string {
	return fmt.Sprintf("%s", g)
}
