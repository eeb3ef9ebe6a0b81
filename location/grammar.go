package location

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ronan-fesselier/vista-sdk-sub002/parsingerrors"
)

// validate runs the rules of spec.md §4.B in order and returns either a
// valid Location or the accumulated parsingerrors.Errors describing every
// violation found. Messages are grounded verbatim on
// _examples/original_source/cpp/src/dnv/vista/sdk/Locations.cpp.
func validate(str string) (Location, *parsingerrors.Errors) {
	b := parsingerrors.NewLocationBuilder()

	if strings.TrimSpace(str) == "" {
		b.AddError(parsingerrors.ResultNullOrWhiteSpace, "Invalid location: contains only whitespace")
		return Location{}, b.Build()
	}

	var (
		letterSeen       bool
		digitSeen        bool
		orderErrorAdded  bool
		gapErrorAdded    bool
		invalidChars     []byte
		usedGroup        = map[Group]byte{}
		letters          []byte
	)

	for i := 0; i < len(str); i++ {
		c := str[i]
		if c >= '0' && c <= '9' {
			if letterSeen {
				if digitSeen && !gapErrorAdded {
					b.AddError(parsingerrors.ResultInvalid,
						fmt.Sprintf("Invalid location: cannot have multiple separated digits in location: '%s'", str))
					gapErrorAdded = true
				} else if !digitSeen && !orderErrorAdded {
					b.AddError(parsingerrors.ResultInvalidOrder,
						fmt.Sprintf("Invalid location: numeric location should start before location code(s) in location: '%s'", str))
					orderErrorAdded = true
				}
			}
			digitSeen = true
			continue
		}

		letterSeen = true
		g, ok := groupOf(c)
		if !ok {
			invalidChars = append(invalidChars, c)
			continue
		}
		if prev, exists := usedGroup[g]; exists {
			b.AddError(parsingerrors.ResultInvalid,
				fmt.Sprintf("Invalid location: Multiple '%s' values. Got both '%c' and '%c' in '%s'", g, prev, c, str))
			continue
		}
		usedGroup[g] = c
		letters = append(letters, c)
	}

	if len(invalidChars) > 0 {
		b.AddError(parsingerrors.ResultInvalidCode, fmt.Sprintf(
			"Invalid location code: '%s' with invalid location code(s): %s", str, quoteJoin(invalidChars)))
	}

	if !sorted(letters) {
		b.AddError(parsingerrors.ResultInvalidOrder, fmt.Sprintf("Invalid location: '%s' not alphabetically sorted", str))
	}

	errs := b.Build()
	if errs.HasErrors() {
		return Location{}, errs
	}
	return Location{value: str}, parsingerrors.Empty()
}

func sorted(letters []byte) bool {
	for i := 1; i < len(letters); i++ {
		if letters[i] <= letters[i-1] {
			return false
		}
	}
	return true
}

func quoteJoin(chars []byte) string {
	parts := make([]string, len(chars))
	for i, c := range chars {
		parts[i] = "'" + string(c) + "'"
	}
	return strings.Join(parts, ",")
}

// tryParseInt scans a leading run of digits, returning the parsed value
// and how many bytes it consumed. Shared by the grammar's digit-prefix
// rule and LocationBuilder.WithValue(int) validation (spec.md §9
// supplemented feature 5).
func tryParseInt(s string) (value int, consumed int, ok bool) {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 0 {
		return 0, 0, false
	}
	n, err := strconv.Atoi(s[:i])
	if err != nil {
		return 0, 0, false
	}
	return n, i, true
}
