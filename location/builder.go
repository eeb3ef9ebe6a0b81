package location

import (
	"sort"
	"strconv"
	"strings"

	"github.com/ronan-fesselier/vista-sdk-sub002/internal/invariant"
)

// Builder is an immutable fluent constructor for location strings
// (spec.md §4.B "LocationBuilder"). Every With*/Without* method returns a
// new Builder value; none mutate the receiver - this replaces the source's
// const-method-returning-by-value idiom with a Go value type passed by
// value, per spec.md §9 ("Deep inheritance... Replace with tagged unions
// and pure value builders").
type Builder struct {
	number       *int
	side         *byte
	vertical     *byte
	transverse   *byte
	longitudinal *byte
}

// NewBuilder returns the empty builder.
func NewBuilder() Builder {
	return Builder{}
}

// WithNumber sets the numeric prefix. Panics (precondition violation) if n < 1.
func (b Builder) WithNumber(n int) Builder {
	invariant.Precondition(n >= 1, "location number must be >= 1, got %d", n)
	v := n
	b.number = &v
	return b
}

// WithoutNumber clears the numeric prefix.
func (b Builder) WithoutNumber() Builder {
	b.number = nil
	return b
}

// WithSide sets the Side-group character. Panics if c is not P, C, or S.
func (b Builder) WithSide(c byte) Builder {
	b.side = withGroupChar(Side, c)
	return b
}

// WithoutSide clears the Side-group character.
func (b Builder) WithoutSide() Builder {
	b.side = nil
	return b
}

// WithVertical sets the Vertical-group character. Panics if c is not U, M, or L.
func (b Builder) WithVertical(c byte) Builder {
	b.vertical = withGroupChar(Vertical, c)
	return b
}

// WithoutVertical clears the Vertical-group character.
func (b Builder) WithoutVertical() Builder {
	b.vertical = nil
	return b
}

// WithTransverse sets the Transverse-group character. Panics if c is not I or O.
func (b Builder) WithTransverse(c byte) Builder {
	b.transverse = withGroupChar(Transverse, c)
	return b
}

// WithoutTransverse clears the Transverse-group character.
func (b Builder) WithoutTransverse() Builder {
	b.transverse = nil
	return b
}

// WithLongitudinal sets the Longitudinal-group character. Panics if c is not F or A.
func (b Builder) WithLongitudinal(c byte) Builder {
	b.longitudinal = withGroupChar(Longitudinal, c)
	return b
}

// WithoutLongitudinal clears the Longitudinal-group character.
func (b Builder) WithoutLongitudinal() Builder {
	b.longitudinal = nil
	return b
}

func withGroupChar(want Group, c byte) *byte {
	g, ok := groupOf(c)
	invariant.Precondition(ok && g == want, "%c is not a valid %s value", c, want)
	v := c
	return &v
}

// WithValue dispatches a single character by the group it belongs to,
// mirroring the source's overloaded withValue(char). Panics if c is not a
// recognized grouped letter.
func (b Builder) WithValue(c byte) Builder {
	g, ok := groupOf(c)
	invariant.Precondition(ok, "%c is not a valid location character", c)
	switch g {
	case Side:
		b.side = &c
	case Vertical:
		b.vertical = &c
	case Transverse:
		b.transverse = &c
	case Longitudinal:
		b.longitudinal = &c
	}
	return b
}

// WithValueInt is an alias for WithNumber, matching the source's
// withValue(int) overload.
func (b Builder) WithValueInt(n int) Builder {
	return b.WithNumber(n)
}

// WithoutValue clears whichever component belongs to the given group.
func (b Builder) WithoutValue(g Group) Builder {
	switch g {
	case Number:
		b.number = nil
	case Side:
		b.side = nil
	case Vertical:
		b.vertical = nil
	case Transverse:
		b.transverse = nil
	case Longitudinal:
		b.longitudinal = nil
	}
	return b
}

// WithLocation resets the builder to the components described by an
// already-parsed Location, so existing locations can be edited fluently.
func (b Builder) WithLocation(l Location) Builder {
	nb := NewBuilder()
	raw := l.String()
	if n, consumed, ok := tryParseInt(raw); ok {
		v := n
		nb.number = &v
		raw = raw[consumed:]
	}
	for i := 0; i < len(raw); i++ {
		nb = nb.WithValue(raw[i])
	}
	return nb
}

// Build emits the canonical string form: the numeric prefix (if any)
// followed by the set components sorted alphabetically, matching the
// grammar's required ordering (spec.md §4.B rule 6).
func (b Builder) Build() Location {
	var sb strings.Builder
	if b.number != nil {
		sb.WriteString(strconv.Itoa(*b.number))
	}
	letters := make([]byte, 0, 4)
	for _, c := range []*byte{b.side, b.vertical, b.transverse, b.longitudinal} {
		if c != nil {
			letters = append(letters, *c)
		}
	}
	sort.Slice(letters, func(i, j int) bool { return letters[i] < letters[j] })
	for _, c := range letters {
		sb.WriteByte(c)
	}
	return Location{value: sb.String()}
}
