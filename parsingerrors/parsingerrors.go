// Package parsingerrors implements the stage-tagged error accumulator used
// by tolerant parsers across the module (spec.md §4.I).
//
// Grounded on
// _examples/original_source/cpp/include/dnv/vista/sdk/LocalIdParsingErrorBuilder.h
// and the LocationParsingErrorBuilder referenced alongside it; the two
// domains share one underlying ordered-list shape but expose distinct
// closed stage enumerations.
package parsingerrors

import "strings"

// Stage is the closed set of LocalId parsing stages.
type Stage string

const (
	StageNamingRule      Stage = "NamingRule"
	StageVisVersion      Stage = "VisVersion"
	StagePrimaryItem     Stage = "PrimaryItem"
	StageSecondaryItem   Stage = "SecondaryItem"
	StageItemDescription Stage = "ItemDescription"
	StageMetaQuantity    Stage = "MetaQuantity"
	StageMetaContent     Stage = "MetaContent"
	StageMetaCalculation Stage = "MetaCalculation"
	StageMetaState       Stage = "MetaState"
	StageMetaCommand     Stage = "MetaCommand"
	StageMetaType        Stage = "MetaType"
	StageMetaPosition    Stage = "MetaPosition"
	StageMetaDetail      Stage = "MetaDetail"
	StageEmptyState      Stage = "EmptyState"
	StageFormatting      Stage = "Formatting"
	StageCompleteness    Stage = "Completeness"
	StageNamingEntity    Stage = "NamingEntity"
	StageIMONumber       Stage = "IMONumber"
)

// defaultMessages supplies a standard message when addError omits one.
var defaultMessages = map[Stage]string{
	StageNamingRule:      "invalid naming rule",
	StageVisVersion:      "invalid or missing VIS version",
	StagePrimaryItem:     "invalid primary item",
	StageSecondaryItem:   "invalid secondary item",
	StageItemDescription: "invalid item description",
	StageMetaQuantity:    "invalid quantity metadata tag",
	StageMetaContent:     "invalid content metadata tag",
	StageMetaCalculation: "invalid calculation metadata tag",
	StageMetaState:       "invalid state metadata tag",
	StageMetaCommand:     "invalid command metadata tag",
	StageMetaType:        "invalid type metadata tag",
	StageMetaPosition:    "invalid position metadata tag",
	StageMetaDetail:      "invalid detail metadata tag",
	StageEmptyState:      "local ID has no metadata tags",
	StageFormatting:      "malformed local ID string",
	StageCompleteness:    "local ID is missing required segments",
	StageNamingEntity:    "invalid naming entity",
	StageIMONumber:       "invalid IMO number",
}

// LocationResult is the closed outcome set produced by location parsing.
type LocationResult string

const (
	ResultInvalid          LocationResult = "Invalid"
	ResultInvalidCode      LocationResult = "InvalidCode"
	ResultInvalidOrder     LocationResult = "InvalidOrder"
	ResultNullOrWhiteSpace LocationResult = "NullOrWhiteSpace"
	ResultValid            LocationResult = "Valid"
)

// Entry is one (tag, message) pair. Tag is either a Stage string or a
// LocationResult string depending on which builder produced it.
type Entry struct {
	Tag     string
	Message string
}

// Errors is the immutable, order-sensitive list a builder flattens to.
// Empty() is the canonical success value; two Errors are equal iff their
// entries are equal pairwise, in order.
type Errors struct {
	entries []Entry
}

// Empty returns the canonical zero-error instance.
func Empty() *Errors {
	return &Errors{}
}

// FromEntry builds a single-entry Errors value directly, for callers (such
// as package pathparser) that translate an already-constructed error into
// the accumulator shape rather than driving one of the stage-specific
// builders above.
func FromEntry(tag, message string) *Errors {
	return &Errors{entries: []Entry{{Tag: tag, Message: message}}}
}

// HasErrors reports whether any entry was recorded.
func (e *Errors) HasErrors() bool {
	return e != nil && len(e.entries) > 0
}

// Entries returns the ordered entry list; callers must not mutate it.
func (e *Errors) Entries() []Entry {
	if e == nil {
		return nil
	}
	return e.entries
}

// Equal reports structural, order-sensitive equality.
func (e *Errors) Equal(other *Errors) bool {
	a, b := e.Entries(), other.Entries()
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func (e *Errors) String() string {
	if !e.HasErrors() {
		return "(no errors)"
	}
	parts := make([]string, 0, len(e.entries))
	for _, ent := range e.entries {
		parts = append(parts, ent.Tag+": "+ent.Message)
	}
	return strings.Join(parts, "; ")
}

// LocalIdBuilder accumulates stage-tagged LocalId parsing errors. It is
// move-only in spirit: once Build is called the builder should not be
// reused (the zero value after Build still works, it just starts fresh).
type LocalIdBuilder struct {
	entries []Entry
}

// NewLocalIdBuilder returns an empty builder.
func NewLocalIdBuilder() *LocalIdBuilder {
	return &LocalIdBuilder{}
}

// AddError appends a stage failure. When message is empty the accumulator
// substitutes Stage's standard message.
func (b *LocalIdBuilder) AddError(stage Stage, message ...string) *LocalIdBuilder {
	msg := ""
	if len(message) > 0 {
		msg = message[0]
	}
	if msg == "" {
		msg = defaultMessages[stage]
	}
	b.entries = append(b.entries, Entry{Tag: string(stage), Message: msg})
	return b
}

// Build flattens the builder to its final Errors value.
func (b *LocalIdBuilder) Build() *Errors {
	if b == nil || len(b.entries) == 0 {
		return Empty()
	}
	out := make([]Entry, len(b.entries))
	copy(out, b.entries)
	return &Errors{entries: out}
}

// LocationBuilder accumulates LocationResult-tagged location parsing
// errors, one entry per validation failure encountered while scanning a
// location string (package location drives this).
type LocationBuilder struct {
	entries []Entry
}

// NewLocationBuilder returns an empty builder.
func NewLocationBuilder() *LocationBuilder {
	return &LocationBuilder{}
}

// AddError appends a location validation failure.
func (b *LocationBuilder) AddError(result LocationResult, message string) *LocationBuilder {
	b.entries = append(b.entries, Entry{Tag: string(result), Message: message})
	return b
}

// Build flattens the builder to its final Errors value.
func (b *LocationBuilder) Build() *Errors {
	if b == nil || len(b.entries) == 0 {
		return Empty()
	}
	out := make([]Entry, len(b.entries))
	copy(out, b.entries)
	return &Errors{entries: out}
}
