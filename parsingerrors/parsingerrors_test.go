package parsingerrors_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ronan-fesselier/vista-sdk-sub002/parsingerrors"
)

func TestEmptyHasNoErrors(t *testing.T) {
	e := parsingerrors.Empty()
	if e.HasErrors() {
		t.Fatal("Empty() should report no errors")
	}
	if diff := cmp.Diff("(no errors)", e.String()); diff != "" {
		t.Fatalf("String() mismatch (-want +got):\n%s", diff)
	}
}

func TestLocalIdBuilderDefaultMessage(t *testing.T) {
	b := parsingerrors.NewLocalIdBuilder()
	b.AddError(parsingerrors.StageVisVersion)
	got := b.Build()

	want := []parsingerrors.Entry{
		{Tag: "VisVersion", Message: "invalid or missing VIS version"},
	}
	if diff := cmp.Diff(want, got.Entries()); diff != "" {
		t.Fatalf("entries mismatch (-want +got):\n%s", diff)
	}
}

func TestLocalIdBuilderExplicitMessage(t *testing.T) {
	b := parsingerrors.NewLocalIdBuilder()
	b.AddError(parsingerrors.StagePrimaryItem, "custom detail")
	got := b.Build()

	want := []parsingerrors.Entry{
		{Tag: "PrimaryItem", Message: "custom detail"},
	}
	if diff := cmp.Diff(want, got.Entries()); diff != "" {
		t.Fatalf("entries mismatch (-want +got):\n%s", diff)
	}
}

func TestLocalIdBuilderPreservesInsertionOrder(t *testing.T) {
	b := parsingerrors.NewLocalIdBuilder()
	b.AddError(parsingerrors.StageNamingRule).
		AddError(parsingerrors.StageMetaQuantity).
		AddError(parsingerrors.StageCompleteness)
	got := b.Build()

	want := []parsingerrors.Entry{
		{Tag: "NamingRule", Message: "invalid naming rule"},
		{Tag: "MetaQuantity", Message: "invalid quantity metadata tag"},
		{Tag: "Completeness", Message: "local ID is missing required segments"},
	}
	if diff := cmp.Diff(want, got.Entries()); diff != "" {
		t.Fatalf("entries mismatch (-want +got):\n%s", diff)
	}
}

func TestLocalIdBuilderEmptyBuildEqualsCanonicalEmpty(t *testing.T) {
	got := parsingerrors.NewLocalIdBuilder().Build()
	if !got.Equal(parsingerrors.Empty()) {
		t.Fatal("empty builder should build to the canonical empty instance")
	}
}

func TestLocationBuilderAccumulatesByResult(t *testing.T) {
	b := parsingerrors.NewLocationBuilder()
	b.AddError(parsingerrors.ResultInvalidCode, "Invalid location code: 'XYZ' with invalid location code(s): 'X','Y','Z'")
	got := b.Build()

	want := []parsingerrors.Entry{
		{Tag: "InvalidCode", Message: "Invalid location code: 'XYZ' with invalid location code(s): 'X','Y','Z'"},
	}
	if diff := cmp.Diff(want, got.Entries()); diff != "" {
		t.Fatalf("entries mismatch (-want +got):\n%s", diff)
	}
}

func TestErrorsEqualIsStructuralAndOrderSensitive(t *testing.T) {
	a := parsingerrors.FromEntry("InvalidCode", "bad")
	b := parsingerrors.FromEntry("InvalidCode", "bad")
	if !a.Equal(b) {
		t.Fatal("equal entries in the same order should compare equal")
	}

	c := NewBuilderWith(t, "NamingRule", "x", "VisVersion", "y")
	d := NewBuilderWith(t, "VisVersion", "y", "NamingRule", "x")
	if c.Equal(d) {
		t.Fatal("same entries in a different order must not compare equal")
	}
}

func NewBuilderWith(t *testing.T, pairs ...string) *parsingerrors.Errors {
	t.Helper()
	if len(pairs)%2 != 0 {
		t.Fatalf("NewBuilderWith requires an even number of tag/message pairs, got %d", len(pairs))
	}
	b := parsingerrors.NewLocalIdBuilder()
	for i := 0; i < len(pairs); i += 2 {
		b.AddError(parsingerrors.Stage(pairs[i]), pairs[i+1])
	}
	return b.Build()
}

func TestErrorsStringJoinsEntries(t *testing.T) {
	e := parsingerrors.FromEntry("NodeLookup", "code not found")
	if diff := cmp.Diff("NodeLookup: code not found", e.String()); diff != "" {
		t.Fatalf("String() mismatch (-want +got):\n%s", diff)
	}
}
