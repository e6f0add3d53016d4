package merge

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tripdocs/tripdocs/internal/tracker"
)

func TestEligible_OnlyUserModifiedFields(t *testing.T) {
	tr := tracker.New("s")
	tr.MarkPreFilled("A", "x")
	tr.MarkPreFilled("B", "y")
	tr.MarkUserModified("B", "z")

	got := Eligible(map[string]string{"A": "x", "B": "z"}, tr, nil)

	assert.Equal(t, map[string]string{"B": "z"}, got, "loaded-only fields are never re-written")
}

func TestEligible_EmptyValuesFiltered(t *testing.T) {
	tr := tracker.New("s")
	tr.MarkUserModified("fullName", "")
	tr.MarkUserModified("nationality", "USA")

	got := Eligible(map[string]string{"fullName": "", "nationality": "USA"}, tr, nil)

	assert.Equal(t, map[string]string{"nationality": "USA"}, got,
		"clearing a field must not persist a blank over the stored value")
}

func TestEligible_AlwaysSaveWinsOverInteractionState(t *testing.T) {
	tr := tracker.New("s")
	tr.MarkPreFilled("id", "p1")

	got := Eligible(map[string]string{"id": "p1", "fullName": "loaded"}, tr, []string{"id"})

	assert.Equal(t, map[string]string{"id": "p1"}, got)
}

func TestEligible_UntouchedFormProducesNothing(t *testing.T) {
	tr := tracker.New("s")
	tr.MarkPreFilled("A", "x")
	tr.MarkPreFilled("B", "y")

	got := Eligible(map[string]string{"A": "x", "B": "y"}, tr, nil)

	assert.Empty(t, got, "an empty result means no storage call at all")
}

func TestEligible_ModifiedThenUnknownFields(t *testing.T) {
	tr := tracker.New("s")
	tr.MarkUserModified("B", "z")

	// a form field the tracker never saw is untouched by definition
	got := Eligible(map[string]string{"B": "z", "C": "stale"}, tr, nil)

	assert.Equal(t, map[string]string{"B": "z"}, got)
}
