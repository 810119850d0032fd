package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompetencyLevel_Ordering(t *testing.T) {
	assert.True(t, NotAssessed < NotCompetent)
	assert.True(t, NotCompetent < AdvancedBeginner)
	assert.True(t, AdvancedBeginner < Competent)
	assert.True(t, Competent < Proficient)
	assert.True(t, Proficient < Expert)
}

func TestCompetencyLevel_IsCompetent(t *testing.T) {
	assert.False(t, NotAssessed.IsCompetent())
	assert.False(t, NotCompetent.IsCompetent())
	assert.False(t, AdvancedBeginner.IsCompetent())
	assert.True(t, Competent.IsCompetent())
	assert.True(t, Proficient.IsCompetent())
	assert.True(t, Expert.IsCompetent())
}

func TestParseCompetencyLevel_RoundTrip(t *testing.T) {
	for _, level := range []CompetencyLevel{NotAssessed, NotCompetent, AdvancedBeginner, Competent, Proficient, Expert} {
		assert.Equal(t, level, ParseCompetencyLevel(level.String()))
	}
}

func TestParseCompetencyLevel_UnknownMapsToNotAssessed(t *testing.T) {
	assert.Equal(t, NotAssessed, ParseCompetencyLevel("wizard"))
	assert.False(t, ParseCompetencyLevel("wizard").IsCompetent())
}

func TestShiftEntry_SameSlot(t *testing.T) {
	a := ShiftEntry{CarerID: "c1", PackageID: "p1", Date: "2025-06-12"}

	assert.True(t, a.SameSlot(&ShiftEntry{CarerID: "c1", PackageID: "p1", Date: "2025-06-12", ShiftType: ShiftNight}))
	assert.False(t, a.SameSlot(&ShiftEntry{CarerID: "c2", PackageID: "p1", Date: "2025-06-12"}))
	assert.False(t, a.SameSlot(&ShiftEntry{CarerID: "c1", PackageID: "p2", Date: "2025-06-12"}))
	assert.False(t, a.SameSlot(&ShiftEntry{CarerID: "c1", PackageID: "p1", Date: "2025-06-13"}))
}
