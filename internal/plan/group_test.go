package plan

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lorax-tracker/internal/cycle"
	"lorax-tracker/internal/recommend"
)

func TestGroupAssignmentsMergesMaximalRuns(t *testing.T) {
	events := menses(date(2025, 8, 1))

	// Days 8-14: cycle days 8,9,10 are follicular/Power and 11-14 are
	// follicular/Manifestation.
	days := ProjectRange(events, date(2025, 8, 8), date(2025, 8, 14))
	groups := GroupAssignments(days)

	require.Len(t, groups, 2)
	assert.Equal(t, cycle.Power, groups[0].Functional)
	assert.Equal(t, 3, groups[0].Days())
	assert.Equal(t, 8, groups[0].StartCycleDay)
	assert.Equal(t, 10, groups[0].EndCycleDay)

	assert.Equal(t, cycle.Manifestation, groups[1].Functional)
	assert.Equal(t, 4, groups[1].Days())

	// Each group's successor comes from the following group.
	assert.Equal(t, cycle.Manifestation, groups[0].NextFunctional)
}

func TestGroupAssignmentsSplitsSecondPower(t *testing.T) {
	events := menses(date(2025, 8, 1))

	// Days 15-20: ovulation/Manifestation (15-17), luteal second Power
	// (18-19), luteal Nurture (20).
	days := ProjectRange(events, date(2025, 8, 15), date(2025, 8, 20))
	groups := GroupAssignments(days)

	require.Len(t, groups, 3)
	assert.False(t, groups[0].IsPowerPhaseSecondOccurrence)
	assert.Equal(t, 3, groups[0].Days())
	assert.True(t, groups[1].IsPowerPhaseSecondOccurrence)
	assert.Equal(t, cycle.Power, groups[1].Functional)
	assert.Equal(t, 2, groups[1].Days())
	assert.Equal(t, cycle.Nurture, groups[1].NextFunctional)
	assert.Equal(t, cycle.Nurture, groups[2].Functional)
}

func TestGroupAssignmentsLastGroupSynthesizesSuccessor(t *testing.T) {
	events := menses(date(2025, 8, 1))

	// A window entirely inside luteal Nurture: the successor has to be
	// synthesized from the phase order.
	days := ProjectRange(events, date(2025, 8, 21), date(2025, 8, 24))
	groups := GroupAssignments(days)

	require.Len(t, groups, 1)
	assert.Equal(t, cycle.Luteal, groups[0].Traditional)
	assert.Equal(t, cycle.Menstruation, groups[0].NextTraditional)
	assert.Equal(t, cycle.Power, groups[0].NextFunctional)
}

func TestGroupAssignmentsSecondPowerLastGroupForcesNurture(t *testing.T) {
	events := menses(date(2025, 8, 1))

	// A window ending inside the second Power occurrence: the next
	// functional phase is Nurture, never another Power run.
	days := ProjectRange(events, date(2025, 8, 18), date(2025, 8, 19))
	groups := GroupAssignments(days)

	require.Len(t, groups, 1)
	require.True(t, groups[0].IsPowerPhaseSecondOccurrence)
	assert.Equal(t, cycle.Nurture, groups[0].NextFunctional)
}

func TestAttachRecommendations(t *testing.T) {
	events := menses(date(2025, 8, 1))
	days := ProjectRange(events, date(2025, 8, 8), date(2025, 8, 14))
	groups := GroupAssignments(days)
	require.Len(t, groups, 2)

	builder := recommend.NewBuilder(nil, nil)
	AttachRecommendations(context.Background(), builder, "u1", groups)

	assert.Equal(t, "Ketobiotic", groups[0].Recommendations.DietaryStyle)
	require.NotNil(t, groups[0].NextPhaseRecommendations)
	assert.Equal(t, cycle.Manifestation, groups[0].NextPhaseRecommendations.Phase)
}

func TestAttachRecommendationsFinalGroupSameFunctionalPhase(t *testing.T) {
	// A window entirely inside menstruation transitions into follicular
	// with Power on both sides. The final group still carries the
	// successor's recommendations.
	events := menses(date(2025, 8, 1), date(2025, 8, 2), date(2025, 8, 3), date(2025, 8, 4))
	days := ProjectRange(events, date(2025, 8, 2), date(2025, 8, 4))
	groups := GroupAssignments(days)
	require.Len(t, groups, 1)
	assert.Equal(t, cycle.Power, groups[0].Functional)
	assert.Equal(t, cycle.Power, groups[0].NextFunctional)

	builder := recommend.NewBuilder(nil, nil)
	AttachRecommendations(context.Background(), builder, "u1", groups)

	require.NotNil(t, groups[0].NextPhaseRecommendations)
	assert.Equal(t, cycle.Power, groups[0].NextPhaseRecommendations.Phase)
}

func TestShowsNextPhasePreview(t *testing.T) {
	rec := recommend.PhaseRecommendations{Phase: cycle.Nurture}
	g := PhaseGroup{
		EndDate:                  date(2025, 8, 19),
		NextPhaseRecommendations: &rec,
	}

	assert.True(t, g.ShowsNextPhasePreview(date(2025, 8, 17)))
	assert.True(t, g.ShowsNextPhasePreview(date(2025, 8, 20))) // already passed
	assert.False(t, g.ShowsNextPhasePreview(date(2025, 8, 10)))

	g.NextPhaseRecommendations = nil
	assert.False(t, g.ShowsNextPhasePreview(date(2025, 8, 17)))
}
