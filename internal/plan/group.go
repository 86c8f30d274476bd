package plan

import (
	"context"
	"time"

	"lorax-tracker/internal/cycle"
	"lorax-tracker/internal/recommend"
)

// nextPhasePreviewDays is how close the next phase must be before its
// preview is attached to a group's rendering.
const nextPhasePreviewDays = 3

// PhaseGroup is a maximal run of consecutive plan days sharing the
// same traditional phase, functional phase and Power occurrence. Each
// group carries its own recommendations plus an eager preview of the
// phase that follows it.
type PhaseGroup struct {
	StartDate time.Time
	EndDate   time.Time

	Traditional cycle.TraditionalPhase
	Functional  cycle.FunctionalPhase

	StartCycleDay int
	EndCycleDay   int

	// IsPowerPhaseSecondOccurrence marks the early-luteal Power window
	// so it renders distinctly from the menstrual Power window.
	IsPowerPhaseSecondOccurrence bool

	FunctionalStart    time.Time
	FunctionalEnd      time.Time
	FunctionalDuration int

	NextTraditional cycle.TraditionalPhase
	NextFunctional  cycle.FunctionalPhase

	Recommendations          recommend.PhaseRecommendations
	NextPhaseRecommendations *recommend.PhaseRecommendations
}

// Days is the inclusive number of days the group spans.
func (g PhaseGroup) Days() int {
	return cycle.DaysBetween(g.StartDate, g.EndDate) + 1
}

// GroupAssignments folds the daily assignments into maximal phase
// groups and resolves each group's successor phases.
//
// The successor follows the traditional-phase order, except that the
// second Power occurrence always transitions into Nurture.
func GroupAssignments(days []DailyAssignment) []PhaseGroup {
	var groups []PhaseGroup
	for _, d := range days {
		if n := len(groups); n > 0 && sameGroup(groups[n-1], d) {
			groups[n-1].EndDate = d.Date
			groups[n-1].EndCycleDay = d.CycleDay
			continue
		}
		groups = append(groups, PhaseGroup{
			StartDate:                    d.Date,
			EndDate:                      d.Date,
			Traditional:                  d.Traditional,
			Functional:                   d.Functional,
			StartCycleDay:                d.CycleDay,
			EndCycleDay:                  d.CycleDay,
			IsPowerPhaseSecondOccurrence: d.SecondPower,
		})
	}

	for i := range groups {
		g := &groups[i]
		g.FunctionalDuration, g.FunctionalStart, g.FunctionalEnd =
			cycle.FunctionalWindow(g.EndCycleDay, g.Functional, g.EndDate)

		if i+1 < len(groups) {
			g.NextTraditional = groups[i+1].Traditional
			g.NextFunctional = groups[i+1].Functional
			continue
		}
		// The last group's successor is synthesized from the fixed
		// phase order since no later day is in the window.
		g.NextTraditional = cycle.NextTraditionalPhase(g.Traditional)
		if g.IsPowerPhaseSecondOccurrence {
			g.NextFunctional = cycle.Nurture
		} else {
			g.NextFunctional = cycle.DetermineFunctionalPhase(cycle.RepresentativeDay(g.NextTraditional))
		}
	}
	return groups
}

func sameGroup(g PhaseGroup, d DailyAssignment) bool {
	return g.Traditional == d.Traditional &&
		g.Functional == d.Functional &&
		g.IsPowerPhaseSecondOccurrence == d.SecondPower &&
		cycle.DaysBetween(g.EndDate, d.Date) == 1
}

// AttachRecommendations fills each group with its own recommendations
// plus an eager preview of the next phase's recommendations. Interior
// groups only carry the preview when the functional phase changes at
// the boundary; the final group always carries it, even when the
// synthesized successor shares its functional phase, so the window's
// edge never renders without transition data.
func AttachRecommendations(ctx context.Context, builder *recommend.Builder, userID string, groups []PhaseGroup) {
	for i := range groups {
		g := &groups[i]
		g.Recommendations = builder.ForPhase(ctx, userID, g.Functional)
		if g.NextFunctional == "" {
			continue
		}
		if g.NextFunctional != g.Functional || i == len(groups)-1 {
			next := builder.ForPhase(ctx, userID, g.NextFunctional)
			g.NextPhaseRecommendations = &next
		}
	}
}

// ShowsNextPhasePreview reports whether the group's next-phase preview
// should be rendered on the given day: only when the transition is at
// most three days away or already passed.
func (g PhaseGroup) ShowsNextPhasePreview(today time.Time) bool {
	if g.NextPhaseRecommendations == nil {
		return false
	}
	return cycle.DaysBetween(today, g.EndDate) <= nextPhasePreviewDays
}
