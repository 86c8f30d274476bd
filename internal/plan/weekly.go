package plan

import (
	"context"
	"errors"
	"fmt"
	"time"

	"lorax-tracker/internal/cycle"
	"lorax-tracker/internal/recommend"
)

// planDays is the length of the weekly plan window.
const planDays = 7

// WeeklyPlan is the date-windowed plan delivered to a user: phase
// groups covering tomorrow through the following six days, plus the
// next-cycle prediction when it lands inside the window.
type WeeklyPlan struct {
	UserID    string
	StartDate time.Time
	EndDate   time.Time

	// NextCycleDate and AvgCycleDuration are nil when the predicted
	// cycle start falls outside the plan window.
	NextCycleDate    *time.Time
	AvgCycleDuration *int
	Warning          string

	Groups []PhaseGroup
}

// Generator builds weekly plans from a user's event history.
type Generator struct {
	Recommender *recommend.Builder
	Now         func() time.Time
}

// NewGenerator creates a Generator using the wall clock.
func NewGenerator(recommender *recommend.Builder) *Generator {
	return &Generator{Recommender: recommender, Now: time.Now}
}

// Generate builds the plan for the window starting tomorrow. It needs
// at least one menstruation event to anchor the cycle; otherwise
// cycle.ErrNoBaseline is returned.
func (g *Generator) Generate(ctx context.Context, userID string, events []cycle.CycleEvent) (WeeklyPlan, error) {
	if len(events) == 0 {
		return WeeklyPlan{}, cycle.ErrNoEvents
	}

	today := cycle.DateOnly(g.now())
	start := today.AddDate(0, 0, 1)
	end := start.AddDate(0, 0, planDays-1)

	if _, err := cycle.LatestBaseline(events, start); err != nil {
		return WeeklyPlan{}, fmt.Errorf("generate weekly plan for %s: %w", userID, err)
	}

	days := ProjectRange(events, start, end)
	groups := GroupAssignments(days)
	if g.Recommender != nil {
		AttachRecommendations(ctx, g.Recommender, userID, groups)
	}

	plan := WeeklyPlan{
		UserID:    userID,
		StartDate: start,
		EndDate:   end,
		Groups:    groups,
	}

	prediction, err := cycle.NextCycle(events)
	switch {
	case err == nil:
		// The prediction, warning included, is only surfaced when it
		// lands inside the plan window.
		if !prediction.NextDate.Before(start) && !prediction.NextDate.After(end) {
			next := prediction.NextDate
			avg := prediction.AvgDuration
			plan.NextCycleDate = &next
			plan.AvgCycleDuration = &avg
			plan.Warning = prediction.Warning
		}
	case errors.Is(err, cycle.ErrNoBaseline), errors.Is(err, cycle.ErrNoEvents):
		// Already guarded above for the baseline; nothing to surface.
	default:
		return WeeklyPlan{}, err
	}

	return plan, nil
}

func (g *Generator) now() time.Time {
	if g.Now != nil {
		return g.Now()
	}
	return time.Now()
}
