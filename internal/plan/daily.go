package plan

import (
	"time"

	"lorax-tracker/internal/cycle"
)

// eventInfluenceDays is how far a logged event reaches when inferring
// the phase of nearby days, in either direction.
const eventInfluenceDays = 3

// DailyAssignment is the inferred phase for one calendar day.
type DailyAssignment struct {
	Date        time.Time
	CycleDay    int
	Traditional cycle.TraditionalPhase
	Functional  cycle.FunctionalPhase
	SecondPower bool
}

// inferenceInput carries everything a strategy may consult for one day.
type inferenceInput struct {
	date     time.Time
	cycleDay int
	events   []cycle.CycleEvent
}

// inferenceStrategy proposes a traditional phase for a day, or declines.
type inferenceStrategy func(in inferenceInput) (cycle.TraditionalPhase, bool)

// strategies are tried in priority order; the first one that applies
// wins. The calendar mapping is the unconditional fallback.
var strategies = []inferenceStrategy{
	inferFromFollicularExtension,
	inferFromRecentEvent,
	inferFromUpcomingEvent,
	inferFromCalendar,
}

// ProjectDay infers the phase assignment for a single date.
func ProjectDay(events []cycle.CycleEvent, date time.Time) DailyAssignment {
	date = cycle.DateOnly(date)
	in := inferenceInput{
		date:     date,
		cycleDay: cycle.CycleDay(events, date),
		events:   events,
	}

	var traditional cycle.TraditionalPhase
	for _, s := range strategies {
		if phase, ok := s(in); ok {
			traditional = phase
			break
		}
	}

	functional := cycle.ClassifyFunctionalPhase(traditional, in.cycleDay)
	return DailyAssignment{
		Date:        date,
		CycleDay:    in.cycleDay,
		Traditional: traditional,
		Functional:  functional,
		SecondPower: functional == cycle.Power && cycle.IsSecondPowerWindow(in.cycleDay),
	}
}

// ProjectRange infers assignments for every day in [start, end].
func ProjectRange(events []cycle.CycleEvent, start, end time.Time) []DailyAssignment {
	start, end = cycle.DateOnly(start), cycle.DateOnly(end)
	var out []DailyAssignment
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		out = append(out, ProjectDay(events, d))
	}
	return out
}

// inferFromFollicularExtension stretches an explicitly logged
// follicular observation through the full follicular window and into
// ovulation, even when the event predates the plan window. Users often
// log the phase once and expect it to hold.
func inferFromFollicularExtension(in inferenceInput) (cycle.TraditionalPhase, bool) {
	// The extension only applies while the follicular observation is
	// the latest signal; any newer event supersedes it.
	var latest *cycle.CycleEvent
	for i := range in.events {
		e := &in.events[i]
		if cycle.DaysBetween(e.Date, in.date) < 0 {
			continue
		}
		if latest == nil || e.Date.After(latest.Date) {
			latest = e
		}
	}
	if latest == nil || latest.State != cycle.Follicular {
		return "", false
	}

	elapsed := cycle.DaysBetween(latest.Date, in.date)
	follicular := cycle.PhaseDuration(cycle.Follicular)
	switch {
	case elapsed <= follicular:
		return cycle.Follicular, true
	case elapsed <= follicular+cycle.PhaseDuration(cycle.Ovulation):
		return cycle.Ovulation, true
	}
	return "", false
}

// inferFromRecentEvent pins the phase to the most recent logged event
// within the influence window before the day.
func inferFromRecentEvent(in inferenceInput) (cycle.TraditionalPhase, bool) {
	var best *cycle.CycleEvent
	for i := range in.events {
		e := &in.events[i]
		gap := cycle.DaysBetween(e.Date, in.date)
		if gap < 0 || gap > eventInfluenceDays {
			continue
		}
		if best == nil || e.Date.After(best.Date) {
			best = e
		}
	}
	if best == nil {
		return "", false
	}
	return best.State, true
}

// inferFromUpcomingEvent anticipates the nearest logged event within
// the influence window after the day.
func inferFromUpcomingEvent(in inferenceInput) (cycle.TraditionalPhase, bool) {
	var best *cycle.CycleEvent
	for i := range in.events {
		e := &in.events[i]
		gap := cycle.DaysBetween(in.date, e.Date)
		if gap <= 0 || gap > eventInfluenceDays {
			continue
		}
		if best == nil || e.Date.Before(best.Date) {
			best = e
		}
	}
	if best == nil {
		return "", false
	}
	return best.State, true
}

func inferFromCalendar(in inferenceInput) (cycle.TraditionalPhase, bool) {
	phase, _ := cycle.DetermineTraditionalPhase(in.cycleDay)
	return phase, true
}
