package cycle

import (
	"time"
)

// Phase is a derived, non-persisted view of where a user is in their
// cycle on a given date, with the guidance attached to that position.
type Phase struct {
	Traditional TraditionalPhase
	Functional  FunctionalPhase

	StartDate time.Time
	EndDate   time.Time
	Duration  int

	FunctionalStart    time.Time
	FunctionalEnd      time.Time
	FunctionalDuration int // days remaining in the functional window, inclusive of the target day

	TypicalSymptoms []string
	DietaryStyle    string
	FastingProtocol string
	Foods           []string
	Activities      []string
	Supplements     []string
}

// IsFastingRecommended reports whether the phase supports fasting
// (only the Power phase does).
func (p Phase) IsFastingRecommended() bool {
	return p.Functional == Power
}

// FunctionalWindow locates the functional-phase day range containing
// cycleDay and projects it onto calendar dates around the reference
// date. It returns the days remaining in the window (inclusive of the
// reference day), and the window's start and end dates.
func FunctionalWindow(cycleDay int, phase FunctionalPhase, ref time.Time) (int, time.Time, time.Time) {
	ref = DateOnly(ref)
	day := NormalizeCycleDay(cycleDay)
	for _, r := range functionalRanges {
		if r.Phase == phase && day >= r.Start && day <= r.End {
			remaining := r.End - day + 1
			start := ref.AddDate(0, 0, -(day - r.Start))
			end := start.AddDate(0, 0, r.End-r.Start)
			return remaining, start, end
		}
	}
	// Nurture runs to the end of the cycle when the day falls outside
	// the mapped ranges (wrapped or overshot cycles).
	remaining := TotalCycleDays() - day + 1
	if remaining < 1 {
		remaining = 1
	}
	start := ref.AddDate(0, 0, -(day - 20))
	return remaining, start, start.AddDate(0, 0, 8)
}

// CurrentPhase derives the full phase view for the target date from the
// event history. It requires at least one menstruation event to anchor
// the cycle day (ErrNoBaseline otherwise).
func CurrentPhase(events []CycleEvent, target time.Time) (Phase, error) {
	target = DateOnly(target)
	baseline, err := LatestBaseline(events, target)
	if err != nil {
		return Phase{}, err
	}

	cycleDay := CycleDay(events, target)
	traditional, duration := DetermineTraditionalPhase(cycleDay)
	functional := DetermineFunctionalPhase(cycleDay)

	daysSince := DaysBetween(baseline, target)
	start := target.AddDate(0, 0, -(daysSince % duration))
	end := start.AddDate(0, 0, duration)

	funcDuration, funcStart, funcEnd := FunctionalWindow(cycleDay, functional, target)
	details := DetailsFor(traditional, cycleDay)

	return Phase{
		Traditional:        traditional,
		Functional:         functional,
		StartDate:          start,
		EndDate:            end,
		Duration:           duration,
		FunctionalStart:    funcStart,
		FunctionalEnd:      funcEnd,
		FunctionalDuration: funcDuration,
		TypicalSymptoms:    details.TypicalSymptoms,
		DietaryStyle:       details.DietaryStyle,
		FastingProtocol:    details.FastingProtocol,
		Foods:              details.Foods,
		Activities:         details.Activities,
		Supplements:        details.Supplements,
	}, nil
}

// PredictNextPhase builds the phase that follows the current one per
// the fixed successor table, anchored at the day after the current
// phase's end date.
func PredictNextPhase(current Phase) Phase {
	nextTraditional := NextTraditionalPhase(current.Traditional)
	nextStart := current.EndDate.AddDate(0, 0, 1)

	cycleDay := RepresentativeDay(nextTraditional)
	duration := PhaseDuration(nextTraditional)
	nextEnd := nextStart.AddDate(0, 0, duration-1)

	functional := DetermineFunctionalPhase(cycleDay)
	funcDuration, funcStart, funcEnd := FunctionalWindow(cycleDay, functional, nextStart)
	details := DetailsFor(nextTraditional, cycleDay)

	return Phase{
		Traditional:        nextTraditional,
		Functional:         functional,
		StartDate:          nextStart,
		EndDate:            nextEnd,
		Duration:           duration,
		FunctionalStart:    funcStart,
		FunctionalEnd:      funcEnd,
		FunctionalDuration: funcDuration,
		TypicalSymptoms:    details.TypicalSymptoms,
		DietaryStyle:       details.DietaryStyle,
		FastingProtocol:    details.FastingProtocol,
		Foods:              details.Foods,
		Activities:         details.Activities,
		Supplements:        details.Supplements,
	}
}
