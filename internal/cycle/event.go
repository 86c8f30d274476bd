package cycle

import (
	"errors"
	"sort"
	"time"
)

// ErrNoEvents is returned when a computation that needs at least one
// event of any kind receives an empty history.
var ErrNoEvents = errors.New("no cycle events provided")

// ErrNoBaseline is returned when a phase computation cannot be anchored
// because the history contains no menstruation event.
var ErrNoBaseline = errors.New("no menstruation events found")

// CycleEvent is one calendar day's observed state for a user. Events
// are immutable; re-registering the same (user, date) overwrites the
// previous observation.
type CycleEvent struct {
	UserID      string
	Date        time.Time
	State       TraditionalPhase
	PainLevel   *int
	EnergyLevel *int
	Notes       string
}

// DateOnly truncates a time to its calendar day in UTC. All cycle
// arithmetic runs on day granularity.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the whole number of days from a to b (negative
// when b precedes a).
func DaysBetween(a, b time.Time) int {
	return int(DateOnly(b).Sub(DateOnly(a)).Hours() / 24)
}

// MenstruationEvents filters the history down to menstruation events,
// sorted ascending by date.
func MenstruationEvents(events []CycleEvent) []CycleEvent {
	var out []CycleEvent
	for _, e := range events {
		if e.State == Menstruation {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// menstruationBlocks groups menstruation event dates into contiguous
// blocks (neighbors at most one day apart), ascending by start date.
func menstruationBlocks(events []CycleEvent) [][2]time.Time {
	menses := MenstruationEvents(events)
	if len(menses) == 0 {
		return nil
	}
	var blocks [][2]time.Time
	start := DateOnly(menses[0].Date)
	end := start
	for _, e := range menses[1:] {
		d := DateOnly(e.Date)
		if DaysBetween(end, d) <= 1 {
			if d.After(end) {
				end = d
			}
			continue
		}
		blocks = append(blocks, [2]time.Time{start, end})
		start, end = d, d
	}
	return append(blocks, [2]time.Time{start, end})
}

// PeriodStartDates returns the first day of each contiguous
// menstruation block, ascending.
func PeriodStartDates(events []CycleEvent) []time.Time {
	var starts []time.Time
	for _, b := range menstruationBlocks(events) {
		starts = append(starts, b[0])
	}
	return starts
}

// CycleDay computes the 1-based day-in-cycle for the target date.
//
// The anchor is the first day of the most recent contiguous
// menstruation block with a logged day at or before the target date.
// Users often log a whole period as a range, including days after
// "today"; anchoring on the block start rather than the latest logged
// day keeps the cycle day positive and correct in that case.
//
// With no menstruation history the function falls back to day 1.
func CycleDay(events []CycleEvent, target time.Time) int {
	target = DateOnly(target)
	blocks := menstruationBlocks(events)
	var anchor *time.Time
	for i := range blocks {
		if !blocks[i][0].After(target) {
			start := blocks[i][0]
			anchor = &start
		}
	}
	if anchor == nil {
		return 1
	}
	return DaysBetween(*anchor, target) + 1
}

// LatestBaseline returns the start date of the most recent contiguous
// menstruation block at or before target, or ErrNoBaseline.
func LatestBaseline(events []CycleEvent, target time.Time) (time.Time, error) {
	target = DateOnly(target)
	var anchor time.Time
	found := false
	for _, b := range menstruationBlocks(events) {
		if !b[0].After(target) {
			anchor = b[0]
			found = true
		}
	}
	if !found {
		return time.Time{}, ErrNoBaseline
	}
	return anchor, nil
}
