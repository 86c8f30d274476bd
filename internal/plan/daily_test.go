package plan

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lorax-tracker/internal/cycle"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func menses(dates ...time.Time) []cycle.CycleEvent {
	events := make([]cycle.CycleEvent, 0, len(dates))
	for _, d := range dates {
		events = append(events, cycle.CycleEvent{UserID: "u1", Date: d, State: cycle.Menstruation})
	}
	return events
}

func TestProjectDayCalendarFallback(t *testing.T) {
	events := menses(date(2025, 8, 1))

	day := ProjectDay(events, date(2025, 8, 7)) // cycle day 7
	assert.Equal(t, cycle.Follicular, day.Traditional)
	assert.Equal(t, cycle.Power, day.Functional)
	assert.Equal(t, 7, day.CycleDay)
	assert.False(t, day.SecondPower)

	day = ProjectDay(events, date(2025, 8, 17)) // cycle day 17
	assert.Equal(t, cycle.Ovulation, day.Traditional)
	assert.Equal(t, cycle.Manifestation, day.Functional)
}

func TestProjectDayMarksSecondPower(t *testing.T) {
	events := menses(date(2025, 8, 1))

	day := ProjectDay(events, date(2025, 8, 18)) // cycle day 18, luteal
	assert.Equal(t, cycle.Luteal, day.Traditional)
	assert.Equal(t, cycle.Power, day.Functional)
	assert.True(t, day.SecondPower)
}

func TestProjectDayWrapsOverdueCycle(t *testing.T) {
	// A cycle running past 28 days with no nearby event wraps through
	// day normalization, so day 30 classifies as normalized day 2.
	events := menses(date(2025, 8, 1))

	day := ProjectDay(events, date(2025, 8, 30)) // cycle day 30
	assert.Equal(t, 30, day.CycleDay)
	assert.Equal(t, cycle.Menstruation, day.Traditional)
	assert.Equal(t, cycle.Power, day.Functional)

	day = ProjectDay(events, date(2025, 9, 9)) // cycle day 40, normalized 12
	assert.Equal(t, cycle.Follicular, day.Traditional)
	assert.Equal(t, cycle.Manifestation, day.Functional)
}

func TestProjectDayExtendsFollicularEvent(t *testing.T) {
	// A follicular observation holds through its full window and then
	// shifts into ovulation, even past the 3-day event influence.
	events := append(menses(date(2025, 8, 1)),
		cycle.CycleEvent{UserID: "u1", Date: date(2025, 8, 3), State: cycle.Follicular})

	day := ProjectDay(events, date(2025, 8, 10)) // 7 days after the observation
	assert.Equal(t, cycle.Follicular, day.Traditional)

	day = ProjectDay(events, date(2025, 8, 14)) // 11 days after, ovulation stretch
	assert.Equal(t, cycle.Ovulation, day.Traditional)

	day = ProjectDay(events, date(2025, 8, 18)) // past both windows
	assert.Equal(t, cycle.Luteal, day.Traditional)
}

func TestProjectDayHonorsRecentEvent(t *testing.T) {
	// A logged ovulation two days before the target pins the phase
	// even though the calendar alone would say follicular.
	events := append(menses(date(2025, 8, 1)),
		cycle.CycleEvent{UserID: "u1", Date: date(2025, 8, 11), State: cycle.Ovulation})

	day := ProjectDay(events, date(2025, 8, 13)) // cycle day 13
	assert.Equal(t, cycle.Ovulation, day.Traditional)
	assert.Equal(t, cycle.Manifestation, day.Functional)

	// Beyond the influence window the calendar takes over again.
	day = ProjectDay(events, date(2025, 8, 19)) // cycle day 19, event 8 days back
	assert.Equal(t, cycle.Luteal, day.Traditional)
}

func TestProjectDayAnticipatesUpcomingEvent(t *testing.T) {
	// A menstruation logged for tomorrow pulls today toward it.
	events := append(menses(date(2025, 8, 1)),
		cycle.CycleEvent{UserID: "u1", Date: date(2025, 8, 29), State: cycle.Menstruation})

	day := ProjectDay(events, date(2025, 8, 27)) // cycle day 27, event in 2 days
	assert.Equal(t, cycle.Menstruation, day.Traditional)
}

func TestProjectRangeCoversWindow(t *testing.T) {
	events := menses(date(2025, 8, 1))

	days := ProjectRange(events, date(2025, 8, 10), date(2025, 8, 16))
	require.Len(t, days, 7)
	assert.Equal(t, date(2025, 8, 10), days[0].Date)
	assert.Equal(t, date(2025, 8, 16), days[6].Date)
	for i, d := range days {
		assert.Equal(t, 10+i, d.CycleDay)
	}
}
