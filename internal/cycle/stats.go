package cycle

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// maxPlausiblePeriodDays guards the average-period computation against
// ranges that were clearly logged as a whole cycle rather than a period.
const maxPlausiblePeriodDays = 14

// PeriodRange is one contiguous run of menstruation days.
type PeriodRange struct {
	Start time.Time
	End   time.Time
}

// Days is the inclusive length of the period in days.
func (p PeriodRange) Days() int {
	return DaysBetween(p.Start, p.End) + 1
}

// PeriodRanges returns the contiguous menstruation blocks in the
// history, ascending by start date.
func PeriodRanges(events []CycleEvent) []PeriodRange {
	var out []PeriodRange
	for _, b := range menstruationBlocks(events) {
		out = append(out, PeriodRange{Start: b[0], End: b[1]})
	}
	return out
}

// Statistics summarizes the logged cycle history.
type Statistics struct {
	TotalPeriods      int
	AvgPeriodDays     float64 // 0 when no plausible period lengths exist
	AvgCycleDays      float64 // 0 when fewer than two periods exist
	ShortestCycleDays int
	LongestCycleDays  int
	FirstPeriod       time.Time
	LastPeriod        time.Time

	// AvgPain and AvgEnergy cover events that carry the optional
	// levels; 0 when none do.
	AvgPain   float64
	AvgEnergy float64
}

// ComputeStatistics derives cycle statistics from the event history.
// Period lengths above 14 days are excluded from the period-length
// average as implausible (a whole cycle logged as menstruation).
// Returns ErrNoBaseline when no menstruation events exist.
func ComputeStatistics(events []CycleEvent) (Statistics, error) {
	ranges := PeriodRanges(events)
	if len(ranges) == 0 {
		return Statistics{}, ErrNoBaseline
	}

	stats := Statistics{
		TotalPeriods: len(ranges),
		FirstPeriod:  ranges[0].Start,
		LastPeriod:   ranges[len(ranges)-1].Start,
	}

	plausible := 0
	sumPeriod := 0
	for _, r := range ranges {
		if d := r.Days(); d <= maxPlausiblePeriodDays {
			sumPeriod += d
			plausible++
		}
	}
	if plausible > 0 {
		stats.AvgPeriodDays = float64(sumPeriod) / float64(plausible)
	}

	painSum, painN, energySum, energyN := 0, 0, 0, 0
	for _, e := range events {
		if e.PainLevel != nil {
			painSum += *e.PainLevel
			painN++
		}
		if e.EnergyLevel != nil {
			energySum += *e.EnergyLevel
			energyN++
		}
	}
	if painN > 0 {
		stats.AvgPain = float64(painSum) / float64(painN)
	}
	if energyN > 0 {
		stats.AvgEnergy = float64(energySum) / float64(energyN)
	}

	if len(ranges) >= 2 {
		sumGap := 0
		shortest, longest := math.MaxInt, 0
		for i := 1; i < len(ranges); i++ {
			gap := DaysBetween(ranges[i-1].Start, ranges[i].Start)
			sumGap += gap
			if gap < shortest {
				shortest = gap
			}
			if gap > longest {
				longest = gap
			}
		}
		stats.AvgCycleDays = float64(sumGap) / float64(len(ranges)-1)
		stats.ShortestCycleDays = shortest
		stats.LongestCycleDays = longest
	}

	return stats, nil
}

// FormatStatistics renders cycle statistics as a Markdown chat message.
func FormatStatistics(stats Statistics) string {
	var b strings.Builder
	b.WriteString("📊 *Cycle Statistics*\n\n")
	fmt.Fprintf(&b, "Periods logged: %d\n", stats.TotalPeriods)
	if stats.AvgPeriodDays > 0 {
		fmt.Fprintf(&b, "Average period length: %.1f days\n", stats.AvgPeriodDays)
	}
	if stats.AvgCycleDays > 0 {
		fmt.Fprintf(&b, "Average cycle length: %.1f days\n", stats.AvgCycleDays)
		fmt.Fprintf(&b, "Shortest cycle: %d days\n", stats.ShortestCycleDays)
		fmt.Fprintf(&b, "Longest cycle: %d days\n", stats.LongestCycleDays)
	} else {
		b.WriteString("Log at least two periods to see cycle length statistics.\n")
	}
	if stats.AvgPain > 0 {
		fmt.Fprintf(&b, "Average pain level: %.1f/5\n", stats.AvgPain)
	}
	if stats.AvgEnergy > 0 {
		fmt.Fprintf(&b, "Average energy level: %.1f/5\n", stats.AvgEnergy)
	}
	fmt.Fprintf(&b, "\nFirst period on record: %s\n", stats.FirstPeriod.Format(reportDateLayout))
	fmt.Fprintf(&b, "Most recent period: %s", stats.LastPeriod.Format(reportDateLayout))
	return b.String()
}

// FormatPeriodHistory renders the logged periods, most recent first,
// capped at limit entries (0 means all).
func FormatPeriodHistory(events []CycleEvent, limit int) (string, error) {
	ranges := PeriodRanges(events)
	if len(ranges) == 0 {
		return "", ErrNoBaseline
	}
	if limit > 0 && len(ranges) > limit {
		ranges = ranges[len(ranges)-limit:]
	}

	var b strings.Builder
	b.WriteString("🗓 *Period History*\n\n")
	for i := len(ranges) - 1; i >= 0; i-- {
		r := ranges[i]
		if r.Start.Equal(r.End) {
			fmt.Fprintf(&b, "• %s (1 day)\n", r.Start.Format(reportDateLayout))
		} else {
			fmt.Fprintf(&b, "• %s to %s (%d days)\n",
				r.Start.Format(reportDateLayout), r.End.Format(reportDateLayout), r.Days())
		}
	}
	return strings.TrimRight(b.String(), "\n"), nil
}
