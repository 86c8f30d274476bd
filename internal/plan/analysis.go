package plan

import (
	"fmt"
	"strings"
	"time"

	"lorax-tracker/internal/cycle"
)

// WeekAnalysis summarizes how the plan window distributes across
// phases, used for the compact week-overview command.
type WeekAnalysis struct {
	StartDate time.Time
	EndDate   time.Time

	TraditionalDays map[cycle.TraditionalPhase]int
	FunctionalDays  map[cycle.FunctionalPhase]int
	DominantPhase   cycle.FunctionalPhase
	Transitions     int
	FastingDays     int
}

// AnalyzeWeek computes the phase distribution over the window.
func AnalyzeWeek(events []cycle.CycleEvent, start, end time.Time) (WeekAnalysis, error) {
	if _, err := cycle.LatestBaseline(events, cycle.DateOnly(start)); err != nil {
		return WeekAnalysis{}, err
	}

	days := ProjectRange(events, start, end)
	a := WeekAnalysis{
		StartDate:       cycle.DateOnly(start),
		EndDate:         cycle.DateOnly(end),
		TraditionalDays: make(map[cycle.TraditionalPhase]int),
		FunctionalDays:  make(map[cycle.FunctionalPhase]int),
	}

	for i, d := range days {
		a.TraditionalDays[d.Traditional]++
		a.FunctionalDays[d.Functional]++
		if d.Functional == cycle.Power {
			a.FastingDays++
		}
		if i > 0 && days[i-1].Functional != d.Functional {
			a.Transitions++
		}
	}

	best := 0
	for _, phase := range []cycle.FunctionalPhase{cycle.Power, cycle.Manifestation, cycle.Nurture} {
		if n := a.FunctionalDays[phase]; n > best {
			best = n
			a.DominantPhase = phase
		}
	}
	return a, nil
}

// FormatWeekAnalysis renders the analysis as a Markdown chat message.
func FormatWeekAnalysis(a WeekAnalysis) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📈 *Week Analysis: %s to %s*\n\n",
		a.StartDate.Format(dateLayout), a.EndDate.Format(dateLayout))
	fmt.Fprintf(&b, "%s Dominant phase: %s\n", cycle.PhaseEmoji(a.DominantPhase), a.DominantPhase.Title())
	fmt.Fprintf(&b, "🔄 Phase transitions: %d\n", a.Transitions)
	fmt.Fprintf(&b, "⏰ Fasting-friendly days: %d\n\n", a.FastingDays)

	b.WriteString("*Days per functional phase:*\n")
	for _, phase := range []cycle.FunctionalPhase{cycle.Power, cycle.Manifestation, cycle.Nurture} {
		if n := a.FunctionalDays[phase]; n > 0 {
			fmt.Fprintf(&b, "  %s %s: %d\n", cycle.PhaseEmoji(phase), phase.Title(), n)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
