package cycle

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

const reportDateLayout = "2006-01-02"

// phaseEmoji marks the functional phase in chat output.
var phaseEmoji = map[FunctionalPhase]string{
	Power:         "⚡",
	Manifestation: "✨",
	Nurture:       "🌱",
}

// PhaseEmoji returns the chat marker for a functional phase.
func PhaseEmoji(p FunctionalPhase) string {
	return phaseEmoji[p]
}

// FormatPhaseReport renders the current phase view as a Markdown chat
// message: phase identity, dates, guidance, and the most recent notes
// from the event history.
func FormatPhaseReport(phase Phase, events []CycleEvent, target time.Time) string {
	var b strings.Builder

	fmt.Fprintf(&b, "🌙 *Current Phase: %s*\n", phase.Traditional.Title())
	fmt.Fprintf(&b, "%s Functional phase: %s\n\n", PhaseEmoji(phase.Functional), phase.Functional.Title())
	fmt.Fprintf(&b, "📅 Started: %s\n", phase.StartDate.Format(reportDateLayout))
	fmt.Fprintf(&b, "📅 Ends: %s\n", phase.EndDate.Format(reportDateLayout))
	fmt.Fprintf(&b, "⏳ %d day(s) left in the %s window\n\n", phase.FunctionalDuration, phase.Functional.Title())

	if len(phase.TypicalSymptoms) > 0 {
		b.WriteString("*Typical symptoms:*\n")
		for _, s := range phase.TypicalSymptoms {
			fmt.Fprintf(&b, "• %s\n", s)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "🍽 *Diet:* %s\n", phase.DietaryStyle)
	fmt.Fprintf(&b, "⏰ *Fasting:* %s\n\n", phase.FastingProtocol)

	if len(phase.Foods) > 0 {
		b.WriteString("*Recommended foods:*\n")
		for _, f := range phase.Foods {
			fmt.Fprintf(&b, "• %s\n", f)
		}
		b.WriteString("\n")
	}
	if len(phase.Activities) > 0 {
		b.WriteString("*Recommended activities:*\n")
		for _, a := range phase.Activities {
			fmt.Fprintf(&b, "• %s\n", a)
		}
		b.WriteString("\n")
	}
	if len(phase.Supplements) > 0 {
		b.WriteString("*Supplements:*\n")
		for _, s := range phase.Supplements {
			fmt.Fprintf(&b, "• %s\n", s)
		}
		b.WriteString("\n")
	}

	if notes := recentNotes(events, target, 3); len(notes) > 0 {
		b.WriteString("📝 *Recent notes:*\n")
		for _, n := range notes {
			b.WriteString(n + "\n")
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

// recentNotes collects up to limit note lines from events at or before
// the target date, most recent first.
func recentNotes(events []CycleEvent, target time.Time, limit int) []string {
	target = DateOnly(target)
	sorted := make([]CycleEvent, len(events))
	copy(sorted, events)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Date.After(sorted[j].Date) })

	var out []string
	for _, e := range sorted {
		if DateOnly(e.Date).After(target) || e.Notes == "" {
			continue
		}
		out = append(out, fmt.Sprintf("• %s: %s", DateOnly(e.Date).Format(reportDateLayout), e.Notes))
		if len(out) == limit {
			break
		}
	}
	return out
}
