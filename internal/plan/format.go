package plan

import (
	"fmt"
	"strings"
	"time"

	"lorax-tracker/internal/cycle"
	"lorax-tracker/internal/recommend"
)

const dateLayout = "Mon Jan 2"

// FormatWeeklyPlan renders the plan as a Markdown chat message, one
// block per phase group. The next-phase preview is only rendered for
// groups whose transition is close to today.
func FormatWeeklyPlan(p WeeklyPlan, today time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📅 *Weekly Plan: %s to %s*\n",
		p.StartDate.Format(dateLayout), p.EndDate.Format(dateLayout))

	if p.NextCycleDate != nil {
		fmt.Fprintf(&b, "\n🔮 Next cycle expected *%s*", p.NextCycleDate.Format(dateLayout))
		if p.AvgCycleDuration != nil {
			fmt.Fprintf(&b, " (avg cycle %d days)", *p.AvgCycleDuration)
		}
		b.WriteString("\n")
	}
	if p.Warning != "" {
		fmt.Fprintf(&b, "⚠️ %s\n", p.Warning)
	}

	for _, g := range p.Groups {
		b.WriteString("\n")
		writeGroup(&b, g, today)
	}
	return strings.TrimRight(b.String(), "\n")
}

func writeGroup(b *strings.Builder, g PhaseGroup, today time.Time) {
	label := g.Functional.Title()
	if g.IsPowerPhaseSecondOccurrence {
		label += " (second occurrence)"
	}
	fmt.Fprintf(b, "%s *%s Phase* · %s\n", cycle.PhaseEmoji(g.Functional), label, g.Traditional.Title())
	if g.StartDate.Equal(g.EndDate) {
		fmt.Fprintf(b, "%s (cycle day %d)\n", g.StartDate.Format(dateLayout), g.StartCycleDay)
	} else {
		fmt.Fprintf(b, "%s to %s (cycle days %d-%d)\n",
			g.StartDate.Format(dateLayout), g.EndDate.Format(dateLayout), g.StartCycleDay, g.EndCycleDay)
	}

	writeRecommendations(b, g.Recommendations)

	if activities := cycle.ActivitiesFor(g.Traditional); len(activities) > 0 {
		b.WriteString("🏃 *Activities:*\n")
		for _, a := range activities {
			fmt.Fprintf(b, "  • %s\n", a)
		}
	}

	if g.ShowsNextPhasePreview(today) {
		next := g.NextPhaseRecommendations
		fmt.Fprintf(b, "\n⏭ *Next: %s Phase* (from %s)\n",
			next.Phase.Title(), g.EndDate.AddDate(0, 0, 1).Format(dateLayout))
		fmt.Fprintf(b, "  🍽 %s\n", next.DietaryStyle)
		fmt.Fprintf(b, "  ⏰ %s\n", next.FastingProtocol)
	}
}

func writeRecommendations(b *strings.Builder, rec recommend.PhaseRecommendations) {
	fmt.Fprintf(b, "🍽 *Diet:* %s\n", rec.DietaryStyle)
	fmt.Fprintf(b, "⏰ *Fasting:* %s\n", rec.FastingProtocol)

	if len(rec.Foods) > 0 {
		b.WriteString("🥗 *Foods:*\n")
		for _, f := range rec.Foods {
			fmt.Fprintf(b, "  • %s\n", f)
		}
	}
	if len(rec.Supplements) > 0 {
		fmt.Fprintf(b, "💊 *Supplements:* %s\n", strings.Join(rec.Supplements, ", "))
	}

	for _, meal := range rec.Meals {
		fmt.Fprintf(b, "🍴 *%s:*\n", titleWord(string(meal.Meal)))
		for _, r := range meal.Recipes {
			line := fmt.Sprintf("  • %s", r.Title)
			if r.PrepMinutes > 0 {
				line += fmt.Sprintf(" (%d min)", r.PrepMinutes)
			}
			if r.URL != "" {
				line += fmt.Sprintf(" [%s]", r.URL)
			}
			b.WriteString(line + "\n")
		}
	}
	if len(rec.ShoppingPreview) > 0 {
		fmt.Fprintf(b, "🛒 *Shopping preview:* %s\n", strings.Join(rec.ShoppingPreview, ", "))
	}
}

func titleWord(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
