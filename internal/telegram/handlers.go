package telegram

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"lorax-tracker/internal/cycle"
	"lorax-tracker/internal/metrics"
	"lorax-tracker/internal/plan"
	"lorax-tracker/internal/recipe"
	"lorax-tracker/internal/recommend"
	"lorax-tracker/internal/shopping"
)

const argDateLayout = "2006-01-02"

const helpText = `🌙 *Cycle Tracker*

*Tracking:*
/register YYYY-MM-DD [YYYY-MM-DD] [phase] [pain:0-5] [energy:0-5] [notes] - log a day or a range (phase defaults to menstruation)
/phase - where you are in your cycle today
/history - logged periods
/statistics - cycle statistics
/prediction - expected next cycle start

*Planning:*
/weeklyplan - phase-aware plan for the next 7 days
/week - compact phase distribution for the week
/selectmeals - pick this week's meals and get a shopping list

Send a recipe URL to import it into your catalog.`

const noBaselineText = "No menstruation days logged yet. Start with:\n`/register 2025-08-01`"

// friendlyReply translates the known domain errors into chat guidance.
// It reports whether the error was handled.
func (b *Bot) friendlyReply(chatID int64, err error) bool {
	if errors.Is(err, cycle.ErrNoBaseline) || errors.Is(err, cycle.ErrNoEvents) {
		b.reply(chatID, noBaselineText)
		return true
	}
	return false
}

func (b *Bot) handleRegister(ctx context.Context, chatID int64, userID, args string) error {
	if args == "" {
		b.reply(chatID, "Usage: `/register YYYY-MM-DD [YYYY-MM-DD] [phase] [pain:0-5] [energy:0-5] [notes]`")
		return nil
	}

	fields := strings.Fields(args)
	start, err := time.Parse(argDateLayout, fields[0])
	if err != nil {
		b.reply(chatID, fmt.Sprintf("`%s` is not a date, expected YYYY-MM-DD.", fields[0]))
		return nil
	}
	fields = fields[1:]

	end := start
	if len(fields) > 0 {
		if d, err := time.Parse(argDateLayout, fields[0]); err == nil {
			end = d
			fields = fields[1:]
		}
	}

	state := cycle.Menstruation
	if len(fields) > 0 {
		if s, ok := parsePhase(fields[0]); ok {
			state = s
			fields = fields[1:]
		}
	}

	var pain, energy *int
	var noteWords []string
	for _, f := range fields {
		switch {
		case strings.HasPrefix(strings.ToLower(f), "pain:"):
			pain = parseLevel(f[len("pain:"):])
		case strings.HasPrefix(strings.ToLower(f), "energy:"):
			energy = parseLevel(f[len("energy:"):])
		default:
			noteWords = append(noteWords, f)
		}
	}
	notes := strings.Join(noteWords, " ")

	var count int
	if end.After(start) {
		count, err = b.eventRepo.PutRange(ctx, userID, state, start, end)
		if err != nil {
			return err
		}
	} else {
		if err := b.eventRepo.Put(ctx, cycle.CycleEvent{
			UserID:      userID,
			Date:        start,
			State:       state,
			PainLevel:   pain,
			EnergyLevel: energy,
			Notes:       notes,
		}); err != nil {
			return err
		}
		count = 1
	}

	// A new observation changes the projection; cached plans are stale.
	if b.planCache != nil {
		if err := b.planCache.Invalidate(ctx, userID); err != nil {
			log.Printf("Failed to invalidate plan cache for %s: %v", userID, err)
		}
	}

	if count == 1 {
		b.reply(chatID, fmt.Sprintf("✅ Logged *%s* on %s.", state.Title(), start.Format(argDateLayout)))
	} else {
		b.reply(chatID, fmt.Sprintf("✅ Logged *%s* from %s to %s (%d days).",
			state.Title(), start.Format(argDateLayout), end.Format(argDateLayout), count))
	}
	return nil
}

// parseLevel reads an optional 0-5 level; out-of-range input is dropped.
func parseLevel(s string) *int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 || n > 5 {
		return nil
	}
	return &n
}

func parsePhase(s string) (cycle.TraditionalPhase, bool) {
	switch strings.ToLower(s) {
	case "menstruation", "period":
		return cycle.Menstruation, true
	case "follicular":
		return cycle.Follicular, true
	case "ovulation":
		return cycle.Ovulation, true
	case "luteal":
		return cycle.Luteal, true
	}
	return "", false
}

func (b *Bot) handlePhase(ctx context.Context, chatID int64, userID string) error {
	userEvents, err := b.eventRepo.List(ctx, userID)
	if err != nil {
		return err
	}

	now := time.Now()
	phase, err := cycle.CurrentPhase(userEvents, now)
	if err != nil {
		if b.friendlyReply(chatID, err) {
			return nil
		}
		return err
	}

	b.reply(chatID, cycle.FormatPhaseReport(phase, userEvents, now))
	return nil
}

func (b *Bot) handleWeeklyPlan(ctx context.Context, chatID int64, userID string, force bool) error {
	weekStart := cycle.DateOnly(time.Now()).AddDate(0, 0, 1)

	if !force && b.planCache != nil {
		cached, err := b.planCache.Get(ctx, userID, weekStart)
		if err != nil {
			log.Printf("Plan cache read failed for %s: %v", userID, err)
		} else if cached != nil {
			msg := tgbotapi.NewMessage(chatID, plan.FormatWeeklyPlan(*cached, time.Now()))
			msg.ParseMode = "Markdown"
			keyboard := planRegenerateKeyboard()
			msg.ReplyMarkup = &keyboard
			if _, err := b.api.Send(msg); err != nil {
				log.Printf("Failed to send cached plan: %v", err)
			}
			return nil
		}
	}

	userEvents, err := b.eventRepo.List(ctx, userID)
	if err != nil {
		return err
	}

	weekly, err := b.generator.Generate(ctx, userID, userEvents)
	if err != nil {
		if b.friendlyReply(chatID, err) {
			return nil
		}
		return err
	}

	if b.planCache != nil {
		if err := b.planCache.Save(ctx, weekly); err != nil {
			log.Printf("Failed to cache plan for %s: %v", userID, err)
		}
	}

	b.reply(chatID, plan.FormatWeeklyPlan(weekly, time.Now()))
	return nil
}

func (b *Bot) handlePrediction(ctx context.Context, chatID int64, userID string) error {
	userEvents, err := b.eventRepo.List(ctx, userID)
	if err != nil {
		return err
	}

	prediction, err := cycle.NextCycle(userEvents)
	if err != nil {
		if b.friendlyReply(chatID, err) {
			return nil
		}
		return err
	}

	text := fmt.Sprintf("🔮 *Next cycle expected:* %s\nAverage cycle length: %d days",
		prediction.NextDate.Format(argDateLayout), prediction.AvgDuration)
	if prediction.Warning != "" {
		text += fmt.Sprintf("\n⚠️ %s", prediction.Warning)
	}
	b.reply(chatID, text)
	return nil
}

func (b *Bot) handleHistory(ctx context.Context, chatID int64, userID string) error {
	userEvents, err := b.eventRepo.List(ctx, userID)
	if err != nil {
		return err
	}

	text, err := cycle.FormatPeriodHistory(userEvents, 12)
	if err != nil {
		if b.friendlyReply(chatID, err) {
			return nil
		}
		return err
	}
	b.reply(chatID, text)
	return nil
}

func (b *Bot) handleStatistics(ctx context.Context, chatID int64, userID string) error {
	userEvents, err := b.eventRepo.List(ctx, userID)
	if err != nil {
		return err
	}

	stats, err := cycle.ComputeStatistics(userEvents)
	if err != nil {
		if b.friendlyReply(chatID, err) {
			return nil
		}
		return err
	}
	b.reply(chatID, cycle.FormatStatistics(stats))
	return nil
}

func (b *Bot) handleWeekAnalysis(ctx context.Context, chatID int64, userID string) error {
	userEvents, err := b.eventRepo.List(ctx, userID)
	if err != nil {
		return err
	}

	start := cycle.DateOnly(time.Now()).AddDate(0, 0, 1)
	analysis, err := plan.AnalyzeWeek(userEvents, start, start.AddDate(0, 0, 6))
	if err != nil {
		if b.friendlyReply(chatID, err) {
			return nil
		}
		return err
	}
	b.reply(chatID, plan.FormatWeekAnalysis(analysis))
	return nil
}

func (b *Bot) handleImport(ctx context.Context, chatID int64, userID, url string) error {
	if b.importer == nil {
		b.reply(chatID, "Recipe importing is not available right now.")
		return nil
	}

	// Imported recipes land in the user's current functional phase so
	// they surface in upcoming suggestions.
	phase := cycle.Nurture
	if userEvents, err := b.eventRepo.List(ctx, userID); err == nil {
		if current, err := cycle.CurrentPhase(userEvents, time.Now()); err == nil {
			phase = current.Functional
		}
	}

	b.reply(chatID, "✂️ *Importing recipe...*")
	rec, err := b.importer.Import(url, phase, nil)
	if err != nil {
		return err
	}

	b.reply(chatID, fmt.Sprintf("✅ *Recipe saved:* %s\nPhase: %s %s\nTag it with meal types by editing `%s`.",
		rec.Title, cycle.PhaseEmoji(rec.Phase), rec.Phase.Title(), rec.FilePath))
	return nil
}

func (b *Bot) handleSelectMeals(ctx context.Context, chatID int64, userID string) error {
	if b.catalog == nil || b.catalog.Len() == 0 {
		b.reply(chatID, "No recipes in the catalog yet. Send me a recipe URL to add one.")
		return nil
	}

	userEvents, err := b.eventRepo.List(ctx, userID)
	if err != nil {
		return err
	}
	current, err := cycle.CurrentPhase(userEvents, time.Now())
	if err != nil {
		if b.friendlyReply(chatID, err) {
			return nil
		}
		return err
	}

	session := SelectionSession{
		UserID:    userID,
		WeekStart: cycle.DateOnly(time.Now()).AddDate(0, 0, 1),
		Current:   recipe.Breakfast,
		Chosen:    make(map[recipe.MealType]string),
	}
	if err := b.selections.Save(ctx, session); err != nil {
		return err
	}

	return b.sendMealPrompt(ctx, chatID, 0, userID, current.Functional, recipe.Breakfast, session.Chosen)
}

// sendMealPrompt shows the keyboard for one meal slot. Candidates go
// through the same rotation as the weekly plan and are recorded as
// shown. A messageID of zero sends a new message; otherwise the
// existing one is edited.
func (b *Bot) sendMealPrompt(ctx context.Context, chatID int64, messageID int, userID string, phase cycle.FunctionalPhase, meal recipe.MealType, chosen map[recipe.MealType]string) error {
	candidates := b.selectionCandidates(ctx, userID, phase, meal, chosen)

	text := fmt.Sprintf("%s Choose your *%s* for the %s phase:", cycle.PhaseEmoji(phase), meal, phase.Title())
	if len(candidates) == 0 {
		text = fmt.Sprintf("No %s recipes for the %s phase yet. Skip or import one.", meal, phase.Title())
	}
	keyboard := mealSelectionKeyboard(meal, candidates)

	if messageID == 0 {
		msg := tgbotapi.NewMessage(chatID, text)
		msg.ParseMode = "Markdown"
		msg.ReplyMarkup = &keyboard
		_, err := b.api.Send(msg)
		return err
	}
	edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, text, keyboard)
	edit.ParseMode = "Markdown"
	_, err := b.api.Send(edit)
	return err
}

// selectionCandidates picks up to three rotated recipes for a meal slot
// and records them in the shown history. Recipes already chosen for an
// earlier slot in the same session are excluded.
func (b *Bot) selectionCandidates(ctx context.Context, userID string, phase cycle.FunctionalPhase, meal recipe.MealType, chosen map[recipe.MealType]string) []recipe.Recipe {
	candidates := b.catalog.ByMealType(phase, meal)
	if len(chosen) > 0 {
		taken := make(map[string]bool, len(chosen))
		for _, id := range chosen {
			taken[id] = true
		}
		kept := candidates[:0:0]
		for _, c := range candidates {
			if !taken[c.ID] {
				kept = append(kept, c)
			}
		}
		candidates = kept
	}

	var recent map[string]time.Time
	if b.recommender != nil && b.recommender.History != nil {
		var err error
		recent, err = b.recommender.History.Recent(ctx, userID, time.Now().Add(-14*24*time.Hour))
		if err != nil {
			log.Printf("Recipe history unavailable for %s: %v", userID, err)
		}
	}
	picks := recommend.SelectRotated(candidates, recent, 3)

	if b.recommender != nil && b.recommender.History != nil && len(picks) > 0 {
		ids := make([]string, 0, len(picks))
		for _, p := range picks {
			ids = append(ids, p.ID)
		}
		if err := b.recommender.History.RecordShown(ctx, userID, ids, time.Now()); err != nil {
			log.Printf("Failed to record shown recipes for %s: %v", userID, err)
		}
	}
	return picks
}

func (b *Bot) handleSelectionStep(ctx context.Context, chatID int64, messageID int, userID, action string, meal recipe.MealType, recipeID string) error {
	session, err := b.selections.Get(ctx, userID)
	if err != nil {
		return err
	}
	if session == nil {
		b.reply(chatID, "That selection expired. Start again with /selectmeals.")
		return nil
	}

	if action == callbackPick && recipeID != "" {
		session.Chosen[meal] = recipeID
	}

	next, ok := session.NextMeal()
	if !ok {
		if err := b.selections.Delete(ctx, userID); err != nil {
			log.Printf("Failed to delete selection session for %s: %v", userID, err)
		}
		return b.finishSelection(ctx, chatID, messageID, *session)
	}

	session.Current = next
	if err := b.selections.Save(ctx, *session); err != nil {
		return err
	}

	phase := cycle.Nurture
	if userEvents, lerr := b.eventRepo.List(ctx, userID); lerr == nil {
		if current, perr := cycle.CurrentPhase(userEvents, time.Now()); perr == nil {
			phase = current.Functional
		}
	}
	return b.sendMealPrompt(ctx, chatID, messageID, userID, phase, next, session.Chosen)
}

// finishSelection turns the chosen recipes into a categorized shopping
// list, stores it, and sends it with the recipe links.
func (b *Bot) finishSelection(ctx context.Context, chatID int64, messageID int, session SelectionSession) error {
	var chosen []recipe.Recipe
	for _, id := range session.Chosen {
		if r, ok := b.catalog.ByID(id); ok {
			chosen = append(chosen, r)
		}
	}

	if len(chosen) == 0 {
		edit := tgbotapi.NewEditMessageText(chatID, messageID, "No meals selected. Run /selectmeals to try again.")
		b.api.Send(edit)
		return nil
	}

	list := shopping.BuildList(session.UserID, session.WeekStart, chosen)
	if b.shoppingRepo != nil {
		if _, err := b.shoppingRepo.Save(ctx, list); err != nil {
			log.Printf("Failed to save shopping list for %s: %v", session.UserID, err)
		}
	}

	var sb strings.Builder
	sb.WriteString("🍽 *Your meals this week:*\n")
	for _, mt := range recipe.MealTypes {
		id, ok := session.Chosen[mt]
		if !ok {
			continue
		}
		if r, found := b.catalog.ByID(id); found {
			fmt.Fprintf(&sb, "• %s: %s", titleWord(string(mt)), r.Title)
			if r.URL != "" {
				fmt.Fprintf(&sb, " [%s]", r.URL)
			}
			sb.WriteString("\n")
		}
	}
	sb.WriteString("\n")
	sb.WriteString(shopping.Format(list))

	edit := tgbotapi.NewEditMessageText(chatID, messageID, sb.String())
	edit.ParseMode = "Markdown"
	_, err := b.api.Send(edit)
	return err
}

func (b *Bot) handleMetricsRequest(ctx context.Context, msg *tgbotapi.Message) {
	if !b.cfg.IsAdmin(msg.From.ID) {
		b.reply(msg.Chat.ID, "⛔ *Access Denied*: Admin only.")
		return
	}

	usage, err := b.metricsStore.GetDailyUsage(ctx, 7)
	if err != nil {
		b.reply(msg.Chat.ID, "❌ Error fetching metrics.")
		return
	}

	health := metrics.GetSysHealth("data")

	var sb strings.Builder
	sb.WriteString("📊 *Usage & Health Report*\n\n")

	sb.WriteString("🗓 *Recent Commands*\n")
	if len(usage) == 0 {
		sb.WriteString("_No data yet_\n")
	}
	for _, d := range usage {
		sb.WriteString(fmt.Sprintf("• *%s*: %d commands, %d failed, avg %.0fms\n",
			d.Date, d.Commands, d.Failures, d.AvgMS))
	}

	sb.WriteString("\n🧠 *System Health*\n")
	sb.WriteString(fmt.Sprintf("• Uptime: %s\n", health.Uptime))
	sb.WriteString(fmt.Sprintf("• RAM: %dMB (Alloc) / %dMB (Sys)\n", health.AllocMB, health.SysMB))
	sb.WriteString(fmt.Sprintf("• Goroutines: %d\n", health.Goroutines))
	sb.WriteString(fmt.Sprintf("• Disk Data: %s\n", health.DataDiskSize))

	b.reply(msg.Chat.ID, sb.String())
}

func titleWord(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
