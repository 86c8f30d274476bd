package telegram

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"lorax-tracker/internal/recipe"
)

// Callback data prefixes. Telegram caps callback data at 64 bytes, so
// the payload is "prefix|meal|recipeID" with short recipe slugs.
const (
	callbackPick = "pick"
	callbackSkip = "skip"
	callbackRedo = "redo"
)

// mealSelectionKeyboard builds the inline keyboard for one meal slot:
// one button per candidate recipe plus a skip button.
func mealSelectionKeyboard(meal recipe.MealType, candidates []recipe.Recipe) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, r := range candidates {
		label := r.Title
		if r.PrepMinutes > 0 {
			label = fmt.Sprintf("%s (%d min)", r.Title, r.PrepMinutes)
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, callbackData(callbackPick, meal, r.ID)),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("⏭ Skip "+string(meal), callbackData(callbackSkip, meal, "")),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// planRegenerateKeyboard offers to rebuild an already-cached plan.
func planRegenerateKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔄 Regenerate plan", callbackData(callbackRedo, "", "")),
		),
	)
}

func callbackData(action string, meal recipe.MealType, recipeID string) string {
	data := fmt.Sprintf("%s|%s|%s", action, meal, recipeID)
	if len(data) > 64 {
		data = data[:64]
	}
	return data
}

// parseCallbackData splits "action|meal|recipeID".
func parseCallbackData(data string) (action string, meal recipe.MealType, recipeID string, ok bool) {
	parts := strings.SplitN(data, "|", 3)
	if len(parts) != 3 {
		return "", "", "", false
	}
	return parts[0], recipe.MealType(parts[1]), parts[2], true
}
