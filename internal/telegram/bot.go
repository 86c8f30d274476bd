package telegram

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"lorax-tracker/internal/config"
	"lorax-tracker/internal/events"
	"lorax-tracker/internal/metrics"
	"lorax-tracker/internal/plan"
	"lorax-tracker/internal/recipe"
	"lorax-tracker/internal/recommend"
	"lorax-tracker/internal/shopping"
)

// Bot wraps the Telegram API and the cycle tracking services.
type Bot struct {
	api *tgbotapi.BotAPI
	cfg *config.Config

	eventRepo    *events.Repository
	generator    *plan.Generator
	planCache    *plan.CacheRepository
	recommender  *recommend.Builder
	catalog      *recipe.Catalog
	importer     *recipe.Importer
	shoppingRepo *shopping.Repository
	selections   *SelectionRepository
	metricsStore *metrics.Store
}

// Deps bundles the services the bot dispatches to.
type Deps struct {
	Events       *events.Repository
	Generator    *plan.Generator
	PlanCache    *plan.CacheRepository
	Recommender  *recommend.Builder
	Catalog      *recipe.Catalog
	Importer     *recipe.Importer
	ShoppingRepo *shopping.Repository
	Selections   *SelectionRepository
	MetricsStore *metrics.Store
}

// NewBot initializes the Telegram Bot and sets the Webhook.
func NewBot(cfg *config.Config, deps Deps) (*Bot, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram api: %w", err)
	}

	log.Printf("Authorized on account %s", bot.Self.UserName)

	wh, _ := tgbotapi.NewWebhook(cfg.TelegramWebhookURL)
	resp, err := bot.Request(wh)
	if err != nil {
		return nil, fmt.Errorf("failed to set webhook to %s: %w", cfg.TelegramWebhookURL, err)
	}
	log.Printf("Webhook set response: %s", resp.Description)

	return &Bot{
		api:          bot,
		cfg:          cfg,
		eventRepo:    deps.Events,
		generator:    deps.Generator,
		planCache:    deps.PlanCache,
		recommender:  deps.Recommender,
		catalog:      deps.Catalog,
		importer:     deps.Importer,
		shoppingRepo: deps.ShoppingRepo,
		selections:   deps.Selections,
		metricsStore: deps.MetricsStore,
	}, nil
}

// RegisterHandlers registers the webhook handler with the default HTTP mux.
func (b *Bot) RegisterHandlers() {
	http.HandleFunc("/webhook", b.handleWebhook)
	http.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
}

func (b *Bot) handleWebhook(w http.ResponseWriter, r *http.Request) {
	update, err := b.api.HandleUpdate(r)
	if err != nil {
		log.Printf("Error parsing update: %v", err)
		return
	}

	if update.CallbackQuery != nil {
		if !b.cfg.IsUserAllowed(update.CallbackQuery.From.ID) {
			return
		}
		go b.handleCallbackQuery(update.CallbackQuery)
		return
	}

	if update.Message == nil {
		return
	}

	if !b.cfg.IsUserAllowed(update.Message.From.ID) {
		log.Printf("⚠️ Unauthorized access attempt from UserID: %d (@%s)",
			update.Message.From.ID, update.Message.From.UserName)
		return
	}

	go b.processMessage(update.Message)
}

func (b *Bot) processMessage(msg *tgbotapi.Message) {
	ctx := context.Background()
	userID := fmt.Sprintf("%d", msg.From.ID)
	start := time.Now()

	command, args := splitCommand(msg.Text)

	var err error
	switch {
	case strings.HasPrefix(msg.Text, "http://"), strings.HasPrefix(msg.Text, "https://"):
		command = "import"
		err = b.handleImport(ctx, msg.Chat.ID, userID, msg.Text)
	case command == "/start", command == "/help":
		b.reply(msg.Chat.ID, helpText)
	case command == "/register":
		err = b.handleRegister(ctx, msg.Chat.ID, userID, args)
	case command == "/phase":
		err = b.handlePhase(ctx, msg.Chat.ID, userID)
	case command == "/weeklyplan":
		err = b.handleWeeklyPlan(ctx, msg.Chat.ID, userID, false)
	case command == "/prediction":
		err = b.handlePrediction(ctx, msg.Chat.ID, userID)
	case command == "/history":
		err = b.handleHistory(ctx, msg.Chat.ID, userID)
	case command == "/statistics":
		err = b.handleStatistics(ctx, msg.Chat.ID, userID)
	case command == "/week":
		err = b.handleWeekAnalysis(ctx, msg.Chat.ID, userID)
	case command == "/selectmeals":
		err = b.handleSelectMeals(ctx, msg.Chat.ID, userID)
	case command == "/metrics":
		b.handleMetricsRequest(ctx, msg)
	default:
		b.reply(msg.Chat.ID, "Unknown command. Try /help.")
	}

	if err != nil {
		log.Printf("Command %s failed for user %s: %v", command, userID, err)
		b.replyError(msg.Chat.ID, err)
	}
	b.recordMetric(ctx, command, userID, start, err)
}

func (b *Bot) handleCallbackQuery(query *tgbotapi.CallbackQuery) {
	ctx := context.Background()
	userID := fmt.Sprintf("%d", query.From.ID)

	// Answer callback to remove spinner
	b.api.Request(tgbotapi.NewCallback(query.ID, ""))

	action, meal, recipeID, ok := parseCallbackData(query.Data)
	if !ok {
		return
	}

	var err error
	switch action {
	case callbackPick, callbackSkip:
		err = b.handleSelectionStep(ctx, query.Message.Chat.ID, query.Message.MessageID, userID, action, meal, recipeID)
	case callbackRedo:
		if b.planCache != nil {
			if cerr := b.planCache.Invalidate(ctx, userID); cerr != nil {
				log.Printf("Failed to invalidate plan cache for %s: %v", userID, cerr)
			}
		}
		err = b.handleWeeklyPlan(ctx, query.Message.Chat.ID, userID, true)
	}
	if err != nil {
		log.Printf("Callback %s failed for user %s: %v", action, userID, err)
		b.replyError(query.Message.Chat.ID, err)
	}
}

func (b *Bot) recordMetric(ctx context.Context, command, userID string, start time.Time, err error) {
	if b.metricsStore == nil || command == "" {
		return
	}
	metric := metrics.CommandMetric{
		Command:   command,
		UserID:    userID,
		LatencyMS: time.Since(start).Milliseconds(),
		Success:   err == nil,
	}
	if rerr := b.metricsStore.Record(ctx, metric); rerr != nil {
		log.Printf("Failed to record metric for %s: %v", command, rerr)
	}
}

func (b *Bot) reply(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = "Markdown"
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("Failed to send message: %v", err)
	}
}

func (b *Bot) replyError(chatID int64, err error) {
	safeErr := strings.ReplaceAll(err.Error(), "`", "'")
	b.reply(chatID, fmt.Sprintf("❌ *Something went wrong:*\n```\n%v\n```", safeErr))
}

func (b *Bot) sendAdminAlert(text string) {
	if b.cfg.AdminTelegramID == 0 {
		return
	}
	msg := tgbotapi.NewMessage(b.cfg.AdminTelegramID, text)
	msg.ParseMode = "Markdown"
	b.api.Send(msg)
}

// splitCommand separates "/register 2025-08-01 menstruation" into the
// command and its argument string.
func splitCommand(text string) (string, string) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return "", text
	}
	parts := strings.SplitN(text, " ", 2)
	if len(parts) == 1 {
		return parts[0], ""
	}
	return parts[0], strings.TrimSpace(parts[1])
}
