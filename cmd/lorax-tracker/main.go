package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"lorax-tracker/internal/config"
	"lorax-tracker/internal/cycle"
	"lorax-tracker/internal/database"
	"lorax-tracker/internal/events"
	"lorax-tracker/internal/history"
	"lorax-tracker/internal/metrics"
	"lorax-tracker/internal/plan"
	"lorax-tracker/internal/recipe"
	"lorax-tracker/internal/recommend"
)

func main() {
	ctx := context.Background()

	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.NewDB(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	eventRepo := events.NewRepository(db.SQL)
	historyRepo := history.NewRepository(db.SQL)
	planCache := plan.NewCacheRepository(db.SQL)
	metricsStore := metrics.NewStore(db.SQL)

	catalog := recipe.NewCatalog(cfg.RecipesPath)
	if _, err := catalog.Load(); err != nil {
		log.Printf("Warning: recipe catalog unavailable: %v", err)
	}

	recommender := recommend.NewBuilder(catalog, historyRepo)
	generator := plan.NewGenerator(recommender)

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "report":
		reportCmd := flag.NewFlagSet("report", flag.ExitOnError)
		user := reportCmd.String("user", "", "Telegram user ID to report on")
		reportCmd.Parse(os.Args[2:])
		if *user == "" {
			log.Fatal("report requires -user")
		}

		evs, err := eventRepo.List(ctx, *user)
		if err != nil {
			log.Fatalf("Failed to load events: %v", err)
		}
		phase, err := cycle.CurrentPhase(evs, time.Now())
		if err != nil {
			log.Fatalf("Failed to derive phase: %v", err)
		}
		fmt.Println(cycle.FormatPhaseReport(phase, evs, time.Now()))

	case "plan":
		planCmd := flag.NewFlagSet("plan", flag.ExitOnError)
		user := planCmd.String("user", "", "Telegram user ID to plan for")
		planCmd.Parse(os.Args[2:])
		if *user == "" {
			log.Fatal("plan requires -user")
		}

		evs, err := eventRepo.List(ctx, *user)
		if err != nil {
			log.Fatalf("Failed to load events: %v", err)
		}
		weekly, err := generator.Generate(ctx, *user, evs)
		if err != nil {
			log.Fatalf("Failed to generate plan: %v", err)
		}
		fmt.Println(plan.FormatWeeklyPlan(weekly, cycle.DateOnly(time.Now())))

	case "import":
		importCmd := flag.NewFlagSet("import", flag.ExitOnError)
		url := importCmd.String("url", "", "Recipe page URL to import")
		phaseArg := importCmd.String("phase", "nurture", "Functional phase directory (power, manifestation, nurture)")
		tagsArg := importCmd.String("tags", "", "Comma-separated tags for the imported recipe")
		importCmd.Parse(os.Args[2:])
		if *url == "" {
			log.Fatal("import requires -url")
		}

		phase, err := parseFunctionalPhase(*phaseArg)
		if err != nil {
			log.Fatal(err)
		}
		var tags []string
		for _, t := range strings.Split(*tagsArg, ",") {
			if t = strings.TrimSpace(t); t != "" {
				tags = append(tags, t)
			}
		}

		importer := recipe.NewImporter(catalog)
		r, err := importer.Import(*url, phase, tags)
		if err != nil {
			log.Fatalf("Import failed: %v", err)
		}
		fmt.Printf("Imported %q into %s (%s)\n", r.Title, phase, r.FilePath)

	case "broadcast":
		// Cron-friendly: send the weekly plan to every allowed user.
		if len(cfg.TelegramAllowedUserIDs) == 0 {
			log.Fatal("broadcast requires TELEGRAM_ALLOWED_USER_IDS to be set")
		}
		api, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
		if err != nil {
			log.Fatalf("Failed to init telegram api: %v", err)
		}

		sent := 0
		for _, id := range cfg.TelegramAllowedUserIDs {
			userID := fmt.Sprintf("%d", id)
			evs, err := eventRepo.List(ctx, userID)
			if err != nil {
				log.Printf("Skipping %s: %v", userID, err)
				continue
			}
			weekly, err := generator.Generate(ctx, userID, evs)
			if err != nil {
				log.Printf("Skipping %s: %v", userID, err)
				continue
			}
			msg := tgbotapi.NewMessage(id, plan.FormatWeeklyPlan(weekly, cycle.DateOnly(time.Now())))
			msg.ParseMode = "Markdown"
			if _, err := api.Send(msg); err != nil {
				log.Printf("Failed to send plan to %s: %v", userID, err)
				continue
			}
			sent++
		}
		fmt.Printf("Sent weekly plans to %d of %d users.\n", sent, len(cfg.TelegramAllowedUserIDs))

	case "cleanup":
		cleanupCmd := flag.NewFlagSet("cleanup", flag.ExitOnError)
		days := cleanupCmd.Int("days", 30, "Keep metric records for the last N days")
		cleanupCmd.Parse(os.Args[2:])

		purged, err := historyRepo.PurgeExpired(ctx)
		if err != nil {
			log.Fatalf("History cleanup failed: %v", err)
		}
		expired, err := planCache.PurgeExpired(ctx)
		if err != nil {
			log.Fatalf("Plan cache cleanup failed: %v", err)
		}
		affected, err := metricsStore.Cleanup(ctx, *days)
		if err != nil {
			log.Fatalf("Metrics cleanup failed: %v", err)
		}
		fmt.Printf("Removed %d history rows, %d cached plans, %d metric records.\n",
			purged, expired, affected)

	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func parseFunctionalPhase(s string) (cycle.FunctionalPhase, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "power":
		return cycle.Power, nil
	case "manifestation":
		return cycle.Manifestation, nil
	case "nurture":
		return cycle.Nurture, nil
	}
	return "", fmt.Errorf("unknown phase %q (want power, manifestation or nurture)", s)
}

func printUsage() {
	fmt.Println("Usage: lorax-tracker <command> [arguments]")
	fmt.Println("\nCommands:")
	fmt.Println("  report    Print the current phase report for a user")
	fmt.Println("  plan      Generate and print the weekly plan for a user")
	fmt.Println("  import    Fetch a recipe page into the local catalog")
	fmt.Println("  broadcast Send the weekly plan to every allowed user")
	fmt.Println("  cleanup   Remove expired history, cached plans and old metrics")
}
