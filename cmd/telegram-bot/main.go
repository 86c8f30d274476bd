package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lorax-tracker/internal/config"
	"lorax-tracker/internal/database"
	"lorax-tracker/internal/events"
	"lorax-tracker/internal/history"
	"lorax-tracker/internal/metrics"
	"lorax-tracker/internal/plan"
	"lorax-tracker/internal/recipe"
	"lorax-tracker/internal/recommend"
	"lorax-tracker/internal/shopping"
	"lorax-tracker/internal/telegram"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Initialize the SQLite database
	db, err := database.NewDB(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// 3. Initialize repositories
	eventRepo := events.NewRepository(db.SQL)
	historyRepo := history.NewRepository(db.SQL)
	shoppingRepo := shopping.NewRepository(db.SQL)
	planCache := plan.NewCacheRepository(db.SQL)
	selections := telegram.NewSelectionRepository(db.SQL)
	metricsStore := metrics.NewStore(db.SQL)

	// 4. Load the recipe catalog; the bot degrades to static guidance
	// when it is empty or broken.
	catalog := recipe.NewCatalog(cfg.RecipesPath)
	if n, err := catalog.Load(); err != nil {
		log.Printf("Warning: recipe catalog unavailable: %v", err)
	} else {
		log.Printf("Loaded %d recipes from %s", n, cfg.RecipesPath)
	}

	// 5. Initialize services
	recommender := recommend.NewBuilder(catalog, historyRepo)
	generator := plan.NewGenerator(recommender)
	importer := recipe.NewImporter(catalog)

	// 6. Initialize Telegram Bot
	bot, err := telegram.NewBot(cfg, telegram.Deps{
		Events:       eventRepo,
		Generator:    generator,
		PlanCache:    planCache,
		Recommender:  recommender,
		Catalog:      catalog,
		Importer:     importer,
		ShoppingRepo: shoppingRepo,
		Selections:   selections,
		MetricsStore: metricsStore,
	})
	if err != nil {
		log.Fatalf("Failed to initialize Telegram Bot: %v", err)
	}

	// 7. Start Server with Graceful Shutdown
	bot.RegisterHandlers()

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: nil,
	}

	go func() {
		log.Printf("Telegram Bot Server listening on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting")
}
