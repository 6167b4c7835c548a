package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/example/vocabsync/internal/auth"
	"github.com/example/vocabsync/internal/database"
	"github.com/example/vocabsync/internal/excel"
	"github.com/example/vocabsync/internal/lookup"
	"github.com/example/vocabsync/internal/notify"
	"github.com/example/vocabsync/internal/scheduler"
	"github.com/example/vocabsync/internal/spaced_repetition"
	"github.com/example/vocabsync/internal/sync"
	"github.com/example/vocabsync/internal/vocabulary"
)

func main() {
	// .env is optional; real deployments use the environment directly.
	_ = godotenv.Load()

	importFile := flag.String("import", "", "import a vocabulary list from an Excel/CSV file and exit")
	flag.Parse()

	db, err := database.Connect()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	wordRepo := database.NewWordRepository(db)
	reviewRepo := database.NewReviewRepository(db)
	stateRepo := database.NewSyncStateRepository(db)

	authManager, err := auth.NewManager(stateRepo, nil, nil)
	if err != nil {
		log.Fatalf("Failed to restore session: %v", err)
	}

	svc := vocabulary.NewService(wordRepo, reviewRepo, lookup.NewDictionaryAPI(), spaced_repetition.NewSM2(), nil)

	if *importFile != "" {
		result, err := excel.ImportWords(context.Background(), svc, importConfig(*importFile))
		if err != nil {
			log.Fatalf("Import failed: %v", err)
		}
		log.Printf("Imported %d of %d rows (%d skipped, %d errors)",
			result.Imported, result.TotalProcessed, result.Skipped, len(result.Errors))
		for _, e := range result.Errors {
			log.Printf("  %s", e)
		}
		return
	}

	endpoint := os.Getenv("SYNC_ENDPOINT")
	if endpoint == "" {
		log.Fatal("SYNC_ENDPOINT environment variable is not set")
	}

	engineCfg := sync.DefaultConfig()
	engineCfg.OnSyncComplete = func(applied sync.SyncedCounts) {
		log.Printf("Sync applied %d words, %d reviews from remote", applied.Words, applied.Reviews)
	}

	engine, err := sync.NewEngine(wordRepo, reviewRepo, stateRepo, authManager, sync.NewClient(endpoint), engineCfg)
	if err != nil {
		log.Fatalf("Failed to create sync engine: %v", err)
	}

	autoSync := sync.NewAutoSync(engine,
		envDuration("SYNC_INTERVAL", sync.DefaultSyncInterval),
		envDuration("SYNC_DEBOUNCE", sync.DefaultDebounceDelay),
		nil)
	svc.OnLocalWrite(autoSync.Notify)
	autoSync.Start()
	defer autoSync.Stop()

	// Review reminders are optional; they need a Telegram bot token and a
	// chat to talk to.
	if token := os.Getenv("TELEGRAM_BOT_TOKEN"); token != "" {
		chatID, err := strconv.ParseInt(os.Getenv("TELEGRAM_CHAT_ID"), 10, 64)
		if err != nil {
			log.Fatalf("TELEGRAM_CHAT_ID is not a valid chat ID: %v", err)
		}
		notifier, err := notify.NewTelegram(token, chatID)
		if err != nil {
			log.Fatalf("Failed to create telegram notifier: %v", err)
		}
		reminders := scheduler.New(svc, notifier, nil)
		reminders.Start()
		defer reminders.Stop()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Kick off an initial sync so a fresh device converges right away.
	go func() {
		if _, err := engine.Sync(ctx); err != nil {
			log.Printf("Initial sync failed: %v", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	log.Println("vocabsync started. Press Ctrl+C to stop.")
	sig := <-sigChan
	log.Printf("Received signal: %v, shutting down", sig)
}

func importConfig(path string) excel.ImportConfig {
	cfg := excel.DefaultImportConfig()
	cfg.FilePath = path
	if sheet := os.Getenv("IMPORT_SHEET"); sheet != "" {
		cfg.SheetName = sheet
	}
	return cfg
}

func envDuration(name string, fallback time.Duration) time.Duration {
	if raw := os.Getenv(name); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil && d > 0 {
			return d
		}
	}
	return fallback
}
