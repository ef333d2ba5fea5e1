package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/example/moodtracker/internal/bot"
	"github.com/example/moodtracker/internal/config"
	"github.com/example/moodtracker/internal/database"
	"github.com/example/moodtracker/internal/excel"
	"github.com/example/moodtracker/internal/ledger"
	"github.com/example/moodtracker/internal/logger"
	"github.com/example/moodtracker/internal/scheduler"
	"github.com/example/moodtracker/internal/server"
	"go.uber.org/zap"
)

func main() {
	importPath := flag.String("import", "", "import mood history from an .xlsx or .csv file and exit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logg, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logg.Sync()

	// Cancelled on SIGINT/SIGTERM
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	store, closeStore, err := openStore(cfg)
	if err != nil {
		logg.Fatal("Failed to open storage", zap.Error(err))
	}
	defer closeStore()

	loc, _ := cfg.Location()
	moods := ledger.New(store, logg.Named("ledger"), ledger.WithLocation(loc))

	if *importPath != "" {
		result, err := excel.ImportHistory(ctx, excel.DefaultImportConfig(*importPath), moods)
		if err != nil {
			logg.Fatal("Import failed", zap.Error(err))
		}
		logg.Info("Import finished",
			zap.Int("processed", result.TotalProcessed),
			zap.Int("imported", result.Imported),
			zap.Int("skipped", result.Skipped),
			zap.Strings("errors", result.Errors),
		)
		return
	}

	var notifier scheduler.Notifier
	if cfg.TelegramEnabled() {
		b, err := bot.New(cfg.TelegramToken, bot.DefaultConfig(cfg.TelegramChatID), moods, logg.Named("bot"))
		if err != nil {
			logg.Fatal("Failed to create bot", zap.Error(err))
		}
		notifier = b
		defer b.Stop()

		go func() {
			if err := b.Start(ctx); err != nil && err != context.Canceled {
				logg.Error("Bot error", zap.Error(err))
			}
		}()
	}

	if cfg.SchedulerEnabled {
		sched := scheduler.New(scheduler.Config{
			Location:   loc,
			BackfillAt: cfg.BackfillAt,
			ReminderAt: cfg.ReminderAt,
		}, moods, notifier, logg.Named("scheduler"))
		if err := sched.Start(ctx); err != nil {
			logg.Fatal("Failed to start scheduler", zap.Error(err))
		}
		defer sched.Stop()
	}

	srv := server.New(server.Config{
		Addr:         cfg.ListenAddr,
		Mode:         cfg.GinMode,
		HistoryLimit: cfg.HistoryLimit,
	}, moods, logg.Named("http"))

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	// Wait for a signal or a server failure
	select {
	case <-ctx.Done():
		logg.Info("Shutting down")
	case err := <-errCh:
		if err != nil {
			logg.Error("HTTP server error", zap.Error(err))
		}
	}

	// Give in-flight requests time to finish
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logg.Error("Error during shutdown", zap.Error(err))
	}
	logg.Info("Mood tracker stopped")
}

// openStore picks the ledger store for the configured driver
func openStore(cfg *config.Config) (ledger.Store, func(), error) {
	if cfg.DBDriver == config.DriverMemory {
		return database.NewMemoryRepository(), func() {}, nil
	}

	db, err := database.Connect(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		return nil, nil, err
	}
	return database.NewMoodRepository(db), func() { db.Close() }, nil
}
