package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/korjavin/kitchentimer/pkg/config"
	"github.com/korjavin/kitchentimer/pkg/kitchen"
	"github.com/korjavin/kitchentimer/pkg/logger"
	"github.com/korjavin/kitchentimer/pkg/presets"
	"github.com/korjavin/kitchentimer/pkg/scheduler"
	"github.com/korjavin/kitchentimer/pkg/stats"
	"github.com/korjavin/kitchentimer/pkg/storage"
	"github.com/korjavin/kitchentimer/pkg/telegram"
	"github.com/korjavin/kitchentimer/pkg/timer"
)

func main() {
	// Initialize logger
	logger.SetGlobal(logger.New("main"))
	log := logger.Global
	log.Info("Starting kitchen timer bot...")

	// Load configuration
	cfg, err := config.LoadFromEnv()
	if err != nil {
		log.Error("Failed to load configuration: %v", err)
		os.Exit(1)
	}
	if err := logger.SetLevel(cfg.LogLevel); err != nil {
		log.Warn("Ignoring LOG_LEVEL: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize storage
	store, err := storage.New(cfg.DataDir)
	if err != nil {
		log.Error("Failed to initialize storage: %v", err)
		os.Exit(1)
	}
	defer store.Close()

	// Start BadgerDB garbage collection
	store.StartGCRoutine(ctx, cfg.GCInterval)

	book := presets.Defaults()
	if cfg.PresetsFile != "" {
		if book, err = presets.Load(cfg.PresetsFile); err != nil {
			log.Error("Failed to load presets: %v", err)
			os.Exit(1)
		}
	}

	// Initialize Telegram bot
	bot, err := telegram.New(cfg.BotToken)
	if err != nil {
		log.Error("Failed to initialize Telegram bot: %v", err)
		os.Exit(1)
	}

	// Initialize services
	timers := timer.NewStore()
	kitchenService := kitchen.New(timers, stats.New(store), bot, kitchen.Options{
		MaxTimersPerChat: cfg.MaxTimersPerChat,
		Presets:          book,
	})

	sched := scheduler.New(timers, scheduler.WithPeriod(cfg.TickInterval))
	sched.OnComplete(kitchenService.HandleCompletion)
	defer sched.Close()

	go func() {
		if err := kitchenService.Run(ctx); err != nil && ctx.Err() == nil {
			log.Error("Notification queue stopped: %v", err)
		}
	}()

	// Start the bot
	log.Info("Bot is now running. Press CTRL-C to exit.")
	if err := bot.Start(ctx, kitchenService.Handlers()); err != nil {
		log.Error("Error running bot: %v", err)
		sched.Close()
		store.Close()
		os.Exit(1)
	}
	log.Info("Shutting down...")
}
