package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/dewdrop/dewdrop/internal/api"
	"github.com/dewdrop/dewdrop/internal/config"
	"github.com/dewdrop/dewdrop/internal/db"
	"github.com/dewdrop/dewdrop/internal/jobs"
	"github.com/dewdrop/dewdrop/internal/logger"
	"github.com/dewdrop/dewdrop/internal/repository/sqlite"
	"github.com/dewdrop/dewdrop/internal/services"
	"github.com/dewdrop/dewdrop/internal/worker"
)

func main() {
	cfg := config.Load()

	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	log.Info("===========================================")
	log.Info("Dewdrop Server Starting")
	log.Info("===========================================")
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration: %v", err)
		os.Exit(1)
	}
	log.Info("configuration loaded")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("new_cards_per_day=%d", cfg.NewCardsPerDay)
	log.Debug("counter_retention_days=%d", cfg.CounterRetentionDays)
	log.Debug("session_max_idle_minutes=%d", cfg.SessionMaxIdleMinutes)
	log.Debug("maintenance_worker_count=%d", cfg.MaintenanceWorkerCount)
	log.Debug("maintenance_queue_size=%d", cfg.MaintenanceQueueSize)

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Error("failed to open database: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing database connection")
		database.Close()
	}()

	// Repositories
	cardRepo := sqlite.NewCardRepository(database.DB)
	deckRepo := sqlite.NewDeckRepository(database.DB)
	settingsRepo := sqlite.NewSettingsRepository(database.DB)
	counterStore := sqlite.NewCounterStore(database.DB)

	// Services
	settingsService := services.NewSettingsService(settingsRepo, cfg.NewCardsPerDay)
	deckService := services.NewDeckService(deckRepo)
	cardService := services.NewCardService(cardRepo, deckRepo)
	studyService := services.NewStudyService(cardRepo, counterStore, settingsService)

	sessions := api.NewSessionManager()

	srv := &api.Server{
		DeckService:     deckService,
		CardService:     cardService,
		SettingsService: settingsService,
		StudyService:    studyService,
		Sessions:        sessions,
	}

	// Maintenance: a small worker pool plus a scheduler feeding it.
	pool := worker.NewPool(cfg.MaintenanceWorkerCount, cfg.MaintenanceQueueSize)
	ctx, cancel := context.WithCancel(context.Background())
	pool.Start(ctx)

	counterPrune := jobs.NewCounterPruneJob(counterStore, time.Duration(cfg.CounterRetentionDays)*24*time.Hour)
	sessionSweep := jobs.NewSessionSweepJob(sessions, time.Duration(cfg.SessionMaxIdleMinutes)*time.Minute)

	sched := gocron.NewScheduler(time.UTC)
	if _, err := sched.Every(1).Day().At("03:00").Do(func() { pool.Submit(counterPrune) }); err != nil {
		log.Error("failed to schedule counter prune: %v", err)
		os.Exit(1)
	}
	if _, err := sched.Every(1).Hour().Do(func() { pool.Submit(sessionSweep) }); err != nil {
		log.Error("failed to schedule session sweep: %v", err)
		os.Exit(1)
	}
	sched.StartAsync()

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Debug("stopping maintenance scheduler")
	sched.Stop()
	cancel()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	log.Debug("stopping worker pool")
	pool.Stop()

	log.Info("===========================================")
	log.Info("Dewdrop Server Stopped")
	log.Info("===========================================")
}
