package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"adsales_backend/internal/automations"
	"adsales_backend/internal/events"
	"adsales_backend/internal/reports"
	"adsales_backend/internal/scheduler"
	"adsales_backend/platform/config"
	"adsales_backend/platform/db"
	"adsales_backend/platform/logger"
	"adsales_backend/platform/retry"
	"adsales_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting scheduler", "env", cfg.Env, "schedule", cfg.GetAutomationsSchedule())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var pool *pgxpool.Pool
	if err := retry.Do(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	eventBus := events.NewInMemoryBus(log)
	if err := reports.Subscribe(ctx, eventBus, cfg, log); err != nil {
		log.Error("failed to initialize report consumers", "error", err)
		panic("failed to initialize report consumers: " + err.Error())
	}

	automationsModule := automations.NewModule(pool, validator.New(), cfg, eventBus, log)

	worker, err := scheduler.NewWorker(cfg, automationsModule.Orchestrator(), log)
	if err != nil {
		log.Error("failed to initialize scheduler worker", "error", err)
		panic("failed to initialize scheduler worker: " + err.Error())
	}

	periodic, err := scheduler.NewPeriodic(cfg, log)
	if err != nil {
		log.Error("failed to initialize automations schedule", "error", err)
		panic("failed to initialize automations schedule: " + err.Error())
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		worker.Run(ctx)
	}()
	go func() {
		defer wg.Done()
		periodic.Run(ctx)
	}()

	<-ctx.Done()
	log.Info("shutdown signal received, stopping scheduler")
	wg.Wait()
	eventBus.Wait()
}
