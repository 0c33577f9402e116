package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
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
	enqueue := flag.Bool("enqueue", false, "queue the run for the scheduler worker instead of running it here")
	requestedBy := flag.String("requested-by", os.Getenv("USER"), "operator name recorded with an enqueued run")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load config:", err)
		os.Exit(1)
	}

	log := logger.NewWithWriter(cfg.Env, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *enqueue {
		os.Exit(enqueueRun(ctx, cfg, *requestedBy, log))
	}
	os.Exit(runNow(ctx, cfg, log))
}

func enqueueRun(ctx context.Context, cfg *config.Config, requestedBy string, log *logger.Logger) int {
	client, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize scheduler client", "error", err)
		return 1
	}
	defer client.Close()

	id, err := client.EnqueueRunAll(ctx, scheduler.RunAutomationsPayload{
		Trigger:     events.TriggerCLI,
		RequestedBy: requestedBy,
	})
	if err != nil {
		log.Error("failed to enqueue automations", "error", err)
		return 1
	}
	log.Info("automations enqueued", "taskId", id)
	return 0
}

func runNow(ctx context.Context, cfg *config.Config, log *logger.Logger) int {
	var pool *pgxpool.Pool
	if err := retry.Do(ctx, log, "database connection", 3, time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		return 1
	}
	defer pool.Close()

	eventBus := events.NewInMemoryBus(log)
	if err := reports.Subscribe(ctx, eventBus, cfg, log); err != nil {
		log.Error("failed to initialize report consumers", "error", err)
		return 1
	}

	module := automations.NewModule(pool, validator.New(), cfg, eventBus, log)
	report := module.Orchestrator().RunAll(ctx, events.TriggerCLI)
	eventBus.Wait()

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		log.Error("failed to write report", "error", err)
		return 1
	}

	if !report.Success {
		return 2
	}
	return 0
}
