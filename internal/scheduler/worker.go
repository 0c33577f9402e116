package scheduler

import (
	"context"
	"fmt"

	"adsales_backend/internal/automations/transport"
	"adsales_backend/internal/events"
	"adsales_backend/platform/config"
	"adsales_backend/platform/logger"

	"github.com/hibiken/asynq"
)

// Runner executes a run-all.
type Runner interface {
	RunAll(ctx context.Context, trigger events.Trigger) transport.RunAllResponse
}

type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	runner Runner
	log    *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, runner Runner, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 1
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queueName(cfg): 1,
		},
	})

	w := &Worker{
		server: server,
		runner: runner,
		log:    log,
	}
	w.mux = w.newMux()
	return w, nil
}

func (w *Worker) newMux() *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskRunAutomations, w.handleRunAutomations)
	return mux
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}

// handleRunAutomations never asks asynq to retry: step failures are already
// part of the report, and the next scheduled run picks them up.
func (w *Worker) handleRunAutomations(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseRunAutomationsPayload(task)
	if err != nil {
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}

	report := w.runner.RunAll(ctx, payload.Trigger)
	if !report.Success {
		w.log.Warn("scheduled automations finished with errors",
			"trigger", payload.Trigger,
			"requestedBy", payload.RequestedBy,
			"errors", report.Errors)
	}
	return nil
}
