package scheduler

import (
	"context"
	"fmt"

	"adsales_backend/internal/events"
	"adsales_backend/platform/config"
	"adsales_backend/platform/logger"

	"github.com/hibiken/asynq"
)

// DefaultAutomationsSchedule runs the automations daily at 06:00 UTC.
const DefaultAutomationsSchedule = "0 6 * * *"

// Periodic enqueues a run-all on the configured cron schedule.
type Periodic struct {
	scheduler *asynq.Scheduler
	entryID   string
	cronSpec  string
	log       *logger.Logger
}

func NewPeriodic(cfg config.SchedulerConfig, log *logger.Logger) (*Periodic, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	cronSpec := cfg.GetAutomationsSchedule()
	if cronSpec == "" {
		cronSpec = DefaultAutomationsSchedule
	}

	task, err := NewRunAutomationsTask(RunAutomationsPayload{
		Trigger:     events.TriggerScheduler,
		RequestedBy: "cron",
	})
	if err != nil {
		return nil, err
	}

	s := asynq.NewScheduler(opt, nil)
	entryID, err := s.Register(cronSpec, task, asynq.Queue(queueName(cfg)), asynq.Unique(runUniqueTTL))
	if err != nil {
		return nil, fmt.Errorf("register automations schedule %q: %w", cronSpec, err)
	}

	return &Periodic{scheduler: s, entryID: entryID, cronSpec: cronSpec, log: log}, nil
}

// Run blocks until ctx is cancelled.
func (p *Periodic) Run(ctx context.Context) {
	if p == nil || p.scheduler == nil {
		return
	}

	if err := p.scheduler.Start(); err != nil {
		p.log.Error("automations scheduler failed to start", "error", err)
		return
	}
	p.log.Info("automations scheduled", "cron", p.cronSpec, "entryId", p.entryID)

	<-ctx.Done()
	p.scheduler.Shutdown()
}
