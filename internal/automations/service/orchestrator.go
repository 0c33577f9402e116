package service

import (
	"context"
	"fmt"
	"time"

	"adsales_backend/internal/automations/domain"
	"adsales_backend/internal/automations/transport"
	"adsales_backend/internal/events"
	"adsales_backend/platform/apperr"
	"adsales_backend/platform/config"
	"adsales_backend/platform/logger"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Step names as they appear in run-all error strings.
const (
	StepWaffling      = "recalculate-waffling"
	StepAtRisk        = "detect-at-risk"
	StepDeadlines     = "deadline-alerts"
	StepStaleContacts = "stale-contacts"
	StepDigest        = "daily-digest"

	defaultStepTimeout = 60 * time.Second
)

// step is one unit of a run-all. run returns the step's report.
type step struct {
	name string
	run  func(ctx context.Context) (any, error)
}

// outcome is a finished step: either a report or an error, never both.
type outcome struct {
	name   string
	report any
	err    error
}

// Orchestrator runs every automation and folds the outcomes into one report.
// A failing step never stops the others.
type Orchestrator struct {
	scoring     []step
	digest      step
	bus         events.Bus
	log         *logger.Logger
	stepTimeout time.Duration
	parallel    bool
	now         func() time.Time
}

// NewOrchestrator builds the fixed pipeline: waffling, at-risk, deadlines,
// stale contacts, then the digest.
func NewOrchestrator(svcs *Services, cfg config.AutomationConfig, bus events.Bus, log *logger.Logger) *Orchestrator {
	if log == nil {
		log = logger.Nop()
	}

	deadlineDays := cfg.GetDeadlineDaysThreshold()
	if deadlineDays < 1 {
		deadlineDays = domain.DefaultDeadlineDays
	}
	staleDays := cfg.GetStaleDaysThreshold()
	if staleDays < 1 {
		staleDays = domain.DefaultStaleDays
	}
	timeout := cfg.GetStepTimeout()
	if timeout <= 0 {
		timeout = defaultStepTimeout
	}

	return &Orchestrator{
		scoring: []step{
			{name: StepWaffling, run: func(ctx context.Context) (any, error) { return svcs.Waffling.Run(ctx) }},
			{name: StepAtRisk, run: func(ctx context.Context) (any, error) { return svcs.AtRisk.Run(ctx) }},
			{name: StepDeadlines, run: func(ctx context.Context) (any, error) { return svcs.Deadlines.Run(ctx, deadlineDays) }},
			{name: StepStaleContacts, run: func(ctx context.Context) (any, error) { return svcs.Stale.Run(ctx, staleDays) }},
		},
		digest:      step{name: StepDigest, run: func(ctx context.Context) (any, error) { return svcs.Digest.Run(ctx) }},
		bus:         bus,
		log:         log,
		stepTimeout: timeout,
		parallel:    cfg.GetRunParallel(),
		now:         time.Now,
	}
}

// RunAll executes every step and returns the combined report. It always
// returns a report; step failures are listed in Errors.
func (o *Orchestrator) RunAll(ctx context.Context, trigger events.Trigger) transport.RunAllResponse {
	runID := uuid.New()
	ctx = context.WithValue(ctx, logger.RunIDKey, runID.String())
	log := o.log.WithContext(ctx)

	start := o.now()
	log.Info("running all automations", "trigger", trigger, "parallel", o.parallel)

	outcomes := o.runScoring(ctx)
	// The digest reads the at-risk flags, so it always runs last.
	outcomes = append(outcomes, o.runStep(ctx, o.digest))

	report := fold(outcomes)
	report.RanAt = o.now().UTC()
	report.DurationMS = report.RanAt.Sub(start).Milliseconds()

	log.Info("all automations complete",
		"success", report.Success,
		"durationMs", report.DurationMS,
		"errors", len(report.Errors))

	if o.bus != nil {
		o.bus.Publish(ctx, events.AutomationsCompleted{
			BaseEvent: events.NewBaseEvent(),
			RunID:     runID,
			Trigger:   trigger,
			Report:    report,
		})
	}

	return report
}

func (o *Orchestrator) runScoring(ctx context.Context) []outcome {
	outcomes := make([]outcome, len(o.scoring))
	if !o.parallel {
		for i, s := range o.scoring {
			outcomes[i] = o.runStep(ctx, s)
		}
		return outcomes
	}

	// Steps capture their own failures, so the group never cancels siblings.
	var g errgroup.Group
	for i, s := range o.scoring {
		i, s := i, s
		g.Go(func() error {
			outcomes[i] = o.runStep(ctx, s)
			return nil
		})
	}
	_ = g.Wait()
	return outcomes
}

// runStep runs s under its own deadline. A timeout or panic becomes the
// step's error.
func (o *Orchestrator) runStep(ctx context.Context, s step) outcome {
	log := o.log.WithContext(ctx)
	stepCtx, cancel := context.WithTimeout(ctx, o.stepTimeout)
	defer cancel()

	log.AutomationStarted(s.name)
	started := time.Now()

	done := make(chan outcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- outcome{name: s.name, err: apperr.Internal(fmt.Sprintf("panic: %v", r))}
			}
		}()
		report, err := s.run(stepCtx)
		if err != nil {
			report = nil
		}
		done <- outcome{name: s.name, report: report, err: err}
	}()

	var out outcome
	select {
	case out = <-done:
	case <-stepCtx.Done():
		out = outcome{name: s.name, err: apperr.FromContext("", stepCtx.Err())}
	}

	if out.err != nil {
		log.AutomationFailed(s.name, out.err)
	} else {
		log.AutomationCompleted(s.name, headlineCount(out.report), time.Since(started))
	}
	return out
}

// fold accumulates outcomes into the report. Failed steps leave their result
// slot empty and contribute "<step>: <message>" to Errors.
func fold(outcomes []outcome) transport.RunAllResponse {
	var report transport.RunAllResponse
	for _, out := range outcomes {
		if out.err != nil {
			report.Errors = append(report.Errors, out.name+": "+out.err.Error())
			continue
		}

		switch r := out.report.(type) {
		case transport.WafflingResponse:
			report.Results.Waffling = &r
			report.Summary.WafflingUpdated = r.AccountsUpdated
		case transport.AtRiskResponse:
			report.Results.AtRisk = &r
			report.Summary.AtRiskDetected = r.DealsUpdated
		case transport.DeadlineAlertsResponse:
			report.Results.Deadlines = &r
			report.Summary.DeadlineAlerts = r.AlertsCount
		case transport.StaleContactsResponse:
			report.Results.StaleContacts = &r
			report.Summary.StaleContacts = r.StaleContactsCount
		case transport.DigestResponse:
			report.Results.Digest = &r
		default:
			report.Errors = append(report.Errors, fmt.Sprintf("%s: unexpected report type %T", out.name, out.report))
		}
	}
	report.Success = len(report.Errors) == 0
	return report
}

func headlineCount(report any) int {
	switch r := report.(type) {
	case transport.WafflingResponse:
		return r.AccountsUpdated
	case transport.AtRiskResponse:
		return r.DealsUpdated
	case transport.DeadlineAlertsResponse:
		return r.AlertsCount
	case transport.StaleContactsResponse:
		return r.StaleContactsCount
	case transport.DigestResponse:
		return len(r.Digest.UpcomingDeadlines)
	default:
		return 0
	}
}
