package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"adsales_backend/internal/automations/transport"
	"adsales_backend/internal/events"
	"adsales_backend/platform/logger"

	"github.com/google/uuid"
)

const reportContentType = "application/json"

// ArchivedReport is the object body written for every run-all.
type ArchivedReport struct {
	RunID   uuid.UUID                `json:"run_id"`
	Trigger events.Trigger           `json:"trigger"`
	Report  transport.RunAllResponse `json:"report"`
}

// ReportArchiver stores each run-all report as a JSON object.
type ReportArchiver struct {
	store  StorageService
	bucket string
	log    *logger.Logger
}

// NewReportArchiver creates an archiver writing to bucket.
func NewReportArchiver(store StorageService, bucket string, log *logger.Logger) *ReportArchiver {
	if log == nil {
		log = logger.Nop()
	}
	return &ReportArchiver{store: store, bucket: bucket, log: log}
}

// Subscribe registers the archiver on bus.
func (a *ReportArchiver) Subscribe(bus events.Bus) {
	bus.Subscribe(events.AutomationsCompleted{}.EventName(), a)
}

// Handle implements events.Handler.
func (a *ReportArchiver) Handle(ctx context.Context, event events.Event) error {
	completed, ok := event.(events.AutomationsCompleted)
	if !ok {
		return fmt.Errorf("report archiver: unexpected event %T", event)
	}

	body, err := json.Marshal(ArchivedReport{
		RunID:   completed.RunID,
		Trigger: completed.Trigger,
		Report:  completed.Report,
	})
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	key := ReportKey(completed)
	if err := a.store.PutObject(ctx, a.bucket, key, reportContentType, bytes.NewReader(body), int64(len(body))); err != nil {
		return err
	}

	a.log.Info("automation report archived", "runId", completed.RunID, "bucket", a.bucket, "key", key)
	return nil
}

// ReportKey is reports/YYYY/MM/DD/<run id>.json, dated by the run.
func ReportKey(e events.AutomationsCompleted) string {
	ranAt := e.Report.RanAt
	if ranAt.IsZero() {
		ranAt = e.OccurredAt()
	}
	return fmt.Sprintf("reports/%s/%s.json", ranAt.UTC().Format("2006/01/02"), e.RunID)
}
