package storage

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"adsales_backend/internal/automations/transport"
	"adsales_backend/internal/events"
	"adsales_backend/platform/logger"

	"github.com/google/uuid"
)

type memoryStore struct {
	objects     map[string][]byte
	contentType string
	err         error
}

func (m *memoryStore) EnsureBucketExists(context.Context, string) error { return nil }

func (m *memoryStore) PutObject(_ context.Context, bucket, key, contentType string, r io.Reader, size int64) error {
	if m.err != nil {
		return m.err
	}
	body, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	if int64(len(body)) != size {
		return errors.New("size mismatch")
	}
	if m.objects == nil {
		m.objects = map[string][]byte{}
	}
	m.objects[bucket+"/"+key] = body
	m.contentType = contentType
	return nil
}

func completedEvent() events.AutomationsCompleted {
	return events.AutomationsCompleted{
		BaseEvent: events.NewBaseEvent(),
		RunID:     uuid.MustParse("6f1c2b7e-9d7a-4c1e-8a51-3f0f2d9b4e11"),
		Trigger:   events.TriggerScheduler,
		Report: transport.RunAllResponse{
			Success: true,
			RanAt:   time.Date(2025, 6, 2, 7, 0, 0, 0, time.UTC),
			Summary: transport.RunAllSummary{WafflingUpdated: 3},
		},
	}
}

func TestReportKey(t *testing.T) {
	got := ReportKey(completedEvent())
	want := "reports/2025/06/02/6f1c2b7e-9d7a-4c1e-8a51-3f0f2d9b4e11.json"
	if got != want {
		t.Fatalf("expected %s, got %s", want, got)
	}
}

func TestArchiverWritesReport(t *testing.T) {
	store := &memoryStore{}
	a := NewReportArchiver(store, "automation-reports", logger.Nop())

	if err := a.Handle(context.Background(), completedEvent()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	body, ok := store.objects["automation-reports/reports/2025/06/02/6f1c2b7e-9d7a-4c1e-8a51-3f0f2d9b4e11.json"]
	if !ok {
		t.Fatalf("expected report object, got keys %v", store.objects)
	}
	if store.contentType != "application/json" {
		t.Fatalf("expected JSON content type, got %s", store.contentType)
	}

	var archived ArchivedReport
	if err := json.Unmarshal(body, &archived); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if archived.Trigger != events.TriggerScheduler || archived.Report.Summary.WafflingUpdated != 3 {
		t.Fatalf("unexpected archived report %+v", archived)
	}
}

func TestArchiverPropagatesUploadFailure(t *testing.T) {
	store := &memoryStore{err: errors.New("bucket missing")}
	a := NewReportArchiver(store, "automation-reports", logger.Nop())

	if err := a.Handle(context.Background(), completedEvent()); err == nil {
		t.Fatalf("expected upload failure")
	}
}
