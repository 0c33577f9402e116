// Package service runs the automations: load a snapshot through the ports,
// score it, conditionally write back, and report.
package service

import (
	"context"
	"errors"
	"time"

	"adsales_backend/internal/automations/ports"
	"adsales_backend/platform/apperr"
	"adsales_backend/platform/logger"
)

// Services groups the automation use cases over one store.
type Services struct {
	Waffling  *WafflingRecalculator
	AtRisk    *AtRiskDetector
	Deadlines *DeadlineAlerter
	Stale     *StaleContactRanker
	Digest    *DigestBuilder
}

// NewServices wires every use case to store. phoneRegion interprets national
// phone numbers in stale contact reports.
func NewServices(store ports.Store, phoneRegion string, log *logger.Logger) *Services {
	if log == nil {
		log = logger.Nop()
	}
	return &Services{
		Waffling:  NewWafflingRecalculator(store, store, store, store, log),
		AtRisk:    NewAtRiskDetector(store, store, log),
		Deadlines: NewDeadlineAlerter(store, log),
		Stale:     NewStaleContactRanker(store, store, phoneRegion, log),
		Digest:    NewDigestBuilder(store, store, log),
	}
}

// SetClock overrides the time source of every use case.
func (s *Services) SetClock(now func() time.Time) {
	s.Waffling.now = now
	s.AtRisk.now = now
	s.Deadlines.now = now
	s.Stale.now = now
	s.Digest.now = now
}

// storeError classifies a failed snapshot read.
func storeError(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return apperr.FromContext(op, err)
	}
	return apperr.Unavailable("store unavailable", err).WithOp(op)
}
