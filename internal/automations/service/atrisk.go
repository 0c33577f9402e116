package service

import (
	"context"
	"time"

	"adsales_backend/internal/automations/ports"
	"adsales_backend/internal/automations/scoring"
	"adsales_backend/internal/automations/transport"
	"adsales_backend/platform/apperr"
	"adsales_backend/platform/logger"
)

// AtRiskDetector re-evaluates the at-risk flag of every active deal.
type AtRiskDetector struct {
	deals ports.DealReader
	flags ports.DealRiskWriter
	log   *logger.Logger
	now   func() time.Time
}

// NewAtRiskDetector creates the at-risk use case.
func NewAtRiskDetector(deals ports.DealReader, flags ports.DealRiskWriter, log *logger.Logger) *AtRiskDetector {
	return &AtRiskDetector{deals: deals, flags: flags, log: log, now: time.Now}
}

// Run flags or clears deals whose computed status differs from the stored one.
func (s *AtRiskDetector) Run(ctx context.Context) (transport.AtRiskResponse, error) {
	log := s.log.WithContext(ctx)
	now := s.now()

	deals, err := s.deals.ListActiveDealsWithAccounts(ctx)
	if err != nil {
		return transport.AtRiskResponse{}, storeError("load active deals", err)
	}

	resp := transport.AtRiskResponse{Success: true, Updates: []transport.AtRiskUpdate{}}
	for _, deal := range deals {
		if !deal.IsActive() {
			continue
		}
		resp.DealsChecked++

		if err := ctx.Err(); err != nil {
			return resp, apperr.FromContext("detect at risk", err)
		}

		assessment := scoring.AssessDeal(deal, now)
		if assessment.AtRisk == deal.IsAtRisk {
			continue
		}

		if err := s.flags.UpdateDealAtRisk(ctx, deal.ID, assessment.AtRisk); err != nil {
			log.Warn("deal at-risk update failed", "dealId", deal.ID, "error", err)
			continue
		}

		log.Info("deal at-risk flag updated", "dealId", deal.ID, "isAtRisk", assessment.AtRisk, "reason", assessment.Reason())
		resp.Updates = append(resp.Updates, transport.AtRiskUpdate{
			ID:       deal.ID,
			IsAtRisk: assessment.AtRisk,
			Reason:   assessment.Reason(),
		})
	}

	resp.DealsUpdated = len(resp.Updates)
	return resp, nil
}
