package service

import (
	"context"
	"time"

	"adsales_backend/internal/automations/ports"
	"adsales_backend/internal/automations/scoring"
	"adsales_backend/internal/automations/transport"
	"adsales_backend/platform/logger"
)

// DigestBuilder produces the daily digest.
type DigestBuilder struct {
	titles ports.TitleReader
	deals  ports.DealReader
	log    *logger.Logger
	now    func() time.Time
}

// NewDigestBuilder creates the digest use case.
func NewDigestBuilder(titles ports.TitleReader, deals ports.DealReader, log *logger.Logger) *DigestBuilder {
	return &DigestBuilder{titles: titles, deals: deals, log: log, now: time.Now}
}

// Run rolls up goals, pipeline and upcoming deadlines.
func (s *DigestBuilder) Run(ctx context.Context) (transport.DigestResponse, error) {
	titles, err := s.titles.ListTitles(ctx)
	if err != nil {
		return transport.DigestResponse{}, storeError("load titles", err)
	}
	deals, err := s.deals.ListDeals(ctx)
	if err != nil {
		return transport.DigestResponse{}, storeError("load deals", err)
	}

	digest := scoring.BuildDigest(titles, deals, s.now())

	s.log.WithContext(ctx).Info("daily digest generated",
		"progressPercent", digest.Metrics.ProgressPercent,
		"atRiskDeals", digest.Metrics.AtRiskDealsCount,
		"upcomingDeadlines", len(digest.UpcomingDeadlines))
	return transport.DigestResponse{Success: true, Digest: toDigest(digest)}, nil
}

func toDigest(d scoring.Digest) transport.Digest {
	upcoming := make([]transport.UpcomingDeadline, 0, len(d.UpcomingDeadlines))
	for _, u := range d.UpcomingDeadlines {
		upcoming = append(upcoming, transport.UpcomingDeadline{
			Name:     u.Name,
			Deadline: formatDate(u.Deadline),
			Progress: u.Progress,
		})
	}
	return transport.Digest{
		GeneratedAt: d.GeneratedAt,
		Metrics: transport.DigestMetrics{
			TotalGoal:        d.Metrics.TotalGoal,
			TotalBooked:      d.Metrics.TotalBooked,
			ProgressPercent:  d.Metrics.ProgressPercent,
			PipelineValue:    d.Metrics.PipelineValue,
			AtRiskValue:      d.Metrics.AtRiskValue,
			AtRiskDealsCount: d.Metrics.AtRiskDealsCount,
		},
		UpcomingDeadlines: upcoming,
	}
}
