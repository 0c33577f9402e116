package scoring

import (
	"time"

	"adsales_backend/internal/automations/domain"
	"adsales_backend/internal/automations/metrics"

	"github.com/shopspring/decimal"
)

// DigestMetrics are the headline figures of the daily digest.
type DigestMetrics struct {
	TotalGoal        decimal.Decimal
	TotalBooked      decimal.Decimal
	ProgressPercent  float64
	PipelineValue    decimal.Decimal
	AtRiskValue      decimal.Decimal
	AtRiskDealsCount int
}

// UpcomingDeadline is a title due within the digest window.
type UpcomingDeadline struct {
	Name     string
	Deadline time.Time
	Progress float64
}

// Digest is the daily roll-up of goals, pipeline and deadlines.
type Digest struct {
	GeneratedAt       time.Time
	Metrics           DigestMetrics
	UpcomingDeadlines []UpcomingDeadline
}

// BuildDigest rolls titles and active deals into the daily digest. Terminal
// deals are ignored; at-risk value counts active deals flagged at risk.
func BuildDigest(titles []domain.Title, deals []domain.Deal, now time.Time) Digest {
	var m DigestMetrics
	for _, title := range titles {
		m.TotalGoal = m.TotalGoal.Add(title.RevenueGoal)
		m.TotalBooked = m.TotalBooked.Add(title.RevenueBooked)
	}
	m.ProgressPercent = metrics.PercentOf(m.TotalBooked.InexactFloat64(), m.TotalGoal.InexactFloat64())

	for _, deal := range deals {
		if !deal.IsActive() {
			continue
		}
		m.PipelineValue = m.PipelineValue.Add(deal.Value)
		if deal.IsAtRisk {
			m.AtRiskValue = m.AtRiskValue.Add(deal.Value)
			m.AtRiskDealsCount++
		}
	}

	upcoming := make([]UpcomingDeadline, 0)
	for _, alert := range DeadlineAlerts(titles, domain.DigestDeadlineDays, now) {
		upcoming = append(upcoming, UpcomingDeadline{
			Name:     alert.Title.Name,
			Deadline: *alert.Title.Deadline,
			Progress: metrics.PercentOf(alert.Title.RevenueBooked.InexactFloat64(), alert.Title.RevenueGoal.InexactFloat64()),
		})
	}

	return Digest{
		GeneratedAt:       now,
		Metrics:           m,
		UpcomingDeadlines: upcoming,
	}
}
