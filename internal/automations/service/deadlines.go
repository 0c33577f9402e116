package service

import (
	"context"
	"time"

	"adsales_backend/internal/automations/domain"
	"adsales_backend/internal/automations/metrics"
	"adsales_backend/internal/automations/ports"
	"adsales_backend/internal/automations/scoring"
	"adsales_backend/internal/automations/transport"
	"adsales_backend/platform/logger"
)

// DeadlineAlerter reports publications with approaching deadlines.
type DeadlineAlerter struct {
	titles ports.TitleReader
	log    *logger.Logger
	now    func() time.Time
}

// NewDeadlineAlerter creates the deadline alert use case.
func NewDeadlineAlerter(titles ports.TitleReader, log *logger.Logger) *DeadlineAlerter {
	return &DeadlineAlerter{titles: titles, log: log, now: time.Now}
}

// Run lists titles due within days, soonest first. Non-positive days use the default.
func (s *DeadlineAlerter) Run(ctx context.Context, days int) (transport.DeadlineAlertsResponse, error) {
	if days < 1 {
		days = domain.DefaultDeadlineDays
	}
	now := s.now()

	from := metrics.StartOfDay(now)
	titles, err := s.titles.ListTitlesDueBetween(ctx, from, from.AddDate(0, 0, days))
	if err != nil {
		return transport.DeadlineAlertsResponse{}, storeError("load titles", err)
	}

	alerts := scoring.DeadlineAlerts(titles, days, now)
	resp := transport.DeadlineAlertsResponse{
		Success:       true,
		ThresholdDays: days,
		AlertsCount:   len(alerts),
		Alerts:        make([]transport.DeadlineAlert, 0, len(alerts)),
	}
	for _, alert := range alerts {
		resp.Alerts = append(resp.Alerts, toDeadlineAlert(alert))
	}

	s.log.WithContext(ctx).Info("deadline alerts computed", "thresholdDays", days, "alerts", len(alerts))
	return resp, nil
}

func toDeadlineAlert(alert scoring.DeadlineAlert) transport.DeadlineAlert {
	t := alert.Title
	return transport.DeadlineAlert{
		TitleID:       t.ID,
		TitleName:     t.Name,
		Region:        t.Region,
		Deadline:      formatDate(*t.Deadline),
		DaysRemaining: alert.DaysRemaining,
		Urgency:       string(alert.Urgency),
		RevenueGoal:   t.RevenueGoal,
		RevenueBooked: t.RevenueBooked,
		RevenueGap:    alert.RevenueGap,
		PagesGoal:     t.PagesGoal,
		PagesSold:     t.PagesSold,
		PagesGap:      alert.PagesGap,
		PercentToGoal: alert.PercentToGoal,
	}
}

func formatDate(t time.Time) string {
	return t.UTC().Format(transport.DateLayout)
}
