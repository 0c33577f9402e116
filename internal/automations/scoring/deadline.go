package scoring

import (
	"sort"
	"time"

	"adsales_backend/internal/automations/domain"
	"adsales_backend/internal/automations/metrics"

	"github.com/shopspring/decimal"
)

// DeadlineAlert annotates a title whose deadline falls inside the window.
type DeadlineAlert struct {
	Title         domain.Title
	DaysRemaining int
	Urgency       domain.Urgency
	RevenueGap    decimal.Decimal
	PagesGap      int
	PercentToGoal int
}

// InDeadlineWindow reports whether deadline falls on a calendar day (UTC)
// between today and today+days inclusive.
func InDeadlineWindow(deadline time.Time, days int, now time.Time) bool {
	today := metrics.StartOfDay(now)
	last := today.AddDate(0, 0, days)
	day := metrics.StartOfDay(deadline)
	return !day.Before(today) && !day.After(last)
}

// DeadlineAlerts returns the titles due within days, soonest first. Titles
// without a deadline or already past it are dropped.
func DeadlineAlerts(titles []domain.Title, days int, now time.Time) []DeadlineAlert {
	alerts := make([]DeadlineAlert, 0, len(titles))
	for _, title := range titles {
		if title.Deadline == nil || !InDeadlineWindow(*title.Deadline, days, now) {
			continue
		}

		remaining := metrics.CeilDays(now, *title.Deadline)
		alerts = append(alerts, DeadlineAlert{
			Title:         title,
			DaysRemaining: remaining,
			Urgency:       domain.UrgencyFor(remaining),
			RevenueGap:    title.RevenueGoal.Sub(title.RevenueBooked),
			PagesGap:      title.PagesGoal - title.PagesSold,
			PercentToGoal: percentToGoal(title.RevenueBooked, title.RevenueGoal),
		})
	}

	sort.SliceStable(alerts, func(i, j int) bool {
		return alerts[i].Title.Deadline.Before(*alerts[j].Title.Deadline)
	})
	return alerts
}

// percentToGoal is booked/goal as a whole percentage; over-goal values exceed 100.
func percentToGoal(booked, goal decimal.Decimal) int {
	if !goal.IsPositive() {
		return 0
	}
	return metrics.Round(metrics.PercentOf(booked.InexactFloat64(), goal.InexactFloat64()))
}
