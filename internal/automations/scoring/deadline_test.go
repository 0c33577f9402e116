package scoring

import (
	"testing"
	"time"

	"adsales_backend/internal/automations/domain"

	"github.com/google/uuid"
)

func title(name string, deadline *time.Time, goal, booked int64, pagesGoal, pagesSold int) domain.Title {
	return domain.Title{
		ID:            uuid.New(),
		Name:          name,
		Region:        "Coast",
		RevenueGoal:   money(goal),
		RevenueBooked: money(booked),
		PagesGoal:     pagesGoal,
		PagesSold:     pagesSold,
		Deadline:      deadline,
	}
}

func TestDeadlineWindowing(t *testing.T) {
	titles := []domain.Title{title("eight", dateIn(8), 100, 0, 10, 0)}

	if got := DeadlineAlerts(titles, 7, now); len(got) != 0 {
		t.Fatalf("expected day 8 excluded at threshold 7, got %d alerts", len(got))
	}
	if got := DeadlineAlerts(titles, 8, now); len(got) != 1 {
		t.Fatalf("expected day 8 included at threshold 8, got %d alerts", len(got))
	}
}

func TestDeadlinePastAndMissingExcluded(t *testing.T) {
	titles := []domain.Title{
		title("yesterday", dateIn(-1), 100, 0, 10, 0),
		title("none", nil, 100, 0, 10, 0),
		title("today", dateIn(0), 100, 0, 10, 0),
	}

	got := DeadlineAlerts(titles, 30, now)
	if len(got) != 1 || got[0].Title.Name != "today" {
		t.Fatalf("expected only today's title, got %+v", got)
	}
	if got[0].Urgency != domain.UrgencyCritical {
		t.Fatalf("expected critical for today, got %s", got[0].Urgency)
	}
}

func TestDeadlineDaysRemainingAndUrgency(t *testing.T) {
	// now is mid-afternoon, so a deadline N days out at midnight rounds up to N.
	cases := []struct {
		in      int
		days    int
		urgency domain.Urgency
	}{
		{2, 2, domain.UrgencyCritical},
		{3, 3, domain.UrgencyHigh},
		{4, 4, domain.UrgencyHigh},
		{5, 5, domain.UrgencyMedium},
		{7, 7, domain.UrgencyMedium},
		{8, 8, domain.UrgencyLow},
	}

	for _, tc := range cases {
		got := DeadlineAlerts([]domain.Title{title("t", dateIn(tc.in), 100, 0, 1, 0)}, 10, now)
		if len(got) != 1 {
			t.Fatalf("expected one alert for +%d days, got %d", tc.in, len(got))
		}
		if got[0].DaysRemaining != tc.days || got[0].Urgency != tc.urgency {
			t.Errorf("+%d days: expected %d/%s, got %d/%s", tc.in, tc.days, tc.urgency, got[0].DaysRemaining, got[0].Urgency)
		}
	}
}

func TestDeadlineGapsPassThroughNegative(t *testing.T) {
	got := DeadlineAlerts([]domain.Title{title("over", dateIn(3), 1000, 1500, 10, 12)}, 7, now)
	if len(got) != 1 {
		t.Fatalf("expected one alert, got %d", len(got))
	}

	alert := got[0]
	if !alert.RevenueGap.Equal(money(-500)) {
		t.Fatalf("expected revenue gap -500, got %s", alert.RevenueGap)
	}
	if alert.PagesGap != -2 {
		t.Fatalf("expected pages gap -2, got %d", alert.PagesGap)
	}
	if alert.PercentToGoal != 150 {
		t.Fatalf("expected 150 percent, got %d", alert.PercentToGoal)
	}
}

func TestDeadlinePercentToGoal(t *testing.T) {
	cases := []struct {
		goal, booked int64
		want         int
	}{
		{0, 500, 0},
		{3000, 1000, 33},
		{3000, 2000, 67},
		{200, 1, 1},
	}

	for _, tc := range cases {
		got := DeadlineAlerts([]domain.Title{title("t", dateIn(1), tc.goal, tc.booked, 0, 0)}, 7, now)
		if got[0].PercentToGoal != tc.want {
			t.Errorf("goal %d booked %d: expected %d, got %d", tc.goal, tc.booked, tc.want, got[0].PercentToGoal)
		}
	}
}

func TestDeadlineOrderedAscending(t *testing.T) {
	titles := []domain.Title{
		title("late", dateIn(6), 1, 0, 0, 0),
		title("soon", dateIn(1), 1, 0, 0, 0),
		title("mid", dateIn(3), 1, 0, 0, 0),
	}

	got := DeadlineAlerts(titles, 7, now)
	order := []string{got[0].Title.Name, got[1].Title.Name, got[2].Title.Name}
	if order[0] != "soon" || order[1] != "mid" || order[2] != "late" {
		t.Fatalf("expected soon, mid, late; got %v", order)
	}
}
