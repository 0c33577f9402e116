package scoring

import (
	"testing"

	"adsales_backend/internal/automations/domain"

	"github.com/google/uuid"
)

func TestBuildDigest(t *testing.T) {
	titles := []domain.Title{
		title("Summer Guide", dateIn(3), 10000, 4000, 20, 8),
		title("Winter Guide", dateIn(30), 5000, 1000, 10, 2),
		title("Undated", nil, 5000, 0, 10, 0),
	}

	accountID := uuid.New()
	healthy := activeDeal(accountID, daysAgo(1))
	healthy.Value = money(1500)
	risky := activeDeal(accountID, daysAgo(20))
	risky.Value = money(700)
	risky.IsAtRisk = true
	closed := activeDeal(accountID, nil)
	closed.Stage = domain.StageLost
	closed.IsAtRisk = true
	closed.Value = money(99999)

	digest := BuildDigest(titles, []domain.Deal{healthy, risky, closed}, now)
	m := digest.Metrics

	if !m.TotalGoal.Equal(money(20000)) || !m.TotalBooked.Equal(money(5000)) {
		t.Fatalf("expected goal 20000 booked 5000, got %s / %s", m.TotalGoal, m.TotalBooked)
	}
	if m.ProgressPercent != 25 {
		t.Fatalf("expected 25 percent, got %v", m.ProgressPercent)
	}
	if !m.PipelineValue.Equal(money(2200)) {
		t.Fatalf("expected pipeline 2200, got %s", m.PipelineValue)
	}
	if !m.AtRiskValue.Equal(money(700)) || m.AtRiskDealsCount != 1 {
		t.Fatalf("expected one at-risk deal worth 700, got %d / %s", m.AtRiskDealsCount, m.AtRiskValue)
	}

	if len(digest.UpcomingDeadlines) != 1 {
		t.Fatalf("expected one upcoming deadline, got %d", len(digest.UpcomingDeadlines))
	}
	upcoming := digest.UpcomingDeadlines[0]
	if upcoming.Name != "Summer Guide" || upcoming.Progress != 40 {
		t.Fatalf("expected Summer Guide at 40 percent, got %s at %v", upcoming.Name, upcoming.Progress)
	}
}

func TestBuildDigestEmpty(t *testing.T) {
	digest := BuildDigest(nil, nil, now)
	if digest.Metrics.ProgressPercent != 0 {
		t.Fatalf("expected 0 progress without goals, got %v", digest.Metrics.ProgressPercent)
	}
	if digest.UpcomingDeadlines == nil {
		t.Fatalf("expected empty, non-nil upcoming deadlines")
	}
}
