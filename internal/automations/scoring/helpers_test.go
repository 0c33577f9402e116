package scoring

import (
	"time"

	"adsales_backend/internal/automations/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var now = time.Date(2025, 6, 2, 14, 30, 0, 0, time.UTC)

func daysAgo(n int) *time.Time {
	t := now.Add(-time.Duration(n) * 24 * time.Hour)
	return &t
}

func dateIn(n int) *time.Time {
	t := time.Date(now.Year(), now.Month(), now.Day()+n, 0, 0, 0, 0, time.UTC)
	return &t
}

func certainty(c domain.Certainty) *domain.Certainty { return &c }

func intPtr(v int) *int { return &v }

func money(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func activeDeal(accountID uuid.UUID, lastActivity *time.Time) domain.Deal {
	return domain.Deal{
		ID:               uuid.New(),
		AccountID:        accountID,
		TitleID:          uuid.New(),
		Value:            money(1000),
		Stage:            domain.StageNegotiating,
		Probability:      intPtr(50),
		LastActivityDate: lastActivity,
	}
}

func email(accountID uuid.UUID, status domain.EmailStatus, sentDaysAgo int) domain.EmailSentRecord {
	return domain.EmailSentRecord{
		ID:        uuid.New(),
		AccountID: accountID,
		Status:    status,
		CreatedAt: *daysAgo(sentDaysAgo),
	}
}
