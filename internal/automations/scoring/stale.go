package scoring

import (
	"sort"
	"time"

	"adsales_backend/internal/automations/domain"
	"adsales_backend/internal/automations/metrics"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	neverContactedPoints   = 50
	maxStaleRecencyPoints  = 40
	stalePointsPerDay      = 2
	wafflingWeight         = 0.3
	openPipelinePoints     = 20
	atRiskCertaintyPoints  = 15
	leaningCertaintyPoints = 5
)

// DealTotals aggregates an account's active deals.
type DealTotals struct {
	Count int
	Value decimal.Decimal
}

// StaleContact is a ranked follow-up candidate.
type StaleContact struct {
	Account          domain.Account
	DaysSinceContact *int
	ActiveDeals      DealTotals
	PriorityScore    int
}

// IsStale reports whether an account was never contacted or last contacted
// before the start of the day that lies days before today (UTC).
func IsStale(lastContact *time.Time, days int, now time.Time) bool {
	if lastContact == nil {
		return true
	}
	cutoff := metrics.StartOfDay(now).AddDate(0, 0, -days)
	return lastContact.Before(cutoff)
}

// TotalsByAccount sums active deal counts and values per account.
func TotalsByAccount(deals []domain.Deal) map[uuid.UUID]DealTotals {
	totals := make(map[uuid.UUID]DealTotals)
	for _, deal := range deals {
		if !deal.IsActive() {
			continue
		}
		t := totals[deal.AccountID]
		t.Count++
		t.Value = t.Value.Add(deal.Value)
		totals[deal.AccountID] = t
	}
	return totals
}

// PriorityScore ranks how urgently a stale account needs a follow-up.
func PriorityScore(account domain.Account, daysSinceContact *int, totals DealTotals) int {
	score := 0.0
	if daysSinceContact == nil {
		score += neverContactedPoints
	} else {
		score += float64(min(*daysSinceContact*stalePointsPerDay, maxStaleRecencyPoints))
	}

	score += float64(account.WafflingScore) * wafflingWeight

	if totals.Value.IsPositive() {
		score += openPipelinePoints
	}

	if account.DecisionCertainty != nil {
		switch *account.DecisionCertainty {
		case domain.CertaintyAtRisk:
			score += atRiskCertaintyPoints
		case domain.CertaintyLeaning:
			score += leaningCertaintyPoints
		}
	}

	return metrics.Round(score)
}

// StaleContacts filters accounts to the stale ones and ranks them, highest
// priority first. Equal scores keep their input order.
func StaleContacts(accounts []domain.Account, deals []domain.Deal, days int, now time.Time) []StaleContact {
	totals := TotalsByAccount(deals)

	contacts := make([]StaleContact, 0, len(accounts))
	for _, account := range accounts {
		if !IsStale(account.LastContactDate, days, now) {
			continue
		}
		since := metrics.DaysSince(account.LastContactDate, now)
		accountTotals := totals[account.ID]
		contacts = append(contacts, StaleContact{
			Account:          account,
			DaysSinceContact: since,
			ActiveDeals:      accountTotals,
			PriorityScore:    PriorityScore(account, since, accountTotals),
		})
	}

	sort.SliceStable(contacts, func(i, j int) bool {
		return contacts[i].PriorityScore > contacts[j].PriorityScore
	})
	return contacts
}
