// Package scoring implements the automation rules as pure functions over
// domain snapshots. Nothing here touches storage or the clock.
package scoring

import (
	"time"

	"adsales_backend/internal/automations/domain"
	"adsales_backend/internal/automations/metrics"
)

const (
	maxRecencyPoints      = 30
	recencyPointsPerDay   = 2
	maxDealActivityPoints = 25
	stalledDealPoints     = 10
	maxEmailPoints        = 20
)

// WafflingFactors breaks a waffling score into its four contributions.
type WafflingFactors struct {
	Recency         int
	Certainty       int
	DealActivity    int
	EmailEngagement int
}

// Total sums the factors.
func (f WafflingFactors) Total() int {
	return f.Recency + f.Certainty + f.DealActivity + f.EmailEngagement
}

// Map returns the factors keyed for structured logging.
func (f WafflingFactors) Map() map[string]int {
	return map[string]int{
		"recency":          f.Recency,
		"certainty":        f.Certainty,
		"deal_activity":    f.DealActivity,
		"email_engagement": f.EmailEngagement,
	}
}

// WafflingResult is the computed score and how it was reached.
type WafflingResult struct {
	Score   int
	Factors WafflingFactors
}

// Waffling scores how likely an account is to go cold, 0 (engaged) to 100.
// deals and emails must already be restricted to the account.
func Waffling(account domain.Account, deals []domain.Deal, emails []domain.EmailSentRecord, now time.Time) WafflingResult {
	factors := WafflingFactors{
		Recency:         recencyPoints(account.LastContactDate, now),
		Certainty:       CertaintyPoints(account.DecisionCertainty),
		DealActivity:    dealActivityPoints(deals, now),
		EmailEngagement: emailEngagementPoints(emails, now),
	}

	return WafflingResult{
		Score:   metrics.Clamp(factors.Total(), 0, domain.MaxWafflingScore),
		Factors: factors,
	}
}

// ShouldPersistWaffling reports whether a recalculated score moved far enough
// from the stored one to be written back.
func ShouldPersistWaffling(oldScore, newScore int) bool {
	delta := newScore - oldScore
	if delta < 0 {
		delta = -delta
	}
	return delta >= domain.WafflingWriteDelta
}

// CertaintyPoints maps decision certainty to waffling points. Missing or
// unrecognized values score as leaning.
func CertaintyPoints(c *domain.Certainty) int {
	if c == nil {
		return 10
	}
	switch *c {
	case domain.CertaintyFirm:
		return 0
	case domain.CertaintyLeaning:
		return 10
	case domain.CertaintyWaffling:
		return 20
	case domain.CertaintyAtRisk:
		return 25
	default:
		return 10
	}
}

func recencyPoints(lastContact *time.Time, now time.Time) int {
	days := metrics.DaysSince(lastContact, now)
	if days == nil {
		return maxRecencyPoints
	}
	return metrics.Clamp(*days*recencyPointsPerDay, 0, maxRecencyPoints)
}

func dealActivityPoints(deals []domain.Deal, now time.Time) int {
	active := 0
	stalled := 0
	for _, deal := range deals {
		if !deal.IsActive() {
			continue
		}
		active++
		days := metrics.DaysSince(deal.LastActivityDate, now)
		if days == nil || *days > domain.StalledDealDays {
			stalled++
		}
	}

	if active == 0 {
		return maxDealActivityPoints
	}
	return min(stalled*stalledDealPoints, maxDealActivityPoints)
}

func emailEngagementPoints(emails []domain.EmailSentRecord, now time.Time) int {
	recent := 0
	replied := 0
	for _, email := range emails {
		sentAt := email.CreatedAt
		days := metrics.DaysSince(&sentAt, now)
		if *days > domain.RecentEmailDays {
			continue
		}
		recent++
		if email.Status == domain.EmailReplied {
			replied++
		}
	}

	if recent == 0 {
		return maxEmailPoints
	}
	replyRate := float64(replied) / float64(recent)
	return metrics.Round((1 - replyRate) * maxEmailPoints)
}
