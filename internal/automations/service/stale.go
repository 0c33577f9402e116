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
	"adsales_backend/platform/phone"

	"github.com/google/uuid"
)

// StaleContactRanker ranks accounts that are overdue a follow-up.
type StaleContactRanker struct {
	accounts    ports.AccountReader
	deals       ports.DealReader
	phoneRegion string
	log         *logger.Logger
	now         func() time.Time
}

// NewStaleContactRanker creates the stale contact use case.
func NewStaleContactRanker(accounts ports.AccountReader, deals ports.DealReader, phoneRegion string, log *logger.Logger) *StaleContactRanker {
	return &StaleContactRanker{
		accounts:    accounts,
		deals:       deals,
		phoneRegion: phoneRegion,
		log:         log,
		now:         time.Now,
	}
}

// Run ranks accounts not contacted within days. Non-positive days use the default.
func (s *StaleContactRanker) Run(ctx context.Context, days int) (transport.StaleContactsResponse, error) {
	if days < 1 {
		days = domain.DefaultStaleDays
	}
	now := s.now()

	cutoff := metrics.StartOfDay(now).AddDate(0, 0, -days)
	accounts, err := s.accounts.ListStaleAccounts(ctx, cutoff)
	if err != nil {
		return transport.StaleContactsResponse{}, storeError("load stale accounts", err)
	}

	ids := make([]uuid.UUID, 0, len(accounts))
	for _, account := range accounts {
		ids = append(ids, account.ID)
	}
	deals, err := s.deals.ListActiveDealsForAccounts(ctx, ids)
	if err != nil {
		return transport.StaleContactsResponse{}, storeError("load active deals", err)
	}

	ranked := scoring.StaleContacts(accounts, deals, days, now)
	resp := transport.StaleContactsResponse{
		Success:            true,
		ThresholdDays:      days,
		StaleContactsCount: len(ranked),
		StaleContacts:      make([]transport.StaleContact, 0, len(ranked)),
	}
	for _, contact := range ranked {
		resp.StaleContacts = append(resp.StaleContacts, s.toStaleContact(contact))
	}

	s.log.WithContext(ctx).Info("stale contacts ranked", "thresholdDays", days, "staleContacts", len(ranked))
	return resp, nil
}

func (s *StaleContactRanker) toStaleContact(contact scoring.StaleContact) transport.StaleContact {
	a := contact.Account
	out := transport.StaleContact{
		AccountID:        a.ID,
		CompanyName:      a.CompanyName,
		ContactName:      a.ContactName,
		ContactEmail:     a.ContactEmail,
		ContactPhone:     s.normalizePhone(a.ContactPhone),
		City:             a.City,
		DaysSinceContact: contact.DaysSinceContact,
		WafflingScore:    a.WafflingScore,
		ActiveDealsCount: contact.ActiveDeals.Count,
		ActiveDealsValue: contact.ActiveDeals.Value,
		PriorityScore:    contact.PriorityScore,
	}
	if a.LastContactDate != nil {
		date := formatDate(*a.LastContactDate)
		out.LastContactDate = &date
	}
	if a.DecisionCertainty != nil {
		certainty := string(*a.DecisionCertainty)
		out.DecisionCertainty = &certainty
	}
	return out
}

func (s *StaleContactRanker) normalizePhone(raw *string) *string {
	if raw == nil {
		return nil
	}
	normalized := phone.NormalizeE164(*raw, s.phoneRegion)
	if normalized == "" {
		return nil
	}
	return &normalized
}
