package service

import (
	"context"
	"time"

	"adsales_backend/internal/automations/domain"
	"adsales_backend/internal/automations/ports"
	"adsales_backend/internal/automations/scoring"
	"adsales_backend/internal/automations/transport"
	"adsales_backend/platform/apperr"
	"adsales_backend/platform/logger"

	"github.com/google/uuid"
)

// WafflingRecalculator refreshes every account's waffling score.
type WafflingRecalculator struct {
	accounts ports.AccountReader
	deals    ports.DealReader
	emails   ports.EmailReader
	scores   ports.AccountScoreWriter
	log      *logger.Logger
	now      func() time.Time
}

// NewWafflingRecalculator creates the waffling use case.
func NewWafflingRecalculator(accounts ports.AccountReader, deals ports.DealReader, emails ports.EmailReader, scores ports.AccountScoreWriter, log *logger.Logger) *WafflingRecalculator {
	return &WafflingRecalculator{
		accounts: accounts,
		deals:    deals,
		emails:   emails,
		scores:   scores,
		log:      log,
		now:      time.Now,
	}
}

// Run recalculates all scores and writes back those that moved by at least
// the write delta. A failed write is logged and left out of the report.
func (s *WafflingRecalculator) Run(ctx context.Context) (transport.WafflingResponse, error) {
	log := s.log.WithContext(ctx)
	now := s.now()

	accounts, err := s.accounts.ListAccounts(ctx)
	if err != nil {
		return transport.WafflingResponse{}, storeError("load accounts", err)
	}
	deals, err := s.deals.ListDeals(ctx)
	if err != nil {
		return transport.WafflingResponse{}, storeError("load deals", err)
	}
	// An email counts as recent while fewer than RecentEmailDays+1 whole days old.
	since := now.Add(-time.Duration(domain.RecentEmailDays+1) * 24 * time.Hour)
	emails, err := s.emails.ListEmailsSince(ctx, since)
	if err != nil {
		return transport.WafflingResponse{}, storeError("load emails", err)
	}

	dealsByAccount := make(map[uuid.UUID][]domain.Deal)
	for _, deal := range deals {
		dealsByAccount[deal.AccountID] = append(dealsByAccount[deal.AccountID], deal)
	}
	emailsByAccount := make(map[uuid.UUID][]domain.EmailSentRecord)
	for _, email := range emails {
		emailsByAccount[email.AccountID] = append(emailsByAccount[email.AccountID], email)
	}

	resp := transport.WafflingResponse{
		Success:         true,
		AccountsChecked: len(accounts),
		Updates:         []transport.WafflingUpdate{},
	}

	for _, account := range accounts {
		if err := ctx.Err(); err != nil {
			return resp, apperr.FromContext("recalculate waffling", err)
		}

		result := scoring.Waffling(account, dealsByAccount[account.ID], emailsByAccount[account.ID], now)
		if !scoring.ShouldPersistWaffling(account.WafflingScore, result.Score) {
			continue
		}

		if err := s.scores.UpdateWafflingScore(ctx, account.ID, result.Score); err != nil {
			log.Warn("waffling score update failed", "accountId", account.ID, "error", err)
			continue
		}

		log.Info("account waffling score updated",
			"accountId", account.ID,
			"oldScore", account.WafflingScore,
			"newScore", result.Score,
			"factors", result.Factors.Map())
		resp.Updates = append(resp.Updates, transport.WafflingUpdate{
			ID:       account.ID,
			OldScore: account.WafflingScore,
			NewScore: result.Score,
		})
	}

	resp.AccountsUpdated = len(resp.Updates)
	return resp, nil
}
