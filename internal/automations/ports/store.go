// Package ports defines the interfaces the automations require from the CRM
// store. The store owns the schema; automations only read snapshots and write
// back two derived fields, so each consumer depends on the narrowest slice.
package ports

import (
	"context"
	"time"

	"adsales_backend/internal/automations/domain"

	"github.com/google/uuid"
)

// AccountReader loads account snapshots.
type AccountReader interface {
	// ListAccounts returns every account.
	ListAccounts(ctx context.Context) ([]domain.Account, error)
	// ListStaleAccounts returns accounts never contacted or last contacted
	// before cutoff, never-contacted first.
	ListStaleAccounts(ctx context.Context, cutoff time.Time) ([]domain.Account, error)
}

// DealReader loads deal snapshots.
type DealReader interface {
	// ListDeals returns every deal, terminal stages included.
	ListDeals(ctx context.Context) ([]domain.Deal, error)
	// ListActiveDealsWithAccounts returns open deals joined to their account.
	ListActiveDealsWithAccounts(ctx context.Context) ([]domain.DealWithAccount, error)
	// ListActiveDealsForAccounts returns open deals owned by the given accounts.
	ListActiveDealsForAccounts(ctx context.Context, accountIDs []uuid.UUID) ([]domain.Deal, error)
}

// TitleReader loads publication snapshots.
type TitleReader interface {
	// ListTitles returns every title ordered by deadline.
	ListTitles(ctx context.Context) ([]domain.Title, error)
	// ListTitlesDueBetween returns titles whose deadline date lies in [from, to],
	// ordered by deadline.
	ListTitlesDueBetween(ctx context.Context, from, to time.Time) ([]domain.Title, error)
}

// EmailReader loads the email log.
type EmailReader interface {
	// ListEmailsSince returns emails created after since.
	ListEmailsSince(ctx context.Context, since time.Time) ([]domain.EmailSentRecord, error)
}

// AccountScoreWriter persists recalculated waffling scores.
type AccountScoreWriter interface {
	UpdateWafflingScore(ctx context.Context, accountID uuid.UUID, score int) error
}

// DealRiskWriter persists at-risk flags.
type DealRiskWriter interface {
	UpdateDealAtRisk(ctx context.Context, dealID uuid.UUID, atRisk bool) error
}

// Store is everything the automations need; the Postgres repository
// implements it in full.
type Store interface {
	AccountReader
	DealReader
	TitleReader
	EmailReader
	AccountScoreWriter
	DealRiskWriter
}
