// Package repository reads CRM snapshots from Postgres and writes back the two
// fields the automations own: accounts.waffling_score and deals.is_at_risk.
package repository

import (
	"context"
	"fmt"
	"time"

	"adsales_backend/internal/automations/domain"
	"adsales_backend/internal/automations/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const (
	accountColumns = `a.id, a.company_name, a.contact_name, a.contact_email, a.contact_phone, a.city,
		a.decision_certainty::text, COALESCE(a.waffling_score, 0), a.last_contact_date`
	dealColumns = `d.id, d.account_id, d.title_id, d.value, d.stage::text, d.probability, d.is_at_risk, d.last_activity_date`
	titleColumns = `t.id, t.name, t.region, t.revenue_goal, t.revenue_booked, t.pages_goal, t.pages_sold, t.deadline`

	activeDealFilter = `d.stage NOT IN ('signed', 'lost')`
)

// Repo implements ports.Store with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new automations repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements ports.Store.
var _ ports.Store = (*Repo)(nil)

// ListAccounts returns every account.
func (r *Repo) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts a ORDER BY a.company_name ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	return scanAccounts(rows)
}

// ListStaleAccounts returns accounts never contacted or last contacted before cutoff.
func (r *Repo) ListStaleAccounts(ctx context.Context, cutoff time.Time) ([]domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts a
		WHERE a.last_contact_date IS NULL OR a.last_contact_date < $1
		ORDER BY a.last_contact_date ASC NULLS FIRST`

	rows, err := r.pool.Query(ctx, query, cutoff)
	if err != nil {
		return nil, fmt.Errorf("list stale accounts: %w", err)
	}
	defer rows.Close()

	return scanAccounts(rows)
}

// ListDeals returns every deal.
func (r *Repo) ListDeals(ctx context.Context) ([]domain.Deal, error) {
	query := `SELECT ` + dealColumns + ` FROM deals d`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list deals: %w", err)
	}
	defer rows.Close()

	return scanDeals(rows)
}

// ListActiveDealsWithAccounts returns open deals joined to their account.
// The join is LEFT so a dangling account reference still yields the deal.
func (r *Repo) ListActiveDealsWithAccounts(ctx context.Context) ([]domain.DealWithAccount, error) {
	query := `
		SELECT ` + dealColumns + `,
			a.id, a.waffling_score, a.decision_certainty::text
		FROM deals d
		LEFT JOIN accounts a ON a.id = d.account_id
		WHERE ` + activeDealFilter

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list active deals with accounts: %w", err)
	}
	defer rows.Close()

	var out []domain.DealWithAccount
	for rows.Next() {
		var (
			deal          domain.Deal
			stage         string
			accountID     *uuid.UUID
			wafflingScore *int
			certainty     *string
		)
		if err := rows.Scan(
			&deal.ID, &deal.AccountID, &deal.TitleID, &deal.Value, &stage, &deal.Probability, &deal.IsAtRisk, &deal.LastActivityDate,
			&accountID, &wafflingScore, &certainty,
		); err != nil {
			return nil, fmt.Errorf("scan deal with account: %w", err)
		}
		deal.Stage = domain.Stage(stage)

		item := domain.DealWithAccount{Deal: deal}
		if accountID != nil {
			item.Account = &domain.Account{
				ID:                *accountID,
				WafflingScore:     valueOr(wafflingScore, 0),
				DecisionCertainty: toCertainty(certainty),
			}
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate deals with accounts: %w", err)
	}

	return out, nil
}

// ListActiveDealsForAccounts returns open deals owned by accountIDs.
func (r *Repo) ListActiveDealsForAccounts(ctx context.Context, accountIDs []uuid.UUID) ([]domain.Deal, error) {
	if len(accountIDs) == 0 {
		return []domain.Deal{}, nil
	}

	query := `
		SELECT ` + dealColumns + `
		FROM deals d
		WHERE d.account_id = ANY($1::uuid[]) AND ` + activeDealFilter

	rows, err := r.pool.Query(ctx, query, accountIDs)
	if err != nil {
		return nil, fmt.Errorf("list active deals for accounts: %w", err)
	}
	defer rows.Close()

	return scanDeals(rows)
}

// ListTitles returns every title ordered by deadline.
func (r *Repo) ListTitles(ctx context.Context) ([]domain.Title, error) {
	query := `SELECT ` + titleColumns + ` FROM titles t ORDER BY t.deadline ASC NULLS LAST`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list titles: %w", err)
	}
	defer rows.Close()

	return scanTitles(rows)
}

// ListTitlesDueBetween returns titles whose deadline date lies in [from, to].
func (r *Repo) ListTitlesDueBetween(ctx context.Context, from, to time.Time) ([]domain.Title, error) {
	query := `
		SELECT ` + titleColumns + `
		FROM titles t
		WHERE t.deadline IS NOT NULL AND t.deadline >= $1::date AND t.deadline <= $2::date
		ORDER BY t.deadline ASC`

	rows, err := r.pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("list titles due between: %w", err)
	}
	defer rows.Close()

	return scanTitles(rows)
}

// ListEmailsSince returns emails created after since.
func (r *Repo) ListEmailsSince(ctx context.Context, since time.Time) ([]domain.EmailSentRecord, error) {
	query := `
		SELECT e.id, e.account_id, e.deal_id, e.status::text, e.created_at
		FROM emails_sent e
		WHERE e.created_at > $1`

	rows, err := r.pool.Query(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("list emails since: %w", err)
	}
	defer rows.Close()

	var out []domain.EmailSentRecord
	for rows.Next() {
		var e domain.EmailSentRecord
		var status string
		if err := rows.Scan(&e.ID, &e.AccountID, &e.DealID, &status, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan email: %w", err)
		}
		e.Status = domain.EmailStatus(status)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate emails: %w", err)
	}

	return out, nil
}

// UpdateWafflingScore persists an account's waffling score.
func (r *Repo) UpdateWafflingScore(ctx context.Context, accountID uuid.UUID, score int) error {
	query := `UPDATE accounts SET waffling_score = $2, updated_at = now() WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, accountID, score)
	if err != nil {
		return fmt.Errorf("update waffling score: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update waffling score: account %s not found", accountID)
	}
	return nil
}

// UpdateDealAtRisk persists a deal's at-risk flag.
func (r *Repo) UpdateDealAtRisk(ctx context.Context, dealID uuid.UUID, atRisk bool) error {
	query := `UPDATE deals SET is_at_risk = $2, updated_at = now() WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, dealID, atRisk)
	if err != nil {
		return fmt.Errorf("update deal at risk: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update deal at risk: deal %s not found", dealID)
	}
	return nil
}

func scanAccounts(rows pgx.Rows) ([]domain.Account, error) {
	var out []domain.Account
	for rows.Next() {
		var a domain.Account
		var certainty *string
		if err := rows.Scan(
			&a.ID, &a.CompanyName, &a.ContactName, &a.ContactEmail, &a.ContactPhone, &a.City,
			&certainty, &a.WafflingScore, &a.LastContactDate,
		); err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		a.DecisionCertainty = toCertainty(certainty)
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate accounts: %w", err)
	}
	return out, nil
}

func scanDeals(rows pgx.Rows) ([]domain.Deal, error) {
	var out []domain.Deal
	for rows.Next() {
		var d domain.Deal
		var stage string
		if err := rows.Scan(
			&d.ID, &d.AccountID, &d.TitleID, &d.Value, &stage, &d.Probability, &d.IsAtRisk, &d.LastActivityDate,
		); err != nil {
			return nil, fmt.Errorf("scan deal: %w", err)
		}
		d.Stage = domain.Stage(stage)
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate deals: %w", err)
	}
	return out, nil
}

func scanTitles(rows pgx.Rows) ([]domain.Title, error) {
	var out []domain.Title
	for rows.Next() {
		var t domain.Title
		var goal, booked decimal.NullDecimal
		if err := rows.Scan(
			&t.ID, &t.Name, &t.Region, &goal, &booked, &t.PagesGoal, &t.PagesSold, &t.Deadline,
		); err != nil {
			return nil, fmt.Errorf("scan title: %w", err)
		}
		t.RevenueGoal = goal.Decimal
		t.RevenueBooked = booked.Decimal
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate titles: %w", err)
	}
	return out, nil
}

func toCertainty(value *string) *domain.Certainty {
	if value == nil || *value == "" {
		return nil
	}
	c := domain.Certainty(*value)
	return &c
}

func valueOr[T any](value *T, fallback T) T {
	if value == nil {
		return fallback
	}
	return *value
}
