package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"adsales_backend/internal/automations/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	testNow         = time.Date(2025, 6, 2, 14, 30, 0, 0, time.UTC)
	errStoreOffline = errors.New("connection refused")
)

func fixedClock() time.Time { return testNow }

// fakeStore is an in-memory ports.Store. Writes mutate the snapshot so a
// second run observes the first run's effects.
type fakeStore struct {
	mu       sync.Mutex
	accounts []domain.Account
	deals    []domain.Deal
	titles   []domain.Title
	emails   []domain.EmailSentRecord

	accountsErr  error
	titlesErr    error
	dueErr       error
	dealsErr     error
	failScoreFor map[uuid.UUID]bool
	failRiskFor  map[uuid.UUID]bool
	block        chan struct{}

	scoreWrites int
	riskWrites  int
}

func (f *fakeStore) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.accountsErr != nil {
		return nil, f.accountsErr
	}
	return append([]domain.Account(nil), f.accounts...), nil
}

func (f *fakeStore) ListStaleAccounts(ctx context.Context, cutoff time.Time) ([]domain.Account, error) {
	all, err := f.ListAccounts(ctx)
	if err != nil {
		return nil, err
	}
	var out []domain.Account
	for _, a := range all {
		if a.LastContactDate == nil || a.LastContactDate.Before(cutoff) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeStore) ListDeals(ctx context.Context) ([]domain.Deal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.dealsErr != nil {
		return nil, f.dealsErr
	}
	return append([]domain.Deal(nil), f.deals...), nil
}

func (f *fakeStore) ListActiveDealsWithAccounts(ctx context.Context) ([]domain.DealWithAccount, error) {
	deals, err := f.ListDeals(ctx)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []domain.DealWithAccount
	for _, d := range deals {
		if !d.IsActive() {
			continue
		}
		item := domain.DealWithAccount{Deal: d}
		for i := range f.accounts {
			if f.accounts[i].ID == d.AccountID {
				account := f.accounts[i]
				item.Account = &account
			}
		}
		out = append(out, item)
	}
	return out, nil
}

func (f *fakeStore) ListActiveDealsForAccounts(ctx context.Context, accountIDs []uuid.UUID) ([]domain.Deal, error) {
	deals, err := f.ListDeals(ctx)
	if err != nil {
		return nil, err
	}
	wanted := make(map[uuid.UUID]bool, len(accountIDs))
	for _, id := range accountIDs {
		wanted[id] = true
	}
	var out []domain.Deal
	for _, d := range deals {
		if d.IsActive() && wanted[d.AccountID] {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeStore) ListTitles(ctx context.Context) ([]domain.Title, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.titlesErr != nil {
		return nil, f.titlesErr
	}
	return append([]domain.Title(nil), f.titles...), nil
}

func (f *fakeStore) ListTitlesDueBetween(ctx context.Context, from, to time.Time) ([]domain.Title, error) {
	if f.dueErr != nil {
		return nil, f.dueErr
	}
	all, err := f.ListTitles(ctx)
	if err != nil {
		return nil, err
	}
	var out []domain.Title
	for _, t := range all {
		if t.Deadline != nil && !t.Deadline.Before(from) && !t.Deadline.After(to) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeStore) ListEmailsSince(ctx context.Context, since time.Time) ([]domain.EmailSentRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.EmailSentRecord
	for _, e := range f.emails {
		if e.CreatedAt.After(since) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeStore) UpdateWafflingScore(ctx context.Context, accountID uuid.UUID, score int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failScoreFor[accountID] {
		return errStoreOffline
	}
	for i := range f.accounts {
		if f.accounts[i].ID == accountID {
			f.accounts[i].WafflingScore = score
		}
	}
	f.scoreWrites++
	return nil
}

func (f *fakeStore) UpdateDealAtRisk(ctx context.Context, dealID uuid.UUID, atRisk bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failRiskFor[dealID] {
		return errStoreOffline
	}
	for i := range f.deals {
		if f.deals[i].ID == dealID {
			f.deals[i].IsAtRisk = atRisk
		}
	}
	f.riskWrites++
	return nil
}

// wait blocks until block is closed or ctx ends, simulating a hung store.
func (f *fakeStore) wait(ctx context.Context) error {
	if f.block == nil {
		return nil
	}
	select {
	case <-f.block:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func daysAgo(n int) *time.Time {
	t := testNow.Add(-time.Duration(n) * 24 * time.Hour)
	return &t
}

func dateIn(n int) *time.Time {
	t := time.Date(testNow.Year(), testNow.Month(), testNow.Day()+n, 0, 0, 0, 0, time.UTC)
	return &t
}

func certainty(c domain.Certainty) *domain.Certainty { return &c }

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }

// seededStore holds a small but complete CRM snapshot.
func seededStore() *fakeStore {
	cold := domain.Account{
		ID:                uuid.New(),
		CompanyName:       "Harbour Hotel",
		ContactName:       strPtr("Dana Reyes"),
		ContactPhone:      strPtr("(650) 253-0000"),
		DecisionCertainty: certainty(domain.CertaintyWaffling),
	}
	engaged := domain.Account{
		ID:                uuid.New(),
		CompanyName:       "Cliffside Tours",
		DecisionCertainty: certainty(domain.CertaintyFirm),
		LastContactDate:   daysAgo(0),
	}

	title := domain.Title{
		ID:            uuid.New(),
		Name:          "Summer Visitor Guide",
		Region:        "North Coast",
		RevenueGoal:   decimal.NewFromInt(20000),
		RevenueBooked: decimal.NewFromInt(5000),
		PagesGoal:     40,
		PagesSold:     12,
		Deadline:      dateIn(3),
	}

	return &fakeStore{
		accounts: []domain.Account{cold, engaged},
		deals: []domain.Deal{
			{
				ID:               uuid.New(),
				AccountID:        engaged.ID,
				TitleID:          title.ID,
				Value:            decimal.NewFromInt(2500),
				Stage:            domain.StageNegotiating,
				Probability:      intPtr(70),
				LastActivityDate: daysAgo(0),
			},
			{
				ID:          uuid.New(),
				AccountID:   cold.ID,
				TitleID:     title.ID,
				Value:       decimal.NewFromInt(800),
				Stage:       domain.StageProspect,
				Probability: intPtr(10),
			},
		},
		titles: []domain.Title{title},
		emails: []domain.EmailSentRecord{
			{ID: uuid.New(), AccountID: engaged.ID, Status: domain.EmailReplied, CreatedAt: *daysAgo(3)},
		},
	}
}

func newTestServices(store *fakeStore) *Services {
	svcs := NewServices(store, "US", nil)
	svcs.SetClock(fixedClock)
	return svcs
}
