package service

import (
	"context"
	"testing"

	"adsales_backend/platform/apperr"

	"github.com/google/uuid"
)

func TestWafflingRunWritesOnlyMovedScores(t *testing.T) {
	store := seededStore()
	svcs := newTestServices(store)

	resp, err := svcs.Waffling.Run(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if resp.AccountsChecked != 2 {
		t.Fatalf("expected 2 accounts checked, got %d", resp.AccountsChecked)
	}
	if resp.AccountsUpdated != 1 || len(resp.Updates) != 1 {
		t.Fatalf("expected 1 update, got %d (%d entries)", resp.AccountsUpdated, len(resp.Updates))
	}

	update := resp.Updates[0]
	if update.ID != store.accounts[0].ID {
		t.Fatalf("expected cold account to be updated, got %s", update.ID)
	}
	if update.OldScore != 0 || update.NewScore != 80 {
		t.Fatalf("expected 0 -> 80, got %d -> %d", update.OldScore, update.NewScore)
	}
	if store.accounts[0].WafflingScore != 80 {
		t.Fatalf("expected stored score 80, got %d", store.accounts[0].WafflingScore)
	}
}

func TestWafflingRunIsIdempotent(t *testing.T) {
	store := seededStore()
	svcs := newTestServices(store)

	if _, err := svcs.Waffling.Run(context.Background()); err != nil {
		t.Fatalf("first run: %v", err)
	}
	resp, err := svcs.Waffling.Run(context.Background())
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if resp.AccountsUpdated != 0 {
		t.Fatalf("expected no updates on second run, got %d", resp.AccountsUpdated)
	}
	if store.scoreWrites != 1 {
		t.Fatalf("expected 1 write in total, got %d", store.scoreWrites)
	}
}

func TestWafflingRunSkipsFailedWrites(t *testing.T) {
	store := seededStore()
	store.failScoreFor = map[uuid.UUID]bool{store.accounts[0].ID: true}
	svcs := newTestServices(store)

	resp, err := svcs.Waffling.Run(context.Background())
	if err != nil {
		t.Fatalf("expected write failures to be swallowed, got %v", err)
	}
	if !resp.Success {
		t.Fatalf("expected success")
	}
	if resp.AccountsUpdated != 0 || len(resp.Updates) != 0 {
		t.Fatalf("expected failed write to be left out, got %+v", resp.Updates)
	}
}

func TestWafflingRunReadFailureIsUnavailable(t *testing.T) {
	store := seededStore()
	store.accountsErr = errStoreOffline
	svcs := newTestServices(store)

	_, err := svcs.Waffling.Run(context.Background())
	if err == nil {
		t.Fatalf("expected error")
	}
	if !apperr.Is(err, apperr.KindUnavailable) {
		t.Fatalf("expected unavailable, got %v", apperr.GetKind(err))
	}
}

func TestWafflingRunHonoursCancellation(t *testing.T) {
	store := seededStore()
	svcs := newTestServices(store)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svcs.Waffling.Run(ctx)
	if err == nil {
		t.Fatalf("expected cancelled run to fail")
	}
	if store.scoreWrites != 0 {
		t.Fatalf("expected no writes after cancellation, got %d", store.scoreWrites)
	}
}
