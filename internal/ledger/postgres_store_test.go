package ledger

import (
	"context"
	"errors"
	"testing"

	"github.com/dooflabs/dooficoin/internal/testutil"
)

func TestPostgresStore_ApplyAndBalance(t *testing.T) {
	db, cleanup := testutil.PGTest(t)
	defer cleanup()

	store := NewPostgresStore(db)
	l := New(store)
	ctx := context.Background()

	if err := l.Add(ctx, "pg-p1", "0.00000000000000000000000000000000001", TypeMiningReward, "sess_1"); err != nil {
		t.Fatalf("Add: %v", err)
	}

	bal, err := l.Balance(ctx, "pg-p1")
	if err != nil {
		t.Fatalf("Balance: %v", err)
	}
	if bal != "0.00000000000000000000000000000000001" {
		t.Errorf("balance = %s, precision lost", bal)
	}
}

func TestPostgresStore_TransferAtomicity(t *testing.T) {
	db, cleanup := testutil.PGTest(t)
	defer cleanup()

	store := NewPostgresStore(db)
	l := New(store)
	ctx := context.Background()

	if err := l.Add(ctx, "pg-a", "5", TypeTransfer, "seed"); err != nil {
		t.Fatalf("Add: %v", err)
	}

	if err := l.Transfer(ctx, "pg-a", "pg-b", "6", TypeTransfer, ""); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("Transfer = %v, want ErrInsufficientFunds", err)
	}

	balA, _ := l.Balance(ctx, "pg-a")
	balB, _ := l.Balance(ctx, "pg-b")
	if balA != "5" || balB != "0" {
		t.Errorf("balances after failed transfer: a=%s b=%s", balA, balB)
	}

	if err := l.Transfer(ctx, "pg-a", "pg-b", "2", TypeTransfer, ""); err != nil {
		t.Fatalf("Transfer: %v", err)
	}
	balA, _ = l.Balance(ctx, "pg-a")
	balB, _ = l.Balance(ctx, "pg-b")
	if balA != "3" || balB != "2" {
		t.Errorf("balances after transfer: a=%s b=%s", balA, balB)
	}
}

func TestPostgresStore_History(t *testing.T) {
	db, cleanup := testutil.PGTest(t)
	defer cleanup()

	store := NewPostgresStore(db)
	l := New(store)
	ctx := context.Background()

	for _, amt := range []string{"1", "2", "3"} {
		if err := l.Add(ctx, "pg-h", amt, TypeMiningReward, ""); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}

	entries, next, err := l.History(ctx, "pg-h", "", 2)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("history length = %d, want 2", len(entries))
	}
	if entries[0].Amount != "3" {
		t.Errorf("most recent entry amount = %s, want 3", entries[0].Amount)
	}
	if next == "" {
		t.Fatal("expected a next cursor with one entry remaining")
	}

	rest, next, err := l.History(ctx, "pg-h", next, 2)
	if err != nil {
		t.Fatalf("History page 2: %v", err)
	}
	if len(rest) != 1 || rest[0].Amount != "1" {
		t.Errorf("second page = %+v, want the oldest entry", rest)
	}
	if next != "" {
		t.Errorf("next cursor = %q, want empty on final page", next)
	}
}
