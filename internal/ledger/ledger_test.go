package ledger

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/dooflabs/dooficoin/internal/coin"
	"github.com/dooflabs/dooficoin/internal/pagination"
)

func newTestLedger() (*Ledger, *MemoryStore) {
	store := NewMemoryStore()
	return New(store), store
}

func seed(t *testing.T, l *Ledger, playerID, amount string) {
	t.Helper()
	if err := l.Add(context.Background(), playerID, amount, TypeTransfer, "seed"); err != nil {
		t.Fatalf("seed %s with %s: %v", playerID, amount, err)
	}
}

func balance(t *testing.T, l *Ledger, playerID string) string {
	t.Helper()
	bal, err := l.Balance(context.Background(), playerID)
	if err != nil {
		t.Fatalf("balance %s: %v", playerID, err)
	}
	return bal
}

func TestAdd_CreditsBalance(t *testing.T) {
	l, store := newTestLedger()
	seed(t, l, "p1", "1.5")

	if got := balance(t, l, "p1"); got != "1.5" {
		t.Errorf("balance = %s, want 1.5", got)
	}
	if len(store.Entries()) != 1 {
		t.Errorf("entries = %d, want 1", len(store.Entries()))
	}
}

func TestAdd_RejectsInvalidAmounts(t *testing.T) {
	l, _ := newTestLedger()

	for _, amount := range []string{"-1", "abc", "1e-35"} {
		if err := l.Add(context.Background(), "p1", amount, TypeTransfer, ""); !errors.Is(err, ErrInvalidAmount) {
			t.Errorf("Add(%q) = %v, want ErrInvalidAmount", amount, err)
		}
	}
}

func TestAdd_ZeroIsNoOp(t *testing.T) {
	l, store := newTestLedger()

	if err := l.Add(context.Background(), "p1", "0", TypeTransfer, ""); err != nil {
		t.Fatalf("Add zero: %v", err)
	}
	if len(store.Entries()) != 0 {
		t.Error("zero add recorded an entry")
	}
}

func TestRemove_InsufficientFundsLeavesBalanceUnchanged(t *testing.T) {
	l, _ := newTestLedger()
	seed(t, l, "p1", "10")

	err := l.Remove(context.Background(), "p1", "11", TypeDeathPenalty, "")
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("Remove = %v, want ErrInsufficientFunds", err)
	}
	if got := balance(t, l, "p1"); got != "10" {
		t.Errorf("balance after failed remove = %s, want 10", got)
	}
}

func TestTransfer_ConservesTotal(t *testing.T) {
	l, _ := newTestLedger()
	// Amounts with many fractional digits: conservation must be exact.
	seed(t, l, "a", "0.00000000000000000000000000000000007")
	seed(t, l, "b", "1.00000000000000000000000000000000001")

	before := coin.MustParse(balance(t, l, "a")).Add(coin.MustParse(balance(t, l, "b")))

	err := l.Transfer(context.Background(), "a", "b", "0.00000000000000000000000000000000003", TypeTransfer, "")
	if err != nil {
		t.Fatalf("Transfer: %v", err)
	}

	after := coin.MustParse(balance(t, l, "a")).Add(coin.MustParse(balance(t, l, "b")))
	if !before.Equal(after) {
		t.Errorf("total changed: before=%s after=%s", before, after)
	}
	if got := balance(t, l, "a"); got != "0.00000000000000000000000000000000004" {
		t.Errorf("sender balance = %s", got)
	}
}

func TestTransfer_InsufficientFundsIsAtomic(t *testing.T) {
	l, store := newTestLedger()
	seed(t, l, "a", "1")
	entriesBefore := len(store.Entries())

	err := l.Transfer(context.Background(), "a", "b", "2", TypeTransfer, "")
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("Transfer = %v, want ErrInsufficientFunds", err)
	}
	if got := balance(t, l, "a"); got != "1" {
		t.Errorf("sender balance = %s, want 1", got)
	}
	if got := balance(t, l, "b"); got != "0" {
		t.Errorf("receiver balance = %s, want 0", got)
	}
	if len(store.Entries()) != entriesBefore {
		t.Error("failed transfer appended an entry")
	}
}

func TestTransferPercent_ComputedFromCurrentBalance(t *testing.T) {
	l, _ := newTestLedger()
	seed(t, l, "victim", "100")
	seed(t, l, "attacker", "7")

	got, err := l.TransferPercent(context.Background(), "victim", "attacker", coin.MustParse("0.2"), TypeKillTransfer, "")
	if err != nil {
		t.Fatalf("TransferPercent: %v", err)
	}
	if got != "20" {
		t.Errorf("transferred = %s, want 20", got)
	}
	if bal := balance(t, l, "victim"); bal != "80" {
		t.Errorf("victim balance = %s, want 80", bal)
	}
	if bal := balance(t, l, "attacker"); bal != "27" {
		t.Errorf("attacker balance = %s, want 27", bal)
	}
}

func TestTransferPercent_ZeroBalanceIsNoOp(t *testing.T) {
	l, store := newTestLedger()

	got, err := l.TransferPercent(context.Background(), "victim", "attacker", coin.MustParse("0.2"), TypeKillTransfer, "")
	if err != nil {
		t.Fatalf("TransferPercent: %v", err)
	}
	if got != "0" {
		t.Errorf("transferred = %s, want 0", got)
	}
	if len(store.Entries()) != 0 {
		t.Error("zero percent transfer appended an entry")
	}
}

func TestRemovePercent_Burns(t *testing.T) {
	l, _ := newTestLedger()
	seed(t, l, "p1", "50")

	got, err := l.RemovePercent(context.Background(), "p1", coin.MustParse("0.1"), TypeDeathPenalty, "")
	if err != nil {
		t.Fatalf("RemovePercent: %v", err)
	}
	if got != "5" {
		t.Errorf("removed = %s, want 5", got)
	}
	if bal := balance(t, l, "p1"); bal != "45" {
		t.Errorf("balance = %s, want 45", bal)
	}
}

func TestHistory_MostRecentFirst(t *testing.T) {
	l, _ := newTestLedger()
	seed(t, l, "p1", "1")
	seed(t, l, "p1", "2")
	if err := l.Transfer(context.Background(), "p1", "p2", "1", TypeTransfer, ""); err != nil {
		t.Fatalf("Transfer: %v", err)
	}

	history, next, err := l.History(context.Background(), "p1", "", 10)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(history) != 3 {
		t.Fatalf("history length = %d, want 3", len(history))
	}
	if next != "" {
		t.Errorf("next cursor = %q, want empty on final page", next)
	}
	if history[0].Type != TypeTransfer || history[0].ReceiverID != "p2" {
		t.Errorf("first entry = %+v, want the transfer", history[0])
	}
}

func TestHistory_CursorPagination(t *testing.T) {
	l, _ := newTestLedger()
	for i := 0; i < 5; i++ {
		seed(t, l, "p1", "1")
	}

	first, next, err := l.History(context.Background(), "p1", "", 2)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(first) != 2 || next == "" {
		t.Fatalf("first page: len=%d next=%q, want 2 entries and a cursor", len(first), next)
	}

	second, next2, err := l.History(context.Background(), "p1", next, 2)
	if err != nil {
		t.Fatalf("History page 2: %v", err)
	}
	if len(second) != 2 || next2 == "" {
		t.Fatalf("second page: len=%d next=%q, want 2 entries and a cursor", len(second), next2)
	}
	if second[0].ID == first[0].ID || second[0].ID == first[1].ID {
		t.Errorf("second page repeats entries from the first")
	}

	last, next3, err := l.History(context.Background(), "p1", next2, 2)
	if err != nil {
		t.Fatalf("History page 3: %v", err)
	}
	if len(last) != 1 || next3 != "" {
		t.Errorf("last page: len=%d next=%q, want 1 entry and no cursor", len(last), next3)
	}
}

func TestHistory_InvalidCursor(t *testing.T) {
	l, _ := newTestLedger()
	if _, _, err := l.History(context.Background(), "p1", "not-a-cursor", 10); !errors.Is(err, pagination.ErrInvalidCursor) {
		t.Errorf("err = %v, want ErrInvalidCursor", err)
	}
}

func TestConcurrentOps_NoCrossPlayerInterference(t *testing.T) {
	l, _ := newTestLedger()
	seed(t, l, "a", "1000")
	seed(t, l, "b", "1000")

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = l.Add(context.Background(), "a", "1", TypeTransfer, "")
		}()
		go func() {
			defer wg.Done()
			_ = l.Remove(context.Background(), "b", "1", TypeTransfer, "")
		}()
	}
	wg.Wait()

	if got := balance(t, l, "a"); got != "1100" {
		t.Errorf("a balance = %s, want 1100", got)
	}
	if got := balance(t, l, "b"); got != "900" {
		t.Errorf("b balance = %s, want 900", got)
	}
}
