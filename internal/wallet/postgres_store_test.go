package wallet

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dooflabs/dooficoin/internal/testutil"
)

func TestPostgresStore_LinkRoundTrip(t *testing.T) {
	db, cleanup := testutil.PGTest(t)
	defer cleanup()

	store := NewPostgresStore(db)
	ctx := context.Background()

	if _, err := store.Get(ctx, "pg-w1"); !errors.Is(err, ErrNotConnected) {
		t.Fatalf("Get on empty table = %v, want ErrNotConnected", err)
	}

	now := time.Now().UTC().Truncate(time.Microsecond)
	l := &Link{PlayerID: "pg-w1", Address: "doof1qxy2kgdygjrsqtzq2n0yrf2493p8", ConnectedAt: now}
	if err := store.Put(ctx, l); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, err := store.Get(ctx, "pg-w1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Address != l.Address || !got.ConnectedAt.Equal(now) {
		t.Errorf("link = %+v, want %+v", got, l)
	}

	// Reconnecting replaces the address rather than erroring
	l.Address = "doof1replacement9address0000000000"
	l.ConnectedAt = now.Add(time.Minute)
	if err := store.Put(ctx, l); err != nil {
		t.Fatalf("Put upsert: %v", err)
	}
	got, err = store.Get(ctx, "pg-w1")
	if err != nil {
		t.Fatalf("Get after upsert: %v", err)
	}
	if got.Address != l.Address {
		t.Errorf("address = %q, want replacement", got.Address)
	}
}

func TestPostgresStore_Delete(t *testing.T) {
	db, cleanup := testutil.PGTest(t)
	defer cleanup()

	store := NewPostgresStore(db)
	ctx := context.Background()

	l := &Link{PlayerID: "pg-w2", Address: "doof1deleteme", ConnectedAt: time.Now().UTC()}
	if err := store.Put(ctx, l); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := store.Delete(ctx, "pg-w2"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Get(ctx, "pg-w2"); !errors.Is(err, ErrNotConnected) {
		t.Errorf("Get after delete = %v, want ErrNotConnected", err)
	}
	if err := store.Delete(ctx, "pg-w2"); !errors.Is(err, ErrNotConnected) {
		t.Errorf("second Delete = %v, want ErrNotConnected", err)
	}
}
