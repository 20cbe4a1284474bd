package player

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dooflabs/dooficoin/internal/testutil"
)

func TestPostgresStore_CreateAndLookup(t *testing.T) {
	db, cleanup := testutil.PGTest(t)
	defer cleanup()

	store := NewPostgresStore(db)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Microsecond)
	p := &Player{
		ID:           "plr_pg1",
		UserID:       "user-pg-1",
		Username:     "doofus",
		Level:        1,
		Health:       100,
		Power:        10,
		CurrentPhase: 1,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := store.Create(ctx, p); err != nil {
		t.Fatalf("Create: %v", err)
	}

	byID, err := store.Get(ctx, "plr_pg1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if byID.Username != "doofus" || byID.Health != 100 {
		t.Errorf("player = %+v", byID)
	}

	byUser, err := store.GetByUserID(ctx, "user-pg-1")
	if err != nil {
		t.Fatalf("GetByUserID: %v", err)
	}
	if byUser.ID != "plr_pg1" {
		t.Errorf("GetByUserID returned %s, want plr_pg1", byUser.ID)
	}

	if _, err := store.Get(ctx, "plr_missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get missing = %v, want ErrNotFound", err)
	}

	// user_id is unique, so re-entering the game must not mint a twin
	dup := *p
	dup.ID = "plr_pg2"
	if err := store.Create(ctx, &dup); err == nil {
		t.Error("expected duplicate user_id to be rejected")
	}
}

func TestPostgresStore_UpdatePersistsCombatState(t *testing.T) {
	db, cleanup := testutil.PGTest(t)
	defer cleanup()

	store := NewPostgresStore(db)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Microsecond)
	p := &Player{
		ID:           "plr_pg3",
		UserID:       "user-pg-3",
		Username:     "bruiser",
		Level:        1,
		Health:       100,
		Power:        10,
		CurrentPhase: 1,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := store.Create(ctx, p); err != nil {
		t.Fatalf("Create: %v", err)
	}

	active := now.Add(time.Minute)
	p.Level = 2
	p.Health = 40
	p.Power = 15
	p.MonstersKilled = 100
	p.SelfEliminations = 1
	p.PlayerKills = 3
	p.Deaths = 2
	p.IsMining = true
	p.LastActivity = &active
	p.UpdatedAt = active
	if err := store.Update(ctx, p); err != nil {
		t.Fatalf("Update: %v", err)
	}

	got, err := store.Get(ctx, "plr_pg3")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Level != 2 || got.Health != 40 || got.Power != 15 ||
		got.MonstersKilled != 100 || got.PlayerKills != 3 || got.Deaths != 2 {
		t.Errorf("combat counters not persisted: %+v", got)
	}
	if !got.IsMining {
		t.Error("is_mining not persisted")
	}
	if got.LastActivity == nil || !got.LastActivity.Equal(active) {
		t.Errorf("last_activity = %v, want %v", got.LastActivity, active)
	}
}
