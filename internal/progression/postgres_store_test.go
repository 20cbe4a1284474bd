package progression

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dooflabs/dooficoin/internal/testutil"
)

func TestPostgresStore_LevelUpsert(t *testing.T) {
	db, cleanup := testutil.PGTest(t)
	defer cleanup()

	store := NewPostgresStore(db)
	ctx := context.Background()

	if _, err := store.Level(ctx, "pg-prog1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Level on empty table = %v, want ErrNotFound", err)
	}

	now := time.Now().UTC().Truncate(time.Microsecond)
	pl := &PlayerLevel{PlayerID: "pg-prog1", Experience: 10, MonstersKilled: 1, UpdatedAt: now}
	if err := store.SaveLevel(ctx, pl); err != nil {
		t.Fatalf("SaveLevel: %v", err)
	}

	pl.Experience = 60
	pl.PlayersKilled = 1
	if err := store.SaveLevel(ctx, pl); err != nil {
		t.Fatalf("SaveLevel upsert: %v", err)
	}

	got, err := store.Level(ctx, "pg-prog1")
	if err != nil {
		t.Fatalf("Level: %v", err)
	}
	if got.Experience != 60 || got.PlayersKilled != 1 || got.MonstersKilled != 1 {
		t.Errorf("level = %+v, upsert did not replace counters", got)
	}
}

func TestPostgresStore_ScenarioCompletionLatch(t *testing.T) {
	db, cleanup := testutil.PGTest(t)
	defer cleanup()

	store := NewPostgresStore(db)
	ctx := context.Background()

	done := time.Now().UTC().Truncate(time.Microsecond)
	sp := &ScenarioProgress{
		PlayerID:         "pg-prog2",
		ScenarioID:       "meadow",
		MonstersDefeated: 5,
		IsCompleted:      true,
		IsPerfect:        true,
		CompletedAt:      &done,
		UpdatedAt:        done,
	}
	if err := store.SaveScenario(ctx, sp); err != nil {
		t.Fatalf("SaveScenario: %v", err)
	}

	// A later non-completed save must not unlatch completion
	later := &ScenarioProgress{
		PlayerID:         "pg-prog2",
		ScenarioID:       "meadow",
		MonstersDefeated: 6,
		UpdatedAt:        done.Add(time.Minute),
	}
	if err := store.SaveScenario(ctx, later); err != nil {
		t.Fatalf("SaveScenario replay: %v", err)
	}

	got, err := store.Scenario(ctx, "pg-prog2", "meadow")
	if err != nil {
		t.Fatalf("Scenario: %v", err)
	}
	if !got.IsCompleted || !got.IsPerfect {
		t.Errorf("completion latch lost: %+v", got)
	}
	if got.CompletedAt == nil || !got.CompletedAt.Equal(done) {
		t.Errorf("completed_at = %v, want original %v", got.CompletedAt, done)
	}
	if got.MonstersDefeated != 6 {
		t.Errorf("monsters_defeated = %d, want 6", got.MonstersDefeated)
	}
}

func TestPostgresStore_RewardClaims(t *testing.T) {
	db, cleanup := testutil.PGTest(t)
	defer cleanup()

	store := NewPostgresStore(db)
	ctx := context.Background()

	if _, err := store.Reward(ctx, "pg-prog3", 1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Reward on empty table = %v, want ErrNotFound", err)
	}

	r := &LevelReward{
		PlayerID:  "pg-prog3",
		Level:     1,
		Amount:    "0.00000000000000000000000000000000001",
		ClaimedAt: time.Now().UTC().Truncate(time.Microsecond),
	}
	if err := store.SaveReward(ctx, r); err != nil {
		t.Fatalf("SaveReward: %v", err)
	}

	got, err := store.Reward(ctx, "pg-prog3", 1)
	if err != nil {
		t.Fatalf("Reward: %v", err)
	}
	if got.Amount != r.Amount {
		t.Errorf("amount = %q, want %q", got.Amount, r.Amount)
	}

	// The composite primary key makes a claim one-shot
	if err := store.SaveReward(ctx, r); err == nil {
		t.Error("expected duplicate claim to be rejected")
	}
}

func TestPostgresStore_Leaderboards(t *testing.T) {
	db, cleanup := testutil.PGTest(t)
	defer cleanup()

	store := NewPostgresStore(db)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Microsecond)
	for _, pl := range []*PlayerLevel{
		{PlayerID: "pg-lead1", Experience: 100, MonstersKilled: 3, PlayersKilled: 9, UpdatedAt: now},
		{PlayerID: "pg-lead2", Experience: 500, MonstersKilled: 7, PlayersKilled: 2, UpdatedAt: now},
	} {
		if err := store.SaveLevel(ctx, pl); err != nil {
			t.Fatalf("SaveLevel: %v", err)
		}
	}

	byXP, err := store.TopByExperience(ctx, 10)
	if err != nil {
		t.Fatalf("TopByExperience: %v", err)
	}
	if len(byXP) != 2 || byXP[0].PlayerID != "pg-lead2" {
		t.Errorf("experience board head = %+v, want pg-lead2", byXP)
	}

	byKills, err := store.TopByPlayerKills(ctx, 10)
	if err != nil {
		t.Fatalf("TopByPlayerKills: %v", err)
	}
	if len(byKills) != 2 || byKills[0].PlayerID != "pg-lead1" {
		t.Errorf("player-kill board head = %+v, want pg-lead1", byKills)
	}
}
