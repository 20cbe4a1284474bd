package mining

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dooflabs/dooficoin/internal/testutil"
)

func TestPostgresStore_SessionLifecycle(t *testing.T) {
	db, cleanup := testutil.PGTest(t)
	defer cleanup()

	store := NewPostgresStore(db)
	ctx := context.Background()

	start := time.Now().UTC().Truncate(time.Microsecond)
	sess := &Session{
		ID:             "min_pg1",
		PlayerID:       "pg-m1",
		StartTime:      start,
		NextRewardTime: start.Add(600 * time.Second),
		CurrentRate:    "0.00000000000000000000000000000000001",
		TotalMined:     "0",
		Active:         true,
	}
	if err := store.CreateSession(ctx, sess); err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	got, err := store.ActiveSession(ctx, "pg-m1")
	if err != nil {
		t.Fatalf("ActiveSession: %v", err)
	}
	if got.ID != sess.ID || !got.NextRewardTime.Equal(sess.NextRewardTime) {
		t.Errorf("active session = %+v, want %+v", got, sess)
	}

	// The partial unique index rejects a second open session
	dup := *sess
	dup.ID = "min_pg2"
	if err := store.CreateSession(ctx, &dup); err == nil {
		t.Error("expected second active session to be rejected")
	}

	end := start.Add(time.Hour)
	sess.EndTime = &end
	sess.Active = false
	if err := store.CloseSession(ctx, sess); err != nil {
		t.Fatalf("CloseSession: %v", err)
	}
	if _, err := store.ActiveSession(ctx, "pg-m1"); !errors.Is(err, ErrNoActiveSession) {
		t.Errorf("ActiveSession after close = %v, want ErrNoActiveSession", err)
	}
}

func TestPostgresStore_CompleteTickPersistsReward(t *testing.T) {
	db, cleanup := testutil.PGTest(t)
	defer cleanup()

	store := NewPostgresStore(db)
	ctx := context.Background()

	start := time.Now().UTC().Truncate(time.Microsecond)
	sess := &Session{
		ID:             "min_pg3",
		PlayerID:       "pg-m2",
		StartTime:      start,
		NextRewardTime: start.Add(600 * time.Second),
		CurrentRate:    "0.00000000000000000000000000000000001",
		TotalMined:     "0",
		Active:         true,
	}
	if err := store.CreateSession(ctx, sess); err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	sess.NextRewardTime = sess.NextRewardTime.Add(600 * time.Second)
	sess.TotalMined = "0.00000000000000000000000000000000001"
	reward := &Reward{
		ID:        "rwd_pg1",
		SessionID: sess.ID,
		PlayerID:  sess.PlayerID,
		Amount:    "0.00000000000000000000000000000000001",
		Timestamp: start.Add(600 * time.Second),
	}
	if err := store.CompleteTick(ctx, sess, reward); err != nil {
		t.Fatalf("CompleteTick: %v", err)
	}

	rewards, err := store.Rewards(ctx, "pg-m2", 10)
	if err != nil {
		t.Fatalf("Rewards: %v", err)
	}
	if len(rewards) != 1 || rewards[0].Amount != reward.Amount {
		t.Errorf("rewards = %+v, precision lost or missing", rewards)
	}
}

func TestPostgresStore_StatsUpsertAndLeaderboard(t *testing.T) {
	db, cleanup := testutil.PGTest(t)
	defer cleanup()

	store := NewPostgresStore(db)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Microsecond)
	for i, st := range []*Statistics{
		{PlayerID: "pg-top1", TotalSessions: 1, TotalMinedLifetime: "3", LongestSessionSecs: 60, LastSessionAt: &now},
		{PlayerID: "pg-top2", TotalSessions: 2, TotalMinedLifetime: "10", LongestSessionSecs: 120, LastSessionAt: &now},
	} {
		if err := store.UpdateStats(ctx, st); err != nil {
			t.Fatalf("UpdateStats %d: %v", i, err)
		}
	}

	// Upsert replaces rather than duplicates
	if err := store.UpdateStats(ctx, &Statistics{PlayerID: "pg-top1", TotalSessions: 2, TotalMinedLifetime: "20", LongestSessionSecs: 90, LastSessionAt: &now}); err != nil {
		t.Fatalf("UpdateStats upsert: %v", err)
	}

	top, err := store.TopMiners(ctx, 10)
	if err != nil {
		t.Fatalf("TopMiners: %v", err)
	}
	if len(top) != 2 {
		t.Fatalf("leaderboard size = %d, want 2", len(top))
	}
	// Ordered numerically, not lexically: 20 > 10
	if top[0].PlayerID != "pg-top1" || top[0].TotalMinedLifetime != "20" {
		t.Errorf("leaderboard head = %+v, want pg-top1 with 20", top[0])
	}
}
