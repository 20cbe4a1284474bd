package progression

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dooflabs/dooficoin/internal/ledger"
	"github.com/dooflabs/dooficoin/internal/player"
	"github.com/dooflabs/dooficoin/internal/scenario"
)

type progFixture struct {
	svc     *Service
	store   *MemoryStore
	players *player.MemoryStore
	bank    *ledger.Ledger
}

func newProgFixture(t *testing.T) *progFixture {
	t.Helper()
	store := NewMemoryStore()
	players := player.NewMemoryStore()
	bank := ledger.New(ledger.NewMemoryStore())
	svc := NewService(store, players, scenario.DefaultCatalog(), bank, DefaultConfig()).
		WithClock(func() time.Time { return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC) })
	return &progFixture{svc: svc, store: store, players: players, bank: bank}
}

func (f *progFixture) addPlayer(t *testing.T, p *player.Player) {
	t.Helper()
	if p.Level == 0 {
		p.Level = player.StartingLevel
	}
	if p.CurrentPhase == 0 {
		p.CurrentPhase = player.StartingPhase
	}
	require.NoError(t, f.players.Create(context.Background(), p))
}

func TestMonsterKilled_AccumulatesCounters(t *testing.T) {
	f := newProgFixture(t)
	ctx := context.Background()

	f.svc.MonsterKilled(ctx, "p1", false)
	f.svc.MonsterKilled(ctx, "p1", false)
	f.svc.MonsterKilled(ctx, "p1", true)

	pl, err := f.svc.Level(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 3, pl.MonstersKilled)
	assert.Equal(t, int64(3*MonsterXP), pl.Experience)
	assert.Equal(t, 1, pl.LevelUps)
}

func TestPlayerKilled_AccumulatesCounters(t *testing.T) {
	f := newProgFixture(t)
	ctx := context.Background()

	f.svc.PlayerKilled(ctx, "p1")

	pl, err := f.svc.Level(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 1, pl.PlayersKilled)
	assert.Equal(t, int64(PlayerKillXP), pl.Experience)
}

func TestLevel_UnknownPlayerIsZeroValued(t *testing.T) {
	f := newProgFixture(t)

	pl, err := f.svc.Level(context.Background(), "ghost")
	require.NoError(t, err)
	assert.Equal(t, 0, pl.MonstersKilled)
	assert.Equal(t, int64(0), pl.Experience)
}

func TestDefeatMonster_LatchesCompletion(t *testing.T) {
	f := newProgFixture(t)
	ctx := context.Background()

	// sc_rat_cellar needs 10 defeats
	var sp *ScenarioProgress
	var err error
	for i := 0; i < 9; i++ {
		sp, err = f.svc.DefeatMonster(ctx, "p1", "sc_rat_cellar", false)
		require.NoError(t, err)
		assert.False(t, sp.IsCompleted)
	}

	sp, err = f.svc.DefeatMonster(ctx, "p1", "sc_rat_cellar", true)
	require.NoError(t, err)
	assert.True(t, sp.IsCompleted)
	assert.True(t, sp.IsPerfect)
	require.NotNil(t, sp.CompletedAt)

	// further defeats keep the latch and the original perfect flag
	sp, err = f.svc.DefeatMonster(ctx, "p1", "sc_rat_cellar", false)
	require.NoError(t, err)
	assert.True(t, sp.IsCompleted)
	assert.True(t, sp.IsPerfect)
	assert.Equal(t, 11, sp.MonstersDefeated)
}

func TestDefeatMonster_UnknownScenario(t *testing.T) {
	f := newProgFixture(t)

	_, err := f.svc.DefeatMonster(context.Background(), "p1", "sc_nope", false)
	assert.ErrorIs(t, err, scenario.ErrNotFound)
}

func TestClaimLevelReward_CreditsOnce(t *testing.T) {
	f := newProgFixture(t)
	f.addPlayer(t, &player.Player{ID: "p1", Level: 2})
	ctx := context.Background()

	reward, err := f.svc.ClaimLevelReward(ctx, "p1", 2)
	require.NoError(t, err)
	assert.Equal(t, "0.00000000000000000000000000000000002", reward.Amount)

	bal, err := f.bank.Balance(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, reward.Amount, bal)

	// second claim rejected, balance untouched
	_, err = f.svc.ClaimLevelReward(ctx, "p1", 2)
	assert.ErrorIs(t, err, ErrAlreadyClaimed)

	bal, err = f.bank.Balance(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, reward.Amount, bal)
}

func TestClaimLevelReward_LevelNotReached(t *testing.T) {
	f := newProgFixture(t)
	f.addPlayer(t, &player.Player{ID: "p1", Level: 1})

	_, err := f.svc.ClaimLevelReward(context.Background(), "p1", 3)
	assert.ErrorIs(t, err, ErrLevelNotReached)
}

func TestAdvancePhase_RequiresCompletedScenarios(t *testing.T) {
	f := newProgFixture(t)
	f.addPlayer(t, &player.Player{ID: "p1"})
	ctx := context.Background()

	// phase 1 scenarios incomplete
	_, err := f.svc.AdvancePhase(ctx, "p1", 2)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	complete := func(scenarioID string, count int) {
		for i := 0; i < count; i++ {
			_, err := f.svc.DefeatMonster(ctx, "p1", scenarioID, false)
			require.NoError(t, err)
		}
	}
	complete("sc_rat_cellar", 10)
	complete("sc_sunken_crypt", 15)

	p, err := f.svc.AdvancePhase(ctx, "p1", 2)
	require.NoError(t, err)
	assert.Equal(t, 2, p.CurrentPhase)
}

func TestAdvancePhase_OnlyNextPhase(t *testing.T) {
	f := newProgFixture(t)
	f.addPlayer(t, &player.Player{ID: "p1"})
	ctx := context.Background()

	_, err := f.svc.AdvancePhase(ctx, "p1", 3)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = f.svc.AdvancePhase(ctx, "p1", 1)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestLeaderboard_Kinds(t *testing.T) {
	f := newProgFixture(t)
	ctx := context.Background()

	f.svc.MonsterKilled(ctx, "hunter", false)
	f.svc.MonsterKilled(ctx, "hunter", false)
	f.svc.PlayerKilled(ctx, "slayer")

	board, err := f.svc.Leaderboard(ctx, BoardExperience, 10)
	require.NoError(t, err)
	require.Len(t, board, 2)
	assert.Equal(t, "slayer", board[0].PlayerID) // 50 XP beats 20

	board, err = f.svc.Leaderboard(ctx, BoardMonsters, 10)
	require.NoError(t, err)
	assert.Equal(t, "hunter", board[0].PlayerID)

	board, err = f.svc.Leaderboard(ctx, BoardPlayers, 10)
	require.NoError(t, err)
	assert.Equal(t, "slayer", board[0].PlayerID)
}
