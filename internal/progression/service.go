package progression

import (
	"context"
	"fmt"
	"time"

	"github.com/dooflabs/dooficoin/internal/ledger"
	"github.com/dooflabs/dooficoin/internal/logging"
	"github.com/dooflabs/dooficoin/internal/player"
	"github.com/dooflabs/dooficoin/internal/scenario"
	"github.com/dooflabs/dooficoin/internal/syncutil"
	"github.com/dooflabs/dooficoin/internal/traces"
)

// Rewarder credits level rewards.
type Rewarder interface {
	Add(ctx context.Context, playerID, amount, entryType, reference string) error
}

// Service maintains progression records and enforces phase gating.
type Service struct {
	store   Store
	players player.Store
	catalog scenario.Catalog
	bank    Rewarder
	cfg     Config
	locks   syncutil.ShardedMutex
	now     func() time.Time
}

// NewService creates a progression service.
func NewService(store Store, players player.Store, catalog scenario.Catalog, bank Rewarder, cfg Config) *Service {
	if cfg.LevelRewardBase.IsZero() {
		cfg = DefaultConfig()
	}
	return &Service{
		store:   store,
		players: players,
		catalog: catalog,
		bank:    bank,
		cfg:     cfg,
		now:     time.Now,
	}
}

// WithClock overrides the clock (for testing).
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// MonsterKilled records a monster kill in the progression ledger.
// Failures are logged, never propagated: progression bookkeeping must
// not veto the combat outcome that already happened.
func (s *Service) MonsterKilled(ctx context.Context, playerID string, levelChanged bool) {
	unlock := s.locks.Lock(playerID)
	defer unlock()

	pl, err := s.level(ctx, playerID)
	if err != nil {
		logging.FromContext(ctx).Error("progression load failed",
			"player_id", playerID, "error", err)
		return
	}
	pl.MonstersKilled++
	pl.Experience += MonsterXP
	if levelChanged {
		pl.LevelUps++
	}
	pl.UpdatedAt = s.now()
	if err := s.store.SaveLevel(ctx, pl); err != nil {
		logging.FromContext(ctx).Error("progression save failed",
			"player_id", playerID, "error", err)
	}
}

// PlayerKilled records a player kill for the attacker.
func (s *Service) PlayerKilled(ctx context.Context, attackerID string) {
	unlock := s.locks.Lock(attackerID)
	defer unlock()

	pl, err := s.level(ctx, attackerID)
	if err != nil {
		logging.FromContext(ctx).Error("progression load failed",
			"player_id", attackerID, "error", err)
		return
	}
	pl.PlayersKilled++
	pl.Experience += PlayerKillXP
	pl.UpdatedAt = s.now()
	if err := s.store.SaveLevel(ctx, pl); err != nil {
		logging.FromContext(ctx).Error("progression save failed",
			"player_id", attackerID, "error", err)
	}
}

// Level returns the player's progression record, zero-valued if the
// player has no recorded progression yet.
func (s *Service) Level(ctx context.Context, playerID string) (*PlayerLevel, error) {
	return s.level(ctx, playerID)
}

// DefeatMonster records a monster defeat inside a scenario and latches
// completion once the scenario's monster count is reached. Perfect runs
// are those completed without the player ever dying during the run;
// the caller reports that via the perfect flag on the completing defeat.
func (s *Service) DefeatMonster(ctx context.Context, playerID, scenarioID string, perfect bool) (*ScenarioProgress, error) {
	ctx, span := traces.StartSpan(ctx, "progression.DefeatMonster", traces.PlayerID(playerID))
	defer span.End()

	sc, err := s.catalog.Scenario(scenarioID)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(playerID)
	defer unlock()

	sp, err := s.store.Scenario(ctx, playerID, scenarioID)
	if err == ErrNotFound {
		sp = &ScenarioProgress{PlayerID: playerID, ScenarioID: scenarioID}
	} else if err != nil {
		return nil, err
	}

	sp.MonstersDefeated++
	if !sp.IsCompleted && sp.MonstersDefeated >= sc.MonsterCount {
		now := s.now()
		sp.IsCompleted = true
		sp.IsPerfect = perfect
		sp.CompletedAt = &now
	}
	sp.UpdatedAt = s.now()

	if err := s.store.SaveScenario(ctx, sp); err != nil {
		return nil, err
	}
	return sp, nil
}

// Scenarios returns all scenario progress for a player.
func (s *Service) Scenarios(ctx context.Context, playerID string) ([]*ScenarioProgress, error) {
	return s.store.Scenarios(ctx, playerID)
}

// ClaimLevelReward credits the one-shot reward for a reached level.
// Claims are idempotent-by-rejection: the second claim for the same
// level returns ErrAlreadyClaimed and credits nothing.
func (s *Service) ClaimLevelReward(ctx context.Context, playerID string, level int) (*LevelReward, error) {
	ctx, span := traces.StartSpan(ctx, "progression.ClaimLevelReward", traces.PlayerID(playerID))
	defer span.End()

	unlock := s.locks.Lock(playerID)
	defer unlock()

	p, err := s.players.Get(ctx, playerID)
	if err != nil {
		return nil, err
	}
	if p.Level < level {
		return nil, ErrLevelNotReached
	}

	if _, err := s.store.Reward(ctx, playerID, level); err == nil {
		return nil, ErrAlreadyClaimed
	} else if err != ErrNotFound {
		return nil, err
	}

	reward := &LevelReward{
		PlayerID:  playerID,
		Level:     level,
		Amount:    s.cfg.RewardForLevel(level),
		ClaimedAt: s.now(),
	}
	if err := s.bank.Add(ctx, playerID, reward.Amount, ledger.TypeLevelReward, fmt.Sprintf("level:%d", level)); err != nil {
		return nil, err
	}
	if err := s.store.SaveReward(ctx, reward); err != nil {
		return nil, err
	}
	return reward, nil
}

// AdvancePhase moves the player to the next phase. Only the immediately
// following phase is reachable, and every scenario of the current phase
// must be completed first.
func (s *Service) AdvancePhase(ctx context.Context, playerID string, target int) (*player.Player, error) {
	ctx, span := traces.StartSpan(ctx, "progression.AdvancePhase", traces.PlayerID(playerID))
	defer span.End()

	unlock := s.locks.Lock(playerID)
	defer unlock()

	p, err := s.players.Get(ctx, playerID)
	if err != nil {
		return nil, err
	}
	if target != p.CurrentPhase+1 {
		return nil, ErrInvalidTransition
	}

	for _, sc := range s.catalog.ByPhase(p.CurrentPhase) {
		sp, err := s.store.Scenario(ctx, playerID, sc.ID)
		if err == ErrNotFound {
			return nil, ErrInvalidTransition
		}
		if err != nil {
			return nil, err
		}
		if !sp.IsCompleted {
			return nil, ErrInvalidTransition
		}
	}

	p.CurrentPhase = target
	p.UpdatedAt = s.now()
	if err := s.players.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Leaderboard kinds.
const (
	BoardExperience = "experience"
	BoardMonsters   = "monsters"
	BoardPlayers    = "players"
)

// Leaderboard returns the top progression records for a board kind.
func (s *Service) Leaderboard(ctx context.Context, kind string, limit int) ([]*PlayerLevel, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	switch kind {
	case BoardMonsters:
		return s.store.TopByMonsters(ctx, limit)
	case BoardPlayers:
		return s.store.TopByPlayerKills(ctx, limit)
	default:
		return s.store.TopByExperience(ctx, limit)
	}
}

func (s *Service) level(ctx context.Context, playerID string) (*PlayerLevel, error) {
	pl, err := s.store.Level(ctx, playerID)
	if err == ErrNotFound {
		return &PlayerLevel{PlayerID: playerID}, nil
	}
	return pl, err
}
