package combat

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/dooflabs/dooficoin/internal/coin"
	"github.com/dooflabs/dooficoin/internal/ledger"
	"github.com/dooflabs/dooficoin/internal/logging"
	"github.com/dooflabs/dooficoin/internal/metrics"
	"github.com/dooflabs/dooficoin/internal/player"
	"github.com/dooflabs/dooficoin/internal/syncutil"
	"github.com/dooflabs/dooficoin/internal/traces"
)

// Bank is the slice of the ledger combat needs.
type Bank interface {
	Add(ctx context.Context, playerID, amount, entryType, reference string) error
	Remove(ctx context.Context, playerID, amount, entryType, reference string) error
	RemovePercent(ctx context.Context, playerID string, fraction decimal.Decimal, entryType, reference string) (string, error)
	Transfer(ctx context.Context, fromID, toID, amount, entryType, reference string) error
	TransferPercent(ctx context.Context, fromID, toID string, fraction decimal.Decimal, entryType, reference string) (string, error)
}

// ActionRecorder feeds combat events into risk scoring, best-effort.
type ActionRecorder interface {
	RecordAction(playerID, actionType string, metadata map[string]any)
}

// ProgressionSink receives combat outcomes that advance progression
// counters. Calls are best-effort; progression never vetoes combat.
type ProgressionSink interface {
	MonsterKilled(ctx context.Context, playerID string, levelChanged bool)
	PlayerKilled(ctx context.Context, attackerID string)
}

// Notifier receives combat outcomes, e.g. a realtime hub. Best-effort.
type Notifier interface {
	NotifyCombat(playerID, kind string, detail any)
}

// Service resolves combat events. Per-player mutations are serialized
// with keyed locks; player-versus-player kills take both locks in a
// fixed global order.
type Service struct {
	players     player.Store
	bank        Bank
	policy      Policy
	recorder    ActionRecorder
	progression ProgressionSink
	notifier    Notifier
	locks       syncutil.ShardedMutex
}

// NewService creates a combat service with the given policy.
func NewService(players player.Store, bank Bank, policy Policy) *Service {
	if policy.HealEveryKills <= 0 {
		policy = DefaultPolicy()
	}
	return &Service{players: players, bank: bank, policy: policy}
}

// WithRecorder wires risk-action recording.
func (s *Service) WithRecorder(r ActionRecorder) *Service {
	s.recorder = r
	return s
}

// WithNotifier wires outcome broadcasting.
func (s *Service) WithNotifier(n Notifier) *Service {
	s.notifier = n
	return s
}

// WithProgression wires progression counter updates.
func (s *Service) WithProgression(p ProgressionSink) *Service {
	s.progression = p
	return s
}

// KillMonster increments the player's monster-kill counter and applies
// threshold effects: every HealEveryKills kills restore health and raise
// power, every LevelEveryKills kills raise the level by exactly one.
func (s *Service) KillMonster(ctx context.Context, playerID string) (*MonsterKillResult, error) {
	ctx, span := traces.StartSpan(ctx, "combat.KillMonster", traces.PlayerID(playerID))
	defer span.End()

	unlock := s.locks.Lock(playerID)
	defer unlock()

	p, err := s.players.Get(ctx, playerID)
	if err != nil {
		return nil, err
	}

	p.MonstersKilled++
	res := &MonsterKillResult{
		PlayerID:       p.ID,
		MonstersKilled: p.MonstersKilled,
	}
	if p.MonstersKilled%s.policy.HealEveryKills == 0 {
		p.Health = s.policy.MaxHealth
		p.Power += s.policy.PowerIncrement
		res.Healed = true
		res.PowerGained = s.policy.PowerIncrement
	}
	if earned := s.policy.LevelFor(p.MonstersKilled); earned > p.Level {
		p.Level = earned
		res.LevelChanged = true
	}
	res.Level = p.Level

	if err := s.players.Update(ctx, p); err != nil {
		return nil, err
	}

	metrics.CombatEventsTotal.WithLabelValues("kill_monster").Inc()
	s.record(playerID, "kill_monster", map[string]any{
		"monsters_killed": p.MonstersKilled,
		"level_changed":   res.LevelChanged,
	})
	if s.progression != nil {
		s.progression.MonsterKilled(ctx, playerID, res.LevelChanged)
	}
	s.notify(playerID, "monster_kill", res)
	return res, nil
}

// SelfEliminate increments the self-elimination counter and credits the
// fixed reward. The credit lands first; if the counter update fails the
// credit is removed again.
func (s *Service) SelfEliminate(ctx context.Context, playerID string) (*SelfElimResult, error) {
	ctx, span := traces.StartSpan(ctx, "combat.SelfEliminate", traces.PlayerID(playerID))
	defer span.End()

	unlock := s.locks.Lock(playerID)
	defer unlock()

	p, err := s.players.Get(ctx, playerID)
	if err != nil {
		return nil, err
	}

	reward := coin.Format(s.policy.SelfElimReward)
	if err := s.bank.Add(ctx, playerID, reward, ledger.TypeSelfElim, ""); err != nil {
		return nil, err
	}

	p.SelfEliminations++
	if err := s.players.Update(ctx, p); err != nil {
		s.compensate(ctx, func() error {
			return s.bank.Remove(ctx, playerID, reward, ledger.TypeSelfElim, "")
		})
		return nil, err
	}

	metrics.CombatEventsTotal.WithLabelValues("self_eliminate").Inc()
	s.record(playerID, "self_eliminate", map[string]any{"reward": reward})
	res := &SelfElimResult{
		PlayerID:         p.ID,
		SelfEliminations: p.SelfEliminations,
		Reward:           reward,
	}
	s.notify(playerID, "self_eliminate", res)
	return res, nil
}

// Die increments the death counter, burns the configured fraction of
// the player's balance, and restores full health.
func (s *Service) Die(ctx context.Context, playerID string) (*DeathResult, error) {
	ctx, span := traces.StartSpan(ctx, "combat.Die", traces.PlayerID(playerID))
	defer span.End()

	unlock := s.locks.Lock(playerID)
	defer unlock()

	p, err := s.players.Get(ctx, playerID)
	if err != nil {
		return nil, err
	}

	penalty, err := s.bank.RemovePercent(ctx, playerID, s.policy.DeathPenaltyFrac, ledger.TypeDeathPenalty, "")
	if err != nil {
		return nil, err
	}

	p.Deaths++
	p.Health = s.policy.MaxHealth
	if err := s.players.Update(ctx, p); err != nil {
		s.compensate(ctx, func() error {
			return s.bank.Add(ctx, playerID, penalty, ledger.TypeDeathPenalty, "")
		})
		return nil, err
	}

	metrics.CombatEventsTotal.WithLabelValues("die").Inc()
	s.record(playerID, "die", map[string]any{"penalty": penalty})
	res := &DeathResult{
		PlayerID: p.ID,
		Deaths:   p.Deaths,
		Penalty:  penalty,
		Health:   p.Health,
	}
	s.notify(playerID, "death", res)
	return res, nil
}

// KillPlayer resolves a player-versus-player kill: the configured
// fraction of the victim's balance moves to the attacker, the victim's
// health is restored, and both counters advance. Returns the literal
// transferred amount.
func (s *Service) KillPlayer(ctx context.Context, attackerID, victimID string) (*PlayerKillResult, error) {
	ctx, span := traces.StartSpan(ctx, "combat.KillPlayer",
		traces.PlayerID(attackerID), traces.VictimID(victimID))
	defer span.End()

	if attackerID == victimID {
		return nil, ErrSamePlayer
	}

	unlock := s.locks.LockPair(attackerID, victimID)
	defer unlock()

	attacker, err := s.players.Get(ctx, attackerID)
	if err != nil {
		return nil, err
	}
	victim, err := s.players.Get(ctx, victimID)
	if err != nil {
		return nil, err
	}

	transferred, err := s.bank.TransferPercent(ctx, victimID, attackerID, s.policy.KillTransferFrac, ledger.TypeKillTransfer, attackerID)
	if err != nil {
		return nil, err
	}

	attacker.PlayerKills++
	victim.Deaths++
	victim.Health = s.policy.MaxHealth

	refund := func() error {
		return s.bank.Transfer(ctx, attackerID, victimID, transferred, ledger.TypeKillTransfer, "rollback")
	}
	if err := s.players.Update(ctx, attacker); err != nil {
		s.compensate(ctx, refund)
		return nil, err
	}
	if err := s.players.Update(ctx, victim); err != nil {
		attacker.PlayerKills--
		if uErr := s.players.Update(ctx, attacker); uErr != nil {
			logging.FromContext(ctx).Error("attacker rollback failed",
				"attacker_id", attackerID, "error", uErr)
		}
		s.compensate(ctx, refund)
		return nil, err
	}

	metrics.CombatEventsTotal.WithLabelValues("kill_player").Inc()
	if s.progression != nil {
		s.progression.PlayerKilled(ctx, attackerID)
	}
	s.record(attackerID, "kill_player", map[string]any{
		"victim_id":   victimID,
		"transferred": transferred,
	})
	res := &PlayerKillResult{
		AttackerID:  attackerID,
		VictimID:    victimID,
		Transferred: transferred,
		PlayerKills: attacker.PlayerKills,
	}
	s.notify(attackerID, "player_kill", res)
	return res, nil
}

func (s *Service) compensate(ctx context.Context, fn func() error) {
	if err := fn(); err != nil {
		logging.FromContext(ctx).Error("combat compensation failed", "error", err)
	}
}

func (s *Service) record(playerID, actionType string, metadata map[string]any) {
	if s.recorder == nil {
		return
	}
	s.recorder.RecordAction(playerID, actionType, metadata)
}

func (s *Service) notify(playerID, kind string, detail any) {
	if s.notifier == nil {
		return
	}
	s.notifier.NotifyCombat(playerID, kind, detail)
}
