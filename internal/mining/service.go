package mining

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dooflabs/dooficoin/internal/coin"
	"github.com/dooflabs/dooficoin/internal/idgen"
	"github.com/dooflabs/dooficoin/internal/ledger"
	"github.com/dooflabs/dooficoin/internal/logging"
	"github.com/dooflabs/dooficoin/internal/metrics"
	"github.com/dooflabs/dooficoin/internal/syncutil"
	"github.com/dooflabs/dooficoin/internal/traces"
)

// Crediter mints mined coin into a player's balance.
type Crediter interface {
	Add(ctx context.Context, playerID, amount, entryType, reference string) error
	Remove(ctx context.Context, playerID, amount, entryType, reference string) error
}

// PlayerMarker flips the mining flag on the player aggregate.
type PlayerMarker interface {
	SetMining(ctx context.Context, playerID string, mining bool) error
}

// ActionRecorder feeds mining activity into risk scoring. Recording is
// best-effort and never blocks the mining path.
type ActionRecorder interface {
	RecordAction(playerID, actionType string, metadata map[string]any)
}

// Notifier receives emitted rewards, e.g. a realtime hub. Best-effort.
type Notifier interface {
	NotifyMiningReward(r *Reward)
}

// PollResult reports what a single poll observed.
type PollResult struct {
	Session *Session `json:"session"`
	Reward  *Reward  `json:"reward,omitempty"`
}

// Service runs the per-player mining state machine.
type Service struct {
	store    Store
	coins    Crediter
	players  PlayerMarker
	recorder ActionRecorder
	notifier Notifier
	cfg      Config
	locks    syncutil.ShardedMutex
	now      func() time.Time
}

// NewService creates a mining service with the given accrual policy.
func NewService(store Store, coins Crediter, cfg Config) *Service {
	if cfg.TickInterval <= 0 {
		cfg = DefaultConfig()
	}
	if cfg.RateGrowth.IsZero() {
		cfg.RateGrowth = decimal.NewFromInt(1)
	}
	return &Service{
		store: store,
		coins: coins,
		cfg:   cfg,
		now:   time.Now,
	}
}

// WithPlayerMarker wires the player aggregate's mining flag.
func (s *Service) WithPlayerMarker(pm PlayerMarker) *Service {
	s.players = pm
	return s
}

// WithRecorder wires risk-action recording.
func (s *Service) WithRecorder(r ActionRecorder) *Service {
	s.recorder = r
	return s
}

// WithNotifier wires reward broadcasting.
func (s *Service) WithNotifier(n Notifier) *Service {
	s.notifier = n
	return s
}

// WithClock overrides the clock (for testing).
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Start opens a mining session for the player. The first reward becomes
// due one full tick interval after the start; nothing is credited up
// front. Returns ErrSessionActive if a session is already open.
func (s *Service) Start(ctx context.Context, playerID string) (*Session, error) {
	ctx, span := traces.StartSpan(ctx, "mining.Start", traces.PlayerID(playerID))
	defer span.End()

	unlock := s.locks.Lock(playerID)
	defer unlock()

	if _, err := s.store.ActiveSession(ctx, playerID); err == nil {
		return nil, ErrSessionActive
	} else if err != ErrNoActiveSession {
		return nil, err
	}

	now := s.now()
	sess := &Session{
		ID:             idgen.WithPrefix("min_"),
		PlayerID:       playerID,
		StartTime:      now,
		NextRewardTime: now.Add(s.cfg.TickInterval),
		CurrentRate:    coin.Format(s.cfg.BaseRate),
		TotalMined:     "0",
		Active:         true,
	}
	if err := s.store.CreateSession(ctx, sess); err != nil {
		return nil, err
	}
	s.markMining(ctx, playerID, true)
	s.record(playerID, "mining_start", map[string]any{"session_id": sess.ID})

	metrics.ActiveMiningSessions.Inc()
	logging.FromContext(ctx).Info("mining session started",
		"player_id", playerID, "session_id", sess.ID)
	return sess, nil
}

// Poll checks the player's active session for due rewards and credits
// them. Polling before the next reward time is a successful no-op, so
// clients can poll as often as they like without double-crediting.
func (s *Service) Poll(ctx context.Context, playerID string) (*PollResult, error) {
	ctx, span := traces.StartSpan(ctx, "mining.Poll", traces.PlayerID(playerID))
	defer span.End()

	unlock := s.locks.Lock(playerID)
	defer unlock()

	sess, err := s.store.ActiveSession(ctx, playerID)
	if err != nil {
		return nil, err
	}
	reward, err := s.settle(ctx, sess)
	if err != nil {
		return nil, err
	}
	return &PollResult{Session: sess, Reward: reward}, nil
}

// Stop settles any due reward, closes the session, and folds it into the
// player's lifetime statistics.
func (s *Service) Stop(ctx context.Context, playerID string) (*Session, error) {
	ctx, span := traces.StartSpan(ctx, "mining.Stop", traces.PlayerID(playerID))
	defer span.End()

	unlock := s.locks.Lock(playerID)
	defer unlock()

	sess, err := s.store.ActiveSession(ctx, playerID)
	if err != nil {
		return nil, err
	}
	if _, err := s.settle(ctx, sess); err != nil {
		return nil, err
	}

	now := s.now()
	sess.Active = false
	sess.EndTime = &now
	if err := s.store.CloseSession(ctx, sess); err != nil {
		return nil, err
	}
	s.markMining(ctx, playerID, false)
	s.updateStats(ctx, sess, now)
	s.record(playerID, "mining_stop", map[string]any{
		"session_id":  sess.ID,
		"total_mined": sess.TotalMined,
	})

	metrics.ActiveMiningSessions.Dec()
	logging.FromContext(ctx).Info("mining session stopped",
		"player_id", playerID, "session_id", sess.ID, "total_mined", sess.TotalMined)
	return sess, nil
}

// Session returns the player's active session without settling rewards.
func (s *Service) Session(ctx context.Context, playerID string) (*Session, error) {
	return s.store.ActiveSession(ctx, playerID)
}

// History returns the player's most recent sessions, newest first.
func (s *Service) History(ctx context.Context, playerID string, limit int) ([]*Session, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.store.Sessions(ctx, playerID, limit)
}

// Rewards returns the player's most recent accrual events, newest first.
func (s *Service) Rewards(ctx context.Context, playerID string, limit int) ([]*Reward, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.store.Rewards(ctx, playerID, limit)
}

// Stats returns the player's lifetime mining statistics.
func (s *Service) Stats(ctx context.Context, playerID string) (*Statistics, error) {
	stats, err := s.store.Stats(ctx, playerID)
	if err != nil {
		return nil, err
	}
	if stats == nil {
		stats = &Statistics{PlayerID: playerID, TotalMinedLifetime: "0"}
	}
	return stats, nil
}

// TopMiners returns the leaderboard by lifetime mined amount.
func (s *Service) TopMiners(ctx context.Context, limit int) ([]*Statistics, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	return s.store.TopMiners(ctx, limit)
}

// settle credits every due tick on the session. The ledger credit lands
// first; if persisting the advanced session fails afterwards, the credit
// is compensated with a matching removal so balances never diverge from
// the reward history. Caller must hold the player lock.
func (s *Service) settle(ctx context.Context, sess *Session) (*Reward, error) {
	now := s.now()
	if now.Before(sess.NextRewardTime) {
		return nil, nil
	}

	rate := coin.MustParse(sess.CurrentRate)
	total := coin.MustParse(sess.TotalMined)

	ticks := 1
	if s.cfg.CatchUpAll {
		elapsed := now.Sub(sess.NextRewardTime)
		ticks += int(elapsed / s.cfg.TickInterval)
	}

	amount := decimal.Zero
	for i := 0; i < ticks; i++ {
		amount = amount.Add(rate)
		rate = rate.Mul(s.cfg.RateGrowth)
	}

	reward := &Reward{
		ID:        idgen.WithPrefix("rwd_"),
		SessionID: sess.ID,
		PlayerID:  sess.PlayerID,
		Amount:    coin.Format(amount),
		Timestamp: now,
	}
	if err := s.coins.Add(ctx, sess.PlayerID, reward.Amount, ledger.TypeMiningReward, sess.ID); err != nil {
		return nil, err
	}

	sess.NextRewardTime = sess.NextRewardTime.Add(time.Duration(ticks) * s.cfg.TickInterval)
	sess.CurrentRate = coin.Format(rate)
	sess.TotalMined = coin.Format(total.Add(amount))

	if err := s.store.CompleteTick(ctx, sess, reward); err != nil {
		if rbErr := s.coins.Remove(ctx, sess.PlayerID, reward.Amount, ledger.TypeMiningReward, sess.ID); rbErr != nil {
			logging.FromContext(ctx).Error("mining credit compensation failed",
				"player_id", sess.PlayerID, "session_id", sess.ID, "error", rbErr)
		}
		return nil, err
	}

	metrics.MiningRewardsTotal.Add(float64(ticks))
	s.record(sess.PlayerID, "mining_reward", map[string]any{
		"session_id": sess.ID,
		"amount":     reward.Amount,
	})
	if s.notifier != nil {
		s.notifier.NotifyMiningReward(reward)
	}
	return reward, nil
}

func (s *Service) updateStats(ctx context.Context, sess *Session, now time.Time) {
	stats, err := s.store.Stats(ctx, sess.PlayerID)
	if err != nil {
		logging.FromContext(ctx).Error("mining stats load failed",
			"player_id", sess.PlayerID, "error", err)
		return
	}
	if stats == nil {
		stats = &Statistics{PlayerID: sess.PlayerID, TotalMinedLifetime: "0"}
	}

	lifetime := coin.MustParse(stats.TotalMinedLifetime).Add(coin.MustParse(sess.TotalMined))
	stats.TotalSessions++
	stats.TotalMinedLifetime = coin.Format(lifetime)
	if secs := int64(now.Sub(sess.StartTime).Seconds()); secs > stats.LongestSessionSecs {
		stats.LongestSessionSecs = secs
	}
	stats.LastSessionAt = &now

	if err := s.store.UpdateStats(ctx, stats); err != nil {
		logging.FromContext(ctx).Error("mining stats update failed",
			"player_id", sess.PlayerID, "error", err)
	}
}

func (s *Service) markMining(ctx context.Context, playerID string, mining bool) {
	if s.players == nil {
		return
	}
	if err := s.players.SetMining(ctx, playerID, mining); err != nil {
		logging.FromContext(ctx).Error("player mining flag update failed",
			"player_id", playerID, "error", err)
	}
}

func (s *Service) record(playerID, actionType string, metadata map[string]any) {
	if s.recorder == nil {
		return
	}
	s.recorder.RecordAction(playerID, actionType, metadata)
}
