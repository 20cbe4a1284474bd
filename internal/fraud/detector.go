package fraud

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/dooflabs/dooficoin/internal/idgen"
	"github.com/dooflabs/dooficoin/internal/metrics"
)

// Notifier receives alerts as they are raised, e.g. a realtime hub.
type Notifier interface {
	NotifyFraudAlert(a *FraudAlert)
}

// Detector keeps the per-player action windows and runs the rules.
// RecordAction is safe for concurrent use and never returns an error:
// scoring failures degrade to "no alert".
type Detector struct {
	mu       sync.Mutex
	windows  map[string][]Action
	lastWarn map[string]time.Time

	rules    []Rule
	store    AlertStore
	notifier Notifier
	logger   *slog.Logger
	cfg      Config
	now      func() time.Time
}

// NewDetector creates a detector with the given rules and alert store.
func NewDetector(store AlertStore, rules []Rule, cfg Config) *Detector {
	if cfg.WindowSize <= 0 {
		cfg = DefaultConfig()
	}
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	return &Detector{
		windows:  make(map[string][]Action),
		lastWarn: make(map[string]time.Time),
		rules:    rules,
		store:    store,
		logger:   slog.Default(),
		cfg:      cfg,
		now:      time.Now,
	}
}

// WithNotifier wires alert broadcasting.
func (d *Detector) WithNotifier(n Notifier) *Detector {
	d.notifier = n
	return d
}

// WithClock overrides the clock (for testing).
func (d *Detector) WithClock(now func() time.Time) *Detector {
	d.now = now
	return d
}

// RecordAction appends one action to the player's window and scores it.
// The append is synchronous but cheap; alert persistence is async and
// best-effort so the calling transaction is never blocked or failed.
func (d *Detector) RecordAction(playerID, actionType string, metadata map[string]any) {
	now := d.now()

	d.mu.Lock()
	window := d.append(playerID, Action{
		PlayerID:  playerID,
		Type:      actionType,
		Metadata:  metadata,
		Timestamp: now,
	})
	score, hits := d.evaluate(window, now)

	shouldAlert := score >= d.cfg.AlertThreshold &&
		now.Sub(d.lastWarn[playerID]) >= d.cfg.AlertCooldown
	if shouldAlert {
		d.lastWarn[playerID] = now
	}
	d.mu.Unlock()

	metrics.FraudActionsRecorded.Inc()
	if !shouldAlert {
		return
	}

	alert := &FraudAlert{
		ID:        idgen.WithPrefix("fra_"),
		PlayerID:  playerID,
		Score:     score,
		Status:    StatusOpen,
		CreatedAt: now,
	}
	var reasons []string
	for _, h := range hits {
		alert.Rules = append(alert.Rules, h.Rule)
		if h.Reason != "" {
			reasons = append(reasons, h.Reason)
		}
	}
	alert.Detail = strings.Join(reasons, "; ")

	for _, rule := range alert.Rules {
		metrics.FraudAlertsTotal.WithLabelValues(rule).Inc()
	}
	d.logger.Warn("fraud alert raised",
		"player_id", playerID, "score", score, "rules", alert.Rules)

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := d.store.Insert(ctx, alert); err != nil {
			d.logger.Error("fraud alert persistence failed",
				"player_id", playerID, "error", err)
		}
	}()
	if d.notifier != nil {
		d.notifier.NotifyFraudAlert(alert)
	}
}

// Score evaluates the player's current window without recording
// anything.
func (d *Detector) Score(playerID string) *Assessment {
	now := d.now()

	d.mu.Lock()
	window := d.prune(playerID, now)
	score, hits := d.evaluate(window, now)
	d.mu.Unlock()

	return &Assessment{PlayerID: playerID, Score: score, Hits: hits, At: now}
}

// Window returns a copy of the player's current action window.
func (d *Detector) Window(playerID string) []Action {
	d.mu.Lock()
	defer d.mu.Unlock()
	window := d.prune(playerID, d.now())
	out := make([]Action, len(window))
	copy(out, window)
	return out
}

// append adds an action and prunes the window. Caller holds d.mu.
func (d *Detector) append(playerID string, a Action) []Action {
	window := append(d.windows[playerID], a)
	window = pruneWindow(window, a.Timestamp.Add(-d.cfg.WindowDuration), d.cfg.WindowSize)
	d.windows[playerID] = window
	return window
}

// prune drops expired actions. Caller holds d.mu.
func (d *Detector) prune(playerID string, now time.Time) []Action {
	window := pruneWindow(d.windows[playerID], now.Add(-d.cfg.WindowDuration), d.cfg.WindowSize)
	if len(window) == 0 {
		delete(d.windows, playerID)
	} else {
		d.windows[playerID] = window
	}
	return window
}

func (d *Detector) evaluate(window []Action, now time.Time) (float64, []RuleHit) {
	var total float64
	var hits []RuleHit
	for _, rule := range d.rules {
		score, reason := rule.Evaluate(window, now)
		if score > 0 {
			total += score
			hits = append(hits, RuleHit{Rule: rule.Name(), Score: score, Reason: reason})
		}
	}
	return total, hits
}

// Alerts lists persisted alerts, optionally filtered by player and
// status.
func (d *Detector) Alerts(ctx context.Context, playerID, status string, limit int) ([]*FraudAlert, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return d.store.List(ctx, playerID, status, limit)
}

// Alert returns one alert by id.
func (d *Detector) Alert(ctx context.Context, id string) (*FraudAlert, error) {
	return d.store.Get(ctx, id)
}

// Review closes an open alert, recording who reviewed it and what was
// done. Reviewing an already-reviewed alert fails.
func (d *Detector) Review(ctx context.Context, id, reviewedBy, actionTaken string) (*FraudAlert, error) {
	alert, err := d.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if alert.Status == StatusReviewed {
		return nil, ErrAlreadyReviewed
	}

	now := d.now()
	alert.Status = StatusReviewed
	alert.ReviewedBy = reviewedBy
	alert.ReviewedAt = &now
	alert.ActionTaken = actionTaken
	if err := d.store.Update(ctx, alert); err != nil {
		return nil, err
	}
	return alert, nil
}

func pruneWindow(window []Action, cutoff time.Time, maxSize int) []Action {
	start := 0
	for start < len(window) && window[start].Timestamp.Before(cutoff) {
		start++
	}
	if over := len(window) - start - maxSize; over > 0 {
		start += over
	}
	if start == 0 {
		return window
	}
	return append(window[:0:0], window[start:]...)
}
