package fraud

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dooflabs/dooficoin/internal/coin"
)

// RateRule scores bursts: more than MaxCount actions of the same type
// inside Window contributes Weight per excess action.
type RateRule struct {
	MaxCount int
	Window   time.Duration
	Weight   float64
}

// NewRateRule returns the standard rate rule: more than 5 same-type
// actions in 10 seconds.
func NewRateRule() *RateRule {
	return &RateRule{MaxCount: 5, Window: 10 * time.Second, Weight: 0.25}
}

func (r *RateRule) Name() string { return "rate" }

func (r *RateRule) Evaluate(window []Action, now time.Time) (float64, string) {
	cutoff := now.Add(-r.Window)
	counts := make(map[string]int)
	for _, a := range window {
		if a.Timestamp.Before(cutoff) {
			continue
		}
		counts[a.Type]++
	}

	var score float64
	var worst string
	var worstCount int
	for typ, n := range counts {
		if n > r.MaxCount {
			score += float64(n-r.MaxCount) * r.Weight
			if n > worstCount {
				worst, worstCount = typ, n
			}
		}
	}
	if score == 0 {
		return 0, ""
	}
	return score, fmt.Sprintf("%d %q actions in %s", worstCount, worst, r.Window)
}

// TransitionRule scores implausible sequences: the same action repeated
// faster than a human could perform it, and balance gains with no
// recorded source action nearby.
type TransitionRule struct {
	MinGap time.Duration
	Weight float64
}

// NewTransitionRule returns the standard transition rule: identical
// consecutive actions under 500ms apart are implausible.
func NewTransitionRule() *TransitionRule {
	return &TransitionRule{MinGap: 500 * time.Millisecond, Weight: 0.5}
}

func (r *TransitionRule) Name() string { return "impossible_transition" }

// gainSources are the action types that legitimately precede a balance
// increase.
var gainSources = map[string]bool{
	"mining_reward":  true,
	"kill_player":    true,
	"self_eliminate": true,
	"transfer_in":    true,
	"level_reward":   true,
}

func (r *TransitionRule) Evaluate(window []Action, now time.Time) (float64, string) {
	var score float64
	var reason string

	for i := 1; i < len(window); i++ {
		prev, cur := window[i-1], window[i]
		if cur.Type == prev.Type && cur.Timestamp.Sub(prev.Timestamp) < r.MinGap {
			score += r.Weight
			reason = fmt.Sprintf("repeated %q within %s", cur.Type, r.MinGap)
		}
	}

	for i, a := range window {
		if a.Type != "balance_increase" {
			continue
		}
		sourced := false
		for j := 0; j < i; j++ {
			if gainSources[window[j].Type] {
				sourced = true
				break
			}
		}
		if !sourced {
			score += r.Weight
			reason = "balance increase without a source action"
		}
	}

	return score, reason
}

// MagnitudeRule scores statistical outliers: a transaction amount more
// than Sigmas standard deviations above the window's mean.
type MagnitudeRule struct {
	Sigmas     float64
	MinSamples int
	Weight     float64
}

// NewMagnitudeRule returns the standard magnitude rule: mean + 3 sigma
// over at least 5 prior amounts.
func NewMagnitudeRule() *MagnitudeRule {
	return &MagnitudeRule{Sigmas: 3, MinSamples: 5, Weight: 1.0}
}

func (r *MagnitudeRule) Name() string { return "magnitude" }

func (r *MagnitudeRule) Evaluate(window []Action, now time.Time) (float64, string) {
	amounts := make([]float64, 0, len(window))
	for _, a := range window {
		if amt, ok := actionAmount(a); ok {
			amounts = append(amounts, amt)
		}
	}
	if len(amounts) < r.MinSamples+1 {
		return 0, ""
	}

	latest := amounts[len(amounts)-1]
	history := amounts[:len(amounts)-1]

	var sum float64
	for _, v := range history {
		sum += v
	}
	mean := sum / float64(len(history))

	var variance float64
	for _, v := range history {
		variance += (v - mean) * (v - mean)
	}
	stddev := math.Sqrt(variance / float64(len(history)))

	if latest > mean+r.Sigmas*stddev && latest > mean {
		return r.Weight, fmt.Sprintf("amount %g exceeds mean %g + %.0f sigma", latest, mean, r.Sigmas)
	}
	return 0, ""
}

// actionAmount extracts a numeric amount from action metadata. Amounts
// travel as decimal strings; float64 is fine here because the rule only
// compares magnitudes, it never does ledger arithmetic.
func actionAmount(a Action) (float64, bool) {
	raw, ok := a.Metadata["amount"]
	if !ok {
		return 0, false
	}
	switch v := raw.(type) {
	case string:
		d, ok := coin.Parse(v)
		if !ok {
			return 0, false
		}
		f, _ := d.Float64()
		return f, true
	case float64:
		return v, true
	case int:
		return float64(v), true
	case decimal.Decimal:
		f, _ := v.Float64()
		return f, true
	}
	return 0, false
}

// DefaultRules returns the shipped rule set.
func DefaultRules() []Rule {
	return []Rule{NewRateRule(), NewTransitionRule(), NewMagnitudeRule()}
}
