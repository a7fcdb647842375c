package reward

import "github.com/zjy-dev/vcov/internal/coverage"

const (
	DefaultAlpha          = 1.0
	DefaultSmallPenalty   = -0.01
	DefaultBonusThreshold = 5.0
)

// Params are the constants of the reward formula.
type Params struct {
	// Alpha scales positive rewards.
	Alpha float64 `json:"alpha" yaml:"alpha"`
	// SmallPenalty is returned when coverage did not improve.
	SmallPenalty float64 `json:"small_penalty" yaml:"small_penalty"`
	// BonusThreshold is the gain, in percentage points, at which the reward doubles.
	BonusThreshold float64 `json:"bonus_threshold" yaml:"bonus_threshold"`
}

// DefaultParams returns alpha=1.0, small_penalty=-0.01, bonus_threshold=5.0.
func DefaultParams() Params {
	return Params{
		Alpha:          DefaultAlpha,
		SmallPenalty:   DefaultSmallPenalty,
		BonusThreshold: DefaultBonusThreshold,
	}
}

// Reward converts a coverage delta in percentage points into a scalar reward:
//
//	delta > 0:  alpha * delta * (1 + bonus), bonus = 1 if delta >= threshold else 0
//	otherwise:  small_penalty
//
// A zero delta is penalized like a regression. The result is not clamped.
func (p Params) Reward(coverageDelta float64) float64 {
	if coverageDelta > 0 {
		bonus := 0.0
		if coverageDelta >= p.BonusThreshold {
			bonus = 1.0
		}
		return p.Alpha * coverageDelta * (1 + bonus)
	}
	return p.SmallPenalty
}

// Result pairs a delta with the reward computed from it.
type Result struct {
	Delta  *Delta  `json:"delta" yaml:"delta"`
	Reward float64 `json:"reward" yaml:"reward"`
	Params Params  `json:"params" yaml:"params"`
}

// Evaluate computes the delta between two reports and its reward.
func Evaluate(before, after *coverage.Report, params Params) (*Result, error) {
	d, err := ComputeDelta(before, after)
	if err != nil {
		return nil, err
	}
	return &Result{
		Delta:  d,
		Reward: params.Reward(d.CoverageDelta),
		Params: params,
	}, nil
}
