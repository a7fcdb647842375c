package history

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/zjy-dev/vcov/internal/reward"
)

// Record is one stored reward evaluation.
type Record struct {
	ID             string    `json:"id" yaml:"id"`
	BeforePath     string    `json:"before_path" yaml:"before_path"`
	AfterPath      string    `json:"after_path" yaml:"after_path"`
	CoverageBefore float64   `json:"coverage_before" yaml:"coverage_before"`
	CoverageAfter  float64   `json:"coverage_after" yaml:"coverage_after"`
	CoverageDelta  float64   `json:"coverage_delta" yaml:"coverage_delta"`
	PointsDelta    int       `json:"points_delta" yaml:"points_delta"`
	NewLines       int       `json:"new_lines" yaml:"new_lines"`
	Reward         float64   `json:"reward" yaml:"reward"`
	CreatedAt      time.Time `json:"created_at" yaml:"created_at"`
}

// NewRecord builds a record from an evaluation result with a fresh ID.
func NewRecord(beforePath, afterPath string, res *reward.Result) *Record {
	return &Record{
		ID:             "eval-" + uuid.New().String()[:8],
		BeforePath:     beforePath,
		AfterPath:      afterPath,
		CoverageBefore: res.Delta.CoverageBefore,
		CoverageAfter:  res.Delta.CoverageAfter,
		CoverageDelta:  res.Delta.CoverageDelta,
		PointsDelta:    res.Delta.PointsDelta,
		NewLines:       len(res.Delta.NewCoveredLines),
		Reward:         res.Reward,
		CreatedAt:      time.Now().UTC(),
	}
}

// Direction indicates whether coverage is improving, declining, or stable.
type Direction string

const (
	DirectionUp     Direction = "up"
	DirectionDown   Direction = "down"
	DirectionStable Direction = "stable"
)

// stableBand is the coverage change, in percentage points, still considered stable.
const stableBand = 0.5

// Trend summarizes the coverage movement over the most recent records.
type Trend struct {
	Direction Direction `json:"direction" yaml:"direction"`
	Delta     float64   `json:"delta" yaml:"delta"`
	Window    int       `json:"window" yaml:"window"`
}

// CalculateTrend derives the trend from records ordered newest first.
// It compares the newest "after" coverage with the oldest one in the window.
func CalculateTrend(records []*Record) Trend {
	t := Trend{Direction: DirectionStable, Window: len(records)}
	if len(records) == 0 {
		return t
	}
	newest := records[0]
	oldest := records[len(records)-1]
	if len(records) == 1 {
		t.Delta = newest.CoverageDelta
	} else {
		t.Delta = newest.CoverageAfter - oldest.CoverageAfter
	}

	switch {
	case t.Delta > stableBand:
		t.Direction = DirectionUp
	case t.Delta < -stableBand:
		t.Direction = DirectionDown
	}
	return t
}

// Store persists reward evaluations.
type Store interface {
	// Record stores a new evaluation.
	Record(ctx context.Context, r *Record) error

	// List returns up to limit records, newest first. limit <= 0 uses a default.
	List(ctx context.Context, limit int) ([]*Record, error)

	// Trend computes the trend over the last window records.
	Trend(ctx context.Context, window int) (Trend, error)

	Close() error
}
