package history

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zjy-dev/vcov/internal/reward"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "state", "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func record(id string, after, delta float64, at time.Time) *Record {
	return &Record{ID: id, AfterPath: id + ".dat", CoverageAfter: after, CoverageDelta: delta, Reward: delta, CreatedAt: at}
}

func TestSQLiteStore_RecordAndList(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, s.Record(ctx, record("a", 40, 40, base)))
	require.NoError(t, s.Record(ctx, record("b", 45, 5, base.Add(time.Minute))))
	require.NoError(t, s.Record(ctx, record("c", 44, -1, base.Add(2*time.Minute))))

	all, err := s.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "c", all[0].ID, "newest first")
	assert.Equal(t, "a", all[2].ID)
	assert.True(t, all[1].CreatedAt.Equal(base.Add(time.Minute)))
	assert.Equal(t, "b.dat", all[1].AfterPath)

	limited, err := s.List(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestSQLiteStore_DuplicateID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	r := record("dup", 1, 1, time.Now())

	require.NoError(t, s.Record(ctx, r))
	assert.Error(t, s.Record(ctx, r))
}

func TestSQLiteStore_Trend(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	base := time.Now().UTC()

	trend, err := s.Trend(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, DirectionStable, trend.Direction)
	assert.Equal(t, 0, trend.Window)

	require.NoError(t, s.Record(ctx, record("a", 40, 40, base)))
	require.NoError(t, s.Record(ctx, record("b", 42, 2, base.Add(time.Second))))
	require.NoError(t, s.Record(ctx, record("c", 50, 8, base.Add(2*time.Second))))

	trend, err = s.Trend(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, DirectionUp, trend.Direction)
	assert.InDelta(t, 8.0, trend.Delta, 1e-9)
	assert.Equal(t, 2, trend.Window)
}

func TestSQLiteStore_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	s, err := NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, s.Record(context.Background(), record("keep", 10, 10, time.Now())))
	require.NoError(t, s.Close())

	s, err = NewSQLiteStore(path)
	require.NoError(t, err)
	defer s.Close()
	got, err := s.List(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "keep", got[0].ID)
}

func TestCalculateTrend(t *testing.T) {
	tests := []struct {
		name    string
		records []*Record
		want    Direction
	}{
		{"empty", nil, DirectionStable},
		{"single improvement", []*Record{{CoverageDelta: 3}}, DirectionUp},
		{"single tiny change", []*Record{{CoverageDelta: 0.2}}, DirectionStable},
		{"declining", []*Record{{CoverageAfter: 30}, {CoverageAfter: 40}}, DirectionDown},
		{"within band", []*Record{{CoverageAfter: 40.4}, {CoverageAfter: 40}}, DirectionStable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CalculateTrend(tt.records).Direction)
		})
	}
}

func TestNewRecord(t *testing.T) {
	res := &reward.Result{
		Delta: &reward.Delta{
			CoverageBefore:  50,
			CoverageAfter:   100,
			CoverageDelta:   50,
			PointsDelta:     2,
			NewCoveredLines: []reward.Location{{File: "alu.v", Line: 18}},
		},
		Reward: 100,
	}
	r := NewRecord("before.dat", "after.dat", res)

	assert.True(t, strings.HasPrefix(r.ID, "eval-"))
	assert.Len(t, r.ID, len("eval-")+8)
	assert.Equal(t, 1, r.NewLines)
	assert.Equal(t, 100.0, r.Reward)
	assert.False(t, r.CreatedAt.IsZero())
}
