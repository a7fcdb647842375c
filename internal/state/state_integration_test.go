//go:build integration

package state

import (
	"encoding/json"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestFileManager_Integration_ConcurrentRecord records from many goroutines and
// checks the persisted totals.
func TestFileManager_Integration_ConcurrentRecord(t *testing.T) {
	tempDir := t.TempDir()

	manager := NewFileManager(tempDir)
	require.NoError(t, manager.Load())

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			manager.Record(Evaluation{
				AfterPath:     "run.dat",
				CoverageAfter: float64(i),
				CoverageDelta: 1,
				Reward:        1,
			})
		}(i)
	}
	wg.Wait()
	require.NoError(t, manager.Save())

	data, err := os.ReadFile(manager.GetFilePath())
	require.NoError(t, err)

	var saved LoopState
	require.NoError(t, json.Unmarshal(data, &saved))
	assert.Equal(t, uint64(50), saved.Evaluations)
	assert.Equal(t, uint64(50), saved.Improvements)
	assert.Equal(t, 49.0, saved.BestCoverage)
	assert.Equal(t, 50.0, saved.TotalReward)

	reloaded := NewFileManager(tempDir)
	require.NoError(t, reloaded.Load())
	assert.Equal(t, saved.Evaluations, reloaded.GetState().Evaluations)
}
