package app

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zjy-dev/vcov/internal/state"
)

const beforeDat = "# SystemC::Coverage-3\n" +
	"C '\x01f\x02alu.v\x01l\x0217\x01n\x0231\x01t\x02line\x01h\x02TOP.alu' 4\n" +
	"C '\x01f\x02alu.v\x01l\x0218\x01n\x0231\x01t\x02line\x01h\x02TOP.alu' 0\n" +
	"C '\x01f\x02alu.v\x01l\x0220\x01n\x025\x01t\x02toggle\x01o\x02y[0]:0->1\x01h\x02TOP.alu' 0\n" +
	"C '\x01f\x02alu.v\x01l\x0222\x01n\x025\x01t\x02branch\x01h\x02TOP.alu' 0\n"

const afterDat = "# SystemC::Coverage-3\n" +
	"C '\x01f\x02alu.v\x01l\x0217\x01n\x0231\x01t\x02line\x01h\x02TOP.alu' 4\n" +
	"C '\x01f\x02alu.v\x01l\x0218\x01n\x0231\x01t\x02line\x01h\x02TOP.alu' 2\n" +
	"C '\x01f\x02alu.v\x01l\x0220\x01n\x025\x01t\x02toggle\x01o\x02y[0]:0->1\x01h\x02TOP.alu' 1\n" +
	"C '\x01f\x02alu.v\x01l\x0222\x01n\x025\x01t\x02branch\x01h\x02TOP.alu' 0\n"

// workspace moves the test into an empty directory holding the two
// coverage files, so config defaults apply and state lands in the temp dir.
func workspace(t *testing.T) (before, after string) {
	t.Helper()
	dir := t.TempDir()
	oldWd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(oldWd) })
	before = filepath.Join(dir, "before.dat")
	after = filepath.Join(dir, "after.dat")
	require.NoError(t, os.WriteFile(before, []byte(beforeDat), 0644))
	require.NoError(t, os.WriteFile(after, []byte(afterDat), 0644))
	return before, after
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewVcovCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append(args, "--no-color", "--log-level", "error"))
	err := cmd.Execute()
	return out.String(), err
}

func TestSummaryCommand(t *testing.T) {
	_, after := workspace(t)

	out, err := run(t, "summary", after)
	require.NoError(t, err)
	assert.Contains(t, out, "Coverage: 75.00% (3/4 points)")
	assert.Contains(t, out, "Coverage holes: 1")
}

func TestSummaryCommand_MissingFileIsEmpty(t *testing.T) {
	workspace(t)

	out, err := run(t, "summary", "nope.dat")
	require.NoError(t, err)
	assert.Contains(t, out, "Coverage: 0.00% (0/0 points)")
}

func TestSummaryCommand_BadFormat(t *testing.T) {
	_, after := workspace(t)

	_, err := run(t, "summary", "--format", "xml", after)
	assert.Error(t, err)
}

func TestHolesCommand(t *testing.T) {
	before, _ := workspace(t)

	out, err := run(t, "holes", "--format", "json", before)
	require.NoError(t, err)

	var holes []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &holes))
	require.Len(t, holes, 3)
	assert.Equal(t, "alu.v", holes[0]["file"])
	assert.Equal(t, 18.0, holes[0]["line"])
	assert.Equal(t, "line", holes[0]["type"])

	out, err = run(t, "holes", "--type", "branch", "--format", "json", before)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &holes))
	require.Len(t, holes, 1)
	assert.Equal(t, 22.0, holes[0]["line"])

	out, err = run(t, "holes", "--file", "alu.v", "--type", "toggle", before)
	require.NoError(t, err)
	assert.Contains(t, out, "Showing 1 of 1 holes")

	out, err = run(t, "holes", "--file", "alu.v", "--type", "nosuch", "--format", "json", before)
	require.NoError(t, err)
	assert.Equal(t, "[]", strings.TrimSpace(out), "empty filter result is still a JSON array")

	out, err = run(t, "holes", "--file", "other.v", before)
	require.NoError(t, err)
	assert.Contains(t, out, "No coverage holes")
}

func TestDeltaCommand(t *testing.T) {
	before, after := workspace(t)

	out, err := run(t, "delta", "--format", "json", before, after)
	require.NoError(t, err)

	var res struct {
		Delta struct {
			CoverageDelta   float64          `json:"coverage_delta"`
			PointsDelta     int              `json:"points_delta"`
			NewCoveredLines []map[string]any `json:"new_covered_lines"`
		} `json:"delta"`
		Reward float64 `json:"reward"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.InDelta(t, 50.0, res.Delta.CoverageDelta, 1e-9)
	assert.Equal(t, 2, res.Delta.PointsDelta)
	assert.Len(t, res.Delta.NewCoveredLines, 2)
	assert.InDelta(t, 100.0, res.Reward, 1e-9)

	_, err = os.Stat(filepath.Join("vcov_state", state.StateFileName))
	assert.True(t, os.IsNotExist(err), "no state without --record")
}

func TestDeltaCommand_FlagsOverrideParams(t *testing.T) {
	before, after := workspace(t)

	out, err := run(t, "delta", "--alpha", "0.5", "--bonus-threshold", "60", before, after)
	require.NoError(t, err)
	assert.Contains(t, out, "Reward: +25.0000")

	out, err = run(t, "delta", "--penalty", "-1", after, before)
	require.NoError(t, err)
	assert.Contains(t, out, "Reward: -1.0000")
}

func TestDeltaCommand_RecordAndHistory(t *testing.T) {
	before, after := workspace(t)

	_, err := run(t, "delta", "--record", before, after)
	require.NoError(t, err)
	_, err = run(t, "delta", "--record", after, after)
	require.NoError(t, err)

	sm := state.NewFileManager("vcov_state")
	require.NoError(t, sm.Load())
	st := sm.GetState()
	assert.Equal(t, uint64(2), st.Evaluations)
	assert.Equal(t, uint64(1), st.Improvements)
	assert.InDelta(t, 75.0, st.BestCoverage, 1e-9)

	out, err := run(t, "history", "--format", "json")
	require.NoError(t, err)

	var h struct {
		Records []struct {
			CoverageDelta float64 `json:"coverage_delta"`
		} `json:"records"`
		Trend struct {
			Window int `json:"window"`
		} `json:"trend"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &h))
	require.Len(t, h.Records, 2)
	assert.Equal(t, 0.0, h.Records[0].CoverageDelta, "newest first")
	assert.Equal(t, 2, h.Trend.Window)
}

func TestDeltaCommand_RecordFailureLeavesStateUntouched(t *testing.T) {
	before, after := workspace(t)
	require.NoError(t, os.WriteFile("blocker", []byte("not a directory"), 0644))
	t.Setenv("VCOV_CONFIG_HISTORY_DB", filepath.Join("blocker", "history.db"))

	_, err := run(t, "delta", "--record", before, after)
	require.Error(t, err)

	sm := state.NewFileManager("vcov_state")
	require.NoError(t, sm.Load())
	assert.Equal(t, uint64(0), sm.GetState().Evaluations)
	assert.Equal(t, 0.0, sm.GetState().TotalReward)

	_, err = os.Stat(filepath.Join("vcov_state", state.StateFileName))
	assert.True(t, os.IsNotExist(err), "state file is not written when the ledger insert fails")
}

func TestRewardCommand(t *testing.T) {
	workspace(t)

	tests := []struct {
		delta string
		want  string
	}{
		{"6", "Reward: +12.0000"},
		{"3", "Reward: +3.0000"},
		{"0", "Reward: -0.0100"},
	}
	for _, tt := range tests {
		t.Run(tt.delta, func(t *testing.T) {
			out, err := run(t, "reward", "--delta", tt.delta)
			require.NoError(t, err)
			assert.Contains(t, out, tt.want)
		})
	}

	_, err := run(t, "reward")
	assert.Error(t, err, "--delta is required")
}

func TestContextCommand(t *testing.T) {
	workspace(t)
	require.NoError(t, os.WriteFile("alu.v", []byte("module alu;\n  wire a;\n  wire b;\nendmodule\n"), 0644))

	out, err := run(t, "context", "alu.v", "--lines", "2", "--radius", "0")
	require.NoError(t, err)
	assert.Contains(t, out, "2:   wire a;")
	assert.NotContains(t, out, "module alu")

	_, err = run(t, "context", "alu.v", "--lines", "2", "--radius", "-1")
	assert.Error(t, err)
}

func TestReportCommand(t *testing.T) {
	before, _ := workspace(t)

	out, err := run(t, "report", "--out", "reports", before)
	require.NoError(t, err)

	path := strings.TrimSpace(out)
	assert.True(t, strings.HasPrefix(filepath.Base(path), "holes_before_"))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "## Coverage Holes (3)")
}
