package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const (
	// StateFileName is the name of the loop state file.
	StateFileName = "loop_state.json"
)

// LoopState is the persistent summary of reward evaluations across runs.
type LoopState struct {
	Evaluations   uint64    `json:"evaluations"`
	Improvements  uint64    `json:"improvements"` // evaluations with a positive coverage delta
	BestCoverage  float64   `json:"best_coverage"`
	BestInput     string    `json:"best_input"` // coverage file that reached BestCoverage
	LastReward    float64   `json:"last_reward"`
	TotalReward   float64   `json:"total_reward"`
	LastEvaluated time.Time `json:"last_evaluated"`
}

// Evaluation is one reward evaluation fed into the state.
type Evaluation struct {
	AfterPath     string
	CoverageAfter float64
	CoverageDelta float64
	Reward        float64
}

// Manager handles the persistence and modification of the loop state.
type Manager interface {
	// Load reads the state from disk.
	Load() error

	// Save writes the state to disk.
	Save() error

	// Record folds an evaluation into the state.
	Record(e Evaluation)

	// GetState returns a copy of the current state.
	GetState() LoopState
}

// FileManager is a file-backed implementation of the Manager interface.
type FileManager struct {
	mu       sync.Mutex
	filePath string
	state    LoopState
	now      func() time.Time
}

// NewFileManager creates a new FileManager for the given directory.
// The state file will be stored at dir/loop_state.json.
func NewFileManager(dir string) *FileManager {
	return &FileManager{
		filePath: filepath.Join(dir, StateFileName),
		now:      time.Now,
	}
}

// Load reads the state from disk.
// If the file doesn't exist, the state starts empty.
func (m *FileManager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, err := os.ReadFile(m.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			m.state = LoopState{}
			return nil
		}
		return fmt.Errorf("failed to read state file %s: %w", m.filePath, err)
	}

	if err := json.Unmarshal(data, &m.state); err != nil {
		return fmt.Errorf("failed to parse state file %s: %w", m.filePath, err)
	}

	return nil
}

// Save writes the state to disk.
func (m *FileManager) Save() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	dir := filepath.Dir(m.filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create state directory %s: %w", dir, err)
	}

	data, err := json.MarshalIndent(m.state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	if err := os.WriteFile(m.filePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write state file %s: %w", m.filePath, err)
	}

	return nil
}

// Record folds an evaluation into the state.
// The best coverage only moves up; the first evaluation always sets it.
func (m *FileManager) Record(e Evaluation) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state.Evaluations == 0 || e.CoverageAfter > m.state.BestCoverage {
		m.state.BestCoverage = e.CoverageAfter
		m.state.BestInput = e.AfterPath
	}
	m.state.Evaluations++
	if e.CoverageDelta > 0 {
		m.state.Improvements++
	}
	m.state.LastReward = e.Reward
	m.state.TotalReward += e.Reward
	m.state.LastEvaluated = m.now()
}

// GetState returns a copy of the current state.
func (m *FileManager) GetState() LoopState {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.state
}

// GetFilePath returns the path to the state file.
func (m *FileManager) GetFilePath() string {
	return m.filePath
}
