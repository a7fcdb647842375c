package report

import "github.com/zjy-dev/vcov/internal/coverage"

// Reporter defines the interface for saving coverage hole reports.
type Reporter interface {
	// Save writes a report for the named coverage input and returns its path.
	Save(name string, r *coverage.Report) (string, error)
}
