package reward

import (
	"errors"
	"sort"

	"github.com/zjy-dev/vcov/internal/coverage"
)

// ErrReportNotBuilt is returned when a delta is requested against a report
// that has not been built.
var ErrReportNotBuilt = errors.New("coverage report has not been built")

// Location is a (file, line) pair.
type Location struct {
	File string `json:"file" yaml:"file"`
	Line int    `json:"line" yaml:"line"`
}

// Delta describes how coverage changed between a "before" and an "after" run.
type Delta struct {
	PointsBefore int `json:"points_before" yaml:"points_before"`
	PointsAfter  int `json:"points_after" yaml:"points_after"`
	// PointsDelta is negative when the after run regressed.
	PointsDelta int `json:"points_delta" yaml:"points_delta"`
	// TotalPoints is the total point count of the after run.
	TotalPoints int `json:"total_points" yaml:"total_points"`

	CoverageBefore float64 `json:"coverage_before" yaml:"coverage_before"`
	CoverageAfter  float64 `json:"coverage_after" yaml:"coverage_after"`
	// CoverageDelta is in percentage points.
	CoverageDelta float64 `json:"coverage_delta" yaml:"coverage_delta"`

	// NewCoveredLines lists locations covered after but not before, sorted.
	NewCoveredLines []Location `json:"new_covered_lines" yaml:"new_covered_lines"`
}

// ComputeDelta compares two independently built reports. Neither report is modified.
func ComputeDelta(before, after *coverage.Report) (*Delta, error) {
	if before == nil || after == nil {
		return nil, ErrReportNotBuilt
	}

	d := &Delta{
		PointsBefore:   before.CoveredPoints(),
		PointsAfter:    after.CoveredPoints(),
		TotalPoints:    after.TotalPoints(),
		CoverageBefore: before.CoveragePercentage(),
		CoverageAfter:  after.CoveragePercentage(),
	}
	d.PointsDelta = d.PointsAfter - d.PointsBefore
	d.CoverageDelta = d.CoverageAfter - d.CoverageBefore

	beforeCovered := coveredLocations(before)
	d.NewCoveredLines = make([]Location, 0)
	for loc := range coveredLocations(after) {
		if _, ok := beforeCovered[loc]; !ok {
			d.NewCoveredLines = append(d.NewCoveredLines, loc)
		}
	}
	sort.Slice(d.NewCoveredLines, func(i, j int) bool {
		a, b := d.NewCoveredLines[i], d.NewCoveredLines[j]
		if a.File != b.File {
			return a.File < b.File
		}
		return a.Line < b.Line
	})

	return d, nil
}

// coveredLocations collects the (file, line) pairs of covered raw points.
func coveredLocations(r *coverage.Report) map[Location]struct{} {
	locs := make(map[Location]struct{})
	for _, p := range r.RawPoints {
		if p.IsCovered() {
			locs[Location{File: p.FilePath, Line: p.Line}] = struct{}{}
		}
	}
	return locs
}
