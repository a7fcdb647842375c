package coverage

import "sort"

// FileCoverage holds the points of one source file, split by coverage type.
type FileCoverage struct {
	Path         string
	LinePoints   []Point
	TogglePoints []Point
	BranchPoints []Point
}

// NewFileCoverage creates an empty FileCoverage for path.
func NewFileCoverage(path string) *FileCoverage {
	return &FileCoverage{Path: path}
}

// all returns every point of the file, line points first, then toggle, then branch.
func (f *FileCoverage) all() []Point {
	pts := make([]Point, 0, f.TotalPoints())
	pts = append(pts, f.LinePoints...)
	pts = append(pts, f.TogglePoints...)
	pts = append(pts, f.BranchPoints...)
	return pts
}

// TotalPoints returns the number of points in the file.
func (f *FileCoverage) TotalPoints() int {
	return len(f.LinePoints) + len(f.TogglePoints) + len(f.BranchPoints)
}

// CoveredPoints returns the number of points hit at least once.
func (f *FileCoverage) CoveredPoints() int {
	return countCovered(f.LinePoints) + countCovered(f.TogglePoints) + countCovered(f.BranchPoints)
}

// CoveragePercentage returns covered/total in percent, or 0 for an empty file.
func (f *FileCoverage) CoveragePercentage() float64 {
	return percentage(f.CoveredPoints(), f.TotalPoints())
}

// UncoveredLines returns the distinct line numbers, ascending, that carry at
// least one uncovered point.
func (f *FileCoverage) UncoveredLines() []int {
	seen := make(map[int]struct{})
	for _, p := range f.all() {
		if !p.IsCovered() {
			seen[p.Line] = struct{}{}
		}
	}
	lines := make([]int, 0, len(seen))
	for l := range seen {
		lines = append(lines, l)
	}
	sort.Ints(lines)
	return lines
}

// Report is the decoded content of one coverage.dat file.
// A Report is built once by an Aggregator and is read-only afterwards, so it
// may be shared between goroutines.
type Report struct {
	// Files maps a source file path to its coverage.
	Files map[string]*FileCoverage
	// RawPoints holds every decoded point in input order.
	RawPoints []Point
	// Version is the text of the last "#" header line, if any.
	Version string
}

// NewReport creates an empty report.
func NewReport() *Report {
	return &Report{Files: make(map[string]*FileCoverage)}
}

// TotalPoints returns the number of points across all files.
func (r *Report) TotalPoints() int {
	total := 0
	for _, f := range r.Files {
		total += f.TotalPoints()
	}
	return total
}

// CoveredPoints returns the number of covered points across all files.
func (r *Report) CoveredPoints() int {
	covered := 0
	for _, f := range r.Files {
		covered += f.CoveredPoints()
	}
	return covered
}

// CoveragePercentage returns the overall coverage in percent, or 0 for an empty report.
func (r *Report) CoveragePercentage() float64 {
	return percentage(r.CoveredPoints(), r.TotalPoints())
}

// Points returns a copy of the decoded points in input order.
func (r *Report) Points() []Point {
	out := make([]Point, len(r.RawPoints))
	copy(out, r.RawPoints)
	return out
}

// SortedPaths returns the file paths of the report in ascending order.
func (r *Report) SortedPaths() []string {
	paths := make([]string, 0, len(r.Files))
	for p := range r.Files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

func countCovered(pts []Point) int {
	n := 0
	for _, p := range pts {
		if p.IsCovered() {
			n++
		}
	}
	return n
}

func percentage(covered, total int) float64 {
	if total == 0 {
		return 0.0
	}
	return float64(covered) / float64(total) * 100.0
}
