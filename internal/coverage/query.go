package coverage

import (
	"fmt"
	"sort"
)

// KindCoverage is the covered/total breakdown for one coverage type.
type KindCoverage struct {
	Covered    int     `json:"covered" yaml:"covered"`
	Total      int     `json:"total" yaml:"total"`
	Percentage float64 `json:"percentage" yaml:"percentage"`
}

func newKindCoverage(covered, total int) KindCoverage {
	return KindCoverage{Covered: covered, Total: total, Percentage: percentage(covered, total)}
}

// LineCoverage returns the breakdown over line points.
func (r *Report) LineCoverage() KindCoverage {
	return r.kindCoverage(func(f *FileCoverage) []Point { return f.LinePoints })
}

// ToggleCoverage returns the breakdown over toggle points, which include
// points of unrecognized type.
func (r *Report) ToggleCoverage() KindCoverage {
	return r.kindCoverage(func(f *FileCoverage) []Point { return f.TogglePoints })
}

// BranchCoverage returns the breakdown over branch points.
func (r *Report) BranchCoverage() KindCoverage {
	return r.kindCoverage(func(f *FileCoverage) []Point { return f.BranchPoints })
}

func (r *Report) kindCoverage(bucket func(*FileCoverage) []Point) KindCoverage {
	covered, total := 0, 0
	for _, f := range r.Files {
		pts := bucket(f)
		total += len(pts)
		covered += countCovered(pts)
	}
	return newKindCoverage(covered, total)
}

// Hole is a distinct source location and coverage type that was never hit.
type Hole struct {
	File string `json:"file" yaml:"file"`
	Line int    `json:"line" yaml:"line"`
	Type Type   `json:"type" yaml:"type"`
}

func (h Hole) String() string {
	return fmt.Sprintf("%s:%d [%s]", h.File, h.Line, h.Type)
}

func (h Hole) less(o Hole) bool {
	if h.File != o.File {
		return h.File < o.File
	}
	if h.Line != o.Line {
		return h.Line < o.Line
	}
	return h.Type < o.Type
}

// Holes returns every uncovered (file, line, type) across the report, with
// duplicates collapsed and sorted by file, line, then type.
func (r *Report) Holes() []Hole {
	return r.holes(func(Hole) bool { return true })
}

// HolesForFile returns the holes of a single file.
func (r *Report) HolesForFile(path string) []Hole {
	return r.holes(func(h Hole) bool { return h.File == path })
}

// HolesOfType returns the holes of a single coverage type.
func (r *Report) HolesOfType(t Type) []Hole {
	return r.holes(func(h Hole) bool { return h.Type == t })
}

func (r *Report) holes(keep func(Hole) bool) []Hole {
	seen := make(map[Hole]struct{})
	for path, f := range r.Files {
		for _, p := range f.all() {
			if p.IsCovered() {
				continue
			}
			h := Hole{File: path, Line: p.Line, Type: p.Type}
			if keep(h) {
				seen[h] = struct{}{}
			}
		}
	}

	holes := make([]Hole, 0, len(seen))
	for h := range seen {
		holes = append(holes, h)
	}
	sort.Slice(holes, func(i, j int) bool { return holes[i].less(holes[j]) })
	return holes
}

// FileSummary is one per-file row of a Summary.
type FileSummary struct {
	Path       string  `json:"path" yaml:"path"`
	Covered    int     `json:"covered" yaml:"covered"`
	Total      int     `json:"total" yaml:"total"`
	Percentage float64 `json:"percentage" yaml:"percentage"`
}

// Summary is a flat, serializable view of a report.
type Summary struct {
	Version    string        `json:"version" yaml:"version"`
	Covered    int           `json:"covered" yaml:"covered"`
	Total      int           `json:"total" yaml:"total"`
	Percentage float64       `json:"percentage" yaml:"percentage"`
	Line       KindCoverage  `json:"line" yaml:"line"`
	Toggle     KindCoverage  `json:"toggle" yaml:"toggle"`
	Branch     KindCoverage  `json:"branch" yaml:"branch"`
	Files      []FileSummary `json:"files" yaml:"files"`
	HoleCount  int           `json:"hole_count" yaml:"hole_count"`
}

// Summary computes the summary view of the report. Files are sorted by path.
func (r *Report) Summary() Summary {
	s := Summary{
		Version:    r.Version,
		Covered:    r.CoveredPoints(),
		Total:      r.TotalPoints(),
		Percentage: r.CoveragePercentage(),
		Line:       r.LineCoverage(),
		Toggle:     r.ToggleCoverage(),
		Branch:     r.BranchCoverage(),
		Files:      make([]FileSummary, 0, len(r.Files)),
		HoleCount:  len(r.Holes()),
	}
	for _, path := range r.SortedPaths() {
		f := r.Files[path]
		s.Files = append(s.Files, FileSummary{
			Path:       path,
			Covered:    f.CoveredPoints(),
			Total:      f.TotalPoints(),
			Percentage: f.CoveragePercentage(),
		})
	}
	return s
}
