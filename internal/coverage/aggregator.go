package coverage

import "strings"

// Aggregator accumulates decoded points into a Report while an input is read.
// It is owned by a single decode pass and is not safe for concurrent use.
type Aggregator struct {
	report *Report
}

// NewAggregator returns an Aggregator with an empty report.
func NewAggregator() *Aggregator {
	return &Aggregator{report: NewReport()}
}

// AddHeader records a "#" header line as the report version. The last header wins.
func (a *Aggregator) AddHeader(line string) {
	a.report.Version = strings.TrimLeft(strings.TrimSpace(line), "# ")
}

// Add appends p to the raw points and routes it into its file bucket.
// Types other than line and branch, including unknown ones, go to the toggle bucket.
func (a *Aggregator) Add(p Point) {
	a.report.RawPoints = append(a.report.RawPoints, p)

	fc, ok := a.report.Files[p.FilePath]
	if !ok {
		fc = NewFileCoverage(p.FilePath)
		a.report.Files[p.FilePath] = fc
	}

	switch p.Type {
	case TypeLine:
		fc.LinePoints = append(fc.LinePoints, p)
	case TypeBranch:
		fc.BranchPoints = append(fc.BranchPoints, p)
	default:
		fc.TogglePoints = append(fc.TogglePoints, p)
	}
}

// Report returns the accumulated report. The aggregator must not be used afterwards.
func (a *Aggregator) Report() *Report {
	r := a.report
	a.report = nil
	return r
}
