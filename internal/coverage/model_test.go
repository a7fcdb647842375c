package coverage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func togglePoint(file string, line int, signal string, hits uint64) Point {
	return Point{FilePath: file, Line: line, Column: 31, Type: TypeToggle, Signal: signal, Hierarchy: "TOP.alu", HitCount: hits}
}

func TestAggregator_RoutesByType(t *testing.T) {
	agg := NewAggregator()
	agg.Add(Point{FilePath: "alu.v", Line: 1, Type: TypeLine, HitCount: 1})
	agg.Add(Point{FilePath: "alu.v", Line: 2, Type: TypeToggle})
	agg.Add(Point{FilePath: "alu.v", Line: 3, Type: TypeBranch, HitCount: 4})
	agg.Add(Point{FilePath: "alu.v", Line: 4, Type: Type("expr")})
	agg.Add(Point{FilePath: UnknownFile, Type: TypeUnknown, HitCount: 2})
	r := agg.Report()

	require.Len(t, r.Files, 2)
	f := r.Files["alu.v"]
	assert.Len(t, f.LinePoints, 1)
	assert.Len(t, f.BranchPoints, 1)
	assert.Len(t, f.TogglePoints, 2, "unrecognized types fold into toggle")
	assert.Len(t, r.Files[UnknownFile].TogglePoints, 1)
	assert.Len(t, r.RawPoints, 5, "no decoded point is dropped")
	assert.Equal(t, 4, r.RawPoints[3].Line, "raw points keep input order")
}

func TestAggregator_HeaderLastWins(t *testing.T) {
	agg := NewAggregator()
	agg.AddHeader("# SystemC::Coverage-2")
	agg.AddHeader("#  SystemC::Coverage-3")
	assert.Equal(t, "SystemC::Coverage-3", agg.Report().Version)
}

func TestFileCoverage_Derived(t *testing.T) {
	f := NewFileCoverage("alu.v")
	f.TogglePoints = []Point{
		togglePoint("alu.v", 17, "a[0]:0->1", 5),
		togglePoint("alu.v", 18, "b[0]:0->1", 0),
		togglePoint("alu.v", 18, "b[0]:1->0", 0),
	}
	f.LinePoints = []Point{{FilePath: "alu.v", Line: 9, Type: TypeLine}}

	assert.Equal(t, 4, f.TotalPoints())
	assert.Equal(t, 1, f.CoveredPoints())
	assert.InDelta(t, 25.0, f.CoveragePercentage(), 1e-9)
	assert.Equal(t, []int{9, 18}, f.UncoveredLines())
}

func TestEmptyReport_ZeroDivision(t *testing.T) {
	r := NewReport()
	assert.Equal(t, 0, r.TotalPoints())
	assert.Equal(t, 0.0, r.CoveragePercentage())
	assert.Equal(t, KindCoverage{}, r.LineCoverage())
	assert.Equal(t, KindCoverage{}, r.ToggleCoverage())
	assert.Equal(t, KindCoverage{}, r.BranchCoverage())
	assert.Empty(t, r.Holes())

	f := NewFileCoverage("empty.v")
	assert.Equal(t, 0.0, f.CoveragePercentage())
	assert.Empty(t, f.UncoveredLines())
}

func TestReport_CountsRoundTrip(t *testing.T) {
	r := DecodeString(sampleCoverage)

	sum := 0
	for _, f := range r.Files {
		sum += f.CoveredPoints()
	}
	assert.Equal(t, sum, r.CoveredPoints())
	assert.LessOrEqual(t, r.CoveredPoints(), r.TotalPoints())
	assert.Equal(t, len(r.RawPoints), r.TotalPoints())
}

func TestReport_PointsIsCopy(t *testing.T) {
	r := DecodeString(sampleCoverage)
	pts := r.Points()
	require.NotEmpty(t, pts)
	pts[0].HitCount = 999
	assert.NotEqual(t, uint64(999), r.RawPoints[0].HitCount)
}
