package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/zjy-dev/vcov/internal/coverage"
)

// MarkdownReporter implements the Reporter interface by saving reports as markdown files.
type MarkdownReporter struct {
	outputDir string
	// sourceDir, when set, is joined with each hole's file path to embed RTL context.
	sourceDir string
	radius    int
	now       func() time.Time
}

// NewMarkdownReporter creates a new MarkdownReporter.
func NewMarkdownReporter(outputDir, sourceDir string, radius int) *MarkdownReporter {
	return &MarkdownReporter{
		outputDir: outputDir,
		sourceDir: sourceDir,
		radius:    radius,
		now:       time.Now,
	}
}

// Save writes the coverage summary and holes of r to a markdown file.
func (m *MarkdownReporter) Save(name string, r *coverage.Report) (string, error) {
	if err := os.MkdirAll(m.outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}

	base := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	reportName := fmt.Sprintf("holes_%s_%d.md", base, m.now().UnixNano())
	reportPath := filepath.Join(m.outputDir, reportName)

	if err := os.WriteFile(reportPath, []byte(m.Render(name, r)), 0644); err != nil {
		return "", fmt.Errorf("failed to write report %s: %w", reportPath, err)
	}
	return reportPath, nil
}

// Render builds the markdown body without touching the filesystem.
func (m *MarkdownReporter) Render(name string, r *coverage.Report) string {
	s := r.Summary()

	var b strings.Builder
	fmt.Fprintf(&b, "# Coverage Report: %s\n\n", name)
	if s.Version != "" {
		fmt.Fprintf(&b, "**Version:** %s\n\n", s.Version)
	}
	fmt.Fprintf(&b, "**Coverage:** %.2f%% (%d/%d points)\n\n", s.Percentage, s.Covered, s.Total)

	b.WriteString("## Coverage by Type\n\n")
	b.WriteString("| Type | Covered | Total | Percent |\n|---|---|---|---|\n")
	for _, k := range []struct {
		name string
		kc   coverage.KindCoverage
	}{{"line", s.Line}, {"toggle", s.Toggle}, {"branch", s.Branch}} {
		fmt.Fprintf(&b, "| %s | %d | %d | %.2f |\n", k.name, k.kc.Covered, k.kc.Total, k.kc.Percentage)
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "## Coverage Holes (%d)\n\n", s.HoleCount)
	if s.HoleCount == 0 {
		b.WriteString("No coverage holes.\n")
		return b.String()
	}

	for _, path := range r.SortedPaths() {
		holes := r.HolesForFile(path)
		if len(holes) == 0 {
			continue
		}
		fmt.Fprintf(&b, "### %s\n\n", path)

		var lines []int
		for _, h := range holes {
			fmt.Fprintf(&b, "- line %d: %s\n", h.Line, h.Type)
			lines = append(lines, h.Line)
		}
		b.WriteString("\n")

		if m.sourceDir == "" {
			continue
		}
		if ctx := coverage.SourceContext(filepath.Join(m.sourceDir, path), lines, m.radius); ctx != "" {
			fmt.Fprintf(&b, "```verilog\n%s\n```\n\n", ctx)
		}
	}
	return b.String()
}
