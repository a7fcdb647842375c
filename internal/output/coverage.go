package output

import (
	"fmt"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/zjy-dev/vcov/internal/coverage"
)

const barWidth = 30

// Summary writes a coverage summary.
func (o *Writer) Summary(s coverage.Summary) error {
	if done, err := o.encode(s); done {
		return err
	}

	if s.Version != "" {
		if _, err := fmt.Fprintf(o.w, "Version: %s\n", s.Version); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(o.w, "Coverage: %.2f%% (%d/%d points) %s\n",
		s.Percentage, s.Covered, s.Total, o.coverageBar(s.Percentage, barWidth)); err != nil {
		return err
	}

	kinds := tablewriter.NewWriter(o.w)
	defer func() { _ = kinds.Close() }()
	kinds.Header([]string{"Type", "Covered", "Total", "Percent"})
	kinds.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})
	rows := [][]string{
		kindRow("line", s.Line),
		kindRow("toggle", s.Toggle),
		kindRow("branch", s.Branch),
	}
	if err := kinds.Bulk(rows); err != nil {
		return err
	}
	if err := kinds.Render(); err != nil {
		return err
	}

	files := tablewriter.NewWriter(o.w)
	defer func() { _ = files.Close() }()
	files.Header([]string{"File", "Covered", "Total", "Percent"})
	files.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})
	var data [][]string
	for _, f := range s.Files {
		data = append(data, []string{
			f.Path,
			strconv.Itoa(f.Covered),
			strconv.Itoa(f.Total),
			fmt.Sprintf("%.2f", f.Percentage),
		})
	}
	if err := files.Bulk(data); err != nil {
		return err
	}
	if err := files.Render(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(o.w, "Coverage holes: %d\n", s.HoleCount)
	return err
}

func kindRow(name string, k coverage.KindCoverage) []string {
	return []string{name, strconv.Itoa(k.Covered), strconv.Itoa(k.Total), fmt.Sprintf("%.2f", k.Percentage)}
}

// Holes writes a list of coverage holes. Tables are capped at MaxHoles.
func (o *Writer) Holes(holes []coverage.Hole) error {
	if done, err := o.encode(holes); done {
		return err
	}

	if len(holes) == 0 {
		_, err := fmt.Fprintln(o.w, "No coverage holes (100% coverage)")
		return err
	}

	shown := holes
	if o.opts.MaxHoles > 0 && len(shown) > o.opts.MaxHoles {
		shown = shown[:o.opts.MaxHoles]
	}

	table := tablewriter.NewWriter(o.w)
	defer func() { _ = table.Close() }()
	table.Header([]string{"File", "Line", "Type"})
	var data [][]string
	for _, h := range shown {
		data = append(data, []string{h.File, strconv.Itoa(h.Line), o.yellow(string(h.Type))})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(o.w, "Showing %d of %d holes\n", len(shown), len(holes))
	return err
}

// SourceContext writes a numbered source snippet.
func (o *Writer) SourceContext(path string, lines []int, snippet string) error {
	if done, err := o.encode(map[string]any{"file": path, "lines": lines, "context": snippet}); done {
		return err
	}
	if snippet == "" {
		_, err := fmt.Fprintf(o.w, "No source context available for %s\n", path)
		return err
	}
	_, err := fmt.Fprintf(o.w, "%s\n%s\n", o.dim(path), snippet)
	return err
}
