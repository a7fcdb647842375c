package output

import (
	"fmt"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/zjy-dev/vcov/internal/history"
	"github.com/zjy-dev/vcov/internal/reward"
)

// Result writes a delta and its reward.
func (o *Writer) Result(res *reward.Result) error {
	if done, err := o.encode(res); done {
		return err
	}

	d := res.Delta
	table := tablewriter.NewWriter(o.w)
	defer func() { _ = table.Close() }()
	table.Header([]string{"Metric", "Before", "After", "Delta"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})
	rows := [][]string{
		{"coverage %", fmt.Sprintf("%.2f", d.CoverageBefore), fmt.Sprintf("%.2f", d.CoverageAfter), o.signed(d.CoverageDelta, 2)},
		{"covered points", strconv.Itoa(d.PointsBefore), strconv.Itoa(d.PointsAfter), o.signedInt(d.PointsDelta)},
	}
	if err := table.Bulk(rows); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(o.w, "Total points (after): %d\n", d.TotalPoints); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(o.w, "Newly covered lines: %d\n", len(d.NewCoveredLines)); err != nil {
		return err
	}
	for _, loc := range d.NewCoveredLines {
		if _, err := fmt.Fprintf(o.w, "  %s:%d\n", loc.File, loc.Line); err != nil {
			return err
		}
	}
	return o.rewardLine(res.Reward, res.Params)
}

// RewardOnly writes the reward for a bare coverage delta.
func (o *Writer) RewardOnly(delta, value float64, params reward.Params) error {
	data := struct {
		CoverageDelta float64       `json:"coverage_delta" yaml:"coverage_delta"`
		Reward        float64       `json:"reward" yaml:"reward"`
		Params        reward.Params `json:"params" yaml:"params"`
	}{delta, value, params}
	if done, err := o.encode(data); done {
		return err
	}
	if _, err := fmt.Fprintf(o.w, "Coverage delta: %s\n", o.signed(delta, 2)); err != nil {
		return err
	}
	return o.rewardLine(value, params)
}

func (o *Writer) rewardLine(value float64, p reward.Params) error {
	_, err := fmt.Fprintf(o.w, "Reward: %s (alpha=%g, penalty=%g, bonus threshold=%g)\n",
		o.signed(value, 4), p.Alpha, p.SmallPenalty, p.BonusThreshold)
	return err
}

// History writes stored evaluations, newest first, followed by the trend.
func (o *Writer) History(records []*history.Record, trend history.Trend) error {
	data := struct {
		Records []*history.Record `json:"records" yaml:"records"`
		Trend   history.Trend     `json:"trend" yaml:"trend"`
	}{records, trend}
	if done, err := o.encode(data); done {
		return err
	}

	if len(records) == 0 {
		_, err := fmt.Fprintln(o.w, "No evaluations recorded")
		return err
	}

	table := tablewriter.NewWriter(o.w)
	defer func() { _ = table.Close() }()
	table.Header([]string{"ID", "When", "After", "Coverage", "Delta", "Reward"})
	var rows [][]string
	for _, r := range records {
		rows = append(rows, []string{
			r.ID,
			r.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			r.AfterPath,
			fmt.Sprintf("%.2f", r.CoverageAfter),
			o.signed(r.CoverageDelta, 2),
			fmt.Sprintf("%.4f", r.Reward),
		})
	}
	if err := table.Bulk(rows); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(o.w, "Trend over last %d: %s (%s)\n", trend.Window, trend.Direction, o.signed(trend.Delta, 2))
	return err
}
