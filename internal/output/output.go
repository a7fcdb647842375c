package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"
)

// Format selects how results are written.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatTable, FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want table, json or yaml)", s)
	}
}

// Options control a Writer.
type Options struct {
	Format Format
	Color  bool
	// MaxHoles caps the number of holes rendered in tables; 0 means no cap.
	MaxHoles int
}

// Writer renders coverage summaries, holes, deltas and history.
type Writer struct {
	w    io.Writer
	opts Options

	red, green, yellow, dim func(...any) string
}

// New creates a Writer over w.
func New(w io.Writer, opts Options) *Writer {
	if opts.Format == "" {
		opts.Format = FormatTable
	}
	o := &Writer{w: w, opts: opts}
	if opts.Color {
		o.red = color.New(color.FgRed).SprintFunc()
		o.green = color.New(color.FgGreen).SprintFunc()
		o.yellow = color.New(color.FgYellow).SprintFunc()
		o.dim = color.New(color.Faint).SprintFunc()
	} else {
		o.red, o.green, o.yellow, o.dim = fmt.Sprint, fmt.Sprint, fmt.Sprint, fmt.Sprint
	}
	return o
}

// encode writes data as JSON or YAML. It returns false for the table format.
func (o *Writer) encode(data any) (bool, error) {
	switch o.opts.Format {
	case FormatJSON:
		enc := json.NewEncoder(o.w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(data); err != nil {
			return true, fmt.Errorf("failed to encode JSON: %w", err)
		}
		return true, nil
	case FormatYAML:
		enc := yaml.NewEncoder(o.w)
		enc.SetIndent(2)
		if err := enc.Encode(data); err != nil {
			return true, fmt.Errorf("failed to encode YAML: %w", err)
		}
		return true, enc.Close()
	default:
		return false, nil
	}
}

// signed formats a delta with an explicit sign, green when positive and red when negative.
func (o *Writer) signed(v float64, precision int) string {
	switch {
	case v > 0:
		return o.green(fmt.Sprintf("+%.*f", precision, v))
	case v < 0:
		return o.red(fmt.Sprintf("%.*f", precision, v))
	default:
		return o.yellow(fmt.Sprintf("%.*f", precision, 0.0))
	}
}

func (o *Writer) signedInt(v int) string {
	switch {
	case v > 0:
		return o.green(fmt.Sprintf("+%d", v))
	case v < 0:
		return o.red(fmt.Sprintf("%d", v))
	default:
		return o.yellow("0")
	}
}

// coverageBar draws a fixed-width bar filled in proportion to pct (0-100).
func (o *Writer) coverageBar(pct float64, width int) string {
	filled := int(float64(width) * pct / 100.0)
	filled = max(0, min(filled, width))

	var sb strings.Builder
	sb.WriteString("[")
	if filled > 0 {
		sb.WriteString(o.green(strings.Repeat("█", filled)))
	}
	if width-filled > 0 {
		sb.WriteString(o.dim(strings.Repeat("░", width-filled)))
	}
	sb.WriteString("]")
	return sb.String()
}
