package coverage

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/zjy-dev/vcov/internal/logger"
)

const headerMarker = "#"

// Parser decodes one coverage.dat input into a Report.
//
// A Parser is bound to a single input for its whole life. The first report
// built successfully is memoized and returned by every later Parse call; to
// read new data, create a new Parser.
type Parser struct {
	name string
	data []byte // nil when reading from path
	path string

	mu     sync.Mutex
	report *Report
}

// NewParser creates a parser reading the coverage file at path.
func NewParser(path string) *Parser {
	return &Parser{name: path, path: path}
}

// NewParserFromBytes creates a parser over an in-memory blob. name is used in log messages only.
func NewParserFromBytes(name string, data []byte) *Parser {
	if data == nil {
		data = []byte{}
	}
	return &Parser{name: name, data: data}
}

// Name returns the input name of the parser.
func (p *Parser) Name() string {
	return p.name
}

// Parse returns the report for the parser's input.
// A missing coverage file yields an empty report and no error; it is not
// memoized, so a file that appears later is still read.
func (p *Parser) Parse() (*Report, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.report != nil {
		return p.report, nil
	}

	var r io.Reader
	if p.data != nil {
		r = bytes.NewReader(p.data)
	} else {
		f, err := os.Open(p.path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				logger.Debug("[Coverage] %s does not exist, using empty report", p.path)
				return NewReport(), nil
			}
			return nil, fmt.Errorf("failed to open coverage file %s: %w", p.path, err)
		}
		defer f.Close()
		r = f
	}

	report, err := Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", p.name, err)
	}

	logger.Debug("[Coverage] %s: %d points in %d files (%.2f%%)",
		p.name, len(report.RawPoints), len(report.Files), report.CoveragePercentage())

	p.report = report
	return report, nil
}

// Decode reads newline-separated coverage.dat lines from r and builds a report.
// Header lines set the version, record lines become points, everything else
// is ignored. Only read errors are returned; bad records never fail decoding.
func Decode(r io.Reader) (*Report, error) {
	agg := NewAggregator()
	counts := make(map[Dialect]int)

	br := bufio.NewReader(r)
	for {
		line, err := br.ReadString('\n')
		if len(line) > 0 {
			decodeInto(agg, line, counts)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read coverage data: %w", err)
		}
	}

	if counts[DialectUnknown] > 0 {
		logger.Debug("[Coverage] %d records fell back to the unknown dialect", counts[DialectUnknown])
	}
	logger.Debug("[Coverage] decoded records: binary=%d legacy=%d unknown=%d",
		counts[DialectBinary], counts[DialectLegacy], counts[DialectUnknown])

	return agg.Report(), nil
}

// DecodeString is Decode over an in-memory string.
func DecodeString(s string) *Report {
	// strings.Reader never returns a read error.
	r, _ := Decode(strings.NewReader(s))
	return r
}

func decodeInto(agg *Aggregator, line string, counts map[Dialect]int) {
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}
	if strings.HasPrefix(line, headerMarker) {
		agg.AddHeader(line)
		return
	}
	p, d, ok := decodeRecord(line)
	if !ok {
		return
	}
	counts[d]++
	agg.Add(p)
}
