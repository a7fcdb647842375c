package coverage

import "fmt"

// Type is the kind of a coverage point as reported by Verilator.
type Type string

const (
	TypeLine    Type = "line"
	TypeToggle  Type = "toggle"
	TypeBranch  Type = "branch"
	TypeUnknown Type = "unknown"
)

// UnknownFile is the file path given to points whose payload could not be decoded.
const UnknownFile = "unknown"

// Point is one measured coverage site from a single simulation run.
// Points are passed and stored by value and are never modified after decoding.
type Point struct {
	FilePath  string
	Line      int
	Column    int
	Type      Type
	Signal    string
	Hierarchy string
	// Page is Verilator's composite page field (e.g. "v_toggle/alu"), kept for diagnostics.
	Page     string
	HitCount uint64
	// Raw is the original quoted payload of the record.
	Raw string
}

// IsCovered reports whether the point was hit at least once.
func (p Point) IsCovered() bool {
	return p.HitCount > 0
}

// Location returns the point's "file:line" string.
func (p Point) Location() string {
	return fmt.Sprintf("%s:%d", p.FilePath, p.Line)
}
