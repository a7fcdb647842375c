package coverage

import (
	"regexp"
	"strconv"
	"strings"
)

// Dialect identifies which encoding a coverage.dat record payload uses.
type Dialect int

const (
	// DialectUnknown covers payloads no decoder understands.
	DialectUnknown Dialect = iota
	// DialectBinary is the modern encoding: "\x01<key>\x02<value>" pairs.
	DialectBinary
	// DialectLegacy is the older concatenated text encoding
	// (e.g. "fALU.vl17n31ttogglepagev_toggle/aoa[0]:0->1hTOP.ALU").
	DialectLegacy
)

func (d Dialect) String() string {
	switch d {
	case DialectBinary:
		return "binary"
	case DialectLegacy:
		return "legacy"
	default:
		return "unknown"
	}
}

const (
	recordMarker   = "C "
	fieldSeparator = "\x01"
)

var (
	// recordPattern matches "C '<payload>' <hit_count>" at the start of a line.
	recordPattern = regexp.MustCompile(`^C '([^']+)' (\d+)`)

	// binaryFieldPattern extracts key/value pairs from a binary-dialect payload.
	binaryFieldPattern = regexp.MustCompile(`\x01(\w+)\x02([^\x01]*)`)

	// legacyPattern matches the fixed field order of the legacy dialect.
	legacyPattern = regexp.MustCompile(
		`^f(?P<file>.+?\.(?:sv|v))` +
			`l(?P<line>\d+)` +
			`n(?P<col>\d+)` +
			`t(?P<type>\w+)` +
			`page(?P<page>\w+)` +
			`/(?P<signal>[^h]+)` +
			`h(?P<hier>.+)`,
	)
)

// decodeFunc turns one payload of a known dialect into a Point.
type decodeFunc func(payload string, hits uint64) Point

// decoders maps each dialect to its decoder. Adding a dialect means adding a
// Classify rule and an entry here; existing decoders stay untouched.
var decoders = map[Dialect]decodeFunc{
	DialectBinary:  decodeBinary,
	DialectLegacy:  decodeLegacy,
	DialectUnknown: decodeUnknown,
}

// Classify picks the dialect of a record payload.
// The binary check must come first: binary payloads can look like legacy ones.
func Classify(payload string) Dialect {
	if strings.Contains(payload, fieldSeparator) {
		return DialectBinary
	}
	if legacyPattern.MatchString(payload) {
		return DialectLegacy
	}
	return DialectUnknown
}

// DecodePayload decodes a record payload and reports which dialect was used.
func DecodePayload(payload string, hits uint64) (Point, Dialect) {
	d := Classify(payload)
	return decoders[d](payload, hits), d
}

// DecodeLine decodes one raw coverage.dat line.
// It returns false when the line is not a coverage record (blank, header,
// or anything else); a record line always yields a Point.
func DecodeLine(line string) (Point, bool) {
	p, _, ok := decodeRecord(line)
	return p, ok
}

func decodeRecord(line string) (Point, Dialect, bool) {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, recordMarker) {
		return Point{}, DialectUnknown, false
	}
	m := recordPattern.FindStringSubmatch(line)
	if m == nil {
		return Point{}, DialectUnknown, false
	}

	hits, err := strconv.ParseUint(m[2], 10, 64)
	if err != nil {
		hits = 0
	}

	p, d := DecodePayload(m[1], hits)
	return p, d, true
}

func decodeBinary(payload string, hits uint64) Point {
	fields := make(map[string]string)
	for _, m := range binaryFieldPattern.FindAllStringSubmatch(payload, -1) {
		fields[m[1]] = m[2]
	}

	get := func(key, def string) string {
		if v, ok := fields[key]; ok {
			return v
		}
		return def
	}

	return Point{
		FilePath:  get("f", UnknownFile),
		Line:      atoiOrZero(fields["l"]),
		Column:    atoiOrZero(fields["n"]),
		Type:      Type(get("t", string(TypeUnknown))),
		Signal:    fields["o"],
		Hierarchy: fields["h"],
		Page:      fields["page"],
		HitCount:  hits,
		Raw:       payload,
	}
}

func decodeLegacy(payload string, hits uint64) Point {
	m := legacyPattern.FindStringSubmatch(payload)
	if m == nil {
		return decodeUnknown(payload, hits)
	}
	group := func(name string) string {
		return m[legacyPattern.SubexpIndex(name)]
	}

	return Point{
		FilePath:  group("file"),
		Line:      atoiOrZero(group("line")),
		Column:    atoiOrZero(group("col")),
		Type:      Type(group("type")),
		Signal:    group("signal"),
		Hierarchy: group("hier"),
		Page:      group("page"),
		HitCount:  hits,
		Raw:       payload,
	}
}

func decodeUnknown(payload string, hits uint64) Point {
	return Point{
		FilePath: UnknownFile,
		Type:     TypeUnknown,
		Signal:   payload,
		HitCount: hits,
		Raw:      payload,
	}
}

// atoiOrZero parses a non-negative integer, returning 0 for anything else.
func atoiOrZero(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0
	}
	return n
}
