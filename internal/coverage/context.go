package coverage

import (
	"fmt"
	"os"
	"sort"
	"strings"
)

// SourceContext returns numbered source lines around each of the given line
// numbers, radius lines on either side. Overlapping windows are merged and
// separate windows are joined by a "..." line. A file that cannot be read
// yields an empty string.
func SourceContext(path string, lines []int, radius int) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return sourceContext(strings.Split(string(data), "\n"), lines, radius)
}

type lineRange struct{ start, end int } // [start, end), zero-based

func sourceContext(src []string, lines []int, radius int) string {
	if radius < 0 {
		radius = 0
	}

	ranges := make([]lineRange, 0, len(lines))
	for _, n := range lines {
		start := max(0, n-radius-1)
		end := min(len(src), n+radius)
		if start >= end {
			continue
		}
		ranges = append(ranges, lineRange{start, end})
	}
	sort.Slice(ranges, func(i, j int) bool {
		if ranges[i].start != ranges[j].start {
			return ranges[i].start < ranges[j].start
		}
		return ranges[i].end < ranges[j].end
	})

	var merged []lineRange
	for _, r := range ranges {
		if n := len(merged); n > 0 && r.start <= merged[n-1].end {
			merged[n-1].end = max(merged[n-1].end, r.end)
			continue
		}
		merged = append(merged, r)
	}

	snippets := make([]string, 0, len(merged))
	for _, r := range merged {
		var b strings.Builder
		for i := r.start; i < r.end; i++ {
			if i > r.start {
				b.WriteByte('\n')
			}
			fmt.Fprintf(&b, "%d: %s", i+1, src[i])
		}
		snippets = append(snippets, b.String())
	}
	return strings.Join(snippets, "\n...\n")
}
