package ui

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
)

// FormatTimeRel returns a relative time string (e.g., "2h ago", "3d ago")
func FormatTimeRel(t time.Time) string {
	if t.IsZero() {
		return "unknown"
	}

	d := time.Since(t)
	if d < 0 {
		// Future timestamps treated as now
		return "now"
	}
	switch {
	case d < time.Minute:
		return "now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}

// truncateRunesHelper truncates a string to max visual width (cells), adding suffix if needed.
// Uses go-runewidth to handle wide characters correctly.
func truncateRunesHelper(s string, maxWidth int, suffix string) string {
	if maxWidth <= 0 {
		return ""
	}

	width := runewidth.StringWidth(s)
	if width <= maxWidth {
		return s
	}

	suffixWidth := runewidth.StringWidth(suffix)
	if suffixWidth > maxWidth {
		return runewidth.Truncate(suffix, maxWidth, "")
	}

	targetWidth := maxWidth - suffixWidth
	return runewidth.Truncate(s, targetWidth, "") + suffix
}

// truncate truncates s to maxWidth cells.
func truncate(s string, maxWidth int) string {
	return truncateRunesHelper(s, maxWidth, "…")
}

// padRight pads s with spaces to width cells, truncating if it is wider.
func padRight(s string, width int) string {
	s = truncate(s, width)
	if w := runewidth.StringWidth(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}

// splitWidth divides width cells among counts in proportion, using the
// largest remainder so the parts always sum to width when any count is
// positive. All-zero counts get no cells.
func splitWidth(counts []int64, width int) []int {
	out := make([]int, len(counts))
	var total int64
	for _, c := range counts {
		if c > 0 {
			total += c
		}
	}
	if total == 0 || width <= 0 {
		return out
	}

	type rem struct {
		idx  int
		frac float64
	}
	rems := make([]rem, 0, len(counts))
	used := 0
	for i, c := range counts {
		if c <= 0 {
			continue
		}
		exact := float64(c) / float64(total) * float64(width)
		out[i] = int(math.Floor(exact))
		used += out[i]
		rems = append(rems, rem{i, exact - float64(out[i])})
	}
	sort.SliceStable(rems, func(a, b int) bool { return rems[a].frac > rems[b].frac })
	for i := 0; used < width; i++ {
		out[rems[i%len(rems)].idx]++
		used++
	}
	return out
}

// scaledWidth maps v onto 0..width against max.
func scaledWidth(v, max float64, width int) int {
	if max <= 0 || width <= 0 || math.IsNaN(v) || v <= 0 {
		return 0
	}
	n := int(math.Round(v / max * float64(width)))
	if n > width {
		n = width
	}
	if n == 0 {
		n = 1
	}
	return n
}
