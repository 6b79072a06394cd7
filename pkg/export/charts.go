package export

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/vanderheijden86/sentiboard/pkg/dashboard"
	"github.com/vanderheijden86/sentiboard/pkg/model"
)

// ErrEmptyChart is returned when a chart has no data to draw, such as a
// channel without sentiment rows.
var ErrEmptyChart = errors.New("nothing to chart")

// Format is an image output format.
type Format string

const (
	FormatPNG Format = "png"
	FormatSVG Format = "svg"
)

// ParseFormat accepts "png" or "svg" with or without a leading dot.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), "."))) {
	case FormatPNG:
		return FormatPNG, nil
	case FormatSVG:
		return FormatSVG, nil
	default:
		return "", fmt.Errorf("unsupported format %q (want svg or png)", s)
	}
}

// FormatFromPath infers the format from a file extension, defaulting to PNG.
func FormatFromPath(path string) Format {
	if f, err := ParseFormat(filepath.Ext(path)); err == nil {
		return f
	}
	return FormatPNG
}

// Ext returns the file extension for f, including the dot.
func (f Format) Ext() string {
	if f == FormatSVG {
		return ".svg"
	}
	return ".png"
}

func (f Format) renderer() chart.RendererProvider {
	if f == FormatSVG {
		return chart.SVG
	}
	return chart.PNG
}

// ChartSize is the pixel size of a rendered chart.
type ChartSize struct {
	Width  int
	Height int
}

// DefaultChartSize matches the dashboard's chart proportions.
var DefaultChartSize = ChartSize{Width: 1024, Height: 500}

// Sentiment palette: red-to-blue diverging, as in the dashboard.
var (
	sentimentColors = [3]drawing.Color{
		{R: 0x21, G: 0x66, B: 0xac, A: 0xff}, // positive
		{R: 0xd1, G: 0xe5, B: 0xf0, A: 0xff}, // neutral
		{R: 0xb2, G: 0x18, B: 0x2b, A: 0xff}, // negative
	}
	// rankingColors cycles per channel in the ranking bar chart.
	rankingColors = []drawing.Color{
		{R: 0x33, G: 0x66, B: 0xcc, A: 0xff},
		{R: 0xdc, G: 0x39, B: 0x12, A: 0xff},
		{R: 0xff, G: 0x99, B: 0x00, A: 0xff},
		{R: 0x10, G: 0x96, B: 0x18, A: 0xff},
		{R: 0x99, G: 0x00, B: 0x99, A: 0xff},
		{R: 0x00, G: 0x99, B: 0xc6, A: 0xff},
		{R: 0xdd, G: 0x44, B: 0x77, A: 0xff},
		{R: 0x66, G: 0xaa, B: 0x00, A: 0xff},
		{R: 0xb8, G: 0x2e, B: 0x2e, A: 0xff},
		{R: 0x31, G: 0x63, B: 0x95, A: 0xff},
	}
)

// RenderSentimentPie draws the sentiment proportions of the selected channel.
func RenderSentimentPie(w io.Writer, panel dashboard.SentimentPanel, f Format, size ChartSize) error {
	if panel.Distribution.Empty() {
		return ErrEmptyChart
	}
	var values []chart.Value
	for i, v := range panel.Distribution.Values() {
		if v == 0 {
			continue
		}
		values = append(values, chart.Value{
			Value: float64(v),
			Label: fmt.Sprintf("%s %.1f%%", model.SentimentLabels[i], panel.Proportions[i]*100),
			Style: chart.Style{FillColor: sentimentColors[i], StrokeColor: drawing.ColorWhite, StrokeWidth: 2},
		})
	}
	side := size.Height
	if size.Width < side {
		side = size.Width
	}
	pie := chart.PieChart{
		Title:  panel.Title,
		Width:  side,
		Height: side,
		Values: values,
	}
	return pie.Render(f.renderer(), w)
}

// RenderTrendBars draws one stacked bar per video.
func RenderTrendBars(w io.Writer, panel dashboard.TrendPanel, f Format, size ChartSize) error {
	var bars []chart.StackedBar
	for _, v := range panel.Videos {
		if v.Total() == 0 {
			continue
		}
		var parts []chart.Value
		for i, c := range v.Values() {
			parts = append(parts, chart.Value{
				Value: float64(c),
				Label: model.SentimentLabels[i],
				Style: chart.Style{FillColor: sentimentColors[i], StrokeColor: sentimentColors[i]},
			})
		}
		bars = append(bars, chart.StackedBar{Name: truncate(v.VideoTitle, 18), Values: parts})
	}
	if len(bars) == 0 {
		return ErrEmptyChart
	}
	width, barWidth := barLayout(size.Width, len(bars), 80)
	for i := range bars {
		bars[i].Width = barWidth
	}
	sbc := chart.StackedBarChart{
		Title:      panel.Title,
		Background: chart.Style{Padding: chart.Box{Top: 60, Left: 20, Right: 20, Bottom: 20}},
		Width:      width,
		Height:     size.Height,
		BarSpacing: barWidth,
		Bars:       bars,
	}
	return sbc.Render(f.renderer(), w)
}

// RenderRankingBars draws the top-N ranking, one colored bar per channel.
func RenderRankingBars(w io.Writer, panel dashboard.RankingPanel, f Format, size ChartSize) error {
	var bars []chart.Value
	lo, hi := 0.0, math.Inf(-1)
	for i, r := range panel.Rows {
		v := float64(r.Value)
		if !model.IsFinite(v) {
			continue
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
		c := rankingColors[i%len(rankingColors)]
		bars = append(bars, chart.Value{
			Value: v,
			Label: truncate(r.Influencer.ChannelName, 14),
			Style: chart.Style{FillColor: c, StrokeColor: c},
		})
	}
	if len(bars) == 0 {
		return ErrEmptyChart
	}
	if hi <= lo {
		hi = lo + 1
	}
	width, barWidth := barLayout(size.Width, len(bars), 120)
	bc := chart.BarChart{
		Title:      panel.Title,
		Background: chart.Style{Padding: chart.Box{Top: 60, Left: 20, Right: 20, Bottom: 20}},
		Width:      width,
		Height:     size.Height,
		BarWidth:   barWidth,
		BarSpacing: barWidth,
		YAxis: chart.YAxis{
			Name:  panel.Metric.String(),
			Range: &chart.ContinuousRange{Min: lo, Max: hi},
		},
		Bars: bars,
	}
	return bc.Render(f.renderer(), w)
}

// minBarWidth keeps a bar plus its spacing wide enough for a word-wrapped
// axis label of a few lines. Narrower bars wrap labels one rune per line and
// go-chart rejects the resulting canvas.
const minBarWidth = 32

// barLayout splits width between n bars with equal spacing. When the bars
// would drop below minBarWidth the canvas grows instead.
func barLayout(width, n, margin int) (canvasWidth, barWidth int) {
	barWidth = (width - margin) / (n * 2)
	if barWidth >= minBarWidth {
		return width, barWidth
	}
	return margin + n*2*minBarWidth, minBarWidth
}

// renderToFile creates path and runs render into it. A render error
// removes the partial file.
func renderToFile(path string, render func(io.Writer) error) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create parent dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			os.Remove(path)
		}
	}()
	return render(f)
}

func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}

// slug turns a channel name into a file-name fragment.
func slug(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		default:
			if !dash && b.Len() > 0 {
				b.WriteByte('-')
				dash = true
			}
		}
	}
	out := strings.TrimSuffix(b.String(), "-")
	if out == "" {
		return "channel"
	}
	return out
}
