package export

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"os"
	"path/filepath"

	"git.sr.ht/~sbinet/gg"
	"github.com/ajstarks/svgo"
	"golang.org/x/image/font/basicfont"

	"github.com/vanderheijden86/sentiboard/pkg/dashboard"
	"github.com/vanderheijden86/sentiboard/pkg/model"
)

// SaveSnapshot renders a single dashboard card for view: the three metric
// cards, the sentiment split and the ranking. The format follows the file
// extension (.svg or .png).
func SaveSnapshot(path string, view dashboard.View) error {
	layout := buildSnapshotLayout(view)
	switch FormatFromPath(path) {
	case FormatSVG:
		return renderToFile(path, func(w io.Writer) error {
			return renderSnapshotSVG(w, layout)
		})
	default:
		return renderSnapshotPNG(path, layout)
	}
}

// --- layout ----------------------------------------------------------------

type snapshotCard struct {
	Label string
	Value string
	X, Y  float64
}

type snapshotBar struct {
	Label    string
	Value    string
	Fraction float64 // bar length relative to the longest bar, 0..1
	X, Y     float64
}

type snapshotSegment struct {
	X, W  float64
	Color color.RGBA
	Label string
}

type snapshotLayout struct {
	Width, Height int
	Title         string
	Subtitle      string
	Cards         []snapshotCard
	CardW, CardH  float64
	SplitY        float64
	Segments      []snapshotSegment
	SplitLabel    string
	RankTitle     string
	RankY         float64
	Bars          []snapshotBar
	BarMaxW       float64
}

const (
	snapPadding  = 32.0
	snapHeader   = 96.0
	snapCardW    = 220.0
	snapCardH    = 76.0
	snapCardGap  = 20.0
	snapSplitH   = 28.0
	snapBarH     = 22.0
	snapBarGap   = 8.0
	snapLabelCol = 180.0
)

var (
	snapBackdrop = color.RGBA{0xf9, 0xfa, 0xfb, 0xff}
	snapHeaderBG = color.RGBA{0xf3, 0xf4, 0xf6, 0xff}
	snapCardBG   = color.RGBA{0xff, 0xff, 0xff, 0xff}
	snapStroke   = color.RGBA{0xd0, 0xd4, 0xda, 0xff}
	snapText     = color.RGBA{0x11, 0x11, 0x11, 0xff}
	snapSubtle   = color.RGBA{0x66, 0x66, 0x66, 0xff}
	snapBar      = color.RGBA{0x6b, 0x80, 0xbf, 0xff}
	snapEmpty    = color.RGBA{0xe5, 0xe7, 0xeb, 0xff}
	snapSentRGBA = [3]color.RGBA{
		{0x21, 0x66, 0xac, 0xff},
		{0x92, 0xc5, 0xde, 0xff},
		{0xb2, 0x18, 0x2b, 0xff},
	}
)

func buildSnapshotLayout(view dashboard.View) snapshotLayout {
	width := snapPadding*2 + 3*snapCardW + 2*snapCardGap
	l := snapshotLayout{
		Title:    "Overview of " + view.Selection.Channel,
		Subtitle: dashboard.Title,
		CardW:    snapCardW,
		CardH:    snapCardH,
	}

	y := snapPadding + snapHeader
	for i, c := range view.Cards {
		l.Cards = append(l.Cards, snapshotCard{
			Label: c.Label,
			Value: c.Value,
			X:     snapPadding + float64(i)*(snapCardW+snapCardGap),
			Y:     y,
		})
	}

	y += snapCardH + 40
	l.SplitY = y
	splitW := width - 2*snapPadding
	dist := view.Sentiment.Distribution
	if dist.Empty() {
		l.Segments = []snapshotSegment{{X: snapPadding, W: splitW, Color: snapEmpty}}
		l.SplitLabel = "No sentiment data for this channel"
	} else {
		x := snapPadding
		for i, p := range view.Sentiment.Proportions {
			w := p * splitW
			l.Segments = append(l.Segments, snapshotSegment{
				X: x, W: w, Color: snapSentRGBA[i],
				Label: fmt.Sprintf("%s %.1f%%", model.SentimentLabels[i], p*100),
			})
			x += w
		}
		l.SplitLabel = fmt.Sprintf("%d comments across %d videos", dist.Total(), dist.Videos)
	}

	y += snapSplitH + 56
	l.RankTitle = view.Ranking.Title
	l.RankY = y
	l.BarMaxW = width - 2*snapPadding - snapLabelCol - 100

	maxAbs := 0.0
	for _, r := range view.Ranking.Rows {
		if v := float64(r.Value); model.IsFinite(v) {
			maxAbs = math.Max(maxAbs, math.Abs(v))
		}
	}
	y += 16
	for _, r := range view.Ranking.Rows {
		v := float64(r.Value)
		frac := 0.0
		if maxAbs > 0 && model.IsFinite(v) {
			frac = math.Abs(v) / maxAbs
		}
		l.Bars = append(l.Bars, snapshotBar{
			Label:    fmt.Sprintf("%2d. %s", r.Rank, truncate(r.Influencer.ChannelName, 20)),
			Value:    dashboard.FormatMetric(view.Ranking.Metric, v),
			Fraction: frac,
			X:        snapPadding,
			Y:        y,
		})
		y += snapBarH + snapBarGap
	}

	l.Width = int(width)
	l.Height = int(y + snapPadding)
	return l
}

// --- SVG -------------------------------------------------------------------

func renderSnapshotSVG(w io.Writer, l snapshotLayout) error {
	canvas := svg.New(w)
	canvas.Start(l.Width, l.Height)
	canvas.Rect(0, 0, l.Width, l.Height, "fill:"+css(snapBackdrop))
	canvas.Roundrect(16, 16, l.Width-32, int(snapHeader)-8, 10, 10, "fill:"+css(snapHeaderBG))
	canvas.Text(int(snapPadding), 52, l.Title, textStyle(snapText, 18, true))
	canvas.Text(int(snapPadding), 76, l.Subtitle, textStyle(snapSubtle, 12, false))

	for _, c := range l.Cards {
		x, y := int(c.X), int(c.Y)
		canvas.Roundrect(x, y, int(l.CardW), int(l.CardH), 8, 8,
			fmt.Sprintf("fill:%s;stroke:%s;stroke-width:1", css(snapCardBG), css(snapStroke)))
		canvas.Text(x+14, y+26, c.Label, textStyle(snapSubtle, 12, false))
		canvas.Text(x+14, y+56, c.Value, textStyle(snapText, 22, true))
	}

	canvas.Text(int(snapPadding), int(l.SplitY)-10, "Sentiment Distribution", textStyle(snapText, 14, true))
	for _, s := range l.Segments {
		if s.W <= 0 {
			continue
		}
		canvas.Rect(int(s.X), int(l.SplitY), int(math.Ceil(s.W)), int(snapSplitH), "fill:"+css(s.Color))
	}
	lx := int(snapPadding)
	for _, s := range l.Segments {
		if s.Label == "" {
			continue
		}
		canvas.Rect(lx, int(l.SplitY+snapSplitH)+10, 10, 10, "fill:"+css(s.Color))
		canvas.Text(lx+16, int(l.SplitY+snapSplitH)+19, s.Label, textStyle(snapSubtle, 12, false))
		lx += 150
	}
	canvas.Text(lx, int(l.SplitY+snapSplitH)+19, l.SplitLabel, textStyle(snapSubtle, 12, false))

	canvas.Text(int(snapPadding), int(l.RankY), l.RankTitle, textStyle(snapText, 14, true))
	for _, b := range l.Bars {
		x, y := int(b.X), int(b.Y)
		canvas.Text(x, y+15, b.Label, textStyle(snapText, 12, false))
		bw := int(b.Fraction * l.BarMaxW)
		if bw < 1 {
			bw = 1
		}
		canvas.Roundrect(x+int(snapLabelCol), y, bw, int(snapBarH), 3, 3, "fill:"+css(snapBar))
		canvas.Text(x+int(snapLabelCol)+bw+8, y+15, b.Value, textStyle(snapSubtle, 12, false))
	}

	canvas.End()
	return nil
}

func textStyle(c color.RGBA, size int, bold bool) string {
	s := fmt.Sprintf("fill:%s;font-size:%dpx;font-family:monospace", css(c), size)
	if bold {
		s += ";font-weight:bold"
	}
	return s
}

// --- PNG -------------------------------------------------------------------

func renderSnapshotPNG(path string, l snapshotLayout) error {
	dc := gg.NewContext(l.Width, l.Height)
	dc.SetColor(snapBackdrop)
	dc.Clear()
	dc.SetFontFace(basicfont.Face7x13)

	dc.SetColor(snapHeaderBG)
	dc.DrawRoundedRectangle(16, 16, float64(l.Width)-32, snapHeader-8, 10)
	dc.Fill()
	dc.SetColor(snapText)
	dc.DrawStringAnchored(l.Title, snapPadding, 48, 0, 0.5)
	dc.SetColor(snapSubtle)
	dc.DrawStringAnchored(l.Subtitle, snapPadding, 72, 0, 0.5)

	for _, c := range l.Cards {
		dc.SetColor(snapCardBG)
		dc.DrawRoundedRectangle(c.X, c.Y, l.CardW, l.CardH, 8)
		dc.Fill()
		dc.SetColor(snapStroke)
		dc.SetLineWidth(1)
		dc.DrawRoundedRectangle(c.X, c.Y, l.CardW, l.CardH, 8)
		dc.Stroke()
		dc.SetColor(snapSubtle)
		dc.DrawStringAnchored(c.Label, c.X+14, c.Y+22, 0, 0.5)
		dc.SetColor(snapText)
		dc.DrawStringAnchored(c.Value, c.X+14, c.Y+50, 0, 0.5)
	}

	dc.SetColor(snapText)
	dc.DrawStringAnchored("Sentiment Distribution", snapPadding, l.SplitY-12, 0, 0.5)
	for _, s := range l.Segments {
		if s.W <= 0 {
			continue
		}
		dc.SetColor(s.Color)
		dc.DrawRectangle(s.X, l.SplitY, s.W, snapSplitH)
		dc.Fill()
	}
	lx := snapPadding
	for _, s := range l.Segments {
		if s.Label == "" {
			continue
		}
		dc.SetColor(s.Color)
		dc.DrawRectangle(lx, l.SplitY+snapSplitH+10, 10, 10)
		dc.Fill()
		dc.SetColor(snapSubtle)
		dc.DrawStringAnchored(s.Label, lx+16, l.SplitY+snapSplitH+15, 0, 0.5)
		lx += 150
	}
	dc.DrawStringAnchored(l.SplitLabel, lx, l.SplitY+snapSplitH+15, 0, 0.5)

	dc.SetColor(snapText)
	dc.DrawStringAnchored(l.RankTitle, snapPadding, l.RankY-4, 0, 0.5)
	for _, b := range l.Bars {
		dc.SetColor(snapText)
		dc.DrawStringAnchored(b.Label, b.X, b.Y+snapBarH/2, 0, 0.5)
		bw := math.Max(1, b.Fraction*l.BarMaxW)
		dc.SetColor(snapBar)
		dc.DrawRoundedRectangle(b.X+snapLabelCol, b.Y, bw, snapBarH, 3)
		dc.Fill()
		dc.SetColor(snapSubtle)
		dc.DrawStringAnchored(b.Value, b.X+snapLabelCol+bw+8, b.Y+snapBarH/2, 0, 0.5)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create parent dir: %w", err)
	}
	return dc.SavePNG(path)
}

func css(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
