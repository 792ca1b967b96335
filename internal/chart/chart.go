// Package chart renders benchmark throughput as a static SVG horizontal bar
// chart: one full-width track and one proportional bar per data point, a
// right-anchored label column and a digit-grouped value after each bar.
package chart

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	svg "github.com/ajstarks/svgo/float"

	"github.com/sdj7072/masked4j/pkg/utils"
)

// coordDecimals is the precision of every coordinate in the document.
const coordDecimals = 4

// Renderer preconditions.
var (
	ErrNoData        = errors.New("chart: no data points")
	ErrInvalidValue  = errors.New("chart: value must be a non-negative number")
	ErrInvalidLayout = errors.New("chart: invalid layout")
)

// DataPoint is one labelled measurement, drawn as one bar.
type DataPoint struct {
	Label string
	Value float64
	Color string // fill override; empty uses the positional palette
}

// Layout holds the geometry and styling of a bar chart.
type Layout struct {
	Title            string
	TitleX           float64 // title baseline position
	TitleY           float64
	Width            float64 // SVG width in pixels
	Height           float64 // SVG height in pixels
	BarHeight        float64
	BarGap           float64 // vertical space between bars
	StartY           float64 // top of the first bar
	LabelColumnWidth float64 // bars start at this x
	MarginRight      float64
	LabelGap         float64 // label end to bar start
	ValueGap         float64 // bar end to value text
	TextBaseline     float64 // baseline offset below the bar's vertical center
	CornerRadius     float64
	FontFamily       string
	FontSize         float64
	TitleFontSize    float64
	TrackColor       string
	LabelColor       string
	ValueColor       string
	TitleColor       string
	BarColors        []string // bar i uses BarColors[min(i, len-1)]
}

// DefaultLayout returns the 600x160 benchmark graph layout.
func DefaultLayout() Layout {
	return Layout{
		Title:            "Serialization Throughput (ops/s)",
		TitleX:           10,
		TitleY:           25,
		Width:            600,
		Height:           160,
		BarHeight:        40,
		BarGap:           30,
		StartY:           40,
		LabelColumnWidth: 150,
		MarginRight:      50,
		LabelGap:         10,
		ValueGap:         10,
		TextBaseline:     5,
		CornerRadius:     4,
		FontFamily:       `-apple-system, BlinkMacSystemFont, "Segoe UI", Helvetica, Arial, sans-serif`,
		FontSize:         14,
		TitleFontSize:    16,
		TrackColor:       "#eee",
		LabelColor:       "#333",
		ValueColor:       "#666",
		TitleColor:       "#333",
		BarColors:        []string{"#4CAF50", "#2196F3"},
	}
}

// ChartWidth is the horizontal space available to a full-length bar.
func (l Layout) ChartWidth() float64 {
	return l.Width - l.LabelColumnWidth - l.MarginRight
}

// BarY returns the top of the bar at position i.
func (l Layout) BarY(i int) float64 {
	return l.StartY + float64(i)*(l.BarHeight+l.BarGap)
}

func (l Layout) validate() error {
	switch {
	case l.Width <= 0 || l.Height <= 0:
		return fmt.Errorf("%w: size %gx%g", ErrInvalidLayout, l.Width, l.Height)
	case l.BarHeight <= 0:
		return fmt.Errorf("%w: bar height %g", ErrInvalidLayout, l.BarHeight)
	case l.ChartWidth() <= 0:
		return fmt.Errorf("%w: no room for bars (width %g, label column %g, right margin %g)",
			ErrInvalidLayout, l.Width, l.LabelColumnWidth, l.MarginRight)
	}
	// Style values land inside the style sheet's CDATA section.
	styles := append([]string{l.FontFamily, l.TrackColor, l.LabelColor, l.ValueColor, l.TitleColor}, l.BarColors...)
	for _, v := range styles {
		if strings.Contains(v, "]]>") {
			return fmt.Errorf("%w: style value %q contains \"]]>\"", ErrInvalidLayout, v)
		}
	}
	return nil
}

// paletteClass returns the CSS class for the bar at position i, or "" when
// the palette is empty.
func (l Layout) paletteClass(i int) string {
	if len(l.BarColors) == 0 {
		return ""
	}
	if i >= len(l.BarColors) {
		i = len(l.BarColors) - 1
	}
	return fmt.Sprintf("bar-%d", i)
}

func (l Layout) styleSheet() string {
	var sb strings.Builder
	text := func(class string, size float64, color string, bold bool) {
		sb.WriteString(fmt.Sprintf(".%s { font-family: %s; font-size: %gpx; fill: %s;", class, l.FontFamily, size, color))
		if bold {
			sb.WriteString(" font-weight: bold;")
		}
		sb.WriteString(" }\n")
	}
	text("label", l.FontSize, l.LabelColor, false)
	text("value", l.FontSize, l.ValueColor, true)
	text("title", l.TitleFontSize, l.TitleColor, true)
	sb.WriteString(fmt.Sprintf(".bar-bg { fill: %s; rx: %g; }\n", l.TrackColor, l.CornerRadius))
	sb.WriteString(fmt.Sprintf(".bar { rx: %g; }\n", l.CornerRadius))
	for i, c := range l.BarColors {
		sb.WriteString(fmt.Sprintf(".bar-%d { fill: %s; }\n", i, c))
	}
	return sb.String()
}

// MaxValue returns the scaling divisor for points. An all-zero series
// scales against 1 so every bar renders with zero width.
func MaxValue(points []DataPoint) float64 {
	maxVal := 0.0
	for _, p := range points {
		if p.Value > maxVal {
			maxVal = p.Value
		}
	}
	if maxVal == 0 {
		return 1
	}
	return maxVal
}

// BarWidth scales value against maxVal over chartWidth.
func BarWidth(value, maxVal, chartWidth float64) float64 {
	return value / maxVal * chartWidth
}

func validatePoints(points []DataPoint) error {
	if len(points) == 0 {
		return ErrNoData
	}
	for i, p := range points {
		if p.Value < 0 || math.IsNaN(p.Value) || math.IsInf(p.Value, 0) {
			return fmt.Errorf("%w: point %d (%q) = %g", ErrInvalidValue, i, p.Label, p.Value)
		}
	}
	return nil
}

// BarChart renders points as an SVG document.
func BarChart(points []DataPoint, layout Layout) (string, error) {
	var buf bytes.Buffer
	if err := Render(&buf, points, layout); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Render writes the SVG document for points to w. Nothing is written when
// the points or the layout are rejected.
func Render(w io.Writer, points []DataPoint, layout Layout) error {
	if err := validatePoints(points); err != nil {
		return err
	}
	if err := layout.validate(); err != nil {
		return err
	}

	maxVal := MaxValue(points)
	chartWidth := layout.ChartWidth()

	var buf bytes.Buffer
	canvas := svg.New(&buf)
	canvas.Decimals = coordDecimals
	canvas.Start(layout.Width, layout.Height)
	canvas.Style("text/css", layout.styleSheet())
	canvas.Text(layout.TitleX, layout.TitleY, layout.Title, `class="title"`)

	for i, p := range points {
		y := layout.BarY(i)
		barWidth := BarWidth(p.Value, maxVal, chartWidth)
		baseline := y + layout.BarHeight/2 + layout.TextBaseline

		canvas.Rect(layout.LabelColumnWidth, y, chartWidth, layout.BarHeight, `class="bar-bg"`)
		canvas.Rect(layout.LabelColumnWidth, y, barWidth, layout.BarHeight, barAttrs(layout, i, p)...)
		canvas.Text(layout.LabelColumnWidth-layout.LabelGap, baseline, p.Label,
			`text-anchor="end"`, `class="label"`)
		canvas.Text(layout.LabelColumnWidth+barWidth+layout.ValueGap, baseline, utils.FormatThousands(p.Value),
			`class="value"`)
	}
	canvas.End()

	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("chart: writing document: %w", err)
	}
	return nil
}

// barAttrs picks the foreground fill: an explicit point color wins over the
// palette, so the palette class is left off in that case.
func barAttrs(layout Layout, i int, p DataPoint) []string {
	if p.Color != "" {
		return []string{`class="bar"`, fmt.Sprintf(`fill="%s"`, escapeXML(p.Color))}
	}
	if class := layout.paletteClass(i); class != "" {
		return []string{fmt.Sprintf(`class="bar %s"`, class)}
	}
	return []string{`class="bar"`}
}

func escapeXML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, `"`, "&quot;")
	return s
}
