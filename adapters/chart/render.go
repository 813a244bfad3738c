package chart

import (
	"errors"
	"fmt"
	"io"
	"strings"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Format is an image export format
type Format string

const (
	FormatSVG Format = "svg"
	FormatPNG Format = "png"
)

// ErrNothingToRender is returned for a bar chart without bars
var ErrNothingToRender = errors.New("chart has no data to render")

// ParseFormat accepts "svg" and "png"; the empty string means svg
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatSVG:
		return FormatSVG, nil
	case FormatPNG:
		return FormatPNG, nil
	default:
		return "", fmt.Errorf("unsupported chart format %q", s)
	}
}

// ContentType returns the MIME type of the format
func (f Format) ContentType() string {
	if f == FormatPNG {
		return "image/png"
	}
	return "image/svg+xml"
}

func (f Format) provider() gochart.RendererProvider {
	if f == FormatPNG {
		return gochart.PNG
	}
	return gochart.SVG
}

// RenderBar draws the bar chart as an image. Bars keep series order, left to right.
func RenderBar(w io.Writer, bar BarChart, format Format) error {
	if bar.Empty || len(bar.Points) == 0 {
		return ErrNothingToRender
	}

	color := hexColor(bar.Color)
	bars := make([]gochart.Value, len(bar.Points))
	top := 1
	for i, p := range bar.Points {
		bars[i] = gochart.Value{
			Label: p.Label,
			Value: float64(p.Value),
			Style: gochart.Style{FillColor: color, StrokeColor: color, StrokeWidth: 1},
		}
		if p.Value > top {
			top = p.Value
		}
	}

	ch := gochart.BarChart{
		Title:      bar.Title,
		Width:      bar.Width,
		Height:     bar.Height,
		BarWidth:   barWidth(bar.Width, len(bars)),
		Background: gochart.Style{Padding: gochart.Box{Top: 40, Left: 16, Right: 12, Bottom: 28}, FillColor: drawing.ColorWhite},
		// baseline at 0; a series of equal counts would otherwise have an empty range
		YAxis: gochart.YAxis{Range: &gochart.ContinuousRange{Min: 0, Max: float64(top)}},
		Bars:  bars,
	}
	return ch.Render(format.provider(), w)
}

// RenderDonut draws the sample donut as an image
func RenderDonut(w io.Writer, donut DonutChart, format Format) error {
	values := make([]gochart.Value, 0, len(donut.Slices))
	for _, s := range donut.Slices {
		color := hexColor(s.Color)
		values = append(values, gochart.Value{
			Label: s.Category,
			Value: s.Value,
			Style: gochart.Style{FillColor: color, StrokeColor: drawing.ColorWhite, StrokeWidth: 1},
		})
	}

	ch := gochart.DonutChart{
		Title:      donut.CenterText,
		Width:      donut.Width * 2,
		Height:     donut.Height * 2,
		Background: gochart.Style{FillColor: drawing.ColorWhite},
		Values:     values,
	}
	return ch.Render(format.provider(), w)
}

func barWidth(width, n int) int {
	bw := (width - 100) / (2 * n)
	if bw > 50 {
		return 50
	}
	if bw < 4 {
		return 4
	}
	return bw
}

func hexColor(hex string) drawing.Color {
	return drawing.ColorFromHex(strings.TrimPrefix(hex, "#"))
}
