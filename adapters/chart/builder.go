// Package chart builds render-ready chart specs from aggregated panel data.
//
// The specs carry everything a front end needs to draw the horizontal bar chart and
// the sample donut: ordered points, colors, sizes and the ring geometry for SVG.
package chart

import (
	"fmt"
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"stilidash/internal/aggregate"
	"stilidash/internal/palette"
)

// Bar chart layout defaults
const (
	BarWidth  = 800
	BarHeight = 600
)

// Donut layout defaults
const (
	DonutSize        = 130
	DonutInnerRadius = 30
	DonutRadius      = 50
)

// Point is one bar
type Point struct {
	Label    string  `json:"label"`
	Value    int     `json:"value"`
	Fraction float64 `json:"fraction"` // Value relative to the longest bar
}

// BarChart is a horizontal bar chart: categories on the y axis, counts on the x axis
type BarChart struct {
	ChartType   string  `json:"chartType"`
	Orientation string  `json:"orientation"`
	Title       string  `json:"title"`
	Points      []Point `json:"points"`
	Color       string  `json:"color"`
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	Background  string  `json:"background"`
	ShowLegend  bool    `json:"showLegend"`
	ShowGrid    bool    `json:"showGrid"`
	Empty       bool    `json:"empty"`
}

// Slice is one arc of the donut
type Slice struct {
	Category string  `json:"category"`
	Value    float64 `json:"value"`
	Color    string  `json:"color"`
}

// DonutChart shows the sampled share of the table
type DonutChart struct {
	ChartType   string  `json:"chartType"`
	Slices      []Slice `json:"slices"`
	CenterText  string  `json:"centerText"`
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	InnerRadius int     `json:"innerRadius"`
	Radius      int     `json:"radius"`

	// Ring geometry for a stroked SVG circle
	RingRadius    float64 `json:"ringRadius"`
	StrokeWidth   float64 `json:"strokeWidth"`
	Circumference float64 `json:"circumference"`
	DashSample    float64 `json:"dashSample"`
	DashRemaining float64 `json:"dashRemaining"`
}

// BuildBar lays out a frequency series as horizontal bars in series order
func BuildBar(title string, series aggregate.Series, theme palette.Theme) BarChart {
	bar := BarChart{
		ChartType:   "bar",
		Orientation: "h",
		Title:       Capitalize(title),
		Points:      make([]Point, 0, len(series)),
		Color:       theme.Solid,
		Width:       BarWidth,
		Height:      BarHeight,
		Background:  "white",
		ShowLegend:  false,
		ShowGrid:    true,
		Empty:       len(series) == 0,
	}

	max := series.Max()
	for _, b := range series {
		p := Point{Label: string(b.Category), Value: b.Count}
		if max > 0 {
			p.Fraction = float64(b.Count) / float64(max)
		}
		bar.Points = append(bar.Points, p)
	}
	return bar
}

// BuildDonut turns a sample ratio into the Sample/Remaining donut
func BuildDonut(ratio aggregate.Ratio, theme palette.Theme) DonutChart {
	ring := float64(DonutInnerRadius+DonutRadius) / 2
	circumference := 2 * math.Pi * ring
	sample := circumference * ratio.Percentage / 100

	return DonutChart{
		ChartType: "donut",
		Slices: []Slice{
			{Category: "Sample", Value: ratio.Percentage, Color: theme.Light},
			{Category: "Remaining", Value: ratio.Remaining, Color: theme.Dark},
		},
		CenterText:    ratio.Label(),
		Width:         DonutSize,
		Height:        DonutSize,
		InnerRadius:   DonutInnerRadius,
		Radius:        DonutRadius,
		RingRadius:    ring,
		StrokeWidth:   float64(DonutRadius - DonutInnerRadius),
		Circumference: circumference,
		DashSample:    sample,
		DashRemaining: circumference - sample,
	}
}

// Capitalize upper-cases the first letter and lower-cases the rest, so "stile" becomes "Stile"
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}

// FormatCount formats an integer with comma separators
func FormatCount(n int) string {
	if n < 0 {
		return "-" + FormatCount(-n)
	}
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}
	return fmt.Sprintf("%s,%03d", FormatCount(n/1000), n%1000)
}
