package chart

import (
	"math"
	"testing"

	"stilidash/internal/aggregate"
	"stilidash/internal/palette"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildBar(t *testing.T) {
	theme, _ := palette.Lookup("green")
	series := aggregate.Series{{Category: "B", Count: 1}, {Category: "A", Count: 2}, {Category: "C", Count: 4}}

	bar := BuildBar("stile", series, theme)

	assert.Equal(t, "Stile", bar.Title)
	assert.Equal(t, "h", bar.Orientation)
	assert.Equal(t, "#379A8B", bar.Color)
	assert.Equal(t, BarWidth, bar.Width)
	assert.False(t, bar.Empty)
	require.Len(t, bar.Points, 3)
	assert.Equal(t, Point{Label: "B", Value: 1, Fraction: 0.25}, bar.Points[0])
	assert.Equal(t, Point{Label: "C", Value: 4, Fraction: 1}, bar.Points[2])
}

func TestBuildBarEmpty(t *testing.T) {
	theme, _ := palette.Lookup("blue")
	bar := BuildBar("q4__4", aggregate.Series{}, theme)

	assert.True(t, bar.Empty)
	assert.NotNil(t, bar.Points)
	assert.Empty(t, bar.Points)
	assert.Equal(t, "Q4__4", bar.Title)
}

func TestBuildDonut(t *testing.T) {
	theme, _ := palette.Lookup("red")
	ratio, err := aggregate.NewRatio(10, 6)
	require.NoError(t, err)

	donut := BuildDonut(ratio, theme)

	assert.Equal(t, "60.0%", donut.CenterText)
	require.Len(t, donut.Slices, 2)
	assert.Equal(t, Slice{Category: "Sample", Value: 60, Color: "#FFA39F"}, donut.Slices[0])
	assert.Equal(t, Slice{Category: "Remaining", Value: 40, Color: "#A81829"}, donut.Slices[1])
	assert.Equal(t, 40.0, donut.RingRadius)
	assert.Equal(t, 20.0, donut.StrokeWidth)
	assert.InDelta(t, 2*math.Pi*40, donut.Circumference, 1e-9)
	assert.InDelta(t, donut.Circumference, donut.DashSample+donut.DashRemaining, 1e-9)
	assert.InDelta(t, donut.Circumference*0.6, donut.DashSample, 1e-9)
}

func TestFormatCount(t *testing.T) {
	tests := map[int]string{
		0:       "0",
		999:     "999",
		1000:    "1,000",
		12345:   "12,345",
		1000001: "1,000,001",
		-4200:   "-4,200",
	}
	for in, want := range tests {
		assert.Equal(t, want, FormatCount(in))
	}
}

func TestCapitalize(t *testing.T) {
	assert.Equal(t, "Stile", Capitalize("stile"))
	assert.Equal(t, "Stile", Capitalize("STILE"))
	assert.Equal(t, "", Capitalize(""))
	assert.Equal(t, "Età", Capitalize("età"))
}
