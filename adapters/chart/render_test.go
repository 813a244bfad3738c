package chart

import (
	"bytes"
	"testing"

	"stilidash/internal/aggregate"
	"stilidash/internal/palette"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatSVG, f)
	assert.Equal(t, "image/svg+xml", f.ContentType())

	f, err = ParseFormat(" PNG ")
	require.NoError(t, err)
	assert.Equal(t, FormatPNG, f)
	assert.Equal(t, "image/png", f.ContentType())

	_, err = ParseFormat("gif")
	assert.Error(t, err)
}

func TestRenderBar(t *testing.T) {
	theme, _ := palette.Lookup("blue")
	bar := BuildBar("stile", aggregate.Series{{Category: "B", Count: 1}, {Category: "A", Count: 2}, {Category: "C", Count: 3}}, theme)

	var svg bytes.Buffer
	require.NoError(t, RenderBar(&svg, bar, FormatSVG))
	assert.Contains(t, svg.String(), "<svg")
	assert.Contains(t, svg.String(), "Stile")

	var png bytes.Buffer
	require.NoError(t, RenderBar(&png, bar, FormatPNG))
	assert.Equal(t, []byte("\x89PNG"), png.Bytes()[:4])
}

func TestRenderBarEqualCounts(t *testing.T) {
	theme, _ := palette.Lookup("olive")
	bar := BuildBar("q4__4", aggregate.Series{{Category: "1", Count: 2}, {Category: "2", Count: 2}}, theme)

	var buf bytes.Buffer
	assert.NoError(t, RenderBar(&buf, bar, FormatSVG))
}

func TestRenderBarEmpty(t *testing.T) {
	theme, _ := palette.Lookup("blue")
	var buf bytes.Buffer
	err := RenderBar(&buf, BuildBar("stile", aggregate.Series{}, theme), FormatSVG)
	assert.ErrorIs(t, err, ErrNothingToRender)
}

func TestRenderDonut(t *testing.T) {
	theme, _ := palette.Lookup("purple")
	ratio, err := aggregate.NewRatio(10, 6)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, RenderDonut(&buf, BuildDonut(ratio, theme), FormatSVG))
	assert.Contains(t, buf.String(), "<svg")

	// a full sample leaves a single non-zero slice
	full, err := aggregate.NewRatio(10, 10)
	require.NoError(t, err)
	buf.Reset()
	assert.NoError(t, RenderDonut(&buf, BuildDonut(full, theme), FormatPNG))
}

func TestBarWidth(t *testing.T) {
	assert.Equal(t, 50, barWidth(800, 3))
	assert.Equal(t, 35, barWidth(800, 10))
	assert.Equal(t, 4, barWidth(800, 500))
}
