package propdiff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/parity/internal/config"
	"github.com/agenthands/parity/internal/core/model"
)

func pairWithStyles(liveStyles, stageStyles map[string]string) model.MatchedPair {
	return model.MatchedPair{
		Live:      model.ElementSnapshot{Selector: "h1.title", Tag: "h1", Section: "hero", Styles: liveStyles},
		Stage:     model.ElementSnapshot{Selector: "h1.title", Tag: "h1", Section: "hero", Styles: stageStyles},
		MatchType: model.MatchSelector,
	}
}

func TestDiff_IdenticalValuesIgnored(t *testing.T) {
	pair := pairWithStyles(
		map[string]string{"fontSize": "32px", "color": "#336699"},
		map[string]string{"fontSize": "32px", "color": "#336699"},
	)

	// Even a zero threshold must not report identical raw values.
	d := NewDiffer(config.Thresholds{})
	assert.Empty(t, d.Diff(pair))
}

func TestDiff_FontSizeThresholdBoundary(t *testing.T) {
	// 32px vs 31px: |delta| = 1.
	pair := pairWithStyles(
		map[string]string{"fontSize": "32px"},
		map[string]string{"fontSize": "31px"},
	)

	// Threshold 1 swallows the change.
	d := NewDiffer(config.Thresholds{FontSizeThreshold: 1})
	assert.Empty(t, d.Diff(pair))

	// Threshold 0.5 reports exactly one typography/medium difference.
	d = NewDiffer(config.Thresholds{FontSizeThreshold: 0.5})
	diffs := d.Diff(pair)
	require.Len(t, diffs, 1)
	assert.Equal(t, "fontSize", diffs[0].Property)
	assert.Equal(t, model.CategoryTypography, diffs[0].Category)
	assert.Equal(t, model.SeverityMedium, diffs[0].Severity)
}

func TestDiff_ColorDistance(t *testing.T) {
	// #ff0000 vs #fe0101 is a tiny perceptual distance (~1.73).
	pair := pairWithStyles(
		map[string]string{"color": "#ff0000"},
		map[string]string{"color": "#fe0101"},
	)

	d := NewDiffer(config.Thresholds{ColorThreshold: 10})
	assert.Empty(t, d.Diff(pair))

	// Same channel delta expressed in a different syntax still differs
	// as a raw string, but distance keeps it under threshold.
	pair = pairWithStyles(
		map[string]string{"color": "rgb(255, 0, 0)"},
		map[string]string{"color": "#ff0000"},
	)
	assert.Empty(t, d.Diff(pair))

	// Red vs blue is way past any sane threshold.
	pair = pairWithStyles(
		map[string]string{"color": "#ff0000"},
		map[string]string{"color": "#0000ff"},
	)
	diffs := d.Diff(pair)
	require.Len(t, diffs, 1)
	assert.Equal(t, model.CategoryColor, diffs[0].Category)
	assert.Equal(t, model.SeverityMedium, diffs[0].Severity)
}

func TestDiff_UnparseableColorReported(t *testing.T) {
	// A bad capture value cannot abort the comparison; it surfaces as a
	// difference instead.
	pair := pairWithStyles(
		map[string]string{"color": "#000000"},
		map[string]string{"color": "oklch(0.5 0.1 200)"},
	)

	d := NewDiffer(config.Thresholds{ColorThreshold: 1000})
	diffs := d.Diff(pair)
	require.Len(t, diffs, 1)
	assert.Equal(t, "color", diffs[0].Property)
}

func TestDiff_SpacingPixelThreshold(t *testing.T) {
	pair := pairWithStyles(
		map[string]string{"marginTop": "16px"},
		map[string]string{"marginTop": "17px"},
	)

	d := NewDiffer(config.Thresholds{PixelThreshold: 2})
	assert.Empty(t, d.Diff(pair))

	pair = pairWithStyles(
		map[string]string{"marginTop": "16px"},
		map[string]string{"marginTop": "24px"},
	)
	diffs := d.Diff(pair)
	require.Len(t, diffs, 1)
	assert.Equal(t, model.CategorySpacing, diffs[0].Category)
	assert.Equal(t, model.SeverityLow, diffs[0].Severity)
}

func TestDiff_LayoutFromRects(t *testing.T) {
	pair := model.MatchedPair{
		Live:  model.ElementSnapshot{Selector: ".sidebar", Rect: model.Rect{W: 300, H: 600}},
		Stage: model.ElementSnapshot{Selector: ".sidebar", Rect: model.Rect{W: 280, H: 600}},
	}

	d := NewDiffer(config.Thresholds{LayoutThreshold: 5})
	diffs := d.Diff(pair)
	require.Len(t, diffs, 1)
	assert.Equal(t, "width", diffs[0].Property)
	assert.Equal(t, model.CategoryLayout, diffs[0].Category)
	assert.Equal(t, model.SeverityCritical, diffs[0].Severity)
	assert.Equal(t, "300px", diffs[0].LiveValue)
	assert.Equal(t, "280px", diffs[0].StageValue)

	// Within tolerance: 2px shift on width.
	pair.Stage.Rect.W = 298
	assert.Empty(t, d.Diff(pair))
}

func TestDiff_ExactStringProperties(t *testing.T) {
	pair := pairWithStyles(
		map[string]string{"display": "flex", "flexDirection": "row"},
		map[string]string{"display": "block", "flexDirection": "row"},
	)

	d := NewDiffer(config.DefaultThresholds())
	diffs := d.Diff(pair)
	require.Len(t, diffs, 1)
	assert.Equal(t, "display", diffs[0].Property)
	assert.Equal(t, model.SeverityCritical, diffs[0].Severity)
}

func TestDiff_ImageSrcSwap(t *testing.T) {
	pair := model.MatchedPair{
		Live:  model.ElementSnapshot{Selector: "img.logo", ImageSrc: "/cdn/logo-v1.png"},
		Stage: model.ElementSnapshot{Selector: "img.logo", ImageSrc: "/cdn/logo-v2.png"},
	}

	d := NewDiffer(config.DefaultThresholds())
	diffs := d.Diff(pair)
	require.Len(t, diffs, 1)
	assert.Equal(t, "src", diffs[0].Property)
	assert.Equal(t, model.CategoryImage, diffs[0].Category)
	assert.Equal(t, model.SeverityMedium, diffs[0].Severity)
	assert.Contains(t, diffs[0].Recommendation, "intentional")
}

func TestDiff_ThresholdMonotonicity(t *testing.T) {
	// Raising any threshold must never increase the number of reported
	// differences for fixed inputs.
	pair := pairWithStyles(
		map[string]string{
			"fontSize":  "32px",
			"color":     "#ff0000",
			"marginTop": "16px",
		},
		map[string]string{
			"fontSize":  "30px",
			"color":     "#ee1122",
			"marginTop": "20px",
		},
	)
	pair.Live.Rect = model.Rect{W: 100, H: 50}
	pair.Stage.Rect = model.Rect{W: 110, H: 58}

	base := config.Thresholds{PixelThreshold: 1, ColorThreshold: 5, FontSizeThreshold: 1, LayoutThreshold: 2}
	prev := len(NewDiffer(base).Diff(pair))

	for _, loose := range []config.Thresholds{
		{PixelThreshold: 5, ColorThreshold: 5, FontSizeThreshold: 1, LayoutThreshold: 2},
		{PixelThreshold: 5, ColorThreshold: 40, FontSizeThreshold: 1, LayoutThreshold: 2},
		{PixelThreshold: 5, ColorThreshold: 40, FontSizeThreshold: 3, LayoutThreshold: 2},
		{PixelThreshold: 5, ColorThreshold: 40, FontSizeThreshold: 3, LayoutThreshold: 20},
	} {
		n := len(NewDiffer(loose).Diff(pair))
		assert.LessOrEqual(t, n, prev, "loosening thresholds grew the diff count")
		prev = n
	}
}

func TestParseColor(t *testing.T) {
	c, ok := ParseColor("#336699")
	require.True(t, ok)
	assert.Equal(t, RGBA{R: 0x33, G: 0x66, B: 0x99, A: 1}, c)

	c, ok = ParseColor("#fff")
	require.True(t, ok)
	assert.Equal(t, RGBA{R: 255, G: 255, B: 255, A: 1}, c)

	c, ok = ParseColor("rgba(10, 20, 30, 0.5)")
	require.True(t, ok)
	assert.Equal(t, RGBA{R: 10, G: 20, B: 30, A: 0.5}, c)

	c, ok = ParseColor("transparent")
	require.True(t, ok)
	assert.Equal(t, RGBA{}, c)

	_, ok = ParseColor("hsl(120, 50%, 50%)")
	assert.False(t, ok)
}

func TestColorDistance_Identity(t *testing.T) {
	a, _ := ParseColor("#336699")
	b, _ := ParseColor("#336699")
	assert.Zero(t, ColorDistance(a, b))
}

func TestLeadingNumber(t *testing.T) {
	cases := map[string]float64{
		"16px":   16,
		"1.5rem": 1.5,
		"-4px":   -4,
		"0":      0,
	}
	for in, want := range cases {
		got, ok := LeadingNumber(in)
		require.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}

	_, ok := LeadingNumber("auto")
	assert.False(t, ok)
}
