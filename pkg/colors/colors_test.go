package colors

import (
	"math"
	"reflect"
	"testing"

	"github.com/designlens/designlens/pkg/bitmap"
)

// solidBitmap creates a bitmap filled with one opaque color.
func solidBitmap(w, h int, r, g, b byte) *bitmap.Bitmap {
	bm := bitmap.New(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			bm.SetRGBA(x, y, r, g, b, 255)
		}
	}
	return bm
}

// bandedBitmap creates vertical color bands; bounds[i] is the exclusive
// right edge of band i.
func bandedBitmap(w, h int, bounds []int, cols [][3]byte) *bitmap.Bitmap {
	bm := bitmap.New(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			band := len(bounds) - 1
			for i, edge := range bounds {
				if x < edge {
					band = i
					break
				}
			}
			c := cols[band]
			bm.SetRGBA(x, y, c[0], c[1], c[2], 255)
		}
	}
	return bm
}

func checkerboardBitmap(w, h, block int) *bitmap.Bitmap {
	bm := bitmap.New(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if ((x/block)+(y/block))%2 == 0 {
				bm.SetRGBA(x, y, 255, 255, 255, 255)
			} else {
				bm.SetRGBA(x, y, 0, 0, 0, 255)
			}
		}
	}
	return bm
}

func TestAnalyzeSolidColor(t *testing.T) {
	analyzer := New()
	result := analyzer.Analyze(solidBitmap(100, 100, 51, 102, 153))

	if len(result.DominantColors) != 1 {
		t.Fatalf("Expected 1 dominant color, got %d", len(result.DominantColors))
	}
	// 51/102/153 quantized to multiples of 16.
	if result.DominantColors[0].Hex != "#3060a0" {
		t.Errorf("Expected #3060a0, got %s", result.DominantColors[0].Hex)
	}
	if result.DominantColors[0].Percentage != 100 {
		t.Errorf("Expected 100%%, got %f", result.DominantColors[0].Percentage)
	}
	if result.PaletteType != "monochromatic" {
		t.Errorf("Expected monochromatic, got %s", result.PaletteType)
	}
	if result.Temperature.Label != "cool" {
		t.Errorf("Expected cool, got %s (score %f)", result.Temperature.Label, result.Temperature.Score)
	}
	if result.Saturation.Label != "moderate" {
		t.Errorf("Expected moderate saturation, got %s (score %f)", result.Saturation.Label, result.Saturation.Score)
	}
	if result.Contrast.Label != "low" {
		t.Errorf("Expected low contrast, got %s", result.Contrast.Label)
	}
	if result.LightnessDistribution.Mid != 100 {
		t.Errorf("Expected all-mid lightness, got %+v", result.LightnessDistribution)
	}
	if result.Palette.Background != "#3060a0" {
		t.Errorf("Expected background #3060a0, got %s", result.Palette.Background)
	}
	// Dark background, no contrasting dominant color.
	if result.Palette.Foreground != FallbackForegroundLight {
		t.Errorf("Expected white foreground, got %s", result.Palette.Foreground)
	}
	if result.Palette.Primary != "#3060a0" {
		t.Errorf("Expected primary #3060a0, got %s", result.Palette.Primary)
	}
	if result.Palette.Secondary != FallbackSecondary || result.Palette.Accent != FallbackAccent {
		t.Errorf("Expected fallback secondary/accent, got %s / %s",
			result.Palette.Secondary, result.Palette.Accent)
	}
	want := Proportions{Primary: 60, Secondary: 30, Accent: 10}
	if result.Proportions != want {
		t.Errorf("Expected 60/30/10 proportions, got %+v", result.Proportions)
	}
}

func TestAnalyzeTransparent(t *testing.T) {
	analyzer := New()
	result := analyzer.Analyze(bitmap.New(10, 10))

	if len(result.DominantColors) != 0 {
		t.Errorf("Expected no dominant colors, got %d", len(result.DominantColors))
	}
	want := Palette{
		Primary:    FallbackPrimary,
		Secondary:  FallbackSecondary,
		Accent:     FallbackAccent,
		Background: FallbackBackground,
		Foreground: FallbackForegroundDark,
	}
	if result.Palette != want {
		t.Errorf("Expected fallback palette, got %+v", result.Palette)
	}
	if result.Temperature.Label != "neutral" || result.Temperature.Score != 0 {
		t.Errorf("Expected neutral temperature, got %+v", result.Temperature)
	}
	if result.Saturation.Label != "desaturated" {
		t.Errorf("Expected desaturated, got %+v", result.Saturation)
	}
	if result.Contrast.Ratio != 1 {
		t.Errorf("Expected contrast ratio 1, got %f", result.Contrast.Ratio)
	}
	if result.LightnessDistribution.Mid != 100 {
		t.Errorf("Expected all-mid lightness, got %+v", result.LightnessDistribution)
	}
}

func TestAnalyzeCheckerboard(t *testing.T) {
	analyzer := New()
	result := analyzer.Analyze(checkerboardBitmap(256, 256, 32))

	if len(result.DominantColors) != 2 {
		t.Fatalf("Expected 2 dominant colors, got %d", len(result.DominantColors))
	}
	if result.Contrast.Label != "high" {
		t.Errorf("Expected high contrast, got %s (ratio %f)", result.Contrast.Label, result.Contrast.Ratio)
	}
	if math.Abs(result.Contrast.Ratio-21) > 0.1 {
		t.Errorf("Expected ratio ~21, got %f", result.Contrast.Ratio)
	}
	if result.Saturation.Label != "desaturated" {
		t.Errorf("Expected desaturated, got %s", result.Saturation.Label)
	}
	if result.Temperature.Label != "neutral" {
		t.Errorf("Expected neutral temperature, got %s", result.Temperature.Label)
	}
	if result.PaletteType != "monochromatic" {
		t.Errorf("Expected monochromatic, got %s", result.PaletteType)
	}
	d := result.LightnessDistribution
	if d.Mid != 0 || math.Abs(d.Dark+d.Light-100) > 0.01 {
		t.Errorf("Expected dark+light=100, mid=0, got %+v", d)
	}
}

func TestAnalyzeSkipsTransparentPixels(t *testing.T) {
	bm := bitmap.New(20, 20)
	for y := 0; y < 20; y++ {
		for x := 0; x < 20; x++ {
			if y%2 == 0 {
				bm.SetRGBA(x, y, 255, 0, 0, 100) // below alpha threshold
			} else {
				bm.SetRGBA(x, y, 0, 0, 255, 255)
			}
		}
	}

	result := New().Analyze(bm)
	for _, c := range result.DominantColors {
		if c.RGB[0] > c.RGB[2] {
			t.Errorf("Transparent red leaked into dominant colors: %+v", c)
		}
	}
}

func TestAnalyzeDeterministic(t *testing.T) {
	bm := bandedBitmap(100, 100, []int{50, 80, 100},
		[][3]byte{{255, 0, 0}, {0, 255, 0}, {0, 0, 255}})

	analyzer := New()
	first := analyzer.Analyze(bm)
	second := analyzer.Analyze(bm)
	if !reflect.DeepEqual(first, second) {
		t.Error("Repeated analysis of the same bitmap differs")
	}
}

func TestProportionsNormalized(t *testing.T) {
	bm := bandedBitmap(100, 100, []int{50, 80, 100},
		[][3]byte{{255, 0, 0}, {0, 255, 0}, {0, 0, 255}})

	result := New().Analyze(bm)
	if len(result.DominantColors) != 3 {
		t.Fatalf("Expected 3 dominant colors, got %d", len(result.DominantColors))
	}
	p := result.Proportions
	if math.Abs(p.Primary+p.Secondary+p.Accent-100) > 0.01 {
		t.Errorf("Proportions should sum to 100, got %f", p.Primary+p.Secondary+p.Accent)
	}
	if p.Primary < p.Secondary || p.Secondary < p.Accent {
		t.Errorf("Proportions should be non-increasing, got %+v", p)
	}
	// Red/green/blue hues are 120 degrees apart.
	if result.PaletteType != "triadic" {
		t.Errorf("Expected triadic, got %s", result.PaletteType)
	}
}

func TestPaletteRoles(t *testing.T) {
	// Light gray background, saturated dark blue, saturated red.
	bm := bandedBitmap(100, 100, []int{60, 85, 100},
		[][3]byte{{240, 240, 240}, {32, 32, 160}, {208, 32, 32}})

	result := New().Analyze(bm)
	p := result.Palette
	if p.Background != "#f0f0f0" {
		t.Errorf("Expected background #f0f0f0, got %s", p.Background)
	}
	if p.Foreground != "#2020a0" {
		t.Errorf("Expected foreground #2020a0, got %s", p.Foreground)
	}
	if p.Primary != "#2020a0" {
		t.Errorf("Expected primary #2020a0, got %s", p.Primary)
	}
	if p.Secondary != "#d02020" {
		t.Errorf("Expected secondary #d02020, got %s", p.Secondary)
	}
	if p.Accent != FallbackAccent {
		t.Errorf("Expected fallback accent, got %s", p.Accent)
	}
}

func TestQuantize(t *testing.T) {
	analyzer := New()
	tests := []struct {
		in   byte
		want int
	}{
		{0, 0},
		{7, 0},
		{8, 16},
		{51, 48},
		{100, 96},
		{248, 255}, // rounds to 256, capped
		{255, 255},
	}
	for _, test := range tests {
		if got := analyzer.quantize(test.in); got != test.want {
			t.Errorf("quantize(%d) = %d, expected %d", test.in, got, test.want)
		}
	}
}

func TestTemperature(t *testing.T) {
	tests := []struct {
		name      string
		avgHue    float64
		hasHue    bool
		wantLabel string
		wantScore float64
	}{
		{"red", 0, true, "warm", 50},
		{"orange", 30, true, "warm", 74},
		{"magenta", 330, true, "warm", 74},
		{"azure", 210, true, "cool", -95},
		{"blue edge", 240, true, "cool", -50},
		{"teal", 150, true, "neutral", 0},
		{"green", 100, true, "neutral", -25},
		{"no hue", 0, false, "neutral", 0},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := temperature(test.avgHue, test.hasHue)
			if got.Label != test.wantLabel {
				t.Errorf("Expected label %s, got %s", test.wantLabel, got.Label)
			}
			if math.Abs(got.Score-test.wantScore) > 0.01 {
				t.Errorf("Expected score %f, got %f", test.wantScore, got.Score)
			}
		})
	}
}

func TestSaturationBuckets(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{70, "vibrant"},
		{60, "vibrant"},
		{50, "moderate"},
		{30, "muted"},
		{10, "desaturated"},
	}
	for _, test := range tests {
		if got := saturation(test.score); got.Label != test.want {
			t.Errorf("saturation(%f) = %s, expected %s", test.score, got.Label, test.want)
		}
	}
}

func TestContrastBuckets(t *testing.T) {
	black := ColorInfo{RGB: [3]int{0, 0, 0}}
	white := ColorInfo{RGB: [3]int{255, 255, 255}}
	gray := ColorInfo{RGB: [3]int{128, 128, 128}}

	tests := []struct {
		name   string
		colors []ColorInfo
		want   string
	}{
		{"black on white", []ColorInfo{black, white}, "high"},
		{"white on gray", []ColorInfo{white, gray}, "medium"},
		{"gray on gray", []ColorInfo{gray, gray}, "low"},
		{"single color", []ColorInfo{gray}, "low"},
		{"empty", nil, "low"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := contrast(test.colors); got.Label != test.want {
				t.Errorf("Expected %s, got %s (ratio %f)", test.want, got.Label, got.Ratio)
			}
		})
	}
}

func TestLightnessDistributionSums(t *testing.T) {
	bitmaps := []*bitmap.Bitmap{
		solidBitmap(50, 50, 255, 255, 255),
		solidBitmap(50, 50, 10, 10, 10),
		checkerboardBitmap(64, 64, 8),
		bandedBitmap(90, 90, []int{30, 60, 90},
			[][3]byte{{255, 255, 255}, {128, 128, 128}, {0, 0, 0}}),
	}
	analyzer := New()
	for _, bm := range bitmaps {
		d := analyzer.Analyze(bm).LightnessDistribution
		if sum := d.Dark + d.Mid + d.Light; math.Abs(sum-100) > 0.01 {
			t.Errorf("Lightness distribution sums to %f, expected 100", sum)
		}
	}
}

func BenchmarkAnalyze(b *testing.B) {
	bm := bandedBitmap(800, 600, []int{300, 550, 800},
		[][3]byte{{240, 240, 240}, {99, 102, 241}, {17, 24, 39}})
	analyzer := New()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		analyzer.Analyze(bm)
	}
}
