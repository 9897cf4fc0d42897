// Package colors extracts the color system of an image: ranked dominant
// colors, a five-role palette, temperature, saturation, contrast, palette
// type and lightness distribution.
package colors

import (
	"math"
	"sort"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/designlens/designlens/pkg/bitmap"
)

// Config holds configuration for the color analyzer. The defaults are the
// contract values; changing them changes classification buckets.
type Config struct {
	// SampleStride analyzes every Nth pixel.
	SampleStride int
	// AlphaThreshold excludes pixels with alpha below this value.
	AlphaThreshold int
	// QuantizeStep rounds each channel to the nearest multiple.
	QuantizeStep int
	// MaxDominantColors caps the ranked dominant color list.
	MaxDominantColors int
}

// DefaultConfig returns the default color analyzer configuration.
func DefaultConfig() Config {
	return Config{
		SampleStride:      4,
		AlphaThreshold:    128,
		QuantizeStep:      16,
		MaxDominantColors: 20,
	}
}

// Classification thresholds.
const (
	graySaturationCutoff = 10 // pixels below this saturation carry no hue
	darkLightnessMax     = 30
	lightLightnessMin    = 70

	saturationVibrantMin  = 60
	saturationModerateMin = 40
	saturationMutedMin    = 20

	contrastHighMin   = 7
	contrastMediumMin = 3

	temperatureWarmMin = 25
	temperatureCoolMax = -25
)

// Palette role selection thresholds.
const (
	backgroundMaxSaturation     = 20
	backgroundMinPercentage     = 30
	foregroundMinLightnessDelta = 40
	primaryMinSaturation        = 30
	primaryMinPercentage        = 2
	secondaryMinSaturation      = 20
	secondaryMinHueDistance     = 30
	accentMinSaturation         = 40
	accentMinHueDistance        = 60
)

// Fallback palette constants, used whenever no dominant color qualifies for
// a role. Degenerate input (for example a fully transparent image) yields
// exactly these values rather than an error.
const (
	FallbackBackground      = "#ffffff"
	FallbackForegroundDark  = "#000000"
	FallbackForegroundLight = "#ffffff"
	FallbackPrimary         = "#8b5cf6"
	FallbackSecondary       = "#3b82f6"
	FallbackAccent          = "#f59e0b"
)

// ColorInfo describes one dominant color.
type ColorInfo struct {
	Hex        string  `json:"hex"`
	RGB        [3]int  `json:"rgb"`
	HSL        [3]int  `json:"hsl"`
	Percentage float64 `json:"percentage"`
	Count      int     `json:"count"`
}

// Palette assigns dominant colors to the five design-system roles.
type Palette struct {
	Primary    string `json:"primary"`
	Secondary  string `json:"secondary"`
	Accent     string `json:"accent"`
	Background string `json:"background"`
	Foreground string `json:"foreground"`
}

// Proportions is the share of the top three dominant colors, normalized to
// sum to 100.
type Proportions struct {
	Primary   float64 `json:"primary"`
	Secondary float64 `json:"secondary"`
	Accent    float64 `json:"accent"`
}

// Temperature classifies the overall hue balance. Score is in [-100, 100];
// positive is warm.
type Temperature struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Saturation classifies the average saturation. Score is in [0, 100].
type Saturation struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Contrast classifies the WCAG-style contrast ratio between the brightest
// and darkest of the top dominant colors.
type Contrast struct {
	Label string  `json:"label"`
	Ratio float64 `json:"ratio"`
}

// LightnessDistribution is the share of sampled pixels in each lightness
// band; the three fields sum to 100.
type LightnessDistribution struct {
	Dark  float64 `json:"dark"`
	Mid   float64 `json:"mid"`
	Light float64 `json:"light"`
}

// Analysis is the complete color-system output.
type Analysis struct {
	DominantColors        []ColorInfo           `json:"dominantColors"`
	Palette               Palette               `json:"palette"`
	Proportions           Proportions           `json:"proportions"`
	Temperature           Temperature           `json:"temperature"`
	Saturation            Saturation            `json:"saturation"`
	Contrast              Contrast              `json:"contrast"`
	PaletteType           string                `json:"paletteType"`
	LightnessDistribution LightnessDistribution `json:"lightnessDistribution"`
}

// Analyzer extracts color information from bitmaps.
type Analyzer struct {
	config Config
}

// New creates an Analyzer with default configuration.
func New() *Analyzer {
	return &Analyzer{config: DefaultConfig()}
}

// NewWithConfig creates an Analyzer with custom configuration.
func NewWithConfig(config Config) *Analyzer {
	if config.SampleStride < 1 {
		config.SampleStride = 1
	}
	if config.QuantizeStep < 1 {
		config.QuantizeStep = 1
	}
	if config.MaxDominantColors < 1 {
		config.MaxDominantColors = 1
	}
	return &Analyzer{config: config}
}

// Analyze extracts the color system of a bitmap. It never fails: degenerate
// input produces the documented fallback values.
func (a *Analyzer) Analyze(bm *bitmap.Bitmap) Analysis {
	counts := make(map[uint32]int)
	sampled := 0

	var hueSum float64
	hueN := 0
	var satSum, lightSum float64
	var dark, mid, light int

	step := a.config.SampleStride * 4
	for i := 0; i+3 < len(bm.Pix); i += step {
		if int(bm.Pix[i+3]) < a.config.AlphaThreshold {
			continue
		}
		r, g, b := bm.Pix[i], bm.Pix[i+1], bm.Pix[i+2]
		sampled++

		h, s, l := bitmap.HSL(r, g, b)
		if s > graySaturationCutoff {
			hueSum += h
			hueN++
		}
		satSum += s
		lightSum += l
		switch {
		case l < darkLightnessMax:
			dark++
		case l > lightLightnessMin:
			light++
		default:
			mid++
		}

		key := uint32(a.quantize(r))<<16 | uint32(a.quantize(g))<<8 | uint32(a.quantize(b))
		counts[key]++
	}

	dominant := a.rankColors(counts, sampled)

	analysis := Analysis{
		DominantColors: dominant,
		Palette:        extractPalette(dominant),
		Proportions:    proportions(dominant),
		PaletteType:    paletteType(dominant),
	}

	if sampled == 0 {
		analysis.Temperature = Temperature{Label: "neutral", Score: 0}
		analysis.Saturation = Saturation{Label: "desaturated", Score: 0}
		analysis.Contrast = Contrast{Label: "low", Ratio: 1}
		analysis.LightnessDistribution = LightnessDistribution{Mid: 100}
		return analysis
	}

	avgHue := 0.0
	if hueN > 0 {
		avgHue = hueSum / float64(hueN)
	}
	analysis.Temperature = temperature(avgHue, hueN > 0)
	analysis.Saturation = saturation(satSum / float64(sampled))
	analysis.Contrast = contrast(dominant)
	analysis.LightnessDistribution = LightnessDistribution{
		Dark:  float64(dark) / float64(sampled) * 100,
		Mid:   float64(mid) / float64(sampled) * 100,
		Light: float64(light) / float64(sampled) * 100,
	}

	return analysis
}

// quantize rounds a channel to the nearest multiple of QuantizeStep,
// capped at 255 so hex encoding stays in range.
func (a *Analyzer) quantize(v byte) int {
	step := float64(a.config.QuantizeStep)
	q := int(math.Round(float64(v)/step) * step)
	if q > 255 {
		q = 255
	}
	return q
}

// rankColors orders quantized buckets by descending count and converts the
// top entries to ColorInfo records. Ties break on the packed RGB key so
// ranking is deterministic regardless of map iteration order.
func (a *Analyzer) rankColors(counts map[uint32]int, sampled int) []ColorInfo {
	type bucket struct {
		key   uint32
		count int
	}
	buckets := make([]bucket, 0, len(counts))
	for k, c := range counts {
		buckets = append(buckets, bucket{key: k, count: c})
	}
	sort.Slice(buckets, func(i, j int) bool {
		if buckets[i].count != buckets[j].count {
			return buckets[i].count > buckets[j].count
		}
		return buckets[i].key < buckets[j].key
	})

	n := len(buckets)
	if n > a.config.MaxDominantColors {
		n = a.config.MaxDominantColors
	}
	dominant := make([]ColorInfo, 0, n)
	for _, b := range buckets[:n] {
		r := int(b.key >> 16 & 0xff)
		g := int(b.key >> 8 & 0xff)
		bl := int(b.key & 0xff)
		dominant = append(dominant, newColorInfo(r, g, bl, b.count, sampled))
	}
	return dominant
}

func newColorInfo(r, g, b, count, sampled int) ColorInfo {
	col := colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
	h, s, l := col.Hsl()
	pct := 0.0
	if sampled > 0 {
		pct = float64(count) / float64(sampled) * 100
	}
	return ColorInfo{
		Hex:        col.Hex(),
		RGB:        [3]int{r, g, b},
		HSL:        [3]int{int(math.Round(h)) % 360, int(math.Round(s * 100)), int(math.Round(l * 100))},
		Percentage: pct,
		Count:      count,
	}
}

// extractPalette assigns dominant colors to the five roles. Every role has
// a fallback constant so the palette is always fully populated.
func extractPalette(dominant []ColorInfo) Palette {
	p := Palette{
		Primary:    FallbackPrimary,
		Secondary:  FallbackSecondary,
		Accent:     FallbackAccent,
		Background: FallbackBackground,
		Foreground: FallbackForegroundDark,
	}
	if len(dominant) == 0 {
		return p
	}

	// Background: first washed-out or clearly dominant color; otherwise
	// the single most frequent color.
	bg := dominant[0]
	for _, c := range dominant {
		if c.HSL[1] < backgroundMaxSaturation || c.Percentage > backgroundMinPercentage {
			bg = c
			break
		}
	}
	p.Background = bg.Hex

	// Foreground: first color far enough from the background in lightness;
	// otherwise pure black or white depending on the background.
	foundFg := false
	for _, c := range dominant {
		if abs(c.HSL[2]-bg.HSL[2]) > foregroundMinLightnessDelta {
			p.Foreground = c.Hex
			foundFg = true
			break
		}
	}
	if !foundFg {
		if bg.HSL[2] > 50 {
			p.Foreground = FallbackForegroundDark
		} else {
			p.Foreground = FallbackForegroundLight
		}
	}

	// Primary: the most visible saturated color by saturation x share.
	primaryIdx := -1
	bestScore := 0.0
	for i, c := range dominant {
		if c.HSL[1] > primaryMinSaturation && c.Percentage > primaryMinPercentage {
			score := float64(c.HSL[1]) * c.Percentage
			if score > bestScore {
				bestScore = score
				primaryIdx = i
			}
		}
	}
	primaryHue := hueOfHex(FallbackPrimary)
	if primaryIdx >= 0 {
		p.Primary = dominant[primaryIdx].Hex
		primaryHue = float64(dominant[primaryIdx].HSL[0])
	}

	// Secondary: next saturated color with a clearly different hue.
	secondaryIdx := -1
	for i, c := range dominant {
		if i == primaryIdx {
			continue
		}
		if c.HSL[1] > secondaryMinSaturation && bitmap.HueDistance(float64(c.HSL[0]), primaryHue) > secondaryMinHueDistance {
			p.Secondary = c.Hex
			secondaryIdx = i
			break
		}
	}

	// Accent: a strongly saturated color distinct from both.
	for i, c := range dominant {
		if i == primaryIdx || i == secondaryIdx {
			continue
		}
		if c.HSL[1] > accentMinSaturation && bitmap.HueDistance(float64(c.HSL[0]), primaryHue) > accentMinHueDistance {
			p.Accent = c.Hex
			break
		}
	}

	return p
}

// proportions normalizes the top three dominant color shares to sum to 100.
// With fewer than three colors the conventional 60/30/10 split applies.
func proportions(dominant []ColorInfo) Proportions {
	if len(dominant) < 3 {
		return Proportions{Primary: 60, Secondary: 30, Accent: 10}
	}
	total := dominant[0].Percentage + dominant[1].Percentage + dominant[2].Percentage
	if total <= 0 {
		return Proportions{Primary: 60, Secondary: 30, Accent: 10}
	}
	return Proportions{
		Primary:   dominant[0].Percentage / total * 100,
		Secondary: dominant[1].Percentage / total * 100,
		Accent:    dominant[2].Percentage / total * 100,
	}
}

// temperature maps the average hue of saturated pixels to a warm/cool score
// in [-100, 100], bucketed at +/-25.
func temperature(avgHue float64, hasHue bool) Temperature {
	if !hasHue {
		return Temperature{Label: "neutral", Score: 0}
	}

	var score float64
	switch {
	case avgHue <= 60 || avgHue >= 300:
		d := avgHue
		if avgHue >= 300 {
			d = 360 - avgHue
		}
		score = 50 + 0.8*d
	case avgHue >= 180 && avgHue <= 240:
		score = -50 - 45*(1-math.Abs(avgHue-210)/30)
	default:
		score = (avgHue - 150) * 0.5
	}
	score = clamp(score, -100, 100)

	label := "neutral"
	if score > temperatureWarmMin {
		label = "warm"
	} else if score < temperatureCoolMax {
		label = "cool"
	}
	return Temperature{Label: label, Score: score}
}

func saturation(avg float64) Saturation {
	label := "desaturated"
	switch {
	case avg >= saturationVibrantMin:
		label = "vibrant"
	case avg >= saturationModerateMin:
		label = "moderate"
	case avg >= saturationMutedMin:
		label = "muted"
	}
	return Saturation{Label: label, Score: avg}
}

// contrast computes the WCAG-style ratio between the most and least
// luminous of the top five dominant colors.
func contrast(dominant []ColorInfo) Contrast {
	n := len(dominant)
	if n > 5 {
		n = 5
	}
	if n == 0 {
		return Contrast{Label: "low", Ratio: 1}
	}

	minLum, maxLum := math.MaxFloat64, -1.0
	for _, c := range dominant[:n] {
		lum := relativeLuminance(c)
		if lum < minLum {
			minLum = lum
		}
		if lum > maxLum {
			maxLum = lum
		}
	}

	ratio := (maxLum + 0.05) / (minLum + 0.05)
	label := "low"
	switch {
	case ratio >= contrastHighMin:
		label = "high"
	case ratio >= contrastMediumMin:
		label = "medium"
	}
	return Contrast{Label: label, Ratio: ratio}
}

func relativeLuminance(c ColorInfo) float64 {
	col := colorful.Color{
		R: float64(c.RGB[0]) / 255,
		G: float64(c.RGB[1]) / 255,
		B: float64(c.RGB[2]) / 255,
	}
	r, g, b := col.LinearRgb()
	return 0.2126*r + 0.7152*g + 0.0722*b
}

// paletteType classifies the hue relationships among the top five saturated
// dominant colors. The rules apply in priority order.
func paletteType(dominant []ColorInfo) string {
	var hues []float64
	for _, c := range dominant {
		if c.HSL[1] > secondaryMinSaturation {
			hues = append(hues, float64(c.HSL[0]))
			if len(hues) == 5 {
				break
			}
		}
	}
	if len(hues) < 2 {
		return "monochromatic"
	}

	var dists []float64
	for i := 0; i < len(hues); i++ {
		for j := i + 1; j < len(hues); j++ {
			dists = append(dists, bitmap.HueDistance(hues[i], hues[j]))
		}
	}

	maxDist, sum := 0.0, 0.0
	triadicPairs := 0
	complementary, splitComplementary := false, false
	for _, d := range dists {
		if d > maxDist {
			maxDist = d
		}
		sum += d
		if d > 150 && d < 210 {
			complementary = true
		}
		if d > 100 && d < 140 {
			triadicPairs++
		}
		if d > 130 && d < 170 {
			splitComplementary = true
		}
	}

	switch {
	case maxDist < 30:
		return "monochromatic"
	case sum/float64(len(dists)) < 40:
		return "analogous"
	case complementary:
		return "complementary"
	case triadicPairs >= 2:
		return "triadic"
	case splitComplementary:
		return "split-complementary"
	default:
		return "mixed"
	}
}

func hueOfHex(hex string) float64 {
	col, err := colorful.Hex(hex)
	if err != nil {
		return 0
	}
	h, _, _ := col.Hsl()
	return h
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
