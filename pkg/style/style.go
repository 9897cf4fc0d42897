// Package style combines the color, spatial, geometry and effects analyses
// into headline style scores, an industry classification, aesthetic tags
// and an era label.
package style

import (
	"github.com/designlens/designlens/pkg/colors"
	"github.com/designlens/designlens/pkg/effects"
	"github.com/designlens/designlens/pkg/geometry"
	"github.com/designlens/designlens/pkg/spatial"
)

// Score weights. These coefficients are the contract for the headline
// scores; tests pin them down with boundary cases.
const (
	minimalismWhitespaceWeight = 0.45
	minimalismEdgeWeight       = 0.35
	minimalismMonoBonus        = 10
	minimalismQuietShadowBonus = 10

	complexityEdgeWeight    = 0.40
	complexityDensityWeight = 0.30
	complexityColorWeight   = 0.15
	complexityColorScale    = 5
	complexityGradientBonus = 15

	modernnessBase             = 30
	modernnessWhitespaceWeight = 0.2
	modernnessCornerBonus      = 15
	modernnessDepthBonus       = 10
	modernnessGradientBonus    = 10
	modernnessGlassBonus       = 10
	modernnessVibrantBonus     = 10

	eleganceWhitespaceWeight = 0.35
	eleganceSaturationWeight = 0.25
	eleganceContrastBonus    = 15
	eleganceCornerBonus      = 10
	elegancePaletteBonus     = 10

	boldnessSaturationWeight = 0.45
	boldnessDensityWeight    = 0.25
	boldnessContrastBonus    = 15
	boldnessWarmBonus        = 10
	boldnessShadowBonus      = 10
)

// Industry scoring.
const (
	generalBaseScore = 50

	minimalismModernEraMin = 60
	aestheticTagLimit      = 8
)

// industries in tie-break order: the earliest enumerated winner takes the
// classification when scores are equal.
var industries = []string{"tech", "finance", "creative", "healthcare", "ecommerce", "media", "general"}

// Scores are the five headline style scores, each clamped to [0, 100].
type Scores struct {
	Minimalism float64 `json:"minimalism"`
	Complexity float64 `json:"complexity"`
	Modernness float64 `json:"modernness"`
	Elegance   float64 `json:"elegance"`
	Boldness   float64 `json:"boldness"`
}

// Analysis is the complete style output.
type Analysis struct {
	Scores             Scores   `json:"scores"`
	Industry           string   `json:"industry"`
	IndustryConfidence float64  `json:"industryConfidence"`
	AestheticTags      []string `json:"aestheticTags"`
	Era                string   `json:"era"`
}

// Analyzer combines upstream analyses into style classifications.
type Analyzer struct{}

// New creates a style Analyzer.
func New() *Analyzer {
	return &Analyzer{}
}

// Analyze derives the style profile from the four upstream analyses.
func (a *Analyzer) Analyze(c colors.Analysis, sp spatial.Analysis, g geometry.Analysis, e effects.Analysis) Analysis {
	scores := computeScores(c, sp, g, e)
	industry, confidence := classifyIndustry(c, sp, e, scores)
	return Analysis{
		Scores:             scores,
		Industry:           industry,
		IndustryConfidence: confidence,
		AestheticTags:      aestheticTags(c, sp, g, e, scores),
		Era:                era(g, e, scores),
	}
}

func computeScores(c colors.Analysis, sp spatial.Analysis, g geometry.Analysis, e effects.Analysis) Scores {
	minimalism := minimalismWhitespaceWeight*sp.WhitespacePercentage +
		minimalismEdgeWeight*(100-g.EdgeDensity)
	if c.PaletteType == "monochromatic" {
		minimalism += minimalismMonoBonus
	}
	if e.Shadows.Intensity == "none" || e.Shadows.Intensity == "subtle" {
		minimalism += minimalismQuietShadowBonus
	}

	colorScore := float64(len(c.DominantColors)) * complexityColorScale
	if colorScore > 100 {
		colorScore = 100
	}
	complexity := complexityEdgeWeight*g.EdgeDensity +
		complexityDensityWeight*sp.Density.Score +
		complexityColorWeight*colorScore
	if e.Gradients.Detected {
		complexity += complexityGradientBonus
	}

	modernness := modernnessBase + modernnessWhitespaceWeight*sp.WhitespacePercentage
	if g.CornerStyle == "rounded" || g.CornerStyle == "pill" {
		modernness += modernnessCornerBonus
	}
	if e.Depth.Style == "flat" || e.Depth.Style == "subtle" {
		modernness += modernnessDepthBonus
	}
	if e.Gradients.Detected {
		modernness += modernnessGradientBonus
	}
	if e.HasGlassmorphism {
		modernness += modernnessGlassBonus
	}
	if c.Saturation.Label == "vibrant" {
		modernness += modernnessVibrantBonus
	}

	elegance := eleganceWhitespaceWeight*sp.WhitespacePercentage +
		eleganceSaturationWeight*(100-c.Saturation.Score)
	if c.Contrast.Label == "high" {
		elegance += eleganceContrastBonus
	}
	if g.CornerStyle == "soft" || g.CornerStyle == "rounded" {
		elegance += eleganceCornerBonus
	}
	if c.PaletteType == "monochromatic" || c.PaletteType == "analogous" {
		elegance += elegancePaletteBonus
	}

	boldness := boldnessSaturationWeight*c.Saturation.Score +
		boldnessDensityWeight*(100-sp.WhitespacePercentage)
	if c.Contrast.Label == "high" {
		boldness += boldnessContrastBonus
	}
	if c.Temperature.Label == "warm" {
		boldness += boldnessWarmBonus
	}
	if e.Shadows.Intensity == "dramatic" {
		boldness += boldnessShadowBonus
	}

	return Scores{
		Minimalism: clamp(minimalism),
		Complexity: clamp(complexity),
		Modernness: clamp(modernness),
		Elegance:   clamp(elegance),
		Boldness:   clamp(boldness),
	}
}

// classifyIndustry accumulates seven independent heuristic scores; general
// starts at a base floor as the fallback. Ties break in enumeration order.
func classifyIndustry(c colors.Analysis, sp spatial.Analysis, e effects.Analysis, s Scores) (string, float64) {
	acc := map[string]float64{"general": generalBaseScore}

	cool := c.Temperature.Label == "cool"
	warm := c.Temperature.Label == "warm"
	highContrast := c.Contrast.Label == "high"
	asymmetric := sp.Balance == "asymmetric-left" || sp.Balance == "asymmetric-right" ||
		sp.Balance == "asymmetric-top" || sp.Balance == "asymmetric-bottom"

	if cool {
		acc["tech"] += 25
	}
	if c.Saturation.Label == "vibrant" || c.Saturation.Label == "moderate" {
		acc["tech"] += 20
	}
	if s.Modernness > 70 {
		acc["tech"] += 15
	}
	if c.LightnessDistribution.Dark > 40 {
		acc["tech"] += 10
	}

	if cool {
		acc["finance"] += 25
	}
	if highContrast {
		acc["finance"] += 20
	}
	if sp.Balance == "symmetric" || sp.Balance == "centered" {
		acc["finance"] += 15
	}
	if c.Saturation.Label == "desaturated" || c.Saturation.Label == "muted" {
		acc["finance"] += 15
	}
	if c.LightnessDistribution.Light > 50 {
		acc["finance"] += 10
	}

	if c.Saturation.Label == "vibrant" {
		acc["creative"] += 30
	}
	switch c.PaletteType {
	case "complementary", "triadic", "split-complementary":
		acc["creative"] += 20
	}
	if s.Boldness > 70 {
		acc["creative"] += 15
	}
	if asymmetric {
		acc["creative"] += 15
	}

	if c.LightnessDistribution.Light > 60 {
		acc["healthcare"] += 25
	}
	if cool || c.Temperature.Label == "neutral" {
		acc["healthcare"] += 20
	}
	if c.Saturation.Label == "muted" || c.Saturation.Label == "desaturated" {
		acc["healthcare"] += 15
	}
	if sp.Density.Label == "spacious" {
		acc["healthcare"] += 15
	}

	if warm {
		acc["ecommerce"] += 25
	}
	if sp.Density.Label == "dense" {
		acc["ecommerce"] += 20
	}
	if highContrast {
		acc["ecommerce"] += 15
	}
	if s.Boldness > 60 {
		acc["ecommerce"] += 10
	}

	if c.LightnessDistribution.Dark > 50 {
		acc["media"] += 25
	}
	if highContrast {
		acc["media"] += 20
	}
	if e.Shadows.Intensity == "dramatic" {
		acc["media"] += 15
	}
	if s.Boldness > 70 {
		acc["media"] += 10
	}

	winner := "general"
	best := -1.0
	for _, name := range industries {
		if acc[name] > best {
			best = acc[name]
			winner = name
		}
	}
	return winner, clamp(best)
}

// aestheticTags evaluates a fixed ordered rule list; the first eight
// matches are emitted in rule order.
func aestheticTags(c colors.Analysis, sp spatial.Analysis, g geometry.Analysis, e effects.Analysis, s Scores) []string {
	tags := []string{}
	add := func(ok bool, tag string) {
		if ok && len(tags) < aestheticTagLimit {
			tags = append(tags, tag)
		}
	}

	add(s.Minimalism > 70, "minimal")
	add(sp.WhitespacePercentage > 50, "clean")
	add(s.Boldness > 70, "bold")
	add(c.Saturation.Label == "vibrant", "vibrant")
	add(c.Saturation.Label == "muted" || c.Saturation.Label == "desaturated", "muted")
	add(c.LightnessDistribution.Dark > 50, "dark-mode")
	add(c.LightnessDistribution.Light > 60 && sp.WhitespacePercentage > 40, "light-airy")
	add(c.Contrast.Label == "high", "high-contrast")
	add(e.Gradients.Count > 5, "gradient-rich")
	add(e.HasGlassmorphism, "glassy")
	add(g.Linearity > 70, "geometric")
	add(g.Shapes.Organic > g.Shapes.Rectangles, "organic")
	add(c.Temperature.Label == "warm", "warm-toned")
	add(c.Temperature.Label == "cool", "cool-toned")
	add(s.Elegance > 70, "elegant")
	add(s.Boldness > 60 && c.Saturation.Label == "vibrant", "energetic")

	return tags
}

// era applies the priority chain: flat minimal reads modern, glass or pill
// corners read futuristic, dramatic shadows with sharp corners read
// classic, and modern is the default.
func era(g geometry.Analysis, e effects.Analysis, s Scores) string {
	switch {
	case e.Depth.Style == "flat" && s.Minimalism > minimalismModernEraMin:
		return "modern"
	case e.HasGlassmorphism || g.CornerStyle == "pill":
		return "futuristic"
	case e.Shadows.Intensity == "dramatic" && g.CornerStyle == "sharp":
		return "classic"
	default:
		return "modern"
	}
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
