// Package effects detects rendered visual effects: gradients, shadows,
// depth style, glassmorphism and noise.
package effects

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/stat"

	"github.com/designlens/designlens/pkg/bitmap"
	"github.com/designlens/designlens/pkg/colors"
)

// Config holds configuration for the effects analyzer.
type Config struct {
	// GradientGrid is the number of blocks per axis for gradient
	// detection.
	GradientGrid int
	// GlassSamples is the number of random neighborhoods probed for
	// glassmorphism.
	GlassSamples int
	// Seed initializes the glassmorphism sampler. A fixed seed makes the
	// whole pipeline deterministic for identical input.
	Seed int64
}

// DefaultConfig returns the default effects analyzer configuration.
func DefaultConfig() Config {
	return Config{
		GradientGrid: 10,
		GlassSamples: 50,
		Seed:         1,
	}
}

const (
	gradientAxisMin     = 20
	gradientAxisMax     = 150
	gradientDiagMax     = 200
	gradientDiagAxisCap = 100
	gradientDetectShare = 0.1

	shadowDarkLightness  = 30
	shadowDarkSaturation = 30
	shadowCoreLightness  = 15
	shadowScoreFactor    = 1000
	shadowSubtleMin      = 5
	shadowMediumMin      = 20
	shadowDramaticMin    = 50
	shadowDirectionMin   = 10

	depthShadowWeight   = 0.4
	depthContrastWeight = 3
	depthDarkBonus      = 20
	depthDarkShareMin   = 20
	depthSubtleMin      = 20
	depthMaterialMin    = 40
	depthNeumorphicMin  = 70

	glassBlurDeviationMin = 3
	glassBlurDeviationMax = 15
	glassScoreFactor      = 150
	glassDetectMin        = 30

	noiseDeltaMin  = 5
	noiseDeltaMax  = 20
	noiseDetectMin = 10
)

// Gradients describes detected gradient regions.
type Gradients struct {
	Detected   bool     `json:"detected"`
	Count      int      `json:"count"`
	Directions []string `json:"directions"`
	Types      []string `json:"types"`
}

// Shadows describes detected shadow usage. Direction is a fixed heuristic:
// "bottom-right" above the score cutoff, "none" otherwise.
type Shadows struct {
	Intensity string  `json:"intensity"`
	Score     float64 `json:"score"`
	Direction string  `json:"direction"`
}

// Depth classifies the perceived depth treatment.
type Depth struct {
	Style string  `json:"style"`
	Score float64 `json:"score"`
}

// Analysis is the complete effects output.
type Analysis struct {
	HasGlassmorphism   bool      `json:"hasGlassmorphism"`
	GlassmorphismScore float64   `json:"glassmorphismScore"`
	Gradients          Gradients `json:"gradients"`
	Shadows            Shadows   `json:"shadows"`
	Depth              Depth     `json:"depth"`
	HasNoise           bool      `json:"hasNoise"`
	NoiseLevel         float64   `json:"noiseLevel"`
}

// Analyzer detects rendered effects. It consumes the color analysis for
// contrast and lightness context.
type Analyzer struct {
	config Config
}

// New creates an Analyzer with default configuration.
func New() *Analyzer {
	return &Analyzer{config: DefaultConfig()}
}

// NewWithConfig creates an Analyzer with custom configuration.
func NewWithConfig(config Config) *Analyzer {
	if config.GradientGrid < 1 {
		config.GradientGrid = 1
	}
	if config.GlassSamples < 1 {
		config.GlassSamples = 1
	}
	return &Analyzer{config: config}
}

// Analyze detects effects in a bitmap, using the color analysis for depth
// scoring.
func (a *Analyzer) Analyze(bm *bitmap.Bitmap, c colors.Analysis) Analysis {
	shadows := a.detectShadows(bm)
	glass := a.detectGlassmorphism(bm)
	noise := a.detectNoise(bm)

	return Analysis{
		HasGlassmorphism:   glass > glassDetectMin,
		GlassmorphismScore: glass,
		Gradients:          a.detectGradients(bm),
		Shadows:            shadows,
		Depth:              depth(shadows.Score, c),
		HasNoise:           noise > noiseDetectMin,
		NoiseLevel:         noise,
	}
}

// detectGradients tiles the image into blocks and compares corner colors.
// Smooth but nonzero corner drift along an axis marks a gradient region.
func (a *Analyzer) detectGradients(bm *bitmap.Bitmap) Gradients {
	grid := a.config.GradientGrid
	w, h := bm.Width, bm.Height
	bw, bh := w/grid, h/grid
	if bw < 2 || bh < 2 {
		return Gradients{Directions: []string{}, Types: []string{}}
	}

	regions := 0
	dirSeen := map[string]bool{}
	var directions []string
	typeSeen := map[string]bool{}
	var types []string

	addDir := func(d string) {
		if !dirSeen[d] {
			dirSeen[d] = true
			directions = append(directions, d)
		}
	}
	addType := func(t string) {
		if !typeSeen[t] {
			typeSeen[t] = true
			types = append(types, t)
		}
	}

	for by := 0; by < grid; by++ {
		for bx := 0; bx < grid; bx++ {
			x0, y0 := bx*bw, by*bh
			x1, y1 := x0+bw-1, y0+bh-1

			tl := pixel(bm, x0, y0)
			tr := pixel(bm, x1, y0)
			bl := pixel(bm, x0, y1)
			br := pixel(bm, x1, y1)

			hDist := colorDistance(tl, tr) + colorDistance(bl, br)
			vDist := colorDistance(tl, bl) + colorDistance(tr, br)
			dDist := colorDistance(tl, br)

			gradient := false
			if hDist > gradientAxisMin && hDist < gradientAxisMax && hDist >= vDist {
				gradient = true
				addDir("horizontal")
				addType("linear")
			}
			if vDist > gradientAxisMin && vDist < gradientAxisMax && vDist > hDist {
				gradient = true
				addDir("vertical")
				addType("linear")
			}
			if dDist > gradientAxisMin && dDist < gradientDiagMax &&
				hDist < gradientDiagAxisCap && vDist < gradientDiagAxisCap {
				gradient = true
				addDir("diagonal")
				addType("radial")
			}
			if gradient {
				regions++
			}
		}
	}

	if directions == nil {
		directions = []string{}
	}
	if types == nil {
		types = []string{}
	}
	return Gradients{
		Detected:   float64(regions)/float64(grid*grid) > gradientDetectShare,
		Count:      regions,
		Directions: directions,
		Types:      types,
	}
}

// detectShadows counts dark desaturated pixels and the deep-shadow subset.
func (a *Analyzer) detectShadows(bm *bitmap.Bitmap) Shadows {
	total := bm.Width * bm.Height
	if total == 0 {
		return Shadows{Intensity: "none", Score: 0, Direction: "none"}
	}

	shadow := 0
	for i := 0; i+3 < len(bm.Pix); i += 4 {
		_, s, l := bitmap.HSL(bm.Pix[i], bm.Pix[i+1], bm.Pix[i+2])
		if l < shadowDarkLightness && s < shadowDarkSaturation && l < shadowCoreLightness {
			shadow++
		}
	}

	score := math.Min(100, float64(shadow)/float64(total)*shadowScoreFactor)
	intensity := "none"
	switch {
	case score >= shadowDramaticMin:
		intensity = "dramatic"
	case score >= shadowMediumMin:
		intensity = "medium"
	case score >= shadowSubtleMin:
		intensity = "subtle"
	}

	// The direction field is a contractual simplification, not a real
	// directional estimate.
	direction := "none"
	if score > shadowDirectionMin {
		direction = "bottom-right"
	}

	return Shadows{Intensity: intensity, Score: score, Direction: direction}
}

func depth(shadowScore float64, c colors.Analysis) Depth {
	score := shadowScore*depthShadowWeight + c.Contrast.Ratio*depthContrastWeight
	if c.LightnessDistribution.Dark > depthDarkShareMin {
		score += depthDarkBonus
	}

	style := "flat"
	switch {
	case score >= depthNeumorphicMin:
		style = "neumorphic"
	case score >= depthMaterialMin:
		style = "material"
	case score >= depthSubtleMin:
		style = "subtle"
	}
	return Depth{Style: style, Score: score}
}

// detectGlassmorphism probes random 5x5 neighborhoods for the
// low-but-nonzero local variance characteristic of frosted-glass blur. The
// sampler is seeded per call, so results are reproducible.
func (a *Analyzer) detectGlassmorphism(bm *bitmap.Bitmap) float64 {
	w, h := bm.Width, bm.Height
	if w < 5 || h < 5 {
		return 0
	}

	rng := rand.New(rand.NewSource(a.config.Seed))
	blurred := 0
	deviations := make([]float64, 0, 24*3)

	for s := 0; s < a.config.GlassSamples; s++ {
		x := 2 + rng.Intn(w-4)
		y := 2 + rng.Intn(h-4)
		center := pixel(bm, x, y)

		deviations = deviations[:0]
		for dy := -2; dy <= 2; dy++ {
			for dx := -2; dx <= 2; dx++ {
				if dx == 0 && dy == 0 {
					continue
				}
				p := pixel(bm, x+dx, y+dy)
				deviations = append(deviations,
					math.Abs(p[0]-center[0]), math.Abs(p[1]-center[1]), math.Abs(p[2]-center[2]))
			}
		}

		dev := stat.Mean(deviations, nil)
		if dev > glassBlurDeviationMin && dev < glassBlurDeviationMax {
			blurred++
		}
	}

	return math.Min(100, float64(blurred)/float64(a.config.GlassSamples)*glassScoreFactor)
}

// detectNoise counts horizontally adjacent pixels whose summed channel
// delta sits in the band typical of film grain or texture noise.
func (a *Analyzer) detectNoise(bm *bitmap.Bitmap) float64 {
	w, h := bm.Width, bm.Height
	total := w * h
	if total == 0 || w < 2 {
		return 0
	}

	noisy := 0
	for y := 0; y < h; y++ {
		row := y * w * 4
		for x := 0; x < w-1; x++ {
			i := row + x*4
			d := absDiff(bm.Pix[i], bm.Pix[i+4]) +
				absDiff(bm.Pix[i+1], bm.Pix[i+5]) +
				absDiff(bm.Pix[i+2], bm.Pix[i+6])
			if d > noiseDeltaMin && d < noiseDeltaMax {
				noisy++
			}
		}
	}

	return float64(noisy) / float64(total) * 100
}

func pixel(bm *bitmap.Bitmap, x, y int) [3]float64 {
	i := 4 * (y*bm.Width + x)
	return [3]float64{float64(bm.Pix[i]), float64(bm.Pix[i+1]), float64(bm.Pix[i+2])}
}

func colorDistance(a, b [3]float64) float64 {
	dr := a[0] - b[0]
	dg := a[1] - b[1]
	db := a[2] - b[2]
	return math.Sqrt(dr*dr + dg*dg + db*db)
}

func absDiff(a, b byte) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}
