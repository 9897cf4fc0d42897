// Package spatial analyzes the layout of an image: whitespace, density,
// regional visual weight, balance, column-grid hints and focal points.
package spatial

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/designlens/designlens/pkg/bitmap"
)

// Config holds configuration for the spatial analyzer.
type Config struct {
	// WhitespaceLightness is the minimum lightness (percent) for a pixel
	// to count as whitespace.
	WhitespaceLightness float64
	// WhitespaceSaturation is the maximum saturation (percent) for a
	// pixel to count as whitespace.
	WhitespaceSaturation float64
	// GridColumns is the number of probe columns for grid detection.
	GridColumns int
	// GridRowStep is the vertical sampling step for grid detection.
	GridRowStep int
}

// DefaultConfig returns the default spatial analyzer configuration.
func DefaultConfig() Config {
	return Config{
		WhitespaceLightness:  90,
		WhitespaceSaturation: 10,
		GridColumns:          20,
		GridRowStep:          10,
	}
}

const (
	densityDenseMin    = 70
	densityBalancedMin = 40

	balanceDirectionalDelta = 20
	balanceSymmetricDelta   = 15
	balanceCenteredWeight   = 60

	gridConsistencyLumDelta = 50
	gridPeakFactor          = 1.2
	gridConfidencePerPeak   = 15
	maxColumns              = 12

	focalGridSize  = 5
	focalMinWeight = 0.6
	maxFocalPoints = 5
)

// Density classifies how packed the layout is. Score = 100 - whitespace%.
type Density struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// VisualWeight is the per-region attention weight, rescaled so the heaviest
// region is 100. Regions overlap; a pixel may contribute to several.
type VisualWeight struct {
	Top    float64 `json:"top"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
	Right  float64 `json:"right"`
	Center float64 `json:"center"`
}

// GridDetection is a coarse column-grid estimate.
type GridDetection struct {
	PossibleColumns int     `json:"possibleColumns"`
	Confidence      float64 `json:"confidence"`
}

// FocalPoint is a visually heavy cell center in normalized coordinates.
type FocalPoint struct {
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Intensity float64 `json:"intensity"`
}

// Analysis is the complete spatial output.
type Analysis struct {
	Density              Density       `json:"density"`
	WhitespacePercentage float64       `json:"whitespacePercentage"`
	VisualWeight         VisualWeight  `json:"visualWeight"`
	Balance              string        `json:"balance"`
	GridDetection        GridDetection `json:"gridDetection"`
	FocalPoints          []FocalPoint  `json:"focalPoints"`
}

// Analyzer computes spatial layout metrics.
type Analyzer struct {
	config Config
}

// New creates an Analyzer with default configuration.
func New() *Analyzer {
	return &Analyzer{config: DefaultConfig()}
}

// NewWithConfig creates an Analyzer with custom configuration.
func NewWithConfig(config Config) *Analyzer {
	if config.GridColumns < 1 {
		config.GridColumns = 1
	}
	if config.GridRowStep < 1 {
		config.GridRowStep = 1
	}
	return &Analyzer{config: config}
}

type regionAcc struct {
	sum   float64
	count int
}

func (r *regionAcc) add(w float64) {
	r.sum += w
	r.count++
}

func (r *regionAcc) mean() float64 {
	if r.count == 0 {
		return 0
	}
	return r.sum / float64(r.count)
}

// Analyze computes the spatial layout of a bitmap in a single
// full-resolution pass.
func (a *Analyzer) Analyze(bm *bitmap.Bitmap) Analysis {
	w, h := bm.Width, bm.Height
	total := w * h
	if total == 0 {
		return Analysis{
			Density:       Density{Label: "spacious", Score: 0},
			VisualWeight:  VisualWeight{},
			Balance:       "symmetric",
			GridDetection: GridDetection{PossibleColumns: 1, Confidence: 0},
		}
	}

	lum := make([]float64, total)
	whitespace := 0

	var top, bottom, left, right, center regionAcc
	cx, cy := float64(w)/2, float64(h)/2
	centerRadius := math.Min(float64(w), float64(h)) / 4

	// Focal accumulation over a fixed coarse grid.
	var cellSum [focalGridSize][focalGridSize]float64
	var cellCount [focalGridSize][focalGridSize]int

	i := 0
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b, _ := bm.Pix[i], bm.Pix[i+1], bm.Pix[i+2], bm.Pix[i+3]
			i += 4

			l := bitmap.Luminance(r, g, b)
			_, s, lt := bitmap.HSL(r, g, b)
			weight := (255-l)/255 + s/200

			lum[y*w+x] = l

			if lt > a.config.WhitespaceLightness && s < a.config.WhitespaceSaturation {
				whitespace++
			}

			if y < h/3 {
				top.add(weight)
			}
			if y >= h*2/3 {
				bottom.add(weight)
			}
			if x < w/3 {
				left.add(weight)
			}
			if x >= w*2/3 {
				right.add(weight)
			}
			dx, dy := float64(x)-cx, float64(y)-cy
			if math.Sqrt(dx*dx+dy*dy) < centerRadius {
				center.add(weight)
			}

			gx := x * focalGridSize / w
			gy := y * focalGridSize / h
			cellSum[gy][gx] += weight
			cellCount[gy][gx]++
		}
	}

	whitespacePct := float64(whitespace) / float64(total) * 100
	vw := scaleWeights(top.mean(), bottom.mean(), left.mean(), right.mean(), center.mean())

	return Analysis{
		Density:              density(100 - whitespacePct),
		WhitespacePercentage: whitespacePct,
		VisualWeight:         vw,
		Balance:              balance(vw),
		GridDetection:        a.detectGrid(lum, w, h),
		FocalPoints:          focalPoints(cellSum, cellCount),
	}
}

// scaleWeights rescales region means so the heaviest region reads 100.
func scaleWeights(top, bottom, left, right, center float64) VisualWeight {
	maxW := math.Max(top, math.Max(bottom, math.Max(left, math.Max(right, center))))
	if maxW == 0 {
		return VisualWeight{}
	}
	f := 100 / maxW
	return VisualWeight{
		Top:    top * f,
		Bottom: bottom * f,
		Left:   left * f,
		Right:  right * f,
		Center: center * f,
	}
}

func density(score float64) Density {
	label := "spacious"
	switch {
	case score >= densityDenseMin:
		label = "dense"
	case score >= densityBalancedMin:
		label = "balanced"
	}
	return Density{Label: label, Score: score}
}

// balance classifies weight distribution from the left-right and top-bottom
// deltas.
func balance(vw VisualWeight) string {
	dLR := vw.Left - vw.Right
	dTB := vw.Top - vw.Bottom

	switch {
	case dLR > balanceDirectionalDelta:
		return "asymmetric-left"
	case dLR < -balanceDirectionalDelta:
		return "asymmetric-right"
	case dTB > balanceDirectionalDelta:
		return "asymmetric-top"
	case dTB < -balanceDirectionalDelta:
		return "asymmetric-bottom"
	}

	if math.Abs(dLR) < balanceSymmetricDelta && math.Abs(dTB) < balanceSymmetricDelta &&
		vw.Center > balanceCenteredWeight {
		return "centered"
	}
	return "symmetric"
}

// detectGrid probes evenly spaced columns for vertical luminance
// consistency; columns well above the mean consistency count as grid peaks.
func (a *Analyzer) detectGrid(lum []float64, w, h int) GridDetection {
	cols := a.config.GridColumns
	step := a.config.GridRowStep
	if w < cols || h <= step {
		return GridDetection{PossibleColumns: 1, Confidence: 0}
	}

	consistency := make([]float64, cols)
	for c := 0; c < cols; c++ {
		x := c * w / cols
		score := 0.0
		for y := 0; y+step < h; y += step {
			if math.Abs(lum[y*w+x]-lum[(y+step)*w+x]) < gridConsistencyLumDelta {
				score++
			}
		}
		consistency[c] = score
	}

	mean := stat.Mean(consistency, nil)
	peaks := 0
	if mean > 0 {
		for _, s := range consistency {
			if s > mean*gridPeakFactor {
				peaks++
			}
		}
	}

	columns := peaks
	if columns < 1 {
		columns = 1
	}
	if columns > maxColumns {
		columns = maxColumns
	}
	return GridDetection{
		PossibleColumns: columns,
		Confidence:      math.Min(100, float64(peaks)*gridConfidencePerPeak),
	}
}

// focalPoints reports the heaviest cells of a 5x5 partition as normalized
// coordinates, strongest first.
func focalPoints(cellSum [focalGridSize][focalGridSize]float64, cellCount [focalGridSize][focalGridSize]int) []FocalPoint {
	var points []FocalPoint
	for gy := 0; gy < focalGridSize; gy++ {
		for gx := 0; gx < focalGridSize; gx++ {
			if cellCount[gy][gx] == 0 {
				continue
			}
			avg := cellSum[gy][gx] / float64(cellCount[gy][gx])
			if avg > focalMinWeight {
				points = append(points, FocalPoint{
					X:         (float64(gx) + 0.5) / focalGridSize,
					Y:         (float64(gy) + 0.5) / focalGridSize,
					Intensity: avg,
				})
			}
		}
	}
	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Intensity > points[j].Intensity
	})
	if len(points) > maxFocalPoints {
		points = points[:maxFocalPoints]
	}
	return points
}
