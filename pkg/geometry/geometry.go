// Package geometry analyzes the structural geometry of an image: edge
// density, corner style, estimated corner radius and coarse shape counts.
package geometry

import (
	"math"

	"github.com/designlens/designlens/pkg/bitmap"
)

// Config holds configuration for the geometry analyzer.
type Config struct {
	// EdgeThreshold is the minimum Sobel gradient magnitude for a pixel
	// to count as an edge.
	EdgeThreshold float64
	// ProbeGridSize is the side length of the corner probe grid.
	ProbeGridSize int
}

// DefaultConfig returns the default geometry analyzer configuration.
func DefaultConfig() Config {
	return Config{
		EdgeThreshold: 50,
		ProbeGridSize: 20,
	}
}

const (
	probeNeighborhood = 2 // probes inspect a 5x5 edge neighborhood

	sharpMinAxisEdges   = 2
	sharpMaxDiagonals   = 3
	roundedMinDiagonals = 3

	cornerSharpMax   = 0.2
	cornerSoftMax    = 0.4
	cornerRoundedMax = 0.7
	cornerPillMax    = 0.9

	radiusSharp   = 2
	radiusSoft    = 6
	radiusRounded = 12
	radiusPill    = 24
	radiusMixed   = 10

	circleShare  = 0.3
	organicShare = 0.7
)

// Edge orientation classes.
const (
	orientNone byte = iota
	orientHorizontal
	orientVertical
	orientDiagonal
)

// EstimatedRadius is the corner radius estimate in pixels.
type EstimatedRadius struct {
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Average float64 `json:"average"`
}

// Shapes holds coarse shape counts derived from corner probes. The counts
// are raw, not normalized.
type Shapes struct {
	Rectangles int `json:"rectangles"`
	Circles    int `json:"circles"`
	Organic    int `json:"organic"`
}

// Analysis is the complete geometry output.
type Analysis struct {
	CornerStyle     string          `json:"cornerStyle"`
	EstimatedRadius EstimatedRadius `json:"estimatedRadius"`
	EdgeDensity     float64         `json:"edgeDensity"`
	Linearity       float64         `json:"linearity"`
	Shapes          Shapes          `json:"shapes"`
}

// Analyzer computes geometric structure metrics.
type Analyzer struct {
	config Config
}

// New creates an Analyzer with default configuration.
func New() *Analyzer {
	return &Analyzer{config: DefaultConfig()}
}

// NewWithConfig creates an Analyzer with custom configuration.
func NewWithConfig(config Config) *Analyzer {
	if config.EdgeThreshold <= 0 {
		config.EdgeThreshold = 50
	}
	if config.ProbeGridSize < 1 {
		config.ProbeGridSize = 1
	}
	return &Analyzer{config: config}
}

// Analyze detects edges with a Sobel operator and classifies corner probes
// into sharp and rounded to derive corner style, radius and shape counts.
func (a *Analyzer) Analyze(bm *bitmap.Bitmap) Analysis {
	w, h := bm.Width, bm.Height
	if w < 3 || h < 3 {
		return defaultAnalysis()
	}

	lum := make([]float64, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := 4 * (y*w + x)
			lum[y*w+x] = bitmap.Luminance(bm.Pix[i], bm.Pix[i+1], bm.Pix[i+2])
		}
	}

	// Sobel over the interior, excluding the 1px border.
	orient := make([]byte, w*h)
	edges := 0
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			gx := -lum[(y-1)*w+x-1] + lum[(y-1)*w+x+1] +
				-2*lum[y*w+x-1] + 2*lum[y*w+x+1] +
				-lum[(y+1)*w+x-1] + lum[(y+1)*w+x+1]
			gy := -lum[(y-1)*w+x-1] - 2*lum[(y-1)*w+x] - lum[(y-1)*w+x+1] +
				lum[(y+1)*w+x-1] + 2*lum[(y+1)*w+x] + lum[(y+1)*w+x+1]

			if math.Sqrt(gx*gx+gy*gy) <= a.config.EdgeThreshold {
				continue
			}
			edges++
			agx, agy := math.Abs(gx), math.Abs(gy)
			switch {
			case agx > agy:
				orient[y*w+x] = orientHorizontal
			case agy > agx:
				orient[y*w+x] = orientVertical
			default:
				orient[y*w+x] = orientDiagonal
			}
		}
	}

	sharp, rounded := a.probeCorners(orient, w, h)

	roundedRatio := 0.5
	if sharp+rounded > 0 {
		roundedRatio = float64(rounded) / float64(sharp+rounded)
	}

	style, radius := cornerStyle(roundedRatio)

	return Analysis{
		CornerStyle: style,
		EstimatedRadius: EstimatedRadius{
			Min:     math.Max(0, radius-4),
			Max:     radius + 8,
			Average: radius,
		},
		EdgeDensity: float64(edges) / float64(w*h) * 100,
		Linearity:   clamp((1-roundedRatio)*80+20, 0, 100),
		Shapes: Shapes{
			Rectangles: sharp,
			Circles:    int(float64(rounded) * circleShare),
			Organic:    int(float64(rounded) * organicShare),
		},
	}
}

// probeCorners samples a fixed grid of probe points and classifies each by
// the edge orientations in its 5x5 neighborhood: crossing horizontal and
// vertical edges with few diagonals reads as a sharp corner, diagonal-heavy
// neighborhoods as rounded.
func (a *Analyzer) probeCorners(orient []byte, w, h int) (sharp, rounded int) {
	grid := a.config.ProbeGridSize
	for py := 0; py < grid; py++ {
		for px := 0; px < grid; px++ {
			x := px * w / grid
			y := py * h / grid
			if x < probeNeighborhood || y < probeNeighborhood ||
				x >= w-probeNeighborhood || y >= h-probeNeighborhood {
				continue
			}

			var hEdges, vEdges, dEdges int
			for dy := -probeNeighborhood; dy <= probeNeighborhood; dy++ {
				for dx := -probeNeighborhood; dx <= probeNeighborhood; dx++ {
					switch orient[(y+dy)*w+x+dx] {
					case orientHorizontal:
						hEdges++
					case orientVertical:
						vEdges++
					case orientDiagonal:
						dEdges++
					}
				}
			}

			if hEdges > sharpMinAxisEdges && vEdges > sharpMinAxisEdges && dEdges < sharpMaxDiagonals {
				sharp++
			} else if dEdges > roundedMinDiagonals {
				rounded++
			}
		}
	}
	return sharp, rounded
}

func cornerStyle(roundedRatio float64) (string, float64) {
	switch {
	case roundedRatio < cornerSharpMax:
		return "sharp", radiusSharp
	case roundedRatio < cornerSoftMax:
		return "soft", radiusSoft
	case roundedRatio < cornerRoundedMax:
		return "rounded", radiusRounded
	case roundedRatio < cornerPillMax:
		return "pill", radiusPill
	default:
		return "mixed", radiusMixed
	}
}

func defaultAnalysis() Analysis {
	style, radius := cornerStyle(0.5)
	return Analysis{
		CornerStyle: style,
		EstimatedRadius: EstimatedRadius{
			Min:     math.Max(0, radius-4),
			Max:     radius + 8,
			Average: radius,
		},
		EdgeDensity: 0,
		Linearity:   clamp((1-0.5)*80+20, 0, 100),
		Shapes:      Shapes{},
	}
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
