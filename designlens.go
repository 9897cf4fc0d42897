// Package designlens extracts a structured visual design system from a
// raster image: color roles, spatial layout, geometry, rendered effects and
// an overall style profile.
//
// The engine is a deterministic five-stage pipeline over a decoded RGBA
// bitmap. No stage performs I/O or network calls; image decoding and
// downscaling live in pkg/bitmap as a collaborator in front of the
// pipeline.
//
// Basic usage:
//
//	package main
//
//	import (
//		"fmt"
//		"log"
//
//		"github.com/designlens/designlens"
//	)
//
//	func main() {
//		engine := designlens.New()
//
//		result, err := engine.AnalyzeFile("screenshot.png")
//		if err != nil {
//			log.Fatal(err)
//		}
//
//		fmt.Printf("palette: %+v\n", result.Colors.Palette)
//		fmt.Printf("industry: %s (%.0f%%)\n", result.Style.Industry, result.Style.IndustryConfidence)
//		fmt.Printf("era: %s, tags: %v\n", result.Style.Era, result.Style.AestheticTags)
//	}
//
// The pipeline stages run in a fixed order: the color, spatial and
// geometry analyzers read only the bitmap; the effects analyzer also
// consumes the color analysis; the style analyzer consumes all four. Each
// invocation builds fresh value records and shares no state, so callers
// may analyze multiple images concurrently with one Engine.
//
// Degenerate input (fully transparent, single-color, tiny images) never
// produces an error: every analyzer falls back to documented constants and
// the result is always fully populated.
package designlens

import (
	"fmt"
	"image"
	"io"
	"time"

	"github.com/designlens/designlens/pkg/bitmap"
	"github.com/designlens/designlens/pkg/colors"
	"github.com/designlens/designlens/pkg/effects"
	"github.com/designlens/designlens/pkg/geometry"
	"github.com/designlens/designlens/pkg/spatial"
	"github.com/designlens/designlens/pkg/style"
)

// Version of the designlens library.
const Version = "1.0.0"

// Config aggregates the per-stage configurations.
type Config struct {
	Loader   bitmap.Config
	Colors   colors.Config
	Spatial  spatial.Config
	Geometry geometry.Config
	Effects  effects.Config
}

// DefaultConfig returns the default configuration for every stage.
func DefaultConfig() Config {
	return Config{
		Loader:   bitmap.DefaultConfig(),
		Colors:   colors.DefaultConfig(),
		Spatial:  spatial.DefaultConfig(),
		Geometry: geometry.DefaultConfig(),
		Effects:  effects.DefaultConfig(),
	}
}

// Metadata describes the analyzed source and the analysis run. Width and
// Height are the original pre-downscale dimensions.
type Metadata struct {
	Width            int       `json:"width"`
	Height           int       `json:"height"`
	AspectRatio      float64   `json:"aspectRatio"`
	AnalyzedAt       time.Time `json:"analyzedAt"`
	ProcessingTimeMS float64   `json:"processingTime"`
}

// Result aggregates the five analyses plus run metadata.
type Result struct {
	Colors   colors.Analysis   `json:"colors"`
	Spatial  spatial.Analysis  `json:"spatial"`
	Geometry geometry.Analysis `json:"geometry"`
	Effects  effects.Analysis  `json:"effects"`
	Style    style.Analysis    `json:"style"`
	Metadata Metadata          `json:"metadata"`
}

// Engine runs the analysis pipeline.
type Engine struct {
	loader   *bitmap.Loader
	colors   *colors.Analyzer
	spatial  *spatial.Analyzer
	geometry *geometry.Analyzer
	effects  *effects.Analyzer
	style    *style.Analyzer
}

// New creates an Engine with default configuration.
func New() *Engine {
	return NewWithConfig(DefaultConfig())
}

// NewWithConfig creates an Engine with custom per-stage configuration.
func NewWithConfig(config Config) *Engine {
	return &Engine{
		loader:   bitmap.NewLoaderWithConfig(config.Loader),
		colors:   colors.NewWithConfig(config.Colors),
		spatial:  spatial.NewWithConfig(config.Spatial),
		geometry: geometry.NewWithConfig(config.Geometry),
		effects:  effects.NewWithConfig(config.Effects),
		style:    style.New(),
	}
}

// AnalyzeBitmap runs the pipeline on an analysis-ready bitmap. meta carries
// the original pre-downscale dimensions for the result metadata; pass the
// bitmap's own dimensions when no downscaling happened.
func (e *Engine) AnalyzeBitmap(bm *bitmap.Bitmap, meta bitmap.Meta) Result {
	start := time.Now()

	c := e.colors.Analyze(bm)
	sp := e.spatial.Analyze(bm)
	g := e.geometry.Analyze(bm)
	ef := e.effects.Analyze(bm, c)
	st := e.style.Analyze(c, sp, g, ef)

	aspect := 0.0
	if meta.Height > 0 {
		aspect = float64(meta.Width) / float64(meta.Height)
	}

	return Result{
		Colors:   c,
		Spatial:  sp,
		Geometry: g,
		Effects:  ef,
		Style:    st,
		Metadata: Metadata{
			Width:            meta.Width,
			Height:           meta.Height,
			AspectRatio:      aspect,
			AnalyzedAt:       start,
			ProcessingTimeMS: float64(time.Since(start)) / float64(time.Millisecond),
		},
	}
}

// AnalyzeImage converts a decoded image (downscaling to the default
// dimension cap) and runs the pipeline.
func (e *Engine) AnalyzeImage(img image.Image) Result {
	b := img.Bounds()
	meta := bitmap.Meta{Width: b.Dx(), Height: b.Dy()}
	return e.AnalyzeBitmap(bitmap.FromImage(img, bitmap.DefaultMaxDimension), meta)
}

// AnalyzeFile loads an image file and runs the pipeline.
func (e *Engine) AnalyzeFile(path string) (Result, error) {
	bm, meta, err := e.loader.Load(path)
	if err != nil {
		return Result{}, fmt.Errorf("failed to load image: %w", err)
	}
	return e.AnalyzeBitmap(bm, meta), nil
}

// AnalyzeReader decodes an image from a reader and runs the pipeline.
func (e *Engine) AnalyzeReader(r io.Reader) (Result, error) {
	bm, meta, err := e.loader.LoadFromReader(r)
	if err != nil {
		return Result{}, fmt.Errorf("failed to decode image: %w", err)
	}
	return e.AnalyzeBitmap(bm, meta), nil
}

// AnalyzeURL downloads an image and runs the pipeline.
func (e *Engine) AnalyzeURL(url string) (Result, error) {
	bm, meta, err := e.loader.LoadFromURL(url)
	if err != nil {
		return Result{}, fmt.Errorf("failed to download image: %w", err)
	}
	return e.AnalyzeBitmap(bm, meta), nil
}

// AnalyzeSource loads an image from a file path or http(s) URL and runs the
// pipeline.
func (e *Engine) AnalyzeSource(source string) (Result, error) {
	bm, meta, err := e.loader.LoadSmart(source)
	if err != nil {
		return Result{}, fmt.Errorf("failed to load image: %w", err)
	}
	return e.AnalyzeBitmap(bm, meta), nil
}

// GetVersion returns the library version.
func GetVersion() string {
	return Version
}
