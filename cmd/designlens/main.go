package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/designlens/designlens"
	"github.com/designlens/designlens/internal/config"
	"github.com/designlens/designlens/internal/utils"
	"github.com/designlens/designlens/pkg/palette"
)

func main() {
	var in, out, cfgPath string
	var pretty, quiet, swatch bool
	var seed int64
	var swatchColors int
	var kmeansSwatch bool

	flag.StringVar(&in, "in", "", "input image path, URL or directory")
	flag.StringVar(&out, "out", "", "output JSON file or directory (default: stdout)")
	flag.StringVar(&cfgPath, "config", "", "JSON config file (see internal/config)")
	flag.BoolVar(&pretty, "pretty", true, "indent JSON output")
	flag.BoolVar(&quiet, "quiet", false, "log errors only")
	flag.BoolVar(&swatch, "swatch", false, "also write a palette swatch PNG next to the report")
	flag.IntVar(&swatchColors, "swatch-colors", 0, "number of swatch colors (default from config)")
	flag.BoolVar(&kmeansSwatch, "kmeans", false, "use kmeans swatch extraction instead of dominant colors")
	flag.Int64Var(&seed, "seed", 0, "glassmorphism sampler seed (0 = config default)")
	flag.Parse()

	logger := newLogger(quiet)
	defer logger.Sync()

	if in == "" {
		fmt.Fprintf(os.Stderr, "usage: %s -in input.png|URL|dir [-out report.json|dir] [-swatch] [-config config.json]\n",
			filepath.Base(os.Args[0]))
		os.Exit(2)
	}

	cfg := config.Default()
	if cfgPath != "" {
		loaded, err := config.LoadFromFile(cfgPath)
		if err != nil {
			logger.Fatal("failed to load config", zap.String("path", cfgPath), zap.Error(err))
		}
		cfg = loaded
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal("invalid config", zap.Error(err))
	}
	if seed != 0 {
		cfg.Effects.Seed = seed
	}
	if swatchColors > 0 {
		cfg.Output.SwatchColors = swatchColors
	}
	cfg.Output.Pretty = pretty

	loaderCfg, colorsCfg, spatialCfg, geometryCfg, effectsCfg := cfg.StageConfigs()
	engine := designlens.NewWithConfig(designlens.Config{
		Loader:   loaderCfg,
		Colors:   colorsCfg,
		Spatial:  spatialCfg,
		Geometry: geometryCfg,
		Effects:  effectsCfg,
	})

	app := &app{
		engine: engine,
		cfg:    cfg,
		logger: logger,
		out:    out,
		swatch: swatch,
		kmeans: kmeansSwatch,
	}

	if utils.DirExists(in) {
		app.runBatch(in)
		return
	}
	app.runOne(in, out)
}

type app struct {
	engine *designlens.Engine
	cfg    *config.Config
	logger *zap.Logger
	out    string
	swatch bool
	kmeans bool
}

// runOne analyzes a single source and writes the report to outPath or
// stdout.
func (a *app) runOne(source, outPath string) {
	result, err := a.engine.AnalyzeSource(source)
	if err != nil {
		a.logger.Fatal("analysis failed", zap.String("source", source), zap.Error(err))
	}

	a.logger.Info("analyzed image",
		zap.String("source", source),
		zap.Int("width", result.Metadata.Width),
		zap.Int("height", result.Metadata.Height),
		zap.String("industry", result.Style.Industry),
		zap.String("era", result.Style.Era),
		zap.Float64("processing_ms", result.Metadata.ProcessingTimeMS))

	data := a.marshal(result)
	if outPath == "" {
		fmt.Println(string(data))
	} else {
		if err := os.WriteFile(outPath, data, 0644); err != nil {
			a.logger.Fatal("failed to write report", zap.String("path", outPath), zap.Error(err))
		}
	}

	if a.swatch {
		a.writeSwatch(source, outPath)
	}
}

// runBatch analyzes every image under dir, writing per-image reports into
// the output directory.
func (a *app) runBatch(dir string) {
	outDir := a.out
	if outDir == "" {
		outDir = a.cfg.Output.OutputDir
	}
	if err := utils.EnsureDir(outDir); err != nil {
		a.logger.Fatal("failed to create output directory", zap.String("dir", outDir), zap.Error(err))
	}

	files, err := utils.ListImageFiles(dir)
	if err != nil {
		a.logger.Fatal("failed to list images", zap.String("dir", dir), zap.Error(err))
	}
	if len(files) == 0 {
		a.logger.Warn("no image files found", zap.String("dir", dir))
		return
	}

	failed := 0
	for _, f := range files {
		outPath := utils.OutputPath(f, outDir, "json")
		result, err := a.engine.AnalyzeFile(f)
		if err != nil {
			a.logger.Error("analysis failed", zap.String("source", f), zap.Error(err))
			failed++
			continue
		}
		if err := os.WriteFile(outPath, a.marshal(result), 0644); err != nil {
			a.logger.Error("failed to write report", zap.String("path", outPath), zap.Error(err))
			failed++
			continue
		}
		if a.swatch {
			a.writeSwatch(f, outPath)
		}
		a.logger.Info("analyzed image",
			zap.String("source", f),
			zap.String("report", outPath),
			zap.String("industry", result.Style.Industry))
	}

	a.logger.Info("batch complete",
		zap.Int("total", len(files)),
		zap.Int("failed", failed))
}

// writeSwatch extracts a presentation palette from the source image and
// writes it as a PNG next to the JSON report.
func (a *app) writeSwatch(source, reportPath string) {
	f, err := os.Open(source)
	if err != nil {
		a.logger.Error("failed to open image for swatch", zap.String("source", source), zap.Error(err))
		return
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		a.logger.Error("failed to decode image for swatch", zap.String("source", source), zap.Error(err))
		return
	}

	method := palette.MethodDominantColor
	if a.kmeans {
		method = palette.MethodKMeans
	}
	colors := palette.Extract(img, a.cfg.Output.SwatchColors, method)
	palette.SortByBrightness(colors)

	swatchPath := swatchPathFor(source, reportPath)
	if err := palette.SaveSwatch(colors, a.cfg.Output.SwatchTileSize, swatchPath); err != nil {
		a.logger.Error("failed to write swatch", zap.String("path", swatchPath), zap.Error(err))
		return
	}
	a.logger.Info("wrote swatch",
		zap.String("path", swatchPath),
		zap.String("method", method.String()),
		zap.Int("colors", len(colors)))
}

func swatchPathFor(source, reportPath string) string {
	if reportPath != "" {
		ext := filepath.Ext(reportPath)
		return reportPath[:len(reportPath)-len(ext)] + "_swatch.png"
	}
	base := filepath.Base(source)
	return base[:len(base)-len(filepath.Ext(base))] + "_swatch.png"
}

func (a *app) marshal(result designlens.Result) []byte {
	var data []byte
	var err error
	if a.cfg.Output.Pretty {
		data, err = json.MarshalIndent(result, "", "  ")
	} else {
		data, err = json.Marshal(result)
	}
	if err != nil {
		a.logger.Fatal("failed to marshal result", zap.Error(err))
	}
	return data
}

func newLogger(quiet bool) *zap.Logger {
	cfg := zap.NewDevelopmentConfig()
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	if quiet {
		cfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	return logger
}
