// Package palette extracts presentation palettes and renders swatch
// images. It is independent of the role-assignment algorithm in
// pkg/colors: these palettes are for sharing and previewing, not for
// classification.
package palette

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"slices"

	"github.com/cenkalti/dominantcolor"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"
)

// Method selects the extraction algorithm.
type Method int

const (
	MethodDominantColor Method = iota
	MethodKMeans
)

func (m Method) String() string {
	switch m {
	case MethodKMeans:
		return "kmeans"
	default:
		return "dominantcolor"
	}
}

type weightedColor struct {
	col    colorful.Color
	weight float64
}

// Extract returns a k-color presentation palette using the given method.
// The kmeans method falls back to dominant-color extraction when it yields
// nothing usable.
func Extract(img image.Image, k int, method Method) []colorful.Color {
	if method == MethodKMeans {
		if p := ExtractKMeans(img, k); len(p) != 0 {
			return p
		}
	}
	return ExtractDominant(img, k)
}

// ExtractDominant builds a palette from weighted dominant colors, then
// picks a diverse subset in Lab space.
func ExtractDominant(img image.Image, k int) []colorful.Color {
	if k <= 0 {
		return nil
	}

	nCandidates := k * 8
	if nCandidates < 24 {
		nCandidates = 24
	}
	candidates := dominantcolor.FindWeight(img, nCandidates)
	if len(candidates) == 0 {
		// Avoid an empty palette breaking swatch rendering downstream.
		candidates = append(candidates, dominantcolor.Color{
			RGBA:   color.RGBA{R: 128, G: 128, B: 128, A: 255},
			Weight: 1.0,
		})
	}

	weighted := make([]weightedColor, 0, len(candidates))
	for _, c := range candidates {
		col, _ := colorful.MakeColor(c.RGBA)
		w := c.Weight
		if w <= 0 {
			w = 1e-6
		}
		weighted = append(weighted, weightedColor{col: col.Clamped(), weight: w})
	}
	return selectDiverse(weighted, k)
}

// ExtractKMeans clusters subsampled pixels and returns diverse cluster
// centers, most populous first.
func ExtractKMeans(img image.Image, k int) []colorful.Color {
	if k <= 0 {
		return nil
	}

	b := img.Bounds()
	width, height := b.Dx(), b.Dy()
	if width == 0 || height == 0 {
		return nil
	}

	// Subsample to keep kmeans tractable on large images.
	maxSamples := 12000
	step := 1
	if width*height > maxSamples {
		step = int(math.Sqrt(float64(width*height)/float64(maxSamples))) + 1
	}

	dataset := make(clusters.Observations, 0, maxSamples)
	for y := b.Min.Y; y < b.Max.Y; y += step {
		for x := b.Min.X; x < b.Max.X; x += step {
			r16, g16, b16, a16 := img.At(x, y).RGBA()
			if a16 == 0 {
				continue
			}
			dataset = append(dataset, clusters.Coordinates{
				float64(r16) / 65535.0,
				float64(g16) / 65535.0,
				float64(b16) / 65535.0,
			})
		}
	}
	if len(dataset) == 0 {
		return nil
	}

	workK := k * 4
	if workK < k+2 {
		workK = k + 2
	}
	if workK > len(dataset) {
		workK = len(dataset)
	}
	if workK <= 0 {
		return nil
	}

	km := kmeans.New()
	cc, err := km.Partition(dataset, workK)
	if err != nil || len(cc) == 0 {
		return nil
	}

	slices.SortFunc(cc, func(a, b clusters.Cluster) int {
		return len(b.Observations) - len(a.Observations)
	})

	weighted := make([]weightedColor, 0, len(cc))
	for _, c := range cc {
		if len(c.Center) < 3 {
			continue
		}
		col := colorful.Color{R: c.Center[0], G: c.Center[1], B: c.Center[2]}.Clamped()
		w := float64(len(c.Observations))
		if w <= 0 {
			w = 1e-6
		}
		weighted = append(weighted, weightedColor{col: col, weight: w})
	}
	return selectDiverse(weighted, k)
}

// selectDiverse greedily picks colors that are both frequent and far from
// the already-picked ones in Lab space, seeded with the strongest color.
func selectDiverse(cands []weightedColor, k int) []colorful.Color {
	if k <= 0 || len(cands) == 0 {
		return nil
	}
	type item struct {
		col colorful.Color
		lab [3]float64
		w   float64
	}
	items := make([]item, 0, len(cands))
	maxW := 0.0
	for _, c := range cands {
		col := c.col.Clamped()
		l, a, b := col.Lab()
		if c.weight > maxW {
			maxW = c.weight
		}
		items = append(items, item{col: col, lab: [3]float64{l, a, b}, w: c.weight})
	}
	if k > len(items) {
		k = len(items)
	}
	if maxW <= 0 {
		maxW = 1.0
	}

	selected := make([]bool, len(items))
	order := make([]int, 0, k)

	seed := 0
	for i := 1; i < len(items); i++ {
		if items[i].w > items[seed].w {
			seed = i
		}
	}
	order = append(order, seed)
	selected[seed] = true

	for len(order) < k {
		bestIdx := -1
		bestScore := -1.0
		for i := range items {
			if selected[i] {
				continue
			}
			minD2 := math.MaxFloat64
			for _, s := range order {
				d0 := items[i].lab[0] - items[s].lab[0]
				d1 := items[i].lab[1] - items[s].lab[1]
				d2 := items[i].lab[2] - items[s].lab[2]
				if d := d0*d0 + d1*d1 + d2*d2; d < minD2 {
					minD2 = d
				}
			}
			score := math.Sqrt(minD2) * (0.55 + 0.45*math.Sqrt(items[i].w/maxW))
			if score > bestScore {
				bestScore = score
				bestIdx = i
			}
		}
		if bestIdx < 0 {
			break
		}
		selected[bestIdx] = true
		order = append(order, bestIdx)
	}

	out := make([]colorful.Color, 0, len(order))
	for _, idx := range order {
		out = append(out, items[idx].col)
	}
	return out
}

// SortByBrightness orders colors from darkest to brightest, so the first
// entry works as a background color.
func SortByBrightness(palette []colorful.Color) {
	slices.SortFunc(palette, func(a, b colorful.Color) int {
		ri, gi, bi := a.LinearRgb()
		rj, gj, bj := b.LinearRgb()
		yi := 0.2126*ri + 0.7152*gi + 0.0722*bi
		yj := 0.2126*rj + 0.7152*gj + 0.0722*bj
		switch {
		case yi < yj:
			return -1
		case yi > yj:
			return 1
		default:
			return 0
		}
	})
}

// Swatch renders the palette as a horizontal strip of tiles.
func Swatch(palette []colorful.Color, tileSize int) (*image.RGBA, error) {
	if len(palette) == 0 {
		return nil, fmt.Errorf("empty palette")
	}
	if tileSize <= 0 {
		tileSize = 64
	}

	w := tileSize * len(palette)
	h := tileSize
	img := image.NewRGBA(image.Rect(0, 0, w, h))

	for i, c := range palette {
		r, g, b := c.Clamped().RGB255()
		x0 := i * tileSize
		for y := 0; y < h; y++ {
			for x := x0; x < x0+tileSize; x++ {
				img.SetRGBA(x, y, color.RGBA{R: r, G: g, B: b, A: 255})
			}
		}
	}
	return img, nil
}

// SaveSwatch renders the palette and writes it as a PNG file.
func SaveSwatch(palette []colorful.Color, tileSize int, filename string) error {
	img, err := Swatch(palette, tileSize)
	if err != nil {
		return err
	}
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create swatch file: %w", err)
	}
	defer f.Close()
	return png.Encode(f, img)
}
