package bitmap

import (
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
)

// DefaultMaxDimension is the resolution cap applied before analysis. Keeping
// the longer side at or below this bound is the pipeline's performance
// control; the analyzers themselves have no timeouts.
const DefaultMaxDimension = 800

// Bitmap is a decoded image as a flat row-major RGBA byte buffer:
// Pix[4*(y*Width+x)+c] for channel c in R,G,B,A. The alpha channel is
// always present; opaque sources get A=255.
type Bitmap struct {
	Width  int
	Height int
	Pix    []byte
}

// New returns a zeroed (fully transparent) bitmap of the given size.
func New(width, height int) *Bitmap {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Bitmap{
		Width:  width,
		Height: height,
		Pix:    make([]byte, width*height*4),
	}
}

// RGBA returns the channel values at (x, y). Out-of-range coordinates
// return a transparent black pixel.
func (b *Bitmap) RGBA(x, y int) (r, g, bl, a byte) {
	if x < 0 || y < 0 || x >= b.Width || y >= b.Height {
		return 0, 0, 0, 0
	}
	i := 4 * (y*b.Width + x)
	return b.Pix[i], b.Pix[i+1], b.Pix[i+2], b.Pix[i+3]
}

// SetRGBA writes the channel values at (x, y). Out-of-range writes are
// ignored.
func (b *Bitmap) SetRGBA(x, y int, r, g, bl, a byte) {
	if x < 0 || y < 0 || x >= b.Width || y >= b.Height {
		return
	}
	i := 4 * (y*b.Width + x)
	b.Pix[i] = r
	b.Pix[i+1] = g
	b.Pix[i+2] = bl
	b.Pix[i+3] = a
}

// FromImage converts an image to a Bitmap, downscaling with Lanczos
// resampling so that max(width, height) <= maxDim while preserving aspect
// ratio. maxDim <= 0 disables downscaling.
func FromImage(img image.Image, maxDim int) *Bitmap {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if maxDim > 0 && (w > maxDim || h > maxDim) {
		if w >= h {
			img = imaging.Resize(img, maxDim, 0, imaging.Lanczos)
		} else {
			img = imaging.Resize(img, 0, maxDim, imaging.Lanczos)
		}
		b = img.Bounds()
		w, h = b.Dx(), b.Dy()
	}

	bm := New(w, h)

	// Fast paths over the backing Pix avoid the per-pixel At/RGBA cost.
	// They only apply to zero-origin images; sub-images fall through to
	// the generic loop.
	switch src := img.(type) {
	case *image.NRGBA:
		if b.Min != (image.Point{}) {
			break
		}
		for y := 0; y < h; y++ {
			copy(bm.Pix[y*w*4:(y+1)*w*4], src.Pix[y*src.Stride:y*src.Stride+w*4])
		}
		return bm
	case *image.RGBA:
		if b.Min != (image.Point{}) {
			break
		}
		for y := 0; y < h; y++ {
			row := src.Pix[y*src.Stride : y*src.Stride+w*4]
			out := bm.Pix[y*w*4 : (y+1)*w*4]
			for x := 0; x < w; x++ {
				o := x * 4
				a := row[o+3]
				if a == 0 || a == 255 {
					copy(out[o:o+4], row[o:o+4])
					continue
				}
				// Un-premultiply.
				out[o] = byte(int(row[o]) * 255 / int(a))
				out[o+1] = byte(int(row[o+1]) * 255 / int(a))
				out[o+2] = byte(int(row[o+2]) * 255 / int(a))
				out[o+3] = a
			}
		}
		return bm
	}

	// NRGBAModel un-premultiplies, matching the straight-alpha channels the
	// fast paths emit.
	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			bm.Pix[i] = c.R
			bm.Pix[i+1] = c.G
			bm.Pix[i+2] = c.B
			bm.Pix[i+3] = c.A
			i += 4
		}
	}
	return bm
}

// Luminance returns the perceptual luminance of an 8-bit RGB triple in
// [0, 255].
func Luminance(r, g, b byte) float64 {
	return 0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)
}

// HSL converts an 8-bit RGB triple to hue in degrees [0, 360) and
// saturation/lightness in percent [0, 100].
func HSL(r, g, b byte) (h, s, l float64) {
	rf := float64(r) / 255
	gf := float64(g) / 255
	bf := float64(b) / 255

	maxC := math.Max(rf, math.Max(gf, bf))
	minC := math.Min(rf, math.Min(gf, bf))
	delta := maxC - minC

	l = (maxC + minC) / 2

	if delta != 0 {
		if l < 0.5 {
			s = delta / (maxC + minC)
		} else {
			s = delta / (2 - maxC - minC)
		}
		switch maxC {
		case rf:
			h = 60 * math.Mod((gf-bf)/delta, 6)
		case gf:
			h = 60 * ((bf-rf)/delta + 2)
		case bf:
			h = 60 * ((rf-gf)/delta + 4)
		}
		if h < 0 {
			h += 360
		}
	}

	return h, s * 100, l * 100
}

// HueDistance returns the shortest angular distance between two hues in
// degrees, in [0, 180].
func HueDistance(a, b float64) float64 {
	d := math.Abs(a - b)
	if d > 180 {
		d = 360 - d
	}
	return d
}
