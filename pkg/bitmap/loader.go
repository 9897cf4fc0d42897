package bitmap

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

// Config holds configuration for the bitmap loader.
type Config struct {
	// MaxDimension caps the longer side of loaded bitmaps (pixels).
	MaxDimension int
	// HTTPTimeout bounds URL downloads.
	HTTPTimeout time.Duration
	// UserAgent is sent with URL downloads.
	UserAgent string
}

// DefaultConfig returns the default loader configuration.
func DefaultConfig() Config {
	return Config{
		MaxDimension: DefaultMaxDimension,
		HTTPTimeout:  30 * time.Second,
		UserAgent:    "DesignLens/1.0 (+https://github.com/designlens/designlens)",
	}
}

// Meta describes the source image before downscaling. The analyzers operate
// on the capped bitmap; result metadata reports these original dimensions.
type Meta struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Format string `json:"format"`
}

// Loader decodes image sources into analysis-ready bitmaps.
type Loader struct {
	config Config
}

// NewLoader creates a Loader with default configuration.
func NewLoader() *Loader {
	return &Loader{config: DefaultConfig()}
}

// NewLoaderWithConfig creates a Loader with custom configuration.
func NewLoaderWithConfig(config Config) *Loader {
	if config.MaxDimension == 0 {
		config.MaxDimension = DefaultMaxDimension
	}
	if config.HTTPTimeout == 0 {
		config.HTTPTimeout = 30 * time.Second
	}
	return &Loader{config: config}
}

// Load decodes an image file into a bitmap.
func (l *Loader) Load(path string) (*Bitmap, Meta, error) {
	// imaging.Open handles all registered decoders, including the
	// x/image webp decoder pulled in above.
	if img, err := imaging.Open(path); err == nil {
		return l.prepare(img), metaOf(img, formatFromPath(path)), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, Meta{}, fmt.Errorf("failed to open image file: %w", err)
	}
	defer f.Close()
	return l.LoadFromReader(f)
}

// LoadFromReader decodes an image from a reader into a bitmap.
func (l *Loader) LoadFromReader(r io.Reader) (*Bitmap, Meta, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, Meta{}, fmt.Errorf("failed to read image data: %w", err)
	}
	return l.decode(data)
}

// LoadFromURL downloads and decodes an image from an http(s) URL.
func (l *Loader) LoadFromURL(imageURL string) (*Bitmap, Meta, error) {
	parsed, err := url.Parse(imageURL)
	if err != nil {
		return nil, Meta{}, fmt.Errorf("invalid URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, Meta{}, fmt.Errorf("unsupported URL scheme: %s (only http and https are supported)", parsed.Scheme)
	}

	client := &http.Client{Timeout: l.config.HTTPTimeout}
	req, err := http.NewRequest(http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, Meta{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", l.config.UserAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, Meta{}, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, Meta{}, fmt.Errorf("failed to download image: HTTP %d %s", resp.StatusCode, resp.Status)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "image/") {
		return nil, Meta{}, fmt.Errorf("URL does not point to an image (Content-Type: %s)", ct)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, Meta{}, fmt.Errorf("failed to read image data: %w", err)
	}
	return l.decode(data)
}

// LoadSmart decodes an image from either a file path or an http(s) URL.
func (l *Loader) LoadSmart(source string) (*Bitmap, Meta, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		return l.LoadFromURL(source)
	}
	return l.Load(source)
}

func (l *Loader) decode(data []byte) (*Bitmap, Meta, error) {
	if img, format, err := image.Decode(bytes.NewReader(data)); err == nil {
		return l.prepare(img), metaOf(img, format), nil
	}

	// Fallback: explicit WebP decode for encoders the registered
	// decoders reject.
	if img, err := webp.Decode(bytes.NewReader(data)); err == nil {
		return l.prepare(img), metaOf(img, "webp"), nil
	}

	return nil, Meta{}, fmt.Errorf("image: unknown or unsupported format")
}

func (l *Loader) prepare(img image.Image) *Bitmap {
	return FromImage(img, l.config.MaxDimension)
}

func metaOf(img image.Image, format string) Meta {
	b := img.Bounds()
	return Meta{Width: b.Dx(), Height: b.Dy(), Format: format}
}

func formatFromPath(path string) string {
	i := strings.LastIndex(path, ".")
	if i < 0 || i == len(path)-1 {
		return ""
	}
	ext := strings.ToLower(path[i+1:])
	if ext == "jpg" {
		return "jpeg"
	}
	return ext
}
