// Package augment derives the fixed set of training variants from an accepted
// image. Variants are disposable: they are identified only by the suffix in
// their file name, and the cleanup pass removes them by that suffix.
package augment

import (
	"image"
	"image/color"
	"log/slog"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"
	"time"

	"github.com/disintegration/imaging"

	"github.com/Mohammedmostain/road-surface-classification/internal/images"
)

// Variant suffixes. Together they form the default cleanup markers.
const (
	SuffixFlip   = "flip"
	SuffixRot1   = "rot1"
	SuffixRot2   = "rot2"
	SuffixLight1 = "light1"
)

// Suffixes lists every variant suffix in generation order.
var Suffixes = []string{SuffixFlip, SuffixRot1, SuffixRot2, SuffixLight1}

// Options bound the random transforms.
type Options struct {
	MaxRotation   float64 // degrees, symmetric around zero
	MinBrightness float64
	MaxBrightness float64
	JPEGQuality   int
}

// Variant is one derived image. Angle and Factor record the sampled
// parameters for logging.
type Variant struct {
	Suffix string
	Image  image.Image
	Angle  float64
	Factor float64
}

// Generator produces variants. It is not safe for concurrent use because it
// owns its random source.
type Generator struct {
	opts Options
	rng  *rand.Rand
}

// NewGenerator creates a generator. A nil rng is replaced with one seeded from
// the clock.
func NewGenerator(opts Options, rng *rand.Rand) *Generator {
	if rng == nil {
		now := uint64(time.Now().UnixNano())
		rng = rand.New(rand.NewPCG(now, now>>1))
	}
	if opts.JPEGQuality == 0 {
		opts.JPEGQuality = 90
	}
	return &Generator{opts: opts, rng: rng}
}

// VariantName returns "<base>_<suffix>.jpg".
func VariantName(base, suffix string) string {
	return base + "_" + suffix + ".jpg"
}

// Generate returns the mirror, two independent rotations and a brightness
// rescale of img, in Suffixes order.
func (g *Generator) Generate(img image.Image) []Variant {
	angle1 := g.uniform(-g.opts.MaxRotation, g.opts.MaxRotation)
	angle2 := g.uniform(-g.opts.MaxRotation, g.opts.MaxRotation)
	factor := g.uniform(g.opts.MinBrightness, g.opts.MaxBrightness)

	return []Variant{
		{Suffix: SuffixFlip, Image: imaging.FlipH(img)},
		{Suffix: SuffixRot1, Image: rotate(img, angle1), Angle: angle1},
		{Suffix: SuffixRot2, Image: rotate(img, angle2), Angle: angle2},
		{Suffix: SuffixLight1, Image: scaleBrightness(img, factor), Factor: factor},
	}
}

// Write generates the variants of img and saves them into dir. On the first
// failure the variants already written by this call are removed and the error
// (wrapping dataset.ErrWrite) is returned. The returned paths are in Suffixes
// order.
func (g *Generator) Write(img image.Image, base, dir string) ([]string, error) {
	variants := g.Generate(img)
	written := make([]string, 0, len(variants))

	for _, v := range variants {
		path := filepath.Join(dir, VariantName(base, v.Suffix))
		if err := images.SaveJPEG(v.Image, path, g.opts.JPEGQuality); err != nil {
			Remove(written)
			return nil, err
		}
		written = append(written, path)
		slog.Debug("Wrote variant", "path", path, "angle", v.Angle, "factor", v.Factor)
	}

	return written, nil
}

// Remove deletes paths, logging failures. Used to roll back partial writes.
func Remove(paths []string) {
	for _, p := range paths {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			slog.Error("Failed to remove partial variant", "path", p, "error", err)
		}
	}
}

func (g *Generator) uniform(lo, hi float64) float64 {
	if hi <= lo {
		return lo
	}
	return lo + g.rng.Float64()*(hi-lo)
}

// rotate turns img counter-clockwise by angle degrees and crops back to the
// original size, filling exposed corners with black.
func rotate(img image.Image, angle float64) image.Image {
	b := img.Bounds()
	rotated := imaging.Rotate(img, angle, color.Black)
	return imaging.CropCenter(rotated, b.Dx(), b.Dy())
}

// scaleBrightness multiplies every colour channel by factor.
func scaleBrightness(img image.Image, factor float64) image.Image {
	return imaging.AdjustFunc(img, func(c color.NRGBA) color.NRGBA {
		return color.NRGBA{
			R: clamp(float64(c.R) * factor),
			G: clamp(float64(c.G) * factor),
			B: clamp(float64(c.B) * factor),
			A: c.A,
		}
	})
}

func clamp(v float64) uint8 {
	return uint8(math.Max(0, math.Min(255, math.Round(v))))
}
