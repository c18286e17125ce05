package augment

import (
	"errors"
	"image/color"
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"

	"github.com/Mohammedmostain/road-surface-classification/internal/dataset"
	"github.com/Mohammedmostain/road-surface-classification/internal/testsupport"
)

func newGen(seed uint64) *Generator {
	return NewGenerator(Options{MaxRotation: 10, MinBrightness: 0.7, MaxBrightness: 1.3}, rand.New(rand.NewPCG(seed, seed)))
}

func TestGenerate(t *testing.T) {
	src := testsupport.Gradient(40, 20)
	variants := newGen(42).Generate(src)

	if len(variants) != len(Suffixes) {
		t.Fatalf("Expected %d variants, got %d", len(Suffixes), len(variants))
	}
	for i, v := range variants {
		if v.Suffix != Suffixes[i] {
			t.Errorf("Variant %d: expected suffix %s, got %s", i, Suffixes[i], v.Suffix)
		}
		if v.Image.Bounds().Dx() != 40 || v.Image.Bounds().Dy() != 20 {
			t.Errorf("%s: expected 40x20, got %v", v.Suffix, v.Image.Bounds())
		}
	}

	// Mirror swaps the dark and bright halves.
	flipped := variants[0].Image
	r, _, _, _ := flipped.At(0, 10).RGBA()
	if r>>8 != 200 {
		t.Errorf("Expected bright pixel on the left after flip, got %d", r>>8)
	}

	for _, v := range variants[1:3] {
		if v.Angle < -10 || v.Angle > 10 {
			t.Errorf("%s: angle %.2f outside [-10, 10]", v.Suffix, v.Angle)
		}
	}
	if f := variants[3].Factor; f < 0.7 || f > 1.3 {
		t.Errorf("Brightness factor %.2f outside [0.7, 1.3]", f)
	}
}

func TestGenerateDeterministicForSeed(t *testing.T) {
	a := newGen(7).Generate(testsupport.Gradient(8, 8))
	b := newGen(7).Generate(testsupport.Gradient(8, 8))
	for i := range a {
		if a[i].Angle != b[i].Angle || a[i].Factor != b[i].Factor {
			t.Errorf("Variant %s differs between identically seeded generators", a[i].Suffix)
		}
	}
}

func TestScaleBrightnessClamps(t *testing.T) {
	out := scaleBrightness(testsupport.Gradient(4, 1), 2.0)
	bright := color.NRGBAModel.Convert(out.At(3, 0)).(color.NRGBA)
	dark := color.NRGBAModel.Convert(out.At(0, 0)).(color.NRGBA)
	if bright.R != 255 {
		t.Errorf("Expected clamp to 255, got %d", bright.R)
	}
	if dark.R != 80 {
		t.Errorf("Expected 40*2=80, got %d", dark.R)
	}
}

func TestWrite(t *testing.T) {
	dir := t.TempDir()
	paths, err := newGen(1).Write(testsupport.Gradient(16, 16), "img1", dir)
	if err != nil {
		t.Fatalf("Write error: %v", err)
	}
	for i, p := range paths {
		want := filepath.Join(dir, VariantName("img1", Suffixes[i]))
		if p != want {
			t.Errorf("Expected %s, got %s", want, p)
		}
		if !testsupport.Exists(t, p) {
			t.Errorf("Missing %s", p)
		}
	}
}

func TestWriteRollsBack(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "img1_light1.jpg"), 0o755); err != nil {
		t.Fatal(err)
	}

	_, err := newGen(1).Write(testsupport.Gradient(16, 16), "img1", dir)
	if !errors.Is(err, dataset.ErrWrite) {
		t.Fatalf("Expected ErrWrite, got %v", err)
	}
	names := testsupport.ListNames(t, dir)
	if len(names) != 1 {
		t.Errorf("Expected variants written before the failure to be removed, got %v", names)
	}
}

func TestVariantName(t *testing.T) {
	if got := VariantName("cam_0042", SuffixRot1); got != "cam_0042_rot1.jpg" {
		t.Errorf("Expected cam_0042_rot1.jpg, got %s", got)
	}
}
