package split

import (
	"errors"
	"fmt"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/Mohammedmostain/road-surface-classification/internal/augment"
	"github.com/Mohammedmostain/road-surface-classification/internal/dataset"
	"github.com/Mohammedmostain/road-surface-classification/internal/testsupport"
)

var exts = []string{".png", ".jpg"}

// seed writes n originals into each category, each with a full variant set.
func seed(t *testing.T, layout dataset.Layout, n int) {
	t.Helper()
	for _, c := range dataset.Categories {
		for i := 0; i < n; i++ {
			base := fmt.Sprintf("img%02d", i)
			testsupport.WriteFile(t, filepath.Join(layout.Dir(c), base+".png"), []byte("x"))
			for _, s := range augment.Suffixes {
				testsupport.WriteFile(t, filepath.Join(layout.Dir(c), augment.VariantName(base, s)), []byte("x"))
			}
		}
	}
}

func TestRunMovesFraction(t *testing.T) {
	root := t.TempDir()
	train := dataset.Layout{Root: filepath.Join(root, "train")}
	holdout := dataset.Layout{Root: filepath.Join(root, "test")}
	seed(t, train, 10)

	report, err := Run(train, holdout, Options{Ratio: 0.2, Seed: 123, Markers: augment.Suffixes, Exts: exts})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if report.Moved() != 6 {
		t.Errorf("Expected 6 moved (2 per category), got %d", report.Moved())
	}

	for _, c := range dataset.Categories {
		moved := testsupport.ListNames(t, holdout.Dir(c))
		if len(moved) != 2 {
			t.Errorf("%s: expected 2 holdout files, got %v", c, moved)
		}
		// 8 originals and 8×4 variants remain.
		if remaining := testsupport.ListNames(t, train.Dir(c)); len(remaining) != 40 {
			t.Errorf("%s: expected 40 training files, got %d", c, len(remaining))
		}
		for _, name := range moved {
			base := name[:len(name)-len(filepath.Ext(name))]
			for _, s := range augment.Suffixes {
				if testsupport.Exists(t, filepath.Join(train.Dir(c), augment.VariantName(base, s))) {
					t.Errorf("%s: variant %s of holdout item still in training set", c, s)
				}
			}
		}
	}
}

func TestRunDeterministic(t *testing.T) {
	pick := func() []string {
		root := t.TempDir()
		train := dataset.Layout{Root: filepath.Join(root, "train")}
		holdout := dataset.Layout{Root: filepath.Join(root, "test")}
		seed(t, train, 10)

		report, err := Run(train, holdout, Options{Ratio: 0.3, Seed: 7, Markers: augment.Suffixes, Exts: exts, DryRun: true})
		if err != nil {
			t.Fatalf("Run error: %v", err)
		}
		var names []string
		for _, c := range report.Categories {
			for _, p := range c.Paths {
				names = append(names, string(c.Category)+"/"+filepath.Base(p))
			}
		}
		if testsupport.ListNames(t, holdout.Root) != nil {
			t.Errorf("Dry run must not create the holdout root")
		}
		return names
	}

	first, second := pick(), pick()
	if len(first) != 9 {
		t.Errorf("Expected 9 selected, got %d", len(first))
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Expected identical selection for the same seed:\n%v\n%v", first, second)
	}
}

func TestRunErrors(t *testing.T) {
	root := t.TempDir()
	train := dataset.Layout{Root: filepath.Join(root, "train")}

	if _, err := Run(train, dataset.Layout{Root: filepath.Join(root, "test")}, Options{Ratio: 0.2}); !errors.Is(err, dataset.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for missing training root, got %v", err)
	}

	seed(t, train, 1)
	if _, err := Run(train, train, Options{Ratio: 0.2}); err == nil {
		t.Errorf("Expected error when holdout equals training root")
	}
	for _, ratio := range []float64{0, 1, -0.5} {
		if _, err := Run(train, dataset.Layout{Root: filepath.Join(root, "test")}, Options{Ratio: ratio}); err == nil {
			t.Errorf("Expected error for ratio %v", ratio)
		}
	}
}
