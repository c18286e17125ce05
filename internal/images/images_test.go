package images

import (
	"bytes"
	"errors"
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/Mohammedmostain/road-surface-classification/internal/dataset"
	"github.com/Mohammedmostain/road-surface-classification/internal/testsupport"
)

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	good := testsupport.WriteImage(t, filepath.Join(dir, "good.png"), 10, 5)
	bad := testsupport.WriteFile(t, filepath.Join(dir, "bad.jpg"), []byte("nope"))

	img, err := Open(good)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if img.Bounds().Dx() != 10 || img.Bounds().Dy() != 5 {
		t.Errorf("Expected 10x5, got %v", img.Bounds())
	}

	if _, err := Open(bad); !errors.Is(err, dataset.ErrDecode) {
		t.Errorf("Expected ErrDecode, got %v", err)
	}
	if _, err := Open(filepath.Join(dir, "missing.png")); !errors.Is(err, dataset.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestDimensions(t *testing.T) {
	path := testsupport.WriteImage(t, filepath.Join(t.TempDir(), "a.jpg"), 7, 3)
	w, h, err := Dimensions(path)
	if err != nil || w != 7 || h != 3 {
		t.Errorf("Expected 7x3, got %dx%d, %v", w, h, err)
	}
}

func TestSaveJPEG(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.jpg")
	if err := SaveJPEG(testsupport.Gradient(4, 4), path, 90); err != nil {
		t.Fatalf("SaveJPEG: %v", err)
	}
	if !testsupport.Exists(t, path) {
		t.Errorf("Expected %s to exist", path)
	}

	blocked := filepath.Join(dir, "blocked.jpg")
	if err := os.Mkdir(blocked, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := SaveJPEG(testsupport.Gradient(4, 4), blocked, 90); !errors.Is(err, dataset.ErrWrite) {
		t.Errorf("Expected ErrWrite, got %v", err)
	}
}

func TestThumbnail(t *testing.T) {
	tests := []struct {
		name         string
		w, h, size   int
		wantW, wantH int
	}{
		{"downscale landscape", 200, 100, 50, 50, 25},
		{"small image untouched", 20, 10, 50, 20, 10},
		{"zero size means original", 30, 30, 0, 30, 30},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := Thumbnail(testsupport.Gradient(tt.w, tt.h), tt.size)
			if err != nil {
				t.Fatalf("Thumbnail: %v", err)
			}
			cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
			if err != nil {
				t.Fatalf("decode thumbnail: %v", err)
			}
			if format != "jpeg" {
				t.Errorf("Expected jpeg, got %s", format)
			}
			if cfg.Width != tt.wantW || cfg.Height != tt.wantH {
				t.Errorf("Expected %dx%d, got %dx%d", tt.wantW, tt.wantH, cfg.Width, cfg.Height)
			}
		})
	}
}

func TestContentName(t *testing.T) {
	a := ContentName([]byte("frame"), "cam1.PNG")
	b := ContentName([]byte("frame"), "other.png")
	if a != b {
		t.Errorf("Same bytes must give the same name: %s vs %s", a, b)
	}
	if filepath.Ext(a) != ".png" {
		t.Errorf("Expected lower-cased .png extension, got %s", a)
	}
	if got := ContentName([]byte("frame"), "noext"); filepath.Ext(got) != ".jpg" {
		t.Errorf("Expected .jpg fallback, got %s", got)
	}
}

func TestMIMEType(t *testing.T) {
	cases := map[string]string{"a.png": "image/png", "b.JPG": "image/jpeg", "c.jpeg": "image/jpeg", "d.gif": "image/gif"}
	for path, want := range cases {
		if got := MIMEType(path); got != want {
			t.Errorf("MIMEType(%s) = %s, want %s", path, got, want)
		}
	}
}
