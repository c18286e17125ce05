package images

import (
	"bytes"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/Mohammedmostain/road-surface-classification/internal/dataset"
)

// Open decodes an image file, applying EXIF orientation. Decode failures wrap
// dataset.ErrDecode; a missing file wraps dataset.ErrNotFound.
func Open(path string) (image.Image, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, &dataset.PathError{Path: path, Err: dataset.ErrNotFound}
		}
		return nil, fmt.Errorf("%w: %s: %w", dataset.ErrDecode, path, err)
	}

	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", dataset.ErrDecode, path, err)
	}
	return img, nil
}

// Dimensions reads only the image header.
func Dimensions(path string) (int, int, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer file.Close()

	cfg, _, err := image.DecodeConfig(file)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %w", dataset.ErrDecode, err)
	}
	return cfg.Width, cfg.Height, nil
}

// SaveJPEG encodes img to path. Any failure wraps dataset.ErrWrite.
func SaveJPEG(img image.Image, path string, quality int) error {
	if err := imaging.Save(img, path, imaging.JPEGQuality(quality)); err != nil {
		return fmt.Errorf("%w: %s: %w", dataset.ErrWrite, path, err)
	}
	return nil
}

// Thumbnail scales img to fit within size×size and encodes it as JPEG. Images
// already smaller are encoded unscaled.
func Thumbnail(img image.Image, size int) ([]byte, error) {
	b := img.Bounds()
	if size > 0 && (b.Dx() > size || b.Dy() > size) {
		img = imaging.Fit(img, size, size, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(85)); err != nil {
		return nil, fmt.Errorf("failed to encode thumbnail: %w", err)
	}
	return buf.Bytes(), nil
}

// ContentName names an uploaded frame after the MD5 of its bytes so repeated
// uploads of the same frame land on the same file.
func ContentName(data []byte, filename string) string {
	sum := md5.Sum(data)
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		ext = ".jpg"
	}
	return hex.EncodeToString(sum[:]) + ext
}

// MIMEType returns the media type for a file extension.
func MIMEType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	default:
		return "image/jpeg"
	}
}
