package dataset

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/parquet-go/parquet-go"
)

// ManifestRecord describes one file of the labeled dataset for the classifier
// training job.
type ManifestRecord struct {
	Path       string `json:"path" parquet:"path"`
	Category   string `json:"category" parquet:"category"`
	ClassIndex int    `json:"class_index" parquet:"class_index"`
	Variant    bool   `json:"variant" parquet:"variant"`
	Suffix     string `json:"suffix,omitempty" parquet:"suffix"`
	Width      int    `json:"width" parquet:"width"`
	Height     int    `json:"height" parquet:"height"`
	SizeBytes  int64  `json:"size_bytes" parquet:"size_bytes"`
}

// BuildManifest scans every category directory. Files whose dimensions cannot
// be read are logged and recorded with zero width and height.
func BuildManifest(layout Layout, exts, markers []string) ([]ManifestRecord, error) {
	if err := RequireDir(layout.Root); err != nil {
		return nil, err
	}

	items := EnumerateLabeled(layout, exts)
	records := make([]ManifestRecord, 0, len(items))

	for _, item := range items {
		path := item.Path()
		info, err := os.Stat(path)
		if err != nil {
			slog.Warn("Skipping file that disappeared during scan", "path", path, "error", err)
			continue
		}

		rel, err := filepath.Rel(layout.Root, path)
		if err != nil {
			rel = path
		}

		record := ManifestRecord{
			Path:       filepath.ToSlash(rel),
			Category:   string(item.Category),
			ClassIndex: item.Category.Index(),
			SizeBytes:  info.Size(),
		}

		if suffix, ok := MatchMarker(item.Name, markers); ok {
			record.Variant = true
			record.Suffix = suffix
		}

		width, height, err := imageDimensions(path)
		if err != nil {
			slog.Warn("Failed to get image dimensions", "path", path, "error", err)
		} else {
			record.Width, record.Height = width, height
		}

		records = append(records, record)
	}

	return records, nil
}

func imageDimensions(path string) (int, int, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer file.Close()

	cfg, _, err := image.DecodeConfig(file)
	if err != nil {
		return 0, 0, err
	}

	return cfg.Width, cfg.Height, nil
}

// WriteManifest writes records as Parquet or JSONL depending on the extension.
func WriteManifest(path string, records []ManifestRecord) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create manifest directory: %w", err)
		}
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".parquet":
		return writeParquet(path, records)
	case ".jsonl", ".json":
		return writeJSONL(path, records)
	default:
		return fmt.Errorf("unsupported manifest format: %s (supported: .parquet, .jsonl)", ext)
	}
}

func writeParquet(path string, records []ManifestRecord) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create parquet file: %w", err)
	}
	defer file.Close()

	writer := parquet.NewGenericWriter[ManifestRecord](file)
	if _, err := writer.Write(records); err != nil {
		return fmt.Errorf("failed to write parquet rows: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close parquet writer: %w", err)
	}

	return file.Close()
}

func writeJSONL(path string, records []ManifestRecord) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create manifest file: %w", err)
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	enc := json.NewEncoder(w)
	for _, r := range records {
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("failed to encode manifest record: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to flush manifest: %w", err)
	}

	return file.Close()
}

// ManifestLoader reads a manifest written by WriteManifest.
type ManifestLoader struct {
	path string
}

// NewManifestLoader creates a loader for path.
func NewManifestLoader(path string) *ManifestLoader {
	return &ManifestLoader{path: path}
}

// Load reads every record.
func (l *ManifestLoader) Load() ([]ManifestRecord, error) {
	switch ext := strings.ToLower(filepath.Ext(l.path)); ext {
	case ".parquet":
		return l.loadParquet()
	case ".jsonl", ".json":
		return l.loadJSONL()
	default:
		return nil, fmt.Errorf("unsupported file format: %s (supported: .parquet, .jsonl)", ext)
	}
}

func (l *ManifestLoader) loadJSONL() ([]ManifestRecord, error) {
	file, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open manifest file: %w", err)
	}
	defer file.Close()

	var records []ManifestRecord
	scanner := bufio.NewScanner(file)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var record ManifestRecord
		if err := json.Unmarshal(line, &record); err != nil {
			return nil, fmt.Errorf("failed to parse JSON at line %d: %w", lineNum, err)
		}
		records = append(records, record)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading manifest: %w", err)
	}

	return records, nil
}

func (l *ManifestLoader) loadParquet() ([]ManifestRecord, error) {
	file, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	pf, err := parquet.OpenFile(file, info.Size())
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet: %w", err)
	}

	slog.Debug("Parquet manifest opened", "num_rows", pf.NumRows(), "num_row_groups", len(pf.RowGroups()))

	reader := parquet.NewGenericReader[ManifestRecord](pf)
	defer reader.Close()

	records := make([]ManifestRecord, 0, pf.NumRows())
	rows := make([]ManifestRecord, 128)
	for {
		n, err := reader.Read(rows)
		records = append(records, rows[:n]...)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read parquet rows: %w", err)
		}
	}

	return records, nil
}

// CategoryCount is the number of originals and variants in one category.
type CategoryCount struct {
	Originals int
	Variants  int
}

// Counts tallies originals and variants per category.
func Counts(records []ManifestRecord) map[string]CategoryCount {
	counts := make(map[string]CategoryCount)
	for _, r := range records {
		c := counts[r.Category]
		if r.Variant {
			c.Variants++
		} else {
			c.Originals++
		}
		counts[r.Category] = c
	}
	return counts
}
