package dataset

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Item identifies one candidate image file.
type Item struct {
	Dir      string   `json:"dir"`
	Name     string   `json:"name"`
	Category Category `json:"category,omitempty"` // empty while still in the source directory
}

// Path returns the full file path.
func (i Item) Path() string {
	return filepath.Join(i.Dir, i.Name)
}

// Base returns the file name without its extension.
func (i Item) Base() string {
	return strings.TrimSuffix(i.Name, filepath.Ext(i.Name))
}

// HasExtension reports whether name ends in one of exts, ignoring case.
func HasExtension(name string, exts []string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range exts {
		if ext == strings.ToLower(e) {
			return true
		}
	}
	return false
}

// Enumerate lists image files directly inside dir, sorted by name. A missing
// directory yields an empty list and a warning, never an error.
func Enumerate(dir string, exts []string) []Item {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			slog.Warn("Directory not found, nothing to enumerate", "dir", dir)
		} else {
			slog.Warn("Failed to read directory", "dir", dir, "error", err)
		}
		return nil
	}

	seen := make(map[string]bool, len(entries))
	items := make([]Item, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !HasExtension(entry.Name(), exts) {
			continue
		}
		if seen[entry.Name()] {
			continue
		}
		seen[entry.Name()] = true
		items = append(items, Item{Dir: dir, Name: entry.Name()})
	}

	sort.Slice(items, func(a, b int) bool { return items[a].Name < items[b].Name })

	slog.Debug("Enumerated images", "dir", dir, "count", len(items))
	return items
}

// EnumerateLabeled lists every image across the category directories, in
// class-index order, with Category set.
func EnumerateLabeled(layout Layout, exts []string) []Item {
	var all []Item
	for _, c := range Categories {
		items := Enumerate(layout.Dir(c), exts)
		for i := range items {
			items[i].Category = c
		}
		all = append(all, items...)
	}
	return all
}

// EnsureDirs creates the root and every category directory.
func (l Layout) EnsureDirs() error {
	for _, c := range Categories {
		if err := os.MkdirAll(l.Dir(c), 0755); err != nil {
			return errors.Join(ErrWrite, err)
		}
	}
	return nil
}

// RequireDir returns an error wrapping ErrNotFound when dir is missing or is
// not a directory.
func RequireDir(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &PathError{Path: dir, Err: ErrNotFound}
		}
		return err
	}
	if !info.IsDir() {
		return &PathError{Path: dir, Err: ErrNotFound}
	}
	return nil
}

// PathError attaches a path to one of the sentinel errors.
type PathError struct {
	Path string
	Err  error
}

func (e *PathError) Error() string {
	return e.Path + ": " + e.Err.Error()
}

func (e *PathError) Unwrap() error {
	return e.Err
}

// MatchMarker returns the first marker contained in name. Matching is purely
// by substring, so markers must not occur in legitimately named originals.
func MatchMarker(name string, markers []string) (string, bool) {
	for _, m := range markers {
		if m != "" && strings.Contains(name, m) {
			return m, true
		}
	}
	return "", false
}
