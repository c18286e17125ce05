package dataset

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Category is one of the fixed road-condition labels. Its value is also the
// directory name under the dataset root.
type Category string

const (
	CategoryClear   Category = "clear_road"
	CategoryFull    Category = "fully_covered"
	CategoryPartial Category = "partially_covered"
)

// Categories lists the closed set in class-index order. The classifier sorts
// class directories alphabetically, so index i here is prediction index i.
var Categories = []Category{CategoryClear, CategoryFull, CategoryPartial}

var categoryAliases = map[string]Category{
	"clear":             CategoryClear,
	"clear_road":        CategoryClear,
	"full":              CategoryFull,
	"fully_covered":     CategoryFull,
	"partial":           CategoryPartial,
	"partially_covered": CategoryPartial,
}

// ParseCategory accepts the directory name or a short alias, case-insensitively.
func ParseCategory(s string) (Category, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.ReplaceAll(key, "-", "_")
	key = strings.ReplaceAll(key, " ", "_")
	if c, ok := categoryAliases[key]; ok {
		return c, nil
	}
	return "", fmt.Errorf("unknown category %q (expected one of %s)", s, strings.Join(CategoryNames(), ", "))
}

// CategoryNames returns the directory names in class-index order.
func CategoryNames() []string {
	names := make([]string, len(Categories))
	for i, c := range Categories {
		names[i] = string(c)
	}
	return names
}

// Valid reports whether c is a member of the closed set.
func (c Category) Valid() bool {
	return c.Index() >= 0
}

// Index returns the class index of c, or -1.
func (c Category) Index() int {
	for i, known := range Categories {
		if known == c {
			return i
		}
	}
	return -1
}

// CategoryAt maps a classifier class index back to its category.
func CategoryAt(index int) (Category, error) {
	if index < 0 || index >= len(Categories) {
		return "", fmt.Errorf("class index %d out of range [0, %d)", index, len(Categories))
	}
	return Categories[index], nil
}

func (c Category) String() string {
	return string(c)
}

// Layout locates category directories under a dataset root.
type Layout struct {
	Root string
}

// Dir returns the directory that backs category c.
func (l Layout) Dir(c Category) string {
	return filepath.Join(l.Root, string(c))
}

// CategoryOf returns the category whose directory is dir, if any.
func (l Layout) CategoryOf(dir string) (Category, bool) {
	for _, c := range Categories {
		if SameDir(l.Dir(c), dir) {
			return c, true
		}
	}
	return "", false
}

// SameDir compares two directory paths after making them absolute.
func SameDir(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}
