package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestParseCategory(t *testing.T) {
	tests := []struct {
		input   string
		want    Category
		wantErr bool
	}{
		{"clear_road", CategoryClear, false},
		{"Clear", CategoryClear, false},
		{"fully-covered", CategoryFull, false},
		{"partially covered", CategoryPartial, false},
		{"partial", CategoryPartial, false},
		{"snow", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ParseCategory(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseCategory(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseCategory(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestCategoryIndexIsAlphabetical(t *testing.T) {
	names := CategoryNames()
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Errorf("Expected alphabetical class order, got %v", names)
		}
	}
	for i, c := range Categories {
		if c.Index() != i {
			t.Errorf("Expected %s at index %d, got %d", c, i, c.Index())
		}
		back, err := CategoryAt(i)
		if err != nil || back != c {
			t.Errorf("CategoryAt(%d) = %s, %v", i, back, err)
		}
	}
	if _, err := CategoryAt(3); err == nil {
		t.Errorf("Expected error for out-of-range index")
	}
	if Category("snow").Valid() {
		t.Errorf("Unknown category must not be valid")
	}
}

func TestLayout(t *testing.T) {
	l := Layout{Root: "/data"}
	if l.Dir(CategoryFull) != filepath.Join("/data", "fully_covered") {
		t.Errorf("Unexpected dir %s", l.Dir(CategoryFull))
	}
	c, ok := l.CategoryOf("/data/partially_covered/")
	if !ok || c != CategoryPartial {
		t.Errorf("Expected partially_covered, got %q, %v", c, ok)
	}
	if _, ok := l.CategoryOf("/elsewhere"); ok {
		t.Errorf("Expected no category for foreign dir")
	}
}

func TestEnumerate(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.PNG", "a.jpg", "c.jpeg", "notes.txt", "d.gif"} {
		touch(t, filepath.Join(dir, name))
	}
	if err := os.Mkdir(filepath.Join(dir, "sub.png"), 0o755); err != nil {
		t.Fatal(err)
	}

	items := Enumerate(dir, []string{".png", ".jpg", ".jpeg"})
	want := []string{"a.jpg", "b.PNG", "c.jpeg"}
	if len(items) != len(want) {
		t.Fatalf("Expected %v, got %v", want, items)
	}
	for i, item := range items {
		if item.Name != want[i] {
			t.Errorf("Expected %s at %d, got %s", want[i], i, item.Name)
		}
		if item.Dir != dir || item.Category != "" {
			t.Errorf("Unexpected item %+v", item)
		}
	}

	if got := Enumerate(filepath.Join(dir, "missing"), []string{".png"}); len(got) != 0 {
		t.Errorf("Expected empty list for missing dir, got %v", got)
	}
}

func TestEnumerateLabeled(t *testing.T) {
	layout := Layout{Root: t.TempDir()}
	touch(t, filepath.Join(layout.Dir(CategoryPartial), "p.png"))
	touch(t, filepath.Join(layout.Dir(CategoryClear), "c.png"))
	touch(t, filepath.Join(layout.Dir(CategoryFull), "f.png"))

	items := EnumerateLabeled(layout, []string{".png"})
	if len(items) != 3 {
		t.Fatalf("Expected 3 items, got %d", len(items))
	}
	for i, c := range Categories {
		if items[i].Category != c {
			t.Errorf("Expected %s at %d, got %s", c, i, items[i].Category)
		}
	}
}

func TestItem(t *testing.T) {
	item := Item{Dir: "/src", Name: "frame.01.png"}
	if item.Base() != "frame.01" {
		t.Errorf("Expected base frame.01, got %s", item.Base())
	}
	if item.Path() != filepath.Join("/src", "frame.01.png") {
		t.Errorf("Unexpected path %s", item.Path())
	}
}

func TestRequireDir(t *testing.T) {
	dir := t.TempDir()
	if err := RequireDir(dir); err != nil {
		t.Errorf("Expected nil, got %v", err)
	}
	file := filepath.Join(dir, "f")
	touch(t, file)
	if err := RequireDir(file); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound for a file, got %v", err)
	}
	var pe *PathError
	if err := RequireDir(filepath.Join(dir, "nope")); !errors.As(err, &pe) || pe.Path == "" {
		t.Errorf("Expected *PathError, got %v", err)
	}
}

func TestMatchMarker(t *testing.T) {
	markers := []string{"flip", "rot1"}
	if m, ok := MatchMarker("img_flip.jpg", markers); !ok || m != "flip" {
		t.Errorf("Expected flip, got %q %v", m, ok)
	}
	if _, ok := MatchMarker("img.jpg", markers); ok {
		t.Errorf("Expected no match")
	}
	if _, ok := MatchMarker("img.jpg", []string{""}); ok {
		t.Errorf("Empty marker must never match")
	}
}

func TestLock(t *testing.T) {
	root := filepath.Join(t.TempDir(), "dataset")

	lock, err := AcquireLock(root)
	if err != nil {
		t.Fatalf("AcquireLock: %v", err)
	}
	if _, err := AcquireLock(root); !errors.Is(err, ErrLocked) {
		t.Errorf("Expected ErrLocked for second writer, got %v", err)
	}

	if err := lock.Release(); err != nil {
		t.Fatalf("Release: %v", err)
	}
	if _, err := os.Stat(lock.Path()); err != nil {
		t.Errorf("Expected lock file left in place, got %v", err)
	}

	again, err := AcquireLock(root)
	if err != nil {
		t.Fatalf("Expected lock to be free after release: %v", err)
	}
	if again.Path() != lock.Path() {
		t.Errorf("Expected same lock file %s, got %s", lock.Path(), again.Path())
	}
	if _, err := AcquireLock(root); !errors.Is(err, ErrLocked) {
		t.Errorf("Expected reused lock file to still exclude writers, got %v", err)
	}
	_ = again.Release()
}
