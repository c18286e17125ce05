package labeling

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/Mohammedmostain/road-surface-classification/internal/dataset"
	"github.com/Mohammedmostain/road-surface-classification/internal/providers"
	"github.com/Mohammedmostain/road-surface-classification/internal/testsupport"
)

type stubProvider struct {
	response string
	err      error
	got      providers.Config
}

func (s *stubProvider) ExtractText(_ context.Context, cfg providers.Config) (string, error) {
	s.got = cfg
	return s.response, s.err
}

func TestParseSuggestion(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     dataset.Category
		conf     float64
		wantErr  bool
	}{
		{"plain json", `{"category":"clear_road","confidence":0.9,"notes":"dry"}`, dataset.CategoryClear, 0.9, false},
		{"fenced json", "```json\n{\"category\":\"partially_covered\",\"confidence\":0.6}\n```", dataset.CategoryPartial, 0.6, false},
		{"alias in json", `{"category":"full","confidence":1.4}`, dataset.CategoryFull, 1, false},
		{"plain text", "The road is Partially Covered with slush.", dataset.CategoryPartial, 0, false},
		{"first mention wins", "fully_covered, definitely not clear_road", dataset.CategoryFull, 0, false},
		{"unknown json category falls back to text", `{"category":"snowy","notes":"looks clear to me"}`, dataset.CategoryClear, 0, false},
		{"nothing usable", "I cannot tell.", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSuggestion(tt.response)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseSuggestion error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if got.Category != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, got.Category)
			}
			if got.Confidence != tt.conf {
				t.Errorf("Expected confidence %.2f, got %.2f", tt.conf, got.Confidence)
			}
			if got.Raw != tt.response {
				t.Errorf("Raw response not preserved")
			}
		})
	}
}

func TestSuggest(t *testing.T) {
	path := testsupport.WriteImage(t, filepath.Join(t.TempDir(), "frame.png"), 8, 8)
	stub := &stubProvider{response: `{"category":"fully_covered","confidence":0.8}`}
	svc := NewServiceWithProviders(0.1, map[string]providers.Provider{"stub": stub})

	got, err := svc.Suggest(context.Background(), path, "stub", "vision-1")
	if err != nil {
		t.Fatalf("Suggest: %v", err)
	}
	if got.Category != dataset.CategoryFull {
		t.Errorf("Expected fully_covered, got %s", got.Category)
	}
	if stub.got.Model != "vision-1" || stub.got.MIMEType != "image/png" || len(stub.got.Image) == 0 {
		t.Errorf("Unexpected provider config %+v", stub.got)
	}
	if !strings.Contains(stub.got.Prompt, "partially_covered") {
		t.Errorf("Prompt must list the categories")
	}
}

func TestSuggestErrors(t *testing.T) {
	dir := t.TempDir()
	path := testsupport.WriteImage(t, filepath.Join(dir, "frame.jpg"), 8, 8)
	boom := errors.New("connection refused")
	svc := NewServiceWithProviders(0.1, map[string]providers.Provider{"stub": &stubProvider{err: boom}})

	if _, err := svc.Suggest(context.Background(), path, "stub", "m"); !errors.Is(err, boom) {
		t.Errorf("Expected provider error, got %v", err)
	}
	if _, err := svc.Suggest(context.Background(), path, "nope", "m"); err == nil {
		t.Errorf("Expected error for unsupported provider")
	}
	if _, err := svc.Suggest(context.Background(), filepath.Join(dir, "missing.jpg"), "stub", "m"); !errors.Is(err, dataset.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestTruncateRunes(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"short", 10, "short"},
		{"abcdef", 3, "abc..."},
		{"ééé", 2, "éé..."},
		{"路面湿滑", 3, "路面湿..."},
	}
	for _, tt := range tests {
		got := truncate(tt.in, tt.n)
		if got != tt.want {
			t.Errorf("Expected truncate(%q, %d) = %q, got %q", tt.in, tt.n, tt.want, got)
		}
		if !utf8.ValidString(got) {
			t.Errorf("Expected valid UTF-8, got %q", got)
		}
	}
}

func TestDefaultModel(t *testing.T) {
	t.Setenv("OPENAI_MODEL", "")
	t.Setenv("OLLAMA_MODEL", "llava:7b")
	if DefaultModel("openai") != "gpt-4o" {
		t.Errorf("Expected gpt-4o default")
	}
	if DefaultModel("ollama") != "llava:7b" {
		t.Errorf("Expected OLLAMA_MODEL override")
	}
	if DefaultModel("unknown") != "" {
		t.Errorf("Expected empty model for unknown provider")
	}
}
