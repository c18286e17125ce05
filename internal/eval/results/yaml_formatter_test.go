package results

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Mohammedmostain/road-surface-classification/internal/dataset"
	"github.com/Mohammedmostain/road-surface-classification/internal/eval/metrics"
)

func TestSaveAndLoadYAML(t *testing.T) {
	agg := metrics.AggregateEvaluationResults([]metrics.EvaluationResult{
		{Path: "clear_road/a.png", Actual: dataset.CategoryClear, Predicted: dataset.CategoryClear, Confidence: 0.9, ProcessingTime: 1500 * time.Millisecond},
		{Path: "fully_covered/b.png", Actual: dataset.CategoryFull, Predicted: dataset.CategoryPartial, ProcessingTime: time.Second},
		{Path: "fully_covered/c.png", Actual: dataset.CategoryFull, Error: "timeout"},
	}, "ollama", "llava:13b")

	dir := t.TempDir()
	path, err := SaveToYAML(dir, EvalConfig{
		Provider:    "ollama",
		Model:       "llava:13b",
		Temperature: 0.1,
		DatasetPath: "labeled_dataset",
		Timestamp:   "2026-01-02_03-04-05",
	}, agg)
	if err != nil {
		t.Fatalf("SaveToYAML: %v", err)
	}
	if filepath.Base(path) != "llava_13b-2026-01-02_03-04-05.yaml" {
		t.Errorf("Unexpected file name %s", filepath.Base(path))
	}

	doc, err := LoadYAML(path)
	if err != nil {
		t.Fatalf("LoadYAML: %v", err)
	}
	if doc.Config.SampleSize != 3 || len(doc.Results) != 3 {
		t.Errorf("Expected 3 results, got %d (sample %d)", len(doc.Results), doc.Config.SampleSize)
	}
	if doc.Summary.Accuracy != 0.5 {
		t.Errorf("Expected stored accuracy 0.5, got %f", doc.Summary.Accuracy)
	}

	again := doc.Aggregate()
	if again.Accuracy != agg.Accuracy || again.FailureCount != 1 {
		t.Errorf("Recomputed metrics differ: %f/%d", again.Accuracy, again.FailureCount)
	}
	if again.Results[0].ProcessingTime != 1500*time.Millisecond {
		t.Errorf("Expected duration round trip, got %s", again.Results[0].ProcessingTime)
	}
	if again.EvaluationDate.Year() != 2026 {
		t.Errorf("Expected evaluation date from timestamp, got %s", again.EvaluationDate)
	}
}

func TestLoadYAMLErrors(t *testing.T) {
	if _, err := LoadYAML(filepath.Join(t.TempDir(), "missing.yaml")); err == nil || !strings.Contains(err.Error(), "read") {
		t.Errorf("Expected read error, got %v", err)
	}
}
