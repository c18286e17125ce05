package metrics

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Mohammedmostain/road-surface-classification/internal/dataset"
)

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestAggregateEvaluationResults(t *testing.T) {
	results := []EvaluationResult{
		{Path: "clear_road/a.png", Actual: dataset.CategoryClear, Predicted: dataset.CategoryClear, ProcessingTime: 2 * time.Second},
		{Path: "clear_road/b.png", Actual: dataset.CategoryClear, Predicted: dataset.CategoryPartial, ProcessingTime: 2 * time.Second},
		{Path: "fully_covered/c.png", Actual: dataset.CategoryFull, Predicted: dataset.CategoryFull, ProcessingTime: 2 * time.Second},
		{Path: "partially_covered/d.png", Actual: dataset.CategoryPartial, Predicted: dataset.CategoryPartial, ProcessingTime: 2 * time.Second},
		{Path: "partially_covered/e.png", Actual: dataset.CategoryPartial, Error: "timeout", ProcessingTime: 1 * time.Second},
	}

	agg := AggregateEvaluationResults(results, "ollama", "llava:13b")

	// Check basic stats
	if agg.TotalRecords != 5 {
		t.Errorf("Expected TotalRecords=5, got %d", agg.TotalRecords)
	}
	if agg.SuccessCount != 4 {
		t.Errorf("Expected SuccessCount=4, got %d", agg.SuccessCount)
	}
	if agg.FailureCount != 1 {
		t.Errorf("Expected FailureCount=1, got %d", agg.FailureCount)
	}
	if agg.Provider != "ollama" || agg.Model != "llava:13b" {
		t.Errorf("Unexpected provider/model %s/%s", agg.Provider, agg.Model)
	}

	if !approx(agg.Accuracy, 0.75) {
		t.Errorf("Expected accuracy 0.75, got %f", agg.Accuracy)
	}

	// rows: clear, full, partial
	want := [][]int{
		{1, 0, 1},
		{0, 1, 0},
		{0, 0, 1},
	}
	for i := range want {
		for j := range want[i] {
			if agg.Confusion[i][j] != want[i][j] {
				t.Errorf("Confusion[%d][%d]: expected %d, got %d", i, j, want[i][j], agg.Confusion[i][j])
			}
		}
	}

	clearStats := agg.PerClass["clear_road"]
	if !approx(clearStats.Precision, 1) || !approx(clearStats.Recall, 0.5) || clearStats.Support != 2 {
		t.Errorf("Unexpected clear_road stats %+v", clearStats)
	}
	if !approx(clearStats.F1, 2.0/3.0) {
		t.Errorf("Expected clear_road F1 0.667, got %f", clearStats.F1)
	}
	partial := agg.PerClass["partially_covered"]
	if !approx(partial.Precision, 0.5) || !approx(partial.Recall, 1) {
		t.Errorf("Unexpected partially_covered stats %+v", partial)
	}

	if !approx(agg.MacroAvg.Recall, (0.5+1+1)/3) {
		t.Errorf("Unexpected macro recall %f", agg.MacroAvg.Recall)
	}
	if !approx(agg.WeightedAvg.Recall, 0.75) {
		t.Errorf("Expected weighted recall to equal accuracy, got %f", agg.WeightedAvg.Recall)
	}

	if agg.AverageProcessingTime != 2*time.Second {
		t.Errorf("Expected average 2s, got %s", agg.AverageProcessingTime)
	}
	if agg.TotalProcessingTime != 9*time.Second {
		t.Errorf("Expected total 9s, got %s", agg.TotalProcessingTime)
	}

	if mis := agg.Misclassified(); len(mis) != 1 || mis[0].Path != "clear_road/b.png" {
		t.Errorf("Expected one misclassified image, got %v", mis)
	}
}

func TestAggregateEmpty(t *testing.T) {
	agg := AggregateEvaluationResults(nil, "openai", "gpt-4o")
	if agg.Accuracy != 0 || agg.SuccessCount != 0 {
		t.Errorf("Expected zero metrics, got %+v", agg)
	}
	if len(agg.PerClass) != len(dataset.Categories) {
		t.Errorf("Expected a row per class, got %d", len(agg.PerClass))
	}
}

func TestUnknownCategoryCountsAsFailure(t *testing.T) {
	agg := AggregateEvaluationResults([]EvaluationResult{
		{Actual: dataset.CategoryClear, Predicted: dataset.Category("snowy")},
	}, "p", "m")
	if agg.FailureCount != 1 {
		t.Errorf("Expected an unknown prediction to count as failure, got %d", agg.FailureCount)
	}
}

func TestWriteSummary(t *testing.T) {
	agg := AggregateEvaluationResults([]EvaluationResult{
		{Actual: dataset.CategoryFull, Predicted: dataset.CategoryFull},
	}, "gemini", "gemini-1.5-flash")

	var buf bytes.Buffer
	agg.WriteSummary(&buf)
	out := buf.String()
	for _, want := range []string{"CLASSIFICATION REPORT", "CONFUSION MATRIX", "fully_covered", "gemini-1.5-flash"} {
		if !strings.Contains(out, want) {
			t.Errorf("Summary missing %q", want)
		}
	}
}

func TestSaveToJSON(t *testing.T) {
	agg := AggregateEvaluationResults([]EvaluationResult{
		{Actual: dataset.CategoryClear, Predicted: dataset.CategoryClear},
	}, "ollama", "llava")

	path := filepath.Join(t.TempDir(), "results.json")
	if err := agg.SaveToJSON(path); err != nil {
		t.Fatalf("SaveToJSON: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"accuracy": 1`) {
		t.Errorf("Expected accuracy in JSON output, got %s", data)
	}
}
