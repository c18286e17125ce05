package metrics

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/Mohammedmostain/road-surface-classification/internal/dataset"
)

// EvaluationResult represents the outcome for a single labeled image
type EvaluationResult struct {
	Path           string           `json:"path" yaml:"path"`
	Actual         dataset.Category `json:"actual" yaml:"actual"`
	Predicted      dataset.Category `json:"predicted,omitempty" yaml:"predicted,omitempty"`
	Confidence     float64          `json:"confidence" yaml:"confidence"`
	Notes          string           `json:"notes,omitempty" yaml:"notes,omitempty"`
	ProcessingTime time.Duration    `json:"processing_time" yaml:"processing_time"`
	Error          string           `json:"error,omitempty" yaml:"error,omitempty"` // If prediction failed
}

// Correct reports whether the prediction matches the label.
func (r EvaluationResult) Correct() bool {
	return r.Error == "" && r.Predicted == r.Actual
}

// ClassStats is the per-class section of a classification report
type ClassStats struct {
	Precision float64 `json:"precision" yaml:"precision"`
	Recall    float64 `json:"recall" yaml:"recall"`
	F1        float64 `json:"f1" yaml:"f1"`
	Support   int     `json:"support" yaml:"support"`
}

// AggregateResults represents aggregated evaluation metrics
type AggregateResults struct {
	TotalRecords int `json:"total_records"`
	SuccessCount int `json:"success_count"`
	FailureCount int `json:"failure_count"`

	// Accuracy is over successful predictions only.
	Accuracy    float64               `json:"accuracy"`
	PerClass    map[string]ClassStats `json:"per_class"`
	MacroAvg    ClassStats            `json:"macro_avg"`
	WeightedAvg ClassStats            `json:"weighted_avg"`

	// Confusion[i][j] counts images of class i predicted as class j, in
	// class-index order.
	Confusion [][]int `json:"confusion"`

	// Timing
	AverageProcessingTime time.Duration `json:"average_processing_time"`
	TotalProcessingTime   time.Duration `json:"total_processing_time"`

	// Detailed results
	Results []EvaluationResult `json:"results"`

	// Metadata
	EvaluationDate time.Time `json:"evaluation_date"`
	Provider       string    `json:"provider"`
	Model          string    `json:"model"`
	SampleSize     int       `json:"sample_size"`
}

// AggregateEvaluationResults aggregates multiple evaluation results
func AggregateEvaluationResults(results []EvaluationResult, provider, model string) *AggregateResults {
	n := len(dataset.Categories)
	agg := &AggregateResults{
		TotalRecords:   len(results),
		Results:        results,
		EvaluationDate: time.Now(),
		Provider:       provider,
		Model:          model,
		SampleSize:     len(results),
		PerClass:       make(map[string]ClassStats, n),
		Confusion:      make([][]int, n),
	}
	for i := range agg.Confusion {
		agg.Confusion[i] = make([]int, n)
	}

	var totalDuration, successDuration time.Duration
	correct := 0

	for _, result := range results {
		totalDuration += result.ProcessingTime

		actual, predicted := result.Actual.Index(), result.Predicted.Index()
		if result.Error != "" || actual < 0 || predicted < 0 {
			agg.FailureCount++
			continue
		}

		agg.SuccessCount++
		successDuration += result.ProcessingTime
		agg.Confusion[actual][predicted]++
		if actual == predicted {
			correct++
		}
	}

	if agg.SuccessCount > 0 {
		agg.Accuracy = float64(correct) / float64(agg.SuccessCount)
		agg.AverageProcessingTime = successDuration / time.Duration(agg.SuccessCount)
	}
	agg.TotalProcessingTime = totalDuration

	agg.computeClassStats()
	return agg
}

func (a *AggregateResults) computeClassStats() {
	n := len(dataset.Categories)
	var macro, weighted ClassStats
	totalSupport := 0

	for i, c := range dataset.Categories {
		tp := a.Confusion[i][i]
		support, predicted := 0, 0
		for j := 0; j < n; j++ {
			support += a.Confusion[i][j]
			predicted += a.Confusion[j][i]
		}

		stats := ClassStats{
			Precision: ratio(tp, predicted),
			Recall:    ratio(tp, support),
			Support:   support,
		}
		if stats.Precision+stats.Recall > 0 {
			stats.F1 = 2 * stats.Precision * stats.Recall / (stats.Precision + stats.Recall)
		}
		a.PerClass[string(c)] = stats

		macro.Precision += stats.Precision / float64(n)
		macro.Recall += stats.Recall / float64(n)
		macro.F1 += stats.F1 / float64(n)

		weighted.Precision += stats.Precision * float64(support)
		weighted.Recall += stats.Recall * float64(support)
		weighted.F1 += stats.F1 * float64(support)
		totalSupport += support
	}

	macro.Support = totalSupport
	weighted.Support = totalSupport
	if totalSupport > 0 {
		weighted.Precision /= float64(totalSupport)
		weighted.Recall /= float64(totalSupport)
		weighted.F1 /= float64(totalSupport)
	}
	a.MacroAvg = macro
	a.WeightedAvg = weighted
}

func ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}

// PrintSummary prints a human-readable summary of the evaluation
func (a *AggregateResults) PrintSummary() {
	a.WriteSummary(os.Stdout)
}

// WriteSummary writes the summary printed by PrintSummary to w
func (a *AggregateResults) WriteSummary(w io.Writer) {
	fmt.Fprintln(w, "\n"+strings.Repeat("=", 70))
	fmt.Fprintln(w, "ROAD CONDITION EVALUATION SUMMARY")
	fmt.Fprintln(w, strings.Repeat("=", 70))
	fmt.Fprintf(w, "Evaluation Date: %s\n", a.EvaluationDate.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "Provider: %s\n", a.Provider)
	fmt.Fprintf(w, "Model: %s\n", a.Model)
	fmt.Fprintf(w, "Sample Size: %d images\n", a.SampleSize)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "PROCESSING STATISTICS")
	fmt.Fprintln(w, strings.Repeat("-", 70))
	fmt.Fprintf(w, "Total Images: %d\n", a.TotalRecords)
	fmt.Fprintf(w, "Successful: %d (%.1f%%)\n", a.SuccessCount, percent(a.SuccessCount, a.TotalRecords))
	fmt.Fprintf(w, "Failed: %d (%.1f%%)\n", a.FailureCount, percent(a.FailureCount, a.TotalRecords))
	fmt.Fprintf(w, "Average Processing Time: %s\n", a.AverageProcessingTime)
	fmt.Fprintf(w, "Total Processing Time: %s\n", a.TotalProcessingTime)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "CLASSIFICATION REPORT")
	fmt.Fprintln(w, strings.Repeat("-", 70))
	fmt.Fprintf(w, "%-20s %10s %10s %10s %10s\n", "", "precision", "recall", "f1-score", "support")
	for _, c := range dataset.Categories {
		printClassRow(w, string(c), a.PerClass[string(c)])
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%-20s %10s %10s %10.2f %10d\n", "accuracy", "", "", a.Accuracy, a.SuccessCount)
	printClassRow(w, "macro avg", a.MacroAvg)
	printClassRow(w, "weighted avg", a.WeightedAvg)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "CONFUSION MATRIX (rows: actual, columns: predicted)")
	fmt.Fprintln(w, strings.Repeat("-", 70))
	fmt.Fprintf(w, "%-20s", "")
	for _, c := range dataset.Categories {
		fmt.Fprintf(w, " %18s", c)
	}
	fmt.Fprintln(w)
	for i, c := range dataset.Categories {
		fmt.Fprintf(w, "%-20s", c)
		for j := range dataset.Categories {
			fmt.Fprintf(w, " %18d", a.Confusion[i][j])
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintln(w, strings.Repeat("=", 70))
}

func printClassRow(w io.Writer, name string, s ClassStats) {
	fmt.Fprintf(w, "%-20s %10.2f %10.2f %10.2f %10d\n", name, s.Precision, s.Recall, s.F1, s.Support)
}

func percent(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total) * 100
}

// SaveToJSON saves the aggregate results to a JSON file
func (a *AggregateResults) SaveToJSON(filepath string) error {
	file, err := os.Create(filepath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(a); err != nil {
		return fmt.Errorf("failed to encode results to JSON: %w", err)
	}

	return nil
}

// Misclassified returns the successful results whose prediction was wrong
func (a *AggregateResults) Misclassified() []EvaluationResult {
	var out []EvaluationResult
	for _, r := range a.Results {
		if r.Error == "" && r.Predicted != r.Actual {
			out = append(out, r)
		}
	}
	return out
}
