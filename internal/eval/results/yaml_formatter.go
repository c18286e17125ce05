package results

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Mohammedmostain/road-surface-classification/internal/dataset"
	"github.com/Mohammedmostain/road-surface-classification/internal/eval/metrics"
)

// EvalConfig represents the configuration section of the eval YAML
type EvalConfig struct {
	Provider    string  `yaml:"provider"`
	Model       string  `yaml:"model"`
	Temperature float64 `yaml:"temperature"`
	DatasetPath string  `yaml:"datasetpath"`
	SampleSize  int     `yaml:"samplesize"`
	Timestamp   string  `yaml:"timestamp"`
}

// EvalResult represents a single evaluation result
type EvalResult struct {
	Path           string  `yaml:"path"`
	Actual         string  `yaml:"actual"`
	Predicted      string  `yaml:"predicted,omitempty"`
	Confidence     float64 `yaml:"confidence"`
	Notes          string  `yaml:"notes,omitempty"`
	ProcessingTime string  `yaml:"processingtime"`
	Error          string  `yaml:"error,omitempty"`
}

// EvalSummary holds the headline numbers of a run.
type EvalSummary struct {
	Accuracy  float64                       `yaml:"accuracy"`
	Succeeded int                           `yaml:"succeeded"`
	Failed    int                           `yaml:"failed"`
	PerClass  map[string]metrics.ClassStats `yaml:"perclass"`
	Confusion [][]int                       `yaml:"confusion"`
}

// EvalSpec represents the complete evaluation file
type EvalSpec struct {
	Config  EvalConfig   `yaml:"config"`
	Summary EvalSummary  `yaml:"summary"`
	Results []EvalResult `yaml:"results"`
}

// SaveToYAML writes an evaluation to <dir>/<model>-<timestamp>.yaml and
// returns the absolute path. Failed predictions are kept so reports can
// list them.
func SaveToYAML(dir string, cfg EvalConfig, agg *metrics.AggregateResults) (string, error) {
	if dir == "" {
		dir = "evals"
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create evals directory: %w", err)
	}

	if cfg.Timestamp == "" {
		cfg.Timestamp = time.Now().Format("2006-01-02_15-04-05")
	}
	cfg.SampleSize = len(agg.Results)

	doc := EvalSpec{
		Config: cfg,
		Summary: EvalSummary{
			Accuracy:  agg.Accuracy,
			Succeeded: agg.SuccessCount,
			Failed:    agg.FailureCount,
			PerClass:  agg.PerClass,
			Confusion: agg.Confusion,
		},
		Results: make([]EvalResult, 0, len(agg.Results)),
	}

	for _, r := range agg.Results {
		doc.Results = append(doc.Results, EvalResult{
			Path:           r.Path,
			Actual:         string(r.Actual),
			Predicted:      string(r.Predicted),
			Confidence:     r.Confidence,
			Notes:          r.Notes,
			ProcessingTime: r.ProcessingTime.String(),
			Error:          r.Error,
		})
	}

	// Model names like "llava:13b" contain characters unsafe in file names.
	safeModel := strings.NewReplacer(":", "_", "/", "_").Replace(cfg.Model)
	filename := filepath.Join(dir, fmt.Sprintf("%s-%s.yaml", safeModel, cfg.Timestamp))

	data, err := yaml.Marshal(&doc)
	if err != nil {
		return "", fmt.Errorf("failed to marshal YAML: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write YAML file: %w", err)
	}

	absPath, err := filepath.Abs(filename)
	if err != nil {
		absPath = filename
	}
	return absPath, nil
}

// LoadYAML reads an evaluation file written by SaveToYAML.
func LoadYAML(path string) (*EvalSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read eval file: %w", err)
	}

	var doc EvalSpec
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse eval YAML: %w", err)
	}
	return &doc, nil
}

// Aggregate recomputes the metrics from the stored per-image results.
func (s *EvalSpec) Aggregate() *metrics.AggregateResults {
	results := make([]metrics.EvaluationResult, 0, len(s.Results))
	for _, r := range s.Results {
		d, _ := time.ParseDuration(r.ProcessingTime)
		results = append(results, metrics.EvaluationResult{
			Path:           r.Path,
			Actual:         dataset.Category(r.Actual),
			Predicted:      dataset.Category(r.Predicted),
			Confidence:     r.Confidence,
			Notes:          r.Notes,
			ProcessingTime: d,
			Error:          r.Error,
		})
	}

	agg := metrics.AggregateEvaluationResults(results, s.Config.Provider, s.Config.Model)
	if ts, err := time.ParseInLocation("2006-01-02_15-04-05", s.Config.Timestamp, time.Local); err == nil {
		agg.EvaluationDate = ts
	}
	return agg
}
