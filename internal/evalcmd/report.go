package evalcmd

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/Mohammedmostain/road-surface-classification/internal/dataset"
	"github.com/Mohammedmostain/road-surface-classification/internal/eval/metrics"
	"github.com/Mohammedmostain/road-surface-classification/internal/eval/results"
	"github.com/Mohammedmostain/road-surface-classification/internal/render"
)

func executeReport(w io.Writer, resultsPath, format string) error {
	doc, err := results.LoadYAML(resultsPath)
	if err != nil {
		return fmt.Errorf("failed to load results: %w", err)
	}
	agg := doc.Aggregate()

	switch format {
	case "text":
		return printTextReport(w, agg)
	case "json":
		return printJSONReport(w, agg)
	case "csv":
		return printCSVReport(w, agg)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

func printTextReport(w io.Writer, agg *metrics.AggregateResults) error {
	fmt.Fprintln(w, "========================================")
	fmt.Fprintln(w, "Road Condition Evaluation Report")
	fmt.Fprintln(w, "========================================")
	fmt.Fprintf(w, "Provider: %s\n", agg.Provider)
	fmt.Fprintf(w, "Model:    %s\n", agg.Model)
	fmt.Fprintf(w, "Date:     %s\n", agg.EvaluationDate.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "Images:   %d (%d failed)\n", agg.TotalRecords, agg.FailureCount)
	fmt.Fprintf(w, "Accuracy: %.2f%%\n\n", agg.Accuracy*100)

	fmt.Fprintln(w, "Classification Report:")
	rows := make([][]string, 0, len(dataset.Categories)+2)
	for _, c := range dataset.Categories {
		rows = append(rows, classRow(string(c), agg.PerClass[string(c)]))
	}
	rows = append(rows, classRow("macro avg", agg.MacroAvg), classRow("weighted avg", agg.WeightedAvg))
	fmt.Fprintln(w, render.Table(
		[]string{"Class", "Precision", "Recall", "F1", "Support"},
		rows,
		[]render.Alignment{render.AlignLeft, render.AlignRight, render.AlignRight, render.AlignRight, render.AlignRight},
	))

	fmt.Fprintln(w, "\nConfusion Matrix (rows: actual, columns: predicted):")
	headers := append([]string{"Actual"}, dataset.CategoryNames()...)
	aligns := []render.Alignment{render.AlignLeft}
	matrix := make([][]string, 0, len(dataset.Categories))
	for i, c := range dataset.Categories {
		row := []string{string(c)}
		for j := range dataset.Categories {
			row = append(row, strconv.Itoa(agg.Confusion[i][j]))
		}
		matrix = append(matrix, row)
		aligns = append(aligns, render.AlignRight)
	}
	fmt.Fprintln(w, render.Table(headers, matrix, aligns))

	misclassified := agg.Misclassified()
	if len(misclassified) > 0 {
		fmt.Fprintln(w, "\nMisclassified Images:")
		rows := make([][]string, 0, len(misclassified))
		for _, r := range misclassified {
			rows = append(rows, []string{r.Path, string(r.Actual), string(r.Predicted), fmt.Sprintf("%.2f", r.Confidence), render.Truncate(r.Notes, 50)})
		}
		fmt.Fprintln(w, render.Table([]string{"Path", "Actual", "Predicted", "Confidence", "Notes"}, rows, []render.Alignment{render.AlignLeft, render.AlignLeft, render.AlignLeft, render.AlignRight, render.AlignLeft}))
	}

	var failed [][]string
	for _, r := range agg.Results {
		if r.Error != "" {
			failed = append(failed, []string{r.Path, render.Truncate(r.Error, 60)})
		}
	}
	if len(failed) > 0 {
		fmt.Fprintln(w, "\nFailed Predictions:")
		fmt.Fprintln(w, render.Table([]string{"Path", "Error"}, failed, nil))
	}

	return nil
}

func classRow(name string, s metrics.ClassStats) []string {
	return []string{
		name,
		fmt.Sprintf("%.2f", s.Precision),
		fmt.Sprintf("%.2f", s.Recall),
		fmt.Sprintf("%.2f", s.F1),
		strconv.Itoa(s.Support),
	}
}

func printJSONReport(w io.Writer, agg *metrics.AggregateResults) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(agg)
}

func printCSVReport(w io.Writer, agg *metrics.AggregateResults) error {
	writer := csv.NewWriter(w)

	header := []string{"Path", "Actual", "Predicted", "Correct", "Confidence", "Processing Time", "Error"}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, r := range agg.Results {
		row := []string{
			r.Path,
			string(r.Actual),
			string(r.Predicted),
			strconv.FormatBool(r.Correct()),
			fmt.Sprintf("%.4f", r.Confidence),
			r.ProcessingTime.String(),
			r.Error,
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}
