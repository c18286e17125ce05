// Package labeling asks a vision model which road-condition category an image
// belongs to.
package labeling

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/Mohammedmostain/road-surface-classification/internal/dataset"
	"github.com/Mohammedmostain/road-surface-classification/internal/gemini"
	"github.com/Mohammedmostain/road-surface-classification/internal/images"
	"github.com/Mohammedmostain/road-surface-classification/internal/ollama"
	"github.com/Mohammedmostain/road-surface-classification/internal/openai"
	"github.com/Mohammedmostain/road-surface-classification/internal/providers"
)

// Suggestion is a model's opinion about one image.
type Suggestion struct {
	Category   dataset.Category `json:"category"`
	Confidence float64          `json:"confidence"`
	Notes      string           `json:"notes,omitempty"`
	Raw        string           `json:"-"`
}

type Service struct {
	providers   map[string]providers.Provider
	temperature float64
}

// NewService registers the built-in providers.
func NewService(temperature float64) *Service {
	return NewServiceWithProviders(temperature, map[string]providers.Provider{
		"ollama": ollama.New(),
		"openai": openai.New(),
		"gemini": gemini.New(),
	})
}

// NewServiceWithProviders uses the given provider set.
func NewServiceWithProviders(temperature float64, p map[string]providers.Provider) *Service {
	return &Service{providers: p, temperature: temperature}
}

// Suggest sends the image at imagePath to the provider and parses the
// category it answers with. Empty provider and model fall back to
// ROADSORT_PROVIDER and the per-provider model defaults.
func (s *Service) Suggest(ctx context.Context, imagePath, provider, model string) (*Suggestion, error) {
	if provider == "" {
		provider = os.Getenv("ROADSORT_PROVIDER")
		if provider == "" {
			provider = "ollama"
		}
	}
	if model == "" {
		model = DefaultModel(provider)
	}

	p, ok := s.providers[provider]
	if !ok {
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}

	imageData, err := os.ReadFile(imagePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &dataset.PathError{Path: imagePath, Err: dataset.ErrNotFound}
		}
		return nil, fmt.Errorf("failed to read image: %w", err)
	}

	raw, err := p.ExtractText(ctx, providers.Config{
		Model:       model,
		Temperature: s.temperature,
		Prompt:      buildPrompt(),
		Image:       imageData,
		MIMEType:    images.MIMEType(imagePath),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get suggestion from %s: %w", provider, err)
	}

	suggestion, err := ParseSuggestion(raw)
	if err != nil {
		return nil, err
	}

	slog.Debug("Suggested category", "path", imagePath, "provider", provider, "model", model, "category", suggestion.Category, "confidence", suggestion.Confidence)
	return suggestion, nil
}

// DefaultModel returns the model used when none is given.
func DefaultModel(provider string) string {
	switch provider {
	case "openai":
		if model := os.Getenv("OPENAI_MODEL"); model != "" {
			return model
		}
		return "gpt-4o"
	case "ollama":
		if model := os.Getenv("OLLAMA_MODEL"); model != "" {
			return model
		}
		return "llava:13b"
	case "gemini":
		if model := os.Getenv("GEMINI_MODEL"); model != "" {
			return model
		}
		return "gemini-1.5-flash"
	default:
		return ""
	}
}

func buildPrompt() string {
	return fmt.Sprintf(`You are reviewing a still frame from a roadside traffic camera during winter.

Classify the visible road surface into exactly one of these categories:
- %s: the driving lanes are bare, wet or dry, with no snow or ice cover
- %s: snow, slush or ice covers part of the lanes, with bare pavement or wheel tracks visible
- %s: the driving lanes are completely covered by snow or ice

Ignore the sky, shoulders, and parked areas. If the camera view is obstructed, pick the category that best matches whatever lane surface is visible and say so in the notes.

OUTPUT FORMAT:
Respond with ONLY a JSON object:

{
  "category": "one of %s",
  "confidence": 0.0 to 1.0,
  "notes": "one short sentence on what you saw"
}`,
		dataset.CategoryClear, dataset.CategoryPartial, dataset.CategoryFull,
		strings.Join(dataset.CategoryNames(), ", "),
	)
}

// ParseSuggestion extracts a Suggestion from a model response. JSON is tried
// first, after trimming markdown fences; failing that, the text is searched
// for a category name.
func ParseSuggestion(response string) (*Suggestion, error) {
	trimmed := strings.TrimSpace(response)
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(trimmed, "```")
	trimmed = strings.TrimSpace(trimmed)

	var result struct {
		Category   string  `json:"category"`
		Confidence float64 `json:"confidence"`
		Notes      string  `json:"notes"`
	}
	if err := json.Unmarshal([]byte(trimmed), &result); err == nil && result.Category != "" {
		c, err := dataset.ParseCategory(result.Category)
		if err == nil {
			return &Suggestion{Category: c, Confidence: clampConfidence(result.Confidence), Notes: result.Notes, Raw: response}, nil
		}
		slog.Warn("Model answered with an unknown category, searching text instead", "category", result.Category)
	} else if err != nil {
		slog.Warn("Failed to parse JSON response, using raw output", "error", err)
	}

	c, ok := categoryFromPlainText(trimmed)
	if !ok {
		return nil, fmt.Errorf("no category found in model response: %q", truncate(response, 120))
	}
	return &Suggestion{Category: c, Raw: response}, nil
}

// categoryFromPlainText returns the category mentioned earliest in text.
// Longer names are matched before their aliases so "partially_covered" is
// not read as "covered".
func categoryFromPlainText(text string) (dataset.Category, bool) {
	lower := strings.ToLower(text)
	lower = strings.ReplaceAll(lower, " ", "_")
	lower = strings.ReplaceAll(lower, "-", "_")

	best, bestIdx := dataset.Category(""), -1
	for _, c := range dataset.Categories {
		if idx := strings.Index(lower, string(c)); idx >= 0 && (bestIdx < 0 || idx < bestIdx) {
			best, bestIdx = c, idx
		}
	}
	if bestIdx >= 0 {
		return best, true
	}

	aliases := []struct {
		word string
		cat  dataset.Category
	}{
		{"partial", dataset.CategoryPartial},
		{"fully", dataset.CategoryFull},
		{"clear", dataset.CategoryClear},
	}
	for _, a := range aliases {
		if idx := strings.Index(lower, a.word); idx >= 0 && (bestIdx < 0 || idx < bestIdx) {
			best, bestIdx = a.cat, idx
		}
	}
	return best, bestIdx >= 0
}

func clampConfidence(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}

// truncate keeps the first n runes of s.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
