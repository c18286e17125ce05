package providers

import (
	"context"
)

// Config represents one request to a vision-capable LLM provider
type Config struct {
	Model       string
	Temperature float64
	Prompt      string
	// Image is the raw encoded image sent alongside the prompt. It may be nil
	// for text-only requests.
	Image    []byte
	MIMEType string
}

// Provider defines the interface for an LLM provider
type Provider interface {
	ExtractText(ctx context.Context, config Config) (string, error)
}
