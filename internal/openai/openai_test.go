package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Mohammedmostain/road-surface-classification/internal/providers"
)

func TestExtractText(t *testing.T) {
	var got struct {
		Messages []struct {
			Content []map[string]interface{} `json:"content"`
		} `json:"messages"`
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("Missing bearer token")
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"fully_covered"}}]}`))
	}))
	defer server.Close()

	t.Setenv("OPENAI_API_KEY", "test-key")
	t.Setenv("OPENAI_BASE_URL", server.URL)

	out, err := New().ExtractText(context.Background(), providers.Config{
		Model:    "gpt-4o",
		Prompt:   "classify",
		Image:    []byte{0x89, 'P', 'N', 'G'},
		MIMEType: "image/png",
	})
	if err != nil {
		t.Fatalf("ExtractText: %v", err)
	}
	if out != "fully_covered" {
		t.Errorf("Expected fully_covered, got %q", out)
	}

	if len(got.Messages) != 1 || len(got.Messages[0].Content) != 2 {
		t.Fatalf("Expected one message with text and image parts, got %+v", got)
	}
	imagePart := got.Messages[0].Content[1]
	url, _ := imagePart["image_url"].(map[string]interface{})["url"].(string)
	if !strings.HasPrefix(url, "data:image/png;base64,") {
		t.Errorf("Expected png data URI, got %q", url)
	}
}

func TestExtractTextRequiresKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	if _, err := New().ExtractText(context.Background(), providers.Config{}); err == nil {
		t.Errorf("Expected error without API key")
	}
}

func TestExtractTextNoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()
	t.Setenv("OPENAI_API_KEY", "k")
	t.Setenv("OPENAI_BASE_URL", server.URL)

	if _, err := New().ExtractText(context.Background(), providers.Config{Prompt: "x"}); err == nil {
		t.Errorf("Expected error for empty choices")
	}
}
