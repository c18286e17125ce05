package ollama

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Mohammedmostain/road-surface-classification/internal/providers"
)

func TestExtractTextSendsImage(t *testing.T) {
	var got map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("Expected /api/generate, got %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"response": `{"category":"clear_road"}`})
	}))
	defer server.Close()

	out, err := NewWithURL(server.URL).ExtractText(context.Background(), providers.Config{
		Model:  "llava",
		Prompt: "classify",
		Image:  []byte("jpegbytes"),
	})
	if err != nil {
		t.Fatalf("ExtractText: %v", err)
	}
	if out != `{"category":"clear_road"}` {
		t.Errorf("Unexpected response %q", out)
	}

	images, ok := got["images"].([]interface{})
	if !ok || len(images) != 1 {
		t.Fatalf("Expected one image in request, got %v", got["images"])
	}
	if images[0] != base64.StdEncoding.EncodeToString([]byte("jpegbytes")) {
		t.Errorf("Image not base64 encoded as expected")
	}
	if got["model"] != "llava" || got["stream"] != false {
		t.Errorf("Unexpected request %v", got)
	}
}

func TestExtractTextNon200(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer server.Close()

	_, err := NewWithURL(server.URL).ExtractText(context.Background(), providers.Config{Model: "missing"})
	if err == nil || !strings.Contains(err.Error(), "404") {
		t.Errorf("Expected 404 error, got %v", err)
	}
}

func TestNewReadsEnv(t *testing.T) {
	t.Setenv("OLLAMA_URL", "http://gpu-box:11434")
	if New().baseURL != "http://gpu-box:11434" {
		t.Errorf("Expected OLLAMA_URL to be used")
	}
}
