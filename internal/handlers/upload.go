package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/Mohammedmostain/road-surface-classification/internal/dataset"
	"github.com/Mohammedmostain/road-surface-classification/internal/images"
	"github.com/Mohammedmostain/road-surface-classification/internal/models"
)

// HandleFrames stores an uploaded camera frame in the source directory under
// a content-hash name, so the same frame uploaded twice is stored once.
func (h *Handler) HandleFrames(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	limit := h.cfg.Server.MaxUploadBytes
	r.Body = http.MaxBytesReader(w, r.Body, limit+1024*1024)

	file, header, err := r.FormFile("files")
	if err != nil {
		file, header, err = r.FormFile("file")
		if err != nil {
			h.writeError(w, "Failed to read file: "+err.Error(), http.StatusBadRequest)
			return
		}
	}
	defer file.Close()

	fileData, err := io.ReadAll(io.LimitReader(file, limit+1))
	if err != nil {
		h.writeError(w, "Failed to read file contents: "+err.Error(), http.StatusInternalServerError)
		return
	}

	if int64(len(fileData)) > limit {
		h.writeError(w, fmt.Sprintf("File too large (max %d bytes)", limit), http.StatusRequestEntityTooLarge)
		return
	}

	if !dataset.HasExtension(header.Filename, h.cfg.Extensions) {
		h.writeError(w, fmt.Sprintf("Unsupported file type %q", filepath.Ext(header.Filename)), http.StatusBadRequest)
		return
	}

	dims, _, err := image.DecodeConfig(bytes.NewReader(fileData))
	if err != nil {
		h.writeError(w, "Uploaded file is not a readable image: "+err.Error(), http.StatusBadRequest)
		return
	}

	result, err := h.saveFrame(fileData, header.Filename)
	if err != nil {
		h.writeError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	result.Width, result.Height = dims.Width, dims.Height

	code := http.StatusCreated
	if result.Duplicate {
		code = http.StatusOK
	}
	h.writeJSONStatus(w, code, result)
}

func (h *Handler) saveFrame(data []byte, filename string) (*models.FrameUploadResponse, error) {
	if err := os.MkdirAll(h.cfg.SourceDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create source directory: %w", err)
	}

	name := images.ContentName(data, filename)
	path := filepath.Join(h.cfg.SourceDir, name)
	result := &models.FrameUploadResponse{Filename: name, Path: path}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if errors.Is(err, fs.ErrExist) {
		slog.Info("Frame already stored", "filename", name)
		result.Duplicate = true
		return result, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to save frame: %w", err)
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		_ = os.Remove(path)
		return nil, fmt.Errorf("failed to save frame: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return nil, fmt.Errorf("failed to save frame: %w", err)
	}

	slog.Info("Frame saved", "filename", name, "original", filename, "bytes", len(data))
	return result, nil
}
