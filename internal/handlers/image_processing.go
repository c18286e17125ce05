package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/Mohammedmostain/road-surface-classification/internal/images"
	"github.com/Mohammedmostain/road-surface-classification/internal/review"
	"github.com/Mohammedmostain/road-surface-classification/internal/storage"
)

// serveImage writes a JPEG preview of the session's current item.
func (h *Handler) serveImage(w http.ResponseWriter, entry *storage.Entry) {
	var (
		data   []byte
		name   string
		status int
		errMsg string
	)

	entry.Do(func(sess *review.Session) {
		item, img, _, ok := sess.Load()
		if !ok {
			status, errMsg = http.StatusNotFound, "Session has no current image"
			return
		}
		name = item.Name

		key := item.Path()
		if cached, hit := h.thumbnails.Get(key); hit {
			data = cached
			return
		}

		thumb, err := images.Thumbnail(img, h.cfg.Server.ThumbnailSize)
		if err != nil {
			status, errMsg = http.StatusInternalServerError, "Failed to render preview: "+err.Error()
			return
		}
		h.thumbnails.Add(key, thumb)
		data = thumb
	})

	if errMsg != "" {
		h.writeError(w, errMsg, status)
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Cache-Control", "no-store")
	if _, err := w.Write(data); err != nil {
		slog.Error("Unable to write preview", "item", name, "err", err)
	}
}
