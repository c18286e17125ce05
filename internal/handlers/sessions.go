package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/Mohammedmostain/road-surface-classification/internal/dataset"
	"github.com/Mohammedmostain/road-surface-classification/internal/models"
	"github.com/Mohammedmostain/road-surface-classification/internal/review"
	"github.com/Mohammedmostain/road-surface-classification/internal/storage"
)

func (h *Handler) HandleSessions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case "GET":
		entries := h.sessionStore.GetAll()
		sessionList := make([]models.SessionView, 0, len(entries))
		for _, entry := range entries {
			sessionList = append(sessionList, h.view(entry))
		}
		h.writeJSON(w, sessionList)
	case "POST":
		h.createSession(w, r)
	default:
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *Handler) createSession(w http.ResponseWriter, r *http.Request) {
	var request models.CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	mode, err := review.ParseMode(request.Mode)
	if err != nil {
		h.writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	var category dataset.Category
	if request.Category != "" {
		if mode != review.ModeReview {
			h.writeError(w, "category filter applies only to review sessions", http.StatusBadRequest)
			return
		}
		category, err = dataset.ParseCategory(request.Category)
		if err != nil {
			h.writeError(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	sess, err := review.NewFromConfig(h.cfg, mode, category)
	if err != nil {
		h.writeError(w, "Failed to create session: "+err.Error(), http.StatusInternalServerError)
		return
	}

	entry := storage.NewEntry(uuid.NewString(), sess, category)
	h.sessionStore.Set(entry.ID, entry)
	slog.Info("Session created", "session_id", entry.ID, "mode", mode, "items", sess.Cursor().Total())

	h.writeJSONStatus(w, http.StatusCreated, h.view(entry))
}

func (h *Handler) HandleSessionDetail(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/sessions/")
	sessionID, sub, _ := strings.Cut(rest, "/")

	entry, ok := h.getSessionOrError(w, sessionID)
	if !ok {
		return
	}

	switch sub {
	case "":
		switch r.Method {
		case "GET":
			h.writeJSON(w, h.view(entry))
		case "DELETE":
			h.sessionStore.Delete(sessionID)
			w.WriteHeader(http.StatusNoContent)
		default:
			h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	case "actions":
		if r.Method != "POST" {
			h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.applyAction(w, r, entry)
	case "image":
		if r.Method != "GET" {
			h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.serveImage(w, entry)
	default:
		h.writeError(w, "Not found", http.StatusNotFound)
	}
}

func (h *Handler) applyAction(w http.ResponseWriter, r *http.Request, entry *storage.Entry) {
	var request models.ActionRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	cmd, err := review.ParseCommand(request.Command, request.Category)
	if err != nil {
		h.writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	var response models.ActionResponse
	entry.Do(func(sess *review.Session) {
		// Settle on a displayable item first so the decode policy, not the
		// action, handles unreadable files.
		_, _, auto, _ := sess.Load()

		out, err := sess.Apply(cmd)
		response.Outcome = outcomeView(out, err)
		if out.Item.Name != "" && err == nil && cmd.Kind != review.KindKeep {
			h.thumbnails.Remove(out.Item.Path())
		}

		response.Session = h.viewLocked(entry, sess)
		response.Session.Skipped = append(outcomeViews(auto), response.Session.Skipped...)
	})

	h.writeJSON(w, response)
}

// view loads the session's current item and describes the session.
func (h *Handler) view(entry *storage.Entry) models.SessionView {
	var v models.SessionView
	entry.Do(func(sess *review.Session) {
		v = h.viewLocked(entry, sess)
	})
	return v
}

func (h *Handler) viewLocked(entry *storage.Entry, sess *review.Session) models.SessionView {
	item, img, auto, ok := sess.Load()

	c := sess.Cursor()
	v := models.SessionView{
		ID:        entry.ID,
		Mode:      string(sess.Mode()),
		Category:  string(entry.Category),
		CreatedAt: entry.CreatedAt,
		Position:  c.Index(),
		Total:     c.Total(),
		Done:      sess.Done(),
		Stats:     sess.Stats(),
		Skipped:   outcomeViews(auto),
	}
	if ok {
		b := img.Bounds()
		v.Current = &models.ItemView{
			Name:     item.Name,
			Dir:      item.Dir,
			Category: string(item.Category),
			ImageURL: "/api/sessions/" + entry.ID + "/image",
			Width:    b.Dx(),
			Height:   b.Dy(),
		}
	}
	return v
}

func outcomeView(out review.Outcome, err error) models.OutcomeView {
	v := models.OutcomeView{
		Item:    out.Item.Name,
		Command: out.Command.String(),
	}
	if err != nil {
		v.Error = err.Error()
		return v
	}
	switch out.Command.Kind {
	case review.KindKeep:
		if out.Item.Name != "" {
			v.Outcome = "kept"
		}
	default:
		v.Outcome = out.Result.Outcome.String()
		v.Category = string(out.Result.Category)
		v.Variants = out.Result.Variants
	}
	return v
}

func outcomeViews(outs []review.Outcome) []models.OutcomeView {
	if len(outs) == 0 {
		return nil
	}
	views := make([]models.OutcomeView, 0, len(outs))
	for _, out := range outs {
		v := outcomeView(out, nil)
		if out.Command.Kind == review.KindKeep {
			v.Outcome = "skipped"
		}
		views = append(views, v)
	}
	return views
}
