package models

import (
	"time"

	"github.com/Mohammedmostain/road-surface-classification/internal/review"
)

// SessionView is the JSON representation of a review or sort session
type SessionView struct {
	ID        string       `json:"id"`
	Mode      string       `json:"mode"`
	Category  string       `json:"category,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
	Position  int          `json:"position"`
	Total     int          `json:"total"`
	Done      bool         `json:"done"`
	Current   *ItemView    `json:"current,omitempty"`
	Stats     review.Stats `json:"stats"`
	// Skipped lists items the decode policy passed over since the last request.
	Skipped []OutcomeView `json:"skipped,omitempty"`
}

// ItemView represents the image under the cursor
type ItemView struct {
	Name     string `json:"name"`
	Dir      string `json:"dir"`
	Category string `json:"category,omitempty"`
	ImageURL string `json:"image_url"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
}

// OutcomeView reports one applied transition
type OutcomeView struct {
	Item     string   `json:"item"`
	Command  string   `json:"command"`
	Outcome  string   `json:"outcome,omitempty"`
	Category string   `json:"category,omitempty"`
	Variants []string `json:"variants,omitempty"`
	Error    string   `json:"error,omitempty"`
}

// CreateSessionRequest is the body of POST /api/sessions
type CreateSessionRequest struct {
	Mode     string `json:"mode"`
	Category string `json:"category,omitempty"`
}

// ActionRequest is the body of POST /api/sessions/{id}/actions
type ActionRequest struct {
	Command  string `json:"command"`
	Category string `json:"category,omitempty"`
}

// ActionResponse pairs the applied transition with the session afterwards
type ActionResponse struct {
	Outcome OutcomeView `json:"outcome"`
	Session SessionView `json:"session"`
}

// FrameUploadResponse describes a stored frame
type FrameUploadResponse struct {
	Filename  string `json:"filename"`
	Path      string `json:"path"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Duplicate bool   `json:"duplicate"`
}
