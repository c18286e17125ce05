package storage

import (
	"sort"
	"sync"
	"time"

	"github.com/Mohammedmostain/road-surface-classification/internal/dataset"
	"github.com/Mohammedmostain/road-surface-classification/internal/review"
)

// Entry is a live session. Its mutex serializes every transition so that
// concurrent requests against one session never interleave.
type Entry struct {
	ID        string
	Category  dataset.Category
	CreatedAt time.Time

	mu      sync.Mutex
	session *review.Session
}

// NewEntry wraps sess for storage.
func NewEntry(id string, sess *review.Session, category dataset.Category) *Entry {
	return &Entry{ID: id, Category: category, CreatedAt: time.Now(), session: sess}
}

// Do runs fn with exclusive access to the session.
func (e *Entry) Do(fn func(*review.Session)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	fn(e.session)
}

type SessionStore struct {
	sessions map[string]*Entry
	mu       sync.RWMutex
}

func New() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*Entry),
	}
}

func (s *SessionStore) Get(sessionID string) (*Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, exists := s.sessions[sessionID]
	return session, exists
}

func (s *SessionStore) Set(sessionID string, session *Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sessionID] = session
}

// GetAll returns every session, oldest first.
func (s *SessionStore) GetAll() []*Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*Entry, 0, len(s.sessions))
	for _, v := range s.sessions {
		result = append(result, v)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID < result[j].ID
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result
}

func (s *SessionStore) Delete(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
}
