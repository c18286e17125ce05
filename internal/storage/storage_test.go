package storage

import (
	"sync"
	"testing"
	"time"

	"github.com/Mohammedmostain/road-surface-classification/internal/review"
)

func TestSessionStore(t *testing.T) {
	store := New()
	first := NewEntry("b", review.NewSession(review.ModeSort, nil, nil, review.PolicySkip), "")
	second := NewEntry("a", review.NewSession(review.ModeReview, nil, nil, review.PolicySkip), "")
	second.CreatedAt = first.CreatedAt.Add(time.Second)

	store.Set(first.ID, first)
	store.Set(second.ID, second)

	if got, ok := store.Get("b"); !ok || got != first {
		t.Errorf("Expected to get entry b")
	}
	all := store.GetAll()
	if len(all) != 2 || all[0].ID != "b" || all[1].ID != "a" {
		t.Errorf("Expected oldest first, got %v, %v", all[0].ID, all[1].ID)
	}

	store.Delete("b")
	if _, ok := store.Get("b"); ok {
		t.Errorf("Expected entry b deleted")
	}
}

func TestEntryDoSerializes(t *testing.T) {
	e := NewEntry("x", review.NewSession(review.ModeSort, nil, nil, review.PolicySkip), "")
	counter := 0

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			e.Do(func(*review.Session) { counter++ })
		}()
	}
	wg.Wait()

	if counter != 50 {
		t.Errorf("Expected 50 serialized calls, got %d", counter)
	}
}
