package review

import (
	"errors"
	"fmt"
	"image"
	"log/slog"
	"path/filepath"

	"github.com/Mohammedmostain/road-surface-classification/internal/dataset"
	"github.com/Mohammedmostain/road-surface-classification/internal/images"
	"github.com/Mohammedmostain/road-surface-classification/internal/router"
)

// Mode names the two workflows a session drives.
type Mode string

const (
	// ModeSort walks the unlabeled source directory.
	ModeSort Mode = "sort"
	// ModeReview walks every labeled category directory.
	ModeReview Mode = "review"
)

// ParseMode validates a mode name.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeSort, ModeReview:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("unknown mode %q (expected sort or review)", s)
	}
}

// DecodePolicy decides what happens to an item whose image cannot be loaded.
type DecodePolicy string

const (
	// PolicySkip logs the failure and moves on, leaving the file in place.
	PolicySkip DecodePolicy = "skip"
	// PolicyDelete logs the failure and deletes the file.
	PolicyDelete DecodePolicy = "delete"
)

// Actions performs the side effects of a transition.
type Actions interface {
	Assign(item dataset.Item, c dataset.Category) (router.Result, error)
	Delete(item dataset.Item) (router.Result, error)
}

// Stats counts what a session has done so far.
type Stats struct {
	Kept        int `json:"kept"`
	Assigned    int `json:"assigned"`
	Unchanged   int `json:"unchanged"`
	Conflicts   int `json:"conflicts"`
	Deleted     int `json:"deleted"`
	Failed      int `json:"failed"`
	AutoSkipped int `json:"auto_skipped"`
	AutoDeleted int `json:"auto_deleted"`
}

// Actions is the total number of transitions taken.
func (s Stats) Actions() int {
	return s.Kept + s.Assigned + s.Unchanged + s.Conflicts + s.Deleted + s.Failed + s.AutoSkipped + s.AutoDeleted
}

// Outcome reports one transition.
type Outcome struct {
	Item    dataset.Item
	Command Command
	Result  router.Result
	// Auto is set when the decode policy advanced past an unreadable item.
	Auto bool
	// Done is set when the session has no items left after this transition.
	Done bool
}

// Session is the review state machine: an ordered item list and a cursor into
// it. Every transition advances the cursor by exactly one, so a list of N
// items is finished after N transitions whatever they were.
type Session struct {
	mode    Mode
	items   []dataset.Item
	cursor  Cursor
	actions Actions
	policy  DecodePolicy
	decode  func(path string) (image.Image, error)
	stats   Stats
}

// Option configures a Session.
type Option func(*Session)

// WithDecoder replaces the image decoder used by Load.
func WithDecoder(fn func(path string) (image.Image, error)) Option {
	return func(s *Session) { s.decode = fn }
}

// NewSession starts a session at the first item.
func NewSession(mode Mode, items []dataset.Item, actions Actions, policy DecodePolicy, opts ...Option) *Session {
	if policy == "" {
		policy = PolicySkip
	}
	s := &Session{
		mode:    mode,
		items:   items,
		cursor:  NewCursor(len(items)),
		actions: actions,
		policy:  policy,
		decode:  images.Open,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Mode returns the session mode.
func (s *Session) Mode() Mode { return s.mode }

// Cursor returns the current position.
func (s *Session) Cursor() Cursor { return s.cursor }

// Done reports whether every item has been handled.
func (s *Session) Done() bool { return s.cursor.Done() }

// Stats returns the counters so far.
func (s *Session) Stats() Stats { return s.stats }

// Items returns a copy of the item list with categories as they are now.
func (s *Session) Items() []dataset.Item {
	out := make([]dataset.Item, len(s.items))
	copy(out, s.items)
	return out
}

// Current returns the item under the cursor.
func (s *Session) Current() (dataset.Item, bool) {
	if s.cursor.Done() {
		return dataset.Item{}, false
	}
	return s.items[s.cursor.Index()], true
}

// Load decodes the current item for display. Items that fail to load are
// handled by the decode policy and skipped, each counting as one transition;
// the returned outcomes describe those automatic steps. When the list runs
// out, ok is false.
func (s *Session) Load() (item dataset.Item, img image.Image, auto []Outcome, ok bool) {
	for !s.cursor.Done() {
		item = s.items[s.cursor.Index()]

		decoded, err := s.decode(item.Path())
		if err == nil {
			return item, decoded, auto, true
		}

		auto = append(auto, s.applyDecodePolicy(item, err))
	}
	return dataset.Item{}, nil, auto, false
}

func (s *Session) applyDecodePolicy(item dataset.Item, loadErr error) Outcome {
	out := Outcome{Item: item, Auto: true}

	switch {
	case errors.Is(loadErr, dataset.ErrNotFound):
		slog.Warn("Image vanished before review, skipping", "item", item.Name, "dir", item.Dir)
		s.stats.AutoSkipped++
		out.Command = Keep()
	case s.policy == PolicyDelete:
		slog.Warn("Unreadable image, deleting per policy", "item", item.Name, "dir", item.Dir, "error", loadErr)
		out.Command = Delete()
		res, err := s.actions.Delete(item)
		if err != nil {
			slog.Error("Failed to delete unreadable image", "item", item.Name, "error", err)
			s.stats.Failed++
		} else {
			s.stats.AutoDeleted++
		}
		out.Result = res
	default:
		slog.Warn("Unreadable image, skipping per policy", "item", item.Name, "dir", item.Dir, "error", loadErr)
		s.stats.AutoSkipped++
		out.Command = Keep()
	}

	s.cursor = s.cursor.Next()
	out.Done = s.cursor.Done()
	return out
}

// Apply performs cmd on the current item and advances. Errors from the side
// effect are logged and returned, but the cursor advances regardless and the
// item's file stays where it was. Applying to a finished session is a no-op.
func (s *Session) Apply(cmd Command) (Outcome, error) {
	if s.cursor.Done() {
		return Outcome{Command: cmd, Done: true}, nil
	}

	idx := s.cursor.Index()
	item := s.items[idx]
	out := Outcome{Item: item, Command: cmd}

	var err error
	switch cmd.Kind {
	case KindKeep:
		s.stats.Kept++
		slog.Debug("Kept image", "item", item.Name)
	case KindDelete:
		out.Result, err = s.actions.Delete(item)
	case KindAssign:
		out.Result, err = s.actions.Assign(item, cmd.Category)
	default:
		err = fmt.Errorf("unknown command kind %d", cmd.Kind)
	}

	if err != nil {
		s.stats.Failed++
		slog.Error("Action failed", "item", item.Name, "command", cmd.String(), "error", err)
	} else if cmd.Kind != KindKeep {
		s.tally(idx, out.Result)
	}

	s.cursor = s.cursor.Next()
	out.Done = s.cursor.Done()
	return out, err
}

func (s *Session) tally(idx int, res router.Result) {
	switch res.Outcome {
	case router.OutcomeAssigned:
		s.stats.Assigned++
		s.items[idx].Category = res.Category
		if res.Target != "" {
			s.items[idx].Dir = filepath.Dir(res.Target)
		}
	case router.OutcomeUnchanged:
		s.stats.Unchanged++
	case router.OutcomeConflict:
		s.stats.Conflicts++
	case router.OutcomeDeleted:
		s.stats.Deleted++
	}
}
