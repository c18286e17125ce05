package review

import (
	"fmt"
	"strings"

	"github.com/Mohammedmostain/road-surface-classification/internal/dataset"
)

// Kind enumerates the decisions an operator can make about the current item.
type Kind int

const (
	// KindKeep leaves the item where it is. In sort mode this is a skip.
	KindKeep Kind = iota
	// KindDelete removes the item's file.
	KindDelete
	// KindAssign routes the item into a category.
	KindAssign
)

func (k Kind) String() string {
	switch k {
	case KindKeep:
		return "keep"
	case KindDelete:
		return "delete"
	case KindAssign:
		return "assign"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Command is the input to a session transition. Presentation layers translate
// their raw input events (keys, HTTP bodies) into Commands.
type Command struct {
	Kind     Kind
	Category dataset.Category // set only for KindAssign
}

// Keep returns a keep/skip command.
func Keep() Command { return Command{Kind: KindKeep} }

// Delete returns a delete command.
func Delete() Command { return Command{Kind: KindDelete} }

// Assign returns a command routing the item into c.
func Assign(c dataset.Category) Command { return Command{Kind: KindAssign, Category: c} }

func (c Command) String() string {
	if c.Kind == KindAssign {
		return "assign(" + string(c.Category) + ")"
	}
	return c.Kind.String()
}

// ParseCommand builds a command from its name and, for assign, a category.
func ParseCommand(name, category string) (Command, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "keep", "skip", "next":
		return Keep(), nil
	case "delete", "remove":
		return Delete(), nil
	case "assign", "move":
		c, err := dataset.ParseCategory(category)
		if err != nil {
			return Command{}, err
		}
		return Assign(c), nil
	default:
		return Command{}, fmt.Errorf("unknown command %q (expected keep, delete or assign)", name)
	}
}

// KeyMap translates single-key terminal input into commands.
type KeyMap map[string]dataset.Category

// NewKeyMap validates a key → category-name mapping.
func NewKeyMap(keys map[string]string) (KeyMap, error) {
	km := make(KeyMap, len(keys))
	for key, name := range keys {
		c, err := dataset.ParseCategory(name)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", key, err)
		}
		km[key] = c
	}
	return km, nil
}

// ErrQuit is returned by Translate when the operator asks to stop.
var ErrQuit = fmt.Errorf("quit requested")

// Translate maps one line of terminal input to a command. An empty line or
// "k" keeps, "x" deletes, "q" quits, and bound keys assign.
func (km KeyMap) Translate(input string) (Command, error) {
	key := strings.TrimSpace(input)
	switch strings.ToLower(key) {
	case "", "k", " ":
		return Keep(), nil
	case "x":
		return Delete(), nil
	case "q":
		return Command{}, ErrQuit
	}
	if c, ok := km[key]; ok {
		return Assign(c), nil
	}
	return Command{}, fmt.Errorf("unbound key %q", key)
}
