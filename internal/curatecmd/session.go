package curatecmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/Mohammedmostain/road-surface-classification/internal/render"
	"github.com/Mohammedmostain/road-surface-classification/internal/review"
)

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// readLines feeds lines from in to the returned channel until EOF or until
// ctx is done. A read already blocked on in returns only when in does.
func readLines(ctx context.Context, in io.Reader) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		reader := bufio.NewReader(in)
		for {
			line, err := reader.ReadString('\n')
			if line != "" || err == nil {
				select {
				case lines <- strings.TrimRight(line, "\r\n"):
				case <-ctx.Done():
					return
				}
			}
			if err != nil {
				return
			}
		}
	}()
	return lines
}

// executeSession drives sess from terminal input until it is done, the
// operator quits, input ends, or ctx is cancelled. A key that maps to no
// command is reported and asked again without advancing.
func executeSession(ctx context.Context, w io.Writer, in io.Reader, sess *review.Session, keys review.KeyMap, prompt bool) error {
	total := sess.Cursor().Total()
	if total == 0 {
		fmt.Fprintln(w, "No images to process.")
		return nil
	}

	fmt.Fprintf(w, "Starting %s session: %d images\n", sess.Mode(), total)
	fmt.Fprintln(w, keyHelp(keys))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	lines := readLines(ctx, in)

loop:
	for {
		item, img, auto, ok := sess.Load()
		for _, out := range auto {
			fmt.Fprintf(w, "  skipped unreadable %s (%s)\n", out.Item.Name, out.Command)
		}
		if !ok {
			break
		}

		c := sess.Cursor()
		b := img.Bounds()
		label := "unlabeled"
		if item.Category != "" {
			label = string(item.Category)
		}
		fmt.Fprintf(w, "\n[%d/%d] %s  %s  %dx%d\n", c.Index()+1, c.Total(), item.Path(), label, b.Dx(), b.Dy())

		for {
			if prompt {
				fmt.Fprint(w, "> ")
			}

			var line string
			select {
			case <-ctx.Done():
				fmt.Fprintln(w, "\nSession interrupted.")
				break loop
			case l, open := <-lines:
				if !open {
					fmt.Fprintln(w, "\nInput closed.")
					break loop
				}
				line = l
			}

			cmd, err := keys.Translate(line)
			if errors.Is(err, review.ErrQuit) {
				break loop
			}
			if err != nil {
				fmt.Fprintf(w, "  %v\n", err)
				continue
			}

			out, err := sess.Apply(cmd)
			if err != nil {
				fmt.Fprintf(w, "  %s failed: %v\n", cmd, err)
			} else {
				fmt.Fprintf(w, "  %s: %s\n", cmd, describe(out))
			}
			break
		}
	}

	stats := sess.Stats()
	slog.Info("Session finished", "mode", sess.Mode(), "actions", stats.Actions(), "remaining", sess.Cursor().Remaining())
	fmt.Fprintln(w)
	fmt.Fprintln(w, statsTable(stats, sess.Cursor().Remaining()))
	return nil
}

func describe(out review.Outcome) string {
	switch out.Command.Kind {
	case review.KindKeep:
		return "kept"
	default:
		s := out.Result.Outcome.String()
		if n := len(out.Result.Variants); n > 0 {
			s += fmt.Sprintf(" (+%d variants)", n)
		}
		return s
	}
}

func keyHelp(keys review.KeyMap) string {
	bound := make([]string, 0, len(keys))
	for key := range keys {
		bound = append(bound, key)
	}
	sort.Strings(bound)

	parts := make([]string, 0, len(bound)+3)
	for _, key := range bound {
		parts = append(parts, fmt.Sprintf("%s=%s", key, keys[key]))
	}
	parts = append(parts, "x=delete", "enter/k=keep", "q=quit")
	return "Keys: " + strings.Join(parts, "  ")
}

func statsTable(s review.Stats, remaining int) string {
	rows := [][]string{
		{"kept", strconv.Itoa(s.Kept)},
		{"assigned", strconv.Itoa(s.Assigned)},
		{"unchanged", strconv.Itoa(s.Unchanged)},
		{"conflicts", strconv.Itoa(s.Conflicts)},
		{"deleted", strconv.Itoa(s.Deleted)},
		{"failed", strconv.Itoa(s.Failed)},
		{"auto skipped", strconv.Itoa(s.AutoSkipped)},
		{"auto deleted", strconv.Itoa(s.AutoDeleted)},
		{"remaining", strconv.Itoa(remaining)},
	}
	return render.Table([]string{"Result", "Count"}, rows, []render.Alignment{render.AlignLeft, render.AlignRight})
}
