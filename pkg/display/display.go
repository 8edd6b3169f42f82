// Package display writes gauge frames to a terminal at fixed positions.
package display

import (
	"errors"
	"io"
	"strings"
	"sync"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// ErrNotTerminal is returned by Begin when the output is not a terminal.
var ErrNotTerminal = errors.New("output is not a terminal")

const (
	esc = "\x1b["

	hideCursor  = esc + "?25l"
	showCursor  = esc + "?25h"
	clearScreen = esc + "2J"
	home        = esc + "H"
	clearToEOL  = esc + "K"
	clearBelow  = esc + "J"
	bell        = "\a"
)

// Surface is where frames are drawn.
type Surface interface {
	// Begin prepares the surface (hides the cursor, sets the title).
	Begin() error
	// WriteFrame writes lines starting at the top-left corner, overwriting
	// what was there.
	WriteFrame(lines []string) error
	// Message clears the surface and writes msg.
	Message(msg string) error
	// Attention asks for the user's attention, e.g. on a status change.
	Attention()
	// End restores the surface to a normal state (cursor visible).
	End() error
}

// Terminal is a Surface backed by an ANSI terminal.
type Terminal struct {
	out   io.Writer
	title string
	// isTerminal reports whether out is a terminal. Begin fails when it
	// returns false and force is unset.
	isTerminal func() bool
	force      bool
	raise      func() error

	mu sync.Mutex
}

// NewTerminal returns a Terminal writing to out.
func NewTerminal(out io.Writer, title string, isTerminal func() bool, force bool) *Terminal {
	if isTerminal == nil {
		isTerminal = func() bool { return false }
	}
	return &Terminal{
		out:        out,
		title:      title,
		isTerminal: isTerminal,
		force:      force,
		raise:      raiseWindow,
	}
}

var _ Surface = &Terminal{}

func (t *Terminal) Begin() error {
	if !t.isTerminal() && !t.force {
		return ErrNotTerminal
	}
	enableVirtualTerminal()
	return t.write(setTitle(t.title) + clearScreen + home + hideCursor)
}

func (t *Terminal) WriteFrame(lines []string) error {
	var sb strings.Builder
	sb.WriteString(home)
	for _, l := range lines {
		sb.WriteString(l)
		sb.WriteString(clearToEOL)
		sb.WriteString("\r\n")
	}
	// Rows from a taller previous frame (e.g. the bar) must not linger.
	sb.WriteString(clearBelow)
	return t.write(sb.String())
}

func (t *Terminal) Message(msg string) error {
	return t.write(clearScreen + home + strings.ReplaceAll(msg, "\n", "\r\n"))
}

func (t *Terminal) Attention() {
	if err := t.write(bell); err != nil {
		logrus.WithError(err).Debug("failed to ring the bell")
	}
	if err := t.raise(); err != nil {
		logrus.WithError(err).Debug("failed to raise the console window")
	}
}

func (t *Terminal) End() error {
	return t.write(showCursor + setTitle(t.title+" - QUIT"))
}

func (t *Terminal) write(s string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	_, err := io.WriteString(t.out, s)
	if err != nil {
		return pkgerrors.Wrap(err, "failed to write to terminal")
	}
	return nil
}

func setTitle(title string) string {
	if title == "" {
		return ""
	}
	return "\x1b]0;" + title + "\a"
}
