package monitor

import (
	"bytes"
	"context"
	"io"
)

const (
	// KeyEscape is the default exit key.
	KeyEscape byte = 0x1b
	keyCtrlC  byte = 0x03
)

// ExitHint is shown when a key other than the exit key is pressed.
const ExitHint = "\n ══ press <Esc> to exit ══ \n"

// WaitForExitKey reads key presses from r until exitKey (or Ctrl-C, which a
// raw-mode terminal does not turn into a signal) is read, ctx is done, or r
// fails. onOther is called for every other key press.
//
// r is expected to be a raw-mode terminal where each read returns one key.
// Escape sequences (arrow keys and the like) arrive in a single read and
// are not mistaken for a lone ESC.
//
// The reading goroutine stays blocked in Read after ctx is done until r
// returns; for stdin that is until the next key or process exit.
func WaitForExitKey(ctx context.Context, r io.Reader, exitKey byte, onOther func()) error {
	keys := make(chan []byte)
	errc := make(chan error, 1)

	go func() {
		buf := make([]byte, 16)
		for {
			n, err := r.Read(buf)
			if n > 0 {
				k := append([]byte(nil), buf[:n]...)
				select {
				case keys <- k:
				case <-ctx.Done():
					return
				}
			}
			if err != nil {
				errc <- err
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case k := <-keys:
			if isExitKey(k, exitKey) {
				return nil
			}
			if onOther != nil {
				onOther()
			}
		case err := <-errc:
			return err
		}
	}
}

func isExitKey(k []byte, exitKey byte) bool {
	if bytes.IndexByte(k, keyCtrlC) >= 0 {
		return true
	}
	if exitKey == KeyEscape {
		return len(k) == 1 && k[0] == KeyEscape
	}
	return bytes.IndexByte(k, exitKey) >= 0
}
