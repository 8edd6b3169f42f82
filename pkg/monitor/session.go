package monitor

import (
	"context"
	"errors"
	"io"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/GuildOfCalamity/ConsoleBattery/pkg/display"
)

// Session ties the polling loop to the key-read loop: the poller runs in
// its own goroutine while the caller's goroutine waits for the exit key,
// then the poller is cancelled and awaited before the display is restored.
type Session struct {
	Monitor *Monitor
	Surface display.Surface
	Input   io.Reader
	ExitKey byte
}

// Run blocks until the exit key is pressed, the input is closed, or ctx is
// done. It returns how long the session ran. A display that cannot be
// initialized is returned as an error before anything is started.
func (s *Session) Run(ctx context.Context) (time.Duration, error) {
	start := time.Now()

	if err := s.Surface.Begin(); err != nil {
		return 0, pkgerrors.Wrap(err, "failed to initialize display")
	}

	pollCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- s.Monitor.Run(pollCtx)
	}()

	exitKey := s.ExitKey
	if exitKey == 0 {
		exitKey = KeyEscape
	}

	keyErr := WaitForExitKey(ctx, s.Input, exitKey, func() {
		if err := s.Surface.Message(ExitHint); err != nil {
			logrus.WithError(err).Debug("failed to show exit hint")
		}
	})
	switch {
	case keyErr == nil:
		logrus.Info("exit key pressed")
	case errors.Is(keyErr, io.EOF), errors.Is(keyErr, context.Canceled):
		logrus.WithError(keyErr).Info("stopping monitor")
		keyErr = nil
	default:
		logrus.WithError(keyErr).Error("failed to read keyboard input")
	}

	cancel()
	runErr := <-done

	if err := s.Surface.End(); err != nil {
		logrus.WithError(err).Warn("failed to restore display")
	}

	elapsed := time.Since(start)
	if runErr != nil {
		return elapsed, runErr
	}
	if keyErr != nil {
		return elapsed, pkgerrors.Wrap(keyErr, "failed to read keyboard input")
	}
	return elapsed, nil
}
