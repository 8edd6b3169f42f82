// Package monitor polls a battery source and draws the gauge on a display
// surface until it is told to stop.
package monitor

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/GuildOfCalamity/ConsoleBattery/pkg/display"
	"github.com/GuildOfCalamity/ConsoleBattery/pkg/events"
	"github.com/GuildOfCalamity/ConsoleBattery/pkg/gauge"
	"github.com/GuildOfCalamity/ConsoleBattery/pkg/powerinfo"
	"github.com/GuildOfCalamity/ConsoleBattery/pkg/source"
)

// State is the lifecycle state of a Monitor.
type State int32

const (
	// Idle means Run has not been called yet.
	Idle State = iota
	Running
	Stopping
	// Stopped is terminal; a Monitor cannot be restarted.
	Stopped
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Stopping:
		return "stopping"
	case Stopped:
		return "stopped"
	default:
		return "invalid"
	}
}

const (
	// DefaultInterval is the polling interval when none is configured.
	DefaultInterval = 3000 * time.Millisecond

	tickTimeout = 10 * time.Second
	recordCount = 60
)

// Options configures a Monitor.
type Options struct {
	Interval time.Duration
	BarWidth int
	Style    gauge.Style
	// ClampPercent clamps the displayed percentage to [0, 100].
	ClampPercent bool
}

// TickResult is the outcome of one tick. Err is nil or a *TickError.
type TickResult struct {
	At       time.Time
	Snapshot powerinfo.Snapshot
	Frame    gauge.Frame
	Lines    []string
	Err      error
}

// Monitor runs the polling loop. The RateMemory it is given is owned by the
// loop while Run executes.
type Monitor struct {
	src      source.Source
	surface  display.Surface
	mem      *gauge.RateMemory
	opts     Options
	hub      *events.EventHub
	recorder *TickRecorder
	now      func() time.Time

	state atomic.Int32

	mu   sync.RWMutex
	last *TickResult
}

// New returns a Monitor. hub may be nil.
func New(src source.Source, surface display.Surface, mem *gauge.RateMemory, opts Options, hub *events.EventHub) *Monitor {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.BarWidth <= 0 {
		opts.BarWidth = gauge.DefaultBarWidth
	}
	if mem == nil {
		mem = gauge.NewRateMemory(0)
	}
	return &Monitor{
		src:      src,
		surface:  surface,
		mem:      mem,
		opts:     opts,
		hub:      hub,
		recorder: NewTickRecorder(recordCount),
		now:      time.Now,
	}
}

// State returns the current lifecycle state.
func (m *Monitor) State() State {
	return State(m.state.Load())
}

// Recorder returns the recorder of completed ticks.
func (m *Monitor) Recorder() *TickRecorder {
	return m.recorder
}

// Interval returns the polling interval.
func (m *Monitor) Interval() time.Duration {
	return m.opts.Interval
}

// Latest returns the result of the last tick, if any.
func (m *Monitor) Latest() (TickResult, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.last == nil {
		return TickResult{}, false
	}
	return *m.last, true
}

// Run polls until ctx is cancelled. Cancellation is observed between ticks
// and during the sleep; a tick in progress is completed first, and the state
// is Stopping meanwhile. Per-tick errors are logged and never end the loop.
// Run returns ErrAlreadyStarted if called more than once.
func (m *Monitor) Run(ctx context.Context) error {
	if !m.state.CompareAndSwap(int32(Idle), int32(Running)) {
		return ErrAlreadyStarted
	}
	defer m.state.Store(int32(Stopped))

	stopWatch := context.AfterFunc(ctx, func() {
		m.state.CompareAndSwap(int32(Running), int32(Stopping))
	})
	defer stopWatch()

	logrus.WithField("interval", m.opts.Interval).Debug("monitor loop starts")

	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			logrus.Debug("monitor loop stopping")
			return nil
		case <-timer.C:
		}

		res := m.Tick(ctx)
		if res.Err != nil {
			logrus.WithError(res.Err).Warn("tick failed")
		}

		timer.Reset(m.opts.Interval)
	}
}

// Tick runs a single iteration: read a snapshot, compute the frame, draw it
// and raise attention on a status change. It is not safe to call Tick
// concurrently with Run.
func (m *Monitor) Tick(ctx context.Context) TickResult {
	tickCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), tickTimeout)
	defer cancel()

	res := TickResult{At: m.now()}
	defer func() {
		m.mu.Lock()
		r := res
		m.last = &r
		m.mu.Unlock()
	}()

	snap, err := m.src.Snapshot(tickCtx)
	if err != nil {
		res.Err = &TickError{Kind: ErrSnapshotUnavailable, Err: err}
		return res
	}
	res.Snapshot = snap

	prev := m.mem.LastStatus
	res.Frame = gauge.Compute(snap, m.mem, gauge.Options{
		BarWidth:     m.opts.BarWidth,
		ClampPercent: m.opts.ClampPercent,
	})

	if res.Frame.Attention {
		logrus.WithFields(logrus.Fields{
			"from": prev.String(),
			"to":   snap.Status.String(),
		}).Info("battery status changed")
		m.surface.Attention()
		m.hub.Publish(events.BatteryStatus, events.StatusChangedEvent{
			From: prev.String(),
			To:   snap.Status.String(),
			Ts:   res.At.Unix(),
		})
	}

	lines, err := Layout(res.At, snap, res.Frame, m.opts.BarWidth, m.opts.Style)
	if err != nil {
		res.Err = &TickError{Kind: ErrRender, Err: err}
		return res
	}
	if err := m.surface.WriteFrame(lines); err != nil {
		res.Err = &TickError{Kind: ErrRender, Err: err}
		return res
	}
	res.Lines = lines

	m.recorder.AddRecord(res.At)
	m.hub.Publish(events.GaugeFrame, res.Frame)

	fields := logrus.Fields{
		"status":   snap.Status.String(),
		"estimate": res.Frame.Estimate.Source.String(),
	}
	if res.Frame.Percentage != nil {
		fields["percentage"] = *res.Frame.Percentage
	}
	logrus.WithFields(fields).Trace("tick")

	return res
}
