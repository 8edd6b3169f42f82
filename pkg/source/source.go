// Package source provides battery snapshots to the monitor.
package source

import (
	"context"
	"errors"

	"github.com/GuildOfCalamity/ConsoleBattery/pkg/powerinfo"
)

// ErrNoBattery is returned when the host reports no battery at all.
var ErrNoBattery = errors.New("no batteries found")

// Source supplies battery snapshots on demand.
type Source interface {
	Snapshot(ctx context.Context) (powerinfo.Snapshot, error)
}

// Func adapts a function to a Source.
type Func func(ctx context.Context) (powerinfo.Snapshot, error)

func (f Func) Snapshot(ctx context.Context) (powerinfo.Snapshot, error) {
	return f(ctx)
}
