package source

import (
	"context"
	"sync"

	"github.com/GuildOfCalamity/ConsoleBattery/pkg/powerinfo"
)

// Step is one scripted reply of a Static source.
type Step struct {
	Snapshot powerinfo.Snapshot
	Err      error
}

// Static replays a fixed list of replies, repeating the last one once the
// list is exhausted. It is used for demos and tests.
type Static struct {
	mu    sync.Mutex
	steps []Step
	calls int
}

// NewStatic returns a Static source that replays steps.
func NewStatic(steps ...Step) *Static {
	return &Static{steps: steps}
}

var _ Source = &Static{}

func (s *Static) Snapshot(ctx context.Context) (powerinfo.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return powerinfo.Snapshot{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.steps) == 0 {
		return powerinfo.Snapshot{}, ErrNoBattery
	}

	i := s.calls
	if i >= len(s.steps) {
		i = len(s.steps) - 1
	}
	s.calls++

	return s.steps[i].Snapshot, s.steps[i].Err
}

// Calls returns how many snapshots were requested.
func (s *Static) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.calls
}
