package display

import "sync"

// Buffer is an in-memory Surface. It keeps every frame written to it.
type Buffer struct {
	mu        sync.Mutex
	frames    [][]string
	messages  []string
	attention int
	begun     bool
	ended     bool
	// FailWrites makes WriteFrame return this error when set.
	FailWrites error
}

var _ Surface = &Buffer{}

func (b *Buffer) Begin() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.begun = true
	return nil
}

func (b *Buffer) WriteFrame(lines []string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.FailWrites != nil {
		return b.FailWrites
	}
	b.frames = append(b.frames, append([]string(nil), lines...))
	return nil
}

func (b *Buffer) Message(msg string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.messages = append(b.messages, msg)
	return nil
}

func (b *Buffer) Attention() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.attention++
}

func (b *Buffer) End() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.ended = true
	return nil
}

// Frames returns a copy of the frames written so far.
func (b *Buffer) Frames() [][]string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([][]string(nil), b.frames...)
}

// Messages returns the messages written so far.
func (b *Buffer) Messages() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.messages...)
}

// AttentionCount returns how many times Attention was called.
func (b *Buffer) AttentionCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.attention
}

// Ended reports whether End was called.
func (b *Buffer) Ended() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.ended
}
