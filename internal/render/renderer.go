// Package render types bot messages out one character at a time.
//
// Each surface (a transcript pane in the TUI, stdout in line mode) gets its
// own FIFO queue drained by a single worker goroutine, so two messages on
// the same surface never interleave and each starts only after the previous
// one has finished. Surfaces are independent of each other.
package render

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultDelay is the per-character reveal delay.
const DefaultDelay = 40 * time.Millisecond

// QueueSize is the per-surface buffer. Render blocks once a surface has this
// many messages waiting.
const QueueSize = 256

// Sink receives revealed text.
type Sink interface {
	Append(surface, chunk string)
}

// Sleeper pauses between characters. Tests swap in a fake.
type Sleeper func(time.Duration)

// Option configures a Renderer.
type Option func(*Renderer)

// WithDelay sets the per-character delay. Zero reveals each message at once.
func WithDelay(d time.Duration) Option {
	return func(r *Renderer) {
		if d >= 0 {
			r.delay = d
		}
	}
}

// WithSleeper replaces time.Sleep.
func WithSleeper(s Sleeper) Option {
	return func(r *Renderer) {
		if s != nil {
			r.sleep = s
		}
	}
}

type job struct {
	text string
	done chan struct{}
}

// Renderer owns the per-surface queues.
type Renderer struct {
	sink  Sink
	delay time.Duration
	sleep Sleeper

	mu     sync.RWMutex
	queues map[string]chan job
	closed bool
	wg     sync.WaitGroup

	rushed atomic.Bool // set by Stop; remaining characters skip the delay
}

// New creates a Renderer writing to sink.
func New(sink Sink, opts ...Option) *Renderer {
	r := &Renderer{
		sink:   sink,
		delay:  DefaultDelay,
		sleep:  time.Sleep,
		queues: make(map[string]chan job),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render queues text for surface. The returned channel is closed once the
// last character and the trailing line break have been written. After Close
// the channel is returned already closed and nothing is written.
func (r *Renderer) Render(surface, text string) <-chan struct{} {
	done := make(chan struct{})

	q := r.queue(surface)
	if q == nil {
		close(done)
		return done
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		close(done)
		return done
	}
	q <- job{text: text, done: done}
	return done
}

// Script queues lines back to back and returns the last line's signal.
func (r *Renderer) Script(surface string, lines ...string) <-chan struct{} {
	if len(lines) == 0 {
		done := make(chan struct{})
		close(done)
		return done
	}
	var done <-chan struct{}
	for _, line := range lines {
		done = r.Render(surface, line)
	}
	return done
}

// queue returns the channel for surface, starting its worker on first use.
func (r *Renderer) queue(surface string) chan job {
	r.mu.RLock()
	q, ok := r.queues[surface]
	closed := r.closed
	r.mu.RUnlock()
	if ok || closed {
		return q
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	if q, ok := r.queues[surface]; ok {
		return q
	}
	q = make(chan job, QueueSize)
	r.queues[surface] = q
	r.wg.Add(1)
	go r.processLoop(surface, q)
	return q
}

func (r *Renderer) processLoop(surface string, q chan job) {
	defer r.wg.Done()
	for j := range q {
		r.reveal(surface, j.text)
		close(j.done)
	}
}

func (r *Renderer) reveal(surface, text string) {
	if r.delay == 0 {
		r.sink.Append(surface, text+"\n")
		return
	}
	for _, ch := range text {
		r.sink.Append(surface, string(ch))
		if !r.rushed.Load() {
			r.sleep(r.delay)
		}
	}
	r.sink.Append(surface, "\n")
}

// Close stops accepting messages and waits for every queued one to finish.
func (r *Renderer) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	for _, q := range r.queues {
		close(q)
	}
	r.mu.Unlock()
	r.wg.Wait()
}

// Stop is Close without the typing delay: whatever is still queued is
// written out at once.
func (r *Renderer) Stop() {
	r.rushed.Store(true)
	r.Close()
}

// Wait blocks until done is closed or ctx ends.
func Wait(ctx context.Context, done <-chan struct{}) error {
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
