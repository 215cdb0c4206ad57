package render

import (
	"io"
	"strings"
	"sync"
)

// Buffer is an in-memory Sink. The TUI polls it on each tick.
type Buffer struct {
	mu       sync.Mutex
	surfaces map[string]*strings.Builder
	version  uint64
}

// NewBuffer returns an empty Buffer.
func NewBuffer() *Buffer {
	return &Buffer{surfaces: make(map[string]*strings.Builder)}
}

// Append implements Sink.
func (b *Buffer) Append(surface, chunk string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	sb, ok := b.surfaces[surface]
	if !ok {
		sb = &strings.Builder{}
		b.surfaces[surface] = sb
	}
	sb.WriteString(chunk)
	b.version++
}

// Text returns everything written to surface so far.
func (b *Buffer) Text(surface string) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if sb, ok := b.surfaces[surface]; ok {
		return sb.String()
	}
	return ""
}

// Lines returns the completed lines of surface. A line still being typed is
// returned last, without its break.
func (b *Buffer) Lines(surface string) []string {
	text := b.Text(surface)
	if text == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(text, "\n"), "\n")
}

// Clear empties surface.
func (b *Buffer) Clear(surface string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.surfaces, surface)
	b.version++
}

// Version changes whenever any surface changes.
func (b *Buffer) Version() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.version
}

// WriterSink writes every surface to one io.Writer.
type WriterSink struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriterSink wraps w.
func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: w}
}

// Append implements Sink. Write errors are dropped; there is nowhere to
// report them mid-message.
func (s *WriterSink) Append(_, chunk string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, _ = io.WriteString(s.w, chunk)
}
