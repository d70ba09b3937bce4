// Package clipboard writes text to the system clipboard and drives the transient
// "copied" indicator shown next to copy buttons.
package clipboard

import (
	"sync"
	"time"

	"github.com/atotto/clipboard"
)

// DefaultDelay is how long the copied flag stays set after a copy.
const DefaultDelay = 2 * time.Second

// Writer writes text to a clipboard
type Writer interface {
	WriteText(text string) error
}

// WriterFunc adapts a function to Writer
type WriterFunc func(text string) error

// WriteText implements Writer
func (f WriterFunc) WriteText(text string) error {
	return f(text)
}

// SystemWriter writes to the platform clipboard (pbcopy, xclip/xsel/wl-copy, or the Windows API).
type SystemWriter struct{}

// WriteText implements Writer
func (SystemWriter) WriteText(text string) error {
	return clipboard.WriteAll(text)
}

// Supported reports whether a platform clipboard is available.
func Supported() bool {
	return !clipboard.Unsupported
}

// scheduleFunc runs f after d and returns a func that cancels it.
type scheduleFunc func(d time.Duration, f func()) (stop func() bool)

func afterFunc(d time.Duration, f func()) func() bool {
	return time.AfterFunc(d, f).Stop
}

// Option configures a Feedback
type Option func(*Feedback)

// WithDelay overrides DefaultDelay
func WithDelay(d time.Duration) Option {
	return func(f *Feedback) {
		if d > 0 {
			f.delay = d
		}
	}
}

// WithOnChange registers a callback invoked on every flip of the copied flag.
// It runs on the caller's goroutine for the rising edge and on a timer goroutine
// for the falling edge.
func WithOnChange(fn func(copied bool)) Option {
	return func(f *Feedback) {
		f.onChange = fn
	}
}

func withScheduler(s scheduleFunc) Option {
	return func(f *Feedback) {
		f.schedule = s
	}
}

// Feedback owns one copied flag and at most one pending reset timer.
// Instances are independent; each copy button may hold its own.
type Feedback struct {
	writer   Writer
	delay    time.Duration
	onChange func(bool)
	schedule scheduleFunc

	mu     sync.Mutex
	copied bool
	stop   func() bool
	gen    uint64
	closed bool
}

// New creates a Feedback that writes through w. A nil w uses SystemWriter.
func New(w Writer, opts ...Option) *Feedback {
	if w == nil {
		w = SystemWriter{}
	}
	f := &Feedback{
		writer:   w,
		delay:    DefaultDelay,
		schedule: afterFunc,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Copy writes text to the clipboard and raises the copied flag for the configured delay.
// A copy while the flag is raised restarts the window instead of stacking timers.
// Write failures are ignored. Copy after Close does nothing.
func (f *Feedback) Copy(text string) {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return
	}
	if f.stop != nil {
		f.stop()
	}
	f.gen++
	gen := f.gen
	rising := !f.copied
	f.copied = true
	f.stop = f.schedule(f.delay, func() { f.expire(gen) })
	f.mu.Unlock()

	if rising {
		f.notify(true)
	}

	_ = f.writer.WriteText(text)
}

// Copied reports whether the copied flag is currently raised
func (f *Feedback) Copied() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.copied
}

// Close cancels any pending timer and lowers the flag. It is safe to call more than once.
func (f *Feedback) Close() {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return
	}
	f.closed = true
	if f.stop != nil {
		f.stop()
		f.stop = nil
	}
	f.gen++
	falling := f.copied
	f.copied = false
	f.mu.Unlock()

	if falling {
		f.notify(false)
	}
}

func (f *Feedback) expire(gen uint64) {
	f.mu.Lock()
	// A stale timer that fired after being superseded is ignored
	if gen != f.gen || !f.copied {
		f.mu.Unlock()
		return
	}
	f.copied = false
	f.stop = nil
	f.mu.Unlock()

	f.notify(false)
}

func (f *Feedback) notify(copied bool) {
	if f.onChange != nil {
		f.onChange(copied)
	}
}
