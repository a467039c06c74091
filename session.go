package wemark

import (
	"context"
	"sync"
	"time"
)

// DefaultDebounce is the quiet period after the last edit before a run starts.
const DefaultDebounce = 150 * time.Millisecond

// Renderer converts one input to a fragment. *Converter implements it.
type Renderer interface {
	Convert(ctx context.Context, input Input) (*ConvertResult, error)
}

// Compile-time interface check
var _ Renderer = (*Converter)(nil)

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithDebounce sets the quiet period. Panics if d < 0.
func WithDebounce(d time.Duration) SessionOption {
	if d < 0 {
		panic("wemark: WithDebounce duration must not be negative")
	}
	return func(s *Session) {
		s.delay = d
	}
}

// WithErrorHandler receives errors of failed runs. Failed runs are never
// delivered, so the previous output stays in place.
func WithErrorHandler(fn func(error)) SessionOption {
	return func(s *Session) {
		s.onError = fn
	}
}

// Session turns a stream of edits into rendered fragments. Updates are
// debounced on the trailing edge, runs never overlap, and a result is
// delivered only if no newer edit arrived while it was computed.
type Session struct {
	conv    Renderer
	deliver func(*ConvertResult)
	onError func(error)
	delay   time.Duration

	mu      sync.Mutex
	gen     uint64
	pending *Input
	timer   *time.Timer
	closed  bool

	runMu sync.Mutex
	wg    sync.WaitGroup
}

// NewSession creates a Session delivering results of conv to deliver.
// deliver is called from a background goroutine, one call at a time.
func NewSession(conv Renderer, deliver func(*ConvertResult), opts ...SessionOption) *Session {
	s := &Session{
		conv:    conv,
		deliver: deliver,
		delay:   DefaultDebounce,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Update records the latest input and restarts the debounce timer.
func (s *Session) Update(input Input) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSessionClosed
	}

	s.gen++
	s.pending = &input
	s.stopTimer()

	s.wg.Add(1)
	s.timer = time.AfterFunc(s.delay, func() {
		defer s.wg.Done()
		s.run()
	})
	return nil
}

// Flush runs the pending input now instead of waiting for the timer and
// returns the run's error. It is a no-op when nothing is pending.
func (s *Session) Flush() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSessionClosed
	}
	s.stopTimer()
	s.wg.Add(1)
	s.mu.Unlock()

	defer s.wg.Done()
	return s.run()
}

// Close stops the timer, drops any pending input and waits for the run in
// flight. The in-flight run is not cancelled.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.stopTimer()
	s.pending = nil
	s.mu.Unlock()

	s.wg.Wait()
}

// stopTimer cancels a scheduled run. Caller holds s.mu.
func (s *Session) stopTimer() {
	if s.timer != nil && s.timer.Stop() {
		s.wg.Done()
	}
	s.timer = nil
}

// run converts the pending input, if any, and delivers the result when it
// is still the latest.
func (s *Session) run() error {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	s.mu.Lock()
	input, gen := s.pending, s.gen
	s.pending = nil
	s.mu.Unlock()

	if input == nil {
		return nil
	}

	res, err := s.conv.Convert(context.Background(), *input)
	if err != nil {
		if s.onError != nil {
			s.onError(err)
		}
		return err
	}

	s.mu.Lock()
	active := gen == s.gen
	s.mu.Unlock()

	if active && s.deliver != nil {
		s.deliver(res)
	}
	return nil
}
