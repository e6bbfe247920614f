// Package gateway provides the busy/result/error contract shared by every outbound call.
//
// A Call admits one in-flight invocation at a time. Invoking while busy is suppressed,
// not queued, so responses within one Call are always applied in call order.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Gateway errors.
var (
	// ErrBusy is returned when an invocation is suppressed because another is in flight.
	ErrBusy = errors.New("request already in progress")
	// ErrClosed is returned once the owning screen has been torn down.
	ErrClosed = errors.New("gateway closed")
)

// State is the lifecycle state of a Call.
type State int

// Call states.
const (
	StateIdle State = iota
	StateBusy
	StateSettled
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateBusy:
		return "busy"
	case StateSettled:
		return "settled"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Recorder receives one observation per completed call.
type Recorder interface {
	RecordRequest(provider, operation string, duration time.Duration, err error)
}

// Config holds configuration for a Call.
type Config struct {
	// Kind names the call (e.g. "search", "route") for logs and metrics.
	Kind string

	// Provider names the remote service for metrics (optional).
	Provider string

	// Logger for call lifecycle events.
	Logger zerolog.Logger

	// Recorder for call metrics (optional).
	Recorder Recorder

	// FallbackMessage replaces empty failure messages (default: GenericFailureMessage).
	FallbackMessage string
}

// Call is one gateway instance. Instances are independent: a busy search never blocks
// a detail lookup.
type Call[T any] struct {
	kind     string
	provider string
	logger   zerolog.Logger
	recorder Recorder
	fallback string

	mu     sync.Mutex
	state  State
	result T
	err    error
	closed bool
}

// New creates an idle Call.
func New[T any](cfg Config) *Call[T] {
	fallback := cfg.FallbackMessage
	if fallback == "" {
		fallback = GenericFailureMessage
	}
	return &Call[T]{
		kind:     cfg.Kind,
		provider: cfg.Provider,
		logger:   cfg.Logger.With().Str("call", cfg.Kind).Logger(),
		recorder: cfg.Recorder,
		fallback: fallback,
	}
}

// Invoke runs fn unless a call is already in flight, in which case it returns ErrBusy
// immediately and leaves the in-flight call untouched. Failures are converted to
// *RemoteCallError. The busy flag is cleared on every path, including panics in fn.
func (c *Call[T]) Invoke(ctx context.Context, fn func(context.Context) (T, error)) (T, error) {
	if err := c.begin(); err != nil {
		var zero T
		return zero, err
	}
	return c.run(ctx, fn)
}

// Start is the non-blocking form of Invoke. The returned channel is closed once the
// call has settled. ErrBusy and ErrClosed are reported synchronously.
func (c *Call[T]) Start(ctx context.Context, fn func(context.Context) (T, error)) (<-chan struct{}, error) {
	if err := c.begin(); err != nil {
		return nil, err
	}
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = c.run(ctx, fn)
	}()
	return done, nil
}

// State returns the current state.
func (c *Call[T]) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Busy reports whether a call is in flight.
func (c *Call[T]) Busy() bool {
	return c.State() == StateBusy
}

// Outcome is the settled value of a Call.
type Outcome[T any] struct {
	Result T
	Err    error
}

// Settled returns the last settled outcome. ok is false unless the Call is settled.
func (c *Call[T]) Settled() (outcome Outcome[T], ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateSettled {
		return Outcome[T]{}, false
	}
	return Outcome[T]{Result: c.result, Err: c.err}, true
}

// Close marks the owner as torn down. New invocations fail with ErrClosed and the
// result of a call still in flight is discarded instead of being applied.
func (c *Call[T]) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

func (c *Call[T]) begin() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}
	if c.state == StateBusy {
		c.logger.Debug().Msg("call suppressed while busy")
		return ErrBusy
	}

	var zero T
	c.state = StateBusy
	c.result = zero
	c.err = nil
	return nil
}

func (c *Call[T]) run(ctx context.Context, fn func(context.Context) (T, error)) (result T, err error) {
	start := time.Now()

	defer func() {
		if p := recover(); p != nil {
			var zero T
			result = zero
			err = &RemoteCallError{
				Kind:    c.kind,
				Message: c.fallback,
				Err:     fmt.Errorf("panic: %v", p),
			}
		}
		c.settle(result, err)
		c.observe(time.Since(start), err)
	}()

	result, err = fn(ctx)
	if err != nil {
		var zero T
		result = zero
		err = toRemoteCallError(c.kind, c.fallback, err)
	}
	return result, err
}

func (c *Call[T]) settle(result T, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		// Owner is gone: release the busy flag but do not publish the outcome.
		c.state = StateIdle
		c.logger.Debug().Msg("discarding result after close")
		return
	}
	c.state = StateSettled
	c.result = result
	c.err = err
}

func (c *Call[T]) observe(d time.Duration, err error) {
	if c.recorder != nil {
		c.recorder.RecordRequest(c.provider, c.kind, d, err)
	}

	if err != nil {
		c.logger.Warn().
			Err(err).
			Dur("duration", d).
			Msg("call failed")
		return
	}
	c.logger.Debug().
		Dur("duration", d).
		Msg("call settled")
}
