package resilient

import (
	"errors"
	"log"
	"net"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"gorm.io/gorm"
)

// Options control one retry sequence.
type Options struct {
	Retries int
	Delay   time.Duration
	Backoff bool
}

func DefaultOptions() Options {
	return Options{Retries: 3, Delay: time.Second, Backoff: true}
}

var transientFragments = []string{
	"connection refused",
	"connection reset",
	"server closed",
	"server has gone away",
	"lost connection",
	"no such host",
	"connection",
	"timeout",
}

// IsRetryable reports whether err looks like a transient connectivity
// failure. Not-found, constraint violations and bad queries are terminal
// and must never be retried.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, frag := range transientFragments {
		if strings.Contains(msg, frag) {
			return true
		}
	}
	return false
}

// Executor runs store operations with retry and exponential backoff,
// consulting an optional HealthMonitor to decide whether to force a probe
// before attempting anything.
type Executor struct {
	Opts    Options
	Monitor *HealthMonitor

	clock clockwork.Clock
}

func NewExecutor(opts Options, monitor *HealthMonitor) *Executor {
	return &Executor{Opts: opts, Monitor: monitor, clock: clockwork.NewRealClock()}
}

// Do runs op with the executor's default retry budget.
func (e *Executor) Do(op func() error) error {
	return e.DoWith(e.Opts, op)
}

// DoWith runs op, retrying transient failures up to opts.Retries additional
// times. Terminal errors propagate immediately. Exhausting the budget marks
// the monitor unhealthy and returns the last error.
func (e *Executor) DoWith(opts Options, op func() error) error {
	if e.Monitor != nil && e.Monitor.NeedsProbe(staleAfter) {
		e.Monitor.Check()
	}

	var last error
	for attempt := 0; attempt <= opts.Retries; attempt++ {
		last = op()
		if last == nil {
			return nil
		}
		if !IsRetryable(last) {
			return last
		}
		if attempt < opts.Retries {
			delay := opts.Delay
			if opts.Backoff {
				delay = opts.Delay << attempt
			}
			log.Printf("store retry %d/%d in %s: %v", attempt+1, opts.Retries, delay, last)
			e.clock.Sleep(delay)
		}
	}

	if e.Monitor != nil {
		e.Monitor.markUnhealthy()
	}
	return last
}

// Safe runs op with a reduced retry budget and substitutes fallback when the
// final attempt still fails. Only for optional reads where an approximate
// value is an acceptable answer.
func Safe[T any](e *Executor, op func() (T, error), fallback T) T {
	var out T
	opts := e.Opts
	opts.Retries = 2
	err := e.DoWith(opts, func() error {
		v, err := op()
		if err != nil {
			return err
		}
		out = v
		return nil
	})
	if err != nil {
		log.Printf("query failed after retries, using fallback: %v", err)
		return fallback
	}
	return out
}
