package resilient

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func fastExecutor(monitor *HealthMonitor) *Executor {
	e := NewExecutor(Options{Retries: 3, Delay: time.Millisecond, Backoff: true}, monitor)
	return e
}

func TestDoRecoversFromTransientFailures(t *testing.T) {
	e := fastExecutor(nil)

	attempts := 0
	err := e.Do(func() error {
		attempts++
		if attempts < 3 {
			return errors.New("dial tcp 127.0.0.1:3306: connection refused")
		}
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestDoStopsOnTerminalError(t *testing.T) {
	e := fastExecutor(nil)

	attempts := 0
	err := e.Do(func() error {
		attempts++
		return gorm.ErrRecordNotFound
	})

	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.Equal(t, 1, attempts)
}

func TestDoExhaustsBudgetAndReturnsLastError(t *testing.T) {
	e := fastExecutor(nil)

	attempts := 0
	err := e.Do(func() error {
		attempts++
		return fmt.Errorf("probe %d: connection reset by peer", attempts)
	})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "probe 4")
	assert.Equal(t, 4, attempts) // first try plus three retries
}

func TestDoMarksMonitorUnhealthyOnExhaustion(t *testing.T) {
	m := NewHealthMonitor(func() error { return nil }, clockwork.NewFakeClock())
	m.Check()
	assert.True(t, m.Healthy())

	e := fastExecutor(m)
	err := e.Do(func() error { return errors.New("read tcp: connection reset") })

	assert.Error(t, err)
	assert.False(t, m.Healthy())
}

func TestDoProbesStaleUnhealthyMonitorFirst(t *testing.T) {
	clock := clockwork.NewFakeClock()
	probes := 0
	m := NewHealthMonitor(func() error { probes++; return nil }, clock)
	m.Check()
	m.markUnhealthy()
	clock.Advance(staleAfter + time.Second)

	e := fastExecutor(m)
	err := e.Do(func() error { return nil })

	assert.NoError(t, err)
	assert.Equal(t, 2, probes) // the explicit Check plus the forced one
	assert.True(t, m.Healthy())
}

func TestSafeReturnsValueOnSuccess(t *testing.T) {
	e := fastExecutor(nil)

	got := Safe(e, func() (float64, error) { return 12.99, nil }, 0)
	assert.Equal(t, 12.99, got)
}

func TestSafeFallsBackAfterRetries(t *testing.T) {
	e := fastExecutor(nil)

	attempts := 0
	got := Safe(e, func() (string, error) {
		attempts++
		return "", errors.New("mysql: server has gone away")
	}, "cached")

	assert.Equal(t, "cached", got)
	assert.Equal(t, 3, attempts) // Safe caps retries at 2
}

func TestIsRetryableClassification(t *testing.T) {
	assert.False(t, IsRetryable(nil))
	assert.False(t, IsRetryable(gorm.ErrRecordNotFound))
	assert.False(t, IsRetryable(errors.New("UNIQUE constraint failed: sizes.name")))

	assert.True(t, IsRetryable(errors.New("dial tcp: connection refused")))
	assert.True(t, IsRetryable(errors.New("read: connection reset by peer")))
	assert.True(t, IsRetryable(errors.New("mysql: server has gone away")))
	assert.True(t, IsRetryable(errors.New("i/o timeout")))
	assert.True(t, IsRetryable(errors.New("lookup db.internal: no such host")))
}

func TestBackoffDoublesDelay(t *testing.T) {
	clock := clockwork.NewFakeClock()
	e := NewExecutor(Options{Retries: 2, Delay: time.Second, Backoff: true}, nil)
	e.clock = clock

	done := make(chan error, 1)
	go func() {
		done <- e.Do(func() error { return errors.New("connection refused") })
	}()

	// attempt 1 fails, sleeps 1s
	clock.BlockUntil(1)
	clock.Advance(time.Second)
	// attempt 2 fails, sleeps 2s
	clock.BlockUntil(1)
	clock.Advance(2 * time.Second)

	err := <-done
	assert.Error(t, err)
}

func TestCheckRecordsOutcomeAndTimestamp(t *testing.T) {
	clock := clockwork.NewFakeClock()
	fail := true
	m := NewHealthMonitor(func() error {
		if fail {
			return errors.New("dial tcp: connection refused")
		}
		return nil
	}, clock)

	assert.False(t, m.Check())
	assert.False(t, m.Healthy())
	assert.Equal(t, clock.Now(), m.LastChecked())

	fail = false
	clock.Advance(probeInterval)
	assert.True(t, m.Check())
	assert.True(t, m.Healthy())
	assert.Equal(t, clock.Now(), m.LastChecked())
}

func TestNeedsProbeOnlyWhenUnhealthyAndStale(t *testing.T) {
	clock := clockwork.NewFakeClock()
	m := NewHealthMonitor(func() error { return nil }, clock)
	m.Check()

	// healthy: never needs a probe
	clock.Advance(time.Minute)
	assert.False(t, m.NeedsProbe(staleAfter))

	m.markUnhealthy()
	// fresh unhealthy flag inside the window
	m.Check()
	m.markUnhealthy()
	assert.False(t, m.NeedsProbe(staleAfter))

	clock.Advance(staleAfter + time.Second)
	assert.True(t, m.NeedsProbe(staleAfter))
}

func TestMonitorStartRunsPeriodicProbe(t *testing.T) {
	clock := clockwork.NewFakeClock()
	probed := make(chan struct{}, 4)
	m := NewHealthMonitor(func() error {
		probed <- struct{}{}
		return nil
	}, clock)

	assert.NoError(t, m.Start())
	defer m.Stop()

	clock.BlockUntil(1)
	clock.Advance(probeInterval)

	select {
	case <-probed:
	case <-time.After(2 * time.Second):
		t.Fatal("probe did not run after the interval elapsed")
	}
}
