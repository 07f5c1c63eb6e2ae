package resilient

import (
	"log"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/jonboulle/clockwork"
)

const (
	probeInterval = 30 * time.Second

	// an unhealthy flag older than this forces a fresh probe before the
	// next store operation
	staleAfter = 5 * time.Second
)

// HealthMonitor keeps an advisory healthy flag for the catalog store,
// refreshed by a periodic liveness probe. The flag never gates correctness,
// only retry eagerness.
type HealthMonitor struct {
	mu          sync.RWMutex
	healthy     bool
	lastChecked time.Time

	probe     func() error
	clock     clockwork.Clock
	scheduler gocron.Scheduler
}

func NewHealthMonitor(probe func() error, clock clockwork.Clock) *HealthMonitor {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &HealthMonitor{healthy: true, probe: probe, clock: clock}
}

// Start schedules the periodic probe. Call once at startup; pair with Stop
// at process exit.
func (m *HealthMonitor) Start() error {
	s, err := gocron.NewScheduler(gocron.WithClock(m.clock))
	if err != nil {
		return err
	}
	if _, err := s.NewJob(
		gocron.DurationJob(probeInterval),
		gocron.NewTask(func() { m.Check() }),
	); err != nil {
		return err
	}
	s.Start()
	m.scheduler = s
	return nil
}

func (m *HealthMonitor) Stop() {
	if m.scheduler == nil {
		return
	}
	if err := m.scheduler.Shutdown(); err != nil {
		log.Println("health monitor shutdown:", err)
	}
}

// Check runs the liveness probe now and records the outcome.
func (m *HealthMonitor) Check() bool {
	err := m.probe()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.healthy = err == nil
	m.lastChecked = m.clock.Now()
	if err != nil {
		log.Println("liveness probe failed:", err)
	}
	return m.healthy
}

func (m *HealthMonitor) Healthy() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.healthy
}

func (m *HealthMonitor) LastChecked() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastChecked
}

// NeedsProbe reports whether the flag is both unhealthy and stale, meaning a
// caller should probe before attempting an operation.
func (m *HealthMonitor) NeedsProbe(window time.Duration) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return !m.healthy && m.clock.Since(m.lastChecked) > window
}

// markUnhealthy is called by the executor after an exhausted retry budget.
// lastChecked is left untouched: only probes update it.
func (m *HealthMonitor) markUnhealthy() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.healthy = false
}
