package service

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/hdfops/field-console/internal/api/metrics"
	"github.com/hdfops/field-console/internal/core/domain"
	"github.com/hdfops/field-console/internal/core/ports"
)

const (
	defaultCheckInterval    = 10 * time.Second
	defaultProbeTimeout     = 10 * time.Second
	defaultMaximumAge       = 30 * time.Second
	defaultFailureThreshold = 3
)

// MonitorOptions tunes the location monitor. Zero values pick the defaults
// above; tests shrink the interval to milliseconds.
type MonitorOptions struct {
	Interval         time.Duration
	ProbeTimeout     time.Duration
	MaximumAge       time.Duration
	FailureThreshold int
}

// LocationMonitor polls the location capability while a session is active
// and forces the session to end after sustained capability loss.
//
// Lifecycle: Start when a session appears, Stop when it ends. Each polling
// cycle owns a generation token; a probe still in flight when the cycle is
// torn down resolves into a no-op instead of mutating a dead session's
// counter.
type LocationMonitor struct {
	probe    ports.LocationProbe
	notifier ports.Notifier
	log      zerolog.Logger
	opts     MonitorOptions

	mu       sync.Mutex
	gen      uint64
	stop     chan struct{}
	failures int
}

func NewLocationMonitor(probe ports.LocationProbe, notifier ports.Notifier, opts MonitorOptions, log zerolog.Logger) *LocationMonitor {
	if opts.Interval <= 0 {
		opts.Interval = defaultCheckInterval
	}
	if opts.ProbeTimeout <= 0 {
		opts.ProbeTimeout = defaultProbeTimeout
	}
	if opts.MaximumAge <= 0 {
		opts.MaximumAge = defaultMaximumAge
	}
	if opts.FailureThreshold <= 0 {
		opts.FailureThreshold = defaultFailureThreshold
	}
	return &LocationMonitor{probe: probe, notifier: notifier, opts: opts, log: log}
}

// Available performs a one-shot capability check. Probe errors and
// capability-unsupported both report as unavailable; this never panics.
func (m *LocationMonitor) Available(ctx context.Context) bool {
	probeCtx, cancel := context.WithTimeout(ctx, m.opts.ProbeTimeout)
	defer cancel()

	_, err := m.probe.CurrentPosition(probeCtx, ports.ProbeOptions{
		Timeout:      m.opts.ProbeTimeout,
		MaximumAge:   m.opts.MaximumAge,
		HighAccuracy: true,
	})
	if err != nil {
		metrics.LocationChecksTotal.WithLabelValues("unavailable").Inc()
		return false
	}
	metrics.LocationChecksTotal.WithLabelValues("available").Inc()
	return true
}

// Start begins the polling cycle: one immediate check, then one per
// interval. A previous cycle, if any, is torn down first so re-entrant
// start/stop sequences never leak timers.
func (m *LocationMonitor) Start(onLost func()) {
	m.mu.Lock()
	m.teardownLocked()
	m.failures = 0
	m.stop = make(chan struct{})
	gen := m.gen
	stop := m.stop
	m.mu.Unlock()

	metrics.MonitorActive.Set(1)
	m.log.Debug().Dur("interval", m.opts.Interval).Msg("location monitor started")

	go m.run(gen, stop, onLost)
}

// Stop tears down the polling timer. Safe to call repeatedly and from the
// monitor's own callback path.
func (m *LocationMonitor) Stop() {
	m.mu.Lock()
	m.teardownLocked()
	m.failures = 0
	m.mu.Unlock()
	metrics.MonitorActive.Set(0)
}

// teardownLocked invalidates the current cycle. Callers hold m.mu.
func (m *LocationMonitor) teardownLocked() {
	m.gen++
	if m.stop != nil {
		close(m.stop)
		m.stop = nil
	}
}

func (m *LocationMonitor) run(gen uint64, stop chan struct{}, onLost func()) {
	// Immediate check on session start, then the fixed cadence. Each check
	// probes in its own goroutine: a slow probe must not delay the next
	// scheduled check, and overlapping checks are tolerated because the
	// failure counter serializes on the mutex.
	go m.check(gen, onLost)

	ticker := time.NewTicker(m.opts.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			go m.check(gen, onLost)
		}
	}
}

func (m *LocationMonitor) check(gen uint64, onLost func()) {
	ctx, cancel := context.WithTimeout(context.Background(), m.opts.ProbeTimeout)
	defer cancel()

	ok := m.Available(ctx)

	m.mu.Lock()
	if gen != m.gen {
		// The cycle this probe belonged to was torn down while it was in
		// flight. Its result must not touch the counter.
		m.mu.Unlock()
		return
	}

	if ok {
		m.failures = 0
		metrics.LocationFailureStreak.Set(0)
		m.mu.Unlock()
		return
	}

	m.failures++
	failures := m.failures
	metrics.LocationFailureStreak.Set(float64(failures))
	triggered := failures == m.opts.FailureThreshold
	m.mu.Unlock()

	m.log.Warn().Int("consecutive_failures", failures).Msg("location check failed")

	if !triggered {
		return
	}

	metrics.ForcedLogoutsTotal.Inc()
	onLost()
	m.notifier.Notify(ctx, domain.Notification{
		Severity: domain.SeverityWarning,
		Code:     domain.NoteSecurityLogout,
		Message:  "You have been logged out for security: location access was lost",
		At:       time.Now().UTC(),
	})
}
