package input

import (
	"slices"
	"sync"
	"sync/atomic"
	"time"
)

const latencySamples = 1000

// Metrics tracks press processing counts and latency.
type Metrics struct {
	presses          atomic.Uint64
	awaiting         atomic.Uint64
	invocations      atomic.Uint64
	unrecognized     atomic.Uint64
	disabled         atomic.Uint64
	timeouts         atomic.Uint64
	hookConsumptions atomic.Uint64

	// Latency ring buffer
	mu         sync.RWMutex
	latencies  []time.Duration
	latencyIdx int

	// Peak latency (all time)
	peakLatency atomic.Int64

	startTime time.Time
}

// NewMetrics creates a new metrics tracker.
func NewMetrics() *Metrics {
	return &Metrics{
		latencies: make([]time.Duration, latencySamples),
		startTime: time.Now(),
	}
}

// RecordPress records a resolved press and its processing time.
func (m *Metrics) RecordPress(res Result, latency time.Duration) {
	m.presses.Add(1)
	switch res.Outcome {
	case OutcomeAwaiting:
		m.awaiting.Add(1)
	case OutcomeInvoke:
		m.invocations.Add(1)
	case OutcomeUnrecognized:
		m.unrecognized.Add(1)
		if res.Disabled {
			m.disabled.Add(1)
		}
	case OutcomeConsumed:
		m.hookConsumptions.Add(1)
	}

	ns := latency.Nanoseconds()
	for {
		current := m.peakLatency.Load()
		if ns <= current || m.peakLatency.CompareAndSwap(current, ns) {
			break
		}
	}

	m.mu.Lock()
	m.latencies[m.latencyIdx] = latency
	m.latencyIdx = (m.latencyIdx + 1) % len(m.latencies)
	m.mu.Unlock()
}

// RecordTimeout records a pending sequence abandoned by the timeout.
func (m *Metrics) RecordTimeout() {
	m.timeouts.Add(1)
}

// MetricsSnapshot holds a point-in-time view of metrics.
type MetricsSnapshot struct {
	Presses          uint64
	Awaiting         uint64
	Invocations      uint64
	Unrecognized     uint64
	Disabled         uint64
	Timeouts         uint64
	HookConsumptions uint64

	AvgLatency  time.Duration
	MaxLatency  time.Duration
	P99Latency  time.Duration
	PeakLatency time.Duration

	Uptime time.Duration
}

// Snapshot returns a point-in-time view of all metrics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	m.mu.RLock()
	latencies := slices.Clone(m.latencies)
	start := m.startTime
	m.mu.RUnlock()

	snap := MetricsSnapshot{
		Presses:          m.presses.Load(),
		Awaiting:         m.awaiting.Load(),
		Invocations:      m.invocations.Load(),
		Unrecognized:     m.unrecognized.Load(),
		Disabled:         m.disabled.Load(),
		Timeouts:         m.timeouts.Load(),
		HookConsumptions: m.hookConsumptions.Load(),
		PeakLatency:      time.Duration(m.peakLatency.Load()),
		Uptime:           time.Since(start),
	}
	snap.AvgLatency, snap.MaxLatency, snap.P99Latency = latencyStats(latencies)
	return snap
}

// latencyStats computes average, max, and p99 over the recorded samples.
// Unused ring slots are zero and ignored.
func latencyStats(latencies []time.Duration) (avg, maxLat, p99 time.Duration) {
	valid := make([]time.Duration, 0, len(latencies))
	for _, l := range latencies {
		if l > 0 {
			valid = append(valid, l)
		}
	}
	if len(valid) == 0 {
		return 0, 0, 0
	}

	slices.Sort(valid)
	var sum time.Duration
	for _, l := range valid {
		sum += l
	}
	avg = sum / time.Duration(len(valid))
	maxLat = valid[len(valid)-1]

	idx := int(float64(len(valid)) * 0.99)
	if idx >= len(valid) {
		idx = len(valid) - 1
	}
	p99 = valid[idx]
	return avg, maxLat, p99
}

// Reset clears all metrics.
func (m *Metrics) Reset() {
	m.presses.Store(0)
	m.awaiting.Store(0)
	m.invocations.Store(0)
	m.unrecognized.Store(0)
	m.disabled.Store(0)
	m.timeouts.Store(0)
	m.hookConsumptions.Store(0)
	m.peakLatency.Store(0)

	m.mu.Lock()
	m.latencies = make([]time.Duration, latencySamples)
	m.latencyIdx = 0
	m.startTime = time.Now()
	m.mu.Unlock()
}

// HealthStatus summarises whether presses are resolved quickly enough.
type HealthStatus struct {
	Healthy          bool
	PeakLatency      time.Duration
	LatencyThreshold time.Duration
	Message          string
}

// HealthCheck compares the peak press latency against threshold.
func (m *Metrics) HealthCheck(threshold time.Duration) HealthStatus {
	status := HealthStatus{
		Healthy:          true,
		PeakLatency:      time.Duration(m.peakLatency.Load()),
		LatencyThreshold: threshold,
		Message:          "healthy",
	}
	if status.PeakLatency > threshold {
		status.Healthy = false
		status.Message = "latency threshold exceeded"
	}
	return status
}
