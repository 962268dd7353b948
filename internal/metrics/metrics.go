package metrics

import (
	"sync"
	"sync/atomic"
	"time"
)

// Metrics is an in-process collector of counters and timers, exposed
// by the /metrics endpoint.
type Metrics struct {
	mu       sync.RWMutex
	counters map[string]*int64
	timers   map[string]*timer
	start    time.Time
}

type timer struct {
	count       int64
	totalTimeMs int64
	minTimeMs   int64
	maxTimeMs   int64
}

// TimerSnapshot captures timing information for one named timer
type TimerSnapshot struct {
	Count         int64   `json:"count"`
	TotalTimeMs   int64   `json:"total_time_ms"`
	AverageTimeMs float64 `json:"average_time_ms"`
	MinTimeMs     int64   `json:"min_time_ms"`
	MaxTimeMs     int64   `json:"max_time_ms"`
}

// Snapshot is a point-in-time view of all collected metrics
type Snapshot struct {
	UptimeSeconds int64                    `json:"uptime_seconds"`
	Counters      map[string]int64         `json:"counters"`
	Timers        map[string]TimerSnapshot `json:"timers"`
}

// NewMetrics creates a new metrics collector
func NewMetrics() *Metrics {
	return &Metrics{
		counters: make(map[string]*int64),
		timers:   make(map[string]*timer),
		start:    time.Now(),
	}
}

// IncrementCounter increments a counter by 1
func (m *Metrics) IncrementCounter(name string) {
	m.mu.RLock()
	counter, exists := m.counters[name]
	m.mu.RUnlock()

	if !exists {
		m.mu.Lock()
		if counter, exists = m.counters[name]; !exists {
			var c int64
			counter = &c
			m.counters[name] = counter
		}
		m.mu.Unlock()
	}

	atomic.AddInt64(counter, 1)
}

// RecordTime records a duration against a named timer
func (m *Metrics) RecordTime(name string, d time.Duration) {
	ms := d.Milliseconds()

	m.mu.Lock()
	defer m.mu.Unlock()

	t, exists := m.timers[name]
	if !exists {
		t = &timer{minTimeMs: ms, maxTimeMs: ms}
		m.timers[name] = t
	}
	t.count++
	t.totalTimeMs += ms
	if ms < t.minTimeMs {
		t.minTimeMs = ms
	}
	if ms > t.maxTimeMs {
		t.maxTimeMs = ms
	}
}

// Snapshot returns a copy of all collected metrics
func (m *Metrics) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snap := Snapshot{
		UptimeSeconds: int64(time.Since(m.start).Seconds()),
		Counters:      make(map[string]int64, len(m.counters)),
		Timers:        make(map[string]TimerSnapshot, len(m.timers)),
	}
	for name, counter := range m.counters {
		snap.Counters[name] = atomic.LoadInt64(counter)
	}
	for name, t := range m.timers {
		ts := TimerSnapshot{
			Count:       t.count,
			TotalTimeMs: t.totalTimeMs,
			MinTimeMs:   t.minTimeMs,
			MaxTimeMs:   t.maxTimeMs,
		}
		if t.count > 0 {
			ts.AverageTimeMs = float64(t.totalTimeMs) / float64(t.count)
		}
		snap.Timers[name] = ts
	}
	return snap
}
