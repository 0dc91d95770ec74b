// Package osekmetrics collects low-overhead runtime counters and latency
// percentiles for a Kernel, grounded on the teacher's eventloop Metrics
// type: atomic counters for event counts, plus a P-Square streaming
// quantile estimator for a latency distribution, guarded by a mutex since
// every update already happens under the kernel's own critical section.
package osekmetrics

import (
	"sync"
	"sync/atomic"
	"time"
)

// Counters tracks kernel-lifetime event totals. All fields are accessed
// via atomic operations so they may be read from a goroutine other than
// the one driving Tick/Schedule without additional locking.
type Counters struct {
	Ticks              atomic.Uint64
	AlarmFires         atomic.Uint64
	CatchUpFires       atomic.Uint64
	ScheduleTableTicks atomic.Uint64
	TaskActivations    atomic.Uint64
	IOCSends           atomic.Uint64
	IOCOverwrites      atomic.Uint64
	IOCReceives        atomic.Uint64
	TrustedDenials     atomic.Uint64
}

// DispatchLatency tracks, for each alarm or expiry-point action a tick
// dispatches, the time from the start of that tick to the end of the
// action's dispatch, using the P-Square algorithm so memory use stays
// constant regardless of run length.
type DispatchLatency struct {
	mu    sync.Mutex
	quant *pSquareMultiQuantile
}

// NewDispatchLatency constructs a latency tracker for the P50/P90/P99
// percentiles.
func NewDispatchLatency() *DispatchLatency {
	return &DispatchLatency{quant: newPSquareMultiQuantile(0.50, 0.90, 0.99)}
}

// Record adds one observed latency sample.
func (d *DispatchLatency) Record(latency time.Duration) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.quant.Update(float64(latency))
}

// Snapshot is a point-in-time read of the latency distribution.
type Snapshot struct {
	Count int
	Mean  time.Duration
	Max   time.Duration
	P50   time.Duration
	P90   time.Duration
	P99   time.Duration
}

// Snapshot returns the current latency distribution.
func (d *DispatchLatency) Snapshot() Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	return Snapshot{
		Count: d.quant.Count(),
		Mean:  time.Duration(d.quant.Mean()),
		Max:   time.Duration(d.quant.Max()),
		P50:   time.Duration(d.quant.Quantile(0)),
		P90:   time.Duration(d.quant.Quantile(1)),
		P99:   time.Duration(d.quant.Quantile(2)),
	}
}

// Metrics bundles a kernel's counters and latency tracker. A nil *Metrics
// disables collection entirely; every method on *Metrics is nil-safe so
// call sites never need to branch on whether metrics are enabled.
type Metrics struct {
	Counters Counters
	Latency  *DispatchLatency
}

// New constructs an enabled Metrics bundle.
func New() *Metrics {
	return &Metrics{Latency: NewDispatchLatency()}
}

func (m *Metrics) RecordDispatchLatency(d time.Duration) {
	if m == nil {
		return
	}
	m.Latency.Record(d)
}

func (m *Metrics) IncTicks() {
	if m != nil {
		m.Counters.Ticks.Add(1)
	}
}

func (m *Metrics) IncAlarmFires() {
	if m != nil {
		m.Counters.AlarmFires.Add(1)
	}
}

func (m *Metrics) IncCatchUpFires() {
	if m != nil {
		m.Counters.CatchUpFires.Add(1)
	}
}

func (m *Metrics) IncScheduleTableTicks() {
	if m != nil {
		m.Counters.ScheduleTableTicks.Add(1)
	}
}

func (m *Metrics) IncTaskActivations() {
	if m != nil {
		m.Counters.TaskActivations.Add(1)
	}
}

func (m *Metrics) IncIOCSends() {
	if m != nil {
		m.Counters.IOCSends.Add(1)
	}
}

func (m *Metrics) IncIOCOverwrites() {
	if m != nil {
		m.Counters.IOCOverwrites.Add(1)
	}
}

func (m *Metrics) IncIOCReceives() {
	if m != nil {
		m.Counters.IOCReceives.Add(1)
	}
}

func (m *Metrics) IncTrustedDenials() {
	if m != nil {
		m.Counters.TrustedDenials.Add(1)
	}
}
