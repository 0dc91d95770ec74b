package osekmetrics_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/joeycumines/go-osek/osekmetrics"
)

func TestNilMetricsIncrementsAreNoOps(t *testing.T) {
	var m *osekmetrics.Metrics
	assert.NotPanics(t, func() {
		m.IncTicks()
		m.IncAlarmFires()
		m.IncCatchUpFires()
		m.IncScheduleTableTicks()
		m.IncTaskActivations()
		m.IncIOCSends()
		m.IncIOCOverwrites()
		m.IncIOCReceives()
		m.IncTrustedDenials()
		m.RecordDispatchLatency(time.Millisecond)
	})
}

func TestCountersIncrement(t *testing.T) {
	m := osekmetrics.New()
	m.IncTicks()
	m.IncTicks()
	m.IncAlarmFires()
	m.IncIOCSends()
	m.IncIOCSends()
	m.IncIOCSends()

	assert.Equal(t, uint64(2), m.Counters.Ticks.Load())
	assert.Equal(t, uint64(1), m.Counters.AlarmFires.Load())
	assert.Equal(t, uint64(3), m.Counters.IOCSends.Load())
	assert.Equal(t, uint64(0), m.Counters.TrustedDenials.Load())
}

func TestDispatchLatencySnapshotReflectsRecordedSamples(t *testing.T) {
	d := osekmetrics.NewDispatchLatency()
	for _, sample := range []time.Duration{
		10 * time.Millisecond,
		20 * time.Millisecond,
		30 * time.Millisecond,
		40 * time.Millisecond,
		50 * time.Millisecond,
	} {
		d.Record(sample)
	}

	snap := d.Snapshot()
	assert.Equal(t, 5, snap.Count)
	assert.Equal(t, 50*time.Millisecond, snap.Max)
	assert.InDelta(t, float64(30*time.Millisecond), float64(snap.Mean), float64(5*time.Millisecond))
	// P50 of a roughly uniform 10..50ms sample should land somewhere in
	// the middle of the range, not at either extreme.
	assert.Greater(t, snap.P50, 5*time.Millisecond)
	assert.Less(t, snap.P50, 55*time.Millisecond)
}

func TestDispatchLatencyEmptySnapshotIsZero(t *testing.T) {
	d := osekmetrics.NewDispatchLatency()
	snap := d.Snapshot()
	assert.Equal(t, 0, snap.Count)
}
