// Package metrics times the expensive steps of a session: finding and
// loading the catalog, drawing a frame, and writing an export.
//
// Samples live in memory and are printed by `mma validate --stats`.
// Set MMA_METRICS=0 to turn collection off.
//
//	defer metrics.Timer(metrics.CatalogLoad)()
package metrics

import (
	"fmt"
	"os"
	"sync/atomic"
	"time"
)

var enabled atomic.Bool

func init() {
	enabled.Store(os.Getenv("MMA_METRICS") != "0")
}

// Enabled reports whether samples are being recorded.
func Enabled() bool { return enabled.Load() }

// SetEnabled turns collection on or off.
func SetEnabled(e bool) { enabled.Store(e) }

// TimingMetric accumulates durations for one named step. It is safe for
// concurrent use.
type TimingMetric struct {
	name  string
	count atomic.Int64
	total atomic.Int64
	max   atomic.Int64
	// min is 0 until the first sample.
	min atomic.Int64
}

func newTimingMetric(name string) *TimingMetric {
	return &TimingMetric{name: name}
}

// Record adds one sample.
func (m *TimingMetric) Record(d time.Duration) {
	if !enabled.Load() {
		return
	}
	ns := int64(d)
	m.count.Add(1)
	m.total.Add(ns)
	for old := m.max.Load(); ns > old; old = m.max.Load() {
		if m.max.CompareAndSwap(old, ns) {
			break
		}
	}
	for old := m.min.Load(); old == 0 || ns < old; old = m.min.Load() {
		if m.min.CompareAndSwap(old, ns) {
			break
		}
	}
}

// Name returns the metric name.
func (m *TimingMetric) Name() string { return m.name }

// Count returns the number of samples.
func (m *TimingMetric) Count() int64 { return m.count.Load() }

// Stats returns a snapshot of the samples.
func (m *TimingMetric) Stats() TimingStats {
	st := TimingStats{
		Name:  m.name,
		Count: m.count.Load(),
		Total: time.Duration(m.total.Load()),
		Max:   time.Duration(m.max.Load()),
		Min:   time.Duration(m.min.Load()),
	}
	if st.Count > 0 {
		st.Avg = st.Total / time.Duration(st.Count)
	}
	return st
}

// Reset drops every sample.
func (m *TimingMetric) Reset() {
	m.count.Store(0)
	m.total.Store(0)
	m.max.Store(0)
	m.min.Store(0)
}

// TimingStats is a snapshot of one metric.
type TimingStats struct {
	Name  string        `json:"name"`
	Count int64         `json:"count"`
	Total time.Duration `json:"total_ns"`
	Avg   time.Duration `json:"avg_ns"`
	Max   time.Duration `json:"max_ns"`
	Min   time.Duration `json:"min_ns,omitempty"`
}

// String formats the snapshot as one `mma validate --stats` row.
func (s TimingStats) String() string {
	return fmt.Sprintf("%-14s n=%-3d avg=%.2fms max=%.2fms", s.Name, s.Count, ms(s.Avg), ms(s.Max))
}

func ms(d time.Duration) float64 { return float64(d) / float64(time.Millisecond) }

// Timer starts timing m and returns the function that records the sample.
func Timer(m *TimingMetric) func() {
	if m == nil || !enabled.Load() {
		return func() {}
	}
	start := time.Now()
	return func() { m.Record(time.Since(start)) }
}

var (
	// CatalogLoad covers choosing, reading and validating the catalog.
	CatalogLoad = newTimingMetric("catalog_load")
	// SourceDetect covers discovering candidate catalog sources.
	SourceDetect = newTimingMetric("source_detect")
	// Render covers one full View of the terminal UI.
	Render = newTimingMetric("render")
	// Export covers writing a guide, decision map or database.
	Export = newTimingMetric("export")
)

// AllTimingMetrics returns every metric in report order.
func AllTimingMetrics() []*TimingMetric {
	return []*TimingMetric{CatalogLoad, SourceDetect, Render, Export}
}

// ResetAll drops the samples of every metric.
func ResetAll() {
	for _, m := range AllTimingMetrics() {
		m.Reset()
	}
}

// AllTimingStats returns snapshots of the metrics that have samples.
func AllTimingStats() []TimingStats {
	var stats []TimingStats
	for _, m := range AllTimingMetrics() {
		if m.Count() > 0 {
			stats = append(stats, m.Stats())
		}
	}
	return stats
}
