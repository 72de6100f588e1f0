package testutils

import (
	"maps"
	"sync"
	"time"

	"github.com/raftai/engine/internal/ports"
)

// MetricEvent is one recorded metric observation.
type MetricEvent struct {
	Name   string
	Value  float64
	Labels map[string]string
}

// MockMetricsCollector implements ports.MetricsCollector by recording
// every observation in memory for assertion.
type MockMetricsCollector struct {
	mu sync.Mutex

	Latencies  []MetricEvent
	Counters   []MetricEvent
	Gauges     []MetricEvent
	Histograms []MetricEvent
}

func NewMockMetricsCollector() *MockMetricsCollector { return &MockMetricsCollector{} }

func (m *MockMetricsCollector) RecordLatency(name string, duration time.Duration, labels map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Latencies = append(m.Latencies, MetricEvent{Name: name, Value: duration.Seconds(), Labels: maps.Clone(labels)})
}

func (m *MockMetricsCollector) RecordCounter(name string, value float64, labels map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Counters = append(m.Counters, MetricEvent{Name: name, Value: value, Labels: maps.Clone(labels)})
}

func (m *MockMetricsCollector) RecordGauge(name string, value float64, labels map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Gauges = append(m.Gauges, MetricEvent{Name: name, Value: value, Labels: maps.Clone(labels)})
}

func (m *MockMetricsCollector) RecordHistogram(name string, value float64, labels map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Histograms = append(m.Histograms, MetricEvent{Name: name, Value: value, Labels: maps.Clone(labels)})
}

// CounterTotal sums every recorded value for a counter name and label
// subset match.
func (m *MockMetricsCollector) CounterTotal(name string, labels map[string]string) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	var total float64
	for _, ev := range m.Counters {
		if ev.Name != name {
			continue
		}
		match := true
		for k, v := range labels {
			if ev.Labels[k] != v {
				match = false
				break
			}
		}
		if match {
			total += ev.Value
		}
	}
	return total
}

var _ ports.MetricsCollector = (*MockMetricsCollector)(nil)
