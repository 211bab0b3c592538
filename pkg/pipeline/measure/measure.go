package measure

import (
	"sort"
	"sync"
	"time"
)

type DefaultMeasure struct {
	mu    sync.Mutex
	Steps map[string]Metric
}

func NewDefaultMeasure() *DefaultMeasure {
	return &DefaultMeasure{
		Steps: make(map[string]Metric),
	}
}

// AddMetric registers a metric for the step. Adding the same name twice keeps the first metric.
func (m *DefaultMeasure) AddMetric(name string) Metric {
	m.mu.Lock()
	defer m.mu.Unlock()

	if mt, ok := m.Steps[name]; ok {
		return mt
	}
	mt := &DefaultMetric{
		allTransports: make(map[string]*TransportInfo),
	}
	m.Steps[name] = mt

	return mt
}

func (m *DefaultMeasure) GetMetric(name string) Metric {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.Steps[name]
}

func (m *DefaultMeasure) AllMetrics() map[string]Metric {
	m.mu.Lock()
	defer m.mu.Unlock()

	res := make(map[string]Metric, len(m.Steps))
	for name, mt := range m.Steps {
		res[name] = mt
	}

	return res
}

// StepReport is a flat view of a step metric.
type StepReport struct {
	Name      string
	Average   time.Duration
	Total     time.Duration
	Transport map[string]time.Duration
}

// Report returns the metrics of every step sorted by name.
func Report(msr Measure) []StepReport {
	all := msr.AllMetrics()
	res := make([]StepReport, 0, len(all))
	for name, mt := range all {
		transport := make(map[string]time.Duration)
		for input, info := range mt.AllTransports() {
			transport[input] = info.Elapsed
		}
		res = append(res, StepReport{
			Name:      name,
			Average:   mt.AVGDuration(),
			Total:     mt.GetTotalDuration(),
			Transport: transport,
		})
	}
	sort.Slice(res, func(i, j int) bool {
		return res[i].Name < res[j].Name
	})

	return res
}

var _ Measure = (*DefaultMeasure)(nil)
