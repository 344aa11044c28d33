package score

import "github.com/tonyispowerful/pdf-process/internal/metric"

// MetricProvider resolves ready-to-use metric implementations by name.
type MetricProvider interface {
	Get(name string) (metric.Metric, bool)
	Names() []string
}
