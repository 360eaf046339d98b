package logger

import "github.com/prometheus/client_golang/prometheus"

// HookCounter exposes the counter of a level for tests.
func HookCounter(h PrometheusHook, level string) prometheus.Counter {
	return h.counter.WithLabelValues(level)
}
