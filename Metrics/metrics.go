package Metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Provider records summary and completion metrics. A nil *Provider is valid
// and records nothing.
type Provider struct {
	summaries          *prometheus.CounterVec
	completions        *prometheus.CounterVec
	completionDuration *prometheus.HistogramVec
}

func NewProvider(registry *prometheus.Registry) *Provider {
	if registry == nil {
		return nil
	}

	provider := &Provider{
		summaries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "chat_summary_invocations_total",
				Help: "Total number of summary invocations by path and outcome",
			},
			[]string{"path", "outcome"},
		),
		completions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "chat_summary_completions_total",
				Help: "Total number of completion backend calls by task and status",
			},
			[]string{"task", "status"},
		),
		completionDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "chat_summary_completion_duration_seconds",
				Help:    "Latency of completion backend calls by task",
				Buckets: prometheus.ExponentialBuckets(0.25, 2, 8),
			},
			[]string{"task"},
		),
	}

	registry.MustRegister(
		provider.summaries,
		provider.completions,
		provider.completionDuration,
	)

	return provider
}

func (p *Provider) IncrementSummary(path, outcome string) {
	if p != nil && p.summaries != nil {
		p.summaries.WithLabelValues(path, outcome).Inc()
	}
}

func (p *Provider) ObserveCompletion(task string, elapsed time.Duration, err error) {
	if p == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	if p.completions != nil {
		p.completions.WithLabelValues(task, status).Inc()
	}
	if p.completionDuration != nil {
		p.completionDuration.WithLabelValues(task).Observe(elapsed.Seconds())
	}
}
