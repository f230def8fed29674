package Metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestNilProviderIsSafe(t *testing.T) {
	var provider *Provider
	assert.Nil(t, NewProvider(nil))

	assert.NotPanics(t, func() {
		provider.IncrementSummary("room", "matched")
		provider.ObserveCompletion("summary", time.Second, nil)
	})
}

func TestProviderCounts(t *testing.T) {
	registry := prometheus.NewRegistry()
	provider := NewProvider(registry)

	provider.IncrementSummary("room", "matched")
	provider.IncrementSummary("room", "matched")
	provider.IncrementSummary("thread", "empty")
	provider.ObserveCompletion("summary", 300*time.Millisecond, nil)
	provider.ObserveCompletion("summary", time.Second, errors.New("down"))

	assert.Equal(t, 2.0, testutil.ToFloat64(provider.summaries.WithLabelValues("room", "matched")))
	assert.Equal(t, 1.0, testutil.ToFloat64(provider.summaries.WithLabelValues("thread", "empty")))
	assert.Equal(t, 1.0, testutil.ToFloat64(provider.completions.WithLabelValues("summary", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(provider.completions.WithLabelValues("summary", "error")))
	assert.Equal(t, 1, testutil.CollectAndCount(provider.completionDuration))
}
