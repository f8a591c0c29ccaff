package metrics_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hasura-metrics-adapter/pkg/metrics"
)

func gatherCounts(t *testing.T, reg *prometheus.Registry) map[string]int {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	out := map[string]int{}
	for _, f := range families {
		out[f.GetName()] = len(f.GetMetric())
	}
	return out
}

func TestFactoryRegistersAdapterMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	f := metrics.NewMetricFactory(metrics.NewPromRegistry(reg), nil)

	f.NewCollectErrorsTotal().WithLabelValues("health").Inc()
	f.NewCollectDurationSeconds().WithLabelValues("health").Observe(0.2)
	f.NewCyclesTotal().Inc()
	f.NewLogParseErrorsTotal().Inc()
	f.NewLogLinesTotal().Add(3)

	counts := gatherCounts(t, reg)
	for _, n := range []string{
		"adapter_collect_errors_total",
		"adapter_collect_duration_seconds",
		"adapter_cycles_total",
		"adapter_log_parse_errors_total",
		"adapter_log_lines_read_total",
	} {
		assert.Equal(t, 1, counts[n], n)
	}
}

func TestCustomBuckets(t *testing.T) {
	reg := prometheus.NewRegistry()
	f := metrics.NewMetricFactory(metrics.NewPromRegistry(reg), []float64{0.5, 1, 5})
	f.NewCollectDurationSeconds().WithLabelValues("cron-triggers").Observe(0.7)

	families, err := reg.Gather()
	require.NoError(t, err)
	require.Len(t, families, 1)
	h := families[0].GetMetric()[0].GetHistogram()
	require.Len(t, h.GetBucket(), 3)
	assert.Equal(t, uint64(0), h.GetBucket()[0].GetCumulativeCount())
	assert.Equal(t, uint64(1), h.GetBucket()[1].GetCumulativeCount())
}

func TestDuplicateRegistrationPanics(t *testing.T) {
	f := metrics.NewMetricFactory(metrics.NewPromRegistry(prometheus.NewRegistry()), nil)
	f.NewCyclesTotal()
	assert.Panics(t, func() { f.NewCyclesTotal() })
}
