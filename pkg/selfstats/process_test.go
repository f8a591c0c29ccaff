package selfstats_test

import (
	"runtime"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hasura-metrics-adapter/pkg/selfstats"
)

func TestProcessCollectorExposesCurrentProcess(t *testing.T) {
	c, err := selfstats.NewProcessCollector(0)
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	require.NoError(t, reg.Register(c))

	families, err := reg.Gather()
	require.NoError(t, err)
	values := map[string]float64{}
	for _, f := range families {
		m := f.GetMetric()[0]
		if m.GetGauge() != nil {
			values[f.GetName()] = m.GetGauge().GetValue()
		} else {
			values[f.GetName()] = m.GetCounter().GetValue()
		}
	}

	assert.Greater(t, values["adapter_process_resident_memory_bytes"], 0.0)
	assert.Contains(t, values, "adapter_process_cpu_seconds_total")
	if runtime.GOOS == "linux" {
		assert.Greater(t, values["adapter_process_open_fds"], 0.0)
	}
}
