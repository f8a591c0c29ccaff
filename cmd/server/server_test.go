package server_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hasura-metrics-adapter/cmd/server"
	"github.com/hasura-metrics-adapter/pkg/config"
	"github.com/hasura-metrics-adapter/pkg/metrics"
)

func testConfig() config.ServerConfig {
	return config.ServerConfig{
		Enable:       true,
		Addr:         "127.0.0.1:0",
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
		IdleTimeout:  time.Second,
	}
}

func TestEndpoints(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics.NewMetricFactory(metrics.NewPromRegistry(reg), nil).NewCyclesTotal().Inc()

	ts := httptest.NewServer(server.NewHTTPServer(testConfig(), reg).Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "OK", string(body))

	resp, err = http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	body, _ = io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	assert.Contains(t, string(body), "adapter_cycles_total 1")

	resp, err = http.Get(ts.URL + "/nope")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestStartAndShutdown(t *testing.T) {
	srv := server.NewHTTPServer(testConfig(), prometheus.NewRegistry())
	require.NoError(t, srv.Start())

	resp, err := http.Get("http://" + srv.Addr() + "/health")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, srv.Shutdown())
	_, err = http.Get("http://" + srv.Addr() + "/health")
	assert.Error(t, err)
}

func TestStartFailsOnBusyPort(t *testing.T) {
	first := server.NewHTTPServer(testConfig(), prometheus.NewRegistry())
	require.NoError(t, first.Start())
	defer func() { _ = first.Shutdown() }()

	cfg := testConfig()
	cfg.Addr = first.Addr()
	assert.Error(t, server.NewHTTPServer(cfg, prometheus.NewRegistry()).Start())
}
