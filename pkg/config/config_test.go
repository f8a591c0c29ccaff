package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hasura-metrics-adapter/pkg/config"
)

func baseSettings(t *testing.T) map[string]any {
	t.Helper()
	return map[string]any{
		"engine":  map[string]any{"endpoint": "http://hasura:8080", "admin-secret": "s3cret"},
		"logfile": map[string]any{"path": "/var/log/hasura.log"},
		"log":     map[string]any{"path": t.TempDir()},
	}
}

func TestDecodeDefaults(t *testing.T) {
	cfg, err := config.Decode(baseSettings(t))
	require.NoError(t, err)

	assert.Equal(t, 15*time.Second, cfg.Monitor.Interval)
	assert.Equal(t, 0, cfg.Monitor.ConcurrencyLimit)
	assert.Equal(t, "127.0.0.1:8125", cfg.Statsd.Addr)
	assert.Equal(t, time.Second, cfg.LogFile.Sleep)
	for _, name := range config.AdminCollectors {
		assert.True(t, cfg.Enabled(name), name)
	}
	assert.Empty(t, cfg.ForcedDisabled())
}

func TestDecodeMillisecondIntervals(t *testing.T) {
	s := baseSettings(t)
	s["monitor"] = map[string]any{"interval": "15000"}
	s["logfile"] = map[string]any{"path": "/tmp/x.log", "sleep": 250}

	cfg, err := config.Decode(s)
	require.NoError(t, err)
	assert.Equal(t, 15*time.Second, cfg.Monitor.Interval)
	assert.Equal(t, 250*time.Millisecond, cfg.LogFile.Sleep)
}

func TestSubSecondIntervalAccepted(t *testing.T) {
	s := baseSettings(t)
	s["monitor"] = map[string]any{"interval": "500"}

	cfg, err := config.Decode(s)
	require.NoError(t, err)
	assert.Equal(t, 500*time.Millisecond, cfg.Monitor.Interval)

	s["monitor"] = map[string]any{"interval": "0"}
	_, err = config.Decode(s)
	assert.Error(t, err)

	s["monitor"] = map[string]any{"interval": "2h"}
	_, err = config.Decode(s)
	assert.Error(t, err)
}

func TestExcludeCollectorsFromEnvString(t *testing.T) {
	s := baseSettings(t)
	s["monitor"] = map[string]any{"exclude-collectors": "CronTriggers;event_triggers;cron-triggers"}

	cfg, err := config.Decode(s)
	require.NoError(t, err)
	assert.False(t, cfg.Enabled(config.CronTriggers))
	assert.False(t, cfg.Enabled(config.EventTriggers))
	assert.True(t, cfg.Enabled(config.ScheduledEvents))
	assert.Equal(t, []config.CollectorName{config.CronTriggers, config.EventTriggers}, cfg.DisabledCollectors())
}

func TestUnknownCollectorRejected(t *testing.T) {
	s := baseSettings(t)
	s["monitor"] = map[string]any{"exclude-collectors": []string{"remote-schemas"}}

	_, err := config.Decode(s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "remote-schemas")
}

func TestMissingAdminSecretDisablesCredentialedCollectors(t *testing.T) {
	s := baseSettings(t)
	s["engine"] = map[string]any{"endpoint": "http://hasura:8080"}
	s["monitor"] = map[string]any{"exclude-collectors": []string{"cron-triggers"}}

	cfg, err := config.Decode(s)
	require.NoError(t, err)
	assert.False(t, cfg.HasAdminSecret())
	for _, name := range config.AdminCollectors {
		assert.False(t, cfg.Enabled(name), name)
	}
	assert.Equal(t, []config.CollectorName{
		config.EventTriggers, config.ScheduledEvents, config.MetadataInconsistency,
	}, cfg.ForcedDisabled())
}

func TestNegativeConcurrencyRejected(t *testing.T) {
	s := baseSettings(t)
	s["monitor"] = map[string]any{"concurrency-limit": -1}

	_, err := config.Decode(s)
	require.Error(t, err)
}

func TestCommonLabels(t *testing.T) {
	st := config.StatsdConfig{Addr: "127.0.0.1:8125", CommonLabels: "env:prod;team:data"}
	tags, err := st.Tags()
	require.NoError(t, err)
	assert.Equal(t, []string{"env:prod", "team:data"}, tags)

	st.CommonLabels = "env"
	_, err = st.Tags()
	require.Error(t, err)
}

func TestNamespace(t *testing.T) {
	assert.Equal(t, "", (&config.StatsdConfig{}).Namespace())
	assert.Equal(t, "hasura.", (&config.StatsdConfig{Prefix: "hasura"}).Namespace())
	assert.Equal(t, "hasura.", (&config.StatsdConfig{Prefix: "hasura."}).Namespace())
}

func TestHistogramBucketsFromString(t *testing.T) {
	s := baseSettings(t)
	s["monitor"] = map[string]any{"histogram-buckets": "0.1;0.5;1"}

	cfg, err := config.Decode(s)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.1, 0.5, 1}, cfg.Monitor.HistogramBuckets)

	s["monitor"] = map[string]any{"histogram-buckets": "1;0.5"}
	_, err = config.Decode(s)
	require.Error(t, err)
}
