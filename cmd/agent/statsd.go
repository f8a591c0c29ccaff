package agent

import "github.com/spf13/cobra"

func initStatsdFlags(root *cobra.Command) {
	f := root.PersistentFlags()

	f.String("statsd.addr", defaultCfg.Statsd.Addr, "-> DogStatsD address [DATADOG_ENDPOINT] (指标后端地址)")
	f.String("statsd.prefix", defaultCfg.Statsd.Prefix, "-> Metric name prefix [METRICS_PREFIX] (指标前缀)")
	f.String("statsd.common-labels", defaultCfg.Statsd.CommonLabels, "-> Tags added to every metric, k:v;k2:v2 [COMMON_LABELS] (公共标签)")
}
