package agent

import "github.com/spf13/cobra"

func initMonitorFlags(root *cobra.Command) {
	f := root.PersistentFlags()

	f.Duration("monitor.interval", defaultCfg.Monitor.Interval, "-> Polling interval [COLLECT_INTERVAL] (采集间隔)")
	f.Int("monitor.concurrency-limit", defaultCfg.Monitor.ConcurrencyLimit, "-> Max data sources queried at once, 0 = unlimited [CONCURRENCY_LIMIT] (并发上限)")
	f.StringSlice("monitor.exclude-collectors", defaultCfg.Monitor.ExcludeCollectors,
		"-> Collectors to skip: cron-triggers,event-triggers,scheduled-events,metadata-inconsistency [EXCLUDE_COLLECTORS] (禁用的采集器)")
	f.Float64Slice("monitor.histogram-buckets", defaultCfg.Monitor.HistogramBuckets, "-> Buckets of adapter_collect_duration_seconds [HISTOGRAM_BUCKETS] (耗时分桶)")
}
