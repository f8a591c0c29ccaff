package metrics

import "github.com/prometheus/client_golang/prometheus"

// NewCollectErrorsTotal 采集器错误累计次数
// 标签 collector: 采集器名称（health、scheduled-events、cron-triggers、metadata、event-triggers）
func (m *MetricFactory) NewCollectErrorsTotal() *prometheus.CounterVec {
	c := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "collect_errors_total",
		Help:      "Total collection errors per collector",
	}, []string{"collector"})
	m.reg.MustRegister(c)
	return c
}

// NewCollectDurationSeconds 单次采集耗时分布（秒），分桶来自 monitor.histogram-buckets
func (m *MetricFactory) NewCollectDurationSeconds() *prometheus.HistogramVec {
	h := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "collect_duration_seconds",
		Help:      "Collection duration per collector",
		Buckets:   m.buckets,
	}, []string{"collector"})
	m.reg.MustRegister(h)
	return h
}

// NewCyclesTotal 轮询周期数
func (m *MetricFactory) NewCyclesTotal() prometheus.Counter {
	c := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cycles_total",
		Help:      "Completed polling cycles",
	})
	m.reg.MustRegister(c)
	return c
}

// NewLogParseErrorsTotal 引擎日志行解析失败次数
func (m *MetricFactory) NewLogParseErrorsTotal() prometheus.Counter {
	c := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "log_parse_errors_total",
		Help:      "Engine log lines that could not be parsed",
	})
	m.reg.MustRegister(c)
	return c
}

// NewLogLinesTotal 已读取的引擎日志行数
func (m *MetricFactory) NewLogLinesTotal() prometheus.Counter {
	c := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "log_lines_read_total",
		Help:      "Engine log lines read by the tailer",
	})
	m.reg.MustRegister(c)
	return c
}
