// Package metrics 创建适配器自身的 Prometheus 指标（/metrics 暴露），
// 与发往 DogStatsD 的业务指标相互独立。
package metrics

import "github.com/prometheus/client_golang/prometheus"

const namespace = "adapter"

// MetricFactory 指标工厂，统一创建并注册 counter/gauge/histogram
type MetricFactory struct {
	reg     Registers
	buckets []float64
}

// NewMetricFactory buckets 为空时使用 prometheus.DefBuckets
func NewMetricFactory(reg Registers, buckets []float64) *MetricFactory {
	if len(buckets) == 0 {
		buckets = prometheus.DefBuckets
	}
	return &MetricFactory{reg: reg, buckets: buckets}
}

// Registerer 供外部自定义 collector 注册
func (m *MetricFactory) Registerer() Registers { return m.reg }
