package registers

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/hasura-metrics-adapter/pkg/collector"
	"github.com/hasura-metrics-adapter/pkg/config"
	"github.com/hasura-metrics-adapter/pkg/logger"
	"github.com/hasura-metrics-adapter/pkg/metrics"
	"github.com/hasura-metrics-adapter/pkg/selfstats"
	"github.com/hasura-metrics-adapter/pkg/sink"
)

// Bundle InitPromRegistry 的返回值
//
//	Registry: 自监控指标注册器，供 /metrics 暴露
//	Factory:  指标工厂，日志处理器等复用
//	Agent:    轮询编排器，已注册全部启用的采集器
type Bundle struct {
	Registry *prometheus.Registry
	Factory  *metrics.MetricFactory
	Agent    *AgentImpl
}

// InitPromRegistry 初始化自监控注册器（不含 Go runtime 指标）并注册采集器
func InitPromRegistry(cfg *config.Config, eng collector.Engine, s sink.Sink, enableProcess bool) (*Bundle, error) {
	promReg := prometheus.NewRegistry()
	factory := metrics.NewMetricFactory(metrics.NewPromRegistry(promReg), cfg.Monitor.HistogramBuckets)

	if enableProcess {
		pc, err := selfstats.NewProcessCollector(0)
		if err != nil {
			logger.Warn("process stats unavailable", agentName, zap.Error(err))
		} else {
			factory.Registerer().MustRegister(pc)
		}
	}

	agent := NewAgent(cfg.Monitor.Interval, factory.NewCyclesTotal())
	deps := collector.NewDeps(cfg, eng, s, factory)
	if _, err := RegisterCollectors(agent, Modules(deps)); err != nil {
		return nil, err
	}

	return &Bundle{Registry: promReg, Factory: factory, Agent: agent}, nil
}
