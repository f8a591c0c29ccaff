package registers

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/hasura-metrics-adapter/pkg/collector"
	"github.com/hasura-metrics-adapter/pkg/config"
	"github.com/hasura-metrics-adapter/pkg/logger"
)

type Module struct {
	Enabled bool
	Name    string
	NewFunc func() Collector
}

// Modules 采集器注册表。新增采集器只需在此添加一条。
// metadata 链始终注册：版本号无需管理员密钥，其余步骤在链内按开关跳过。
func Modules(deps collector.Deps) []Module {
	cfg := deps.Config
	return []Module{
		{
			Enabled: true,
			Name:    collector.HealthName,
			NewFunc: func() Collector { return collector.NewHealthCollector(deps) },
		},
		{
			Enabled: cfg.Enabled(config.ScheduledEvents),
			Name:    collector.ScheduledName,
			NewFunc: func() Collector { return collector.NewScheduledEventsCollector(deps) },
		},
		{
			Enabled: cfg.Enabled(config.CronTriggers),
			Name:    collector.CronName,
			NewFunc: func() Collector { return collector.NewCronTriggersCollector(deps) },
		},
		{
			Enabled: true,
			Name:    collector.MetadataName,
			NewFunc: func() Collector { return collector.NewMetadataCollector(deps) },
		},
	}
}

// RegisterCollectors 按开关注册，返回已注册的采集器
func RegisterCollectors(agent Agent, modules []Module) ([]Collector, error) {
	var registered []Collector
	for _, m := range modules {
		if !m.Enabled {
			logger.Info("collector disabled", agentName, zap.String("name", m.Name))
			continue
		}
		c := m.NewFunc()
		agent.Register(c)
		registered = append(registered, c)
	}
	if len(registered) == 0 {
		return nil, fmt.Errorf("no collectors enabled")
	}

	names := make([]string, len(registered))
	for i, c := range registered {
		names[i] = c.Name()
	}
	logger.Debug("all enabled collectors registered", agentName, zap.Strings("enabled_collectors", names))
	return registered, nil
}
