package collector

import (
	"context"

	"github.com/hasura-metrics-adapter/pkg/logger"
	"github.com/hasura-metrics-adapter/pkg/sink"
)

// HealthCheck 服务检查名，发送时由 sink 加上前缀
const HealthCheck = "health"

// HealthCollector GET /healthz → 服务检查 ok / critical / unknown
type HealthCollector struct {
	base
}

func NewHealthCollector(deps Deps) *HealthCollector {
	return &HealthCollector{base: newBase(HealthName, typeHealth, deps)}
}

func (c *HealthCollector) Collect(ctx context.Context) error {
	defer c.observe()()

	ok, err := c.deps.Engine.Health(ctx)
	if err != nil {
		c.deps.Sink.ServiceCheck(HealthCheck, sink.StatusUnknown)
		return c.fail("failed to collect health check", "", err)
	}
	if ok {
		logger.Debug("healthcheck ok", c.name)
		c.deps.Sink.ServiceCheck(HealthCheck, sink.StatusOK)
	} else {
		logger.Debug("healthcheck not ok", c.name)
		c.deps.Sink.ServiceCheck(HealthCheck, sink.StatusCritical)
	}
	return nil
}
