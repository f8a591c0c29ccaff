package collector

import (
	"context"
	"fmt"

	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"

	"github.com/hasura-metrics-adapter/pkg/config"
	"github.com/hasura-metrics-adapter/pkg/engine"
	"github.com/hasura-metrics-adapter/pkg/logger"
	"github.com/hasura-metrics-adapter/pkg/sink"
)

// EventTriggersCollector 对 metadata 中每个数据源并发执行事件触发器查询，
// 并发数受 monitor.concurrency-limit 限制（0 表示不限）
type EventTriggersCollector struct {
	base
}

func NewEventTriggersCollector(deps Deps) *EventTriggersCollector {
	return &EventTriggersCollector{base: newBase(EventName, typeEvent, deps)}
}

// CollectFrom 使用本周期导出的 metadata；md 为 nil 视为缺少数据源列表
func (c *EventTriggersCollector) CollectFrom(ctx context.Context, md *engine.Metadata) error {
	if !c.enabled(config.EventTriggers) {
		logger.Debug("collector disabled, skipping", c.name)
		return nil
	}
	defer c.observe()()

	sources, err := md.Sources()
	if err != nil {
		return c.fail("failed to read data sources from metadata, it may be inconsistent", "", err)
	}

	p := pool.New().WithErrors()
	if limit := c.deps.Config.Monitor.ConcurrencyLimit; limit > 0 {
		p = p.WithMaxGoroutines(limit)
	}
	for _, src := range sources {
		dialect := src.Dialect()
		if !dialect.Supported() {
			logger.Debug("skipping data source of unsupported kind", c.name,
				zap.String("source", src.Name), zap.String("kind", src.Kind))
			continue
		}
		p.Go(func() error {
			return c.collectSource(ctx, src, dialect)
		})
	}
	return p.Wait()
}

func (c *EventTriggersCollector) collectSource(ctx context.Context, src engine.DataSource, d engine.Dialect) error {
	logger.Debug("processing data source", c.name, zap.String("source", src.Name), zap.Stringer("dialect", d))

	plan := EventTriggersPlan(d, src.Name)
	results, err := c.deps.Engine.RunBatch(ctx, plan.Queries())
	if err != nil {
		return c.fail("failed to collect event triggers from data source", "", err, zap.String("source", src.Name))
	}
	if n := c.classifier().Classify(results, plan, sink.Tag("source", src.Name)); n > 0 {
		c.countErrors(n)
		return fmt.Errorf("%s: source %s: %d result(s) could not be classified", c.name, src.Name, n)
	}
	return nil
}
