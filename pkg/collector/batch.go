package collector

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/hasura-metrics-adapter/pkg/classify"
	"github.com/hasura-metrics-adapter/pkg/config"
	"github.com/hasura-metrics-adapter/pkg/engine"
	"github.com/hasura-metrics-adapter/pkg/logger"
)

const (
	scheduledTable = "hdb_catalog.hdb_scheduled_events"
	cronTable      = "hdb_catalog.hdb_cron_events"
	eventLogTable  = "hdb_catalog.event_log"
)

// ScheduledEventsPlan 一次性定时事件，固定查询 default 数据源
func ScheduledEventsPlan() classify.Plan {
	return classify.ForSource(engine.DialectPostgres, engine.DefaultSource,
		classify.Statement{Metric: "failed_one_off_events", SQL: "SELECT COUNT(*) FROM " + scheduledTable + " WHERE status = 'error';"},
		classify.Statement{Metric: "successful_one_off_events", SQL: "SELECT COUNT(*) FROM " + scheduledTable + " WHERE status = 'delivered';"},
		classify.Statement{Metric: "pending_one_off_events", SQL: "SELECT COUNT(*) FROM " + scheduledTable + " WHERE status = 'scheduled';"},
		classify.Statement{Metric: "processed_one_off_events", SQL: "SELECT COUNT(*) FROM " + scheduledTable + " WHERE status = 'error' or status = 'delivered';"},
	)
}

// CronTriggersPlan cron 触发器，按 trigger_name 分组
func CronTriggersPlan() classify.Plan {
	const groupBy = " GROUP BY trigger_name;"
	return classify.ForSource(engine.DialectPostgres, engine.DefaultSource,
		classify.Statement{Metric: "failed_cron_triggers", SQL: "SELECT COUNT(*), trigger_name FROM " + cronTable + " WHERE status = 'error'" + groupBy},
		classify.Statement{Metric: "successful_cron_triggers", SQL: "SELECT COUNT(*), trigger_name FROM " + cronTable + " WHERE status = 'delivered'" + groupBy},
		classify.Statement{Metric: "pending_cron_triggers", SQL: "SELECT COUNT(*), trigger_name FROM " + cronTable + " WHERE status = 'scheduled'" + groupBy},
		classify.Statement{Metric: "processed_cron_triggers", SQL: "SELECT COUNT(*), trigger_name FROM " + cronTable + " WHERE status = 'error' or status = 'delivered'" + groupBy},
	)
}

// EventTriggersPlan 单个数据源的事件触发器查询
func EventTriggersPlan(d engine.Dialect, source string) classify.Plan {
	const groupBy = " GROUP BY trigger_name;"
	return classify.ForSource(d, source,
		classify.Statement{Metric: "processed_event_triggers", SQL: "SELECT COUNT(*), trigger_name FROM " + eventLogTable + " WHERE delivered = 'true' OR error = 'true'" + groupBy},
		classify.Statement{Metric: "pending_event_triggers", SQL: "SELECT COUNT(*), trigger_name FROM " + eventLogTable + " WHERE delivered = 'false' AND error = 'false' AND archived = 'false'" + groupBy},
		classify.Statement{Metric: "failed_event_triggers", SQL: "SELECT COUNT(*), trigger_name FROM " + eventLogTable + " WHERE error = 'true'" + groupBy},
		classify.Statement{Metric: "successful_event_triggers", SQL: "SELECT COUNT(*), trigger_name FROM " + eventLogTable + " WHERE error = 'false' AND delivered = 'true'" + groupBy},
	)
}

// BatchCollector 单次 bulk 请求 + 位置结果分类，scheduled-events 与 cron-triggers 共用
type BatchCollector struct {
	base
	toggle config.CollectorName
	plan   classify.Plan
}

func NewScheduledEventsCollector(deps Deps) *BatchCollector {
	return &BatchCollector{
		base:   newBase(ScheduledName, typeScheduled, deps),
		toggle: config.ScheduledEvents,
		plan:   ScheduledEventsPlan(),
	}
}

func NewCronTriggersCollector(deps Deps) *BatchCollector {
	return &BatchCollector{
		base:   newBase(CronName, typeCron, deps),
		toggle: config.CronTriggers,
		plan:   CronTriggersPlan(),
	}
}

func (c *BatchCollector) Collect(ctx context.Context) error {
	if !c.enabled(c.toggle) {
		logger.Debug("collector disabled, skipping", c.name)
		return nil
	}
	defer c.observe()()

	logger.Debug("running batch query", c.name, zap.Int("queries", c.plan.Len()))
	results, err := c.deps.Engine.RunBatch(ctx, c.plan.Queries())
	if err != nil {
		return c.fail("failed to collect "+c.name, "", err)
	}
	if n := c.classifier().Classify(results, c.plan); n > 0 {
		c.countErrors(n)
		return fmt.Errorf("%s: %d result(s) could not be classified", c.name, n)
	}
	return nil
}
