package collector

import (
	"context"
	"errors"

	"github.com/sourcegraph/conc"

	"github.com/hasura-metrics-adapter/pkg/config"
	"github.com/hasura-metrics-adapter/pkg/engine"
	"github.com/hasura-metrics-adapter/pkg/logger"
	"github.com/hasura-metrics-adapter/pkg/sink"
)

// ErrInconsistentMetadata 引擎报告 metadata 不一致，本周期不导出
var ErrInconsistentMetadata = errors.New("metadata is inconsistent")

// MetadataCollector 并发获取版本号与一致性状态；一致时导出 metadata，
// 再交给事件触发器采集器使用
type MetadataCollector struct {
	base
	events *EventTriggersCollector
}

func NewMetadataCollector(deps Deps) *MetadataCollector {
	return &MetadataCollector{
		base:   newBase(MetadataName, typeMetadata, deps),
		events: NewEventTriggersCollector(deps),
	}
}

// Collect metadata → event-triggers 串行链
func (c *MetadataCollector) Collect(ctx context.Context) error {
	md, err := c.Fetch(ctx)
	return errors.Join(err, c.events.CollectFrom(ctx, md))
}

// Fetch 返回本周期导出的 metadata，未导出时为 nil
func (c *MetadataCollector) Fetch(ctx context.Context) (*engine.Metadata, error) {
	defer c.observe()()

	var (
		wg         conc.WaitGroup
		versionErr error
		exportErr  error
		md         *engine.Metadata
	)
	wg.Go(func() { versionErr = c.version(ctx) })
	wg.Go(func() { md, exportErr = c.export(ctx) })
	wg.Wait()

	return md, errors.Join(versionErr, exportErr)
}

func (c *MetadataCollector) version(ctx context.Context) error {
	v, err := c.deps.Engine.Version(ctx)
	if err != nil {
		return c.fail("failed to collect version information", typeVersion, err)
	}
	c.deps.Sink.Incr("metadata_version", sink.Tag("version", v))
	return nil
}

// export 一致性检查关闭时直接导出；event-triggers 关闭时无需导出
func (c *MetadataCollector) export(ctx context.Context) (*engine.Metadata, error) {
	if c.enabled(config.MetadataInconsistency) {
		consistent, err := c.deps.Engine.MetadataConsistency(ctx)
		if err != nil {
			return nil, c.fail("failed to collect metadata consistency", "", err)
		}
		if !consistent {
			c.deps.Sink.Gauge("metadata_consistency_status", 0)
			return nil, c.fail("failed to collect metadata because it is inconsistent", "", ErrInconsistentMetadata)
		}
		c.deps.Sink.Gauge("metadata_consistency_status", 1)
		logger.Debug("metadata is consistent", c.name)
	}

	if !c.enabled(config.EventTriggers) {
		return nil, nil
	}
	md, err := c.deps.Engine.ExportMetadata(ctx)
	if err != nil {
		return nil, c.fail("failed to export metadata", "", err)
	}
	return md, nil
}
