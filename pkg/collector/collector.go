// Package collector 实现各个引擎采集器：健康检查、一次性定时事件、cron 触发器、
// 事件触发器（多数据源并发）和 metadata。
//
// 所有失败都在采集器边界被吸收：一条 warn 日志 + 一次 errors_total{type:<类型>}，
// 同时累加 Prometheus 的 adapter_collect_errors_total{collector}。
package collector

import (
	"context"
	"time"

	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/hasura-metrics-adapter/pkg/classify"
	"github.com/hasura-metrics-adapter/pkg/config"
	"github.com/hasura-metrics-adapter/pkg/engine"
	"github.com/hasura-metrics-adapter/pkg/logger"
	"github.com/hasura-metrics-adapter/pkg/metrics"
	"github.com/hasura-metrics-adapter/pkg/sink"
)

// 采集器名称，用于日志 collector 字段和 Prometheus 标签
const (
	HealthName    = "health"
	ScheduledName = string(config.ScheduledEvents)
	CronName      = string(config.CronTriggers)
	EventName     = string(config.EventTriggers)
	MetadataName  = "metadata"
)

// errors_total 的 type 标签值
const (
	typeHealth    = "health"
	typeScheduled = "scheduled"
	typeCron      = "cron"
	typeEvent     = "event"
	typeMetadata  = "metadata"
	typeVersion   = "version"
)

// Engine 采集器依赖的引擎接口，*engine.Client 实现
type Engine interface {
	RunBatch(ctx context.Context, queries []engine.Query) ([]json.RawMessage, error)
	Health(ctx context.Context) (bool, error)
	Version(ctx context.Context) (string, error)
	MetadataConsistency(ctx context.Context) (bool, error)
	ExportMetadata(ctx context.Context) (*engine.Metadata, error)
}

var _ Engine = (*engine.Client)(nil)

// Deps 采集器共享依赖，启动时构造一次后只读
type Deps struct {
	Config   *config.Config
	Engine   Engine
	Sink     sink.Sink
	Errors   *prometheus.CounterVec
	Duration *prometheus.HistogramVec
}

// NewDeps 从指标工厂创建 Prometheus 自监控指标
func NewDeps(cfg *config.Config, eng Engine, s sink.Sink, factory *metrics.MetricFactory) Deps {
	return Deps{
		Config:   cfg,
		Engine:   eng,
		Sink:     s,
		Errors:   factory.NewCollectErrorsTotal(),
		Duration: factory.NewCollectDurationSeconds(),
	}
}

// base 各采集器公共部分
type base struct {
	name    string
	errType string
	deps    Deps
}

func newBase(name, errType string, deps Deps) base {
	return base{name: name, errType: errType, deps: deps}
}

func (b *base) Name() string { return b.name }

func (b *base) Init() error { return nil }

func (b *base) Close() error { return nil }

func (b *base) classifier() *classify.Classifier {
	return classify.New(b.deps.Sink, b.name, b.errType)
}

// observe 记录采集耗时，用法: defer b.observe()()
func (b *base) observe() func() {
	start := time.Now()
	return func() {
		if b.deps.Duration != nil {
			b.deps.Duration.WithLabelValues(b.name).Observe(time.Since(start).Seconds())
		}
	}
}

// fail 吸收一次失败并返回原错误，errType 为空时使用采集器默认类型
func (b *base) fail(msg string, errType string, err error, fields ...zap.Field) error {
	if errType == "" {
		errType = b.errType
	}
	fields = append(fields, zap.String("error_kind", engine.Kind(err)), zap.Error(err))
	logger.Warn(msg, b.name, fields...)
	b.deps.Sink.Incr(classify.ErrorsMetric, "type:"+errType)
	b.countErrors(1)
	return err
}

// countErrors 只累加 Prometheus 计数（statsd 已由 classifier 写入）
func (b *base) countErrors(n int) {
	if n > 0 && b.deps.Errors != nil {
		b.deps.Errors.WithLabelValues(b.name).Add(float64(n))
	}
}

func (b *base) enabled(name config.CollectorName) bool {
	return b.deps.Config.Enabled(name)
}
