package sink

import (
	"fmt"
	"time"

	"github.com/DataDog/datadog-go/statsd"
	"go.uber.org/zap"

	"github.com/hasura-metrics-adapter/pkg/config"
	"github.com/hasura-metrics-adapter/pkg/logger"
)

// statsdClient *statsd.Client 中用到的子集，便于测试替换
type statsdClient interface {
	Incr(name string, tags []string, rate float64) error
	Decr(name string, tags []string, rate float64) error
	Gauge(name string, value float64, tags []string, rate float64) error
	Timing(name string, value time.Duration, tags []string, rate float64) error
	ServiceCheck(sc *statsd.ServiceCheck) error
	Close() error
}

// Statsd DogStatsD 实现。命名空间由客户端统一加在指标名前；
// 服务检查不经过命名空间，这里手动补齐，保证 <prefix>.health 的命名。
type Statsd struct {
	client    statsdClient
	namespace string
}

// NewStatsd 根据配置创建 DogStatsD 客户端（UDP，无连接）
func NewStatsd(cfg config.StatsdConfig) (*Statsd, error) {
	tags, err := cfg.Tags()
	if err != nil {
		return nil, err
	}
	client, err := statsd.New(cfg.Addr,
		statsd.WithNamespace(cfg.Namespace()),
		statsd.WithTags(tags),
	)
	if err != nil {
		return nil, fmt.Errorf("create statsd client for %s: %w", cfg.Addr, err)
	}
	return &Statsd{client: client, namespace: cfg.Namespace()}, nil
}

func newStatsdWithClient(client statsdClient, namespace string) *Statsd {
	return &Statsd{client: client, namespace: namespace}
}

func (s *Statsd) Incr(name string, tags ...string) {
	s.check(name, s.client.Incr(name, tags, 1))
}

func (s *Statsd) Decr(name string, tags ...string) {
	s.check(name, s.client.Decr(name, tags, 1))
}

func (s *Statsd) Gauge(name string, value float64, tags ...string) {
	s.check(name, s.client.Gauge(name, value, tags, 1))
}

func (s *Statsd) Timer(name string, seconds float64, tags ...string) {
	s.check(name, s.client.Timing(name, time.Duration(seconds*float64(time.Second)), tags, 1))
}

func (s *Statsd) ServiceCheck(name string, status Status, tags ...string) {
	sc := statsd.NewServiceCheck(s.namespace+name, toStatsdStatus(status))
	sc.Tags = tags
	s.check(name, s.client.ServiceCheck(sc))
}

// Close 刷新缓冲并关闭 UDP 连接
func (s *Statsd) Close() error {
	return s.client.Close()
}

// 写入失败只记录 debug 日志，不影响调用方
func (s *Statsd) check(name string, err error) {
	if err != nil {
		logger.Debug("statsd write failed", "sink", zap.String("metric", name), zap.Error(err))
	}
}

func toStatsdStatus(s Status) statsd.ServiceCheckStatus {
	switch s {
	case StatusOK:
		return statsd.Ok
	case StatusWarning:
		return statsd.Warn
	case StatusCritical:
		return statsd.Critical
	default:
		return statsd.Unknown
	}
}
