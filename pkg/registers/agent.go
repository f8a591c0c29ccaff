package registers

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sourcegraph/conc"
	"go.uber.org/zap"

	"github.com/hasura-metrics-adapter/pkg/logger"
	"github.com/hasura-metrics-adapter/pkg/signal"
)

const agentName = "orchestrator"

// AgentImpl 状态机：Running → WaitingForNextTick → Running … → Terminated
type AgentImpl struct {
	collectors []Collector
	interval   time.Duration
	cycles     prometheus.Counter
	mu         sync.Mutex
}

var _ Agent = (*AgentImpl)(nil)

// NewAgent cycles 可为 nil
func NewAgent(interval time.Duration, cycles prometheus.Counter) *AgentImpl {
	return &AgentImpl{
		collectors: make([]Collector, 0),
		interval:   interval,
		cycles:     cycles,
	}
}

// Register 注册采集器
func (r *AgentImpl) Register(c Collector) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.collectors = append(r.collectors, c)
}

func (r *AgentImpl) snapshot() []Collector {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Collector(nil), r.collectors...)
}

// InitAll 任一采集器初始化失败即返回
func (r *AgentImpl) InitAll() error {
	for _, coll := range r.snapshot() {
		if err := coll.Init(); err != nil {
			return fmt.Errorf("collector %s init failed: %w", coll.Name(), err)
		}
		logger.Debug("collector initialized", agentName, zap.String("name", coll.Name()))
	}
	return nil
}

// Run 先执行一轮采集，再在终止信号上等待一个周期；信号触发后返回 nil。
// 采集器 panic 会在汇合点被恢复并作为错误返回。
func (r *AgentImpl) Run(term *signal.Terminator) error {
	if err := r.InitAll(); err != nil {
		return err
	}
	logger.Info("polling orchestrator started", agentName,
		zap.Duration("interval", r.interval),
		zap.Int("collectors", len(r.snapshot())))

	for {
		if err := r.CollectAll(context.Background()); err != nil {
			return err
		}
		if r.cycles != nil {
			r.cycles.Inc()
		}
		if term.Sleep(r.interval) == signal.Cancelled {
			logger.Info("polling orchestrator stopped by termination signal", agentName)
			return nil
		}
	}
}

// CollectAll 并发执行所有采集器并等待全部完成
func (r *AgentImpl) CollectAll(ctx context.Context) error {
	var wg conc.WaitGroup
	for _, c := range r.snapshot() {
		wg.Go(func() {
			if err := c.Collect(ctx); err != nil {
				logger.Debug("collector reported errors", c.Name(), zap.Error(err))
			}
		})
	}
	if recovered := wg.WaitAndRecover(); recovered != nil {
		return fmt.Errorf("collector panicked: %w", recovered.AsError())
	}
	return nil
}

// Shutdown 关闭所有采集器，返回最后一个错误
func (r *AgentImpl) Shutdown() error {
	var lastErr error
	for _, c := range r.snapshot() {
		if err := c.Close(); err != nil {
			logger.Error("failed to close collector", agentName, zap.String("name", c.Name()), zap.Error(err))
			lastErr = err
		}
	}
	return lastErr
}
