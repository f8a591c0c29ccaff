package signal

import (
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/hasura-metrics-adapter/pkg/logger"
)

// Outcome 可取消等待的结果
type Outcome int

const (
	Elapsed Outcome = iota
	Cancelled
)

func (o Outcome) String() string {
	if o == Cancelled {
		return "cancelled"
	}
	return "elapsed"
}

// Terminator 进程级一次性终止标记，轮询循环与日志跟踪任务共享同一个实例。
// 触发即关闭 channel，所有等待者同时观察到；"已触发" 与 "channel 已关闭" 是同一事件。
type Terminator struct {
	once sync.Once
	done chan struct{}
}

func NewTerminator() *Terminator {
	return &Terminator{done: make(chan struct{})}
}

// Fire 触发终止（幂等）
func (t *Terminator) Fire() {
	t.once.Do(func() { close(t.done) })
}

// Done 终止后关闭的 channel
func (t *Terminator) Done() <-chan struct{} {
	return t.done
}

// Fired 是否已经触发
func (t *Terminator) Fired() bool {
	select {
	case <-t.done:
		return true
	default:
		return false
	}
}

// Sleep 等待 d；期间终止则提前返回 Cancelled
func (t *Terminator) Sleep(d time.Duration) Outcome {
	if t.Fired() {
		return Cancelled
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-t.done:
		return Cancelled
	case <-timer.C:
		return Elapsed
	}
}

// NotifyOnSignal 收到 SIGINT/SIGTERM（或指定信号）时触发终止，返回停止监听函数
func NotifyOnSignal(t *Terminator, sigs ...os.Signal) (stop func()) {
	if len(sigs) == 0 {
		sigs = []os.Signal{syscall.SIGINT, syscall.SIGTERM}
	}
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, sigs...)

	quit := make(chan struct{})
	go func() {
		select {
		case sig := <-sigChan:
			logger.Warn("terminating due to signal", "", zap.String("signal", sig.String()))
			t.Fire()
		case <-quit:
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			signal.Stop(sigChan)
			close(quit)
		})
	}
}
