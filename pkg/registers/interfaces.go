package registers

import (
	"context"

	"github.com/hasura-metrics-adapter/pkg/signal"
)

// Agent 轮询编排器：注册采集器，按周期并发执行，直到终止信号触发
type Agent interface {
	Register(collector Collector)
	Run(term *signal.Terminator) error
	Shutdown() error
}

// Collector 采集器核心接口
type Collector interface {
	Name() string                      // 采集器名称（唯一标识）
	Init() error                       // 初始化（预检查）
	Collect(ctx context.Context) error // 执行一次采集；返回的错误已在采集器内部计数
	Close() error                      // 释放资源
}
