// Package selfstats 通过 gopsutil 暴露适配器进程自身的资源占用。
package selfstats

import (
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shirou/gopsutil/v3/process"
	"go.uber.org/zap"

	"github.com/hasura-metrics-adapter/pkg/logger"
)

const component = "selfstats"

// ProcessCollector 实现 prometheus.Collector，抓取时实时读取进程信息
type ProcessCollector struct {
	proc *process.Process

	rss     *prometheus.Desc
	cpu     *prometheus.Desc
	fds     *prometheus.Desc
	threads *prometheus.Desc
}

var _ prometheus.Collector = (*ProcessCollector)(nil)

// NewProcessCollector pid 为 0 时使用当前进程
func NewProcessCollector(pid int32) (*ProcessCollector, error) {
	if pid == 0 {
		pid = int32(os.Getpid())
	}
	p, err := process.NewProcess(pid)
	if err != nil {
		return nil, fmt.Errorf("open process %d: %w", pid, err)
	}
	return &ProcessCollector{
		proc:    p,
		rss:     prometheus.NewDesc("adapter_process_resident_memory_bytes", "Resident memory size in bytes", nil, nil),
		cpu:     prometheus.NewDesc("adapter_process_cpu_seconds_total", "Total user and system CPU time in seconds", nil, nil),
		fds:     prometheus.NewDesc("adapter_process_open_fds", "Number of open file descriptors", nil, nil),
		threads: prometheus.NewDesc("adapter_process_threads", "Number of OS threads", nil, nil),
	}, nil
}

func (c *ProcessCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.rss
	ch <- c.cpu
	ch <- c.fds
	ch <- c.threads
}

// Collect 单项读取失败只跳过该项（如非 Linux 平台没有 fd 信息）
func (c *ProcessCollector) Collect(ch chan<- prometheus.Metric) {
	if mem, err := c.proc.MemoryInfo(); err == nil {
		ch <- prometheus.MustNewConstMetric(c.rss, prometheus.GaugeValue, float64(mem.RSS))
	} else {
		logger.Debug("read process memory failed", component, zap.Error(err))
	}

	if times, err := c.proc.Times(); err == nil {
		ch <- prometheus.MustNewConstMetric(c.cpu, prometheus.CounterValue, times.User+times.System)
	} else {
		logger.Debug("read process cpu times failed", component, zap.Error(err))
	}

	if n, err := c.proc.NumFDs(); err == nil {
		ch <- prometheus.MustNewConstMetric(c.fds, prometheus.GaugeValue, float64(n))
	}

	if n, err := c.proc.NumThreads(); err == nil {
		ch <- prometheus.MustNewConstMetric(c.threads, prometheus.GaugeValue, float64(n))
	}
}
