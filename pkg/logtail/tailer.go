// Package logtail 持续跟踪引擎日志文件，逐行交给处理器，直到终止信号触发。
package logtail

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/hasura-metrics-adapter/pkg/config"
	"github.com/hasura-metrics-adapter/pkg/logger"
	"github.com/hasura-metrics-adapter/pkg/signal"
)

const component = "logtail"

// DefaultMaxLineSize 单行上限，超出的行被丢弃
const DefaultMaxLineSize = 1 << 20

// Handler 处理一行完整日志（不含换行符）
type Handler func(line []byte)

// Tailer 文件跟踪器。唤醒来源：目录上的 fsnotify 事件或 sleep 轮询，先到先处理
type Tailer struct {
	path      string
	sleep     time.Duration
	fromStart bool
	handle    Handler
	lines     prometheus.Counter
	maxLine   int

	file     *os.File
	info     os.FileInfo
	reader   *bufio.Reader
	consumed int64
	pending  []byte
	// discarding 超长行的剩余部分，读到换行前一律丢弃
	discarding bool
}

// Option Tailer 选项
type Option func(*Tailer)

// WithMaxLineSize 覆盖单行上限，n <= 0 时保持默认
func WithMaxLineSize(n int) Option {
	return func(t *Tailer) {
		if n > 0 {
			t.maxLine = n
		}
	}
}

// WithLinesCounter 每读到一行累加一次
func WithLinesCounter(c prometheus.Counter) Option {
	return func(t *Tailer) { t.lines = c }
}

func New(cfg config.LogFileConfig, handle Handler, opts ...Option) *Tailer {
	t := &Tailer{
		path:      filepath.Clean(cfg.Path),
		sleep:     cfg.Sleep,
		fromStart: cfg.FromStart,
		handle:    handle,
		maxLine:   DefaultMaxLineSize,
	}
	if t.sleep <= 0 {
		t.sleep = time.Second
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Run 阻塞直到 term 触发。启动时打开文件失败返回错误（致命）
func (t *Tailer) Run(term *signal.Terminator) error {
	if err := t.open(!t.fromStart); err != nil {
		return err
	}
	defer func() { _ = t.file.Close() }()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		logger.Warn("fsnotify unavailable, falling back to polling", component, zap.Error(err))
		watcher = nil
	} else {
		defer func() { _ = watcher.Close() }()
		if err := watcher.Add(filepath.Dir(t.path)); err != nil {
			logger.Warn("cannot watch log directory, falling back to polling", component,
				zap.String("dir", filepath.Dir(t.path)), zap.Error(err))
		}
	}

	logger.Info("tailing engine log file", component,
		zap.String("path", t.path), zap.Bool("from_start", t.fromStart), zap.Duration("sleep", t.sleep))

	for {
		if err := t.drain(); err != nil {
			return err
		}
		t.checkReplaced()
		if !t.wait(term, watcher) {
			logger.Info("log tailer stopped by termination signal", component)
			return nil
		}
	}
}

func (t *Tailer) open(seekEnd bool) error {
	f, err := os.Open(t.path)
	if err != nil {
		return fmt.Errorf("open log file %s: %w", t.path, err)
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return fmt.Errorf("stat log file %s: %w", t.path, err)
	}
	var offset int64
	if seekEnd {
		if offset, err = f.Seek(0, io.SeekEnd); err != nil {
			_ = f.Close()
			return fmt.Errorf("seek log file %s: %w", t.path, err)
		}
	}
	t.file = f
	t.info = info
	t.reader = bufio.NewReader(f)
	t.consumed = offset
	t.pending = nil
	t.discarding = false
	return nil
}

// drain 读取所有完整行；末尾不完整的数据留到下一次
func (t *Tailer) drain() error {
	if fi, err := t.file.Stat(); err == nil && fi.Size() < t.consumed {
		logger.Info("log file truncated, rewinding", component,
			zap.Int64("size", fi.Size()), zap.Int64("offset", t.consumed))
		if _, err := t.file.Seek(0, io.SeekStart); err != nil {
			return fmt.Errorf("rewind log file: %w", err)
		}
		t.reader.Reset(t.file)
		t.consumed = 0
		t.pending = nil
		t.discarding = false
	}

	for {
		chunk, err := t.reader.ReadBytes('\n')
		t.consumed += int64(len(chunk))
		if err != nil {
			if !t.discarding {
				t.pending = append(t.pending, chunk...)
				if len(t.pending) > t.maxLine {
					t.dropLine(len(t.pending))
					t.pending = nil
					t.discarding = true
				}
			}
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("read log file: %w", err)
		}
		if t.discarding {
			t.discarding = false
			continue
		}

		line := chunk
		if len(t.pending) > 0 {
			line = append(t.pending, chunk...)
			t.pending = nil
		}
		line = bytes.TrimRight(line, "\r\n")
		if len(line) == 0 {
			continue
		}
		if len(line) > t.maxLine {
			t.dropLine(len(line))
			continue
		}
		if t.lines != nil {
			t.lines.Inc()
		}
		t.handle(line)
	}
}

func (t *Tailer) dropLine(size int) {
	logger.Warn("log line exceeds size limit, dropping it", component,
		zap.Int("size", size), zap.Int("limit", t.maxLine))
}

// checkReplaced 路径指向了新文件（轮转）时，从头打开新文件
func (t *Tailer) checkReplaced() {
	fi, err := os.Stat(t.path)
	if err != nil || os.SameFile(fi, t.info) {
		return
	}
	old := t.file
	if err := t.open(false); err != nil {
		logger.Warn("log file rotated but cannot be reopened", component, zap.Error(err))
		return
	}
	_ = old.Close()
	logger.Info("log file rotated, reopened from start", component, zap.String("path", t.path))
}

// wait 返回 false 表示已终止
func (t *Tailer) wait(term *signal.Terminator, w *fsnotify.Watcher) bool {
	timer := time.NewTimer(t.sleep)
	defer timer.Stop()

	var (
		events <-chan fsnotify.Event
		errs   <-chan error
	)
	if w != nil {
		events, errs = w.Events, w.Errors
	}
	for {
		select {
		case <-term.Done():
			return false
		case <-timer.C:
			return true
		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			if filepath.Clean(ev.Name) == t.path {
				return true
			}
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			logger.Debug("fsnotify error", component, zap.Error(err))
		}
	}
}
