package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/hasura-metrics-adapter/pkg/config"
	"github.com/hasura-metrics-adapter/pkg/goid"
)

type Logger = zap.Logger

var (
	baseLogger       = zap.NewNop()
	defaultCollector = "adapter"
	loggerInitOnce   sync.Once
	mu               sync.RWMutex
)

// ParseLevel 将配置中的级别字符串转换为 zapcore.Level（兼容缩写）
func ParseLevel(s string) zapcore.Level {
	switch strings.ToLower(s) {
	case "dbg", "debug":
		return zapcore.DebugLevel
	case "war", "warn":
		return zapcore.WarnLevel
	case "err", "error":
		return zapcore.ErrorLevel
	case "dpanic":
		return zapcore.DPanicLevel
	case "pan", "panic":
		return zapcore.PanicLevel
	case "fat", "fatal":
		return zapcore.FatalLevel
	default:
		return zapcore.InfoLevel
	}
}

// Init 初始化全局日志（仅一次）：控制台彩色输出 + 按天滚动的 JSON 文件
func Init(cfg config.ZapLogConfig) error {
	var err error
	loggerInitOnce.Do(func() {
		level := ParseLevel(cfg.Level)

		if err = os.MkdirAll(cfg.Path, 0755); err != nil {
			return
		}

		writer, wErr := rotatelogs.New(
			filepath.Join(cfg.Path, "adapter-%Y%m%d.log"),
			rotatelogs.WithMaxAge(time.Duration(cfg.MaxAge)*24*time.Hour),
			rotatelogs.WithRotationTime(24*time.Hour),
			rotatelogs.WithRotationSize(int64(cfg.MaxSize)*1024*1024),
		)
		if wErr != nil {
			err = wErr
			return
		}

		consoleEncoder := newConsoleEncoder(cfg.Format)

		jsonCfg := zap.NewProductionEncoderConfig()
		jsonCfg.TimeKey = "timestamp"
		jsonCfg.EncodeTime = func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
			enc.AppendString(t.Format("2006-01-02 15:04:05.000 -07:00"))
		}
		jsonCfg.EncodeLevel = zapcore.LowercaseLevelEncoder
		jsonEncoder := zapcore.NewJSONEncoder(jsonCfg)

		core := zapcore.NewTee(
			zapcore.NewCore(consoleEncoder, zapcore.AddSync(os.Stdout), level),
			zapcore.NewCore(jsonEncoder, zapcore.AddSync(writer), level),
		)

		mu.Lock()
		baseLogger = zap.New(core, zap.AddCaller(), zap.AddCallerSkip(2), zap.AddStacktrace(zapcore.ErrorLevel))
		mu.Unlock()
	})
	return err
}

// newConsoleEncoder format=json 时控制台同样输出 JSON，否则彩色文本
func newConsoleEncoder(format string) zapcore.Encoder {
	if format == "json" {
		encCfg := zap.NewProductionEncoderConfig()
		encCfg.TimeKey = "timestamp"
		encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		return zapcore.NewJSONEncoder(encCfg)
	}

	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.ConsoleSeparator = " "
	// 控制台彩色时间
	encCfg.EncodeTime = func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString(fmt.Sprintf("\033[34m%s\033[0m", t.Format("2006-01-02 15:04:05.000 -07:00")))
	}
	encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	// Caller 两级路径
	encCfg.EncodeCaller = func(c zapcore.EntryCaller, enc zapcore.PrimitiveArrayEncoder) {
		rel := filepath.Join(filepath.Base(filepath.Dir(c.File)), filepath.Base(c.File))
		enc.AppendString(fmt.Sprintf("%s:%d", rel, c.Line))
	}
	return zapcore.NewConsoleEncoder(encCfg)
}

// Replace 替换全局 logger（测试中注入 observer），返回恢复函数
func Replace(l *zap.Logger) func() {
	mu.Lock()
	prev := baseLogger
	baseLogger = l
	mu.Unlock()
	return func() {
		mu.Lock()
		baseLogger = prev
		mu.Unlock()
	}
}

func SetDefaultCollector(collector string) {
	mu.Lock()
	defer mu.Unlock()
	defaultCollector = collector
}

func GetDefaultCollector() string {
	mu.RLock()
	defer mu.RUnlock()
	return defaultCollector
}

func log(level zapcore.Level, msg string, collectorOverride string, fields ...zapcore.Field) {
	mu.RLock()
	l := baseLogger
	collector := defaultCollector
	mu.RUnlock()

	if collectorOverride != "" {
		collector = collectorOverride
	}
	if ce := l.Check(level, msg); ce != nil {
		all := make([]zapcore.Field, 0, len(fields)+2)
		all = append(all, zap.String("collector", collector), zap.String("goid", strconv.FormatUint(goid.GetGID(), 10)))
		ce.Write(append(all, fields...)...)
	}
}

func Debug(msg string, collectorOverride string, fields ...zapcore.Field) {
	log(zap.DebugLevel, msg, collectorOverride, fields...)
}
func Info(msg string, collectorOverride string, fields ...zapcore.Field) {
	log(zap.InfoLevel, msg, collectorOverride, fields...)
}
func Warn(msg string, collectorOverride string, fields ...zapcore.Field) {
	log(zap.WarnLevel, msg, collectorOverride, fields...)
}
func Error(msg string, collectorOverride string, fields ...zapcore.Field) {
	log(zap.ErrorLevel, msg, collectorOverride, fields...)
}
func Fatal(msg string, collectorOverride string, fields ...zapcore.Field) {
	log(zap.FatalLevel, msg, collectorOverride, fields...)
}

func Sync() error {
	mu.RLock()
	defer mu.RUnlock()
	return baseLogger.Sync()
}

// GetLogger 返回底层 zap.Logger（用于 promhttp ErrorLog 等需要原生 logger 的地方）
func GetLogger() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return baseLogger
}
