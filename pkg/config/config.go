package config

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var valid = validator.New()

// Config 全局配置结构体（启动时构建一次，之后只读，所有采集协程共享）
type Config struct {
	Server  ServerConfig  `yaml:"server" mapstructure:"server" comment:"自监控HTTP服务配置"`
	Engine  EngineConfig  `yaml:"engine" mapstructure:"engine" comment:"被监控的GraphQL引擎"`
	Statsd  StatsdConfig  `yaml:"statsd" mapstructure:"statsd" comment:"DogStatsD指标后端"`
	Monitor MonitorConfig `yaml:"monitor" mapstructure:"monitor" comment:"轮询采集配置"`
	LogFile LogFileConfig `yaml:"logfile" mapstructure:"logfile" comment:"引擎日志文件跟踪"`
	Log     ZapLogConfig  `yaml:"log" mapstructure:"log" comment:"日志配置"`

	disabled       map[CollectorName]struct{}
	forcedDisabled []CollectorName
}

// ServerConfig HTTP服务配置（暴露 /metrics 与 /health）
type ServerConfig struct {
	Enable       bool          `yaml:"enable" mapstructure:"enable" env:"HTTP_ENABLE" comment:"是否启动自监控HTTP服务"`
	Addr         string        `yaml:"addr" mapstructure:"addr" env:"HTTP_ADDR" validate:"required,hostname_port" comment:"HTTP监听地址（格式：ip:port）"`
	ReadTimeout  time.Duration `yaml:"read_timeout" mapstructure:"read-timeout" validate:"required,gt=0"`
	WriteTimeout time.Duration `yaml:"write_timeout" mapstructure:"write-timeout" validate:"required,gt=0"`
	IdleTimeout  time.Duration `yaml:"idle_timeout" mapstructure:"idle-timeout" validate:"required,gt=0"`
}

// EngineConfig 被监控引擎的地址与管理员凭证
type EngineConfig struct {
	Endpoint    string        `yaml:"endpoint" mapstructure:"endpoint" env:"HASURA_GRAPHQL_ENDPOINT" validate:"required,url"`
	AdminSecret string        `yaml:"admin_secret" mapstructure:"admin-secret" env:"HASURA_GRAPHQL_ADMIN_SECRET"`
	Timeout     time.Duration `yaml:"timeout" mapstructure:"timeout" env:"HASURA_REQUEST_TIMEOUT" validate:"gte=0" comment:"单次请求超时，0表示不限制"`
}

// StatsdConfig DogStatsD 目标地址、指标前缀、公共标签
type StatsdConfig struct {
	Addr         string `yaml:"addr" mapstructure:"addr" env:"DATADOG_ENDPOINT" validate:"required,hostname_port"`
	Prefix       string `yaml:"prefix" mapstructure:"prefix" env:"METRICS_PREFIX"`
	CommonLabels string `yaml:"common_labels" mapstructure:"common-labels" env:"COMMON_LABELS" comment:"格式 key:value;key2:value2"`
}

// MonitorConfig 轮询采集全局配置
type MonitorConfig struct {
	Interval          time.Duration `yaml:"interval" mapstructure:"interval" env:"COLLECT_INTERVAL" validate:"required,gt=0"`
	ConcurrencyLimit  int           `yaml:"concurrency_limit" mapstructure:"concurrency-limit" env:"CONCURRENCY_LIMIT" validate:"gte=0" comment:"事件触发器按数据源并发上限，0表示不限制"`
	ExcludeCollectors []string      `yaml:"exclude_collectors" mapstructure:"exclude-collectors" env:"EXCLUDE_COLLECTORS"`
	HistogramBuckets  []float64     `yaml:"histogram_buckets" mapstructure:"histogram-buckets" env:"HISTOGRAM_BUCKETS"`
}

// LogFileConfig 引擎日志文件跟踪配置
type LogFileConfig struct {
	Path      string        `yaml:"path" mapstructure:"path" env:"LOG_FILE" validate:"required"`
	Sleep     time.Duration `yaml:"sleep" mapstructure:"sleep" env:"SLEEP_TIME" validate:"required,gt=0" comment:"无新数据时的轮询间隔"`
	FromStart bool          `yaml:"from_start" mapstructure:"from-start" comment:"从文件开头读取（默认从末尾开始）"`
}

// ZapLogConfig 日志配置
type ZapLogConfig struct {
	Level     string `yaml:"level" mapstructure:"level" env:"LOG_LEVEL" validate:"required,oneof=debug info warn error dpanic panic fatal" comment:"日志级别" default:"info"`
	Format    string `yaml:"format" mapstructure:"format" env:"LOG_FORMAT" validate:"required,oneof=json console" comment:"日志格式（json/console）" default:"json"`
	Path      string `yaml:"path" mapstructure:"path" env:"LOG_PATH" validate:"required" comment:"日志存储路径" default:"./logs"`
	MaxSize   int    `yaml:"max_size" mapstructure:"max-size" validate:"required,gt=0" comment:"单个日志文件最大大小（MB）" default:"100"`
	MaxBackup int    `yaml:"max_backup" mapstructure:"max-backup" validate:"gte=0" comment:"日志文件最大备份数" default:"30"`
	MaxAge    int    `yaml:"max_age" mapstructure:"max-age" validate:"required,gt=0" comment:"日志文件最大保存天数" default:"7"`
	Compress  bool   `yaml:"compress" mapstructure:"compress" comment:"是否压缩过期日志" default:"true"`
}

// envBindings 原有部署使用的环境变量名，保持兼容
var envBindings = map[string]string{
	"engine.endpoint":            "HASURA_GRAPHQL_ENDPOINT",
	"engine.admin-secret":        "HASURA_GRAPHQL_ADMIN_SECRET",
	"engine.timeout":             "HASURA_REQUEST_TIMEOUT",
	"statsd.addr":                "DATADOG_ENDPOINT",
	"statsd.prefix":              "METRICS_PREFIX",
	"statsd.common-labels":       "COMMON_LABELS",
	"monitor.interval":           "COLLECT_INTERVAL",
	"monitor.concurrency-limit":  "CONCURRENCY_LIMIT",
	"monitor.exclude-collectors": "EXCLUDE_COLLECTORS",
	"monitor.histogram-buckets":  "HISTOGRAM_BUCKETS",
	"logfile.path":               "LOG_FILE",
	"logfile.sleep":              "SLEEP_TIME",
	"log.level":                  "LOG_LEVEL",
	"log.format":                 "LOG_FORMAT",
	"log.path":                   "LOG_PATH",
	"server.addr":                "HTTP_ADDR",
}

// NewDefaultConfig 创建默认配置（所有字段兜底，避免空指针/非法值）
func NewDefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Enable:       true,
			Addr:         "0.0.0.0:9091",
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		Engine: EngineConfig{
			Endpoint: "http://localhost:8080",
		},
		Statsd: StatsdConfig{
			Addr: "127.0.0.1:8125",
		},
		Monitor: MonitorConfig{
			Interval:          15 * time.Second,
			ConcurrencyLimit:  0,
			ExcludeCollectors: []string{},
			HistogramBuckets:  []float64{},
		},
		LogFile: LogFileConfig{
			Sleep: time.Second,
		},
		Log: ZapLogConfig{
			Level:     "info",
			Format:    "json",
			Path:      "./logs",
			MaxSize:   100,
			MaxBackup: 30,
			MaxAge:    7,
			Compress:  true,
		},
	}
}

// LoadConfigWithCli 支持 time.Duration，(Flags + YAML + ENV)
func LoadConfigWithCli(cmd *cobra.Command) (*Config, error) {
	v := viper.New()

	// 1. 绑定 Cobra Flags → Viper
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return nil, fmt.Errorf("bind flags: %w", err)
	}

	// 2. 解析配置文件 (--config)
	configFile, _ := cmd.Flags().GetString("config")
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", configFile, err)
		}
	}

	// 3. 绑定环境变量
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", env, err)
		}
	}

	return Decode(v.AllSettings())
}

// Decode 将扁平/嵌套 settings 解码为 Config 并完成校验
func Decode(settings map[string]any) (*Config, error) {
	cfg := NewDefaultConfig()

	decoderConfig := &mapstructure.DecoderConfig{
		Metadata:         nil,
		Result:           cfg,
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			millisecondsHook(),
			mapstructure.StringToTimeDurationHookFunc(),
			splitListHook(),
		),
	}

	decoder, err := mapstructure.NewDecoder(decoderConfig)
	if err != nil {
		return nil, fmt.Errorf("new decoder: %w", err)
	}

	if err := decoder.Decode(settings); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	cfg.finalize()

	return cfg, nil
}

// splitListHook 环境变量列表兼容 ";" 与 "," 分隔（EXCLUDE_COLLECTORS=a;b）
func splitListHook() mapstructure.DecodeHookFuncType {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if f.Kind() != reflect.String || t.Kind() != reflect.Slice {
			return data, nil
		}
		raw := strings.TrimSpace(data.(string))
		raw = strings.TrimPrefix(strings.TrimSuffix(raw, "]"), "[")
		if raw == "" {
			return []string{}, nil
		}
		parts := strings.FieldsFunc(raw, func(r rune) bool { return r == ';' || r == ',' })
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts, nil
	}
}

// millisecondsHook 兼容旧部署中以毫秒整数书写的间隔（COLLECT_INTERVAL=15000）
func millisecondsHook() mapstructure.DecodeHookFuncType {
	durationType := reflect.TypeOf(time.Duration(0))
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if t != durationType {
			return data, nil
		}
		switch n := data.(type) {
		case string:
			if ms, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64); err == nil {
				return time.Duration(ms) * time.Millisecond, nil
			}
		case int:
			return time.Duration(n) * time.Millisecond, nil
		case int64:
			return time.Duration(n) * time.Millisecond, nil
		case float64:
			return time.Duration(n * float64(time.Millisecond)), nil
		}
		return data, nil
	}
}

// Validate 配置校验
func (c *Config) Validate() error {
	err := valid.Struct(c)
	if err != nil {
		return err
	}
	// 	1,校验Server服务配置
	if err := c.Server.Validate(); err != nil {
		return err
	}
	// 	2，校验引擎与指标后端
	if err := c.Statsd.Validate(); err != nil {
		return err
	}
	// 	3，校验采集配置
	if err := c.Monitor.Validate(); err != nil {
		return err
	}
	// 	4，校验日志配置
	if err := c.Log.Validate(); err != nil {
		return err
	}
	return nil
}

// finalize 计算禁用采集器集合；缺少管理员凭证时强制禁用需要凭证的采集器
func (c *Config) finalize() {
	c.disabled = make(map[CollectorName]struct{})
	for _, raw := range c.Monitor.ExcludeCollectors {
		// Validate 已保证可解析
		name, _ := ParseCollectorName(raw)
		c.disabled[name] = struct{}{}
	}
	if c.Engine.AdminSecret == "" {
		for _, name := range AdminCollectors {
			if _, ok := c.disabled[name]; !ok {
				c.forcedDisabled = append(c.forcedDisabled, name)
			}
			c.disabled[name] = struct{}{}
		}
	}
}

// Enabled 采集器是否启用
func (c *Config) Enabled(name CollectorName) bool {
	_, off := c.disabled[name]
	return !off
}

// DisabledCollectors 返回当前禁用的采集器（按固定顺序）
func (c *Config) DisabledCollectors() []CollectorName {
	var out []CollectorName
	for _, name := range AdminCollectors {
		if !c.Enabled(name) {
			out = append(out, name)
		}
	}
	return out
}

// ForcedDisabled 因缺少管理员凭证被强制禁用的采集器
func (c *Config) ForcedDisabled() []CollectorName {
	return c.forcedDisabled
}

// HasAdminSecret 是否配置了管理员凭证
func (c *Config) HasAdminSecret() bool {
	return c.Engine.AdminSecret != ""
}
