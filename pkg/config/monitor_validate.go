package config

import (
	"errors"
	"fmt"
	"net"
	"sort"
	"strings"
	"time"
)

// Validate HTTP服务配置校验
func (h *ServerConfig) Validate() error {
	if err := valid.Struct(h); err != nil {
		return err
	}
	// 	校验Addr格式(必须是 ":port" 或 "ip:port")
	if h.Addr == "" {
		return errors.New("[ERROR] server.addr cannot be empty")
	}
	// 	用net包解析地址，验证格式合法性
	_, err := net.ResolveTCPAddr("tcp", h.Addr)
	if err != nil {
		return fmt.Errorf("[ERROR] server.addr format invalid (expected: :port or ip:port), got %s: %w", h.Addr, err)
	}
	return nil
}

// Validate 指标后端配置校验，公共标签必须是 key:value 形式
func (s *StatsdConfig) Validate() error {
	if err := valid.Struct(s); err != nil {
		return err
	}
	if _, err := s.Tags(); err != nil {
		return err
	}
	return nil
}

// Tags 解析公共标签 "k:v;k2:v2" -> ["k:v","k2:v2"]（按 key 排序，输出稳定）
func (s *StatsdConfig) Tags() ([]string, error) {
	raw := strings.TrimSpace(s.CommonLabels)
	if raw == "" {
		return nil, nil
	}
	var tags []string
	for _, pair := range strings.Split(raw, ";") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		kv := strings.Split(pair, ":")
		if len(kv) != 2 || kv[0] == "" {
			return nil, fmt.Errorf("statsd.common-labels: invalid KEY:value: no `:` found in `%s`", pair)
		}
		tags = append(tags, kv[0]+":"+kv[1])
	}
	sort.Strings(tags)
	return tags, nil
}

// Namespace DogStatsD 命名空间（前缀 + "."）
func (s *StatsdConfig) Namespace() string {
	if s.Prefix == "" || strings.HasSuffix(s.Prefix, ".") {
		return s.Prefix
	}
	return s.Prefix + "."
}

// Validate 采集配置校验
func (m *MonitorConfig) Validate() error {
	if err := valid.Struct(m); err != nil {
		return err
	}
	if m.Interval > time.Hour {
		return fmt.Errorf("monitor.interval must not exceed 1h, got %s", m.Interval)
	}
	// 重复项允许，finalize 时去重
	for _, raw := range m.ExcludeCollectors {
		if _, err := ParseCollectorName(raw); err != nil {
			return fmt.Errorf("monitor.exclude-collectors: %w", err)
		}
	}
	for i, b := range m.HistogramBuckets {
		if b <= 0 {
			return fmt.Errorf("monitor.histogram-buckets must be positive, got %v", b)
		}
		if i > 0 && b <= m.HistogramBuckets[i-1] {
			return fmt.Errorf("monitor.histogram-buckets must be strictly increasing, got %v", m.HistogramBuckets)
		}
	}
	return nil
}
