// Package sink 指标输出端。所有写入都是 fire-and-forget：调用方不关心返回值，
// 实现必须可被多个采集协程并发调用。
package sink

// Kind 指标类型
type Kind int

const (
	Counter Kind = iota
	Gauge
	Timer
	ServiceCheck
)

func (k Kind) String() string {
	switch k {
	case Counter:
		return "counter"
	case Gauge:
		return "gauge"
	case Timer:
		return "timer"
	case ServiceCheck:
		return "service_check"
	default:
		return "unknown"
	}
}

// Status 服务检查状态
type Status int

const (
	StatusOK Status = iota
	StatusWarning
	StatusCritical
	StatusUnknown
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusWarning:
		return "warning"
	case StatusCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// Sink 指标后端；tags 为 "key:value" 形式
type Sink interface {
	Incr(name string, tags ...string)
	Decr(name string, tags ...string)
	Gauge(name string, value float64, tags ...string)
	Timer(name string, seconds float64, tags ...string)
	ServiceCheck(name string, status Status, tags ...string)
}

// Emission 一次指标写入，供测试记录与调试日志使用
type Emission struct {
	Name   string
	Kind   Kind
	Value  float64
	Status Status
	Tags   []string
}

// Tag 构造 "key:value" 标签
func Tag(key, value string) string {
	return key + ":" + value
}
