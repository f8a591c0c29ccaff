package classify

import (
	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/hasura-metrics-adapter/pkg/logger"
	"github.com/hasura-metrics-adapter/pkg/sink"
)

// ErrorsMetric 采集失败计数，按 type 标签区分来源
const ErrorsMetric = "errors_total"

// Classifier 把结果数组写成 gauge，失败写 errors_total{type:<errorType>}
type Classifier struct {
	sink      sink.Sink
	collector string
	errorType string
}

// New collector 用于日志字段，errorType 用于 errors_total 的 type 标签
func New(s sink.Sink, collector, errorType string) *Classifier {
	return &Classifier{sink: s, collector: collector, errorType: errorType}
}

// Classify 逐个下标处理结果，extraTags 附加在每个 gauge 上（如 source:<name>）。
// 返回记录的错误数。
func (c *Classifier) Classify(results []json.RawMessage, plan Plan, extraTags ...string) int {
	failures := 0
	for i, raw := range results {
		metric, ok := plan.Metric(i)
		if !ok {
			logger.Warn("unexpected entry in batch result", c.collector,
				zap.Int("index", i), zap.Int("planned", plan.Len()), zap.ByteString("entry", raw))
			c.fail()
			failures++
			continue
		}

		samples, err := Extract(raw)
		if err != nil {
			logger.Warn("cannot interpret result", c.collector,
				zap.String("metric", metric), zap.Int("index", i), zap.Error(err))
			c.fail()
			failures++
			continue
		}
		for _, s := range samples {
			c.sink.Gauge(metric, s.Value, joinTags(s.Tags, extraTags)...)
		}
	}
	return failures
}

// Fail 记录一次采集失败
func (c *Classifier) Fail() { c.fail() }

func (c *Classifier) fail() {
	c.sink.Incr(ErrorsMetric, "type:"+c.errorType)
}

func joinTags(a, b []string) []string {
	if len(b) == 0 {
		return a
	}
	out := make([]string, 0, len(a)+len(b))
	out = append(out, a...)
	return append(out, b...)
}
