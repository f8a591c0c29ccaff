// Package sinktest 提供记录型 Sink，供各包测试断言指标输出。
package sinktest

import (
	"slices"
	"sync"

	"github.com/hasura-metrics-adapter/pkg/sink"
)

// Recorder 线程安全地记录所有写入
type Recorder struct {
	mu        sync.Mutex
	emissions []sink.Emission
}

var _ sink.Sink = (*Recorder)(nil)

func New() *Recorder { return &Recorder{} }

func (r *Recorder) add(e sink.Emission) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e.Tags = slices.Clone(e.Tags)
	r.emissions = append(r.emissions, e)
}

func (r *Recorder) Incr(name string, tags ...string) {
	r.add(sink.Emission{Name: name, Kind: sink.Counter, Value: 1, Tags: tags})
}

func (r *Recorder) Decr(name string, tags ...string) {
	r.add(sink.Emission{Name: name, Kind: sink.Counter, Value: -1, Tags: tags})
}

func (r *Recorder) Gauge(name string, value float64, tags ...string) {
	r.add(sink.Emission{Name: name, Kind: sink.Gauge, Value: value, Tags: tags})
}

func (r *Recorder) Timer(name string, seconds float64, tags ...string) {
	r.add(sink.Emission{Name: name, Kind: sink.Timer, Value: seconds, Tags: tags})
}

func (r *Recorder) ServiceCheck(name string, status sink.Status, tags ...string) {
	r.add(sink.Emission{Name: name, Kind: sink.ServiceCheck, Status: status, Tags: tags})
}

// All 返回全部写入的副本
func (r *Recorder) All() []sink.Emission {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.emissions)
}

// Named 返回指定名称的写入
func (r *Recorder) Named(name string) []sink.Emission {
	var out []sink.Emission
	for _, e := range r.All() {
		if e.Name == name {
			out = append(out, e)
		}
	}
	return out
}

// Names 按写入顺序返回指标名
func (r *Recorder) Names() []string {
	all := r.All()
	out := make([]string, len(all))
	for i, e := range all {
		out[i] = e.Name
	}
	return out
}

// Errors 统计 errors_total{type:<typ>} 的次数
func (r *Recorder) Errors(typ string) int {
	n := 0
	for _, e := range r.Named("errors_total") {
		if slices.Contains(e.Tags, "type:"+typ) {
			n++
		}
	}
	return n
}

// Without 过滤掉指定名称后的写入
func (r *Recorder) Without(name string) []sink.Emission {
	var out []sink.Emission
	for _, e := range r.All() {
		if e.Name != name {
			out = append(out, e)
		}
	}
	return out
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.emissions = nil
}
