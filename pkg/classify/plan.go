// Package classify 将 bulk 请求的位置结果映射为命名指标。
//
// 请求体和 index→metric 表都从同一个 Plan 推导，二者不会出现错位；
// 结果数组中超出 Plan 的下标视为协议漂移。
package classify

import "github.com/hasura-metrics-adapter/pkg/engine"

// Entry 一条子查询及其结果对应的指标名
type Entry struct {
	Query  engine.Query
	Metric string
}

// Plan 有序的 (Query, metric) 列表，构造后只读
type Plan struct {
	entries []Entry
}

func NewPlan(entries ...Entry) Plan {
	return Plan{entries: append([]Entry(nil), entries...)}
}

func (p Plan) Len() int { return len(p.entries) }

// Queries 按顺序返回子查询，用于构造 bulk 请求
func (p Plan) Queries() []engine.Query {
	out := make([]engine.Query, len(p.entries))
	for i, e := range p.entries {
		out[i] = e.Query
	}
	return out
}

// Metric 第 i 个结果对应的指标名；超出范围返回 false
func (p Plan) Metric(i int) (string, bool) {
	if i < 0 || i >= len(p.entries) {
		return "", false
	}
	return p.entries[i].Metric, true
}

// Statement 同一方言、同一数据源下的 SQL 与指标对
type Statement struct {
	Metric string
	SQL    string
}

// ForSource 为单个数据源构造只读 Plan
func ForSource(d engine.Dialect, source string, stmts ...Statement) Plan {
	entries := make([]Entry, len(stmts))
	for i, s := range stmts {
		entries[i] = Entry{Query: engine.ReadOnlySQL(d, source, s.SQL), Metric: s.Metric}
	}
	return Plan{entries: entries}
}
