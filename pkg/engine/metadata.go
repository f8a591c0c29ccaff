package engine

import (
	"errors"
	"fmt"

	"github.com/goccy/go-json"
)

// ErrNoSources metadata 中缺少 sources 列表
var ErrNoSources = errors.New("metadata has no sources list")

// Metadata export_metadata v2 响应，只解析采集需要的部分
type Metadata struct {
	ResourceVersion int `json:"resource_version"`
	Metadata        struct {
		Version int             `json:"version"`
		Sources json.RawMessage `json:"sources"`
	} `json:"metadata"`
}

// DataSource 引擎中注册的数据源
type DataSource struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
}

// Dialect 数据源对应的 SQL 方言
func (s DataSource) Dialect() Dialect { return DialectForKind(s.Kind) }

// Sources 解析数据源列表；缺失或格式错误返回 error，名称为空的条目被跳过
func (m *Metadata) Sources() ([]DataSource, error) {
	if m == nil {
		return nil, ErrNoSources
	}
	raw := m.Metadata.Sources
	if len(raw) == 0 || string(raw) == "null" {
		return nil, ErrNoSources
	}
	var entries []DataSource
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("decode metadata sources: %w", err)
	}
	out := entries[:0]
	for _, s := range entries {
		if s.Name != "" {
			out = append(out, s)
		}
	}
	return out, nil
}
