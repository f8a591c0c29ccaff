package classify

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// ErrUnknownPayload 结果既不是 run_sql 元组也不是 {"count": N}
var ErrUnknownPayload = errors.New("unrecognised result payload")

// Sample 从单个结果中提取的一个数值及其标签
type Sample struct {
	Value float64
	Tags  []string
}

type payload struct {
	ResultType string              `json:"result_type"`
	Result     [][]json.RawMessage `json:"result"`
	Count      json.RawMessage     `json:"count"`
}

// Extract 解析单个结果。
//
// run_sql 形态：第一行为表头，之后每行第一列是数值，其余列作为 header:value 标签。
// 扁平形态：{"count": N}，无标签。
func Extract(raw json.RawMessage) ([]Sample, error) {
	var p payload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnknownPayload, err)
	}
	switch {
	case p.Result != nil:
		return extractTuples(p.Result)
	case len(p.Count) > 0:
		v, err := parseNumber(p.Count)
		if err != nil {
			return nil, fmt.Errorf("count: %w", err)
		}
		return []Sample{{Value: v}}, nil
	case p.ResultType != "":
		return nil, fmt.Errorf("%w: result_type %s without rows", ErrUnknownPayload, p.ResultType)
	default:
		return nil, ErrUnknownPayload
	}
}

func extractTuples(rows [][]json.RawMessage) ([]Sample, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: missing header row", ErrUnknownPayload)
	}
	header := make([]string, len(rows[0]))
	for i, cell := range rows[0] {
		header[i] = cellString(cell)
	}

	samples := make([]Sample, 0, len(rows)-1)
	for n, row := range rows[1:] {
		if len(row) == 0 {
			return nil, fmt.Errorf("row %d: empty", n+1)
		}
		v, err := parseNumber(row[0])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", n+1, err)
		}
		var tags []string
		for j := 1; j < len(row) && j < len(header); j++ {
			if isNull(row[j]) || header[j] == "" {
				continue
			}
			tags = append(tags, header[j]+":"+cellString(row[j]))
		}
		samples = append(samples, Sample{Value: v, Tags: tags})
	}
	return samples, nil
}

// run_sql 把所有列值编码为字符串，这里同时接受 JSON 数字
func parseNumber(cell json.RawMessage) (float64, error) {
	if isNull(cell) {
		return 0, errors.New("null value")
	}
	var f float64
	if err := json.Unmarshal(cell, &f); err == nil {
		return f, nil
	}
	var s string
	if err := json.Unmarshal(cell, &s); err != nil {
		return 0, fmt.Errorf("not a number: %s", string(cell))
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", s)
	}
	return f, nil
}

func cellString(cell json.RawMessage) string {
	var s string
	if err := json.Unmarshal(cell, &s); err == nil {
		return s
	}
	return strings.TrimSpace(string(cell))
}

func isNull(cell json.RawMessage) bool {
	return len(cell) == 0 || strings.TrimSpace(string(cell)) == "null"
}
