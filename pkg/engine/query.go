package engine

import "strings"

// Dialect 数据源 SQL 方言（封闭集合），决定 run_sql 请求类型
type Dialect int

const (
	// DialectUnsupported 不支持的数据源类型，采集时直接跳过
	DialectUnsupported Dialect = iota
	DialectPostgres
	DialectMSSQL
)

// DialectForKind 根据 metadata 中数据源的 kind 选择方言
func DialectForKind(kind string) Dialect {
	switch strings.ToLower(kind) {
	case "postgres":
		return DialectPostgres
	case "mssql":
		return DialectMSSQL
	default:
		return DialectUnsupported
	}
}

// RequestType 对应 /v2/query 的请求类型
func (d Dialect) RequestType() string {
	switch d {
	case DialectPostgres:
		return "run_sql"
	case DialectMSSQL:
		return "mssql_run_sql"
	default:
		return ""
	}
}

func (d Dialect) Supported() bool { return d != DialectUnsupported }

func (d Dialect) String() string {
	switch d {
	case DialectPostgres:
		return "postgres"
	case DialectMSSQL:
		return "mssql"
	default:
		return "unsupported"
	}
}

// DefaultSource 引擎默认数据源名
const DefaultSource = "default"

// Query 单条只读 SQL 子查询；每次采集构造，不持久化
type Query struct {
	Dialect  Dialect
	Source   string
	ReadOnly bool
	Cascade  bool
	SQL      string
}

// ReadOnlySQL 构造只读、非级联的子查询
func ReadOnlySQL(d Dialect, source, sql string) Query {
	return Query{Dialect: d, Source: source, ReadOnly: true, SQL: sql}
}

type runSQLArgs struct {
	Source   string `json:"source"`
	Cascade  bool   `json:"cascade"`
	ReadOnly bool   `json:"read_only"`
	SQL      string `json:"sql"`
}

type runSQL struct {
	Type string     `json:"type"`
	Args runSQLArgs `json:"args"`
}

// bulkRequest {"type":"bulk","args":[...]}，响应数组与 args 同序
type bulkRequest struct {
	Type string   `json:"type"`
	Args []runSQL `json:"args"`
}

func newBulkRequest(queries []Query) bulkRequest {
	req := bulkRequest{Type: "bulk", Args: make([]runSQL, len(queries))}
	for i, q := range queries {
		req.Args[i] = runSQL{
			Type: q.Dialect.RequestType(),
			Args: runSQLArgs{
				Source:   q.Source,
				Cascade:  q.Cascade,
				ReadOnly: q.ReadOnly,
				SQL:      q.SQL,
			},
		}
	}
	return req
}
