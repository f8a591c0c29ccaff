package logprocessor

import "github.com/goccy/go-json"

// baseLog 引擎结构化日志的公共外层
type baseLog struct {
	Timestamp string          `json:"timestamp"`
	Level     string          `json:"level"`
	Type      string          `json:"type"`
	Detail    json.RawMessage `json:"detail"`
}

type operationError struct {
	Path  string `json:"path"`
	Error string `json:"error"`
	Code  string `json:"code"`
}

type httpInfo struct {
	Status      int    `json:"status"`
	HTTPVersion string `json:"http_version"`
	URL         string `json:"url"`
	Method      string `json:"method"`
	IP          string `json:"ip"`
}

type operationQuery struct {
	OperationName *string `json:"operationName"`
	Query         *string `json:"query"`
}

type httpOperation struct {
	QueryExecutionTime *float64        `json:"query_execution_time"`
	RequestID          string          `json:"request_id"`
	ResponseSize       int             `json:"response_size"`
	Error              *operationError `json:"error"`
	Query              *operationQuery `json:"query"`
}

type httpLogDetail struct {
	RequestID string        `json:"request_id"`
	Operation httpOperation `json:"operation"`
	HTTPInfo  *httpInfo     `json:"http_info"`
}

type wsOperationType struct {
	Type   string          `json:"type"`
	Detail *operationError `json:"detail"`
}

type wsEventDetail struct {
	OperationName *string          `json:"operation_name"`
	RequestID     *string          `json:"request_id"`
	OperationType *wsOperationType `json:"operation_type"`
}

type wsEvent struct {
	Type   string         `json:"type"`
	Detail *wsEventDetail `json:"detail"`
}

type websocketLogDetail struct {
	Event *wsEvent `json:"event"`
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
