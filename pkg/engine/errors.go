package engine

import (
	"errors"
	"fmt"
)

// ErrUnsupportedDialect 批量请求中包含不支持方言的子查询
var ErrUnsupportedDialect = errors.New("unsupported sql dialect")

// TransportError 网络层失败（连接/DNS/超时）
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: transport error: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// StatusError 非 2xx 响应
type StatusError struct {
	Op   string
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: invalid status code: %d", e.Op, e.Code)
	}
	return fmt.Sprintf("%s: invalid status code: %d: %s", e.Op, e.Code, e.Body)
}

// DecodeError 响应体格式不符合预期
type DecodeError struct {
	Op  string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s: invalid response format: %v", e.Op, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Kind 错误分类，用于日志字段
func Kind(err error) string {
	var (
		te *TransportError
		se *StatusError
		de *DecodeError
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &te):
		return "transport"
	case errors.As(err, &se):
		return "status"
	case errors.As(err, &de):
		return "decode"
	default:
		return "other"
	}
}
