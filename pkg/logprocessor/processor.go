// Package logprocessor 将引擎 JSON 日志行转换为计数器与计时器。
package logprocessor

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/hasura-metrics-adapter/pkg/logger"
	"github.com/hasura-metrics-adapter/pkg/sink"
)

const component = "logprocessor"

const (
	typeHTTPLog      = "http-log"
	typeWebsocketLog = "websocket-log"
)

var errMissingField = errors.New("missing required field")

// Processor 无状态，可被多个 goroutine 同时调用
type Processor struct {
	sink        sink.Sink
	parseErrors prometheus.Counter
}

// New parseErrors 可为 nil
func New(s sink.Sink, parseErrors prometheus.Counter) *Processor {
	return &Processor{sink: s, parseErrors: parseErrors}
}

// Process 处理一行日志，签名与 logtail.Handler 一致
func (p *Processor) Process(line []byte) {
	p.sink.Incr("log_lines_counter_total")

	var log baseLog
	if err := decodeBase(line, &log); err != nil {
		logger.Warn("failed to parse log line", component, zap.Error(err))
		if p.parseErrors != nil {
			p.parseErrors.Inc()
		}
		return
	}
	p.sink.Incr("log_lines_counter", sink.Tag("logtype", log.Type))

	switch log.Type {
	case typeHTTPLog:
		p.handleHTTP(&log)
	case typeWebsocketLog:
		p.handleWebsocket(&log)
	}
}

func decodeBase(line []byte, log *baseLog) error {
	if err := json.Unmarshal(line, log); err != nil {
		return err
	}
	if log.Type == "" || len(log.Detail) == 0 {
		return fmt.Errorf("%w: type/detail", errMissingField)
	}
	return nil
}

func (p *Processor) handleHTTP(log *baseLog) {
	var d httpLogDetail
	if err := json.Unmarshal(log.Detail, &d); err != nil || d.HTTPInfo == nil {
		if err == nil {
			err = fmt.Errorf("%w: http_info", errMissingField)
		}
		logger.Warn("invalid http log detail", component, zap.Error(err))
		return
	}

	p.sink.Incr("request_counter",
		sink.Tag("url", d.HTTPInfo.URL),
		sink.Tag("status", strconv.Itoa(d.HTTPInfo.Status)),
		sink.Tag("logtype", log.Type))

	q := d.Operation.Query
	if q == nil {
		return
	}
	errCode := ""
	if d.Operation.Error != nil {
		errCode = d.Operation.Error.Code
	}
	tags := []string{sink.Tag("operation", deref(q.OperationName)), sink.Tag("error", errCode)}
	p.sink.Incr("request_query_counter", tags...)
	if t := d.Operation.QueryExecutionTime; t != nil {
		p.sink.Timer("query_execution_seconds", *t, tags...)
	}
}

func (p *Processor) handleWebsocket(log *baseLog) {
	var d websocketLogDetail
	if err := json.Unmarshal(log.Detail, &d); err != nil || d.Event == nil {
		if err == nil {
			err = fmt.Errorf("%w: event", errMissingField)
		}
		logger.Warn("invalid websocket log detail", component, zap.Error(err))
		return
	}

	switch d.Event.Type {
	case "accepted":
		p.sink.Incr("websockets_active")
	case "closed":
		p.sink.Decr("websockets_active")
	case "operation":
		ev := d.Event.Detail
		if ev == nil || ev.OperationType == nil {
			return
		}
		opname := sink.Tag("opname", deref(ev.OperationName))
		switch ev.OperationType.Type {
		case "started":
			p.sink.Incr("active_websocket_operations")
		case "stopped":
			p.sink.Incr("websockets_operations", opname)
			p.sink.Decr("active_websocket_operations")
		case "query_err":
			code := ""
			if ev.OperationType.Detail != nil {
				code = ev.OperationType.Detail.Code
			}
			p.sink.Incr("websockets_operations", opname, sink.Tag("error", code))
		}
	}
}
