// Package engine 访问 GraphQL 引擎的 HTTP 接口：批量只读 SQL、健康检查、版本与 metadata。
package engine

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/goccy/go-json"

	"github.com/hasura-metrics-adapter/pkg/config"
)

const (
	adminSecretHeader = "x-hasura-admin-secret"

	queryPath    = "/v2/query"
	metadataPath = "/v1/metadata"
	healthPath   = "/healthz"
	versionPath  = "/v1/version"

	// 错误信息中保留的响应体长度
	maxErrorBody = 512
)

// Client 引擎客户端，可在多个 goroutine 间共享
type Client struct {
	endpoint    string
	adminSecret string
	http        *http.Client
}

// Option 客户端选项
type Option func(*Client)

// WithHTTPClient 替换底层 http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// NewClient 根据配置创建客户端，engine.timeout 为 0 时不设超时
func NewClient(cfg config.EngineConfig, opts ...Option) *Client {
	c := &Client{
		endpoint:    strings.TrimRight(cfg.Endpoint, "/"),
		adminSecret: cfg.AdminSecret,
		http:        &http.Client{Timeout: cfg.Timeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Endpoint 引擎基础地址
func (c *Client) Endpoint() string { return c.endpoint }

// RunBatch 将多条子查询合并为一次 bulk 请求，返回与输入同序的原始结果
func (c *Client) RunBatch(ctx context.Context, queries []Query) ([]json.RawMessage, error) {
	const op = "run batch"
	if len(queries) == 0 {
		return nil, nil
	}
	for _, q := range queries {
		if !q.Dialect.Supported() {
			return nil, fmt.Errorf("%s: source %q: %w", op, q.Source, ErrUnsupportedDialect)
		}
	}

	resp, err := c.post(ctx, op, queryPath, newBulkRequest(queries))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if err := checkStatus(op, resp); err != nil {
		return nil, err
	}

	var results []json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, &DecodeError{Op: op, Err: err}
	}
	if results == nil {
		return nil, &DecodeError{Op: op, Err: errors.New("expected a list of results")}
	}
	return results, nil
}

// Health GET /healthz，200 视为健康。网络失败返回 TransportError
func (c *Client) Health(ctx context.Context) (bool, error) {
	resp, err := c.get(ctx, "health", healthPath)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode == http.StatusOK, nil
}

// Version GET /v1/version
func (c *Client) Version(ctx context.Context) (string, error) {
	const op = "version"
	resp, err := c.get(ctx, op, versionPath)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if err := checkStatus(op, resp); err != nil {
		return "", err
	}

	var body struct {
		Version *string `json:"version"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", &DecodeError{Op: op, Err: err}
	}
	if body.Version == nil {
		return "", &DecodeError{Op: op, Err: errors.New("missing version field")}
	}
	return *body.Version, nil
}

// MetadataConsistency get_inconsistent_metadata，返回 is_consistent
func (c *Client) MetadataConsistency(ctx context.Context) (bool, error) {
	const op = "metadata consistency"
	req := map[string]any{
		"type": "get_inconsistent_metadata",
		"args": map[string]any{},
	}
	resp, err := c.post(ctx, op, metadataPath, req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()
	if err := checkStatus(op, resp); err != nil {
		return false, err
	}

	var body struct {
		IsConsistent *bool `json:"is_consistent"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return false, &DecodeError{Op: op, Err: err}
	}
	if body.IsConsistent == nil {
		return false, &DecodeError{Op: op, Err: errors.New("missing is_consistent field")}
	}
	return *body.IsConsistent, nil
}

// ExportMetadata export_metadata (version 2)
func (c *Client) ExportMetadata(ctx context.Context) (*Metadata, error) {
	const op = "export metadata"
	req := map[string]any{
		"type":    "export_metadata",
		"version": 2,
		"args":    map[string]any{},
	}
	resp, err := c.post(ctx, op, metadataPath, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if err := checkStatus(op, resp); err != nil {
		return nil, err
	}

	md := &Metadata{}
	if err := json.NewDecoder(resp.Body).Decode(md); err != nil {
		return nil, &DecodeError{Op: op, Err: err}
	}
	return md, nil
}

func (c *Client) post(ctx context.Context, op, path string, body any) (*http.Response, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("%s: encode request: %w", op, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+path, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(op, req)
}

func (c *Client) get(ctx context.Context, op, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+path, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: build request: %w", op, err)
	}
	return c.do(op, req)
}

func (c *Client) do(op string, req *http.Request) (*http.Response, error) {
	if c.adminSecret != "" {
		req.Header.Set(adminSecretHeader, c.adminSecret)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}
	return resp, nil
}

func checkStatus(op string, resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return &StatusError{Op: op, Code: resp.StatusCode, Body: strings.TrimSpace(string(body))}
}
