package engine

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hasura-metrics-adapter/pkg/config"
)

func newTestClient(t *testing.T, h http.HandlerFunc, secret string) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(config.EngineConfig{Endpoint: srv.URL + "/", AdminSecret: secret})
}

func TestRunBatchSendsBulkRequest(t *testing.T) {
	var got map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v2/query", r.URL.Path)
		assert.Equal(t, "s3cret", r.Header.Get("x-hasura-admin-secret"))
		body, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(body, &got))
		_, _ = w.Write([]byte(`[{"result_type":"TuplesOk","result":[["count"],["3"]]},{"count":7}]`))
	}, "s3cret")

	res, err := c.RunBatch(context.Background(), []Query{
		ReadOnlySQL(DialectPostgres, "default", "SELECT 1"),
		ReadOnlySQL(DialectMSSQL, "sales", "SELECT 2"),
	})
	require.NoError(t, err)
	require.Len(t, res, 2)
	assert.JSONEq(t, `{"count":7}`, string(res[1]))

	assert.Equal(t, "bulk", got["type"])
	args := got["args"].([]any)
	require.Len(t, args, 2)
	first := args[0].(map[string]any)
	assert.Equal(t, "run_sql", first["type"])
	assert.Equal(t, map[string]any{
		"source": "default", "cascade": false, "read_only": true, "sql": "SELECT 1",
	}, first["args"])
	assert.Equal(t, "mssql_run_sql", args[1].(map[string]any)["type"])
}

func TestRunBatchEmptyDoesNotCallServer(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("unexpected request")
	}, "")
	res, err := c.RunBatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, res)
}

func TestRunBatchRejectsUnsupportedDialect(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("unexpected request")
	}, "")
	_, err := c.RunBatch(context.Background(), []Query{{Dialect: DialectUnsupported, Source: "bq"}})
	assert.ErrorIs(t, err, ErrUnsupportedDialect)
}

func TestRunBatchErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		kind    string
		asserts func(t *testing.T, err error)
	}{
		{
			name: "non-2xx", status: http.StatusBadRequest, body: `{"error":"bad"}`, kind: "status",
			asserts: func(t *testing.T, err error) {
				var se *StatusError
				require.ErrorAs(t, err, &se)
				assert.Equal(t, http.StatusBadRequest, se.Code)
				assert.Contains(t, se.Body, "bad")
			},
		},
		{name: "object instead of list", status: http.StatusOK, body: `{"count":1}`, kind: "decode"},
		{name: "null body", status: http.StatusOK, body: `null`, kind: "decode"},
		{name: "garbage", status: http.StatusOK, body: `not json`, kind: "decode"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}, "")
			_, err := c.RunBatch(context.Background(), []Query{ReadOnlySQL(DialectPostgres, "default", "SELECT 1")})
			require.Error(t, err)
			assert.Equal(t, tt.kind, Kind(err))
			if tt.asserts != nil {
				tt.asserts(t, err)
			}
		})
	}
}

func TestTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewClient(config.EngineConfig{Endpoint: url})
	_, err := c.Health(context.Background())
	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "transport", Kind(err))
	assert.NotNil(t, errors.Unwrap(err))
}

func TestHealth(t *testing.T) {
	var status atomic.Int32
	status.Store(http.StatusOK)
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/healthz", r.URL.Path)
		w.WriteHeader(int(status.Load()))
	}, "")

	ok, err := c.Health(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)

	status.Store(http.StatusInternalServerError)
	ok, err = c.Health(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVersion(t *testing.T) {
	var body atomic.Value
	body.Store(`{"version":"v2.36.0"}`)
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/version", r.URL.Path)
		_, _ = w.Write([]byte(body.Load().(string)))
	}, "")

	v, err := c.Version(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "v2.36.0", v)

	body.Store(`{"server_type":"ce"}`)
	_, err = c.Version(context.Background())
	assert.Equal(t, "decode", Kind(err))
}

func TestMetadataConsistency(t *testing.T) {
	var reqBody map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/metadata", r.URL.Path)
		assert.Equal(t, "admin", r.Header.Get("x-hasura-admin-secret"))
		raw, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(raw, &reqBody))
		_, _ = w.Write([]byte(`{"is_consistent":false,"inconsistent_objects":[]}`))
	}, "admin")

	ok, err := c.MetadataConsistency(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, "get_inconsistent_metadata", reqBody["type"])
}

func TestExportMetadataSources(t *testing.T) {
	var reqBody map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(raw, &reqBody))
		_, _ = w.Write([]byte(`{"resource_version":4,"metadata":{"version":3,"sources":[
			{"name":"default","kind":"postgres","tables":[]},
			{"name":"sales","kind":"mssql"},
			{"name":"bq","kind":"bigquery"},
			{"kind":"postgres"}
		]}}`))
	}, "admin")

	md, err := c.ExportMetadata(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "export_metadata", reqBody["type"])
	assert.EqualValues(t, 2, reqBody["version"])
	assert.Equal(t, 4, md.ResourceVersion)

	sources, err := md.Sources()
	require.NoError(t, err)
	require.Len(t, sources, 3)
	assert.Equal(t, DialectPostgres, sources[0].Dialect())
	assert.Equal(t, DialectMSSQL, sources[1].Dialect())
	assert.Equal(t, DialectUnsupported, sources[2].Dialect())
}

func TestMetadataSourcesMissing(t *testing.T) {
	var nilMD *Metadata
	_, err := nilMD.Sources()
	assert.ErrorIs(t, err, ErrNoSources)

	md := &Metadata{}
	_, err = md.Sources()
	assert.ErrorIs(t, err, ErrNoSources)

	md.Metadata.Sources = json.RawMessage(`{"default":{}}`)
	_, err = md.Sources()
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoSources)
}

func TestDialectRequestType(t *testing.T) {
	assert.Equal(t, "run_sql", DialectForKind("postgres").RequestType())
	assert.Equal(t, "mssql_run_sql", DialectForKind("MSSQL").RequestType())
	assert.Empty(t, DialectForKind("citus").RequestType())
	assert.False(t, DialectForKind("").Supported())
}
