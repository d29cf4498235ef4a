package storage

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Akhildas-ts/vectorstore-mcp/internal/models"
)

// errRT fails every round trip without producing a response.
type errRT struct{}

func (errRT) RoundTrip(*http.Request) (*http.Response, error) {
	return nil, errors.New("connection refused")
}

func newTestClient(t *testing.T, h http.HandlerFunc, opts ...Option) *OpenAIClient {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	opts = append([]Option{WithBaseURL(srv.URL), WithHTTPClient(srv.Client())}, opts...)
	return NewOpenAIClient("sk-test", "", opts...)
}

func TestDo_Headers(t *testing.T) {
	t.Parallel()

	type captured struct {
		header http.Header
		body   []byte
	}
	ch := make(chan captured, 1)
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		ch <- captured{header: r.Header.Clone(), body: body}
		w.Write([]byte(`{"id":"vs_1"}`))
	}, WithOrganization("org-1"))

	_, err := c.Do(context.Background(), BuildCreateVectorStore(models.CreateVectorStoreRequest{Name: ptr("docs")}))
	require.NoError(t, err)

	in := <-ch
	got, gotBody := in.header, in.body

	assert.Equal(t, "Bearer sk-test", got.Get("Authorization"))
	assert.Equal(t, "application/json", got.Get("Content-Type"))
	assert.Equal(t, "assistants=v2", got.Get("OpenAI-Beta"))
	assert.Equal(t, "org-1", got.Get("OpenAI-Organization"))
	assert.JSONEq(t, `{"name":"docs"}`, string(gotBody))
}

func TestDo_NoBodyForGet(t *testing.T) {
	t.Parallel()

	ch := make(chan *http.Request, 1)
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		ch <- r.Clone(context.Background())
		w.Write([]byte(`{"data":[],"has_more":false}`))
	})

	_, err := c.Do(context.Background(), BuildListVectorStores(models.ListParams{Limit: ptr(2)}))
	require.NoError(t, err)

	r := <-ch
	assert.Equal(t, int64(0), r.ContentLength)
	assert.Equal(t, "limit=2", r.URL.RawQuery)
}

func TestDo_ReturnsBodyVerbatim(t *testing.T) {
	t.Parallel()

	body := `{"id":"vs_1","name":"T1","status":"completed","extra":{"nested":[1,2,3]}}`
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	})

	raw, err := c.Do(context.Background(), BuildGetVectorStore("vs_1"))
	require.NoError(t, err)
	assert.Equal(t, body, string(raw))
}

func TestDo_EmptySuccessBody(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	raw, err := c.Do(context.Background(), BuildCancelUpload("upload_1"))
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(raw))
}

func TestDo_StatusMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		status  int
		body    string
		kind    Kind
		message string
	}{
		{"unauthorized", 401, `{"error":{"message":"Incorrect API key provided","type":"invalid_request_error"}}`, KindUnauthorized, "Incorrect API key provided"},
		{"forbidden", 403, `{"error":{"message":"no access","type":"permission_error"}}`, KindForbidden, "no access"},
		{"not found", 404, `{"error":{"message":"No vector store found with id 'vs_X'.","type":"invalid_request_error"}}`, KindNotFound, "No vector store found with id 'vs_X'."},
		{"rate limited", 429, `{"error":{"message":"slow down"}}`, KindRateLimited, "slow down"},
		{"bad request", 400, `{"error":{"message":"bad limit"}}`, KindInternal, "bad limit"},
		{"conflict", 409, `{"error":{"message":"busy"}}`, KindInternal, "busy"},
		{"server error", 500, `{"error":{"message":"boom"}}`, KindInternal, "boom"},
		{"bad gateway no body", 502, ``, KindInternal, "API error: 502 Bad Gateway"},
		{"html body", 503, `<html>down</html>`, KindInternal, "API error: 503 Service Unavailable"},
		{"json without message", 404, `{"detail":"nope"}`, KindNotFound, "API error: 404 Not Found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			_, err := c.Do(context.Background(), BuildGetVectorStore("vs_X"))
			require.Error(t, err)

			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.kind, apiErr.Kind)
			assert.Equal(t, tt.status, apiErr.Status)
			assert.Equal(t, tt.message, apiErr.Message)
			assert.True(t, json.Valid(apiErr.Details))
			if json.Valid([]byte(tt.body)) && tt.body != "" {
				assert.JSONEq(t, tt.body, string(apiErr.Details))
			} else {
				assert.JSONEq(t, `{}`, string(apiErr.Details))
			}
		})
	}
}

func TestKindForStatus_Total(t *testing.T) {
	explicit := map[int]Kind{401: KindUnauthorized, 403: KindForbidden, 404: KindNotFound, 429: KindRateLimited}
	for status := 100; status < 600; status++ {
		want, ok := explicit[status]
		if !ok {
			want = KindInternal
		}
		assert.Equal(t, want, KindForStatus(status), "status %d", status)
	}
}

func TestKind_Code(t *testing.T) {
	assert.Equal(t, -32001, KindUnauthorized.Code())
	assert.Equal(t, -32003, KindForbidden.Code())
	assert.Equal(t, -32004, KindNotFound.Code())
	assert.Equal(t, -32029, KindRateLimited.Code())
	assert.Equal(t, -32603, KindInternal.Code())
}

func TestDo_NetworkError(t *testing.T) {
	t.Parallel()

	c := NewOpenAIClient("sk-test", "", WithBaseURL("http://upstream.invalid/v1"), WithHTTPClient(&http.Client{Transport: errRT{}}))

	_, err := c.Do(context.Background(), BuildGetVectorStore("vs_1"))
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, KindInternal, apiErr.Kind)
	assert.Equal(t, 0, apiErr.Status)
	assert.Contains(t, apiErr.Message, "Network error: ")
	assert.Contains(t, apiErr.Message, "connection refused")
	require.NotNil(t, apiErr.Cause)
	assert.Contains(t, apiErr.Cause.Error(), "connection refused")
	assert.Contains(t, string(apiErr.Details), "connection refused")
}

func TestDo_MalformedSuccessBody(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":`))
	})

	_, err := c.Do(context.Background(), BuildGetVectorStore("vs_1"))
	require.Error(t, err)
	assert.True(t, IsKind(err, KindInternal))
	assert.Contains(t, err.Error(), "Network error: decode response body")
}

func TestDo_ExactlyOneRequest(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := c.Do(context.Background(), BuildGetVectorStore("vs_1"))
	require.Error(t, err)
	assert.Equal(t, int32(1), hits.Load(), "failed calls are never retried")
}

func TestDo_CancelledContext(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.Do(ctx, BuildGetVectorStore("vs_1"))
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, int32(0), hits.Load())
}

func TestClient_NoClientSideTimeoutEnforced(t *testing.T) {
	c := NewOpenAIClient("sk-test", "")
	assert.Zero(t, c.HTTPClient().Timeout, "no client-side timeout enforced")
}

func TestCall_Decodes(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"vs_1","name":"T1","status":"completed","expires_after":{"anchor":"last_active_at","days":1}}`))
	})

	res, err := Call[openai.VectorStore](context.Background(), c, BuildGetVectorStore("vs_1"))
	require.NoError(t, err)
	assert.Equal(t, "vs_1", res.Value.ID)
	require.NotNil(t, res.Value.ExpiresAfter)
	assert.Equal(t, "last_active_at", res.Value.ExpiresAfter.Anchor)
	assert.Contains(t, string(res.Raw), `"name":"T1"`)
}

func TestDoRaw_Content(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("hello world"))
	})

	body, ct, err := c.DoRaw(context.Background(), BuildGetFileContent("file-1"))
	require.NoError(t, err)
	assert.Equal(t, "hello world", string(body))
	assert.Equal(t, "text/plain", ct)
}

func TestProbe(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		status int
		body   string
		want   bool
	}{
		{"accepted", 200, `{"object":"list","data":[{"id":"gpt-4o","object":"model"}]}`, true},
		{"bad key", 401, `{"error":{"message":"Incorrect API key provided"}}`, false},
		{"server error", 500, `oops`, false},
		{"rate limited", 429, `{"error":{"message":"slow down"}}`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			reqs := make(chan *http.Request, 4)
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				reqs <- r.Clone(context.Background())
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			assert.Equal(t, tt.want, c.Probe(context.Background()))
			require.Len(t, reqs, 1)
			r := <-reqs
			assert.Equal(t, "/models", r.URL.Path)
			assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		})
	}
}

func TestProbe_NetworkFailure(t *testing.T) {
	c := NewOpenAIClient("sk-test", "", WithBaseURL("http://upstream.invalid/v1"), WithHTTPClient(&http.Client{Transport: errRT{}}))
	assert.False(t, c.Probe(context.Background()))
}

func TestClients_IndependentCredentials(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	seen := map[string]int{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		seen[r.Header.Get("Authorization")]++
		mu.Unlock()
		w.Write([]byte(`{}`))
	}))
	t.Cleanup(srv.Close)

	a := NewOpenAIClient("sk-a", "", WithBaseURL(srv.URL))
	b := NewOpenAIClient("sk-b", "", WithBaseURL(srv.URL))

	_, err := a.Do(context.Background(), BuildGetVectorStore("vs_1"))
	require.NoError(t, err)
	_, err = b.Do(context.Background(), BuildGetVectorStore("vs_1"))
	require.NoError(t, err)

	assert.Equal(t, map[string]int{"Bearer sk-a": 1, "Bearer sk-b": 1}, seen)
}

func TestMetrics_CountByKind(t *testing.T) {
	reg := prometheus.NewRegistry()
	statuses := []int{200, 404, 404}
	var i atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(statuses[i.Add(1)-1])
		w.Write([]byte(`{}`))
	}, WithMetrics(NewMetrics(reg)))

	for range statuses {
		_, _ = c.Do(context.Background(), BuildGetVectorStore("vs_1"))
	}

	assert.Equal(t, map[string]float64{"OK": 1, "NOT_FOUND": 2}, countsByKind(t, reg))
}

func TestMetrics_MalformedSuccessBodyIsInternal(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":`))
	}, WithMetrics(NewMetrics(reg)))

	_, err := c.Do(context.Background(), BuildGetVectorStore("vs_1"))
	require.Error(t, err)
	assert.Equal(t, KindInternal, KindOf(err))

	assert.Equal(t, map[string]float64{"INTERNAL": 1}, countsByKind(t, reg))
}

func TestMetrics_DoRawCountsOnce(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte{0x00, 0x01})
	}, WithMetrics(NewMetrics(reg)))

	_, _, err := c.DoRaw(context.Background(), BuildGetFileContent("file-1"))
	require.NoError(t, err)

	assert.Equal(t, map[string]float64{"OK": 1}, countsByKind(t, reg))
}

func countsByKind(t *testing.T, reg *prometheus.Registry) map[string]float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)

	counts := map[string]float64{}
	for _, mf := range families {
		if mf.GetName() != "vsmcp_upstream_requests_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			var kind string
			for _, lp := range m.GetLabel() {
				if lp.GetName() == "kind" {
					kind = lp.GetValue()
				}
			}
			counts[kind] += m.GetCounter().GetValue()
		}
	}
	return counts
}
