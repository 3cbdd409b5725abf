package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandevgo/teammem/internal/core"
	"github.com/sandevgo/teammem/internal/metrics"
)

type fakeMemory struct {
	records []core.MemoryRecord
	listErr error

	recentType  *core.MemoryType
	recentLimit int
	searchLimit int
}

func (f *fakeMemory) Ask(_ context.Context, q string) string {
	return "answer: " + q
}

func (f *fakeMemory) Save(_ context.Context, in core.NewMemory) (core.MemoryRecord, error) {
	rec, err := core.NewRecord(in, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		return core.MemoryRecord{}, err
	}
	f.records = append(f.records, rec)
	return rec, nil
}

func (f *fakeMemory) Ingest(context.Context, core.InboundMessage) (core.MemoryRecord, error) {
	return core.MemoryRecord{}, errors.New("not used")
}

func (f *fakeMemory) Get(_ context.Context, id string) (core.MemoryRecord, error) {
	for _, r := range f.records {
		if r.ID == id {
			return r, nil
		}
	}
	return core.MemoryRecord{}, core.ErrNotFound
}

func (f *fakeMemory) Search(_ context.Context, query string, limit int) ([]core.MemoryRecord, error) {
	f.searchLimit = limit
	var out []core.MemoryRecord
	for _, r := range f.records {
		if r.MatchesAny(core.Keywords(query)) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeMemory) Recent(_ context.Context, typ *core.MemoryType, limit int) ([]core.MemoryRecord, error) {
	f.recentType, f.recentLimit = typ, limit
	return nil, f.listErr
}

func (f *fakeMemory) FormatRecent(context.Context, *core.MemoryType, int) (string, error) {
	return "", nil
}

func newTestServer(t *testing.T, mem *fakeMemory) (*httptest.Server, *metrics.Collector) {
	t.Helper()
	m := metrics.NewCollector()
	srv := httptest.NewServer(NewHandler(mem, m).Router(context.Background()))
	t.Cleanup(srv.Close)
	return srv, m
}

func do(t *testing.T, method, url, body string) (int, []byte) {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	rsp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer rsp.Body.Close()
	data, err := io.ReadAll(rsp.Body)
	require.NoError(t, err)
	return rsp.StatusCode, data
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t, &fakeMemory{})

	status, body := do(t, http.MethodGet, srv.URL+"/", "")
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"status":"ok","service":"teammem","version":"1.0.0"}`, string(body))
}

func TestCreateAndGetMemory(t *testing.T) {
	srv, _ := newTestServer(t, &fakeMemory{})

	status, body := do(t, http.MethodPost, srv.URL+"/memories", `{
		"type": "decision",
		"summary": "Adopt trunk-based development",
		"timestamp": "2024-03-01T12:00:00Z",
		"context": "channel: eng",
		"participants": ["@ann"]
	}`)
	require.Equal(t, http.StatusCreated, status, string(body))

	var created core.MemoryRecord
	require.NoError(t, json.Unmarshal(body, &created))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, core.TypeDecision, created.Type)

	status, body = do(t, http.MethodGet, srv.URL+"/memories/"+created.ID, "")
	require.Equal(t, http.StatusOK, status)
	var got core.MemoryRecord
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "Adopt trunk-based development", got.Summary)
}

func TestCreateMemory_Invalid(t *testing.T) {
	srv, _ := newTestServer(t, &fakeMemory{})

	tests := []struct {
		name string
		body string
	}{
		{"bad json", `{"type":`},
		{"bad type", `{"type":"gossip","summary":"x","timestamp":"2024-01-01"}`},
		{"bad timestamp", `{"type":"decision","summary":"x","timestamp":"soon"}`},
		{"empty summary", `{"type":"decision","summary":"  ","timestamp":"2024-01-01"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, _ := do(t, http.MethodPost, srv.URL+"/memories", tt.body)
			assert.Equal(t, http.StatusBadRequest, status)
		})
	}
}

func TestGetMemory_NotFound(t *testing.T) {
	srv, _ := newTestServer(t, &fakeMemory{})

	status, body := do(t, http.MethodGet, srv.URL+"/memories/missing", "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.JSONEq(t, `{"detail":"Memory not found"}`, string(body))
}

func TestRecentMemories(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantStatus int
		wantLimit  int
		wantType   core.MemoryType
	}{
		{"defaults", "", http.StatusOK, 5, ""},
		{"type and limit", "?type=blocker&limit=50", http.StatusOK, 50, core.TypeBlocker},
		{"limit too high", "?limit=51", http.StatusBadRequest, 0, ""},
		{"limit zero", "?limit=0", http.StatusBadRequest, 0, ""},
		{"bad type", "?type=gossip", http.StatusBadRequest, 0, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mem := &fakeMemory{}
			srv, _ := newTestServer(t, mem)

			status, body := do(t, http.MethodGet, srv.URL+"/memories/recent"+tt.query, "")
			require.Equal(t, tt.wantStatus, status, string(body))
			if status != http.StatusOK {
				return
			}
			assert.JSONEq(t, `[]`, string(body))
			assert.Equal(t, tt.wantLimit, mem.recentLimit)
			if tt.wantType == "" {
				assert.Nil(t, mem.recentType)
			} else {
				require.NotNil(t, mem.recentType)
				assert.Equal(t, tt.wantType, *mem.recentType)
			}
		})
	}
}

func TestRecentMemories_StoreError(t *testing.T) {
	srv, _ := newTestServer(t, &fakeMemory{listErr: errors.New("db gone")})

	status, _ := do(t, http.MethodGet, srv.URL+"/memories/recent", "")
	assert.Equal(t, http.StatusInternalServerError, status)
}

func TestQuery(t *testing.T) {
	mem := &fakeMemory{}
	_, err := mem.Save(context.Background(), core.NewMemory{Type: "blocker", Summary: "Redis cluster is down", Timestamp: "2024-01-01"})
	require.NoError(t, err)
	srv, _ := newTestServer(t, mem)

	status, body := do(t, http.MethodPost, srv.URL+"/query", `{"query":"redis"}`)
	require.Equal(t, http.StatusOK, status)

	var rsp queryResponse
	require.NoError(t, json.Unmarshal(body, &rsp))
	assert.Equal(t, "redis", rsp.Query)
	require.Len(t, rsp.Memories, 1)
	assert.Equal(t, defaultQueryLimit, mem.searchLimit)

	status, body = do(t, http.MethodPost, srv.URL+"/query", `{"query":"nothing","limit":3}`)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"query":"nothing","memories":[]}`, string(body))
	assert.Equal(t, 3, mem.searchLimit)

	status, _ = do(t, http.MethodPost, srv.URL+"/query", `{"query":""}`)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestAsk(t *testing.T) {
	srv, _ := newTestServer(t, &fakeMemory{})

	status, body := do(t, http.MethodPost, srv.URL+"/ask", `{"query":"what is our stack?"}`)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"query":"what is our stack?","answer":"answer: what is our stack?"}`, string(body))
}

func TestMetricsEndpoint(t *testing.T) {
	srv, _ := newTestServer(t, &fakeMemory{})

	_, _ = do(t, http.MethodGet, srv.URL+"/memories/abc", "")
	status, body := do(t, http.MethodGet, srv.URL+"/metrics", "")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(body), `teammem_http_requests_total{method="GET",route="/memories/{id}",status="404"} 1`)
}
