package mcp

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	reg := prometheus.NewRegistry()
	svc := NewService(newOrchestrator(t), WithServiceMetrics(MustNewMetrics(reg)))
	srv := httptest.NewServer(NewRouter(svc, RouterOptions{Gatherer: reg}))
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url string, body any, out any) int {
	t.Helper()
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, url, r)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestHTTPTaskRoutes(t *testing.T) {
	srv := newTestServer(t)

	var submitted Response
	code := doJSON(t, http.MethodPost, srv.URL+"/tasks", map[string]string{"paper_path": "parsing"}, &submitted)
	require.Equal(t, http.StatusAccepted, code)
	require.Equal(t, "review_1", submitted.TaskID)

	var errResp Response
	code = doJSON(t, http.MethodGet, srv.URL+"/tasks/review_1/trace", nil, &errResp)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "Task review_1 is not completed", errResp.Error)

	var executed Response
	code = doJSON(t, http.MethodPost, srv.URL+"/tasks/review_1/execute", nil, &executed)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, StatusCompleted, executed.Status)
	require.NotNil(t, executed.Review)

	var task Task
	code = doJSON(t, http.MethodGet, srv.URL+"/tasks/review_1", nil, &task)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, StatusCompleted, task.Status)
	assert.Equal(t, "parsing", task.PaperPath)

	var trace Trace
	code = doJSON(t, http.MethodGet, srv.URL+"/tasks/review_1/trace", nil, &trace)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 3, trace.Workflow.TotalSteps)
}

func TestHTTPNotFound(t *testing.T) {
	srv := newTestServer(t)

	var resp Response
	code := doJSON(t, http.MethodGet, srv.URL+"/tasks/review_7", nil, &resp)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Task review_7 not found", resp.Error)
}

func TestHTTPSubmitValidation(t *testing.T) {
	srv := newTestServer(t)

	var resp Response
	code := doJSON(t, http.MethodPost, srv.URL+"/tasks", map[string]string{}, &resp)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "missing required param: paper_path", resp.Error)
}

func TestHTTPEnvelope(t *testing.T) {
	srv := newTestServer(t)

	var resp Response
	code := doJSON(t, http.MethodPost, srv.URL+"/mcp", Request{
		Operation: OpSubmitPaper,
		Params:    map[string]any{"paper_path": "parsing"},
	}, &resp)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "review_1", resp.TaskID)

	code = doJSON(t, http.MethodPost, srv.URL+"/mcp", Request{Operation: "bogus"}, &resp)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Unknown operation: bogus", resp.Error)

	httpResp, err := http.Post(srv.URL+"/mcp", "application/json", strings.NewReader("{not json"))
	require.NoError(t, err)
	httpResp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, httpResp.StatusCode)
}

func TestHTTPHealthAndMetrics(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	doJSON(t, http.MethodPost, srv.URL+"/mcp", Request{Operation: "bogus"}, nil)

	resp, err = http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "reviewer_service_requests_total")
}
