package main

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lightgraph/lightgraph/internal/adapters/repository/memory"
	"github.com/lightgraph/lightgraph/internal/app/dto"
	"github.com/lightgraph/lightgraph/internal/app/mapping"
	"github.com/lightgraph/lightgraph/internal/core/graph"
	"github.com/lightgraph/lightgraph/internal/core/registry"
	"github.com/lightgraph/lightgraph/internal/core/types"
	"github.com/lightgraph/lightgraph/internal/nodes"
	"github.com/lightgraph/lightgraph/pkg/entities"
	"github.com/lightgraph/lightgraph/pkg/serialization"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	st := memory.DefaultScriptStore()
	t.Cleanup(func() { _ = st.Close() })
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ts := httptest.NewServer(newServer(st, serialization.DefaultSerializer(), logger).routes(5 * time.Second))
	t.Cleanup(ts.Close)
	return ts
}

// volumeEntity returns Audio.Volume scaled by nothing, straight to the exit
func volumeEntity(t *testing.T) entities.NodeScriptEntity {
	t.Helper()
	r := registry.New()
	require.NoError(t, nodes.RegisterBuiltins(r))
	s := graph.NewScript("volume", "", types.Numeric, nil)
	n, err := r.Create(s, nodes.KindDataModelValue)
	require.NoError(t, err)
	require.NoError(t, s.Edit(func() error { return n.SetStorage(`{"path":"Audio.Volume"}`) }))
	_, err = s.Connect(n.Outputs()[0], s.ExitNode().Inputs()[0])
	require.NoError(t, err)
	e, err := mapping.NewScriptMapper(r, nil).ToEntity(s)
	require.NoError(t, err)
	return e
}

func post(t *testing.T, url string, v any) *http.Response {
	t.Helper()
	body, err := json.Marshal(v)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func TestHealthAndMetrics(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "# TYPE lightgraph_ticks_total counter")

	resp, err = http.Get(ts.URL + "/debug/vars")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestScriptLifecycle(t *testing.T) {
	ts := newTestServer(t)

	resp := post(t, ts.URL+"/scripts?tag=audio", volumeEntity(t))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created scriptSummary
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	assert.Equal(t, "volume", created.Name)
	assert.Equal(t, []string{"audio"}, created.Tags)

	list, err := http.Get(ts.URL + "/scripts?tag=audio")
	require.NoError(t, err)
	defer list.Body.Close()
	var summaries []scriptSummary
	require.NoError(t, json.NewDecoder(list.Body).Decode(&summaries))
	require.Len(t, summaries, 1)
	assert.Equal(t, created.ID, summaries[0].ID)

	resp = post(t, ts.URL+"/scripts/"+created.ID.String()+"/evaluate", map[string]any{
		"context": map[string]any{"Audio": map[string]any{"Volume": 0.6}},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var result dto.EvaluateResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, dto.EvaluateStatusCompleted, result.Status)
	assert.Equal(t, 0.6, result.Value)

	req, err := http.NewRequest(http.MethodDelete, ts.URL+"/scripts/"+created.ID.String(), nil)
	require.NoError(t, err)
	del, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer del.Body.Close()
	assert.Equal(t, http.StatusNoContent, del.StatusCode)

	resp = post(t, ts.URL+"/scripts/"+created.ID.String()+"/evaluate", map[string]any{})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestScriptRequestErrors(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Post(ts.URL+"/scripts", "application/json", strings.NewReader("{"))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// no exit node
	resp = post(t, ts.URL+"/scripts", entities.NodeScriptEntity{Name: "empty"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	list, err := http.Get(ts.URL + "/scripts?limit=-1")
	require.NoError(t, err)
	defer list.Body.Close()
	assert.Equal(t, http.StatusBadRequest, list.StatusCode)

	resp = post(t, ts.URL+"/scripts/not-a-uuid/evaluate", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
