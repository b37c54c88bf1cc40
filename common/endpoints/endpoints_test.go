package endpoints_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hongyusu/random-spanning-tree-approximation/common/endpoints"
	"github.com/hongyusu/random-spanning-tree-approximation/common/stats"
)

func get(t *testing.T, url string) (int, string) {
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestEndpoints(t *testing.T) {
	stat := stats.DefaultStatsReceiver().Scope("sweep")
	stat.Counter("dispatch", stats.DispatchLaunchCounter).Inc(3)

	s := endpoints.NewTwitterServer("", stat)
	s.AddJSON("/sweep/queue.json", func() interface{} { return map[string]int{"size": 7} })
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	code, body := get(t, ts.URL+"/health")
	assert.Equal(t, 200, code)
	assert.Equal(t, "ok", body)

	code, body = get(t, ts.URL+"/admin/metrics.json")
	assert.Equal(t, 200, code)
	var metrics map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(body), &metrics))
	assert.Equal(t, float64(3), metrics["sweep/dispatch/launchCounter"])

	code, body = get(t, ts.URL+"/sweep/queue.json")
	assert.Equal(t, 200, code)
	assert.JSONEq(t, `{"size": 7}`, body)

	code, _ = get(t, ts.URL+"/nope")
	assert.Equal(t, 501, code)
}

func TestListen(t *testing.T) {
	s := endpoints.NewTwitterServer("localhost:0", stats.NilStatsReceiver())
	addr, err := s.Listen()
	require.NoError(t, err)
	defer s.Close()

	code, body := get(t, "http://"+addr.String()+"/health")
	assert.Equal(t, 200, code)
	assert.Equal(t, "ok", body)

	bad := endpoints.NewTwitterServer("localhost:-1", stats.NilStatsReceiver())
	_, err = bad.Listen()
	assert.Error(t, err)
}
