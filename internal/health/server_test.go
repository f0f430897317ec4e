package health

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vettr/ingest-cli/internal/model"
)

func TestEndpoints(t *testing.T) {
	stats := model.Stats{Total: 10, Completed: 4, Skipped: 2, Failed: 1, Pending: 3}
	s := NewServer("127.0.0.1:0", func() model.Stats { return stats })

	ts := httptest.NewServer(s.srv.Handler)
	t.Cleanup(ts.Close)

	t.Run("healthz", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/healthz")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]string
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "ok", body["status"])
	})

	t.Run("status", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/status")
		require.NoError(t, err)
		defer resp.Body.Close()

		var got model.Stats
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
		assert.Equal(t, stats, got)
	})

	t.Run("metrics", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/metrics")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}
