package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fortuna/athena/internal/ingest/torvik"
)

type stubRefresher struct {
	status map[string]interface{}
}

func (s *stubRefresher) RefreshNow(ctx context.Context, year int) (torvik.IngestSummary, error) {
	return torvik.IngestSummary{Year: year}, nil
}

func (s *stubRefresher) GetStatus() map[string]interface{} {
	return s.status
}

func TestSchedulerStatusEndpoint(t *testing.T) {
	handler := NewRefreshHandler(&stubRefresher{
		status: map[string]interface{}{
			"daily_refresh_enabled": true,
			"daily_refresh_hour":    5,
		},
	}, nil)

	rec := httptest.NewRecorder()
	handler.HandleSchedulerStatus(rec, httptest.NewRequest("GET", "/api/v1/scheduler/status", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, true, body["daily_refresh_enabled"])
	assert.Equal(t, float64(5), body["daily_refresh_hour"])
}

func TestSchedulerStatusUnavailableWithoutRefresher(t *testing.T) {
	handler := NewRefreshHandler(nil, nil)

	rec := httptest.NewRecorder()
	handler.HandleSchedulerStatus(rec, httptest.NewRequest("GET", "/api/v1/scheduler/status", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRefreshUnavailableWithoutRefresher(t *testing.T) {
	handler := NewRefreshHandler(nil, nil)

	rec := httptest.NewRecorder()
	handler.HandleRefresh(rec, httptest.NewRequest("POST", "/api/v1/refresh", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
