package commands

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aouyang1/go-healthforecast/metrics"
	"github.com/aouyang1/go-healthforecast/scheduler"
)

func testRouter(t *testing.T) http.Handler {
	t.Helper()
	sched := scheduler.New(nil)
	require.Nil(t, sched.Add("ok", "@daily", func(ctx context.Context) error { return nil }))
	require.Nil(t, sched.Add("fail", "@daily", func(ctx context.Context) error { return errors.New("no input") }))

	reg := prometheus.NewRegistry()
	metrics.New(reg).ObserveForecast(map[string]int{"forecast": 1}, nil, nil, 5)
	return newRouter(sched, reg)
}

func TestRouter(t *testing.T) {
	testData := map[string]struct {
		method string
		path   string
		status int
		body   string
	}{
		"health":          {method: http.MethodGet, path: "/healthz", status: http.StatusOK, body: `"status": "ok"`},
		"metrics":         {method: http.MethodGet, path: "/metrics", status: http.StatusOK, body: "healthforecast_forecast_rows_total 5"},
		"job":             {method: http.MethodGet, path: "/jobs/ok", status: http.StatusOK, body: `"schedule": "@daily"`},
		"unknown job":     {method: http.MethodGet, path: "/jobs/missing", status: http.StatusNotFound},
		"run job":         {method: http.MethodPost, path: "/jobs/ok/run", status: http.StatusOK, body: `"job": "ok"`},
		"run failing job": {method: http.MethodPost, path: "/jobs/fail/run", status: http.StatusInternalServerError, body: `"error": "no input"`},
		"run unknown job": {method: http.MethodPost, path: "/jobs/missing/run", status: http.StatusNotFound},
		"wrong method":    {method: http.MethodGet, path: "/jobs/ok/run", status: http.StatusMethodNotAllowed},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			testRouter(t).ServeHTTP(rec, httptest.NewRequest(td.method, td.path, nil))
			assert.Equal(t, td.status, rec.Code)
			assert.Contains(t, rec.Body.String(), td.body)
		})
	}
}

func TestHealthzReportsLastRun(t *testing.T) {
	router := testRouter(t)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/jobs/ok/run", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Status string               `json:"status"`
		Jobs   map[string]jobStatus `json:"jobs"`
	}
	require.Nil(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Status)
	require.Contains(t, body.Jobs, "ok")
	require.NotNil(t, body.Jobs["ok"].Last)
	assert.True(t, body.Jobs["ok"].Last.Success())
	assert.Nil(t, body.Jobs["fail"].Last)
}
