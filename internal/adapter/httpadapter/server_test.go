package httpadapter_test

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/neo-approach-service/internal/adapter/httpadapter"
	"github.com/couchcryptid/neo-approach-service/internal/database"
	"github.com/couchcryptid/neo-approach-service/internal/domain"
	"github.com/couchcryptid/neo-approach-service/internal/export"
	"github.com/couchcryptid/neo-approach-service/internal/observability"
)

type mockReadiness struct {
	err error
}

func (m *mockReadiness) CheckReadiness(_ context.Context) error { return m.err }

func testDatabase(t *testing.T) *database.Database {
	t.Helper()

	neos := []*domain.NearEarthObject{
		{Designation: "433", Name: "Eros", Diameter: 16.84},
		{Designation: "1865", Name: "Cerberus", Diameter: 1.2, Hazardous: true},
		{Designation: "2020 AB", Diameter: math.NaN()},
	}
	approaches := []*domain.CloseApproach{
		{Designation: "433", Time: domain.ParseApproachTime("2020-Mar-02 01:00"), Distance: 0.05, Velocity: 10.1},
		{Designation: "1865", Time: domain.ParseApproachTime("2020-Mar-02 13:30"), Distance: 0.2, Velocity: 25.3},
		{Designation: "433", Time: domain.ParseApproachTime("2020-Jun-01 09:15"), Distance: 0.35, Velocity: 15},
		{Designation: "2020 AB", Time: domain.ParseApproachTime("2021-Jan-15 22:45"), Distance: 0.5, Velocity: 40.2},
		{Designation: "1865", Time: domain.ParseApproachTime("2021-Feb-01 05:00"), Distance: 0.1, Velocity: 30},
	}

	db, err := database.New(neos, approaches)
	require.NoError(t, err)
	return db
}

func newTestServer(t *testing.T, readyErr error) *httpadapter.Server {
	t.Helper()
	return httpadapter.NewServer(":0", testDatabase(t), &mockReadiness{err: readyErr},
		16, observability.NewMetricsForTesting(), slog.Default())
}

func getApproaches(t *testing.T, srv *httpadapter.Server, query string) (int, []export.Record) {
	t.Helper()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/approaches"+query, nil)
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		return rec.Code, nil
	}
	var records []export.Record
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &records))
	return rec.Code, records
}

func TestApproaches_NoFilters(t *testing.T) {
	srv := newTestServer(t, nil)

	code, records := getApproaches(t, srv, "")
	assert.Equal(t, http.StatusOK, code)
	assert.Len(t, records, 5)
}

func TestApproaches_Filtered(t *testing.T) {
	srv := newTestServer(t, nil)

	t.Run("date", func(t *testing.T) {
		code, records := getApproaches(t, srv, "?date=2020-03-02")
		assert.Equal(t, http.StatusOK, code)
		require.Len(t, records, 2)
		for _, rec := range records {
			assert.Contains(t, rec.DatetimeUTC, "2020-03-02")
		}
	})

	t.Run("distance window", func(t *testing.T) {
		code, records := getApproaches(t, srv, "?min_distance=0.1&max_distance=0.4")
		assert.Equal(t, http.StatusOK, code)
		assert.Len(t, records, 3)
	})

	t.Run("hazardous only", func(t *testing.T) {
		code, records := getApproaches(t, srv, "?hazardous=true")
		assert.Equal(t, http.StatusOK, code)
		require.Len(t, records, 2)
		for _, rec := range records {
			assert.Equal(t, "1865", rec.NEO.Designation)
		}
	})

	t.Run("conjunction", func(t *testing.T) {
		code, records := getApproaches(t, srv, "?start_date=2021-01-01&min_velocity=35")
		assert.Equal(t, http.StatusOK, code)
		require.Len(t, records, 1)
		assert.Equal(t, "2020 AB", records[0].NEO.Designation)
	})

	t.Run("limit", func(t *testing.T) {
		code, records := getApproaches(t, srv, "?limit=2")
		assert.Equal(t, http.StatusOK, code)
		assert.Len(t, records, 2)
	})

	t.Run("unknown diameter excluded from diameter bounds", func(t *testing.T) {
		code, records := getApproaches(t, srv, "?max_diameter=100")
		assert.Equal(t, http.StatusOK, code)
		assert.Len(t, records, 4)
	})
}

func TestApproaches_EmptyResultIsEmptyArray(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/approaches?min_distance=0.4&max_distance=0.1", nil)
	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestApproaches_BadParams(t *testing.T) {
	srv := newTestServer(t, nil)

	cases := []struct {
		name  string
		query string
	}{
		{"malformed date", "?date=03/02/2020"},
		{"malformed bound", "?min_distance=close"},
		{"malformed hazardous", "?hazardous=maybe"},
		{"negative limit", "?limit=-1"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/approaches"+tc.query, nil)
			srv.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestApproaches_RepeatQueryServedConsistently(t *testing.T) {
	srv := newTestServer(t, nil)

	_, first := getApproaches(t, srv, "?hazardous=true&limit=1")
	_, second := getApproaches(t, srv, "?hazardous=true&limit=1")
	assert.Equal(t, first, second)
}

func TestHealthzReturns200(t *testing.T) {
	srv := newTestServer(t, nil)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
}

func TestReadyzReturns200WhenReady(t *testing.T) {
	srv := newTestServer(t, nil)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ready", body["status"])
}

func TestReadyzReturns503WhenNotReady(t *testing.T) {
	srv := newTestServer(t, fmt.Errorf("data set not loaded"))
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "not ready", body["status"])
	assert.Equal(t, "data set not loaded", body["error"])
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t, nil)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
