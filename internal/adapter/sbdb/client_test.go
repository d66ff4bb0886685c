package sbdb

import (
	"bytes"
	"context"
	"encoding/csv"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testClient(sbdbURL, cadURL string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 5 * time.Second},
		sbdbURL:    sbdbURL,
		cadURL:     cadURL,
		logger:     discardLogger(),
	}
}

func TestDownloadNEOs_WritesCSV(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "pdes,name,pha,diameter", r.URL.Query().Get("fields"))
		assert.Equal(t, "neo", r.URL.Query().Get("sb-group"))

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{
			"fields": ["pdes", "name", "pha", "diameter"],
			"data": [
				["433", "Eros", "N", 16.84],
				["2020 AB", null, "N", null]
			]
		}`)
	}))
	defer srv.Close()

	c := testClient(srv.URL, "")
	var buf bytes.Buffer
	require.NoError(t, c.DownloadNEOs(context.Background(), &buf))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, []string{"pdes", "name", "pha", "diameter"}, rows[0])
	assert.Equal(t, []string{"433", "Eros", "N", "16.84"}, rows[1])
	assert.Equal(t, []string{"2020 AB", "", "N", ""}, rows[2], "null cells become empty strings")
}

func TestDownloadNEOs_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := testClient(srv.URL, "")
	err := c.DownloadNEOs(context.Background(), io.Discard)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 503")
}

func TestDownloadApproaches_CopiesBodyAndBoundsDates(t *testing.T) {
	const payload = `{"fields":["des","cd","dist","v_rel"],"data":[]}`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2020-01-01", r.URL.Query().Get("date-min"))
		assert.Equal(t, "2021-01-01", r.URL.Query().Get("date-max"))
		io.WriteString(w, payload)
	}))
	defer srv.Close()

	c := testClient("", srv.URL)
	var buf bytes.Buffer
	require.NoError(t, c.DownloadApproaches(context.Background(), &buf, "2020-01-01", "2021-01-01"))
	assert.JSONEq(t, payload, buf.String())
}

func TestDownloadApproaches_OmitsEmptyDateParams(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.False(t, r.URL.Query().Has("date-min"))
		assert.False(t, r.URL.Query().Has("date-max"))
		io.WriteString(w, "{}")
	}))
	defer srv.Close()

	c := testClient("", srv.URL)
	require.NoError(t, c.DownloadApproaches(context.Background(), io.Discard, "", ""))
}

func TestDownloadApproaches_ContextCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	c := testClient("", srv.URL)
	err := c.DownloadApproaches(ctx, io.Discard, "", "")
	require.Error(t, err)
}
