// Package sbdb downloads NEO and close-approach data sets from the JPL SSD
// API gateway.
package sbdb

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// neoFields are the small-body database columns the loader consumes, in the
// order they appear in the written CSV.
var neoFields = []string{"pdes", "name", "pha", "diameter"}

// Client fetches data sets from the JPL Solar System Dynamics API.
type Client struct {
	httpClient *http.Client
	sbdbURL    string
	cadURL     string
	logger     *slog.Logger
}

// NewClient creates an SSD API client.
func NewClient(timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		sbdbURL: "https://ssd-api.jpl.nasa.gov/sbdb_query.api",
		cadURL:  "https://ssd-api.jpl.nasa.gov/cad.api",
		logger:  logger,
	}
}

// DownloadNEOs queries the small-body database for all near-Earth objects and
// writes the result as CSV in the layout the loader expects.
func (c *Client) DownloadNEOs(ctx context.Context, w io.Writer) error {
	params := url.Values{
		"fields":   {"pdes,name,pha,diameter"},
		"sb-group": {"neo"},
	}

	var doc tableDocument
	if err := c.getJSON(ctx, c.sbdbURL+"?"+params.Encode(), &doc); err != nil {
		return fmt.Errorf("download neos: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(neoFields); err != nil {
		return fmt.Errorf("write neo header: %w", err)
	}
	for _, row := range doc.Data {
		record := make([]string, len(row))
		for i, cell := range row {
			record[i] = stringify(cell)
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write neo row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush neo csv: %w", err)
	}

	c.logger.Info("neo data set downloaded", "objects", len(doc.Data))
	return nil
}

// DownloadApproaches queries the close-approach API and writes the raw JSON
// response. dateMin and dateMax bound the approach dates (YYYY-MM-DD); either
// may be empty to use the API's default window.
func (c *Client) DownloadApproaches(ctx context.Context, w io.Writer, dateMin, dateMax string) error {
	params := url.Values{}
	if dateMin != "" {
		params.Set("date-min", dateMin)
	}
	if dateMax != "" {
		params.Set("date-max", dateMax)
	}

	u := c.cadURL
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	body, err := c.get(ctx, u)
	if err != nil {
		return fmt.Errorf("download close approaches: %w", err)
	}
	defer body.Close()

	n, err := io.Copy(w, body)
	if err != nil {
		return fmt.Errorf("write close approach data: %w", err)
	}

	c.logger.Info("close approach data set downloaded", "bytes", n)
	return nil
}

func (c *Client) getJSON(ctx context.Context, fullURL string, v any) error {
	body, err := c.get(ctx, fullURL)
	if err != nil {
		return err
	}
	defer body.Close()

	if err := json.NewDecoder(body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, fullURL string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ssd api request: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, fmt.Errorf("ssd api error: status %d: %s", resp.StatusCode, body)
	}
	return resp.Body, nil
}

// tableDocument is the SSD API's generic tabular response shape.
type tableDocument struct {
	Fields []string `json:"fields"`
	Data   [][]any  `json:"data"`
}

// stringify renders a JSON cell the way the CSV loader expects: numbers
// without exponent notation, null as the empty string.
func stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}
