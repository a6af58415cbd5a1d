// Package ucirepo implements the extract stage: a client for the UCI Machine
// Learning Repository dataset API.
//
// Fetching a dataset is a two-step exchange. The repository's metadata
// endpoint (GET <base>/api/dataset?id=N) returns a JSON document whose
// data.data_url points at the published CSV for that dataset; the CSV's first
// row is the header and the remaining rows are the feature and target values
// exactly as published. No cleaning happens here.
package ucirepo

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"golang.org/x/text/encoding/charmap"

	"heartetl/internal/dataset"
	"heartetl/internal/datasource/httpds"
	"heartetl/internal/logging"
)

// DefaultBaseURL is the public UCI repository endpoint.
const DefaultBaseURL = "https://archive.ics.uci.edu"

// FetchError is the fatal extract failure: unreachable repository, unknown
// dataset id, or a malformed response. The orchestrator does not catch it.
type FetchError struct {
	DatasetID int
	Err       error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch dataset %d: %v", e.DatasetID, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// metadata mirrors the subset of the repository's JSON payload we consume.
type metadata struct {
	Status int `json:"status"`
	Data   struct {
		UCIID   int    `json:"uci_id"`
		Name    string `json:"name"`
		DataURL string `json:"data_url"`
	} `json:"data"`
}

// Client fetches datasets from a UCI-style repository service.
type Client struct {
	BaseURL string
	HTTP    *httpds.Client
	Log     logging.Logger
}

// NewClient returns a Client for the given base URL ("" means the public
// repository) using the provided HTTP client and logger.
func NewClient(baseURL string, hc *httpds.Client, log logging.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if hc == nil {
		hc = httpds.NewClient(httpds.Config{})
	}
	if log == nil {
		log = logging.Nop()
	}
	return &Client{BaseURL: strings.TrimRight(baseURL, "/"), HTTP: hc, Log: log}
}

// Fetch retrieves dataset id and returns it as a Table of raw string cells.
// All failures come back as *FetchError.
func (c *Client) Fetch(ctx context.Context, id int) (*dataset.Table, error) {
	meta, err := c.fetchMetadata(ctx, id)
	if err != nil {
		return nil, &FetchError{DatasetID: id, Err: err}
	}
	if meta.Data.DataURL == "" {
		return nil, &FetchError{DatasetID: id, Err: fmt.Errorf("metadata has no data_url")}
	}

	tbl, err := c.fetchCSV(ctx, meta.Data.DataURL)
	if err != nil {
		return nil, &FetchError{DatasetID: id, Err: err}
	}

	rows, cols := tbl.Shape()
	c.Log.Infof("extracted %q (id=%d): %d rows, %d columns", meta.Data.Name, id, rows, cols)
	return tbl, nil
}

func (c *Client) fetchMetadata(ctx context.Context, id int) (*metadata, error) {
	url := fmt.Sprintf("%s/api/dataset?id=%d", c.BaseURL, id)
	resp, err := c.HTTP.Get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("metadata: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("metadata: unexpected status %s", resp.Status)
	}

	var meta metadata
	if err := json.NewDecoder(resp.Body).Decode(&meta); err != nil {
		return nil, fmt.Errorf("metadata: decode: %w", err)
	}
	if meta.Status != 0 && meta.Status != http.StatusOK {
		return nil, fmt.Errorf("metadata: repository status %d for id %d", meta.Status, id)
	}
	return &meta, nil
}

func (c *Client) fetchCSV(ctx context.Context, url string) (*dataset.Table, error) {
	resp, err := c.HTTP.Get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("data: unexpected status %s", resp.Status)
	}

	return ParseCSV(decodeBody(resp))
}

// decodeBody returns a reader for the response body, transcoding Latin-1 when
// the Content-Type charset says so. Several of the repository's older files
// are served as ISO-8859-1.
func decodeBody(resp *http.Response) io.Reader {
	_, params, err := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if err != nil {
		return resp.Body
	}
	switch strings.ToLower(params["charset"]) {
	case "iso-8859-1", "latin1", "latin-1":
		return charmap.ISO8859_1.NewDecoder().Reader(resp.Body)
	}
	return resp.Body
}

// ParseCSV reads a headered CSV stream into a Table of string cells. Short
// records pad with the missing marker; long records are truncated to the
// header width.
func ParseCSV(r io.Reader) (*dataset.Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("data: read header: %w", err)
	}
	names := make([]string, len(header))
	for i, h := range header {
		names[i] = strings.TrimSpace(h)
	}

	values := make([][]any, len(names))
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("data: read row: %w", err)
		}
		for i := range names {
			if i < len(rec) {
				values[i] = append(values[i], strings.TrimSpace(rec[i]))
			} else {
				values[i] = append(values[i], nil)
			}
		}
	}

	cols := make([]dataset.Column, len(names))
	for i, n := range names {
		cols[i] = dataset.Column{Name: n, Values: values[i]}
	}
	tbl, err := dataset.New(cols...)
	if err != nil {
		return nil, fmt.Errorf("data: %w", err)
	}
	return tbl, nil
}
