// Package api loads the survey table from a JSON endpoint.
package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"stilidash/domain/core"
	"stilidash/domain/survey"
	"stilidash/internal/errors"

	"github.com/tidwall/gjson"
)

// APIReader handles fetching survey records from a REST endpoint
type APIReader struct {
	config     *APIDataSource
	httpClient *http.Client
}

// NewAPIReader creates a new API reader for a data source
func NewAPIReader(config *APIDataSource) *APIReader {
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &APIReader{
		config: config,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// FetchData retrieves and flattens the records of the configured endpoint
func (r *APIReader) FetchData(ctx context.Context) (*APIData, error) {
	startTime := time.Now()

	req, err := r.buildRequest(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	headers, records, err := r.parseResponse(body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	return &APIData{
		Headers: headers,
		Records: records,
		Metadata: APIMetadata{
			URL:          r.config.BaseURL,
			StatusCode:   resp.StatusCode,
			ContentType:  resp.Header.Get("Content-Type"),
			ResponseTime: time.Since(startTime),
			RecordsCount: len(records),
			FetchedAt:    startTime,
		},
	}, nil
}

// Load fetches the endpoint and builds the survey table
func (r *APIReader) Load(ctx context.Context) (*survey.Table, error) {
	data, err := r.FetchData(ctx)
	if err != nil {
		return nil, errors.DataSourceError(r.config.BaseURL, err)
	}
	if len(data.Records) == 0 {
		return nil, errors.EmptyTable(core.ErrEmptyTable)
	}
	table, err := survey.NewTable(data.Headers, data.Records)
	if err != nil {
		return nil, errors.DataSourceError(r.config.BaseURL, err)
	}
	return table, nil
}

// buildRequest creates an HTTP request with authentication
func (r *APIReader) buildRequest(ctx context.Context) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.config.BaseURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	for k, v := range r.config.Headers {
		req.Header.Set(k, v)
	}

	switch r.config.AuthMethod {
	case "bearer":
		req.Header.Set("Authorization", "Bearer "+r.config.AuthToken)
	case "api_key":
		req.Header.Set("X-API-Key", r.config.AuthToken)
	}

	return req, nil
}

// parseResponse flattens the record array into headers and rows. Headers are the
// union of record keys in first-seen order; nested values keep their raw JSON.
func (r *APIReader) parseResponse(body []byte) ([]string, [][]string, error) {
	if !gjson.ValidBytes(body) {
		return nil, nil, fmt.Errorf("response is not valid JSON")
	}

	dataResult := gjson.ParseBytes(body)
	if r.config.DataPath != "" {
		dataResult = dataResult.Get(r.config.DataPath)
		if !dataResult.Exists() {
			return nil, nil, fmt.Errorf("data path '%s' not found in response", r.config.DataPath)
		}
	}

	var items []gjson.Result
	switch {
	case dataResult.IsArray():
		items = dataResult.Array()
	case dataResult.IsObject():
		items = []gjson.Result{dataResult}
	default:
		return nil, nil, fmt.Errorf("data path '%s' is not an array or object", r.config.DataPath)
	}

	var headers []string
	index := make(map[string]int)
	rows := make([]map[string]string, 0, len(items))

	for i, item := range items {
		if !item.IsObject() {
			return nil, nil, fmt.Errorf("record %d is not an object", i)
		}
		row := make(map[string]string)
		item.ForEach(func(key, value gjson.Result) bool {
			name := key.String()
			if _, seen := index[name]; !seen {
				index[name] = len(headers)
				headers = append(headers, name)
			}
			row[name] = cellText(value)
			return true
		})
		rows = append(rows, row)
	}

	records := make([][]string, len(rows))
	for i, row := range rows {
		record := make([]string, len(headers))
		for j, h := range headers {
			record[j] = row[h]
		}
		records[i] = record
	}
	return headers, records, nil
}

func cellText(v gjson.Result) string {
	switch v.Type {
	case gjson.Null:
		return ""
	case gjson.String:
		return v.Str
	case gjson.JSON:
		return v.Raw
	default:
		return v.String()
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
