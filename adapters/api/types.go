package api

import (
	"time"
)

// APIDataSource describes a JSON endpoint returning survey answers
type APIDataSource struct {
	Name    string            `json:"name"`
	BaseURL string            `json:"base_url"`
	Headers map[string]string `json:"headers,omitempty"`

	// Authentication
	AuthMethod string `json:"auth_method"` // "none", "bearer", "api_key"
	AuthToken  string `json:"auth_token,omitempty"`

	// DataPath is the gjson path of the record array (e.g. "data.items"); empty means
	// the body itself is the array
	DataPath string `json:"data_path"`

	Timeout time.Duration `json:"timeout"`
}

// APIData is one fetched response flattened to text records
type APIData struct {
	Headers  []string   `json:"headers"`
	Records  [][]string `json:"records"`
	Metadata APIMetadata
}

// APIMetadata describes the fetch
type APIMetadata struct {
	URL          string        `json:"url"`
	StatusCode   int           `json:"status_code"`
	ContentType  string        `json:"content_type"`
	ResponseTime time.Duration `json:"response_time"`
	RecordsCount int           `json:"records_count"`
	FetchedAt    time.Time     `json:"fetched_at"`
}
