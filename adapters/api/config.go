package api

import (
	"time"
)

// DefaultTimeout bounds a single fetch
const DefaultTimeout = 30 * time.Second

// DefaultAPIDataSource returns a source for url with sensible defaults
func DefaultAPIDataSource(url string) *APIDataSource {
	return &APIDataSource{
		Name:       "survey",
		BaseURL:    url,
		AuthMethod: "none",
		Timeout:    DefaultTimeout,
	}
}

// WithToken sets bearer authentication on the source
func (s *APIDataSource) WithToken(token string) *APIDataSource {
	if token != "" {
		s.AuthMethod = "bearer"
		s.AuthToken = token
	}
	return s
}
