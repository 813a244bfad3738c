package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"stilidash/domain/core"
	"stilidash/domain/survey"
	"stilidash/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serveJSON(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if auth := r.Header.Get("Authorization"); auth != "" && auth != "Bearer secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestLoadTopLevelArray(t *testing.T) {
	srv := serveJSON(t, http.StatusOK, `[
		{"country": "IT", "regio": "Lazio", "eta": "25-34", "q4__4": 3, "stile": "A"},
		{"country": "FR", "regio": null, "eta": "65+", "q4__4": 5.5, "stile": "B", "extra": {"a": 1}},
		{"country": "ES", "stile": "NA"}
	]`)

	table, err := NewAPIReader(DefaultAPIDataSource(srv.URL)).Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, table.Len())
	assert.Equal(t, []string{"country", "regio", "eta", "q4__4", "stile", "extra"}, table.Fields())

	v, ok := table.Value(0, "q4__4")
	assert.True(t, ok)
	assert.Equal(t, survey.Value("3"), v)
	v, _ = table.Value(1, "q4__4")
	assert.Equal(t, survey.Value("5.5"), v)
	_, ok = table.Value(1, "regio")
	assert.False(t, ok)
	_, ok = table.Value(2, "stile")
	assert.False(t, ok, "NA is a missing token")
	v, _ = table.Value(1, "extra")
	assert.Equal(t, survey.Value(`{"a": 1}`), v)
}

func TestFetchDataWithPathAndToken(t *testing.T) {
	srv := serveJSON(t, http.StatusOK, `{"data": {"items": [{"country": "IT"}, {"country": "FR"}]}, "next": null}`)

	source := DefaultAPIDataSource(srv.URL).WithToken("secret")
	source.DataPath = "data.items"
	data, err := NewAPIReader(source).FetchData(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"country"}, data.Headers)
	assert.Equal(t, [][]string{{"IT"}, {"FR"}}, data.Records)
	assert.Equal(t, 2, data.Metadata.RecordsCount)
	assert.Equal(t, http.StatusOK, data.Metadata.StatusCode)
	assert.Equal(t, "bearer", source.AuthMethod)
}

func TestFetchDataErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		path   string
		want   string
	}{
		{"status", http.StatusInternalServerError, `oops`, "", "status 500"},
		{"invalid json", http.StatusOK, `{not json`, "", "not valid JSON"},
		{"missing path", http.StatusOK, `{"data": []}`, "items", "not found"},
		{"scalar", http.StatusOK, `{"data": 4}`, "data", "not an array or object"},
		{"non object record", http.StatusOK, `[1, 2]`, "", "record 0 is not an object"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := serveJSON(t, tt.status, tt.body)
			source := DefaultAPIDataSource(srv.URL)
			source.DataPath = tt.path
			_, err := NewAPIReader(source).FetchData(context.Background())
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestLoadErrors(t *testing.T) {
	srv := serveJSON(t, http.StatusOK, `[]`)
	_, err := NewAPIReader(DefaultAPIDataSource(srv.URL)).Load(context.Background())
	assert.ErrorIs(t, err, core.ErrEmptyTable)

	srv = serveJSON(t, http.StatusOK, `[]`)
	_, err = NewAPIReader(DefaultAPIDataSource(srv.URL).WithToken("wrong")).Load(context.Background())
	assert.Equal(t, errors.CodeDataSource, errors.GetCode(err))
}

func TestDefaults(t *testing.T) {
	source := DefaultAPIDataSource("http://localhost")
	assert.Equal(t, DefaultTimeout, source.Timeout)
	assert.Equal(t, "none", source.AuthMethod)
	assert.Equal(t, source, source.WithToken(""))
	assert.Equal(t, "none", source.AuthMethod)

	r := NewAPIReader(&APIDataSource{BaseURL: "http://localhost"})
	assert.Equal(t, DefaultTimeout, r.httpClient.Timeout)
	r = NewAPIReader(&APIDataSource{BaseURL: "http://localhost", Timeout: time.Second})
	assert.Equal(t, time.Second, r.httpClient.Timeout)
}
