package ui

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"stilidash/internal"
	"stilidash/internal/dashboard"
	"stilidash/internal/testkit"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := internal.NewLogger(internal.LogLevelError, &bytes.Buffer{})
	panel, err := dashboard.NewPanel(testkit.ItalyTable(t), dashboard.WithMetrics("stile"), dashboard.WithLogger(logger))
	require.NoError(t, err)

	s, err := NewServer(panel, Config{Title: "Stili alimentari"}, logger)
	require.NoError(t, err)
	return s
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestPanelEndpoint(t *testing.T) {
	s := newTestServer(t)

	w := get(t, s, "/api/panel?country=IT&theme=green")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()

	assert.Equal(t, int64(6), gjson.Get(body, "observations").Int())
	assert.Equal(t, int64(10), gjson.Get(body, "total").Int())
	assert.Equal(t, "60.0%", gjson.Get(body, "donut.centerText").String())
	assert.Equal(t, "green", gjson.Get(body, "theme.name").String())
	assert.Equal(t, "#379A8B", gjson.Get(body, "bar.color").String())
	assert.Equal(t, `["B","A","C"]`, gjson.Get(body, "series.#.category").Raw)
	assert.Equal(t, `[1,2,3]`, gjson.Get(body, "series.#.count").Raw)
	assert.Equal(t, int64(4), gjson.Get(body, "domains.1.values.#").Int())
	assert.NotEmpty(t, gjson.Get(body, "pass_id").String())
}

func TestPanelEndpointStaleSelection(t *testing.T) {
	s := newTestServer(t)

	w := get(t, s, "/api/panel?country=FR&regio=Lazio&theme=nope")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()

	assert.Equal(t, int64(2), gjson.Get(body, "observations").Int())
	assert.Equal(t, "stale", gjson.Get(body, "resolution.1.state").String())
	assert.Equal(t, "All", gjson.Get(body, "resolution.1.effective").String())
	assert.True(t, gjson.Get(body, "theme_fallback").Bool())
	assert.Equal(t, "blue", gjson.Get(body, "theme.name").String())
}

func TestPanelEndpointUnknownMetric(t *testing.T) {
	s := newTestServer(t)

	w := get(t, s, "/api/panel?metric=q9")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, gjson.Get(w.Body.String(), "error").String(), "q9")
}

func TestOptionsEndpoint(t *testing.T) {
	s := newTestServer(t)

	w := get(t, s, "/api/options/regio?country=IT")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `["All","Lazio","Puglia","Sicilia"]`, gjson.Get(w.Body.String(), "values").Raw)
	assert.False(t, gjson.Get(w.Body.String(), "gated").Bool())

	w = get(t, s, "/api/options/regio")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `["All"]`, gjson.Get(w.Body.String(), "values").Raw)
	assert.True(t, gjson.Get(w.Body.String(), "gated").Bool())

	w = get(t, s, "/api/options/stile")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMetricsAndThemes(t *testing.T) {
	s := newTestServer(t)

	w := get(t, s, "/api/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `["stile"]`, gjson.Get(w.Body.String(), "metrics").Raw)
	assert.Equal(t, "stile", gjson.Get(w.Body.String(), "default").String())

	w = get(t, s, "/api/themes")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(8), gjson.Get(w.Body.String(), "themes.#").Int())
	assert.Equal(t, "blue", gjson.Get(w.Body.String(), "default").String())
	assert.Equal(t, "#F2CF9A", gjson.Get(w.Body.String(), `themes.#(name=="gold").light`).String())
}

func TestDatasetEndpoint(t *testing.T) {
	s := newTestServer(t)

	w := get(t, s, "/api/dataset?limit=2")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Equal(t, "Stili alimentari", gjson.Get(body, "title").String())
	assert.Equal(t, int64(10), gjson.Get(body, "total").Int())
	assert.Equal(t, int64(2), gjson.Get(body, "rows.#").Int())
	assert.Equal(t, "Lazio", gjson.Get(body, "rows.0.1").String())

	w = get(t, s, "/api/dataset")
	assert.Equal(t, int64(10), gjson.Get(w.Body.String(), "rows.#").Int())
	assert.Equal(t, "", gjson.Get(w.Body.String(), "rows.8.5").String())

	w = get(t, s, "/api/dataset?limit=-1")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestIndexPage(t *testing.T) {
	s := newTestServer(t)

	w := get(t, s, "/?country=IT&regio=Puglia")
	require.Equal(t, http.StatusOK, w.Code)
	page := w.Body.String()

	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, page, "<title>Stili alimentari</title>")
	assert.Contains(t, page, "<h4>Observations</h4>")
	assert.Contains(t, page, "<h3>2</h3>")
	assert.Contains(t, page, "<h4>Stile</h4>")
	assert.Contains(t, page, "20.0%")
	assert.Contains(t, page, `<option value="Puglia" selected>`)
	assert.Contains(t, page, `href="/api/chart/bar?country=IT&amp;regio=Puglia&format=png"`)
	assert.Contains(t, page, "</html>")
}

func TestRouter(t *testing.T) {
	s := newTestServer(t)

	h := NewRouter(s, RouterConfig{})
	w := get(t, h, "/healthz")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Body.String())

	w = get(t, h, "/api/metrics")
	assert.Equal(t, http.StatusOK, w.Code)

	w = get(t, h, "/debug/pprof/")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = get(t, NewRouter(s, RouterConfig{Profiling: true}), "/debug/pprof/")
	assert.Equal(t, http.StatusOK, w.Code)

	w = get(t, h, "/static/css/panel.css")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRenderMarkdown(t *testing.T) {
	assert.Contains(t, string(renderMarkdown("### 1,234")), "<h3>1,234</h3>")
	assert.NotContains(t, string(renderMarkdown("#### <script>x</script>")), "<script>")
}

func TestChartEndpoint(t *testing.T) {
	s := newTestServer(t)

	w := get(t, s, "/api/chart/bar?country=IT")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/svg+xml", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), "<svg")

	w = get(t, s, "/api/chart/donut?country=IT&format=png")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("\x89PNG")))
}

func TestChartEndpointErrors(t *testing.T) {
	s := newTestServer(t)

	assert.Equal(t, http.StatusBadRequest, get(t, s, "/api/chart/bar?format=gif").Code)
	assert.Equal(t, http.StatusNotFound, get(t, s, "/api/chart/pie").Code)
	// no respondent in Madrid answered the metric
	assert.Equal(t, http.StatusNotFound, get(t, s, "/api/chart/bar?country=ES&regio=Madrid").Code)
}
