package ui

import (
	"bytes"
	"html/template"
	"net/http"
	"strconv"

	"stilidash/adapters/chart"
	"stilidash/domain/core"
	"stilidash/domain/survey"
	"stilidash/internal/dashboard"
	"stilidash/internal/errors"
	"stilidash/internal/filterchain"
	"stilidash/internal/palette"

	"github.com/gin-gonic/gin"
)

// indexView is the data of the panel page
type indexView struct {
	Title     string
	Snapshot  *dashboard.Snapshot
	Effective filterchain.Selection
	Metrics   []string
	Themes    []palette.Theme
	Headings  headings
	Query     template.URL
}

// requestFromQuery reads the five selections, the metric and the theme from the query
func (s *Server) requestFromQuery(c *gin.Context) dashboard.Request {
	sel := make(filterchain.Selection)
	for _, f := range s.panel.Chain().Fields() {
		if v := c.Query(f.Name); v != "" {
			sel[f.Name] = survey.Value(v)
		}
	}
	return dashboard.Request{
		Selections: sel,
		Metric:     c.Query("metric"),
		Theme:      c.Query("theme"),
	}
}

func (s *Server) handleIndex(c *gin.Context) {
	snap, err := s.panel.Compute(s.requestFromQuery(c))
	if err != nil {
		s.writeError(c, err)
		return
	}

	view := indexView{
		Title:     s.title,
		Snapshot:  snap,
		Effective: snap.Resolution.Effective(),
		Metrics:   s.panel.Metrics(),
		Themes:    s.panel.Themes(),
		Headings:  panelHeadings(snap),
		Query:     template.URL(exportQuery(c)),
	}

	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, "index.html", view); err != nil {
		s.logger.Error("template error for index.html: %v", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "template rendering failed"})
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

// exportQuery is the page query without a format parameter
func exportQuery(c *gin.Context) string {
	q := c.Request.URL.Query()
	q.Del("format")
	return q.Encode()
}

func (s *Server) handlePanel(c *gin.Context) {
	snap, err := s.panel.Compute(s.requestFromQuery(c))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (s *Server) handleOptions(c *gin.Context) {
	req := s.requestFromQuery(c)
	domain, err := s.panel.Options(c.Param("field"), req.Selections)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, domain)
}

func (s *Server) handleMetrics(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"metrics": s.panel.Metrics(),
		"default": s.panel.DefaultMetric(),
	})
}

func (s *Server) handleThemes(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"themes":  s.panel.Themes(),
		"default": s.panel.DefaultTheme(),
	})
}

// handleDataset returns the loaded rows. limit caps the number of rows returned.
func (s *Server) handleDataset(c *gin.Context) {
	table := s.panel.Table()
	fields := table.Fields()

	n := table.Len()
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			s.writeError(c, errors.InvalidInput("limit must be a non-negative integer"))
			return
		}
		if limit < n {
			n = limit
		}
	}

	rows := make([][]string, n)
	for r := 0; r < n; r++ {
		row := make([]string, len(fields))
		for i, f := range fields {
			if v, ok := table.Value(r, f); ok {
				row[i] = v.String()
			}
		}
		rows[r] = row
	}

	c.JSON(http.StatusOK, gin.H{
		"title":  s.title,
		"fields": fields,
		"total":  table.Len(),
		"rows":   rows,
	})
}

// handleChart renders the bar or donut chart of the current view as svg or png
func (s *Server) handleChart(c *gin.Context) {
	format, err := chart.ParseFormat(c.Query("format"))
	if err != nil {
		s.writeError(c, errors.WithCode(errors.CodeInvalidInput, err))
		return
	}
	kind := c.Param("kind")
	if kind != "bar" && kind != "donut" {
		s.writeError(c, errors.NotFound("chart "+kind))
		return
	}

	snap, err := s.panel.Compute(s.requestFromQuery(c))
	if err != nil {
		s.writeError(c, err)
		return
	}

	var buf bytes.Buffer
	if kind == "bar" {
		err = chart.RenderBar(&buf, snap.Bar, format)
	} else {
		err = chart.RenderDonut(&buf, snap.Donut, format)
	}
	if err == chart.ErrNothingToRender {
		s.writeError(c, errors.WithCode(errors.CodeNotFound, err))
		return
	}
	if err != nil {
		s.writeError(c, errors.Wrap(err, "failed to render chart"))
		return
	}
	c.Data(http.StatusOK, format.ContentType(), buf.Bytes())
}

// writeError maps an error to a status code and a JSON body
func (s *Server) writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.GetCode(err) == errors.CodeInvalidInput:
		status = http.StatusBadRequest
	case errors.GetCode(err) == errors.CodeNotFound, core.IsUnknownFieldError(err):
		status = http.StatusNotFound
	}

	if status == http.StatusInternalServerError {
		s.logger.Error("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}
