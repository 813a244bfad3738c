package ui

import (
	"fmt"
	"html/template"

	"stilidash/adapters/chart"
	"stilidash/internal/dashboard"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// headings holds the rendered section titles of the panel page
type headings struct {
	Observations template.HTML
	Count        template.HTML
	Share        template.HTML
	Metric       template.HTML
}

func panelHeadings(snap *dashboard.Snapshot) headings {
	return headings{
		Observations: renderMarkdown("#### Observations"),
		Count:        renderMarkdown("### " + chart.FormatCount(snap.Observations)),
		Share:        renderMarkdown("#### % of Total Observations"),
		Metric:       renderMarkdown(fmt.Sprintf("#### %s", chart.Capitalize(snap.Metric))),
	}
}

// renderMarkdown converts a markdown snippet to HTML. Raw HTML in the input is dropped.
func renderMarkdown(md string) template.HTML {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	r := html.NewRenderer(html.RendererOptions{Flags: html.SkipHTML})
	return template.HTML(markdown.ToHTML([]byte(md), p, r))
}
