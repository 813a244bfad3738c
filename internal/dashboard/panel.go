// Package dashboard recomputes the panel state for one user interaction.
package dashboard

import (
	"fmt"
	"time"

	"stilidash/adapters/chart"
	"stilidash/domain/core"
	"stilidash/domain/survey"
	"stilidash/internal"
	"stilidash/internal/aggregate"
	"stilidash/internal/errors"
	"stilidash/internal/filterchain"
	"stilidash/internal/palette"
)

// Option configures a Panel
type Option func(*options)

type options struct {
	chain         *filterchain.Chain
	metrics       []string
	defaultMetric string
	defaultTheme  string
	logger        *internal.Logger
}

// WithChain replaces the default survey filter chain
func WithChain(c *filterchain.Chain) Option {
	return func(o *options) {
		o.chain = c
	}
}

// WithMetrics sets the metrics offered in the metric picklist, in display order
func WithMetrics(metrics ...string) Option {
	return func(o *options) {
		o.metrics = append([]string(nil), metrics...)
	}
}

// WithDefaultMetric sets the metric used when a request names none
func WithDefaultMetric(metric string) Option {
	return func(o *options) {
		o.defaultMetric = metric
	}
}

// WithDefaultTheme sets the theme used when a request names none or an unknown one
func WithDefaultTheme(theme string) Option {
	return func(o *options) {
		o.defaultTheme = theme
	}
}

// WithLogger sets the logger used for pass traces
func WithLogger(l *internal.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// Panel holds the loaded table and the presentation defaults. It is safe for
// concurrent use: Compute only reads shared state.
type Panel struct {
	table         *survey.Table
	chain         *filterchain.Chain
	metrics       []string
	defaultMetric string
	defaultTheme  string
	logger        *internal.Logger
}

// Request is one interaction: the five selections, the metric and the theme
type Request struct {
	Selections filterchain.Selection `json:"selections"`
	Metric     string                `json:"metric"`
	Theme      string                `json:"theme"`
}

// Snapshot is everything the UI needs to redraw after an interaction
type Snapshot struct {
	PassID        core.PassID            `json:"pass_id"`
	Domains       []filterchain.Domain   `json:"domains"`
	Resolution    filterchain.Resolution `json:"resolution"`
	Observations  int                    `json:"observations"`
	Total         int                    `json:"total"`
	Ratio         aggregate.Ratio        `json:"ratio"`
	Series        aggregate.Series       `json:"series"`
	Metric        string                 `json:"metric"`
	Theme         palette.Theme          `json:"theme"`
	ThemeFallback bool                   `json:"theme_fallback"`
	Bar           chart.BarChart         `json:"bar"`
	Donut         chart.DonutChart       `json:"donut"`
}

// NewPanel validates the table against the chain and metric list
func NewPanel(table *survey.Table, opts ...Option) (*Panel, error) {
	o := &options{
		metrics:      append([]string(nil), survey.DefaultMetrics...),
		defaultTheme: palette.DefaultTheme,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.chain == nil {
		o.chain = filterchain.Default()
	}
	if o.logger == nil {
		o.logger = internal.DefaultLogger
	}
	if len(o.metrics) == 0 {
		return nil, errors.ConfigInvalid("panel needs at least one metric")
	}
	if o.defaultMetric == "" {
		o.defaultMetric = o.metrics[0]
	}

	if table == nil || table.Len() == 0 {
		return nil, errors.EmptyTable(core.ErrEmptyTable)
	}
	if err := o.chain.Validate(table); err != nil {
		return nil, errors.WithCode(errors.CodeConfigInvalid, err)
	}
	if err := table.Require(o.metrics...); err != nil {
		return nil, errors.WithCode(errors.CodeConfigInvalid, err)
	}
	if !contains(o.metrics, o.defaultMetric) {
		return nil, errors.ConfigInvalid(fmt.Sprintf("default metric %q is not in the metric list", o.defaultMetric))
	}
	if !palette.Has(o.defaultTheme) {
		return nil, errors.ConfigInvalid(fmt.Sprintf("unknown default theme %q", o.defaultTheme))
	}

	return &Panel{
		table:         table,
		chain:         o.chain,
		metrics:       o.metrics,
		defaultMetric: o.defaultMetric,
		defaultTheme:  o.defaultTheme,
		logger:        o.logger,
	}, nil
}

// Compute runs the filter chain, the aggregation and the sample ratio for req
func (p *Panel) Compute(req Request) (*Snapshot, error) {
	start := time.Now()
	passID := core.NewPassID()

	metric := req.Metric
	if metric == "" {
		metric = p.defaultMetric
	}
	if !contains(p.metrics, metric) {
		return nil, errors.WithCode(errors.CodeInvalidInput, core.NewUnknownMetricError(metric))
	}

	theme, fallback := p.resolveTheme(req.Theme)

	view, res, domains := p.chain.Evaluate(p.table, req.Selections)
	if reset := res.Reset(); len(reset) > 0 {
		p.logger.Debug("pass %s: selections reset to All for %v", passID, reset)
	}

	ratio, err := aggregate.NewRatio(p.table.Len(), view.Len())
	if err != nil {
		return nil, errors.Wrap(err, "failed to compute sample ratio")
	}
	series := aggregate.GroupCount(view, metric)

	snap := &Snapshot{
		PassID:        passID,
		Domains:       domains,
		Resolution:    res,
		Observations:  view.Len(),
		Total:         p.table.Len(),
		Ratio:         ratio,
		Series:        series,
		Metric:        metric,
		Theme:         theme,
		ThemeFallback: fallback,
		Bar:           chart.BuildBar(metric, series, theme),
		Donut:         chart.BuildDonut(ratio, theme),
	}

	p.logger.Trace("pass %s: %d/%d rows, metric %s, %d categories in %v",
		passID, snap.Observations, snap.Total, metric, len(series), time.Since(start))
	return snap, nil
}

// Options returns the selectable values of one filter step given the other selections
func (p *Panel) Options(field string, sel filterchain.Selection) (filterchain.Domain, error) {
	domain, err := p.chain.DomainFor(p.table, sel, field)
	if err != nil {
		return filterchain.Domain{}, errors.WithCode(errors.CodeNotFound, err)
	}
	return domain, nil
}

func (p *Panel) resolveTheme(name string) (palette.Theme, bool) {
	if name == "" {
		t, _ := palette.Lookup(p.defaultTheme)
		return t, false
	}
	if t, ok := palette.Lookup(name); ok {
		return t, false
	}
	p.logger.Debug("unknown theme %q, using %s", name, p.defaultTheme)
	t, _ := palette.Lookup(p.defaultTheme)
	return t, true
}

// Metrics returns the metric picklist
func (p *Panel) Metrics() []string {
	return append([]string(nil), p.metrics...)
}

// DefaultMetric returns the metric used when a request names none
func (p *Panel) DefaultMetric() string {
	return p.defaultMetric
}

// DefaultTheme returns the theme used when a request names none
func (p *Panel) DefaultTheme() string {
	return p.defaultTheme
}

// Themes returns the theme picklist
func (p *Panel) Themes() []palette.Theme {
	return palette.All()
}

// Chain returns the filter chain the panel folds over
func (p *Panel) Chain() *filterchain.Chain {
	return p.chain
}

// Table returns the loaded table
func (p *Panel) Table() *survey.Table {
	return p.table
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
