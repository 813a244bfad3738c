// Package filterchain applies the ordered categorical filters of the panel.
//
// Steps run in declared order and every step derives its option domain from the view
// left by the steps before it, so an upstream change can make a stored selection stale.
// Stale selections degrade to All instead of failing.
package filterchain

import (
	"fmt"
	"sort"

	"stilidash/domain/core"
	"stilidash/domain/survey"
)

// Field declares one step of the chain
type Field struct {
	Name  string `json:"name"`
	Label string `json:"label"`
	// Sorted lists the domain in ascending order instead of first-appearance order
	Sorted bool `json:"sorted"`
	// GatedBy names an earlier field that must hold a concrete selection for this
	// step to be offered at all
	GatedBy string `json:"gated_by,omitempty"`
}

// Selection maps field names to the value picked by the user. Absent keys mean All.
type Selection map[string]survey.Value

// Get returns the selection for field, All when unset
func (s Selection) Get(field string) survey.Value {
	if v, ok := s[field]; ok && !v.IsAll() {
		return v
	}
	return survey.All
}

// Domain is the set of values selectable for one step
type Domain struct {
	Field  string         `json:"field"`
	Label  string         `json:"label"`
	Values []survey.Value `json:"values"`
	Gated  bool           `json:"gated"`
}

// Contains reports whether v can be selected
func (d Domain) Contains(v survey.Value) bool {
	for _, candidate := range d.Values {
		if candidate == v {
			return true
		}
	}
	return false
}

// Chain is an ordered list of filter steps
type Chain struct {
	fields []Field
	index  map[string]int
}

// New builds a chain from fields in application order
func New(fields ...Field) (*Chain, error) {
	if len(fields) == 0 {
		return nil, fmt.Errorf("filter chain needs at least one field")
	}

	c := &Chain{
		fields: make([]Field, len(fields)),
		index:  make(map[string]int, len(fields)),
	}
	for i, f := range fields {
		if f.Name == "" {
			return nil, fmt.Errorf("filter field %d has no name", i)
		}
		if _, dup := c.index[f.Name]; dup {
			return nil, fmt.Errorf("%w: %s", core.ErrDuplicateName, f.Name)
		}
		if f.GatedBy != "" {
			if _, earlier := c.index[f.GatedBy]; !earlier {
				return nil, fmt.Errorf("field %s is gated by %s, which is not an earlier step", f.Name, f.GatedBy)
			}
		}
		if f.Label == "" {
			f.Label = f.Name
		}
		c.fields[i] = f
		c.index[f.Name] = i
	}
	return c, nil
}

// Default returns the survey chain: country, region (gated by country), gender, age, auxiliary
func Default() *Chain {
	c, err := New(
		Field{Name: survey.FieldCountry, Label: "Select a country"},
		Field{Name: survey.FieldRegion, Label: "Select a region", GatedBy: survey.FieldCountry},
		Field{Name: survey.FieldGender, Label: "Select a gender"},
		Field{Name: survey.FieldAge, Label: "Select an age group", Sorted: true},
		Field{Name: survey.FieldAux, Label: "Select ..."},
	)
	if err != nil {
		panic(err)
	}
	return c
}

// Fields returns the step declarations in order
func (c *Chain) Fields() []Field {
	out := make([]Field, len(c.fields))
	copy(out, c.fields)
	return out
}

// Has reports whether field is a step of the chain
func (c *Chain) Has(field string) bool {
	_, ok := c.index[field]
	return ok
}

// Validate checks that every step reads a column the table has
func (c *Chain) Validate(table *survey.Table) error {
	for _, f := range c.fields {
		if err := table.Require(f.Name); err != nil {
			return err
		}
	}
	return nil
}

// Apply folds every step over the table and returns the filtered view
func (c *Chain) Apply(table *survey.Table, sel Selection) (survey.View, Resolution) {
	view, res, _ := c.fold(table, sel, len(c.fields))
	return view, res
}

// DomainFor returns the options of one step, derived from the view left by the
// strictly earlier steps
func (c *Chain) DomainFor(table *survey.Table, sel Selection, field string) (Domain, error) {
	i, ok := c.index[field]
	if !ok {
		return Domain{}, core.NewUnknownFieldError(field)
	}
	_, _, domains := c.fold(table, sel, i+1)
	return domains[i], nil
}

// Domains returns the options of every step for the given selection
func (c *Chain) Domains(table *survey.Table, sel Selection) []Domain {
	_, _, domains := c.fold(table, sel, len(c.fields))
	return domains
}

// Evaluate runs the whole chain once, returning the view, the per-step outcome and
// every domain
func (c *Chain) Evaluate(table *survey.Table, sel Selection) (survey.View, Resolution, []Domain) {
	return c.fold(table, sel, len(c.fields))
}

func (c *Chain) fold(table *survey.Table, sel Selection, steps int) (survey.View, Resolution, []Domain) {
	view := table.View()
	effective := make(Selection, steps)
	res := make(Resolution, 0, steps)
	domains := make([]Domain, 0, steps)

	for _, f := range c.fields[:steps] {
		requested := sel.Get(f.Name)
		step := StepResult{
			Field:     f.Name,
			Requested: requested,
			Effective: survey.All,
			Before:    view.Len(),
		}

		if f.GatedBy != "" && effective.Get(f.GatedBy).IsAll() {
			domains = append(domains, Domain{Field: f.Name, Label: f.Label, Values: []survey.Value{survey.All}, Gated: true})
			step.State = StateGated
			step.After = view.Len()
			res = append(res, step)
			continue
		}

		domain := Domain{Field: f.Name, Label: f.Label, Values: options(view, f)}
		domains = append(domains, domain)

		switch {
		case requested.IsAll():
			step.State = StateAll
		case !domain.Contains(requested):
			step.State = StateStale
		default:
			view = view.Where(f.Name, requested)
			step.State = StateApplied
			step.Effective = requested
			effective[f.Name] = requested
		}

		step.After = view.Len()
		res = append(res, step)
	}

	return view, res, domains
}

func options(view survey.View, f Field) []survey.Value {
	values := view.Distinct(f.Name)
	if f.Sorted {
		sort.SliceStable(values, func(i, j int) bool { return survey.Less(values[i], values[j]) })
	}
	return append([]survey.Value{survey.All}, values...)
}
