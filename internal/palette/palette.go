// Package palette maps color theme names to the colors of the two charts.
package palette

// Theme is the color set of one theme. Light and Dark color the donut slices,
// Solid fills the bars.
type Theme struct {
	Name  string `json:"name"`
	Light string `json:"light"`
	Dark  string `json:"dark"`
	Solid string `json:"solid"`
}

// DefaultTheme is used when a requested theme is unknown
const DefaultTheme = "blue"

var themes = []Theme{
	{Name: "blue", Light: "#98DAFF", Dark: "#00588D", Solid: "#006BA2"},
	{Name: "cyan", Light: "#6FE4FB", Dark: "#005F73", Solid: "#3EBCD2"},
	{Name: "green", Light: "#86E5D4", Dark: "#005F52", Solid: "#379A8B"},
	{Name: "red", Light: "#FFA39F", Dark: "#A81829", Solid: "#DB444B"},
	{Name: "yellow", Light: "#FFCB4D", Dark: "#714C00", Solid: "#EBB434"},
	{Name: "olive", Light: "#D7DB5A", Dark: "#4C5900", Solid: "#B4BA39"},
	{Name: "purple", Light: "#FFC2E3", Dark: "#78405F", Solid: "#9A607F"},
	{Name: "gold", Light: "#F2CF9A", Dark: "#674E1F", Solid: "#D1B07C"},
}

var byName = func() map[string]Theme {
	m := make(map[string]Theme, len(themes))
	for _, t := range themes {
		m[t.Name] = t
	}
	return m
}()

// Lookup returns the named theme. For an unknown name it returns the default theme
// and false.
func Lookup(name string) (Theme, bool) {
	if t, ok := byName[name]; ok {
		return t, true
	}
	return byName[DefaultTheme], false
}

// Has reports whether name is a known theme
func Has(name string) bool {
	_, ok := byName[name]
	return ok
}

// Names returns the theme names in picklist order
func Names() []string {
	out := make([]string, len(themes))
	for i, t := range themes {
		out[i] = t.Name
	}
	return out
}

// All returns every theme in picklist order
func All() []Theme {
	out := make([]Theme, len(themes))
	copy(out, themes)
	return out
}
