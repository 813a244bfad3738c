package survey

import "strings"

// Value is the text form of a single cell. Numeric columns keep the text they were
// loaded with, so "3" and "3.0" are different categories.
type Value string

// All is the identity selection of a filter step. The empty value also means All, and a
// cell whose text is "All" can never be selected on its own.
const All Value = "All"

// Filter fields of the survey dataset, in chain order.
const (
	FieldCountry = "country"
	FieldRegion  = "regio"
	FieldGender  = "s3"
	FieldAge     = "eta"
	FieldAux     = "s5"
)

// Metric fields offered by the panel.
var DefaultMetrics = []string{
	"stile",
	"q4__4", "q4__5", "q4__6", "q4__7", "q4__8", "q4__9", "q4__10",
	"q5__4", "q5__5", "q5__6", "q5__7", "q5__8", "q5__9", "q5__10",
}

// naTokens mirrors the cell texts a pandas CSV load turns into NaN.
var naTokens = map[string]bool{
	"":     true,
	"NA":   true,
	"N/A":  true,
	"NaN":  true,
	"nan":  true,
	"null": true,
	"NULL": true,
	"None": true,
	"<NA>": true,
}

// IsMissing reports whether a raw cell text represents a missing value
func IsMissing(raw string) bool {
	return naTokens[strings.TrimSpace(raw)]
}

// IsAll reports whether v selects every row
func (v Value) IsAll() bool {
	return v == All || v == ""
}

func (v Value) String() string {
	return string(v)
}
