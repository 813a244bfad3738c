package testkit

import (
	"fmt"
	"math/rand"

	"stilidash/domain/survey"
)

// SurveyGeneratorConfig configures the synthetic survey generator
type SurveyGeneratorConfig struct {
	Respondents int     `json:"respondents"`
	MissingRate float64 `json:"missing_rate"` // share of empty metric answers
	Seed        int64   `json:"seed"`
}

// DefaultSurveyConfig returns sensible defaults for survey generation
func DefaultSurveyConfig() SurveyGeneratorConfig {
	return SurveyGeneratorConfig{
		Respondents: 500,
		MissingRate: 0.05,
		Seed:        42,
	}
}

var (
	regionsByCountry = []struct {
		country string
		regions []string
	}{
		{"IT", []string{"Lazio", "Lombardia", "Puglia", "Sicilia"}},
		{"FR", []string{"Bretagne", "Occitanie", "Provence"}},
		{"ES", []string{"Andalucia", "Cataluna", "Madrid"}},
	}
	genders   = []string{"M", "F"}
	ageGroups = []string{"18-24", "25-34", "35-44", "45-54", "55-64", "65+"}
	auxValues = []string{"1", "2", "3", "4"}
	styles    = []string{"Onnivoro", "Flexitariano", "Vegetariano", "Pescetariano", "Vegano"}
)

// SurveyDataGenerator generates survey rows shaped like the eating-style dataset
type SurveyDataGenerator struct {
	config SurveyGeneratorConfig
	rng    *rand.Rand
}

// NewSurveyDataGenerator creates a new survey generator
func NewSurveyDataGenerator(config SurveyGeneratorConfig) *SurveyDataGenerator {
	return &SurveyDataGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// Headers returns the column names of generated rows
func (g *SurveyDataGenerator) Headers() []string {
	headers := []string{
		survey.FieldCountry, survey.FieldRegion, survey.FieldGender, survey.FieldAge, survey.FieldAux,
	}
	return append(headers, survey.DefaultMetrics...)
}

// GenerateRows produces one row per respondent, in header order
func (g *SurveyDataGenerator) GenerateRows() [][]string {
	rows := make([][]string, 0, g.config.Respondents)
	for i := 0; i < g.config.Respondents; i++ {
		entry := regionsByCountry[g.rng.Intn(len(regionsByCountry))]
		row := []string{
			entry.country,
			entry.regions[g.rng.Intn(len(entry.regions))],
			genders[g.rng.Intn(len(genders))],
			ageGroups[g.rng.Intn(len(ageGroups))],
			auxValues[g.rng.Intn(len(auxValues))],
			g.maybeMissing(styles[g.skewedIndex(len(styles))]),
		}
		for range survey.DefaultMetrics[1:] {
			row = append(row, g.maybeMissing(fmt.Sprintf("%d", 1+g.skewedIndex(5))))
		}
		rows = append(rows, row)
	}
	return rows
}

// GenerateTable builds an immutable table from generated rows
func (g *SurveyDataGenerator) GenerateTable() (*survey.Table, error) {
	return survey.NewTable(g.Headers(), g.GenerateRows())
}

// skewedIndex favours low indices so counts differ between categories
func (g *SurveyDataGenerator) skewedIndex(n int) int {
	a, b := g.rng.Intn(n), g.rng.Intn(n)
	if a < b {
		return a
	}
	return b
}

func (g *SurveyDataGenerator) maybeMissing(v string) string {
	if g.rng.Float64() < g.config.MissingRate {
		return ""
	}
	return v
}
