// Package testkit provides survey tables for tests and demos.
package testkit

import (
	"testing"

	"stilidash/domain/survey"
)

// MustTable builds a table or fails the test
func MustTable(t testing.TB, headers []string, rows [][]string) *survey.Table {
	t.Helper()
	table, err := survey.NewTable(headers, rows)
	if err != nil {
		t.Fatalf("failed to build table: %v", err)
	}
	return table
}

// ItalyTable is a ten-row table where six respondents are from IT
func ItalyTable(t testing.TB) *survey.Table {
	t.Helper()
	return MustTable(t,
		[]string{"country", "regio", "s3", "eta", "s5", "stile"},
		[][]string{
			{"IT", "Lazio", "F", "25-34", "1", "A"},
			{"IT", "Lazio", "M", "18-24", "2", "A"},
			{"IT", "Puglia", "F", "35-44", "1", "B"},
			{"IT", "Puglia", "F", "25-34", "2", "C"},
			{"IT", "Sicilia", "M", "45-54", "1", "C"},
			{"IT", "Sicilia", "F", "18-24", "3", "C"},
			{"FR", "Bretagne", "M", "25-34", "1", "A"},
			{"FR", "Provence", "F", "65+", "4", "B"},
			{"ES", "Madrid", "M", "35-44", "2", ""},
			{"ES", "Andalucia", "F", "55-64", "3", "B"},
		},
	)
}

// GeneratedTable builds a synthetic survey table with the default generator config
func GeneratedTable(t testing.TB) *survey.Table {
	t.Helper()
	table, err := NewSurveyDataGenerator(DefaultSurveyConfig()).GenerateTable()
	if err != nil {
		t.Fatalf("failed to generate table: %v", err)
	}
	return table
}
