package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"stilidash/domain/survey"
	"stilidash/internal/errors"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

const italyCSV = `country,regio,s3,eta,s5,stile
IT,Lazio,F,25-34,1,A
IT,Lazio,M,18-24,2,A
IT,Puglia,F,35-44,1,B
IT,Puglia,F,25-34,2,C
IT,Sicilia,M,45-54,1,C
IT,Sicilia,F,18-24,3,C
FR,Bretagne,M,25-34,1,A
FR,Provence,F,65+,4,B
ES,Madrid,M,35-44,2,
ES,Andalucia,F,55-64,3,B
`

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "stili.csv")
	require.NoError(t, os.WriteFile(path, []byte(italyCSV), 0o644))

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs(append(args, "--data", path))
	err := cmd.Execute()
	return out.String(), err
}

func TestSeriesCommand(t *testing.T) {
	out, err := runCLI(t, "series", "--country", "IT", "--json")
	require.NoError(t, err)
	assert.Equal(t, int64(6), gjson.Get(out, "observations").Int())
	assert.Equal(t, `["B","A","C"]`, gjson.Get(out, "series.#.category").Raw)

	out, err = runCLI(t, "series", "--country", "IT")
	require.NoError(t, err)
	assert.Contains(t, out, "Stile (6 observations)")
}

func TestRatioCommand(t *testing.T) {
	out, err := runCLI(t, "ratio", "--country", "IT")
	require.NoError(t, err)
	assert.Equal(t, "6 of 10 observations (60.0%)\n", out)

	out, err = runCLI(t, "ratio", "--country", "FR", "--regio", "Lazio", "--json")
	require.NoError(t, err)
	assert.Equal(t, "20.0%", gjson.Get(out, "label").String())
	assert.Equal(t, `["regio"]`, gjson.Get(out, "reset").Raw)
}

func TestOptionsCommand(t *testing.T) {
	out, err := runCLI(t, "options", "regio", "--country", "FR")
	require.NoError(t, err)
	assert.Equal(t, "All\nBretagne\nProvence\n", out)

	out, err = runCLI(t, "options", "regio")
	require.NoError(t, err)
	assert.Contains(t, out, "select a value for country first")

	_, err = runCLI(t, "options", "stile")
	assert.Error(t, err)
}

func TestMissingDataFlag(t *testing.T) {
	t.Setenv("DATA_FILE", "")
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"ratio"})
	assert.ErrorContains(t, cmd.Execute(), "no data file")
}

func TestImportNeedsDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	_, err := runCLI(t, "import", "stili_al")
	assert.ErrorContains(t, err, "DATABASE_URL is required")
}

type fakeMigrator struct {
	mock.Mock
}

func (m *fakeMigrator) Run(ctx context.Context, db *sqlx.DB, tableName string, table *survey.Table) error {
	return m.Called(tableName, table.Len()).Error(0)
}

func (m *fakeMigrator) Version() string {
	return "1.0.0"
}

type fakeRepository struct {
	mock.Mock
}

func (r *fakeRepository) Load(ctx context.Context, tableName string) (*survey.Table, error) {
	args := r.Called(tableName)
	table, _ := args.Get(0).(*survey.Table)
	return table, args.Error(1)
}

func (r *fakeRepository) Count(ctx context.Context, tableName string) (int, error) {
	args := r.Called(tableName)
	return args.Int(0), args.Error(1)
}

func importTable(t *testing.T) *survey.Table {
	t.Helper()
	table, err := survey.NewTable([]string{"country", "stile"}, [][]string{{"IT", "A"}, {"FR", "B"}, {"ES", ""}})
	require.NoError(t, err)
	return table
}

func TestRunImportReportsStoredRows(t *testing.T) {
	table := importTable(t)
	m := &fakeMigrator{}
	m.On("Run", "stili_al", 3).Return(nil)
	repo := &fakeRepository{}
	repo.On("Count", "stili_al").Return(3, nil)

	var out bytes.Buffer
	require.NoError(t, runImport(context.Background(), &out, m, repo, nil, "stili_al", table))
	assert.Equal(t, "imported 3 rows into stili_al (importer 1.0.0)\n", out.String())
	m.AssertExpectations(t)
	repo.AssertExpectations(t)
}

func TestRunImportCountMismatch(t *testing.T) {
	m := &fakeMigrator{}
	m.On("Run", "stili_al", 3).Return(nil)
	repo := &fakeRepository{}
	repo.On("Count", "stili_al").Return(2, nil)

	var out bytes.Buffer
	err := runImport(context.Background(), &out, m, repo, nil, "stili_al", importTable(t))
	assert.Equal(t, errors.CodeInternalError, errors.GetCode(err))
	assert.ErrorContains(t, err, "holds 2")
	assert.Empty(t, out.String())
}

func TestRunImportStopsOnMigrationError(t *testing.T) {
	m := &fakeMigrator{}
	m.On("Run", "stili_al", 3).Return(errors.InvalidInput("nothing to import"))
	repo := &fakeRepository{}

	err := runImport(context.Background(), &bytes.Buffer{}, m, repo, nil, "stili_al", importTable(t))
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
	repo.AssertNotCalled(t, "Count", mock.Anything)
}
