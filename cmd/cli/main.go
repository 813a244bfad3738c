package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"stilidash/adapters/chart"
	"stilidash/adapters/excel"
	"stilidash/adapters/postgres"
	"stilidash/domain/survey"
	"stilidash/internal"
	"stilidash/internal/aggregate"
	"stilidash/internal/errors"
	"stilidash/internal/filterchain"
	"stilidash/internal/migration"
	"stilidash/ports"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
)

// options shared by every subcommand
type globalFlags struct {
	data     string
	sheet    string
	asJSON   bool
	selected map[string]*string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{selected: make(map[string]*string)}

	rootCmd := &cobra.Command{
		Use:           "panel-cli",
		Short:         "Query the survey panel from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&g.data, "data", os.Getenv("DATA_FILE"), "CSV or XLSX file to load (default $DATA_FILE)")
	flags.StringVar(&g.sheet, "sheet", excel.DefaultSheet, "Sheet to read from XLSX files")
	flags.BoolVar(&g.asJSON, "json", false, "Print JSON instead of text")
	for _, f := range filterchain.Default().Fields() {
		g.selected[f.Name] = flags.String(f.Name, "", fmt.Sprintf("Filter on %s (default All)", f.Name))
	}

	rootCmd.AddCommand(
		newOptionsCmd(g),
		newSeriesCmd(g),
		newRatioCmd(g),
		newImportCmd(g),
	)
	return rootCmd
}

func newOptionsCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "options [field]",
		Short: "List the selectable values of one filter step",
		Long: `List the values a filter step offers given the other filters.

Example: panel-cli options regio --country IT --data data/stili_al.csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := g.load(cmd.Context())
			if err != nil {
				return err
			}
			return runOptions(cmd.OutOrStdout(), table, g.selection(), args[0], g.asJSON)
		},
	}
}

func newSeriesCmd(g *globalFlags) *cobra.Command {
	var metric string

	cmd := &cobra.Command{
		Use:   "series",
		Short: "Print the frequency series of a metric for the filtered rows",
		Long: `Count the answers of a metric over the rows left by the filters, ascending by count.

Example: panel-cli series --metric stile --country IT --data data/stili_al.csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := g.load(cmd.Context())
			if err != nil {
				return err
			}
			return runSeries(cmd.OutOrStdout(), table, g.selection(), metric, g.asJSON)
		},
	}

	cmd.Flags().StringVar(&metric, "metric", survey.DefaultMetrics[0], "Metric column to count")
	return cmd
}

func newRatioCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "ratio",
		Short: "Print the share of rows left by the filters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := g.load(cmd.Context())
			if err != nil {
				return err
			}
			return runRatio(cmd.OutOrStdout(), table, g.selection(), g.asJSON)
		},
	}
}

func newImportCmd(g *globalFlags) *cobra.Command {
	var databaseURL string
	var replace bool

	cmd := &cobra.Command{
		Use:   "import [table]",
		Short: "Copy the data file into a Postgres table",
		Long: `Create a Postgres table with one TEXT column per field and copy every row of the
data file into it. Serve it afterwards with DATABASE_URL and DATA_TABLE.

Example: panel-cli import stili_al --data data/stili_al.csv --database-url postgres://localhost/panel`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := g.load(cmd.Context())
			if err != nil {
				return err
			}
			db, err := postgres.Connect(cmd.Context(), databaseURL)
			if err != nil {
				return err
			}
			defer db.Close()

			return runImport(cmd.Context(), cmd.OutOrStdout(), migration.NewRunner(replace),
				postgres.NewTableRepository(db), db, args[0], table)
		},
	}

	cmd.Flags().StringVar(&databaseURL, "database-url", os.Getenv("DATABASE_URL"), "Postgres connection URL (default $DATABASE_URL)")
	cmd.Flags().BoolVar(&replace, "replace", false, "Drop the table first if it exists")
	return cmd
}

// runImport copies table into tableName and checks the stored row count
func runImport(ctx context.Context, w io.Writer, m migration.Migrator, repo ports.TableRepository, db *sqlx.DB, tableName string, table *survey.Table) error {
	if err := m.Run(ctx, db, tableName, table); err != nil {
		return err
	}
	stored, err := repo.Count(ctx, tableName)
	if err != nil {
		return err
	}
	if stored != table.Len() {
		return errors.InternalError(fmt.Sprintf("imported %d rows into %s but the table holds %d", table.Len(), tableName, stored))
	}
	fmt.Fprintf(w, "imported %s rows into %s (importer %s)\n", chart.FormatCount(stored), tableName, m.Version())
	return nil
}

func (g *globalFlags) load(ctx context.Context) (*survey.Table, error) {
	if g.data == "" {
		return nil, fmt.Errorf("no data file: pass --data or set DATA_FILE")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	logger := internal.NewLogger(internal.LogLevelError, os.Stderr)
	reader := excel.NewDataReaderWithConfig(excel.ExcelConfig{FilePath: g.data, Sheet: g.sheet}).WithLogger(logger)
	return reader.Load(ctx)
}

func (g *globalFlags) selection() filterchain.Selection {
	sel := make(filterchain.Selection)
	for field, v := range g.selected {
		if *v != "" {
			sel[field] = survey.Value(*v)
		}
	}
	return sel
}

func runOptions(w io.Writer, table *survey.Table, sel filterchain.Selection, field string, asJSON bool) error {
	chain := filterchain.Default()
	if err := chain.Validate(table); err != nil {
		return err
	}
	domain, err := chain.DomainFor(table, sel, field)
	if err != nil {
		return err
	}

	if asJSON {
		return writeJSON(w, domain)
	}
	if domain.Gated {
		fmt.Fprintf(w, "%s: select a value for %s first\n", field, gateOf(chain, field))
	}
	for _, v := range domain.Values {
		fmt.Fprintln(w, v)
	}
	return nil
}

func runSeries(w io.Writer, table *survey.Table, sel filterchain.Selection, metric string, asJSON bool) error {
	chain := filterchain.Default()
	if err := chain.Validate(table); err != nil {
		return err
	}
	if err := table.Require(metric); err != nil {
		return err
	}

	view, res := chain.Apply(table, sel)
	series := aggregate.GroupCount(view, metric)

	if asJSON {
		return writeJSON(w, map[string]interface{}{
			"metric":       metric,
			"observations": view.Len(),
			"series":       series,
			"reset":        res.Reset(),
		})
	}
	printReset(w, res)
	fmt.Fprintf(w, "%s (%s observations)\n", chart.Capitalize(metric), chart.FormatCount(view.Len()))
	for _, b := range series {
		fmt.Fprintf(w, "  %-24s %s\n", b.Category, chart.FormatCount(b.Count))
	}
	return nil
}

func runRatio(w io.Writer, table *survey.Table, sel filterchain.Selection, asJSON bool) error {
	chain := filterchain.Default()
	if err := chain.Validate(table); err != nil {
		return err
	}

	view, res := chain.Apply(table, sel)
	ratio, err := aggregate.NewRatio(table.Len(), view.Len())
	if err != nil {
		return err
	}

	if asJSON {
		return writeJSON(w, map[string]interface{}{
			"ratio": ratio,
			"label": ratio.Label(),
			"reset": res.Reset(),
		})
	}
	printReset(w, res)
	fmt.Fprintf(w, "%s of %s observations (%s)\n", chart.FormatCount(ratio.Sampled), chart.FormatCount(ratio.Total), ratio.Label())
	return nil
}

func printReset(w io.Writer, res filterchain.Resolution) {
	for _, field := range res.Reset() {
		fmt.Fprintf(w, "note: %s selection not available, using All\n", field)
	}
}

func gateOf(chain *filterchain.Chain, field string) string {
	for _, f := range chain.Fields() {
		if f.Name == field {
			return f.GatedBy
		}
	}
	return ""
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
