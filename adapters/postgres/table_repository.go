package postgres

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"stilidash/domain/core"
	"stilidash/domain/survey"
	"stilidash/internal/errors"
	"stilidash/ports"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// tableRepository implements the TableRepository interface
type tableRepository struct {
	db      *sqlx.DB
	builder squirrel.StatementBuilderType
}

// NewTableRepository creates a new table repository
func NewTableRepository(db *sqlx.DB) ports.TableRepository {
	return &tableRepository{
		db:      db,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Connect opens and pings a Postgres connection
func Connect(ctx context.Context, url string) (*sqlx.DB, error) {
	if url == "" {
		return nil, errors.ConfigInvalid("DATABASE_URL is required")
	}

	db, err := sqlx.ConnectContext(ctx, "postgres", url)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to database")
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to ping database")
	}
	return db, nil
}

// Load selects every row of tableName. Columns keep the table's declared order and
// every cell is converted to its text form; NULL becomes a missing cell.
func (r *tableRepository) Load(ctx context.Context, tableName string) (*survey.Table, error) {
	query, args, err := r.selectAll(tableName).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := r.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query table %s: %w", tableName, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns: %w", err)
	}

	var records [][]string
	for rows.Next() {
		m := make(map[string]interface{}, len(columns))
		if err := rows.MapScan(m); err != nil {
			return nil, fmt.Errorf("failed to scan row %d: %w", len(records), err)
		}
		record := make([]string, len(columns))
		for i, col := range columns {
			record[i] = cellText(m[col])
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate table %s: %w", tableName, err)
	}

	if len(records) == 0 {
		return nil, errors.EmptyTable(core.ErrEmptyTable)
	}
	return survey.NewTable(columns, records)
}

// Count returns the number of rows in tableName
func (r *tableRepository) Count(ctx context.Context, tableName string) (int, error) {
	query, args, err := r.builder.Select("COUNT(*)").From(pq.QuoteIdentifier(tableName)).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build query: %w", err)
	}

	var n int
	if err := r.db.GetContext(ctx, &n, query, args...); err != nil {
		return 0, fmt.Errorf("failed to count table %s: %w", tableName, err)
	}
	return n, nil
}

func (r *tableRepository) selectAll(tableName string) squirrel.SelectBuilder {
	return r.builder.Select("*").From(pq.QuoteIdentifier(tableName))
}

// cellText renders a scanned driver value the way it would appear in a CSV export
func cellText(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case []byte:
		return string(x)
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		if x.Hour() == 0 && x.Minute() == 0 && x.Second() == 0 && x.Nanosecond() == 0 {
			return x.Format("2006-01-02")
		}
		return x.Format(time.RFC3339)
	default:
		return fmt.Sprint(x)
	}
}

// TableSource adapts a TableRepository to ports.TableSource for one table
type TableSource struct {
	Repo  ports.TableRepository
	Table string
}

// Load reads the configured table
func (s TableSource) Load(ctx context.Context) (*survey.Table, error) {
	table, err := s.Repo.Load(ctx, s.Table)
	if err != nil {
		if errors.IsAppError(err) {
			return nil, err
		}
		return nil, errors.DataSourceError("table "+s.Table, err)
	}
	return table, nil
}
