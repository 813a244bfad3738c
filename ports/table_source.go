package ports

import (
	"context"

	"stilidash/domain/survey"
)

// TableSource loads the survey table once at startup
type TableSource interface {
	Load(ctx context.Context) (*survey.Table, error)
}

// TableRepository reads a whole SQL table as a survey table
type TableRepository interface {
	Load(ctx context.Context, tableName string) (*survey.Table, error)
	Count(ctx context.Context, tableName string) (int, error)
}
