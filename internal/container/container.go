package container

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"stilidash/adapters/api"
	"stilidash/adapters/excel"
	"stilidash/adapters/postgres"
	"stilidash/domain/survey"
	"stilidash/internal"
	"stilidash/internal/config"
	"stilidash/internal/dashboard"
	"stilidash/ports"
	"stilidash/ui"

	"github.com/jmoiron/sqlx"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config
	Logger *internal.Logger

	// Infrastructure
	DB     *sqlx.DB
	Source ports.TableSource

	// Loaded once, read-only afterwards
	Table  *survey.Table
	Panel  *dashboard.Panel
	Server *ui.Server
}

// New creates a new dependency injection container
func New(cfg *config.Config, logger *internal.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if logger == nil {
		logger = internal.NewConfiguredLogger(cfg.Logging.Level, cfg.Logging.Format, os.Stderr)
	}

	return &Container{
		Config: cfg,
		Logger: logger,
	}, nil
}

// Init connects the table source, loads the table and builds the panel and the server
func (c *Container) Init(ctx context.Context) error {
	if err := c.initSource(ctx); err != nil {
		return err
	}

	table, err := c.Source.Load(ctx)
	if err != nil {
		return err
	}
	c.Table = table
	c.Logger.Info("table loaded: %d rows, %d fields", table.Len(), len(table.Fields()))

	panel, err := dashboard.NewPanel(table,
		dashboard.WithMetrics(c.Config.Panel.Metrics...),
		dashboard.WithDefaultMetric(c.Config.Panel.DefaultMetric),
		dashboard.WithDefaultTheme(c.Config.Panel.DefaultTheme),
		dashboard.WithLogger(c.Logger.With("component", "panel")),
	)
	if err != nil {
		return err
	}
	c.Panel = panel

	server, err := ui.NewServer(panel, ui.Config{Title: c.Config.Panel.Title}, c.Logger)
	if err != nil {
		return err
	}
	c.Server = server
	return nil
}

func (c *Container) initSource(ctx context.Context) error {
	if c.Source != nil {
		return nil
	}

	if c.Config.UsesDatabase() {
		db, err := postgres.Connect(ctx, c.Config.Database.URL)
		if err != nil {
			return err
		}
		c.DB = db
		c.Source = postgres.TableSource{
			Repo:  postgres.NewTableRepository(db),
			Table: c.Config.Database.Table,
		}
		c.Logger.Info("using database table %s", c.Config.Database.Table)
		return nil
	}

	if c.Config.UsesAPI() {
		source := api.DefaultAPIDataSource(c.Config.API.URL).WithToken(c.Config.API.Token)
		source.DataPath = c.Config.API.DataPath
		source.Timeout = c.Config.API.Timeout
		c.Source = api.NewAPIReader(source)
		c.Logger.Info("using data endpoint %s", c.Config.API.URL)
		return nil
	}

	reader := excel.NewDataReaderWithConfig(excel.ExcelConfig{
		FilePath: c.Config.Data.File,
		Sheet:    c.Config.Data.Sheet,
	}).WithLogger(c.Logger.With("source", "file"))
	c.Source = reader
	c.Logger.Info("using data file %s", c.Config.Data.File)
	return nil
}

// Handler returns the root HTTP handler
func (c *Container) Handler() http.Handler {
	return ui.NewRouter(c.Server, ui.RouterConfig{Profiling: c.Config.Profiling.Enabled})
}

// Shutdown gracefully shuts down all components
func (c *Container) Shutdown(ctx context.Context) error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
