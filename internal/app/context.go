package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"delega/internal/config"
	"delega/internal/db"
	"delega/internal/engine"
	"delega/internal/metrics"
	"delega/internal/migrate"
)

// Options controls how a workspace is opened.
type Options struct {
	Workspace string
	Logger    *slog.Logger
	// Registerer receives the case metrics. Nil leaves metrics disabled.
	Registerer prometheus.Registerer
}

// Workspace bundles the database, configuration and engine of an opened workspace.
type Workspace struct {
	Dir           string
	DB            *sql.DB
	Config        *config.Config
	Engine        engine.Engine
	SchemaVersion int
}

// Open migrates the workspace database, loads delega.yml (or the defaults when
// it is absent) and wires the engine.
func Open(ctx context.Context, opts Options) (*Workspace, error) {
	conn, err := db.Open(db.Config{Workspace: opts.Workspace})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	version, err := migrate.MigrateContext(ctx, conn)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	cfg, err := config.LoadOrDefault(opts.Workspace)
	if err != nil {
		conn.Close()
		return nil, err
	}
	eng, err := engine.New(conn, cfg)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("build engine: %w", err)
	}
	eng.Logger = opts.Logger
	if opts.Registerer != nil {
		eng.Metrics = metrics.New(opts.Registerer)
	}
	return &Workspace{
		Dir:           opts.Workspace,
		DB:            conn,
		Config:        cfg,
		Engine:        eng,
		SchemaVersion: version,
	}, nil
}

func (w *Workspace) Close() error {
	return w.DB.Close()
}
