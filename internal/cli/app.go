package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vijay-prabhu/studyhub/internal/config"
	"github.com/vijay-prabhu/studyhub/internal/database"
	"github.com/vijay-prabhu/studyhub/internal/ingest"
	"github.com/vijay-prabhu/studyhub/internal/logger"
	"github.com/vijay-prabhu/studyhub/internal/metrics"
	"github.com/vijay-prabhu/studyhub/internal/record"
	"github.com/vijay-prabhu/studyhub/internal/search"
)

// Source labels searches issued from the command line
const Source = "cli"

// app bundles what most commands need: configuration, logger, database and
// an engine over the stored catalog.
type app struct {
	cfg    *config.Config
	log    *zap.Logger
	db     *database.DB
	store  *record.Store
	engine *search.Engine
}

// loadConfig reads the config file, or the defaults when there is none,
// and applies flag overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// openApp loads config, opens the database and publishes the stored
// catalog as the engine's first snapshot. The returned context carries the
// logger and the search source.
func openApp(cmd *cobra.Command) (*app, context.Context, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}

	log, err := logger.New(cfg.Logging.Env, cfg.Logging.Level)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		return nil, nil, err
	}

	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}

	opts, err := cfg.SearchOptions()
	if err != nil {
		db.Close()
		return nil, nil, err
	}

	a := &app{
		cfg:   cfg,
		log:   log,
		db:    db,
		store: record.NewStore(),
	}
	a.engine = search.NewEngine(a.store, opts)

	ctx := logger.ContextWithLogger(cmd.Context(), log)
	ctx = search.WithSource(ctx, Source)

	if err := a.reload(ctx); err != nil {
		a.Close()
		return nil, nil, err
	}
	return a, ctx, nil
}

// reload publishes the records currently in the database
func (a *app) reload(ctx context.Context) error {
	records, err := a.db.ListRecords(ctx)
	if err != nil {
		return fmt.Errorf("failed to read catalog: %w", err)
	}
	snap, err := a.store.Load(records)
	if err != nil {
		return fmt.Errorf("stored catalog is invalid: %w", err)
	}
	metrics.CatalogRecords.Set(float64(snap.Len()))
	logger.FromContext(ctx).Debug("catalog loaded",
		zap.Int("records", snap.Len()),
		zap.Uint64("version", snap.Version()))
	return nil
}

// importFile validates a catalog file, replaces the stored catalog with it
// and publishes it. Nothing is written when validation fails.
func (a *app) importFile(ctx context.Context, path string) (*database.ImportRun, error) {
	records, err := ingest.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Validate against a scratch store first
	if _, err := record.NewStore().Load(records); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	run, err := a.db.ReplaceRecords(ctx, records, path)
	if err != nil {
		return nil, fmt.Errorf("failed to store catalog: %w", err)
	}
	if err := a.reload(ctx); err != nil {
		return nil, err
	}
	return run, nil
}

// recordSearch stores a finished search; failures are only logged
func (a *app) recordSearch(ctx context.Context, q search.Query, res *search.Result) {
	if err := a.db.RecordSearch(ctx, database.NewSearchEntry(Source, q, res)); err != nil {
		logger.FromContext(ctx).Warn("failed to record search history", zap.Error(err))
	}
}

// Close releases the database and flushes the logger
func (a *app) Close() {
	a.db.Close()
	_ = a.log.Sync()
}
