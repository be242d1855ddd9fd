package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vijay-prabhu/studyhub/internal/metrics"
	"github.com/vijay-prabhu/studyhub/internal/transport/httpapi"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Serve the catalog over a JSON HTTP API.

Endpoints:
  GET  /healthz
  GET  /metrics
  GET  /v1/facets
  GET  /v1/records
  GET  /v1/records/{id}
  POST /v1/search      {"text", "category", "bucket", "profile", "limit"}
  POST /v1/recommend   {"answers", "limit"}

When catalog.path is set the file is imported on startup. Send SIGHUP to
re-import it (or reload the database) without dropping requests.`,
	RunE: runServe,
}

var serveAddr string

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default: http.addr from config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	a, ctx, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	metrics.Register()

	if err := a.loadCatalogPath(ctx); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	go a.reloadOnHangup(ctx)

	addr := a.cfg.HTTP.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	server := httpapi.NewServer(a.engine, a.db, a.log)
	return httpapi.Run(ctx, httpapi.ServerConfig{
		Addr:            addr,
		ReadTimeout:     a.cfg.HTTP.ReadTimeout(),
		WriteTimeout:    a.cfg.HTTP.WriteTimeout(),
		ShutdownTimeout: a.cfg.HTTP.ShutdownTimeout(),
	}, server.Routes(), a.log)
}

// loadCatalogPath imports catalog.path when it is configured
func (a *app) loadCatalogPath(ctx context.Context) error {
	if a.cfg.Catalog.Path == "" {
		return nil
	}
	run, err := a.importFile(ctx, a.cfg.Catalog.Path)
	if err != nil {
		return err
	}
	a.log.Info("catalog imported",
		zap.String("path", a.cfg.Catalog.Path),
		zap.Int("records", run.RecordCount))
	return nil
}

// reloadOnHangup republishes the catalog on every SIGHUP until ctx ends.
// A failed reload keeps the previous snapshot.
func (a *app) reloadOnHangup(ctx context.Context) {
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	for {
		select {
		case <-ctx.Done():
			return
		case <-hup:
			var err error
			if a.cfg.Catalog.Path != "" {
				err = a.loadCatalogPath(ctx)
			} else {
				err = a.reload(ctx)
			}
			if err != nil {
				a.log.Error("catalog reload failed", zap.Error(err))
				continue
			}
			a.log.Info("catalog reloaded", zap.Uint64("version", a.store.Current().Version()))
		}
	}
}
