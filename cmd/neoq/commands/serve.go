package commands

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/neo-approach-service/internal/adapter/httpadapter"
	"github.com/couchcryptid/neo-approach-service/internal/database"
	"github.com/couchcryptid/neo-approach-service/internal/observability"
)

// datasetChecker reports readiness once the database is loaded and linked.
type datasetChecker struct {
	db *database.Database
}

func (c *datasetChecker) CheckReadiness(_ context.Context) error {
	if c.db == nil || c.db.NEOCount() == 0 {
		return errors.New("data set not loaded")
	}
	return nil
}

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP query API",
		Long: `Load the data set and serve it over HTTP (HTTP_ADDR, default :8080):

  GET /approaches  filtered close approaches as JSON
  GET /healthz     liveness
  GET /readyz      readiness
  GET /metrics     Prometheus metrics

The server runs until interrupted, then drains connections within
SHUTDOWN_TIMEOUT.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := a.database()
			if err != nil {
				return err
			}

			metrics := observability.NewMetrics()
			metrics.NEOsLoaded.Set(float64(db.NEOCount()))
			metrics.ApproachesLoaded.Set(float64(db.ApproachCount()))
			metrics.DatasetReady.Set(1)

			srv := httpadapter.NewServer(a.cfg.HTTPAddr, db, &datasetChecker{db: db},
				a.cfg.QueryCacheSize, metrics, a.logger)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}
			a.logger.Info("shutting down")

			shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				a.logger.Error("http server shutdown error", "error", err)
				return err
			}

			a.logger.Info("shutdown complete")
			return nil
		},
	}

	return cmd
}
