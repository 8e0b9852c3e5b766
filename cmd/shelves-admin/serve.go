// cmd/shelves-admin/serve.go
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"shelvesadmin/internal/config"
	"shelvesadmin/internal/docstore"
	"shelvesadmin/internal/httpapi"
	"shelvesadmin/internal/idgen"
	"shelvesadmin/internal/telemetry"
)

var portFlag string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the admin HTTP API",
	Long: `Serve the admin HTTP API.

Settings are read from the environment, after loading .env.local and .env:
  PORT, STORE_DRIVER (memory|postgres|mongo), DATABASE_URL, MONGO_URI,
  MONGO_DATABASE, STORE_WRITE_RPS, STORE_BURST, BREAKER_FAILURES,
  OTEL_ENABLED, SERVICE_NAME, STORE_FAULT_LATENCY, STORE_FAULT_JITTER,
  STORE_FAULT_RATE`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		config.LoadEnvFiles()
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if portFlag != "" {
			cfg.Port = portFlag
		}
		return runServe(cmd.Context(), cfg)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVarP(&portFlag, "port", "p", "", "Port to listen on (overrides PORT)")
}

func runServe(ctx context.Context, cfg config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}

	shutdownTracing, err := telemetry.Setup(ctx, cfg.ServiceName, cfg.OTelEnabled)
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			log.Printf("telemetry shutdown: %v", err)
		}
	}()

	backend, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer backend.Close(context.Background())

	faults := docstore.FaultOptions{
		Latency:     cfg.FaultLatency,
		Jitter:      cfg.FaultJitter,
		FailureRate: cfg.FaultRate,
	}
	if faults.Enabled() {
		log.Printf("injecting store faults: latency=%s jitter=%s failure_rate=%.2f", faults.Latency, faults.Jitter, faults.FailureRate)
		backend = docstore.NewFaultyStore(backend, faults)
	}

	store := docstore.NewGuardedStore(backend, docstore.GuardOptions{
		WritesPerSecond:     cfg.StoreWriteRPS,
		Burst:               cfg.StoreBurst,
		ConsecutiveFailures: cfg.BreakerFailures,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      httpapi.NewRouter(store, idgen.TimeOrdered{}),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("shelves-admin listening on port %s (store=%s)", cfg.Port, cfg.StoreDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-quit:
	}

	log.Println("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	log.Println("server stopped")
	return nil
}

func openStore(ctx context.Context, cfg config.Config) (docstore.Store, error) {
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		store, err := docstore.OpenPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return store, nil
	case config.DriverMongo:
		store, err := docstore.OpenMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return docstore.NewMemoryStore(), nil
	}
}
