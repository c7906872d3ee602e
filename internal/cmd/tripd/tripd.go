// Package tripd parses trip service configuration and launches the HTTP API.
package tripd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	httpapi "github.com/wanderlist/wanderlist/internal/api/http"
	entrypoint "github.com/wanderlist/wanderlist/internal/platform/cmd"
	"github.com/wanderlist/wanderlist/internal/service"
	"github.com/wanderlist/wanderlist/internal/storage/sqlite"
	"github.com/wanderlist/wanderlist/internal/trip/event"
	"github.com/wanderlist/wanderlist/internal/trip/invite"
)

const shutdownTimeout = 10 * time.Second

// Config holds tripd command configuration.
type Config struct {
	Addr        string   `env:"WANDERLIST_HTTP_ADDR" envDefault:":8080"`
	DBPath      string   `env:"WANDERLIST_DB_PATH"`
	CORSOrigins []string `env:"WANDERLIST_CORS_ORIGINS" envSeparator:","`
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "The HTTP listen address")
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "The sqlite database path")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	if strings.TrimSpace(cfg.DBPath) == "" {
		cfg.DBPath = filepath.Join("data", "wanderlist.db")
	}
	return cfg, nil
}

// Run starts the trip HTTP API service.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceTripd, func(ctx context.Context) error {
		return serve(ctx, cfg)
	})
}

func serve(ctx context.Context, cfg Config) error {
	store, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Printf("close store: %v", err)
		}
	}()

	opts, err := grantOptions()
	if err != nil {
		return err
	}
	svc := service.New(service.Stores{
		Trips:       store,
		Members:     store,
		Users:       store,
		Expenses:    store,
		Projections: store,
		Events:      store,
	}, event.NewEmitter(store), opts...)

	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           httpapi.NewHandler(svc, httpapi.Config{AllowedOrigins: cfg.CORSOrigins}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return <-errCh
	case err := <-errCh:
		return err
	}
}

// grantOptions loads invitation grant signing and verification from the
// environment. Each side is optional: a service without the private key can
// still verify grants, and one without the public key issues none.
func grantOptions() ([]service.Option, error) {
	var opts []service.Option
	if strings.TrimSpace(os.Getenv(invite.EnvGrantPrivateKey)) != "" {
		signer, err := invite.LoadSignerConfigFromEnv(nil)
		if err != nil {
			return nil, fmt.Errorf("load grant signer: %w", err)
		}
		opts = append(opts, service.WithGrantSigner(signer))
	}
	if strings.TrimSpace(os.Getenv(invite.EnvGrantPublicKey)) != "" {
		verifier, err := invite.LoadGrantConfigFromEnv(nil)
		if err != nil {
			return nil, fmt.Errorf("load grant verifier: %w", err)
		}
		opts = append(opts, service.WithGrantVerifier(verifier))
	}
	return opts, nil
}
