package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/kevinaaaquil/library-graphql/config"
	"github.com/kevinaaaquil/library-graphql/graph"
	"github.com/kevinaaaquil/library-graphql/handlers"
	"github.com/kevinaaaquil/library-graphql/metrics"
	"github.com/kevinaaaquil/library-graphql/service"
	"github.com/kevinaaaquil/library-graphql/store"
	"github.com/kevinaaaquil/library-graphql/utils"
)

// catalogStore is what the server needs from a store beyond the resolvers.
type catalogStore interface {
	graph.Store
	EnsureIndexes(ctx context.Context) error
	Disconnect(ctx context.Context) error
}

var (
	_ catalogStore = (*store.DB)(nil)
	_ catalogStore = (*store.MemoryDB)(nil)
)

func main() {
	_ = godotenv.Load()

	var port string
	var debug bool
	cmd := &cobra.Command{
		Use:           "library-graphql",
		Short:         "GraphQL API for the book and author catalog",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return errors.Wrap(err, "config")
			}
			if port != "" {
				cfg.Port = port
			}
			if debug {
				cfg.LogLevel = zerolog.DebugLevel
			}
			if err := cfg.Validate(); err != nil {
				return errors.Wrap(err, "config")
			}
			return run(cmd.Context(), cfg)
		},
	}
	cmd.Flags().StringVarP(&port, "port", "p", "", "listen port (overrides PORT)")
	cmd.Flags().BoolVar(&debug, "debug", false, "enable debug logging")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := cmd.ExecuteContext(ctx); err != nil {
		logger := zerolog.New(os.Stderr).With().Timestamp().Logger()
		logger.Error().Err(err).Msg("library-graphql failed")
		os.Exit(1)
	}
}

func newLogger(cfg *config.Config) zerolog.Logger {
	var logger zerolog.Logger
	if cfg.LogPretty {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	} else {
		logger = zerolog.New(os.Stderr)
	}
	return logger.Level(cfg.LogLevel).With().Timestamp().Logger()
}

func openStore(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (catalogStore, error) {
	if cfg.UseMemoryStore() {
		logger.Warn().Msg("using in-memory store; data is lost on exit")
		return store.NewMemoryDB(), nil
	}
	connectCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	db, err := store.NewMongoDB(connectCtx, cfg.MongoURI, cfg.DBName, logger.With().Str("component", "store").Logger())
	if err != nil {
		return nil, err
	}
	return db, nil
}

func run(ctx context.Context, cfg *config.Config) error {
	logger := newLogger(cfg)
	logger.Info().Str("env", cfg.Env).Str("port", cfg.Port).Msg("starting")

	db, err := openStore(ctx, cfg, logger)
	if err != nil {
		return errors.Wrap(err, "mongodb")
	}
	defer func() {
		if err := db.Disconnect(context.Background()); err != nil {
			logger.Error().Err(err).Msg("mongodb disconnect")
		}
	}()
	if err := db.EnsureIndexes(ctx); err != nil {
		return errors.Wrap(err, "mongodb indexes")
	}

	passwordHash, err := utils.HashPassword(cfg.AuthPassword)
	if err != nil {
		return errors.Wrap(err, "hash AUTH_PASSWORD")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewMetrics(reg)

	notifier := service.NewBookNotifier(service.DefaultSubscriberBuffer, logger.With().Str("component", "notifier").Logger(), m)
	defer notifier.Close()
	tokens := service.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)

	schema, err := graph.NewSchema(&graph.Resolver{
		Store:        db,
		Tokens:       tokens,
		Notifier:     notifier,
		PasswordHash: passwordHash,
		Log:          logger.With().Str("component", "graph").Logger(),
		Metrics:      m,
	})
	if err != nil {
		return errors.Wrap(err, "graphql schema")
	}

	server := &http.Server{
		Addr: ":" + cfg.Port,
		Handler: handlers.NewRouter(handlers.RouterConfig{
			Schema:  schema,
			Tokens:  tokens,
			Users:   db,
			Metrics: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
			Log:     logger,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	group, gCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		logger.Info().Msg("server listening on :" + cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-gCtx.Done()
		logger.Info().Msg("shutting down")
		// subscriptions hold their connections open until their channels close
		notifier.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	return group.Wait()
}
