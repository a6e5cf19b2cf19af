package cli

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/qrforge/qrforge/internal/server"
	"github.com/qrforge/qrforge/pkg/cache"
	"github.com/qrforge/qrforge/pkg/pipeline"
)

// serveCommand creates the serve command, which runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP rendering API",
		Long: `Run the HTTP rendering API.

Configuration comes from the environment:

    QRFORGE_ADDR            listen address (default :8080)
    QRFORGE_REDIS_ADDR      shared Redis cache (host:port); file cache if unset
    QRFORGE_MONGO_URI       MongoDB URI for the generation history endpoint
    QRFORGE_LOG_FILE        rotating log file instead of stderr
    QRFORGE_MAX_BODY_BYTES  request body limit in bytes

The --addr flag overrides QRFORGE_ADDR.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides QRFORGE_ADDR)")

	return cmd
}

// runServe assembles the server from environment config and runs it until
// the context is cancelled.
func (c *CLI) runServe(ctx context.Context, addr string) error {
	cfg, err := server.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if addr != "" {
		cfg.Addr = addr
	}

	logger := c.Logger
	if cfg.LogFile != "" {
		logger = newLogger(&lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    50, // megabytes
			MaxBackups: 5,
			MaxAge:     30, // days
		}, logger.GetLevel())
	}

	store, err := c.newServerCache(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("initialize cache: %w", err)
	}

	runner := pipeline.NewRunner(store, nil, logger)
	defer runner.Close()

	var history *server.HistoryStore
	if cfg.MongoURI != "" {
		history, err = server.NewHistoryStore(ctx, cfg.MongoURI)
		if err != nil {
			return fmt.Errorf("connect history store: %w", err)
		}
		defer history.Close(context.Background())
		logger.Info("history store connected")
	}

	return server.New(cfg, runner, history, logger).ListenAndServe(ctx)
}

// newServerCache picks Redis when configured, otherwise the local file cache.
func (c *CLI) newServerCache(ctx context.Context, cfg server.Config, logger *log.Logger) (cache.Cache, error) {
	if cfg.RedisAddr != "" {
		store, err := cache.NewRedisCache(ctx, cfg.RedisAddr)
		if err != nil {
			return nil, fmt.Errorf("connect redis %s: %w", cfg.RedisAddr, err)
		}
		logger.Info("using redis cache", "addr", cfg.RedisAddr)
		return store, nil
	}

	dir, err := cacheDir()
	if err != nil {
		logger.Warn("no cache directory, caching disabled", "error", err)
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}
