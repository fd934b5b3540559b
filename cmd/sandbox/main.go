// Command sandbox serves an offline, gofile-compatible API backed by
// DuckDB.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Project-Sylos/Courier/internal/api"
	"github.com/Project-Sylos/Courier/internal/config"
	"github.com/Project-Sylos/Courier/internal/db"
	"github.com/Project-Sylos/Courier/internal/logging"
	"github.com/Project-Sylos/Courier/internal/sandbox"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	flags := pflag.NewFlagSet("sandbox", pflag.ContinueOnError)
	configPath := flags.StringP("config", "c", config.DefaultConfigPath, "configuration file")
	host := flags.String("host", "", "listen host (overrides sandbox.host)")
	port := flags.Int("port", 0, "listen port (overrides sandbox.port)")
	dbPath := flags.String("db", "", `database path, ":memory:" for an in-memory database (overrides sandbox.db_path)`)
	reset := flags.Bool("reset", false, "delete every account and content before serving")
	logLevel := flags.String("log-level", "info", "log level: debug, info, warn, error")
	if err := flags.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(*configPath, flags.Changed("config"))
	if err != nil {
		return err
	}
	if err := config.ApplyEnv(cfg); err != nil {
		return err
	}
	if *host != "" {
		cfg.Sandbox.Host = *host
	}
	if *port != 0 {
		cfg.Sandbox.Port = *port
	}
	if *dbPath != "" {
		cfg.Sandbox.DBPath = *dbPath
	}
	if cfg.Sandbox.DBPath == ":memory:" {
		cfg.Sandbox.DBPath = ""
	}
	if flags.Changed("log-level") || os.Getenv(config.EnvLogLevel) == "" {
		cfg.Logging.Level = *logLevel
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Sync()

	database, err := db.New(cfg.Sandbox.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	sb, err := sandbox.New(database, cfg.Sandbox, logger)
	if err != nil {
		database.Close()
		return fmt.Errorf("failed to initialize sandbox: %w", err)
	}
	if *reset {
		if err := sb.Reset(); err != nil {
			sb.Close()
			return err
		}
	}
	if _, err := sb.Seed(); err != nil {
		sb.Close()
		return fmt.Errorf("failed to seed sandbox: %w", err)
	}

	server := api.NewServer(sb, &cfg.Sandbox, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		sb.Close()
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Stop(shutdownCtx); err != nil {
		logger.Error("shutdown failed", zap.Error(err))
		return err
	}
	logger.Info("server shutdown complete")
	return nil
}
