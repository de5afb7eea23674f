package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/gyeh/caselog/internal/db"
	"github.com/gyeh/caselog/internal/exitcode"
	"github.com/gyeh/caselog/internal/jobstore"
	"github.com/gyeh/caselog/internal/logging"
	"github.com/gyeh/caselog/internal/normalize"
	"github.com/gyeh/caselog/internal/reference"
	"github.com/gyeh/caselog/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the standardization job API server",
	RunE:  runServe,
}

func init() {
	f := serveCmd.Flags()
	f.StringVar(&cfg.Addr, "addr", ":8080", "Listen address")
	f.StringVar(&cfg.UploadDir, "upload-dir", os.TempDir(), "Directory for uploaded files")
	f.IntVar(&cfg.Year, "year", normalize.DefaultYear, "Year assumed for dates that omit one")
	f.BoolVar(&cfg.NoAI, "no-ai", false, "Disable oracle calls (rules-only mapping, no prediction)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	log := logging.SetupWithLevel(cfg.LogFormat, cfg.LogLevel)
	ctx := context.Background()
	cfg.LoadEnv()

	if err := cfg.ValidateServe(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}

	ref, err := reference.Load(cfg.CPTRefPath, log)
	if err != nil {
		log.Error().Err(err).Msg("cpt reference load failed")
		os.Exit(exitcode.ValidationError)
	}

	// Jobs live in memory unless a DSN is configured.
	var jobs jobstore.Store = jobstore.NewMemory()
	if cfg.DSN != "" {
		pool, err := db.NewPool(ctx, cfg.DSN)
		if err != nil {
			log.Error().Err(err).Msg("database connection failed")
			os.Exit(exitcode.DBConnError)
		}
		defer pool.Close()
		if err := db.ApplyMigrations(ctx, pool, log); err != nil {
			log.Error().Err(err).Msg("migration failed")
			os.Exit(exitcode.DBConnError)
		}
		jobs = jobstore.NewPostgres(pool)
		log.Info().Msg("using postgres job store")
	}

	client := newOracleClient(log)
	svc := &server.Service{
		Jobs:      jobs,
		Oracle:    client,
		Semantic:  semanticMapper(client),
		Ref:       ref,
		UploadDir: cfg.UploadDir,
		Year:      cfg.Year,
		Log:       log,
	}
	e := server.New(server.NewHandler(svc, ref), log)

	go func() {
		log.Info().Str("addr", cfg.Addr).Msg("starting server")
		if err := e.Start(cfg.Addr); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
	log.Info().Msg("server stopped")
	return nil
}
