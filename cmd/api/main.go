package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/minecomplyapp-user/minecomplyapp-sub001/internal/app"
	"github.com/minecomplyapp-user/minecomplyapp-sub001/internal/config"
	"github.com/minecomplyapp-user/minecomplyapp-sub001/internal/draft"
	"github.com/minecomplyapp-user/minecomplyapp-sub001/internal/export"
	"github.com/minecomplyapp-user/minecomplyapp-sub001/internal/remote"
	"github.com/minecomplyapp-user/minecomplyapp-sub001/internal/report"
	"github.com/minecomplyapp-user/minecomplyapp-sub001/internal/submission"
)

var cfgPath string

func main() {
	rootCmd := &cobra.Command{
		Use:   "cmvr-engine",
		Short: "Serve the CMVR report drafting and submission engine",
		RunE:  runServer,
	}
	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", "",
		"Path to a config file (default is $CMVR_CONFIG, then built-in defaults)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}

	logger := newLogger(cfg.LogLevel)
	ctx := logger.WithContext(cmd.Context())

	backend, err := openDraftBackend(cfg.Drafts)
	if err != nil {
		return err
	}
	defer backend.Close()
	logger.Info().Str("backend", cfg.Drafts.Backend).Msg("draft store ready")

	archive, err := openArchive(ctx, cfg.Archive)
	if err != nil {
		return err
	}

	drafts := draft.NewStore(backend, cfg.Drafts.Prefix)
	reports := report.NewStore(drafts)
	client := remote.NewClient(cfg.API.BaseURL, cfg.API.Token, cfg.API.Timeout)
	workflow := submission.NewWorkflow(reports, drafts, client, export.BrowserOpener{}, archive)

	httpServer := app.NewHTTPServer(logger, app.Dependencies{
		Reports:  reports,
		Drafts:   drafts,
		Workflow: workflow,
	}, cfg.CORSOrigin)
	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           httpServer.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      cfg.API.Timeout + 15*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", cfg.Addr).Str("api", cfg.API.BaseURL).Msg("CMVR engine listening")
		serverErrors <- server.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-sigCh:
		logger.Info().Msg("shutdown initiated")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
		return server.Close()
	}
	return nil
}

func newLogger(level string) zerolog.Logger {
	parsed, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || parsed == zerolog.NoLevel {
		parsed = zerolog.InfoLevel
	}
	return zerolog.New(os.Stdout).Level(parsed).With().Timestamp().Logger()
}

func openDraftBackend(cfg config.DraftConfig) (draft.Backend, error) {
	switch cfg.Backend {
	case config.DraftBackendRedis:
		backend, err := draft.NewRedisBackend(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("redis connection failed: %w", err)
		}
		return backend, nil
	default:
		backend, err := draft.NewSQLiteBackend(cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("sqlite draft store failed: %w", err)
		}
		return backend, nil
	}
}

// openArchive returns nil when no archive is configured.
func openArchive(ctx context.Context, cfg config.ArchiveConfig) (export.Archive, error) {
	switch {
	case strings.TrimSpace(cfg.MinioEndpoint) != "":
		archive, err := export.NewMinioArchive(ctx, export.MinioConfig{
			Endpoint:  cfg.MinioEndpoint,
			AccessKey: cfg.MinioAccessKey,
			SecretKey: cfg.MinioSecretKey,
			Bucket:    cfg.MinioBucket,
			UseSSL:    cfg.MinioUseSSL,
		})
		if err != nil {
			return nil, fmt.Errorf("document archive: %w", err)
		}
		zerolog.Ctx(ctx).Info().Str("bucket", cfg.MinioBucket).Msg("archiving documents to object storage")
		return archive, nil
	case strings.TrimSpace(cfg.Dir) != "":
		zerolog.Ctx(ctx).Info().Str("dir", cfg.Dir).Msg("archiving documents to disk")
		return export.DirArchive{Root: cfg.Dir}, nil
	default:
		return nil, nil
	}
}
