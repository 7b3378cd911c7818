package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/hkjobs/internal/buildinfo"
	"github.com/dmitrijs2005/hkjobs/internal/client/cache"
	"github.com/dmitrijs2005/hkjobs/internal/client/cli"
	"github.com/dmitrijs2005/hkjobs/internal/client/client"
	"github.com/dmitrijs2005/hkjobs/internal/client/config"
	"github.com/dmitrijs2005/hkjobs/internal/client/services"
	"github.com/dmitrijs2005/hkjobs/internal/client/session"
	"github.com/dmitrijs2005/hkjobs/internal/client/storage"
	"github.com/dmitrijs2005/hkjobs/internal/logging"
)

func main() {
	buildinfo.PrintBuildData(os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	go func() {
		<-ctx.Done()
		// The REPL exits at its next prompt; a second signal kills the process.
		stop()
		fmt.Fprintln(os.Stderr, "\nInterrupted. Press Enter to quit.")
	}()

	if err := run(ctx, config.LoadConfig()); err != nil {
		log.Fatalf("%v", err)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	logger, err := logging.New(os.Stderr, cfg.LogLevel)
	if err != nil {
		return err
	}

	db, err := storage.Open(ctx, cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("error initializing database: %w", err)
	}
	defer db.Close()

	opts := client.Options{
		Doer: &http.Client{Timeout: cfg.RequestTimeout},
		Retry: client.RetryPolicy{
			Attempts:  cfg.RetryAttempts,
			BaseDelay: cfg.RetryBaseDelay,
			MaxDelay:  cfg.RetryMaxDelay,
		},
		Logger: logger,
	}

	refresher, err := client.NewTokenRefresher(cfg.BaseURL, opts)
	if err != nil {
		return err
	}

	sess := session.NewManager(session.NewMetadataStore(db), refresher, logger.With("component", "session"), cfg.RefreshTimeout)
	if err := sess.Load(ctx); err != nil {
		// A broken stored session only means logging in again.
		logger.Warn(ctx, "stored session ignored", "error", err)
	}

	api, err := client.NewRESTClient(cfg.BaseURL, sess, opts)
	if err != nil {
		return err
	}

	c := cache.New(cfg.CacheTTL)
	defer services.ClearCacheOnSessionEnd(sess, c)()
	if cfg.CacheTTL > 0 {
		go c.RunCleanup(ctx, cfg.CacheTTL)
	}

	app := cli.NewApp(cfg, sess, cli.Services{
		Auth:     services.NewAuthService(api, sess, db),
		Jobs:     services.NewJobService(api, c),
		Tracker:  services.NewTrackerService(api, c),
		Document: services.NewDocumentService(api),
		Profile:  services.NewProfileService(api, c),
	})
	app.Run(ctx)
	return nil
}
