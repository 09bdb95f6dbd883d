package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ovaphlow/pitchfork/service-catalog-go-stdlib/internal/auth"
	"github.com/ovaphlow/pitchfork/service-catalog-go-stdlib/internal/router"
	userrepo "github.com/ovaphlow/pitchfork/service-catalog-go-stdlib/internal/user/repo"
	"github.com/ovaphlow/pitchfork/service-catalog-go-stdlib/pkg/database"
	"github.com/ovaphlow/pitchfork/service-catalog-go-stdlib/pkg/utilities"
)

const defaultHTTPAddr = "0.0.0.0:8431"

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API (default).",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(parent context.Context) error {
	sugar, flush, err := newLogger()
	if err != nil {
		return err
	}
	defer flush()
	sugar.Info("starting service-catalog-go-stdlib")

	authCfg := auth.ConfigFromEnv()
	if err := authCfg.Validate(); err != nil {
		sugar.Errorw("invalid auth config", "err", err)
		return err
	}

	db, err := openDB()
	if err != nil {
		sugar.Errorw("database unavailable", "err", err)
		return err
	}
	defer db.Close()

	if autoMigrate() {
		if err := database.Migrate(parent, db.DB); err != nil {
			sugar.Errorw("migration failed", "err", err)
			return err
		}
		sugar.Info("migrations applied")
	}

	authSvc, err := auth.NewService(authCfg, userrepo.NewUserRepo(db))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := os.Getenv("HTTP_ADDR")
	if addr == "" {
		addr = defaultHTTPAddr
	}
	srv := &http.Server{
		Addr: addr,
		Handler: router.RegisterRoutes(sugar, router.Deps{
			DB:   db,
			Auth: authSvc,
			IDs:  utilities.NewIDGeneratorFromEnv(),
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
	}()
	sugar.Infow("listening", "addr", addr, "alg", authSvc.Codec().Algorithm())

	select {
	case <-ctx.Done():
	case err := <-errc:
		sugar.Errorw("http server failed", "err", err)
		return err
	}

	sugar.Info("shutting down")

	// give a short grace period for in-flight requests
	doneCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(doneCtx); err != nil {
		sugar.Warnf("http server shutdown failed: %v", err)
	}

	sugar.Info("goodbye")
	return nil
}
