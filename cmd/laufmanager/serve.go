package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"laufmanager.de/configs/configsdatabase"
	"laufmanager.de/configs/configslog"
	"laufmanager.de/routes"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), root)
		},
	}
}

func runServe(ctx context.Context, root *rootOptions) error {
	cfg := root.cfg
	if err := cfg.ValidateServe(); err != nil {
		return err
	}

	db, err := configsdatabase.InitDB(cfg.Database)
	if err != nil {
		return err
	}
	defer configsdatabase.CloseDB()

	deps, err := buildDependencies(cfg, db)
	if err != nil {
		return err
	}
	if !cfg.MailEnabled() {
		configslog.SLog.Warn("Mail delivery disabled: RESEND_API_KEY or NOTIFY_FROM_EMAIL missing. Messages are recorded only.")
	}

	app := routes.NewApp(deps)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		configslog.SLog.Infof("Listening on %s", cfg.Server.Addr)
		errCh <- app.Listen(cfg.Server.Addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	configslog.SLog.Info("Shutting down...")
	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		configslog.Log.Error("Graceful shutdown failed", zap.Error(err))
		return err
	}
	return nil
}
