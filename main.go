package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/BrenoBalsini/ultimate-praia-sub000/api/handlers"
	"github.com/BrenoBalsini/ultimate-praia-sub000/api/scheduler"
	"github.com/BrenoBalsini/ultimate-praia-sub000/config"
	"github.com/BrenoBalsini/ultimate-praia-sub000/databases"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "ultimate-praia",
		Short:        "Lifeguard station administration API",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context())
		},
	}
	root.AddCommand(newServeCmd(), newSweepCmd(), newDigestCmd())
	return root
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API, the live feed and the scheduled jobs",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context())
		},
	}
}

func newSweepCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Delete solicitacoes whose items were all delivered",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withScheduler(cmd.Context(), func(ctx context.Context, s *scheduler.Scheduler) error {
				n, err := s.SweepSolicitacoes(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "removed %d solicitacoes\n", n)
				return nil
			})
		},
	}
}

func newDigestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "digest",
		Short: "Email the open faltas and alteracoes now",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withScheduler(cmd.Context(), func(ctx context.Context, s *scheduler.Scheduler) error {
				sent, err := s.SendDigest(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "digest sent: %t\n", sent)
				return nil
			})
		},
	}
}

func serve(parent context.Context) error {
	ctx, stop := signal.NotifyContext(contextOrBackground(parent), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := handlers.App{}
	a.Config = *config.New()

	if err := a.Initialize(ctx); err != nil { //initialize database and router
		return err
	}

	jobs := scheduler.NewScheduler(a.Config, a.DB(), scheduler.NewSendGridMailer(a.Config.SendGridAPIKey, a.Config.DigestFrom))
	if err := jobs.Start(); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%v", a.Config.Port),
		Handler:           a.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		zap.S().Infow("ultimate-praia is up and running",
			"port", a.Config.Port,
			"url", a.Config.BaseURL,
		)
		errCh <- srv.ListenAndServe()
	}()

	var serveErr error
	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			serveErr = err
		}
	case <-ctx.Done():
		zap.S().Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	jobs.Stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zap.S().Errorw("http shutdown failed", "error", err)
	}
	if err := a.Close(shutdownCtx); err != nil {
		zap.S().Errorw("failed to disconnect database", "error", err)
	}
	return serveErr
}

// withScheduler connects to the database and runs a single job outside the cron loop
func withScheduler(parent context.Context, run func(context.Context, *scheduler.Scheduler) error) error {
	ctx, cancel := context.WithTimeout(contextOrBackground(parent), 2*time.Minute)
	defer cancel()

	conf := config.New()
	client, err := databases.NewClient(conf)
	if err != nil {
		return err
	}
	if err := client.Connect(ctx); err != nil {
		return err
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			zap.S().Errorw("failed to disconnect database", "error", err)
		}
	}()

	s := scheduler.NewScheduler(*conf, databases.NewDatabase(conf, client), scheduler.NewSendGridMailer(conf.SendGridAPIKey, conf.DigestFrom))
	return run(ctx, s)
}

func contextOrBackground(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
