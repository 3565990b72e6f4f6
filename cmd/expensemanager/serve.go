package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/bher20/expensemanager/internal/api"
	"github.com/bher20/expensemanager/internal/config"
	"github.com/bher20/expensemanager/internal/cron"
	"github.com/bher20/expensemanager/internal/events"
	"github.com/bher20/expensemanager/internal/expense"
	"github.com/bher20/expensemanager/internal/logging"
	"github.com/bher20/expensemanager/internal/notification"
	"github.com/bher20/expensemanager/internal/service"
	"github.com/bher20/expensemanager/internal/storage"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and, when enabled, the summary worker",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg, logging.Setup(cfg.Logging()))
		},
	}
}

func serve(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("expensemanager starting", "config", cfg)

	st, err := storage.Open(ctx, cfg.Storage(), logger)
	if err != nil {
		return err
	}
	defer st.Close()

	mgr, err := expense.New(ctx, st, logger)
	if err != nil {
		return err
	}

	pub, err := newPublisher(cfg, logger)
	if err != nil {
		return err
	}
	defer pub.Close()

	svc := service.New(mgr, pub, logger)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           api.NewMux(svc, st, logger),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("expensemanager listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		logger.Info("shutting down http server")
		return srv.Shutdown(shutdownCtx)
	})

	if cfg.ReportEnabled {
		worker, err := cron.NewWorker(svc, notification.FromConfig(cfg.Notification(), logger), cfg.ReportSchedule, logger)
		if err != nil {
			stop()
			_ = g.Wait()
			return err
		}
		if locker, ok := st.(cron.Locker); ok {
			worker.WithLocker(locker)
		}
		g.Go(func() error { return worker.Run(gctx) })
	}

	return g.Wait()
}

func newPublisher(cfg config.Config, logger *slog.Logger) (events.Publisher, error) {
	if cfg.AMQPURL == "" {
		return events.Nop{}, nil
	}
	return events.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange, logger)
}
