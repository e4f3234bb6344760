package commands

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"finbook/internal/amqp"
	"finbook/internal/config"
	apphttp "finbook/internal/http"
	"finbook/internal/restapi"
	"finbook/internal/services"
	"finbook/internal/storage"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the dashboard JSON API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			if err := cfg.Validate(); err != nil {
				return err
			}

			api, err := restapi.New(cfg.APIBaseURL, cfg.APITimeout)
			if err != nil {
				return fmt.Errorf("init data store client: %w", err)
			}

			// AMQP is optional: without it mutations still reconcile inline.
			var events services.EventPublisher
			var amqpClient *amqp.Client
			if cfg.AMQPURL != "" {
				amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
				if err != nil {
					slog.Warn("AMQP unavailable, counter sync events disabled", "error", err)
				} else {
					events = amqpClient
					defer amqpClient.Close()
				}
			}

			mirror, err := storage.NewMirror(cfg.MirrorDBPath)
			if err != nil {
				return fmt.Errorf("init mirror: %w", err)
			}
			defer mirror.Close()

			categories := services.NewCategoryService(api)
			svc := apphttp.Services{
				Snapshots:    services.NewSnapshotLoader(api),
				Transactions: services.NewTransactionService(api, categories, events),
				Budgets:      services.NewBudgetService(api),
				Goals:        services.NewGoalService(api),
				Mirror:       mirror,
			}

			srv := apphttp.NewServer(":"+cfg.Port, svc, cfg.TrailingMonths)
			srv.ReadTimeout = 10 * time.Second
			srv.WriteTimeout = 10 * time.Second
			srv.IdleTimeout = 60 * time.Second
			srv.MaxHeaderBytes = 1 << 16 // 64KB

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			go func() {
				sigChan := make(chan os.Signal, 1)
				signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
				sig := <-sigChan
				slog.Info("Shutdown signal received", "signal", sig.String())

				shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer shutdownCancel()

				if err := srv.Shutdown(shutdownCtx); err != nil {
					slog.Error("Server shutdown error", "error", err)
				}
				cancel()
			}()

			slog.Info("Starting finbook server",
				"port", cfg.Port,
				"api_base_url", cfg.APIBaseURL)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				return fmt.Errorf("server error: %w", err)
			}

			<-ctx.Done()
			slog.Info("Server stopped gracefully")
			return nil
		},
	}
}
