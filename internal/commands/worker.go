package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"finbook/internal/amqp"
	"finbook/internal/config"
	"finbook/internal/restapi"
	"finbook/internal/services"
	"finbook/internal/worker"
)

func newWorkerCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "worker",
		Short: "Run the category counter reconcile worker",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			if err := cfg.Validate(); err != nil {
				return err
			}

			api, err := restapi.New(cfg.APIBaseURL, cfg.APITimeout)
			if err != nil {
				return fmt.Errorf("init data store client: %w", err)
			}

			amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
			if err != nil {
				return fmt.Errorf("connect AMQP: %w", err)
			}
			defer amqpClient.Close()

			w := worker.NewReconcileWorker(services.NewCategoryService(api), amqpClient)

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			go func() {
				sigChan := make(chan os.Signal, 1)
				signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
				sig := <-sigChan
				slog.Info("Shutdown signal received", "signal", sig.String())
				cancel()
			}()

			return w.Run(ctx)
		},
	}
}
