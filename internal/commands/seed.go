package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"finbook/internal/config"
	"finbook/internal/restapi"
	"finbook/internal/seed"
	"finbook/internal/services"
)

func newSeedCommand() *cobra.Command {
	var (
		userID  string
		txCount int
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Fill the data store with demo records for a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			if err := cfg.Validate(); err != nil {
				return err
			}
			uid, err := resolveUserID(cfg, userID)
			if err != nil {
				return err
			}

			api, err := restapi.New(cfg.APIBaseURL, cfg.APITimeout)
			if err != nil {
				return fmt.Errorf("init data store client: %w", err)
			}

			categories := services.NewCategoryService(api)
			seeder := seed.New(
				services.NewTransactionService(api, categories, nil),
				categories,
				services.NewBudgetService(api),
				services.NewGoalService(api),
			)
			return seeder.Run(cmd.Context(), uid, txCount)
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "user id to seed records for")
	cmd.Flags().IntVar(&txCount, "transactions", 120, "number of transactions to create")

	return cmd
}
