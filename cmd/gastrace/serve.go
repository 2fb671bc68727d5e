package main

import (
	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"

	"github.com/verdio/gastrace/gastrace/api"
	"github.com/verdio/gastrace/gastrace/client"
	"github.com/verdio/gastrace/gastrace/eac"
	"github.com/verdio/gastrace/gastrace/log"
	"github.com/verdio/gastrace/gastrace/server"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the matching engine HTTP service",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := loadConfig()

			level, err := log.ParseLevel(cfg.LogLevel)
			if err != nil {
				return err
			}

			logger, err := log.NewZap(level)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync(cmd.Context()) }()

			breakers := client.NewBreakerManager(client.DefaultBreakerConfig())

			eligibility := client.NewEligibility(client.Config{
				BaseURL: cfg.EligibilityURL,
				APIKey:  cfg.APIKey,
				Timeout: cfg.ClientTimeout,
			}, breakers, logger)

			inventory := client.NewInventory(client.Config{
				BaseURL: cfg.InventoryURL,
				APIKey:  cfg.APIKey,
				Timeout: cfg.ClientTimeout,
			}, breakers, logger)

			transfer := client.NewTransfer(client.Config{
				BaseURL: cfg.TransferURL,
				APIKey:  cfg.APIKey,
				Timeout: cfg.ClientTimeout,
			}, breakers, logger)

			handler := api.NewHandler(
				eac.NewGenerator(logger),
				eligibility,
				transfer,
				inventory,
				breakers,
				logger,
			)

			app := fiber.New(fiber.Config{
				AppName:               "gastrace",
				DisableStartupMessage: true,
			})
			handler.Register(app)

			logger.Log(cmd.Context(), log.LevelInfo, "starting server",
				log.String("address", cfg.Address))

			return server.NewRunner(app, cfg.Address, logger).Run(cmd.Context())
		},
	}
}
