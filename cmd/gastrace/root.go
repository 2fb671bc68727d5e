package main

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// config carries the service settings, read from the environment. A .env
// file in the working directory is loaded when present.
type config struct {
	Address        string
	LogLevel       string
	EligibilityURL string
	InventoryURL   string
	TransferURL    string
	APIKey         string
	ClientTimeout  time.Duration
}

func loadConfig() config {
	_ = godotenv.Load()

	return config{
		Address:        getenv("GASTRACE_ADDRESS", ":8080"),
		LogLevel:       getenv("GASTRACE_LOG_LEVEL", "info"),
		EligibilityURL: getenv("GASTRACE_ELIGIBILITY_URL", "http://localhost:9091"),
		InventoryURL:   getenv("GASTRACE_INVENTORY_URL", "http://localhost:9092"),
		TransferURL:    getenv("GASTRACE_TRANSFER_URL", "http://localhost:9093"),
		APIKey:         os.Getenv("GASTRACE_API_KEY"),
		ClientTimeout:  10 * time.Second,
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "gastrace",
		Short:         "Gas-trace EAC matching and forward-delivery engine",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newServeCmd())
	root.AddCommand(newMatchCmd())

	return root
}
