package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"monochrome/internal/config"
	"monochrome/internal/ui"
)

var configPath string

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "monochrome",
		Short: "Random monochrome admin color schemes, one per user",
		Long: `monochrome gives every user a dark admin color scheme built from a single
random base color. The base is turned into a six-color palette and rendered
as a scoped admin stylesheet.

Quick start:
  monochrome hash-password          # Hash a password for users.json
  monochrome users add alice        # Add a user
  monochrome serve                  # Start the palette API
  monochrome generate               # Preview a random palette`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&configPath, "config", "config.json", "path to config.json")

	cmd.AddCommand(serveCmd())
	cmd.AddCommand(generateCmd())
	cmd.AddCommand(cssCmd())
	cmd.AddCommand(resetCmd())
	cmd.AddCommand(hashPasswordCmd())
	cmd.AddCommand(usersCmd())

	return cmd
}

// loadConfig reads config.json and the environment, then applies the log level
func loadConfig() *config.Config {
	cfg := config.LoadFrom(configPath)
	ui.SetLevel(cfg.Env.LogLevel)
	return cfg
}

func main() {
	// Missing .env is fine; production sets real env vars
	_ = godotenv.Load()

	if err := rootCmd().Execute(); err != nil {
		ui.LogStatus("error", err.Error())
		os.Exit(1)
	}
}
