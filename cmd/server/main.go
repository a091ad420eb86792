package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	config "github.com/maheshrc27/contentdesk/configs"
	"github.com/maheshrc27/contentdesk/internal/logger"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "contentdesk",
	Short: "Marketing content dashboard API",
	Long: `contentdesk serves the marketing dashboard: posts, brand guidelines and
writing prompts stored in Airtable, plus the n8n workflows that generate them.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.AddCommand(serveCmd, checkCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads .env first so viper sees its values as environment.
func loadConfig() (*config.Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.GetLogger().WithError(err).Warn("Failed to load .env file")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	logger.SetLevel(cfg.LogLevel)
	return cfg, nil
}
