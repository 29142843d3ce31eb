package cmd

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/chicbot/chicbot/internal/config"
)

var cfg config.Config

var rootCmd = &cobra.Command{
	Use:   "chicbot",
	Short: "Conversational shopping assistant client",
	Long: `ChicBot is a conversational shopping assistant. This client keeps
multi-conversation chat history durable across runs and talks to the ChicBot
backend over HTTP. One request is in flight at a time; history stays readable
and exportable even while the backend is unreachable.`,
	PersistentPreRun: loadRootConfig,
}

func Execute() error {
	return rootCmd.Execute()
}

func loadRootConfig(_ *cobra.Command, _ []string) {
	// Load .env file
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg = config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
}
