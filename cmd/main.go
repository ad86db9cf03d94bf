package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "proposal-ai",
		Short: "Generate client proposals from project notes",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			loadEnv()
		},
		SilenceUsage: true,
	}
	root.PersistentFlags().String("config", ".", "Directory containing config.yaml")
	root.AddCommand(serveCmd(), generateCmd())
	return root
}

// loadEnv loads a .env file before viper reads the environment.
func loadEnv() {
	err := godotenv.Load()
	if err != nil {
		// It's common for .env to not exist (e.g., in production), so only log a warning
		// if the error is something other than "file not found".
		if !os.IsNotExist(err) {
			log.Printf("Warning: Error loading .env file: %v", err)
		} else {
			log.Println("Info: .env file not found, relying on system environment variables.")
		}
	} else {
		log.Println("Info: Loaded environment variables from .env file.")
	}
}
