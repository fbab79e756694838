package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/atelier-numerique/agency-api/pkg/logger"
)

// bootLog reports what happens before the configured logger exists.
var bootLog = logger.New(logger.Options{Output: os.Stderr, Service: "agency-api"})

var rootCmd = &cobra.Command{
	Use:   "agency",
	Short: "Agency website API",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		loadDotEnv(bootLog)
	},
	SilenceUsage: true,
}

// loadDotEnv reads .env from the working directory. Real environment
// variables win over .env entries.
func loadDotEnv(log zerolog.Logger) {
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("no .env file loaded, using the environment only")
	}
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		bootLog.Fatal().Err(err).Msg("command failed")
	}
}
