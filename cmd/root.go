package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/benedict-erwin/auth-gateway/config"
	"github.com/benedict-erwin/auth-gateway/pkg/logger"
	"github.com/benedict-erwin/auth-gateway/pkg/utils"
)

var rootCmd = &cobra.Command{
	Use:   "auth-gateway",
	Short: "JWT auth-service and gateway",
	Long:  `Issues HS256 bearer tokens (auth-service) and verifies them in front of protected routes (gateway)`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		initApp()
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logger.Error().Err(err).Msg("Failed to execute command")
		os.Exit(1)
	}
}

// initApp loads configuration and sets up logging. A bad configuration stops the process.
func initApp() {
	// Initialize config
	if err := config.Init(); err != nil {
		panic(err)
	}
	cfg := config.Get()

	// Initialize logger
	logger.Init(cfg.App.Timezone, cfg.App.Env, cfg.App.LogLevel)

	// Initialize utils
	if err := utils.InitTimezone(cfg.App.Timezone); err != nil {
		logger.Error().Err(err).Str("timezone", cfg.App.Timezone).Msg("Timezone initialization failed")
		panic(err)
	}
}

// init registers commands
func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(gatewayCmd)
	rootCmd.AddCommand(devCmd)
	rootCmd.AddCommand(workerCmd)
	rootCmd.AddCommand(tokenCmd)
	rootCmd.AddCommand(userCmd)
}
