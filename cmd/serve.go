package cmd

import (
	"github.com/spf13/cobra"

	"github.com/benedict-erwin/auth-gateway/config"
	"github.com/benedict-erwin/auth-gateway/internal/app"
	"github.com/benedict-erwin/auth-gateway/pkg/logger"
	"github.com/benedict-erwin/auth-gateway/server"
)

var (
	portFlag    int
	serviceFlag string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the auth-service",
	Long:  `Starts the auth-service: registration, login and token validation`,
	Run: func(cmd *cobra.Command, args []string) {
		runServer(config.ModeAuth)
	},
}

var gatewayCmd = &cobra.Command{
	Use:   "gateway",
	Short: "Start the gateway",
	Long:  `Starts the gateway: verifies bearer tokens and forwards account routes to the auth-service`,
	Run: func(cmd *cobra.Command, args []string) {
		runServer(config.ModeGateway)
	},
}

var devCmd = &cobra.Command{
	Use:   "dev",
	Short: "Start a service without overseer",
	Long:  `Development mode for hot reload. Serves the auth-service unless --service gateway is given.`,
	Run: func(cmd *cobra.Command, args []string) {
		runServer(serviceFlag)
	},
}

func init() {
	for _, c := range []*cobra.Command{serveCmd, gatewayCmd, devCmd} {
		c.Flags().IntVarP(&portFlag, "port", "p", 0, "Listen port (default: app.port)")
	}
	devCmd.Flags().StringVarP(&serviceFlag, "service", "s", config.ModeAuth, "Service role: auth-service or gateway")
}

// runServer builds the dependencies of mode and serves until a shutdown signal
func runServer(mode string) {
	log := logger.WithScope("serveCmd")
	cfg := config.Get()

	deps, err := app.New(cfg, mode)
	if err != nil {
		log.Fatal().Err(err).Str("service", mode).Msg("Failed to initialize dependencies")
	}

	port := cfg.App.Port
	if portFlag > 0 {
		port = portFlag
	}

	if err := server.Start(port, deps); err != nil {
		log.Error().Err(err).Msg("Failed to start server")
	}
}
