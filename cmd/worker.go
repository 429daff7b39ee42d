package cmd

import (
	"os"
	"os/signal"
	"sort"
	"strconv"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/benedict-erwin/auth-gateway/config"
	"github.com/benedict-erwin/auth-gateway/internal/jobs"
	asynqPkg "github.com/benedict-erwin/auth-gateway/pkg/asynq"
	"github.com/benedict-erwin/auth-gateway/pkg/influxdb"
	"github.com/benedict-erwin/auth-gateway/pkg/logger"
	"github.com/benedict-erwin/auth-gateway/pkg/maxmind"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Manage the audit event worker",
	Long:  `Manage the Asynq worker that records authentication events`,
}

// Subcommands
var (
	workerStartCmd = &cobra.Command{
		Use:   "start",
		Short: "Start the audit event worker",
		Long:  `Start Asynq worker to process auth events`,
		Run: func(cmd *cobra.Command, args []string) {
			startWorker()
		},
	}

	workerStatusCmd = &cobra.Command{
		Use:   "status",
		Short: "Show queue weights and registered jobs",
		Run: func(cmd *cobra.Command, args []string) {
			showStatus()
		},
	}
)

func init() {
	workerCmd.AddCommand(workerStartCmd)
	workerCmd.AddCommand(workerStatusCmd)
}

// startWorker initializes and starts the Asynq worker server with graceful shutdown
func startWorker() {
	// Setup logger scope
	log := logger.WithScope("startWorker")
	cfg := config.Get()

	// GeoIP enrichment is optional
	if err := maxmind.Init(cfg.GeoIP); err != nil {
		log.Warn().Err(err).Msg("GeoIP unavailable, auth events are not geolocated")
	}
	defer maxmind.Close()

	// InfluxDB storage is optional, a broken configuration is not
	if err := influxdb.Init(cfg.InfluxDB); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize InfluxDB")
	}
	defer influxdb.Close()

	server := asynqPkg.InitServer(cfg)
	mux := asynq.NewServeMux()

	// Register handlers (ignore returned job metadata in worker context)
	if _, err := jobs.RegisterHandlers(mux); err != nil {
		log.Fatal().Err(err).Msg("Failed to register job handlers")
	}

	// Start server
	if err := server.Start(mux); err != nil {
		log.Fatal().Err(err).Msg("Failed to start worker server")
	}
	log.Info().Msg("Asynq worker server started")

	// Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	log.Info().Str("signal", sig.String()).Msg("Received shutdown signal, waiting for running tasks to complete (max 30s)...")

	// Shutdown waits for tasks to finish
	asynqPkg.CloseServer()

	log.Info().Msg("Worker server stopped gracefully")
}

// showStatus prints the queue weights and the jobs the worker would register
func showStatus() {
	queues := asynqPkg.GenerateQueues()
	names := make([]string, 0, len(queues))
	for name := range queues {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return queues[names[i]] > queues[names[j]] })

	table := tablewriter.NewWriter(os.Stdout)
	table.Header([]string{"Queue", "Weight"})
	for _, name := range names {
		table.Append([]string{name, strconv.Itoa(queues[name])})
	}
	table.Render()

	registered, err := jobs.GetRegisteredJobs()
	if err != nil {
		logger.WithScope("workerStatus").Error().Err(err).Msg("Invalid job registration")
		return
	}

	table = tablewriter.NewWriter(os.Stdout)
	table.Header([]string{"Task type", "Queue"})
	for _, job := range registered {
		table.Append([]string{job.TaskType, job.Queue})
	}
	table.Render()
}
