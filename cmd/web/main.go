package main

import (
	"fmt"
	"net"
	"os"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/clearops/ticketlens/pkg/server"
	"github.com/clearops/ticketlens/pkg/services/ai"
	"github.com/clearops/ticketlens/pkg/services/config"
	"github.com/clearops/ticketlens/pkg/services/report"
	"github.com/clearops/ticketlens/pkg/services/retention"
	"github.com/clearops/ticketlens/pkg/store/files"
	"github.com/clearops/ticketlens/pkg/store/sqlite"
	reportstore "github.com/clearops/ticketlens/pkg/store/sqlite/report"
)

var cfgPath string

func main() {
	var rootCmd = &cobra.Command{
		Use:   "web",
		Short: "Start the ticketlens report server",
		RunE:  runServer,
	}

	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", "",
		"Path to the server config file (defaults apply when omitted)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Error loading .env file: %v\n", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	ctx := logger.WithContext(cmd.Context())

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	fileStore, err := files.NewStore(cfg.UploadDir, cfg.ReportDir)
	if err != nil {
		return fmt.Errorf("failed to create file store: %w", err)
	}

	db, err := sqlite.NewDB(sqlite.Settings{DbPath: cfg.DBPath})
	if err != nil {
		return fmt.Errorf("failed to open report db: %w", err)
	}
	defer db.Close()

	reports, err := reportstore.NewStore(db)
	if err != nil {
		return fmt.Errorf("failed to create report store: %w", err)
	}

	generator, err := ai.NewAnthropicGenerator(ai.Config{
		APIKey: os.Getenv("ANTHROPIC_API_KEY"),
		Model:  cfg.Model,
	})
	if err != nil {
		return fmt.Errorf("failed to create narrative generator: %w", err)
	}

	controller := report.NewController(fileStore, reports, generator, cfg.MaxRows)

	sweeper := retention.NewSweeper(fileStore, reports, cfg.Retention())
	scheduler := cron.New()
	if _, err := scheduler.AddFunc("@hourly", func() { sweeper.Run(ctx) }); err != nil {
		return fmt.Errorf("failed to schedule retention sweep: %w", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	addr := cfg.Addr
	if host, port := os.Getenv("SERVER_HOST"), os.Getenv("SERVER_PORT"); host != "" && port != "" {
		addr = net.JoinHostPort(host, port)
	}

	api := server.NewWebAPI(logger, server.Config{
		Addr: addr,
		Dependencies: server.Dependencies{
			Controller: controller,
			Files:      fileStore,
			Reports:    reports,
			MaxUpload:  cfg.MaxUploadBytes,
			Logger:     logger,
		},
	})

	return api.Start()
}
