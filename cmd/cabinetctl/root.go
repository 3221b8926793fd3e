package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"cabinets/internal/config"
	"cabinets/internal/domain/repositories"
	"cabinets/internal/events"
	"cabinets/internal/registry"
	"cabinets/internal/repository"
	"cabinets/internal/service"
)

// Global flag values
var (
	flagConfig  string
	flagActor   string
	flagJSON    bool
	flagVerbose bool
)

// Set by PersistentPreRunE for the subcommands
var (
	cfg       *config.Config
	store     *repositories.Store
	reg       *registry.Registry
	publisher events.Publisher
	svc       *service.Services
	logger    *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:               "cabinetctl",
	Short:             "Administer the cabinets store",
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: initStore,
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		closeStore()
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "config file (default: ./cabinetctl.yaml)")
	rootCmd.PersistentFlags().StringVar(&flagActor, "actor", "cabinetctl", "user ID recorded as the actor of events")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "log debug output to stderr")

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(treeCmd)
	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(renameCmd)
	rootCmd.AddCommand(moveCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(documentCmd)
	rootCmd.AddCommand(grantCmd)
	rootCmd.AddCommand(eventsCmd)
}

// initStore loads config, opens the backend and wires the admin services
func initStore(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	var err error
	cfg, err = loadConfig(flagConfig)
	if err != nil {
		return err
	}

	level := slog.LevelWarn
	if flagVerbose {
		level = slog.LevelDebug
	}
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	store, err = repository.Open(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}

	reg, err = registry.NewRegistry()
	if err != nil {
		return fmt.Errorf("load registry: %w", err)
	}

	publisher = events.NopPublisher{}
	if cfg.AMQPURL != "" {
		rabbit, err := events.NewRabbitPublisher(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			return fmt.Errorf("connect event publisher: %w", err)
		}
		publisher = rabbit
	}

	svc = service.SetupAdminServices(store, reg, publisher, logger)
	return nil
}

// closeStore releases the backend; safe to call more than once
func closeStore() {
	if publisher != nil {
		_ = publisher.Close()
		publisher = nil
	}
	if store != nil {
		store.Close()
		store = nil
	}
}
