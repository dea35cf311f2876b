package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/xam-health/equity-atlas/pkg/server"
	"github.com/xam-health/equity-atlas/pkg/services/config"
	"github.com/xam-health/equity-atlas/pkg/services/dataset"
	"github.com/xam-health/equity-atlas/pkg/services/insight"
	"github.com/xam-health/equity-atlas/pkg/services/mining"
	"github.com/xam-health/equity-atlas/pkg/services/qa"
	"github.com/xam-health/equity-atlas/pkg/store/duckdb"
	"github.com/xam-health/equity-atlas/pkg/store/duckdb/observation"
)

var cfgPath string

func main() {
	var rootCmd = &cobra.Command{
		Use:   "web",
		Short: "Start the Equity Atlas web server",
		RunE:  runServer,
	}

	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", "",
		"Path to the YAML config file (default is ./equity-atlas.yaml)")

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

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	db, err := duckdb.NewDB(duckdb.Settings{
		DbPath: cfg.Dataset.DBPath,
	})
	if err != nil {
		return fmt.Errorf("failed to create DuckDB instance: %w", err)
	}

	observationStore, err := observation.NewStore(db)
	if err != nil {
		return fmt.Errorf("failed to create observation store: %w", err)
	}

	datasets := dataset.NewRegistry(observationStore)
	miner := mining.NewMiner(datasets, cfg.Mining)
	answerer := qa.NewAnswerer(datasets)

	narrator := insight.NewMLOnlyNarrator()
	if cfg.Narrator.Enabled {
		narrator = insight.NewGeminiNarrator(cfg.Narrator, narrator)
		logger.Info().Str("model", cfg.Narrator.Model).Msg("generative narrator enabled")
	}

	webAPI := server.NewWebAPI(logger, server.Config{
		Addr:            cfg.Server.Addr,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		Dependencies: server.Dependencies{
			Miner:    miner,
			Narrator: narrator,
			Datasets: datasets,
			Answerer: answerer,
			Logger:   logger,
		},
	})

	return webAPI.Start()
}
