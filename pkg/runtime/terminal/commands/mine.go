package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xam-health/equity-atlas/pkg/adapters"
	"github.com/xam-health/equity-atlas/pkg/models/domain"
	"github.com/xam-health/equity-atlas/pkg/runtime/terminal/export"
	"github.com/xam-health/equity-atlas/pkg/services/dataset"
	"github.com/xam-health/equity-atlas/pkg/services/mining"
	"github.com/xam-health/equity-atlas/pkg/store/duckdb"
	"github.com/xam-health/equity-atlas/pkg/store/duckdb/observation"
)

type MineCmd struct {
	dbPath        string
	disease       string
	year          int
	minSupport    float64
	minConfidence float64
	reporter      *export.Reporter
}

func NewMineCmd(reporter *export.Reporter) *cobra.Command {
	mc := &MineCmd{reporter: reporter}
	cmd := &cobra.Command{
		Use:   "mine",
		Short: "Mine association patterns for one disease and year",
		RunE:  mc.run,
	}

	cmd.Flags().StringVar(&mc.dbPath, "db", "equity-atlas.db", "Path to the DuckDB database file")
	cmd.Flags().StringVar(&mc.disease, "disease", "", "Disease to analyze (heart_disease, diabetes, cancer)")
	cmd.Flags().IntVar(&mc.year, "year", 0, "Year to analyze")
	cmd.Flags().Float64Var(&mc.minSupport, "min-support", 0, "Minimum support threshold")
	cmd.Flags().Float64Var(&mc.minConfidence, "min-confidence", 0, "Minimum confidence threshold")

	_ = cmd.MarkFlagRequired("disease")
	_ = cmd.MarkFlagRequired("year")

	return cmd
}

func (mc *MineCmd) run(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	scope, err := adapters.MapRequestScope(mc.disease, mc.year, nil)
	if err != nil {
		return err
	}

	db, err := duckdb.NewDB(duckdb.Settings{DbPath: mc.dbPath})
	if err != nil {
		return fmt.Errorf("failed to open DuckDB at %s: %w", mc.dbPath, err)
	}
	defer db.Close()

	store, err := observation.NewStore(db)
	if err != nil {
		return fmt.Errorf("failed to create observation store: %w", err)
	}

	miner := mining.NewMiner(dataset.NewRegistry(store), domain.DefaultMiningConfig())
	result, err := miner.Mine(ctx, scope, domain.MiningParams{
		MinSupport:    mc.minSupport,
		MinConfidence: mc.minConfidence,
	})
	if err != nil {
		return fmt.Errorf("mining failed: %w", err)
	}

	return mc.reporter.Handle(result)
}
