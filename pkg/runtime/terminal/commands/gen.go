package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xam-health/equity-atlas/pkg/services/synthetic"
	"github.com/xam-health/equity-atlas/pkg/store/duckdb"
	"github.com/xam-health/equity-atlas/pkg/store/duckdb/observation"
)

type GenCmd struct {
	dbPath  string
	records int
	seed    int64
	batch   int
}

func NewGenCmd() *cobra.Command {
	gc := &GenCmd{}
	cmd := &cobra.Command{
		Use:   "gen",
		Short: "Generate a synthetic health observation dataset",
		RunE:  gc.run,
	}

	cmd.Flags().StringVar(&gc.dbPath, "db", "equity-atlas.db", "Path to the DuckDB database file")
	cmd.Flags().IntVar(&gc.records, "records", 100000, "Number of patient records to generate")
	cmd.Flags().Int64Var(&gc.seed, "seed", 42, "Random seed; the same seed always yields the same dataset")
	cmd.Flags().IntVar(&gc.batch, "batch", 5000, "Insert batch size")

	return cmd
}

func (gc *GenCmd) run(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	db, err := duckdb.NewDB(duckdb.Settings{DbPath: gc.dbPath})
	if err != nil {
		return fmt.Errorf("failed to open DuckDB at %s: %w", gc.dbPath, err)
	}
	defer db.Close()

	store, err := observation.NewStore(db)
	if err != nil {
		return fmt.Errorf("failed to create observation store: %w", err)
	}

	generator := synthetic.NewGenerator(store, synthetic.Options{
		Records:   gc.records,
		Seed:      gc.seed,
		BatchSize: gc.batch,
	})

	written, err := generator.Generate(ctx)
	if err != nil {
		return fmt.Errorf("generation failed after %d records: %w", written, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d synthetic records to %s\n", written, gc.dbPath)
	return nil
}
