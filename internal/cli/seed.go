package cli

import (
	"context"
	"fmt"
	"log"

	"olympiad-service/internal/config"
	"olympiad-service/internal/domain"
	pgloader "olympiad-service/internal/infra/postgres"
	"olympiad-service/internal/infra/yamlbank"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/spf13/cobra"
)

// BankSaver stores a validated bank.
type BankSaver interface {
	SaveBank(ctx context.Context, bank domain.Bank) error
}

// NewSeedCmd imports YAML banks into Postgres. Without --dir it imports the
// embedded samples.
func NewSeedCmd(configPath *string) *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Import YAML question banks into Postgres",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if cfg.Postgres.URL == "" {
				return fmt.Errorf("postgres url not configured")
			}
			pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
			if err != nil {
				return err
			}
			defer pool.Close()

			source := yamlbank.NewSampleLoader()
			if dir != "" {
				source = yamlbank.NewDirLoader(dir)
			}
			n, err := seedBanks(ctx, source, pgloader.NewBankLoader(pool))
			if err != nil {
				return err
			}
			log.Printf("seeded %d banks", n)
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "directory of <bank-id>.yaml files")
	return cmd
}

func seedBanks(ctx context.Context, source *yamlbank.Loader, dst BankSaver) (int, error) {
	ids, err := source.IDs()
	if err != nil {
		return 0, err
	}
	for _, id := range ids {
		bank, err := source.LoadBank(ctx, id)
		if err != nil {
			return 0, err
		}
		if err := dst.SaveBank(ctx, bank); err != nil {
			return 0, fmt.Errorf("save bank %s: %w", id, err)
		}
	}
	return len(ids), nil
}
