package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"deliverytariff/internal/db"
)

func migrateCmd() *cobra.Command {
	var seed bool
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create the tariff settings tables",
		Long: `Create the region and city override tables if they do not exist.

With --seed every region of the embedded catalog is upserted as an active,
carrier-priced region. Operator edits to prices and flags are overwritten.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := openEnv(ctx, true)
			if err != nil {
				return err
			}
			defer e.Close()

			if err := db.EnsureSchema(ctx, e.pool); err != nil {
				return fmt.Errorf("ensure schema: %w", err)
			}
			fmt.Println("schema ready")
			if !seed {
				return nil
			}
			regions := e.catalog.StaticRegions()
			for _, r := range regions {
				if err := e.store.UpsertRegion(ctx, r); err != nil {
					return fmt.Errorf("seed region %s: %w", r.Code, err)
				}
			}
			fmt.Printf("seeded %d regions\n", len(regions))
			return nil
		},
	}
	cmd.Flags().BoolVar(&seed, "seed", false, "upsert the embedded region catalog")
	return cmd
}
