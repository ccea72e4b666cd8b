package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"medassist/config"
	"medassist/store"
)

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run PostgreSQL schema migrations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			migrator, closeDB, err := openMigrator(cmd.Context())
			if err != nil {
				return err
			}
			defer closeDB()

			n, err := migrator.Up(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("Applied %d migration(s)\n", n)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			migrator, closeDB, err := openMigrator(cmd.Context())
			if err != nil {
				return err
			}
			defer closeDB()

			statuses, err := migrator.Status(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("%-8s %-30s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
			for _, s := range statuses {
				status, appliedAt := "pending", ""
				if s.Applied {
					status = "applied"
					appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
				}
				fmt.Printf("%-8d %-30s %-10s %s\n", s.Version, s.Name, status, appliedAt)
			}
			return nil
		},
	})

	return cmd
}

func openMigrator(ctx context.Context) (*store.Migrator, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	if cfg.DBDriver != "postgres" {
		return nil, nil, fmt.Errorf("migrations apply to postgres only; DB_DRIVER=%s migrates itself on start", cfg.DBDriver)
	}
	pg, err := store.NewPostgres(ctx, cfg.DatabaseURL, 2, 0)
	if err != nil {
		return nil, nil, err
	}
	return store.NewMigrator(pg.Pool()), pg.Close, nil
}
