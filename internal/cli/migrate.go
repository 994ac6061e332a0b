package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/p28/portal/internal/database"
)

func newMigrateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		Long: `migrate applies the embedded goose migrations to the configured database:
Postgres when database_url is set, otherwise the SQLite file at db_path.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.cfg
			if cfg.DatabaseURL != "" && !cfg.UsesPostgres() {
				return fmt.Errorf("database_url must be a postgres:// url")
			}
			if cfg.UsesPostgres() {
				pool, err := database.OpenPostgres(cmd.Context(), cfg.DatabaseURL)
				if err != nil {
					return err
				}
				defer pool.Close()
				if err := database.MigratePostgres(pool); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "postgres schema up to date")
				return nil
			}

			db, err := database.Open(cfg.DBPath)
			if err != nil {
				return err
			}
			defer db.Close()
			fmt.Fprintf(cmd.OutOrStdout(), "sqlite schema up to date (%s)\n", cfg.DBPath)
			return nil
		},
	}
}
