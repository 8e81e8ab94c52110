package main

import (
	"fmt"

	"github.com/dunamismax/folio/internal/config"
	"github.com/dunamismax/folio/internal/store"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newMigrateCmd(cfg config.Config, logger *zap.Logger) *cobra.Command {
	var dsn string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create the Postgres tables if they do not exist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if dsn == "" {
				return fmt.Errorf("a Postgres DSN is required (--dsn or POSTGRES_DSN)")
			}
			pg, err := store.NewPostgresStore(cmd.Context(), dsn)
			if err != nil {
				return err
			}
			defer pg.Close()

			logger.Info("schema is up to date")
			_, err = fmt.Fprintln(cmd.OutOrStdout(), "schema is up to date")
			return err
		},
	}

	cmd.Flags().StringVar(&dsn, "dsn", cfg.Database.DSN, "Postgres connection string")
	return cmd
}
