package main

import (
	"github.com/spf13/cobra"

	"github.com/ovaphlow/pitchfork/service-catalog-go-stdlib/pkg/database"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations and exit.",
		RunE: func(cmd *cobra.Command, args []string) error {
			sugar, flush, err := newLogger()
			if err != nil {
				return err
			}
			defer flush()

			db, err := openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			if err := database.Migrate(cmd.Context(), db.DB); err != nil {
				return err
			}
			sugar.Info("migrations applied")
			return nil
		},
	}
}
