package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"learnboard/internal/database"
)

func newMigrateCommand() *cobra.Command {
	var seed bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, db, err := openDatabase()
			if err != nil {
				return err
			}
			defer db.Close()

			if seed {
				if err := database.Seed(cmd.Context(), db); err != nil {
					return fmt.Errorf("seed database: %w", err)
				}
			}

			color.Green("Database is up to date.")
			return nil
		},
	}
	cmd.Flags().BoolVar(&seed, "seed", false, "create demo data when the database is empty")
	return cmd
}
