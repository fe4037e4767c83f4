package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/iota-uz/org-portal/pkg/composables"
	"github.com/iota-uz/org-portal/pkg/middleware"
)

func newInitDBCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "initdb",
		Short: "Apply the database schema and mint an administrator token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, app, pool, err := openApp()
			if err != nil {
				return err
			}
			defer pool.Close()

			if force {
				if err := app.Migrations().Reset(ctx); err != nil {
					return err
				}
			} else if err := app.Migrations().Apply(ctx); err != nil {
				return err
			}

			token, err := middleware.IssueToken("admin", composables.RoleAdmin)
			if err != nil {
				return fmt.Errorf("issue administrator token: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "administrator token: %s\n", token)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "drop and recreate every table before applying the schema")
	return cmd
}
