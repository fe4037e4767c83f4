package main

import (
	"github.com/spf13/cobra"

	peopleservices "github.com/iota-uz/org-portal/modules/people/services"
)

func newRecomputeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "recompute",
		Short: "Rebuild the member and capacity counters on every squad, tribe and area",
		RunE: func(_ *cobra.Command, _ []string) error {
			ctx, app, pool, err := openApp()
			if err != nil {
				return err
			}
			defer pool.Close()

			rollups := app.Service(peopleservices.RollupService{}).(*peopleservices.RollupService)
			return rollups.RecomputeAll(ctx)
		},
	}
}
