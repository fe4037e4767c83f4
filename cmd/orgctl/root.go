package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/iota-uz/org-portal/modules"
	"github.com/iota-uz/org-portal/pkg/application"
	"github.com/iota-uz/org-portal/pkg/composables"
	"github.com/iota-uz/org-portal/pkg/configuration"
	"github.com/iota-uz/org-portal/pkg/eventbus"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "orgctl",
		Short:         "Operational tooling for the organization portal",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(newIngestCmd())
	cmd.AddCommand(newRecomputeCmd())
	cmd.AddCommand(newInitDBCmd())
	return cmd
}

func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

// openApp connects to the database, loads every module and returns a
// context carrying the pool, ready for direct service calls.
func openApp() (context.Context, application.Application, *pgxpool.Pool, error) {
	conf := configuration.Use()

	connectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	pool, err := pgxpool.New(connectCtx, conf.Database.Opts)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("connect to database: %w", err)
	}

	app := application.New(&application.ApplicationOptions{
		Pool:     pool,
		EventBus: eventbus.NewEventPublisher(conf.Logger()),
		Logger:   conf.Logger(),
	})
	if err := modules.Load(app, modules.BuiltInModules...); err != nil {
		pool.Close()
		return nil, nil, nil, fmt.Errorf("load modules: %w", err)
	}

	ctx := composables.WithPool(context.Background(), pool)
	return ctx, app, pool, nil
}
