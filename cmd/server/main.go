package main

import (
	"context"
	"flag"
	"log"
	"os"
	"runtime/debug"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iota-uz/org-portal/internal/server"
	"github.com/iota-uz/org-portal/modules"
	"github.com/iota-uz/org-portal/pkg/application"
	"github.com/iota-uz/org-portal/pkg/composables"
	"github.com/iota-uz/org-portal/pkg/configuration"
	"github.com/iota-uz/org-portal/pkg/eventbus"
	"github.com/iota-uz/org-portal/pkg/middleware"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			configuration.Use().Unload()
			log.Println(r)
			debug.PrintStack()
			os.Exit(1)
		}
	}()

	forceInitDB := flag.Bool("force-initdb", false, "drop and recreate the schema, then issue an admin token")
	flag.Parse()

	conf := configuration.Use()
	logger := conf.Logger()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	pool, err := pgxpool.New(ctx, conf.Database.Opts)
	if err != nil {
		panic(err)
	}

	app := application.New(&application.ApplicationOptions{
		Pool:     pool,
		EventBus: eventbus.NewEventPublisher(logger),
		Logger:   logger,
	})
	if err := modules.Load(app, modules.BuiltInModules...); err != nil {
		log.Fatalf("failed to load modules: %v", err)
	}

	migrationCtx, migrationCancel := context.WithTimeout(context.Background(), time.Minute)
	defer migrationCancel()
	if *forceInitDB {
		if err := app.Migrations().Reset(migrationCtx); err != nil {
			log.Fatalf("failed to reset database: %v", err)
		}
		token, err := middleware.IssueToken("admin", composables.RoleAdmin)
		if err != nil {
			log.Fatalf("failed to issue admin token: %v", err)
		}
		logger.WithField("token", token).Info("database reset, administrator token issued")
	} else {
		if err := app.Migrations().Apply(migrationCtx); err != nil {
			log.Fatalf("failed to apply migrations: %v", err)
		}
	}

	srv, err := server.Default(&server.DefaultOptions{
		Logger:        logger,
		Configuration: conf,
		Application:   app,
		Pool:          pool,
	})
	if err != nil {
		log.Fatalf("failed to assemble server: %v", err)
	}

	logger.Infof("listening on %s", conf.SocketAddress)
	if err := srv.Start(conf.SocketAddress); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
