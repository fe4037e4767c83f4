// Package dbtest provisions throwaway databases for tests that exercise
// real SQL. Setup skips the calling test unless OP_TEST_DATABASE_URL
// points at a reachable Postgres server.
package dbtest

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/iota-uz/org-portal/modules"
	"github.com/iota-uz/org-portal/pkg/application"
	"github.com/iota-uz/org-portal/pkg/composables"
	"github.com/iota-uz/org-portal/pkg/eventbus"
)

// Setup drops and recreates a database named after the test, applies
// every module's migrations and returns a context carrying a pool bound
// to it. Each test gets its own database, so suites stay independent
// even when packages run in parallel.
func Setup(tb testing.TB) context.Context {
	tb.Helper()

	baseDSN := os.Getenv("OP_TEST_DATABASE_URL")
	if baseDSN == "" {
		tb.Skip("OP_TEST_DATABASE_URL is not set")
	}

	ctx := context.Background()
	name := databaseName(tb.Name())

	admin, err := pgx.Connect(ctx, baseDSN)
	if err != nil {
		tb.Skipf("postgres is not reachable: %v", err)
	}
	if _, err := admin.Exec(ctx, "DROP DATABASE IF EXISTS "+name); err != nil {
		tb.Fatalf("drop database %s: %v", name, err)
	}
	if _, err := admin.Exec(ctx, "CREATE DATABASE "+name); err != nil {
		tb.Fatalf("create database %s: %v", name, err)
	}
	_ = admin.Close(ctx)

	cfg, err := pgxpool.ParseConfig(baseDSN)
	if err != nil {
		tb.Fatalf("parse OP_TEST_DATABASE_URL: %v", err)
	}
	cfg.ConnConfig.Database = name

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		tb.Fatalf("connect to %s: %v", name, err)
	}
	tb.Cleanup(pool.Close)

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	app := application.New(&application.ApplicationOptions{
		Pool:     pool,
		EventBus: eventbus.NewEventPublisher(logger),
		Logger:   logger,
	})
	if err := modules.Load(app, modules.BuiltInModules...); err != nil {
		tb.Fatalf("load modules: %v", err)
	}
	if err := app.Migrations().Apply(ctx); err != nil {
		tb.Fatalf("apply migrations: %v", err)
	}

	return composables.WithPool(context.Background(), pool)
}

// databaseName turns a test name into a legal identifier. Postgres cuts
// identifiers at 63 bytes, so long subtest names are truncated.
func databaseName(testName string) string {
	var b strings.Builder
	b.WriteString("op_test_")
	for _, r := range strings.ToLower(testName) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	name := b.String()
	if len(name) > 63 {
		name = name[:63]
	}
	return name
}
