package application

import (
	"context"
	"fmt"
	"io/fs"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

type schemaSet struct {
	name string
	fsys fs.FS
}

// schemaDir is where every module embeds its goose files.
const schemaDir = "infrastructure/persistence/schema"

// migrationManager applies each module's embedded goose schema in
// registration order. Every module gets its own version table so modules
// can evolve their numbering independently.
type migrationManager struct {
	pool    *pgxpool.Pool
	schemas []schemaSet
}

func NewMigrationManager(pool *pgxpool.Pool) MigrationManager {
	return &migrationManager{pool: pool}
}

func (m *migrationManager) RegisterSchema(name string, fsys fs.FS) {
	m.schemas = append(m.schemas, schemaSet{name: name, fsys: fsys})
}

func (m *migrationManager) Apply(ctx context.Context) error {
	db := stdlib.OpenDBFromPool(m.pool)
	defer func() { _ = db.Close() }()

	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	for _, schema := range m.schemas {
		goose.SetBaseFS(schema.fsys)
		goose.SetTableName(fmt.Sprintf("goose_db_version_%s", schema.name))
		if err := goose.UpContext(ctx, db, schemaDir); err != nil {
			return fmt.Errorf("apply %s migrations: %w", schema.name, err)
		}
	}
	goose.SetBaseFS(nil)
	return nil
}

// Reset rolls every registered schema back to zero, newest module first,
// then re-applies everything. Used by --force-initdb and tests only.
func (m *migrationManager) Reset(ctx context.Context) error {
	db := stdlib.OpenDBFromPool(m.pool)
	defer func() { _ = db.Close() }()

	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	for i := len(m.schemas) - 1; i >= 0; i-- {
		schema := m.schemas[i]
		goose.SetBaseFS(schema.fsys)
		goose.SetTableName(fmt.Sprintf("goose_db_version_%s", schema.name))
		if err := goose.DownToContext(ctx, db, schemaDir, 0); err != nil {
			return fmt.Errorf("reset %s migrations: %w", schema.name, err)
		}
	}
	goose.SetBaseFS(nil)
	return m.Apply(ctx)
}
