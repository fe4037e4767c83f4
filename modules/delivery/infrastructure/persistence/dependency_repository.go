package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/iota-uz/org-portal/modules/delivery/domain/entities/dependency"
	"github.com/iota-uz/org-portal/modules/org/domain/aggregates/squad"
	"github.com/iota-uz/org-portal/pkg/composables"
)

const dependencySelect = `
SELECT id, dependent_squad_id, dependency_squad_id, name, interaction_mode, frequency, created_at, updated_at
FROM dependencies`

type DependencyRepository struct{}

func NewDependencyRepository() dependency.Repository {
	return &DependencyRepository{}
}

func (r *DependencyRepository) GetAll(ctx context.Context) ([]dependency.Dependency, error) {
	return r.list(ctx, dependencySelect+` ORDER BY id`)
}

func (r *DependencyRepository) GetBySquad(ctx context.Context, squadID uint) ([]dependency.Dependency, error) {
	return r.list(ctx,
		dependencySelect+` WHERE dependent_squad_id = $1 OR dependency_squad_id = $1 ORDER BY id`,
		int64(squadID),
	)
}

func (r *DependencyRepository) list(ctx context.Context, query string, args ...any) ([]dependency.Dependency, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]dependency.Dependency, 0, 16)
	for rows.Next() {
		d, err := scanDependency(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *DependencyRepository) GetByID(ctx context.Context, id uint) (dependency.Dependency, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return dependency.Dependency{}, err
	}
	row := tx.QueryRow(ctx, dependencySelect+` WHERE id = $1`, int64(id))
	d, err := scanDependency(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return dependency.Dependency{}, dependency.ErrNotFound
	}
	return d, err
}

// Upsert inserts the edge or, when the (dependent, dependency) pair already
// exists, overwrites its name, mode and frequency in place.
func (r *DependencyRepository) Upsert(ctx context.Context, data dependency.Dependency) (dependency.Dependency, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return dependency.Dependency{}, err
	}
	var id int64
	err = tx.QueryRow(ctx, `
INSERT INTO dependencies (dependent_squad_id, dependency_squad_id, name, interaction_mode, frequency)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (dependent_squad_id, dependency_squad_id) DO UPDATE
SET name = EXCLUDED.name,
    interaction_mode = EXCLUDED.interaction_mode,
    frequency = EXCLUDED.frequency,
    updated_at = now()
RETURNING id`,
		int64(data.DependentID()), int64(data.DependencyID()),
		data.Name(), string(data.Mode()), data.Frequency(),
	).Scan(&id)
	if err != nil {
		switch {
		case isCheckViolation(err):
			return dependency.Dependency{}, dependency.ErrSelfDependency
		case isFKViolation(err):
			return dependency.Dependency{}, squad.ErrNotFound
		}
		return dependency.Dependency{}, fmt.Errorf("upsert dependency: %w", err)
	}
	return r.GetByID(ctx, uint(id))
}

func (r *DependencyRepository) Delete(ctx context.Context, id uint) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, `DELETE FROM dependencies WHERE id = $1`, int64(id))
	if err != nil {
		return fmt.Errorf("delete dependency: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return dependency.ErrNotFound
	}
	return nil
}

func scanDependency(row rowScanner) (dependency.Dependency, error) {
	var (
		id, dependentID, dependencyID int64
		name, mode, frequency         string
		createdAt, updatedAt          time.Time
	)
	if err := row.Scan(&id, &dependentID, &dependencyID, &name, &mode, &frequency, &createdAt, &updatedAt); err != nil {
		return dependency.Dependency{}, err
	}
	return dependency.Hydrate(
		uint(id), uint(dependentID), uint(dependencyID),
		name, dependency.InteractionMode(mode), frequency,
		createdAt, updatedAt,
	), nil
}
