package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/iota-uz/org-portal/modules/org/domain/entities/override"
	"github.com/iota-uz/org-portal/pkg/composables"
)

type OverrideRepository struct{}

func NewOverrideRepository() override.Repository {
	return &OverrideRepository{}
}

func (r *OverrideRepository) Append(ctx context.Context, data override.Override) (override.Override, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return override.Override{}, err
	}

	exists, err := entityExists(ctx, tx, data.Kind(), data.EntityID())
	if err != nil {
		return override.Override{}, err
	}
	if !exists {
		return override.Override{}, override.ErrEntityNotFound
	}

	var (
		id        int64
		createdAt time.Time
	)
	err = tx.QueryRow(ctx, `
INSERT INTO description_overrides (entity_kind, entity_id, description, edited_by)
VALUES ($1, $2, $3, $4)
RETURNING id, created_at`,
		string(data.Kind()), int64(data.EntityID()), data.Description(), data.EditedBy(),
	).Scan(&id, &createdAt)
	if err != nil {
		return override.Override{}, fmt.Errorf("append description override: %w", err)
	}
	return override.Hydrate(uint(id), data.Kind(), data.EntityID(), data.Description(), data.EditedBy(), createdAt), nil
}

func (r *OverrideRepository) Current(ctx context.Context, kind override.Kind, entityID uint) (*override.Override, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	row := tx.QueryRow(ctx, `
SELECT id, entity_kind, entity_id, description, edited_by, created_at
FROM description_overrides
WHERE entity_kind = $1 AND entity_id = $2
ORDER BY id DESC
LIMIT 1`,
		string(kind), int64(entityID),
	)
	o, err := scanOverride(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *OverrideRepository) History(ctx context.Context, kind override.Kind, entityID uint) ([]override.Override, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, `
SELECT id, entity_kind, entity_id, description, edited_by, created_at
FROM description_overrides
WHERE entity_kind = $1 AND entity_id = $2
ORDER BY id DESC`,
		string(kind), int64(entityID),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]override.Override, 0, 8)
	for rows.Next() {
		o, err := scanOverride(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func entityExists(ctx context.Context, tx composables.Tx, kind override.Kind, entityID uint) (bool, error) {
	var table string
	switch kind {
	case override.KindArea:
		table = "areas"
	case override.KindTribe:
		table = "tribes"
	case override.KindSquad:
		table = "squads"
	default:
		return false, override.ErrUnknownKind
	}
	var exists bool
	err := tx.QueryRow(ctx, fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE id = $1)`, table), int64(entityID)).Scan(&exists)
	return exists, err
}

func scanOverride(row rowScanner) (override.Override, error) {
	var (
		id, entityID int64
		kind         string
		description  string
		editedBy     string
		createdAt    time.Time
	)
	if err := row.Scan(&id, &kind, &entityID, &description, &editedBy, &createdAt); err != nil {
		return override.Override{}, err
	}
	return override.Hydrate(uint(id), override.Kind(kind), uint(entityID), description, editedBy, createdAt), nil
}
