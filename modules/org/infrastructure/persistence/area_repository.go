package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/iota-uz/org-portal/modules/org/domain/aggregates/area"
	"github.com/iota-uz/org-portal/modules/org/domain/value_objects/label"
	"github.com/iota-uz/org-portal/modules/org/domain/value_objects/rollup"
	"github.com/iota-uz/org-portal/pkg/composables"
)

// Every read resolves the effective description: the newest override for
// the entity shadows the stored column.
const areaSelect = `
SELECT
	a.id,
	a.name,
	COALESCE(o.description, a.description) AS description,
	a.label,
	a.member_count, a.core_count, a.subcon_count,
	a.total_capacity, a.core_capacity, a.subcon_capacity,
	a.created_at, a.updated_at
FROM areas a
LEFT JOIN LATERAL (
	SELECT description
	FROM description_overrides
	WHERE entity_kind = 'area' AND entity_id = a.id
	ORDER BY id DESC
	LIMIT 1
) o ON TRUE`

type AreaRepository struct{}

func NewAreaRepository() area.Repository {
	return &AreaRepository{}
}

func (r *AreaRepository) GetAll(ctx context.Context) ([]area.Area, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, areaSelect+` ORDER BY a.name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]area.Area, 0, 16)
	for rows.Next() {
		a, err := scanArea(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *AreaRepository) GetByID(ctx context.Context, id uint) (area.Area, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return area.Area{}, err
	}
	row := tx.QueryRow(ctx, areaSelect+` WHERE a.id = $1`, int64(id))
	a, err := scanAreaRow(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return area.Area{}, area.ErrNotFound
	}
	return a, err
}

func (r *AreaRepository) GetByName(ctx context.Context, name string) (area.Area, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return area.Area{}, err
	}
	row := tx.QueryRow(ctx, areaSelect+` WHERE lower(a.name) = lower($1)`, strings.TrimSpace(name))
	a, err := scanAreaRow(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return area.Area{}, area.ErrNotFound
	}
	return a, err
}

func (r *AreaRepository) Create(ctx context.Context, data area.Area) (area.Area, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return area.Area{}, err
	}
	var id int64
	err = tx.QueryRow(ctx, `
INSERT INTO areas (name, description, label)
VALUES ($1, $2, $3)
RETURNING id`,
		data.Name(), data.Description(), data.Label().String(),
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return area.Area{}, area.ErrNameTaken
		}
		return area.Area{}, fmt.Errorf("create area: %w", err)
	}
	return r.GetByID(ctx, uint(id))
}

func (r *AreaRepository) Update(ctx context.Context, id uint, fields area.UpdateFields) (area.Area, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return area.Area{}, err
	}

	sets := []string{"updated_at = now()"}
	args := []any{}
	idx := 1
	if fields.Name != nil {
		sets = append(sets, fmt.Sprintf("name = $%d", idx))
		args = append(args, strings.TrimSpace(*fields.Name))
		idx++
	}
	if fields.Description != nil {
		sets = append(sets, fmt.Sprintf("description = $%d", idx))
		args = append(args, *fields.Description)
		idx++
	}
	if fields.Label != nil {
		sets = append(sets, fmt.Sprintf("label = $%d", idx))
		args = append(args, fields.Label.String())
		idx++
	}
	args = append(args, int64(id))

	tag, err := tx.Exec(ctx, fmt.Sprintf(`UPDATE areas SET %s WHERE id = $%d`, strings.Join(sets, ", "), idx), args...)
	if err != nil {
		if isUniqueViolation(err) {
			return area.Area{}, area.ErrNameTaken
		}
		return area.Area{}, fmt.Errorf("update area: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return area.Area{}, area.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *AreaRepository) Delete(ctx context.Context, id uint) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, `DELETE FROM areas WHERE id = $1`, int64(id))
	if err != nil {
		return fmt.Errorf("delete area: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return area.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAreaRow(row pgx.Row) (area.Area, error) {
	return scanArea(row)
}

func scanArea(row rowScanner) (area.Area, error) {
	var (
		id                     int64
		name, description, lbl string
		counters               rollup.Counters
		createdAt, updatedAt   time.Time
	)
	err := row.Scan(
		&id, &name, &description, &lbl,
		&counters.MemberCount, &counters.CoreCount, &counters.SubconCount,
		&counters.TotalCapacity, &counters.CoreCapacity, &counters.SubconCapacity,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return area.Area{}, err
	}
	return area.Hydrate(uint(id), name, description, label.Label(lbl), counters, createdAt, updatedAt), nil
}
