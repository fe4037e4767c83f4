package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/iota-uz/org-portal/modules/org/domain/aggregates/area"
	"github.com/iota-uz/org-portal/modules/org/domain/aggregates/tribe"
	"github.com/iota-uz/org-portal/modules/org/domain/value_objects/label"
	"github.com/iota-uz/org-portal/modules/org/domain/value_objects/rollup"
	"github.com/iota-uz/org-portal/pkg/composables"
)

const tribeSelect = `
SELECT
	t.id,
	t.area_id,
	t.name,
	COALESCE(o.description, t.description) AS description,
	t.label,
	t.member_count, t.core_count, t.subcon_count,
	t.total_capacity, t.core_capacity, t.subcon_capacity,
	t.created_at, t.updated_at
FROM tribes t
LEFT JOIN LATERAL (
	SELECT description
	FROM description_overrides
	WHERE entity_kind = 'tribe' AND entity_id = t.id
	ORDER BY id DESC
	LIMIT 1
) o ON TRUE`

type TribeRepository struct{}

func NewTribeRepository() tribe.Repository {
	return &TribeRepository{}
}

func (r *TribeRepository) GetAll(ctx context.Context) ([]tribe.Tribe, error) {
	return r.query(ctx, tribeSelect+` ORDER BY t.name`)
}

func (r *TribeRepository) GetByArea(ctx context.Context, areaID uint) ([]tribe.Tribe, error) {
	return r.query(ctx, tribeSelect+` WHERE t.area_id = $1 ORDER BY t.name`, int64(areaID))
}

func (r *TribeRepository) GetByID(ctx context.Context, id uint) (tribe.Tribe, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return tribe.Tribe{}, err
	}
	t, err := scanTribe(tx.QueryRow(ctx, tribeSelect+` WHERE t.id = $1`, int64(id)))
	if errors.Is(err, pgx.ErrNoRows) {
		return tribe.Tribe{}, tribe.ErrNotFound
	}
	return t, err
}

func (r *TribeRepository) GetByName(ctx context.Context, areaID uint, name string) (tribe.Tribe, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return tribe.Tribe{}, err
	}
	t, err := scanTribe(tx.QueryRow(
		ctx,
		tribeSelect+` WHERE t.area_id = $1 AND lower(t.name) = lower($2)`,
		int64(areaID), strings.TrimSpace(name),
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return tribe.Tribe{}, tribe.ErrNotFound
	}
	return t, err
}

func (r *TribeRepository) Create(ctx context.Context, data tribe.Tribe) (tribe.Tribe, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return tribe.Tribe{}, err
	}
	var id int64
	err = tx.QueryRow(ctx, `
INSERT INTO tribes (area_id, name, description, label)
VALUES ($1, $2, $3, $4)
RETURNING id`,
		int64(data.AreaID()), data.Name(), data.Description(), data.Label().String(),
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return tribe.Tribe{}, tribe.ErrNameTaken
		}
		return tribe.Tribe{}, fmt.Errorf("create tribe: %w", err)
	}
	return r.GetByID(ctx, uint(id))
}

func (r *TribeRepository) Update(ctx context.Context, id uint, fields tribe.UpdateFields) (tribe.Tribe, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return tribe.Tribe{}, err
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

	tag, err := tx.Exec(ctx, fmt.Sprintf(`UPDATE tribes SET %s WHERE id = $%d`, strings.Join(sets, ", "), idx), args...)
	if err != nil {
		if isUniqueViolation(err) {
			return tribe.Tribe{}, tribe.ErrNameTaken
		}
		return tribe.Tribe{}, fmt.Errorf("update tribe: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return tribe.Tribe{}, tribe.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

// Reparent moves the tribe under another area. Counter recomputation is the
// caller's responsibility.
func (r *TribeRepository) Reparent(ctx context.Context, id uint, newAreaID uint) (tribe.Tribe, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return tribe.Tribe{}, err
	}

	var exists bool
	if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM areas WHERE id = $1)`, int64(newAreaID)).Scan(&exists); err != nil {
		return tribe.Tribe{}, err
	}
	if !exists {
		return tribe.Tribe{}, area.ErrNotFound
	}

	tag, err := tx.Exec(ctx, `UPDATE tribes SET area_id = $1, updated_at = now() WHERE id = $2`, int64(newAreaID), int64(id))
	if err != nil {
		if isUniqueViolation(err) {
			return tribe.Tribe{}, tribe.ErrNameTaken
		}
		return tribe.Tribe{}, fmt.Errorf("reparent tribe: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return tribe.Tribe{}, tribe.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *TribeRepository) Delete(ctx context.Context, id uint) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, `DELETE FROM tribes WHERE id = $1`, int64(id))
	if err != nil {
		return fmt.Errorf("delete tribe: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return tribe.ErrNotFound
	}
	return nil
}

func (r *TribeRepository) query(ctx context.Context, sql string, args ...any) ([]tribe.Tribe, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]tribe.Tribe, 0, 16)
	for rows.Next() {
		t, err := scanTribe(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func scanTribe(row rowScanner) (tribe.Tribe, error) {
	var (
		id, areaID             int64
		name, description, lbl string
		counters               rollup.Counters
		createdAt, updatedAt   time.Time
	)
	err := row.Scan(
		&id, &areaID, &name, &description, &lbl,
		&counters.MemberCount, &counters.CoreCount, &counters.SubconCount,
		&counters.TotalCapacity, &counters.CoreCapacity, &counters.SubconCapacity,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return tribe.Tribe{}, err
	}
	return tribe.Hydrate(uint(id), uint(areaID), name, description, label.Label(lbl), counters, createdAt, updatedAt), nil
}
