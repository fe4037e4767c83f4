package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/iota-uz/org-portal/modules/okr/domain/aggregates/objective"
	"github.com/iota-uz/org-portal/modules/org/domain/aggregates/area"
	"github.com/iota-uz/org-portal/modules/org/domain/aggregates/squad"
	"github.com/iota-uz/org-portal/modules/org/domain/aggregates/tribe"
	"github.com/iota-uz/org-portal/pkg/composables"
)

const objectiveSelect = `
SELECT
	o.id,
	o.content,
	o.area_id,
	o.tribe_id,
	o.squad_id,
	o.cascades,
	o.created_at,
	o.updated_at
FROM objectives o`

type ObjectiveRepository struct{}

func NewObjectiveRepository() objective.Repository {
	return &ObjectiveRepository{}
}

func (r *ObjectiveRepository) GetAll(ctx context.Context) ([]objective.Objective, error) {
	return r.list(ctx, objectiveSelect+` ORDER BY o.id`)
}

func (r *ObjectiveRepository) GetForArea(ctx context.Context, areaID uint, cascadingOnly bool) ([]objective.Objective, error) {
	query := objectiveSelect + ` WHERE o.area_id = $1`
	if cascadingOnly {
		query += ` AND o.cascades`
	}
	return r.list(ctx, query+` ORDER BY o.id`, int64(areaID))
}

func (r *ObjectiveRepository) GetForTribe(ctx context.Context, tribeID uint, cascadingOnly bool) ([]objective.Objective, error) {
	query := objectiveSelect + ` WHERE o.tribe_id = $1`
	if cascadingOnly {
		query += ` AND o.cascades`
	}
	return r.list(ctx, query+` ORDER BY o.id`, int64(tribeID))
}

func (r *ObjectiveRepository) GetForSquad(ctx context.Context, squadID uint) ([]objective.Objective, error) {
	return r.list(ctx, objectiveSelect+` WHERE o.squad_id = $1 ORDER BY o.id`, int64(squadID))
}

func (r *ObjectiveRepository) list(ctx context.Context, query string, args ...any) ([]objective.Objective, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]objective.Objective, 0, 16)
	for rows.Next() {
		o, err := scanObjective(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r *ObjectiveRepository) GetByID(ctx context.Context, id uint) (objective.Objective, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return objective.Objective{}, err
	}
	row := tx.QueryRow(ctx, objectiveSelect+` WHERE o.id = $1`, int64(id))
	o, err := scanObjective(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return objective.Objective{}, objective.ErrNotFound
	}
	return o, err
}

func (r *ObjectiveRepository) Create(ctx context.Context, data objective.Objective) (objective.Objective, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return objective.Objective{}, err
	}
	var id int64
	err = tx.QueryRow(ctx, `
INSERT INTO objectives (content, area_id, tribe_id, squad_id, cascades)
VALUES ($1, $2, $3, $4, $5)
RETURNING id`,
		data.Content(), idArg(data.AreaID()), idArg(data.TribeID()), idArg(data.SquadID()), data.Cascades(),
	).Scan(&id)
	if err != nil {
		switch {
		case isForeignKeyViolation(err, "area_id"):
			return objective.Objective{}, area.ErrNotFound
		case isForeignKeyViolation(err, "tribe_id"):
			return objective.Objective{}, tribe.ErrNotFound
		case isForeignKeyViolation(err, "squad_id"):
			return objective.Objective{}, squad.ErrNotFound
		}
		return objective.Objective{}, fmt.Errorf("create objective: %w", err)
	}
	return r.GetByID(ctx, uint(id))
}

func (r *ObjectiveRepository) Update(ctx context.Context, id uint, fields objective.UpdateFields) (objective.Objective, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return objective.Objective{}, err
	}

	sets := []string{"updated_at = now()"}
	args := []any{}
	idx := 1
	set := func(col string, v any) {
		sets = append(sets, fmt.Sprintf("%s = $%d", col, idx))
		args = append(args, v)
		idx++
	}
	if fields.Content != nil {
		set("content", *fields.Content)
	}
	if fields.Cascades != nil {
		set("cascades", *fields.Cascades)
	}
	args = append(args, int64(id))

	tag, err := tx.Exec(ctx, fmt.Sprintf(`UPDATE objectives SET %s WHERE id = $%d`, strings.Join(sets, ", "), idx), args...)
	if err != nil {
		return objective.Objective{}, fmt.Errorf("update objective: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return objective.Objective{}, objective.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *ObjectiveRepository) Touch(ctx context.Context, id uint) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, `UPDATE objectives SET updated_at = now() WHERE id = $1`, int64(id))
	if err != nil {
		return fmt.Errorf("touch objective: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return objective.ErrNotFound
	}
	return nil
}

func (r *ObjectiveRepository) Delete(ctx context.Context, id uint) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, `DELETE FROM objectives WHERE id = $1`, int64(id))
	if err != nil {
		return fmt.Errorf("delete objective: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return objective.ErrNotFound
	}
	return nil
}

func idArg(v *uint) any {
	if v == nil {
		return nil
	}
	return int64(*v)
}

func scanObjective(row rowScanner) (objective.Objective, error) {
	var (
		id                       int64
		content                  string
		areaID, tribeID, squadID *int64
		cascades                 bool
		createdAt, updatedAt     time.Time
	)
	err := row.Scan(&id, &content, &areaID, &tribeID, &squadID, &cascades, &createdAt, &updatedAt)
	if err != nil {
		return objective.Objective{}, err
	}
	return objective.Hydrate(
		uint(id), content,
		uintPtr(areaID), uintPtr(tribeID), uintPtr(squadID),
		cascades, createdAt, updatedAt,
	), nil
}

func uintPtr(v *int64) *uint {
	if v == nil {
		return nil
	}
	u := uint(*v)
	return &u
}
