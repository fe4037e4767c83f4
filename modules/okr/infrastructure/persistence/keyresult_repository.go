package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/iota-uz/org-portal/modules/okr/domain/aggregates/objective"
	"github.com/iota-uz/org-portal/modules/okr/domain/entities/keyresult"
	"github.com/iota-uz/org-portal/pkg/composables"
)

const keyResultSelect = `
SELECT
	k.id,
	k.objective_id,
	k.content,
	k.current_value,
	k.target_value,
	k.position,
	k.created_at,
	k.updated_at
FROM key_results k`

// KeyResultRepository keeps sibling positions dense (1..K per objective).
// The UNIQUE(objective_id, position) constraint is deferred, so the shift
// and the insert/move commit together.
type KeyResultRepository struct{}

func NewKeyResultRepository() keyresult.Repository {
	return &KeyResultRepository{}
}

func (r *KeyResultRepository) GetByObjective(ctx context.Context, objectiveID uint) ([]keyresult.KeyResult, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, keyResultSelect+` WHERE k.objective_id = $1 ORDER BY k.position`, int64(objectiveID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]keyresult.KeyResult, 0, 8)
	for rows.Next() {
		kr, err := scanKeyResult(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, kr)
	}
	return out, rows.Err()
}

func (r *KeyResultRepository) GetByID(ctx context.Context, id uint) (keyresult.KeyResult, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return keyresult.KeyResult{}, err
	}
	row := tx.QueryRow(ctx, keyResultSelect+` WHERE k.id = $1`, int64(id))
	kr, err := scanKeyResult(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return keyresult.KeyResult{}, keyresult.ErrNotFound
	}
	return kr, err
}

func (r *KeyResultRepository) Insert(ctx context.Context, data keyresult.KeyResult, position int) (keyresult.KeyResult, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return keyresult.KeyResult{}, err
	}

	count, err := r.siblingCount(ctx, data.ObjectiveID())
	if err != nil {
		return keyresult.KeyResult{}, err
	}
	pos := clampPosition(position, count+1)

	_, err = tx.Exec(ctx, `
UPDATE key_results SET position = position + 1, updated_at = now()
WHERE objective_id = $1 AND position >= $2`,
		int64(data.ObjectiveID()), pos,
	)
	if err != nil {
		return keyresult.KeyResult{}, fmt.Errorf("shift key results: %w", err)
	}

	var id int64
	err = tx.QueryRow(ctx, `
INSERT INTO key_results (objective_id, content, current_value, target_value, position)
VALUES ($1, $2, $3, $4, $5)
RETURNING id`,
		int64(data.ObjectiveID()), data.Content(), data.CurrentValue(), data.TargetValue(), pos,
	).Scan(&id)
	if err != nil {
		if isForeignKeyViolation(err, "objective_id") {
			return keyresult.KeyResult{}, objective.ErrNotFound
		}
		return keyresult.KeyResult{}, fmt.Errorf("create key result: %w", err)
	}
	return r.GetByID(ctx, uint(id))
}

func (r *KeyResultRepository) Update(ctx context.Context, id uint, fields keyresult.UpdateFields) (keyresult.KeyResult, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return keyresult.KeyResult{}, err
	}

	current, err := r.GetByID(ctx, id)
	if err != nil {
		return keyresult.KeyResult{}, err
	}

	if fields.Position != nil {
		if err := r.move(ctx, current, *fields.Position); err != nil {
			return keyresult.KeyResult{}, err
		}
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
	if fields.CurrentValue != nil {
		set("current_value", *fields.CurrentValue)
	}
	if fields.TargetValue != nil {
		set("target_value", *fields.TargetValue)
	}
	args = append(args, int64(id))

	_, err = tx.Exec(ctx, fmt.Sprintf(`UPDATE key_results SET %s WHERE id = $%d`, strings.Join(sets, ", "), idx), args...)
	if err != nil {
		return keyresult.KeyResult{}, fmt.Errorf("update key result: %w", err)
	}
	return r.GetByID(ctx, id)
}

// move shifts the siblings between the old and new position by one and
// drops the key result into the freed slot. Requested positions outside
// 1..K are clamped.
func (r *KeyResultRepository) move(ctx context.Context, current keyresult.KeyResult, newPos int) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}

	count, err := r.siblingCount(ctx, current.ObjectiveID())
	if err != nil {
		return err
	}
	newPos = clampPosition(newPos, count)
	oldPos := current.Position()
	if newPos == oldPos {
		return nil
	}

	if newPos < oldPos {
		_, err = tx.Exec(ctx, `
UPDATE key_results SET position = position + 1, updated_at = now()
WHERE objective_id = $1 AND position >= $2 AND position < $3`,
			int64(current.ObjectiveID()), newPos, oldPos,
		)
	} else {
		_, err = tx.Exec(ctx, `
UPDATE key_results SET position = position - 1, updated_at = now()
WHERE objective_id = $1 AND position > $2 AND position <= $3`,
			int64(current.ObjectiveID()), oldPos, newPos,
		)
	}
	if err != nil {
		return fmt.Errorf("shift key results: %w", err)
	}

	_, err = tx.Exec(ctx, `UPDATE key_results SET position = $1, updated_at = now() WHERE id = $2`,
		newPos, int64(current.ID()),
	)
	if err != nil {
		return fmt.Errorf("move key result: %w", err)
	}
	return nil
}

func (r *KeyResultRepository) Delete(ctx context.Context, id uint) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}

	current, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM key_results WHERE id = $1`, int64(id)); err != nil {
		return fmt.Errorf("delete key result: %w", err)
	}
	_, err = tx.Exec(ctx, `
UPDATE key_results SET position = position - 1, updated_at = now()
WHERE objective_id = $1 AND position > $2`,
		int64(current.ObjectiveID()), current.Position(),
	)
	if err != nil {
		return fmt.Errorf("close position gap: %w", err)
	}
	return nil
}

func (r *KeyResultRepository) siblingCount(ctx context.Context, objectiveID uint) (int, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	var count int
	err = tx.QueryRow(ctx, `SELECT COUNT(*) FROM key_results WHERE objective_id = $1`, int64(objectiveID)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count key results: %w", err)
	}
	return count, nil
}

func clampPosition(pos, upper int) int {
	if pos == keyresult.PositionEnd || pos > upper {
		return upper
	}
	if pos < 1 {
		return 1
	}
	return pos
}

func scanKeyResult(row rowScanner) (keyresult.KeyResult, error) {
	var (
		id, objectiveID      int64
		content              string
		current, target      float64
		position             int
		createdAt, updatedAt time.Time
	)
	err := row.Scan(&id, &objectiveID, &content, &current, &target, &position, &createdAt, &updatedAt)
	if err != nil {
		return keyresult.KeyResult{}, err
	}
	return keyresult.Hydrate(uint(id), uint(objectiveID), content, current, target, position, createdAt, updatedAt), nil
}
