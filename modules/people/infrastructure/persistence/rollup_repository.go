package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/iota-uz/org-portal/modules/org/domain/aggregates/squad"
	"github.com/iota-uz/org-portal/modules/org/domain/aggregates/tribe"
	"github.com/iota-uz/org-portal/modules/people/services"
	"github.com/iota-uz/org-portal/pkg/composables"
)

// Vacancy placeholders are invisible to counters: the member join drops
// them, and the IS NOT NULL filters keep their capacities out of the sums.
// Capacity columns are NUMERIC(10,2), so the stored sums are rounded to
// two decimals, half away from zero.
const squadRollup = `
UPDATE squads s SET
	member_count = agg.member_count,
	core_count = agg.core_count,
	subcon_count = agg.subcon_count,
	total_capacity = agg.total_capacity,
	core_capacity = agg.core_capacity,
	subcon_capacity = agg.subcon_capacity
FROM (
	SELECT
		sq.id,
		COUNT(m.id) AS member_count,
		COUNT(m.id) FILTER (WHERE m.employment_type = 'core') AS core_count,
		COUNT(m.id) FILTER (WHERE m.employment_type = 'subcon') AS subcon_count,
		COALESCE(SUM(sm.capacity) FILTER (WHERE m.id IS NOT NULL), 0) AS total_capacity,
		COALESCE(SUM(sm.capacity) FILTER (WHERE m.employment_type = 'core'), 0) AS core_capacity,
		COALESCE(SUM(sm.capacity) FILTER (WHERE m.employment_type = 'subcon'), 0) AS subcon_capacity
	FROM squads sq
	LEFT JOIN squad_memberships sm ON sm.squad_id = sq.id
	LEFT JOIN team_members m ON m.id = sm.member_id AND NOT m.is_vacancy
	%s
	GROUP BY sq.id
) agg
WHERE agg.id = s.id`

const tribeRollup = `
UPDATE tribes t SET
	member_count = agg.member_count,
	core_count = agg.core_count,
	subcon_count = agg.subcon_count,
	total_capacity = agg.total_capacity,
	core_capacity = agg.core_capacity,
	subcon_capacity = agg.subcon_capacity
FROM (
	SELECT
		tr.id,
		COALESCE(SUM(s.member_count), 0) AS member_count,
		COALESCE(SUM(s.core_count), 0) AS core_count,
		COALESCE(SUM(s.subcon_count), 0) AS subcon_count,
		COALESCE(SUM(s.total_capacity), 0) AS total_capacity,
		COALESCE(SUM(s.core_capacity), 0) AS core_capacity,
		COALESCE(SUM(s.subcon_capacity), 0) AS subcon_capacity
	FROM tribes tr
	LEFT JOIN squads s ON s.tribe_id = tr.id
	%s
	GROUP BY tr.id
) agg
WHERE agg.id = t.id`

const areaRollup = `
UPDATE areas a SET
	member_count = agg.member_count,
	core_count = agg.core_count,
	subcon_count = agg.subcon_count,
	total_capacity = agg.total_capacity,
	core_capacity = agg.core_capacity,
	subcon_capacity = agg.subcon_capacity
FROM (
	SELECT
		ar.id,
		COALESCE(SUM(t.member_count), 0) AS member_count,
		COALESCE(SUM(t.core_count), 0) AS core_count,
		COALESCE(SUM(t.subcon_count), 0) AS subcon_count,
		COALESCE(SUM(t.total_capacity), 0) AS total_capacity,
		COALESCE(SUM(t.core_capacity), 0) AS core_capacity,
		COALESCE(SUM(t.subcon_capacity), 0) AS subcon_capacity
	FROM areas ar
	LEFT JOIN tribes t ON t.area_id = ar.id
	%s
	GROUP BY ar.id
) agg
WHERE agg.id = a.id`

type RollupRepository struct{}

func NewRollupRepository() services.RollupRepository {
	return &RollupRepository{}
}

func (r *RollupRepository) RecomputeSquads(ctx context.Context, ids ...uint) error {
	return r.recompute(ctx, squadRollup, "WHERE sq.id = ANY($1)", ids)
}

func (r *RollupRepository) RecomputeTribes(ctx context.Context, ids ...uint) error {
	return r.recompute(ctx, tribeRollup, "WHERE tr.id = ANY($1)", ids)
}

func (r *RollupRepository) RecomputeAreas(ctx context.Context, ids ...uint) error {
	return r.recompute(ctx, areaRollup, "WHERE ar.id = ANY($1)", ids)
}

func (r *RollupRepository) recompute(ctx context.Context, query, cond string, ids []uint) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		_, err = tx.Exec(ctx, fmt.Sprintf(query, ""))
		return err
	}
	raw := make([]int64, len(ids))
	for i, id := range ids {
		raw[i] = int64(id)
	}
	_, err = tx.Exec(ctx, fmt.Sprintf(query, cond), raw)
	return err
}

func (r *RollupRepository) AncestorsOfSquad(ctx context.Context, squadID uint) (tribeID, areaID uint, err error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, 0, err
	}
	var t, a int64
	err = tx.QueryRow(ctx, `
SELECT s.tribe_id, t.area_id
FROM squads s
JOIN tribes t ON t.id = s.tribe_id
WHERE s.id = $1`, int64(squadID)).Scan(&t, &a)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, 0, squad.ErrNotFound
	}
	if err != nil {
		return 0, 0, err
	}
	return uint(t), uint(a), nil
}

func (r *RollupRepository) AreaOfTribe(ctx context.Context, tribeID uint) (uint, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	var a int64
	err = tx.QueryRow(ctx, `SELECT area_id FROM tribes WHERE id = $1`, int64(tribeID)).Scan(&a)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, tribe.ErrNotFound
	}
	if err != nil {
		return 0, err
	}
	return uint(a), nil
}
