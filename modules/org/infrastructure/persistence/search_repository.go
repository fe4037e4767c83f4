package persistence

import (
	"context"

	"github.com/iota-uz/org-portal/modules/org/services"
	"github.com/iota-uz/org-portal/pkg/composables"
)

// Substring match over names and descriptions of every searchable kind.
// Hierarchy entities are searched by their effective description, so an
// override shadows the base text here too.
const searchSelect = `
SELECT 'area' AS kind, a.id, a.name, COALESCE(o.description, a.description) AS description
FROM areas a
LEFT JOIN LATERAL (
	SELECT description FROM description_overrides
	WHERE entity_kind = 'area' AND entity_id = a.id ORDER BY id DESC LIMIT 1
) o ON TRUE
WHERE a.name ILIKE $1 OR COALESCE(o.description, a.description) ILIKE $1
UNION ALL
SELECT 'tribe', t.id, t.name, COALESCE(o.description, t.description)
FROM tribes t
LEFT JOIN LATERAL (
	SELECT description FROM description_overrides
	WHERE entity_kind = 'tribe' AND entity_id = t.id ORDER BY id DESC LIMIT 1
) o ON TRUE
WHERE t.name ILIKE $1 OR COALESCE(o.description, t.description) ILIKE $1
UNION ALL
SELECT 'squad', s.id, s.name, COALESCE(o.description, s.description)
FROM squads s
LEFT JOIN LATERAL (
	SELECT description FROM description_overrides
	WHERE entity_kind = 'squad' AND entity_id = s.id ORDER BY id DESC LIMIT 1
) o ON TRUE
WHERE s.name ILIKE $1 OR COALESCE(o.description, s.description) ILIKE $1
UNION ALL
SELECT 'team_member', m.id, m.name, COALESCE(m.role, '')
FROM team_members m
WHERE m.name ILIKE $1 OR COALESCE(m.role, '') ILIKE $1
UNION ALL
SELECT 'service', v.id, v.name, v.description
FROM services v
WHERE v.name ILIKE $1 OR v.description ILIKE $1`

type SearchRepository struct{}

func NewSearchRepository() services.SearchRepository {
	return &SearchRepository{}
}

func (r *SearchRepository) Find(ctx context.Context, pattern string, limit int) ([]services.SearchHit, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, searchSelect+` LIMIT $2`, pattern, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]services.SearchHit, 0, limit)
	for rows.Next() {
		var hit services.SearchHit
		var id int64
		if err := rows.Scan(&hit.Kind, &id, &hit.Name, &hit.Description); err != nil {
			return nil, err
		}
		hit.ID = uint(id)
		out = append(out, hit)
	}
	return out, rows.Err()
}
