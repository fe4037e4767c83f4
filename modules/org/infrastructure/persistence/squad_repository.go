package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/iota-uz/org-portal/modules/org/domain/aggregates/squad"
	"github.com/iota-uz/org-portal/modules/org/domain/aggregates/tribe"
	"github.com/iota-uz/org-portal/modules/org/domain/value_objects/rollup"
	"github.com/iota-uz/org-portal/pkg/composables"
)

const squadSelect = `
SELECT
	s.id,
	s.tribe_id,
	s.name,
	COALESCE(o.description, s.description) AS description,
	s.status,
	s.timezone,
	s.team_type,
	s.teams_channel, s.slack_channel, s.email, s.docs_url, s.issue_tracker_url,
	s.member_count, s.core_count, s.subcon_count,
	s.total_capacity, s.core_capacity, s.subcon_capacity,
	s.created_at, s.updated_at
FROM squads s
LEFT JOIN LATERAL (
	SELECT description
	FROM description_overrides
	WHERE entity_kind = 'squad' AND entity_id = s.id
	ORDER BY id DESC
	LIMIT 1
) o ON TRUE`

type SquadRepository struct{}

func NewSquadRepository() squad.Repository {
	return &SquadRepository{}
}

func (r *SquadRepository) GetAll(ctx context.Context) ([]squad.Squad, error) {
	return r.query(ctx, squadSelect+` ORDER BY s.name`)
}

func (r *SquadRepository) GetByTribe(ctx context.Context, tribeID uint) ([]squad.Squad, error) {
	return r.query(ctx, squadSelect+` WHERE s.tribe_id = $1 ORDER BY s.name`, int64(tribeID))
}

func (r *SquadRepository) GetByID(ctx context.Context, id uint) (squad.Squad, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return squad.Squad{}, err
	}
	s, err := scanSquad(tx.QueryRow(ctx, squadSelect+` WHERE s.id = $1`, int64(id)))
	if errors.Is(err, pgx.ErrNoRows) {
		return squad.Squad{}, squad.ErrNotFound
	}
	return s, err
}

func (r *SquadRepository) GetByName(ctx context.Context, tribeID uint, name string) (squad.Squad, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return squad.Squad{}, err
	}
	s, err := scanSquad(tx.QueryRow(
		ctx,
		squadSelect+` WHERE s.tribe_id = $1 AND lower(s.name) = lower($2)`,
		int64(tribeID), strings.TrimSpace(name),
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return squad.Squad{}, squad.ErrNotFound
	}
	return s, err
}

func (r *SquadRepository) Create(ctx context.Context, data squad.Squad) (squad.Squad, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return squad.Squad{}, err
	}
	var id int64
	err = tx.QueryRow(ctx, `
INSERT INTO squads (tribe_id, name, description, team_type)
VALUES ($1, $2, $3, $4)
RETURNING id`,
		int64(data.TribeID()), data.Name(), data.Description(), string(data.TeamType()),
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return squad.Squad{}, squad.ErrNameTaken
		}
		return squad.Squad{}, fmt.Errorf("create squad: %w", err)
	}
	return r.GetByID(ctx, uint(id))
}

func (r *SquadRepository) Update(ctx context.Context, id uint, fields squad.UpdateFields) (squad.Squad, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return squad.Squad{}, err
	}

	sets := []string{"updated_at = now()"}
	args := []any{}
	idx := 1
	set := func(column string, value any) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, idx))
		args = append(args, value)
		idx++
	}
	if fields.Name != nil {
		set("name", strings.TrimSpace(*fields.Name))
	}
	if fields.Description != nil {
		set("description", *fields.Description)
	}
	if fields.Status != nil {
		set("status", *fields.Status)
	}
	if fields.Timezone != nil {
		set("timezone", *fields.Timezone)
	}
	if fields.TeamType != nil {
		set("team_type", string(*fields.TeamType))
	}
	if fields.Contact != nil {
		set("teams_channel", fields.Contact.TeamsChannel)
		set("slack_channel", fields.Contact.SlackChannel)
		set("email", fields.Contact.Email)
		set("docs_url", fields.Contact.DocsURL)
		set("issue_tracker_url", fields.Contact.IssueTracker)
	}
	args = append(args, int64(id))

	tag, err := tx.Exec(ctx, fmt.Sprintf(`UPDATE squads SET %s WHERE id = $%d`, strings.Join(sets, ", "), idx), args...)
	if err != nil {
		if isUniqueViolation(err) {
			return squad.Squad{}, squad.ErrNameTaken
		}
		return squad.Squad{}, fmt.Errorf("update squad: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return squad.Squad{}, squad.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

// Reparent moves the squad under another tribe. Counter recomputation is the
// caller's responsibility.
func (r *SquadRepository) Reparent(ctx context.Context, id uint, newTribeID uint) (squad.Squad, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return squad.Squad{}, err
	}

	var exists bool
	if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM tribes WHERE id = $1)`, int64(newTribeID)).Scan(&exists); err != nil {
		return squad.Squad{}, err
	}
	if !exists {
		return squad.Squad{}, tribe.ErrNotFound
	}

	tag, err := tx.Exec(ctx, `UPDATE squads SET tribe_id = $1, updated_at = now() WHERE id = $2`, int64(newTribeID), int64(id))
	if err != nil {
		if isUniqueViolation(err) {
			return squad.Squad{}, squad.ErrNameTaken
		}
		return squad.Squad{}, fmt.Errorf("reparent squad: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return squad.Squad{}, squad.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *SquadRepository) Delete(ctx context.Context, id uint) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, `DELETE FROM squads WHERE id = $1`, int64(id))
	if err != nil {
		return fmt.Errorf("delete squad: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return squad.ErrNotFound
	}
	return nil
}

func (r *SquadRepository) query(ctx context.Context, sql string, args ...any) ([]squad.Squad, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]squad.Squad, 0, 16)
	for rows.Next() {
		s, err := scanSquad(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func scanSquad(row rowScanner) (squad.Squad, error) {
	var (
		id, tribeID          int64
		name, description    string
		status, timezone     string
		teamType             string
		contact              squad.Contact
		counters             rollup.Counters
		createdAt, updatedAt time.Time
	)
	err := row.Scan(
		&id, &tribeID, &name, &description, &status, &timezone, &teamType,
		&contact.TeamsChannel, &contact.SlackChannel, &contact.Email, &contact.DocsURL, &contact.IssueTracker,
		&counters.MemberCount, &counters.CoreCount, &counters.SubconCount,
		&counters.TotalCapacity, &counters.CoreCapacity, &counters.SubconCapacity,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return squad.Squad{}, err
	}
	return squad.Hydrate(
		uint(id), uint(tribeID), name, description, status, timezone,
		squad.TeamType(teamType), contact, counters, createdAt, updatedAt,
	), nil
}
