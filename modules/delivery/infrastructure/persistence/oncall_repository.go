package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/iota-uz/org-portal/modules/delivery/domain/entities/oncall"
	"github.com/iota-uz/org-portal/modules/org/domain/aggregates/squad"
	"github.com/iota-uz/org-portal/pkg/composables"
)

const rosterSelect = `
SELECT id, squad_id, primary_name, primary_contact, secondary_name, secondary_contact, created_at, updated_at
FROM on_call_rosters`

type OnCallRepository struct{}

func NewOnCallRepository() oncall.Repository {
	return &OnCallRepository{}
}

func (r *OnCallRepository) GetBySquad(ctx context.Context, squadID uint) (oncall.Roster, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return oncall.Roster{}, err
	}
	row := tx.QueryRow(ctx, rosterSelect+` WHERE squad_id = $1`, int64(squadID))
	roster, err := scanRoster(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return oncall.Roster{}, oncall.ErrNotFound
	}
	return roster, err
}

func (r *OnCallRepository) Upsert(ctx context.Context, data oncall.Roster) (oncall.Roster, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return oncall.Roster{}, err
	}
	_, err = tx.Exec(ctx, `
INSERT INTO on_call_rosters (squad_id, primary_name, primary_contact, secondary_name, secondary_contact)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (squad_id) DO UPDATE SET
	primary_name = EXCLUDED.primary_name,
	primary_contact = EXCLUDED.primary_contact,
	secondary_name = EXCLUDED.secondary_name,
	secondary_contact = EXCLUDED.secondary_contact,
	updated_at = now()`,
		int64(data.SquadID()), data.PrimaryName(), data.PrimaryContact(),
		data.SecondaryName(), data.SecondaryContact(),
	)
	if err != nil {
		if isFKViolation(err) {
			return oncall.Roster{}, squad.ErrNotFound
		}
		return oncall.Roster{}, fmt.Errorf("upsert on-call roster: %w", err)
	}
	return r.GetBySquad(ctx, data.SquadID())
}

func (r *OnCallRepository) Delete(ctx context.Context, squadID uint) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, `DELETE FROM on_call_rosters WHERE squad_id = $1`, int64(squadID))
	if err != nil {
		return fmt.Errorf("delete on-call roster: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return oncall.ErrNotFound
	}
	return nil
}

func scanRoster(row rowScanner) (oncall.Roster, error) {
	var (
		id, squadID                                                  int64
		primaryName, primaryContact, secondaryName, secondaryContact string
		createdAt, updatedAt                                         time.Time
	)
	err := row.Scan(&id, &squadID, &primaryName, &primaryContact, &secondaryName, &secondaryContact, &createdAt, &updatedAt)
	if err != nil {
		return oncall.Roster{}, err
	}
	return oncall.Hydrate(uint(id), uint(squadID), primaryName, primaryContact, secondaryName, secondaryContact, createdAt, updatedAt), nil
}
