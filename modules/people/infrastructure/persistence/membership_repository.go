package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/iota-uz/org-portal/modules/org/domain/aggregates/squad"
	"github.com/iota-uz/org-portal/modules/people/domain/aggregates/member"
	"github.com/iota-uz/org-portal/modules/people/domain/entities/membership"
	"github.com/iota-uz/org-portal/pkg/composables"
)

const membershipSelect = `
SELECT id, member_id, squad_id, capacity, role, created_at, updated_at
FROM squad_memberships`

type MembershipRepository struct{}

func NewMembershipRepository() membership.Repository {
	return &MembershipRepository{}
}

func (r *MembershipRepository) GetByMember(ctx context.Context, memberID uint) ([]membership.Membership, error) {
	return r.list(ctx, `member_id = $1`, int64(memberID))
}

func (r *MembershipRepository) GetBySquad(ctx context.Context, squadID uint) ([]membership.Membership, error) {
	return r.list(ctx, `squad_id = $1`, int64(squadID))
}

func (r *MembershipRepository) list(ctx context.Context, cond string, arg any) ([]membership.Membership, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, membershipSelect+` WHERE `+cond+` ORDER BY id`, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]membership.Membership, 0, 16)
	for rows.Next() {
		m, err := scanMembership(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *MembershipRepository) GetByMemberAndSquad(ctx context.Context, memberID, squadID uint) (membership.Membership, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return membership.Membership{}, err
	}
	row := tx.QueryRow(ctx, membershipSelect+` WHERE member_id = $1 AND squad_id = $2`, int64(memberID), int64(squadID))
	m, err := scanMembership(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return membership.Membership{}, membership.ErrNotFound
	}
	return m, err
}

func (r *MembershipRepository) Create(ctx context.Context, data membership.Membership) (membership.Membership, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return membership.Membership{}, err
	}
	var id int64
	err = tx.QueryRow(ctx, `
INSERT INTO squad_memberships (member_id, squad_id, capacity, role)
VALUES ($1, $2, $3, $4)
RETURNING id`,
		int64(data.MemberID()), int64(data.SquadID()), data.Capacity(), data.Role(),
	).Scan(&id)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return membership.Membership{}, membership.ErrDuplicate
		case isForeignKeyViolation(err, "member_id"):
			return membership.Membership{}, member.ErrNotFound
		case isForeignKeyViolation(err, "squad_id"):
			return membership.Membership{}, squad.ErrNotFound
		}
		return membership.Membership{}, fmt.Errorf("create squad membership: %w", err)
	}
	return r.getByID(ctx, uint(id))
}

func (r *MembershipRepository) Update(ctx context.Context, id uint, fields membership.UpdateFields) (membership.Membership, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return membership.Membership{}, err
	}
	sets := []string{"updated_at = now()"}
	args := []any{}
	idx := 1
	if fields.Capacity != nil {
		sets = append(sets, fmt.Sprintf("capacity = $%d", idx))
		args = append(args, *fields.Capacity)
		idx++
	}
	if fields.Role != nil {
		sets = append(sets, fmt.Sprintf("role = $%d", idx))
		args = append(args, strings.TrimSpace(*fields.Role))
		idx++
	}
	args = append(args, int64(id))
	tag, err := tx.Exec(ctx, fmt.Sprintf(`UPDATE squad_memberships SET %s WHERE id = $%d`, strings.Join(sets, ", "), idx), args...)
	if err != nil {
		return membership.Membership{}, fmt.Errorf("update squad membership: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return membership.Membership{}, membership.ErrNotFound
	}
	return r.getByID(ctx, id)
}

func (r *MembershipRepository) Delete(ctx context.Context, id uint) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, `DELETE FROM squad_memberships WHERE id = $1`, int64(id))
	if err != nil {
		return fmt.Errorf("delete squad membership: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return membership.ErrNotFound
	}
	return nil
}

func (r *MembershipRepository) getByID(ctx context.Context, id uint) (membership.Membership, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return membership.Membership{}, err
	}
	row := tx.QueryRow(ctx, membershipSelect+` WHERE id = $1`, int64(id))
	m, err := scanMembership(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return membership.Membership{}, membership.ErrNotFound
	}
	return m, err
}

func scanMembership(row rowScanner) (membership.Membership, error) {
	var (
		id, memberID, squadID int64
		capacity              float64
		role                  string
		createdAt, updatedAt  time.Time
	)
	if err := row.Scan(&id, &memberID, &squadID, &capacity, &role, &createdAt, &updatedAt); err != nil {
		return membership.Membership{}, err
	}
	return membership.Hydrate(uint(id), uint(memberID), uint(squadID), capacity, role, createdAt, updatedAt), nil
}

func isForeignKeyViolation(err error, column string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != "23503" {
		return false
	}
	return strings.Contains(pgErr.ConstraintName, column)
}
