package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/iota-uz/org-portal/modules/people/domain/aggregates/member"
	"github.com/iota-uz/org-portal/pkg/composables"
)

const memberSelect = `
SELECT
	m.id,
	m.name,
	m.email,
	m.role,
	m.function,
	m.geography,
	m.location,
	m.image_url,
	m.vendor,
	m.employment_type,
	m.is_external,
	m.is_vacancy,
	m.supervisor_id,
	m.created_at,
	m.updated_at
FROM team_members m`

type MemberRepository struct{}

func NewMemberRepository() member.Repository {
	return &MemberRepository{}
}

func (r *MemberRepository) GetAll(ctx context.Context) ([]member.Member, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, memberSelect+` ORDER BY m.name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectMembers(rows)
}

func (r *MemberRepository) GetByID(ctx context.Context, id uint) (member.Member, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return member.Member{}, err
	}
	row := tx.QueryRow(ctx, memberSelect+` WHERE m.id = $1`, int64(id))
	m, err := scanMember(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return member.Member{}, member.ErrNotFound
	}
	return m, err
}

func (r *MemberRepository) GetByEmail(ctx context.Context, email string) (member.Member, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return member.Member{}, err
	}
	row := tx.QueryRow(ctx, memberSelect+` WHERE lower(m.email) = lower($1)`, strings.TrimSpace(email))
	m, err := scanMember(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return member.Member{}, member.ErrNotFound
	}
	return m, err
}

func (r *MemberRepository) GetBySquad(ctx context.Context, squadID uint) ([]member.Member, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, memberSelect+`
JOIN squad_memberships sm ON sm.member_id = m.id
WHERE sm.squad_id = $1
ORDER BY m.name`, int64(squadID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectMembers(rows)
}

func (r *MemberRepository) Create(ctx context.Context, data member.Member) (member.Member, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return member.Member{}, err
	}
	var supervisor any
	if data.SupervisorID() != nil {
		supervisor = int64(*data.SupervisorID())
	}
	p := data.Profile()
	var id int64
	err = tx.QueryRow(ctx, `
INSERT INTO team_members (
	name, email, role, function, geography, location, image_url, vendor,
	employment_type, is_external, is_vacancy, supervisor_id
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
RETURNING id`,
		data.Name(), data.Email(), data.Role(),
		p.Function, p.Geography, p.Location, p.ImageURL, p.Vendor,
		string(data.EmploymentType()), data.IsExternal(), data.IsVacancy(), supervisor,
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return member.Member{}, member.ErrEmailTaken
		}
		return member.Member{}, fmt.Errorf("create team member: %w", err)
	}
	return r.GetByID(ctx, uint(id))
}

func (r *MemberRepository) Update(ctx context.Context, id uint, fields member.UpdateFields) (member.Member, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return member.Member{}, err
	}

	sets := []string{"updated_at = now()"}
	args := []any{}
	idx := 1
	set := func(col string, v any) {
		sets = append(sets, fmt.Sprintf("%s = $%d", col, idx))
		args = append(args, v)
		idx++
	}
	if fields.Name != nil {
		set("name", strings.TrimSpace(*fields.Name))
	}
	if fields.Email != nil {
		set("email", strings.ToLower(strings.TrimSpace(*fields.Email)))
	}
	if fields.Role != nil {
		set("role", strings.TrimSpace(*fields.Role))
	}
	if fields.Function != nil {
		set("function", strings.TrimSpace(*fields.Function))
	}
	if fields.Geography != nil {
		set("geography", strings.TrimSpace(*fields.Geography))
	}
	if fields.Location != nil {
		set("location", strings.TrimSpace(*fields.Location))
	}
	if fields.ImageURL != nil {
		set("image_url", strings.TrimSpace(*fields.ImageURL))
	}
	if fields.Vendor != nil {
		set("vendor", strings.TrimSpace(*fields.Vendor))
	}
	if fields.EmploymentType != nil {
		set("employment_type", string(*fields.EmploymentType))
	}
	if fields.IsExternal != nil {
		set("is_external", *fields.IsExternal)
	}
	if fields.IsVacancy != nil {
		set("is_vacancy", *fields.IsVacancy)
	}
	if fields.Supervisor != nil {
		if fields.Supervisor.ID == nil {
			sets = append(sets, "supervisor_id = NULL")
		} else {
			set("supervisor_id", int64(*fields.Supervisor.ID))
		}
	}
	args = append(args, int64(id))

	tag, err := tx.Exec(ctx, fmt.Sprintf(`UPDATE team_members SET %s WHERE id = $%d`, strings.Join(sets, ", "), idx), args...)
	if err != nil {
		if isUniqueViolation(err) {
			return member.Member{}, member.ErrEmailTaken
		}
		return member.Member{}, fmt.Errorf("update team member: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return member.Member{}, member.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *MemberRepository) Delete(ctx context.Context, id uint) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, `DELETE FROM team_members WHERE id = $1`, int64(id))
	if err != nil {
		return fmt.Errorf("delete team member: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return member.ErrNotFound
	}
	return nil
}

func collectMembers(rows pgx.Rows) ([]member.Member, error) {
	out := make([]member.Member, 0, 32)
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func scanMember(row rowScanner) (member.Member, error) {
	var (
		id                   int64
		name, email, role    string
		profile              member.Profile
		employmentType       string
		isExternal           bool
		isVacancy            bool
		supervisor           *int64
		createdAt, updatedAt time.Time
	)
	err := row.Scan(
		&id, &name, &email, &role,
		&profile.Function, &profile.Geography, &profile.Location, &profile.ImageURL, &profile.Vendor,
		&employmentType, &isExternal, &isVacancy, &supervisor,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return member.Member{}, err
	}
	var supervisorID *uint
	if supervisor != nil {
		v := uint(*supervisor)
		supervisorID = &v
	}
	return member.Hydrate(
		uint(id), name, email, role, profile,
		member.EmploymentType(employmentType),
		isExternal, isVacancy, supervisorID,
		createdAt, updatedAt,
	), nil
}
