package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/iota-uz/org-portal/modules/delivery/domain/aggregates/service"
	"github.com/iota-uz/org-portal/modules/org/domain/aggregates/squad"
	"github.com/iota-uz/org-portal/pkg/composables"
)

const serviceSelect = `
SELECT
	v.id,
	v.squad_id,
	v.name,
	v.description,
	v.status,
	v.uptime,
	v.version,
	v.service_type,
	v.url,
	v.docs_url,
	v.created_at,
	v.updated_at
FROM services v`

type ServiceRepository struct{}

func NewServiceRepository() service.Repository {
	return &ServiceRepository{}
}

func (r *ServiceRepository) GetAll(ctx context.Context) ([]service.Service, error) {
	return r.list(ctx, serviceSelect+` ORDER BY v.name`)
}

func (r *ServiceRepository) GetBySquad(ctx context.Context, squadID uint) ([]service.Service, error) {
	return r.list(ctx, serviceSelect+` WHERE v.squad_id = $1 ORDER BY v.name`, int64(squadID))
}

func (r *ServiceRepository) list(ctx context.Context, query string, args ...any) ([]service.Service, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]service.Service, 0, 16)
	for rows.Next() {
		s, err := scanService(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *ServiceRepository) GetByID(ctx context.Context, id uint) (service.Service, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return service.Service{}, err
	}
	row := tx.QueryRow(ctx, serviceSelect+` WHERE v.id = $1`, int64(id))
	s, err := scanService(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return service.Service{}, service.ErrNotFound
	}
	return s, err
}

func (r *ServiceRepository) GetByName(ctx context.Context, squadID uint, name string) (service.Service, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return service.Service{}, err
	}
	row := tx.QueryRow(ctx,
		serviceSelect+` WHERE v.squad_id = $1 AND lower(v.name) = lower($2)`,
		int64(squadID), strings.TrimSpace(name),
	)
	s, err := scanService(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return service.Service{}, service.ErrNotFound
	}
	return s, err
}

func (r *ServiceRepository) Create(ctx context.Context, data service.Service) (service.Service, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return service.Service{}, err
	}
	var id int64
	err = tx.QueryRow(ctx, `
INSERT INTO services (squad_id, name, description, status, uptime, version, service_type, url, docs_url)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING id`,
		int64(data.SquadID()), data.Name(), data.Description(), string(data.Status()),
		data.Uptime(), data.Version(), string(data.ServiceType()), data.URL(), data.DocsURL(),
	).Scan(&id)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return service.Service{}, service.ErrNameTaken
		case isFKViolation(err):
			return service.Service{}, squad.ErrNotFound
		}
		return service.Service{}, fmt.Errorf("create service: %w", err)
	}
	return r.GetByID(ctx, uint(id))
}

func (r *ServiceRepository) Update(ctx context.Context, id uint, fields service.UpdateFields) (service.Service, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return service.Service{}, err
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
	if fields.Description != nil {
		set("description", *fields.Description)
	}
	if fields.Status != nil {
		set("status", string(*fields.Status))
	}
	if fields.Uptime != nil {
		set("uptime", *fields.Uptime)
	}
	if fields.Version != nil {
		set("version", strings.TrimSpace(*fields.Version))
	}
	if fields.ServiceType != nil {
		set("service_type", string(*fields.ServiceType))
	}
	if fields.URL != nil {
		set("url", strings.TrimSpace(*fields.URL))
	}
	if fields.DocsURL != nil {
		set("docs_url", strings.TrimSpace(*fields.DocsURL))
	}
	args = append(args, int64(id))

	tag, err := tx.Exec(ctx, fmt.Sprintf(`UPDATE services SET %s WHERE id = $%d`, strings.Join(sets, ", "), idx), args...)
	if err != nil {
		if isUniqueViolation(err) {
			return service.Service{}, service.ErrNameTaken
		}
		return service.Service{}, fmt.Errorf("update service: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return service.Service{}, service.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *ServiceRepository) Delete(ctx context.Context, id uint) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, `DELETE FROM services WHERE id = $1`, int64(id))
	if err != nil {
		return fmt.Errorf("delete service: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return service.ErrNotFound
	}
	return nil
}

func scanService(row rowScanner) (service.Service, error) {
	var (
		id, squadID          int64
		name, description    string
		status, version      string
		serviceType          string
		uptime               float64
		url, docsURL         string
		createdAt, updatedAt time.Time
	)
	err := row.Scan(
		&id, &squadID, &name, &description, &status,
		&uptime, &version, &serviceType, &url, &docsURL,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return service.Service{}, err
	}
	return service.Hydrate(
		uint(id), uint(squadID), name, description,
		service.Status(status), uptime, version, service.Type(serviceType),
		url, docsURL, createdAt, updatedAt,
	), nil
}
