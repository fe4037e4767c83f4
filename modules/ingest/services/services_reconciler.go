package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/iota-uz/org-portal/modules/delivery/domain/aggregates/service"
	"github.com/iota-uz/org-portal/modules/ingest/domain/feed"
	"github.com/iota-uz/org-portal/modules/org/domain/aggregates/squad"
	"github.com/iota-uz/org-portal/pkg/composables"
	"github.com/iota-uz/org-portal/pkg/serrors"
)

// ServicesReconciler applies a services feed. Rows resolve to a squad by
// name; rows naming an unknown squad are reported and skipped. An
// existing (squad, name) service is updated, otherwise one is inserted.
type ServicesReconciler struct {
	squads   squad.Repository
	services service.Repository
}

func NewServicesReconciler(squads squad.Repository, services service.Repository) *ServicesReconciler {
	return &ServicesReconciler{squads: squads, services: services}
}

func (r *ServicesReconciler) Apply(ctx context.Context, table *feed.Table, mode feed.Mode) (int, []serrors.RowReport, error) {
	squadsByName, err := squadsByLowerName(ctx, r.squads)
	if err != nil {
		return 0, nil, err
	}

	applied := 0
	var reports []serrors.RowReport
	for i := 0; i < table.Len(); i++ {
		report, err := r.applyRow(ctx, squadsByName, table, i)
		if err != nil {
			return applied, reports, err
		}
		if report != nil {
			reports = append(reports, *report)
			continue
		}
		applied++
	}
	return applied, reports, nil
}

func (r *ServicesReconciler) applyRow(ctx context.Context, squadsByName map[string]squad.Squad, table *feed.Table, row int) (*serrors.RowReport, error) {
	squadName := table.Cell(row, "squad")
	name := table.Cell(row, "name", "service name", "service")
	if squadName == "" || name == "" {
		return &serrors.RowReport{
			Row:     row + 1,
			Code:    "ROW_INCOMPLETE",
			Message: "squad and name are required",
		}, nil
	}

	sq, ok := squadsByName[strings.ToLower(squadName)]
	if !ok {
		composables.UseLogger(ctx).WithField("squad", squadName).Warn("services feed: unknown squad, row skipped")
		return &serrors.RowReport{
			Row:     row + 1,
			Code:    "SQUAD_UNKNOWN",
			Message: fmt.Sprintf("squad %q does not exist", squadName),
		}, nil
	}

	status, err := service.ParseStatus(table.Cell(row, "status"))
	if err != nil {
		status = service.Healthy
	}
	serviceType, err := service.ParseType(table.Cell(row, "service type", "type"))
	if err != nil {
		serviceType = service.TypeAPI
	}
	uptime := 0.0
	if raw := table.Cell(row, "uptime"); raw != "" {
		if parsed, err := strconv.ParseFloat(strings.TrimSuffix(raw, "%"), 64); err == nil {
			uptime = parsed
		}
	}
	description := table.Cell(row, "description")
	version := table.Cell(row, "version")
	url := table.Cell(row, "url")
	docsURL := table.Cell(row, "docs url", "docs")

	existing, err := r.services.GetByName(ctx, sq.ID(), name)
	switch {
	case err == nil:
		_, err = r.services.Update(ctx, existing.ID(), service.UpdateFields{
			Description: &description,
			Status:      &status,
			Uptime:      &uptime,
			Version:     &version,
			ServiceType: &serviceType,
			URL:         &url,
			DocsURL:     &docsURL,
		})
		if err != nil {
			return nil, fmt.Errorf("update service %q: %w", name, err)
		}
		return nil, nil
	case errors.Is(err, service.ErrNotFound):
		entity := service.New(sq.ID(), name, description, status, serviceType).
			WithUptime(uptime).
			WithVersion(version).
			WithURLs(url, docsURL)
		if _, err := r.services.Create(ctx, entity); err != nil {
			return nil, fmt.Errorf("create service %q: %w", name, err)
		}
		return nil, nil
	default:
		return nil, err
	}
}

func squadsByLowerName(ctx context.Context, repo squad.Repository) (map[string]squad.Squad, error) {
	squads, err := repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]squad.Squad, len(squads))
	for _, s := range squads {
		out[strings.ToLower(s.Name())] = s
	}
	return out, nil
}
