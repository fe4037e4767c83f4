package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/iota-uz/org-portal/modules/delivery/domain/entities/dependency"
	"github.com/iota-uz/org-portal/modules/ingest/domain/feed"
	"github.com/iota-uz/org-portal/modules/org/domain/aggregates/squad"
	"github.com/iota-uz/org-portal/pkg/composables"
	"github.com/iota-uz/org-portal/pkg/serrors"
)

// DependenciesReconciler applies a dependencies feed. Both squads resolve
// by name; an edge is upserted keyed by (dependent, dependency) so replays
// never duplicate. Unknown interaction modes fall back to x_as_a_service
// with a warning, self-dependencies are rejected per row.
type DependenciesReconciler struct {
	squads       squad.Repository
	dependencies dependency.Repository
}

func NewDependenciesReconciler(squads squad.Repository, dependencies dependency.Repository) *DependenciesReconciler {
	return &DependenciesReconciler{squads: squads, dependencies: dependencies}
}

func (r *DependenciesReconciler) Apply(ctx context.Context, table *feed.Table, mode feed.Mode) (int, []serrors.RowReport, error) {
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

func (r *DependenciesReconciler) applyRow(ctx context.Context, squadsByName map[string]squad.Squad, table *feed.Table, row int) (*serrors.RowReport, error) {
	dependentName := table.Cell(row, "dependent squad")
	dependencyName := table.Cell(row, "dependency squad")
	name := table.Cell(row, "dependency name", "name")
	if dependentName == "" || dependencyName == "" || name == "" {
		return &serrors.RowReport{
			Row:     row + 1,
			Code:    "ROW_INCOMPLETE",
			Message: "dependent squad, dependency squad and dependency name are required",
		}, nil
	}

	dependent, ok := squadsByName[strings.ToLower(dependentName)]
	if !ok {
		return unknownSquadReport(ctx, row, dependentName)
	}
	dependencySquad, ok := squadsByName[strings.ToLower(dependencyName)]
	if !ok {
		return unknownSquadReport(ctx, row, dependencyName)
	}

	rawMode := table.Cell(row, "interaction mode", "mode")
	parsedMode, err := dependency.ParseMode(rawMode)
	if err != nil {
		composables.UseLogger(ctx).WithField("mode", rawMode).Warn("dependencies feed: unknown interaction mode, using x_as_a_service")
		parsedMode = dependency.XAsAService
	}
	frequency := table.Cell(row, "interaction frequency", "frequency")

	entity, err := dependency.New(dependent.ID(), dependencySquad.ID(), name, parsedMode, frequency)
	if err != nil {
		return &serrors.RowReport{
			Row:     row + 1,
			Code:    "DEPENDENCY_SELF",
			Message: fmt.Sprintf("squad %q cannot depend on itself", dependentName),
		}, nil
	}

	if _, err := r.dependencies.Upsert(ctx, entity); err != nil {
		if errors.Is(err, dependency.ErrSelfDependency) {
			return &serrors.RowReport{
				Row:     row + 1,
				Code:    "DEPENDENCY_SELF",
				Message: fmt.Sprintf("squad %q cannot depend on itself", dependentName),
			}, nil
		}
		return nil, fmt.Errorf("upsert dependency: %w", err)
	}
	return nil, nil
}

func unknownSquadReport(ctx context.Context, row int, name string) (*serrors.RowReport, error) {
	composables.UseLogger(ctx).WithField("squad", name).Warn("dependencies feed: unknown squad, row skipped")
	return &serrors.RowReport{
		Row:     row + 1,
		Code:    "SQUAD_UNKNOWN",
		Message: fmt.Sprintf("squad %q does not exist", name),
	}, nil
}
