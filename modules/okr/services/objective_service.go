package services

import (
	"context"
	"errors"

	"github.com/iota-uz/org-portal/modules/okr/domain/aggregates/objective"
	"github.com/iota-uz/org-portal/modules/org/domain/aggregates/area"
	"github.com/iota-uz/org-portal/modules/org/domain/aggregates/squad"
	"github.com/iota-uz/org-portal/modules/org/domain/aggregates/tribe"
	"github.com/iota-uz/org-portal/pkg/composables"
	"github.com/iota-uz/org-portal/pkg/eventbus"
	"github.com/iota-uz/org-portal/pkg/serrors"
)

type ObjectiveService struct {
	repo      objective.Repository
	publisher eventbus.EventBus
}

func NewObjectiveService(repo objective.Repository, publisher eventbus.EventBus) *ObjectiveService {
	return &ObjectiveService{repo: repo, publisher: publisher}
}

func (s *ObjectiveService) GetByID(ctx context.Context, id uint) (objective.Objective, error) {
	entity, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return objective.Objective{}, mapObjectiveErr(err)
	}
	return entity, nil
}

func (s *ObjectiveService) Create(ctx context.Context, dto *objective.CreateDTO) (objective.Objective, error) {
	if errs, ok := dto.Ok(); !ok {
		return objective.Objective{}, validationError("OBJECTIVE_INVALID", errs)
	}
	entity, err := dto.ToEntity()
	if err != nil {
		return objective.Objective{}, mapObjectiveErr(err)
	}
	created, err := composables.InTxResult(ctx, func(txCtx context.Context) (objective.Objective, error) {
		return s.repo.Create(txCtx, entity)
	})
	if err != nil {
		return objective.Objective{}, mapObjectiveErr(err)
	}
	s.publisher.Publish(objective.CreatedEvent{Result: created})
	return created, nil
}

func (s *ObjectiveService) Update(ctx context.Context, id uint, dto *objective.UpdateDTO) (objective.Objective, error) {
	if errs, ok := dto.Ok(); !ok {
		return objective.Objective{}, validationError("OBJECTIVE_INVALID", errs)
	}
	updated, err := composables.InTxResult(ctx, func(txCtx context.Context) (objective.Objective, error) {
		return s.repo.Update(txCtx, id, dto.Fields())
	})
	if err != nil {
		return objective.Objective{}, mapObjectiveErr(err)
	}
	s.publisher.Publish(objective.UpdatedEvent{Result: updated})
	return updated, nil
}

func (s *ObjectiveService) Delete(ctx context.Context, id uint) error {
	err := composables.InTx(ctx, func(txCtx context.Context) error {
		return s.repo.Delete(txCtx, id)
	})
	if err != nil {
		return mapObjectiveErr(err)
	}
	s.publisher.Publish(objective.DeletedEvent{ID: id})
	return nil
}

func mapObjectiveErr(err error) error {
	switch {
	case errors.Is(err, objective.ErrNotFound):
		return serrors.NotFound("OBJECTIVE_NOT_FOUND", "objective not found").WithCause(err)
	case errors.Is(err, objective.ErrNoScope):
		return serrors.Validation("OBJECTIVE_SCOPE_MISSING", "objective must reference an area, tribe or squad").WithCause(err)
	case errors.Is(err, area.ErrNotFound):
		return serrors.NotFound("AREA_NOT_FOUND", "area not found").WithCause(err)
	case errors.Is(err, tribe.ErrNotFound):
		return serrors.NotFound("TRIBE_NOT_FOUND", "tribe not found").WithCause(err)
	case errors.Is(err, squad.ErrNotFound):
		return serrors.NotFound("SQUAD_NOT_FOUND", "squad not found").WithCause(err)
	default:
		return err
	}
}
