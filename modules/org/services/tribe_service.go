package services

import (
	"context"
	"errors"

	"github.com/iota-uz/org-portal/modules/org/domain/aggregates/area"
	"github.com/iota-uz/org-portal/modules/org/domain/aggregates/tribe"
	"github.com/iota-uz/org-portal/pkg/composables"
	"github.com/iota-uz/org-portal/pkg/eventbus"
	"github.com/iota-uz/org-portal/pkg/serrors"
)

type TribeService struct {
	repo      tribe.Repository
	publisher eventbus.EventBus
}

func NewTribeService(repo tribe.Repository, publisher eventbus.EventBus) *TribeService {
	return &TribeService{repo: repo, publisher: publisher}
}

func (s *TribeService) GetAll(ctx context.Context) ([]tribe.Tribe, error) {
	return s.repo.GetAll(ctx)
}

func (s *TribeService) GetByArea(ctx context.Context, areaID uint) ([]tribe.Tribe, error) {
	return s.repo.GetByArea(ctx, areaID)
}

func (s *TribeService) GetByID(ctx context.Context, id uint) (tribe.Tribe, error) {
	entity, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return tribe.Tribe{}, mapTribeErr(err)
	}
	return entity, nil
}

func (s *TribeService) Create(ctx context.Context, dto *tribe.CreateDTO) (tribe.Tribe, error) {
	if errs, ok := dto.Ok(); !ok {
		return tribe.Tribe{}, validationError("TRIBE_INVALID", errs)
	}
	entity, err := dto.ToEntity()
	if err != nil {
		return tribe.Tribe{}, serrors.Validation("LABEL_UNKNOWN", err.Error()).WithField("label")
	}
	created, err := composables.InTxResult(ctx, func(txCtx context.Context) (tribe.Tribe, error) {
		return s.repo.Create(txCtx, entity)
	})
	if err != nil {
		return tribe.Tribe{}, mapTribeErr(err)
	}
	s.publisher.Publish(tribe.CreatedEvent{Result: created})
	return created, nil
}

func (s *TribeService) Update(ctx context.Context, id uint, dto *tribe.UpdateDTO) (tribe.Tribe, error) {
	if errs, ok := dto.Ok(); !ok {
		return tribe.Tribe{}, validationError("TRIBE_INVALID", errs)
	}
	fields, err := dto.Fields()
	if err != nil {
		return tribe.Tribe{}, serrors.Validation("LABEL_UNKNOWN", err.Error()).WithField("label")
	}
	updated, err := composables.InTxResult(ctx, func(txCtx context.Context) (tribe.Tribe, error) {
		return s.repo.Update(txCtx, id, fields)
	})
	if err != nil {
		return tribe.Tribe{}, mapTribeErr(err)
	}
	s.publisher.Publish(tribe.UpdatedEvent{Result: updated})
	return updated, nil
}

// Reparent moves a tribe under a different area. Counters of both the old
// and the new area become stale until the next recompute.
func (s *TribeService) Reparent(ctx context.Context, id uint, newAreaID uint) (tribe.Tribe, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return tribe.Tribe{}, mapTribeErr(err)
	}
	oldAreaID := current.AreaID()
	moved, err := composables.InTxResult(ctx, func(txCtx context.Context) (tribe.Tribe, error) {
		return s.repo.Reparent(txCtx, id, newAreaID)
	})
	if err != nil {
		return tribe.Tribe{}, mapTribeErr(err)
	}
	s.publisher.Publish(tribe.ReparentedEvent{Result: moved, OldAreaID: oldAreaID})
	return moved, nil
}

func (s *TribeService) Delete(ctx context.Context, id uint) error {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return mapTribeErr(err)
	}
	err = composables.InTx(ctx, func(txCtx context.Context) error {
		return s.repo.Delete(txCtx, id)
	})
	if err != nil {
		return mapTribeErr(err)
	}
	s.publisher.Publish(tribe.DeletedEvent{ID: id, AreaID: current.AreaID()})
	return nil
}

func mapTribeErr(err error) error {
	switch {
	case errors.Is(err, tribe.ErrNotFound):
		return serrors.NotFound("TRIBE_NOT_FOUND", "tribe not found").WithCause(err)
	case errors.Is(err, tribe.ErrNameTaken):
		return serrors.Conflict("TRIBE_NAME_CONFLICT", "tribe name already exists within its area").WithCause(err)
	case errors.Is(err, area.ErrNotFound):
		return serrors.NotFound("AREA_NOT_FOUND", "area not found").WithCause(err)
	default:
		return err
	}
}
