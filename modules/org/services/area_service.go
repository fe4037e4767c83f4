package services

import (
	"context"
	"errors"

	"github.com/iota-uz/org-portal/modules/org/domain/aggregates/area"
	"github.com/iota-uz/org-portal/pkg/composables"
	"github.com/iota-uz/org-portal/pkg/eventbus"
	"github.com/iota-uz/org-portal/pkg/serrors"
)

type AreaService struct {
	repo      area.Repository
	publisher eventbus.EventBus
}

func NewAreaService(repo area.Repository, publisher eventbus.EventBus) *AreaService {
	return &AreaService{repo: repo, publisher: publisher}
}

func (s *AreaService) GetAll(ctx context.Context) ([]area.Area, error) {
	return s.repo.GetAll(ctx)
}

func (s *AreaService) GetByID(ctx context.Context, id uint) (area.Area, error) {
	entity, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return area.Area{}, mapAreaErr(err)
	}
	return entity, nil
}

func (s *AreaService) Create(ctx context.Context, dto *area.CreateDTO) (area.Area, error) {
	if errs, ok := dto.Ok(); !ok {
		return area.Area{}, validationError("AREA_INVALID", errs)
	}
	entity, err := dto.ToEntity()
	if err != nil {
		return area.Area{}, serrors.Validation("LABEL_UNKNOWN", err.Error()).WithField("label")
	}
	created, err := composables.InTxResult(ctx, func(txCtx context.Context) (area.Area, error) {
		return s.repo.Create(txCtx, entity)
	})
	if err != nil {
		return area.Area{}, mapAreaErr(err)
	}
	s.publisher.Publish(area.CreatedEvent{Result: created})
	return created, nil
}

func (s *AreaService) Update(ctx context.Context, id uint, dto *area.UpdateDTO) (area.Area, error) {
	if errs, ok := dto.Ok(); !ok {
		return area.Area{}, validationError("AREA_INVALID", errs)
	}
	fields, err := dto.Fields()
	if err != nil {
		return area.Area{}, serrors.Validation("LABEL_UNKNOWN", err.Error()).WithField("label")
	}
	updated, err := composables.InTxResult(ctx, func(txCtx context.Context) (area.Area, error) {
		return s.repo.Update(txCtx, id, fields)
	})
	if err != nil {
		return area.Area{}, mapAreaErr(err)
	}
	s.publisher.Publish(area.UpdatedEvent{Result: updated})
	return updated, nil
}

func (s *AreaService) Delete(ctx context.Context, id uint) error {
	err := composables.InTx(ctx, func(txCtx context.Context) error {
		return s.repo.Delete(txCtx, id)
	})
	if err != nil {
		return mapAreaErr(err)
	}
	s.publisher.Publish(area.DeletedEvent{ID: id})
	return nil
}

func mapAreaErr(err error) error {
	switch {
	case errors.Is(err, area.ErrNotFound):
		return serrors.NotFound("AREA_NOT_FOUND", "area not found").WithCause(err)
	case errors.Is(err, area.ErrNameTaken):
		return serrors.Conflict("AREA_NAME_CONFLICT", "area name already exists").WithCause(err)
	default:
		return err
	}
}
