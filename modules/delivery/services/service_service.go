package services

import (
	"context"
	"errors"

	"github.com/iota-uz/org-portal/modules/delivery/domain/aggregates/service"
	"github.com/iota-uz/org-portal/modules/org/domain/aggregates/squad"
	"github.com/iota-uz/org-portal/pkg/composables"
	"github.com/iota-uz/org-portal/pkg/eventbus"
	"github.com/iota-uz/org-portal/pkg/serrors"
)

type ServiceService struct {
	repo      service.Repository
	publisher eventbus.EventBus
}

func NewServiceService(repo service.Repository, publisher eventbus.EventBus) *ServiceService {
	return &ServiceService{repo: repo, publisher: publisher}
}

func (s *ServiceService) GetAll(ctx context.Context) ([]service.Service, error) {
	return s.repo.GetAll(ctx)
}

func (s *ServiceService) GetBySquad(ctx context.Context, squadID uint) ([]service.Service, error) {
	return s.repo.GetBySquad(ctx, squadID)
}

func (s *ServiceService) GetByID(ctx context.Context, id uint) (service.Service, error) {
	entity, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return service.Service{}, mapServiceErr(err)
	}
	return entity, nil
}

func (s *ServiceService) Create(ctx context.Context, dto *service.CreateDTO) (service.Service, error) {
	if errs, ok := dto.Ok(); !ok {
		return service.Service{}, validationError("SERVICE_INVALID", errs)
	}
	entity, err := dto.ToEntity()
	if err != nil {
		return service.Service{}, serrors.Validation("SERVICE_ENUM_UNKNOWN", err.Error())
	}
	created, err := composables.InTxResult(ctx, func(txCtx context.Context) (service.Service, error) {
		return s.repo.Create(txCtx, entity)
	})
	if err != nil {
		return service.Service{}, mapServiceErr(err)
	}
	s.publisher.Publish(service.CreatedEvent{Result: created})
	return created, nil
}

func (s *ServiceService) Update(ctx context.Context, id uint, dto *service.UpdateDTO) (service.Service, error) {
	if errs, ok := dto.Ok(); !ok {
		return service.Service{}, validationError("SERVICE_INVALID", errs)
	}
	fields, err := dto.Fields()
	if err != nil {
		return service.Service{}, serrors.Validation("SERVICE_ENUM_UNKNOWN", err.Error())
	}
	updated, err := composables.InTxResult(ctx, func(txCtx context.Context) (service.Service, error) {
		return s.repo.Update(txCtx, id, fields)
	})
	if err != nil {
		return service.Service{}, mapServiceErr(err)
	}
	s.publisher.Publish(service.UpdatedEvent{Result: updated})
	return updated, nil
}

func (s *ServiceService) Delete(ctx context.Context, id uint) error {
	err := composables.InTx(ctx, func(txCtx context.Context) error {
		return s.repo.Delete(txCtx, id)
	})
	if err != nil {
		return mapServiceErr(err)
	}
	s.publisher.Publish(service.DeletedEvent{ID: id})
	return nil
}

func mapServiceErr(err error) error {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return serrors.NotFound("SERVICE_NOT_FOUND", "service not found").WithCause(err)
	case errors.Is(err, service.ErrNameTaken):
		return serrors.Conflict("SERVICE_NAME_CONFLICT", "service name already exists within its squad").WithCause(err)
	case errors.Is(err, squad.ErrNotFound):
		return serrors.NotFound("SQUAD_NOT_FOUND", "squad not found").WithCause(err)
	default:
		return err
	}
}
