package services

import (
	"context"
	"errors"

	"github.com/iota-uz/org-portal/modules/org/domain/aggregates/squad"
	"github.com/iota-uz/org-portal/modules/org/domain/aggregates/tribe"
	"github.com/iota-uz/org-portal/pkg/composables"
	"github.com/iota-uz/org-portal/pkg/eventbus"
	"github.com/iota-uz/org-portal/pkg/serrors"
)

type SquadService struct {
	repo      squad.Repository
	publisher eventbus.EventBus
}

func NewSquadService(repo squad.Repository, publisher eventbus.EventBus) *SquadService {
	return &SquadService{repo: repo, publisher: publisher}
}

func (s *SquadService) GetAll(ctx context.Context) ([]squad.Squad, error) {
	return s.repo.GetAll(ctx)
}

func (s *SquadService) GetByTribe(ctx context.Context, tribeID uint) ([]squad.Squad, error) {
	return s.repo.GetByTribe(ctx, tribeID)
}

func (s *SquadService) GetByID(ctx context.Context, id uint) (squad.Squad, error) {
	entity, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return squad.Squad{}, mapSquadErr(err)
	}
	return entity, nil
}

func (s *SquadService) Create(ctx context.Context, dto *squad.CreateDTO) (squad.Squad, error) {
	if errs, ok := dto.Ok(); !ok {
		return squad.Squad{}, validationError("SQUAD_INVALID", errs)
	}
	entity, err := dto.ToEntity()
	if err != nil {
		return squad.Squad{}, serrors.Validation("TEAM_TYPE_UNKNOWN", err.Error()).WithField("team_type")
	}
	created, err := composables.InTxResult(ctx, func(txCtx context.Context) (squad.Squad, error) {
		return s.repo.Create(txCtx, entity)
	})
	if err != nil {
		return squad.Squad{}, mapSquadErr(err)
	}
	s.publisher.Publish(squad.CreatedEvent{Result: created})
	return created, nil
}

func (s *SquadService) Update(ctx context.Context, id uint, dto *squad.UpdateDTO) (squad.Squad, error) {
	if errs, ok := dto.Ok(); !ok {
		return squad.Squad{}, validationError("SQUAD_INVALID", errs)
	}
	fields, err := dto.Fields()
	if err != nil {
		return squad.Squad{}, serrors.Validation("TEAM_TYPE_UNKNOWN", err.Error()).WithField("team_type")
	}
	updated, err := composables.InTxResult(ctx, func(txCtx context.Context) (squad.Squad, error) {
		return s.repo.Update(txCtx, id, fields)
	})
	if err != nil {
		return squad.Squad{}, mapSquadErr(err)
	}
	s.publisher.Publish(squad.UpdatedEvent{Result: updated})
	return updated, nil
}

func (s *SquadService) Reparent(ctx context.Context, id uint, newTribeID uint) (squad.Squad, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return squad.Squad{}, mapSquadErr(err)
	}
	oldTribeID := current.TribeID()
	moved, err := composables.InTxResult(ctx, func(txCtx context.Context) (squad.Squad, error) {
		return s.repo.Reparent(txCtx, id, newTribeID)
	})
	if err != nil {
		return squad.Squad{}, mapSquadErr(err)
	}
	s.publisher.Publish(squad.ReparentedEvent{Result: moved, OldTribeID: oldTribeID})
	return moved, nil
}

func (s *SquadService) Delete(ctx context.Context, id uint) error {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return mapSquadErr(err)
	}
	err = composables.InTx(ctx, func(txCtx context.Context) error {
		return s.repo.Delete(txCtx, id)
	})
	if err != nil {
		return mapSquadErr(err)
	}
	s.publisher.Publish(squad.DeletedEvent{ID: id, TribeID: current.TribeID()})
	return nil
}

func mapSquadErr(err error) error {
	switch {
	case errors.Is(err, squad.ErrNotFound):
		return serrors.NotFound("SQUAD_NOT_FOUND", "squad not found").WithCause(err)
	case errors.Is(err, squad.ErrNameTaken):
		return serrors.Conflict("SQUAD_NAME_CONFLICT", "squad name already exists within its tribe").WithCause(err)
	case errors.Is(err, tribe.ErrNotFound):
		return serrors.NotFound("TRIBE_NOT_FOUND", "tribe not found").WithCause(err)
	default:
		return err
	}
}
