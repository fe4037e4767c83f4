package services

import (
	"context"
	"errors"

	"github.com/iota-uz/org-portal/modules/okr/domain/aggregates/objective"
	"github.com/iota-uz/org-portal/modules/okr/domain/entities/keyresult"
	"github.com/iota-uz/org-portal/pkg/composables"
	"github.com/iota-uz/org-portal/pkg/eventbus"
	"github.com/iota-uz/org-portal/pkg/serrors"
)

// KeyResultService mutates key results and keeps the parent objective's
// updated_at current. Position reshuffles happen in the repository inside
// the same transaction as the write.
type KeyResultService struct {
	repo       keyresult.Repository
	objectives objective.Repository
	publisher  eventbus.EventBus
}

func NewKeyResultService(repo keyresult.Repository, objectives objective.Repository, publisher eventbus.EventBus) *KeyResultService {
	return &KeyResultService{repo: repo, objectives: objectives, publisher: publisher}
}

func (s *KeyResultService) GetByObjective(ctx context.Context, objectiveID uint) ([]keyresult.KeyResult, error) {
	if _, err := s.objectives.GetByID(ctx, objectiveID); err != nil {
		return nil, mapKeyResultErr(err)
	}
	return s.repo.GetByObjective(ctx, objectiveID)
}

func (s *KeyResultService) GetByID(ctx context.Context, id uint) (keyresult.KeyResult, error) {
	entity, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return keyresult.KeyResult{}, mapKeyResultErr(err)
	}
	return entity, nil
}

func (s *KeyResultService) Create(ctx context.Context, dto *keyresult.CreateDTO) (keyresult.KeyResult, error) {
	if errs, ok := dto.Ok(); !ok {
		return keyresult.KeyResult{}, validationError("KEY_RESULT_INVALID", errs)
	}
	created, err := composables.InTxResult(ctx, func(txCtx context.Context) (keyresult.KeyResult, error) {
		kr, err := s.repo.Insert(txCtx, dto.ToEntity(), dto.Position)
		if err != nil {
			return keyresult.KeyResult{}, err
		}
		return kr, s.objectives.Touch(txCtx, kr.ObjectiveID())
	})
	if err != nil {
		return keyresult.KeyResult{}, mapKeyResultErr(err)
	}
	s.publisher.Publish(keyresult.CreatedEvent{Result: created})
	return created, nil
}

func (s *KeyResultService) Update(ctx context.Context, id uint, dto *keyresult.UpdateDTO) (keyresult.KeyResult, error) {
	if errs, ok := dto.Ok(); !ok {
		return keyresult.KeyResult{}, validationError("KEY_RESULT_INVALID", errs)
	}
	updated, err := composables.InTxResult(ctx, func(txCtx context.Context) (keyresult.KeyResult, error) {
		kr, err := s.repo.Update(txCtx, id, dto.Fields())
		if err != nil {
			return keyresult.KeyResult{}, err
		}
		return kr, s.objectives.Touch(txCtx, kr.ObjectiveID())
	})
	if err != nil {
		return keyresult.KeyResult{}, mapKeyResultErr(err)
	}
	s.publisher.Publish(keyresult.UpdatedEvent{Result: updated})
	return updated, nil
}

func (s *KeyResultService) Delete(ctx context.Context, id uint) error {
	var objectiveID uint
	err := composables.InTx(ctx, func(txCtx context.Context) error {
		kr, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		objectiveID = kr.ObjectiveID()
		if err := s.repo.Delete(txCtx, id); err != nil {
			return err
		}
		return s.objectives.Touch(txCtx, objectiveID)
	})
	if err != nil {
		return mapKeyResultErr(err)
	}
	s.publisher.Publish(keyresult.DeletedEvent{ID: id, ObjectiveID: objectiveID})
	return nil
}

func mapKeyResultErr(err error) error {
	switch {
	case errors.Is(err, keyresult.ErrNotFound):
		return serrors.NotFound("KEY_RESULT_NOT_FOUND", "key result not found").WithCause(err)
	case errors.Is(err, objective.ErrNotFound):
		return serrors.NotFound("OBJECTIVE_NOT_FOUND", "objective not found").WithCause(err)
	default:
		return err
	}
}
