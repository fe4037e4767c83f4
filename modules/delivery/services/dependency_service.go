package services

import (
	"context"
	"errors"

	"github.com/iota-uz/org-portal/modules/delivery/domain/entities/dependency"
	"github.com/iota-uz/org-portal/modules/org/domain/aggregates/squad"
	"github.com/iota-uz/org-portal/pkg/composables"
	"github.com/iota-uz/org-portal/pkg/eventbus"
	"github.com/iota-uz/org-portal/pkg/serrors"
)

type DependencyService struct {
	repo      dependency.Repository
	publisher eventbus.EventBus
}

func NewDependencyService(repo dependency.Repository, publisher eventbus.EventBus) *DependencyService {
	return &DependencyService{repo: repo, publisher: publisher}
}

func (s *DependencyService) GetAll(ctx context.Context) ([]dependency.Dependency, error) {
	return s.repo.GetAll(ctx)
}

func (s *DependencyService) GetBySquad(ctx context.Context, squadID uint) ([]dependency.Dependency, error) {
	return s.repo.GetBySquad(ctx, squadID)
}

func (s *DependencyService) GetByID(ctx context.Context, id uint) (dependency.Dependency, error) {
	entity, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return dependency.Dependency{}, mapDependencyErr(err)
	}
	return entity, nil
}

// Register records a dependency edge. Registering a pair that already
// exists overwrites its name, interaction mode and frequency in place.
func (s *DependencyService) Register(ctx context.Context, dependentID, dependencyID uint, name, mode, frequency string) (dependency.Dependency, error) {
	parsedMode, err := dependency.ParseMode(mode)
	if err != nil {
		return dependency.Dependency{}, serrors.Validation("INTERACTION_MODE_UNKNOWN", "unknown interaction mode").WithField("interaction_mode")
	}
	entity, err := dependency.New(dependentID, dependencyID, name, parsedMode, frequency)
	if err != nil {
		return dependency.Dependency{}, mapDependencyErr(err)
	}
	registered, err := composables.InTxResult(ctx, func(txCtx context.Context) (dependency.Dependency, error) {
		return s.repo.Upsert(txCtx, entity)
	})
	if err != nil {
		return dependency.Dependency{}, mapDependencyErr(err)
	}
	s.publisher.Publish(dependency.CreatedEvent{Result: registered})
	return registered, nil
}

func (s *DependencyService) Delete(ctx context.Context, id uint) error {
	err := composables.InTx(ctx, func(txCtx context.Context) error {
		return s.repo.Delete(txCtx, id)
	})
	if err != nil {
		return mapDependencyErr(err)
	}
	s.publisher.Publish(dependency.DeletedEvent{ID: id})
	return nil
}

func mapDependencyErr(err error) error {
	switch {
	case errors.Is(err, dependency.ErrNotFound):
		return serrors.NotFound("DEPENDENCY_NOT_FOUND", "dependency not found").WithCause(err)
	case errors.Is(err, dependency.ErrSelfDependency):
		return serrors.Validation("DEPENDENCY_SELF", "squad cannot depend on itself").WithCause(err)
	case errors.Is(err, squad.ErrNotFound):
		return serrors.NotFound("SQUAD_NOT_FOUND", "squad not found").WithCause(err)
	default:
		return err
	}
}
