package services

import (
	"context"
	"errors"
	"strings"

	"github.com/iota-uz/org-portal/modules/org/domain/entities/override"
	"github.com/iota-uz/org-portal/pkg/composables"
	"github.com/iota-uz/org-portal/pkg/eventbus"
	"github.com/iota-uz/org-portal/pkg/serrors"
)

// DescriptionService maintains the append-only description edit log.
// Reads of effective descriptions happen through the entity repositories;
// this service only appends and exposes the raw history.
type DescriptionService struct {
	repo      override.Repository
	publisher eventbus.EventBus
}

func NewDescriptionService(repo override.Repository, publisher eventbus.EventBus) *DescriptionService {
	return &DescriptionService{repo: repo, publisher: publisher}
}

func (s *DescriptionService) Put(ctx context.Context, kind override.Kind, entityID uint, description, editedBy string) (override.Override, error) {
	if strings.TrimSpace(editedBy) == "" {
		editedBy = "unknown"
	}
	rec, err := composables.InTxResult(ctx, func(txCtx context.Context) (override.Override, error) {
		return s.repo.Append(txCtx, override.New(kind, entityID, description, editedBy))
	})
	if err != nil {
		return override.Override{}, mapOverrideErr(err)
	}
	s.publisher.Publish(override.AppendedEvent{Result: rec})
	return rec, nil
}

func (s *DescriptionService) Current(ctx context.Context, kind override.Kind, entityID uint) (*override.Override, error) {
	rec, err := s.repo.Current(ctx, kind, entityID)
	if err != nil {
		return nil, mapOverrideErr(err)
	}
	return rec, nil
}

func (s *DescriptionService) History(ctx context.Context, kind override.Kind, entityID uint) ([]override.Override, error) {
	recs, err := s.repo.History(ctx, kind, entityID)
	if err != nil {
		return nil, mapOverrideErr(err)
	}
	return recs, nil
}

func mapOverrideErr(err error) error {
	switch {
	case errors.Is(err, override.ErrEntityNotFound):
		return serrors.NotFound("ENTITY_NOT_FOUND", "override target entity not found").WithCause(err)
	case errors.Is(err, override.ErrUnknownKind):
		return serrors.Validation("ENTITY_KIND_UNKNOWN", "unknown entity kind").WithField("kind").WithCause(err)
	default:
		return err
	}
}
