package services

import (
	"context"
	"errors"
	"strings"

	"github.com/iota-uz/org-portal/modules/delivery/domain/entities/oncall"
	"github.com/iota-uz/org-portal/modules/org/domain/aggregates/squad"
	"github.com/iota-uz/org-portal/pkg/composables"
	"github.com/iota-uz/org-portal/pkg/eventbus"
	"github.com/iota-uz/org-portal/pkg/serrors"
)

type OnCallService struct {
	repo      oncall.Repository
	publisher eventbus.EventBus
}

func NewOnCallService(repo oncall.Repository, publisher eventbus.EventBus) *OnCallService {
	return &OnCallService{repo: repo, publisher: publisher}
}

func (s *OnCallService) GetBySquad(ctx context.Context, squadID uint) (oncall.Roster, error) {
	roster, err := s.repo.GetBySquad(ctx, squadID)
	if err != nil {
		return oncall.Roster{}, mapOnCallErr(err)
	}
	return roster, nil
}

// Put creates or replaces the squad's roster.
func (s *OnCallService) Put(ctx context.Context, squadID uint, primaryName, primaryContact, secondaryName, secondaryContact string) (oncall.Roster, error) {
	if strings.TrimSpace(primaryName) == "" {
		return oncall.Roster{}, serrors.Validation("ONCALL_PRIMARY_REQUIRED", "primary on-call name is required").WithField("primary_name")
	}
	roster, err := composables.InTxResult(ctx, func(txCtx context.Context) (oncall.Roster, error) {
		return s.repo.Upsert(txCtx, oncall.New(squadID, primaryName, primaryContact, secondaryName, secondaryContact))
	})
	if err != nil {
		return oncall.Roster{}, mapOnCallErr(err)
	}
	s.publisher.Publish(oncall.UpdatedEvent{Result: roster})
	return roster, nil
}

func (s *OnCallService) Delete(ctx context.Context, squadID uint) error {
	err := composables.InTx(ctx, func(txCtx context.Context) error {
		return s.repo.Delete(txCtx, squadID)
	})
	if err != nil {
		return mapOnCallErr(err)
	}
	s.publisher.Publish(oncall.DeletedEvent{SquadID: squadID})
	return nil
}

func mapOnCallErr(err error) error {
	switch {
	case errors.Is(err, oncall.ErrNotFound):
		return serrors.NotFound("ONCALL_NOT_FOUND", "on-call roster not found").WithCause(err)
	case errors.Is(err, squad.ErrNotFound):
		return serrors.NotFound("SQUAD_NOT_FOUND", "squad not found").WithCause(err)
	default:
		return err
	}
}
