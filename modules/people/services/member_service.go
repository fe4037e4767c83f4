package services

import (
	"context"
	"errors"

	"github.com/iota-uz/org-portal/modules/org/domain/aggregates/squad"
	"github.com/iota-uz/org-portal/modules/org/domain/value_objects/rollup"
	"github.com/iota-uz/org-portal/modules/people/domain/aggregates/member"
	"github.com/iota-uz/org-portal/modules/people/domain/entities/membership"
	"github.com/iota-uz/org-portal/pkg/composables"
	"github.com/iota-uz/org-portal/pkg/eventbus"
	"github.com/iota-uz/org-portal/pkg/serrors"
)

// MemberService owns team members and their squad assignments. Every
// counter-affecting mutation recomputes the touched squads and their
// ancestors before the transaction commits.
type MemberService struct {
	repo        member.Repository
	memberships membership.Repository
	rollups     *RollupService
	publisher   eventbus.EventBus
}

func NewMemberService(
	repo member.Repository,
	memberships membership.Repository,
	rollups *RollupService,
	publisher eventbus.EventBus,
) *MemberService {
	return &MemberService{repo: repo, memberships: memberships, rollups: rollups, publisher: publisher}
}

func (s *MemberService) GetAll(ctx context.Context) ([]member.Member, error) {
	return s.repo.GetAll(ctx)
}

func (s *MemberService) GetBySquad(ctx context.Context, squadID uint) ([]member.Member, error) {
	return s.repo.GetBySquad(ctx, squadID)
}

func (s *MemberService) GetByID(ctx context.Context, id uint) (member.Member, error) {
	entity, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return member.Member{}, mapMemberErr(err)
	}
	return entity, nil
}

func (s *MemberService) GetByEmail(ctx context.Context, email string) (member.Member, error) {
	entity, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return member.Member{}, mapMemberErr(err)
	}
	return entity, nil
}

func (s *MemberService) Memberships(ctx context.Context, memberID uint) ([]membership.Membership, error) {
	return s.memberships.GetByMember(ctx, memberID)
}

func (s *MemberService) Create(ctx context.Context, dto *member.CreateDTO) (member.Member, error) {
	if errs, ok := dto.Ok(); !ok {
		return member.Member{}, validationError("MEMBER_INVALID", errs)
	}
	entity, err := dto.ToEntity()
	if err != nil {
		return member.Member{}, serrors.Validation("EMPLOYMENT_TYPE_UNKNOWN", err.Error()).WithField("employment_type")
	}
	created, err := composables.InTxResult(ctx, func(txCtx context.Context) (member.Member, error) {
		return s.repo.Create(txCtx, entity)
	})
	if err != nil {
		return member.Member{}, mapMemberErr(err)
	}
	s.publisher.Publish(member.CreatedEvent{Result: created})
	return created, nil
}

func (s *MemberService) Update(ctx context.Context, id uint, dto *member.UpdateDTO) (member.Member, error) {
	if errs, ok := dto.Ok(); !ok {
		return member.Member{}, validationError("MEMBER_INVALID", errs)
	}
	fields, err := dto.Fields()
	if err != nil {
		return member.Member{}, serrors.Validation("EMPLOYMENT_TYPE_UNKNOWN", err.Error()).WithField("employment_type")
	}
	countersTouched := fields.EmploymentType != nil || fields.IsVacancy != nil
	updated, err := composables.InTxResult(ctx, func(txCtx context.Context) (member.Member, error) {
		entity, err := s.repo.Update(txCtx, id, fields)
		if err != nil {
			return member.Member{}, err
		}
		if countersTouched {
			if err := s.recomputeMemberSquads(txCtx, id); err != nil {
				return member.Member{}, err
			}
		}
		return entity, nil
	})
	if err != nil {
		return member.Member{}, mapMemberErr(err)
	}
	s.publisher.Publish(member.UpdatedEvent{Result: updated})
	return updated, nil
}

func (s *MemberService) Delete(ctx context.Context, id uint) error {
	err := composables.InTx(ctx, func(txCtx context.Context) error {
		assignments, err := s.memberships.GetByMember(txCtx, id)
		if err != nil {
			return err
		}
		if err := s.repo.Delete(txCtx, id); err != nil {
			return err
		}
		squadIDs := make([]uint, 0, len(assignments))
		for _, a := range assignments {
			squadIDs = append(squadIDs, a.SquadID())
		}
		return s.rollups.RecomputeSquads(txCtx, squadIDs)
	})
	if err != nil {
		return mapMemberErr(err)
	}
	s.publisher.Publish(member.DeletedEvent{ID: id})
	return nil
}

func (s *MemberService) recomputeMemberSquads(ctx context.Context, memberID uint) error {
	assignments, err := s.memberships.GetByMember(ctx, memberID)
	if err != nil {
		return err
	}
	squadIDs := make([]uint, 0, len(assignments))
	for _, a := range assignments {
		squadIDs = append(squadIDs, a.SquadID())
	}
	return s.rollups.RecomputeSquads(ctx, squadIDs)
}

// Assign puts a member on a squad. Capacity is a fraction of a full-time
// position; zero means "listed but not staffed" and stays legal.
func (s *MemberService) Assign(ctx context.Context, memberID, squadID uint, capacity float64, role string) (membership.Membership, error) {
	if capacity < 0 {
		return membership.Membership{}, serrors.Validation("CAPACITY_NEGATIVE", "capacity cannot be negative").WithField("capacity")
	}
	created, err := composables.InTxResult(ctx, func(txCtx context.Context) (membership.Membership, error) {
		entity, err := s.memberships.Create(txCtx, membership.New(memberID, squadID, capacity, role))
		if err != nil {
			return membership.Membership{}, err
		}
		return entity, s.rollups.RecomputeSquad(txCtx, squadID)
	})
	if err != nil {
		return membership.Membership{}, mapMembershipErr(err)
	}
	s.publisher.Publish(membership.AddedEvent{Result: created})
	return created, nil
}

func (s *MemberService) UpdateAssignment(ctx context.Context, id uint, fields membership.UpdateFields) (membership.Membership, error) {
	if fields.Capacity != nil {
		if *fields.Capacity < 0 {
			return membership.Membership{}, serrors.Validation("CAPACITY_NEGATIVE", "capacity cannot be negative").WithField("capacity")
		}
		rounded := rollup.Round2(*fields.Capacity)
		fields.Capacity = &rounded
	}
	updated, err := composables.InTxResult(ctx, func(txCtx context.Context) (membership.Membership, error) {
		entity, err := s.memberships.Update(txCtx, id, fields)
		if err != nil {
			return membership.Membership{}, err
		}
		return entity, s.rollups.RecomputeSquad(txCtx, entity.SquadID())
	})
	if err != nil {
		return membership.Membership{}, mapMembershipErr(err)
	}
	s.publisher.Publish(membership.UpdatedEvent{Result: updated})
	return updated, nil
}

func (s *MemberService) Unassign(ctx context.Context, memberID, squadID uint) error {
	current, err := s.memberships.GetByMemberAndSquad(ctx, memberID, squadID)
	if err != nil {
		return mapMembershipErr(err)
	}
	err = composables.InTx(ctx, func(txCtx context.Context) error {
		if err := s.memberships.Delete(txCtx, current.ID()); err != nil {
			return err
		}
		return s.rollups.RecomputeSquad(txCtx, squadID)
	})
	if err != nil {
		return mapMembershipErr(err)
	}
	s.publisher.Publish(membership.RemovedEvent{MemberID: memberID, SquadID: squadID})
	return nil
}

func mapMemberErr(err error) error {
	switch {
	case errors.Is(err, member.ErrNotFound):
		return serrors.NotFound("MEMBER_NOT_FOUND", "team member not found").WithCause(err)
	case errors.Is(err, member.ErrEmailTaken):
		return serrors.Conflict("MEMBER_EMAIL_CONFLICT", "team member email already exists").WithCause(err)
	default:
		return err
	}
}

func mapMembershipErr(err error) error {
	switch {
	case errors.Is(err, membership.ErrNotFound):
		return serrors.NotFound("MEMBERSHIP_NOT_FOUND", "squad membership not found").WithCause(err)
	case errors.Is(err, membership.ErrDuplicate):
		return serrors.Conflict("MEMBERSHIP_DUPLICATE", "member already assigned to squad").WithCause(err)
	case errors.Is(err, member.ErrNotFound):
		return serrors.NotFound("MEMBER_NOT_FOUND", "team member not found").WithCause(err)
	case errors.Is(err, squad.ErrNotFound):
		return serrors.NotFound("SQUAD_NOT_FOUND", "squad not found").WithCause(err)
	default:
		return err
	}
}
