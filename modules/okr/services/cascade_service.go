package services

import (
	"context"

	"github.com/iota-uz/org-portal/modules/okr/domain/aggregates/objective"
	"github.com/iota-uz/org-portal/modules/okr/domain/entities/keyresult"
	"github.com/iota-uz/org-portal/modules/org/domain/aggregates/squad"
	"github.com/iota-uz/org-portal/modules/org/domain/aggregates/tribe"
	"github.com/iota-uz/org-portal/pkg/serrors"
)

// Scope selects whose objectives to resolve. At most one reference may be
// set; an empty scope means the whole organization.
type Scope struct {
	AreaID  *uint
	TribeID *uint
	SquadID *uint
}

func (s Scope) refs() int {
	n := 0
	for _, id := range []*uint{s.AreaID, s.TribeID, s.SquadID} {
		if id != nil {
			n++
		}
	}
	return n
}

// ResolvedObjective pairs an objective with its ordered key results.
type ResolvedObjective struct {
	Objective  objective.Objective
	KeyResults []keyresult.KeyResult
}

// CascadeService answers "which objectives apply to scope X". Directly
// attached objectives come first, then objectives inherited from ancestors
// through the cascade flag, nearest ancestor first. Inheritance never
// traverses downward and a duplicate id keeps its first occurrence.
type CascadeService struct {
	objectives objective.Repository
	keyResults keyresult.Repository
	tribes     tribe.Repository
	squads     squad.Repository
}

func NewCascadeService(
	objectives objective.Repository,
	keyResults keyresult.Repository,
	tribes tribe.Repository,
	squads squad.Repository,
) *CascadeService {
	return &CascadeService{
		objectives: objectives,
		keyResults: keyResults,
		tribes:     tribes,
		squads:     squads,
	}
}

func (s *CascadeService) Resolve(ctx context.Context, scope Scope) ([]ResolvedObjective, error) {
	if scope.refs() > 1 {
		return nil, serrors.Validation("OBJECTIVE_SCOPE_AMBIGUOUS", "at most one of area_id, tribe_id, squad_id may be given")
	}

	var (
		groups [][]objective.Objective
		err    error
	)
	switch {
	case scope.SquadID != nil:
		groups, err = s.forSquad(ctx, *scope.SquadID)
	case scope.TribeID != nil:
		groups, err = s.forTribe(ctx, *scope.TribeID)
	case scope.AreaID != nil:
		var direct []objective.Objective
		direct, err = s.objectives.GetForArea(ctx, *scope.AreaID, false)
		groups = [][]objective.Objective{direct}
	default:
		var all []objective.Objective
		all, err = s.objectives.GetAll(ctx)
		groups = [][]objective.Objective{all}
	}
	if err != nil {
		return nil, mapObjectiveErr(err)
	}

	return s.attachKeyResults(ctx, union(groups))
}

func (s *CascadeService) forTribe(ctx context.Context, tribeID uint) ([][]objective.Objective, error) {
	direct, err := s.objectives.GetForTribe(ctx, tribeID, false)
	if err != nil {
		return nil, err
	}
	tr, err := s.tribes.GetByID(ctx, tribeID)
	if err != nil {
		return nil, err
	}
	inherited, err := s.objectives.GetForArea(ctx, tr.AreaID(), true)
	if err != nil {
		return nil, err
	}
	return [][]objective.Objective{direct, inherited}, nil
}

func (s *CascadeService) forSquad(ctx context.Context, squadID uint) ([][]objective.Objective, error) {
	direct, err := s.objectives.GetForSquad(ctx, squadID)
	if err != nil {
		return nil, err
	}
	sq, err := s.squads.GetByID(ctx, squadID)
	if err != nil {
		return nil, err
	}
	fromTribe, err := s.objectives.GetForTribe(ctx, sq.TribeID(), true)
	if err != nil {
		return nil, err
	}
	tr, err := s.tribes.GetByID(ctx, sq.TribeID())
	if err != nil {
		return nil, err
	}
	fromArea, err := s.objectives.GetForArea(ctx, tr.AreaID(), true)
	if err != nil {
		return nil, err
	}
	return [][]objective.Objective{direct, fromTribe, fromArea}, nil
}

// union flattens the groups keeping the first occurrence of each id.
func union(groups [][]objective.Objective) []objective.Objective {
	seen := make(map[uint]struct{})
	out := make([]objective.Objective, 0, 16)
	for _, group := range groups {
		for _, o := range group {
			if _, ok := seen[o.ID()]; ok {
				continue
			}
			seen[o.ID()] = struct{}{}
			out = append(out, o)
		}
	}
	return out
}

func (s *CascadeService) attachKeyResults(ctx context.Context, objectives []objective.Objective) ([]ResolvedObjective, error) {
	out := make([]ResolvedObjective, 0, len(objectives))
	for _, o := range objectives {
		krs, err := s.keyResults.GetByObjective(ctx, o.ID())
		if err != nil {
			return nil, err
		}
		out = append(out, ResolvedObjective{Objective: o, KeyResults: krs})
	}
	return out, nil
}
