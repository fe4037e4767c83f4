package services

import (
	"context"
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/iota-uz/org-portal/modules/org/domain/aggregates/squad"
	"github.com/iota-uz/org-portal/modules/org/domain/aggregates/tribe"
	"github.com/iota-uz/org-portal/pkg/composables"
	"github.com/iota-uz/org-portal/pkg/serrors"
)

var rollupRuns = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "org_portal_rollup_runs_total",
	Help: "Number of roll-up counter recomputations, by scope.",
}, []string{"scope"})

// RollupRepository recomputes the denormalized headcount and capacity
// columns. Calling a method with no ids recomputes every row at that level.
type RollupRepository interface {
	RecomputeSquads(ctx context.Context, ids ...uint) error
	RecomputeTribes(ctx context.Context, ids ...uint) error
	RecomputeAreas(ctx context.Context, ids ...uint) error
	AncestorsOfSquad(ctx context.Context, squadID uint) (tribeID, areaID uint, err error)
	AreaOfTribe(ctx context.Context, tribeID uint) (uint, error)
}

// RollupService keeps the counters on areas, tribes and squads in sync
// with the membership table. Levels are always recomputed bottom-up so
// parents aggregate fresh child rows.
type RollupService struct {
	repo RollupRepository
}

func NewRollupService(repo RollupRepository) *RollupService {
	return &RollupService{repo: repo}
}

func (s *RollupService) RecomputeAll(ctx context.Context) error {
	err := composables.InTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.RecomputeSquads(txCtx); err != nil {
			return err
		}
		if err := s.repo.RecomputeTribes(txCtx); err != nil {
			return err
		}
		return s.repo.RecomputeAreas(txCtx)
	})
	if err != nil {
		return err
	}
	rollupRuns.WithLabelValues("all").Inc()
	return nil
}

// RecomputeSquad refreshes one squad and its ancestor chain.
func (s *RollupService) RecomputeSquad(ctx context.Context, squadID uint) error {
	err := composables.InTx(ctx, func(txCtx context.Context) error {
		tribeID, areaID, err := s.repo.AncestorsOfSquad(txCtx, squadID)
		if err != nil {
			return mapRollupErr(err)
		}
		if err := s.repo.RecomputeSquads(txCtx, squadID); err != nil {
			return err
		}
		if err := s.repo.RecomputeTribes(txCtx, tribeID); err != nil {
			return err
		}
		return s.repo.RecomputeAreas(txCtx, areaID)
	})
	if err != nil {
		return err
	}
	rollupRuns.WithLabelValues("squad").Inc()
	return nil
}

func (s *RollupService) RecomputeTribe(ctx context.Context, tribeID uint) error {
	err := composables.InTx(ctx, func(txCtx context.Context) error {
		areaID, err := s.repo.AreaOfTribe(txCtx, tribeID)
		if err != nil {
			return mapRollupErr(err)
		}
		if err := s.repo.RecomputeTribes(txCtx, tribeID); err != nil {
			return err
		}
		return s.repo.RecomputeAreas(txCtx, areaID)
	})
	if err != nil {
		return err
	}
	rollupRuns.WithLabelValues("tribe").Inc()
	return nil
}

func (s *RollupService) RecomputeArea(ctx context.Context, areaID uint) error {
	err := composables.InTx(ctx, func(txCtx context.Context) error {
		return s.repo.RecomputeAreas(txCtx, areaID)
	})
	if err != nil {
		return err
	}
	rollupRuns.WithLabelValues("area").Inc()
	return nil
}

// RecomputeSquads refreshes several squads and their ancestor chains in
// one transaction. Duplicated ancestors are collapsed first.
func (s *RollupService) RecomputeSquads(ctx context.Context, squadIDs []uint) error {
	if len(squadIDs) == 0 {
		return nil
	}
	err := composables.InTx(ctx, func(txCtx context.Context) error {
		tribes := map[uint]struct{}{}
		areas := map[uint]struct{}{}
		for _, id := range squadIDs {
			tribeID, areaID, err := s.repo.AncestorsOfSquad(txCtx, id)
			if err != nil {
				return err
			}
			tribes[tribeID] = struct{}{}
			areas[areaID] = struct{}{}
		}
		if err := s.repo.RecomputeSquads(txCtx, squadIDs...); err != nil {
			return err
		}
		if err := s.repo.RecomputeTribes(txCtx, keys(tribes)...); err != nil {
			return err
		}
		return s.repo.RecomputeAreas(txCtx, keys(areas)...)
	})
	if err != nil {
		return err
	}
	rollupRuns.WithLabelValues("squad").Inc()
	return nil
}

func mapRollupErr(err error) error {
	switch {
	case errors.Is(err, squad.ErrNotFound):
		return serrors.NotFound("SQUAD_NOT_FOUND", "squad not found").WithCause(err)
	case errors.Is(err, tribe.ErrNotFound):
		return serrors.NotFound("TRIBE_NOT_FOUND", "tribe not found").WithCause(err)
	default:
		return err
	}
}

func keys(set map[uint]struct{}) []uint {
	out := make([]uint, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	return out
}
