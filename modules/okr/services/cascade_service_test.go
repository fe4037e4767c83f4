package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/iota-uz/org-portal/modules/okr/domain/entities/keyresult"
	"github.com/iota-uz/org-portal/modules/org/domain/aggregates/squad"
	"github.com/iota-uz/org-portal/modules/org/domain/aggregates/tribe"
	"github.com/iota-uz/org-portal/pkg/serrors"
)

func newCascadeFixture() (*CascadeService, *fakeObjectiveRepo, *fakeKeyResultRepo) {
	objectives := &fakeObjectiveRepo{}
	keyResults := &fakeKeyResultRepo{}
	tribes := &fakeTribeRepo{tribes: map[uint]tribe.Tribe{
		5: testTribe(5, 1, "Payments Tribe"),
	}}
	squads := &fakeSquadRepo{squads: map[uint]squad.Squad{
		10: testSquad(10, 5, "Payments"),
	}}
	return NewCascadeService(objectives, keyResults, tribes, squads), objectives, keyResults
}

func resolvedIDs(resolved []ResolvedObjective) []uint {
	ids := make([]uint, 0, len(resolved))
	for _, r := range resolved {
		ids = append(ids, r.Objective.ID())
	}
	return ids
}

func TestCascadeResolve_SquadScope(t *testing.T) {
	svc, objectives, _ := newCascadeFixture()
	objectives.objectives = append(objectives.objectives,
		newObjective(1, nil, nil, uintP(10), false), // direct on the squad
		newObjective(2, nil, uintP(5), nil, true),   // cascades from the tribe
		newObjective(3, nil, uintP(5), nil, false),  // tribe-level but not cascading
		newObjective(4, uintP(1), nil, nil, true),   // cascades from the area
		newObjective(5, uintP(1), nil, nil, false),  // area-level but not cascading
	)

	resolved, err := svc.Resolve(context.Background(), Scope{SquadID: uintP(10)})
	require.NoError(t, err)
	require.Equal(t, []uint{1, 2, 4}, resolvedIDs(resolved))
}

func TestCascadeResolve_TribeScope(t *testing.T) {
	svc, objectives, _ := newCascadeFixture()
	objectives.objectives = append(objectives.objectives,
		newObjective(1, uintP(1), nil, nil, true),
		newObjective(2, nil, uintP(5), nil, false),
		newObjective(3, nil, nil, uintP(10), true),
	)

	resolved, err := svc.Resolve(context.Background(), Scope{TribeID: uintP(5)})
	require.NoError(t, err)
	// direct objectives first, inherited after; squad objectives never
	// bubble upward
	require.Equal(t, []uint{2, 1}, resolvedIDs(resolved))
}

func TestCascadeResolve_AreaScopeHasNoAncestors(t *testing.T) {
	svc, objectives, _ := newCascadeFixture()
	objectives.objectives = append(objectives.objectives,
		newObjective(1, uintP(1), nil, nil, false),
		newObjective(2, uintP(1), nil, nil, true),
		newObjective(3, nil, uintP(5), nil, true),
	)

	resolved, err := svc.Resolve(context.Background(), Scope{AreaID: uintP(1)})
	require.NoError(t, err)
	require.Equal(t, []uint{1, 2}, resolvedIDs(resolved))
}

func TestCascadeResolve_EmptyScopeListsEverything(t *testing.T) {
	svc, objectives, _ := newCascadeFixture()
	objectives.objectives = append(objectives.objectives,
		newObjective(1, uintP(1), nil, nil, false),
		newObjective(2, nil, uintP(5), nil, false),
		newObjective(3, nil, nil, uintP(10), false),
	)

	resolved, err := svc.Resolve(context.Background(), Scope{})
	require.NoError(t, err)
	require.Equal(t, []uint{1, 2, 3}, resolvedIDs(resolved))
}

func TestCascadeResolve_DuplicateKeepsFirstOccurrence(t *testing.T) {
	svc, objectives, _ := newCascadeFixture()
	// attached to the squad and cascading from its own tribe at once
	multi := newObjective(1, nil, uintP(5), uintP(10), true)
	objectives.objectives = append(objectives.objectives,
		multi,
		newObjective(2, nil, uintP(5), nil, true),
	)

	resolved, err := svc.Resolve(context.Background(), Scope{SquadID: uintP(10)})
	require.NoError(t, err)
	require.Equal(t, []uint{1, 2}, resolvedIDs(resolved))
}

func TestCascadeResolve_AmbiguousScope(t *testing.T) {
	svc, _, _ := newCascadeFixture()

	_, err := svc.Resolve(context.Background(), Scope{AreaID: uintP(1), SquadID: uintP(10)})
	require.Error(t, err)
	base := serrors.AsBase(err)
	require.NotNil(t, base)
	require.Equal(t, "OBJECTIVE_SCOPE_AMBIGUOUS", base.Code())
	require.Equal(t, serrors.KindValidation, base.Kind())
}

func TestCascadeResolve_UnknownSquad(t *testing.T) {
	svc, _, _ := newCascadeFixture()

	_, err := svc.Resolve(context.Background(), Scope{SquadID: uintP(99)})
	require.Error(t, err)
	base := serrors.AsBase(err)
	require.NotNil(t, base)
	require.Equal(t, "SQUAD_NOT_FOUND", base.Code())
}

func TestCascadeResolve_KeyResultsOrderedByPosition(t *testing.T) {
	svc, objectives, keyResults := newCascadeFixture()
	objectives.objectives = append(objectives.objectives,
		newObjective(1, nil, nil, uintP(10), false),
	)
	keyResults.results = append(keyResults.results,
		keyresult.Hydrate(11, 1, "second", 0, 10, 2, time.Time{}, time.Time{}),
		keyresult.Hydrate(12, 1, "first", 0, 10, 1, time.Time{}, time.Time{}),
	)

	resolved, err := svc.Resolve(context.Background(), Scope{SquadID: uintP(10)})
	require.NoError(t, err)
	require.Len(t, resolved, 1)
	require.Len(t, resolved[0].KeyResults, 2)
	require.Equal(t, "first", resolved[0].KeyResults[0].Content())
	require.Equal(t, "second", resolved[0].KeyResults[1].Content())
}
