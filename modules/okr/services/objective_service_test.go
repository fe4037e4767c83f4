package services

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iota-uz/org-portal/modules/okr/domain/aggregates/objective"
	"github.com/iota-uz/org-portal/pkg/serrors"
)

func newObjectiveFixture() (*ObjectiveService, *fakeObjectiveRepo, *recordingPublisher) {
	repo := &fakeObjectiveRepo{}
	publisher := &recordingPublisher{}
	return NewObjectiveService(repo, publisher), repo, publisher
}

func TestObjectiveCreate(t *testing.T) {
	svc, repo, publisher := newObjectiveFixture()

	created, err := svc.Create(txContext(), &objective.CreateDTO{
		Content: "grow the payments business",
		TribeID: uintP(5),
		Cascade: true,
	})
	require.NoError(t, err)
	require.NotZero(t, created.ID())
	require.True(t, created.Cascades())
	require.Len(t, repo.objectives, 1)
	require.Len(t, publisher.events, 1)
	require.IsType(t, objective.CreatedEvent{}, publisher.events[0])
}

func TestObjectiveCreate_RequiresScope(t *testing.T) {
	svc, repo, _ := newObjectiveFixture()

	_, err := svc.Create(txContext(), &objective.CreateDTO{Content: "unanchored"})
	require.Error(t, err)
	base := serrors.AsBase(err)
	require.NotNil(t, base)
	require.Equal(t, "OBJECTIVE_INVALID", base.Code())
	require.Equal(t, "Scope", base.Field())
	require.Empty(t, repo.objectives)
}

func TestObjectiveUpdate(t *testing.T) {
	svc, repo, publisher := newObjectiveFixture()
	repo.objectives = append(repo.objectives, newObjective(1, uintP(1), nil, nil, false))

	cascade := true
	updated, err := svc.Update(txContext(), 1, &objective.UpdateDTO{Cascade: &cascade})
	require.NoError(t, err)
	require.True(t, updated.Cascades())
	require.Len(t, publisher.events, 1)
	require.IsType(t, objective.UpdatedEvent{}, publisher.events[0])
}

func TestObjectiveUpdate_NotFound(t *testing.T) {
	svc, _, publisher := newObjectiveFixture()

	content := "x"
	_, err := svc.Update(txContext(), 7, &objective.UpdateDTO{Content: &content})
	require.Error(t, err)
	base := serrors.AsBase(err)
	require.NotNil(t, base)
	require.Equal(t, "OBJECTIVE_NOT_FOUND", base.Code())
	require.Equal(t, serrors.KindNotFound, base.Kind())
	require.Empty(t, publisher.events)
}

func TestObjectiveDelete(t *testing.T) {
	svc, repo, publisher := newObjectiveFixture()
	repo.objectives = append(repo.objectives, newObjective(1, uintP(1), nil, nil, false))

	require.NoError(t, svc.Delete(txContext(), 1))
	require.Empty(t, repo.objectives)
	require.Len(t, publisher.events, 1)
	event, ok := publisher.events[0].(objective.DeletedEvent)
	require.True(t, ok)
	require.Equal(t, uint(1), event.ID)
}
