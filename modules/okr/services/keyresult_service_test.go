package services

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iota-uz/org-portal/modules/okr/domain/entities/keyresult"
	"github.com/iota-uz/org-portal/pkg/serrors"
)

type recordingPublisher struct {
	events []interface{}
}

func (p *recordingPublisher) Publish(args ...interface{})   { p.events = append(p.events, args...) }
func (p *recordingPublisher) Subscribe(handler interface{}) {}
func (p *recordingPublisher) Unsubscribe(handler interface{}) {
}
func (p *recordingPublisher) Clear()                {}
func (p *recordingPublisher) SubscribersCount() int { return 0 }

func newKeyResultFixture() (*KeyResultService, *fakeObjectiveRepo, *fakeKeyResultRepo, *recordingPublisher) {
	objectives := &fakeObjectiveRepo{}
	objectives.objectives = append(objectives.objectives, newObjective(1, uintP(1), nil, nil, false))
	repo := &fakeKeyResultRepo{}
	publisher := &recordingPublisher{}
	return NewKeyResultService(repo, objectives, publisher), objectives, repo, publisher
}

func TestKeyResultCreate_TouchesParentObjective(t *testing.T) {
	svc, objectives, _, publisher := newKeyResultFixture()

	created, err := svc.Create(txContext(), &keyresult.CreateDTO{
		ObjectiveID: 1,
		Content:     "raise conversion to 4%",
		TargetValue: 4,
	})
	require.NoError(t, err)
	require.Equal(t, uint(1), created.ObjectiveID())
	require.Equal(t, 1, created.Position())
	require.Equal(t, []uint{1}, objectives.touched)
	require.Len(t, publisher.events, 1)
	require.IsType(t, keyresult.CreatedEvent{}, publisher.events[0])
}

func TestKeyResultCreate_AppendsAfterSiblings(t *testing.T) {
	svc, _, _, _ := newKeyResultFixture()

	first, err := svc.Create(txContext(), &keyresult.CreateDTO{ObjectiveID: 1, Content: "a"})
	require.NoError(t, err)
	second, err := svc.Create(txContext(), &keyresult.CreateDTO{ObjectiveID: 1, Content: "b"})
	require.NoError(t, err)

	require.Equal(t, 1, first.Position())
	require.Equal(t, 2, second.Position())
}

func TestKeyResultCreate_InvalidDTO(t *testing.T) {
	svc, objectives, repo, _ := newKeyResultFixture()

	_, err := svc.Create(txContext(), &keyresult.CreateDTO{ObjectiveID: 1})
	require.Error(t, err)
	base := serrors.AsBase(err)
	require.NotNil(t, base)
	require.Equal(t, "KEY_RESULT_INVALID", base.Code())
	require.Empty(t, repo.results)
	require.Empty(t, objectives.touched)
}

func TestKeyResultUpdate_TouchesParentObjective(t *testing.T) {
	svc, objectives, _, _ := newKeyResultFixture()

	created, err := svc.Create(txContext(), &keyresult.CreateDTO{ObjectiveID: 1, Content: "a"})
	require.NoError(t, err)
	objectives.touched = nil

	content := "a, refined"
	updated, err := svc.Update(txContext(), created.ID(), &keyresult.UpdateDTO{Content: &content})
	require.NoError(t, err)
	require.Equal(t, "a, refined", updated.Content())
	require.Equal(t, []uint{1}, objectives.touched)
}

func TestKeyResultUpdate_NotFound(t *testing.T) {
	svc, _, _, _ := newKeyResultFixture()

	content := "x"
	_, err := svc.Update(txContext(), 42, &keyresult.UpdateDTO{Content: &content})
	require.Error(t, err)
	base := serrors.AsBase(err)
	require.NotNil(t, base)
	require.Equal(t, "KEY_RESULT_NOT_FOUND", base.Code())
}

func TestKeyResultDelete_PublishesAndTouches(t *testing.T) {
	svc, objectives, repo, publisher := newKeyResultFixture()

	created, err := svc.Create(txContext(), &keyresult.CreateDTO{ObjectiveID: 1, Content: "a"})
	require.NoError(t, err)
	objectives.touched = nil
	publisher.events = nil

	require.NoError(t, svc.Delete(txContext(), created.ID()))
	require.Empty(t, repo.results)
	require.Equal(t, []uint{1}, objectives.touched)
	require.Len(t, publisher.events, 1)
	event, ok := publisher.events[0].(keyresult.DeletedEvent)
	require.True(t, ok)
	require.Equal(t, created.ID(), event.ID)
	require.Equal(t, uint(1), event.ObjectiveID)
}

func TestKeyResultGetByObjective_UnknownObjective(t *testing.T) {
	svc, _, _, _ := newKeyResultFixture()

	_, err := svc.GetByObjective(txContext(), 99)
	require.Error(t, err)
	base := serrors.AsBase(err)
	require.NotNil(t, base)
	require.Equal(t, "OBJECTIVE_NOT_FOUND", base.Code())
}
