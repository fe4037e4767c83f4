package handlers

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/iota-uz/org-portal/modules/org/domain/aggregates/squad"
	"github.com/iota-uz/org-portal/modules/org/domain/aggregates/tribe"
	"github.com/iota-uz/org-portal/modules/org/domain/value_objects/label"
	"github.com/iota-uz/org-portal/modules/org/domain/value_objects/rollup"
	"github.com/iota-uz/org-portal/modules/people/services"
	"github.com/iota-uz/org-portal/pkg/constants"
	"github.com/iota-uz/org-portal/pkg/eventbus"
)

type fakeRollupRepo struct {
	tribeIDs []uint
	areaIDs  []uint
	areaOf   map[uint]uint
}

func (f *fakeRollupRepo) RecomputeSquads(_ context.Context, _ ...uint) error { return nil }

func (f *fakeRollupRepo) RecomputeTribes(_ context.Context, ids ...uint) error {
	f.tribeIDs = append(f.tribeIDs, ids...)
	return nil
}

func (f *fakeRollupRepo) RecomputeAreas(_ context.Context, ids ...uint) error {
	f.areaIDs = append(f.areaIDs, ids...)
	return nil
}

func (f *fakeRollupRepo) AncestorsOfSquad(_ context.Context, _ uint) (uint, uint, error) {
	return 0, 0, squad.ErrNotFound
}

func (f *fakeRollupRepo) AreaOfTribe(_ context.Context, tribeID uint) (uint, error) {
	areaID, ok := f.areaOf[tribeID]
	if !ok {
		return 0, tribe.ErrNotFound
	}
	return areaID, nil
}

type markerTx struct{ pgx.Tx }

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func newHandlerFixture(repo *fakeRollupRepo) (*OrgEventsHandler, eventbus.EventBus) {
	handler := &OrgEventsHandler{
		rollups: services.NewRollupService(repo),
		baseCtx: context.WithValue(context.Background(), constants.TxKey, markerTx{}),
		logger:  quietLogger(),
	}
	bus := eventbus.NewEventPublisher(quietLogger())
	bus.Subscribe(handler.onSquadDeleted)
	bus.Subscribe(handler.onSquadReparented)
	bus.Subscribe(handler.onTribeDeleted)
	bus.Subscribe(handler.onTribeReparented)
	return handler, bus
}

func TestSquadDeletionRecomputesAncestors(t *testing.T) {
	repo := &fakeRollupRepo{areaOf: map[uint]uint{5: 1}}
	_, bus := newHandlerFixture(repo)

	bus.Publish(squad.DeletedEvent{ID: 10, TribeID: 5})

	require.Equal(t, []uint{5}, repo.tribeIDs)
	require.Equal(t, []uint{1}, repo.areaIDs)
}

func TestSquadReparentRecomputesBothTribes(t *testing.T) {
	repo := &fakeRollupRepo{areaOf: map[uint]uint{5: 1, 6: 2}}
	_, bus := newHandlerFixture(repo)

	moved := squad.Hydrate(
		10, 6, "Payments", "", "active", "",
		squad.StreamAligned, squad.Contact{}, rollup.Counters{},
		time.Now(), time.Now(),
	)
	bus.Publish(squad.ReparentedEvent{Result: moved, OldTribeID: 5})

	require.Equal(t, []uint{5, 6}, repo.tribeIDs)
	require.Equal(t, []uint{1, 2}, repo.areaIDs)
}

func TestTribeDeletionRecomputesArea(t *testing.T) {
	repo := &fakeRollupRepo{}
	_, bus := newHandlerFixture(repo)

	bus.Publish(tribe.DeletedEvent{ID: 5, AreaID: 1})

	require.Empty(t, repo.tribeIDs)
	require.Equal(t, []uint{1}, repo.areaIDs)
}

func TestTribeReparentRecomputesBothAreas(t *testing.T) {
	repo := &fakeRollupRepo{}
	_, bus := newHandlerFixture(repo)

	moved := tribe.Hydrate(
		5, 2, "Consumer", "", label.Unset, rollup.Counters{}, time.Now(), time.Now(),
	)
	bus.Publish(tribe.ReparentedEvent{Result: moved, OldAreaID: 1})

	require.Equal(t, []uint{1, 2}, repo.areaIDs)
}
