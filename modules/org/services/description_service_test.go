package services

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/iota-uz/org-portal/modules/org/domain/entities/override"
	"github.com/iota-uz/org-portal/pkg/constants"
)

type stubPublisher struct {
	events []interface{}
}

func (p *stubPublisher) Publish(args ...interface{})     { p.events = append(p.events, args...) }
func (p *stubPublisher) Subscribe(handler interface{})   {}
func (p *stubPublisher) Unsubscribe(handler interface{}) {}
func (p *stubPublisher) Clear()                          {}
func (p *stubPublisher) SubscribersCount() int           { return 0 }

// fakeOverrideRepo keeps the append-only log in memory, newest last.
type fakeOverrideRepo struct {
	records []override.Override
	nextID  uint
}

func (f *fakeOverrideRepo) Append(_ context.Context, data override.Override) (override.Override, error) {
	f.nextID++
	rec := override.Hydrate(f.nextID, data.Kind(), data.EntityID(), data.Description(), data.EditedBy(), time.Now())
	f.records = append(f.records, rec)
	return rec, nil
}

func (f *fakeOverrideRepo) Current(_ context.Context, kind override.Kind, entityID uint) (*override.Override, error) {
	for i := len(f.records) - 1; i >= 0; i-- {
		if f.records[i].Kind() == kind && f.records[i].EntityID() == entityID {
			rec := f.records[i]
			return &rec, nil
		}
	}
	return nil, nil
}

func (f *fakeOverrideRepo) History(_ context.Context, kind override.Kind, entityID uint) ([]override.Override, error) {
	var out []override.Override
	for i := len(f.records) - 1; i >= 0; i-- {
		if f.records[i].Kind() == kind && f.records[i].EntityID() == entityID {
			out = append(out, f.records[i])
		}
	}
	return out, nil
}

type noopTx struct{ pgx.Tx }

func descriptionTestContext() context.Context {
	return context.WithValue(context.Background(), constants.TxKey, noopTx{})
}

func TestDescriptionPut_AppendsWithoutRewriting(t *testing.T) {
	repo := &fakeOverrideRepo{}
	svc := NewDescriptionService(repo, &stubPublisher{})
	ctx := descriptionTestContext()

	_, err := svc.Put(ctx, override.KindSquad, 7, "first version", "alice@corp.com")
	require.NoError(t, err)
	_, err = svc.Put(ctx, override.KindSquad, 7, "second version", "bob@corp.com")
	require.NoError(t, err)

	require.Len(t, repo.records, 2)
	require.Equal(t, "first version", repo.records[0].Description())

	current, err := svc.Current(ctx, override.KindSquad, 7)
	require.NoError(t, err)
	require.NotNil(t, current)
	require.Equal(t, "second version", current.Description())
	require.Equal(t, "bob@corp.com", current.EditedBy())

	history, err := svc.History(ctx, override.KindSquad, 7)
	require.NoError(t, err)
	require.Len(t, history, 2)
	require.Equal(t, "second version", history[0].Description())
}

func TestDescriptionPut_DefaultsEditor(t *testing.T) {
	repo := &fakeOverrideRepo{}
	svc := NewDescriptionService(repo, &stubPublisher{})

	rec, err := svc.Put(descriptionTestContext(), override.KindArea, 1, "desc", "   ")
	require.NoError(t, err)
	require.Equal(t, "unknown", rec.EditedBy())
}

func TestDescriptionCurrent_NoOverrideYieldsNil(t *testing.T) {
	svc := NewDescriptionService(&fakeOverrideRepo{}, &stubPublisher{})

	current, err := svc.Current(context.Background(), override.KindTribe, 3)
	require.NoError(t, err)
	require.Nil(t, current)
}
