package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/iota-uz/org-portal/modules/people/domain/aggregates/member"
	"github.com/iota-uz/org-portal/modules/people/domain/entities/membership"
	"github.com/iota-uz/org-portal/pkg/serrors"
)

type stubPublisher struct {
	events []interface{}
}

func (p *stubPublisher) Publish(args ...interface{})     { p.events = append(p.events, args...) }
func (p *stubPublisher) Subscribe(handler interface{})   {}
func (p *stubPublisher) Unsubscribe(handler interface{}) {}
func (p *stubPublisher) Clear()                          {}
func (p *stubPublisher) SubscribersCount() int           { return 0 }

type stubMemberRepo struct {
	members map[uint]member.Member
	nextID  uint
}

func (r *stubMemberRepo) GetAll(_ context.Context) ([]member.Member, error) { return nil, nil }
func (r *stubMemberRepo) GetByID(_ context.Context, id uint) (member.Member, error) {
	m, ok := r.members[id]
	if !ok {
		return member.Member{}, member.ErrNotFound
	}
	return m, nil
}
func (r *stubMemberRepo) GetByEmail(_ context.Context, _ string) (member.Member, error) {
	return member.Member{}, member.ErrNotFound
}
func (r *stubMemberRepo) GetBySquad(_ context.Context, _ uint) ([]member.Member, error) {
	return nil, nil
}
func (r *stubMemberRepo) Create(_ context.Context, data member.Member) (member.Member, error) {
	r.nextID++
	created := member.Hydrate(
		r.nextID, data.Name(), data.Email(), data.Role(), data.Profile(),
		data.EmploymentType(), data.IsExternal(), data.IsVacancy(),
		data.SupervisorID(), time.Now(), time.Now(),
	)
	if r.members == nil {
		r.members = map[uint]member.Member{}
	}
	r.members[created.ID()] = created
	return created, nil
}
func (r *stubMemberRepo) Update(_ context.Context, id uint, _ member.UpdateFields) (member.Member, error) {
	m, ok := r.members[id]
	if !ok {
		return member.Member{}, member.ErrNotFound
	}
	return m, nil
}
func (r *stubMemberRepo) Delete(_ context.Context, id uint) error {
	if _, ok := r.members[id]; !ok {
		return member.ErrNotFound
	}
	delete(r.members, id)
	return nil
}

type stubMembershipRepo struct {
	memberships map[uint]membership.Membership
	updates     []membership.UpdateFields
	nextID      uint
}

func (r *stubMembershipRepo) GetByMember(_ context.Context, memberID uint) ([]membership.Membership, error) {
	var out []membership.Membership
	for _, ms := range r.memberships {
		if ms.MemberID() == memberID {
			out = append(out, ms)
		}
	}
	return out, nil
}
func (r *stubMembershipRepo) GetBySquad(_ context.Context, _ uint) ([]membership.Membership, error) {
	return nil, nil
}
func (r *stubMembershipRepo) GetByMemberAndSquad(_ context.Context, memberID, squadID uint) (membership.Membership, error) {
	for _, ms := range r.memberships {
		if ms.MemberID() == memberID && ms.SquadID() == squadID {
			return ms, nil
		}
	}
	return membership.Membership{}, membership.ErrNotFound
}
func (r *stubMembershipRepo) Create(_ context.Context, data membership.Membership) (membership.Membership, error) {
	r.nextID++
	created := membership.Hydrate(
		r.nextID, data.MemberID(), data.SquadID(), data.Capacity(), data.Role(),
		time.Now(), time.Now(),
	)
	if r.memberships == nil {
		r.memberships = map[uint]membership.Membership{}
	}
	r.memberships[created.ID()] = created
	return created, nil
}
func (r *stubMembershipRepo) Update(_ context.Context, id uint, fields membership.UpdateFields) (membership.Membership, error) {
	ms, ok := r.memberships[id]
	if !ok {
		return membership.Membership{}, membership.ErrNotFound
	}
	r.updates = append(r.updates, fields)
	return ms, nil
}
func (r *stubMembershipRepo) Delete(_ context.Context, id uint) error {
	if _, ok := r.memberships[id]; !ok {
		return membership.ErrNotFound
	}
	delete(r.memberships, id)
	return nil
}

func newMemberFixture() (*MemberService, *stubMemberRepo, *stubMembershipRepo, *fakeRollupRepo, *stubPublisher) {
	members := &stubMemberRepo{}
	memberships := &stubMembershipRepo{}
	rollups := &fakeRollupRepo{ancestors: map[uint][2]uint{10: {5, 1}}}
	publisher := &stubPublisher{}
	svc := NewMemberService(members, memberships, NewRollupService(rollups), publisher)
	return svc, members, memberships, rollups, publisher
}

func TestMemberCreate(t *testing.T) {
	svc, members, _, rollups, publisher := newMemberFixture()

	created, err := svc.Create(rollupTestContext(), &member.CreateDTO{
		Name:           "Jane Doe",
		Email:          "JANE@corp.com",
		EmploymentType: "core",
	})
	require.NoError(t, err)
	require.Equal(t, "jane@corp.com", created.Email())
	require.Len(t, members.members, 1)
	// a member without memberships affects no counters
	require.Empty(t, rollups.calls)
	require.Len(t, publisher.events, 1)
	require.IsType(t, member.CreatedEvent{}, publisher.events[0])
}

func TestMemberCreate_UnknownEmploymentType(t *testing.T) {
	svc, members, _, _, _ := newMemberFixture()

	_, err := svc.Create(rollupTestContext(), &member.CreateDTO{
		Name:           "Jane Doe",
		EmploymentType: "intern",
	})
	require.Error(t, err)
	base := serrors.AsBase(err)
	require.NotNil(t, base)
	require.Equal(t, "MEMBER_INVALID", base.Code())
	require.Empty(t, members.members)
}

func TestMemberAssign_RecomputesSquadChain(t *testing.T) {
	svc, _, memberships, rollups, publisher := newMemberFixture()

	created, err := svc.Assign(rollupTestContext(), 1, 10, 0.5, "QA Engineer")
	require.NoError(t, err)
	require.InDelta(t, 0.5, created.Capacity(), 0.001)
	require.Len(t, memberships.memberships, 1)
	require.Equal(t, []string{"squads", "tribes", "areas"}, rollups.calls)
	require.Equal(t, []uint{10}, rollups.squadIDs)
	require.Len(t, publisher.events, 1)
}

func TestMemberAssign_NegativeCapacity(t *testing.T) {
	svc, _, memberships, _, _ := newMemberFixture()

	_, err := svc.Assign(rollupTestContext(), 1, 10, -0.5, "")
	require.Error(t, err)
	base := serrors.AsBase(err)
	require.NotNil(t, base)
	require.Equal(t, "CAPACITY_NEGATIVE", base.Code())
	require.Equal(t, "capacity", base.Field())
	require.Empty(t, memberships.memberships)
}

func TestMemberAssign_ZeroCapacityIsLegal(t *testing.T) {
	svc, _, memberships, _, _ := newMemberFixture()

	created, err := svc.Assign(rollupTestContext(), 1, 10, 0, "observer")
	require.NoError(t, err)
	require.Zero(t, created.Capacity())
	require.Len(t, memberships.memberships, 1)
}

func TestMemberUnassign(t *testing.T) {
	svc, _, memberships, rollups, publisher := newMemberFixture()
	_, err := svc.Assign(rollupTestContext(), 1, 10, 1, "")
	require.NoError(t, err)
	rollups.calls = nil
	publisher.events = nil

	require.NoError(t, svc.Unassign(rollupTestContext(), 1, 10))
	require.Empty(t, memberships.memberships)
	require.Equal(t, []string{"squads", "tribes", "areas"}, rollups.calls)
	event, ok := publisher.events[0].(membership.RemovedEvent)
	require.True(t, ok)
	require.Equal(t, uint(1), event.MemberID)
	require.Equal(t, uint(10), event.SquadID)
}

func TestMemberUnassign_NotAssigned(t *testing.T) {
	svc, _, _, _, _ := newMemberFixture()

	err := svc.Unassign(rollupTestContext(), 1, 10)
	require.Error(t, err)
	base := serrors.AsBase(err)
	require.NotNil(t, base)
	require.Equal(t, "MEMBERSHIP_NOT_FOUND", base.Code())
}

func TestMemberDelete_RecomputesFormerSquads(t *testing.T) {
	svc, members, _, rollups, _ := newMemberFixture()
	created, err := svc.Create(rollupTestContext(), &member.CreateDTO{
		Name:           "Jane Doe",
		EmploymentType: "core",
	})
	require.NoError(t, err)
	_, err = svc.Assign(rollupTestContext(), created.ID(), 10, 1, "")
	require.NoError(t, err)
	rollups.calls = nil
	rollups.squadIDs = nil

	require.NoError(t, svc.Delete(rollupTestContext(), created.ID()))
	require.Empty(t, members.members)
	require.Equal(t, []uint{10}, rollups.squadIDs)
}

func TestAssignmentCapacityRoundedToTwoPlaces(t *testing.T) {
	svc, _, memberships, _, _ := newMemberFixture()
	created, err := svc.Create(rollupTestContext(), &member.CreateDTO{
		Name:           "Jane Doe",
		EmploymentType: "core",
	})
	require.NoError(t, err)

	assigned, err := svc.Assign(rollupTestContext(), created.ID(), 10, 1.0/3.0, "Engineer")
	require.NoError(t, err)
	require.InDelta(t, 0.33, assigned.Capacity(), 1e-9)

	third := 2.0 / 3.0
	_, err = svc.UpdateAssignment(rollupTestContext(), assigned.ID(), membership.UpdateFields{Capacity: &third})
	require.NoError(t, err)
	require.Len(t, memberships.updates, 1)
	require.NotNil(t, memberships.updates[0].Capacity)
	require.InDelta(t, 0.67, *memberships.updates[0].Capacity, 1e-9)
}
