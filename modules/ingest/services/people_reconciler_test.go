package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iota-uz/org-portal/modules/ingest/domain/feed"
	"github.com/iota-uz/org-portal/modules/people/domain/aggregates/member"
)

var peopleHeaders = []string{
	"Area", "Tribe", "Squad", "Name", "Email",
	"Role/Position", "Regular/Temporary", "Current Phasing",
	"Vendor Name", "Supervisor Name",
}

type peopleFixture struct {
	reconciler  *PeopleReconciler
	areas       *memAreaRepo
	tribes      *memTribeRepo
	squads      *memSquadRepo
	members     *memMemberRepo
	memberships *memMembershipRepo
}

func newPeopleFixture() *peopleFixture {
	f := &peopleFixture{
		areas:       &memAreaRepo{},
		tribes:      &memTribeRepo{},
		squads:      &memSquadRepo{},
		members:     &memMemberRepo{},
		memberships: &memMembershipRepo{},
	}
	f.reconciler = NewPeopleReconciler(f.areas, f.tribes, f.squads, f.members, f.memberships, "example.com")
	return f
}

func peopleTable(rows ...[]string) *feed.Table {
	return feed.NewTable(peopleHeaders, rows)
}

func TestPeopleApply_BuildsHierarchy(t *testing.T) {
	f := newPeopleFixture()
	table := peopleTable(
		[]string{"Retail", "Payments Tribe", "Payments", "Jane Doe", "jane@corp.com", "Backend Engineer", "Regular", "1", "", "Boss Person"},
		[]string{"Retail", "Payments Tribe", "Payments", "John Roe", "john@corp.com", "QA Engineer", "Temporary", "0,5", "TestCo", "Boss Person"},
		[]string{"Digital", "Channels Tribe", "Mobile App", "Boss Person", "boss@corp.com", "Tribe Lead", "Regular", "1", "", ""},
	)

	applied, reports, err := f.reconciler.Apply(context.Background(), table, feed.ModeReplace)
	require.NoError(t, err)
	require.Empty(t, reports)
	require.Equal(t, 3, applied)

	require.Len(t, f.areas.areas, 2)
	require.Len(t, f.tribes.tribes, 2)
	require.Len(t, f.squads.squads, 2)
	require.Len(t, f.members.members, 3)
	require.Len(t, f.memberships.memberships, 3)

	jane, ok := f.members.byEmail("jane@corp.com")
	require.True(t, ok)
	require.Equal(t, member.Core, jane.EmploymentType())

	john, ok := f.members.byEmail("john@corp.com")
	require.True(t, ok)
	require.Equal(t, member.Subcon, john.EmploymentType())
	require.Equal(t, "TestCo", john.Profile().Vendor)

	ms, err := f.memberships.GetByMember(context.Background(), john.ID())
	require.NoError(t, err)
	require.Len(t, ms, 1)
	require.InDelta(t, 0.5, ms[0].Capacity(), 0.001)
}

func TestPeopleApply_ReplayIsIdempotent(t *testing.T) {
	f := newPeopleFixture()
	table := peopleTable(
		[]string{"Retail", "Payments Tribe", "Payments", "Jane Doe", "jane@corp.com", "Backend Engineer", "Regular", "1", "", "Boss Person"},
		[]string{"Retail", "Payments Tribe", "Payments", "Boss Person", "boss@corp.com", "Squad Lead", "Regular", "1", "", ""},
	)

	_, _, err := f.reconciler.Apply(context.Background(), table, feed.ModeReplace)
	require.NoError(t, err)

	applied, reports, err := f.reconciler.Apply(context.Background(), table, feed.ModeReplace)
	require.NoError(t, err)
	require.Empty(t, reports)
	require.Equal(t, 2, applied)

	require.Len(t, f.areas.areas, 1)
	require.Len(t, f.tribes.tribes, 1)
	require.Len(t, f.squads.squads, 1)
	require.Len(t, f.members.members, 2)
	require.Len(t, f.memberships.memberships, 2)
	// unchanged capacities and roles produce no membership writes
	require.Equal(t, 0, f.memberships.updates)
}

func TestPeopleApply_SyntheticEmails(t *testing.T) {
	f := newPeopleFixture()
	table := peopleTable(
		[]string{"Retail", "Payments Tribe", "Payments", "Jane Doe", "", "Backend Engineer", "Regular", "1", "", ""},
		[]string{"Retail", "Payments Tribe", "Payments", "Vacancy", "", "Backend Engineer", "Regular", "1", "", ""},
	)

	applied, reports, err := f.reconciler.Apply(context.Background(), table, feed.ModeReplace)
	require.NoError(t, err)
	require.Empty(t, reports)
	require.Equal(t, 2, applied)

	jane, ok := f.members.byEmail("jane.doe.payments@example.com")
	require.True(t, ok)
	require.False(t, jane.IsVacancy())

	vacancy, ok := f.members.byEmail("vacancy.backend.engineer.payments@example.com")
	require.True(t, ok)
	require.True(t, vacancy.IsVacancy())
	require.Equal(t, "Vacancy", vacancy.Name())
}

func TestPeopleApply_SkipsMalformedRows(t *testing.T) {
	f := newPeopleFixture()
	table := peopleTable(
		[]string{"Retail", "Payments Tribe", "", "Jane Doe", "jane@corp.com", "Backend Engineer", "Regular", "1", "", ""},
		[]string{"Retail", "Payments Tribe", "Payments", "John Roe", "john@corp.com", "QA Engineer", "Regular", "lots", "", ""},
		[]string{"Retail", "Payments Tribe", "Payments", "Mary Major", "mary@corp.com", "QA Engineer", "Regular", "-1", "", ""},
		[]string{"Retail", "Payments Tribe", "Payments", "Paul Minor", "paul@corp.com", "QA Engineer", "Regular", "0,8", "", ""},
	)

	applied, reports, err := f.reconciler.Apply(context.Background(), table, feed.ModeReplace)
	require.NoError(t, err)
	require.Equal(t, 1, applied)
	require.Len(t, reports, 3)
	require.Equal(t, 1, reports[0].Row)
	require.Equal(t, "ROW_INCOMPLETE", reports[0].Code)
	require.Equal(t, 2, reports[1].Row)
	require.Equal(t, "CAPACITY_INVALID", reports[1].Code)
	require.Equal(t, 3, reports[2].Row)
	require.Equal(t, "CAPACITY_INVALID", reports[2].Code)

	require.Len(t, f.members.members, 1)
	require.InDelta(t, 0.8, f.memberships.memberships[0].Capacity(), 0.001)
}

func TestPeopleApply_LinksKnownSupervisor(t *testing.T) {
	f := newPeopleFixture()
	table := peopleTable(
		[]string{"Retail", "Payments Tribe", "Payments", "Jane Doe", "jane@corp.com", "Backend Engineer", "Regular", "1", "", "Boss Person"},
		[]string{"Retail", "Payments Tribe", "Payments", "Boss Person", "boss@corp.com", "Squad Lead", "Regular", "1", "", "Boss Person"},
	)

	_, _, err := f.reconciler.Apply(context.Background(), table, feed.ModeReplace)
	require.NoError(t, err)

	boss, ok := f.members.byEmail("boss@corp.com")
	require.True(t, ok)
	// self-supervision is skipped
	require.Nil(t, boss.SupervisorID())

	jane, ok := f.members.byEmail("jane@corp.com")
	require.True(t, ok)
	require.NotNil(t, jane.SupervisorID())
	require.Equal(t, boss.ID(), *jane.SupervisorID())
}

func TestPeopleApply_CreatesExternalSupervisor(t *testing.T) {
	f := newPeopleFixture()
	table := peopleTable(
		[]string{"Retail", "Payments Tribe", "Payments", "Jane Doe", "jane@corp.com", "Backend Engineer", "Regular", "1", "", "Outside Chief"},
	)

	_, _, err := f.reconciler.Apply(context.Background(), table, feed.ModeReplace)
	require.NoError(t, err)

	chief, ok := f.members.byEmail("outside.chief.supervisor@example.com")
	require.True(t, ok)
	require.True(t, chief.IsExternal())
	require.Equal(t, "Supervisor", chief.Role())
	require.Equal(t, "Outside Chief", chief.Name())

	jane, ok := f.members.byEmail("jane@corp.com")
	require.True(t, ok)
	require.NotNil(t, jane.SupervisorID())
	require.Equal(t, chief.ID(), *jane.SupervisorID())
}

func TestPeopleApply_AppendPreservesAttributes(t *testing.T) {
	f := newPeopleFixture()
	first := peopleTable(
		[]string{"Retail", "Payments Tribe", "Payments", "Jane Doe", "jane@corp.com", "Backend Engineer", "Regular", "1", "", ""},
	)
	_, _, err := f.reconciler.Apply(context.Background(), first, feed.ModeReplace)
	require.NoError(t, err)

	second := peopleTable(
		[]string{"Retail", "Payments Tribe", "Mobile App", "Jane Renamed", "jane@corp.com", "Staff Engineer", "Temporary", "0,2", "", ""},
	)
	_, _, err = f.reconciler.Apply(context.Background(), second, feed.ModeAppend)
	require.NoError(t, err)

	jane, ok := f.members.byEmail("jane@corp.com")
	require.True(t, ok)
	require.Equal(t, "Jane Doe", jane.Name())
	require.Equal(t, "Backend Engineer", jane.Role())
	require.Equal(t, member.Core, jane.EmploymentType())
	// the membership edge is still written
	ms, err := f.memberships.GetByMember(context.Background(), jane.ID())
	require.NoError(t, err)
	require.Len(t, ms, 2)
}

func TestPeopleApply_CapacityEpsilon(t *testing.T) {
	f := newPeopleFixture()
	base := peopleTable(
		[]string{"Retail", "Payments Tribe", "Payments", "Jane Doe", "jane@corp.com", "Backend Engineer", "Regular", "1", "", ""},
	)
	_, _, err := f.reconciler.Apply(context.Background(), base, feed.ModeReplace)
	require.NoError(t, err)

	within := peopleTable(
		[]string{"Retail", "Payments Tribe", "Payments", "Jane Doe", "jane@corp.com", "Backend Engineer", "Regular", "1.005", "", ""},
	)
	_, _, err = f.reconciler.Apply(context.Background(), within, feed.ModeReplace)
	require.NoError(t, err)
	require.Equal(t, 0, f.memberships.updates)

	halved := peopleTable(
		[]string{"Retail", "Payments Tribe", "Payments", "Jane Doe", "jane@corp.com", "Backend Engineer", "Regular", "0.5", "", ""},
	)
	_, _, err = f.reconciler.Apply(context.Background(), halved, feed.ModeReplace)
	require.NoError(t, err)
	require.Equal(t, 1, f.memberships.updates)
	require.InDelta(t, 0.5, f.memberships.memberships[0].Capacity(), 0.001)
}
