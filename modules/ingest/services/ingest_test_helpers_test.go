package services

import (
	"context"
	"strings"
	"time"

	"github.com/iota-uz/org-portal/modules/org/domain/aggregates/area"
	"github.com/iota-uz/org-portal/modules/org/domain/aggregates/squad"
	"github.com/iota-uz/org-portal/modules/org/domain/aggregates/tribe"
	"github.com/iota-uz/org-portal/modules/people/domain/aggregates/member"
	"github.com/iota-uz/org-portal/modules/people/domain/entities/membership"
)

// In-memory repositories backing the reconciler tests. They hand out
// sequential ids and keep everything in slices so assertions can inspect
// the final state.

type memAreaRepo struct {
	areas  []area.Area
	nextID uint
}

func (r *memAreaRepo) GetAll(_ context.Context) ([]area.Area, error) { return r.areas, nil }

func (r *memAreaRepo) GetByID(_ context.Context, id uint) (area.Area, error) {
	for _, a := range r.areas {
		if a.ID() == id {
			return a, nil
		}
	}
	return area.Area{}, area.ErrNotFound
}

func (r *memAreaRepo) GetByName(_ context.Context, name string) (area.Area, error) {
	for _, a := range r.areas {
		if strings.EqualFold(a.Name(), name) {
			return a, nil
		}
	}
	return area.Area{}, area.ErrNotFound
}

func (r *memAreaRepo) Create(_ context.Context, data area.Area) (area.Area, error) {
	r.nextID++
	created := area.Hydrate(r.nextID, data.Name(), data.Description(), data.Label(), data.Counters(), time.Now(), time.Now())
	r.areas = append(r.areas, created)
	return created, nil
}

func (r *memAreaRepo) Update(_ context.Context, _ uint, _ area.UpdateFields) (area.Area, error) {
	return area.Area{}, nil
}

func (r *memAreaRepo) Delete(_ context.Context, _ uint) error { return nil }

type memTribeRepo struct {
	tribes []tribe.Tribe
	nextID uint
}

func (r *memTribeRepo) GetAll(_ context.Context) ([]tribe.Tribe, error) { return r.tribes, nil }

func (r *memTribeRepo) GetByArea(_ context.Context, areaID uint) ([]tribe.Tribe, error) {
	var out []tribe.Tribe
	for _, t := range r.tribes {
		if t.AreaID() == areaID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *memTribeRepo) GetByID(_ context.Context, id uint) (tribe.Tribe, error) {
	for _, t := range r.tribes {
		if t.ID() == id {
			return t, nil
		}
	}
	return tribe.Tribe{}, tribe.ErrNotFound
}

func (r *memTribeRepo) GetByName(_ context.Context, areaID uint, name string) (tribe.Tribe, error) {
	for _, t := range r.tribes {
		if t.AreaID() == areaID && strings.EqualFold(t.Name(), name) {
			return t, nil
		}
	}
	return tribe.Tribe{}, tribe.ErrNotFound
}

func (r *memTribeRepo) Create(_ context.Context, data tribe.Tribe) (tribe.Tribe, error) {
	r.nextID++
	created := tribe.Hydrate(r.nextID, data.AreaID(), data.Name(), data.Description(), data.Label(), data.Counters(), time.Now(), time.Now())
	r.tribes = append(r.tribes, created)
	return created, nil
}

func (r *memTribeRepo) Update(_ context.Context, _ uint, _ tribe.UpdateFields) (tribe.Tribe, error) {
	return tribe.Tribe{}, nil
}

func (r *memTribeRepo) Reparent(_ context.Context, _ uint, _ uint) (tribe.Tribe, error) {
	return tribe.Tribe{}, nil
}

func (r *memTribeRepo) Delete(_ context.Context, _ uint) error { return nil }

type memSquadRepo struct {
	squads []squad.Squad
	nextID uint
}

func (r *memSquadRepo) GetAll(_ context.Context) ([]squad.Squad, error) { return r.squads, nil }

func (r *memSquadRepo) GetByTribe(_ context.Context, tribeID uint) ([]squad.Squad, error) {
	var out []squad.Squad
	for _, s := range r.squads {
		if s.TribeID() == tribeID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *memSquadRepo) GetByID(_ context.Context, id uint) (squad.Squad, error) {
	for _, s := range r.squads {
		if s.ID() == id {
			return s, nil
		}
	}
	return squad.Squad{}, squad.ErrNotFound
}

func (r *memSquadRepo) GetByName(_ context.Context, tribeID uint, name string) (squad.Squad, error) {
	for _, s := range r.squads {
		if s.TribeID() == tribeID && strings.EqualFold(s.Name(), name) {
			return s, nil
		}
	}
	return squad.Squad{}, squad.ErrNotFound
}

func (r *memSquadRepo) Create(_ context.Context, data squad.Squad) (squad.Squad, error) {
	r.nextID++
	created := squad.Hydrate(
		r.nextID, data.TribeID(), data.Name(), data.Description(),
		data.Status(), data.Timezone(), data.TeamType(), data.Contact(),
		data.Counters(), time.Now(), time.Now(),
	)
	r.squads = append(r.squads, created)
	return created, nil
}

func (r *memSquadRepo) Update(_ context.Context, _ uint, _ squad.UpdateFields) (squad.Squad, error) {
	return squad.Squad{}, nil
}

func (r *memSquadRepo) Reparent(_ context.Context, _ uint, _ uint) (squad.Squad, error) {
	return squad.Squad{}, nil
}

func (r *memSquadRepo) Delete(_ context.Context, _ uint) error { return nil }

type memMemberRepo struct {
	members []member.Member
	nextID  uint
	updates int
}

func (r *memMemberRepo) GetAll(_ context.Context) ([]member.Member, error) { return r.members, nil }

func (r *memMemberRepo) GetByID(_ context.Context, id uint) (member.Member, error) {
	for _, m := range r.members {
		if m.ID() == id {
			return m, nil
		}
	}
	return member.Member{}, member.ErrNotFound
}

func (r *memMemberRepo) GetByEmail(_ context.Context, email string) (member.Member, error) {
	for _, m := range r.members {
		if m.Email() == strings.ToLower(email) {
			return m, nil
		}
	}
	return member.Member{}, member.ErrNotFound
}

func (r *memMemberRepo) GetBySquad(_ context.Context, _ uint) ([]member.Member, error) {
	return nil, nil
}

func (r *memMemberRepo) Create(_ context.Context, data member.Member) (member.Member, error) {
	r.nextID++
	created := member.Hydrate(
		r.nextID, data.Name(), data.Email(), data.Role(), data.Profile(),
		data.EmploymentType(), data.IsExternal(), data.IsVacancy(),
		data.SupervisorID(), time.Now(), time.Now(),
	)
	r.members = append(r.members, created)
	return created, nil
}

func (r *memMemberRepo) Update(ctx context.Context, id uint, fields member.UpdateFields) (member.Member, error) {
	existing, err := r.GetByID(ctx, id)
	if err != nil {
		return member.Member{}, err
	}
	r.updates++

	name := existing.Name()
	if fields.Name != nil {
		name = *fields.Name
	}
	email := existing.Email()
	if fields.Email != nil {
		email = *fields.Email
	}
	role := existing.Role()
	if fields.Role != nil {
		role = *fields.Role
	}
	profile := existing.Profile()
	if fields.Function != nil {
		profile.Function = *fields.Function
	}
	if fields.Geography != nil {
		profile.Geography = *fields.Geography
	}
	if fields.Location != nil {
		profile.Location = *fields.Location
	}
	if fields.ImageURL != nil {
		profile.ImageURL = *fields.ImageURL
	}
	if fields.Vendor != nil {
		profile.Vendor = *fields.Vendor
	}
	et := existing.EmploymentType()
	if fields.EmploymentType != nil {
		et = *fields.EmploymentType
	}
	isExternal := existing.IsExternal()
	if fields.IsExternal != nil {
		isExternal = *fields.IsExternal
	}
	isVacancy := existing.IsVacancy()
	if fields.IsVacancy != nil {
		isVacancy = *fields.IsVacancy
	}
	supervisorID := existing.SupervisorID()
	if fields.Supervisor != nil {
		supervisorID = fields.Supervisor.ID
	}

	updated := member.Hydrate(
		id, name, email, role, profile, et, isExternal, isVacancy,
		supervisorID, existing.CreatedAt(), time.Now(),
	)
	for i, m := range r.members {
		if m.ID() == id {
			r.members[i] = updated
		}
	}
	return updated, nil
}

func (r *memMemberRepo) Delete(_ context.Context, id uint) error {
	for i, m := range r.members {
		if m.ID() == id {
			r.members = append(r.members[:i], r.members[i+1:]...)
			return nil
		}
	}
	return member.ErrNotFound
}

func (r *memMemberRepo) byEmail(email string) (member.Member, bool) {
	for _, m := range r.members {
		if m.Email() == email {
			return m, true
		}
	}
	return member.Member{}, false
}

type memMembershipRepo struct {
	memberships []membership.Membership
	nextID      uint
	updates     int
}

func (r *memMembershipRepo) GetByMember(_ context.Context, memberID uint) ([]membership.Membership, error) {
	var out []membership.Membership
	for _, ms := range r.memberships {
		if ms.MemberID() == memberID {
			out = append(out, ms)
		}
	}
	return out, nil
}

func (r *memMembershipRepo) GetBySquad(_ context.Context, squadID uint) ([]membership.Membership, error) {
	var out []membership.Membership
	for _, ms := range r.memberships {
		if ms.SquadID() == squadID {
			out = append(out, ms)
		}
	}
	return out, nil
}

func (r *memMembershipRepo) GetByMemberAndSquad(_ context.Context, memberID, squadID uint) (membership.Membership, error) {
	for _, ms := range r.memberships {
		if ms.MemberID() == memberID && ms.SquadID() == squadID {
			return ms, nil
		}
	}
	return membership.Membership{}, membership.ErrNotFound
}

func (r *memMembershipRepo) Create(_ context.Context, data membership.Membership) (membership.Membership, error) {
	r.nextID++
	created := membership.Hydrate(
		r.nextID, data.MemberID(), data.SquadID(), data.Capacity(), data.Role(),
		time.Now(), time.Now(),
	)
	r.memberships = append(r.memberships, created)
	return created, nil
}

func (r *memMembershipRepo) Update(ctx context.Context, id uint, fields membership.UpdateFields) (membership.Membership, error) {
	for i, ms := range r.memberships {
		if ms.ID() != id {
			continue
		}
		r.updates++
		capacity := ms.Capacity()
		if fields.Capacity != nil {
			capacity = *fields.Capacity
		}
		role := ms.Role()
		if fields.Role != nil {
			role = *fields.Role
		}
		updated := membership.Hydrate(id, ms.MemberID(), ms.SquadID(), capacity, role, ms.CreatedAt(), time.Now())
		r.memberships[i] = updated
		return updated, nil
	}
	return membership.Membership{}, membership.ErrNotFound
}

func (r *memMembershipRepo) Delete(_ context.Context, id uint) error {
	for i, ms := range r.memberships {
		if ms.ID() == id {
			r.memberships = append(r.memberships[:i], r.memberships[i+1:]...)
			return nil
		}
	}
	return membership.ErrNotFound
}
