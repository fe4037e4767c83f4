package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/iota-uz/org-portal/modules/ingest/domain/feed"
	"github.com/iota-uz/org-portal/modules/org/domain/aggregates/area"
	"github.com/iota-uz/org-portal/modules/org/domain/aggregates/squad"
	"github.com/iota-uz/org-portal/modules/org/domain/aggregates/tribe"
	"github.com/iota-uz/org-portal/modules/org/domain/value_objects/label"
	"github.com/iota-uz/org-portal/modules/org/domain/value_objects/rollup"
	"github.com/iota-uz/org-portal/modules/people/domain/aggregates/member"
	"github.com/iota-uz/org-portal/modules/people/domain/entities/membership"
	"github.com/iota-uz/org-portal/pkg/serrors"
)

// capacityEpsilon is the change below which an existing membership's
// capacity is left untouched, keeping replays byte-stable.
const capacityEpsilon = 0.01

const vacancyName = "Vacancy"

// PeopleReconciler applies a people feed to the hierarchy: it creates
// missing areas, tribes and squads by name, upserts members by e-mail,
// upserts memberships by (member, squad) and links supervisors in a second
// pass. Malformed rows are reported and skipped; storage errors abort.
type PeopleReconciler struct {
	areas       area.Repository
	tribes      tribe.Repository
	squads      squad.Repository
	members     member.Repository
	memberships membership.Repository
	domain      string
}

func NewPeopleReconciler(
	areas area.Repository,
	tribes tribe.Repository,
	squads squad.Repository,
	members member.Repository,
	memberships membership.Repository,
	placeholderDomain string,
) *PeopleReconciler {
	return &PeopleReconciler{
		areas:       areas,
		tribes:      tribes,
		squads:      squads,
		members:     members,
		memberships: memberships,
		domain:      placeholderDomain,
	}
}

type peopleState struct {
	areasByName    map[string]area.Area
	tribesByKey    map[string]tribe.Tribe
	squadsByKey    map[string]squad.Squad
	membersByEmail map[string]member.Member
	membersByName  map[string]member.Member
	// supervisor display name (lowered key) -> ids of members reporting
	// to them, resolved after all rows are in.
	pending     map[string][]uint
	displayName map[string]string
}

func scopeKey(parentID uint, name string) string {
	return fmt.Sprintf("%d/%s", parentID, strings.ToLower(strings.TrimSpace(name)))
}

func (r *PeopleReconciler) Apply(ctx context.Context, table *feed.Table, mode feed.Mode) (int, []serrors.RowReport, error) {
	state, err := r.loadState(ctx)
	if err != nil {
		return 0, nil, err
	}

	applied := 0
	var reports []serrors.RowReport
	for i := 0; i < table.Len(); i++ {
		report, err := r.applyRow(ctx, state, table, i, mode)
		if err != nil {
			return applied, reports, err
		}
		if report != nil {
			reports = append(reports, *report)
			continue
		}
		applied++
	}

	if err := r.linkSupervisors(ctx, state); err != nil {
		return applied, reports, err
	}
	return applied, reports, nil
}

func (r *PeopleReconciler) loadState(ctx context.Context) (*peopleState, error) {
	state := &peopleState{
		areasByName:    map[string]area.Area{},
		tribesByKey:    map[string]tribe.Tribe{},
		squadsByKey:    map[string]squad.Squad{},
		membersByEmail: map[string]member.Member{},
		membersByName:  map[string]member.Member{},
		pending:        map[string][]uint{},
		displayName:    map[string]string{},
	}

	areas, err := r.areas.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, a := range areas {
		state.areasByName[strings.ToLower(a.Name())] = a
	}
	tribes, err := r.tribes.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, t := range tribes {
		state.tribesByKey[scopeKey(t.AreaID(), t.Name())] = t
	}
	squads, err := r.squads.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, s := range squads {
		state.squadsByKey[scopeKey(s.TribeID(), s.Name())] = s
	}
	members, err := r.members.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, m := range members {
		if m.Email() != "" {
			state.membersByEmail[m.Email()] = m
		}
		state.membersByName[strings.ToLower(m.Name())] = m
	}
	return state, nil
}

// applyRow returns a non-nil report when the row is skipped. Errors are
// storage failures and abort the whole feed.
func (r *PeopleReconciler) applyRow(ctx context.Context, state *peopleState, table *feed.Table, row int, mode feed.Mode) (*serrors.RowReport, error) {
	var (
		areaName  = table.Cell(row, "area")
		tribeName = table.Cell(row, "tribe")
		squadName = table.Cell(row, "squad")
		name      = table.Cell(row, "name")
	)
	if areaName == "" || tribeName == "" || squadName == "" || name == "" {
		return &serrors.RowReport{
			Row:     row + 1,
			Code:    "ROW_INCOMPLETE",
			Message: "area, tribe, squad and name are required",
		}, nil
	}

	capacity := 1.0
	if raw := table.Cell(row, "current phasing", "capacity"); raw != "" {
		parsed, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", "."), 64)
		if err != nil || parsed < 0 {
			return &serrors.RowReport{
				Row:     row + 1,
				Code:    "CAPACITY_INVALID",
				Message: fmt.Sprintf("capacity %q is not a non-negative number", raw),
			}, nil
		}
		capacity = rollup.Round2(parsed)
	}

	sq, err := r.ensureSquad(ctx, state, areaName, tribeName, squadName)
	if err != nil {
		return nil, err
	}

	role := table.Cell(row, "role/position", "role", "position")
	isVacancy := name == vacancyName
	email := strings.ToLower(table.Cell(row, "email"))
	if email == "" {
		local := feed.Slug(name)
		if isVacancy {
			local = "vacancy." + feed.Slug(role)
		}
		email = fmt.Sprintf("%s.%s@%s", local, feed.Slug(squadName), r.domain)
	}

	et := member.Subcon
	if strings.EqualFold(table.Cell(row, "regular/temporary", "employment type"), "regular") {
		et = member.Core
	}
	vendor := ""
	if et == member.Subcon {
		vendor = table.Cell(row, "vendor name", "vendor")
	}
	profile := member.Profile{
		Geography: table.Cell(row, "work geography", "geography"),
		Location:  table.Cell(row, "work city", "location"),
		Vendor:    vendor,
	}

	m, err := r.upsertMember(ctx, state, name, email, role, et, profile, isVacancy, mode)
	if err != nil {
		return nil, err
	}

	if err := r.upsertMembership(ctx, m.ID(), sq.ID(), capacity, role); err != nil {
		return nil, err
	}

	if sup := table.Cell(row, "supervisor name", "supervisor"); sup != "" && !isVacancy {
		key := strings.ToLower(sup)
		state.pending[key] = append(state.pending[key], m.ID())
		state.displayName[key] = sup
	}
	return nil, nil
}

func (r *PeopleReconciler) ensureSquad(ctx context.Context, state *peopleState, areaName, tribeName, squadName string) (squad.Squad, error) {
	a, ok := state.areasByName[strings.ToLower(areaName)]
	if !ok {
		created, err := r.areas.Create(ctx, area.New(areaName, "", label.Unset))
		if err != nil {
			return squad.Squad{}, fmt.Errorf("create area %q: %w", areaName, err)
		}
		a = created
		state.areasByName[strings.ToLower(areaName)] = a
	}

	tKey := scopeKey(a.ID(), tribeName)
	t, ok := state.tribesByKey[tKey]
	if !ok {
		created, err := r.tribes.Create(ctx, tribe.New(a.ID(), tribeName, "", label.Unset))
		if err != nil {
			return squad.Squad{}, fmt.Errorf("create tribe %q: %w", tribeName, err)
		}
		t = created
		state.tribesByKey[tKey] = t
	}

	sKey := scopeKey(t.ID(), squadName)
	s, ok := state.squadsByKey[sKey]
	if !ok {
		created, err := r.squads.Create(ctx, squad.New(t.ID(), squadName, "", squad.StreamAligned))
		if err != nil {
			return squad.Squad{}, fmt.Errorf("create squad %q: %w", squadName, err)
		}
		s = created
		state.squadsByKey[sKey] = s
	}
	return s, nil
}

func (r *PeopleReconciler) upsertMember(
	ctx context.Context,
	state *peopleState,
	name, email, role string,
	et member.EmploymentType,
	profile member.Profile,
	isVacancy bool,
	mode feed.Mode,
) (member.Member, error) {
	if existing, ok := state.membersByEmail[email]; ok {
		// Identity follows e-mail: in append mode the stored attributes
		// win and only the membership edge is written.
		if mode == feed.ModeAppend {
			return existing, nil
		}
		updated, err := r.members.Update(ctx, existing.ID(), member.UpdateFields{
			Name:           &name,
			Role:           &role,
			Geography:      &profile.Geography,
			Location:       &profile.Location,
			Vendor:         &profile.Vendor,
			EmploymentType: &et,
			IsVacancy:      &isVacancy,
		})
		if err != nil {
			return member.Member{}, fmt.Errorf("update member %q: %w", email, err)
		}
		state.membersByEmail[email] = updated
		state.membersByName[strings.ToLower(updated.Name())] = updated
		return updated, nil
	}

	created, err := r.members.Create(ctx,
		member.New(name, email, role, et).
			WithProfile(profile).
			WithVacancy(isVacancy),
	)
	if err != nil {
		return member.Member{}, fmt.Errorf("create member %q: %w", email, err)
	}
	state.membersByEmail[email] = created
	state.membersByName[strings.ToLower(created.Name())] = created
	return created, nil
}

func (r *PeopleReconciler) upsertMembership(ctx context.Context, memberID, squadID uint, capacity float64, role string) error {
	existing, err := r.memberships.GetByMemberAndSquad(ctx, memberID, squadID)
	switch {
	case err == nil:
		fields := membership.UpdateFields{}
		if math.Abs(existing.Capacity()-capacity) > capacityEpsilon {
			fields.Capacity = &capacity
		}
		if existing.Role() != role {
			fields.Role = &role
		}
		if fields.Capacity == nil && fields.Role == nil {
			return nil
		}
		if _, err := r.memberships.Update(ctx, existing.ID(), fields); err != nil {
			return fmt.Errorf("update membership: %w", err)
		}
		return nil
	case errors.Is(err, membership.ErrNotFound):
		if _, err := r.memberships.Create(ctx, membership.New(memberID, squadID, capacity, role)); err != nil {
			return fmt.Errorf("create membership: %w", err)
		}
		return nil
	default:
		return err
	}
}

// linkSupervisors resolves every recorded supervisor name to a member,
// creating external placeholder members for names that never appeared as a
// row, then points the reports at them.
func (r *PeopleReconciler) linkSupervisors(ctx context.Context, state *peopleState) error {
	for key, memberIDs := range state.pending {
		sup, ok := state.membersByName[key]
		if !ok {
			email := fmt.Sprintf("%s.supervisor@%s", feed.Slug(state.displayName[key]), r.domain)
			if byEmail, found := state.membersByEmail[email]; found {
				sup = byEmail
			} else {
				created, err := r.members.Create(ctx,
					member.New(state.displayName[key], email, "Supervisor", member.Core).
						WithExternal(true),
				)
				if err != nil {
					return fmt.Errorf("create supervisor %q: %w", state.displayName[key], err)
				}
				sup = created
				state.membersByEmail[email] = created
			}
			state.membersByName[key] = sup
		}

		supID := sup.ID()
		for _, id := range memberIDs {
			if id == supID {
				continue
			}
			m, found := memberByID(state, id)
			if found && m.SupervisorID() != nil && *m.SupervisorID() == supID {
				continue
			}
			_, err := r.members.Update(ctx, id, member.UpdateFields{
				Supervisor: &member.SupervisorChange{ID: &supID},
			})
			if err != nil {
				return fmt.Errorf("link supervisor: %w", err)
			}
		}
	}
	return nil
}

func memberByID(state *peopleState, id uint) (member.Member, bool) {
	for _, m := range state.membersByEmail {
		if m.ID() == id {
			return m, true
		}
	}
	return member.Member{}, false
}
