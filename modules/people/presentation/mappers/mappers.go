package mappers

import (
	"time"

	"github.com/iota-uz/org-portal/modules/people/domain/aggregates/member"
	"github.com/iota-uz/org-portal/modules/people/domain/entities/membership"
	"github.com/iota-uz/org-portal/modules/people/presentation/viewmodels"
)

func ts(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func MemberToViewModel(m member.Member) viewmodels.Member {
	p := m.Profile()
	return viewmodels.Member{
		ID:             m.ID(),
		Name:           m.Name(),
		Email:          m.Email(),
		Role:           m.Role(),
		Function:       p.Function,
		Geography:      p.Geography,
		Location:       p.Location,
		ImageURL:       p.ImageURL,
		Vendor:         p.Vendor,
		EmploymentType: string(m.EmploymentType()),
		IsExternal:     m.IsExternal(),
		IsVacancy:      m.IsVacancy(),
		SupervisorID:   m.SupervisorID(),
		CreatedAt:      ts(m.CreatedAt()),
		UpdatedAt:      ts(m.UpdatedAt()),
	}
}

func MembershipToViewModel(m membership.Membership) viewmodels.Membership {
	return viewmodels.Membership{
		ID:       m.ID(),
		MemberID: m.MemberID(),
		SquadID:  m.SquadID(),
		Capacity: m.Capacity(),
		Role:     m.Role(),
	}
}
