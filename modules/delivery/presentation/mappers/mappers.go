package mappers

import (
	"time"

	"github.com/iota-uz/org-portal/modules/delivery/domain/aggregates/service"
	"github.com/iota-uz/org-portal/modules/delivery/domain/entities/dependency"
	"github.com/iota-uz/org-portal/modules/delivery/domain/entities/oncall"
	"github.com/iota-uz/org-portal/modules/delivery/presentation/viewmodels"
)

func ts(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func ServiceToViewModel(s service.Service) viewmodels.Service {
	return viewmodels.Service{
		ID:          s.ID(),
		SquadID:     s.SquadID(),
		Name:        s.Name(),
		Description: s.Description(),
		Status:      string(s.Status()),
		Uptime:      s.Uptime(),
		Version:     s.Version(),
		ServiceType: string(s.ServiceType()),
		URL:         s.URL(),
		DocsURL:     s.DocsURL(),
		CreatedAt:   ts(s.CreatedAt()),
		UpdatedAt:   ts(s.UpdatedAt()),
	}
}

func DependencyToViewModel(d dependency.Dependency) viewmodels.Dependency {
	return viewmodels.Dependency{
		ID:              d.ID(),
		DependentID:     d.DependentID(),
		DependencyID:    d.DependencyID(),
		Name:            d.Name(),
		InteractionMode: string(d.Mode()),
		Frequency:       d.Frequency(),
		CreatedAt:       ts(d.CreatedAt()),
	}
}

func RosterToViewModel(r oncall.Roster) viewmodels.Roster {
	return viewmodels.Roster{
		ID:               r.ID(),
		SquadID:          r.SquadID(),
		PrimaryName:      r.PrimaryName(),
		PrimaryContact:   r.PrimaryContact(),
		SecondaryName:    r.SecondaryName(),
		SecondaryContact: r.SecondaryContact(),
		UpdatedAt:        ts(r.UpdatedAt()),
	}
}
