package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	deliveryservice "github.com/iota-uz/org-portal/modules/delivery/domain/aggregates/service"
	"github.com/iota-uz/org-portal/modules/ingest/domain/feed"
	"github.com/iota-uz/org-portal/modules/org/domain/aggregates/squad"
	"github.com/iota-uz/org-portal/pkg/constants"
)

type memServiceRepo struct {
	services []deliveryservice.Service
	nextID   uint
	updates  int
}

func (r *memServiceRepo) GetAll(_ context.Context) ([]deliveryservice.Service, error) {
	return r.services, nil
}

func (r *memServiceRepo) GetBySquad(_ context.Context, squadID uint) ([]deliveryservice.Service, error) {
	var out []deliveryservice.Service
	for _, s := range r.services {
		if s.SquadID() == squadID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *memServiceRepo) GetByID(_ context.Context, id uint) (deliveryservice.Service, error) {
	for _, s := range r.services {
		if s.ID() == id {
			return s, nil
		}
	}
	return deliveryservice.Service{}, deliveryservice.ErrNotFound
}

func (r *memServiceRepo) GetByName(_ context.Context, squadID uint, name string) (deliveryservice.Service, error) {
	for _, s := range r.services {
		if s.SquadID() == squadID && strings.EqualFold(s.Name(), name) {
			return s, nil
		}
	}
	return deliveryservice.Service{}, deliveryservice.ErrNotFound
}

func (r *memServiceRepo) Create(_ context.Context, data deliveryservice.Service) (deliveryservice.Service, error) {
	r.nextID++
	created := deliveryservice.Hydrate(
		r.nextID, data.SquadID(), data.Name(), data.Description(),
		data.Status(), data.Uptime(), data.Version(), data.ServiceType(),
		data.URL(), data.DocsURL(), time.Now(), time.Now(),
	)
	r.services = append(r.services, created)
	return created, nil
}

func (r *memServiceRepo) Update(ctx context.Context, id uint, fields deliveryservice.UpdateFields) (deliveryservice.Service, error) {
	existing, err := r.GetByID(ctx, id)
	if err != nil {
		return deliveryservice.Service{}, err
	}
	r.updates++

	name := existing.Name()
	if fields.Name != nil {
		name = *fields.Name
	}
	description := existing.Description()
	if fields.Description != nil {
		description = *fields.Description
	}
	status := existing.Status()
	if fields.Status != nil {
		status = *fields.Status
	}
	uptime := existing.Uptime()
	if fields.Uptime != nil {
		uptime = *fields.Uptime
	}
	version := existing.Version()
	if fields.Version != nil {
		version = *fields.Version
	}
	serviceType := existing.ServiceType()
	if fields.ServiceType != nil {
		serviceType = *fields.ServiceType
	}
	url := existing.URL()
	if fields.URL != nil {
		url = *fields.URL
	}
	docsURL := existing.DocsURL()
	if fields.DocsURL != nil {
		docsURL = *fields.DocsURL
	}

	updated := deliveryservice.Hydrate(
		id, existing.SquadID(), name, description, status, uptime,
		version, serviceType, url, docsURL, existing.CreatedAt(), time.Now(),
	)
	for i, s := range r.services {
		if s.ID() == id {
			r.services[i] = updated
		}
	}
	return updated, nil
}

func (r *memServiceRepo) Delete(_ context.Context, id uint) error {
	for i, s := range r.services {
		if s.ID() == id {
			r.services = append(r.services[:i], r.services[i+1:]...)
			return nil
		}
	}
	return deliveryservice.ErrNotFound
}

func quietContext() context.Context {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return context.WithValue(context.Background(), constants.LoggerKey, logrus.NewEntry(logger))
}

func seededSquads() *memSquadRepo {
	squads := &memSquadRepo{}
	_, _ = squads.Create(context.Background(), squad.New(1, "Payments", "", squad.StreamAligned))
	_, _ = squads.Create(context.Background(), squad.New(1, "Mobile App", "", squad.StreamAligned))
	return squads
}

var servicesHeaders = []string{
	"Squad", "Name", "Description", "Status", "Uptime", "Version", "Service Type", "URL", "Docs URL",
}

func TestServicesApply_CreatesAndUpdates(t *testing.T) {
	squads := seededSquads()
	repo := &memServiceRepo{}
	reconciler := NewServicesReconciler(squads, repo)

	table := feed.NewTable(servicesHeaders, [][]string{
		{"Payments", "Checkout API", "card checkout", "healthy", "99.95%", "2.3.1", "api", "https://pay.internal", "https://docs.internal/pay"},
	})
	applied, reports, err := reconciler.Apply(quietContext(), table, feed.ModeReplace)
	require.NoError(t, err)
	require.Empty(t, reports)
	require.Equal(t, 1, applied)
	require.Len(t, repo.services, 1)
	require.Equal(t, deliveryservice.Healthy, repo.services[0].Status())
	require.InDelta(t, 99.95, repo.services[0].Uptime(), 0.001)

	// same (squad, name) updates in place
	table = feed.NewTable(servicesHeaders, [][]string{
		{"Payments", "Checkout API", "card checkout", "degraded", "97.1", "2.4.0", "api", "https://pay.internal", ""},
	})
	applied, reports, err = reconciler.Apply(quietContext(), table, feed.ModeReplace)
	require.NoError(t, err)
	require.Empty(t, reports)
	require.Equal(t, 1, applied)
	require.Len(t, repo.services, 1)
	require.Equal(t, 1, repo.updates)
	require.Equal(t, deliveryservice.Degraded, repo.services[0].Status())
	require.Equal(t, "2.4.0", repo.services[0].Version())
}

func TestServicesApply_UnknownSquadSkipped(t *testing.T) {
	squads := seededSquads()
	repo := &memServiceRepo{}
	reconciler := NewServicesReconciler(squads, repo)

	table := feed.NewTable(servicesHeaders, [][]string{
		{"Ghost Squad", "Checkout API", "", "", "", "", "", "", ""},
		{"Payments", "", "", "", "", "", "", "", ""},
		{"Payments", "Refunds API", "", "", "", "", "", "", ""},
	})
	applied, reports, err := reconciler.Apply(quietContext(), table, feed.ModeReplace)
	require.NoError(t, err)
	require.Equal(t, 1, applied)
	require.Len(t, reports, 2)
	require.Equal(t, "SQUAD_UNKNOWN", reports[0].Code)
	require.Equal(t, 1, reports[0].Row)
	require.Equal(t, "ROW_INCOMPLETE", reports[1].Code)
	require.Len(t, repo.services, 1)
}

func TestServicesApply_EnumFallbacks(t *testing.T) {
	squads := seededSquads()
	repo := &memServiceRepo{}
	reconciler := NewServicesReconciler(squads, repo)

	table := feed.NewTable(servicesHeaders, [][]string{
		{"Payments", "Checkout API", "", "on fire", "", "", "mainframe", "", ""},
	})
	applied, _, err := reconciler.Apply(quietContext(), table, feed.ModeReplace)
	require.NoError(t, err)
	require.Equal(t, 1, applied)
	require.Equal(t, deliveryservice.Healthy, repo.services[0].Status())
	require.Equal(t, deliveryservice.TypeAPI, repo.services[0].ServiceType())
}
