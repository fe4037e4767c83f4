package handlers

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/iota-uz/org-portal/modules/org/domain/aggregates/squad"
	"github.com/iota-uz/org-portal/modules/org/domain/aggregates/tribe"
	"github.com/iota-uz/org-portal/modules/people/services"
	"github.com/iota-uz/org-portal/pkg/application"
	"github.com/iota-uz/org-portal/pkg/composables"
	"github.com/iota-uz/org-portal/pkg/configuration"
)

// OrgEventsHandler keeps the materialized counters consistent when the
// hierarchy itself changes. Deleting a squad or tribe cascades its
// memberships away, and reparenting moves them under a different
// ancestor chain; both leave stale numbers on the former ancestors
// unless they are recomputed here.
type OrgEventsHandler struct {
	rollups *services.RollupService
	baseCtx context.Context
	logger  *logrus.Logger
}

func RegisterOrgEventHandlers(app application.Application) {
	handler := &OrgEventsHandler{
		rollups: app.Service(services.RollupService{}).(*services.RollupService),
		baseCtx: composables.WithPool(context.Background(), app.DB()),
		logger:  configuration.Use().Logger(),
	}
	app.EventPublisher().Subscribe(handler.onSquadDeleted)
	app.EventPublisher().Subscribe(handler.onSquadReparented)
	app.EventPublisher().Subscribe(handler.onTribeDeleted)
	app.EventPublisher().Subscribe(handler.onTribeReparented)
}

func (h *OrgEventsHandler) onSquadDeleted(event squad.DeletedEvent) {
	if err := h.rollups.RecomputeTribe(h.baseCtx, event.TribeID); err != nil {
		h.logger.WithError(err).
			WithField("tribe_id", event.TribeID).
			Warn("failed to recompute counters after squad deletion")
	}
}

func (h *OrgEventsHandler) onSquadReparented(event squad.ReparentedEvent) {
	for _, tribeID := range []uint{event.OldTribeID, event.Result.TribeID()} {
		if err := h.rollups.RecomputeTribe(h.baseCtx, tribeID); err != nil {
			h.logger.WithError(err).
				WithField("tribe_id", tribeID).
				Warn("failed to recompute counters after squad reparent")
		}
	}
}

func (h *OrgEventsHandler) onTribeDeleted(event tribe.DeletedEvent) {
	if err := h.rollups.RecomputeArea(h.baseCtx, event.AreaID); err != nil {
		h.logger.WithError(err).
			WithField("area_id", event.AreaID).
			Warn("failed to recompute counters after tribe deletion")
	}
}

func (h *OrgEventsHandler) onTribeReparented(event tribe.ReparentedEvent) {
	for _, areaID := range []uint{event.OldAreaID, event.Result.AreaID()} {
		if err := h.rollups.RecomputeArea(h.baseCtx, areaID); err != nil {
			h.logger.WithError(err).
				WithField("area_id", areaID).
				Warn("failed to recompute counters after tribe reparent")
		}
	}
}
