package controllers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/iota-uz/org-portal/modules/people/services"
	"github.com/iota-uz/org-portal/pkg/application"
	"github.com/iota-uz/org-portal/pkg/composables"
	"github.com/iota-uz/org-portal/pkg/httpapi"
	"github.com/iota-uz/org-portal/pkg/middleware"
)

// RollupController exposes on-demand counter recomputation. Reparenting
// does not refresh counters on its own, so admins call this afterwards.
type RollupController struct {
	app      application.Application
	rollups  *services.RollupService
	basePath string
}

func NewRollupController(app application.Application) application.Controller {
	return &RollupController{
		app:      app,
		rollups:  app.Service(services.RollupService{}).(*services.RollupService),
		basePath: apiPrefix + "/admin/recompute",
	}
}

func (c *RollupController) Key() string {
	return c.basePath
}

func (c *RollupController) Register(r *mux.Router) {
	admin := r.PathPrefix(c.basePath).Subrouter()
	admin.Use(middleware.RequireRole(composables.RoleAdmin), middleware.WithTransaction())
	admin.HandleFunc("", c.RecomputeAll).Methods(http.MethodPost)
	admin.HandleFunc("/squads/{id:[0-9]+}", c.RecomputeSquad).Methods(http.MethodPost)
	admin.HandleFunc("/tribes/{id:[0-9]+}", c.RecomputeTribe).Methods(http.MethodPost)
	admin.HandleFunc("/areas/{id:[0-9]+}", c.RecomputeArea).Methods(http.MethodPost)
}

func (c *RollupController) RecomputeAll(w http.ResponseWriter, r *http.Request) {
	if err := c.rollups.RecomputeAll(r.Context()); err != nil {
		httpapi.WriteDomainError(w, r, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (c *RollupController) RecomputeSquad(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		httpapi.WriteDomainError(w, r, err)
		return
	}
	if err := c.rollups.RecomputeSquad(r.Context(), id); err != nil {
		httpapi.WriteDomainError(w, r, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (c *RollupController) RecomputeTribe(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		httpapi.WriteDomainError(w, r, err)
		return
	}
	if err := c.rollups.RecomputeTribe(r.Context(), id); err != nil {
		httpapi.WriteDomainError(w, r, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (c *RollupController) RecomputeArea(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		httpapi.WriteDomainError(w, r, err)
		return
	}
	if err := c.rollups.RecomputeArea(r.Context(), id); err != nil {
		httpapi.WriteDomainError(w, r, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
