package controllers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/iota-uz/org-portal/modules/delivery/domain/entities/dependency"
	"github.com/iota-uz/org-portal/modules/delivery/presentation/mappers"
	"github.com/iota-uz/org-portal/modules/delivery/presentation/viewmodels"
	"github.com/iota-uz/org-portal/modules/delivery/services"
	"github.com/iota-uz/org-portal/pkg/application"
	"github.com/iota-uz/org-portal/pkg/composables"
	"github.com/iota-uz/org-portal/pkg/httpapi"
	"github.com/iota-uz/org-portal/pkg/middleware"
)

type DependencyController struct {
	app          application.Application
	dependencies *services.DependencyService
	basePath     string
}

func NewDependencyController(app application.Application) application.Controller {
	return &DependencyController{
		app:          app,
		dependencies: app.Service(services.DependencyService{}).(*services.DependencyService),
		basePath:     apiPrefix + "/dependencies",
	}
}

func (c *DependencyController) Key() string {
	return c.basePath
}

func (c *DependencyController) Register(r *mux.Router) {
	read := r.PathPrefix(c.basePath).Subrouter()
	read.HandleFunc("", c.List).Methods(http.MethodGet)
	read.HandleFunc("/{squadID:[0-9]+}", c.ListForSquad).Methods(http.MethodGet)

	admin := r.PathPrefix(apiPrefix + "/admin/dependencies").Subrouter()
	admin.Use(middleware.RequireRole(composables.RoleAdmin), middleware.WithTransaction())
	admin.HandleFunc("", c.Create).Methods(http.MethodPost)
	admin.HandleFunc("/{id:[0-9]+}", c.Delete).Methods(http.MethodDelete)
}

func (c *DependencyController) List(w http.ResponseWriter, r *http.Request) {
	items, err := c.dependencies.GetAll(r.Context())
	if err != nil {
		httpapi.WriteDomainError(w, r, err)
		return
	}
	c.writeList(w, items)
}

func (c *DependencyController) ListForSquad(w http.ResponseWriter, r *http.Request) {
	squadID, err := pathID(r, "squadID")
	if err != nil {
		httpapi.WriteDomainError(w, r, err)
		return
	}
	items, err := c.dependencies.GetBySquad(r.Context(), squadID)
	if err != nil {
		httpapi.WriteDomainError(w, r, err)
		return
	}
	c.writeList(w, items)
}

func (c *DependencyController) writeList(w http.ResponseWriter, items []dependency.Dependency) {
	out := make([]viewmodels.Dependency, 0, len(items))
	for _, d := range items {
		out = append(out, mappers.DependencyToViewModel(d))
	}
	httpapi.WriteJSON(w, http.StatusOK, map[string]any{"items": out})
}

func (c *DependencyController) Create(w http.ResponseWriter, r *http.Request) {
	var body struct {
		DependentID     uint   `json:"dependent_squad_id"`
		DependencyID    uint   `json:"dependency_squad_id"`
		Name            string `json:"name"`
		InteractionMode string `json:"interaction_mode"`
		Frequency       string `json:"frequency"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	registered, err := c.dependencies.Register(r.Context(), body.DependentID, body.DependencyID, body.Name, body.InteractionMode, body.Frequency)
	if err != nil {
		httpapi.WriteDomainError(w, r, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusCreated, mappers.DependencyToViewModel(registered))
}

func (c *DependencyController) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		httpapi.WriteDomainError(w, r, err)
		return
	}
	if err := c.dependencies.Delete(r.Context(), id); err != nil {
		httpapi.WriteDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
