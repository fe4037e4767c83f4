package controllers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/iota-uz/org-portal/modules/okr/domain/aggregates/objective"
	"github.com/iota-uz/org-portal/modules/okr/presentation/mappers"
	"github.com/iota-uz/org-portal/modules/okr/presentation/viewmodels"
	"github.com/iota-uz/org-portal/modules/okr/services"
	"github.com/iota-uz/org-portal/pkg/application"
	"github.com/iota-uz/org-portal/pkg/composables"
	"github.com/iota-uz/org-portal/pkg/httpapi"
	"github.com/iota-uz/org-portal/pkg/middleware"
)

type ObjectiveController struct {
	app        application.Application
	objectives *services.ObjectiveService
	cascade    *services.CascadeService
	keyResults *services.KeyResultService
	basePath   string
}

func NewObjectiveController(app application.Application) application.Controller {
	return &ObjectiveController{
		app:        app,
		objectives: app.Service(services.ObjectiveService{}).(*services.ObjectiveService),
		cascade:    app.Service(services.CascadeService{}).(*services.CascadeService),
		keyResults: app.Service(services.KeyResultService{}).(*services.KeyResultService),
		basePath:   apiPrefix + "/objectives",
	}
}

func (c *ObjectiveController) Key() string {
	return c.basePath
}

func (c *ObjectiveController) Register(r *mux.Router) {
	read := r.PathPrefix(c.basePath).Subrouter()
	read.HandleFunc("", c.List).Methods(http.MethodGet)
	read.HandleFunc("/{id:[0-9]+}", c.Get).Methods(http.MethodGet)

	admin := r.PathPrefix(apiPrefix + "/admin/objectives").Subrouter()
	admin.Use(middleware.RequireRole(composables.RoleAdmin), middleware.WithTransaction())
	admin.HandleFunc("", c.Create).Methods(http.MethodPost)
	admin.HandleFunc("/{id:[0-9]+}", c.Update).Methods(http.MethodPut)
	admin.HandleFunc("/{id:[0-9]+}", c.Delete).Methods(http.MethodDelete)
}

// List resolves the scope given by area_id/tribe_id/squad_id, including
// objectives cascaded down from ancestors. Without a scope it lists every
// objective.
func (c *ObjectiveController) List(w http.ResponseWriter, r *http.Request) {
	scope := services.Scope{}
	var err error
	if scope.AreaID, err = queryUintPtr(r, "area_id"); err != nil {
		httpapi.WriteDomainError(w, r, err)
		return
	}
	if scope.TribeID, err = queryUintPtr(r, "tribe_id"); err != nil {
		httpapi.WriteDomainError(w, r, err)
		return
	}
	if scope.SquadID, err = queryUintPtr(r, "squad_id"); err != nil {
		httpapi.WriteDomainError(w, r, err)
		return
	}
	resolved, err := c.cascade.Resolve(r.Context(), scope)
	if err != nil {
		httpapi.WriteDomainError(w, r, err)
		return
	}
	out := make([]viewmodels.Objective, 0, len(resolved))
	for _, item := range resolved {
		out = append(out, mappers.ResolvedToViewModel(item))
	}
	httpapi.WriteJSON(w, http.StatusOK, map[string]any{"items": out})
}

func (c *ObjectiveController) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		httpapi.WriteDomainError(w, r, err)
		return
	}
	entity, err := c.objectives.GetByID(r.Context(), id)
	if err != nil {
		httpapi.WriteDomainError(w, r, err)
		return
	}
	krs, err := c.keyResults.GetByObjective(r.Context(), id)
	if err != nil {
		httpapi.WriteDomainError(w, r, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, mappers.ObjectiveToViewModel(entity, krs))
}

func (c *ObjectiveController) Create(w http.ResponseWriter, r *http.Request) {
	var dto objective.CreateDTO
	if !decodeBody(w, r, &dto) {
		return
	}
	created, err := c.objectives.Create(r.Context(), &dto)
	if err != nil {
		httpapi.WriteDomainError(w, r, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusCreated, mappers.ObjectiveToViewModel(created, nil))
}

func (c *ObjectiveController) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		httpapi.WriteDomainError(w, r, err)
		return
	}
	var dto objective.UpdateDTO
	if !decodeBody(w, r, &dto) {
		return
	}
	updated, err := c.objectives.Update(r.Context(), id, &dto)
	if err != nil {
		httpapi.WriteDomainError(w, r, err)
		return
	}
	krs, err := c.keyResults.GetByObjective(r.Context(), id)
	if err != nil {
		httpapi.WriteDomainError(w, r, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, mappers.ObjectiveToViewModel(updated, krs))
}

func (c *ObjectiveController) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		httpapi.WriteDomainError(w, r, err)
		return
	}
	if err := c.objectives.Delete(r.Context(), id); err != nil {
		httpapi.WriteDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
