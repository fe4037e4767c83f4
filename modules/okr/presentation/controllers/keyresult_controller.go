package controllers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/iota-uz/org-portal/modules/okr/domain/entities/keyresult"
	"github.com/iota-uz/org-portal/modules/okr/presentation/mappers"
	"github.com/iota-uz/org-portal/modules/okr/presentation/viewmodels"
	"github.com/iota-uz/org-portal/modules/okr/services"
	"github.com/iota-uz/org-portal/pkg/application"
	"github.com/iota-uz/org-portal/pkg/composables"
	"github.com/iota-uz/org-portal/pkg/httpapi"
	"github.com/iota-uz/org-portal/pkg/middleware"
	"github.com/iota-uz/org-portal/pkg/serrors"
)

type KeyResultController struct {
	app        application.Application
	keyResults *services.KeyResultService
	basePath   string
}

func NewKeyResultController(app application.Application) application.Controller {
	return &KeyResultController{
		app:        app,
		keyResults: app.Service(services.KeyResultService{}).(*services.KeyResultService),
		basePath:   apiPrefix + "/key-results",
	}
}

func (c *KeyResultController) Key() string {
	return c.basePath
}

func (c *KeyResultController) Register(r *mux.Router) {
	read := r.PathPrefix(c.basePath).Subrouter()
	read.HandleFunc("", c.List).Methods(http.MethodGet)
	read.HandleFunc("/{id:[0-9]+}", c.Get).Methods(http.MethodGet)

	admin := r.PathPrefix(apiPrefix + "/admin/key-results").Subrouter()
	admin.Use(middleware.RequireRole(composables.RoleAdmin), middleware.WithTransaction())
	admin.HandleFunc("", c.Create).Methods(http.MethodPost)
	admin.HandleFunc("/{id:[0-9]+}", c.Update).Methods(http.MethodPut)
	admin.HandleFunc("/{id:[0-9]+}", c.Delete).Methods(http.MethodDelete)
}

func (c *KeyResultController) List(w http.ResponseWriter, r *http.Request) {
	objectiveID, err := queryUintPtr(r, "objective_id")
	if err != nil {
		httpapi.WriteDomainError(w, r, err)
		return
	}
	if objectiveID == nil {
		httpapi.WriteDomainError(w, r,
			serrors.Validation("OBJECTIVE_ID_REQUIRED", "objective_id query parameter is required").WithField("objective_id"))
		return
	}
	items, err := c.keyResults.GetByObjective(r.Context(), *objectiveID)
	if err != nil {
		httpapi.WriteDomainError(w, r, err)
		return
	}
	out := make([]viewmodels.KeyResult, 0, len(items))
	for _, kr := range items {
		out = append(out, mappers.KeyResultToViewModel(kr))
	}
	httpapi.WriteJSON(w, http.StatusOK, map[string]any{"items": out})
}

func (c *KeyResultController) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		httpapi.WriteDomainError(w, r, err)
		return
	}
	entity, err := c.keyResults.GetByID(r.Context(), id)
	if err != nil {
		httpapi.WriteDomainError(w, r, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, mappers.KeyResultToViewModel(entity))
}

func (c *KeyResultController) Create(w http.ResponseWriter, r *http.Request) {
	var dto keyresult.CreateDTO
	if !decodeBody(w, r, &dto) {
		return
	}
	created, err := c.keyResults.Create(r.Context(), &dto)
	if err != nil {
		httpapi.WriteDomainError(w, r, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusCreated, mappers.KeyResultToViewModel(created))
}

func (c *KeyResultController) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		httpapi.WriteDomainError(w, r, err)
		return
	}
	var dto keyresult.UpdateDTO
	if !decodeBody(w, r, &dto) {
		return
	}
	updated, err := c.keyResults.Update(r.Context(), id, &dto)
	if err != nil {
		httpapi.WriteDomainError(w, r, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, mappers.KeyResultToViewModel(updated))
}

func (c *KeyResultController) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		httpapi.WriteDomainError(w, r, err)
		return
	}
	if err := c.keyResults.Delete(r.Context(), id); err != nil {
		httpapi.WriteDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
