package controllers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/iota-uz/org-portal/modules/org/domain/aggregates/tribe"
	"github.com/iota-uz/org-portal/modules/org/presentation/mappers"
	"github.com/iota-uz/org-portal/modules/org/presentation/viewmodels"
	"github.com/iota-uz/org-portal/modules/org/services"
	"github.com/iota-uz/org-portal/pkg/application"
	"github.com/iota-uz/org-portal/pkg/composables"
	"github.com/iota-uz/org-portal/pkg/httpapi"
	"github.com/iota-uz/org-portal/pkg/middleware"
)

type TribeController struct {
	app      application.Application
	tribes   *services.TribeService
	basePath string
}

func NewTribeController(app application.Application) application.Controller {
	return &TribeController{
		app:      app,
		tribes:   app.Service(services.TribeService{}).(*services.TribeService),
		basePath: APIPrefix + "/tribes",
	}
}

func (c *TribeController) Key() string {
	return c.basePath
}

func (c *TribeController) Register(r *mux.Router) {
	read := r.PathPrefix(c.basePath).Subrouter()
	read.HandleFunc("", c.List).Methods(http.MethodGet)
	read.HandleFunc("/{id:[0-9]+}", c.Get).Methods(http.MethodGet)

	admin := r.PathPrefix(APIPrefix + "/admin/tribes").Subrouter()
	admin.Use(middleware.RequireRole(composables.RoleAdmin), middleware.WithTransaction())
	admin.HandleFunc("", c.Create).Methods(http.MethodPost)
	admin.HandleFunc("/{id:[0-9]+}", c.Update).Methods(http.MethodPut)
	admin.HandleFunc("/{id:[0-9]+}", c.Delete).Methods(http.MethodDelete)
	admin.HandleFunc("/{id:[0-9]+}/area", c.Reparent).Methods(http.MethodPut)
}

func (c *TribeController) List(w http.ResponseWriter, r *http.Request) {
	areaID, scoped, err := queryUint(r, "area_id")
	if err != nil {
		httpapi.WriteDomainError(w, r, err)
		return
	}
	var items []tribe.Tribe
	if scoped {
		items, err = c.tribes.GetByArea(r.Context(), areaID)
	} else {
		items, err = c.tribes.GetAll(r.Context())
	}
	if err != nil {
		httpapi.WriteDomainError(w, r, err)
		return
	}
	out := make([]viewmodels.Tribe, 0, len(items))
	for _, t := range items {
		out = append(out, mappers.TribeToViewModel(t))
	}
	httpapi.WriteJSON(w, http.StatusOK, map[string]any{"items": out})
}

func (c *TribeController) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		httpapi.WriteDomainError(w, r, err)
		return
	}
	entity, err := c.tribes.GetByID(r.Context(), id)
	if err != nil {
		httpapi.WriteDomainError(w, r, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, mappers.TribeToViewModel(entity))
}

func (c *TribeController) Create(w http.ResponseWriter, r *http.Request) {
	var dto tribe.CreateDTO
	if !decodeBody(w, r, &dto) {
		return
	}
	created, err := c.tribes.Create(r.Context(), &dto)
	if err != nil {
		httpapi.WriteDomainError(w, r, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusCreated, mappers.TribeToViewModel(created))
}

func (c *TribeController) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		httpapi.WriteDomainError(w, r, err)
		return
	}
	var dto tribe.UpdateDTO
	if !decodeBody(w, r, &dto) {
		return
	}
	updated, err := c.tribes.Update(r.Context(), id, &dto)
	if err != nil {
		httpapi.WriteDomainError(w, r, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, mappers.TribeToViewModel(updated))
}

func (c *TribeController) Reparent(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		httpapi.WriteDomainError(w, r, err)
		return
	}
	var body struct {
		AreaID uint `json:"area_id"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	moved, err := c.tribes.Reparent(r.Context(), id, body.AreaID)
	if err != nil {
		httpapi.WriteDomainError(w, r, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, mappers.TribeToViewModel(moved))
}

func (c *TribeController) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		httpapi.WriteDomainError(w, r, err)
		return
	}
	if err := c.tribes.Delete(r.Context(), id); err != nil {
		httpapi.WriteDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
