package controllers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/iota-uz/org-portal/modules/org/domain/aggregates/area"
	"github.com/iota-uz/org-portal/modules/org/presentation/mappers"
	"github.com/iota-uz/org-portal/modules/org/presentation/viewmodels"
	"github.com/iota-uz/org-portal/modules/org/services"
	"github.com/iota-uz/org-portal/pkg/application"
	"github.com/iota-uz/org-portal/pkg/composables"
	"github.com/iota-uz/org-portal/pkg/httpapi"
	"github.com/iota-uz/org-portal/pkg/middleware"
)

type AreaController struct {
	app      application.Application
	areas    *services.AreaService
	basePath string
}

func NewAreaController(app application.Application) application.Controller {
	return &AreaController{
		app:      app,
		areas:    app.Service(services.AreaService{}).(*services.AreaService),
		basePath: APIPrefix + "/areas",
	}
}

func (c *AreaController) Key() string {
	return c.basePath
}

func (c *AreaController) Register(r *mux.Router) {
	read := r.PathPrefix(c.basePath).Subrouter()
	read.HandleFunc("", c.List).Methods(http.MethodGet)
	read.HandleFunc("/{id:[0-9]+}", c.Get).Methods(http.MethodGet)

	admin := r.PathPrefix(APIPrefix + "/admin/areas").Subrouter()
	admin.Use(middleware.RequireRole(composables.RoleAdmin), middleware.WithTransaction())
	admin.HandleFunc("", c.Create).Methods(http.MethodPost)
	admin.HandleFunc("/{id:[0-9]+}", c.Update).Methods(http.MethodPut)
	admin.HandleFunc("/{id:[0-9]+}", c.Delete).Methods(http.MethodDelete)
	admin.HandleFunc("/{id:[0-9]+}/label", c.SetLabel).Methods(http.MethodPut)
}

func (c *AreaController) List(w http.ResponseWriter, r *http.Request) {
	items, err := c.areas.GetAll(r.Context())
	if err != nil {
		httpapi.WriteDomainError(w, r, err)
		return
	}
	out := make([]viewmodels.Area, 0, len(items))
	for _, a := range items {
		out = append(out, mappers.AreaToViewModel(a))
	}
	httpapi.WriteJSON(w, http.StatusOK, map[string]any{"items": out})
}

func (c *AreaController) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		httpapi.WriteDomainError(w, r, err)
		return
	}
	entity, err := c.areas.GetByID(r.Context(), id)
	if err != nil {
		httpapi.WriteDomainError(w, r, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, mappers.AreaToViewModel(entity))
}

func (c *AreaController) Create(w http.ResponseWriter, r *http.Request) {
	var dto area.CreateDTO
	if !decodeBody(w, r, &dto) {
		return
	}
	created, err := c.areas.Create(r.Context(), &dto)
	if err != nil {
		httpapi.WriteDomainError(w, r, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusCreated, mappers.AreaToViewModel(created))
}

func (c *AreaController) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		httpapi.WriteDomainError(w, r, err)
		return
	}
	var dto area.UpdateDTO
	if !decodeBody(w, r, &dto) {
		return
	}
	updated, err := c.areas.Update(r.Context(), id, &dto)
	if err != nil {
		httpapi.WriteDomainError(w, r, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, mappers.AreaToViewModel(updated))
}

func (c *AreaController) SetLabel(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		httpapi.WriteDomainError(w, r, err)
		return
	}
	var body struct {
		Label string `json:"label"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	updated, err := c.areas.Update(r.Context(), id, &area.UpdateDTO{Label: &body.Label})
	if err != nil {
		httpapi.WriteDomainError(w, r, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, mappers.AreaToViewModel(updated))
}

func (c *AreaController) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		httpapi.WriteDomainError(w, r, err)
		return
	}
	if err := c.areas.Delete(r.Context(), id); err != nil {
		httpapi.WriteDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
