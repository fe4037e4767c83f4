package controllers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/iota-uz/org-portal/modules/delivery/domain/aggregates/service"
	"github.com/iota-uz/org-portal/modules/delivery/presentation/mappers"
	"github.com/iota-uz/org-portal/modules/delivery/presentation/viewmodels"
	"github.com/iota-uz/org-portal/modules/delivery/services"
	"github.com/iota-uz/org-portal/pkg/application"
	"github.com/iota-uz/org-portal/pkg/composables"
	"github.com/iota-uz/org-portal/pkg/httpapi"
	"github.com/iota-uz/org-portal/pkg/middleware"
)

type ServiceController struct {
	app      application.Application
	catalog  *services.ServiceService
	basePath string
}

func NewServiceController(app application.Application) application.Controller {
	return &ServiceController{
		app:      app,
		catalog:  app.Service(services.ServiceService{}).(*services.ServiceService),
		basePath: apiPrefix + "/services",
	}
}

func (c *ServiceController) Key() string {
	return c.basePath
}

func (c *ServiceController) Register(r *mux.Router) {
	read := r.PathPrefix(c.basePath).Subrouter()
	read.HandleFunc("", c.List).Methods(http.MethodGet)
	read.HandleFunc("/{id:[0-9]+}", c.Get).Methods(http.MethodGet)

	admin := r.PathPrefix(apiPrefix + "/admin/services").Subrouter()
	admin.Use(middleware.RequireRole(composables.RoleAdmin), middleware.WithTransaction())
	admin.HandleFunc("", c.Create).Methods(http.MethodPost)
	admin.HandleFunc("/{id:[0-9]+}", c.Update).Methods(http.MethodPut)
	admin.HandleFunc("/{id:[0-9]+}", c.Delete).Methods(http.MethodDelete)
}

func (c *ServiceController) List(w http.ResponseWriter, r *http.Request) {
	squadID, scoped, err := queryUint(r, "squad_id")
	if err != nil {
		httpapi.WriteDomainError(w, r, err)
		return
	}
	var items []service.Service
	if scoped {
		items, err = c.catalog.GetBySquad(r.Context(), squadID)
	} else {
		items, err = c.catalog.GetAll(r.Context())
	}
	if err != nil {
		httpapi.WriteDomainError(w, r, err)
		return
	}
	out := make([]viewmodels.Service, 0, len(items))
	for _, s := range items {
		out = append(out, mappers.ServiceToViewModel(s))
	}
	httpapi.WriteJSON(w, http.StatusOK, map[string]any{"items": out})
}

func (c *ServiceController) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		httpapi.WriteDomainError(w, r, err)
		return
	}
	entity, err := c.catalog.GetByID(r.Context(), id)
	if err != nil {
		httpapi.WriteDomainError(w, r, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, mappers.ServiceToViewModel(entity))
}

func (c *ServiceController) Create(w http.ResponseWriter, r *http.Request) {
	var dto service.CreateDTO
	if !decodeBody(w, r, &dto) {
		return
	}
	created, err := c.catalog.Create(r.Context(), &dto)
	if err != nil {
		httpapi.WriteDomainError(w, r, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusCreated, mappers.ServiceToViewModel(created))
}

func (c *ServiceController) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		httpapi.WriteDomainError(w, r, err)
		return
	}
	var dto service.UpdateDTO
	if !decodeBody(w, r, &dto) {
		return
	}
	updated, err := c.catalog.Update(r.Context(), id, &dto)
	if err != nil {
		httpapi.WriteDomainError(w, r, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, mappers.ServiceToViewModel(updated))
}

func (c *ServiceController) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		httpapi.WriteDomainError(w, r, err)
		return
	}
	if err := c.catalog.Delete(r.Context(), id); err != nil {
		httpapi.WriteDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
