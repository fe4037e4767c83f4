package controllers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/iota-uz/org-portal/modules/org/domain/aggregates/squad"
	"github.com/iota-uz/org-portal/modules/org/presentation/mappers"
	"github.com/iota-uz/org-portal/modules/org/presentation/viewmodels"
	"github.com/iota-uz/org-portal/modules/org/services"
	"github.com/iota-uz/org-portal/pkg/application"
	"github.com/iota-uz/org-portal/pkg/composables"
	"github.com/iota-uz/org-portal/pkg/httpapi"
	"github.com/iota-uz/org-portal/pkg/middleware"
)

type SquadController struct {
	app      application.Application
	squads   *services.SquadService
	basePath string
}

func NewSquadController(app application.Application) application.Controller {
	return &SquadController{
		app:      app,
		squads:   app.Service(services.SquadService{}).(*services.SquadService),
		basePath: APIPrefix + "/squads",
	}
}

func (c *SquadController) Key() string {
	return c.basePath
}

func (c *SquadController) Register(r *mux.Router) {
	read := r.PathPrefix(c.basePath).Subrouter()
	read.HandleFunc("", c.List).Methods(http.MethodGet)
	read.HandleFunc("/{id:[0-9]+}", c.Get).Methods(http.MethodGet)

	admin := r.PathPrefix(APIPrefix + "/admin/squads").Subrouter()
	admin.Use(middleware.RequireRole(composables.RoleAdmin), middleware.WithTransaction())
	admin.HandleFunc("", c.Create).Methods(http.MethodPost)
	admin.HandleFunc("/{id:[0-9]+}", c.Update).Methods(http.MethodPut)
	admin.HandleFunc("/{id:[0-9]+}", c.Delete).Methods(http.MethodDelete)
	admin.HandleFunc("/{id:[0-9]+}/team-type", c.SetTeamType).Methods(http.MethodPut)
	admin.HandleFunc("/{id:[0-9]+}/contact-info", c.SetContact).Methods(http.MethodPut)
	admin.HandleFunc("/{id:[0-9]+}/tribe", c.Reparent).Methods(http.MethodPut)
}

func (c *SquadController) List(w http.ResponseWriter, r *http.Request) {
	tribeID, scoped, err := queryUint(r, "tribe_id")
	if err != nil {
		httpapi.WriteDomainError(w, r, err)
		return
	}
	var items []squad.Squad
	if scoped {
		items, err = c.squads.GetByTribe(r.Context(), tribeID)
	} else {
		items, err = c.squads.GetAll(r.Context())
	}
	if err != nil {
		httpapi.WriteDomainError(w, r, err)
		return
	}
	out := make([]viewmodels.Squad, 0, len(items))
	for _, s := range items {
		out = append(out, mappers.SquadToViewModel(s))
	}
	httpapi.WriteJSON(w, http.StatusOK, map[string]any{"items": out})
}

func (c *SquadController) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		httpapi.WriteDomainError(w, r, err)
		return
	}
	entity, err := c.squads.GetByID(r.Context(), id)
	if err != nil {
		httpapi.WriteDomainError(w, r, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, mappers.SquadToViewModel(entity))
}

func (c *SquadController) Create(w http.ResponseWriter, r *http.Request) {
	var dto squad.CreateDTO
	if !decodeBody(w, r, &dto) {
		return
	}
	created, err := c.squads.Create(r.Context(), &dto)
	if err != nil {
		httpapi.WriteDomainError(w, r, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusCreated, mappers.SquadToViewModel(created))
}

func (c *SquadController) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		httpapi.WriteDomainError(w, r, err)
		return
	}
	var dto squad.UpdateDTO
	if !decodeBody(w, r, &dto) {
		return
	}
	updated, err := c.squads.Update(r.Context(), id, &dto)
	if err != nil {
		httpapi.WriteDomainError(w, r, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, mappers.SquadToViewModel(updated))
}

func (c *SquadController) SetTeamType(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		httpapi.WriteDomainError(w, r, err)
		return
	}
	var body struct {
		TeamType string `json:"team_type"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	updated, err := c.squads.Update(r.Context(), id, &squad.UpdateDTO{TeamType: &body.TeamType})
	if err != nil {
		httpapi.WriteDomainError(w, r, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, mappers.SquadToViewModel(updated))
}

func (c *SquadController) SetContact(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		httpapi.WriteDomainError(w, r, err)
		return
	}
	var contact squad.Contact
	if !decodeBody(w, r, &contact) {
		return
	}
	updated, err := c.squads.Update(r.Context(), id, &squad.UpdateDTO{Contact: &contact})
	if err != nil {
		httpapi.WriteDomainError(w, r, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, mappers.SquadToViewModel(updated))
}

func (c *SquadController) Reparent(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		httpapi.WriteDomainError(w, r, err)
		return
	}
	var body struct {
		TribeID uint `json:"tribe_id"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	moved, err := c.squads.Reparent(r.Context(), id, body.TribeID)
	if err != nil {
		httpapi.WriteDomainError(w, r, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, mappers.SquadToViewModel(moved))
}

func (c *SquadController) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		httpapi.WriteDomainError(w, r, err)
		return
	}
	if err := c.squads.Delete(r.Context(), id); err != nil {
		httpapi.WriteDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
