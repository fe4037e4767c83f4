package controllers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/iota-uz/org-portal/modules/delivery/presentation/mappers"
	"github.com/iota-uz/org-portal/modules/delivery/services"
	"github.com/iota-uz/org-portal/pkg/application"
	"github.com/iota-uz/org-portal/pkg/composables"
	"github.com/iota-uz/org-portal/pkg/httpapi"
	"github.com/iota-uz/org-portal/pkg/middleware"
)

type OnCallController struct {
	app      application.Application
	rosters  *services.OnCallService
	basePath string
}

func NewOnCallController(app application.Application) application.Controller {
	return &OnCallController{
		app:      app,
		rosters:  app.Service(services.OnCallService{}).(*services.OnCallService),
		basePath: apiPrefix + "/on-call",
	}
}

func (c *OnCallController) Key() string {
	return c.basePath
}

func (c *OnCallController) Register(r *mux.Router) {
	read := r.PathPrefix(c.basePath).Subrouter()
	read.HandleFunc("/{squadID:[0-9]+}", c.Get).Methods(http.MethodGet)

	admin := r.PathPrefix(apiPrefix + "/admin/on-call").Subrouter()
	admin.Use(middleware.RequireRole(composables.RoleAdmin), middleware.WithTransaction())
	admin.HandleFunc("/{squadID:[0-9]+}", c.Put).Methods(http.MethodPut)
	admin.HandleFunc("/{squadID:[0-9]+}", c.Delete).Methods(http.MethodDelete)
}

func (c *OnCallController) Get(w http.ResponseWriter, r *http.Request) {
	squadID, err := pathID(r, "squadID")
	if err != nil {
		httpapi.WriteDomainError(w, r, err)
		return
	}
	roster, err := c.rosters.GetBySquad(r.Context(), squadID)
	if err != nil {
		httpapi.WriteDomainError(w, r, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, mappers.RosterToViewModel(roster))
}

func (c *OnCallController) Put(w http.ResponseWriter, r *http.Request) {
	squadID, err := pathID(r, "squadID")
	if err != nil {
		httpapi.WriteDomainError(w, r, err)
		return
	}
	var body struct {
		PrimaryName      string `json:"primary_name"`
		PrimaryContact   string `json:"primary_contact"`
		SecondaryName    string `json:"secondary_name"`
		SecondaryContact string `json:"secondary_contact"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	roster, err := c.rosters.Put(r.Context(), squadID, body.PrimaryName, body.PrimaryContact, body.SecondaryName, body.SecondaryContact)
	if err != nil {
		httpapi.WriteDomainError(w, r, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, mappers.RosterToViewModel(roster))
}

func (c *OnCallController) Delete(w http.ResponseWriter, r *http.Request) {
	squadID, err := pathID(r, "squadID")
	if err != nil {
		httpapi.WriteDomainError(w, r, err)
		return
	}
	if err := c.rosters.Delete(r.Context(), squadID); err != nil {
		httpapi.WriteDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
