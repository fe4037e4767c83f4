package controllers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/iota-uz/org-portal/modules/org/domain/entities/override"
	"github.com/iota-uz/org-portal/modules/org/presentation/mappers"
	"github.com/iota-uz/org-portal/modules/org/presentation/viewmodels"
	"github.com/iota-uz/org-portal/modules/org/services"
	"github.com/iota-uz/org-portal/pkg/application"
	"github.com/iota-uz/org-portal/pkg/composables"
	"github.com/iota-uz/org-portal/pkg/httpapi"
	"github.com/iota-uz/org-portal/pkg/middleware"
	"github.com/iota-uz/org-portal/pkg/serrors"
)

type DescriptionController struct {
	app          application.Application
	descriptions *services.DescriptionService
	basePath     string
}

func NewDescriptionController(app application.Application) application.Controller {
	return &DescriptionController{
		app:          app,
		descriptions: app.Service(services.DescriptionService{}).(*services.DescriptionService),
		basePath:     APIPrefix + "/descriptions",
	}
}

func (c *DescriptionController) Key() string {
	return c.basePath
}

func (c *DescriptionController) Register(r *mux.Router) {
	read := r.PathPrefix(c.basePath).Subrouter()
	read.HandleFunc("/{kind}/{id:[0-9]+}", c.Current).Methods(http.MethodGet)
	read.HandleFunc("/{kind}/{id:[0-9]+}/history", c.History).Methods(http.MethodGet)

	admin := r.PathPrefix(APIPrefix + "/admin/descriptions").Subrouter()
	admin.Use(middleware.RequireRole(composables.RoleAdmin), middleware.WithTransaction())
	admin.HandleFunc("/{kind}/{id:[0-9]+}", c.Put).Methods(http.MethodPut)
}

func target(r *http.Request) (override.Kind, uint, error) {
	kind, err := override.ParseKind(mux.Vars(r)["kind"])
	if err != nil {
		return "", 0, serrors.Validation("ENTITY_KIND_UNKNOWN", "unknown entity kind").WithField("kind")
	}
	id, err := pathID(r, "id")
	if err != nil {
		return "", 0, err
	}
	return kind, id, nil
}

func (c *DescriptionController) Current(w http.ResponseWriter, r *http.Request) {
	kind, id, err := target(r)
	if err != nil {
		httpapi.WriteDomainError(w, r, err)
		return
	}
	rec, err := c.descriptions.Current(r.Context(), kind, id)
	if err != nil {
		httpapi.WriteDomainError(w, r, err)
		return
	}
	if rec == nil {
		httpapi.WriteJSON(w, http.StatusOK, map[string]any{"override": nil})
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, map[string]any{"override": mappers.OverrideToViewModel(*rec)})
}

func (c *DescriptionController) History(w http.ResponseWriter, r *http.Request) {
	kind, id, err := target(r)
	if err != nil {
		httpapi.WriteDomainError(w, r, err)
		return
	}
	recs, err := c.descriptions.History(r.Context(), kind, id)
	if err != nil {
		httpapi.WriteDomainError(w, r, err)
		return
	}
	out := make([]viewmodels.Override, 0, len(recs))
	for _, rec := range recs {
		out = append(out, mappers.OverrideToViewModel(rec))
	}
	httpapi.WriteJSON(w, http.StatusOK, map[string]any{"items": out})
}

func (c *DescriptionController) Put(w http.ResponseWriter, r *http.Request) {
	kind, id, err := target(r)
	if err != nil {
		httpapi.WriteDomainError(w, r, err)
		return
	}
	var body struct {
		Description string `json:"description"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	rec, err := c.descriptions.Put(r.Context(), kind, id, body.Description, editor(r))
	if err != nil {
		httpapi.WriteDomainError(w, r, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusCreated, mappers.OverrideToViewModel(rec))
}
