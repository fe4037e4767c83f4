package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/iota-uz/org-portal/modules/people/domain/aggregates/member"
	"github.com/iota-uz/org-portal/modules/people/domain/entities/membership"
	"github.com/iota-uz/org-portal/modules/people/presentation/mappers"
	"github.com/iota-uz/org-portal/modules/people/presentation/viewmodels"
	"github.com/iota-uz/org-portal/modules/people/services"
	"github.com/iota-uz/org-portal/pkg/application"
	"github.com/iota-uz/org-portal/pkg/composables"
	"github.com/iota-uz/org-portal/pkg/httpapi"
	"github.com/iota-uz/org-portal/pkg/middleware"
	"github.com/iota-uz/org-portal/pkg/serrors"
)

const apiPrefix = "/api/v1"

type MemberController struct {
	app      application.Application
	members  *services.MemberService
	basePath string
}

func NewMemberController(app application.Application) application.Controller {
	return &MemberController{
		app:      app,
		members:  app.Service(services.MemberService{}).(*services.MemberService),
		basePath: apiPrefix + "/team-members",
	}
}

func (c *MemberController) Key() string {
	return c.basePath
}

func (c *MemberController) Register(r *mux.Router) {
	read := r.PathPrefix(c.basePath).Subrouter()
	read.HandleFunc("", c.List).Methods(http.MethodGet)
	read.HandleFunc("/{id:[0-9]+}", c.Get).Methods(http.MethodGet)

	admin := r.PathPrefix(apiPrefix + "/admin/team-members").Subrouter()
	admin.Use(middleware.RequireRole(composables.RoleAdmin), middleware.WithTransaction())
	admin.HandleFunc("", c.Create).Methods(http.MethodPost)
	admin.HandleFunc("/{id:[0-9]+}", c.Update).Methods(http.MethodPut)
	admin.HandleFunc("/{id:[0-9]+}", c.Delete).Methods(http.MethodDelete)
	admin.HandleFunc("/{id:[0-9]+}/squads", c.Assign).Methods(http.MethodPost)
	admin.HandleFunc("/{id:[0-9]+}/squads/{squadID:[0-9]+}", c.UpdateAssignment).Methods(http.MethodPut)
	admin.HandleFunc("/{id:[0-9]+}/squads/{squadID:[0-9]+}", c.Unassign).Methods(http.MethodDelete)
}

func pathID(r *http.Request, name string) (uint, error) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, serrors.Validation("INVALID_ID", "id must be a positive integer").WithField(name)
	}
	return uint(id), nil
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, "INVALID_JSON", "request body is not valid json", nil)
		return false
	}
	return true
}

func (c *MemberController) List(w http.ResponseWriter, r *http.Request) {
	var items []member.Member
	var err error
	if raw := r.URL.Query().Get("squad_id"); raw != "" {
		squadID, perr := strconv.ParseUint(raw, 10, 64)
		if perr != nil {
			httpapi.WriteDomainError(w, r, serrors.Validation("INVALID_QUERY_PARAM", "must be a positive integer").WithField("squad_id"))
			return
		}
		items, err = c.members.GetBySquad(r.Context(), uint(squadID))
	} else {
		items, err = c.members.GetAll(r.Context())
	}
	if err != nil {
		httpapi.WriteDomainError(w, r, err)
		return
	}
	out := make([]viewmodels.Member, 0, len(items))
	for _, m := range items {
		out = append(out, mappers.MemberToViewModel(m))
	}
	httpapi.WriteJSON(w, http.StatusOK, map[string]any{"items": out})
}

func (c *MemberController) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		httpapi.WriteDomainError(w, r, err)
		return
	}
	entity, err := c.members.GetByID(r.Context(), id)
	if err != nil {
		httpapi.WriteDomainError(w, r, err)
		return
	}
	assignments, err := c.members.Memberships(r.Context(), id)
	if err != nil {
		httpapi.WriteDomainError(w, r, err)
		return
	}
	detail := viewmodels.MemberDetail{
		Member:      mappers.MemberToViewModel(entity),
		Memberships: make([]viewmodels.Membership, 0, len(assignments)),
	}
	for _, a := range assignments {
		detail.Memberships = append(detail.Memberships, mappers.MembershipToViewModel(a))
	}
	httpapi.WriteJSON(w, http.StatusOK, detail)
}

func (c *MemberController) Create(w http.ResponseWriter, r *http.Request) {
	var dto member.CreateDTO
	if !decodeBody(w, r, &dto) {
		return
	}
	created, err := c.members.Create(r.Context(), &dto)
	if err != nil {
		httpapi.WriteDomainError(w, r, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusCreated, mappers.MemberToViewModel(created))
}

func (c *MemberController) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		httpapi.WriteDomainError(w, r, err)
		return
	}
	var dto member.UpdateDTO
	if !decodeBody(w, r, &dto) {
		return
	}
	updated, err := c.members.Update(r.Context(), id, &dto)
	if err != nil {
		httpapi.WriteDomainError(w, r, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, mappers.MemberToViewModel(updated))
}

func (c *MemberController) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		httpapi.WriteDomainError(w, r, err)
		return
	}
	if err := c.members.Delete(r.Context(), id); err != nil {
		httpapi.WriteDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (c *MemberController) Assign(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		httpapi.WriteDomainError(w, r, err)
		return
	}
	var body struct {
		SquadID  uint    `json:"squad_id"`
		Capacity float64 `json:"capacity"`
		Role     string  `json:"role"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	created, err := c.members.Assign(r.Context(), id, body.SquadID, body.Capacity, body.Role)
	if err != nil {
		httpapi.WriteDomainError(w, r, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusCreated, mappers.MembershipToViewModel(created))
}

func (c *MemberController) UpdateAssignment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		httpapi.WriteDomainError(w, r, err)
		return
	}
	squadID, err := pathID(r, "squadID")
	if err != nil {
		httpapi.WriteDomainError(w, r, err)
		return
	}
	current, err := c.members.Memberships(r.Context(), id)
	if err != nil {
		httpapi.WriteDomainError(w, r, err)
		return
	}
	var target *uint
	for _, a := range current {
		if a.SquadID() == squadID {
			v := a.ID()
			target = &v
			break
		}
	}
	if target == nil {
		httpapi.WriteDomainError(w, r, serrors.NotFound("MEMBERSHIP_NOT_FOUND", "squad membership not found"))
		return
	}
	var body struct {
		Capacity *float64 `json:"capacity"`
		Role     *string  `json:"role"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	updated, err := c.members.UpdateAssignment(r.Context(), *target, membership.UpdateFields{Capacity: body.Capacity, Role: body.Role})
	if err != nil {
		httpapi.WriteDomainError(w, r, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, mappers.MembershipToViewModel(updated))
}

func (c *MemberController) Unassign(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		httpapi.WriteDomainError(w, r, err)
		return
	}
	squadID, err := pathID(r, "squadID")
	if err != nil {
		httpapi.WriteDomainError(w, r, err)
		return
	}
	if err := c.members.Unassign(r.Context(), id, squadID); err != nil {
		httpapi.WriteDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
