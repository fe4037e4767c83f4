package controllers

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/iota-uz/org-portal/modules/org/services"
	"github.com/iota-uz/org-portal/pkg/application"
	"github.com/iota-uz/org-portal/pkg/httpapi"
)

type SearchController struct {
	app      application.Application
	search   *services.SearchService
	basePath string
}

func NewSearchController(app application.Application) application.Controller {
	return &SearchController{
		app:      app,
		search:   app.Service(services.SearchService{}).(*services.SearchService),
		basePath: APIPrefix + "/search",
	}
}

func (c *SearchController) Key() string {
	return c.basePath
}

func (c *SearchController) Register(r *mux.Router) {
	r.HandleFunc(c.basePath, c.Search).Methods(http.MethodGet)
}

func (c *SearchController) Search(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	result, err := c.search.Search(r.Context(), r.URL.Query().Get("q"), limit)
	if err != nil {
		httpapi.WriteDomainError(w, r, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, result)
}
