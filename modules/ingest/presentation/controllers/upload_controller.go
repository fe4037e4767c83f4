package controllers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/iota-uz/org-portal/modules/ingest/domain/feed"
	"github.com/iota-uz/org-portal/modules/ingest/infrastructure/tabular"
	"github.com/iota-uz/org-portal/modules/ingest/services"
	"github.com/iota-uz/org-portal/pkg/application"
	"github.com/iota-uz/org-portal/pkg/composables"
	"github.com/iota-uz/org-portal/pkg/configuration"
	"github.com/iota-uz/org-portal/pkg/httpapi"
	"github.com/iota-uz/org-portal/pkg/middleware"
	"github.com/iota-uz/org-portal/pkg/serrors"
)

const apiPrefix = "/api/v1"

// UploadController accepts multipart spreadsheet uploads. The transaction
// is owned by the ingest service (one session for the whole batch), so the
// route deliberately skips the per-request transaction middleware.
type UploadController struct {
	app      application.Application
	ingest   *services.IngestService
	basePath string
}

func NewUploadController(app application.Application) application.Controller {
	return &UploadController{
		app:      app,
		ingest:   app.Service(services.IngestService{}).(*services.IngestService),
		basePath: apiPrefix + "/admin/upload-data",
	}
}

func (c *UploadController) Key() string {
	return c.basePath
}

func (c *UploadController) Register(r *mux.Router) {
	admin := r.PathPrefix(c.basePath).Subrouter()
	admin.Use(middleware.RequireRole(composables.RoleAdmin))
	admin.HandleFunc("", c.Upload).Methods(http.MethodPost)
}

func (c *UploadController) Upload(w http.ResponseWriter, r *http.Request) {
	conf := configuration.Use()
	r.Body = http.MaxBytesReader(w, r.Body, conf.Ingest.MaxUploadSize)
	if err := r.ParseMultipartForm(conf.Ingest.MaxUploadMemory); err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, "INVALID_MULTIPART", "could not parse multipart form", nil)
		return
	}

	feedType, err := feed.ParseType(r.FormValue("data_type"))
	if err != nil {
		httpapi.WriteDomainError(w, r,
			serrors.Validation("FEED_TYPE_UNKNOWN", "data_type must be organization, services or dependencies").WithField("data_type"))
		return
	}
	mode, err := feed.ParseMode(r.FormValue("mode"))
	if err != nil {
		httpapi.WriteDomainError(w, r,
			serrors.Validation("INGEST_MODE_UNKNOWN", "mode must be replace or append").WithField("mode"))
		return
	}
	sheetName := r.FormValue("sheet_name")
	dryRun := r.FormValue("dry_run") == "true" || r.FormValue("dry_run") == "1"

	headers := r.MultipartForm.File["file"]
	if len(headers) == 0 {
		httpapi.WriteDomainError(w, r,
			serrors.Validation("FILE_REQUIRED", "at least one file part is required").WithField("file"))
		return
	}

	tables := make([]*feed.Table, 0, len(headers))
	for _, hdr := range headers {
		f, err := hdr.Open()
		if err != nil {
			httpapi.WriteError(w, http.StatusBadRequest, "FILE_UNREADABLE", "could not open uploaded file", nil)
			return
		}
		table, err := tabular.Parse(f, hdr.Filename, sheetName)
		f.Close()
		if err != nil {
			httpapi.WriteDomainError(w, r,
				serrors.Validation("FILE_UNPARSABLE", err.Error()).WithField("file"))
			return
		}
		tables = append(tables, table)
	}

	report, err := c.ingest.Ingest(r.Context(), services.Request{
		Type:   feedType,
		Mode:   mode,
		Tables: tables,
		DryRun: dryRun,
	})
	if err != nil {
		httpapi.WriteDomainError(w, r, err)
		return
	}

	status := http.StatusOK
	if len(report.Skipped) > 0 {
		status = http.StatusMultiStatus
	}
	httpapi.WriteJSON(w, status, report)
}
