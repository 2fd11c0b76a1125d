package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/avoronkov/portfolio-backend/internal/domain"
)

type siteService interface {
	Profile(ctx context.Context) (*domain.Record, error)
	EnabledSkills(ctx context.Context) ([]string, error)
	Records(ctx context.Context, collection string) ([]domain.Record, error)
}

// SiteHandler serves the unauthenticated read-only API consumed by the
// public site.
type SiteHandler struct {
	site siteService
	log  *slog.Logger
}

func NewSiteHandler(site siteService, log *slog.Logger) *SiteHandler {
	return &SiteHandler{
		site: site,
		log:  log.With("handler", "site"),
	}
}

func (h *SiteHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	rec, err := h.site.Profile(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if rec == nil {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (h *SiteHandler) GetSkills(w http.ResponseWriter, r *http.Request) {
	labels, err := h.site.EnabledSkills(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, labels)
}

func (h *SiteHandler) GetCollection(w http.ResponseWriter, r *http.Request) {
	records, err := h.site.Records(r.Context(), r.PathValue("collection"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if records == nil {
		records = []domain.Record{}
	}
	writeJSON(w, http.StatusOK, records)
}
