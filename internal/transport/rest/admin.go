package rest

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/avoronkov/portfolio-backend/internal/domain"
	"github.com/avoronkov/portfolio-backend/internal/service/collection"
	"github.com/avoronkov/portfolio-backend/internal/service/skills"
)

const maxUploadSize = 10 << 20 // 10 MiB

// CollectionManager is the slice of the collection manager the admin
// handlers use. Implemented by service/collection.Manager.
type CollectionManager interface {
	Snapshot() collection.Snapshot
	Reload(ctx context.Context) error
	Submit(ctx context.Context, fields map[string]any) error
	BeginEdit(id uuid.UUID) error
	CancelEdit()
	Delete(ctx context.Context, id uuid.UUID, confirmed bool) error
	Move(ctx context.Context, index, direction int) error
}

type profileService interface {
	Load(ctx context.Context) (domain.Record, error)
	Save(ctx context.Context, fields map[string]any) (domain.Record, error)
}

type skillsService interface {
	Load(ctx context.Context) ([]string, error)
	Toggle(ctx context.Context, label string) error
	Catalog() []skills.CatalogEntry
}

type assetService interface {
	Upload(ctx context.Context, namespace, filename string, r io.Reader) (string, error)
}

// AdminHandler serves the authenticated management API: collection CRUD
// and reorder, the profile singleton, the skill toggle grid and asset
// uploads.
type AdminHandler struct {
	collections map[string]CollectionManager
	profile     profileService
	skills      skillsService
	assets      assetService
	log         *slog.Logger
}

func NewAdminHandler(
	collections map[string]CollectionManager,
	profile profileService,
	skillsSvc skillsService,
	assets assetService,
	log *slog.Logger,
) *AdminHandler {
	return &AdminHandler{
		collections: collections,
		profile:     profile,
		skills:      skillsSvc,
		assets:      assets,
		log:         log.With("handler", "admin"),
	}
}

func (h *AdminHandler) manager(w http.ResponseWriter, r *http.Request) (CollectionManager, bool) {
	name := r.PathValue("collection")
	m, ok := h.collections[name]
	if !ok {
		writeError(w, http.StatusNotFound, "unknown collection")
		return nil, false
	}
	return m, true
}

func (h *AdminHandler) GetCollection(w http.ResponseWriter, r *http.Request) {
	m, ok := h.manager(w, r)
	if !ok {
		return
	}
	if err := m.Reload(r.Context()); err != nil {
		h.log.Error("reload collection", "error", err)
	}
	writeJSON(w, http.StatusOK, m.Snapshot())
}

func (h *AdminHandler) SubmitRecord(w http.ResponseWriter, r *http.Request) {
	m, ok := h.manager(w, r)
	if !ok {
		return
	}

	var fields map[string]any
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := m.Submit(r.Context(), fields); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, m.Snapshot())
}

func (h *AdminHandler) BeginEdit(w http.ResponseWriter, r *http.Request) {
	m, ok := h.manager(w, r)
	if !ok {
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid record id")
		return
	}

	if err := m.BeginEdit(id); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, m.Snapshot())
}

func (h *AdminHandler) CancelEdit(w http.ResponseWriter, r *http.Request) {
	m, ok := h.manager(w, r)
	if !ok {
		return
	}
	m.CancelEdit()
	writeJSON(w, http.StatusOK, m.Snapshot())
}

func (h *AdminHandler) DeleteRecord(w http.ResponseWriter, r *http.Request) {
	m, ok := h.manager(w, r)
	if !ok {
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid record id")
		return
	}

	confirmed := r.URL.Query().Get("confirm") == "true"
	if err := m.Delete(r.Context(), id, confirmed); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, m.Snapshot())
}

type moveRequest struct {
	Index     int `json:"index"`
	Direction int `json:"direction"`
}

func (h *AdminHandler) MoveRecord(w http.ResponseWriter, r *http.Request) {
	m, ok := h.manager(w, r)
	if !ok {
		return
	}

	var req moveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := m.Move(r.Context(), req.Index, req.Direction); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, m.Snapshot())
}

func (h *AdminHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	rec, err := h.profile.Load(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (h *AdminHandler) SaveProfile(w http.ResponseWriter, r *http.Request) {
	var fields map[string]any
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	rec, err := h.profile.Save(r.Context(), fields)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (h *AdminHandler) GetSkills(w http.ResponseWriter, r *http.Request) {
	if _, err := h.skills.Load(r.Context()); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.skills.Catalog())
}

type toggleRequest struct {
	Name string `json:"name"`
}

func (h *AdminHandler) ToggleSkill(w http.ResponseWriter, r *http.Request) {
	var req toggleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.skills.Toggle(r.Context(), req.Name); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.skills.Catalog())
}

type uploadResponse struct {
	URL string `json:"url"`
}

func (h *AdminHandler) UploadAsset(w http.ResponseWriter, r *http.Request) {
	namespace := r.PathValue("namespace")

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	url, err := h.assets.Upload(r.Context(), namespace, header.Filename, file)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, uploadResponse{URL: url})
}
