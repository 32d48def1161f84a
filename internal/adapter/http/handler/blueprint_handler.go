package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/iho/billcycle/internal/adapter/http/dto"
	"github.com/iho/billcycle/internal/domain"
	"github.com/iho/billcycle/internal/usecase"
)

// BlueprintService defines the behavior needed by BlueprintHandler.
type BlueprintService interface {
	CreateBlueprint(ctx context.Context, input usecase.CreateBlueprintInput) (*domain.Blueprint, error)
	GetBlueprint(ctx context.Context, id string) (*domain.Blueprint, error)
	ListBlueprints(ctx context.Context, limit, offset int) ([]*domain.Blueprint, error)
	DeleteBlueprint(ctx context.Context, id string, cascade bool) error
}

// BlueprintHandler handles recurring blueprint requests.
type BlueprintHandler struct {
	blueprintUC BlueprintService
}

// NewBlueprintHandler creates a new BlueprintHandler.
func NewBlueprintHandler(blueprintUC BlueprintService) *BlueprintHandler {
	return &BlueprintHandler{blueprintUC: blueprintUC}
}

// Create creates a recurring blueprint.
func (h *BlueprintHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateBlueprintRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input, err := req.ToUseCaseInput()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	blueprint, err := h.blueprintUC.CreateBlueprint(r.Context(), input)
	if err != nil {
		writeDomainError(w, "failed to create recurring transaction", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.BlueprintFromDomain(blueprint))
}

// Get retrieves a blueprint by ID.
func (h *BlueprintHandler) Get(w http.ResponseWriter, r *http.Request) {
	blueprint, err := h.blueprintUC.GetBlueprint(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "failed to get recurring transaction", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.BlueprintFromDomain(blueprint))
}

// List lists blueprints.
func (h *BlueprintHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := parseIntQuery(r, "limit", 20)
	offset := parseIntQuery(r, "offset", 0)

	blueprints, err := h.blueprintUC.ListBlueprints(r.Context(), limit, offset)
	if err != nil {
		writeDomainError(w, "failed to list recurring transactions", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ListBlueprintsResponse{
		Blueprints: dto.BlueprintsFromDomain(blueprints),
		Total:      int64(len(blueprints)),
	})
}

// Delete removes a blueprint. With ?cascade=true its postings go too.
func (h *BlueprintHandler) Delete(w http.ResponseWriter, r *http.Request) {
	cascade := false
	if v := r.URL.Query().Get("cascade"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid cascade flag", err.Error())
			return
		}
		cascade = parsed
	}

	if err := h.blueprintUC.DeleteBlueprint(r.Context(), chi.URLParam(r, "id"), cascade); err != nil {
		writeDomainError(w, "failed to delete recurring transaction", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
