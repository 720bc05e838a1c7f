package api

import (
	"context"
	"net/http"

	"github.com/okian/innings/internal/domain/model"
)

// ModelLister describes the loaded models.
type ModelLister interface {
	Models(ctx context.Context) ([]model.Info, error)
	Ready() bool
}

// ModelsHandler handles model metadata requests.
type ModelsHandler struct {
	deps ModelLister
}

// NewModelsHandler creates a new models handler.
func NewModelsHandler(deps ModelLister) *ModelsHandler {
	return &ModelsHandler{deps: deps}
}

type modelsResponse struct {
	Models []model.Info `json:"models"`
}

// HandleListModels handles GET /models.
func (h *ModelsHandler) HandleListModels(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_models"
	if !h.deps.Ready() {
		writeError(w, http.StatusServiceUnavailable, "not_ready", NewKind(op, ErrNotReady))
		return
	}
	infos, err := h.deps.Models(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", NewKind(op, ErrInternal))
		return
	}
	writeJSON(w, http.StatusOK, modelsResponse{Models: infos})
}
