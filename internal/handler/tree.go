package handler

import (
	"log/slog"
	"net/http"

	"cabinets/internal/domain/services"
	"cabinets/internal/httputil"
)

// TreeHandler serves the nested cabinet forest
type TreeHandler struct {
	cabinetService services.CabinetService
	logger         *slog.Logger
}

// NewTreeHandler creates a new tree handler
func NewTreeHandler(cabinetService services.CabinetService, logger *slog.Logger) *TreeHandler {
	return &TreeHandler{
		cabinetService: cabinetService,
		logger:         logger,
	}
}

// GetTree returns the cabinets the user may view, nested under their parents
// GET /cabinets/tree
func (h *TreeHandler) GetTree(w http.ResponseWriter, r *http.Request) {
	tree, err := h.cabinetService.Tree(r.Context(), httputil.GetUserID(r))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, tree)
}
