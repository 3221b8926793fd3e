package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"cabinets/internal/domain/models"
	"cabinets/internal/domain/services"
	"cabinets/internal/httputil"
)

// MenuHandler resolves navigation menus for the caller
type MenuHandler struct {
	navigation services.NavigationService
	logger     *slog.Logger
}

// NewMenuHandler creates a new menu handler
func NewMenuHandler(navigation services.NavigationService, logger *slog.Logger) *MenuHandler {
	return &MenuHandler{
		navigation: navigation,
		logger:     logger,
	}
}

// ResolveMenu returns the links of a menu the caller may follow
// GET /menus/{name}?source=cabinet&object_type=cabinet&object_id=<id>
func (h *MenuHandler) ResolveMenu(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	var obj *models.ObjectRef
	if id := query.Get("object_id"); id != "" {
		obj = &models.ObjectRef{Type: models.ObjectType(query.Get("object_type")), ID: id}
	}

	links, err := h.navigation.Resolve(r.Context(), httputil.GetUserID(r), chi.URLParam(r, "name"), query.Get("source"), obj)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, links)
}
