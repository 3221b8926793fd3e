package handler

import (
	"log/slog"
	"net/http"

	"cabinets/internal/domain/models"
	"cabinets/internal/domain/services"
	"cabinets/internal/httputil"
)

// CabinetHandler handles cabinet HTTP requests
type CabinetHandler struct {
	cabinetService services.CabinetService
	navigation     services.NavigationService
	logger         *slog.Logger
}

// NewCabinetHandler creates a new cabinet handler
func NewCabinetHandler(cabinetService services.CabinetService, navigation services.NavigationService, logger *slog.Logger) *CabinetHandler {
	return &CabinetHandler{
		cabinetService: cabinetService,
		navigation:     navigation,
		logger:         logger,
	}
}

// CabinetDetail is the cabinet page: the node, its children and documents,
// and the actions the caller may take on it
type CabinetDetail struct {
	Cabinet   *models.Cabinet         `json:"cabinet"`
	Children  []models.Cabinet        `json:"children"`
	Documents []models.Document       `json:"documents"`
	Links     []services.ResolvedLink `json:"links"`
}

// ListCabinets lists the cabinets the user may view, ordered by path
// GET /cabinets/
func (h *CabinetHandler) ListCabinets(w http.ResponseWriter, r *http.Request) {
	cabinets, err := h.cabinetService.ListCabinets(r.Context(), httputil.GetUserID(r))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, cabinets)
}

// GetCabinet returns a cabinet with its children, documents and links
// GET /cabinets/{id}
func (h *CabinetHandler) GetCabinet(w http.ResponseWriter, r *http.Request) {
	userID := httputil.GetUserID(r)
	id := pathID(r)

	cabinet, err := h.cabinetService.GetCabinet(r.Context(), userID, id)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	children, err := h.cabinetService.ListChildren(r.Context(), userID, id)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	documents, err := h.cabinetService.ListDocuments(r.Context(), userID, id)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	obj := models.CabinetRef(id)
	links, err := h.navigation.Resolve(r.Context(), userID, "object", string(models.ObjectTypeCabinet), &obj)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	facet, err := h.navigation.Resolve(r.Context(), userID, "list_facet", string(models.ObjectTypeCabinet), &obj)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, CabinetDetail{
		Cabinet:   cabinet,
		Children:  children,
		Documents: documents,
		Links:     append(facet, links...),
	})
}

// CreateCabinet creates a root cabinet
// POST /cabinets/create
// 302 to the new cabinet, 200 with form errors, 403 without cabinet_create
func (h *CabinetHandler) CreateCabinet(w http.ResponseWriter, r *http.Request) {
	form, ok := parseForm(w, r)
	if !ok {
		return
	}

	h.create(w, r, &services.CreateCabinetRequest{
		UserID: httputil.GetUserID(r),
		Label:  form.Get("label"),
	})
}

// CreateChild creates a cabinet under {id}
// POST /cabinets/{id}/children/create
func (h *CabinetHandler) CreateChild(w http.ResponseWriter, r *http.Request) {
	form, ok := parseForm(w, r)
	if !ok {
		return
	}

	parentID := pathID(r)
	h.create(w, r, &services.CreateCabinetRequest{
		UserID:   httputil.GetUserID(r),
		Label:    form.Get("label"),
		ParentID: &parentID,
	})
}

func (h *CabinetHandler) create(w http.ResponseWriter, r *http.Request, req *services.CreateCabinetRequest) {
	cabinet, err := h.cabinetService.CreateCabinet(r.Context(), req)
	if err != nil {
		handleFormError(w, h.logger, err)
		return
	}

	httputil.Redirect(w, r, "/cabinets/"+cabinet.ID)
}

// EditCabinet renames a cabinet
// POST /cabinets/{id}/edit
func (h *CabinetHandler) EditCabinet(w http.ResponseWriter, r *http.Request) {
	form, ok := parseForm(w, r)
	if !ok {
		return
	}

	cabinet, err := h.cabinetService.EditCabinet(r.Context(), &services.EditCabinetRequest{
		UserID: httputil.GetUserID(r),
		ID:     pathID(r),
		Label:  form.Get("label"),
	})
	if err != nil {
		handleFormError(w, h.logger, err)
		return
	}

	httputil.Redirect(w, r, "/cabinets/"+cabinet.ID)
}

// MoveCabinet re-parents a cabinet; an empty parent makes it a root
// POST /cabinets/{id}/move
func (h *CabinetHandler) MoveCabinet(w http.ResponseWriter, r *http.Request) {
	form, ok := parseForm(w, r)
	if !ok {
		return
	}

	parent := form.Get("parent")
	cabinet, err := h.cabinetService.MoveCabinet(r.Context(), &services.MoveCabinetRequest{
		UserID:   httputil.GetUserID(r),
		ID:       pathID(r),
		ParentID: &parent,
	})
	if err != nil {
		handleFormError(w, h.logger, err)
		return
	}

	httputil.Redirect(w, r, "/cabinets/"+cabinet.ID)
}

// DeleteCabinet deletes a cabinet and its subtree
// POST /cabinets/{id}/delete
func (h *CabinetHandler) DeleteCabinet(w http.ResponseWriter, r *http.Request) {
	if err := h.cabinetService.DeleteCabinet(r.Context(), httputil.GetUserID(r), pathID(r)); err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.Redirect(w, r, "/cabinets/")
}
