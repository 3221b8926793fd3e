package handler

import (
	"context"
	"log/slog"
	"net/http"

	"cabinets/internal/domain/services"
	"cabinets/internal/httputil"
)

// DocumentCabinetHandler files documents into cabinets
type DocumentCabinetHandler struct {
	memberships services.MembershipService
	logger      *slog.Logger
}

// NewDocumentCabinetHandler creates a new document/cabinet handler
func NewDocumentCabinetHandler(memberships services.MembershipService, logger *slog.Logger) *DocumentCabinetHandler {
	return &DocumentCabinetHandler{
		memberships: memberships,
		logger:      logger,
	}
}

// ListCabinets lists the cabinets a document is filed in
// GET /documents/{id}/cabinets/
func (h *DocumentCabinetHandler) ListCabinets(w http.ResponseWriter, r *http.Request) {
	cabinets, err := h.memberships.ListDocumentCabinets(r.Context(), httputil.GetUserID(r), pathID(r))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, cabinets)
}

// AddDocument files one document into the posted cabinets
// POST /documents/{id}/cabinets/add
func (h *DocumentCabinetHandler) AddDocument(w http.ResponseWriter, r *http.Request) {
	h.single(w, r, h.memberships.AddDocuments)
}

// RemoveDocument unfiles one document from the posted cabinets
// POST /documents/{id}/cabinets/remove
func (h *DocumentCabinetHandler) RemoveDocument(w http.ResponseWriter, r *http.Request) {
	h.single(w, r, h.memberships.RemoveDocuments)
}

// AddDocuments files every posted document (id_list) into the posted cabinets
// POST /documents/cabinets/add-multiple
func (h *DocumentCabinetHandler) AddDocuments(w http.ResponseWriter, r *http.Request) {
	h.multiple(w, r, h.memberships.AddDocuments)
}

// RemoveDocuments unfiles every posted document (id_list) from the posted cabinets
// POST /documents/cabinets/remove-multiple
func (h *DocumentCabinetHandler) RemoveDocuments(w http.ResponseWriter, r *http.Request) {
	h.multiple(w, r, h.memberships.RemoveDocuments)
}

// SearchDocuments finds documents by cabinet label
// GET /documents/search?cabinet=<query>
func (h *DocumentCabinetHandler) SearchDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := h.memberships.SearchDocuments(r.Context(), httputil.GetUserID(r), r.URL.Query().Get("cabinet"))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, docs)
}

type membershipFn func(ctx context.Context, req *services.MembershipRequest) error

func (h *DocumentCabinetHandler) single(w http.ResponseWriter, r *http.Request, apply membershipFn) {
	form, ok := parseForm(w, r)
	if !ok {
		return
	}

	documentID := pathID(r)
	err := apply(r.Context(), &services.MembershipRequest{
		UserID:        httputil.GetUserID(r),
		DocumentIDs:   []string{documentID},
		CabinetIDs:    form["cabinets"],
		DocumentField: "document",
	})
	if err != nil {
		handleFormError(w, h.logger, err)
		return
	}

	httputil.Redirect(w, r, "/documents/"+documentID+"/cabinets/")
}

func (h *DocumentCabinetHandler) multiple(w http.ResponseWriter, r *http.Request, apply membershipFn) {
	form, ok := parseForm(w, r)
	if !ok {
		return
	}

	err := apply(r.Context(), &services.MembershipRequest{
		UserID:        httputil.GetUserID(r),
		DocumentIDs:   form["id_list"],
		CabinetIDs:    form["cabinets"],
		DocumentField: "id_list",
		Selection:     true,
	})
	if err != nil {
		handleFormError(w, h.logger, err)
		return
	}

	httputil.Redirect(w, r, "/cabinets/")
}
