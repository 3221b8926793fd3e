package handler

import (
	"log/slog"
	"net/http"

	"cabinets/internal/config"
	"cabinets/internal/domain/models"
	"cabinets/internal/domain/services"
	"cabinets/internal/httputil"
)

// EventHandler serves the event log
type EventHandler struct {
	events services.EventService
	logger *slog.Logger
}

// NewEventHandler creates a new event handler
func NewEventHandler(events services.EventService, logger *slog.Logger) *EventHandler {
	return &EventHandler{
		events: events,
		logger: logger,
	}
}

// ListCabinetEvents lists the events about a cabinet, newest first
// GET /cabinets/{id}/events?limit=N
func (h *EventHandler) ListCabinetEvents(w http.ResponseWriter, r *http.Request) {
	limit, err := httputil.QueryInt(r, "limit", config.DefaultEventLimit)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	events, err := h.events.ListEvents(r.Context(), httputil.GetUserID(r), models.CabinetRef(pathID(r)), limit)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, events)
}
