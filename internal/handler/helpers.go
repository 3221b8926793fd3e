package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"cabinets/internal/domain"
	"cabinets/internal/httputil"
)

// msgDuplicateLabel is shown next to the label of a colliding cabinet
const msgDuplicateLabel = "Cabinet with this Parent and Label already exists."

// handleError converts domain errors to HTTP responses
func handleError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var forbidden *domain.ForbiddenError

	switch {
	case errors.Is(err, domain.ErrValidation):
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		httputil.RespondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		httputil.RespondError(w, http.StatusUnauthorized, err.Error())
	case errors.As(err, &forbidden):
		httputil.RespondErrorWithExtras(w, http.StatusForbidden, err.Error(), map[string]any{
			"permission": forbidden.Permission,
		})
	case errors.Is(err, domain.ErrForbidden):
		httputil.RespondError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, domain.ErrConflict):
		httputil.RespondError(w, http.StatusConflict, err.Error())
	default:
		logger.Error("request failed", "error", err)
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}

// handleFormError re-renders the form for input the caller can correct
// (validation failures and label collisions) and falls back to handleError
func handleFormError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var validationErr *domain.ValidationError
	var duplicate *domain.DuplicateLabelError

	switch {
	case errors.As(err, &duplicate):
		httputil.RespondFormErrors(w, httputil.FormErrors{"label": {msgDuplicateLabel}})
	case errors.As(err, &validationErr):
		field := validationErr.Field
		if field == "" {
			field = "__all__"
		}
		httputil.RespondFormErrors(w, httputil.FormErrors{field: {validationErr.Message}})
	default:
		handleError(w, logger, err)
	}
}

// parseForm reads the request body, answering 400 itself on failure
func parseForm(w http.ResponseWriter, r *http.Request) (url.Values, bool) {
	form, err := httputil.ParseForm(w, r)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return nil, false
	}
	return form, true
}

func pathID(r *http.Request) string {
	return chi.URLParam(r, "id")
}
