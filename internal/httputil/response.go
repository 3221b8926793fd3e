package httputil

import (
	"encoding/json"
	"maps"
	"net/http"
)

// RespondJSON writes a JSON response with the given status code.
// The payload is marshaled before any header is written.
func RespondJSON(w http.ResponseWriter, status int, data any) {
	payload, err := json.Marshal(data)
	if err != nil {
		RespondError(w, http.StatusInternalServerError, "failed to encode response")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(payload)
}

// ProblemDetail is an RFC 7807 problem body. Extra members are written
// at the top level next to the standard ones.
type ProblemDetail struct {
	Type   string
	Title  string
	Status int
	Detail string
	Extra  map[string]any
}

func (p ProblemDetail) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(p.Extra)+4)
	maps.Copy(m, p.Extra)
	m["type"] = p.Type
	m["title"] = p.Title
	m["status"] = p.Status
	if p.Detail != "" {
		m["detail"] = p.Detail
	}
	return json.Marshal(m)
}

// RespondError writes a problem response
func RespondError(w http.ResponseWriter, status int, detail string) {
	RespondErrorWithExtras(w, status, detail, nil)
}

// RespondErrorWithExtras writes a problem response with extra members,
// e.g. the permission a 403 was missing
func RespondErrorWithExtras(w http.ResponseWriter, status int, detail string, extras map[string]any) {
	payload, err := json.Marshal(ProblemDetail{
		Type:   problemType(status),
		Title:  http.StatusText(status),
		Status: status,
		Detail: detail,
		Extra:  extras,
	})
	if err != nil {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	w.Write(payload)
}

// FormErrors maps form fields to their error messages
type FormErrors map[string][]string

// RespondFormErrors re-renders a rejected form: 200 with the field errors,
// mirroring a form page shown again with messages next to its inputs
func RespondFormErrors(w http.ResponseWriter, errs FormErrors) {
	RespondJSON(w, http.StatusOK, map[string]any{"errors": errs})
}

// Redirect answers a successful form post with 302 to location
func Redirect(w http.ResponseWriter, r *http.Request, location string) {
	http.Redirect(w, r, location, http.StatusFound)
}

const rfc9110 = "https://www.rfc-editor.org/rfc/rfc9110#section-"

var problemTypes = map[int]string{
	http.StatusBadRequest:            rfc9110 + "15.5.1",
	http.StatusUnauthorized:          rfc9110 + "15.5.2",
	http.StatusForbidden:             rfc9110 + "15.5.4",
	http.StatusNotFound:              rfc9110 + "15.5.5",
	http.StatusMethodNotAllowed:      rfc9110 + "15.5.6",
	http.StatusConflict:              rfc9110 + "15.5.10",
	http.StatusRequestEntityTooLarge: rfc9110 + "15.5.14",
	http.StatusUnsupportedMediaType:  rfc9110 + "15.5.16",
	http.StatusInternalServerError:   rfc9110 + "15.6.1",
}

// problemType returns the type URI for a status, "about:blank" when unknown
func problemType(status int) string {
	if t, ok := problemTypes[status]; ok {
		return t
	}
	return "about:blank"
}
