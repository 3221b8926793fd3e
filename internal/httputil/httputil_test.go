package httputil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cabinets/internal/domain/models"
)

func TestParseForm(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		body        string
		want        map[string][]string
		wantErr     bool
	}{
		{
			name:        "urlencoded with repeated keys",
			contentType: "application/x-www-form-urlencoded",
			body:        "cabinets=a&cabinets=b&label=Invoices",
			want:        map[string][]string{"cabinets": {"a", "b"}, "label": {"Invoices"}},
		},
		{
			name:        "json lists and scalars",
			contentType: "application/json; charset=utf-8",
			body:        `{"cabinets":["a","b"],"label":"Invoices","parent":null,"count":3}`,
			want:        map[string][]string{"cabinets": {"a", "b"}, "label": {"Invoices"}, "count": {"3"}},
		},
		{
			name:        "empty json body",
			contentType: "application/json",
			body:        "",
			want:        map[string][]string{},
		},
		{
			name:        "nested json object",
			contentType: "application/json",
			body:        `{"label":{"x":1}}`,
			wantErr:     true,
		},
		{
			name:        "malformed json",
			contentType: "application/json",
			body:        `{"label":`,
			wantErr:     true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			r.Header.Set("Content-Type", tt.contentType)

			values, err := ParseForm(httptest.NewRecorder(), r)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, map[string][]string(values))
		})
	}
}

func TestRespondError(t *testing.T) {
	w := httptest.NewRecorder()
	RespondErrorWithExtras(w, http.StatusForbidden, "permission cabinets.cabinet_create required", map[string]any{
		"permission": "cabinets.cabinet_create",
	})

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "application/problem+json", w.Header().Get("Content-Type"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Forbidden", body["title"])
	assert.Equal(t, float64(http.StatusForbidden), body["status"])
	assert.Equal(t, "cabinets.cabinet_create", body["permission"])
	assert.Equal(t, problemType(http.StatusForbidden), body["type"])
}

func TestProblemExtrasCannotOverrideStandardMembers(t *testing.T) {
	w := httptest.NewRecorder()
	RespondErrorWithExtras(w, http.StatusTeapot, "", map[string]any{"status": 1, "hint": "x"})

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, float64(http.StatusTeapot), body["status"])
	assert.Equal(t, "about:blank", body["type"])
	assert.Equal(t, "x", body["hint"])
	assert.NotContains(t, body, "detail")
}

func TestRespondFormErrors(t *testing.T) {
	w := httptest.NewRecorder()
	RespondFormErrors(w, FormErrors{"label": {"This field is required."}})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"errors":{"label":["This field is required."]}}`, w.Body.String())
}

func TestClaimsContext(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, GetUserID(r))

	claims := &models.UserClaims{}
	claims.Subject = "alice"
	r = WithClaims(r, claims)
	assert.Equal(t, "alice", GetUserID(r))
}

func TestQueryInt(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/?limit=5&bad=x", nil)

	n, err := QueryInt(r, "limit", 50)
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	n, err = QueryInt(r, "missing", 50)
	require.NoError(t, err)
	assert.Equal(t, 50, n)

	_, err = QueryInt(r, "bad", 50)
	assert.Error(t, err)
}
