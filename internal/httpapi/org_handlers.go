package httpapi

import (
	"fmt"
	"net/http"
	"strings"
)

type createOrganizationRequest struct {
	Name string `json:"name"`
}

// handleOrganizations creates tenants. Creation is unauthenticated by
// design: a fresh deployment has no identity that could authorize it, and
// registration needs an organization to point at.
func (a *API) handleOrganizations(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	var req createOrganizationRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	org, err := a.authSvc.CreateOrganization(r.Context(), req.Name)
	if err != nil {
		handleAuthError(w, r, err)
		return
	}
	w.Header().Set("Location", fmt.Sprintf("/v1/organizations/%s", org.ID))
	writeJSON(w, http.StatusCreated, org)
}

func (a *API) handleOrganizationResource(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	id := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/organizations/"), "/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}
	if _, ok := a.ensureRole(w, r, "organizations.get"); !ok {
		return
	}
	org, err := a.authSvc.GetOrganization(r.Context(), id)
	if err != nil {
		handleAuthError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, org)
}
