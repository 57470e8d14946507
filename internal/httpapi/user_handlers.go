package httpapi

import (
	"net/http"
	"strings"

	"taskhub.org/internal/auth"
)

type updateRoleRequest struct {
	Role string `json:"role"`
}

// handleUsers serves the collection: listing the actor's organization.
func (a *API) handleUsers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	actor, ok := a.ensureRole(w, r, "users.list")
	if !ok {
		return
	}
	identities, err := a.authSvc.ListOrganizationIdentities(r.Context(), actor)
	if err != nil {
		handleAuthError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": identities})
}

// handleUserResource serves /v1/users/{id} and /v1/users/{id}/role.
func (a *API) handleUserResource(w http.ResponseWriter, r *http.Request) {
	path := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/users/"), "/")
	if path == "" {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}
	parts := strings.Split(path, "/")
	switch {
	case len(parts) == 1:
		a.getUser(w, r, parts[0])
	case len(parts) == 2 && parts[1] == "role":
		a.updateUserRole(w, r, parts[0])
	default:
		writeError(w, r, http.StatusNotFound, "resource not found")
	}
}

func (a *API) getUser(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	if _, ok := a.ensureRole(w, r, "users.get"); !ok {
		return
	}
	identity, err := a.authSvc.GetIdentity(r.Context(), id)
	if err != nil {
		handleAuthError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, identity)
}

func (a *API) updateUserRole(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodPatch {
		methodNotAllowed(w, r, http.MethodPatch)
		return
	}
	actor, ok := a.ensureRole(w, r, "users.update_role")
	if !ok {
		return
	}
	var req updateRoleRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	role, known := auth.ParseRole(req.Role)
	if !known {
		writeError(w, r, http.StatusBadRequest, "unknown role")
		return
	}
	identity, err := a.authSvc.UpdateRole(r.Context(), actor, id, role)
	if err != nil {
		handleAuthError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, identity)
}
