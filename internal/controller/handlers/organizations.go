package handlers

import (
	"net/http"
)

// HandleListOrganizations serves GET /organizations
func (h *Handlers) HandleListOrganizations(w http.ResponseWriter, r *http.Request) {
	caller, err := requireCaller(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	orgs, err := h.orgs.ListOrganizations(r.Context(), caller)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.respond(w, r, http.StatusOK, orgs)
}

// HandleGetOrganization serves GET /organizations/{orgID}
func (h *Handlers) HandleGetOrganization(w http.ResponseWriter, r *http.Request) {
	orgID, err := h.orgFromPath(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	org, err := h.orgs.GetOrganization(r.Context(), orgID)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.respond(w, r, http.StatusOK, org)
}
