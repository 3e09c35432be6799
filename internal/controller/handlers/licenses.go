package handlers

import (
	"net/http"
	"time"

	"github.com/akshayds23/Whizrobo/internal/model"
	"github.com/akshayds23/Whizrobo/internal/service"
)

type issueLicenseRequest struct {
	OrgID      int64     `json:"org_id" validate:"required,gt=0"`
	RobotID    int64     `json:"robot_id" validate:"required,gt=0"`
	ValidFrom  time.Time `json:"valid_from" validate:"required"`
	ValidUntil time.Time `json:"valid_until" validate:"required,gtfield=ValidFrom"`
}

type revokeLicenseResponse struct {
	LicenseID int64 `json:"license_id"`
	IsActive  bool  `json:"is_active"`
}

// HandleIssueLicense serves POST /licenses
func (h *Handlers) HandleIssueLicense(w http.ResponseWriter, r *http.Request) {
	caller, err := requireCaller(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	var req issueLicenseRequest
	if err := h.decodeAndValidate(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	if err := requireOrg(caller, req.OrgID); err != nil {
		h.fail(w, r, err)
		return
	}

	license, err := h.licenses.IssueLicense(r.Context(), service.IssueLicenseInput{
		OrgID:      req.OrgID,
		RobotID:    req.RobotID,
		ValidFrom:  req.ValidFrom,
		ValidUntil: req.ValidUntil,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.respond(w, r, http.StatusCreated, license)
}

// loadScopedLicense resolves the {id} license and checks the caller's organization scope
func (h *Handlers) loadScopedLicense(r *http.Request, caller *model.Caller) (*model.License, error) {
	id, err := pathID(r, "id")
	if err != nil {
		return nil, err
	}

	license, err := h.licenses.GetLicense(r.Context(), id)
	if err != nil {
		return nil, err
	}

	if err := requireOrg(caller, license.OrgID); err != nil {
		return nil, err
	}

	return license, nil
}

// HandleRevokeLicense serves POST /licenses/{id}/revoke
func (h *Handlers) HandleRevokeLicense(w http.ResponseWriter, r *http.Request) {
	caller, err := requireCaller(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	license, err := h.loadScopedLicense(r, caller)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	revoked, err := h.licenses.RevokeLicense(r.Context(), license.ID)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.respond(w, r, http.StatusOK, revokeLicenseResponse{LicenseID: revoked.ID, IsActive: revoked.IsActive})
}

// HandleLicenseStatus serves GET /licenses/{id}/status
func (h *Handlers) HandleLicenseStatus(w http.ResponseWriter, r *http.Request) {
	caller, err := requireCaller(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	license, err := h.loadScopedLicense(r, caller)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	result, err := h.licenseStatus.ResolveStatusForLicense(r.Context(), license)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.respond(w, r, http.StatusOK, result)
}

// HandleListNotifications serves GET /licenses/{id}/notifications
func (h *Handlers) HandleListNotifications(w http.ResponseWriter, r *http.Request) {
	caller, err := requireCaller(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	license, err := h.loadScopedLicense(r, caller)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	notifications, err := h.licenses.ListNotifications(r.Context(), license.ID)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.respond(w, r, http.StatusOK, notifications)
}

// HandleAcknowledgeNotification serves POST /licenses/{id}/notifications/{notificationID}/ack
func (h *Handlers) HandleAcknowledgeNotification(w http.ResponseWriter, r *http.Request) {
	caller, err := requireCaller(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	license, err := h.loadScopedLicense(r, caller)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	notificationID, err := pathID(r, "notificationID")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	if err := h.licenses.AcknowledgeNotification(r.Context(), license.ID, notificationID); err != nil {
		h.fail(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
