package handlers

import (
	"net/http"

	"github.com/akshayds23/Whizrobo/internal/model"
)

type lockRobotResponse struct {
	RobotID          int64  `json:"robot_id"`
	RevokedLicenseID *int64 `json:"revoked_license_id"`
}

type refreshRequestedResponse struct {
	RobotID         int64 `json:"robot_id"`
	RefreshRequired bool  `json:"refresh_required"`
}

// HandleListRobots serves GET /robots
func (h *Handlers) HandleListRobots(w http.ResponseWriter, r *http.Request) {
	caller, err := requireCaller(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	robots, err := h.robots.ListRobots(r.Context(), caller)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.respond(w, r, http.StatusOK, robots)
}

// loadScopedRobot resolves the {id} robot and checks the caller's organization scope
func (h *Handlers) loadScopedRobot(r *http.Request, caller *model.Caller) (*model.Robot, error) {
	id, err := pathID(r, "id")
	if err != nil {
		return nil, err
	}

	robot, err := h.robots.GetRobot(r.Context(), id)
	if err != nil {
		return nil, err
	}

	if err := requireOrg(caller, robot.OrgID); err != nil {
		return nil, err
	}

	return robot, nil
}

// HandleRobotLicenseStatus serves GET /robots/{id}/license-status.
// A robot that was never licensed reports REVOKED.
func (h *Handlers) HandleRobotLicenseStatus(w http.ResponseWriter, r *http.Request) {
	caller, err := requireCaller(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	robot, err := h.loadScopedRobot(r, caller)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	result, err := h.licenseStatus.ResolveStatusForRobot(r.Context(), robot.ID)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	if result == nil {
		result = &model.LicenseStatusResult{
			OrgID:         robot.OrgID,
			RobotID:       robot.ID,
			Status:        model.LicenseStatusRevoked,
			Notifications: []*model.LicenseNotification{},
		}
	}

	h.respond(w, r, http.StatusOK, result)
}

// HandleRequestRefresh serves POST /robots/{id}/refresh
func (h *Handlers) HandleRequestRefresh(w http.ResponseWriter, r *http.Request) {
	caller, err := requireCaller(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	robot, err := h.loadScopedRobot(r, caller)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	if err := h.robots.RequestRefresh(r.Context(), robot.ID); err != nil {
		h.fail(w, r, err)
		return
	}

	h.respond(w, r, http.StatusAccepted, refreshRequestedResponse{RobotID: robot.ID, RefreshRequired: true})
}

// HandleLockRobot serves POST /robots/{id}/lock
func (h *Handlers) HandleLockRobot(w http.ResponseWriter, r *http.Request) {
	caller, err := requireCaller(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	robot, err := h.loadScopedRobot(r, caller)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	revokedID, err := h.robots.LockRobot(r.Context(), robot.ID)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.respond(w, r, http.StatusOK, lockRobotResponse{RobotID: robot.ID, RevokedLicenseID: revokedID})
}
