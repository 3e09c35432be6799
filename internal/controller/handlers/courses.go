package handlers

import (
	"net/http"
)

type assignCourseRequest struct {
	CourseID      int64 `json:"course_id" validate:"required,gt=0"`
	AllowedLevels []int `json:"allowed_levels" validate:"required,min=1,dive,gt=0"`
}

// orgFromPath parses {orgID} and checks the caller's scope over it
func (h *Handlers) orgFromPath(r *http.Request) (int64, error) {
	caller, err := requireCaller(r)
	if err != nil {
		return 0, err
	}

	orgID, err := pathID(r, "orgID")
	if err != nil {
		return 0, err
	}

	if err := requireOrg(caller, orgID); err != nil {
		return 0, err
	}

	return orgID, nil
}

// HandleListCourseAccess serves GET /organizations/{orgID}/courses
func (h *Handlers) HandleListCourseAccess(w http.ResponseWriter, r *http.Request) {
	orgID, err := h.orgFromPath(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	rows, err := h.courseAccess.ListAccess(r.Context(), orgID)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.respond(w, r, http.StatusOK, rows)
}

// HandleAssignCourse serves POST /organizations/{orgID}/courses.
// 201 for a new grant, 200 when the allowed levels of an existing one were replaced.
func (h *Handlers) HandleAssignCourse(w http.ResponseWriter, r *http.Request) {
	orgID, err := h.orgFromPath(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	var req assignCourseRequest
	if err := h.decodeAndValidate(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	access, created, err := h.courseAccess.AssignCourse(r.Context(), orgID, req.CourseID, req.AllowedLevels)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	h.respond(w, r, status, access)
}

// HandleRemoveCourse serves DELETE /organizations/{orgID}/courses/{courseID}
func (h *Handlers) HandleRemoveCourse(w http.ResponseWriter, r *http.Request) {
	orgID, err := h.orgFromPath(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	courseID, err := pathID(r, "courseID")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	if err := h.courseAccess.RemoveCourse(r.Context(), orgID, courseID); err != nil {
		h.fail(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
