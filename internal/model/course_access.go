package model

import "time"

// OrganizationCourseAccess grants an organization a course restricted to level sequence numbers.
// One row per (OrgID, CourseID); re-granting replaces AllowedLevels.
type OrganizationCourseAccess struct {
	OrgID         int64     `json:"org_id"`
	CourseID      int64     `json:"course_id"`
	AllowedLevels []int     `json:"allowed_levels"`
	AssignedAt    time.Time `json:"assigned_at"`

	// Not stored, filled by list queries
	Course *Course `json:"course,omitempty"`
}

// AllowsLevel checks membership of a level sequence number
func (a *OrganizationCourseAccess) AllowsLevel(sequenceNo int) bool {
	for _, lvl := range a.AllowedLevels {
		if lvl == sequenceNo {
			return true
		}
	}
	return false
}
