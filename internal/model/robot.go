package model

import "time"

// Robot belongs to exactly one organization.
// RefreshRequired is advisory only and never blocks access.
type Robot struct {
	ID              int64      `json:"id"`
	OrgID           int64      `json:"org_id"`
	RobotCode       string     `json:"robot_code"`
	IsActive        bool       `json:"is_active"`
	RefreshRequired bool       `json:"refresh_required"`
	LastSyncAt      *time.Time `json:"last_sync_at"`
	CreatedAt       time.Time  `json:"created_at"`
}

// RobotOverview is a robot row enriched with its current license status
type RobotOverview struct {
	RobotID         int64         `json:"robot_id"`
	RobotCode       string        `json:"robot_code"`
	OrgID           int64         `json:"org_id"`
	LicenseStatus   LicenseStatus `json:"license_status"`
	DaysRemaining   *int          `json:"days_remaining"`
	RefreshRequired bool          `json:"refresh_required"`
	LastSyncAt      *time.Time    `json:"last_sync_at"`
}
