package model

import "time"

// LicenseStatus is the derived state of a license at a point in time
type LicenseStatus string

const (
	LicenseStatusActive       LicenseStatus = "ACTIVE"
	LicenseStatusExpiringSoon LicenseStatus = "EXPIRING_SOON"
	LicenseStatusExpired      LicenseStatus = "EXPIRED"
	LicenseStatusRevoked      LicenseStatus = "REVOKED"
)

// Locks reports whether a robot holding a license in this status must be locked
func (s LicenseStatus) Locks() bool {
	return s == LicenseStatusExpired || s == LicenseStatusRevoked
}

// License grants one robot of an organization the right to operate over [ValidFrom, ValidUntil)
type License struct {
	ID         int64     `json:"id"`
	OrgID      int64     `json:"org_id"`
	RobotID    int64     `json:"robot_id"`
	LicenseKey string    `json:"license_key"`
	ValidFrom  time.Time `json:"valid_from"`
	ValidUntil time.Time `json:"valid_until"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
}

// InWindow checks valid_from <= at < valid_until
func (l *License) InWindow(at time.Time) bool {
	return !at.Before(l.ValidFrom) && at.Before(l.ValidUntil)
}
