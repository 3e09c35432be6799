package model

type SyncStatus string

const (
	SyncStatusOK     SyncStatus = "OK"
	SyncStatusLocked SyncStatus = "LOCKED"
)

type LockReason string

const (
	LockReasonExpired       LockReason = "EXPIRED"
	LockReasonRevoked       LockReason = "REVOKED"
	LockReasonAccessRemoved LockReason = "ACCESS_REMOVED"
)

type SyncNotification struct {
	Type    NotificationType `json:"type"`
	Message string           `json:"message"`
}

// SyncResponse is what a robot receives on sync or refresh
type SyncResponse struct {
	Status          SyncStatus         `json:"status"`
	LockReason      *LockReason        `json:"lock_reason,omitempty"`
	LicenseStatus   LicenseStatus      `json:"license_status"`
	DaysRemaining   *int               `json:"days_remaining"`
	Notifications   []SyncNotification `json:"notifications"`
	RefreshRequired bool               `json:"refresh_required"`
	Courses         []CatalogCourse    `json:"courses"`
	PublicCourses   []CatalogCourse    `json:"public_courses"`
}

// IsLocked checks if the robot must stop serving content
func (r *SyncResponse) IsLocked() bool {
	return r.Status == SyncStatusLocked
}
