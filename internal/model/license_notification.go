package model

import "time"

type NotificationType string

const (
	NotificationExpired       NotificationType = "EXPIRED"
	NotificationWarning7Days  NotificationType = "WARNING_7_DAYS"
	NotificationWarning30Days NotificationType = "WARNING_30_DAYS"
)

// Message returns the text stored with a notification of this type
func (t NotificationType) Message() string {
	switch t {
	case NotificationExpired:
		return "License has expired"
	case NotificationWarning7Days:
		return "License expires in 7 days"
	case NotificationWarning30Days:
		return "License expires in 30 days"
	default:
		return ""
	}
}

// LicenseNotification records that a threshold was surfaced for a license.
// At most one row exists per (LicenseID, Type).
type LicenseNotification struct {
	ID           int64            `json:"id"`
	LicenseID    int64            `json:"license_id"`
	OrgID        int64            `json:"org_id"`
	RobotID      int64            `json:"robot_id"`
	Type         NotificationType `json:"type"`
	Message      string           `json:"message"`
	CreatedAt    time.Time        `json:"created_at"`
	Acknowledged bool             `json:"acknowledged"`
}

// LicenseStatusResult is the outcome of a status check
type LicenseStatusResult struct {
	LicenseID     int64                  `json:"license_id"`
	OrgID         int64                  `json:"org_id"`
	RobotID       int64                  `json:"robot_id"`
	Status        LicenseStatus          `json:"status"`
	DaysRemaining *int                   `json:"days_remaining"`
	Notifications []*LicenseNotification `json:"notifications"`
}
