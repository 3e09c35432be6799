package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/akshayds23/Whizrobo/internal/model"
)

// Clock returns the current time
type Clock func() time.Time

func clockOrDefault(c Clock) Clock {
	if c == nil {
		return time.Now
	}
	return c
}

const msPerDay = 24 * 60 * 60 * 1000

// MostRecentLicenseForRobot selects the robot's authoritative license: the one with the
// greatest valid_until, whether or not it was revoked. Status checks and usage ingestion
// must both go through here.
func MostRecentLicenseForRobot(ctx context.Context, licenses LicenseStore, robotID int64) (*model.License, error) {
	license, err := licenses.GetMostRecentForRobot(ctx, robotID)
	if err != nil {
		return nil, fmt.Errorf("get most recent license: %w", err)
	}
	return license, nil
}

// daysRemaining is ceil((valid_until - now) / 1 day) at millisecond resolution, may be negative
func daysRemaining(validUntil, now time.Time) int {
	ms := validUntil.Sub(now).Milliseconds()
	return int(math.Ceil(float64(ms) / msPerDay))
}

// deriveStatus applies the status rules without side effects.
// Revoked licenses have no days remaining.
func deriveStatus(license *model.License, now time.Time) (model.LicenseStatus, *int) {
	if !license.IsActive {
		return model.LicenseStatusRevoked, nil
	}

	days := daysRemaining(license.ValidUntil, now)

	switch {
	case !license.InWindow(now):
		return model.LicenseStatusExpired, &days
	case days <= 30:
		return model.LicenseStatusExpiringSoon, &days
	default:
		return model.LicenseStatusActive, &days
	}
}

// thresholdNotification picks the notification a status check must ensure, if any.
// The 7-day and 30-day warnings are mutually exclusive.
func thresholdNotification(status model.LicenseStatus, days *int) (model.NotificationType, bool) {
	switch status {
	case model.LicenseStatusExpired:
		return model.NotificationExpired, true
	case model.LicenseStatusExpiringSoon:
		if days == nil {
			return "", false
		}
		if *days <= 7 {
			return model.NotificationWarning7Days, true
		}
		if *days <= 30 {
			return model.NotificationWarning30Days, true
		}
	}
	return "", false
}
