package service

import (
	"context"
	"fmt"

	"github.com/akshayds23/Whizrobo/internal/metrics"
	"github.com/akshayds23/Whizrobo/internal/model"
	"go.uber.org/zap"
)

// LicenseStatusService derives license status and issues threshold notifications
type LicenseStatusService struct {
	licenseRepo      LicenseStore
	notificationRepo NotificationStore
	clock            Clock
	metrics          *metrics.Metrics
	logger           *zap.Logger
}

func NewLicenseStatusService(
	licenseRepo LicenseStore,
	notificationRepo NotificationStore,
	clock Clock,
	m *metrics.Metrics,
	logger *zap.Logger,
) *LicenseStatusService {
	return &LicenseStatusService{
		licenseRepo:      licenseRepo,
		notificationRepo: notificationRepo,
		clock:            clockOrDefault(clock),
		metrics:          m,
		logger:           logger,
	}
}

// ResolveStatus loads a license by id and resolves its status
func (s *LicenseStatusService) ResolveStatus(ctx context.Context, licenseID int64) (*model.LicenseStatusResult, error) {
	license, err := s.licenseRepo.GetByID(ctx, licenseID)
	if err != nil {
		return nil, fmt.Errorf("get license: %w", err)
	}

	if license == nil {
		return nil, notFound(model.EntityLicense, licenseID)
	}

	return s.ResolveStatusForLicense(ctx, license)
}

// ResolveStatusForRobot resolves the robot's most recent license.
// Returns nil, nil when the robot was never licensed.
func (s *LicenseStatusService) ResolveStatusForRobot(ctx context.Context, robotID int64) (*model.LicenseStatusResult, error) {
	license, err := MostRecentLicenseForRobot(ctx, s.licenseRepo, robotID)
	if err != nil {
		return nil, err
	}

	if license == nil {
		return nil, nil
	}

	return s.ResolveStatusForLicense(ctx, license)
}

// ResolveStatusForLicense derives the status of an already loaded license,
// ensures the matching notification exists and returns the notification history.
func (s *LicenseStatusService) ResolveStatusForLicense(ctx context.Context, license *model.License) (*model.LicenseStatusResult, error) {
	status, days := deriveStatus(license, s.clock())

	if license.IsActive {
		if notificationType, ok := thresholdNotification(status, days); ok {
			if err := s.ensureNotification(ctx, license, notificationType); err != nil {
				return nil, err
			}
		}
	}

	notifications, err := s.notificationRepo.ListByLicense(ctx, license.ID)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}

	s.metrics.RecordLicenseStatus(string(status))

	return &model.LicenseStatusResult{
		LicenseID:     license.ID,
		OrgID:         license.OrgID,
		RobotID:       license.RobotID,
		Status:        status,
		DaysRemaining: days,
		Notifications: notifications,
	}, nil
}

// ensureNotification is check-then-create; the unique (license_id, type) index
// turns a lost race into a no-op instead of a duplicate.
func (s *LicenseStatusService) ensureNotification(ctx context.Context, license *model.License, notificationType model.NotificationType) error {
	exists, err := s.notificationRepo.ExistsForLicense(ctx, license.ID, notificationType)
	if err != nil {
		return fmt.Errorf("check notification: %w", err)
	}

	if exists {
		return nil
	}

	notification := &model.LicenseNotification{
		LicenseID: license.ID,
		OrgID:     license.OrgID,
		RobotID:   license.RobotID,
		Type:      notificationType,
		Message:   notificationType.Message(),
	}

	created, err := s.notificationRepo.CreateOnce(ctx, notification)
	if err != nil {
		return fmt.Errorf("create notification: %w", err)
	}

	if !created {
		s.logger.Debug("Notification already recorded by concurrent check",
			zap.Int64("license_id", license.ID),
			zap.String("type", string(notificationType)),
		)
		return nil
	}

	s.metrics.RecordNotification(string(notificationType))

	s.logger.Info("License notification created",
		zap.Int64("license_id", license.ID),
		zap.Int64("robot_id", license.RobotID),
		zap.Int64("org_id", license.OrgID),
		zap.String("type", string(notificationType)),
	)

	return nil
}

// SweepActiveLicenses resolves every active license so threshold notifications
// appear even for robots that stopped polling. Returns the number of licenses checked.
func (s *LicenseStatusService) SweepActiveLicenses(ctx context.Context) (int, error) {
	licenses, err := s.licenseRepo.ListActive(ctx)
	if err != nil {
		return 0, fmt.Errorf("list active licenses: %w", err)
	}

	checked := 0
	for _, license := range licenses {
		if err := ctx.Err(); err != nil {
			return checked, err
		}

		if _, err := s.ResolveStatusForLicense(ctx, license); err != nil {
			return checked, fmt.Errorf("resolve license %d: %w", license.ID, err)
		}
		checked++
	}

	return checked, nil
}
