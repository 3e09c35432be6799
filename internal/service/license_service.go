package service

import (
	"context"
	"fmt"
	"time"

	"github.com/akshayds23/Whizrobo/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// IssueLicenseInput describes a license to issue
type IssueLicenseInput struct {
	OrgID      int64
	RobotID    int64
	ValidFrom  time.Time
	ValidUntil time.Time
}

// LicenseService issues and revokes licenses
type LicenseService struct {
	licenseRepo      LicenseStore
	notificationRepo NotificationStore
	orgRepo          OrganizationStore
	robotRepo        RobotStore
	logger           *zap.Logger
}

func NewLicenseService(
	licenseRepo LicenseStore,
	notificationRepo NotificationStore,
	orgRepo OrganizationStore,
	robotRepo RobotStore,
	logger *zap.Logger,
) *LicenseService {
	return &LicenseService{
		licenseRepo:      licenseRepo,
		notificationRepo: notificationRepo,
		orgRepo:          orgRepo,
		robotRepo:        robotRepo,
		logger:           logger,
	}
}

// IssueLicense creates an active license with a fresh random key
func (s *LicenseService) IssueLicense(ctx context.Context, input IssueLicenseInput) (*model.License, error) {
	if !input.ValidUntil.After(input.ValidFrom) {
		return nil, invalidInput("valid_until must be after valid_from")
	}

	org, err := s.orgRepo.GetByID(ctx, input.OrgID)
	if err != nil {
		return nil, fmt.Errorf("get organization: %w", err)
	}

	if org == nil {
		return nil, notFound(model.EntityOrganization, input.OrgID)
	}

	robot, err := s.robotRepo.GetByID(ctx, input.RobotID)
	if err != nil {
		return nil, fmt.Errorf("get robot: %w", err)
	}

	// a robot of another organization is reported as missing
	if robot == nil || robot.OrgID != input.OrgID {
		return nil, notFound(model.EntityRobot, input.RobotID)
	}

	license := &model.License{
		OrgID:      input.OrgID,
		RobotID:    input.RobotID,
		LicenseKey: uuid.NewString(),
		ValidFrom:  input.ValidFrom,
		ValidUntil: input.ValidUntil,
		IsActive:   true,
	}

	if err := s.licenseRepo.Create(ctx, license); err != nil {
		return nil, fmt.Errorf("create license: %w", err)
	}

	s.logger.Info("License issued",
		zap.Int64("license_id", license.ID),
		zap.Int64("org_id", license.OrgID),
		zap.Int64("robot_id", license.RobotID),
		zap.Time("valid_until", license.ValidUntil),
	)

	return license, nil
}

// GetLicense loads a license, NotFound when missing
func (s *LicenseService) GetLicense(ctx context.Context, id int64) (*model.License, error) {
	license, err := s.licenseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get license: %w", err)
	}

	if license == nil {
		return nil, notFound(model.EntityLicense, id)
	}

	return license, nil
}

// RevokeLicense sets is_active to false. Revoking twice is not an error.
func (s *LicenseService) RevokeLicense(ctx context.Context, id int64) (*model.License, error) {
	license, err := s.GetLicense(ctx, id)
	if err != nil {
		return nil, err
	}

	ok, err := s.licenseRepo.Deactivate(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("deactivate license: %w", err)
	}

	if !ok {
		return nil, notFound(model.EntityLicense, id)
	}

	license.IsActive = false

	s.logger.Info("License revoked",
		zap.Int64("license_id", id),
		zap.Int64("robot_id", license.RobotID),
	)

	return license, nil
}

// ListNotifications returns the notification history of a license, newest first
func (s *LicenseService) ListNotifications(ctx context.Context, licenseID int64) ([]*model.LicenseNotification, error) {
	if _, err := s.GetLicense(ctx, licenseID); err != nil {
		return nil, err
	}

	notifications, err := s.notificationRepo.ListByLicense(ctx, licenseID)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}

	return notifications, nil
}

// AcknowledgeNotification marks a notification of the license as seen by an administrator
func (s *LicenseService) AcknowledgeNotification(ctx context.Context, licenseID, notificationID int64) error {
	ok, err := s.notificationRepo.Acknowledge(ctx, licenseID, notificationID)
	if err != nil {
		return fmt.Errorf("acknowledge notification: %w", err)
	}

	if !ok {
		return notFound(model.EntityNotification, notificationID)
	}

	return nil
}
