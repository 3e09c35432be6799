package service

import (
	"context"
	"fmt"

	"github.com/akshayds23/Whizrobo/internal/model"
	"go.uber.org/zap"
)

// RobotAdminService covers the administrator's view of robots
type RobotAdminService struct {
	robotRepo     RobotStore
	licenseRepo   LicenseStore
	licenseStatus *LicenseStatusService
	logger        *zap.Logger
}

func NewRobotAdminService(
	robotRepo RobotStore,
	licenseRepo LicenseStore,
	licenseStatus *LicenseStatusService,
	logger *zap.Logger,
) *RobotAdminService {
	return &RobotAdminService{
		robotRepo:     robotRepo,
		licenseRepo:   licenseRepo,
		licenseStatus: licenseStatus,
		logger:        logger,
	}
}

// ListRobots returns the robots visible to the caller with their license status.
// Superadmins see every robot, org users their organization, anyone else nothing.
func (s *RobotAdminService) ListRobots(ctx context.Context, caller *model.Caller) ([]*model.RobotOverview, error) {
	if caller == nil || caller.IsRobot() {
		return nil, accessDenied("user token required")
	}

	if !caller.IsSuperadmin && caller.OrgID == nil {
		return []*model.RobotOverview{}, nil
	}

	var orgFilter *int64
	if !caller.IsSuperadmin {
		orgFilter = caller.OrgID
	}

	robots, err := s.robotRepo.List(ctx, orgFilter)
	if err != nil {
		return nil, fmt.Errorf("list robots: %w", err)
	}

	items := make([]*model.RobotOverview, 0, len(robots))
	for _, robot := range robots {
		info, err := s.licenseStatus.ResolveStatusForRobot(ctx, robot.ID)
		if err != nil {
			return nil, fmt.Errorf("resolve license status for robot %d: %w", robot.ID, err)
		}

		item := &model.RobotOverview{
			RobotID:         robot.ID,
			RobotCode:       robot.RobotCode,
			OrgID:           robot.OrgID,
			LicenseStatus:   model.LicenseStatusRevoked,
			RefreshRequired: robot.RefreshRequired,
			LastSyncAt:      robot.LastSyncAt,
		}
		if info != nil {
			item.LicenseStatus = info.Status
			item.DaysRemaining = info.DaysRemaining
		}

		items = append(items, item)
	}

	return items, nil
}

// GetRobot loads a robot, NotFound when missing
func (s *RobotAdminService) GetRobot(ctx context.Context, robotID int64) (*model.Robot, error) {
	robot, err := s.robotRepo.GetByID(ctx, robotID)
	if err != nil {
		return nil, fmt.Errorf("get robot: %w", err)
	}

	if robot == nil {
		return nil, notFound(model.EntityRobot, robotID)
	}

	return robot, nil
}

// RequestRefresh asks the robot to do a forced reload on its next poll
func (s *RobotAdminService) RequestRefresh(ctx context.Context, robotID int64) error {
	ok, err := s.robotRepo.SetRefreshRequired(ctx, robotID, true)
	if err != nil {
		return fmt.Errorf("set refresh required: %w", err)
	}

	if !ok {
		return notFound(model.EntityRobot, robotID)
	}

	s.logger.Info("Robot refresh requested", zap.Int64("robot_id", robotID))
	return nil
}

// LockRobot revokes the robot's most recent active license, if it has one.
// Returns the revoked license id or nil.
func (s *RobotAdminService) LockRobot(ctx context.Context, robotID int64) (*int64, error) {
	if _, err := s.GetRobot(ctx, robotID); err != nil {
		return nil, err
	}

	license, err := s.licenseRepo.GetMostRecentActiveForRobot(ctx, robotID)
	if err != nil {
		return nil, fmt.Errorf("get active license: %w", err)
	}

	if license == nil {
		s.logger.Info("Robot lock requested without active license", zap.Int64("robot_id", robotID))
		return nil, nil
	}

	if _, err := s.licenseRepo.Deactivate(ctx, license.ID); err != nil {
		return nil, fmt.Errorf("deactivate license: %w", err)
	}

	s.logger.Info("Robot locked",
		zap.Int64("robot_id", robotID),
		zap.Int64("license_id", license.ID),
	)

	return &license.ID, nil
}
